package model

import "time"

// Client is a customer on a sales route. Created by an external flow and
// read-only to this core.
type Client struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	FullName     string    `json:"fullName"`
	Street       string    `json:"street"`
	Neighborhood string    `json:"neighborhood"`
	Locality     string    `json:"locality"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	ZoneID       string    `json:"zoneId"`
	VendorID     string    `json:"vendorId"` // assigned vendor
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
