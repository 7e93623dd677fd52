package model

import "time"

// Route status values
const (
	RouteStatusCreated    = "Created"
	RouteStatusInProgress = "InProgress"
	RouteStatusCompleted  = "Completed"
)

// Stop visit status values
const (
	StopPending   = "Pending"
	StopVisited   = "Visited"
	StopDelivered = "Delivered"
	StopSkipped   = "Skipped"
)

// RouteStop is a single client visit within a delivery route, carrying a
// denormalized sale summary.
type RouteStop struct {
	SaleID      string  `json:"saleId"`
	ClientID    string  `json:"clientId"`
	ClientName  string  `json:"clientName"`
	Address     string  `json:"address"`
	TotalAmount float64 `json:"totalAmount"`
	VisitStatus string  `json:"visitStatus"`
}

// Route is a day's delivery plan for one driver.
type Route struct {
	ID       string      `json:"id"`
	DriverID string      `json:"assignedDriverId"`
	Date     time.Time   `json:"date"`
	Status   string      `json:"status"`
	Stops    []RouteStop `json:"stops"`
}
