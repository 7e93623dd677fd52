package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateSale    = "CREATE_SALE"
	ActionVoidSale      = "VOID_SALE"
	ActionRecordPayment = "RECORD_PAYMENT"
	ActionDeleteSale    = "DELETE_PENDING_SALE"
	ActionFullSync      = "FULL_SYNC"
)

// AuditLog tracks Who, What, and When for critical system changes. Identity is
// the vendor document id; there is no relational user table to join against.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VendorID   string    `gorm:"type:varchar(128);index" json:"vendor_id"`
	VendorName string    `gorm:"type:varchar(255)" json:"vendor_name"`
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string    `gorm:"type:varchar(128);index" json:"entity_id"`
	Details    string    `gorm:"type:jsonb" json:"details"` // Serialized JSON payload of the action
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
