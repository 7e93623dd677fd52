package model

import "time"

// Sale status values. While a sale is not Voided, PendingBalance stays within
// [0, TotalAmount]; voiding forces it to zero.
const (
	SaleStatusPaid            = "Paid"
	SaleStatusOwing           = "Owing"
	SaleStatusPendingDelivery = "PendingDelivery"
	SaleStatusOutForDelivery  = "OutForDelivery"
	SaleStatusVoided          = "Voided"
)

// Sale kind values
const (
	SaleKindSale    = "sale"
	SaleKindRestock = "restock"
)

// CartLine is a denormalized copy of a product at the time of sale. UnitPrice
// is the post-promotion price; OriginalUnitPrice keeps the pre-promotion price
// (zero means absent, normalized to UnitPrice on load). UnitCost and the
// commission override ride along so totals can be recomputed without the
// product document.
type CartLine struct {
	ProductID          string   `json:"productId"`
	Name               string   `json:"name"`
	UnitPrice          float64  `json:"unitPrice"`
	OriginalUnitPrice  float64  `json:"originalUnitPrice,omitempty"`
	UnitCost           float64  `json:"unitCost"`
	Quantity           int      `json:"quantity"`
	CommissionAmount   float64  `json:"commissionAmount"`
	SpecificCommission *float64 `json:"specificCommission,omitempty"`
}

// Sale is the transactional record of a cart sold to a client. Client and
// vendor names are denormalized so historic sales survive later edits.
type Sale struct {
	ID                     string             `json:"id"`
	ClientID               string             `json:"clientId"`
	ClientName             string             `json:"clientName"`
	VendorID               string             `json:"vendorId"`
	VendorName             string             `json:"vendorName"`
	Items                  []CartLine         `json:"items"`
	TotalAmount            float64            `json:"totalAmount"`
	TotalCost              float64            `json:"totalCost"`
	TotalCommission        float64            `json:"totalCommission"`
	Notes                  string             `json:"notes,omitempty"`
	Status                 string             `json:"status"`
	Kind                   string             `json:"kind"`
	Date                   time.Time          `json:"date"`
	PendingBalance         float64            `json:"pendingBalance"`
	PaymentMethod          string             `json:"paymentMethod,omitempty"`
	InvoiceNumber          string             `json:"invoiceNumber,omitempty"`
	TotalPromotionDiscount float64            `json:"totalPromotionDiscount"`
	CashPaid               float64            `json:"cashPaid"`
	TransferPaid           float64            `json:"transferPaid"`
	PerItemDiscounts       map[string]float64 `json:"perItemDiscounts"`
}

// Normalize repairs a sale loaded from storage: PerItemDiscounts is never nil
// and every line's OriginalUnitPrice defaults to its UnitPrice when absent.
func (s *Sale) Normalize() {
	if s.PerItemDiscounts == nil {
		s.PerItemDiscounts = map[string]float64{}
	}
	for i := range s.Items {
		if s.Items[i].OriginalUnitPrice == 0 {
			s.Items[i].OriginalUnitPrice = s.Items[i].UnitPrice
		}
	}
}
