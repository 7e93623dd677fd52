package model

import "errors"

// SaleDraft is the tagged input for the transactional sale creation. Kind
// selects the variant (sale vs restock); Build validates the required fields
// before anything touches the remote store.
type SaleDraft struct {
	Kind                   string             `json:"kind"`
	ClientID               string             `json:"clientId"`
	ClientName             string             `json:"clientName"`
	VendorID               string             `json:"vendorId"`
	VendorName             string             `json:"vendorName"`
	Items                  []CartLine         `json:"items"`
	Notes                  string             `json:"notes"`
	Status                 string             `json:"status"`
	PaymentMethod          string             `json:"paymentMethod"`
	PendingBalance         float64            `json:"pendingBalance"`
	CashPaid               float64            `json:"cashPaid"`
	TransferPaid           float64            `json:"transferPaid"`
	TotalAmount            float64            `json:"totalAmount"`
	TotalCost              float64            `json:"totalCost"`
	TotalCommission        float64            `json:"totalCommission"`
	TotalPromotionDiscount float64            `json:"totalPromotionDiscount"`
	PerItemDiscounts       map[string]float64 `json:"perItemDiscounts"`
}

var (
	ErrNoItems        = errors.New("sale has no items")
	ErrNoClient       = errors.New("sale requires a client")
	ErrNoVendor       = errors.New("sale requires a vendor")
	ErrInvalidKind    = errors.New("invalid sale kind")
	ErrInvalidStatus  = errors.New("invalid sale status")
	ErrInvalidBalance = errors.New("pending balance must be within [0, total amount]")
)

// Build validates the draft and produces the Sale to be written. ID and Date
// are left empty; the transactional create assigns them (Date always comes
// from the server clock).
func (d SaleDraft) Build() (Sale, error) {
	if d.Kind == "" {
		d.Kind = SaleKindSale
	}
	if d.Kind != SaleKindSale && d.Kind != SaleKindRestock {
		return Sale{}, ErrInvalidKind
	}
	if len(d.Items) == 0 {
		return Sale{}, ErrNoItems
	}
	if d.Kind == SaleKindSale && d.ClientID == "" {
		return Sale{}, ErrNoClient
	}
	if d.VendorID == "" {
		return Sale{}, ErrNoVendor
	}
	for _, it := range d.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return Sale{}, ErrNoItems
		}
	}
	status := d.Status
	if status == "" {
		status = SaleStatusPaid
	}
	switch status {
	case SaleStatusPaid, SaleStatusOwing, SaleStatusPendingDelivery, SaleStatusOutForDelivery:
	default:
		return Sale{}, ErrInvalidStatus
	}
	if d.PendingBalance < 0 || d.PendingBalance > d.TotalAmount {
		return Sale{}, ErrInvalidBalance
	}
	discounts := d.PerItemDiscounts
	if discounts == nil {
		discounts = map[string]float64{}
	}
	lineIDs := make(map[string]bool, len(d.Items))
	for _, it := range d.Items {
		lineIDs[it.ProductID] = true
	}
	for id := range discounts {
		if !lineIDs[id] {
			return Sale{}, errors.New("per-item discount references an unknown line: " + id)
		}
	}

	sale := Sale{
		ClientID:               d.ClientID,
		ClientName:             d.ClientName,
		VendorID:               d.VendorID,
		VendorName:             d.VendorName,
		Items:                  d.Items,
		TotalAmount:            d.TotalAmount,
		TotalCost:              d.TotalCost,
		TotalCommission:        d.TotalCommission,
		Notes:                  d.Notes,
		Status:                 status,
		Kind:                   d.Kind,
		PendingBalance:         d.PendingBalance,
		PaymentMethod:          d.PaymentMethod,
		TotalPromotionDiscount: d.TotalPromotionDiscount,
		CashPaid:               d.CashPaid,
		TransferPaid:           d.TransferPaid,
		PerItemDiscounts:       discounts,
	}
	sale.Normalize()
	return sale, nil
}
