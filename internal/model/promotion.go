package model

// Promotion status values
const (
	PromotionActive   = "active"
	PromotionInactive = "inactive"
)

// Recognized promotion kinds. Kind is a free-text tag in the remote store;
// anything else is carried but never applied by the pricing engine.
const (
	PromoSpecialPrice    = "precio-especial"    // overrides unit price for eligible clients
	PromoBuyXPayY        = "nxm"                // buy X, pay Y (free units)
	PromoQuantityPercent = "descuento-cantidad" // percent off above a minimum quantity
)

// Promotion describes a discount rule. An empty ClientIDs list means the
// promotion applies to every client.
type Promotion struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Status          string   `json:"status"`
	Kind            string   `json:"kind"`
	ProductIDs      []string `json:"applicableProductIds"`
	ClientIDs       []string `json:"applicableClientIds,omitempty"`
	MinQuantity     int      `json:"minQuantity,omitempty"`     // condition: minimum purchased quantity (X in buy-X-pay-Y)
	PayQuantity     int      `json:"payQuantity,omitempty"`     // benefit: units actually charged (Y in buy-X-pay-Y)
	SpecialPrice    float64  `json:"specialPrice,omitempty"`    // benefit: overridden unit price
	DiscountPercent float64  `json:"discountPercent,omitempty"` // benefit: percent off
}

// AppliesToProduct reports whether the promotion references the given product.
func (p Promotion) AppliesToProduct(productID string) bool {
	for _, id := range p.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// AppliesToClient reports whether the promotion covers the given client.
// An empty or absent client list applies to everyone.
func (p Promotion) AppliesToClient(clientID string) bool {
	if len(p.ClientIDs) == 0 {
		return true
	}
	for _, id := range p.ClientIDs {
		if id == clientID {
			return true
		}
	}
	return false
}
