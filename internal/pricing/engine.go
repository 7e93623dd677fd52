// Package pricing computes order totals, promotion discounts and commissions.
// Everything here is pure: state in, totals out.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/dimondice01/finalDist-sub000/internal/model"
)

// Totals is the derived result for one cart.
type Totals struct {
	Subtotal          decimal.Decimal            `json:"subtotal"`
	TotalCommission   decimal.Decimal            `json:"totalCommission"`
	TotalCost         decimal.Decimal            `json:"totalCost"`
	FinalTotal        decimal.Decimal            `json:"finalTotal"`
	TotalDiscount     decimal.Decimal            `json:"totalDiscount"`
	LinesWithDiscount map[string]decimal.Decimal `json:"linesWithDiscount"`
}

// ComputeTotals derives order totals for a cart.
//
// Per line, in order: the special-price discount (originalUnitPrice already
// netted into unitPrice), then the first matching quantity-tier promotion
// (no stacking, no best-of — first match wins), then the commission. The
// subtotal is post-special-price and pre-tier-discount; tier discounts are
// netted at order level. Commission is intentionally not reduced by tier
// discounts.
func ComputeTotals(cart []model.CartLine, promotions []model.Promotion, clientID string, vendorRate float64) Totals {
	t := Totals{
		Subtotal:          decimal.Zero,
		TotalCommission:   decimal.Zero,
		TotalCost:         decimal.Zero,
		FinalTotal:        decimal.Zero,
		TotalDiscount:     decimal.Zero,
		LinesWithDiscount: map[string]decimal.Decimal{},
	}
	rate := decimal.NewFromFloat(vendorRate)
	tierTotal := decimal.Zero

	for _, line := range cart {
		qty := decimal.NewFromInt(int64(line.Quantity))
		unit := decimal.NewFromFloat(line.UnitPrice)
		cost := decimal.NewFromFloat(line.UnitCost)

		t.Subtotal = t.Subtotal.Add(unit.Mul(qty))
		t.TotalCost = t.TotalCost.Add(cost.Mul(qty))

		if line.OriginalUnitPrice > line.UnitPrice {
			orig := decimal.NewFromFloat(line.OriginalUnitPrice)
			t.TotalDiscount = t.TotalDiscount.Add(orig.Sub(unit).Mul(qty))
		}

		if tier := tierDiscount(line, promotions, clientID); tier.IsPositive() {
			tierTotal = tierTotal.Add(tier)
			t.TotalDiscount = t.TotalDiscount.Add(tier)
			t.LinesWithDiscount[line.ProductID] = tier
		}

		t.TotalCommission = t.TotalCommission.Add(lineCommission(line, rate))
	}

	t.FinalTotal = t.Subtotal.Sub(tierTotal)
	return t
}

// tierDiscount evaluates the first quantity-tier promotion matching the line.
func tierDiscount(line model.CartLine, promotions []model.Promotion, clientID string) decimal.Decimal {
	for _, promo := range promotions {
		if promo.Kind != model.PromoBuyXPayY && promo.Kind != model.PromoQuantityPercent {
			continue
		}
		if !promo.AppliesToProduct(line.ProductID) || !promo.AppliesToClient(clientID) {
			continue
		}
		if promo.MinQuantity <= 0 {
			continue
		}
		// First match wins: later promotions never stack or compete.
		return applyTier(line, promo)
	}
	return decimal.Zero
}

func applyTier(line model.CartLine, promo model.Promotion) decimal.Decimal {
	unit := decimal.NewFromFloat(line.UnitPrice)
	switch promo.Kind {
	case model.PromoBuyXPayY:
		if line.Quantity < promo.MinQuantity {
			return decimal.Zero
		}
		freePerBatch := promo.MinQuantity - promo.PayQuantity
		if freePerBatch <= 0 {
			return decimal.Zero
		}
		batches := line.Quantity / promo.MinQuantity
		return unit.Mul(decimal.NewFromInt(int64(batches * freePerBatch)))
	case model.PromoQuantityPercent:
		if line.Quantity < promo.MinQuantity {
			return decimal.Zero
		}
		if promo.DiscountPercent <= 0 || promo.DiscountPercent > 100 {
			return decimal.Zero
		}
		qty := decimal.NewFromInt(int64(line.Quantity))
		pct := decimal.NewFromFloat(promo.DiscountPercent).Div(decimal.NewFromInt(100))
		return unit.Mul(qty).Mul(pct)
	}
	return decimal.Zero
}

// lineCommission follows the vendor commission policy: a specific per-unit
// override beats the general rate; with no override the rate applies to the
// price/cost margin, or to the bare price when the cost is zero or unknown.
func lineCommission(line model.CartLine, rate decimal.Decimal) decimal.Decimal {
	qty := decimal.NewFromInt(int64(line.Quantity))
	if line.SpecificCommission != nil {
		return decimal.NewFromFloat(*line.SpecificCommission).Mul(qty)
	}
	unit := decimal.NewFromFloat(line.UnitPrice)
	cost := decimal.NewFromFloat(line.UnitCost)
	if line.UnitPrice > 0 && line.UnitCost > 0 {
		return unit.Sub(cost).Mul(rate).Mul(qty)
	}
	return unit.Mul(rate).Mul(qty)
}
