package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dimondice01/finalDist-sub000/internal/model"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestComputeTotalsBuyXPayY(t *testing.T) {
	cart := []model.CartLine{
		{ProductID: "p1", Name: "Water 20L", UnitPrice: 100, UnitCost: 60, Quantity: 7},
	}
	promos := []model.Promotion{
		{
			ID:          "promo1",
			Kind:        model.PromoBuyXPayY,
			Status:      model.PromotionActive,
			ProductIDs:  []string{"p1"},
			MinQuantity: 3,
			PayQuantity: 2,
		},
	}

	got := ComputeTotals(cart, promos, "c1", 0)

	// 7 units at 100: two full batches of 3, one free unit each.
	if !got.Subtotal.Equal(dec(700)) {
		t.Errorf("Subtotal = %s, want 700", got.Subtotal)
	}
	if !got.TotalDiscount.Equal(dec(200)) {
		t.Errorf("TotalDiscount = %s, want 200", got.TotalDiscount)
	}
	if !got.FinalTotal.Equal(dec(500)) {
		t.Errorf("FinalTotal = %s, want 500", got.FinalTotal)
	}
	if line, ok := got.LinesWithDiscount["p1"]; !ok || !line.Equal(dec(200)) {
		t.Errorf("LinesWithDiscount[p1] = %s, want 200", line)
	}
}

func TestComputeTotalsBuyXPayYBelowThreshold(t *testing.T) {
	cart := []model.CartLine{
		{ProductID: "p1", UnitPrice: 100, Quantity: 2},
	}
	promos := []model.Promotion{
		{ID: "promo1", Kind: model.PromoBuyXPayY, ProductIDs: []string{"p1"}, MinQuantity: 3, PayQuantity: 2},
	}

	got := ComputeTotals(cart, promos, "c1", 0)

	if !got.TotalDiscount.IsZero() {
		t.Errorf("TotalDiscount = %s, want 0", got.TotalDiscount)
	}
	if !got.FinalTotal.Equal(dec(200)) {
		t.Errorf("FinalTotal = %s, want 200", got.FinalTotal)
	}
	if len(got.LinesWithDiscount) != 0 {
		t.Errorf("LinesWithDiscount = %v, want empty", got.LinesWithDiscount)
	}
}

func TestComputeTotalsFirstMatchWins(t *testing.T) {
	cart := []model.CartLine{
		{ProductID: "p1", UnitPrice: 100, Quantity: 6},
	}
	// Both match; only the first applies, even though the second is better.
	promos := []model.Promotion{
		{ID: "a", Kind: model.PromoQuantityPercent, ProductIDs: []string{"p1"}, MinQuantity: 5, DiscountPercent: 10},
		{ID: "b", Kind: model.PromoBuyXPayY, ProductIDs: []string{"p1"}, MinQuantity: 3, PayQuantity: 2},
	}

	got := ComputeTotals(cart, promos, "c1", 0)

	if !got.TotalDiscount.Equal(dec(60)) {
		t.Errorf("TotalDiscount = %s, want 60 (10%% of 600, not the nxm discount)", got.TotalDiscount)
	}
}

func TestComputeTotalsPercentBounds(t *testing.T) {
	cart := []model.CartLine{{ProductID: "p1", UnitPrice: 50, Quantity: 5}}

	for _, pct := range []float64{0, -10, 101} {
		promos := []model.Promotion{
			{ID: "a", Kind: model.PromoQuantityPercent, ProductIDs: []string{"p1"}, MinQuantity: 5, DiscountPercent: pct},
		}
		got := ComputeTotals(cart, promos, "c1", 0)
		if !got.TotalDiscount.IsZero() {
			t.Errorf("pct=%v: TotalDiscount = %s, want 0", pct, got.TotalDiscount)
		}
	}
}

func TestComputeTotalsClientScope(t *testing.T) {
	cart := []model.CartLine{{ProductID: "p1", UnitPrice: 100, Quantity: 4}}
	promos := []model.Promotion{
		{ID: "a", Kind: model.PromoQuantityPercent, ProductIDs: []string{"p1"}, ClientIDs: []string{"vip"}, MinQuantity: 2, DiscountPercent: 50},
	}

	if got := ComputeTotals(cart, promos, "other", 0); !got.TotalDiscount.IsZero() {
		t.Errorf("non-listed client got discount %s", got.TotalDiscount)
	}
	if got := ComputeTotals(cart, promos, "vip", 0); !got.TotalDiscount.Equal(dec(200)) {
		t.Errorf("vip client discount = %s, want 200", got.TotalDiscount)
	}
}

func TestComputeTotalsSpecialPriceDiscount(t *testing.T) {
	// The special price is already netted into UnitPrice; the engine only
	// reports the difference as discount.
	cart := []model.CartLine{
		{ProductID: "p1", UnitPrice: 100, OriginalUnitPrice: 120, Quantity: 2},
	}

	got := ComputeTotals(cart, nil, "c1", 0)

	if !got.Subtotal.Equal(dec(200)) {
		t.Errorf("Subtotal = %s, want 200 (post-special-price)", got.Subtotal)
	}
	if !got.TotalDiscount.Equal(dec(40)) {
		t.Errorf("TotalDiscount = %s, want 40", got.TotalDiscount)
	}
	if !got.FinalTotal.Equal(dec(200)) {
		t.Errorf("FinalTotal = %s, want 200 (special price never re-subtracted)", got.FinalTotal)
	}
}

func TestLineCommissionPolicy(t *testing.T) {
	override := 5.0

	tests := []struct {
		name string
		line model.CartLine
		rate float64
		want decimal.Decimal
	}{
		{
			name: "specific override beats rate",
			line: model.CartLine{UnitPrice: 100, UnitCost: 60, Quantity: 2, SpecificCommission: &override},
			rate: 0.1,
			want: dec(10),
		},
		{
			name: "margin based when cost known",
			line: model.CartLine{UnitPrice: 100, UnitCost: 60, Quantity: 2},
			rate: 0.1,
			want: dec(8),
		},
		{
			name: "price based when cost unknown",
			line: model.CartLine{UnitPrice: 100, Quantity: 2},
			rate: 0.1,
			want: dec(20),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals([]model.CartLine{tt.line}, nil, "c1", tt.rate)
			if !got.TotalCommission.Equal(tt.want) {
				t.Errorf("TotalCommission = %s, want %s", got.TotalCommission, tt.want)
			}
		})
	}
}

func TestCommissionNotReducedByTierDiscount(t *testing.T) {
	cart := []model.CartLine{
		{ProductID: "p1", UnitPrice: 100, UnitCost: 60, Quantity: 3},
	}
	promos := []model.Promotion{
		{ID: "a", Kind: model.PromoBuyXPayY, ProductIDs: []string{"p1"}, MinQuantity: 3, PayQuantity: 2},
	}

	got := ComputeTotals(cart, promos, "c1", 0.1)

	// Commission on the full 3 units despite one being free.
	if !got.TotalCommission.Equal(dec(12)) {
		t.Errorf("TotalCommission = %s, want 12", got.TotalCommission)
	}
	if !got.FinalTotal.Equal(dec(200)) {
		t.Errorf("FinalTotal = %s, want 200", got.FinalTotal)
	}
}
