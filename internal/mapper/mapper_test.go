package mapper

import (
	"testing"
	"time"

	"github.com/dimondice01/finalDist-sub000/internal/model"
	"github.com/dimondice01/finalDist-sub000/internal/remote"
)

func TestProductLegacyFields(t *testing.T) {
	doc := remote.Document{ID: "p1", Data: map[string]any{
		"nombre":             "Garrafón 20L",
		"precio":             float64(35),
		"costo":              float64(18),
		"stock":              float64(12),
		"categoriaId":        "cat1",
		"comisionEspecifica": float64(2.5),
	}}

	p := Product(doc)

	if p.ID != "p1" || p.Name != "Garrafón 20L" {
		t.Errorf("identity fields: %+v", p)
	}
	if p.UnitPrice != 35 || p.UnitCost != 18 {
		t.Errorf("price fields: %+v", p)
	}
	if p.Stock == nil || *p.Stock != 12 {
		t.Errorf("Stock = %v, want 12", p.Stock)
	}
	if p.CategoryID != "cat1" {
		t.Errorf("CategoryID = %q", p.CategoryID)
	}
	if p.SpecificCommission == nil || *p.SpecificCommission != 2.5 {
		t.Errorf("SpecificCommission = %v, want 2.5", p.SpecificCommission)
	}
}

func TestProductCanonicalBeatsLegacy(t *testing.T) {
	doc := remote.Document{ID: "p1", Data: map[string]any{
		"name":   "Canonical",
		"nombre": "Legacy",
	}}
	if got := Product(doc).Name; got != "Canonical" {
		t.Errorf("Name = %q, want the canonical spelling to win", got)
	}
}

func TestProductMissingStockIsNil(t *testing.T) {
	doc := remote.Document{ID: "p1", Data: map[string]any{"name": "X"}}
	if got := Product(doc).Stock; got != nil {
		t.Errorf("Stock = %v, want nil for absent field", got)
	}
}

func TestSaleLegacyStatusAndFields(t *testing.T) {
	doc := remote.Document{ID: "s1", Data: map[string]any{
		"clienteId":      "c1",
		"clienteNombre":  "Tienda Lupita",
		"vendedorId":     "v1",
		"totalVenta":     float64(350),
		"saldoPendiente": float64(120),
		"folio":          "INV-20240101-AAAA1111",
		"estado":         "Pendiente",
		"fecha":          "2024-01-15T10:30:00Z",
		"items": []any{
			map[string]any{"productoId": "p1", "nombre": "Garrafón", "precio": float64(35), "cantidad": float64(10)},
		},
	}}

	s := Sale(doc)

	if s.ClientID != "c1" || s.ClientName != "Tienda Lupita" || s.VendorID != "v1" {
		t.Errorf("legacy identity fields: %+v", s)
	}
	if s.TotalAmount != 350 || s.PendingBalance != 120 {
		t.Errorf("legacy amount fields: %+v", s)
	}
	if s.InvoiceNumber != "INV-20240101-AAAA1111" {
		t.Errorf("InvoiceNumber = %q", s.InvoiceNumber)
	}
	if s.Status != model.SaleStatusPendingDelivery {
		t.Errorf("Status = %q, want legacy Pendiente remapped to %q", s.Status, model.SaleStatusPendingDelivery)
	}
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	if !s.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", s.Date, want)
	}
	if len(s.Items) != 1 {
		t.Fatalf("Items = %+v", s.Items)
	}
	line := s.Items[0]
	if line.ProductID != "p1" || line.UnitPrice != 35 || line.Quantity != 10 {
		t.Errorf("line = %+v", line)
	}
	// Normalization ran: absent original price defaults to unit price.
	if line.OriginalUnitPrice != 35 {
		t.Errorf("OriginalUnitPrice = %v, want 35", line.OriginalUnitPrice)
	}
	if s.PerItemDiscounts == nil {
		t.Error("PerItemDiscounts is nil after Normalize")
	}
}

func TestVendorLegacyZones(t *testing.T) {
	doc := remote.Document{ID: "v1", Data: map[string]any{
		"nombre":   "Juan",
		"rango":    model.RankSeller,
		"zonas":    []any{"z1", "z2"},
		"comision": float64(0.08),
	}}

	v := Vendor(doc)

	if v.Rank != model.RankSeller || v.GeneralCommissionRate != 0.08 {
		t.Errorf("vendor = %+v", v)
	}
	if len(v.AssignedZoneIDs) != 2 || v.AssignedZoneIDs[0] != "z1" {
		t.Errorf("AssignedZoneIDs = %v", v.AssignedZoneIDs)
	}
}

func TestPromotionSingularProductID(t *testing.T) {
	// Old promotions carried one product under a singular key.
	doc := remote.Document{ID: "pr1", Data: map[string]any{
		"tipo":           model.PromoBuyXPayY,
		"productoId":     "p1",
		"cantidadMinima": float64(3),
		"cantidadPagar":  float64(2),
	}}

	p := Promotion(doc)

	if len(p.ProductIDs) != 1 || p.ProductIDs[0] != "p1" {
		t.Errorf("ProductIDs = %v, want [p1]", p.ProductIDs)
	}
	if p.MinQuantity != 3 || p.PayQuantity != 2 {
		t.Errorf("quantities = %d/%d", p.MinQuantity, p.PayQuantity)
	}
}

func TestTimeStrictISO(t *testing.T) {
	tests := []struct {
		raw    string
		wantOK bool
	}{
		{"2024-01-15T10:30:00Z", true},
		{"2024-01-15T10:30:00.123Z", true},
		{"2024-01-15 10:30:00", false},
		{"15/01/2024", false},
		{"", false},
	}
	for _, tt := range tests {
		d := map[string]any{"date": tt.raw}
		got := Time(d, "date")
		if tt.wantOK == got.IsZero() {
			t.Errorf("Time(%q) = %v, wantOK=%v", tt.raw, got, tt.wantOK)
		}
	}

	// Already-revived values pass through untouched.
	now := time.Now().UTC()
	if got := Time(map[string]any{"date": now}, "date"); !got.Equal(now) {
		t.Errorf("Time(time.Time) = %v, want %v", got, now)
	}
}

func TestSaleDataRoundTrip(t *testing.T) {
	override := 1.5
	sale := model.Sale{
		ID:             "s1",
		ClientID:       "c1",
		VendorID:       "v1",
		Status:         model.SaleStatusOwing,
		Kind:           model.SaleKindSale,
		TotalAmount:    100,
		PendingBalance: 40,
		Items: []model.CartLine{
			{ProductID: "p1", UnitPrice: 50, OriginalUnitPrice: 50, Quantity: 2, SpecificCommission: &override},
		},
		PerItemDiscounts: map[string]float64{"p1": 10},
	}

	data := SaleData(sale, remote.ServerTimestamp)

	// Only canonical names go out.
	for _, legacy := range []string{"clienteId", "totalVenta", "saldoPendiente", "estado", "fecha"} {
		if _, ok := data[legacy]; ok {
			t.Errorf("SaleData wrote legacy key %q", legacy)
		}
	}
	if data["clientId"] != "c1" || data["pendingBalance"] != 40.0 {
		t.Errorf("data = %+v", data)
	}
	if data["date"] != remote.ServerTimestamp {
		t.Errorf("date = %v, want the server-timestamp sentinel", data["date"])
	}

	got := Sale(remote.Document{ID: "s1", Data: data})
	if got.ClientID != sale.ClientID || got.PendingBalance != sale.PendingBalance || got.Status != sale.Status {
		t.Errorf("round trip = %+v", got)
	}
	if len(got.Items) != 1 || got.Items[0].SpecificCommission == nil || *got.Items[0].SpecificCommission != 1.5 {
		t.Errorf("round trip items = %+v", got.Items)
	}
	if got.PerItemDiscounts["p1"] != 10 {
		t.Errorf("round trip discounts = %v", got.PerItemDiscounts)
	}
}
