// Package mapper is the single place where inconsistent remote field names
// are reconciled into the canonical model shape. Each entity has one mapping
// function; legacy aliases never leak past this boundary.
package mapper

import (
	"time"

	"github.com/dimondice01/finalDist-sub000/internal/model"
	"github.com/dimondice01/finalDist-sub000/internal/remote"
)

// Legacy status value still present on old sale documents.
const legacySaleStatusPending = "Pendiente"

// Product maps a product document; the id is merged from the document key.
func Product(doc remote.Document) model.Product {
	d := doc.Data
	return model.Product{
		ID:                 doc.ID,
		Name:               Str(d, "name", "nombre"),
		UnitPrice:          Float(d, "unitPrice", "precio"),
		UnitCost:           Float(d, "unitCost", "costo"),
		Stock:              OptionalInt(d, "stock"),
		CategoryID:         Str(d, "categoryId", "categoriaId"),
		SpecificCommission: OptionalFloat(d, "specificCommission", "comisionEspecifica"),
	}
}

func Category(doc remote.Document) model.Category {
	return model.Category{ID: doc.ID, Name: Str(doc.Data, "name", "nombre")}
}

func Zone(doc remote.Document) model.Zone {
	return model.Zone{ID: doc.ID, Name: Str(doc.Data, "name", "nombre")}
}

func Vendor(doc remote.Document) model.Vendor {
	d := doc.Data
	return model.Vendor{
		ID:                    doc.ID,
		Name:                  Str(d, "name", "nombre"),
		Email:                 Str(d, "email"),
		Rank:                  Str(d, "rank", "rango"),
		AssignedZoneIDs:       StrSlice(d, "assignedZoneIds", "zonas"),
		GeneralCommissionRate: Float(d, "generalCommissionRate", "comision"),
		AuthUID:               Str(d, "authUid"),
		PasswordHash:          Str(d, "passwordHash"),
	}
}

func Client(doc remote.Document) model.Client {
	d := doc.Data
	return model.Client{
		ID:           doc.ID,
		Name:         Str(d, "name", "nombre"),
		FullName:     Str(d, "fullName", "nombreCompleto"),
		Street:       Str(d, "street", "calle"),
		Neighborhood: Str(d, "neighborhood", "colonia"),
		Locality:     Str(d, "locality", "localidad"),
		Phone:        Str(d, "phone", "telefono"),
		Email:        Str(d, "email"),
		ZoneID:       Str(d, "zoneId", "zonaId"),
		VendorID:     Str(d, "vendorId", "vendedorId"),
		Latitude:     OptionalFloat(d, "latitude", "lat"),
		Longitude:    OptionalFloat(d, "longitude", "lng"),
		CreatedAt:    Time(d, "createdAt", "fechaCreacion"),
	}
}

// Promotion reconciles the two legacy spellings for the display name and the
// singular-vs-plural product reference.
func Promotion(doc remote.Document) model.Promotion {
	d := doc.Data
	return model.Promotion{
		ID:              doc.ID,
		Name:            Str(d, "name", "nombre"),
		Status:          Str(d, "status", "estado"),
		Kind:            Str(d, "kind", "tipo"),
		ProductIDs:      StrSlice(d, "applicableProductIds", "productIds", "productId", "productoId"),
		ClientIDs:       StrSlice(d, "applicableClientIds", "clientIds"),
		MinQuantity:     Int(d, "minQuantity", "cantidadMinima"),
		PayQuantity:     Int(d, "payQuantity", "cantidadPagar"),
		SpecialPrice:    Float(d, "specialPrice", "precioEspecial"),
		DiscountPercent: Float(d, "discountPercent", "porcentaje"),
	}
}

// Sale reconciles the legacy field pairs old documents still carry and applies
// the standard normalization pass (discount map, original unit prices).
func Sale(doc remote.Document) model.Sale {
	d := doc.Data
	status := Str(d, "status", "estado")
	if status == legacySaleStatusPending {
		status = model.SaleStatusPendingDelivery
	}

	sale := model.Sale{
		ID:                     doc.ID,
		ClientID:               Str(d, "clientId", "clienteId"),
		ClientName:             Str(d, "clientName", "clienteNombre"),
		VendorID:               Str(d, "vendorId", "vendedorId"),
		VendorName:             Str(d, "vendorName", "vendedorNombre"),
		Items:                  cartLines(d["items"]),
		TotalAmount:            Float(d, "totalAmount", "totalVenta"),
		TotalCost:              Float(d, "totalCost"),
		TotalCommission:        Float(d, "totalCommission"),
		Notes:                  Str(d, "notes", "notas"),
		Status:                 status,
		Kind:                   Str(d, "kind", "tipo"),
		Date:                   Time(d, "date", "fecha"),
		PendingBalance:         Float(d, "pendingBalance", "saldoPendiente"),
		PaymentMethod:          Str(d, "paymentMethod", "metodoPago"),
		InvoiceNumber:          Str(d, "invoiceNumber", "folio"),
		TotalPromotionDiscount: Float(d, "totalPromotionDiscount"),
		CashPaid:               Float(d, "cashPaid", "efectivo"),
		TransferPaid:           Float(d, "transferPaid", "transferencia"),
		PerItemDiscounts:       FloatMap(d, "perItemDiscounts", "itemDiscounts"),
	}
	sale.Normalize()
	return sale
}

func cartLines(v any) []model.CartLine {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	lines := make([]model.CartLine, 0, len(raw))
	for _, e := range raw {
		d, ok := e.(map[string]any)
		if !ok {
			continue
		}
		lines = append(lines, model.CartLine{
			ProductID:          Str(d, "productId", "productoId"),
			Name:               Str(d, "name", "nombre"),
			UnitPrice:          Float(d, "unitPrice", "precio"),
			OriginalUnitPrice:  Float(d, "originalUnitPrice", "precioOriginal"),
			UnitCost:           Float(d, "unitCost", "costo"),
			Quantity:           Int(d, "quantity", "cantidad"),
			CommissionAmount:   Float(d, "commissionAmount", "comision"),
			SpecificCommission: OptionalFloat(d, "specificCommission"),
		})
	}
	return lines
}

// Route normalizes the route date across its two legacy sources.
func Route(doc remote.Document) model.Route {
	d := doc.Data
	var stops []model.RouteStop
	if raw, ok := d["stops"].([]any); ok {
		for _, e := range raw {
			sd, ok := e.(map[string]any)
			if !ok {
				continue
			}
			stops = append(stops, model.RouteStop{
				SaleID:      Str(sd, "saleId", "ventaId"),
				ClientID:    Str(sd, "clientId", "clienteId"),
				ClientName:  Str(sd, "clientName", "clienteNombre"),
				Address:     Str(sd, "address", "direccion"),
				TotalAmount: Float(sd, "totalAmount", "total"),
				VisitStatus: Str(sd, "visitStatus", "estadoVisita"),
			})
		}
	}
	return model.Route{
		ID:       doc.ID,
		DriverID: Str(d, "assignedDriverId", "repartidorId"),
		Date:     Time(d, "date", "fecha"),
		Status:   Str(d, "status", "estado"),
		Stops:    stops,
	}
}

// SaleData encodes a sale for writing, always under the canonical field names.
// The date is the caller's concern: the transactional create passes the
// server-timestamp sentinel instead of a client clock.
func SaleData(sale model.Sale, date any) map[string]any {
	items := make([]any, 0, len(sale.Items))
	for _, it := range sale.Items {
		line := map[string]any{
			"productId":         it.ProductID,
			"name":              it.Name,
			"unitPrice":         it.UnitPrice,
			"originalUnitPrice": it.OriginalUnitPrice,
			"unitCost":          it.UnitCost,
			"quantity":          it.Quantity,
			"commissionAmount":  it.CommissionAmount,
		}
		if it.SpecificCommission != nil {
			line["specificCommission"] = *it.SpecificCommission
		}
		items = append(items, line)
	}
	discounts := make(map[string]any, len(sale.PerItemDiscounts))
	for k, v := range sale.PerItemDiscounts {
		discounts[k] = v
	}
	return map[string]any{
		"clientId":               sale.ClientID,
		"clientName":             sale.ClientName,
		"vendorId":               sale.VendorID,
		"vendorName":             sale.VendorName,
		"items":                  items,
		"totalAmount":            sale.TotalAmount,
		"totalCost":              sale.TotalCost,
		"totalCommission":        sale.TotalCommission,
		"notes":                  sale.Notes,
		"status":                 sale.Status,
		"kind":                   sale.Kind,
		"date":                   date,
		"pendingBalance":         sale.PendingBalance,
		"paymentMethod":          sale.PaymentMethod,
		"invoiceNumber":          sale.InvoiceNumber,
		"totalPromotionDiscount": sale.TotalPromotionDiscount,
		"cashPaid":               sale.CashPaid,
		"transferPaid":           sale.TransferPaid,
		"perItemDiscounts":       discounts,
	}
}

// ReviveTime is exported for callers that hold a raw value rather than a
// document (listener pushes, snapshot checks).
func ReviveTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if isoTimestamp.MatchString(t) {
			if parsed, err := time.Parse(time.RFC3339, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}
