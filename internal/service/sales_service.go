package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dimondice01/finalDist-sub000/internal/mapper"
	"github.com/dimondice01/finalDist-sub000/internal/model"
	"github.com/dimondice01/finalDist-sub000/internal/remote"
	"github.com/dimondice01/finalDist-sub000/internal/repository"
	ws "github.com/dimondice01/finalDist-sub000/internal/websocket"
)

// Payment methods accepted by RecordPayment.
const (
	PaymentCash     = "cash"
	PaymentTransfer = "transfer"
)

// SalesService runs the transactional inventory operations. Every stock
// mutation happens inside one remote-store transaction; effects become
// visible locally only after the next fetch or listener push, never through
// optimistic local mutation.
//
// None of these operations is idempotent: retrying a successful create would
// double-decrement stock and duplicate the sale. Callers must guarantee
// at-most-once invocation.
type SalesService struct {
	remote remote.Store
	audit  repository.AuditRepository              // optional
	hub    interface{ GetBroadcast() chan []byte } // optional websocket hub
}

func NewSalesService(store remote.Store, audit repository.AuditRepository, hub interface{ GetBroadcast() chan []byte }) *SalesService {
	return &SalesService{remote: store, audit: audit, hub: hub}
}

// CreateSaleWithStock atomically decrements stock for every line and writes
// the sale. Either all decrements and the sale commit together or nothing
// does. The sale date is assigned by the server, never the client clock.
func (s *SalesService) CreateSaleWithStock(ctx context.Context, draft model.SaleDraft) (string, error) {
	sale, err := draft.Build()
	if err != nil {
		return "", err
	}
	sale.ID = uuid.NewString()
	if sale.InvoiceNumber == "" {
		sale.InvoiceNumber = newInvoiceNumber()
	}

	err = s.remote.RunTransaction(ctx, func(tx remote.Tx) error {
		for _, line := range sale.Items {
			doc, err := tx.Get(model.CollProducts, line.ProductID)
			if errors.Is(err, remote.ErrNotFound) {
				return fmt.Errorf("product not found: %s", line.Name)
			}
			if err != nil {
				return err
			}
			stock := 0
			if p := mapper.OptionalInt(doc.Data, "stock"); p != nil {
				stock = *p
			}
			if stock < line.Quantity {
				return fmt.Errorf("insufficient stock for %s: available=%d", line.Name, stock)
			}
			tx.Update(model.CollProducts, line.ProductID, map[string]any{"stock": stock - line.Quantity})
		}
		tx.Set(model.CollSales, sale.ID, mapper.SaleData(sale, remote.ServerTimestamp))
		return nil
	})
	if err != nil {
		return "", err
	}

	s.logAudit(ctx, sale.VendorID, sale.VendorName, model.ActionCreateSale, sale.ID, map[string]any{
		"clientId":    sale.ClientID,
		"totalAmount": sale.TotalAmount,
		"items":       len(sale.Items),
		"kind":        sale.Kind,
	})
	publish(s.hub, ws.EventSaleCreated, map[string]any{"saleId": sale.ID})
	return sale.ID, nil
}

// VoidSaleWithStockRestore restores stock for the given items and marks the
// sale Voided with a zero pending balance, atomically. The sale must exist;
// a line whose product no longer exists is logged and skipped, and the void
// still completes for the remaining items (deliberate partial tolerance, not
// a retry path).
func (s *SalesService) VoidSaleWithStockRestore(ctx context.Context, saleID string, items []model.CartLine) error {
	if len(items) == 0 {
		return errors.New("no items to restore")
	}

	err := s.remote.RunTransaction(ctx, func(tx remote.Tx) error {
		if _, err := tx.Get(model.CollSales, saleID); errors.Is(err, remote.ErrNotFound) {
			return fmt.Errorf("sale not found: %s", saleID)
		} else if err != nil {
			return err
		}
		for _, line := range items {
			doc, err := tx.Get(model.CollProducts, line.ProductID)
			if errors.Is(err, remote.ErrNotFound) {
				log.Printf("void %s: product %s no longer exists, skipping stock restore", saleID, line.ProductID)
				continue
			}
			if err != nil {
				return err
			}
			stock := 0
			if p := mapper.OptionalInt(doc.Data, "stock"); p != nil {
				stock = *p
			}
			tx.Update(model.CollProducts, line.ProductID, map[string]any{"stock": stock + line.Quantity})
		}
		tx.Update(model.CollSales, saleID, map[string]any{
			"status":         model.SaleStatusVoided,
			"pendingBalance": 0,
		})
		return nil
	})
	if err != nil {
		return err
	}

	s.logAudit(ctx, "", "", model.ActionVoidSale, saleID, map[string]any{"restoredItems": len(items)})
	publish(s.hub, ws.EventSaleVoided, map[string]any{"saleId": saleID})
	return nil
}

// RecordPayment applies a payment against the sale's pending balance. The
// balance stays within [0, totalAmount]; clearing it flips the sale to Paid.
func (s *SalesService) RecordPayment(ctx context.Context, saleID string, amount float64, method string) error {
	if amount <= 0 {
		return errors.New("payment amount must be positive")
	}
	if method != PaymentCash && method != PaymentTransfer {
		return fmt.Errorf("unsupported payment method: %s", method)
	}

	err := s.remote.RunTransaction(ctx, func(tx remote.Tx) error {
		doc, err := tx.Get(model.CollSales, saleID)
		if errors.Is(err, remote.ErrNotFound) {
			return fmt.Errorf("sale not found: %s", saleID)
		}
		if err != nil {
			return err
		}
		sale := mapper.Sale(doc)
		if sale.Status == model.SaleStatusVoided {
			return errors.New("cannot record a payment on a voided sale")
		}
		if amount > sale.PendingBalance {
			return fmt.Errorf("payment exceeds pending balance: %.2f > %.2f", amount, sale.PendingBalance)
		}

		balance := sale.PendingBalance - amount
		status := model.SaleStatusOwing
		if balance == 0 {
			status = model.SaleStatusPaid
		}
		fields := map[string]any{
			"pendingBalance": balance,
			"status":         status,
			"paymentMethod":  method,
		}
		if method == PaymentCash {
			fields["cashPaid"] = sale.CashPaid + amount
		} else {
			fields["transferPaid"] = sale.TransferPaid + amount
		}
		tx.Update(model.CollSales, saleID, fields)
		return nil
	})
	if err != nil {
		return err
	}

	s.logAudit(ctx, "", "", model.ActionRecordPayment, saleID, map[string]any{"amount": amount, "method": method})
	return nil
}

// DeletePendingSale removes a sale that is still awaiting delivery. Stock is
// NOT restored: it was decremented at creation and the surrounding product
// flow relies on that observed behavior.
func (s *SalesService) DeletePendingSale(ctx context.Context, saleID string) error {
	doc, err := s.remote.Get(ctx, model.CollSales, saleID)
	if errors.Is(err, remote.ErrNotFound) {
		return fmt.Errorf("sale not found: %s", saleID)
	}
	if err != nil {
		return err
	}
	sale := mapper.Sale(doc)
	if sale.Status != model.SaleStatusPendingDelivery {
		return errors.New("only pending-delivery sales can be deleted")
	}
	if err := s.remote.Delete(ctx, model.CollSales, saleID); err != nil {
		return err
	}

	s.logAudit(ctx, sale.VendorID, sale.VendorName, model.ActionDeleteSale, saleID, map[string]any{
		"totalAmount": sale.TotalAmount,
	})
	return nil
}

func (s *SalesService) logAudit(ctx context.Context, vendorID, vendorName, action, entityID string, details map[string]any) {
	if s.audit == nil {
		return
	}
	raw, _ := json.Marshal(details)
	entry := &model.AuditLog{
		VendorID:   vendorID,
		VendorName: vendorName,
		Action:     action,
		EntityID:   entityID,
		Details:    string(raw),
	}
	if err := s.audit.Log(ctx, entry); err != nil {
		log.Printf("failed to write audit log for %s: %v", action, err)
	}
}

func newInvoiceNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("INV-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}
