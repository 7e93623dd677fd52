package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/dimondice01/finalDist-sub000/internal/mapper"
	"github.com/dimondice01/finalDist-sub000/internal/model"
	"github.com/dimondice01/finalDist-sub000/internal/remote"
	"github.com/dimondice01/finalDist-sub000/internal/snapshot"
	"github.com/dimondice01/finalDist-sub000/internal/state"
	ws "github.com/dimondice01/finalDist-sub000/internal/websocket"
)

var (
	// ErrNotAuthenticated is returned when a sync is requested without an
	// authenticated identity.
	ErrNotAuthenticated = errors.New("no authenticated identity")
	// ErrVendorNotFound means the identity has no vendor record at all. The
	// caller must treat it as fatal and force a sign-out.
	ErrVendorNotFound = errors.New("vendor not found for authenticated identity")
)

// SyncService performs the full role-scoped refresh: resolve the calling
// vendor, fetch every collection it is entitled to, persist the merged result
// to the local snapshot and atomically replace in-memory state.
type SyncService struct {
	remote   remote.Store
	snap     *snapshot.Store
	state    *state.Store
	hub      interface{ GetBroadcast() chan []byte } // optional websocket hub
	group    singleflight.Group
	onVendor func(model.Vendor)
}

func NewSyncService(store remote.Store, snap *snapshot.Store, st *state.Store, hub interface{ GetBroadcast() chan []byte }) *SyncService {
	return &SyncService{remote: store, snap: snap, state: st, hub: hub}
}

// OnVendorResolved registers a callback invoked after every successful fetch
// with the resolved vendor (used to start the realtime listener).
func (s *SyncService) OnVendorResolved(fn func(model.Vendor)) {
	s.onVendor = fn
}

// FetchAndPersist runs one full refresh. Concurrent calls for the same
// identity collapse into a single in-flight fetch, so overlapping UI refreshes
// can never interleave partial results.
func (s *SyncService) FetchAndPersist(ctx context.Context, identityUID string, showNotification bool) error {
	if identityUID == "" {
		return ErrNotAuthenticated
	}

	_, err, _ := s.group.Do(identityUID, func() (any, error) {
		return nil, s.fetch(ctx, identityUID)
	})
	if err != nil {
		publish(s.hub, ws.EventSyncFailed, map[string]any{"error": err.Error()})
		return err
	}
	if showNotification {
		publish(s.hub, ws.EventSyncCompleted, nil)
	}
	return nil
}

func (s *SyncService) fetch(ctx context.Context, identityUID string) error {
	s.state.SetLoading(true)
	defer s.state.SetLoading(false)

	vendor, err := s.resolveVendor(ctx, identityUID)
	if err != nil {
		return err
	}

	var data snapshot.Data

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docs, err := s.remote.Query(gctx, remote.C(model.CollProducts))
		if err != nil {
			return fmt.Errorf("fetch products: %w", err)
		}
		data.Products = mapAll(docs, mapper.Product)
		return nil
	})
	g.Go(func() error {
		docs, err := s.remote.Query(gctx, remote.C(model.CollCategories))
		if err != nil {
			return fmt.Errorf("fetch categories: %w", err)
		}
		data.Categories = mapAll(docs, mapper.Category)
		return nil
	})
	g.Go(func() error {
		docs, err := s.remote.Query(gctx, remote.C(model.CollPromotions).Where("status", "==", model.PromotionActive))
		if err != nil {
			return fmt.Errorf("fetch promotions: %w", err)
		}
		data.Promotions = mapAll(docs, mapper.Promotion)
		return nil
	})
	g.Go(func() error {
		docs, err := s.remote.Query(gctx, remote.C(model.CollVendors))
		if err != nil {
			return fmt.Errorf("fetch vendors: %w", err)
		}
		data.Vendors = mapAll(docs, mapper.Vendor)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if vendor.Rank == model.RankDelivery {
		docs, err := s.remote.Query(ctx, remote.C(model.CollRoutes).Where("assignedDriverId", "==", vendor.ID))
		if err != nil {
			return fmt.Errorf("fetch routes: %w", err)
		}
		data.Routes = mapAll(docs, mapper.Route)
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			docs, err := s.remote.Query(gctx, remote.C(model.CollClients).Where("vendorId", "==", vendor.ID))
			if err != nil {
				return fmt.Errorf("fetch clients: %w", err)
			}
			data.Clients = mapAll(docs, mapper.Client)
			return nil
		})
		g.Go(func() error {
			docs, err := s.remote.Query(gctx, remote.C(model.CollSales).Where("vendorId", "==", vendor.ID))
			if err != nil {
				return fmt.Errorf("fetch sales: %w", err)
			}
			data.Sales = mapAll(docs, mapper.Sale)
			return nil
		})
		if err := g.Wait(); err != nil {
			return err
		}

		zones, err := s.fetchZones(ctx, vendor)
		if err != nil {
			return err
		}
		data.Zones = zones
	}

	if err := s.snap.SaveAll(data); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	s.state.ReplaceAll(state.Snapshot{
		Products:   data.Products,
		Clients:    data.Clients,
		Categories: data.Categories,
		Promotions: data.Promotions,
		Zones:      data.Zones,
		Vendors:    data.Vendors,
		Sales:      data.Sales,
		Routes:     data.Routes,
	})

	log.Printf("sync: refreshed %d products, %d clients, %d sales, %d routes for vendor %s (%s)",
		len(data.Products), len(data.Clients), len(data.Sales), len(data.Routes), vendor.Name, vendor.Rank)

	if s.onVendor != nil {
		s.onVendor(vendor)
	}
	return nil
}

// resolveVendor finds the calling identity's vendor record by the auth link
// field. Legacy vendors created before that field existed are found by
// treating the identity uid as the document id; when that fallback hits, the
// link field is backfilled onto the document so the next lookup is direct.
func (s *SyncService) resolveVendor(ctx context.Context, identityUID string) (model.Vendor, error) {
	docs, err := s.remote.Query(ctx, remote.C(model.CollVendors).Where("authUid", "==", identityUID))
	if err != nil {
		return model.Vendor{}, fmt.Errorf("resolve vendor: %w", err)
	}
	if len(docs) > 0 {
		return mapper.Vendor(docs[0]), nil
	}

	doc, err := s.remote.Get(ctx, model.CollVendors, identityUID)
	if errors.Is(err, remote.ErrNotFound) {
		return model.Vendor{}, ErrVendorNotFound
	}
	if err != nil {
		return model.Vendor{}, fmt.Errorf("resolve vendor: %w", err)
	}

	if err := s.remote.Update(ctx, model.CollVendors, identityUID, map[string]any{"authUid": identityUID}); err != nil {
		log.Printf("sync: failed to backfill authUid on vendor %s: %v", identityUID, err)
	}
	vendor := mapper.Vendor(doc)
	vendor.AuthUID = identityUID
	return vendor, nil
}

// fetchZones resolves the vendor's assigned zones. The remote store caps "in"
// filters at 30 values; larger assignments are truncated with a warning.
func (s *SyncService) fetchZones(ctx context.Context, vendor model.Vendor) ([]model.Zone, error) {
	ids := vendor.AssignedZoneIDs
	if len(ids) == 0 {
		return []model.Zone{}, nil
	}
	if len(ids) > remote.InQueryLimit {
		log.Printf("sync: vendor %s has %d assigned zones, truncating query to %d", vendor.ID, len(ids), remote.InQueryLimit)
		ids = ids[:remote.InQueryLimit]
	}
	docs, err := s.remote.Query(ctx, remote.C(model.CollZones).Where(remote.FieldDocumentID, "in", ids))
	if err != nil {
		return nil, fmt.Errorf("fetch zones: %w", err)
	}
	return mapAll(docs, mapper.Zone), nil
}

func mapAll[T any](docs []remote.Document, fn func(remote.Document) T) []T {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		out = append(out, fn(doc))
	}
	return out
}
