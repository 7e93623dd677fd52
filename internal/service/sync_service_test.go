package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/dimondice01/finalDist-sub000/internal/model"
	"github.com/dimondice01/finalDist-sub000/internal/remote"
	"github.com/dimondice01/finalDist-sub000/internal/snapshot"
	"github.com/dimondice01/finalDist-sub000/internal/state"
)

func newSyncFixture(t *testing.T) (*SyncService, *remote.MemoryStore, *snapshot.Store, *state.Store) {
	t.Helper()
	store := remote.NewMemoryStore()
	snap, err := snapshot.Open(filepath.Join(t.TempDir(), "snapshot.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = snap.Close() })
	st := state.NewStore()
	return NewSyncService(store, snap, st, nil), store, snap, st
}

func seedSellerWorld(t *testing.T, store *remote.MemoryStore) {
	t.Helper()
	ctx := context.Background()
	_ = store.Set(ctx, model.CollVendors, "v1", map[string]any{
		"name": "Juan", "rank": model.RankSeller, "authUid": "uid1",
		"assignedZoneIds": []any{"z1", "z2"}, "generalCommissionRate": 0.08,
	})
	_ = store.Set(ctx, model.CollProducts, "p1", map[string]any{"name": "Water", "stock": 10})
	_ = store.Set(ctx, model.CollCategories, "cat1", map[string]any{"name": "Bottles"})
	_ = store.Set(ctx, model.CollPromotions, "pr1", map[string]any{"status": model.PromotionActive, "kind": model.PromoBuyXPayY})
	_ = store.Set(ctx, model.CollPromotions, "pr2", map[string]any{"status": model.PromotionInactive})
	_ = store.Set(ctx, model.CollClients, "c1", map[string]any{"name": "Tienda", "vendorId": "v1"})
	_ = store.Set(ctx, model.CollClients, "c2", map[string]any{"name": "Other", "vendorId": "v9"})
	_ = store.Set(ctx, model.CollSales, "s1", map[string]any{"vendorId": "v1", "totalAmount": 100})
	_ = store.Set(ctx, model.CollSales, "s2", map[string]any{"vendorId": "v9", "totalAmount": 50})
	_ = store.Set(ctx, model.CollZones, "z1", map[string]any{"name": "North"})
	_ = store.Set(ctx, model.CollZones, "z2", map[string]any{"name": "South"})
	_ = store.Set(ctx, model.CollZones, "z3", map[string]any{"name": "Unassigned"})
}

func TestFetchAndPersistSellerScope(t *testing.T) {
	svc, store, snap, st := newSyncFixture(t)
	seedSellerWorld(t, store)

	var resolved model.Vendor
	svc.OnVendorResolved(func(v model.Vendor) { resolved = v })

	if err := svc.FetchAndPersist(context.Background(), "uid1", false); err != nil {
		t.Fatal(err)
	}

	got := st.Snapshot()
	if len(got.Products) != 1 || len(got.Categories) != 1 {
		t.Errorf("reference data: %d products, %d categories", len(got.Products), len(got.Categories))
	}
	if len(got.Promotions) != 1 || got.Promotions[0].ID != "pr1" {
		t.Errorf("Promotions = %+v, want only the active one", got.Promotions)
	}
	if len(got.Clients) != 1 || got.Clients[0].ID != "c1" {
		t.Errorf("Clients = %+v, want only vendor-owned", got.Clients)
	}
	if len(got.Sales) != 1 || got.Sales[0].ID != "s1" {
		t.Errorf("Sales = %+v, want only vendor-owned", got.Sales)
	}
	if len(got.Zones) != 2 {
		t.Errorf("Zones = %+v, want the two assigned", got.Zones)
	}
	if len(got.Routes) != 0 {
		t.Errorf("Routes = %+v, want none for a Seller", got.Routes)
	}
	if resolved.ID != "v1" || resolved.Rank != model.RankSeller {
		t.Errorf("resolved vendor = %+v", resolved)
	}
	if st.IsLoading() {
		t.Error("loading flag stuck")
	}

	// The snapshot store holds the same result for the next cold start.
	persisted := snap.LoadAll()
	if len(persisted.Products) != 1 || len(persisted.Clients) != 1 {
		t.Errorf("persisted snapshot: %d products, %d clients", len(persisted.Products), len(persisted.Clients))
	}
}

func TestFetchAndPersistDeliveryScope(t *testing.T) {
	svc, store, _, st := newSyncFixture(t)
	ctx := context.Background()
	_ = store.Set(ctx, model.CollVendors, "d1", map[string]any{
		"name": "Pedro", "rank": model.RankDelivery, "authUid": "uid-d",
	})
	_ = store.Set(ctx, model.CollRoutes, "r1", map[string]any{"assignedDriverId": "d1", "status": "pending"})
	_ = store.Set(ctx, model.CollRoutes, "r2", map[string]any{"assignedDriverId": "other"})
	_ = store.Set(ctx, model.CollClients, "c1", map[string]any{"vendorId": "d1"})
	_ = store.Set(ctx, model.CollSales, "s1", map[string]any{"vendorId": "d1"})

	if err := svc.FetchAndPersist(ctx, "uid-d", false); err != nil {
		t.Fatal(err)
	}

	got := st.Snapshot()
	if len(got.Routes) != 1 || got.Routes[0].ID != "r1" {
		t.Errorf("Routes = %+v, want only the assigned one", got.Routes)
	}
	// Delivery syncs never pull the sales-side collections.
	if len(got.Clients) != 0 || len(got.Sales) != 0 {
		t.Errorf("Delivery fetched clients=%d sales=%d, want none", len(got.Clients), len(got.Sales))
	}
}

func TestResolveVendorSelfHealBackfillsAuthUID(t *testing.T) {
	svc, store, _, _ := newSyncFixture(t)
	ctx := context.Background()
	// Legacy vendor: document id doubles as the identity uid, no authUid.
	_ = store.Set(ctx, model.CollVendors, "uid-legacy", map[string]any{
		"name": "Maria", "rank": model.RankSeller,
	})

	if err := svc.FetchAndPersist(ctx, "uid-legacy", false); err != nil {
		t.Fatal(err)
	}

	doc, err := store.Get(ctx, model.CollVendors, "uid-legacy")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Data["authUid"] != "uid-legacy" {
		t.Errorf("authUid = %v, want backfilled uid-legacy", doc.Data["authUid"])
	}

	// Second sync resolves through the healed link.
	if err := svc.FetchAndPersist(ctx, "uid-legacy", false); err != nil {
		t.Fatal(err)
	}
}

func TestFetchAndPersistUnknownIdentity(t *testing.T) {
	svc, _, _, _ := newSyncFixture(t)

	err := svc.FetchAndPersist(context.Background(), "nobody", false)
	if !errors.Is(err, ErrVendorNotFound) {
		t.Errorf("err = %v, want ErrVendorNotFound", err)
	}
}

func TestFetchAndPersistNoIdentity(t *testing.T) {
	svc, _, _, _ := newSyncFixture(t)

	err := svc.FetchAndPersist(context.Background(), "", false)
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("err = %v, want ErrNotAuthenticated", err)
	}
}

func TestFetchZonesTruncatesOversizedAssignment(t *testing.T) {
	svc, store, _, st := newSyncFixture(t)
	ctx := context.Background()

	zoneIDs := make([]any, 45)
	for i := range zoneIDs {
		id := fmt.Sprintf("z%02d", i)
		zoneIDs[i] = id
		_ = store.Set(ctx, model.CollZones, id, map[string]any{"name": id})
	}
	_ = store.Set(ctx, model.CollVendors, "v1", map[string]any{
		"name": "Juan", "rank": model.RankSeller, "authUid": "uid1",
		"assignedZoneIds": zoneIDs,
	})

	if err := svc.FetchAndPersist(ctx, "uid1", false); err != nil {
		t.Fatalf("oversized zone assignment failed the sync: %v", err)
	}

	if got := len(st.Snapshot().Zones); got != remote.InQueryLimit {
		t.Errorf("Zones = %d, want truncated to %d", got, remote.InQueryLimit)
	}
}

func TestFetchZonesEmptyAssignment(t *testing.T) {
	svc, store, _, st := newSyncFixture(t)
	ctx := context.Background()
	_ = store.Set(ctx, model.CollVendors, "v1", map[string]any{
		"name": "Juan", "rank": model.RankSeller, "authUid": "uid1",
	})

	if err := svc.FetchAndPersist(ctx, "uid1", false); err != nil {
		t.Fatal(err)
	}
	if got := st.Snapshot().Zones; len(got) != 0 {
		t.Errorf("Zones = %v, want empty", got)
	}
}
