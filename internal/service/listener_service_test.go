package service

import (
	"context"
	"testing"

	"github.com/dimondice01/finalDist-sub000/internal/model"
	"github.com/dimondice01/finalDist-sub000/internal/remote"
	"github.com/dimondice01/finalDist-sub000/internal/state"
)

func TestListenerOnlyStartsForSellers(t *testing.T) {
	store := remote.NewMemoryStore()
	st := state.NewStore()
	st.MarkInitialDataLoaded()
	l := NewListenerService(store, st)
	defer l.Stop()

	if err := l.Start(model.Vendor{ID: "d1", Rank: model.RankDelivery}); err != nil {
		t.Fatal(err)
	}

	_ = store.Set(context.Background(), model.CollProducts, "p1", map[string]any{"name": "Water"})
	if got := st.Snapshot().Products; len(got) != 0 {
		t.Errorf("Delivery vendor received a realtime push: %+v", got)
	}
}

func TestListenerWaitsForInitialLoad(t *testing.T) {
	store := remote.NewMemoryStore()
	st := state.NewStore() // initial load never marked
	l := NewListenerService(store, st)
	defer l.Stop()

	if err := l.Start(model.Vendor{ID: "v1", Rank: model.RankSeller}); err != nil {
		t.Fatal(err)
	}

	_ = store.Set(context.Background(), model.CollProducts, "p1", map[string]any{"name": "Water"})
	if got := st.Snapshot().Products; len(got) != 0 {
		t.Errorf("push arrived before the initial load: %+v", got)
	}
}

func TestListenerPushesReplaceCollections(t *testing.T) {
	ctx := context.Background()
	store := remote.NewMemoryStore()
	_ = store.Set(ctx, model.CollPromotions, "pr-active", map[string]any{"status": model.PromotionActive})
	_ = store.Set(ctx, model.CollPromotions, "pr-off", map[string]any{"status": model.PromotionInactive})

	st := state.NewStore()
	st.MarkInitialDataLoaded()
	l := NewListenerService(store, st)
	defer l.Stop()

	if err := l.Start(model.Vendor{ID: "v1", Rank: model.RankSeller}); err != nil {
		t.Fatal(err)
	}
	// Starting twice is a no-op, not a double subscription.
	if err := l.Start(model.Vendor{ID: "v1", Rank: model.RankSeller}); err != nil {
		t.Fatal(err)
	}

	_ = store.Set(ctx, model.CollProducts, "p1", map[string]any{"name": "Water", "precio": float64(35)})

	got := st.Snapshot()
	if len(got.Products) != 1 || got.Products[0].Name != "Water" || got.Products[0].UnitPrice != 35 {
		t.Errorf("Products after push = %+v", got.Products)
	}

	// The active-only filter holds on promotion pushes too.
	_ = store.Set(ctx, model.CollPromotions, "pr-new", map[string]any{"status": model.PromotionActive})
	got = st.Snapshot()
	if len(got.Promotions) != 2 {
		t.Errorf("Promotions after push = %+v, want the two active", got.Promotions)
	}
	for _, p := range got.Promotions {
		if p.Status != model.PromotionActive {
			t.Errorf("inactive promotion leaked: %+v", p)
		}
	}
}

func TestListenerStopSilences(t *testing.T) {
	ctx := context.Background()
	store := remote.NewMemoryStore()
	st := state.NewStore()
	st.MarkInitialDataLoaded()
	l := NewListenerService(store, st)

	if err := l.Start(model.Vendor{ID: "v1", Rank: model.RankSeller}); err != nil {
		t.Fatal(err)
	}
	l.Stop()
	l.Stop() // idempotent

	_ = store.Set(ctx, model.CollProducts, "p1", map[string]any{"name": "Water"})
	if got := st.Snapshot().Products; len(got) != 0 {
		t.Errorf("push after Stop: %+v", got)
	}

	// A stopped listener can go live again.
	if err := l.Start(model.Vendor{ID: "v1", Rank: model.RankSeller}); err != nil {
		t.Fatal(err)
	}
	defer l.Stop()
	_ = store.Set(ctx, model.CollProducts, "p2", map[string]any{"name": "Soda"})
	if got := st.Snapshot().Products; len(got) != 2 {
		t.Errorf("restart did not resubscribe: %+v", got)
	}
}
