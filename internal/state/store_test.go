package state

import (
	"testing"

	"github.com/dimondice01/finalDist-sub000/internal/model"
)

func TestReplaceAllPreservesFlags(t *testing.T) {
	s := NewStore()
	s.SetLoading(true)
	s.MarkInitialDataLoaded()

	s.ReplaceAll(Snapshot{Products: []model.Product{{ID: "p1"}}})

	snap := s.Snapshot()
	if !snap.IsLoading {
		t.Error("ReplaceAll cleared IsLoading")
	}
	if !snap.IsInitialDataLoaded {
		t.Error("ReplaceAll cleared IsInitialDataLoaded")
	}
	if len(snap.Products) != 1 {
		t.Errorf("Products = %+v", snap.Products)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.SetProducts([]model.Product{{ID: "p1", Name: "Water"}})

	snap := s.Snapshot()
	snap.Products[0].Name = "mutated"

	if got := s.Snapshot().Products[0].Name; got != "Water" {
		t.Errorf("store mutated through a snapshot: %q", got)
	}
}

func TestSubscribeNotify(t *testing.T) {
	s := NewStore()

	var seen []string
	unsub := s.Subscribe(func(collection string) {
		seen = append(seen, collection)
	})

	s.SetProducts(nil)
	s.SetCategories(nil)
	s.SetPromotions(nil)
	s.ReplaceAll(Snapshot{})

	want := []string{model.CollProducts, model.CollCategories, model.CollPromotions, "*"}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %q, want %q", i, seen[i], want[i])
		}
	}

	unsub()
	unsub() // idempotent
	s.SetProducts(nil)
	if len(seen) != len(want) {
		t.Error("notification after unsubscribe")
	}
}

func TestMarkInitialDataLoadedNeverResets(t *testing.T) {
	s := NewStore()
	if s.IsInitialDataLoaded() {
		t.Fatal("fresh store claims initial data")
	}
	s.MarkInitialDataLoaded()
	s.ReplaceAll(Snapshot{})
	s.SetLoading(true)
	s.SetLoading(false)
	if !s.IsInitialDataLoaded() {
		t.Error("flag was reset")
	}
}
