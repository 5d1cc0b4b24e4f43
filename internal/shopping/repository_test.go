package shopping

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"grocy-planner/internal/database"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.SQL)
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	older := &List{
		StartDate:        "2024-03-11",
		EndDate:          "2024-03-17",
		RecipesProcessed: 1,
		Items:            []Item{{ProductID: 1, ProductName: "Rice", ToBuyAmount: 1}},
		CreatedAt:        time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	newer := &List{
		StartDate:                "2024-03-11",
		EndDate:                  "2024-03-17",
		RecipesProcessed:         3,
		HomemadeProductsResolved: 2,
		Items:                    []Item{{ProductID: 2, ProductName: "Milk", NeededAmount: 2.5, ToBuyAmount: 2.5, QuID: 4, QuName: "Liter"}},
		CreatedAt:                time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
	}

	t.Run("Save", func(t *testing.T) {
		for _, l := range []*List{older, newer} {
			id, err := repo.Save(ctx, l)
			if err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if id == 0 || l.ID != id {
				t.Errorf("Expected ID to be set, got %d / %d", id, l.ID)
			}
		}
	})

	t.Run("GetLatestForRange", func(t *testing.T) {
		got, err := repo.GetLatestForRange(ctx, "2024-03-11", "2024-03-17")
		if err != nil {
			t.Fatalf("GetLatestForRange failed: %v", err)
		}
		if got == nil || got.ID != newer.ID {
			t.Fatalf("Expected newest list %d, got %+v", newer.ID, got)
		}
		if got.HomemadeProductsResolved != 2 || len(got.Items) != 1 || got.Items[0].QuName != "Liter" {
			t.Errorf("List did not round-trip: %+v", got)
		}
		if !got.CreatedAt.Equal(newer.CreatedAt) {
			t.Errorf("Expected CreatedAt %v, got %v", newer.CreatedAt, got.CreatedAt)
		}
	})

	t.Run("GetLatestForRange-NotFound", func(t *testing.T) {
		got, err := repo.GetLatestForRange(ctx, "2030-01-01", "2030-01-07")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got != nil {
			t.Errorf("Expected nil, got %+v", got)
		}
	})

	t.Run("ListRecent", func(t *testing.T) {
		lists, err := repo.ListRecent(ctx, 1)
		if err != nil {
			t.Fatalf("ListRecent failed: %v", err)
		}
		if len(lists) != 1 || lists[0].ID != newer.ID {
			t.Errorf("Expected only the newest list, got %+v", lists)
		}
	})

	t.Run("DeleteOlderThan", func(t *testing.T) {
		n, err := repo.DeleteOlderThan(ctx, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("DeleteOlderThan failed: %v", err)
		}
		if n != 1 {
			t.Errorf("Expected 1 list removed, got %d", n)
		}
		lists, _ := repo.ListRecent(ctx, 10)
		if len(lists) != 1 {
			t.Errorf("Expected 1 remaining list, got %d", len(lists))
		}
	})
}
