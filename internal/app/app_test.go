package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"grocy-planner/internal/database"
	"grocy-planner/internal/metrics"
	"grocy-planner/internal/planner"
	"grocy-planner/internal/recipe"
	"grocy-planner/internal/shopping"
	"grocy-planner/internal/storage"
)

func intPtr(v int) *int { return &v }

func newTestApp(t *testing.T, src shopping.Source, snapshots *storage.SnapshotStore) (*App, *database.DB) {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "app.db"), nil)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gen := shopping.NewGenerator(src, shopping.NewBuilder("en"), nil)
	return NewApp(gen, shopping.NewRepository(db.SQL), metrics.NewStore(db.SQL), snapshots, nil), db
}

func pizzaSnapshot() *shopping.Snapshot {
	return &shopping.Snapshot{
		MealPlan: []planner.MealPlanEntry{
			{ID: 1, Day: "2024-03-11", RecipeID: intPtr(1)},
		},
		Recipes: []recipe.Recipe{
			{ID: 1, Name: "Pizza", BaseServings: 1},
			{ID: 2, Name: "Dough", BaseServings: 1, ProductID: intPtr(50)},
		},
		Ingredients: []recipe.Ingredient{
			{RecipeID: 1, ProductID: 50, Amount: 1, QuID: 1},
			{RecipeID: 1, ProductID: 10, Amount: 2, QuID: 1},
			{RecipeID: 2, ProductID: 20, Amount: 500, QuID: 2},
		},
		Products: []shopping.Product{
			{ID: 10, Name: "Tomato"},
			{ID: 20, Name: "Flour"},
		},
	}
}

type failingSource struct {
	*storage.StaticSource
}

func (failingSource) Stock(context.Context) ([]recipe.StockEntry, error) {
	return nil, errors.New("connection refused")
}

func TestGenerateShoppingList(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)

	snapDir := t.TempDir()
	snapshots, err := storage.NewSnapshotStore(snapDir)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := newTestApp(t, storage.NewStaticSource(pizzaSnapshot()), snapshots)

	list, err := a.GenerateShoppingList(ctx, start, end)
	if err != nil {
		t.Fatalf("GenerateShoppingList failed: %v", err)
	}
	if len(list.Items) != 2 || list.Items[0].ProductName != "Flour" || list.Items[0].ToBuyAmount != 500 {
		t.Errorf("Unexpected items %+v", list.Items)
	}
	if list.ID == 0 {
		t.Error("Expected the list to be persisted and given an id")
	}

	t.Run("SnapshotRecorded", func(t *testing.T) {
		if !snapshots.Exists(start, end) {
			t.Fatal("Expected snapshot to be recorded")
		}
		replay := shopping.NewGenerator(storage.NewStaticSource(mustLoad(t, snapshots, start, end)), shopping.NewBuilder("en"), nil)
		again, err := replay.Generate(ctx, start, end)
		if err != nil {
			t.Fatalf("Replay failed: %v", err)
		}
		if len(again.Items) != len(list.Items) {
			t.Errorf("Expected replay to yield %d items, got %d", len(list.Items), len(again.Items))
		}
	})

	t.Run("History", func(t *testing.T) {
		history, err := a.History(ctx, 10)
		if err != nil {
			t.Fatalf("History failed: %v", err)
		}
		if len(history) != 1 || history[0].StartDate != "2024-03-11" || len(history[0].Items) != 2 {
			t.Errorf("Unexpected history %+v", history)
		}
	})

	t.Run("Usage", func(t *testing.T) {
		usage, err := a.Usage(ctx, 1)
		if err != nil {
			t.Fatalf("Usage failed: %v", err)
		}
		if len(usage) != 1 || usage[0].Generations != 1 || usage[0].TotalItems != 2 {
			t.Errorf("Unexpected usage %+v", usage)
		}
	})

	t.Run("Cleanup", func(t *testing.T) {
		time.Sleep(10 * time.Millisecond)
		m, l, err := a.Cleanup(ctx, 0)
		if err != nil {
			t.Fatalf("Cleanup failed: %v", err)
		}
		if m != 1 || l != 1 {
			t.Errorf("Expected one metric and one list removed, got %d and %d", m, l)
		}
	})
}

func TestGenerateShoppingList_PersistenceFailureIsNotFatal(t *testing.T) {
	a, db := newTestApp(t, storage.NewStaticSource(pizzaSnapshot()), nil)
	db.Close()

	start := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	list, err := a.GenerateShoppingList(context.Background(), start, start.AddDate(0, 0, 6))
	if err != nil {
		t.Fatalf("Expected persistence failures to be swallowed, got %v", err)
	}
	if len(list.Items) != 2 {
		t.Errorf("Expected 2 items, got %d", len(list.Items))
	}
}

func TestGenerateShoppingList_UpstreamFailure(t *testing.T) {
	src := failingSource{storage.NewStaticSource(pizzaSnapshot())}
	a, _ := newTestApp(t, src, nil)

	start := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	if _, err := a.GenerateShoppingList(context.Background(), start, start.AddDate(0, 0, 6)); err == nil {
		t.Fatal("Expected an error when the inventory service fails")
	}
	history, err := a.History(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 0 {
		t.Errorf("Expected nothing persisted on failure, got %d lists", len(history))
	}
}

func mustLoad(t *testing.T, s *storage.SnapshotStore, start, end time.Time) *shopping.Snapshot {
	t.Helper()
	snap, err := s.Load(start, end)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	return snap
}
