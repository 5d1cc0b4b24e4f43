package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"grocy-planner/internal/planner"
	"grocy-planner/internal/recipe"
	"grocy-planner/internal/shopping"
)

func intPtr(v int) *int { return &v }

func testSnapshot() *shopping.Snapshot {
	return &shopping.Snapshot{
		MealPlan: []planner.MealPlanEntry{
			{ID: 1, Day: "2024-03-10", RecipeID: intPtr(1)},
			{ID: 2, Day: "2024-03-11", RecipeID: intPtr(1)},
			{ID: 3, Day: "2024-03-17", RecipeID: intPtr(1)},
			{ID: 4, Day: "2024-03-18", RecipeID: intPtr(1)},
		},
		Recipes:     []recipe.Recipe{{ID: 1, Name: "Salad", BaseServings: 1}},
		Ingredients: []recipe.Ingredient{{RecipeID: 1, ProductID: 10, Amount: 2, QuID: 1}},
		Products:    []shopping.Product{{ID: 10, Name: "Lettuce"}},
	}
}

func TestSnapshotStore(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewSnapshotStore(filepath.Join(tempDir, "snapshots"))
	if err != nil {
		t.Fatalf("Failed to create SnapshotStore: %v", err)
	}

	start := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)

	t.Run("CheckExists-False", func(t *testing.T) {
		if store.Exists(start, end) {
			t.Error("Expected snapshot to not exist, but it does")
		}
	})

	t.Run("Save", func(t *testing.T) {
		if err := store.Save(start, end, testSnapshot()); err != nil {
			t.Fatalf("Failed to save snapshot: %v", err)
		}
		filePath := filepath.Join(tempDir, "snapshots", "2024-03-11_2024-03-17.json")
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			t.Errorf("Expected file '%s' to be created, but it wasn't", filePath)
		}
		if !store.Exists(start, end) {
			t.Error("Expected snapshot to exist after save")
		}
	})

	t.Run("Load", func(t *testing.T) {
		snap, err := store.Load(start, end)
		if err != nil {
			t.Fatalf("Failed to load snapshot: %v", err)
		}
		if len(snap.MealPlan) != 4 || len(snap.Recipes) != 1 || snap.Products[0].Name != "Lettuce" {
			t.Errorf("Loaded snapshot does not match saved one: %+v", snap)
		}
		if snap.MealPlan[0].RecipeID == nil || *snap.MealPlan[0].RecipeID != 1 {
			t.Error("Expected recipe id to survive the round trip")
		}
	})

	t.Run("LoadMissing", func(t *testing.T) {
		if _, err := store.Load(start, start); err == nil {
			t.Error("Expected an error for a missing snapshot")
		}
	})
}

func TestStaticSource(t *testing.T) {
	src := NewStaticSource(testSnapshot())
	start := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	entries, err := src.MealPlan(context.Background(), start, start.AddDate(0, 0, 6))
	if err != nil {
		t.Fatalf("MealPlan failed: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != 2 || entries[1].ID != 3 {
		t.Errorf("Expected entries 2 and 3 inside the range, got %+v", entries)
	}

	gen := shopping.NewGenerator(src, shopping.NewBuilder("en"), nil)
	list, err := gen.Generate(context.Background(), start, start.AddDate(0, 0, 6))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].ToBuyAmount != 4 {
		t.Errorf("Expected 4 lettuce for two salads, got %+v", list.Items)
	}
}
