package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"grocy-planner/internal/planner"
	"grocy-planner/internal/recipe"
	"grocy-planner/internal/shopping"
)

// SnapshotStore provides file-based storage for inventory snapshots, one file
// per date range.
type SnapshotStore struct {
	basePath string
}

// NewSnapshotStore creates a new SnapshotStore and ensures the base directory exists.
func NewSnapshotStore(basePath string) (*SnapshotStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &SnapshotStore{basePath: basePath}, nil
}

// Path returns the file path used for the given range.
func (s *SnapshotStore) Path(start, end time.Time) string {
	filename := fmt.Sprintf("%s_%s.json", start.Format(planner.DateLayout), end.Format(planner.DateLayout))
	return filepath.Join(s.basePath, filename)
}

// Save stores a snapshot for the range, replacing any previous one.
func (s *SnapshotStore) Save(start, end time.Time, snap *shopping.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(s.Path(start, end), data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	return nil
}

// Load retrieves the snapshot stored for the range.
func (s *SnapshotStore) Load(start, end time.Time) (*shopping.Snapshot, error) {
	return LoadFile(s.Path(start, end))
}

// Exists checks if a snapshot for the range exists.
func (s *SnapshotStore) Exists(start, end time.Time) bool {
	_, err := os.Stat(s.Path(start, end))
	return !os.IsNotExist(err)
}

// LoadFile reads a snapshot from an arbitrary path.
func LoadFile(path string) (*shopping.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snap shopping.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// StaticSource serves a stored snapshot as a shopping.Source.
type StaticSource struct {
	snap *shopping.Snapshot
}

var _ shopping.Source = (*StaticSource)(nil)

// NewStaticSource wraps snap.
func NewStaticSource(snap *shopping.Snapshot) *StaticSource {
	return &StaticSource{snap: snap}
}

// MealPlan returns the stored entries with a day in [start, end].
func (s *StaticSource) MealPlan(_ context.Context, start, end time.Time) ([]planner.MealPlanEntry, error) {
	from, to := start.Format(planner.DateLayout), end.Format(planner.DateLayout)
	var entries []planner.MealPlanEntry
	for _, e := range s.snap.MealPlan {
		if e.Day >= from && e.Day <= to {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (s *StaticSource) Recipes(context.Context) ([]recipe.Recipe, error) {
	return s.snap.Recipes, nil
}

func (s *StaticSource) RecipeIngredients(context.Context) ([]recipe.Ingredient, error) {
	return s.snap.Ingredients, nil
}

func (s *StaticSource) RecipeNestings(context.Context) ([]recipe.Nesting, error) {
	return s.snap.Nestings, nil
}

func (s *StaticSource) Stock(context.Context) ([]recipe.StockEntry, error) {
	return s.snap.Stock, nil
}

func (s *StaticSource) Products(context.Context) ([]shopping.Product, error) {
	return s.snap.Products, nil
}

func (s *StaticSource) QuantityUnits(context.Context) ([]shopping.QuantityUnit, error) {
	return s.snap.QuantityUnits, nil
}
