package shopping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"grocy-planner/internal/logger"
	"grocy-planner/internal/planner"
	"grocy-planner/internal/recipe"
)

// ErrInvalidRange is returned when the end date is before the start date.
var ErrInvalidRange = errors.New("end date is before start date")

// Source provides the inventory data a generation reads.
type Source interface {
	MealPlan(ctx context.Context, start, end time.Time) ([]planner.MealPlanEntry, error)
	Recipes(ctx context.Context) ([]recipe.Recipe, error)
	RecipeIngredients(ctx context.Context) ([]recipe.Ingredient, error)
	RecipeNestings(ctx context.Context) ([]recipe.Nesting, error)
	Stock(ctx context.Context) ([]recipe.StockEntry, error)
	Products(ctx context.Context) ([]Product, error)
	QuantityUnits(ctx context.Context) ([]QuantityUnit, error)
}

// Generator produces shopping lists from a Source.
type Generator struct {
	source  Source
	builder *Builder
	log     *logger.Logger
}

// NewGenerator creates a new Generator.
func NewGenerator(source Source, builder *Builder, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{source: source, builder: builder, log: log}
}

// Generate fetches a snapshot for the range and computes its shopping list.
func (g *Generator) Generate(ctx context.Context, start, end time.Time) (*List, error) {
	snap, err := g.Fetch(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return g.Compute(snap, start, end)
}

// Fetch reads everything a generation needs with concurrent requests. The
// first failure cancels the remaining requests and is returned alone.
func (g *Generator) Fetch(ctx context.Context, start, end time.Time) (*Snapshot, error) {
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	var snap Snapshot
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		entries, err := g.source.MealPlan(egCtx, start, end)
		if err != nil {
			return fmt.Errorf("failed to fetch meal plan: %w", err)
		}
		snap.MealPlan = entries
		return nil
	})
	eg.Go(func() error {
		recipes, err := g.source.Recipes(egCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch recipes: %w", err)
		}
		snap.Recipes = recipes
		return nil
	})
	eg.Go(func() error {
		ingredients, err := g.source.RecipeIngredients(egCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch recipe ingredients: %w", err)
		}
		snap.Ingredients = ingredients
		return nil
	})
	eg.Go(func() error {
		nestings, err := g.source.RecipeNestings(egCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch recipe nestings: %w", err)
		}
		snap.Nestings = nestings
		return nil
	})
	eg.Go(func() error {
		stock, err := g.source.Stock(egCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch stock: %w", err)
		}
		snap.Stock = stock
		return nil
	})
	eg.Go(func() error {
		products, err := g.source.Products(egCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch products: %w", err)
		}
		snap.Products = products
		return nil
	})
	eg.Go(func() error {
		units, err := g.source.QuantityUnits(egCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch quantity units: %w", err)
		}
		snap.QuantityUnits = units
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	g.log.Debug("snapshot fetched",
		"meal_plan_entries", len(snap.MealPlan),
		"recipes", len(snap.Recipes),
		"ingredients", len(snap.Ingredients),
		"nestings", len(snap.Nestings),
		"stock_entries", len(snap.Stock),
	)
	return &snap, nil
}

// Compute builds the shopping list for snap without any I/O.
func (g *Generator) Compute(snap *Snapshot, start, end time.Time) (*List, error) {
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	idx := recipe.NewIndex(snap.Recipes, snap.Ingredients, snap.Nestings, snap.Stock)
	agg := planner.AggregateDemand(snap.MealPlan, idx, recipe.NewResolver(idx, g.log))
	list := g.builder.Build(start, end, agg, idx, snap.Products, snap.QuantityUnits)

	g.log.Info("shopping list generated",
		"start", list.StartDate,
		"end", list.EndDate,
		"recipes_processed", list.RecipesProcessed,
		"homemade_products_resolved", list.HomemadeProductsResolved,
		"items", len(list.Items),
	)
	return list, nil
}
