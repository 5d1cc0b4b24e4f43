package planner

import (
	"grocy-planner/internal/recipe"
)

// Aggregate is the total demand of a meal plan.
type Aggregate struct {
	Needed                   recipe.Demand
	RecipesProcessed         int
	HomemadeProductsResolved int
	Ledger                   recipe.Ledger
}

// AggregateDemand resolves every meal in entries and sums their demand.
//
// Meals are processed in OrderEntries order. Each meal gets its own cycle
// guard while the homemade-stock ledger is shared by the whole run, so two
// meals needing the same homemade product split its stock instead of both
// assuming it is all available.
func AggregateDemand(entries []MealPlanEntry, idx *recipe.Index, res *recipe.Resolver) Aggregate {
	agg := Aggregate{
		Needed: make(recipe.Demand),
		Ledger: make(recipe.Ledger),
	}

	for _, entry := range OrderEntries(entries) {
		if entry.RecipeID == nil {
			continue
		}
		rec, ok := idx.Recipe(*entry.RecipeID)
		if !ok {
			continue
		}

		visited := make(map[int]struct{})
		demand := res.Resolve(rec.ID, MealServings(entry, rec)/recipe.BatchServings(rec), agg.Ledger, visited)
		agg.Needed.Merge(demand)

		agg.RecipesProcessed++
		agg.HomemadeProductsResolved += len(visited) - 1
	}

	return agg
}

// MealServings is the number of servings a meal asks for: the entry's own
// value, else the recipe's desired servings, else 1.
func MealServings(entry MealPlanEntry, rec recipe.Recipe) float64 {
	switch {
	case entry.Servings != nil:
		return *entry.Servings
	case rec.DesiredServings != nil:
		return *rec.DesiredServings
	default:
		return 1
	}
}
