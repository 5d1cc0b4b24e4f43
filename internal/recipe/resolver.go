package recipe

import (
	"grocy-planner/internal/logger"
)

// Resolver expands recipes into purchasable product demand.
type Resolver struct {
	index *Index
	log   *logger.Logger
}

// NewResolver creates a Resolver over idx. A nil logger discards output.
func NewResolver(idx *Index, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{index: idx, log: log}
}

// Resolve expands multiplier batches of recipeID into purchasable demand.
//
// Homemade ingredients are taken from stock first; ledger tracks what earlier
// calls already claimed and is updated in place. Only the deficit is produced
// by recursing into the producing recipe. Nested recipes are always expanded.
// visited holds the recipe ids on the current meal's expansion and guards
// against cycles; a recipe seen twice contributes nothing the second time.
func (r *Resolver) Resolve(recipeID int, multiplier float64, ledger Ledger, visited map[int]struct{}) Demand {
	result := make(Demand)

	if _, seen := visited[recipeID]; seen {
		r.log.Warn("recipe cycle detected, skipping branch", "recipe_id", recipeID)
		return result
	}
	visited[recipeID] = struct{}{}

	for _, ing := range r.index.Ingredients(recipeID) {
		scaled := ing.Amount * multiplier

		producer, homemade := r.index.HomemadeRecipe(ing.ProductID)
		if !homemade {
			result.Add(ing.ProductID, scaled, ing.QuID)
			continue
		}

		available := r.index.Stock(ing.ProductID) - ledger[ing.ProductID]
		claimed := min(scaled, max(0, available))
		if claimed > 0 {
			ledger[ing.ProductID] += claimed
		}

		deficit := scaled - claimed
		if deficit > 0 {
			r.log.Debug("producing homemade product",
				"product_id", ing.ProductID,
				"recipe_id", producer.ID,
				"deficit", deficit,
			)
			result.Merge(r.Resolve(producer.ID, deficit/BatchServings(producer), ledger, visited))
		}
	}

	for _, n := range r.index.Nestings(recipeID) {
		child, _ := r.index.Recipe(n.IncludesRecipeID)
		nested := n.Servings * multiplier / BatchServings(child)
		result.Merge(r.Resolve(n.IncludesRecipeID, nested, ledger, visited))
	}

	return result
}
