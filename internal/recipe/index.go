package recipe

// Index holds the lookup structures the resolver walks. It is built once
// per generation run from flat lists and is read-only afterwards.
type Index struct {
	recipes     map[int]Recipe
	ingredients map[int][]Ingredient
	nestings    map[int][]Nesting
	homemade    map[int]Recipe
	stock       map[int]float64
}

// NewIndex builds an Index from the flat lists returned by the inventory service.
func NewIndex(recipes []Recipe, ingredients []Ingredient, nestings []Nesting, stock []StockEntry) *Index {
	idx := &Index{
		recipes:     make(map[int]Recipe, len(recipes)),
		ingredients: make(map[int][]Ingredient),
		nestings:    make(map[int][]Nesting),
		homemade:    make(map[int]Recipe),
		stock:       make(map[int]float64, len(stock)),
	}

	for _, r := range recipes {
		idx.recipes[r.ID] = r
		if r.Homemade() {
			idx.homemade[*r.ProductID] = r
		}
	}
	for _, ing := range ingredients {
		idx.ingredients[ing.RecipeID] = append(idx.ingredients[ing.RecipeID], ing)
	}
	for _, n := range nestings {
		idx.nestings[n.RecipeID] = append(idx.nestings[n.RecipeID], n)
	}
	for _, s := range stock {
		amount := s.Amount
		if s.AmountAggregated != nil {
			amount = *s.AmountAggregated
		}
		idx.stock[s.ProductID] = amount
	}

	return idx
}

// Recipe returns the recipe with the given id.
func (idx *Index) Recipe(id int) (Recipe, bool) {
	r, ok := idx.recipes[id]
	return r, ok
}

// Ingredients returns the direct ingredients of a recipe.
func (idx *Index) Ingredients(recipeID int) []Ingredient {
	return idx.ingredients[recipeID]
}

// Nestings returns the recipes included by a recipe.
func (idx *Index) Nestings(recipeID int) []Nesting {
	return idx.nestings[recipeID]
}

// HomemadeRecipe returns the recipe producing productID, if any.
func (idx *Index) HomemadeRecipe(productID int) (Recipe, bool) {
	r, ok := idx.homemade[productID]
	return r, ok
}

// Stock returns the amount of productID currently held. Unknown products have none.
func (idx *Index) Stock(productID int) float64 {
	return idx.stock[productID]
}
