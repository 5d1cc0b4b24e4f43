package recipe

// Recipe is a Grocy recipe. A recipe with a ProductID is "homemade": using
// that product as an ingredient elsewhere may trigger production of this
// recipe instead of a purchase.
type Recipe struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	BaseServings    float64  `json:"base_servings"`
	DesiredServings *float64 `json:"desired_servings,omitempty"`
	ProductID       *int     `json:"product_id,omitempty"`
}

// Homemade reports whether the recipe produces a stock product.
// Zero counts as unset: Grocy ids start at 1 and older exports write 0.
func (r Recipe) Homemade() bool {
	return r.ProductID != nil && *r.ProductID != 0
}

// BatchServings is the number of servings one batch yields. Zero, negative
// or missing base servings fall back to 1.
func BatchServings(r Recipe) float64 {
	if r.BaseServings <= 0 {
		return 1
	}
	return r.BaseServings
}

// Ingredient says a recipe needs Amount of ProductID per batch.
type Ingredient struct {
	RecipeID  int     `json:"recipe_id"`
	ProductID int     `json:"product_id"`
	Amount    float64 `json:"amount"`
	QuID      int     `json:"qu_id"`
}

// Nesting says a parent recipe, at one batch, needs Servings servings of
// IncludesRecipeID.
type Nesting struct {
	RecipeID         int     `json:"recipe_id"`
	IncludesRecipeID int     `json:"includes_recipe_id"`
	Servings         float64 `json:"servings"`
}

// StockEntry is the current stock of one product.
type StockEntry struct {
	ProductID        int      `json:"product_id"`
	Amount           float64  `json:"amount"`
	AmountAggregated *float64 `json:"amount_aggregated,omitempty"`
}

// Need is the amount of one product required, in the unit it was first
// seen with.
type Need struct {
	Amount float64 `json:"amount"`
	QuID   int     `json:"qu_id"`
}

// Demand maps product id to the amount needed.
type Demand map[int]Need

// Add sums amount into the demand for productID. An existing entry keeps its unit.
func (d Demand) Add(productID int, amount float64, quID int) {
	if n, ok := d[productID]; ok {
		n.Amount += amount
		d[productID] = n
		return
	}
	d[productID] = Need{Amount: amount, QuID: quID}
}

// Merge sums every entry of other into d.
func (d Demand) Merge(other Demand) {
	for id, n := range other {
		d.Add(id, n.Amount, n.QuID)
	}
}

// Ledger records how much of each homemade product's stock has been
// claimed so far in one generation run.
type Ledger map[int]float64
