package shopping

import (
	"time"

	"grocy-planner/internal/planner"
	"grocy-planner/internal/recipe"
)

// List is a generated shopping list for a date range.
type List struct {
	ID                       int64     `json:"id,omitempty"`
	StartDate                string    `json:"startDate"`
	EndDate                  string    `json:"endDate"`
	RecipesProcessed         int       `json:"recipesProcessed"`
	HomemadeProductsResolved int       `json:"homemadeProductsResolved"`
	Items                    []Item    `json:"items"`
	CreatedAt                time.Time `json:"createdAt,omitzero"`
}

// Item is one product to buy.
type Item struct {
	ProductID    int     `json:"product_id"`
	ProductName  string  `json:"product_name"`
	NeededAmount float64 `json:"needed_amount"`
	StockAmount  float64 `json:"stock_amount"`
	ToBuyAmount  float64 `json:"to_buy_amount"`
	QuID         int     `json:"qu_id"`
	QuName       string  `json:"qu_name,omitempty"`
}

// Product is a Grocy product.
type Product struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// QuantityUnit is a Grocy quantity unit.
type QuantityUnit struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Snapshot is everything one generation reads from the inventory service.
type Snapshot struct {
	MealPlan      []planner.MealPlanEntry `json:"meal_plan"`
	Recipes       []recipe.Recipe         `json:"recipes"`
	Ingredients   []recipe.Ingredient     `json:"recipe_ingredients"`
	Nestings      []recipe.Nesting        `json:"recipe_nestings"`
	Stock         []recipe.StockEntry     `json:"stock"`
	Products      []Product               `json:"products"`
	QuantityUnits []QuantityUnit          `json:"quantity_units"`
}
