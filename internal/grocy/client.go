package grocy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"grocy-planner/internal/config"
	"grocy-planner/internal/planner"
	"grocy-planner/internal/recipe"
	"grocy-planner/internal/shopping"
)

// ErrUnexpectedStatus is returned when the Grocy API answers with a non-200 status.
var ErrUnexpectedStatus = errors.New("grocy api returned unexpected status")

// Client is a read-only Grocy API client. It implements shopping.Source.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ shopping.Source = (*Client)(nil)

// NewClient creates a new Grocy API client.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.GrocyURL,
		apiKey:  cfg.GrocyAPIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// MealPlan returns the meal-plan entries with a day in [start, end], in the
// order the server returns them. Only recipe entries carry a recipe id.
func (c *Client) MealPlan(ctx context.Context, start, end time.Time) ([]planner.MealPlanEntry, error) {
	query := url.Values{}
	query.Add("query[]", "day>="+start.Format(planner.DateLayout))
	query.Add("query[]", "day<="+end.Format(planner.DateLayout))

	var rows []mealPlanRow
	if err := c.get(ctx, "/api/objects/meal_plan", query, &rows); err != nil {
		return nil, err
	}

	entries := make([]planner.MealPlanEntry, 0, len(rows))
	for _, row := range rows {
		entry := planner.MealPlanEntry{
			ID:       row.ID.Int(),
			Day:      row.Day,
			Servings: floatPtr(row.RecipeServings),
		}
		if (row.Type == "" || row.Type == "recipe") && row.RecipeID != nil && row.RecipeID.Int() != 0 {
			entry.RecipeID = intPtr(row.RecipeID)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Recipes returns all recipes.
func (c *Client) Recipes(ctx context.Context) ([]recipe.Recipe, error) {
	var rows []recipeRow
	if err := c.get(ctx, "/api/objects/recipes", nil, &rows); err != nil {
		return nil, err
	}

	recipes := make([]recipe.Recipe, 0, len(rows))
	for _, row := range rows {
		recipes = append(recipes, recipe.Recipe{
			ID:              row.ID.Int(),
			Name:            row.Name,
			BaseServings:    float64(row.BaseServings),
			DesiredServings: floatPtr(row.DesiredServings),
			ProductID:       intPtr(row.ProductID),
		})
	}
	return recipes, nil
}

// RecipeIngredients returns all recipe positions.
func (c *Client) RecipeIngredients(ctx context.Context) ([]recipe.Ingredient, error) {
	var rows []recipePosRow
	if err := c.get(ctx, "/api/objects/recipes_pos", nil, &rows); err != nil {
		return nil, err
	}

	ingredients := make([]recipe.Ingredient, 0, len(rows))
	for _, row := range rows {
		ingredients = append(ingredients, recipe.Ingredient{
			RecipeID:  row.RecipeID.Int(),
			ProductID: row.ProductID.Int(),
			Amount:    float64(row.Amount),
			QuID:      row.QuID.Int(),
		})
	}
	return ingredients, nil
}

// RecipeNestings returns all recipe nestings.
func (c *Client) RecipeNestings(ctx context.Context) ([]recipe.Nesting, error) {
	var rows []recipeNestingRow
	if err := c.get(ctx, "/api/objects/recipes_nestings", nil, &rows); err != nil {
		return nil, err
	}

	nestings := make([]recipe.Nesting, 0, len(rows))
	for _, row := range rows {
		nestings = append(nestings, recipe.Nesting{
			RecipeID:         row.RecipeID.Int(),
			IncludesRecipeID: row.IncludesRecipeID.Int(),
			Servings:         float64(row.Servings),
		})
	}
	return nestings, nil
}

// Stock returns the current stock overview.
func (c *Client) Stock(ctx context.Context) ([]recipe.StockEntry, error) {
	var rows []stockRow
	if err := c.get(ctx, "/api/stock", nil, &rows); err != nil {
		return nil, err
	}

	stock := make([]recipe.StockEntry, 0, len(rows))
	for _, row := range rows {
		stock = append(stock, recipe.StockEntry{
			ProductID:        row.ProductID.Int(),
			Amount:           float64(row.Amount),
			AmountAggregated: floatPtr(row.AmountAggregated),
		})
	}
	return stock, nil
}

// Products returns all products.
func (c *Client) Products(ctx context.Context) ([]shopping.Product, error) {
	var rows []namedRow
	if err := c.get(ctx, "/api/objects/products", nil, &rows); err != nil {
		return nil, err
	}

	products := make([]shopping.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, shopping.Product{ID: row.ID.Int(), Name: row.Name})
	}
	return products, nil
}

// QuantityUnits returns all quantity units.
func (c *Client) QuantityUnits(ctx context.Context) ([]shopping.QuantityUnit, error) {
	var rows []namedRow
	if err := c.get(ctx, "/api/objects/quantity_units", nil, &rows); err != nil {
		return nil, err
	}

	units := make([]shopping.QuantityUnit, 0, len(rows))
	for _, row := range rows {
		units = append(units, shopping.QuantityUnit{ID: row.ID.Int(), Name: row.Name})
	}
	return units, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("GROCY-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: %s status=%d body=%s", ErrUnexpectedStatus, path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
