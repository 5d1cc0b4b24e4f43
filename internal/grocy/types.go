package grocy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Number decodes a Grocy numeric field. Depending on the server version and
// database backend, numbers arrive either as JSON numbers or as strings.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", s, err)
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

func (n Number) Int() int { return int(n) }

type mealPlanRow struct {
	ID             Number  `json:"id"`
	Day            string  `json:"day"`
	Type           string  `json:"type"`
	RecipeID       *Number `json:"recipe_id"`
	RecipeServings *Number `json:"recipe_servings"`
}

type recipeRow struct {
	ID              Number  `json:"id"`
	Name            string  `json:"name"`
	BaseServings    Number  `json:"base_servings"`
	DesiredServings *Number `json:"desired_servings"`
	ProductID       *Number `json:"product_id"`
}

type recipePosRow struct {
	RecipeID  Number `json:"recipe_id"`
	ProductID Number `json:"product_id"`
	Amount    Number `json:"amount"`
	QuID      Number `json:"qu_id"`
}

type recipeNestingRow struct {
	RecipeID         Number `json:"recipe_id"`
	IncludesRecipeID Number `json:"includes_recipe_id"`
	Servings         Number `json:"servings"`
}

type stockRow struct {
	ProductID        Number  `json:"product_id"`
	Amount           Number  `json:"amount"`
	AmountAggregated *Number `json:"amount_aggregated"`
}

type namedRow struct {
	ID   Number `json:"id"`
	Name string `json:"name"`
}

func intPtr(n *Number) *int {
	if n == nil {
		return nil
	}
	v := n.Int()
	return &v
}

func floatPtr(n *Number) *float64 {
	if n == nil {
		return nil
	}
	v := float64(*n)
	return &v
}
