package shopping

import (
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"grocy-planner/internal/planner"
	"grocy-planner/internal/recipe"
)

// Builder nets aggregated demand against stock and produces a List.
type Builder struct {
	locale language.Tag
}

// NewBuilder creates a Builder sorting product names for locale (a BCP 47
// tag such as "en" or "de-AT"). An unparsable locale falls back to English.
func NewBuilder(locale string) *Builder {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Builder{locale: tag}
}

// Build turns aggregated demand into a shopping list. Only products with
// something left to buy are listed. Amounts are not rounded.
func (b *Builder) Build(
	start, end time.Time,
	agg planner.Aggregate,
	idx *recipe.Index,
	products []Product,
	units []QuantityUnit,
) *List {
	productNames := make(map[int]string, len(products))
	for _, p := range products {
		productNames[p.ID] = p.Name
	}
	unitNames := make(map[int]string, len(units))
	for _, u := range units {
		unitNames[u.ID] = u.Name
	}

	items := []Item{}
	for productID, need := range agg.Needed {
		stock := idx.Stock(productID)
		toBuy := max(0, need.Amount-stock)
		if toBuy <= 0 {
			continue
		}

		name, ok := productNames[productID]
		if !ok {
			name = fmt.Sprintf("Unknown (%d)", productID)
		}

		items = append(items, Item{
			ProductID:    productID,
			ProductName:  name,
			NeededAmount: need.Amount,
			StockAmount:  stock,
			ToBuyAmount:  toBuy,
			QuID:         need.QuID,
			QuName:       unitNames[need.QuID],
		})
	}

	col := collate.New(b.locale)
	sort.Slice(items, func(i, j int) bool {
		if c := col.CompareString(items[i].ProductName, items[j].ProductName); c != 0 {
			return c < 0
		}
		return items[i].ProductID < items[j].ProductID
	})

	return &List{
		StartDate:                start.Format(planner.DateLayout),
		EndDate:                  end.Format(planner.DateLayout),
		RecipesProcessed:         agg.RecipesProcessed,
		HomemadeProductsResolved: agg.HomemadeProductsResolved,
		Items:                    items,
	}
}
