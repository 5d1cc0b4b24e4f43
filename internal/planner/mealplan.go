package planner

import (
	"sort"
	"time"
)

// DateLayout is the day format used by the meal plan and the shopping list.
const DateLayout = "2006-01-02"

// MealPlanEntry is one occurrence of a recipe on a given day.
type MealPlanEntry struct {
	ID       int      `json:"id"`
	Day      string   `json:"day"`
	RecipeID *int     `json:"recipe_id,omitempty"`
	Servings *float64 `json:"recipe_servings,omitempty"`
}

// OrderEntries returns entries in processing order: by day, then by their
// upstream position. Earlier entries claim homemade stock first.
func OrderEntries(entries []MealPlanEntry) []MealPlanEntry {
	ordered := make([]MealPlanEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Day < ordered[j].Day
	})
	return ordered
}

// GetNextMonday returns the date of the Monday after t, at midnight.
// On a Monday it returns the following week's Monday.
func GetNextMonday(t time.Time) time.Time {
	daysUntil := (int(time.Monday) - int(t.Weekday()) + 7) % 7
	if daysUntil == 0 {
		daysUntil = 7
	}
	next := t.AddDate(0, 0, daysUntil)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, t.Location())
}

// WeekRange returns the Monday to Sunday range starting at monday.
func WeekRange(monday time.Time) (time.Time, time.Time) {
	return monday, monday.AddDate(0, 0, 6)
}
