package nutrition

import (
	"github.com/2beens/fittrack/pkg"
)

// MealEntry is one logged portion of a food, macros already scaled to the quantity.
type MealEntry struct {
	ID        string   `json:"id"`
	Date      pkg.Date `json:"date"`
	Food      string   `json:"food"`
	QuantityG float64  `json:"quantityG"`
	Kcal      float64  `json:"kcal"`
	Protein   float64  `json:"protein"`
	Carb      float64  `json:"carb"`
	Fat       float64  `json:"fat"`
}

type MealInput struct {
	Food      string  `json:"food"`
	QuantityG float64 `json:"quantityG"`
	// Date is optional, YYYY-MM-DD, defaults to today
	Date string `json:"date,omitempty"`

	// Custom per 100g macros. Used only when all four are set, the food
	// is then not looked up in the catalog (and not added to it).
	Kcal100    *float64 `json:"kcal100,omitempty"`
	Protein100 *float64 `json:"protein100,omitempty"`
	Carb100    *float64 `json:"carb100,omitempty"`
	Fat100     *float64 `json:"fat100,omitempty"`
}

func (in MealInput) hasCustomMacros() bool {
	return in.Kcal100 != nil && in.Protein100 != nil && in.Carb100 != nil && in.Fat100 != nil
}

type DaySummary struct {
	Date    pkg.Date    `json:"date"`
	Kcal    float64     `json:"kcal"`
	Protein float64     `json:"protein"`
	Carb    float64     `json:"carb"`
	Fat     float64     `json:"fat"`
	Meals   []MealEntry `json:"meals"`
}

// newMealEntry scales the per 100g macros of food to the given quantity.
func newMealEntry(id string, date pkg.Date, food Food, quantityG float64) MealEntry {
	factor := quantityG / 100.0
	return MealEntry{
		ID:        id,
		Date:      date,
		Food:      food.Name,
		QuantityG: quantityG,
		Kcal:      pkg.Round2(food.Kcal100 * factor),
		Protein:   pkg.Round2(food.Protein100 * factor),
		Carb:      pkg.Round2(food.Carb100 * factor),
		Fat:       pkg.Round2(food.Fat100 * factor),
	}
}
