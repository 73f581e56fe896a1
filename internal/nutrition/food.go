package nutrition

import (
	"strings"
	"unicode/utf8"

	"github.com/2beens/fittrack/pkg"
)

const (
	MinFoodNameLen = 2
	MaxFoodNameLen = 60
)

// Food is a catalog entry, macros per 100g. Names are unique, case-insensitive.
type Food struct {
	Name       string  `json:"name"`
	Kcal100    float64 `json:"kcal100"`
	Protein100 float64 `json:"protein100"`
	Carb100    float64 `json:"carb100"`
	Fat100     float64 `json:"fat100"`
}

type FoodInput struct {
	Name       string  `json:"name"`
	Kcal100    float64 `json:"kcal100"`
	Protein100 float64 `json:"protein100"`
	Carb100    float64 `json:"carb100"`
	Fat100     float64 `json:"fat100"`
}

type UpsertResult struct {
	Food
	Updated bool `json:"updated"`
}

func ValidateFoodInput(in FoodInput) error {
	vErr := pkg.NewValidationError()

	nameLen := utf8.RuneCountInString(strings.TrimSpace(in.Name))
	if nameLen < MinFoodNameLen || nameLen > MaxFoodNameLen {
		vErr.Add("name", "must be between 2 and 60 characters")
	}
	if in.Kcal100 <= 0 {
		vErr.Add("kcal100", "must be > 0")
	}
	if in.Protein100 < 0 {
		vErr.Add("protein100", "must be >= 0")
	}
	if in.Carb100 < 0 {
		vErr.Add("carb100", "must be >= 0")
	}
	if in.Fat100 < 0 {
		vErr.Add("fat100", "must be >= 0")
	}

	return vErr.OrNil()
}
