package openfoodfacts

import (
	"strconv"
	"strings"

	"github.com/2beens/fittrack/pkg"

	"github.com/tidwall/gjson"
)

const kJPerKcal = 4.184

// Product is a food found in OpenFoodFacts, macros per 100g.
type Product struct {
	Name       string  `json:"name"`
	Brand      string  `json:"brand,omitempty"`
	Barcode    string  `json:"barcode,omitempty"`
	Kcal100    float64 `json:"kcal100"`
	Protein100 float64 `json:"protein100"`
	Carb100    float64 `json:"carb100"`
	Fat100     float64 `json:"fat100"`
}

// normalizeProduct maps a raw OFF product object to a Product.
// Returns false if any of the energy/protein/carb/fat values is missing.
func normalizeProduct(p gjson.Result) (*Product, bool) {
	if !p.IsObject() {
		return nil, false
	}

	nutriments := p.Get("nutriments")

	var kcal float64
	if raw := nutriments.Get("energy-kcal_100g"); present(raw) {
		v, ok := number(raw)
		if !ok {
			return nil, false
		}
		kcal = v
	} else if raw := nutriments.Get("energy_100g"); present(raw) {
		// kJ
		v, ok := number(raw)
		if !ok {
			return nil, false
		}
		kcal = v / kJPerKcal
	} else {
		return nil, false
	}

	protein, ok := number(nutriments.Get("proteins_100g"))
	if !ok {
		return nil, false
	}
	carb, ok := number(nutriments.Get("carbohydrates_100g"))
	if !ok {
		return nil, false
	}
	fat, ok := number(nutriments.Get("fat_100g"))
	if !ok {
		return nil, false
	}

	brand := strings.TrimSpace(strings.Split(p.Get("brands").String(), ",")[0])

	name := strings.TrimSpace(p.Get("product_name").String())
	if name == "" {
		name = strings.TrimSpace(p.Get("generic_name").String())
	}
	if name == "" {
		name = brand
	}
	if name == "" {
		name = "Product"
	}

	barcode := p.Get("code").String()
	if barcode == "" {
		barcode = p.Get("_id").String()
	}

	return &Product{
		Name:       name,
		Brand:      brand,
		Barcode:    barcode,
		Kcal100:    pkg.Round2(kcal),
		Protein100: pkg.Round2(protein),
		Carb100:    pkg.Round2(carb),
		Fat100:     pkg.Round2(fat),
	}, true
}

func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

// number accepts JSON numbers and numeric strings, OFF uses both.
func number(r gjson.Result) (float64, bool) {
	switch r.Type {
	case gjson.Number:
		return r.Num, true
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}
