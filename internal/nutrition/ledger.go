package nutrition

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/openfoodfacts"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=repo_mocks_test.go -package=nutrition_test

const DefaultSearchLimit = 20

var (
	ErrFoodNotFound    = errors.New("food not found")
	ErrMealNotFound    = errors.New("meal not found")
	ErrProductNotFound = errors.New("product not found")
)

// FoodsRepo is the food catalog, kept in insertion order.
type FoodsRepo interface {
	List(ctx context.Context) ([]Food, error)
	// Upsert replaces the food with the same (case-insensitive) name, or adds it.
	// Returns true when an existing food was replaced.
	Upsert(ctx context.Context, food Food) (bool, error)
	// Seed fills a new catalog with base, then adds the extra foods it does not have yet.
	Seed(ctx context.Context, base, extra []Food) error
}

// MealsRepo is the meal log.
type MealsRepo interface {
	Add(ctx context.Context, entry MealEntry) error
	ListByDate(ctx context.Context, date pkg.Date) ([]MealEntry, error)
	// Remove deletes the entry with the given id, false if there was none.
	Remove(ctx context.Context, id string) (bool, error)
}

type ProductLookup interface {
	LookupBarcode(ctx context.Context, barcode string) (*openfoodfacts.Product, bool)
}

type Ledger struct {
	foods  FoodsRepo
	meals  MealsRepo
	lookup ProductLookup
	now    func() time.Time
}

func NewLedger(foods FoodsRepo, meals MealsRepo, lookup ProductLookup, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		foods:  foods,
		meals:  meals,
		lookup: lookup,
		now:    now,
	}
}

func (l *Ledger) Today() pkg.Date {
	return pkg.DateOf(l.now())
}

// SeedCatalog makes sure the catalog has the built-in foods.
func (l *Ledger) SeedCatalog(ctx context.Context) error {
	if err := l.foods.Seed(ctx, BaseFoods, ExtraFoods); err != nil {
		return fmt.Errorf("seed food catalog: %w", err)
	}
	return nil
}

// AddMeal logs a portion of a catalog food, or of an ad-hoc food when all
// custom macros are given.
func (l *Ledger) AddMeal(ctx context.Context, in MealInput) (_ *MealEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.nutrition.addMeal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	foodName := strings.TrimSpace(in.Food)
	span.SetAttributes(attribute.String("food", foodName))

	vErr := pkg.NewValidationError()
	if foodName == "" {
		vErr.Add("food", "must not be empty")
	}
	if in.QuantityG <= 0 {
		vErr.Add("quantityG", "must be > 0")
	}
	date := l.Today()
	if in.Date != "" {
		parsed, parseErr := pkg.ParseDate(in.Date)
		if parseErr != nil {
			vErr.Add("date", "must be YYYY-MM-DD")
		}
		date = parsed
	}
	custom := in.hasCustomMacros()
	if custom {
		if *in.Kcal100 <= 0 {
			vErr.Add("kcal100", "must be > 0")
		}
		for field, v := range map[string]float64{
			"protein100": *in.Protein100,
			"carb100":    *in.Carb100,
			"fat100":     *in.Fat100,
		} {
			if v < 0 {
				vErr.Add(field, "must be >= 0")
			}
		}
	}
	if err := vErr.OrNil(); err != nil {
		return nil, err
	}

	var food Food
	if custom {
		food = Food{
			Name:       foodName,
			Kcal100:    *in.Kcal100,
			Protein100: *in.Protein100,
			Carb100:    *in.Carb100,
			Fat100:     *in.Fat100,
		}
	} else {
		found, err := l.findFood(ctx, foodName)
		if err != nil {
			return nil, err
		}
		food = *found
	}

	entry := newMealEntry(uuid.NewString(), date, food, in.QuantityG)
	if err := l.meals.Add(ctx, entry); err != nil {
		return nil, fmt.Errorf("add meal: %w", err)
	}

	log.Debugf("meal added [%s]: %s %.2fg, %.2f kcal", entry.ID, entry.Food, entry.QuantityG, entry.Kcal)
	return &entry, nil
}

func (l *Ledger) findFood(ctx context.Context, name string) (*Food, error) {
	foods, err := l.foods.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}

	key := pkg.NameKey(name)
	for i := range foods {
		if pkg.NameKey(foods[i].Name) == key {
			return &foods[i], nil
		}
	}

	return nil, ErrFoodNotFound
}

// DaySummary totals all meals logged on the given day.
func (l *Ledger) DaySummary(ctx context.Context, date pkg.Date) (_ *DaySummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.nutrition.daySummary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("date", date.String()))

	entries, err := l.meals.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}

	summary := &DaySummary{
		Date:  date,
		Meals: []MealEntry{},
	}
	for _, e := range entries {
		summary.Kcal += e.Kcal
		summary.Protein += e.Protein
		summary.Carb += e.Carb
		summary.Fat += e.Fat
		summary.Meals = append(summary.Meals, e)
	}
	summary.Kcal = pkg.Round2(summary.Kcal)
	summary.Protein = pkg.Round2(summary.Protein)
	summary.Carb = pkg.Round2(summary.Carb)
	summary.Fat = pkg.Round2(summary.Fat)

	return summary, nil
}

func (l *Ledger) RemoveMeal(ctx context.Context, id string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.nutrition.removeMeal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("meal.id", id))

	if strings.TrimSpace(id) == "" {
		return false, nil
	}

	removed, err := l.meals.Remove(ctx, id)
	if err != nil {
		return false, fmt.Errorf("remove meal: %w", err)
	}
	return removed, nil
}

func (l *Ledger) UpsertFood(ctx context.Context, in FoodInput) (_ *UpsertResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.nutrition.upsertFood")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := ValidateFoodInput(in); err != nil {
		return nil, err
	}

	food := Food{
		Name:       strings.TrimSpace(in.Name),
		Kcal100:    in.Kcal100,
		Protein100: in.Protein100,
		Carb100:    in.Carb100,
		Fat100:     in.Fat100,
	}
	span.SetAttributes(attribute.String("food", food.Name))

	updated, err := l.foods.Upsert(ctx, food)
	if err != nil {
		return nil, fmt.Errorf("upsert food: %w", err)
	}

	return &UpsertResult{
		Food:    food,
		Updated: updated,
	}, nil
}

// SearchFoods returns catalog foods whose name contains query (case-insensitive).
// An empty query matches everything. A zero limit means DefaultSearchLimit.
func (l *Ledger) SearchFoods(ctx context.Context, query string, limit int) (_ []Food, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.nutrition.searchFoods")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("query", query))

	if limit < 0 {
		vErr := pkg.NewValidationError()
		vErr.Add("limit", "must be >= 1")
		return nil, vErr.OrNil()
	}
	if limit == 0 {
		limit = DefaultSearchLimit
	}

	foods, err := l.foods.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}

	q := pkg.NameKey(query)
	found := make([]Food, 0, min(limit, len(foods)))
	for _, f := range foods {
		if len(found) >= limit {
			break
		}
		if q == "" || strings.Contains(pkg.NameKey(f.Name), q) {
			found = append(found, f)
		}
	}

	return found, nil
}

// ImportProduct looks the barcode up in OpenFoodFacts and saves the product
// in the food catalog.
func (l *Ledger) ImportProduct(ctx context.Context, barcode string) (_ *UpsertResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.nutrition.importProduct")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("barcode", barcode))

	if l.lookup == nil {
		return nil, ErrProductNotFound
	}

	product, ok := l.lookup.LookupBarcode(ctx, barcode)
	if !ok {
		return nil, ErrProductNotFound
	}

	name := []rune(strings.TrimSpace(product.Name))
	if len(name) > MaxFoodNameLen {
		name = []rune(strings.TrimSpace(string(name[:MaxFoodNameLen])))
	}

	return l.UpsertFood(ctx, FoodInput{
		Name:       string(name),
		Kcal100:    product.Kcal100,
		Protein100: product.Protein100,
		Carb100:    product.Carb100,
		Fat100:     product.Fat100,
	})
}
