package nutrition

import (
	"context"
	"errors"
	"slices"
	"strconv"

	"github.com/2beens/fittrack/internal/flatfile"
	"github.com/2beens/fittrack/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	FoodsColumns = []string{"name", "kcal_100", "protein_100", "carb_100", "fat_100"}
	MealsColumns = []string{"id", "date", "food", "quantity_g", "kcal", "protein", "carb", "fat"}
)

type FoodsCSVRepo struct {
	table *flatfile.Table
}

func NewFoodsCSVRepo(path string) *FoodsCSVRepo {
	return &FoodsCSVRepo{
		table: flatfile.NewTable(path, FoodsColumns),
	}
}

func (r *FoodsCSVRepo) List(ctx context.Context) ([]Food, error) {
	records, err := r.table.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	foods := make([]Food, 0, len(records))
	for _, rec := range records {
		food, ok := foodFromRecord(rec)
		if !ok {
			continue
		}
		foods = append(foods, food)
	}

	return foods, nil
}

func (r *FoodsCSVRepo) Upsert(ctx context.Context, food Food) (bool, error) {
	updated := false
	err := r.table.Update(ctx, func(records []flatfile.Record) ([]flatfile.Record, bool, error) {
		key := pkg.NameKey(food.Name)
		for i, rec := range records {
			if pkg.NameKey(rec["name"]) == key {
				records[i] = foodToRecord(food)
				updated = true
			}
		}
		if !updated {
			records = append(records, foodToRecord(food))
		}
		return records, true, nil
	})
	if err != nil {
		return false, err
	}
	return updated, nil
}

func (r *FoodsCSVRepo) Seed(ctx context.Context, base, extra []Food) error {
	header, err := r.table.Header()
	if err != nil {
		return err
	}
	if header == nil {
		log.Infof("creating food catalog %s with %d base foods", r.table.Path(), len(base))
		if err := r.table.Append(ctx, foodsToRecords(base)...); err != nil {
			return err
		}
	}

	records, err := r.table.ReadAll(ctx)
	if err != nil {
		return err
	}
	existing := make(map[string]bool, len(records))
	for _, rec := range records {
		existing[pkg.NameKey(rec["name"])] = true
	}

	var missing []Food
	for _, f := range extra {
		if !existing[pkg.NameKey(f.Name)] {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	log.Infof("adding %d foods to catalog %s", len(missing), r.table.Path())
	return r.table.Append(ctx, foodsToRecords(missing)...)
}

func foodFromRecord(rec flatfile.Record) (Food, bool) {
	if rec["name"] == "" {
		return Food{}, false
	}
	values, ok := parseFloats(rec, "kcal_100", "protein_100", "carb_100", "fat_100")
	if !ok {
		return Food{}, false
	}
	return Food{
		Name:       rec["name"],
		Kcal100:    values[0],
		Protein100: values[1],
		Carb100:    values[2],
		Fat100:     values[3],
	}, true
}

func foodToRecord(f Food) flatfile.Record {
	return flatfile.Record{
		"name":        f.Name,
		"kcal_100":    formatFloat(f.Kcal100),
		"protein_100": formatFloat(f.Protein100),
		"carb_100":    formatFloat(f.Carb100),
		"fat_100":     formatFloat(f.Fat100),
	}
}

func foodsToRecords(foods []Food) []flatfile.Record {
	records := make([]flatfile.Record, 0, len(foods))
	for _, f := range foods {
		records = append(records, foodToRecord(f))
	}
	return records
}

type MealsCSVRepo struct {
	table *flatfile.Table
}

func NewMealsCSVRepo(path string) *MealsCSVRepo {
	return &MealsCSVRepo{
		table: flatfile.NewTable(path, MealsColumns),
	}
}

// Add appends the entry, migrating a legacy log first when needed.
func (r *MealsCSVRepo) Add(ctx context.Context, entry MealEntry) error {
	err := r.table.Append(ctx, mealToRecord(entry))
	if !errors.Is(err, flatfile.ErrNeedsMigration) {
		return err
	}
	if _, err := r.Migrate(ctx); err != nil {
		return err
	}
	return r.table.Append(ctx, mealToRecord(entry))
}

func (r *MealsCSVRepo) ListByDate(ctx context.Context, date pkg.Date) ([]MealEntry, error) {
	records, err := r.table.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	day := date.String()
	var entries []MealEntry
	for _, rec := range records {
		if rec["date"] != day {
			continue
		}
		entry, ok := mealFromRecord(rec)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (r *MealsCSVRepo) Remove(ctx context.Context, id string) (bool, error) {
	removed := false
	err := r.table.Update(ctx, func(records []flatfile.Record) ([]flatfile.Record, bool, error) {
		kept := records[:0]
		for _, rec := range records {
			if rec["id"] == id {
				removed = true
				continue
			}
			kept = append(kept, rec)
		}
		return kept, removed, nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// Migrate rewrites a meal log written before meals had ids: every row gets a
// fresh id, rows with unparsable numbers are dropped. Returns whether the
// file was rewritten.
func (r *MealsCSVRepo) Migrate(ctx context.Context) (bool, error) {
	return r.table.Migrate(ctx, []string{"date", "food"}, func(header []string, records []flatfile.Record) []flatfile.Record {
		hasID := slices.Contains(header, "id")
		migrated := make([]flatfile.Record, 0, len(records))
		for _, rec := range records {
			out := flatfile.Record{
				"id":   rec["id"],
				"date": rec["date"],
				"food": rec["food"],
			}
			if !hasID || out["id"] == "" {
				out["id"] = uuid.NewString()
			}

			valid := true
			for _, col := range []string{"quantity_g", "kcal", "protein", "carb", "fat"} {
				// empty means 0 in old logs
				if rec[col] == "" {
					out[col] = "0"
					continue
				}
				v, err := strconv.ParseFloat(rec[col], 64)
				if err != nil {
					valid = false
					break
				}
				out[col] = formatFloat(v)
			}
			if !valid {
				log.Warnf("dropping malformed meal row during migration: %v", rec)
				continue
			}
			migrated = append(migrated, out)
		}
		return migrated
	})
}

func mealFromRecord(rec flatfile.Record) (MealEntry, bool) {
	date, err := pkg.ParseDate(rec["date"])
	if err != nil {
		return MealEntry{}, false
	}
	values, ok := parseFloats(rec, "quantity_g", "kcal", "protein", "carb", "fat")
	if !ok {
		return MealEntry{}, false
	}
	return MealEntry{
		ID:        rec["id"],
		Date:      date,
		Food:      rec["food"],
		QuantityG: values[0],
		Kcal:      values[1],
		Protein:   values[2],
		Carb:      values[3],
		Fat:       values[4],
	}, true
}

func mealToRecord(e MealEntry) flatfile.Record {
	return flatfile.Record{
		"id":         e.ID,
		"date":       e.Date.String(),
		"food":       e.Food,
		"quantity_g": formatFloat(e.QuantityG),
		"kcal":       formatFloat(e.Kcal),
		"protein":    formatFloat(e.Protein),
		"carb":       formatFloat(e.Carb),
		"fat":        formatFloat(e.Fat),
	}
}

func parseFloats(rec flatfile.Record, columns ...string) ([]float64, bool) {
	values := make([]float64, len(columns))
	for i, col := range columns {
		v, err := strconv.ParseFloat(rec[col], 64)
		if err != nil {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

