package nutrition

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/2beens/fittrack/pkg"

	log "github.com/sirupsen/logrus"
)

type FoodsSQLiteRepo struct {
	db *sql.DB
}

func NewFoodsSQLiteRepo(db *sql.DB) *FoodsSQLiteRepo {
	return &FoodsSQLiteRepo{
		db: db,
	}
}

func (r *FoodsSQLiteRepo) List(ctx context.Context) ([]Food, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT name, kcal_100, protein_100, carb_100, fat_100 FROM food ORDER BY rowid;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	foods := []Food{}
	for rows.Next() {
		var f Food
		if err := rows.Scan(&f.Name, &f.Kcal100, &f.Protein100, &f.Carb100, &f.Fat100); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		foods = append(foods, f)
	}

	return foods, rows.Err()
}

// Upsert keys foods by a lower-cased name computed here, sqlite's own
// case folding is ASCII only.
func (r *FoodsSQLiteRepo) Upsert(ctx context.Context, food Food) (_ bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				log.Errorf("rollback food upsert: %s", rollbackErr)
			}
		}
	}()

	key := pkg.NameKey(food.Name)
	var existing int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM food WHERE name_key = ?;`, key).Scan(&existing)
	if err != nil {
		return false, fmt.Errorf("check food: %w", err)
	}

	if existing > 0 {
		_, err = tx.ExecContext(
			ctx,
			`UPDATE food SET name = ?, kcal_100 = ?, protein_100 = ?, carb_100 = ?, fat_100 = ? WHERE name_key = ?;`,
			food.Name, food.Kcal100, food.Protein100, food.Carb100, food.Fat100, key,
		)
	} else {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO food (name_key, name, kcal_100, protein_100, carb_100, fat_100) VALUES (?, ?, ?, ?, ?, ?);`,
			key, food.Name, food.Kcal100, food.Protein100, food.Carb100, food.Fat100,
		)
	}
	if err != nil {
		return false, fmt.Errorf("save food: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, err
	}
	return existing > 0, nil
}

// Seed treats an empty food table as a new catalog.
func (r *FoodsSQLiteRepo) Seed(ctx context.Context, base, extra []Food) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM food;`).Scan(&count); err != nil {
		return fmt.Errorf("count foods: %w", err)
	}

	toInsert := extra
	if count == 0 {
		log.Infof("creating food catalog with %d base foods", len(base))
		toInsert = append(append([]Food{}, base...), extra...)
	}

	for _, f := range toInsert {
		_, err := r.db.ExecContext(
			ctx,
			`INSERT OR IGNORE INTO food (name_key, name, kcal_100, protein_100, carb_100, fat_100) VALUES (?, ?, ?, ?, ?, ?);`,
			pkg.NameKey(f.Name), f.Name, f.Kcal100, f.Protein100, f.Carb100, f.Fat100,
		)
		if err != nil {
			return fmt.Errorf("insert food %s: %w", f.Name, err)
		}
	}

	return nil
}

type MealsSQLiteRepo struct {
	db *sql.DB
}

func NewMealsSQLiteRepo(db *sql.DB) *MealsSQLiteRepo {
	return &MealsSQLiteRepo{
		db: db,
	}
}

func (r *MealsSQLiteRepo) Add(ctx context.Context, entry MealEntry) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO meal (id, date, food, quantity_g, kcal, protein, carb, fat) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		entry.ID, entry.Date.String(), entry.Food, entry.QuantityG, entry.Kcal, entry.Protein, entry.Carb, entry.Fat,
	)
	if err != nil {
		return fmt.Errorf("insert meal: %w", err)
	}
	return nil
}

func (r *MealsSQLiteRepo) ListByDate(ctx context.Context, date pkg.Date) ([]MealEntry, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`
			SELECT id, date, food, quantity_g, kcal, protein, carb, fat
			FROM meal
			WHERE date = ?
			ORDER BY rowid;`,
		date.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []MealEntry
	for rows.Next() {
		var e MealEntry
		var day string
		if err := rows.Scan(&e.ID, &day, &e.Food, &e.QuantityG, &e.Kcal, &e.Protein, &e.Carb, &e.Fat); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		e.Date = date
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *MealsSQLiteRepo) Remove(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM meal WHERE id = ?;`, id)
	if err != nil {
		return false, fmt.Errorf("delete meal: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

