package progression

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/2beens/fittrack/pkg"
)

type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(db *sql.DB) *SQLiteRepo {
	return &SQLiteRepo{
		db: db,
	}
}

func (r *SQLiteRepo) Add(ctx context.Context, session Session) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO session (exercise, weight, reps, rpe, date) VALUES (?, ?, ?, ?, ?);`,
		session.Exercise, session.Weight, session.Reps, session.RPE, session.Date.String(),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) ListByExercise(ctx context.Context, exercise string) ([]Session, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`
			SELECT exercise, weight, reps, rpe, date
			FROM session
			WHERE exercise = ?
			ORDER BY id;`,
		exercise,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var date string
		if err := rows.Scan(&s.Exercise, &s.Weight, &s.Reps, &s.RPE, &date); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		parsed, err := pkg.ParseDate(date)
		if err != nil {
			continue
		}
		s.Date = parsed
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}
