package progression

import (
	"context"
	"errors"
	"strconv"

	"github.com/2beens/fittrack/internal/flatfile"
	"github.com/2beens/fittrack/pkg"
)

var SessionsColumns = []string{"exercise", "weight", "reps", "rpe", "date"}

// CSVRepo keeps the sessions history in a flat CSV file, one row per set.
type CSVRepo struct {
	table *flatfile.Table
}

func NewCSVRepo(path string) *CSVRepo {
	return &CSVRepo{
		table: flatfile.NewTable(path, SessionsColumns),
	}
}

func (r *CSVRepo) Add(ctx context.Context, session Session) error {
	rec := flatfile.Record{
		"exercise": session.Exercise,
		"weight":   strconv.FormatFloat(session.Weight, 'f', -1, 64),
		"reps":     strconv.Itoa(session.Reps),
		"rpe":      strconv.Itoa(session.RPE),
		"date":     session.Date.String(),
	}
	err := r.table.Append(ctx, rec)
	if !errors.Is(err, flatfile.ErrNeedsMigration) {
		return err
	}
	if err := r.Migrate(ctx); err != nil {
		return err
	}
	return r.table.Append(ctx, rec)
}

func (r *CSVRepo) ListByExercise(ctx context.Context, exercise string) ([]Session, error) {
	records, err := r.table.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	var sessions []Session
	for _, rec := range records {
		if rec["exercise"] != exercise {
			continue
		}
		s, ok := sessionFromRecord(rec)
		if !ok {
			continue
		}
		sessions = append(sessions, s)
	}

	return sessions, nil
}

// Migrate adds the rpe column to history files written before RPE was tracked.
// Old rows keep an empty rpe.
func (r *CSVRepo) Migrate(ctx context.Context) error {
	_, err := r.table.Migrate(ctx, []string{"exercise", "weight", "reps", "date"}, func(_ []string, records []flatfile.Record) []flatfile.Record {
		return records
	})
	return err
}

func sessionFromRecord(rec flatfile.Record) (Session, bool) {
	weight, err := strconv.ParseFloat(rec["weight"], 64)
	if err != nil {
		return Session{}, false
	}
	reps, err := strconv.Atoi(rec["reps"])
	if err != nil {
		return Session{}, false
	}
	date, err := pkg.ParseDate(rec["date"])
	if err != nil {
		return Session{}, false
	}

	// missing in legacy rows
	rpe, _ := strconv.Atoi(rec["rpe"])

	return Session{
		Exercise: rec["exercise"],
		Weight:   weight,
		Reps:     reps,
		RPE:      rpe,
		Date:     date,
	}, true
}
