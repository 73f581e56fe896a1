// Package storage wires the configured backend to the repositories of the
// progression and nutrition modules.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/2beens/fittrack/internal/config"
	"github.com/2beens/fittrack/internal/db"
	"github.com/2beens/fittrack/internal/nutrition"
	"github.com/2beens/fittrack/internal/progression"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

type Stores struct {
	Sessions progression.SessionsRepo
	Foods    nutrition.FoodsRepo
	Meals    nutrition.MealsRepo

	backend     string
	sqliteDB    *sql.DB
	sessionsCSV *progression.CSVRepo
	mealsCSV    *nutrition.MealsCSVRepo
}

// Open sets up the stores of the configured backend. The SQLite schema is
// created here, CSV files are created lazily on first write.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	exists, err := pkg.PathExists(cfg.DataDir, true)
	if err != nil {
		return nil, fmt.Errorf("check data dir: %w", err)
	}
	if !exists {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		log.Infof("data dir created: %s", cfg.DataDir)
	}

	switch cfg.StorageBackend {
	case config.StorageCSV:
		sessions := progression.NewCSVRepo(cfg.DataPath(cfg.SessionsFile))
		meals := nutrition.NewMealsCSVRepo(cfg.DataPath(cfg.MealsFile))
		log.Debugf("csv storage in %s", cfg.DataDir)
		return &Stores{
			Sessions:    sessions,
			Foods:       nutrition.NewFoodsCSVRepo(cfg.DataPath(cfg.FoodsFile)),
			Meals:       meals,
			backend:     config.StorageCSV,
			sessionsCSV: sessions,
			mealsCSV:    meals,
		}, nil
	case config.StorageSQLite:
		sqliteDB, err := db.OpenSQLite(ctx, cfg.DataPath(cfg.SQLiteFile))
		if err != nil {
			return nil, err
		}
		if err := db.MigrateSQLite(ctx, sqliteDB); err != nil {
			return nil, multierr.Append(err, sqliteDB.Close())
		}
		return &Stores{
			Sessions: progression.NewSQLiteRepo(sqliteDB),
			Foods:    nutrition.NewFoodsSQLiteRepo(sqliteDB),
			Meals:    nutrition.NewMealsSQLiteRepo(sqliteDB),
			backend:  config.StorageSQLite,
			sqliteDB: sqliteDB,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}
}

func (s *Stores) Backend() string {
	return s.backend
}

// Migrate brings stored data to the current layout: session history gets the
// rpe column, the meal log gets ids. Running it again is a no-op.
func (s *Stores) Migrate(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "storage.migrate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("backend", s.backend))

	if s.sqliteDB != nil {
		return db.MigrateSQLite(ctx, s.sqliteDB)
	}

	if err := s.sessionsCSV.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate sessions: %w", err)
	}
	migrated, err := s.mealsCSV.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("migrate meals: %w", err)
	}
	if migrated {
		log.Infoln("meal log migrated, every meal now has an id")
	}

	return nil
}

func (s *Stores) Close() error {
	if s.sqliteDB == nil {
		return nil
	}
	return s.sqliteDB.Close()
}
