package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/2beens/fittrack/internal/config"
	"github.com/2beens/fittrack/internal/logging"
	"github.com/2beens/fittrack/internal/nutrition"
	"github.com/2beens/fittrack/internal/openfoodfacts"
	"github.com/2beens/fittrack/internal/progression"
	"github.com/2beens/fittrack/internal/storage"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

type globalOptions struct {
	env        string
	configPath string
	logLevel   string
	jsonOutput bool
}

func (o *globalOptions) setupLogging(cmd *cobra.Command) error {
	if err := logging.Setup(logging.LoggerSetupParams{
		LogLevel: o.logLevel,
	}); err != nil {
		return err
	}
	// stdout is for results only
	log.SetOutput(cmd.ErrOrStderr())
	return nil
}

func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.env, o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// app holds the core modules over the configured storage.
type app struct {
	cfg     *config.Config
	stores  *storage.Stores
	foodDB  *openfoodfacts.Client
	advisor *progression.Advisor
	ledger  *nutrition.Ledger
}

func (o *globalOptions) openApp(ctx context.Context) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	stores, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if err := stores.Migrate(ctx); err != nil {
		return nil, multierr.Append(fmt.Errorf("migrate storage: %w", err), stores.Close())
	}

	foodDB := openfoodfacts.NewClient(cfg.OFFBaseURL, cfg.OFFTimeout, cfg.OFFCacheSizeMB)
	ledger := nutrition.NewLedger(stores.Foods, stores.Meals, foodDB, nil)
	if err := ledger.SeedCatalog(ctx); err != nil {
		return nil, multierr.Append(err, stores.Close())
	}

	return &app{
		cfg:     cfg,
		stores:  stores,
		foodDB:  foodDB,
		advisor: progression.NewAdvisor(stores.Sessions, nil),
		ledger:  ledger,
	}, nil
}

func (a *app) Close() {
	if err := a.stores.Close(); err != nil {
		log.Errorf("close storage: %s", err)
	}
}

// withApp opens the app for the duration of a command.
func withApp(opts *globalOptions, fn func(cmd *cobra.Command, a *app, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := opts.openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
