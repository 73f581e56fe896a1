package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
)

const (
	StorageCSV    = "csv"
	StorageSQLite = "sqlite"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host" env:"FITTRACK_HOST, overwrite"`
	Port        int    `toml:"port" env:"FITTRACK_PORT, overwrite"`
	MetricsPort int    `toml:"metrics_port" env:"FITTRACK_METRICS_PORT, overwrite"`

	// logging
	LogLevel      string `toml:"log_level" env:"FITTRACK_LOG_LEVEL, overwrite"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	SentryDSN     string `toml:"-" env:"SENTRY_DSN"`

	// tracing
	HoneycombEnabled bool   `toml:"honeycomb_enabled" env:"HONEYCOMB_ENABLED, overwrite"`
	OtelServiceName  string `toml:"otel_service_name" env:"OTEL_SERVICE_NAME, overwrite"`

	// storage
	StorageBackend string `toml:"storage_backend" env:"FITTRACK_STORAGE_BACKEND, overwrite"`
	DataDir        string `toml:"data_dir" env:"FITTRACK_DATA_DIR, overwrite"`
	SessionsFile   string `toml:"sessions_file"`
	FoodsFile      string `toml:"foods_file"`
	MealsFile      string `toml:"meals_file"`
	SQLiteFile     string `toml:"sqlite_file"`

	// openfoodfacts
	OFFBaseURL     string        `toml:"off_base_url" env:"FITTRACK_OFF_BASE_URL, overwrite"`
	OFFTimeout     time.Duration `toml:"-"`
	OFFTimeoutSecs int           `toml:"off_timeout_secs"`
	OFFCacheSizeMB int           `toml:"off_cache_size_mb"`

	// http
	AllowedOrigins []string `toml:"allowed_origins"`
	// bcrypt hash of the X-FIT-TOKEN value, empty disables the check
	APITokenHash string `toml:"-" env:"FITTRACK_API_TOKEN_HASH"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the config of the given environment from the TOML file, then
// applies the env var overrides. A .env file next to the config is loaded
// into the environment first, if present.
func Load(env, configPath string) (*Config, error) {
	dotEnvPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(dotEnvPath); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", dotEnvPath, err)
		}
	} else {
		log.Debugf("env vars loaded from %s", dotEnvPath)
	}

	var tomlCfg Toml
	if _, err := toml.DecodeFile(configPath, &tomlCfg); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", configPath, err)
	}

	cfg, err := tomlCfg.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("process env vars: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.MetricsPort == 0 {
		c.MetricsPort = 2112
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.OtelServiceName == "" {
		c.OtelServiceName = "fittrack"
	}
	if c.StorageBackend == "" {
		c.StorageBackend = StorageCSV
	}
	c.StorageBackend = strings.ToLower(c.StorageBackend)
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.SessionsFile == "" {
		c.SessionsFile = "sessions.csv"
	}
	if c.FoodsFile == "" {
		c.FoodsFile = "foods.csv"
	}
	if c.MealsFile == "" {
		c.MealsFile = "meals.csv"
	}
	if c.SQLiteFile == "" {
		c.SQLiteFile = "fittrack.db"
	}
	if c.OFFTimeoutSecs <= 0 {
		c.OFFTimeoutSecs = 8
	}
	c.OFFTimeout = time.Duration(c.OFFTimeoutSecs) * time.Second
	if c.OFFCacheSizeMB <= 0 {
		c.OFFCacheSizeMB = 10
	}
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case StorageCSV, StorageSQLite:
	default:
		return fmt.Errorf("unknown storage backend: %s", c.StorageBackend)
	}
	if c.Port == c.MetricsPort {
		return fmt.Errorf("port and metrics port must differ: %d", c.Port)
	}
	return nil
}

// DataPath resolves a data file name against the data dir.
func (c *Config) DataPath(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(c.DataDir, file)
}
