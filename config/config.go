/*
Package config loads runtime configuration from the environment.

PURPOSE:
  All tunables in one typed struct, read via Viper from FACTORY_*
  environment variables with an optional .env file for local runs.
  Nothing else in the repo reads the environment directly.

KEY GROUPS:
  App:      environment name and log level
  HTTP:     listen address
  Storage:  json file vs sqlite, and where the data lives
  Generate: seed and window for snapshot generation
  Trace:    per-defect cost and parts-per-batch estimate
  Metrics:  the fixed OEE performance factor
*/
package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage modes.
const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

// Config is the full runtime configuration.
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Storage  StorageConfig
	Generate GenerateConfig
	Trace    TraceConfig
	Metrics  MetricsConfig
}

// AppConfig is general application configuration.
type AppConfig struct {
	Env      string // development, staging, production
	LogLevel string // trace, debug, info, warn, error
}

// HTTPConfig is the server listen configuration.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig selects and locates the snapshot store.
type StorageConfig struct {
	Mode     string // json or sqlite
	DataFile string // snapshot path for json mode
	DBPath   string // database path for sqlite mode
}

// GenerateConfig controls snapshot generation.
type GenerateConfig struct {
	Seed int64
	Days int
}

// TraceConfig carries the traceability estimation constants.
type TraceConfig struct {
	DefectCost    decimal.Decimal
	PartsPerBatch int
}

// MetricsConfig carries the metrics estimation constants.
type MetricsConfig struct {
	PerformanceFactor float64
}

// Load reads configuration from FACTORY_* environment variables, with
// an optional .env file for local development. Env vars win.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // missing file is fine

	v.SetEnvPrefix("FACTORY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("http_host", "0.0.0.0")
	v.SetDefault("http_port", 8080)
	v.SetDefault("storage_mode", StorageJSON)
	v.SetDefault("data_file", "./data/factory_snapshot.json")
	v.SetDefault("db_path", "./data/factory.db")
	v.SetDefault("seed", 42)
	v.SetDefault("days", 30)
	v.SetDefault("defect_cost", "50.00")
	v.SetDefault("parts_per_batch", 400)
	v.SetDefault("performance_factor", 0.95)

	mode := v.GetString("storage_mode")
	if mode != StorageJSON && mode != StorageSQLite {
		return nil, fmt.Errorf("invalid FACTORY_STORAGE_MODE %q: must be %q or %q", mode, StorageJSON, StorageSQLite)
	}

	defectCost, err := decimal.NewFromString(v.GetString("defect_cost"))
	if err != nil {
		return nil, fmt.Errorf("invalid FACTORY_DEFECT_COST %q: %w", v.GetString("defect_cost"), err)
	}

	return &Config{
		App: AppConfig{
			Env:      v.GetString("env"),
			LogLevel: v.GetString("log_level"),
		},
		HTTP: HTTPConfig{
			Host: v.GetString("http_host"),
			Port: v.GetInt("http_port"),
		},
		Storage: StorageConfig{
			Mode:     mode,
			DataFile: v.GetString("data_file"),
			DBPath:   v.GetString("db_path"),
		},
		Generate: GenerateConfig{
			Seed: v.GetInt64("seed"),
			Days: v.GetInt("days"),
		},
		Trace: TraceConfig{
			DefectCost:    defectCost,
			PartsPerBatch: v.GetInt("parts_per_batch"),
		},
		Metrics: MetricsConfig{
			PerformanceFactor: v.GetFloat64("performance_factor"),
		},
	}, nil
}
