package config

import (
	"fmt"
)

// Default configuration values.
const (
	defaultServiceName  = "metrics-engine"
	defaultServicePort  = 8094
	defaultVersion      = "0.1.0"
	defaultLoggingLevel = "info"
	defaultDBHost       = "localhost"
	defaultDBPort       = 5432
	defaultDBName       = "brand_metrics"
	defaultDBUser       = "postgres"
	defaultDBSSLMode    = "disable"

	// defaultRollupCutoffHour is the UTC hour at which the nightly rollup job
	// is assumed to have run, used only when no rollup watermark is stored.
	defaultRollupCutoffHour = 2

	// defaultSentimentRowCap bounds sentiment-evaluation scans per request.
	defaultSentimentRowCap = 10000
)

// Config holds the application configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Stats    StatsConfig    `yaml:"stats"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"METRICS_ENGINE_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"           yaml:"debug"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host     string `env:"POSTGRES_METRICS_HOST"     yaml:"host"`
	Port     int    `env:"POSTGRES_METRICS_PORT"     yaml:"port"`
	User     string `env:"POSTGRES_METRICS_USER"     yaml:"user"`
	Password string `env:"POSTGRES_METRICS_PASSWORD" yaml:"password"`
	Database string `env:"POSTGRES_METRICS_DB"       yaml:"database"`
	SSLMode  string `env:"POSTGRES_METRICS_SSLMODE"  yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// MigrateURL returns the PostgreSQL URL used by golang-migrate.
func (d *DatabaseConfig) MigrateURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode,
	)
}

// StatsConfig holds aggregation engine configuration.
type StatsConfig struct {
	// RollupCutoffHour is the UTC hour of the assumed nightly rollup run.
	// Used as the supplement boundary when no watermark row exists.
	RollupCutoffHour int `env:"ROLLUP_CUTOFF_HOUR" yaml:"rollup_cutoff_hour"`
	// SentimentRowCap is the maximum number of sentiment-evaluation rows
	// read per request.
	SentimentRowCap int `env:"SENTIMENT_ROW_CAP" yaml:"sentiment_row_cap"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" yaml:"level"`
}

// Load loads configuration from the specified path and applies defaults.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	setDefaults(cfg)

	// Re-apply env overrides after defaults (env always wins).
	applyEnvOverrides(cfg)
	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setStatsDefaults(&cfg.Stats)
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLoggingLevel
	}
}

// setServiceDefaults applies default values to ServiceConfig.
func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
}

// setDatabaseDefaults applies default values to DatabaseConfig.
func setDatabaseDefaults(db *DatabaseConfig) {
	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Database == "" {
		db.Database = defaultDBName
	}
	if db.SSLMode == "" {
		db.SSLMode = defaultDBSSLMode
	}
}

// setStatsDefaults applies default values to StatsConfig.
func setStatsDefaults(st *StatsConfig) {
	if st.RollupCutoffHour == 0 {
		st.RollupCutoffHour = defaultRollupCutoffHour
	}
	if st.SentimentRowCap == 0 {
		st.SentimentRowCap = defaultSentimentRowCap
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return &ValidationError{
			Field:   "service.port",
			Message: "must be between 1 and 65535",
		}
	}
	if c.Stats.RollupCutoffHour < 0 || c.Stats.RollupCutoffHour > 23 {
		return &ValidationError{
			Field:   "stats.rollup_cutoff_hour",
			Message: "must be between 0 and 23",
		}
	}
	return nil
}
