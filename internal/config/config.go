package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP     HTTPConfig
	Upload   UploadConfig
	Storage  StorageConfig
	Graph    GraphConfig
	Postgres PostgresConfig
	Logging  LoggingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	AllowedOriginsCSV string
}

// UploadConfig bounds report uploads before they reach the extractor.
type UploadConfig struct {
	MaxBytes int64
}

// StorageConfig selects the report store backend.
type StorageConfig struct {
	Driver string // memory|neo4j|postgres
}

// GraphConfig describes connectivity to the graph database (Neo4j).
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// PostgresConfig describes connectivity to PostgreSQL.
type PostgresConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverNeo4j    = "neo4j"
	DriverPostgres = "postgres"
)

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultUploadMaxBytes   = 10 << 20
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10
	defaultPostgresMaxConns = 10
	defaultPostgresMinConns = 1
)

// ErrUnknownDriver is returned when STORAGE_DRIVER names an unsupported backend.
var ErrUnknownDriver = errors.New("unknown storage driver")

// Load reads configuration from environment variables, applying defaults.
// Variables may also come from a .env file in dir when one exists.
func Load(dir string) (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if dir != "" {
		v.AddConfigPath(dir)
		v.SetConfigName(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	v.SetDefault("SERVER_HOST", defaultHost)
	v.SetDefault("SERVER_PORT", defaultPort)
	v.SetDefault("SERVER_READ_TIMEOUT", defaultReadTimeout)
	v.SetDefault("SERVER_WRITE_TIMEOUT", defaultWriteTimeout)
	v.SetDefault("SERVER_IDLE_TIMEOUT", defaultIdleTimeout)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	v.SetDefault("UPLOAD_MAX_BYTES", defaultUploadMaxBytes)
	v.SetDefault("STORAGE_DRIVER", DriverMemory)
	v.SetDefault("GRAPH_MAX_CONNECTIONS", defaultGraphMaxSessions)
	v.SetDefault("POSTGRES_MAX_CONNS", defaultPostgresMaxConns)
	v.SetDefault("POSTGRES_MIN_CONNS", defaultPostgresMinConns)
	v.SetDefault("LOG_LEVEL", defaultLoggingLevel)
	v.SetDefault("LOG_FORMAT", defaultLoggingFormat)
	v.SetDefault("LOG_INCLUDE_CALLER", false)

	cfg := Config{
		HTTP: HTTPConfig{
			Host:              v.GetString("SERVER_HOST"),
			AllowedOriginsCSV: v.GetString("SERVER_ALLOWED_ORIGINS"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		},
		Graph: GraphConfig{
			URI:            v.GetString("GRAPH_URI"),
			Database:       v.GetString("GRAPH_DATABASE"),
			Username:       v.GetString("GRAPH_USERNAME"),
			Password:       v.GetString("GRAPH_PASSWORD"),
			MaxConnections: v.GetInt("GRAPH_MAX_CONNECTIONS"),
		},
		Postgres: PostgresConfig{
			URL:      v.GetString("DATABASE_URL"),
			MaxConns: v.GetInt32("POSTGRES_MAX_CONNS"),
			MinConns: v.GetInt32("POSTGRES_MIN_CONNS"),
		},
		Logging: LoggingConfig{
			Level:         v.GetString("LOG_LEVEL"),
			Format:        v.GetString("LOG_FORMAT"),
			IncludeCaller: v.GetBool("LOG_INCLUDE_CALLER"),
		},
	}

	port, err := parsePort(v, "SERVER_PORT")
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
	}
	for _, d := range durations {
		parsed, err := parseDuration(v, d.key)
		if err != nil {
			return Config{}, err
		}
		*d.dst = parsed
	}

	maxBytes, err := parsePositiveInt64(v, "UPLOAD_MAX_BYTES")
	if err != nil {
		return Config{}, err
	}
	cfg.Upload.MaxBytes = maxBytes

	if err := cfg.Storage.validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (s StorageConfig) validate(cfg Config) error {
	switch s.Driver {
	case DriverMemory:
		return nil
	case DriverNeo4j:
		if cfg.Graph.URI == "" {
			return errors.New("GRAPH_URI is required when STORAGE_DRIVER=neo4j")
		}
		return nil
	case DriverPostgres:
		if cfg.Postgres.URL == "" {
			return errors.New("DATABASE_URL is required when STORAGE_DRIVER=postgres")
		}
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownDriver, s.Driver)
	}
}

func parsePort(v *viper.Viper, key string) (int, error) {
	raw := v.GetString(key)
	port := v.GetInt(key)
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid %s value %q: port out of range", key, raw)
	}
	return port, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parsePositiveInt64(v *viper.Viper, key string) (int64, error) {
	n := v.GetInt64(key)
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s value %q: must be positive", key, v.GetString(key))
	}
	return n, nil
}
