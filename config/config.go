/*
Package config loads server configuration from flags and the environment.

PRECEDENCE:
  command-line flag > environment variable > .env file > built-in default

  A .env file in the working directory is loaded first with godotenv; it
  never overrides variables already set in the environment.

VARIABLES:
  LEAVE_PORT               HTTP port (8080)
  LEAVE_STORE              memory | sqlite (memory)
  LEAVE_SQLITE_DSN         SQLite DSN (:memory:)
  LEAVE_LOG_LEVEL          debug | info | warn | error (info)
  LEAVE_LOG_FORMAT         console | json (console)
  LEAVE_KAFKA_BROKERS      comma-separated brokers; empty disables events
  LEAVE_KAFKA_TOPIC        topic for ledger events (leave-events)
  LEAVE_KAFKA_TIMEOUT      cap on one event publish (2s)
  LEAVE_ENTITLEMENT        starting balance for new employees (20)
  LEAVE_RESTORE_ON_CANCEL  credit cancelled days back (false)
  LEAVE_NO_SEED            start with an empty ledger (false)
  LEAVE_CORS_ORIGINS       comma-separated allowed origins
*/
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config holds everything cmd/server needs to start.
type Config struct {
	Port            int
	Store           string
	SQLiteDSN       string
	LogLevel        string
	LogFormat       string
	KafkaBrokers    []string
	KafkaTopic      string
	KafkaTimeout    time.Duration
	Entitlement     int
	RestoreOnCancel bool
	NoSeed          bool
	CORSOrigins     []string
}

// Load reads .env, then parses args (without the program name).
func Load(args []string) (Config, error) {
	_ = godotenv.Load()
	return Parse(args, os.Getenv)
}

// Parse builds a Config from args, using getenv for defaults.
func Parse(args []string, getenv func(string) string) (Config, error) {
	fs := flag.NewFlagSet("leave-ledger", flag.ContinueOnError)

	var (
		cfg     Config
		brokers string
		origins string
	)
	fs.IntVar(&cfg.Port, "port", envInt(getenv, "LEAVE_PORT", 8080), "HTTP server port")
	fs.StringVar(&cfg.Store, "store", envString(getenv, "LEAVE_STORE", StoreMemory), "ledger backend: memory or sqlite")
	fs.StringVar(&cfg.SQLiteDSN, "db", envString(getenv, "LEAVE_SQLITE_DSN", ":memory:"), "SQLite DSN when -store=sqlite")
	fs.StringVar(&cfg.LogLevel, "log-level", envString(getenv, "LEAVE_LOG_LEVEL", "info"), "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", envString(getenv, "LEAVE_LOG_FORMAT", "console"), "log format: console or json")
	fs.StringVar(&brokers, "kafka-brokers", getenv("LEAVE_KAFKA_BROKERS"), "comma-separated Kafka brokers")
	fs.StringVar(&cfg.KafkaTopic, "kafka-topic", envString(getenv, "LEAVE_KAFKA_TOPIC", "leave-events"), "Kafka topic for ledger events")
	fs.DurationVar(&cfg.KafkaTimeout, "kafka-timeout", envDuration(getenv, "LEAVE_KAFKA_TIMEOUT", 2*time.Second), "cap on one event publish")
	fs.IntVar(&cfg.Entitlement, "entitlement", envInt(getenv, "LEAVE_ENTITLEMENT", 20), "starting leave balance")
	fs.BoolVar(&cfg.RestoreOnCancel, "restore-on-cancel", envBool(getenv, "LEAVE_RESTORE_ON_CANCEL", false), "credit cancelled days back")
	fs.BoolVar(&cfg.NoSeed, "no-seed", envBool(getenv, "LEAVE_NO_SEED", false), "start without seed data")
	fs.StringVar(&origins, "cors-origins", envString(getenv, "LEAVE_CORS_ORIGINS", "http://localhost:5173,http://localhost:8080"), "comma-separated CORS origins")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.KafkaBrokers = splitList(brokers)
	cfg.CORSOrigins = splitList(origins)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Port))
	}
	if c.Store != StoreMemory && c.Store != StoreSQLite {
		errs = append(errs, fmt.Errorf("unknown store %q (want %s or %s)", c.Store, StoreMemory, StoreSQLite))
	}
	if c.Entitlement <= 0 {
		errs = append(errs, fmt.Errorf("entitlement must be positive, got %d", c.Entitlement))
	}
	if c.KafkaTimeout <= 0 {
		errs = append(errs, fmt.Errorf("kafka timeout must be positive, got %s", c.KafkaTimeout))
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func envString(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(getenv func(string) string, key string, def int) int {
	if n, err := strconv.Atoi(getenv(key)); err == nil {
		return n
	}
	return def
}

func envDuration(getenv func(string) string, key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(getenv(key)); err == nil {
		return d
	}
	return def
}

func envBool(getenv func(string) string, key string, def bool) bool {
	if b, err := strconv.ParseBool(getenv(key)); err == nil {
		return b
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
