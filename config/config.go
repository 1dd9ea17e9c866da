package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/xy-planning-network/enum"
	"github.com/xy-planning-network/enum/logger"
	"github.com/xy-planning-network/enum/postgres"
)

var (
	ErrBadConfig = errors.New("bad config")
	ErrNotExist  = errors.New("not exist")
)

const (
	// Environment defaults
	environmentEnvVar = "ENVIRONMENT"

	// Log defaults
	logLevelEnvVar  = "LOG_LEVEL"
	defaultLogLevel = logger.LogLevelInfo

	// Codec defaults
	allowSubtypesEnvVar = "ENUM_ALLOW_SUBTYPES"

	// Catalog server defaults
	catalogAddrEnvVar    = "CATALOG_ADDR"
	DefaultCatalogAddr   = ":3000"
	catalogOriginEnvVar  = "CATALOG_ORIGIN"
	catalogRateEnvVar    = "CATALOG_RATE"
	defaultCatalogRate   = 5
	catalogBurstEnvVar   = "CATALOG_BURST"
	defaultCatalogBurst  = 20
	readTimeoutEnvVar    = "SERVER_READ_TIMEOUT"
	DefaultReadTimeout   = 5 * time.Second
	writeTimeoutEnvVar   = "SERVER_WRITE_TIMEOUT"
	DefaultWriteTimeout  = 5 * time.Second
	snapshotPrefixEnvVar = "SNAPSHOT_PREFIX"
	defaultSnapshotPfx   = "enum:"
	snapshotTTLEnvVar    = "SNAPSHOT_TTL"
	redisURLEnvVar       = "REDIS_URL"

	// Database defaults
	dbHostEnvVar         = "DATABASE_HOST"
	defaultDBHost        = "localhost"
	dbNameEnvVar         = "DATABASE_NAME"
	dbPassEnvVar         = "DATABASE_PASSWORD"
	dbPortEnvVar         = "DATABASE_PORT"
	defaultDBPort        = "5432"
	dbSSLModeEnvVar      = "DATABASE_SSLMODE"
	defaultDBSSLMode     = "prefer"
	dbURLEnvVar          = "DATABASE_URL"
	dbUserEnvVar         = "DATABASE_USER"
	dbMaxIdleCxnsEnvVar  = "DATABASE_MAX_IDLE_CXNS"
	defaultDBMaxIdleCxns = 1

	// Test database defaults
	dbTestHostEnvVar     = "DATABASE_TEST_HOST"
	defaultDBTestHost    = "localhost"
	dbTestNameEnvVar     = "DATABASE_TEST_NAME"
	dbTestPassEnvVar     = "DATABASE_TEST_PASSWORD"
	dbTestPortEnvVar     = "DATABASE_TEST_PORT"
	defaultDBTestPort    = "5432"
	dbTestURLEnvVar      = "DATABASE_TEST_URL"
	dbTestUserEnvVar     = "DATABASE_TEST_USER"
	dbTestSSLModeEnvVar  = "DATABASE_TEST_SSLMODE"
	defaultDBTestSSLMode = "prefer"
)

// A Config is the settings read from the environment by Load.
type Config struct {
	Env      Environment
	LogLevel logger.LogLevel

	// AllowSubtypes configures the Codec returned by Codec.
	AllowSubtypes bool

	CatalogAddr   string
	CatalogOrigin string
	CatalogRate   float64
	CatalogBurst  int
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration

	RedisURL       string
	SnapshotPrefix string
	SnapshotTTL    time.Duration
}

// Load reads each of files into the environment, without overriding variables already set,
// and then builds a Config from it.
// Without files, Load reads ".env" from the working directory.
// Missing files are skipped.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: reading %s: %s", ErrBadConfig, f, err)
		}
	}

	c := &Config{
		Env:            EnvVarOrEnv(environmentEnvVar, Development),
		LogLevel:       EnvVarOrLogLevel(logLevelEnvVar, defaultLogLevel),
		AllowSubtypes:  EnvVarOrBool(allowSubtypesEnvVar, false),
		CatalogAddr:    EnvVarOrString(catalogAddrEnvVar, DefaultCatalogAddr),
		CatalogOrigin:  os.Getenv(catalogOriginEnvVar),
		CatalogRate:    EnvVarOrFloat(catalogRateEnvVar, defaultCatalogRate),
		CatalogBurst:   EnvVarOrInt(catalogBurstEnvVar, defaultCatalogBurst),
		ReadTimeout:    EnvVarOrDuration(readTimeoutEnvVar, DefaultReadTimeout),
		WriteTimeout:   EnvVarOrDuration(writeTimeoutEnvVar, DefaultWriteTimeout),
		RedisURL:       os.Getenv(redisURLEnvVar),
		SnapshotPrefix: EnvVarOrString(snapshotPrefixEnvVar, defaultSnapshotPfx),
		SnapshotTTL:    EnvVarOrDuration(snapshotTTLEnvVar, 0),
	}

	if c.CatalogRate <= 0 || c.CatalogBurst <= 0 {
		return nil, fmt.Errorf("%w: %s and %s must be positive", ErrBadConfig, catalogRateEnvVar, catalogBurstEnvVar)
	}

	return c, nil
}

// Logger constructs the logger.Logger configured by c.
func (c *Config) Logger() logger.Logger {
	return logger.NewLogger(logger.WithLevel(c.LogLevel), logger.WithEnv(c.Env.String()))
}

// Codec is the enum.Codec configured by c.
func (c *Config) Codec() enum.Codec { return enum.Codec{AllowSubtypes: c.AllowSubtypes} }

// Postgres constructs a *postgres.CxnConfig appropriate to c's Environment.
// Confer the DATABASE env vars for usage.
func (c *Config) Postgres() *postgres.CxnConfig {
	var cfg *postgres.CxnConfig
	switch {
	case c.Env == Testing:
		if url := os.Getenv(dbTestURLEnvVar); url != "" {
			cfg = &postgres.CxnConfig{IsTestDB: true, URL: url}
			break
		}

		cfg = &postgres.CxnConfig{
			Host:     EnvVarOrString(dbTestHostEnvVar, defaultDBTestHost),
			IsTestDB: true,
			Name:     os.Getenv(dbTestNameEnvVar),
			Password: os.Getenv(dbTestPassEnvVar),
			Port:     EnvVarOrString(dbTestPortEnvVar, defaultDBTestPort),
			SSLMode:  EnvVarOrString(dbTestSSLModeEnvVar, defaultDBTestSSLMode),
			User:     os.Getenv(dbTestUserEnvVar),
		}

	case os.Getenv(dbURLEnvVar) == "":
		cfg = &postgres.CxnConfig{
			Host:     EnvVarOrString(dbHostEnvVar, defaultDBHost),
			Name:     os.Getenv(dbNameEnvVar),
			Password: os.Getenv(dbPassEnvVar),
			Port:     EnvVarOrString(dbPortEnvVar, defaultDBPort),
			SSLMode:  EnvVarOrString(dbSSLModeEnvVar, defaultDBSSLMode),
			User:     os.Getenv(dbUserEnvVar),
		}

	default:
		cfg = &postgres.CxnConfig{URL: os.Getenv(dbURLEnvVar)}
	}

	cfg.MaxIdleCxns = EnvVarOrInt(dbMaxIdleCxnsEnvVar, defaultDBMaxIdleCxns)
	cfg.Colorful = c.Env == Development

	return cfg
}

// Redis parses REDIS_URL into the options of a Redis client.
//
// Redis returns ErrNotExist if REDIS_URL is unset.
func (c *Config) Redis() (*redis.Options, error) {
	if c.RedisURL == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, redisURLEnvVar)
	}

	opts, err := redis.ParseURL(c.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrBadConfig, redisURLEnvVar, err)
	}

	return opts, nil
}
