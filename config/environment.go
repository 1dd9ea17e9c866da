package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xy-planning-network/enum"
	"github.com/xy-planning-network/enum/logger"
)

type environment struct{}

// An Environment is a different context in which a program built on enum operates.
type Environment = *enum.Value[environment, string]

// Environments holds every Environment.
var Environments = enum.NewNamed[environment](
	"config::Environment",
	[]string{"DEMO", "DEVELOPMENT", "PRODUCTION", "REVIEW", "STAGING", "TESTING"},
)

var (
	Demo        = Environments.Must("DEMO")
	Development = Environments.Must("DEVELOPMENT")
	Production  = Environments.Must("PRODUCTION")
	Review      = Environments.Must("REVIEW")
	Staging     = Environments.Must("STAGING")
	Testing     = Environments.Must("TESTING")
)

// EnvVarOrBool gets the environment variable for the provided key and
// returns whether it matches "true" or "false" (after lower casing it)
// or the default value.
func EnvVarOrBool(key string, def bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true":
		return true
	case "false":
		return false
	default:
		return def
	}
}

// EnvVarOrDuration gets the environment variable for the provided key,
// parses it into a [time.Duration], or, returns
// the default [time.Duration].
func EnvVarOrDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return d
}

// EnvVarOrEnv gets the environment variable for the provided key,
// parses it into an [Environment],
// or returns the provided default [Environment] if key is not a valid [Environment].
func EnvVarOrEnv(key string, def Environment) Environment {
	val := os.Getenv(key)
	if val == "" {
		return def
	}

	env, err := Environments.Parse(strings.ToUpper(val))
	if err != nil {
		return def
	}

	return env
}

// EnvVarOrFloat gets the environment variable for the provided key,
// parses it into a float64,
// or returns the provided default if the value is not a valid float.
func EnvVarOrFloat(key string, def float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return def
	}

	return f
}

// EnvVarOrInt gets the environment variable for the provided key,
// creates an int from the retrieved value,
// or returns the provided default
// if the value is not a valid int.
func EnvVarOrInt(key string, def int) int {
	val, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}

	return val
}

// EnvVarOrLogLevel gets the environment variable for the provided key,
// creates a [logger.LogLevel] from the retrieved value,
// or returns the provided default [logger.LogLevel].
func EnvVarOrLogLevel(key string, def logger.LogLevel) logger.LogLevel {
	ll := logger.NewLogLevel(strings.ToUpper(os.Getenv(key)))
	if ll == logger.LogLevelUnk {
		return def
	}

	return ll
}

// EnvVarOrString gets the environment variable for the provided key or the provided default string.
func EnvVarOrString(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}

	return val
}
