// This file contains environment variable utilities for configuration override.
package config

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	apperrors "github.com/agbru/fibmod/internal/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// envSource resolves FIBMOD_* keys from the process environment first and
// from the parsed .env file second.
type envSource struct {
	file map[string]string
}

// newEnvSource reads the dotenv file at path. A missing file yields an
// empty source; an unreadable or malformed one is a ConfigError.
func newEnvSource(path string) (envSource, error) {
	if path == "" {
		return envSource{}, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return envSource{}, nil
		}
		return envSource{}, apperrors.NewConfigError("cannot load env file %s: %v", path, err)
	}
	return envSource{file: values}, nil
}

// lookup returns the raw value stored under EnvPrefix+key.
func (s envSource) lookup(key string) (string, bool) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val, true
	}
	if val := s.file[EnvPrefix+key]; val != "" {
		return val, true
	}
	return "", false
}

// getEnvString returns the value of the environment variable with the given key
// (prefixed with EnvPrefix), or the default value if not set.
func (s envSource) getEnvString(key, defaultVal string) string {
	if val, ok := s.lookup(key); ok {
		return val
	}
	return defaultVal
}

// getEnvUint64 returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as uint64, or the default value if not set
// or invalid.
func (s envSource) getEnvUint64(key string, defaultVal uint64) uint64 {
	if val, ok := s.lookup(key); ok {
		if parsed, err := strconv.ParseUint(val, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as bool, or the default value if not set.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
func (s envSource) getEnvBool(key string, defaultVal bool) bool {
	if val, ok := s.lookup(key); ok {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

// getEnvDuration returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as time.Duration, or the default value if not
// set or invalid. Accepts formats like "5m", "30s", "1h30m".
func (s envSource) getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := s.lookup(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > .env file > Defaults.
//
// Supported environment variables:
//   - FIBMOD_N: Index of the Fibonacci number (decimal string)
//   - FIBMOD_M: Modulus (decimal string)
//   - FIBMOD_ALGO: Algorithm to use (string: auto, all, pisano, doubling)
//   - FIBMOD_TIMEOUT: Calculation timeout (duration: "5m", "30s")
//   - FIBMOD_MAX_TABLE: Largest modulus for the period table (uint64)
//   - FIBMOD_NO_REFINE: Keep raw prime rule periods (bool: true/false, 1/0, yes/no)
//   - FIBMOD_JSON: Enable JSON output (bool)
//   - FIBMOD_QUIET: Enable quiet mode (bool)
//   - FIBMOD_DETAILS: Enable detailed output (bool)
//   - FIBMOD_METRICS: Dump metrics after the run (bool)
//   - FIBMOD_NO_COLOR: Disable colored output (bool)
//   - FIBMOD_LOG_LEVEL: Diagnostic log level (string)
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet, src envSource) {
	applyOperandOverrides(config, fs, src)
	applyTuningOverrides(config, fs, src)
	applyBooleanOverrides(config, fs, src)
}

func applyOperandOverrides(config *AppConfig, fs *flag.FlagSet, src envSource) {
	if !isFlagSet(fs, "n") {
		config.N = src.getEnvString("N", config.N)
	}
	if !isFlagSet(fs, "m") {
		config.M = src.getEnvString("M", config.M)
	}
}

func applyTuningOverrides(config *AppConfig, fs *flag.FlagSet, src envSource) {
	if !isFlagSet(fs, "algo") {
		config.Algo = src.getEnvString("ALGO", config.Algo)
	}
	if !isFlagSet(fs, "timeout") {
		config.Timeout = src.getEnvDuration("TIMEOUT", config.Timeout)
	}
	if !isFlagSet(fs, "max-table") {
		config.MaxTable = src.getEnvUint64("MAX_TABLE", config.MaxTable)
	}
	if !isFlagSet(fs, "log-level") {
		config.LogLevel = src.getEnvString("LOG_LEVEL", config.LogLevel)
	}
}

func applyBooleanOverrides(config *AppConfig, fs *flag.FlagSet, src envSource) {
	if !isFlagSet(fs, "no-refine") {
		config.NoRefine = src.getEnvBool("NO_REFINE", config.NoRefine)
	}
	if !isFlagSet(fs, "verify") {
		config.Verify = src.getEnvBool("VERIFY", config.Verify)
	}
	if !isFlagSet(fs, "json") {
		config.JSONOutput = src.getEnvBool("JSON", config.JSONOutput)
	}
	if !isFlagSet(fs, "quiet", "q") {
		config.Quiet = src.getEnvBool("QUIET", config.Quiet)
	}
	if !isFlagSet(fs, "d", "details") {
		config.Details = src.getEnvBool("DETAILS", config.Details)
	}
	if !isFlagSet(fs, "metrics") {
		config.Metrics = src.getEnvBool("METRICS", config.Metrics)
	}
	if !isFlagSet(fs, "no-color") {
		config.NoColor = src.getEnvBool("NO_COLOR", config.NoColor)
	}
}
