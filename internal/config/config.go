// Package config provides the configuration management for the fibmod application.
// It defines the data structure for the configuration, handles the parsing of
// command-line arguments, and performs validation on the configuration values.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/fibmod/internal/errors"
	"github.com/agbru/fibmod/internal/pisano"
	"github.com/agbru/fibmod/internal/strategy"
)

const (
	// EnvPrefix is the prefix for all environment variables used by fibmod.
	// Environment variables provide an alternative to CLI flags for configuration,
	// following the 12-Factor App methodology.
	EnvPrefix = "FIBMOD_"
)

// Default configuration values.
// These can be overridden via command-line flags, environment variables or
// the .env file.
const (
	// DefaultTimeout is the default calculation timeout.
	DefaultTimeout = time.Minute
	// DefaultAlgo is the default algorithm selection.
	DefaultAlgo = "auto"
	// DefaultMaxTable is the largest modulus the table strategy accepts.
	DefaultMaxTable = pisano.DefaultMaxModulus
	// DefaultLogLevel is the default zerolog level name.
	DefaultLogLevel = "warn"
	// DefaultEnvFile is the dotenv file read at startup when present.
	DefaultEnvFile = ".env"
)

// AppConfig aggregates the application's configuration parameters, parsed from
// command-line flags, the environment and the optional .env file.
type AppConfig struct {
	// N is the Fibonacci index as typed by the user, in decimal. Empty means
	// the query is read from standard input.
	N string
	// M is the modulus as typed by the user. Empty means standard input.
	M string
	// Algo is "auto", "all" or a registered strategy name.
	Algo string
	// Timeout sets the maximum duration for the calculation.
	Timeout time.Duration
	// MaxTable is the largest modulus for which a period table is built.
	// 0 removes the limit.
	MaxTable uint64
	// NoRefine keeps the raw prime rule candidates in the period table.
	NoRefine bool
	// Verify checks every period table entry before it is used.
	Verify bool
	// JSONOutput, if true, outputs the result in JSON format.
	JSONOutput bool
	// Quiet prints the residue only.
	Quiet bool
	// Details adds the period, the reduced index and the table statistics.
	Details bool
	// Metrics dumps the Prometheus registry in text format after the run.
	Metrics bool
	// NoColor, if true, disables all color output in the CLI.
	// Also respects the NO_COLOR environment variable.
	NoColor bool
	// LogLevel is the zerolog level name for diagnostics on stderr.
	LogLevel string
	// EnvFile is the dotenv file consulted for FIBMOD_* values.
	EnvFile string
	// ShowVersion prints version information and exits.
	ShowVersion bool
}

// ToStrategyOptions converts the application configuration into
// strategy.Options for use by the calculators.
func (c AppConfig) ToStrategyOptions() strategy.Options {
	return strategy.Options{
		Table: pisano.Options{
			MaxModulus:     c.MaxTable,
			SkipRefinement: c.NoRefine,
		},
		Verify: c.Verify,
	}
}

// HasOperands reports whether both n and m were supplied through flags or
// the environment, in which case standard input is not read.
func (c AppConfig) HasOperands() bool {
	return c.N != "" && c.M != ""
}

// Validate checks the semantic consistency of the configuration parameters.
// The operands themselves are validated by the CLI parser.
//
// Parameters:
//   - availableAlgos: A slice of strings listing the registered strategy
//     names (e.g., ["doubling", "pisano"]).
//
// Returns:
//   - error: An error of type ConfigError if the configuration is invalid,
//     nil otherwise.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.MaxTable > pisano.MaxIndexModulus {
		return apperrors.NewConfigError("max-table must be at most %d: %d", pisano.MaxIndexModulus, c.MaxTable)
	}
	if (c.N == "") != (c.M == "") {
		return apperrors.NewConfigError("-n and -m must be given together")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return apperrors.NewConfigError("unrecognized log level: '%s'", c.LogLevel)
	}
	if c.Quiet && c.JSONOutput {
		return apperrors.NewConfigError("-quiet and -json are mutually exclusive")
	}
	isAlgoAvailable := false
	for _, a := range availableAlgos {
		if a == c.Algo {
			isAlgoAvailable = true
			break
		}
	}
	if c.Algo != "all" && c.Algo != "auto" && !isAlgoAvailable {
		return apperrors.NewConfigError("unrecognized algorithm: '%s'. Valid algorithms are: 'auto', 'all' or [%s]", c.Algo, strings.Join(availableAlgos, ", "))
	}
	return nil
}

// ParseConfig parses the command-line arguments and populates an AppConfig
// struct. It defines all the command-line flags, sets their default values, and
// handles the parsing process. Values not given on the command line are then
// taken from FIBMOD_* environment variables, then from the .env file. After
// that, it performs validation on the resulting configuration.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: A slice of strings representing the command-line arguments
//     (typically os.Args[1:]).
//   - errorWriter: An io.Writer where parsing errors and usage information
//     will be printed.
//   - availableAlgos: A slice of valid algorithm names for validation.
//
// Returns:
//   - AppConfig: The populated configuration struct.
//   - error: An error if flag parsing, .env loading or validation fails.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	algoHelp := fmt.Sprintf("Algorithm to use: 'auto' (default), 'all' or one of [%s].", strings.Join(availableAlgos, ", "))

	config := AppConfig{}
	fs.StringVar(&config.N, "n", "", "Index n of the Fibonacci number (decimal, any size). Read from stdin when omitted.")
	fs.StringVar(&config.M, "m", "", "Modulus m (at least 1). Read from stdin when omitted.")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, algoHelp)
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for the calculation.")
	fs.Uint64Var(&config.MaxTable, "max-table", DefaultMaxTable, "Largest modulus for which a period table is built (0 for no limit).")
	fs.BoolVar(&config.NoRefine, "no-refine", false, "Keep the raw prime rule periods instead of the minimal ones.")
	fs.BoolVar(&config.Verify, "verify", false, "Check every period table entry before using it.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - print the residue only.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.Details, "d", false, "Display the period, the reduced index and table statistics.")
	fs.BoolVar(&config.Details, "details", false, "Alias for -d.")
	fs.BoolVar(&config.Metrics, "metrics", false, "Print collected metrics in Prometheus text format after the run.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Diagnostic log level (debug, info, warn, error, disabled).")
	fs.StringVar(&config.EnvFile, "env-file", DefaultEnvFile, "Dotenv file with FIBMOD_* settings (ignored when missing).")
	fs.BoolVar(&config.ShowVersion, "version", false, "Print version information and exit.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	src, err := newEnvSource(config.EnvFile)
	if err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		return AppConfig{}, err
	}
	// Apply environment variable overrides for flags not explicitly set
	applyEnvOverrides(&config, fs, src)

	config.Algo = strings.ToLower(config.Algo)
	if config.ShowVersion {
		return config, nil
	}
	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.New("invalid configuration")
	}
	return config, nil
}
