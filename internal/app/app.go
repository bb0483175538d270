package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/agbru/fibmod/internal/cli"
	"github.com/agbru/fibmod/internal/config"
	apperrors "github.com/agbru/fibmod/internal/errors"
	"github.com/agbru/fibmod/internal/logging"
	"github.com/agbru/fibmod/internal/orchestration"
	"github.com/agbru/fibmod/internal/service"
	"github.com/agbru/fibmod/internal/strategy"
	"github.com/agbru/fibmod/internal/ui"
	"github.com/agbru/fibmod/pkg/models"
)

// metricPrefix selects the application's own series in the -metrics dump.
const metricPrefix = "fibmod_"

// Application represents the fibmod application instance.
// It encapsulates the configuration and the collaborators needed to answer
// one query.
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// Factory provides access to the strategy implementations.
	Factory strategy.Factory
	// Service validates and executes queries.
	Service service.Service
	// Gatherer is the metrics source for -metrics.
	Gatherer prometheus.Gatherer
	// In supplies "n m" when they are not given as flags.
	In io.Reader
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
// It validates the configuration and returns an error if parsing or validation fails.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - in: The reader for the query when -n/-m are omitted (typically os.Stdin).
//   - errWriter: The writer for error output and logs.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if configuration parsing or validation fails.
func New(args []string, in io.Reader, errWriter io.Writer) (*Application, error) {
	factory := strategy.NewDefaultFactory()
	availableAlgos := factory.List()

	// args[0] is program name, args[1:] are the actual arguments
	programName := "fibmod"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, availableAlgos)
	if err != nil {
		return nil, err
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		return nil, apperrors.NewConfigError("invalid log level: %v", err)
	}
	logger := logging.NewLogger(errWriter, "fibmod")

	return &Application{
		Config:    cfg,
		Factory:   factory,
		Service:   service.NewCalculatorService(factory, cfg, logger),
		Gatherer:  prometheus.DefaultGatherer,
		In:        in,
		ErrWriter: errWriter,
	}, nil
}

// Run executes the application: it reads the query, runs the selected
// strategies and prints the outcome.
//
// Parameters:
//   - ctx: The context for managing cancellation and timeouts.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.ShowVersion {
		_ = PrintVersion(out, a.Config.JSONOutput)
		return apperrors.ExitSuccess
	}

	// Initialize CLI theme (respects --no-color flag and NO_COLOR env var)
	ui.InitTheme(a.Config.NoColor)

	n, m, err := a.readOperands()
	if err != nil {
		return apperrors.HandleCalculationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}

	exitCode := a.runCalculate(ctx, n, m, out)
	if a.Config.Metrics {
		// Standard output carries a single JSON document in -json mode.
		metricsOut := out
		if a.Config.JSONOutput {
			metricsOut = a.ErrWriter
		}
		if err := a.writeMetrics(metricsOut); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error writing metrics: %v\n", err)
		}
	}
	return exitCode
}

// readOperands takes n and m from the configuration, or from a.In when
// they were not supplied.
func (a *Application) readOperands() (*big.Int, uint64, error) {
	if a.Config.HasOperands() {
		return cli.ParseOperands(a.Config.N, a.Config.M)
	}
	if a.In == nil {
		return nil, 0, apperrors.NewInvalidExponentError("<missing>")
	}
	return cli.ReadOperands(a.In)
}

// runCalculate orchestrates the execution of the CLI calculation command.
func (a *Application) runCalculate(ctx context.Context, n *big.Int, m uint64, out io.Writer) int {
	ctx, cancel := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancel.Cleanup()

	algos := cli.GetAlgorithmsToRun(a.Config, a.Factory)

	// Skip verbose output in quiet mode
	if !a.Config.JSONOutput && !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, n, m, out)
		cli.PrintExecutionMode(algos, out)
	}

	spinnerOut := out
	if a.Config.Quiet || a.Config.JSONOutput {
		spinnerOut = io.Discard
	}

	results := orchestration.ExecuteCalculations(ctx, a.Service, algos, n, m, spinnerOut)

	if a.Config.JSONOutput {
		return a.printJSONResults(results, n, m, out)
	}
	return a.analyzeResultsWithOutput(results, n, m, out)
}

func (a *Application) analyzeResultsWithOutput(results []orchestration.CalculationResult, n *big.Int, m uint64, out io.Writer) int {
	if len(results) > 1 && !a.Config.Quiet {
		return orchestration.AnalyzeComparisonResults(results, a.Config, n, m, out)
	}

	best, code := a.settle(results)
	if code != apperrors.ExitSuccess {
		return code
	}
	outputCfg := cli.OutputConfig{Quiet: a.Config.Quiet, Details: a.Config.Details}
	if err := cli.DisplayResultWithConfig(out, best.ToModel(n, m), outputCfg); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// settle picks the fastest successful result and checks that every other
// success agrees with it. When nothing succeeded the first error is reported
// on ErrWriter and best is nil.
func (a *Application) settle(results []orchestration.CalculationResult) (best *orchestration.CalculationResult, exitCode int) {
	var firstErr error
	var firstErrDuration time.Duration
	for i := range results {
		res := &results[i]
		if res.Err != nil {
			if firstErr == nil {
				firstErr, firstErrDuration = res.Err, res.Duration
			}
			continue
		}
		if best == nil || res.Duration < best.Duration {
			best = res
		}
	}
	if best == nil {
		return nil, apperrors.HandleCalculationError(firstErr, firstErrDuration, a.ErrWriter, cli.CLIColorProvider{})
	}
	for _, res := range results {
		if res.Err == nil && res.Result.Residue != best.Result.Residue {
			fmt.Fprintf(a.ErrWriter, "Status: Mismatch. %s returned %d, %s returned %d.\n",
				best.Name, best.Result.Residue, res.Name, res.Result.Residue)
			return best, apperrors.ExitErrorMismatch
		}
	}
	return best, apperrors.ExitSuccess
}

// printJSONResults writes every result as a JSON array. The exit code still
// reflects failures and mismatches.
func (a *Application) printJSONResults(results []orchestration.CalculationResult, n *big.Int, m uint64, out io.Writer) int {
	output := make([]models.ComputationResult, len(results))
	for i, res := range results {
		output[i] = res.ToModel(n, m)
	}
	if err := cli.WriteJSON(out, output); err != nil {
		return apperrors.ExitErrorGeneric
	}
	_, code := a.settle(results)
	return code
}

// writeMetrics prints the fibmod_* metric families in the Prometheus text
// exposition format.
func (a *Application) writeMetrics(out io.Writer) error {
	gatherer := a.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	families, err := gatherer.Gather()
	if err != nil {
		return err
	}
	sort.Slice(families, func(i, j int) bool { return families[i].GetName() < families[j].GetName() })

	fmt.Fprintf(out, "\n--- Metrics ---\n")
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), metricPrefix) {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return err
		}
	}
	return nil
}

// IsHelpError checks if the error is a help flag error (--help was used).
// This is useful for determining if the application should exit with success
// after displaying help text.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: True if the error indicates help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
