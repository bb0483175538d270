// Package orchestration runs one or several strategies for a query and
// reports on their agreement.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/agbru/fibmod/internal/cli"
	"github.com/agbru/fibmod/internal/config"
	apperrors "github.com/agbru/fibmod/internal/errors"
	"github.com/agbru/fibmod/internal/service"
	"github.com/agbru/fibmod/internal/strategy"
	"github.com/agbru/fibmod/internal/ui"
	"github.com/agbru/fibmod/pkg/models"
)

// CalculationResult encapsulates the outcome of a single strategy run.
// It serves as a standardized container for results from different
// strategies, facilitating comparison and reporting.
type CalculationResult struct {
	// Name is the strategy key that was requested (e.g., "pisano").
	Name string
	// Result holds the residue and reduction details. Zero if Err is set.
	Result strategy.Result
	// Duration is the time taken to complete the calculation.
	Duration time.Duration
	// Err contains any error that occurred during the calculation.
	Err error
}

// ToModel converts the result into its JSON representation.
func (r CalculationResult) ToModel(n *big.Int, m uint64) models.ComputationResult {
	out := models.ComputationResult{
		Algorithm: r.Name,
		N:         n.String(),
		M:         m,
		Duration:  r.Duration.String(),
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
		return out
	}
	out.Residue = r.Result.Residue
	out.Period = r.Result.Period
	out.Reduced = r.Result.Reduced
	return out
}

// ExecuteCalculations runs every requested strategy one after the other
// through the service. A spinner is shown on out while each one runs.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - svc: The service validating and executing the queries.
//   - algos: The strategy keys to run, in order.
//   - n: The exponent.
//   - m: The modulus.
//   - out: The io.Writer for the spinner.
//
// Returns:
//   - []CalculationResult: One entry per strategy, in the order of algos.
func ExecuteCalculations(ctx context.Context, svc service.Service, algos []string, n *big.Int, m uint64, out io.Writer) []CalculationResult {
	results := make([]CalculationResult, len(algos))
	for i, algo := range algos {
		stop := cli.StartSpinner(out, fmt.Sprintf("Running %s...", algo))
		start := time.Now()
		res, err := svc.Calculate(ctx, algo, n, m)
		stop()
		results[i] = CalculationResult{Name: algo, Result: res, Duration: time.Since(start), Err: err}

		// Later strategies cannot succeed on a dead context either.
		if apperrors.IsContextError(err) {
			for j := i + 1; j < len(algos); j++ {
				results[j] = CalculationResult{Name: algos[j], Err: err}
			}
			break
		}
	}
	return results
}

// AnalyzeComparisonResults processes the results from multiple strategies and
// generates a summary report.
//
// It sorts the results by execution time, validates consistency across
// successful calculations, and displays a comparative table followed by the
// agreed result.
//
// Parameters:
//   - results: The slice of calculation results to analyze.
//   - cfg: The application configuration.
//   - n: The exponent of the query.
//   - m: The modulus of the query.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeComparisonResults(results []CalculationResult, cfg config.AppConfig, n *big.Int, m uint64, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValid *CalculationResult
	var firstError error
	successCount := 0

	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sAlgorithm%s\t%sDuration%s\t%sResidue%s\t%sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())

	for i := range results {
		res := &results[i]
		var status, residue string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
			residue = "-"
			if firstError == nil {
				firstError = res.Err
			}
		} else {
			status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
			residue = fmt.Sprintf("%d", res.Result.Residue)
			successCount++
			if firstValid == nil {
				firstValid = res
			}
		}
		duration := cli.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%s\t%s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(),
			ui.ColorYellow(), duration, ui.ColorReset(),
			residue, status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No strategy could complete the calculation.\n")
		return apperrors.HandleCalculationError(firstError, 0, out, cli.CLIColorProvider{})
	}

	for _, res := range results {
		if res.Err == nil && res.Result.Residue != firstValid.Result.Residue {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! An inconsistency was detected between the results of the strategies.\n")
			return apperrors.ExitErrorMismatch
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n\n")
	cli.DisplayResult(firstValid.ToModel(n, m), cfg.Details, out)
	return apperrors.ExitSuccess
}
