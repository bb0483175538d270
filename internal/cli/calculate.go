package cli

import (
	"fmt"
	"io"
	"math/big"
	"runtime"
	"strings"

	"github.com/agbru/fibmod/internal/config"
	"github.com/agbru/fibmod/internal/strategy"
)

// GetAlgorithmsToRun determines which strategies should be executed based on
// the configuration. "all" expands to every registered strategy in
// alphabetical order; any other name, "auto" included, is passed through to
// the service.
func GetAlgorithmsToRun(cfg config.AppConfig, factory strategy.Factory) []string {
	if cfg.Algo == "all" {
		return factory.List()
	}
	return []string{cfg.Algo}
}

// PrintExecutionConfig displays the current execution configuration to the user.
//
// Parameters:
//   - cfg: The application configuration.
//   - n: The exponent of the query.
//   - m: The modulus of the query.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, n *big.Int, m uint64, out io.Writer) {
	writeOut(out, "--- Execution Configuration ---\n")
	writeOut(out, "Calculating %sF(%s) mod %d%s with a timeout of %s%s%s.\n",
		ColorMagenta(), truncateDigits(n.String()), m, ColorReset(), ColorYellow(), cfg.Timeout, ColorReset())
	writeOut(out, "Environment: Go %s%s%s, %s/%s.\n",
		ColorCyan(), runtime.Version(), ColorReset(), runtime.GOOS, runtime.GOARCH)
	tableLimit := "none"
	if cfg.MaxTable > 0 {
		tableLimit = formatNumberString(fmt.Sprintf("%d", cfg.MaxTable))
	}
	refine := "minimal periods"
	if cfg.NoRefine {
		refine = "raw prime rule periods"
	}
	if cfg.Verify {
		refine += ", verified"
	}
	writeOut(out, "Period table: limit=%s%s%s, %s.\n", ColorCyan(), tableLimit, ColorReset(), refine)
}

// PrintExecutionMode displays the execution mode (single strategy vs comparison).
func PrintExecutionMode(algos []string, out io.Writer) {
	var modeDesc string
	if len(algos) > 1 {
		modeDesc = fmt.Sprintf("Sequential comparison of [%s]", strings.Join(algos, ", "))
	} else {
		modeDesc = fmt.Sprintf("Single calculation with the %s%s%s strategy",
			ColorGreen(), algos[0], ColorReset())
	}
	writeOut(out, "Execution mode: %s.\n", modeDesc)
	writeOut(out, "\n--- Starting Execution ---\n")
}

// writeOut writes a formatted string to the output writer.
func writeOut(out io.Writer, format string, a ...any) {
	fmt.Fprintf(out, format, a...)
}
