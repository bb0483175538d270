// The cli package provides functions for building the command-line interface
// of fibmod. It parses the query operands, shows a spinner while a period
// table is built and formats the results for a clear and readable
// presentation.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"

	"github.com/agbru/fibmod/internal/ui"
	"github.com/agbru/fibmod/pkg/models"
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default string representation otherwise.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// SpinnerRefreshRate defines the refresh frequency of the spinner.
const SpinnerRefreshRate = 120 * time.Millisecond

// Color functions return ANSI escape codes from the current theme.
// They delegate to the ui package to reduce coupling.

// ColorReset returns the reset escape code from the current theme.
func ColorReset() string { return ui.GetCurrentTheme().Reset }

// ColorRed returns the error color from the current theme.
func ColorRed() string { return ui.GetCurrentTheme().Error }

// ColorGreen returns the success color from the current theme.
func ColorGreen() string { return ui.GetCurrentTheme().Success }

// ColorYellow returns the warning color from the current theme.
func ColorYellow() string { return ui.GetCurrentTheme().Warning }

// ColorBlue returns the primary color from the current theme.
func ColorBlue() string { return ui.GetCurrentTheme().Primary }

// ColorMagenta returns the info color from the current theme.
func ColorMagenta() string { return ui.GetCurrentTheme().Info }

// ColorCyan returns the secondary color from the current theme.
func ColorCyan() string { return ui.GetCurrentTheme().Secondary }

// ColorBold returns the bold escape code from the current theme.
func ColorBold() string { return ui.GetCurrentTheme().Bold }

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// It defines the essential controls for a spinner: starting, stopping, and
// updating its status message.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner is a wrapper for the `spinner.Spinner` that implements the
// `Spinner` interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], SpinnerRefreshRate, options...)
	return &realSpinner{s}
}

// isTerminal is replaced in tests.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// StartSpinner shows a spinner with the given label on out while work is in
// progress. Nothing is drawn when out is not a terminal. The returned
// function stops the spinner and must be called exactly once.
func StartSpinner(out io.Writer, label string) (stop func()) {
	if !isTerminal(out) {
		return func() {}
	}
	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(" " + label)
	s.Start()
	return s.Stop
}

// DisplayResult prints the residue of a finished query. With details it
// also shows the period, the reduced index and the duration.
//
// Parameters:
//   - res: The computation result.
//   - details: If true, prints the reduction and timing details.
//   - out: The io.Writer for the output.
func DisplayResult(res models.ComputationResult, details bool, out io.Writer) {
	fmt.Fprintf(out, "F(%s%s%s) mod %s%s%s = %s%d%s\n",
		ColorMagenta(), truncateDigits(res.N), ColorReset(),
		ColorMagenta(), formatNumberString(fmt.Sprintf("%d", res.M)), ColorReset(),
		ColorGreen(), res.Residue, ColorReset())

	if !details {
		return
	}
	fmt.Fprintf(out, "\n%s--- Detailed result analysis ---%s\n", ColorBold(), ColorReset())
	fmt.Fprintf(out, "Algorithm             : %s%s%s\n", ColorBlue(), res.Algorithm, ColorReset())
	fmt.Fprintf(out, "Exponent digits       : %s%s%s\n", ColorCyan(), formatNumberString(fmt.Sprintf("%d", len(res.N))), ColorReset())
	if res.Period > 0 {
		fmt.Fprintf(out, "Pisano period π(m)    : %s%s%s\n", ColorCyan(), formatNumberString(fmt.Sprintf("%d", res.Period)), ColorReset())
		fmt.Fprintf(out, "Reduced index n mod π : %s%s%s\n", ColorCyan(), formatNumberString(fmt.Sprintf("%d", res.Reduced)), ColorReset())
	}
	fmt.Fprintf(out, "Calculation time      : %s%s%s\n", ColorGreen(), res.Duration, ColorReset())
}

// TruncationLimit is the digit count above which an exponent is shortened
// for display.
const TruncationLimit = 60

// DisplayEdges is the number of digits kept at each end of a shortened exponent.
const DisplayEdges = 20

func truncateDigits(s string) string {
	if len(s) <= TruncationLimit {
		return s
	}
	return s[:DisplayEdges] + "..." + s[len(s)-DisplayEdges:]
}

// formatNumberString inserts thousand separators into a numeric string.
//
// Parameters:
//   - s: The numeric string to format.
//
// Returns:
//   - string: The formatted string with comma separators.
func formatNumberString(s string) string {
	if len(s) == 0 {
		return ""
	}
	prefix := ""
	if s[0] == '-' {
		prefix = "-"
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		return prefix + s
	}

	numSeparators := (n - 1) / 3
	capacity := len(prefix) + n + numSeparators
	var builder strings.Builder
	builder.Grow(capacity)
	builder.WriteString(prefix)

	firstGroupLen := n % 3
	if firstGroupLen == 0 {
		firstGroupLen = 3
	}
	builder.WriteString(s[:firstGroupLen])

	for i := firstGroupLen; i < n; i += 3 {
		builder.WriteByte(',')
		builder.WriteString(s[i : i+3])
	}
	return builder.String()
}
