package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the highlight codes for status lines. The cli
// package implements it from the active theme.
type ColorProvider interface {
	Yellow() string
	Reset() string
}

// DefaultColorProvider is the plain-text ColorProvider.
type DefaultColorProvider struct{}

func (DefaultColorProvider) Yellow() string { return "" }
func (DefaultColorProvider) Reset() string  { return "" }

// HandleCalculationError prints a one-line status for a failed query and
// returns its exit code. Bad operands and a modulus beyond the table limit
// are user errors and map to ExitErrorConfig; a CalculationError is an
// internal fault. A nil colors means no color.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}

	if colors == nil {
		colors = DefaultColorProvider{}
	}

	msgSuffix := ""
	if duration > 0 {
		msgSuffix = fmt.Sprintf(" after %s%s%s", colors.Yellow(), duration, colors.Reset())
	}

	if errors.Is(err, context.DeadlineExceeded) {
		fmt.Fprintf(out, "Status: Failure (Timeout). The execution limit was reached%s.\n", msgSuffix)
		return ExitErrorTimeout
	}
	if errors.Is(err, context.Canceled) {
		fmt.Fprintf(out, "%sStatus: Canceled%s.%s\n", colors.Yellow(), msgSuffix, colors.Reset())
		return ExitErrorCanceled
	}
	var valErr ValidationError
	if errors.As(err, &valErr) {
		fmt.Fprintf(out, "Status: Invalid input. %v\n", err)
		return ExitErrorConfig
	}
	var calcErr CalculationError
	if errors.As(err, &calcErr) {
		fmt.Fprintf(out, "Status: Internal fault%s. %v. Please report this query.\n", msgSuffix, calcErr.Cause)
		return ExitErrorGeneric
	}
	if errors.Is(err, ErrTableTooLarge) {
		fmt.Fprintf(out, "Status: Modulus too large. %v. Use -algo doubling or raise -max-table.\n", err)
		return ExitErrorConfig
	}
	fmt.Fprintf(out, "Status: Failure. An unexpected error occurred: %v\n", err)
	return ExitErrorGeneric
}
