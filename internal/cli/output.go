package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/agbru/fibmod/pkg/models"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// Quiet prints the residue alone, for scripting.
	Quiet bool
	// JSON prints machine-readable records.
	JSON bool
	// Details adds the period, the reduced index and the duration.
	Details bool
}

// FormatQuietResult formats a result for quiet mode output: the residue as
// a bare decimal integer.
func FormatQuietResult(res models.ComputationResult) string {
	return fmt.Sprintf("%d", res.Residue)
}

// DisplayQuietResult outputs a result in quiet mode (minimal output).
func DisplayQuietResult(out io.Writer, res models.ComputationResult) {
	fmt.Fprintln(out, FormatQuietResult(res))
}

// WriteJSON encodes the results as an indented JSON array.
func WriteJSON(out io.Writer, results []models.ComputationResult) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// DisplayResultWithConfig displays a single result with the given output
// configuration. This is a unified function that handles all output modes.
//
// Returns:
//   - error: An error if JSON encoding fails.
func DisplayResultWithConfig(out io.Writer, res models.ComputationResult, config OutputConfig) error {
	switch {
	case config.JSON:
		return WriteJSON(out, []models.ComputationResult{res})
	case config.Quiet:
		DisplayQuietResult(out, res)
	default:
		DisplayResult(res, config.Details, out)
	}
	return nil
}
