// Package strategy exposes the ways fibmod can evaluate F(n) mod m behind a
// single Calculator interface: the Pisano table reduction, which is the
// primary path, and fast doubling, which needs no table and serves as an
// independent cross-check and as the fallback for moduli beyond the table
// limit.
package strategy

import (
	"context"
	"math/big"

	"github.com/agbru/fibmod/internal/logging"
	"github.com/agbru/fibmod/internal/pisano"
)

// Registry keys of the built-in strategies.
const (
	NamePisano   = "pisano"
	NameDoubling = "doubling"
)

// Options carries the tuning knobs shared by all strategies.
type Options struct {
	// Table configures the period table built by the Pisano strategy.
	Table pisano.Options
	// Verify checks every table entry with Table.Verify before it is used.
	Verify bool
	// Logger receives the completion entry of each evaluation. nil is silent.
	Logger logging.Logger
}

// Result is the outcome of one evaluation.
type Result struct {
	// Residue is F(n) mod m.
	Residue uint64
	// Period is the Pisano period n was reduced by, or 0 when the strategy
	// works on n directly.
	Period uint64
	// Reduced is n mod Period. Only meaningful when Period > 0.
	Reduced uint64
	// Table describes how the period table was filled, when one was built.
	Table *pisano.Stats
}

// Calculator is the public interface of a strategy, instrumented with
// metrics, tracing and logging.
type Calculator interface {
	// Name returns the display name of the strategy.
	Name() string

	// Calculate evaluates F(n) mod m. n must be non-negative and m at least
	// 1; the service layer validates both before calling.
	Calculate(ctx context.Context, n *big.Int, m uint64, opts Options) (Result, error)
}

// coreStrategy is implemented by the algorithms themselves. It is wrapped by
// NewCalculator so that instrumentation lives in one place.
type coreStrategy interface {
	Name() string
	Solve(ctx context.Context, n *big.Int, m uint64, opts Options) (Result, error)
}
