// Package fibmod computes F(n) mod m, the n-th Fibonacci number modulo m,
// for arbitrarily large n. The exponent is reduced by the Pisano period
// π(m), read from a table of periods for every modulus 1..m, and the reduced
// index is evaluated by bounded iteration.
//
//	r, err := fibmod.Compute(big.NewInt(2816213588), 13) // r == 5
package fibmod

import (
	"context"
	"math/big"

	"github.com/agbru/fibmod/internal/config"
	apperrors "github.com/agbru/fibmod/internal/errors"
	"github.com/agbru/fibmod/internal/pisano"
	"github.com/agbru/fibmod/internal/service"
	"github.com/agbru/fibmod/internal/strategy"
)

// MaxModulus is the largest modulus Compute accepts. Each query allocates a
// table of MaxModulus 8-byte entries at most.
const MaxModulus = config.DefaultMaxTable

// Errors returned by Compute and Period. Match them with errors.Is.
var (
	ErrInvalidModulus  = apperrors.ErrInvalidModulus
	ErrInvalidExponent = apperrors.ErrInvalidExponent
	ErrTableTooLarge   = apperrors.ErrTableTooLarge
)

var defaultService = service.NewCalculatorService(
	strategy.NewDefaultFactory(),
	config.AppConfig{MaxTable: MaxModulus},
	nil,
)

// Compute returns F(n) mod m.
//
// n must be non-negative and m at least 1; otherwise the error matches
// ErrInvalidExponent or ErrInvalidModulus. A modulus above MaxModulus fails
// with ErrTableTooLarge.
func Compute(n *big.Int, m uint64) (uint64, error) {
	return ComputeContext(context.Background(), n, m)
}

// ComputeContext is Compute with cancellation. The context is polled while
// the period table is filled and while the reduced index is evaluated.
func ComputeContext(ctx context.Context, n *big.Int, m uint64) (uint64, error) {
	return defaultService.Solve(ctx, n, m)
}

// Period returns the Pisano period π(m), the length of the cycle of the
// Fibonacci sequence modulo m.
func Period(m uint64) (uint64, error) {
	table, err := pisano.Build(context.Background(), m, pisano.DefaultOptions())
	if err != nil {
		return 0, err
	}
	return table.Period(m), nil
}
