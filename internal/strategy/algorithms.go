package strategy

import (
	"context"
	"errors"
	"math/big"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/fibmod/internal/errors"
	"github.com/agbru/fibmod/internal/fibonacci"
	"github.com/agbru/fibmod/internal/pisano"
)

// PisanoTable builds the period table for 1..m once per call, reduces n by
// π(m) and evaluates the reduced exponent by iteration. The table is
// discarded when Solve returns. A table that fails its own invariants is
// reported as an apperrors.CalculationError.
type PisanoTable struct{}

// Name returns the name of the algorithm.
func (PisanoTable) Name() string {
	return "Pisano Period Table"
}

// Solve implements coreStrategy.
func (PisanoTable) Solve(ctx context.Context, n *big.Int, m uint64, opts Options) (Result, error) {
	tracer := otel.Tracer("fibmod/strategy")

	buildCtx, buildSpan := tracer.Start(ctx, "BuildTable",
		trace.WithAttributes(attribute.Int64("modulus", int64(m))))
	table, err := pisano.Build(buildCtx, m, opts.Table)
	if err == nil && opts.Verify {
		err = table.Verify()
	}
	buildSpan.End()
	if errors.Is(err, pisano.ErrUnresolvedPeriod) || errors.Is(err, pisano.ErrInvalidPeriod) {
		return Result{}, apperrors.CalculationError{Cause: err}
	}
	if err != nil {
		return Result{}, err
	}
	tableSize.Observe(float64(table.Modulus()))

	period := table.Period(m)
	reduced := pisano.Reduce(n, period)

	_, evalSpan := tracer.Start(ctx, "Evaluate",
		trace.WithAttributes(attribute.Int64("exponent", int64(reduced))))
	residue, err := fibonacci.FibModContext(ctx, reduced, m)
	evalSpan.End()
	if err != nil {
		return Result{}, err
	}

	stats := table.Stats()
	return Result{
		Residue: residue,
		Period:  period,
		Reduced: reduced,
		Table:   &stats,
	}, nil
}

// FastDoubling evaluates F(n) mod m directly over the bits of n. It needs
// constant memory and works for any modulus that fits in 64 bits.
type FastDoubling struct{}

// Name returns the name of the algorithm.
func (FastDoubling) Name() string {
	return "Fast Doubling"
}

// Solve implements coreStrategy.
func (FastDoubling) Solve(ctx context.Context, n *big.Int, m uint64, _ Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	residue, err := fibonacci.FastDoublingModBig(n, m)
	if err != nil {
		return Result{}, err
	}
	return Result{Residue: residue}, nil
}
