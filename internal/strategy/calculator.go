package strategy

import (
	"context"
	"math/big"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/fibmod/internal/logging"
)

var (
	calculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fibmod_calculations_total",
			Help: "The total number of F(n) mod m evaluations processed",
		},
		[]string{"algorithm", "status"},
	)
	calculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fibmod_calculation_duration_seconds",
			Help:    "The duration of F(n) mod m evaluations in seconds",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 12),
		},
		[]string{"algorithm"},
	)
	tableSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fibmod_period_table_moduli",
			Help:    "Number of moduli covered by each period table built",
			Buckets: prometheus.ExponentialBuckets(10, 10, 8),
		},
	)
)

// instrumentedCalculator decorates a coreStrategy with metrics, a trace span
// and a completion entry on opts.Logger.
type instrumentedCalculator struct {
	core coreStrategy
}

// NewCalculator wraps a core strategy into the public Calculator interface.
func NewCalculator(core coreStrategy) Calculator {
	return &instrumentedCalculator{core: core}
}

// Name returns the name of the wrapped strategy.
func (c *instrumentedCalculator) Name() string {
	return c.core.Name()
}

// Calculate runs the wrapped strategy and records its outcome.
func (c *instrumentedCalculator) Calculate(ctx context.Context, n *big.Int, m uint64, opts Options) (res Result, err error) {
	algoName := c.core.Name()
	tracer := otel.Tracer("fibmod/strategy")
	ctx, span := tracer.Start(ctx, "Calculate", trace.WithAttributes(
		attribute.String("algorithm", algoName),
		attribute.Int64("modulus", int64(m)),
		attribute.Int("exponent_bits", n.BitLen()),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		duration := time.Since(start)
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		calculationsTotal.WithLabelValues(algoName, status).Inc()
		calculationDuration.WithLabelValues(algoName).Observe(duration.Seconds())

		if opts.Logger != nil {
			opts.Logger.Debug("calculation completed",
				logging.String("algo", algoName),
				logging.String("status", status),
				logging.Duration("duration", duration),
			)
		}
	}()

	return c.core.Solve(ctx, n, m, opts)
}
