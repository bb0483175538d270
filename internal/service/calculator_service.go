package service

//go:generate mockgen -source=calculator_service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/agbru/fibmod/internal/config"
	apperrors "github.com/agbru/fibmod/internal/errors"
	"github.com/agbru/fibmod/internal/logging"
	"github.com/agbru/fibmod/internal/pisano"
	"github.com/agbru/fibmod/internal/strategy"
)

// AlgoAuto selects the Pisano table when the modulus fits the table limit
// and fast doubling otherwise.
const AlgoAuto = "auto"

// Service defines the interface for F(n) mod m evaluation services.
// This abstraction enables dependency injection and easier testing/mocking.
type Service interface {
	// Calculate evaluates F(n) mod m with the named strategy ("auto" is
	// accepted and resolved against the modulus).
	//
	// Parameters:
	//   - ctx: The context for cancellation.
	//   - algoName: The registry key of the strategy, or "auto".
	//   - n: The Fibonacci index, non-negative.
	//   - m: The modulus, at least 1.
	//
	// Returns:
	//   - strategy.Result: The residue and, for the table strategy, the period
	//     used for the reduction.
	//   - error: A validation error or the strategy failure.
	Calculate(ctx context.Context, algoName string, n *big.Int, m uint64) (strategy.Result, error)

	// Solve evaluates F(n) mod m by building the period table for 1..m,
	// reducing n by π(m) and iterating over the reduced index.
	Solve(ctx context.Context, n *big.Int, m uint64) (uint64, error)
}

// CalculatorService validates queries, picks the strategy and runs it with
// the configured table options.
// Implements the Service interface.
type CalculatorService struct {
	factory strategy.Factory
	opts    strategy.Options
	logger  logging.Logger
}

// Ensure CalculatorService implements Service interface.
var _ Service = (*CalculatorService)(nil)

// NewCalculatorService creates a new instance of CalculatorService.
//
// Parameters:
//   - factory: The factory to retrieve strategies from.
//   - cfg: The application configuration.
//   - logger: Destination of the per-query debug entries. nil disables logging.
func NewCalculatorService(factory strategy.Factory, cfg config.AppConfig, logger logging.Logger) *CalculatorService {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CalculatorService{
		factory: factory,
		opts:    cfg.ToStrategyOptions(),
		logger:  logger,
	}
}

// Validate checks the operands of a query.
func Validate(n *big.Int, m uint64) error {
	if n == nil || n.Sign() < 0 {
		return apperrors.NewInvalidExponentError(n)
	}
	if m < 1 {
		return apperrors.NewInvalidModulusError(m)
	}
	return nil
}

// ResolveAlgorithm maps "auto" to a concrete strategy for the modulus m.
// Other names are returned unchanged. Without a configured limit the table
// is still bounded by pisano.MaxIndexModulus.
func (s *CalculatorService) ResolveAlgorithm(algoName string, m uint64) string {
	if algoName != AlgoAuto {
		return algoName
	}
	limit := s.opts.Table.MaxModulus
	if limit == 0 || limit > pisano.MaxIndexModulus {
		limit = pisano.MaxIndexModulus
	}
	if m > limit {
		return strategy.NameDoubling
	}
	return strategy.NamePisano
}

// Calculate validates the query, resolves the strategy and executes it.
func (s *CalculatorService) Calculate(ctx context.Context, algoName string, n *big.Int, m uint64) (strategy.Result, error) {
	if err := Validate(n, m); err != nil {
		return strategy.Result{}, err
	}

	name := s.ResolveAlgorithm(algoName, m)
	calc, err := s.factory.Get(name)
	if err != nil {
		return strategy.Result{}, err
	}

	log := s.logger.With(
		logging.String("query_id", uuid.NewString()),
		logging.String("algo", name),
		logging.Uint64("m", m),
		logging.Int("n_bits", n.BitLen()),
	)
	log.Debug("query started")

	opts := s.opts
	opts.Logger = log
	start := time.Now()
	res, err := calc.Calculate(ctx, n, m, opts)
	if err != nil {
		log.Error("query failed", err, logging.Duration("duration", time.Since(start)))
		return strategy.Result{}, err
	}
	log.Debug("query completed",
		logging.Uint64("residue", res.Residue),
		logging.Uint64("period", res.Period),
		logging.Duration("duration", time.Since(start)),
	)
	return res, nil
}

// Solve runs the Pisano table strategy and returns the residue only.
func (s *CalculatorService) Solve(ctx context.Context, n *big.Int, m uint64) (uint64, error) {
	res, err := s.Calculate(ctx, strategy.NamePisano, n, m)
	if err != nil {
		return 0, err
	}
	return res.Residue, nil
}
