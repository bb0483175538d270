package strategy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/agbru/fibmod/internal/logging"
	"github.com/agbru/fibmod/internal/pisano"
	"github.com/agbru/fibmod/pkg/models"
)

// goldenTableLimit keeps the Pisano strategy to moduli whose table builds in
// milliseconds; larger golden cases are checked with fast doubling only.
const goldenTableLimit = 1_000_000

func loadGolden(t *testing.T) []models.GoldenCase {
	t.Helper()
	goldenPath := filepath.Join("testdata", "fibmod_golden.json")
	file, err := os.Open(goldenPath)
	if err != nil {
		t.Fatalf("Failed to open golden file: %v. Did you run 'go run ./cmd/generate-golden'?", err)
	}
	defer file.Close()

	var cases []models.GoldenCase
	if err := json.NewDecoder(file).Decode(&cases); err != nil {
		t.Fatalf("Failed to decode golden file: %v", err)
	}
	return cases
}

func TestCalculatorsAgainstGoldenFile(t *testing.T) {
	cases := loadGolden(t)
	factory := NewDefaultFactory()
	ctx := context.Background()
	opts := Options{Table: pisano.DefaultOptions()}

	for _, name := range factory.List() {
		calc, err := factory.Get(name)
		if err != nil {
			t.Fatalf("Get(%q): %v", name, err)
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			for _, tc := range cases {
				if name == NamePisano && tc.M > goldenTableLimit {
					continue
				}
				t.Run(fmt.Sprintf("n=%s,m=%d", tc.N, tc.M), func(t *testing.T) {
					n, ok := new(big.Int).SetString(tc.N, 10)
					if !ok {
						t.Fatalf("bad golden exponent %q", tc.N)
					}
					got, err := calc.Calculate(ctx, n, tc.M, opts)
					if err != nil {
						t.Fatalf("Calculation failed: %v", err)
					}
					if got.Residue != tc.Result {
						t.Errorf("Mismatch: expected %d, got %d", tc.Result, got.Residue)
					}
				})
			}
		})
	}
}

func TestStrategiesAgree(t *testing.T) {
	t.Parallel()
	pisanoCalc := NewCalculator(PisanoTable{})
	doublingCalc := NewCalculator(FastDoubling{})
	ctx := context.Background()
	opts := Options{Table: pisano.DefaultOptions()}

	exponents := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(59),
		big.NewInt(1_000_003),
		new(big.Int).Exp(big.NewInt(10), big.NewInt(25), nil),
	}
	for m := uint64(1); m <= 300; m += 7 {
		for _, n := range exponents {
			a, err := pisanoCalc.Calculate(ctx, n, m, opts)
			if err != nil {
				t.Fatalf("pisano(%s, %d): %v", n, m, err)
			}
			b, err := doublingCalc.Calculate(ctx, n, m, opts)
			if err != nil {
				t.Fatalf("doubling(%s, %d): %v", n, m, err)
			}
			if a.Residue != b.Residue {
				t.Errorf("F(%s) mod %d: pisano=%d doubling=%d", n, m, a.Residue, b.Residue)
			}
		}
	}
}

func TestPisanoTableResult(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(PisanoTable{})
	n := new(big.Int).SetUint64(2816213588)
	res, err := calc.Calculate(context.Background(), n, 13, Options{Table: pisano.DefaultOptions()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Period != 28 {
		t.Errorf("Period = %d, want 28", res.Period)
	}
	if res.Reduced != 20 {
		t.Errorf("Reduced = %d, want 20", res.Reduced)
	}
	if res.Residue != 5 {
		t.Errorf("Residue = %d, want 5", res.Residue)
	}
	if res.Table == nil || res.Table.Primes == 0 {
		t.Errorf("expected table stats, got %+v", res.Table)
	}
}

func TestPisanoTableLimit(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(PisanoTable{})
	opts := Options{Table: pisano.Options{MaxModulus: 100}}
	_, err := calc.Calculate(context.Background(), big.NewInt(10), 101, opts)
	if !errors.Is(err, pisano.ErrTableTooLarge) {
		t.Errorf("expected ErrTableTooLarge, got %v", err)
	}
}

func TestPisanoTableVerify(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(PisanoTable{})
	for _, skip := range []bool{false, true} {
		opts := Options{Table: pisano.Options{SkipRefinement: skip}, Verify: true}
		res, err := calc.Calculate(context.Background(), big.NewInt(2816213588), 239, opts)
		if err != nil {
			t.Fatalf("SkipRefinement=%v: %v", skip, err)
		}
		if res.Residue != 151 {
			t.Errorf("SkipRefinement=%v: residue %d, want 151", skip, res.Residue)
		}
	}
}

// TestCalculatorLogging swaps the global zerolog logger, so it is not parallel.
func TestCalculatorLogging(t *testing.T) {
	var global bytes.Buffer
	saved := log.Logger
	log.Logger = zerolog.New(&global)
	t.Cleanup(func() { log.Logger = saved })

	calc := NewCalculator(FastDoubling{})
	if _, err := calc.Calculate(context.Background(), big.NewInt(100), 97, Options{}); err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	var injected bytes.Buffer
	opts := Options{Logger: logging.NewZerologAdapter(zerolog.New(&injected).Level(zerolog.DebugLevel))}
	if _, err := calc.Calculate(context.Background(), big.NewInt(100), 97, opts); err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if global.Len() != 0 {
		t.Errorf("nothing may reach the global logger, got %q", global.String())
	}
	out := injected.String()
	for _, want := range []string{`"message":"calculation completed"`, `"algo":"Fast Doubling"`, `"status":"success"`} {
		if !strings.Contains(out, want) {
			t.Errorf("injected log %q does not contain %s", out, want)
		}
	}
}

func TestFastDoublingHonoursCanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCalculator(FastDoubling{}).Calculate(ctx, big.NewInt(10), 7, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCalculatorMetrics(t *testing.T) {
	calc := NewCalculator(FastDoubling{})
	name := calc.Name()

	success := calculationsTotal.WithLabelValues(name, "success")
	failure := calculationsTotal.WithLabelValues(name, "error")
	beforeOK, beforeErr := testutil.ToFloat64(success), testutil.ToFloat64(failure)

	if _, err := calc.Calculate(context.Background(), big.NewInt(10), 7, Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := calc.Calculate(context.Background(), big.NewInt(10), 0, Options{}); err == nil {
		t.Fatal("expected error for zero modulus")
	}

	if got := testutil.ToFloat64(success) - beforeOK; got != 1 {
		t.Errorf("success counter moved by %v, want 1", got)
	}
	if got := testutil.ToFloat64(failure) - beforeErr; got != 1 {
		t.Errorf("error counter moved by %v, want 1", got)
	}
}

func TestDefaultFactory(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()

	if got, want := f.List(), []string{NameDoubling, NamePisano}; !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}

	calc, err := f.Get(NamePisano)
	if err != nil {
		t.Fatalf("Get(pisano): %v", err)
	}
	if calc.Name() != "Pisano Period Table" {
		t.Errorf("unexpected name %q", calc.Name())
	}

	_, err = f.Get("matrix")
	var unknown ErrUnknownStrategy
	if !errors.As(err, &unknown) || unknown.Name != "matrix" {
		t.Errorf("expected ErrUnknownStrategy for matrix, got %v", err)
	}
}

func TestRegisterReplaces(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	f.Register(NamePisano, FastDoubling{})
	calc, err := f.Get(NamePisano)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if calc.Name() != "Fast Doubling" {
		t.Errorf("expected replaced strategy, got %q", calc.Name())
	}
}
