package pisano

import (
	"context"
	"errors"
	"fmt"
	"math"

	apperrors "github.com/agbru/fibmod/internal/errors"
	"github.com/agbru/fibmod/internal/fibonacci"
)

// DefaultMaxModulus bounds the table size when no explicit limit is
// configured. A table for 10^7 moduli takes about 80 MB.
const DefaultMaxModulus uint64 = 10_000_000

// MaxIndexModulus is the largest modulus a table can cover at all. Entries
// are addressed with 32-bit prime factors.
const MaxIndexModulus uint64 = math.MaxUint32 - 1

// cancelCheckInterval is the number of table entries processed between two
// context checks. It must be a power of two.
const cancelCheckInterval = 1 << 14

var (
	// ErrTableTooLarge is returned when the requested modulus exceeds the
	// configured table limit or the 32-bit index space.
	ErrTableTooLarge = apperrors.ErrTableTooLarge
	// ErrUnresolvedPeriod signals a table entry that no rule could fill.
	// It indicates a bug in the rules, never bad input.
	ErrUnresolvedPeriod = errors.New("unresolved pisano period")
	// ErrInvalidPeriod is returned by Verify for an entry the Fibonacci pair
	// does not return to (0, 1) at.
	ErrInvalidPeriod = errors.New("invalid pisano period")
)

// Options controls table construction.
type Options struct {
	// MaxModulus rejects larger tables with ErrTableTooLarge. 0 means no
	// limit beyond the 32-bit index space.
	MaxModulus uint64
	// SkipRefinement keeps the raw prime rule candidates. Entries are then
	// multiples of the minimal periods, which is still valid for reduction.
	SkipRefinement bool
}

// DefaultOptions returns the options used by the service layer.
func DefaultOptions() Options {
	return Options{MaxModulus: DefaultMaxModulus}
}

// Stats counts how each table entry was resolved.
type Stats struct {
	Primes        int // entries from the prime rule
	Refined       int // prime rule candidates shrunk by refinement
	PrimePowers   int // p^k entries derived from π(p)
	TwoFivePowers int // powers of 2 and 5
	Composite     int // entries resolved by coprime split and lcm
}

// Table holds π(k) for every modulus 1 <= k <= Modulus().
type Table struct {
	periods []uint64
	stats   Stats
}

// Period returns π(k), or 0 when k is outside the table.
func (t *Table) Period(k uint64) uint64 {
	if k == 0 || k >= uint64(len(t.periods)) {
		return 0
	}
	return t.periods[k]
}

// Modulus returns the largest modulus covered by the table.
func (t *Table) Modulus() uint64 {
	return uint64(len(t.periods) - 1)
}

// Stats returns the resolution counters collected during Build.
func (t *Table) Stats() Stats {
	return t.stats
}

// Verify checks that the Fibonacci pair modulo k returns to (0, 1) after
// Period(k) steps for every k in the table.
func (t *Table) Verify() error {
	for k := uint64(1); k < uint64(len(t.periods)); k++ {
		if !fibonacci.IsPeriod(t.periods[k], k) {
			return fmt.Errorf("%w: %d for modulus %d", ErrInvalidPeriod, t.periods[k], k)
		}
	}
	return nil
}

// Build constructs the period table for moduli 1..m.
//
// The entries are produced in this order:
//  1. base cases π(1) = 1, π(2) = 3, π(3) = 8;
//  2. primes by PrimeRule, refined unless opts.SkipRefinement, then their powers;
//  3. powers of 2 and 5;
//  4. one forward pass that resolves every remaining entry from a coprime
//     split of already finalised entries.
//
// The context is polled during the long loops.
func Build(ctx context.Context, m uint64, opts Options) (*Table, error) {
	if m == 0 {
		return nil, apperrors.NewInvalidModulusError(m)
	}
	if opts.MaxModulus > 0 && m > opts.MaxModulus {
		return nil, fmt.Errorf("%w: modulus %d exceeds limit %d", ErrTableTooLarge, m, opts.MaxModulus)
	}
	if m > MaxIndexModulus {
		return nil, fmt.Errorf("%w: modulus %d exceeds the 32-bit index space", ErrTableTooLarge, m)
	}

	t := &Table{periods: make([]uint64, m+1)}
	t.seed()

	if err := t.applyPrimeRules(ctx, m, opts); err != nil {
		return nil, err
	}
	t.stats.TwoFivePowers = ApplyPowersOfTwoAndFive(t.periods, m)

	if err := t.fillComposites(ctx, m); err != nil {
		return nil, err
	}
	return t, nil
}

// seed writes the base cases that every later rule relies on.
func (t *Table) seed() {
	for k, p := range []uint64{1, 3, 8} {
		if k+1 < len(t.periods) {
			t.periods[k+1] = p
		}
	}
}

func (t *Table) applyPrimeRules(ctx context.Context, m uint64, opts Options) error {
	primes := PrimesBelow(m + 1)
	var spf []uint32
	if !opts.SkipRefinement {
		spf = smallestFactors(m + 2)
	}
	for i, p := range primes {
		if i&(cancelCheckInterval-1) == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		base, ok := PrimeRule(p)
		if !ok {
			continue
		}
		if spf != nil {
			if refined := RefinePeriod(base, p, spf); refined != base {
				base = refined
				t.stats.Refined++
			}
		}
		t.periods[p] = base
		t.stats.Primes++
		t.stats.PrimePowers += applyPrimePowers(t.periods, p, base, m)
	}
	return nil
}

// fillComposites resolves every entry still unset, in increasing order of
// modulus, so both factors of a split are always final when read.
func (t *Table) fillComposites(ctx context.Context, m uint64) error {
	for k := uint64(2); k <= m; k++ {
		if k&(cancelCheckInterval-1) == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if t.periods[k] != 0 {
			continue
		}
		period, ok := t.splitPeriod(k)
		if !ok {
			return fmt.Errorf("%w: modulus %d", ErrUnresolvedPeriod, k)
		}
		t.periods[k] = period
		t.stats.Composite++
	}
	return nil
}

// splitPeriod scans divisors d = 2, 3, ... of k for the first coprime split
// k = d · (k/d) whose halves are both known. Since the pair is symmetric the
// smallest valid d is at most √k.
func (t *Table) splitPeriod(k uint64) (uint64, bool) {
	for d := uint64(2); d <= k/d; d++ {
		if k%d != 0 {
			continue
		}
		e := k / d
		if GCD(d, e) != 1 {
			continue
		}
		pd, pe := t.periods[d], t.periods[e]
		if pd == 0 || pe == 0 {
			continue
		}
		return LCM(pd, pe), true
	}
	return 0, false
}
