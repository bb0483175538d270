package pisano

import "github.com/agbru/fibmod/internal/fibonacci"

// PrimeRule returns a period candidate for the prime p from its last decimal
// digit:
//
//	p ≡ ±3 (mod 10)  ->  2p + 2
//	p ≡ ±1 (mod 10)  ->  p - 1
//
// The candidate is always a multiple of π(p) and equals it for most primes.
// ok is false for 2 and 5, which follow ApplyPowersOfTwoAndFive instead.
func PrimeRule(p uint64) (candidate uint64, ok bool) {
	switch p % 10 {
	case 3, 7:
		return 2*p + 2, true
	case 1, 9:
		return p - 1, true
	}
	return 0, false
}

// PrimePowerPeriod returns π(p^k) = p^(k-1) · π(p) given base = π(p).
func PrimePowerPeriod(p, base uint64, k int) uint64 {
	period := base
	for i := 1; i < k; i++ {
		period *= p
	}
	return period
}

// RefinePeriod shrinks candidate, a known multiple of π(modulus), to the
// minimal period. For each prime factor q of candidate it divides q out for
// as long as the Fibonacci pair still returns to (0, 1) at the smaller index.
func RefinePeriod(candidate, modulus uint64, spf []uint32) uint64 {
	period := candidate
	for _, q := range distinctPrimeFactors(candidate, spf) {
		for period%q == 0 && fibonacci.IsPeriod(period/q, modulus) {
			period /= q
		}
	}
	return period
}

// applyPrimePowers writes π(p^k) = p^(k-1)·base for every k >= 2 with
// p^k <= bound and returns the number of entries written.
func applyPrimePowers(periods []uint64, p, base, bound uint64) int {
	written := 0
	k := 1
	for power := p; power <= bound/p; {
		power *= p
		k++
		periods[power] = PrimePowerPeriod(p, base, k)
		written++
	}
	return written
}

// ApplyPowersOfTwoAndFive writes the closed forms π(2^k) = 3·2^(k-1) and
// π(5^k) = 4·5^k for every power within bound. It returns the number of
// entries written.
func ApplyPowersOfTwoAndFive(periods []uint64, bound uint64) int {
	written := 0
	for power := uint64(2); power <= bound; power *= 2 {
		periods[power] = 3 * (power / 2)
		written++
		if power > bound/2 {
			break
		}
	}
	for power := uint64(5); power <= bound; power *= 5 {
		periods[power] = 4 * power
		written++
		if power > bound/5 {
			break
		}
	}
	return written
}
