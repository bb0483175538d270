// Package pisano builds tables of Pisano periods, the period of the Fibonacci
// sequence taken modulo k, for every modulus k from 1 up to a bound.
//
// Entries come from closed-form rules where number theory provides them
// (primes by their residue modulo 10, prime powers, powers of 2 and 5) and
// from the multiplicativity of the period over coprime factors otherwise:
//
//	π(a·b) = lcm(π(a), π(b))  when gcd(a, b) = 1
//
// The prime rule only yields a multiple of the period for some primes
// (π(29) = 14, not 28). Unless refinement is disabled, every prime rule
// candidate is shrunk to the minimal period before it is propagated.
package pisano

// PrimesBelow returns the primes strictly less than bound in ascending order,
// using a sieve of Eratosthenes over odd numbers.
func PrimesBelow(bound uint64) []uint64 {
	if bound <= 2 {
		return nil
	}
	composite := make([]bool, bound)
	primes := make([]uint64, 0, estimatePrimeCount(bound))
	primes = append(primes, 2)
	for i := uint64(3); i < bound; i += 2 {
		if composite[i] {
			continue
		}
		primes = append(primes, i)
		if i > (bound-1)/i {
			continue
		}
		for j := i * i; j < bound; j += 2 * i {
			composite[j] = true
		}
	}
	return primes
}

// estimatePrimeCount returns a cheap upper estimate of π(x) used to size the
// result slice, based on x / (ln x - 1.1).
func estimatePrimeCount(x uint64) int {
	if x < 64 {
		return 18
	}
	lg := 0
	for v := x; v > 1; v >>= 1 {
		lg++
	}
	// ln x ≈ 0.693 * log2 x
	est := float64(x) / (0.693*float64(lg) - 1.1)
	return int(est) + 16
}

// smallestFactors returns spf where spf[k] is the smallest prime factor of k
// for 2 <= k < limit. It backs the factorisation of period candidates during
// refinement.
func smallestFactors(limit uint64) []uint32 {
	spf := make([]uint32, limit)
	for i := uint64(2); i < limit; i++ {
		if spf[i] != 0 {
			continue
		}
		spf[i] = uint32(i)
		if i > (limit-1)/i {
			continue
		}
		for j := i * i; j < limit; j += i {
			if spf[j] == 0 {
				spf[j] = uint32(i)
			}
		}
	}
	return spf
}

// distinctPrimeFactors returns the distinct prime factors of n in ascending
// order. Factors of 2 are removed first so that n may exceed len(spf) as long
// as its odd part does not.
func distinctPrimeFactors(n uint64, spf []uint32) []uint64 {
	var factors []uint64
	if n%2 == 0 {
		factors = append(factors, 2)
		for n%2 == 0 {
			n /= 2
		}
	}
	for n > 1 {
		var q uint64
		if n < uint64(len(spf)) {
			q = uint64(spf[n])
		} else {
			q = trialFactor(n)
		}
		factors = append(factors, q)
		for n%q == 0 {
			n /= q
		}
	}
	return factors
}

// trialFactor returns the smallest odd prime factor of an odd n > 1.
func trialFactor(n uint64) uint64 {
	for d := uint64(3); d <= n/d; d += 2 {
		if n%d == 0 {
			return d
		}
	}
	return n
}
