// Package fibonacci provides the residue evaluators used by fibmod: a bounded
// iterative evaluator for exponents already reduced by a Pisano period, and a
// fast doubling evaluator that works directly on any 64-bit exponent.
package fibonacci

import "context"

// cancelCheckInterval is the number of iterations between two context checks
// in FibModContext. It must be a power of two.
const cancelCheckInterval = 1 << 16

// FibMod returns F(exponent) mod modulus by plain iteration over the pair
// (F(i), F(i+1)). The cost is linear in exponent, so callers are expected to
// reduce it by the Pisano period of modulus first.
//
// A modulus of 0 or 1 yields 0.
func FibMod(exponent, modulus uint64) uint64 {
	if exponent == 0 || modulus <= 1 {
		return 0
	}
	prev, curr := uint64(0), uint64(1)
	for i := uint64(0); i < exponent; i++ {
		prev, curr = curr, addMod(prev, curr, modulus)
	}
	return prev
}

// FibModContext is FibMod with cooperative cancellation. The context is polled
// every cancelCheckInterval steps, which keeps the overhead negligible on the
// hot loop.
func FibModContext(ctx context.Context, exponent, modulus uint64) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if exponent == 0 || modulus <= 1 {
		return 0, nil
	}
	prev, curr := uint64(0), uint64(1)
	for i := uint64(0); i < exponent; i++ {
		if i&(cancelCheckInterval-1) == cancelCheckInterval-1 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		prev, curr = curr, addMod(prev, curr, modulus)
	}
	return prev, nil
}
