//go:build !gmp

package pisano

import "math/big"

// Reduce returns n mod period for a non-negative n of any size. period must
// be positive.
func Reduce(n *big.Int, period uint64) uint64 {
	if n.IsUint64() {
		return n.Uint64() % period
	}
	return new(big.Int).Mod(n, new(big.Int).SetUint64(period)).Uint64()
}
