//go:build gmp

// This file reduces exponents on GMP integers, conditionally compiled with the
// "gmp" build tag (go build -tags=gmp, requires libgmp). Exponents with
// hundreds of thousands of digits reduce noticeably faster than with math/big.

package pisano

import (
	"math/big"

	"github.com/ncw/gmp"
)

// Reduce returns n mod period for a non-negative n of any size. period must
// be positive.
func Reduce(n *big.Int, period uint64) uint64 {
	if n.IsUint64() {
		return n.Uint64() % period
	}
	g := new(gmp.Int).SetBytes(n.Bytes())
	p := new(gmp.Int).SetBytes(new(big.Int).SetUint64(period).Bytes())
	r := new(gmp.Int).Mod(g, p)
	return new(big.Int).SetBytes(r.Bytes()).Uint64()
}
