package fibonacci

import (
	"fmt"
	"math/big"
	"math/bits"
)

// FastDoublingMod computes F(n) mod m using the fast doubling algorithm.
// Memory usage is constant and the cost is O(log n) modular multiplications,
// which makes it the reference for moduli too large for a period table.
//
// Uses the identities:
//
//	F(2k)   = F(k) * (2*F(k+1) - F(k))  mod m
//	F(2k+1) = F(k+1)² + F(k)²            mod m
func FastDoublingMod(n, m uint64) (uint64, error) {
	if m == 0 {
		return 0, fmt.Errorf("modulus must be positive")
	}
	fk, _ := Pair(n, m)
	return fk, nil
}

// Pair returns (F(n) mod m, F(n+1) mod m). A modulus of 1 yields (0, 0); the
// caller guarantees m > 0.
func Pair(n, m uint64) (uint64, uint64) {
	if m == 1 {
		return 0, 0
	}
	fk, fk1 := uint64(0), uint64(1)
	for i := bits.Len64(n) - 1; i >= 0; i-- {
		fk, fk1 = doublingStep(fk, fk1, m, (n>>uint(i))&1 == 1)
	}
	return fk, fk1
}

// FastDoublingModBig is FastDoublingMod for exponents of any size. n must be
// non-negative.
func FastDoublingModBig(n *big.Int, m uint64) (uint64, error) {
	if m == 0 {
		return 0, fmt.Errorf("modulus must be positive")
	}
	if n.Sign() < 0 {
		return 0, fmt.Errorf("exponent must be non-negative")
	}
	if m == 1 {
		return 0, nil
	}
	fk, fk1 := uint64(0), uint64(1)
	for i := n.BitLen() - 1; i >= 0; i-- {
		fk, fk1 = doublingStep(fk, fk1, m, n.Bit(i) == 1)
	}
	return fk, nil
}

// doublingStep maps (F(k), F(k+1)) to (F(2k), F(2k+1)), or to
// (F(2k+1), F(2k+2)) when advance is set.
func doublingStep(fk, fk1, m uint64, advance bool) (uint64, uint64) {
	// t = 2*F(k+1) - F(k)
	t := subMod(addMod(fk1, fk1, m), fk, m)
	f2k := mulMod(fk, t, m)
	f2k1 := addMod(mulMod(fk1, fk1, m), mulMod(fk, fk, m), m)
	if advance {
		return f2k1, addMod(f2k, f2k1, m)
	}
	return f2k, f2k1
}

// IsPeriod reports whether the Fibonacci pair modulo m is back at (0, 1)
// after p steps, i.e. whether p is a multiple of the Pisano period of m.
func IsPeriod(p, m uint64) bool {
	if m == 1 {
		return p > 0
	}
	if p == 0 {
		return false
	}
	a, b := Pair(p, m)
	return a == 0 && b == 1
}

// addMod returns (a + b) mod m for a, b < m without overflowing.
func addMod(a, b, m uint64) uint64 {
	s := a + b
	if s < a || s >= m {
		s -= m
	}
	return s
}

// subMod returns (a - b) mod m for a, b < m.
func subMod(a, b, m uint64) uint64 {
	if a >= b {
		return a - b
	}
	return m - (b - a)
}

// mulMod returns (a * b) mod m using the full 128-bit product.
func mulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, m)
}
