package pisano

// GCD returns the greatest common divisor of a and b using Euclid's
// algorithm. GCD(0, 0) is 0.
func GCD(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// LCM returns the least common multiple of a and b. Dividing before
// multiplying keeps intermediate values within the result's magnitude.
// LCM(0, x) is 0.
func LCM(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	return a / GCD(a, b) * b
}
