package pisano

// BruteForcePeriod returns π(m) by stepping the Fibonacci pair modulo m until
// it returns to (0, 1). It is O(π(m)) and serves as the reference the table
// is checked against. BruteForcePeriod(0) is 0.
func BruteForcePeriod(m uint64) uint64 {
	if m == 0 {
		return 0
	}
	if m == 1 {
		return 1
	}
	prev, curr := uint64(0), uint64(1)
	for i := uint64(1); ; i++ {
		next := prev + curr
		if next >= m {
			next -= m
		}
		prev, curr = curr, next
		if prev == 0 && curr == 1 {
			return i
		}
	}
}
