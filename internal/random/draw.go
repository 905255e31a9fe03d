package random

// Chance reports true with probability p.
func Chance(s Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.Float64() < p
}

// Bool is a fair coin.
func Bool(s Source) bool {
	return s.Intn(2) == 0
}

// IntInRange returns a uniform integer in [lo, hi].
func IntInRange(s Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.Intn(hi-lo+1)
}

// Element returns a uniformly chosen element of xs. xs must not be empty.
func Element[T any](s Source, xs []T) T {
	return xs[s.Intn(len(xs))]
}

// Weighted returns an index into weights, chosen proportionally to the
// weight at that index. Non-positive weights are never chosen. It returns
// -1 when no weight is positive.
func Weighted(s Source, weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return -1
	}
	pick := s.Intn(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if pick < w {
			return i
		}
		pick -= w
	}
	return len(weights) - 1
}
