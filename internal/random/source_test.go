package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededDeterminism(t *testing.T) {
	a := NewSeeded(12345)
	b := NewSeeded(12345)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Intn(1000), b.Intn(1000), "draw %d", i)
		require.Equal(t, a.Float64(), b.Float64(), "draw %d", i)
	}
}

func TestByteSource(t *testing.T) {
	s := NewFromData([]byte{7, 200, 128})
	assert.Equal(t, 3, s.Remaining())
	assert.Equal(t, 1, s.Intn(3))
	assert.Equal(t, 0, s.Intn(0), "n <= 0 must not consume")
	assert.Equal(t, 2, s.Remaining())
	assert.Equal(t, 200, s.Intn(256))
	assert.InDelta(t, 0.5, s.Float64(), 1e-9)
	assert.Equal(t, 0, s.Remaining())

	// Exhausted sources keep returning zero.
	assert.Equal(t, 0, s.Intn(10))
	assert.Equal(t, 0.0, s.Float64())
}

func TestByteSourceWideRange(t *testing.T) {
	s := NewFromData([]byte{1, 162, 0xff})
	assert.Equal(t, 418, s.Intn(419), "two bytes, big endian")
	assert.Equal(t, 1, s.Remaining())
	assert.Equal(t, 255*256%1000, s.Intn(1000), "a missing low byte reads as zero")

	// every value of a range wider than a byte is reachable
	seen := map[int]bool{}
	for hi := 0; hi < 2; hi++ {
		for lo := 0; lo < 256; lo++ {
			seen[NewFromData([]byte{byte(hi), byte(lo)}).Intn(300)] = true
		}
	}
	assert.Len(t, seen, 300)
}

func TestByteSourceFloatBelowOne(t *testing.T) {
	s := NewFromData([]byte{255})
	assert.Less(t, s.Float64(), 1.0)
}

func TestChance(t *testing.T) {
	s := NewSeeded(1)
	for i := 0; i < 100; i++ {
		assert.False(t, Chance(s, 0))
		assert.True(t, Chance(s, 1))
	}

	hits := 0
	const n = 20000
	for i := 0; i < n; i++ {
		if Chance(s, 0.1) {
			hits++
		}
	}
	assert.InDelta(t, 0.1, float64(hits)/n, 0.02)
}

func TestIntInRange(t *testing.T) {
	s := NewSeeded(2)
	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		v := IntInRange(s, 2, 5)
		require.GreaterOrEqual(t, v, 2)
		require.LessOrEqual(t, v, 5)
		seen[v] = true
	}
	assert.Len(t, seen, 4, "all values of the inclusive range are drawn")
	assert.Equal(t, 7, IntInRange(s, 7, 7))
	assert.Equal(t, 7, IntInRange(s, 7, 3))
}

func TestWeighted(t *testing.T) {
	s := NewSeeded(3)
	assert.Equal(t, -1, Weighted(s, nil))
	assert.Equal(t, -1, Weighted(s, []int{0, 0, -2}))

	counts := make([]int, 3)
	const n = 30000
	for i := 0; i < n; i++ {
		idx := Weighted(s, []int{1, 0, 2})
		require.NotEqual(t, 1, idx, "zero weight must never be chosen")
		counts[idx]++
	}
	assert.InDelta(t, 1.0/3, float64(counts[0])/n, 0.02)
	assert.InDelta(t, 2.0/3, float64(counts[2])/n, 0.02)
}

func TestElement(t *testing.T) {
	s := NewFromData([]byte{4})
	assert.Equal(t, "b", Element(s, []string{"a", "b", "c"}))
}
