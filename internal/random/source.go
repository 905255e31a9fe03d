// Package random provides the single source of randomness a generation run
// draws from, and the draw helpers the strategies use.
//
// Every draw goes through one Source in strict sequence, so replaying the
// same seed (or the same fuzz bytes) against the same program state yields
// the same program.
package random

import "math/rand"

// Source abstracts the source of randomness.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// RandSource wraps math/rand.
type RandSource struct {
	*rand.Rand
}

// NewSeeded returns a deterministic source for seed.
func NewSeeded(seed int64) *RandSource {
	return &RandSource{rand.New(rand.NewSource(seed))}
}

// ByteSource uses a byte slice as a source of randomness.
// Once the data is exhausted every draw returns zero.
type ByteSource struct {
	data []byte
	pos  int
}

// NewFromData returns a source that consumes data one byte per draw, or
// as many bytes as it takes to cover n for Intn(n) with n > 256.
func NewFromData(data []byte) *ByteSource {
	return &ByteSource{data: data}
}

// Intn reads the fewest big-endian bytes whose range covers n, so every
// value in [0, n) is reachable. Missing bytes read as zero.
func (s *ByteSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	if s.pos >= len(s.data) {
		return 0
	}
	v := 0
	for k, span := 0, 1; k < 7 && span < n; k, span = k+1, span<<8 {
		v <<= 8
		if s.pos < len(s.data) {
			v |= int(s.data[s.pos])
			s.pos++
		}
	}
	return v % n
}

// Float64 returns a value in [0, 1).
func (s *ByteSource) Float64() float64 {
	if s.pos >= len(s.data) {
		return 0.0
	}
	v := int(s.data[s.pos])
	s.pos++
	return float64(v) / 256.0
}

// Remaining reports how many unread bytes are left.
func (s *ByteSource) Remaining() int {
	return len(s.data) - s.pos
}
