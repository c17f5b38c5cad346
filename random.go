package bos

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource is the entropy a generation or a claiming session consumes.
// *rand.Rand from math/rand/v2 satisfies it.
//
// A RandomSource is not safe for concurrent use; give every goroutine its own.
type RandomSource interface {
	// Uint64N returns a uniform value in [0, n). n must be > 0.
	Uint64N(n uint64) uint64

	// Shuffle permutes n elements uniformly through swap.
	Shuffle(n int, swap func(i, j int))
}

// cryptoSource feeds math/rand/v2 from crypto/rand
type cryptoSource struct{}

func (cryptoSource) Uint64() uint64 {
	var buf [8]byte
	// crypto/rand.Read never returns an error since Go 1.24
	_, _ = crand.Read(buf[:])
	return binary.LittleEndian.Uint64(buf[:])
}

// NewSecureSource returns a RandomSource backed by crypto/rand
func NewSecureSource() RandomSource {
	return rand.New(cryptoSource{})
}

// NewSeededSource returns a reproducible PCG RandomSource
func NewSeededSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// DrawInRange draws a uniform value in [min, max] (inclusive)
func DrawInRange(src RandomSource, min, max uint64) (uint64, error) {
	if src == nil {
		return 0, ErrInvalidParameters.WithDetails("nil random source")
	}
	if min > max {
		return 0, ErrInvalidRange.WithDetailsf("min=%d, max=%d", min, max)
	}
	if min == max {
		return min, nil
	}

	span := max - min + 1
	if span == 0 {
		// [0, MaxUint64]
		return src.Uint64N(1<<32)<<32 | src.Uint64N(1<<32), nil
	}
	return min + src.Uint64N(span), nil
}
