package bos

import "math/bits"

// uint128 is an unsigned 128-bit integer used for every sat/cent conversion
// and for the running Tier F budget.
type uint128 struct {
	hi, lo uint64
}

func u128(v uint64) uint128 { return uint128{lo: v} }

// mul64 returns a*b without overflow
func mul64(a, b uint64) uint128 {
	hi, lo := bits.Mul64(a, b)
	return uint128{hi: hi, lo: lo}
}

// div64 returns floor(x/d). d must be nonzero.
func (x uint128) div64(d uint64) uint128 {
	qhi, r := x.hi/d, x.hi%d
	// r < d, so the second division cannot overflow
	qlo, _ := bits.Div64(r, x.lo, d)
	return uint128{hi: qhi, lo: qlo}
}

// divCeil64 returns ceil(x/d). d must be nonzero.
func (x uint128) divCeil64(d uint64) uint128 {
	qhi, r := x.hi/d, x.hi%d
	qlo, rem := bits.Div64(r, x.lo, d)
	q := uint128{hi: qhi, lo: qlo}
	if rem != 0 {
		q = q.add(u128(1))
	}
	return q
}

func (x uint128) add(y uint128) uint128 {
	lo, carry := bits.Add64(x.lo, y.lo, 0)
	hi, _ := bits.Add64(x.hi, y.hi, carry)
	return uint128{hi: hi, lo: lo}
}

// sub returns x-y; callers guarantee x >= y
func (x uint128) sub(y uint128) uint128 {
	lo, borrow := bits.Sub64(x.lo, y.lo, 0)
	hi, _ := bits.Sub64(x.hi, y.hi, borrow)
	return uint128{hi: hi, lo: lo}
}

func (x uint128) cmp(y uint128) int {
	switch {
	case x.hi < y.hi:
		return -1
	case x.hi > y.hi:
		return 1
	case x.lo < y.lo:
		return -1
	case x.lo > y.lo:
		return 1
	default:
		return 0
	}
}

func (x uint128) less(y uint128) bool { return x.cmp(y) < 0 }

// min64 returns min(x, v) narrowed to 64 bits
func (x uint128) min64(v uint64) uint64 {
	if x.hi != 0 || x.lo > v {
		return v
	}
	return x.lo
}

// narrow returns the low word and whether the value fits in it
func (x uint128) narrow() (uint64, bool) {
	return x.lo, x.hi == 0
}
