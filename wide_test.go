package bos

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func toBig(x uint128) *big.Int {
	v := new(big.Int).SetUint64(x.hi)
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(x.lo))
}

func TestUint128(t *testing.T) {
	t.Run("mul and div round trip", func(t *testing.T) {
		pairs := [][2]uint64{
			{0, 5},
			{21, 28_389},
			{math.MaxUint64, SatsPerBTC},
			{math.MaxUint64, math.MaxUint64},
			{1 << 63, 3},
		}
		for _, p := range pairs {
			x := mul64(p[0], p[1])
			want := new(big.Int).Mul(new(big.Int).SetUint64(p[0]), new(big.Int).SetUint64(p[1]))
			assert.Equal(t, 0, want.Cmp(toBig(x)), "%d*%d", p[0], p[1])

			for _, d := range []uint64{1, 7, SatsPerBTC, testRate, math.MaxUint64} {
				q := x.div64(d)
				wantQ := new(big.Int).Quo(want, new(big.Int).SetUint64(d))
				assert.Equal(t, 0, wantQ.Cmp(toBig(q)), "%d*%d/%d", p[0], p[1], d)
			}
		}
	})

	t.Run("ceil division", func(t *testing.T) {
		assert.Equal(t, u128(57_528), mul64(596_169, testRate).divCeil64(SatsPerBTC))
		assert.Equal(t, u128(57_527), mul64(596_169, testRate).div64(SatsPerBTC))
		assert.Equal(t, u128(3), u128(9).divCeil64(3))
		assert.Equal(t, u128(4), u128(10).divCeil64(3))
	})

	t.Run("add carries and sub borrows", func(t *testing.T) {
		x := u128(math.MaxUint64).add(u128(1))
		assert.Equal(t, uint128{hi: 1, lo: 0}, x)
		assert.Equal(t, u128(math.MaxUint64), x.sub(u128(1)))
	})

	t.Run("compare", func(t *testing.T) {
		big := uint128{hi: 1}
		assert.True(t, u128(math.MaxUint64).less(big))
		assert.False(t, big.less(big))
		assert.Equal(t, 1, big.cmp(u128(5)))
		assert.Equal(t, 0, u128(5).cmp(u128(5)))
	})

	t.Run("clamp and narrow", func(t *testing.T) {
		assert.Equal(t, uint64(500), uint128{hi: 1}.min64(500))
		assert.Equal(t, uint64(500), u128(501).min64(500))
		assert.Equal(t, uint64(21), u128(21).min64(500))

		v, ok := u128(42).narrow()
		assert.True(t, ok)
		assert.Equal(t, uint64(42), v)

		_, ok = uint128{hi: 1}.narrow()
		assert.False(t, ok)
	})
}
