package bos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDistribution() Distribution {
	return Distribution{
		{Tier: TierA, Sats: 1_000_000, Claimed: true},
		{Tier: TierC, Sats: 10_000},
		{Tier: TierF, Sats: 21, Claimed: true},
		{Tier: TierF, Sats: 300},
		{Tier: TierF, Sats: 500, Claimed: true},
	}
}

func TestDistribution(t *testing.T) {
	d := sampleDistribution()

	assert.Equal(t, map[Tier]int{TierA: 1, TierC: 1, TierF: 3}, d.CountByTier())
	assert.Equal(t, uint64(821), d.TierSats(TierF))
	assert.Equal(t, uint64(1_010_821), d.TotalSats())
	assert.Equal(t, []int{1, 3}, d.Unclaimed())

	c := d.Clone()
	c[1].Claimed = true
	assert.False(t, d[1].Claimed)
	assert.Nil(t, Distribution(nil).Clone())
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleDistribution())
	require.Len(t, s.Tiers, 6)

	f := s.Tier(TierF)
	assert.Equal(t, TierStats{Tier: TierF, InTier: 3, Claimed: 2, SatsTotal: 821, SatsClaimed: 521}, f)
	assert.Equal(t, 1, f.Unclaimed())

	assert.Equal(t, 0, s.Tier(TierB).InTier)
	assert.Equal(t, TierStats{Tier: Tier(9)}, s.Tier(Tier(9)))

	assert.Equal(t, 5, s.TotalBottles())
	assert.Equal(t, 3, s.TotalClaimed())
	assert.Equal(t, uint64(1_000_521), s.SatsClaimed())
	assert.Equal(t, uint64(1_010_821), s.SatsTotal())

	cents, err := s.ClaimedFiatValue(testRate)
	require.NoError(t, err)
	// 1,000,521 sat * 96,496.00 € / 1e8 = 96,546.27 cents, floored
	assert.Equal(t, uint64(96_546), cents)
}

func TestSummarize_Generated(t *testing.T) {
	d, err := Generate(testRate, 0, NewSeededSource(9))
	require.NoError(t, err)

	s := Summarize(d)
	for _, spec := range TierSpecs() {
		ts := s.Tier(spec.Tier)
		assert.Equal(t, spec.Count, ts.InTier)
		assert.Zero(t, ts.Claimed)
		if spec.Fixed() {
			assert.Equal(t, uint64(spec.Count)*spec.MinSats, ts.SatsTotal)
		}
	}
	assert.Equal(t, d.TotalSats(), s.SatsTotal())
}
