package bos

// TierStats aggregates the bottles of one tier
type TierStats struct {
	Tier        Tier   `json:"tier"`
	InTier      int    `json:"in_tier"`      // Bottles of this tier
	Claimed     int    `json:"claimed"`      // Bottles claimed so far
	SatsTotal   uint64 `json:"sats_total"`   // Payout of every bottle of this tier
	SatsClaimed uint64 `json:"sats_claimed"` // Payout of the claimed bottles
}

// Unclaimed returns the number of bottles still available
func (s TierStats) Unclaimed() int { return s.InTier - s.Claimed }

// Summary is a per-tier breakdown of a distribution
type Summary struct {
	Tiers []TierStats `json:"tiers"` // Indexed by Tier, A..F
}

// Summarize computes the per-tier statistics of d
func Summarize(d Distribution) Summary {
	s := Summary{Tiers: make([]TierStats, tierCount)}
	for i := range s.Tiers {
		s.Tiers[i].Tier = Tier(i)
	}

	for _, b := range d {
		if !b.Tier.Valid() {
			continue
		}
		ts := &s.Tiers[b.Tier]
		ts.InTier++
		ts.SatsTotal += b.Sats
		if b.Claimed {
			ts.Claimed++
			ts.SatsClaimed += b.Sats
		}
	}
	return s
}

// Tier returns the statistics of t
func (s Summary) Tier(t Tier) TierStats {
	if !t.Valid() || int(t) >= len(s.Tiers) {
		return TierStats{Tier: t}
	}
	return s.Tiers[t]
}

// TotalBottles returns the number of bottles summarized
func (s Summary) TotalBottles() int {
	n := 0
	for _, ts := range s.Tiers {
		n += ts.InTier
	}
	return n
}

// TotalClaimed returns the number of claimed bottles
func (s Summary) TotalClaimed() int {
	n := 0
	for _, ts := range s.Tiers {
		n += ts.Claimed
	}
	return n
}

// SatsClaimed returns the payout of every claimed bottle
func (s Summary) SatsClaimed() uint64 {
	var total uint64
	for _, ts := range s.Tiers {
		total += ts.SatsClaimed
	}
	return total
}

// SatsTotal returns the payout of every bottle
func (s Summary) SatsTotal() uint64 {
	var total uint64
	for _, ts := range s.Tiers {
		total += ts.SatsTotal
	}
	return total
}

// ClaimedFiatValue returns the fiat value in cents of the claimed sats
func (s Summary) ClaimedFiatValue(rateCents uint64) (uint64, error) {
	return CentsForSats(s.SatsClaimed(), rateCents)
}
