package bos

// Bottle is one allocable prize
type Bottle struct {
	Tier    Tier   `json:"tier"`    // Prize tier, immutable once generated
	Sats    uint64 `json:"sats"`    // Payout in satoshis
	Claimed bool   `json:"claimed"` // Always false when generated
}

// Distribution is the full, shuffled set of bottles produced by Generate.
// Position carries no meaning.
type Distribution []Bottle

// Clone returns an independent copy of d
func (d Distribution) Clone() Distribution {
	if d == nil {
		return nil
	}
	c := make(Distribution, len(d))
	copy(c, d)
	return c
}

// CountByTier returns the number of bottles of each tier
func (d Distribution) CountByTier() map[Tier]int {
	counts := make(map[Tier]int, tierCount)
	for _, b := range d {
		counts[b.Tier]++
	}
	return counts
}

// TierSats returns the summed payout of every bottle of tier t
func (d Distribution) TierSats(t Tier) uint64 {
	var total uint64
	for _, b := range d {
		if b.Tier == t {
			total += b.Sats
		}
	}
	return total
}

// TotalSats returns the summed payout of the whole distribution
func (d Distribution) TotalSats() uint64 {
	var total uint64
	for _, b := range d {
		total += b.Sats
	}
	return total
}

// Unclaimed returns the indexes of bottles that have not been claimed yet
func (d Distribution) Unclaimed() []int {
	idx := make([]int, 0, len(d))
	for i, b := range d {
		if !b.Claimed {
			idx = append(idx, i)
		}
	}
	return idx
}
