package bos

import "fmt"

// Tier identifies the prize class of a bottle
type Tier uint8

const (
	TierA Tier = iota
	TierB
	TierC
	TierD
	TierE
	TierF

	tierCount = int(TierF) + 1
)

var tierNames = [tierCount]string{"A", "B", "C", "D", "E", "F"}

// String returns the single-letter tier name
func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Tier(%d)", uint8(t))
	}
	return tierNames[t]
}

// Valid reports whether t is one of A..F
func (t Tier) Valid() bool { return int(t) < tierCount }

// Label returns the human readable label used in statistics tables
func (t Tier) Label() string {
	switch t {
	case TierA:
		return "Tier A (1 000 000 sat)"
	case TierB:
		return "Tier B (100 000 sat)"
	case TierC:
		return "Tier C (10 000 sat)"
	case TierD:
		return "Tier D (2 100 sat)"
	case TierE:
		return "Tier E (1 000 sat)"
	case TierF:
		return "Tier F (21-500 sat)"
	default:
		return t.String()
	}
}

// MarshalText implements encoding.TextMarshaler
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, ErrInvalidParameters.WithDetailsf("unknown tier %d", uint8(t))
	}
	return []byte(tierNames[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTier parses "A".."F" (case-insensitive)
func ParseTier(s string) (Tier, error) {
	if len(s) == 1 {
		c := s[0]
		if c >= 'a' && c <= 'f' {
			c -= 'a' - 'A'
		}
		if c >= 'A' && c <= 'F' {
			return Tier(c - 'A'), nil
		}
	}
	return 0, ErrInvalidParameters.WithDetailsf("unknown tier %q", s)
}

// Tiers returns every tier in ascending order A..F
func Tiers() []Tier {
	return []Tier{TierA, TierB, TierC, TierD, TierE, TierF}
}

// TierSpec describes how many bottles a tier holds and what they pay.
// Fixed tiers have MinSats == MaxSats.
type TierSpec struct {
	Tier    Tier   `json:"tier"`
	Count   int    `json:"count"`
	MinSats uint64 `json:"min_sats"`
	MaxSats uint64 `json:"max_sats"`
}

// Fixed reports whether every bottle of the tier pays the same amount
func (s TierSpec) Fixed() bool { return s.MinSats == s.MaxSats }

// fixedTiers is the deterministic part of every distribution
var fixedTiers = []TierSpec{
	{Tier: TierA, Count: 1, MinSats: 1_000_000, MaxSats: 1_000_000},
	{Tier: TierB, Count: 10, MinSats: 100_000, MaxSats: 100_000},
	{Tier: TierC, Count: 100, MinSats: 10_000, MaxSats: 10_000},
	{Tier: TierD, Count: 1_000, MinSats: 2_100, MaxSats: 2_100},
	{Tier: TierE, Count: 2_000, MinSats: 1_000, MaxSats: 1_000},
}

// TierFCount is the number of randomized bottles, whatever the fixed tiers leave over
var TierFCount = func() int {
	n := TotalBottles
	for _, spec := range fixedTiers {
		n -= spec.Count
	}
	return n
}()

// TierSpecs returns the full tier catalogue A..F
func TierSpecs() []TierSpec {
	specs := make([]TierSpec, 0, tierCount)
	specs = append(specs, fixedTiers...)
	return append(specs, TierSpec{
		Tier:    TierF,
		Count:   TierFCount,
		MinSats: TierFMinSats,
		MaxSats: TierFMaxSats,
	})
}

// SpecFor returns the catalogue entry of t
func SpecFor(t Tier) (TierSpec, bool) {
	for _, spec := range TierSpecs() {
		if spec.Tier == t {
			return spec, true
		}
	}
	return TierSpec{}, false
}
