package bos

import (
	"fmt"
	"strings"
)

// Verify re-checks every invariant of a freshly generated distribution:
// size, tier counts, fixed payouts, the Tier F range, the unclaimed state and,
// when capCents is nonzero, that the Tier F fiat value stays within the cap.
//
// It returns ErrDistributionInvalid listing the violations found.
func Verify(d Distribution, rateCents, capCents uint64) error {
	if rateCents == 0 {
		return ErrInvalidPrice.WithOperation("Verify")
	}

	var problems []string
	if len(d) != TotalBottles {
		problems = append(problems, fmt.Sprintf("size %d, want %d", len(d), TotalBottles))
	}

	specs := TierSpecs()
	counts := make([]int, tierCount)
	var tierFSats uint64

	for i, b := range d {
		if !b.Tier.Valid() {
			problems = append(problems, fmt.Sprintf("bottle %d: unknown tier %d", i, uint8(b.Tier)))
			continue
		}
		counts[b.Tier]++

		spec := specs[b.Tier]
		if b.Sats < spec.MinSats || b.Sats > spec.MaxSats {
			problems = append(problems, fmt.Sprintf("bottle %d: tier %s pays %d sats, want [%d, %d]",
				i, b.Tier, b.Sats, spec.MinSats, spec.MaxSats))
		}
		if b.Claimed {
			problems = append(problems, fmt.Sprintf("bottle %d: already claimed", i))
		}
		if b.Tier == TierF {
			tierFSats += b.Sats
		}
	}

	for _, spec := range specs {
		if counts[spec.Tier] != spec.Count {
			problems = append(problems, fmt.Sprintf("tier %s has %d bottles, want %d",
				spec.Tier, counts[spec.Tier], spec.Count))
		}
	}

	if capCents != 0 {
		cents, err := CentsForSats(tierFSats, rateCents)
		switch {
		case err != nil:
			problems = append(problems, err.Error())
		case cents > capCents:
			problems = append(problems, fmt.Sprintf("tier F worth %d cents exceeds cap %d", cents, capCents))
		}
	}

	if len(problems) == 0 {
		return nil
	}

	// Keep the message readable for badly broken inputs
	const maxReported = 10
	total, more := len(problems), ""
	if total > maxReported {
		more = fmt.Sprintf(" (and %d more)", total-maxReported)
		problems = problems[:maxReported]
	}
	return ErrDistributionInvalid.
		WithOperation("Verify").
		WithMetadata("violations", total).
		WithDetails(strings.Join(problems, "; ") + more)
}
