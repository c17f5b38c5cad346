package bos

// schedule is a tier layout: fixed tiers followed by one randomized tier
type schedule struct {
	fixed    []TierSpec
	variable TierSpec
}

var defaultSchedule = schedule{
	fixed: fixedTiers,
	variable: TierSpec{
		Tier:    TierF,
		Count:   TierFCount,
		MinSats: TierFMinSats,
		MaxSats: TierFMaxSats,
	},
}

func (s schedule) total() int {
	n := s.variable.Count
	for _, spec := range s.fixed {
		n += spec.Count
	}
	return n
}

// Generate builds the 31,500-bottle distribution for a BTC price of rateCents
// fiat cents and a Tier F budget cap of capCents fiat cents (0 = no cap).
//
// Fails with ErrInvalidPrice when rateCents is 0 and with ErrCapTooLow when the
// cap cannot pay every Tier F bottle 21 sats. src is the only entropy used; with
// a seeded source the result is reproducible.
func Generate(rateCents, capCents uint64, src RandomSource) (Distribution, error) {
	if src == nil {
		return nil, ErrInvalidParameters.WithDetails("nil random source")
	}
	return defaultSchedule.generate(rateCents, capCents, src)
}

func (s schedule) generate(rateCents, capCents uint64, src RandomSource) (Distribution, error) {
	if rateCents == 0 {
		return nil, ErrInvalidPrice.WithOperation("Generate")
	}

	v := s.variable
	count := uint64(v.Count)

	// Without a cap every bottle may take the maximum at once
	var budget uint128
	if capCents == 0 {
		budget = mul64(v.MaxSats, count)
	} else {
		budget = budgetSats(capCents, rateCents)
	}

	if minimum := mul64(v.MinSats, count); budget.less(minimum) {
		have, _ := budget.narrow()
		need, _ := minimum.narrow()
		return nil, ErrCapTooLow.
			WithOperation("Generate").
			WithDetailsf("cap=%d cents buys %d sats at rate=%d, need %d", capCents, have, rateCents, need)
	}

	dist := make(Distribution, 0, s.total())
	for _, spec := range s.fixed {
		for range spec.Count {
			dist = append(dist, Bottle{Tier: spec.Tier, Sats: spec.MinSats})
		}
	}

	// Invariant: budget >= MinSats * remaining, so feasibleMax >= MinSats.
	for remaining := count; remaining > 0; remaining-- {
		reserve := mul64(v.MinSats, remaining-1)
		feasibleMax := budget.sub(reserve).min64(v.MaxSats)

		sats := v.MinSats + src.Uint64N(feasibleMax-v.MinSats+1)
		dist = append(dist, Bottle{Tier: v.Tier, Sats: sats})

		budget = budget.sub(u128(sats))
	}

	// Draw order correlates with the feasible range; erase it.
	src.Shuffle(len(dist), func(i, j int) {
		dist[i], dist[j] = dist[j], dist[i]
	})

	return dist, nil
}
