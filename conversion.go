package bos

import (
	"fmt"
	"strings"
)

// minimumTierFBudget is the smallest Tier F budget in sats that pays every
// variable bottle its guaranteed minimum.
func minimumTierFBudget() uint128 {
	return mul64(TierFMinSats, uint64(TierFCount))
}

// budgetSats converts a fiat cap into a sat budget with exact floor division.
// rateCents must be nonzero.
func budgetSats(capCents, rateCents uint64) uint128 {
	return mul64(capCents, SatsPerBTC).div64(rateCents)
}

// SatsForCents converts a fiat amount into satoshis at rateCents per BTC,
// rounding down.
func SatsForCents(cents, rateCents uint64) (uint64, error) {
	if rateCents == 0 {
		return 0, ErrInvalidPrice
	}

	sats, ok := budgetSats(cents, rateCents).narrow()
	if !ok {
		return 0, ErrConversionOutOfBounds.WithDetailsf("cents=%d rate=%d", cents, rateCents)
	}
	return sats, nil
}

// CentsForSats converts satoshis into fiat cents at rateCents per BTC,
// rounding down.
func CentsForSats(sats, rateCents uint64) (uint64, error) {
	if rateCents == 0 {
		return 0, ErrInvalidPrice.WithOperation("CentsForSats")
	}
	cents, ok := mul64(sats, rateCents).div64(SatsPerBTC).narrow()
	if !ok {
		return 0, ErrConversionOutOfBounds.WithDetailsf("sats=%d rate=%d", sats, rateCents)
	}
	return cents, nil
}

// MinimumCap returns the smallest nonzero cap, in cents, for which Generate
// succeeds at rateCents: ceil(21 * 28389 * rate / 1e8).
//
// Any cap below it fails with ErrCapTooLow. Note the floor of the same
// quotient is not always enough, because the cap is converted back into
// sats with floor division.
func MinimumCap(rateCents uint64) (uint64, error) {
	if rateCents == 0 {
		return 0, ErrInvalidPrice
	}

	minSats, _ := minimumTierFBudget().narrow()
	capCents, ok := mul64(minSats, rateCents).divCeil64(SatsPerBTC).narrow()
	if !ok {
		return 0, ErrConversionOutOfBounds.WithDetailsf("rate=%d", rateCents)
	}
	return capCents, nil
}

var currencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"JPY": "¥",
}

// FormatFiat renders cents as a decimal amount, e.g. "€96496.00"
func FormatFiat(cents uint64, currency string) string {
	amount := fmt.Sprintf("%d.%02d", cents/100, cents%100)

	code := strings.ToUpper(currency)
	if sym, ok := currencySymbols[code]; ok {
		return sym + amount
	}
	if code == "" {
		return amount
	}
	return amount + " " + code
}
