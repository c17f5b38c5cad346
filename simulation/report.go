package simulation

import (
	"fmt"
	"io"
	"strings"

	"github.com/kydenul/bos"
)

const (
	rowFormat   = "%-25s | %7v | %7v | %9v | %12v\n"
	ruleWidth   = 78
	emptyHeader = "Tier statistics"
)

// RenderTable writes the per-tier statistics of s followed by the totals and
// the fiat value of the claimed sats at rateCents.
func RenderTable(w io.Writer, s bos.Summary, rateCents uint64, currency, header string) error {
	claimedCents, err := s.ClaimedFiatValue(rateCents)
	if err != nil {
		return err
	}
	if header == "" {
		header = emptyHeader
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", header)
	fmt.Fprintf(&b, rowFormat, "Tier", "In", "Claimed", "Unclaimed", "Sat-Claimed")
	b.WriteString(strings.Repeat("-", ruleWidth))
	b.WriteByte('\n')

	for _, t := range bos.Tiers() {
		ts := s.Tier(t)
		if ts.InTier == 0 {
			continue
		}
		fmt.Fprintf(&b, rowFormat, t.Label(), ts.InTier, ts.Claimed, ts.Unclaimed(), ts.SatsClaimed)
	}

	total, claimed := s.TotalBottles(), s.TotalClaimed()
	fmt.Fprintf(&b, "\nTotals → bottles: %d, claimed: %d, remaining: %d\n", total, claimed, total-claimed)
	fmt.Fprintf(&b, "Total sats claimed: %d ≈ %s\n", s.SatsClaimed(), bos.FormatFiat(claimedCents, currency))

	_, err = io.WriteString(w, b.String())
	return err
}
