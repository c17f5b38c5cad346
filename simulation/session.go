// Package simulation claims bottles of a generated distribution in rounds and
// reports the running per-tier statistics. Claims live in memory only.
package simulation

import (
	"sync"

	"github.com/google/uuid"
	"github.com/kydenul/bos"
)

// Session is one claiming run over a distribution
type Session struct {
	ID uuid.UUID

	mu        sync.Mutex
	bottles   bos.Distribution
	unclaimed []int // Indices into bottles not yet claimed
	src       bos.RandomSource
	logger    bos.Logger
	monitor   *bos.PerformanceMonitor
}

// NewSession starts a session over a copy of d with every bottle unclaimed.
// A nil src draws from crypto/rand.
func NewSession(d bos.Distribution, src bos.RandomSource) *Session {
	if src == nil {
		src = bos.NewSecureSource()
	}

	bottles := d.Clone()
	for i := range bottles {
		bottles[i].Claimed = false
	}

	return &Session{
		ID:        uuid.New(),
		bottles:   bottles,
		unclaimed: bottles.Unclaimed(),
		src:       src,
		logger:    bos.NewSilentLogger(),
	}
}

// SetLogger replaces the session logger
func (s *Session) SetLogger(logger bos.Logger) {
	if logger == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger = logger
}

// SetMonitor makes the session report claims into monitor
func (s *Session) SetMonitor(monitor *bos.PerformanceMonitor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.monitor = monitor
}

// Claim marks up to n uniformly chosen unclaimed bottles as claimed and
// returns them. Fewer than n are returned when fewer remain.
func (s *Session) Claim(n int) ([]bos.Bottle, error) {
	if n <= 0 {
		return nil, bos.ErrInvalidClaimCount.WithDetailsf("requested %d", n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.unclaimed) == 0 {
		return nil, bos.ErrNothingToClaim.WithOperation("Claim")
	}

	k := min(n, len(s.unclaimed))

	// Partial Fisher-Yates: the first k entries become a uniform sample
	for i := range k {
		j := i + int(s.src.Uint64N(uint64(len(s.unclaimed)-i)))
		s.unclaimed[i], s.unclaimed[j] = s.unclaimed[j], s.unclaimed[i]
	}

	claimed := make([]bos.Bottle, 0, k)
	for _, idx := range s.unclaimed[:k] {
		s.bottles[idx].Claimed = true
		claimed = append(claimed, s.bottles[idx])
	}
	s.unclaimed = s.unclaimed[k:]

	if s.monitor != nil {
		s.monitor.RecordClaims(k)
	}
	s.logger.Debug("Session %s claimed %d bottles, %d remaining", s.ID, k, len(s.unclaimed))

	return claimed, nil
}

// Stats summarizes the session's bottles
func (s *Session) Stats() bos.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return bos.Summarize(s.bottles)
}

// Remaining returns the number of unclaimed bottles
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.unclaimed)
}

// Bottles returns a copy of the session's bottles with their claimed flags
func (s *Session) Bottles() bos.Distribution {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bottles.Clone()
}
