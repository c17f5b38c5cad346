package bos

import (
	"sync"
	"time"
)

// Generator wraps Generate with logging, metrics and a random source factory.
// It holds no distribution state and is safe for concurrent use.
type Generator struct {
	logger    Logger
	newSource func() RandomSource
	mu        sync.RWMutex // 保护 logger 和 newSource 的并发访问

	performanceMonitor *PerformanceMonitor
}

// NewGenerator creates a generator drawing from crypto/rand
func NewGenerator() *Generator {
	return NewGeneratorWithLogger(&DefaultLogger{})
}

// NewGeneratorWithLogger creates a generator with a custom logger
func NewGeneratorWithLogger(logger Logger) *Generator {
	if logger == nil {
		logger = NewSilentLogger()
	}

	return &Generator{
		logger:    logger,
		newSource: NewSecureSource,

		performanceMonitor: NewPerformanceMonitor(),
	}
}

// NewGeneratorWithMonitor creates a generator that reports into a shared monitor
func NewGeneratorWithMonitor(logger Logger, monitor *PerformanceMonitor) *Generator {
	g := NewGeneratorWithLogger(logger)
	if monitor != nil {
		g.performanceMonitor = monitor
	}
	return g
}

// SetSourceFactory replaces the factory used by Generate, e.g. with seeded sources.
// A nil factory restores the crypto/rand default.
func (g *Generator) SetSourceFactory(factory func() RandomSource) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if factory == nil {
		factory = NewSecureSource
	}
	g.newSource = factory
}

// SetLogger replaces the logger
func (g *Generator) SetLogger(logger Logger) {
	if logger == nil {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.logger = logger
}

func (g *Generator) getLogger() Logger {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.logger
}

// Generate builds a distribution with a fresh random source per call
func (g *Generator) Generate(rateCents, capCents uint64) (Distribution, error) {
	g.mu.RLock()
	factory := g.newSource
	g.mu.RUnlock()

	return g.GenerateWithSource(rateCents, capCents, factory())
}

// GenerateWithSource builds a distribution from src
func (g *Generator) GenerateWithSource(rateCents, capCents uint64, src RandomSource) (Distribution, error) {
	logger := g.getLogger()
	logger.Debug("Generate called: rate=%d cents, cap=%d cents", rateCents, capCents)

	start := time.Now()
	dist, err := Generate(rateCents, capCents, src)
	duration := time.Since(start)

	g.performanceMonitor.RecordGeneration(err, duration)

	if err != nil {
		logger.Error("Generate failed: rate=%d cents, cap=%d cents, duration=%v: %v",
			rateCents, capCents, duration, err)
		return nil, err
	}

	logger.Info("Generated %d bottles (tier F %d sats) in %v: rate=%d cents, cap=%d cents",
		len(dist), dist.TierSats(TierF), duration, rateCents, capCents)
	return dist, nil
}

// GetPerformanceMetrics returns a snapshot of the generator metrics
func (g *Generator) GetPerformanceMetrics() PerformanceMetrics {
	return g.performanceMonitor.GetMetrics()
}

// Monitor returns the generator's performance monitor
func (g *Generator) Monitor() *PerformanceMonitor { return g.performanceMonitor }

// ResetPerformanceMetrics resets the generator metrics
func (g *Generator) ResetPerformanceMetrics() { g.performanceMonitor.ResetMetrics() }

var _ Distributor = (*Generator)(nil)
