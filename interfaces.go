package bos

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Distributor produces prize distributions.
// *Generator is the production implementation.
type Distributor interface {
	// Generate builds a distribution using a fresh secure random source
	Generate(rateCents, capCents uint64) (Distribution, error)

	// GenerateWithSource builds a distribution from the given random source
	GenerateWithSource(rateCents, capCents uint64, src RandomSource) (Distribution, error)
}
