package distribution

import (
	"math/rand/v2"
	"sync"
)

// Source draws uniform integers in [0, n). Implementations must be safe for
// concurrent use when shared by an HTTP server.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

// GlobalSource returns a Source backed by the process-wide math/rand/v2 generator.
func GlobalSource() Source {
	return globalSource{}
}

func (globalSource) IntN(n int) int {
	return rand.IntN(n)
}

type seededSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSource returns a reproducible Source seeded with seed.
func NewSource(seed uint64) Source {
	return &seededSource{
		rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (s *seededSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.IntN(n)
}
