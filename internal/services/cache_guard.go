package services

import "sync"

// fillGuard orders cache fills against invalidations. A fill carries the
// generation it read before loading and is dropped when an invalidation
// has happened since.
type fillGuard struct {
	mu         sync.Mutex
	generation uint64
}

func (g *fillGuard) current() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generation
}

// fill runs store under the guard lock when generation is still current.
func (g *fillGuard) fill(generation uint64, store func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.generation != generation {
		return nil
	}
	return store()
}

func (g *fillGuard) invalidate(drop func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.generation++
	drop()
}
