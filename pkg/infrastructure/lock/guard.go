package lock

import (
	"context"
	"sync"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
)

// MemoryGuard admits at most one planning run per facility within one process
type MemoryGuard struct {
	mu     sync.Mutex
	active map[string]bool
}

// NewMemoryGuard creates an in-process guard
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{active: make(map[string]bool)}
}

// Acquire returns *entities.RunInProgressError when the facility is busy
func (g *MemoryGuard) Acquire(ctx context.Context, facilityID string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active[facilityID] {
		return nil, &entities.RunInProgressError{FacilityID: facilityID}
	}
	g.active[facilityID] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			delete(g.active, facilityID)
		})
	}, nil
}
