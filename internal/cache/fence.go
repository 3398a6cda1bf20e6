package cache

import (
	"context"
	"sync"
)

// Fence keeps a read-through fill from storing a value that a concurrent
// write already replaced. Readers take a Snapshot before loading the value
// and store it with SetIfCurrent; writers call Advance after the write is
// committed and then delete the key.
type Fence struct {
	mu  sync.Mutex
	gen uint64
}

// Snapshot returns the current write generation.
func (f *Fence) Snapshot() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gen
}

// Advance marks that a write has been committed. Fills started before it
// are dropped.
func (f *Fence) Advance() {
	f.mu.Lock()
	f.gen++
	f.mu.Unlock()
}

// SetIfCurrent stores value only when no write was committed since gen was
// taken. It reports whether the value was stored.
func (f *Fence) SetIfCurrent(ctx context.Context, s Store, gen uint64, key string, value interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gen != gen {
		return false, nil
	}
	if err := s.Set(ctx, key, value); err != nil {
		return false, err
	}
	return true, nil
}
