package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps revoked ids in process memory. Expired entries are
// dropped lazily on lookup and on each Revoke.
type MemoryRepository struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{expires: make(map[string]time.Time), now: time.Now}
}

func (r *MemoryRepository) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for k, exp := range r.expires {
		if !now.Before(exp) {
			delete(r.expires, k)
		}
	}
	r.expires[jti] = now.Add(ttl)
	return nil
}

func (r *MemoryRepository) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp, ok := r.expires[jti]
	if !ok {
		return false, nil
	}
	if !r.now().Before(exp) {
		delete(r.expires, jti)
		return false, nil
	}
	return true, nil
}
