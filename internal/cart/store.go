package cart

import (
	"context"
	"sync"
	"time"
)

// Store persists carts by session id. A missing or expired cart loads as empty.
type Store interface {
	Load(ctx context.Context, sessionID string) (Cart, error)
	Save(ctx context.Context, sessionID string, c Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	cart    Cart
	expires time.Time
}

// MemoryStore keeps carts in process. It serves single-instance deployments.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *MemoryStore) Load(ctx context.Context, sessionID string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.carts[sessionID]
	if !ok {
		return Cart{}, nil
	}
	if s.ttl > 0 && s.now().After(e.expires) {
		delete(s.carts, sessionID)
		return Cart{}, nil
	}
	return copyCart(e.cart), nil
}

func (s *MemoryStore) Save(ctx context.Context, sessionID string, c Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(c.Items) == 0 {
		delete(s.carts, sessionID)
		return nil
	}
	s.carts[sessionID] = memoryEntry{cart: copyCart(c), expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

func copyCart(c Cart) Cart {
	if c.Items == nil {
		return Cart{}
	}
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}
