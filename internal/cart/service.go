package cart

import (
	"context"
	"time"
)

// Service applies cart transitions for a session. Every mutation runs while
// holding the session's lock, so concurrent requests cannot lose updates.
type Service struct {
	store       Store
	locker      Locker
	lockTimeout time.Duration
}

func NewService(store Store, locker Locker, lockTimeout time.Duration) *Service {
	return &Service{store: store, locker: locker, lockTimeout: lockTimeout}
}

func (s *Service) Get(ctx context.Context, sessionID string) (Cart, error) {
	return s.store.Load(ctx, sessionID)
}

func (s *Service) Add(ctx context.Context, sessionID string, item Item) (Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		return c.Add(item)
	})
}

func (s *Service) Remove(ctx context.Context, sessionID string, bookID int64) (Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		c.Remove(bookID)
		return nil
	})
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	_, err := s.mutate(ctx, sessionID, func(c *Cart) error {
		c.Clear()
		return nil
	})
	return err
}

func (s *Service) mutate(ctx context.Context, sessionID string, fn func(*Cart) error) (Cart, error) {
	lockCtx := ctx
	if s.lockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, s.lockTimeout)
		defer cancel()
	}
	unlock, err := s.locker.Lock(lockCtx, sessionID)
	if err != nil {
		return Cart{}, err
	}
	defer unlock()

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return Cart{}, err
	}
	if err := fn(&c); err != nil {
		return Cart{}, err
	}
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}
