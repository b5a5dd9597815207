package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gulf-float-booking/internal/models"
)

// CartStore is the in-memory, TTL-indexed cart store. Carts are keyed by an
// opaque uuid that acts as the bearer capability; there is no other auth.
// All mutations against one cart serialize on a per-cart lock so concurrent
// updates cannot lose writes or break the subtotal invariant.
type CartStore struct {
	mu    sync.RWMutex
	carts map[string]*cartEntry
	ttl   time.Duration
	now   func() time.Time
}

type cartEntry struct {
	mu       sync.Mutex
	cart     *models.Cart
	consumed bool
}

// NewCartStore creates a cart store with the given TTL.
func NewCartStore(ttl time.Duration) *CartStore {
	return &CartStore{
		carts: make(map[string]*cartEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Create allocates a new empty cart and returns a copy of it.
func (s *CartStore) Create() *models.Cart {
	now := s.now()
	cart := &models.Cart{
		ID:        uuid.New().String(),
		Items:     []models.CartItem{},
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.carts[cart.ID] = &cartEntry{cart: cart}
	s.mu.Unlock()

	return cart.Clone()
}

// Get returns a copy of the cart. Expired carts report ErrCartExpired,
// which callers treat the same as not-found but can surface differently.
func (s *CartStore) Get(cartID string) (*models.Cart, error) {
	entry, err := s.entry(cartID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := s.check(entry); err != nil {
		return nil, err
	}
	return entry.cart.Clone(), nil
}

// AddItem appends a line item. Each add is a new line even if an identical
// service/date/time already exists, matching repeated-booking use cases.
func (s *CartStore) AddItem(cartID string, item models.CartItem) (*models.Cart, error) {
	return s.mutate(cartID, func(cart *models.Cart) error {
		cart.Items = append(cart.Items, item)
		return nil
	})
}

// UpdateQuantity sets the quantity of the item at index. A quantity of zero
// or less removes the item.
func (s *CartStore) UpdateQuantity(cartID string, index, quantity int) (*models.Cart, error) {
	return s.mutate(cartID, func(cart *models.Cart) error {
		if index < 0 || index >= len(cart.Items) {
			return models.ErrIndexOutOfRange
		}
		if quantity <= 0 {
			cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)
			return nil
		}
		cart.Items[index].Quantity = quantity
		return nil
	})
}

// RemoveItem deletes the item at index.
func (s *CartStore) RemoveItem(cartID string, index int) (*models.Cart, error) {
	return s.mutate(cartID, func(cart *models.Cart) error {
		if index < 0 || index >= len(cart.Items) {
			return models.ErrIndexOutOfRange
		}
		cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)
		return nil
	})
}

// SetCustomerInfo merges the given customer fields into the cart. Empty
// fields are left untouched.
func (s *CartStore) SetCustomerInfo(cartID string, info models.CustomerInfo) (*models.Cart, error) {
	return s.mutate(cartID, func(cart *models.Cart) error {
		cart.CustomerInfo.Merge(info)
		return nil
	})
}

// Consume atomically marks the cart as checked out and returns its final
// snapshot. A second Consume on the same cart fails with
// ErrCartAlreadyCheckedOut, which is how checkout stays at-most-once.
func (s *CartStore) Consume(cartID string) (*models.Cart, error) {
	entry, err := s.entry(cartID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.consumed {
		return nil, models.ErrCartAlreadyCheckedOut
	}
	if s.now().After(entry.cart.ExpiresAt) {
		return nil, models.ErrCartExpired
	}

	entry.consumed = true
	return entry.cart.Clone(), nil
}

// Sweep drops expired and consumed carts and returns how many were removed.
// Expiry is advisory cleanup; it never cancels in-flight checkouts.
func (s *CartStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.carts {
		entry.mu.Lock()
		gone := entry.consumed || now.After(entry.cart.ExpiresAt)
		entry.mu.Unlock()
		if gone {
			delete(s.carts, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs periodic sweeps until the context is cancelled.
func (s *CartStore) StartSweeper(ctx context.Context, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("cart sweeper started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			logger.Info("cart sweeper stopped")
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				logger.Info("expired carts removed", zap.Int("count", removed))
			}
		}
	}
}

func (s *CartStore) entry(cartID string) (*cartEntry, error) {
	s.mu.RLock()
	entry, ok := s.carts[cartID]
	s.mu.RUnlock()
	if !ok {
		return nil, models.ErrCartNotFound
	}
	return entry, nil
}

// check reports the entry's liveness; callers must hold the entry lock.
func (s *CartStore) check(entry *cartEntry) error {
	if entry.consumed {
		return models.ErrCartAlreadyCheckedOut
	}
	if s.now().After(entry.cart.ExpiresAt) {
		return models.ErrCartExpired
	}
	return nil
}

func (s *CartStore) mutate(cartID string, fn func(*models.Cart) error) (*models.Cart, error) {
	entry, err := s.entry(cartID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := s.check(entry); err != nil {
		return nil, err
	}
	if err := fn(entry.cart); err != nil {
		return nil, err
	}
	entry.cart.RecomputeSubtotal()
	return entry.cart.Clone(), nil
}

// SetClock overrides the store's time source. Used by tests to simulate
// expiry without sleeping.
func (s *CartStore) SetClock(now func() time.Time) {
	s.now = now
}
