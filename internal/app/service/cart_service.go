package service

import (
	"context"
	"errors"
	"sync"

	"github.com/ikkim/web-ordering-backend/internal/app/ordering"
	"github.com/ikkim/web-ordering-backend/internal/app/repository"
	"github.com/ikkim/web-ordering-backend/pkg/logger"
	"github.com/ikkim/web-ordering-backend/pkg/metrics"
)

// MaxQuantity caps a single cart line.
const MaxQuantity = 999

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrQuantityTooLarge = errors.New("quantity exceeds the per-item limit")
)

type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*CartView, error)
	AddSelection(ctx context.Context, sessionID string, sel ordering.FinalizedSelection) (*CartView, error)
	UpdateQuantity(ctx context.Context, sessionID, key string, quantity int) (*CartView, error)
	RemoveItem(ctx context.Context, sessionID, key string) (*CartView, error)
	ClearCart(ctx context.Context, sessionID string) (*CartView, error)
	DeleteCart(ctx context.Context, sessionID string) error
	// WithCart runs fn with exclusive access to the session's cart. Every
	// mutation fn makes is saved through the repository.
	WithCart(ctx context.Context, sessionID string, fn func(cart *ordering.Cart) error) error
}

type cartService struct {
	cartRepo  repository.CartRepository
	publisher EventPublisher
	metrics   *metrics.OrderingMetrics

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewCartService(
	cartRepo repository.CartRepository,
	publisher EventPublisher,
	m *metrics.OrderingMetrics,
) CartService {
	return &cartService{
		cartRepo:  cartRepo,
		publisher: publisherOrNoop(publisher),
		metrics:   m,
		locks:     make(map[string]*sessionLock),
	}
}

// lock serializes cart access per session. The entry is dropped once no
// caller holds or waits for it.
func (s *cartService) lock(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.mu.Unlock()
	}
}

func (s *cartService) WithCart(ctx context.Context, sessionID string, fn func(cart *ordering.Cart) error) error {
	unlock := s.lock(sessionID)
	defer unlock()

	state, err := s.cartRepo.Load(ctx, sessionID)
	if err != nil {
		logger.Error("Failed to load cart", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}

	cart := ordering.NewCart(state, func(next ordering.CartState) error {
		return s.cartRepo.Save(ctx, sessionID, next)
	})
	return fn(cart)
}

func (s *cartService) GetCart(ctx context.Context, sessionID string) (*CartView, error) {
	var view *CartView
	err := s.WithCart(ctx, sessionID, func(cart *ordering.Cart) error {
		view = newCartView(cart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *cartService) AddSelection(ctx context.Context, sessionID string, sel ordering.FinalizedSelection) (*CartView, error) {
	logger.Info("Adding selection to cart", map[string]interface{}{
		"session_id": sessionID,
		"product_id": sel.ProductID,
		"quantity":   sel.Quantity,
	})

	if sel.Quantity > MaxQuantity {
		return nil, ErrQuantityTooLarge
	}

	return s.mutate(ctx, sessionID, "add", func(cart *ordering.Cart) error {
		if existing, ok := cart.Find(ordering.IdentityKey(sel)); ok && existing.Quantity+sel.Quantity > MaxQuantity {
			return ErrQuantityTooLarge
		}
		item, err := cart.AddItem(sel)
		if err != nil {
			return err
		}
		logger.Debug("Cart line updated", map[string]interface{}{
			"session_id": sessionID,
			"key":        item.Key,
			"quantity":   item.Quantity,
		})
		return nil
	})
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *cartService) UpdateQuantity(ctx context.Context, sessionID, key string, quantity int) (*CartView, error) {
	if quantity > MaxQuantity {
		return nil, ErrQuantityTooLarge
	}

	return s.mutate(ctx, sessionID, "update_quantity", func(cart *ordering.Cart) error {
		// 0 이하는 삭제와 같으므로 없는 항목이어도 에러가 아님
		if quantity <= 0 {
			return cart.RemoveItem(key)
		}
		if _, ok := cart.Find(key); !ok {
			return ErrCartItemNotFound
		}
		return cart.UpdateQuantity(key, quantity)
	})
}

// RemoveItem is idempotent: removing a missing line returns the cart unchanged.
func (s *cartService) RemoveItem(ctx context.Context, sessionID, key string) (*CartView, error) {
	return s.mutate(ctx, sessionID, "remove", func(cart *ordering.Cart) error {
		return cart.RemoveItem(key)
	})
}

func (s *cartService) ClearCart(ctx context.Context, sessionID string) (*CartView, error) {
	return s.mutate(ctx, sessionID, "clear", func(cart *ordering.Cart) error {
		return cart.Clear()
	})
}

// DeleteCart drops the stored cart when a session ends.
func (s *cartService) DeleteCart(ctx context.Context, sessionID string) error {
	unlock := s.lock(sessionID)
	defer unlock()

	if err := s.cartRepo.Delete(ctx, sessionID); err != nil {
		logger.Error("Failed to delete cart", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}
	return nil
}

func (s *cartService) mutate(ctx context.Context, sessionID, operation string, fn func(cart *ordering.Cart) error) (*CartView, error) {
	var view *CartView
	err := s.WithCart(ctx, sessionID, func(cart *ordering.Cart) error {
		if err := fn(cart); err != nil {
			return err
		}
		view = newCartView(cart)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCartItemNotFound) || errors.Is(err, ErrQuantityTooLarge) {
			logger.Warn("Cart mutation rejected", map[string]interface{}{
				"session_id": sessionID,
				"operation":  operation,
				"error":      err.Error(),
			})
		} else {
			logger.Error("Cart mutation failed", err, map[string]interface{}{
				"session_id": sessionID,
				"operation":  operation,
			})
		}
		return nil, err
	}

	s.metrics.CartMutation(operation)
	s.publisher.Publish(sessionID, EventCartUpdated, view)
	return view, nil
}
