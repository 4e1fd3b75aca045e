package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/web-ordering-backend/internal/app/ordering"
	"github.com/ikkim/web-ordering-backend/pkg/logger"
	"github.com/ikkim/web-ordering-backend/pkg/metrics"
)

var (
	ErrCustomizationNotFound = errors.New("customization not found")
)

// CustomizationService keeps one Selection per open product customization.
// Sessions live in memory and are swept after the configured TTL.
type CustomizationService interface {
	Open(ctx context.Context, sessionID, productID string) (*SelectionView, error)
	Get(sessionID, id string) (*SelectionView, error)
	Apply(sessionID, id string, action ordering.Action) (*SelectionView, error)
	Confirm(ctx context.Context, sessionID, id string) (*CartView, error)
	Abandon(sessionID, id string) error
	Sweep(maxAge time.Duration) int
	Active() int
}

type customization struct {
	mu        sync.Mutex
	sessionID string
	sel       *ordering.Selection
	touchedAt time.Time
	// 확정됐지만 아직 장바구니에 담기지 못한 선택
	pending *ordering.FinalizedSelection
}

type customizationService struct {
	catalog   CatalogService
	carts     CartService
	publisher EventPublisher
	metrics   *metrics.OrderingMetrics
	ttl       time.Duration
	now       func() time.Time

	mu      sync.Mutex
	entries map[string]*customization
}

func NewCustomizationService(
	catalog CatalogService,
	carts CartService,
	publisher EventPublisher,
	m *metrics.OrderingMetrics,
	ttl time.Duration,
) CustomizationService {
	return &customizationService{
		catalog:   catalog,
		carts:     carts,
		publisher: publisherOrNoop(publisher),
		metrics:   m,
		ttl:       ttl,
		now:       time.Now,
		entries:   make(map[string]*customization),
	}
}

func (s *customizationService) Open(ctx context.Context, sessionID, productID string) (*SelectionView, error) {
	product, err := s.catalog.GetProduct(productID)
	if err != nil {
		return nil, err
	}

	sel, err := ordering.NewSelection(*product)
	if err != nil {
		logger.Warn("Cannot customize product", map[string]interface{}{
			"session_id": sessionID,
			"product_id": productID,
			"error":      err.Error(),
		})
		return nil, err
	}

	id := uuid.NewString()
	entry := &customization{sessionID: sessionID, sel: sel, touchedAt: s.now()}

	s.mu.Lock()
	s.entries[id] = entry
	s.mu.Unlock()

	s.metrics.CustomizationOpened()
	logger.Info("Customization opened", map[string]interface{}{
		"session_id":       sessionID,
		"customization_id": id,
		"product_id":       productID,
	})
	return s.view(id, entry), nil
}

// lookup returns the entry locked. Entries of other sessions are reported as
// not found.
func (s *customizationService) lookup(sessionID, id string) (*customization, error) {
	s.mu.Lock()
	entry, ok := s.entries[id]
	s.mu.Unlock()
	if !ok || entry.sessionID != sessionID {
		return nil, ErrCustomizationNotFound
	}
	entry.mu.Lock()
	return entry, nil
}

func (s *customizationService) view(id string, entry *customization) *SelectionView {
	return newSelectionView(id, entry.sel, entry.touchedAt.Add(s.ttl))
}

func (s *customizationService) Get(sessionID, id string) (*SelectionView, error) {
	entry, err := s.lookup(sessionID, id)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()
	return s.view(id, entry), nil
}

func (s *customizationService) Apply(sessionID, id string, action ordering.Action) (*SelectionView, error) {
	if action.Type == ordering.ActionSetQuantity && action.Quantity > MaxQuantity {
		return nil, ErrQuantityTooLarge
	}

	entry, err := s.lookup(sessionID, id)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()

	if err := entry.sel.Apply(action); err != nil {
		logger.Debug("Selection action rejected", map[string]interface{}{
			"customization_id": id,
			"action":           string(action.Type),
			"error":            err.Error(),
		})
		return nil, err
	}
	entry.touchedAt = s.now()

	view := s.view(id, entry)
	s.publisher.Publish(sessionID, EventSelectionUpdated, view)
	return view, nil
}

// Confirm finalizes the selection and adds it to the session's cart. An
// incomplete selection stays open. When the cart write fails the finalized
// selection is kept and confirming again retries the add.
func (s *customizationService) Confirm(ctx context.Context, sessionID, id string) (*CartView, error) {
	entry, err := s.lookup(sessionID, id)
	if err != nil {
		return nil, err
	}
	// 재시도가 중복으로 담기지 않도록 장바구니 저장까지 잠금 유지
	defer entry.mu.Unlock()

	if entry.pending == nil {
		finalized, err := entry.sel.Confirm()
		if err != nil {
			return nil, err
		}
		entry.pending = &finalized
		entry.touchedAt = s.now()

		s.metrics.CustomizationClosed("confirmed")
		s.publisher.Publish(sessionID, EventSelectionClosed, s.view(id, entry))
	}
	finalized := *entry.pending

	cart, err := s.carts.AddSelection(ctx, sessionID, finalized)
	if err != nil {
		logger.Warn("Confirmed selection not added to cart, kept for retry", map[string]interface{}{
			"session_id":       sessionID,
			"customization_id": id,
			"product_id":       finalized.ProductID,
			"quantity":         finalized.Quantity,
			"unit_price":       finalized.UnitPrice.String(),
			"error":            err.Error(),
		})
		return nil, err
	}
	entry.pending = nil

	logger.Info("Customization confirmed", map[string]interface{}{
		"session_id":       sessionID,
		"customization_id": id,
		"product_id":       finalized.ProductID,
		"unit_price":       finalized.UnitPrice.String(),
	})
	return cart, nil
}

func (s *customizationService) Abandon(sessionID, id string) error {
	entry, err := s.lookup(sessionID, id)
	if err != nil {
		return err
	}
	err = entry.sel.Abandon()
	view := s.view(id, entry)
	entry.mu.Unlock()
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()

	s.metrics.CustomizationClosed("abandoned")
	s.publisher.Publish(sessionID, EventSelectionClosed, view)
	return nil
}

// Sweep drops customizations idle for longer than maxAge. Open ones are
// abandoned first. It returns the number of entries removed.
func (s *customizationService) Sweep(maxAge time.Duration) int {
	cutoff := s.now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.entries {
		entry.mu.Lock()
		stale := entry.touchedAt.Before(cutoff)
		if stale && entry.sel.State() == ordering.StateEditing {
			if err := entry.sel.Abandon(); err == nil {
				s.metrics.CustomizationClosed("expired")
			}
		}
		if stale && entry.pending != nil {
			logger.Warn("Dropping confirmed selection never added to cart", map[string]interface{}{
				"session_id":       entry.sessionID,
				"customization_id": id,
				"product_id":       entry.pending.ProductID,
				"quantity":         entry.pending.Quantity,
			})
		}
		entry.mu.Unlock()
		if stale {
			delete(s.entries, id)
			removed++
		}
	}

	if removed > 0 {
		logger.Info("Expired customizations swept", map[string]interface{}{
			"removed":   removed,
			"remaining": len(s.entries),
		})
	}
	return removed
}

func (s *customizationService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
