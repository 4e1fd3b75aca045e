package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ikkim/web-ordering-backend/internal/app/model"
	"github.com/ikkim/web-ordering-backend/internal/app/ordering"
	"github.com/ikkim/web-ordering-backend/internal/app/repository"
	"github.com/ikkim/web-ordering-backend/pkg/logger"
	"github.com/ikkim/web-ordering-backend/pkg/metrics"
)

var (
	ErrCheckoutInProgress = errors.New("a checkout is already in progress for this session")
	ErrStoreClosed        = errors.New("the store is not accepting orders right now")
)

type CheckoutInput struct {
	Mode    string
	Name    string
	Phone   string
	Address string
	Notes   string
}

type CheckoutService interface {
	Checkout(ctx context.Context, sessionID string, input CheckoutInput) (*ordering.OrderReceipt, error)
}

type checkoutService struct {
	catalog   CatalogService
	carts     CartService
	gateway   ordering.OrderGateway
	publisher EventPublisher
	metrics   *metrics.OrderingMetrics

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewCheckoutService(
	catalog CatalogService,
	carts CartService,
	gateway ordering.OrderGateway,
	publisher EventPublisher,
	m *metrics.OrderingMetrics,
) CheckoutService {
	return &checkoutService{
		catalog:   catalog,
		carts:     carts,
		gateway:   gateway,
		publisher: publisherOrNoop(publisher),
		metrics:   m,
		inFlight:  make(map[string]struct{}),
	}
}

func (s *checkoutService) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *checkoutService) end(sessionID string) {
	s.mu.Lock()
	delete(s.inFlight, sessionID)
	s.mu.Unlock()
}

func (s *checkoutService) Checkout(ctx context.Context, sessionID string, input CheckoutInput) (*ordering.OrderReceipt, error) {
	if !s.begin(sessionID) {
		logger.Warn("Checkout rejected: already in progress", map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, ErrCheckoutInProgress
	}
	defer s.end(sessionID)

	started := time.Now()
	receipt, err := s.checkout(ctx, sessionID, input)
	s.metrics.Checkout(checkoutResult(err), time.Since(started))
	return receipt, err
}

func (s *checkoutService) checkout(ctx context.Context, sessionID string, input CheckoutInput) (*ordering.OrderReceipt, error) {
	settings, store, err := s.catalog.StoreSettings()
	if err != nil {
		return nil, err
	}
	if !store.IsOpen {
		return nil, ErrStoreClosed
	}

	// An unknown mode is left empty so the cart check still runs first.
	mode, _ := ordering.ParseServiceMode(input.Mode)
	details := ordering.CustomerDetails{
		Mode:      mode,
		Name:      input.Name,
		Phone:     input.Phone,
		Address:   input.Address,
		Notes:     input.Notes,
		SessionID: sessionID,
	}

	var (
		receipt *ordering.OrderReceipt
		cart    *CartView
	)
	err = s.carts.WithCart(ctx, sessionID, func(c *ordering.Cart) error {
		r, err := ordering.Submit(ctx, c, s.gateway, details, settings)
		if err != nil && r == nil {
			return err
		}
		if err != nil {
			logger.Warn("Order placed but cart was not cleared", map[string]interface{}{
				"session_id": sessionID,
				"order_id":   r.OrderID,
				"error":      err.Error(),
			})
		}
		receipt = r
		cart = newCartView(c)
		return nil
	})
	if err != nil {
		var subErr *ordering.SubmissionError
		if errors.As(err, &subErr) {
			logger.Error("Order submission failed", err, map[string]interface{}{
				"session_id": sessionID,
				"store_id":   settings.StoreID,
			})
		}
		return nil, err
	}

	logger.Info("Order placed", map[string]interface{}{
		"session_id":   sessionID,
		"order_id":     receipt.OrderID,
		"order_number": receipt.OrderNumber,
		"total":        receipt.Total.String(),
		"mode":         string(mode),
	})
	s.publisher.Publish(sessionID, EventOrderCompleted, receipt)
	s.publisher.Publish(sessionID, EventCartUpdated, cart)
	return receipt, nil
}

func checkoutResult(err error) string {
	var subErr *ordering.SubmissionError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &subErr):
		return "failed"
	default:
		return "rejected"
	}
}

// orderGateway writes submissions to the local orders table.
type orderGateway struct {
	orderRepo repository.OrderRepository
}

func NewOrderGateway(orderRepo repository.OrderRepository) ordering.OrderGateway {
	return &orderGateway{orderRepo: orderRepo}
}

func (g *orderGateway) CreateOrder(ctx context.Context, sub ordering.OrderSubmission) (*ordering.OrderReceipt, error) {
	order := &model.Order{
		StoreID:            sub.StoreID,
		SessionID:          sub.SessionID,
		Channel:            model.OrderChannelWeb,
		CustomerName:       sub.CustomerName,
		CustomerPhone:      sub.CustomerPhone,
		DeliveryAddress:    sub.DeliveryAddress,
		OrderType:          model.OrderType(sub.Mode),
		Notes:              sub.Notes,
		DeliveryFeeApplied: sub.DeliveryFee,
		Subtotal:           sub.Subtotal,
		TotalAmount:        sub.Total,
		Status:             model.OrderStatusPending,
		OrderItems:         make([]model.OrderItem, 0, len(sub.Items)),
	}
	for _, line := range sub.Items {
		order.OrderItems = append(order.OrderItems, model.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  line.TotalPrice,
			Options:     line.Details,
		})
	}

	if err := g.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return &ordering.OrderReceipt{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Total:       order.TotalAmount,
	}, nil
}
