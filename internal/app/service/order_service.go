package service

import (
	"context"
	"errors"

	"github.com/ikkim/web-ordering-backend/internal/app/model"
	"github.com/ikkim/web-ordering-backend/internal/app/repository"
	"github.com/ikkim/web-ordering-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderService exposes placed orders to the guest session that placed them.
type OrderService interface {
	GetOrderByID(ctx context.Context, sessionID, orderID string) (*model.Order, error)
	GetSessionOrders(ctx context.Context, sessionID string) ([]model.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{
		orderRepo: orderRepo,
	}
}

func (s *orderService) GetSessionOrders(ctx context.Context, sessionID string) ([]model.Order, error) {
	orders, err := s.orderRepo.FindBySessionID(ctx, sessionID)
	if err != nil {
		logger.Error("Failed to fetch session orders", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	logger.Debug("Session orders fetched", map[string]interface{}{
		"session_id": sessionID,
		"count":      len(orders),
	})
	return orders, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, sessionID, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found", map[string]interface{}{
				"session_id": sessionID,
				"order_id":   orderID,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"session_id": sessionID,
			"order_id":   orderID,
		})
		return nil, err
	}

	// 다른 세션의 주문은 존재 여부도 드러내지 않는다
	if order.SessionID == "" || order.SessionID != sessionID {
		logger.Warn("Order access denied: session mismatch", map[string]interface{}{
			"session_id": sessionID,
			"order_id":   orderID,
		})
		return nil, ErrOrderNotFound
	}

	return order, nil
}
