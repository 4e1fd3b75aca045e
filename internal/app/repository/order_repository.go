package repository

import (
	"context"
	"fmt"

	"github.com/ikkim/web-ordering-backend/internal/app/model"
	"github.com/ikkim/web-ordering-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindBySessionID(ctx context.Context, sessionID string) ([]model.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order with its items and assigns the next per-store
// order number in the same transaction. The store's counter row is updated
// first, so concurrent orders for one store wait on its row lock.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"store_id":     order.StoreID,
		"order_type":   order.OrderType,
		"total_amount": order.TotalAmount.String(),
		"item_count":   len(order.OrderItems),
	})

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Store{}).
			Where("id = ?", order.StoreID).
			UpdateColumn("last_order_number", gorm.Expr("last_order_number + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("store %s: %w", order.StoreID, gorm.ErrRecordNotFound)
		}

		var next int
		if err := tx.Model(&model.Store{}).
			Where("id = ?", order.StoreID).
			Select("last_order_number").
			Scan(&next).Error; err != nil {
			return err
		}
		order.OrderNumber = next
		return tx.Create(order).Error
	})
	if err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"store_id":     order.StoreID,
			"total_amount": order.TotalAmount.String(),
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"store_id":     order.StoreID,
	})
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.db.WithContext(ctx).Preload("OrderItems").Where("id = ?", id).First(&order).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
				"order_id": id,
			})
		}
		return nil, err
	}
	return &order, nil
}

// FindBySessionID lists a guest session's orders, newest first.
func (r *orderRepository) FindBySessionID(ctx context.Context, sessionID string) ([]model.Order, error) {
	logger.Debug("Finding orders by session ID in database", map[string]interface{}{
		"session_id": sessionID,
	})

	var orders []model.Order
	err := r.db.WithContext(ctx).Preload("OrderItems").
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders by session ID in database", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}
	return orders, nil
}
