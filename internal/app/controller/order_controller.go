package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/web-ordering-backend/internal/app/service"
	apperrors "github.com/ikkim/web-ordering-backend/internal/errors"
	"github.com/ikkim/web-ordering-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

// ListOrders returns the orders placed by the current session
// GET /api/v1/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.GetSessionOrders(c.Request.Context(), sid)
	if err != nil {
		log.Error("Failed to list orders", err, map[string]interface{}{
			"session_id": sid,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrderByID returns one order for the confirmation page
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrderByID(c.Request.Context(), sid, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Order not found")
			return
		}
		log.Error("Failed to load order", err, map[string]interface{}{
			"session_id": sid,
			"order_id":   c.Param("id"),
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "order")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}
