package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/web-ordering-backend/internal/app/service"
	apperrors "github.com/ikkim/web-ordering-backend/internal/errors"
	"github.com/ikkim/web-ordering-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,max=999"`
}

// GetCart returns the session's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	cart, err := ctrl.cartService.GetCart(c.Request.Context(), sid)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"session_id": sid,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "load cart")
		return
	}

	c.JSON(http.StatusOK, cart)
}

// UpdateCartItem sets a line quantity; 0 removes the line
// PUT /api/v1/cart/items/:key
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"session_id": sid,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.CartInvalidQuantity, fmt.Sprintf("quantity is required (at most %d)", service.MaxQuantity))
		return
	}

	cart, err := ctrl.cartService.UpdateQuantity(c.Request.Context(), sid, c.Param("key"), *req.Quantity)
	if err != nil {
		respondCartError(c, sid, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// RemoveCartItem removes a line
// DELETE /api/v1/cart/items/:key
func (ctrl *CartController) RemoveCartItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	cart, err := ctrl.cartService.RemoveItem(c.Request.Context(), sid, c.Param("key"))
	if err != nil {
		respondCartError(c, sid, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	cart, err := ctrl.cartService.ClearCart(c.Request.Context(), sid)
	if err != nil {
		respondCartError(c, sid, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

func respondCartError(c *gin.Context, sid string, err error) {
	switch {
	case errors.Is(err, service.ErrCartItemNotFound):
		apperrors.NotFound(c, apperrors.ResourceNotFound, "That item is no longer in your cart")
		return
	case errors.Is(err, service.ErrQuantityTooLarge):
		apperrors.BadRequest(c, apperrors.CartInvalidQuantity, fmt.Sprintf("You can order at most %d of an item", service.MaxQuantity))
		return
	}
	middleware.GetLoggerFromContext(c).Error("Cart update failed", err, map[string]interface{}{
		"session_id": sid,
	})
	apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.CartSaveFailed, "We could not update your cart. Please try again")
}
