package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/web-ordering-backend/internal/app/ordering"
	"github.com/ikkim/web-ordering-backend/internal/app/service"
	apperrors "github.com/ikkim/web-ordering-backend/internal/errors"
	"github.com/ikkim/web-ordering-backend/internal/middleware"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

type CheckoutRequest struct {
	Mode    string `json:"mode"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// Checkout places the order for the session's cart
// POST /api/v1/checkout
func (ctrl *CheckoutController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"session_id": sid,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid checkout form")
		return
	}

	receipt, err := ctrl.checkoutService.Checkout(c.Request.Context(), sid, service.CheckoutInput{
		Mode:    req.Mode,
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	log.Info("Checkout completed", map[string]interface{}{
		"session_id": sid,
		"order_id":   receipt.OrderID,
	})
	c.JSON(http.StatusCreated, receipt)
}

func respondCheckoutError(c *gin.Context, err error) {
	var subErr *ordering.SubmissionError
	switch {
	case errors.Is(err, ordering.ErrEmptyCart):
		apperrors.BadRequest(c, apperrors.CheckoutEmptyCart, err.Error())
	case errors.Is(err, ordering.ErrInvalidMode):
		apperrors.BadRequest(c, apperrors.CheckoutInvalidMode, err.Error())
	case errors.Is(err, ordering.ErrNameRequired):
		apperrors.BadRequest(c, apperrors.CheckoutNameRequired, err.Error())
	case errors.Is(err, ordering.ErrPhoneRequired):
		apperrors.BadRequest(c, apperrors.CheckoutPhoneRequired, err.Error())
	case errors.Is(err, ordering.ErrAddressRequired):
		apperrors.BadRequest(c, apperrors.CheckoutAddressRequired, err.Error())
	case errors.Is(err, service.ErrCheckoutInProgress):
		apperrors.Conflict(c, apperrors.CheckoutInProgress, "Your order is already being placed")
	case errors.Is(err, service.ErrStoreClosed):
		apperrors.Conflict(c, apperrors.CatalogStoreClosed, err.Error())
	case errors.Is(err, service.ErrStoreNotFound):
		apperrors.NotFound(c, apperrors.CatalogStoreNotFound, "This store is not available")
	case errors.As(err, &subErr):
		// 주문 서버 메시지를 그대로 전달
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.CheckoutSubmissionFailed, subErr.Error())
	default:
		middleware.GetLoggerFromContext(c).Error("Checkout failed", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "order")
	}
}
