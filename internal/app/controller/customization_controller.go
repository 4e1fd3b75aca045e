package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/web-ordering-backend/internal/app/ordering"
	"github.com/ikkim/web-ordering-backend/internal/app/service"
	apperrors "github.com/ikkim/web-ordering-backend/internal/errors"
	"github.com/ikkim/web-ordering-backend/internal/middleware"
)

type CustomizationController struct {
	customizationService service.CustomizationService
}

func NewCustomizationController(customizationService service.CustomizationService) *CustomizationController {
	return &CustomizationController{
		customizationService: customizationService,
	}
}

type OpenCustomizationRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// OpenCustomization starts customizing a product
// POST /api/v1/customizations
func (ctrl *CustomizationController) OpenCustomization(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var req OpenCustomizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid open customization request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "product_id is required")
		return
	}

	view, err := ctrl.customizationService.Open(c.Request.Context(), sid, req.ProductID)
	if err != nil {
		respondSelectionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// GetCustomization returns the live selection
// GET /api/v1/customizations/:id
func (ctrl *CustomizationController) GetCustomization(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	view, err := ctrl.customizationService.Get(sid, c.Param("id"))
	if err != nil {
		respondSelectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// ApplyAction applies one selection action
// POST /api/v1/customizations/:id/actions
func (ctrl *CustomizationController) ApplyAction(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	var action ordering.Action
	if err := c.ShouldBindJSON(&action); err != nil || action.Type == "" {
		log.Warn("Invalid selection action", map[string]interface{}{
			"customization_id": c.Param("id"),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A valid action is required")
		return
	}

	view, err := ctrl.customizationService.Apply(sid, c.Param("id"), action)
	if err != nil {
		respondSelectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// ConfirmCustomization adds the selection to the cart
// POST /api/v1/customizations/:id/confirm
func (ctrl *CustomizationController) ConfirmCustomization(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	cart, err := ctrl.customizationService.Confirm(c.Request.Context(), sid, c.Param("id"))
	if err != nil {
		respondSelectionError(c, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// AbandonCustomization discards the selection
// DELETE /api/v1/customizations/:id
func (ctrl *CustomizationController) AbandonCustomization(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}

	if err := ctrl.customizationService.Abandon(sid, c.Param("id")); err != nil {
		respondSelectionError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondSelectionError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	var incomplete *ordering.IncompleteSelectionError
	switch {
	case errors.As(err, &incomplete):
		apperrors.RespondWithIncompleteSelection(c, incomplete.GroupIDs)
	case errors.Is(err, service.ErrCustomizationNotFound):
		apperrors.NotFound(c, apperrors.SelectionNotFound, "This customization has expired. Please start again")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.CatalogProductNotFound, "This item is no longer on the menu")
	case errors.Is(err, ordering.ErrProductUnavailable):
		apperrors.Conflict(c, apperrors.CatalogProductUnavailable, "This item is sold out")
	case errors.Is(err, ordering.ErrSelectionClosed):
		apperrors.Conflict(c, apperrors.SelectionClosed, "This customization is already closed")
	case errors.Is(err, ordering.ErrUnknownVariation):
		apperrors.BadRequest(c, apperrors.SelectionUnknownVariation, "That size is not offered for this item")
	case errors.Is(err, ordering.ErrUnknownOptionGroup), errors.Is(err, ordering.ErrUnknownOptionItem):
		apperrors.BadRequest(c, apperrors.SelectionUnknownOption, "That option is not offered for this item")
	case errors.Is(err, ordering.ErrOptionUnavailable):
		apperrors.Conflict(c, apperrors.SelectionOptionUnavailable, "That option is sold out")
	case errors.Is(err, ordering.ErrSingleChoiceGroup), errors.Is(err, ordering.ErrMultiChoiceGroup):
		apperrors.BadRequest(c, apperrors.SelectionWrongGroupMode, err.Error())
	case errors.Is(err, service.ErrQuantityTooLarge):
		apperrors.BadRequest(c, apperrors.CartInvalidQuantity, fmt.Sprintf("You can order at most %d of an item", service.MaxQuantity))
	case errors.Is(err, ordering.ErrUnknownAction):
		apperrors.BadRequest(c, apperrors.SelectionUnknownAction, "Unknown action")
	default:
		log.Error("Customization request failed", err, map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.CartSaveFailed, "We could not update your order. Please try again")
	}
}
