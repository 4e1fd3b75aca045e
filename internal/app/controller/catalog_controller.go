package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/web-ordering-backend/internal/app/service"
	apperrors "github.com/ikkim/web-ordering-backend/internal/errors"
	"github.com/ikkim/web-ordering-backend/internal/middleware"
)

type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// GetStore returns the storefront configuration
// GET /api/v1/store
func (ctrl *CatalogController) GetStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	store, err := ctrl.catalogService.GetStore()
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.NotFound(c, apperrors.CatalogStoreNotFound, "This store is not available")
			return
		}
		log.Error("Failed to load store", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "store")
		return
	}

	c.JSON(http.StatusOK, gin.H{"store": store})
}

// GetMenu returns categories with their available products
// GET /api/v1/menu
func (ctrl *CatalogController) GetMenu(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.catalogService.GetMenu()
	if err != nil {
		log.Error("Failed to load menu", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "menu")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// GetProduct returns a single product
// GET /api/v1/products/:id
func (ctrl *CatalogController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	product, err := ctrl.catalogService.GetProduct(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.CatalogProductNotFound, "This item is no longer on the menu")
			return
		}
		log.Error("Failed to load product", err, map[string]interface{}{
			"product_id": c.Param("id"),
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product.ForDisplay()})
}
