package controller

import (
	"net/http"
	"testing"

	"github.com/ikkim/web-ordering-backend/internal/app/model"
	apperrors "github.com/ikkim/web-ordering-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogController_GetMenu(t *testing.T) {
	srv := setupControllerTest(t)

	w := srv.do(t, http.MethodGet, "/api/v1/menu", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Categories []model.Category `json:"categories"`
		Count      int              `json:"count"`
	}
	decode(t, w, &resp)
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, "Burgers", resp.Categories[0].Name)
	require.Len(t, resp.Categories[0].Products, 1)
	assert.Len(t, resp.Categories[0].Products[0].OptionGroups, 2)
}

func TestCatalogController_GetProduct(t *testing.T) {
	srv := setupControllerTest(t)

	w := srv.do(t, http.MethodGet, "/api/v1/products/"+srv.products["Fries"].ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Product model.Product `json:"product"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "Fries", resp.Product.Name)
	assert.Equal(t, "12", resp.Product.Price.String())

	w = srv.do(t, http.MethodGet, "/api/v1/products/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.CatalogProductNotFound, errorCode(t, w))
}

func TestCatalogController_GetStore(t *testing.T) {
	srv := setupControllerTest(t)

	w := srv.do(t, http.MethodGet, "/api/v1/store", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Store model.Store `json:"store"`
	}
	decode(t, w, &resp)
	assert.Equal(t, srv.store.ID, resp.Store.ID)
	assert.Equal(t, "15", resp.Store.DeliveryFee.String())
	assert.NotEmpty(t, resp.Store.PrimaryColor)
}

func TestCatalogController_DatabaseUnavailable(t *testing.T) {
	srv := setupControllerTest(t)
	sqlDB, err := srv.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := srv.do(t, http.MethodGet, "/api/v1/menu", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp apperrors.ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, apperrors.InternalDatabaseError, resp.Error)
	assert.Equal(t, "The menu could not be loaded. Please try again", resp.Message)

	w = srv.do(t, http.MethodGet, "/api/v1/products/"+srv.products["Fries"].ID, "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperrors.InternalDatabaseError, errorCode(t, w))

	w = srv.do(t, http.MethodGet, "/api/v1/store", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperrors.InternalDatabaseError, errorCode(t, w))
}
