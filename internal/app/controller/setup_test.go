package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/web-ordering-backend/config"
	"github.com/ikkim/web-ordering-backend/internal/app/model"
	"github.com/ikkim/web-ordering-backend/internal/app/ordering"
	"github.com/ikkim/web-ordering-backend/internal/app/repository"
	"github.com/ikkim/web-ordering-backend/internal/app/service"
	"github.com/ikkim/web-ordering-backend/internal/db"
	"github.com/ikkim/web-ordering-backend/internal/middleware"
	ws "github.com/ikkim/web-ordering-backend/internal/websocket"
	"github.com/ikkim/web-ordering-backend/pkg/logger"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "controller-test-secret"

type testServer struct {
	router   *gin.Engine
	db       *gorm.DB
	store    *model.Store
	products map[string]model.Product
	hub      *ws.Hub
	carts    service.CartService
}

type serverOption func(*serverOptions)

type serverOptions struct {
	gateway ordering.OrderGateway
}

func withGateway(g ordering.OrderGateway) serverOption {
	return func(o *serverOptions) { o.gateway = g }
}

func setupControllerTest(t *testing.T, opts ...serverOption) *testServer {
	logger.Initialize(logger.Config{Level: "error", Format: "json", Output: io.Discard})

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	store, err := db.SeedTestStore(testDB, 15)
	require.NoError(t, err)
	products, err := db.SeedTestMenu(testDB, "brand-1")
	require.NoError(t, err)

	hub := ws.NewHub()
	go hub.Run()

	catalog := service.NewCatalogService(
		repository.NewProductRepository(testDB),
		repository.NewStoreRepository(testDB),
		store.ID,
		"brand-1",
	)
	carts := service.NewCartService(repository.NewCartRepository(testDB), hub, nil)
	customizations := service.NewCustomizationService(catalog, carts, hub, nil, 30*time.Minute)

	o := &serverOptions{gateway: service.NewOrderGateway(repository.NewOrderRepository(testDB))}
	for _, opt := range opts {
		opt(o)
	}
	checkout := service.NewCheckoutService(catalog, carts, o.gateway, hub, nil)
	orders := service.NewOrderService(repository.NewOrderRepository(testDB))
	sessions := service.NewSessionService(&config.SessionConfig{Secret: testSecret, TokenExpiry: time.Hour}, carts, nil)

	hub.SetHandler(func(sessionID string, msg ws.ClientMessage) error {
		_, err := customizations.Apply(sessionID, msg.CustomizationID, msg.Action)
		return err
	})

	sessionCtrl := NewSessionController(sessions)
	catalogCtrl := NewCatalogController(catalog)
	customizationCtrl := NewCustomizationController(customizations)
	cartCtrl := NewCartController(carts)
	checkoutCtrl := NewCheckoutController(checkout)
	orderCtrl := NewOrderController(orders)
	eventsCtrl := NewEventsController(hub, []string{"*"})
	requireSession := middleware.NewSessionMiddleware(testSecret, nil).RequireSession()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.LoggingMiddleware())

	v1 := router.Group("/api/v1")
	v1.POST("/sessions", sessionCtrl.StartSession)
	v1.GET("/store", catalogCtrl.GetStore)
	v1.GET("/menu", catalogCtrl.GetMenu)
	v1.GET("/products/:id", catalogCtrl.GetProduct)

	s := v1.Group("", requireSession)
	s.DELETE("/sessions/current", sessionCtrl.EndSession)
	s.POST("/customizations", customizationCtrl.OpenCustomization)
	s.GET("/customizations/:id", customizationCtrl.GetCustomization)
	s.POST("/customizations/:id/actions", customizationCtrl.ApplyAction)
	s.POST("/customizations/:id/confirm", customizationCtrl.ConfirmCustomization)
	s.DELETE("/customizations/:id", customizationCtrl.AbandonCustomization)
	s.GET("/cart", cartCtrl.GetCart)
	s.DELETE("/cart", cartCtrl.ClearCart)
	s.PUT("/cart/items/:key", cartCtrl.UpdateCartItem)
	s.DELETE("/cart/items/:key", cartCtrl.RemoveCartItem)
	s.POST("/checkout", checkoutCtrl.Checkout)
	s.GET("/orders", orderCtrl.ListOrders)
	s.GET("/orders/:id", orderCtrl.GetOrderByID)
	s.GET("/events", eventsCtrl.Connect)

	return &testServer{
		router:   router,
		db:       testDB,
		store:    store,
		products: products,
		hub:      hub,
		carts:    carts,
	}
}

// do sends a JSON request with an optional session token.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) startSession(t *testing.T) (token, sessionID string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/sessions", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Token     string `json:"token"`
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token, resp.SessionID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]interface{}
	decode(t, w, &resp)
	code, _ := resp["error"].(string)
	return code
}

// addBurger customizes and confirms a brioche burger.
func (s *testServer) addBurger(t *testing.T, token string, quantity int) service.CartView {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/customizations", token, gin.H{"product_id": s.products["Classic Burger"].ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var view service.SelectionView
	decode(t, w, &view)

	for _, action := range []ordering.Action{
		{Type: ordering.ActionSetOption, GroupID: "bread", ItemID: "brioche"},
		{Type: ordering.ActionSetQuantity, Quantity: quantity},
	} {
		w = s.do(t, http.MethodPost, "/api/v1/customizations/"+view.ID+"/actions", token, action)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodPost, "/api/v1/customizations/"+view.ID+"/confirm", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cart service.CartView
	decode(t, w, &cart)
	return cart
}
