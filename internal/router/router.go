package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/web-ordering-backend/config"
	"github.com/ikkim/web-ordering-backend/internal/app/controller"
	"github.com/ikkim/web-ordering-backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	sessionController       *controller.SessionController
	catalogController       *controller.CatalogController
	customizationController *controller.CustomizationController
	cartController          *controller.CartController
	checkoutController      *controller.CheckoutController
	orderController         *controller.OrderController
	eventsController        *controller.EventsController
	sessionMiddleware       *middleware.SessionMiddleware
	gatherer                prometheus.Gatherer
	config                  *config.Config
}

func NewRouter(
	sessionController *controller.SessionController,
	catalogController *controller.CatalogController,
	customizationController *controller.CustomizationController,
	cartController *controller.CartController,
	checkoutController *controller.CheckoutController,
	orderController *controller.OrderController,
	eventsController *controller.EventsController,
	sessionMiddleware *middleware.SessionMiddleware,
	gatherer prometheus.Gatherer,
	cfg *config.Config,
) *Router {
	return &Router{
		sessionController:       sessionController,
		catalogController:       catalogController,
		customizationController: customizationController,
		cartController:          cartController,
		checkoutController:      checkoutController,
		orderController:         orderController,
		eventsController:        eventsController,
		sessionMiddleware:       sessionMiddleware,
		gatherer:                gatherer,
		config:                  cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Web ordering API is running",
		})
	})

	if r.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/sessions", r.sessionController.StartSession)

		// 메뉴 조회는 세션 없이 가능
		v1.GET("/store", r.catalogController.GetStore)
		v1.GET("/menu", r.catalogController.GetMenu)
		v1.GET("/products/:id", r.catalogController.GetProduct)

		session := v1.Group("")
		session.Use(r.sessionMiddleware.RequireSession())
		{
			session.DELETE("/sessions/current", r.sessionController.EndSession)

			customizations := session.Group("/customizations")
			{
				customizations.POST("", r.customizationController.OpenCustomization)
				customizations.GET("/:id", r.customizationController.GetCustomization)
				customizations.POST("/:id/actions", r.customizationController.ApplyAction)
				customizations.POST("/:id/confirm", r.customizationController.ConfirmCustomization)
				customizations.DELETE("/:id", r.customizationController.AbandonCustomization)
			}

			cart := session.Group("/cart")
			{
				cart.GET("", r.cartController.GetCart)
				cart.DELETE("", r.cartController.ClearCart)
				cart.PUT("/items/:key", r.cartController.UpdateCartItem)
				cart.DELETE("/items/:key", r.cartController.RemoveCartItem)
			}

			session.POST("/checkout", r.checkoutController.Checkout)

			orders := session.Group("/orders")
			{
				orders.GET("", r.orderController.ListOrders)
				orders.GET("/:id", r.orderController.GetOrderByID)
			}

			session.GET("/events", r.eventsController.Connect)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
