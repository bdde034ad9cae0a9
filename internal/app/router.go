package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"carshare/internal/auth"
	"carshare/internal/domain"
	"carshare/internal/handler"
	"carshare/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	CarHandler     *handler.CarHandler
	RentalHandler  *handler.RentalHandler
	PaymentHandler *handler.PaymentHandler
	UserHandler    *handler.UserHandler
	TokenManager   *auth.TokenManager
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authRequired := middleware.AuthMiddleware(deps.TokenManager)
	managerOnly := middleware.RequireRole(domain.RoleManager)

	// Idempotency guards the money-moving POSTs. It keys on the actor, so
	// it must run after authRequired.
	idempotent := gin.HandlerFunc(func(c *gin.Context) { c.Next() })
	if deps.RedisClient != nil {
		idempotent = middleware.IdempotencyMiddleware(deps.RedisClient)
	}

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("/register", deps.UserHandler.Register)
			users.POST("/login", deps.UserHandler.Login)
			users.GET("/me", authRequired, deps.UserHandler.Me)
			users.PUT("/me", authRequired, deps.UserHandler.UpdateMe)
			users.PUT("/:id/role", authRequired, managerOnly, deps.UserHandler.UpdateRole)
		}

		// Car catalog routes. Browsing is public; mutation is manager-only.
		cars := v1.Group("/cars")
		{
			cars.GET("", deps.CarHandler.List)
			cars.GET("/:id", deps.CarHandler.Get)
			cars.POST("", authRequired, managerOnly, deps.CarHandler.Create)
			cars.PUT("/:id", authRequired, managerOnly, deps.CarHandler.Update)
			cars.DELETE("/:id", authRequired, managerOnly, deps.CarHandler.Delete)
		}

		// Rental routes.
		rentals := v1.Group("/rentals", authRequired)
		{
			rentals.POST("", idempotent, deps.RentalHandler.Create)
			rentals.GET("", deps.RentalHandler.List)
			rentals.GET("/:id", deps.RentalHandler.Get)
			rentals.POST("/:id/return", idempotent, deps.RentalHandler.Complete)
		}

		// Payment routes. The success/cancel callbacks are hit by gateway
		// redirects and carry no bearer token.
		payments := v1.Group("/payments")
		{
			payments.POST("", authRequired, idempotent, deps.PaymentHandler.Create)
			payments.GET("", authRequired, deps.PaymentHandler.List)
			payments.GET("/success", deps.PaymentHandler.Success)
			payments.GET("/cancel", deps.PaymentHandler.Cancel)
		}
	}

	return router
}
