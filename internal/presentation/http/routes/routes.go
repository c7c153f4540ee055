package routes

import (
	"time"

	"github.com/fixpointhq/fixpoint-api/internal/config"
	"github.com/fixpointhq/fixpoint-api/internal/domain/entity"
	"github.com/fixpointhq/fixpoint-api/internal/presentation/http/handler"
	"github.com/fixpointhq/fixpoint-api/internal/presentation/http/middleware"
	"github.com/fixpointhq/fixpoint-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Customer *handler.CustomerHandler
	Sale     *handler.SaleHandler
	Repair   *handler.RepairHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-client rate limiter
		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Profile
	protected.GET("/profile", h.Auth.GetProfile)

	// Staff accounts (owner only)
	users := protected.Group("/users")
	users.Use(middleware.RequireRole(entity.RoleOwner))
	{
		users.GET("", h.Auth.ListUsers)
		users.POST("", h.Auth.CreateUser)
	}

	// Products
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/:id", h.Product.Get)
		products.POST("", middleware.RequireRole(entity.RoleOwner, entity.RoleStaff), h.Product.Create)
		products.POST("/import", middleware.RequireRole(entity.RoleOwner), h.Product.Import)
		products.PUT("/:id", middleware.RequireRole(entity.RoleOwner, entity.RoleStaff), h.Product.Update)
		products.DELETE("/:id", middleware.RequireRole(entity.RoleOwner), h.Product.Delete)
	}

	// Categories
	categories := protected.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.POST("", middleware.RequireRole(entity.RoleOwner, entity.RoleStaff), h.Category.Create)
		categories.DELETE("/:id", middleware.RequireRole(entity.RoleOwner), h.Category.Delete)
	}

	// Customers
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
	}

	// Sales
	sales := protected.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.POST("", h.Sale.Create)
		sales.GET("/:id", h.Sale.Get)
		sales.POST("/:id/void", middleware.RequireRole(entity.RoleOwner), h.Sale.Void)
	}

	// Repairs
	repairs := protected.Group("/repairs")
	{
		repairs.GET("", h.Repair.List)
		repairs.POST("", h.Repair.Create)
		repairs.GET("/:id", h.Repair.Get)
		repairs.PATCH("/:id", h.Repair.Update)
	}
}
