package main

import (
	"log"

	"github.com/fixpointhq/fixpoint-api/internal/application/service"
	"github.com/fixpointhq/fixpoint-api/internal/config"
	"github.com/fixpointhq/fixpoint-api/internal/infrastructure/database"
	"github.com/fixpointhq/fixpoint-api/internal/infrastructure/repository"
	"github.com/fixpointhq/fixpoint-api/internal/presentation/http/handler"
	"github.com/fixpointhq/fixpoint-api/internal/presentation/http/routes"
	"github.com/fixpointhq/fixpoint-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db, &cfg.Seed); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	saleItemRepo := repository.NewSaleItemRepository(db)
	repairRepo := repository.NewRepairRepository(db)
	txManager := repository.NewTxManager(db)

	// Initialize services
	refs := service.NewReferenceGenerator()
	authService := service.NewAuthService(userRepo, jwtManager)
	customerService := service.NewCustomerService(customerRepo)
	productService := service.NewProductService(productRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	saleService := service.NewSaleService(saleRepo, saleItemRepo, productRepo, customerService, refs, txManager)
	repairService := service.NewRepairService(repairRepo, userRepo, customerService, refs, txManager)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Product:  handler.NewProductHandler(productService),
		Category: handler.NewCategoryHandler(categoryService),
		Customer: handler.NewCustomerHandler(customerService),
		Sale:     handler.NewSaleHandler(saleService),
		Repair:   handler.NewRepairHandler(repairService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
