package database

import (
	"fmt"
	"log"

	"github.com/fixpointhq/fixpoint-api/internal/config"
	"github.com/fixpointhq/fixpoint-api/internal/domain/entity"
	"github.com/fixpointhq/fixpoint-api/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection.
// TranslateError is enabled so unique-constraint violations surface as
// gorm.ErrDuplicatedKey, which the coordinators rely on for duplicate
// phone and reference-number detection.
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Product{},
		&entity.Customer{},
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.Repair{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with an owner account and starter
// categories. Safe to run on every boot.
func SeedDefaultData(db *gorm.DB, cfg *config.SeedConfig) error {
	log.Println("Seeding default data...")

	categories := []entity.Category{
		{Name: "Phones"},
		{Name: "Accessories"},
		{Name: "Spare Parts"},
	}
	for i := range categories {
		var existing entity.Category
		if err := db.Where("name = ?", categories[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&categories[i]).Error; err != nil {
				log.Printf("Warning: failed to create category %s: %v", categories[i].Name, err)
			}
		}
	}

	if cfg.OwnerEmail != "" && cfg.OwnerPassword != "" {
		var existing entity.User
		if err := db.Where("email = ?", cfg.OwnerEmail).First(&existing).Error; err != nil {
			hashed, err := utils.HashPassword(cfg.OwnerPassword)
			if err != nil {
				log.Printf("Warning: failed to hash owner password: %v", err)
			} else {
				name := cfg.OwnerName
				if name == "" {
					name = "Shop Owner"
				}
				owner := entity.User{
					Name:     name,
					Email:    cfg.OwnerEmail,
					Password: hashed,
					Role:     entity.RoleOwner,
				}
				if err := db.Create(&owner).Error; err != nil {
					log.Printf("Warning: failed to create owner user: %v", err)
				} else {
					log.Printf("Owner user created: %s", cfg.OwnerEmail)
				}
			}
		} else {
			log.Printf("Owner user already exists: %s", cfg.OwnerEmail)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
