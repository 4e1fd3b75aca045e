package db

import (
	"fmt"
	"log"

	"github.com/ikkim/web-ordering-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	// every pooled connection would get its own empty :memory: database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get test database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return db, nil
}

// CleanupTestDB cleans up the test database
func CleanupTestDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables removes all data from tables
func TruncateAllTables(db *gorm.DB) error {
	tables := []string{"cart_sessions", "order_items", "orders", "products", "categories", "stores"}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedTestStore inserts an open store with the given delivery fee.
func SeedTestStore(db *gorm.DB, deliveryFee int64) (*model.Store, error) {
	store := demoStore("")
	store.DeliveryFee = decimal.NewFromInt(deliveryFee)
	if err := db.Create(store).Error; err != nil {
		return nil, err
	}
	return store, nil
}

// SeedTestMenu inserts the demo menu and returns its products keyed by name.
func SeedTestMenu(db *gorm.DB, brandID string) (map[string]model.Product, error) {
	if err := createMenu(db, brandID); err != nil {
		return nil, err
	}

	var products []model.Product
	if err := db.Find(&products).Error; err != nil {
		return nil, err
	}
	byName := make(map[string]model.Product, len(products))
	for _, p := range products {
		byName[p.Name] = p
	}
	return byName, nil
}
