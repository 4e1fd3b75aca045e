package db

import (
	"github.com/ikkim/web-ordering-backend/config"
	"github.com/ikkim/web-ordering-backend/internal/app/model"
	"github.com/ikkim/web-ordering-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Models lists every table owned by the service.
func Models() []interface{} {
	return []interface{}{
		&model.Store{},
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.CartSession{},
	}
}

// Migrate runs database migrations
func Migrate(storeCfg *config.StoreConfig) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := syncOrderCounters(DB); err != nil {
		logger.Error("Failed to sync store order counters", err)
		return err
	}

	if err := seedInitialData(DB, storeCfg); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// syncOrderCounters sets last_order_number for stores whose orders predate
// the counter column.
func syncOrderCounters(db *gorm.DB) error {
	return db.Exec(`UPDATE stores SET last_order_number = (
		SELECT COALESCE(MAX(order_number), 0) FROM orders WHERE orders.store_id = stores.id
	) WHERE last_order_number = 0`).Error
}

func seedInitialData(db *gorm.DB, storeCfg *config.StoreConfig) error {
	var storeCount int64
	if err := db.Model(&model.Store{}).Count(&storeCount).Error; err != nil {
		return err
	}
	if storeCount == 0 {
		store := demoStore(storeCfg.StoreID)
		store.BrandID = storeCfg.BrandID
		if err := db.Create(store).Error; err != nil {
			logger.Error("Failed to create demo store", err)
			return err
		}
		logger.Info("Demo store created", map[string]interface{}{
			"store_id": store.ID,
		})
	}

	var productCount int64
	if err := db.Model(&model.Product{}).Count(&productCount).Error; err != nil {
		return err
	}
	if productCount > 0 {
		logger.Info("Menu already seeded, skipping...", map[string]interface{}{
			"existing_count": productCount,
		})
		return nil
	}

	logger.Info("Seeding demo menu...")
	if err := createMenu(db, storeCfg.BrandID); err != nil {
		logger.Error("Failed to seed demo menu", err)
		return err
	}
	logger.Info("Demo menu seeded successfully")
	return nil
}

func demoStore(id string) *model.Store {
	return &model.Store{
		ID:             id,
		Name:           "Demo Burger House",
		Address:        "1 Market Street",
		DeliveryFee:    decimal.NewFromInt(15),
		PrimaryColor:   "#E4002B",
		SecondaryColor: "#FFC72C",
		IsOpen:         true,
		IsActive:       true,
	}
}

func createMenu(db *gorm.DB, brandID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		burgers := &model.Category{BrandID: brandID, Name: "Burgers", Rank: 1}
		sides := &model.Category{BrandID: brandID, Name: "Sides", Rank: 2}
		drinks := &model.Category{BrandID: brandID, Name: "Drinks", Rank: 3}
		for _, c := range []*model.Category{burgers, sides, drinks} {
			if err := tx.Create(c).Error; err != nil {
				return err
			}
		}

		products := []model.Product{
			{
				BrandID:     brandID,
				CategoryID:  &burgers.ID,
				Name:        "Classic Burger",
				Description: "Beef patty, cheddar, house sauce",
				Price:       decimal.NewFromInt(40),
				Ingredients: model.StringArray{"onion", "pickles", "tomato", "lettuce"},
				Variations: model.Variations{
					{ID: "regular", Name: "Regular", Price: decimal.NewFromInt(45)},
					{ID: "large", Name: "Large", Price: decimal.NewFromInt(55)},
				},
				OptionGroups: model.OptionGroups{
					{
						ID: "bread", Name: "Bread", Min: 1, Max: 1,
						Items: []model.OptionItem{
							{ID: "brioche", Name: "Brioche", Price: decimal.Zero},
							{ID: "sesame", Name: "Sesame", Price: decimal.NewFromInt(2)},
						},
					},
					{
						ID: "sauces", Name: "Sauces", Min: 0, Max: 3,
						Items: []model.OptionItem{
							{ID: "ketchup", Name: "Ketchup", Price: decimal.Zero},
							{ID: "cheese", Name: "Cheese sauce", Price: decimal.NewFromInt(5)},
							{ID: "bbq", Name: "BBQ", Price: decimal.NewFromInt(1)},
						},
					},
				},
				IsAvailable: true,
			},
			{
				BrandID:     brandID,
				CategoryID:  &sides.ID,
				Name:        "Fries",
				Price:       decimal.NewFromInt(12),
				IsAvailable: true,
			},
			{
				BrandID:    brandID,
				CategoryID: &drinks.ID,
				Name:       "Lemonade",
				Price:      decimal.NewFromInt(8),
				OptionGroups: model.OptionGroups{
					{
						ID: "ice", Name: "Ice", Min: 1, Max: 1,
						Items: []model.OptionItem{
							{ID: "ice", Name: "With ice", Price: decimal.Zero},
							{ID: "no-ice", Name: "No ice", Price: decimal.Zero},
						},
					},
				},
				IsAvailable: true,
			},
		}
		for i := range products {
			if err := tx.Create(&products[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
