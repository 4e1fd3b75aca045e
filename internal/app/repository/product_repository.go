package repository

import (
	"github.com/ikkim/web-ordering-backend/internal/app/model"
	"github.com/ikkim/web-ordering-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	Update(product *model.Product) error
	FindByID(id string) (*model.Product, error)
	FindByName(brandID, name string) (*model.Product, error)
	Count() (int64, error)
	CreateCategory(category *model.Category) error
	FindCategoryByName(brandID, name string) (*model.Category, error)
	ListMenu(brandID string) ([]model.Category, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":     product.Name,
		"brand_id": product.BrandID,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindByID(id string) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	if err := r.db.Where("id = ?", id).First(&product).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
				"product_id": id,
			})
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByName(brandID, name string) (*model.Product, error) {
	var product model.Product
	err := r.db.Where("brand_id = ? AND name = ?", brandID, name).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Product{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count products in database", err)
		return 0, err
	}
	return count, nil
}

func (r *productRepository) CreateCategory(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"name": category.Name,
		"rank": category.Rank,
	})

	if err := r.db.Omit("Products").Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindCategoryByName(brandID, name string) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("brand_id = ? AND name = ?", brandID, name).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ListMenu returns the brand's categories by rank with their available
// products. An empty brandID lists every category.
func (r *productRepository) ListMenu(brandID string) ([]model.Category, error) {
	logger.Debug("Listing menu from database", map[string]interface{}{
		"brand_id": brandID,
	})

	query := r.db.Model(&model.Category{})
	if brandID != "" {
		query = query.Where("brand_id = ?", brandID)
	}

	var categories []model.Category
	err := query.
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_available = ?", true).Order("name ASC")
		}).
		Order("rank ASC").
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		logger.Error("Failed to list menu from database", err, map[string]interface{}{
			"brand_id": brandID,
		})
		return nil, err
	}

	logger.Debug("Menu listed from database", map[string]interface{}{
		"brand_id":   brandID,
		"categories": len(categories),
	})
	return categories, nil
}
