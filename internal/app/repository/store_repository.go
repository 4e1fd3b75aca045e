package repository

import (
	"github.com/ikkim/web-ordering-backend/internal/app/model"
	"github.com/ikkim/web-ordering-backend/pkg/logger"
	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(store *model.Store) error
	Update(store *model.Store) error
	FindByID(id string) (*model.Store, error)
	FindFirstActive() (*model.Store, error)
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *model.Store) error {
	logger.Debug("Creating store in database", map[string]interface{}{
		"name": store.Name,
	})

	if err := r.db.Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"name": store.Name,
		})
		return err
	}

	logger.Debug("Store created in database", map[string]interface{}{
		"store_id": store.ID,
	})
	return nil
}

func (r *storeRepository) Update(store *model.Store) error {
	logger.Debug("Updating store in database", map[string]interface{}{
		"store_id": store.ID,
	})

	if err := r.db.Save(store).Error; err != nil {
		logger.Error("Failed to update store in database", err, map[string]interface{}{
			"store_id": store.ID,
		})
		return err
	}
	return nil
}

func (r *storeRepository) FindByID(id string) (*model.Store, error) {
	logger.Debug("Finding store by ID in database", map[string]interface{}{
		"store_id": id,
	})

	var store model.Store
	if err := r.db.Where("id = ?", id).First(&store).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find store by ID in database", err, map[string]interface{}{
				"store_id": id,
			})
		}
		return nil, err
	}
	return &store, nil
}

// FindFirstActive is used when no store id is configured.
func (r *storeRepository) FindFirstActive() (*model.Store, error) {
	var store model.Store
	if err := r.db.Where("is_active = ?", true).Order("created_at ASC").First(&store).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find active store in database", err)
		}
		return nil, err
	}
	return &store, nil
}
