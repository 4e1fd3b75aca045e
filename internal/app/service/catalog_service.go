package service

import (
	"errors"

	"github.com/ikkim/web-ordering-backend/internal/app/model"
	"github.com/ikkim/web-ordering-backend/internal/app/ordering"
	"github.com/ikkim/web-ordering-backend/internal/app/repository"
	"github.com/ikkim/web-ordering-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrStoreNotFound   = errors.New("store not found")
)

// CatalogService reads the menu and the store configuration.
type CatalogService interface {
	GetMenu() ([]model.Category, error)
	GetProduct(id string) (*model.Product, error)
	GetStore() (*model.Store, error)
	StoreSettings() (ordering.StoreSettings, *model.Store, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
	storeID     string
	brandID     string
}

// NewCatalogService serves the configured store. An empty storeID falls back
// to the first active store.
func NewCatalogService(
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	storeID string,
	brandID string,
) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		storeRepo:   storeRepo,
		storeID:     storeID,
		brandID:     brandID,
	}
}

func (s *catalogService) GetMenu() ([]model.Category, error) {
	categories, err := s.productRepo.ListMenu(s.brandID)
	if err != nil {
		logger.Error("Failed to load menu", err, map[string]interface{}{
			"brand_id": s.brandID,
		})
		return nil, err
	}

	for i := range categories {
		for j := range categories[i].Products {
			categories[i].Products[j] = categories[i].Products[j].ForDisplay()
		}
	}
	return categories, nil
}

// GetProduct returns the product as stored. Unavailable products are still
// returned so the caller can show them as sold out.
func (s *catalogService) GetProduct(id string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) GetStore() (*model.Store, error) {
	var (
		store *model.Store
		err   error
	)
	if s.storeID != "" {
		store, err = s.storeRepo.FindByID(s.storeID)
	} else {
		store, err = s.storeRepo.FindFirstActive()
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Configured store not found", map[string]interface{}{
				"store_id": s.storeID,
			})
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return store, nil
}

// StoreSettings returns what checkout needs from the store.
func (s *catalogService) StoreSettings() (ordering.StoreSettings, *model.Store, error) {
	store, err := s.GetStore()
	if err != nil {
		return ordering.StoreSettings{}, nil, err
	}
	return ordering.StoreSettings{
		StoreID:     store.ID,
		DeliveryFee: store.DeliveryFee,
	}, store, nil
}
