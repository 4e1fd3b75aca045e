package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/ikkim/web-ordering-backend/internal/app/model"
	"github.com/ikkim/web-ordering-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestOrder(storeID string) *model.Order {
	return &model.Order{
		StoreID:         storeID,
		Channel:         model.OrderChannelWeb,
		CustomerName:    "Sami",
		CustomerPhone:   "0600000000",
		DeliveryAddress: "N/A",
		OrderType:       model.OrderTypeTakeaway,
		Subtotal:        decimal.NewFromInt(120),
		TotalAmount:     decimal.NewFromInt(120),
		Status:          model.OrderStatusPending,
		OrderItems: []model.OrderItem{
			{
				ProductID:   "burger",
				ProductName: "Classic Burger",
				Quantity:    2,
				UnitPrice:   decimal.NewFromInt(60),
				TotalPrice:  decimal.NewFromInt(120),
				Options: model.OrderItemDetails{
					Variation:          &model.SelectedVariation{ID: "large", Name: "Large", Price: decimal.NewFromInt(55)},
					RemovedIngredients: []string{"pickles"},
				},
			},
		},
	}
}

func seedStores(t *testing.T, testDB *gorm.DB, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, testDB.Create(&model.Store{ID: id, Name: id, IsOpen: true, IsActive: true}).Error)
	}
}

func TestOrderRepository_Create(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)
	seedStores(t, testDB, "store-1")
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	order := newTestOrder("store-1")
	order.SessionID = "session-1"
	require.NoError(t, repo.Create(ctx, order))
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, 1, order.OrderNumber)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, "session-1", found.SessionID)
	require.Len(t, found.OrderItems, 1)
	item := found.OrderItems[0]
	assert.Equal(t, order.ID, item.OrderID)
	require.NotNil(t, item.Options.Variation)
	assert.Equal(t, "Large", item.Options.Variation.Name)
	assert.Equal(t, []string{"pickles"}, item.Options.RemovedIngredients)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderRepository_OrderNumbersPerStore(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)
	seedStores(t, testDB, "store-1", "store-2")
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	first := newTestOrder("store-1")
	second := newTestOrder("store-1")
	other := newTestOrder("store-2")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, other))

	assert.Equal(t, 1, first.OrderNumber)
	assert.Equal(t, 2, second.OrderNumber)
	assert.Equal(t, 1, other.OrderNumber)

	var store model.Store
	require.NoError(t, testDB.First(&store, "id = ?", "store-1").Error)
	assert.Equal(t, 2, store.LastOrderNumber)
}

func TestOrderRepository_ConcurrentOrdersGetDistinctNumbers(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)
	seedStores(t, testDB, "store-1")
	repo := NewOrderRepository(testDB)

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Create(context.Background(), newTestOrder("store-1"))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var numbers []int
	require.NoError(t, testDB.Model(&model.Order{}).
		Where("store_id = ?", "store-1").
		Order("order_number ASC").
		Pluck("order_number", &numbers).Error)
	require.Len(t, numbers, n)
	for i, num := range numbers {
		assert.Equal(t, i+1, num)
	}
}

func TestOrderRepository_DuplicateOrderNumberRejected(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)
	seedStores(t, testDB, "store-1")
	repo := NewOrderRepository(testDB)

	order := newTestOrder("store-1")
	require.NoError(t, repo.Create(context.Background(), order))

	dup := newTestOrder("store-1")
	dup.OrderNumber = order.OrderNumber
	dup.OrderItems = nil
	assert.Error(t, testDB.Create(dup).Error)
}

func TestOrderRepository_UnknownStore(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)
	repo := NewOrderRepository(testDB)

	err = repo.Create(context.Background(), newTestOrder("ghost"))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, testDB.Model(&model.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOrderRepository_FindBySessionID(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)
	seedStores(t, testDB, "store-1")
	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	mine := newTestOrder("store-1")
	mine.SessionID = "session-1"
	theirs := newTestOrder("store-1")
	theirs.SessionID = "session-2"
	require.NoError(t, repo.Create(ctx, mine))
	require.NoError(t, repo.Create(ctx, theirs))

	orders, err := repo.FindBySessionID(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, mine.ID, orders[0].ID)
	assert.Len(t, orders[0].OrderItems, 1)

	orders, err = repo.FindBySessionID(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, orders)
}
