package service

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/ikkim/web-ordering-backend/internal/app/model"
	"github.com/ikkim/web-ordering-backend/internal/app/ordering"
	"github.com/ikkim/web-ordering-backend/internal/app/repository"
	"github.com/ikkim/web-ordering-backend/internal/db"
	"github.com/ikkim/web-ordering-backend/pkg/logger"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testBrandID = "brand-1"

type publishedEvent struct {
	SessionID string
	Type      string
	Payload   interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(sessionID, eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{SessionID: sessionID, Type: eventType, Payload: payload})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type testEnv struct {
	db        *gorm.DB
	store     *model.Store
	products  map[string]model.Product
	cartRepo  repository.CartRepository
	orderRepo repository.OrderRepository
	publisher *recordingPublisher
	catalog   CatalogService
	carts     CartService
}

func setupServiceTest(t *testing.T) *testEnv {
	logger.Initialize(logger.Config{Level: "warn", Format: "json", Output: io.Discard})

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	store, err := db.SeedTestStore(testDB, 15)
	require.NoError(t, err)
	products, err := db.SeedTestMenu(testDB, testBrandID)
	require.NoError(t, err)

	env := &testEnv{
		db:        testDB,
		store:     store,
		products:  products,
		cartRepo:  repository.NewCartRepository(testDB),
		orderRepo: repository.NewOrderRepository(testDB),
		publisher: &recordingPublisher{},
	}
	env.catalog = NewCatalogService(
		repository.NewProductRepository(testDB),
		repository.NewStoreRepository(testDB),
		store.ID,
		testBrandID,
	)
	env.carts = NewCartService(env.cartRepo, env.publisher, nil)
	return env
}

// finalize builds a confirmed selection of a seeded product.
func (e *testEnv) finalize(t *testing.T, name string, actions ...ordering.Action) ordering.FinalizedSelection {
	t.Helper()
	product, ok := e.products[name]
	require.True(t, ok, "unknown product %s", name)

	sel, err := ordering.NewSelection(product)
	require.NoError(t, err)
	for _, a := range actions {
		require.NoError(t, sel.Apply(a))
	}
	finalized, err := sel.Confirm()
	require.NoError(t, err)
	return finalized
}

func brioche() ordering.Action {
	return ordering.Action{Type: ordering.ActionSetOption, GroupID: "bread", ItemID: "brioche"}
}

func quantity(n int) ordering.Action {
	return ordering.Action{Type: ordering.ActionSetQuantity, Quantity: n}
}

type failingCartRepo struct {
	repository.CartRepository
	err error
}

func (r *failingCartRepo) Save(ctx context.Context, sessionID string, state ordering.CartState) error {
	return r.err
}
