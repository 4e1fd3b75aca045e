package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ikkim/web-ordering-backend/internal/app/ordering"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_GetCart_Empty(t *testing.T) {
	env := setupServiceTest(t)

	cart, err := env.carts.GetCart(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.ItemCount)
	assert.True(t, cart.Subtotal.IsZero())
}

func TestCartService_AddSelection_Merges(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	burger := env.finalize(t, "Classic Burger", brioche(), quantity(2))
	cart, err := env.carts.AddSelection(ctx, "session-1", burger)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "90", cart.Subtotal.String())

	cart, err = env.carts.AddSelection(ctx, "session-1", burger)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.Equal(t, "180", cart.Items[0].LineTotal.String())

	fries := env.finalize(t, "Fries")
	cart, err = env.carts.AddSelection(ctx, "session-1", fries)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Lines)
	assert.Equal(t, 5, cart.ItemCount)
	assert.Equal(t, "192", cart.Subtotal.String())

	assert.Contains(t, env.publisher.types(), EventCartUpdated)
}

func TestCartService_PersistsAcrossInstances(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	_, err := env.carts.AddSelection(ctx, "session-1", env.finalize(t, "Fries", quantity(3)))
	require.NoError(t, err)

	reloaded := NewCartService(env.cartRepo, nil, nil)
	cart, err := reloaded.GetCart(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	other, err := reloaded.GetCart(ctx, "session-2")
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	cart, err := env.carts.AddSelection(ctx, "session-1", env.finalize(t, "Fries"))
	require.NoError(t, err)
	key := cart.Items[0].Key

	cart, err = env.carts.UpdateQuantity(ctx, "session-1", key, 5)
	require.NoError(t, err)
	assert.Equal(t, "60", cart.Subtotal.String())

	_, err = env.carts.UpdateQuantity(ctx, "session-1", "unknown", 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	cart, err = env.carts.RemoveItem(ctx, "session-1", "unknown")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	cart, err = env.carts.UpdateQuantity(ctx, "session-1", key, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_UpdateToZero_UnknownKeyIsNoOp(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	_, err := env.carts.AddSelection(ctx, "session-1", env.finalize(t, "Classic Burger", brioche()))
	require.NoError(t, err)

	for _, qty := range []int{0, -3} {
		cart, err := env.carts.UpdateQuantity(ctx, "session-1", "no-such-key", qty)
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, "45", cart.Subtotal.String())
	}
}

func TestCartService_QuantityLimit(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	cart, err := env.carts.AddSelection(ctx, "session-1", env.finalize(t, "Fries"))
	require.NoError(t, err)
	key := cart.Items[0].Key

	_, err = env.carts.UpdateQuantity(ctx, "session-1", key, MaxQuantity+1)
	assert.ErrorIs(t, err, ErrQuantityTooLarge)

	cart, err = env.carts.UpdateQuantity(ctx, "session-1", key, MaxQuantity)
	require.NoError(t, err)
	assert.Equal(t, MaxQuantity, cart.Items[0].Quantity)

	// 병합으로 한도를 넘길 수 없음
	_, err = env.carts.AddSelection(ctx, "session-1", env.finalize(t, "Fries"))
	assert.ErrorIs(t, err, ErrQuantityTooLarge)

	cart, err = env.carts.GetCart(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, MaxQuantity, cart.Items[0].Quantity)
}

func TestCartService_ClearAndDelete(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	_, err := env.carts.AddSelection(ctx, "session-1", env.finalize(t, "Fries"))
	require.NoError(t, err)

	cart, err := env.carts.ClearCart(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = env.carts.AddSelection(ctx, "session-1", env.finalize(t, "Fries"))
	require.NoError(t, err)
	require.NoError(t, env.carts.DeleteCart(ctx, "session-1"))

	cart, err = env.carts.GetCart(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_SaveFailureKeepsStoredCart(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	_, err := env.carts.AddSelection(ctx, "session-1", env.finalize(t, "Fries"))
	require.NoError(t, err)

	saveErr := errors.New("disk full")
	broken := NewCartService(&failingCartRepo{CartRepository: env.cartRepo, err: saveErr}, nil, nil)
	_, err = broken.AddSelection(ctx, "session-1", env.finalize(t, "Classic Burger", brioche()))
	assert.ErrorIs(t, err, saveErr)

	cart, err := env.carts.GetCart(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Fries", cart.Items[0].ProductName)
}

func TestCartService_ConcurrentAddsAreSerialized(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	fries := env.finalize(t, "Fries")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.carts.AddSelection(ctx, "session-1", fries)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cart, err := env.carts.GetCart(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 10, cart.Items[0].Quantity)
}

func TestCartService_WithCart(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	err := env.carts.WithCart(ctx, "session-1", func(cart *ordering.Cart) error {
		_, err := cart.AddItem(env.finalize(t, "Fries"))
		return err
	})
	require.NoError(t, err)

	cart, err := env.carts.GetCart(ctx, "session-1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}
