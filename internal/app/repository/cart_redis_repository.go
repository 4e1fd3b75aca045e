package repository

import (
	"context"
	"time"

	"github.com/ikkim/web-ordering-backend/internal/app/ordering"
	"github.com/ikkim/web-ordering-backend/pkg/logger"
	"github.com/ikkim/web-ordering-backend/pkg/redis"
)

// JSONStore is the subset of redis.Store the cart needs.
type JSONStore interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type redisCartRepository struct {
	store JSONStore
	ttl   time.Duration
}

// NewRedisCartRepository keeps each cart under web-ordering:cart:<session>
// and refreshes the TTL on every save.
func NewRedisCartRepository(store JSONStore, ttl time.Duration) CartRepository {
	return &redisCartRepository{store: store, ttl: ttl}
}

func cartKey(sessionID string) string {
	return redis.Key("cart", sessionID)
}

func (r *redisCartRepository) Load(ctx context.Context, sessionID string) (ordering.CartState, error) {
	state := ordering.CartState{Items: []ordering.LineItem{}}
	found, err := r.store.GetJSON(ctx, cartKey(sessionID), &state)
	if err != nil {
		logger.Error("Failed to load cart from Redis", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return ordering.CartState{}, err
	}
	if !found {
		logger.Debug("No cart in Redis, starting empty", map[string]interface{}{
			"session_id": sessionID,
		})
	}
	return state, nil
}

func (r *redisCartRepository) Save(ctx context.Context, sessionID string, state ordering.CartState) error {
	logger.Debug("Saving cart to Redis", map[string]interface{}{
		"session_id": sessionID,
		"line_items": len(state.Items),
	})
	return r.store.SetJSON(ctx, cartKey(sessionID), state, r.ttl)
}

func (r *redisCartRepository) Delete(ctx context.Context, sessionID string) error {
	return r.store.Delete(ctx, cartKey(sessionID))
}
