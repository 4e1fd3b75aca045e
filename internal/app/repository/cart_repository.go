package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ikkim/web-ordering-backend/internal/app/model"
	"github.com/ikkim/web-ordering-backend/internal/app/ordering"
	"github.com/ikkim/web-ordering-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository persists one cart state per guest session.
type CartRepository interface {
	Load(ctx context.Context, sessionID string) (ordering.CartState, error)
	Save(ctx context.Context, sessionID string, state ordering.CartState) error
	Delete(ctx context.Context, sessionID string) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// Load returns an empty state for sessions that never saved a cart.
func (r *cartRepository) Load(ctx context.Context, sessionID string) (ordering.CartState, error) {
	logger.Debug("Loading cart session from database", map[string]interface{}{
		"session_id": sessionID,
	})

	var row model.CartSession
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ordering.CartState{Items: []ordering.LineItem{}}, nil
	}
	if err != nil {
		logger.Error("Failed to load cart session from database", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return ordering.CartState{}, err
	}

	var state ordering.CartState
	if err := json.Unmarshal([]byte(row.State), &state); err != nil {
		return ordering.CartState{}, fmt.Errorf("decode cart session %s: %w", sessionID, err)
	}
	return state, nil
}

func (r *cartRepository) Save(ctx context.Context, sessionID string, state ordering.CartState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}

	logger.Debug("Saving cart session to database", map[string]interface{}{
		"session_id": sessionID,
		"line_items": len(state.Items),
	})

	row := model.CartSession{SessionID: sessionID, State: string(b)}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		logger.Error("Failed to save cart session to database", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) Delete(ctx context.Context, sessionID string) error {
	logger.Debug("Deleting cart session from database", map[string]interface{}{
		"session_id": sessionID,
	})

	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&model.CartSession{}).Error
	if err != nil {
		logger.Error("Failed to delete cart session from database", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}
	return nil
}
