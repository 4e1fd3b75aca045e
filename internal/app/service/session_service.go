package service

import (
	"context"
	"time"

	"github.com/ikkim/web-ordering-backend/config"
	"github.com/ikkim/web-ordering-backend/pkg/logger"
	"github.com/ikkim/web-ordering-backend/pkg/util"
)

// TokenRevoker blacklists session tokens. Redis implements it.
type TokenRevoker interface {
	RevokeToken(ctx context.Context, token string, expiry time.Duration) error
}

type SessionService interface {
	Start() (*util.SessionToken, error)
	End(ctx context.Context, token string, claims *util.SessionClaims) error
}

type sessionService struct {
	cfg     *config.SessionConfig
	carts   CartService
	revoker TokenRevoker
}

// NewSessionService issues guest session tokens. revoker may be nil, in which
// case ended tokens stay valid until they expire.
func NewSessionService(cfg *config.SessionConfig, carts CartService, revoker TokenRevoker) SessionService {
	return &sessionService{cfg: cfg, carts: carts, revoker: revoker}
}

func (s *sessionService) Start() (*util.SessionToken, error) {
	token, err := util.GenerateSessionToken(s.cfg.Secret, s.cfg.TokenExpiry)
	if err != nil {
		logger.Error("Failed to issue session token", err)
		return nil, err
	}

	logger.Info("Guest session started", map[string]interface{}{
		"session_id": token.SessionID,
		"expires_at": token.ExpiresAt,
	})
	return token, nil
}

// End drops the session's cart and revokes its token.
func (s *sessionService) End(ctx context.Context, token string, claims *util.SessionClaims) error {
	if err := s.carts.DeleteCart(ctx, claims.SessionID); err != nil {
		return err
	}

	if s.revoker != nil && claims.ExpiresAt != nil {
		remaining := time.Until(claims.ExpiresAt.Time)
		if remaining > 0 {
			if err := s.revoker.RevokeToken(ctx, token, remaining); err != nil {
				logger.Warn("Failed to revoke session token", map[string]interface{}{
					"session_id": claims.SessionID,
					"error":      err.Error(),
				})
				return err
			}
		}
	}

	logger.Info("Guest session ended", map[string]interface{}{
		"session_id": claims.SessionID,
	})
	return nil
}
