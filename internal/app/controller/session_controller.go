package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/web-ordering-backend/internal/app/service"
	apperrors "github.com/ikkim/web-ordering-backend/internal/errors"
	"github.com/ikkim/web-ordering-backend/internal/middleware"
)

type SessionController struct {
	sessionService service.SessionService
}

func NewSessionController(sessionService service.SessionService) *SessionController {
	return &SessionController{
		sessionService: sessionService,
	}
}

// StartSession issues a guest session token
// POST /api/v1/sessions
func (ctrl *SessionController) StartSession(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, err := ctrl.sessionService.Start()
	if err != nil {
		log.Error("Failed to start session", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, token)
}

// EndSession drops the cart and revokes the token
// DELETE /api/v1/sessions/current
func (ctrl *SessionController) EndSession(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, claims, ok := middleware.GetSessionToken(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.sessionService.End(c.Request.Context(), token, claims); err != nil {
		log.Error("Failed to end session", err, map[string]interface{}{
			"session_id": claims.SessionID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "end session cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session ended"})
}

// sessionID reads the authenticated session or writes a 401.
func sessionID(c *gin.Context) (string, bool) {
	id, ok := middleware.GetSessionID(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Warn("Session missing from context", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		apperrors.Unauthorized(c, "")
		return "", false
	}
	return id, true
}
