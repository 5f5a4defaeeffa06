package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/cineai/internal/services"
)

type SessionHandler struct {
	logger   *logrus.Logger
	sessions services.SessionServiceInterface
}

func NewSessionHandler(logger *logrus.Logger, sessions services.SessionServiceInterface) *SessionHandler {
	return &SessionHandler{
		logger:   logger,
		sessions: sessions,
	}
}

// Get returns the caller's current view state.
func (h *SessionHandler) Get(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	state, err := h.sessions.Current(c.Request.Context(), identity)
	if err != nil {
		respondServiceError(c, h.logger, err, "SESSION_LOAD_FAILED", "Failed to load session")
		return
	}

	c.JSON(http.StatusOK, state)
}
