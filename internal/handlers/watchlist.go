package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/cineai/internal/services"
	"github.com/temcen/cineai/pkg/models"
)

type WatchlistHandler struct {
	logger    *logrus.Logger
	watchlist services.WatchlistServiceInterface
}

func NewWatchlistHandler(logger *logrus.Logger, watchlist services.WatchlistServiceInterface) *WatchlistHandler {
	return &WatchlistHandler{
		logger:    logger,
		watchlist: watchlist,
	}
}

func (h *WatchlistHandler) List(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	showWatched := true
	if v := c.Query("show_watched"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_SHOW_WATCHED", "show_watched must be a boolean")
			return
		}
		showWatched = parsed
	}

	list, err := h.watchlist.List(c.Request.Context(), identity, showWatched, c.Query("sort"))
	if err != nil {
		respondServiceError(c, h.logger, err, "WATCHLIST_LOAD_FAILED", "Failed to load watchlist")
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *WatchlistHandler) Add(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req models.AddWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	entry, err := h.watchlist.Add(c.Request.Context(), identity, &req)
	if err != nil {
		respondServiceError(c, h.logger, err, "WATCHLIST_SAVE_FAILED", "Failed to save watchlist")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *WatchlistHandler) SetWatched(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req models.SetWatchedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	entry, err := h.watchlist.SetWatched(c.Request.Context(), identity, req.Name, *req.Watched)
	if err != nil {
		respondServiceError(c, h.logger, err, "WATCHLIST_SAVE_FAILED", "Failed to save watchlist")
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *WatchlistHandler) Remove(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	name := c.Query("name")
	if name == "" {
		respondError(c, http.StatusBadRequest, "MISSING_NAME", "name is required")
		return
	}

	if err := h.watchlist.Remove(c.Request.Context(), identity, name); err != nil {
		respondServiceError(c, h.logger, err, "WATCHLIST_SAVE_FAILED", "Failed to save watchlist")
		return
	}

	c.Status(http.StatusNoContent)
}
