package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/cineai/internal/services"
)

type MovieHandler struct {
	logger *logrus.Logger
	movies services.MovieServiceInterface
}

func NewMovieHandler(logger *logrus.Logger, movies services.MovieServiceInterface) *MovieHandler {
	return &MovieHandler{
		logger: logger,
		movies: movies,
	}
}

// Search serves typeahead over catalog titles.
func (h *MovieHandler) Search(c *gin.Context) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			respondError(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	c.JSON(http.StatusOK, h.movies.Search(c.Query("q"), limit))
}

func (h *MovieHandler) Random(c *gin.Context) {
	entry, err := h.movies.Random(c.Query("exclude"))
	if err != nil {
		respondServiceError(c, h.logger, err, "RANDOM_FAILED", "Failed to pick a title")
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *MovieHandler) Trailer(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	title := c.Query("title")
	if title == "" {
		respondError(c, http.StatusBadRequest, "MISSING_TITLE", "title is required")
		return
	}

	trailer, err := h.movies.Trailer(c.Request.Context(), identity, title)
	if err != nil {
		respondServiceError(c, h.logger, err, "TRAILER_FAILED", "Failed to look up trailer")
		return
	}

	c.JSON(http.StatusOK, trailer)
}

func (h *MovieHandler) Reviews(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		respondError(c, http.StatusBadRequest, "MISSING_TITLE", "title is required")
		return
	}

	reviews, err := h.movies.Reviews(c.Request.Context(), title)
	if err != nil {
		respondServiceError(c, h.logger, err, "REVIEWS_FAILED", "Failed to fetch reviews")
		return
	}

	c.JSON(http.StatusOK, reviews)
}

func (h *MovieHandler) Trending(c *gin.Context) {
	window := c.Query("window")
	movies, err := h.movies.Trending(c.Request.Context(), window)
	if err != nil {
		respondServiceError(c, h.logger, err, "TRENDING_FAILED", "Failed to fetch trending titles")
		return
	}

	if window == "" {
		window = "day"
	}
	if len(movies) == 0 {
		// TMDB always has trending titles; an empty list is a fallback.
		c.Header("Cache-Control", "no-store")
	}
	c.JSON(http.StatusOK, gin.H{
		"window": window,
		"movies": movies,
	})
}
