package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/cineai/internal/services"
)

type RecommendationHandler struct {
	recommender services.RecommendationServiceInterface
	logger      *logrus.Logger
}

func NewRecommendationHandler(
	recommender services.RecommendationServiceInterface,
	logger *logrus.Logger,
) *RecommendationHandler {
	return &RecommendationHandler{
		recommender: recommender,
		logger:      logger,
	}
}

func (h *RecommendationHandler) Get(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	title := c.Query("title")
	if title == "" {
		respondError(c, http.StatusBadRequest, "MISSING_TITLE", "title is required")
		return
	}

	// Zero lets the service apply its default count.
	k := 0
	if kStr := c.Query("k"); kStr != "" {
		parsed, err := strconv.Atoi(kStr)
		if err != nil || parsed < 1 {
			respondError(c, http.StatusBadRequest, "INVALID_COUNT", "k must be a positive integer")
			return
		}
		k = parsed
	}

	result, err := h.recommender.Recommend(c.Request.Context(), identity, title, k)
	if err != nil {
		respondServiceError(c, h.logger, err, "RECOMMENDATION_GENERATION_FAILED", "Failed to generate recommendations")
		return
	}

	c.JSON(http.StatusOK, result)
}
