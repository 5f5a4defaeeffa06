package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/temcen/cineai/internal/catalog"
	"github.com/temcen/cineai/internal/middleware"
	"github.com/temcen/cineai/internal/services"
	"github.com/temcen/cineai/internal/users"
	"github.com/temcen/cineai/pkg/models"
)

type apiError struct {
	status  int
	code    string
	message string
}

// knownErrors maps domain errors to their HTTP rendering, checked in order.
var knownErrors = []struct {
	target error
	apiError
}{
	{catalog.ErrTitleNotFound, apiError{http.StatusNotFound, "TITLE_NOT_FOUND", "Title is not in the catalog"}},
	{catalog.ErrNoCandidates, apiError{http.StatusNotFound, "NO_CANDIDATES", "No other titles to choose from"}},
	{services.ErrAlreadyInWatchlist, apiError{http.StatusConflict, "ALREADY_IN_WATCHLIST", "Title is already in the watchlist"}},
	{services.ErrNotInWatchlist, apiError{http.StatusNotFound, "NOT_IN_WATCHLIST", "Title is not in the watchlist"}},
	{services.ErrWatchlistSave, apiError{http.StatusInternalServerError, "WATCHLIST_SAVE_FAILED", "Failed to save watchlist"}},
	{services.ErrWatchlistLoad, apiError{http.StatusInternalServerError, "WATCHLIST_LOAD_FAILED", "Failed to load watchlist"}},
	{services.ErrInvalidName, apiError{http.StatusBadRequest, "INVALID_NAME", "name must not be blank"}},
	{services.ErrInvalidSort, apiError{http.StatusBadRequest, "INVALID_SORT", "sort must be one of recent, az, unwatched"}},
	{services.ErrInvalidWindow, apiError{http.StatusBadRequest, "INVALID_WINDOW", "window must be day or week"}},
	{users.ErrUserExists, apiError{http.StatusConflict, "USERNAME_TAKEN", "Username is already taken"}},
	{users.ErrReservedUsername, apiError{http.StatusBadRequest, "RESERVED_USERNAME", "Username is reserved"}},
	{users.ErrPasswordTooLong, apiError{http.StatusBadRequest, "PASSWORD_TOO_LONG", "Password must be at most 72 bytes"}},
	{users.ErrInvalidCredentials, apiError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password"}},
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondServiceError renders err as a known error, or as a 500 with
// fallbackCode after logging it.
func respondServiceError(c *gin.Context, logger *logrus.Logger, err error, fallbackCode, fallbackMessage string) {
	for _, known := range knownErrors {
		if errors.Is(err, known.target) {
			if known.status >= http.StatusInternalServerError {
				logger.WithError(err).Error(known.message)
			}
			respondError(c, known.status, known.code, known.message)
			return
		}
	}

	logger.WithError(err).Error(fallbackMessage)
	respondError(c, http.StatusInternalServerError, fallbackCode, fallbackMessage)
}

// respondBindError renders a request binding failure, listing per-field
// validation failures when there are any.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Invalid request format",
				"details": err.Error(),
			},
		})
		return
	}

	fieldErrors := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fieldErrors[fe.Field()] = append(fieldErrors[fe.Field()], fieldMessage(fe))
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"error": gin.H{
			"code":    "VALIDATION_FAILED",
			"message": "Request validation failed",
			"details": gin.H{"fieldErrors": fieldErrors},
		},
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "alphanum":
		return "must contain only letters and digits"
	case "url":
		return "must be a valid URL"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// requireIdentity returns the caller set by the auth middleware, answering
// 401 when it is missing.
func requireIdentity(c *gin.Context) (models.Identity, bool) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
	}
	return identity, ok
}
