package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/cineai/internal/services"
	"github.com/temcen/cineai/pkg/models"
)

type AuthHandler struct {
	logger   *logrus.Logger
	accounts services.AccountServiceInterface
}

func NewAuthHandler(logger *logrus.Logger, accounts services.AccountServiceInterface) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		accounts: accounts,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.accounts.Register(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.logger, err, "REGISTRATION_FAILED", "Failed to register account")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.accounts.Login(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.logger, err, "LOGIN_FAILED", "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Guest(c *gin.Context) {
	resp, err := h.accounts.Guest(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err, "LOGIN_FAILED", "Failed to start guest session")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	if err := h.accounts.Logout(c.Request.Context(), identity); err != nil {
		respondServiceError(c, h.logger, err, "LOGOUT_FAILED", "Failed to log out")
		return
	}

	c.Status(http.StatusNoContent)
}
