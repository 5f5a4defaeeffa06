package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GuestUsername is the display identity handed to anonymous sessions.
const GuestUsername = "guest"

type JWTClaims struct {
	SessionID uuid.UUID `json:"session_id"`
	Username  string    `json:"username"`
	Guest     bool      `json:"guest"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	SessionID uuid.UUID `json:"session_id"`
	Username  string    `json:"username"`
	Guest     bool      `json:"guest"`
}

// OwnerKey returns the key the caller's watchlist is stored under. Guests are
// scoped to their session so two guest sessions never share a list.
func (i Identity) OwnerKey() string {
	if i.Guest {
		return "guest:" + i.SessionID.String()
	}
	return i.Username
}

type RegisterRequest struct {
	Username    string `json:"username" binding:"required,alphanum,min=3,max=32"`
	DisplayName string `json:"display_name" binding:"required,min=1,max=64"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Guest       bool      `json:"guest"`
}

type RateLimitInfo struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}
