package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/temcen/cineai/internal/config"
	"github.com/temcen/cineai/pkg/models"
)

const tokenIssuer = "github.com/temcen/cineai"

type AuthService struct {
	config      *config.Config
	logger      *logrus.Logger
	redisClient *redis.Client
	jwtSecret   []byte
}

// NewAuthService builds the token service. redisClient may be nil, in which
// case tokens are not tracked server side and cannot be revoked early.
func NewAuthService(cfg *config.Config, logger *logrus.Logger, redisClient *redis.Client) *AuthService {
	return &AuthService{
		config:      cfg,
		logger:      logger,
		redisClient: redisClient,
		jwtSecret:   []byte(cfg.Auth.JWTSecret),
	}
}

func sessionKey(id uuid.UUID) string {
	return fmt.Sprintf("session:%s", id.String())
}

func (s *AuthService) GenerateToken(identity models.Identity) (string, *models.JWTClaims, error) {
	now := time.Now()
	claims := &models.JWTClaims{
		SessionID: identity.SessionID,
		Username:  identity.Username,
		Guest:     identity.Guest,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.OwnerKey(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Auth.TokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	// Store token in Redis for session management
	if s.redisClient != nil {
		err = s.redisClient.Set(context.Background(), sessionKey(identity.SessionID), tokenString, s.config.Auth.TokenTTL).Err()
		if err != nil {
			s.logger.WithError(err).Warn("Failed to store session in Redis")
			// Don't fail token generation if Redis is down
		}
	}

	return tokenString, claims, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if s.redisClient == nil {
		return claims, nil
	}

	// Check if session exists in Redis
	exists, err := s.redisClient.Exists(context.Background(), sessionKey(claims.SessionID)).Result()
	if err != nil {
		s.logger.WithError(err).Warn("Failed to check session in Redis")
		// Continue validation even if Redis is down
	} else if exists == 0 {
		return nil, ErrSessionExpired
	}

	return claims, nil
}

func (s *AuthService) RevokeToken(sessionID uuid.UUID) error {
	if s.redisClient == nil {
		return nil
	}
	if err := s.redisClient.Del(context.Background(), sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}
