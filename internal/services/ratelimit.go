package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/temcen/cineai/internal/config"
	"github.com/temcen/cineai/pkg/models"
)

type RateLimitService struct {
	config      *config.Config
	logger      *logrus.Logger
	redisClient *redis.Client
}

func NewRateLimitService(cfg *config.Config, logger *logrus.Logger, redisClient *redis.Client) *RateLimitService {
	return &RateLimitService{
		config:      cfg,
		logger:      logger,
		redisClient: redisClient,
	}
}

// Rate limit tiers.
const (
	TierDefault = "default"
	TierGuest   = "guest"
)

// TierFor returns the rate limit tier of an identity.
func TierFor(identity models.Identity) string {
	if identity.Guest {
		return TierGuest
	}
	return TierDefault
}

func (s *RateLimitService) CheckLimit(owner, userTier string) (*models.RateLimitInfo, error) {
	limit := s.getLimitForTier(userTier)
	window := s.config.Auth.RateLimit.Window

	now := time.Now()
	if s.redisClient == nil {
		return &models.RateLimitInfo{Limit: limit, Remaining: limit, ResetTime: now.Add(window).Unix()}, nil
	}

	key := fmt.Sprintf("rate_limit:user:%s", owner)

	// Use sliding window rate limiting
	windowStart := now.Add(-window)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Redis pipeline for atomic operations
	pipe := s.redisClient.Pipeline()

	// Remove expired entries
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.Unix(), 10))

	// Count current requests in window
	countCmd := pipe.ZCard(ctx, key)

	// Add current request
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.Unix()),
		Member: fmt.Sprintf("%d", now.UnixNano()),
	})

	// Set expiration
	pipe.Expire(ctx, key, window)

	_, err := pipe.Exec(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to execute rate limit pipeline")
		// Return permissive result if Redis is down
		return &models.RateLimitInfo{
			Limit:     limit,
			Remaining: limit - 1,
			ResetTime: now.Add(window).Unix(),
		}, nil
	}

	currentCount := int(countCmd.Val())
	remaining := limit - currentCount
	if remaining < 0 {
		remaining = 0
	}

	resetTime := now.Add(window).Unix()

	return &models.RateLimitInfo{
		Limit:     limit,
		Remaining: remaining,
		ResetTime: resetTime,
	}, nil
}

func (s *RateLimitService) IsAllowed(owner, userTier string) (bool, *models.RateLimitInfo, error) {
	info, err := s.CheckLimit(owner, userTier)
	if err != nil {
		return false, nil, err
	}

	allowed := info.Remaining > 0
	return allowed, info, nil
}

func (s *RateLimitService) getLimitForTier(userTier string) int {
	switch userTier {
	case TierGuest:
		return s.config.Auth.RateLimit.Guest
	default:
		return s.config.Auth.RateLimit.Default
	}
}
