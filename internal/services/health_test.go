package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthService_CheckHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name        string
		opts        []HealthOption
		wantStatus  string
		wantCrit    []string
		wantNonCrit []string
	}{
		{
			name:       "all healthy",
			opts:       []HealthOption{WithCheck("postgresql", true, ok), WithCheck("redis_warm", false, ok)},
			wantStatus: "healthy",
		},
		{
			name:        "cache down degrades",
			opts:        []HealthOption{WithCheck("postgresql", true, ok), WithCheck("redis_warm", false, down)},
			wantStatus:  "degraded",
			wantNonCrit: []string{"redis_warm"},
		},
		{
			name:       "database down",
			opts:       []HealthOption{WithCheck("postgresql", true, down), WithCheck("redis_warm", false, ok)},
			wantStatus: "unhealthy",
			wantCrit:   []string{"postgresql"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewHealthService(testLogger(), tt.opts...)
			status := svc.CheckHealth(context.Background())

			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, tt.wantCrit, status.Critical)
			assert.Equal(t, tt.wantNonCrit, status.NonCritical)
			assert.Len(t, status.Services, 2)
		})
	}
}

func TestHealthService_Details(t *testing.T) {
	svc := NewHealthService(testLogger(), WithDetails(func() map[string]interface{} {
		return map[string]interface{}{"catalog_titles": 3}
	}))

	status := svc.CheckHealth(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, 3, status.Details["catalog_titles"])
}
