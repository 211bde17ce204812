package service

import (
	"context"

	"github.com/carbonsense/backend/internal/domain"
)

// ActivityRepository is re-exported from domain for convenience
type ActivityRepository = domain.ActivityRepository

// FactorClient resolves a CO2e quantity in kg for an external emission factor
type FactorClient interface {
	Estimate(ctx context.Context, factorID string, params map[string]any) (float64, error)
}
