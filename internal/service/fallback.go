package service

import (
	"github.com/carbonsense/backend/internal/domain"
	"github.com/carbonsense/backend/pkg/utils"
)

// FallbackCategory computes a category's kg CO2e from the embedded rates
func FallbackCategory(c domain.Category, subtype string, quantity float64) float64 {
	return fallbackCategory(domain.DefaultFactors(), c, subtype, quantity)
}

func fallbackCategory(factors *domain.FactorTable, c domain.Category, subtype string, quantity float64) float64 {
	quantity = utils.NonNegative(quantity)
	rate := factors.Resolve(c, subtype).Rate

	switch c {
	case domain.CategoryTravel, domain.CategoryElectricity:
		return quantity * rate
	case domain.CategoryFood:
		// One meal-per-day equivalent, not scaled by quantity
		return rate
	case domain.CategoryWaste:
		return quantity / factors.DaysPerMonth() * rate
	default:
		return 0
	}
}

// fallbackResult resolves a category from the local model
func fallbackResult(factors *domain.FactorTable, c domain.Category, in domain.ActivityInput) domain.CategoryResult {
	return domain.CategoryResult{
		Category:   c,
		CO2eKg:     utils.RoundTo(fallbackCategory(factors, c, in.Subtype(c), in.Quantity(c)), 2),
		Provenance: domain.ProvenanceFallback,
	}
}
