package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/carbonsense/backend/internal/domain"
	"github.com/carbonsense/backend/pkg/utils"
)

// DefaultEstimateTimeout bounds all external calls of one request
const DefaultEstimateTimeout = 10 * time.Second

// Estimator combines the Climatiq lookup with the local fallback model
type Estimator struct {
	client  FactorClient
	factors *domain.FactorTable
	timeout time.Duration
	metrics *Metrics
}

// NewEstimator creates a new estimator. A nil client means no credential is
// configured and every category is computed offline.
func NewEstimator(client FactorClient, factors *domain.FactorTable, timeout time.Duration, metrics *Metrics) *Estimator {
	if factors == nil {
		factors = domain.DefaultFactors()
	}
	if timeout <= 0 {
		timeout = DefaultEstimateTimeout
	}
	return &Estimator{
		client:  client,
		factors: factors,
		timeout: timeout,
		metrics: metrics,
	}
}

// Online reports whether the external service is configured
func (e *Estimator) Online() bool {
	return e.client != nil
}

// Mode is the provenance a fully healthy request would report
func (e *Estimator) Mode() domain.Provenance {
	if e.Online() {
		return domain.ProvenanceExternal
	}
	return domain.ProvenanceFallback
}

// Estimate computes the footprint of one request. Per-category failures are
// logged and resolved locally, so it never fails.
func (e *Estimator) Estimate(ctx context.Context, in domain.ActivityInput) domain.EstimationResult {
	results := make([]domain.CategoryResult, len(domain.Categories))

	if !e.Online() {
		for i, c := range domain.Categories {
			results[i] = fallbackResult(e.factors, c, in)
		}
		return e.finish(in, results)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	// Resolve categories concurrently; each goroutine owns its slot
	var g errgroup.Group
	for i, c := range domain.Categories {
		g.Go(func() error {
			results[i] = e.resolve(ctx, c, in)
			return nil
		})
	}
	_ = g.Wait()

	return e.finish(in, results)
}

func (e *Estimator) finish(in domain.ActivityInput, results []domain.CategoryResult) domain.EstimationResult {
	res := domain.Aggregate(in, results, e.Online())
	e.metrics.observeEstimate(res)
	return res
}

// resolve runs the per-category state machine: look up the factor, call
// Climatiq when allowed, fall back on anything else
func (e *Estimator) resolve(ctx context.Context, c domain.Category, in domain.ActivityInput) domain.CategoryResult {
	if !domain.HasExternalRoute(c) {
		return fallbackResult(e.factors, c, in)
	}

	factor, ok := e.factors.Lookup(c, in.Subtype(c))
	if !ok || factor.ID == "" || !quantityAllowsLookup(c, in.Quantity(c)) {
		return fallbackResult(e.factors, c, in)
	}

	started := time.Now()
	co2e, err := e.client.Estimate(ctx, factor.ID, requestParameters(c, in))
	e.metrics.observeExternalCall(c, started, err)
	if err != nil {
		log.Warn().
			Err(err).
			Str("category", string(c)).
			Str("factor_id", factor.ID).
			Msg("Climatiq estimate failed, using fallback")
		return fallbackResult(e.factors, c, in)
	}

	return domain.CategoryResult{
		Category:   c,
		CO2eKg:     utils.RoundTo(co2e, 2),
		Provenance: domain.ProvenanceExternal,
	}
}

// quantityAllowsLookup reports whether a quantity is worth an external call.
// Travel and electricity need a positive amount; food is a unit lookup.
func quantityAllowsLookup(c domain.Category, quantity float64) bool {
	switch c {
	case domain.CategoryTravel, domain.CategoryElectricity:
		return quantity > 0
	default:
		return true
	}
}

// requestParameters builds the Climatiq parameter payload of a category
func requestParameters(c domain.Category, in domain.ActivityInput) map[string]any {
	switch c {
	case domain.CategoryTravel:
		return map[string]any{"distance": in.TravelKm, "distance_unit": "km"}
	case domain.CategoryElectricity:
		return map[string]any{"energy": in.KWh, "energy_unit": "kWh"}
	case domain.CategoryFood:
		return map[string]any{"quantity": 1}
	default:
		return map[string]any{}
	}
}
