package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/carbonsense/backend/pkg/utils"
)

// DefaultClimatiqBaseURL is the public Climatiq API
const DefaultClimatiqBaseURL = "https://beta3.api.climatiq.org"

// maxErrorBody bounds how much of a failed response is kept in ServiceError
const maxErrorBody = 1024

// ClimatiqClient handles communication with the Climatiq estimation API
type ClimatiqClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClimatiqClient creates a new Climatiq client. ratePerSecond <= 0 disables
// the local rate limit.
func NewClimatiqClient(baseURL, apiKey string, ratePerSecond float64) *ClimatiqClient {
	if baseURL == "" {
		baseURL = DefaultClimatiqBaseURL
	}

	c := &ClimatiqClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	if ratePerSecond > 0 {
		burst := int(ratePerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(ratePerSecond), burst)
	}
	return c
}

type estimateRequest struct {
	EmissionFactor emissionFactor `json:"emission_factor"`
	Parameters     map[string]any `json:"parameters"`
}

type emissionFactor struct {
	ID string `json:"id"`
}

// Estimate asks Climatiq for the kg CO2e of an emission factor applied to params.
// A response without a numeric co2e field counts as 0.
func (c *ClimatiqClient) Estimate(ctx context.Context, factorID string, params map[string]any) (float64, error) {
	if c.limiter != nil && !c.limiter.Allow() {
		return 0, ErrRateLimited
	}

	// Prepare request body
	body, err := json.Marshal(estimateRequest{
		EmissionFactor: emissionFactor{ID: factorID},
		Parameters:     params,
	})
	if err != nil {
		return 0, fmt.Errorf("climatiq: failed to marshal request: %w", err)
	}

	// Create HTTP request
	url := fmt.Sprintf("%s/estimate", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("climatiq: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	// Execute request
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return 0, &ServiceError{StatusCode: resp.StatusCode, Body: string(text)}
	}

	// Parse response
	var decoded any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		if ctx.Err() != nil {
			return 0, &TransportError{Err: err}
		}
		return 0, fmt.Errorf("climatiq: failed to decode response: %w", err)
	}

	fields, ok := decoded.(map[string]any)
	if !ok {
		return 0, nil
	}
	co2e, _ := utils.ToNumber(fields["co2e"])
	return co2e, nil
}
