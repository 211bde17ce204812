package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/carbonsense/backend/internal/domain"
	"github.com/carbonsense/backend/pkg/utils"
)

// ErrMalformedBody is returned when a request body is not a JSON object
var ErrMalformedBody = errors.New("normalizer: request body is not a JSON object")

// Payload keys accepted for each field, in priority order. The frontend has
// sent several names over time (family calculator, diet selector, ...).
var (
	travelKmKeys   = []string{"travelKm", "familyTravelKm"}
	travelModeKeys = []string{"travelMode", "vehicleType"}
	kWhKeys        = []string{"kWh", "familyKwh"}
	foodKeys       = []string{"foodCategory", "diet", "familyDiet"}
	wasteKeys      = []string{"wasteKgPerMonth", "waste", "familyWaste"}
)

// DecodePayload parses a raw request body into a loosely typed payload.
// An empty body or JSON null yields an empty payload.
func DecodePayload(body []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	switch v := raw.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrMalformedBody, raw)
	}
}

// NormalizeInput coerces a payload into an ActivityInput. It never fails:
// unusable numbers become 0 and unknown enum values become the category default.
func NormalizeInput(payload map[string]any) domain.ActivityInput {
	return NormalizeInputWith(domain.DefaultFactors(), payload)
}

// NormalizeInputWith is NormalizeInput against an explicit factor table
func NormalizeInputWith(factors *domain.FactorTable, payload map[string]any) domain.ActivityInput {
	return domain.ActivityInput{
		TravelKm:        numberField(payload, travelKmKeys),
		TravelMode:      enumField(factors, domain.CategoryTravel, payload, travelModeKeys),
		KWh:             numberField(payload, kWhKeys),
		FoodCategory:    enumField(factors, domain.CategoryFood, payload, foodKeys),
		WasteKgPerMonth: numberField(payload, wasteKeys),
	}
}

// firstUsable returns the first alias holding a value that is not
// null, false, empty or zero
func firstUsable(payload map[string]any, keys []string) any {
	for _, key := range keys {
		v, ok := payload[key]
		if !ok {
			continue
		}
		switch tv := v.(type) {
		case nil:
			continue
		case bool:
			if !tv {
				continue
			}
		case string:
			if tv == "" {
				continue
			}
		default:
			if n, ok := utils.ToNumber(tv); ok && n == 0 {
				continue
			}
		}
		return v
	}
	return nil
}

func numberField(payload map[string]any, keys []string) float64 {
	n, ok := utils.ToNumber(firstUsable(payload, keys))
	if !ok {
		return 0
	}
	return utils.NonNegative(n)
}

func enumField(factors *domain.FactorTable, c domain.Category, payload map[string]any, keys []string) string {
	s, ok := firstUsable(payload, keys).(string)
	if !ok {
		return factors.DefaultSubtype(c)
	}

	subtype := strings.ToLower(s)
	if _, known := factors.Lookup(c, subtype); !known {
		return factors.DefaultSubtype(c)
	}
	return subtype
}
