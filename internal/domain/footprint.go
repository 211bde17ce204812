package domain

import (
	"github.com/carbonsense/backend/pkg/utils"
)

// Category is one of the four fixed activity categories
type Category string

const (
	CategoryTravel      Category = "travel"
	CategoryElectricity Category = "electricity"
	CategoryFood        Category = "food"
	CategoryWaste       Category = "waste"
)

// Categories lists every category in breakdown order
var Categories = []Category{CategoryTravel, CategoryElectricity, CategoryFood, CategoryWaste}

// Provenance tells where a CO2e value came from
type Provenance string

const (
	ProvenanceExternal Provenance = "climatiq"
	ProvenanceFallback Provenance = "fallback"
	ProvenanceMixed    Provenance = "mixed"
)

// Travel modes
const (
	TravelModeCar     = "car"
	TravelModeScooter = "scooter"
	TravelModeBus     = "bus"
	TravelModeTrain   = "train"
	TravelModeEV      = "ev"
	TravelModeWalk    = "walk"
	TravelModeCycle   = "cycle"
)

// Food categories
const (
	FoodMeat  = "meat"
	FoodMixed = "mixed"
	FoodVeg   = "veg"
)

// DefaultSubtype is the subtype key used by categories without subtypes
const DefaultSubtype = "default"

// ActivityInput is a normalized calculation request.
// JSON names match the payload keys so the echoed input can be fed back in.
type ActivityInput struct {
	TravelKm        float64 `json:"travelKm"`
	TravelMode      string  `json:"travelMode"`
	KWh             float64 `json:"kWh"`
	FoodCategory    string  `json:"foodCategory"`
	WasteKgPerMonth float64 `json:"wasteKgPerMonth"`
}

// Subtype returns the subtype key of a category for this input
func (in ActivityInput) Subtype(c Category) string {
	switch c {
	case CategoryTravel:
		return in.TravelMode
	case CategoryFood:
		return in.FoodCategory
	default:
		return DefaultSubtype
	}
}

// Quantity returns the raw quantity of a category for this input.
// Food is not quantity-scaled and always reports one unit.
func (in ActivityInput) Quantity(c Category) float64 {
	switch c {
	case CategoryTravel:
		return in.TravelKm
	case CategoryElectricity:
		return in.KWh
	case CategoryFood:
		return 1
	case CategoryWaste:
		return in.WasteKgPerMonth
	default:
		return 0
	}
}

// CategoryResult is the resolved emission of a single category
type CategoryResult struct {
	Category   Category
	CO2eKg     float64
	Provenance Provenance
}

// Breakdown holds per-category kg CO2e
type Breakdown struct {
	Travel      float64 `json:"travel"`
	Electricity float64 `json:"electricity"`
	Food        float64 `json:"food"`
	Waste       float64 `json:"waste"`
}

// EstimationResult is the response contract of a footprint calculation
type EstimationResult struct {
	Total        float64                 `json:"total"`
	Breakdown    Breakdown               `json:"breakdown"`
	Used         Provenance              `json:"used"`
	Sources      map[Category]Provenance `json:"sources"`
	OriginalData ActivityInput           `json:"originalData"`
}

// HasExternalRoute reports whether a category can ever be resolved by the
// external service. Waste is always computed locally.
func HasExternalRoute(c Category) bool {
	return c != CategoryWaste
}

// Aggregate folds independent category results into one EstimationResult.
// online tells whether the external service was configured for this request.
func Aggregate(in ActivityInput, results []CategoryResult, online bool) EstimationResult {
	out := EstimationResult{
		Sources:      make(map[Category]Provenance, len(results)),
		OriginalData: in,
	}

	var total float64
	for _, r := range results {
		value := utils.RoundTo(r.CO2eKg, 2)
		total += value
		out.Sources[r.Category] = r.Provenance

		switch r.Category {
		case CategoryTravel:
			out.Breakdown.Travel = value
		case CategoryElectricity:
			out.Breakdown.Electricity = value
		case CategoryFood:
			out.Breakdown.Food = value
		case CategoryWaste:
			out.Breakdown.Waste = value
		}
	}

	out.Total = utils.RoundTo(total, 2)
	out.Used = OverallProvenance(results, online)
	return out
}

// OverallProvenance tags a whole request. Offline requests are "fallback".
// Online requests are "climatiq" when every category with an external route
// was answered externally and "mixed" otherwise; waste is local and ignored.
func OverallProvenance(results []CategoryResult, online bool) Provenance {
	if !online {
		return ProvenanceFallback
	}

	for _, r := range results {
		if HasExternalRoute(r.Category) && r.Provenance != ProvenanceExternal {
			return ProvenanceMixed
		}
	}
	return ProvenanceExternal
}
