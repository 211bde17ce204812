package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func results(travel, electricity, food Provenance) []CategoryResult {
	return []CategoryResult{
		{Category: CategoryTravel, CO2eKg: 1, Provenance: travel},
		{Category: CategoryElectricity, CO2eKg: 1, Provenance: electricity},
		{Category: CategoryFood, CO2eKg: 1, Provenance: food},
		{Category: CategoryWaste, CO2eKg: 1, Provenance: ProvenanceFallback},
	}
}

func TestOverallProvenance(t *testing.T) {
	ext, fb := ProvenanceExternal, ProvenanceFallback

	t.Run("online", func(t *testing.T) {
		assert.Equal(t, ProvenanceExternal, OverallProvenance(results(ext, ext, ext), true))
		assert.Equal(t, ProvenanceMixed, OverallProvenance(results(ext, fb, ext), true))
		assert.Equal(t, ProvenanceMixed, OverallProvenance(results(fb, fb, ext), true))
		// Every call failed, but a credential was configured
		assert.Equal(t, ProvenanceMixed, OverallProvenance(results(fb, fb, fb), true))
	})

	t.Run("offline", func(t *testing.T) {
		assert.Equal(t, ProvenanceFallback, OverallProvenance(results(fb, fb, fb), false))
	})
}

func TestAggregate_SumsRoundedBreakdown(t *testing.T) {
	in := ActivityInput{TravelKm: 100, TravelMode: TravelModeCar, FoodCategory: FoodVeg, WasteKgPerMonth: 30}
	res := Aggregate(in, []CategoryResult{
		{Category: CategoryTravel, CO2eKg: 24.0000001, Provenance: ProvenanceFallback},
		{Category: CategoryElectricity, CO2eKg: 0, Provenance: ProvenanceFallback},
		{Category: CategoryFood, CO2eKg: 0.29, Provenance: ProvenanceFallback},
		{Category: CategoryWaste, CO2eKg: 0.5, Provenance: ProvenanceFallback},
	}, false)

	assert.Equal(t, Breakdown{Travel: 24, Electricity: 0, Food: 0.29, Waste: 0.5}, res.Breakdown)
	assert.Equal(t, 24.79, res.Total)
	assert.Equal(t, ProvenanceFallback, res.Used)
	assert.Equal(t, in, res.OriginalData)
	assert.Len(t, res.Sources, 4)
}

func TestActivityInput_SubtypeAndQuantity(t *testing.T) {
	in := ActivityInput{TravelKm: 12, TravelMode: TravelModeBus, KWh: 3, FoodCategory: FoodMeat, WasteKgPerMonth: 9}

	assert.Equal(t, TravelModeBus, in.Subtype(CategoryTravel))
	assert.Equal(t, FoodMeat, in.Subtype(CategoryFood))
	assert.Equal(t, DefaultSubtype, in.Subtype(CategoryElectricity))
	assert.Equal(t, DefaultSubtype, in.Subtype(CategoryWaste))

	assert.Equal(t, 12.0, in.Quantity(CategoryTravel))
	assert.Equal(t, 3.0, in.Quantity(CategoryElectricity))
	assert.Equal(t, 1.0, in.Quantity(CategoryFood))
	assert.Equal(t, 9.0, in.Quantity(CategoryWaste))
}
