package cli

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/carbonsense/backend/internal/config"
	"github.com/carbonsense/backend/internal/service"
)

// EstimateParams holds the flags of the estimate command
type EstimateParams struct {
	TravelKm   float64
	TravelMode string
	KWh        float64
	Food       string
	Waste      float64
	Offline    bool
}

// NewEstimateCmd creates the "estimate" subcommand
func NewEstimateCmd(cfg *config.Config) *cobra.Command {
	var params EstimateParams

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the footprint of one set of activities",
		Long: `Estimate the daily kg CO2e of travel, electricity, food and monthly waste.

Examples:
  # Commute by car and a vegetarian diet
  footprint estimate --travel-km 40 --travel-mode car --food veg

  # Household electricity and waste, without calling Climatiq
  footprint estimate --kwh 12 --waste 30 --offline`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEstimate(cmd, cfg, params)
		},
	}

	cmd.Flags().Float64Var(&params.TravelKm, "travel-km", 0, "Distance travelled in km")
	cmd.Flags().StringVar(&params.TravelMode, "travel-mode", "car", "Travel mode (car, scooter, bus, train, ev, walk, cycle)")
	cmd.Flags().Float64Var(&params.KWh, "kwh", 0, "Electricity used in kWh")
	cmd.Flags().StringVar(&params.Food, "food", "mixed", "Diet (meat, mixed, veg)")
	cmd.Flags().Float64Var(&params.Waste, "waste", 0, "Waste produced in kg per month")
	cmd.Flags().BoolVar(&params.Offline, "offline", false, "Use local factors only")

	return cmd
}

func runEstimate(cmd *cobra.Command, cfg *config.Config, params EstimateParams) error {
	// Flags go through the same normalizer as HTTP payloads
	input := service.NormalizeInput(map[string]any{
		"travelKm":        params.TravelKm,
		"travelMode":      params.TravelMode,
		"kWh":             params.KWh,
		"foodCategory":    params.Food,
		"wasteKgPerMonth": params.Waste,
	})

	estimator := service.NewEstimator(newFactorClient(cfg, params.Offline), nil, cfg.ClimatiqTimeout, nil)
	result := estimator.Estimate(cmd.Context(), input)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("cli: failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
