package cmd

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-telematics/kamereon"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show battery, cockpit, climate, and location for the selected vehicle",
	Long:  "Reads the car-adapter endpoints for the selected vehicle. Endpoints the vehicle does not support are skipped.",
	RunE:  runStatus,
}

func init() {
	RootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := buildClient()
	if err != nil {
		return err
	}
	vehicle, err := resolveVehicle(cmd.Context(), client, client.Profile())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Vehicle %s\n", vehicle.VIN())

	battery, err := vehicle.BatteryStatus(ctx)
	switch {
	case errors.Is(err, kamereon.ErrNotSupported):
	case err != nil:
		return err
	default:
		if battery.BatteryLevel != nil {
			fmt.Fprintf(out, "  Battery: %d%%\n", *battery.BatteryLevel)
		}
		if battery.BatteryAutonomy != nil {
			fmt.Fprintf(out, "  Autonomy: %.0f km\n", *battery.BatteryAutonomy)
		}
		if battery.PlugStatus != nil {
			fmt.Fprintf(out, "  Plugged: %v\n", *battery.PlugStatus != 0)
		}
		if battery.ChargingRemainingTime != nil {
			fmt.Fprintf(out, "  Charge remaining: %d min\n", *battery.ChargingRemainingTime)
		}
	}

	cockpit, err := vehicle.Cockpit(ctx)
	switch {
	case errors.Is(err, kamereon.ErrNotSupported):
	case err != nil:
		return err
	default:
		if cockpit.TotalMileage != nil {
			fmt.Fprintf(out, "  Mileage: %.1f km\n", *cockpit.TotalMileage)
		}
		if cockpit.FuelQuantity != nil {
			fmt.Fprintf(out, "  Fuel: %.1f L\n", *cockpit.FuelQuantity)
		}
	}

	hvac, err := vehicle.HvacStatus(ctx)
	switch {
	case errors.Is(err, kamereon.ErrNotSupported):
	case err != nil:
		return err
	default:
		if hvac.HvacStatus != "" {
			fmt.Fprintf(out, "  Climate: %s\n", hvac.HvacStatus)
		}
		if hvac.ExternalTemperature != nil {
			fmt.Fprintf(out, "  Outside temperature: %.1f C\n", *hvac.ExternalTemperature)
		}
	}

	location, err := vehicle.Location(ctx)
	switch {
	case errors.Is(err, kamereon.ErrNotSupported):
	case err != nil:
		return err
	default:
		if location.Latitude != nil && location.Longitude != nil {
			fmt.Fprintf(out, "  Location: %.5f, %.5f (as of %s)\n",
				*location.Latitude, *location.Longitude, location.LastUpdateTime)
		}
	}

	return nil
}
