package cmd

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-telematics/kamereon"
	"github.com/spf13/cobra"
)

var (
	hvacTemperature float64
	hvacStart       string
)

var hvacCmd = &cobra.Command{
	Use:   "hvac",
	Short: "Control the climate system",
}

var hvacStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start pre-conditioning",
	RunE:  runHvacStart,
}

var hvacStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop pre-conditioning",
	RunE:  runHvacStop,
}

func init() {
	hvacStartCmd.Flags().Float64VarP(&hvacTemperature, "temperature", "t", 21, "Target cabin temperature in Celsius")
	hvacStartCmd.Flags().StringVar(&hvacStart, "at", "", "Scheduled start as HH:MM (immediate when omitted)")

	hvacCmd.AddCommand(hvacStartCmd, hvacStopCmd)
	RootCmd.AddCommand(hvacCmd)
}

func runHvacStart(cmd *cobra.Command, args []string) error {
	client, err := buildClient()
	if err != nil {
		return err
	}
	vehicle, err := resolveVehicle(cmd.Context(), client, client.Profile())
	if err != nil {
		return err
	}

	startTime := ""
	if clock := strings.TrimSpace(hvacStart); clock != "" {
		startTime, err = kamereon.FormatStartTime(clock)
		if err != nil {
			return err
		}
	}

	if _, err := vehicle.StartHvac(cmd.Context(), hvacTemperature, startTime); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Climate start requested.")
	return nil
}

func runHvacStop(cmd *cobra.Command, args []string) error {
	client, err := buildClient()
	if err != nil {
		return err
	}
	vehicle, err := resolveVehicle(cmd.Context(), client, client.Profile())
	if err != nil {
		return err
	}
	if _, err := vehicle.StopHvac(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Climate stop requested.")
	return nil
}
