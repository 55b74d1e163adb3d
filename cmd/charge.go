package cmd

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-telematics/kamereon"
	"github.com/spf13/cobra"
)

var (
	scheduleID       int
	scheduleDay      string
	scheduleStart    string
	scheduleDuration int
	scheduleClear    bool
)

var chargeCmd = &cobra.Command{
	Use:   "charge",
	Short: "Inspect and control charging",
}

var chargeModeCmd = &cobra.Command{
	Use:   "mode [always|always_charging|schedule_mode]",
	Short: "Show or set the charge mode",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runChargeMode,
}

var chargeStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start charging now",
	RunE:  runChargeStart,
}

var chargeScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show the charge schedules, or update one day",
	Long: `Without flags, prints the configured charge schedules.
With --id and --day, replaces that day's slot: --start HH:MM and
--duration (minutes, multiple of 15) set it, --clear removes it.`,
	RunE: runChargeSchedule,
}

func init() {
	chargeScheduleCmd.Flags().IntVar(&scheduleID, "id", 1, "Schedule id to modify")
	chargeScheduleCmd.Flags().StringVar(&scheduleDay, "day", "", "Weekday to modify, e.g. monday")
	chargeScheduleCmd.Flags().StringVar(&scheduleStart, "start", "", "Start time as HH:MM")
	chargeScheduleCmd.Flags().IntVar(&scheduleDuration, "duration", 0, "Duration in minutes (multiple of 15)")
	chargeScheduleCmd.Flags().BoolVar(&scheduleClear, "clear", false, "Remove the day's slot")

	chargeCmd.AddCommand(chargeModeCmd, chargeStartCmd, chargeScheduleCmd)
	RootCmd.AddCommand(chargeCmd)
}

func runChargeMode(cmd *cobra.Command, args []string) error {
	client, err := buildClient()
	if err != nil {
		return err
	}
	vehicle, err := resolveVehicle(cmd.Context(), client, client.Profile())
	if err != nil {
		return err
	}

	if len(args) == 0 {
		mode, err := vehicle.ChargeMode(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Charge mode: %s\n", mode.ChargeMode)
		return nil
	}

	if _, err := vehicle.SetChargeMode(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Charge mode set to %s.\n", args[0])
	return nil
}

func runChargeStart(cmd *cobra.Command, args []string) error {
	client, err := buildClient()
	if err != nil {
		return err
	}
	vehicle, err := resolveVehicle(cmd.Context(), client, client.Profile())
	if err != nil {
		return err
	}
	if _, err := vehicle.StartCharging(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Charging requested.")
	return nil
}

func runChargeSchedule(cmd *cobra.Command, args []string) error {
	client, err := buildClient()
	if err != nil {
		return err
	}
	vehicle, err := resolveVehicle(cmd.Context(), client, client.Profile())
	if err != nil {
		return err
	}

	settings, err := vehicle.ChargingSettings(cmd.Context())
	if err != nil {
		return err
	}

	day := strings.ToLower(strings.TrimSpace(scheduleDay))
	if day == "" {
		printSchedules(cmd, settings)
		return nil
	}

	schedule := findSchedule(settings.Schedules, scheduleID)
	if schedule == nil {
		return fmt.Errorf("no charge schedule with id %d", scheduleID)
	}

	if scheduleClear {
		if err := schedule.SetDay(day, nil); err != nil {
			return err
		}
	} else {
		slot, err := kamereon.ParseDaySchedule(scheduleStart, scheduleDuration)
		if err != nil {
			return err
		}
		if err := schedule.SetDay(day, slot); err != nil {
			return err
		}
	}

	if _, err := vehicle.SetChargeSchedules(cmd.Context(), settings.Schedules); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Charge schedule updated.")
	return nil
}

func findSchedule(schedules []kamereon.ChargeSchedule, id int) *kamereon.ChargeSchedule {
	for index := range schedules {
		if schedules[index].ID == id {
			return &schedules[index]
		}
	}
	return nil
}

func printSchedules(cmd *cobra.Command, settings kamereon.ChargingSettings) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Mode: %s\n", settings.Mode)
	for _, schedule := range settings.Schedules {
		state := "inactive"
		if schedule.Activated {
			state = "active"
		}
		fmt.Fprintf(out, "Schedule %d (%s)\n", schedule.ID, state)
		for _, name := range kamereon.ScheduleDays() {
			slot, err := schedule.Day(name)
			if err != nil || slot == nil {
				continue
			}
			clock, err := kamereon.ParseStartTime(slot.StartTime)
			if err != nil {
				clock = slot.StartTime
			}
			fmt.Fprintf(out, "  %-9s %s for %d min\n", name, clock, slot.Duration)
		}
	}
}
