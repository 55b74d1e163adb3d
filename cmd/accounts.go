package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List the accounts linked to the logged-in person",
	RunE:  runAccounts,
}

var vehiclesCmd = &cobra.Command{
	Use:   "vehicles",
	Short: "List the vehicles on the selected account",
	RunE:  runVehicles,
}

func init() {
	RootCmd.AddCommand(accountsCmd, vehiclesCmd)
}

func runAccounts(cmd *cobra.Command, args []string) error {
	client, err := buildClient()
	if err != nil {
		return err
	}
	accounts, err := client.Profile().Accounts(cmd.Context())
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ACCOUNT ID\tTYPE\tSTATUS")
	for _, account := range accounts {
		fmt.Fprintf(writer, "%s\t%s\t%s\n", account.AccountID, account.AccountType, account.AccountStatus)
	}
	return writer.Flush()
}

func runVehicles(cmd *cobra.Command, args []string) error {
	client, err := buildClient()
	if err != nil {
		return err
	}
	account, err := resolveAccount(cmd.Context(), client, client.Profile())
	if err != nil {
		return err
	}
	vehicles, err := account.Vehicles(cmd.Context())
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "VIN\tMODEL\tREGISTRATION\tSTATUS")
	for _, link := range vehicles.VehicleLinks {
		model, registration := "", ""
		if link.VehicleDetails != nil {
			model = link.VehicleDetails.Model.Label
			registration = link.VehicleDetails.RegistrationNumber
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", link.VIN, model, registration, link.Status)
	}
	return writer.Flush()
}
