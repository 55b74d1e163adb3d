package cmd

import (
	"fmt"
	"strings"

	telematics "github.com/goliatone/go-telematics"
	"github.com/goliatone/go-telematics/core"
	"github.com/goliatone/go-telematics/locales"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Persist locale, account, and vehicle selection",
	Long:  "Stores the --locale, --account, and --vin values in the credential store so later commands pick them up without flags.",
	RunE:  runSet,
}

func init() {
	RootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	locale := strings.TrimSpace(localeFlag)
	account := strings.TrimSpace(accountFlag)
	vin := strings.TrimSpace(vinFlag)
	if locale == "" && account == "" && vin == "" {
		return fmt.Errorf("nothing to set; pass --locale, --account, or --vin")
	}

	keyring, err := openKeyring()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if locale != "" {
		if _, err := locales.Resolve(locale); err != nil {
			fmt.Fprintf(out, "Note: %s is not in the built-in locale table; endpoints will be fetched remotely.\n", locale)
		}
		if err := keyring.Set(core.KeyLocale, telematics.PermanentCredential(locale)); err != nil {
			return err
		}
		country := telematics.Config{Locale: locale}.CountryCode()
		if country != "" {
			if err := keyring.Set(core.KeyCountry, telematics.PermanentCredential(country)); err != nil {
				return err
			}
		}
		fmt.Fprintf(out, "Locale set to %s.\n", locale)
	}
	if account != "" {
		if err := keyring.Set(core.KeyAccountID, telematics.PermanentCredential(account)); err != nil {
			return err
		}
		fmt.Fprintf(out, "Account set to %s.\n", account)
	}
	if vin != "" {
		if err := keyring.Set(core.KeyVIN, telematics.PermanentCredential(vin)); err != nil {
			return err
		}
		fmt.Fprintf(out, "Vehicle set to %s.\n", vin)
	}
	return nil
}
