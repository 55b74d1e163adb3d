package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	telematics "github.com/goliatone/go-telematics"
	"github.com/goliatone/go-telematics/core"
	filestore "github.com/goliatone/go-telematics/store/file"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	keyringPath string
	localeFlag  string
	accountFlag string
	vinFlag     string
	verbose     bool
)

var RootCmd = &cobra.Command{
	Use:          "telematics",
	Short:        "Vehicle telematics client",
	Long:         "Command line client for the vehicle telematics APIs: login, account and vehicle inspection, charge and climate control.",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file path (JSON)")
	RootCmd.PersistentFlags().StringVar(&keyringPath, "keyring", "", "Credential store file path")
	RootCmd.PersistentFlags().StringVar(&localeFlag, "locale", "", "Locale, e.g. fr_FR")
	RootCmd.PersistentFlags().StringVar(&accountFlag, "account", "", "Account id override")
	RootCmd.PersistentFlags().StringVar(&vinFlag, "vin", "", "Vehicle VIN override")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func openKeyring() (*telematics.Keyring, error) {
	path := strings.TrimSpace(keyringPath)
	if path == "" {
		defaultPath, err := filestore.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}
	store, err := filestore.New(path)
	if err != nil {
		return nil, err
	}
	return telematics.NewKeyring(store)
}

// buildClient layers configuration: stored keyring entries < config file <
// command-line flags.
func buildClient() (*telematics.Client, error) {
	keyring, err := openKeyring()
	if err != nil {
		return nil, err
	}

	runtime := telematics.Config{Locale: strings.TrimSpace(localeFlag)}
	if runtime.Locale == "" {
		if stored, ok := keyring.Get(core.KeyLocale); ok {
			runtime.Locale = stored.Value
		}
	}

	opts := []telematics.Option{telematics.WithKeyring(keyring)}
	if verbose {
		opts = append(opts, telematics.WithLogger(newStderrLogger()))
	}
	if configPath != "" {
		loader, err := newFileRawConfigLoader(configPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, telematics.WithConfigProvider(core.NewCfgxConfigProvider(loader)))
	}
	return telematics.New(runtime, opts...)
}

func newFileRawConfigLoader(path string) (core.RawConfigLoader, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	values := map[string]any{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return core.NewStaticRawConfigLoader(values), nil
}

// resolveAccount picks the account id: --account flag, then the stored
// selection, then the only account on the profile.
func resolveAccount(ctx context.Context, client *telematics.Client, profile *telematics.Profile) (*telematics.Account, error) {
	accountID := strings.TrimSpace(accountFlag)
	if accountID == "" {
		if stored, ok := client.Keyring().Get(core.KeyAccountID); ok {
			accountID = stored.Value
		}
	}
	if accountID == "" {
		accounts, err := profile.Accounts(ctx)
		if err != nil {
			return nil, err
		}
		if len(accounts) == 0 {
			return nil, fmt.Errorf("no accounts on this profile; run `telematics accounts`")
		}
		if len(accounts) > 1 {
			return nil, fmt.Errorf("multiple accounts on this profile; pick one with --account or `telematics set --account`")
		}
		accountID = accounts[0].AccountID
	}
	return profile.Account(accountID)
}

func resolveVehicle(ctx context.Context, client *telematics.Client, profile *telematics.Profile) (*telematics.Vehicle, error) {
	account, err := resolveAccount(ctx, client, profile)
	if err != nil {
		return nil, err
	}
	vin := strings.TrimSpace(vinFlag)
	if vin == "" {
		if stored, ok := client.Keyring().Get(core.KeyVIN); ok {
			vin = stored.Value
		}
	}
	if vin == "" {
		return nil, fmt.Errorf("no vehicle selected; pass --vin or run `telematics set --vin`")
	}
	return account.Vehicle(vin)
}
