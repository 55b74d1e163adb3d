package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-telematics/identity"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginUser     string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session in the credential store",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop stored credentials, keeping locale and vehicle selection",
	RunE:  runLogout,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUser, "user", "u", "", "Login id (email)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")
	RootCmd.AddCommand(loginCmd, logoutCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	client, err := buildClient()
	if err != nil {
		return err
	}

	user := strings.TrimSpace(loginUser)
	if user == "" {
		user, err = prompt(cmd, "Login id: ")
		if err != nil {
			return err
		}
	}
	password := loginPassword
	if password == "" {
		password, err = promptPassword(cmd, "Password: ")
		if err != nil {
			return err
		}
	}

	if err := client.Login(cmd.Context(), user, password); err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return fmt.Errorf("login rejected: check the login id and password")
		}
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	client, err := buildClient()
	if err != nil {
		return err
	}
	if err := client.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
	return nil
}

func prompt(cmd *cobra.Command, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo on a terminal; piped input falls back to
// a plain line read.
func promptPassword(cmd *cobra.Command, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(cmd, label)
	}
	fmt.Fprint(cmd.OutOrStdout(), label)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}
