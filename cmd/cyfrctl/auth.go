package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var passwordFlag string

func init() {
	registerCmd.Flags().StringVar(&passwordFlag, "password", "", "password (prompted if omitted)")
	loginCmd.Flags().StringVar(&passwordFlag, "password", "", "password (prompted if omitted)")
}

func readPassword() (string, error) {
	if passwordFlag != "" {
		return passwordFlag, nil
	}
	fmt.Print("Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

var registerCmd = &cobra.Command{
	Use:   "register <email>",
	Short: "Create an account and sign in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword()
		if err != nil {
			return err
		}

		c := newClient()
		tokens, err := c.Register(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		if err := saveCredentials(&credentials{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}); err != nil {
			return err
		}
		fmt.Println("Registered and signed in as", args[0])
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in with email and password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword()
		if err != nil {
			return err
		}

		c := newClient()
		tokens, err := c.Login(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		if err := saveCredentials(&credentials{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}); err != nil {
			return err
		}
		fmt.Println("Signed in as", args[0])
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		if creds, err := loadCredentials(); err == nil && creds.RefreshToken != "" {
			// A failed revoke still clears the local session.
			_ = c.Logout(cmd.Context(), creds.RefreshToken)
		}
		if err := clearCredentials(); err != nil {
			return err
		}
		fmt.Println("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in identity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := newClient().Me(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", user.Email, user.ID)
		return nil
	},
}
