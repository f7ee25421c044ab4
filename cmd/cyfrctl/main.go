package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cyfrhq/cyfr-api/pkg/client"
	"github.com/spf13/cobra"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "cyfrctl",
	Short: "Command-line front end for the CYFR API",
	Long:  `Manage workspaces, projects and task boards from the terminal.`,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer(), "API base URL")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(workspaceCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(taskCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func defaultServer() string {
	if url := os.Getenv("CYFR_SERVER"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

type credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func credentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cyfrctl", "credentials.json"), nil
}

func loadCredentials() (*credentials, error) {
	path, err := credentialsPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func saveCredentials(creds *credentials) error {
	path, err := credentialsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func clearCredentials() error {
	path, err := credentialsPath()
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// newClient builds a client carrying the stored access token, if any.
func newClient() *client.Client {
	c := client.New(serverURL)
	if creds, err := loadCredentials(); err == nil {
		c.SetToken(creds.AccessToken)
	}
	return c
}
