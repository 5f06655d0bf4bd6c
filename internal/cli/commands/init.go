package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spoadmin/spoadmin/internal/cli/config"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var alias string

	cmd := &cobra.Command{
		Use:   "init <api-url>",
		Short: "Add an SPO API server to spoadmin.json",
		Long: `Add an SPO API server to the project configuration in the current directory.

Examples:
  $ spoadmin init https://spo.example.com/api
  $ spoadmin init http://localhost:8000/api --alias local`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args[0], alias)
		},
	}

	cmd.Flags().StringVar(&alias, "alias", "", "Server alias (defaults to production, then server-N)")

	return cmd
}

func runInit(cmd *cobra.Command, serverURL, alias string) error {
	out := cmd.OutOrStdout()
	serverURL = strings.TrimRight(serverURL, "/")

	server := config.Server{URL: serverURL, Alias: alias}
	if err := server.Validate(); err != nil {
		return err
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	// Reuse a YAML file if the project already has one
	configPath := filepath.Join(currentDir, config.ConfigFileName)
	for _, name := range config.ConfigFileNames {
		candidate := filepath.Join(currentDir, name)
		if _, err := os.Stat(candidate); err == nil {
			configPath = candidate
			break
		}
	}
	fileName := filepath.Base(configPath)

	cfg := &config.Config{Servers: []config.Server{}}
	isNewConfig := true
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load existing config: %w", err)
		}
		isNewConfig = false
		fmt.Fprintf(out, "Found existing %s\n", fileName)
	}

	if existing, err := cfg.GetServerByURL(serverURL); err == nil {
		fmt.Fprintf(out, "Server %s already exists in %s as %s\n", serverURL, fileName, existing.Alias)
		return nil
	}

	if server.Alias == "" {
		if len(cfg.Servers) == 0 {
			server.Alias = "production"
		} else {
			server.Alias = fmt.Sprintf("server-%d", len(cfg.Servers)+1)
		}
	}
	if _, err := cfg.GetServerByAlias(server.Alias); err == nil {
		return fmt.Errorf("alias '%s' is already used in %s", server.Alias, fileName)
	}

	cfg.Servers = append(cfg.Servers, server)
	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	if isNewConfig {
		fmt.Fprintf(out, "✓ Created ./%s with server %s (%s)\n", fileName, server.URL, server.Alias)
	} else {
		fmt.Fprintf(out, "✓ Added server %s (%s) to ./%s\n", server.URL, server.Alias, fileName)
	}

	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  Run 'spoadmin login' to authenticate")

	return nil
}
