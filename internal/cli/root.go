package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/spoadmin/spoadmin/internal/cli/commands"
	"github.com/spoadmin/spoadmin/internal/logger"
)

var version = "dev" // Will be set during build

// NewRootCmd builds the command tree around opts
func NewRootCmd(opts *commands.Options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spoadmin",
		Short: "spoadmin - SPO admission administration",
		Long: `spoadmin CLI - Manage educational institutions, specialty quotas and
enrolled students through the SPO administration API.

Commands act as the pages of the admin UI: each one is only available to
the role that can open the matching page.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.Config()
			if err != nil {
				return err
			}
			logger.Init(cfg.Logging.Level, cfg.Logging.Format)

			return opts.ValidateOutput()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.ServerAlias, "server", "", "Server alias from spoadmin.json")
	rootCmd.PersistentFlags().StringVar(&opts.TokenStore, "token-store", "", "Token storage: keyring, file or memory (or set SPOADMIN_TOKEN_STORE)")
	rootCmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", commands.OutputTable, "Output format: table or json")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "spoadmin version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewInitCmd())
	rootCmd.AddCommand(commands.NewSelectServerCmd())
	rootCmd.AddCommand(commands.NewLoginCmd(opts))
	rootCmd.AddCommand(commands.NewLogoutCmd(opts))
	rootCmd.AddCommand(commands.NewWhoamiCmd(opts))
	rootCmd.AddCommand(commands.NewOpenCmd(opts))
	rootCmd.AddCommand(commands.NewRoutesCmd(opts))
	rootCmd.AddCommand(commands.NewSpoCmd(opts))
	rootCmd.AddCommand(commands.NewOperatorsCmd(opts))
	rootCmd.AddCommand(commands.NewSettingsCmd(opts))
	rootCmd.AddCommand(commands.NewTemplatesCmd(opts))
	rootCmd.AddCommand(commands.NewSpecialtiesCmd(opts))
	rootCmd.AddCommand(commands.NewStudentsCmd(opts))
	rootCmd.AddCommand(commands.NewStatsCmd(opts))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd(commands.NewOptions()).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
