package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spoadmin/spoadmin/internal/models"
)

const pageQuotas = "/admin/quotas"

// NewSettingsCmd creates the settings command group
func NewSettingsCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change global quota settings (admin)",
	}

	var baseQuota int
	set := &cobra.Command{
		Use:   "set",
		Short: "Change the base quota given to new specialties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("base-quota") {
				return fmt.Errorf("nothing to change: pass --base-quota")
			}
			in := models.Settings{BaseQuota: baseQuota}
			if err := validateInput(in); err != nil {
				return err
			}
			e, err := opts.page(cmd, pageQuotas)
			if err != nil {
				return err
			}
			settings, err := e.client.UpdateSettings(cmd.Context(), in)
			if err != nil {
				return apiError(err)
			}
			return printSettings(cmd, opts, settings)
		},
	}
	set.Flags().IntVar(&baseQuota, "base-quota", 0, "Quota assigned to newly created specialties")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Show the global settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := opts.page(cmd, pageQuotas)
				if err != nil {
					return err
				}
				settings, err := e.client.GetSettings(cmd.Context())
				if err != nil {
					return apiError(err)
				}
				return printSettings(cmd, opts, settings)
			},
		},
		set,
	)

	return cmd
}

func printSettings(cmd *cobra.Command, opts *Options, settings *models.Settings) error {
	return opts.render(cmd.OutOrStdout(), settings, func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "Base quota:\t%d\n", settings.BaseQuota)
	})
}
