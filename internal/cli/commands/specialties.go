package commands

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spoadmin/spoadmin/internal/cli/router"
	"github.com/spoadmin/spoadmin/internal/models"
)

const pageOperatorSpecialties = "/operator/specialties"

// NewSpecialtiesCmd creates the specialties command group
func NewSpecialtiesCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "specialties",
		Short: "List specialties and manage their quotas",
	}

	cmd.AddCommand(
		newSpecialtiesListCmd(opts),
		newSpecialtyCreateCmd(opts),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Remove a specialty and its students from an SPO (admin)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				e, err := opts.page(cmd, pageQuotas)
				if err != nil {
					return err
				}
				if err := e.client.DeleteAdminSpecialty(cmd.Context(), id); err != nil {
					return apiError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted specialty %d\n", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "quota <id> <quota>",
			Short: "Set the admission quota of a specialty (admin)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				quota, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid quota %q: must be an integer", args[1])
				}
				if err := validateInput(models.QuotaInput{Quota: quota}); err != nil {
					return err
				}
				e, err := opts.page(cmd, pageQuotas)
				if err != nil {
					return err
				}
				specialty, err := e.client.UpdateSpecialtyQuota(cmd.Context(), id, quota)
				if err != nil {
					return apiError(err)
				}
				return printSpecialties(cmd, opts, []models.Specialty{*specialty})
			},
		},
	)

	return cmd
}

func newSpecialtiesListCmd(opts *Options) *cobra.Command {
	var spoID int

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List specialties; admins see every SPO, operators their own",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := opts.env()
			if err != nil {
				return err
			}

			home, err := e.landing(ctx)
			if err != nil {
				return err
			}

			var list []models.Specialty
			if home == router.PathAdmin {
				if err := e.requirePage(ctx, pageQuotas); err != nil {
					return err
				}
				list, err = e.client.ListAdminSpecialties(ctx, optionalID(cmd, "spo-id", spoID))
			} else {
				if cmd.Flags().Changed("spo-id") {
					return fmt.Errorf("--spo-id is only available to admins")
				}
				if err := e.requirePage(ctx, pageOperatorSpecialties); err != nil {
					return err
				}
				list, err = e.client.ListSpecialties(ctx)
			}
			if err != nil {
				return apiError(err)
			}

			return printSpecialties(cmd, opts, list)
		},
	}
	cmd.Flags().IntVar(&spoID, "spo-id", 0, "Only show specialties of this SPO (admin)")

	return cmd
}

func newSpecialtyCreateCmd(opts *Options) *cobra.Command {
	var in models.SpecialtyInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Offer a catalog specialty at an SPO (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateInput(in); err != nil {
				return err
			}
			e, err := opts.page(cmd, pageQuotas)
			if err != nil {
				return err
			}
			specialty, err := e.client.CreateAdminSpecialty(cmd.Context(), in)
			if err != nil {
				return apiError(err)
			}
			return printSpecialties(cmd, opts, []models.Specialty{*specialty})
		},
	}
	cmd.Flags().IntVar(&in.SpoID, "spo-id", 0, "SPO offering the specialty")
	cmd.Flags().IntVar(&in.TemplateID, "template-id", 0, "Catalog entry to offer")

	return cmd
}

func printSpecialties(cmd *cobra.Command, opts *Options, list []models.Specialty) error {
	if len(list) == 0 && opts.Output != OutputJSON {
		fmt.Fprintln(cmd.OutOrStdout(), "No specialties found.")
		return nil
	}

	return opts.render(cmd.OutOrStdout(), list, func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "ID\tSPO\tCODE\tNAME\tQUOTA\tSTUDENTS\tFREE")
		fmt.Fprintln(w, "──\t───\t────\t────\t─────\t────────\t────")
		for _, s := range list {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%d\t%d\t%d\n",
				s.ID, s.SpoID, deref(s.Code), s.Name, s.Quota, s.StudentsCount, s.AvailableSlots)
		}
	})
}
