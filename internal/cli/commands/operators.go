package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/spoadmin/spoadmin/internal/models"
)

const pageOperators = "/admin/operators"

// NewOperatorsCmd creates the operators command group
func NewOperatorsCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operators",
		Short: "Manage operator accounts (admin)",
	}

	var spoID int
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an operator for an SPO; the password is generated and shown once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := models.OperatorInput{SpoID: spoID}
			if err := validateInput(in); err != nil {
				return err
			}
			e, err := opts.page(cmd, pageOperators)
			if err != nil {
				return err
			}
			op, err := e.client.CreateOperator(cmd.Context(), in)
			if err != nil {
				return apiError(err)
			}
			return printCredentials(cmd, opts, op)
		},
	}
	create.Flags().IntVar(&spoID, "spo-id", 0, "SPO the operator works for")

	cmd.AddCommand(
		&cobra.Command{
			Use:     "ls",
			Aliases: []string{"list"},
			Short:   "List operators",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := opts.page(cmd, pageOperators)
				if err != nil {
					return err
				}
				list, err := e.client.ListOperators(cmd.Context())
				if err != nil {
					return apiError(err)
				}
				return opts.render(cmd.OutOrStdout(), list, func(w *tabwriter.Writer) {
					fmt.Fprintln(w, "ID\tLOGIN\tSPO\tCREATED AT")
					fmt.Fprintln(w, "──\t─────\t───\t──────────")
					for _, op := range list {
						spo := "-"
						if op.SpoID != nil {
							spo = fmt.Sprintf("%d", *op.SpoID)
						}
						fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", op.ID, op.Login, spo, op.CreatedAt.Local().Format(time.DateTime))
					}
				})
			},
		},
		create,
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete an operator",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				e, err := opts.page(cmd, pageOperators)
				if err != nil {
					return err
				}
				if err := e.client.DeleteOperator(cmd.Context(), id); err != nil {
					return apiError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted operator %d\n", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset-password <id>",
			Short: "Generate a new password for an operator",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				e, err := opts.page(cmd, pageOperators)
				if err != nil {
					return err
				}
				op, err := e.client.ResetOperatorPassword(cmd.Context(), id)
				if err != nil {
					return apiError(err)
				}
				return printCredentials(cmd, opts, op)
			},
		},
	)

	return cmd
}

func printCredentials(cmd *cobra.Command, opts *Options, op *models.OperatorWithPassword) error {
	if opts.Output == OutputJSON {
		return opts.render(cmd.OutOrStdout(), op, nil)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Credentials for operator %d\n", op.ID)
	fmt.Fprintf(out, "  Login:    %s\n", op.Login)
	fmt.Fprintf(out, "  Password: %s\n", op.GeneratedPassword)
	fmt.Fprintln(out, "\nThe password is not stored in plain text and will not be shown again.")
	return nil
}
