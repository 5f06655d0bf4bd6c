package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spoadmin/spoadmin/internal/models"
)

const pageTemplates = "/admin/templates"

// NewTemplatesCmd creates the templates command group
func NewTemplatesCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage the specialty catalog (admin)",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:     "ls",
			Aliases: []string{"list"},
			Short:   "List catalog entries",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := opts.page(cmd, pageTemplates)
				if err != nil {
					return err
				}
				list, err := e.client.ListSpecialtyTemplates(cmd.Context())
				if err != nil {
					return apiError(err)
				}
				return opts.render(cmd.OutOrStdout(), list, func(w *tabwriter.Writer) {
					fmt.Fprintln(w, "ID\tCODE\tNAME\tUSED BY SPO")
					fmt.Fprintln(w, "──\t────\t────\t───────────")
					for _, t := range list {
						fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", t.ID, t.Code, t.Name, t.SpoCount)
					}
				})
			},
		},
		newTemplateSaveCmd(opts, false),
		newTemplateSaveCmd(opts, true),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a catalog entry and the specialties created from it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				e, err := opts.page(cmd, pageTemplates)
				if err != nil {
					return err
				}
				if err := e.client.DeleteSpecialtyTemplate(cmd.Context(), id); err != nil {
					return apiError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted template %d\n", id)
				return nil
			},
		},
	)

	return cmd
}

// newTemplateSaveCmd builds either "create" or "update <id>"
func newTemplateSaveCmd(opts *Options, update bool) *cobra.Command {
	var in models.SpecialtyTemplateInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a catalog entry",
		Args:  cobra.NoArgs,
	}
	if update {
		cmd.Use = "update <id>"
		cmd.Short = "Change a catalog entry; specialties created from it follow"
		cmd.Args = cobra.ExactArgs(1)
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var id int
		if update {
			var err error
			if id, err = parseID(args[0]); err != nil {
				return err
			}
		}
		if err := validateInput(in); err != nil {
			return err
		}

		e, err := opts.page(cmd, pageTemplates)
		if err != nil {
			return err
		}

		var tmpl *models.SpecialtyTemplate
		if update {
			tmpl, err = e.client.UpdateSpecialtyTemplate(cmd.Context(), id, in)
		} else {
			tmpl, err = e.client.CreateSpecialtyTemplate(cmd.Context(), in)
		}
		if err != nil {
			return apiError(err)
		}

		if opts.Output == OutputJSON {
			return opts.render(cmd.OutOrStdout(), tmpl, nil)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved template %d: %s %s\n", tmpl.ID, tmpl.Code, tmpl.Name)
		return nil
	}

	cmd.Flags().StringVar(&in.Code, "code", "", "Specialty code, e.g. 09.02.07")
	cmd.Flags().StringVar(&in.Name, "name", "", "Specialty name")

	return cmd
}
