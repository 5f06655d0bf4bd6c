package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spoadmin/spoadmin/internal/models"
)

const pageSpo = "/admin/spo"

// NewSpoCmd creates the spo command group
func NewSpoCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spo",
		Short: "Manage educational institutions (admin)",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:     "ls",
			Aliases: []string{"list"},
			Short:   "List SPO with their counters",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSpoList(cmd, opts)
			},
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show one SPO",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSpoGet(cmd, opts, args[0])
			},
		},
		newSpoCreateCmd(opts),
		newSpoUpdateCmd(opts),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete an SPO with its specialties, students and operators",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSpoDelete(cmd, opts, args[0])
			},
		},
	)

	return cmd
}

func newSpoCreateCmd(opts *Options) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an SPO",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpoSave(cmd, opts, "", name)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "SPO name")
	return cmd
}

func newSpoUpdateCmd(opts *Options) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename an SPO",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpoSave(cmd, opts, args[0], name)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New SPO name")
	return cmd
}

func printSpoTable(w *tabwriter.Writer, list []models.SpoWithStats) {
	fmt.Fprintln(w, "ID\tNAME\tSPECIALTIES\tSTUDENTS\tOPERATORS")
	fmt.Fprintln(w, "──\t────\t───────────\t────────\t─────────")
	for _, s := range list {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\n", s.ID, s.Name, s.SpecialtiesCount, s.StudentsCount, s.OperatorsCount)
	}
}

func runSpoList(cmd *cobra.Command, opts *Options) error {
	ctx := cmd.Context()
	e, err := opts.page(cmd, pageSpo)
	if err != nil {
		return err
	}

	list, err := e.client.ListSpo(ctx)
	if err != nil {
		return apiError(err)
	}

	if len(list) == 0 && opts.Output != OutputJSON {
		fmt.Fprintln(cmd.OutOrStdout(), "No SPO found.")
		fmt.Fprintln(cmd.OutOrStdout(), "\nCreate one with: spoadmin spo create --name <name>")
		return nil
	}

	return opts.render(cmd.OutOrStdout(), list, func(w *tabwriter.Writer) {
		printSpoTable(w, list)
	})
}

func runSpoGet(cmd *cobra.Command, opts *Options, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	e, err := opts.page(cmd, pageSpo)
	if err != nil {
		return err
	}

	spo, err := e.client.GetSpo(ctx, id)
	if err != nil {
		return apiError(err)
	}

	return opts.render(cmd.OutOrStdout(), spo, func(w *tabwriter.Writer) {
		printSpoTable(w, []models.SpoWithStats{*spo})
	})
}

// runSpoSave creates an SPO when arg is empty and renames SPO arg otherwise
func runSpoSave(cmd *cobra.Command, opts *Options, arg, name string) error {
	var id int
	if arg != "" {
		var err error
		if id, err = parseID(arg); err != nil {
			return err
		}
	}

	in := models.SpoInput{Name: name}
	if err := validateInput(in); err != nil {
		return err
	}

	ctx := cmd.Context()
	e, err := opts.page(cmd, pageSpo)
	if err != nil {
		return err
	}

	var spo *models.Spo
	if id == 0 {
		spo, err = e.client.CreateSpo(ctx, in)
	} else {
		spo, err = e.client.UpdateSpo(ctx, id, in)
	}
	if err != nil {
		return apiError(err)
	}

	if opts.Output == OutputJSON {
		return opts.render(cmd.OutOrStdout(), spo, nil)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved SPO %d: %s\n", spo.ID, spo.Name)
	return nil
}

func runSpoDelete(cmd *cobra.Command, opts *Options, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	e, err := opts.page(cmd, pageSpo)
	if err != nil {
		return err
	}

	if err := e.client.DeleteSpo(ctx, id); err != nil {
		return apiError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted SPO %d\n", id)
	return nil
}
