package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/spoadmin/spoadmin/internal/models"
)

const pageStudents = "/operator/students"

// NewStudentsCmd creates the students command group
func NewStudentsCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "students",
		Short: "Manage enrolled students (operator)",
	}

	cmd.AddCommand(
		newStudentsListCmd(opts),
		newStudentSaveCmd(opts, false),
		newStudentSaveCmd(opts, true),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Remove a student",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				e, err := opts.page(cmd, pageStudents)
				if err != nil {
					return err
				}
				if err := e.client.DeleteStudent(cmd.Context(), id); err != nil {
					return apiError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted student %d\n", id)
				return nil
			},
		},
	)

	return cmd
}

func newStudentsListCmd(opts *Options) *cobra.Command {
	var specialtyID int

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List students of the operator's SPO",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.page(cmd, pageStudents)
			if err != nil {
				return err
			}
			list, err := e.client.ListStudents(cmd.Context(), optionalID(cmd, "specialty-id", specialtyID))
			if err != nil {
				return apiError(err)
			}

			if len(list) == 0 && opts.Output != OutputJSON {
				fmt.Fprintln(cmd.OutOrStdout(), "No students found.")
				return nil
			}

			return opts.render(cmd.OutOrStdout(), list, func(w *tabwriter.Writer) {
				fmt.Fprintln(w, "ID\tFULL NAME\tATTESTAT\tSPECIALTY\tCREATED AT")
				fmt.Fprintln(w, "──\t─────────\t────────\t─────────\t──────────")
				for _, s := range list {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
						s.ID, s.FullName, s.AttestatNumber, deref(s.SpecialtyName), s.CreatedAt.Local().Format(time.DateTime))
				}
			})
		},
	}
	cmd.Flags().IntVar(&specialtyID, "specialty-id", 0, "Only show students of this specialty")

	return cmd
}

// newStudentSaveCmd builds either "add" or "update <id>"
func newStudentSaveCmd(opts *Options, update bool) *cobra.Command {
	var in models.StudentInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Enroll a student; fails when the specialty quota is used up",
		Args:  cobra.NoArgs,
	}
	if update {
		cmd.Use = "update <id>"
		cmd.Short = "Replace a student's details"
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

		e, err := opts.page(cmd, pageStudents)
		if err != nil {
			return err
		}

		var student *models.Student
		if update {
			student, err = e.client.UpdateStudent(cmd.Context(), id, in)
		} else {
			student, err = e.client.CreateStudent(cmd.Context(), in)
		}
		if err != nil {
			return apiError(err)
		}

		if opts.Output == OutputJSON {
			return opts.render(cmd.OutOrStdout(), student, nil)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved student %d: %s\n", student.ID, student.FullName)
		return nil
	}

	cmd.Flags().StringVar(&in.FullName, "full-name", "", "Student full name")
	cmd.Flags().StringVar(&in.AttestatNumber, "attestat", "", "School certificate number")
	cmd.Flags().IntVar(&in.SpecialtyID, "specialty-id", 0, "Specialty the student enrolls in")

	return cmd
}
