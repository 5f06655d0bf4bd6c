package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spoadmin/spoadmin/internal/cli/router"
)

// NewStatsCmd creates the stats command
func NewStatsCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show admission statistics",
		Args:  cobra.NoArgs,
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
			page := "/operator/stats"
			if home == router.PathAdmin {
				page = "/admin/stats"
			}
			if err := e.requirePage(ctx, page); err != nil {
				return err
			}

			stats, err := e.client.GetStats(ctx)
			if err != nil {
				return apiError(err)
			}

			return opts.render(cmd.OutOrStdout(), stats, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "SPO:\t%d\n", stats.TotalSpo)
				fmt.Fprintf(w, "Specialties:\t%d\n", stats.TotalSpecialties)
				fmt.Fprintf(w, "Students:\t%d / %d\n\n", stats.TotalStudents, stats.TotalQuota)

				fmt.Fprintln(w, "SPO\tCODE\tSPECIALTY\tSTUDENTS\tQUOTA\tFREE")
				fmt.Fprintln(w, "───\t────\t─────────\t────────\t─────\t────")
				for _, spo := range stats.SpoList {
					for _, s := range spo.Specialties {
						fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
							spo.SpoName, deref(s.SpecialtyCode), s.SpecialtyName, s.StudentsCount, s.Quota, s.AvailableSlots)
					}
				}
			})
		},
	}
}
