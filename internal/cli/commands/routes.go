package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spoadmin/spoadmin/internal/cli/router"
)

type routeView struct {
	Path   string `json:"path"`
	Name   string `json:"name,omitempty"`
	Access string `json:"access"`
	// Target is where the session ends up; equal to Path when the page is allowed
	Target string `json:"target"`
}

// NewRoutesCmd creates the routes command
func NewRoutesCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the pages and where each one leads for the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.env()
			if err != nil {
				return err
			}

			if e.session.HasToken() && !e.session.HasUser() {
				e.session.Init(cmd.Context())
			}

			table := router.Routes()
			views := make([]routeView, 0, len(table))
			for _, r := range table {
				view := routeView{Path: r.Path, Name: r.Name, Access: access(r)}
				if r.IsRedirect() {
					view.Target = r.Redirect(e.session)
				} else if d := router.Resolve(r, e.session); d.Allowed() {
					view.Target = r.Path
				} else {
					view.Target = d.RedirectTo
				}
				views = append(views, view)
			}

			return opts.render(cmd.OutOrStdout(), views, func(w *tabwriter.Writer) {
				fmt.Fprintln(w, "PATH\tNAME\tACCESS\tOPENS")
				fmt.Fprintln(w, "────\t────\t──────\t─────")
				for _, v := range views {
					name := v.Name
					if name == "" {
						name = "-"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.Path, name, v.Access, v.Target)
				}
			})
		},
	}
}

func access(r router.Route) string {
	switch {
	case r.IsRedirect():
		return "redirect"
	case r.Meta.Guest:
		return "guest"
	case r.Meta.Role != "":
		return string(r.Meta.Role)
	case r.Meta.RequiresAuth:
		return "authenticated"
	default:
		return "public"
	}
}
