package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type openView struct {
	Requested  string   `json:"requested"`
	Path       string   `json:"path"`
	Name       string   `json:"name"`
	Redirected bool     `json:"redirected"`
	Hops       []string `json:"hops"`
}

// NewOpenCmd creates the open command
func NewOpenCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Resolve which page a path leads to for the current session",
		Long: `Run the navigation guard for a path and print the page it ends on.

Examples:
  $ spoadmin open /admin/spo
  $ spoadmin open /`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.env()
			if err != nil {
				return err
			}

			res, err := e.navigator.Navigate(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			view := openView{
				Requested:  res.Requested,
				Path:       res.Path(),
				Name:       res.Route.Name,
				Redirected: res.Redirected(),
				Hops:       res.Hops,
			}

			return opts.render(cmd.OutOrStdout(), view, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Page:\t%s (%s)\n", view.Path, view.Name)
				if view.Redirected {
					fmt.Fprintf(w, "Redirected:\t%s\n", strings.Join(view.Hops, " → "))
				}
			})
		},
	}
}
