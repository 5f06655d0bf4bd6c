package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/spoadmin/spoadmin/internal/models"
)

type whoamiView struct {
	Server    string              `json:"server"`
	User      *models.UserProfile `json:"user"`
	Home      string              `json:"home"`
	ExpiresAt *time.Time          `json:"expires_at,omitempty"`
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.env()
			if err != nil {
				return err
			}

			home, err := e.landing(cmd.Context())
			if err != nil {
				return err
			}

			view := whoamiView{
				Server: e.server.URL,
				User:   e.session.User(),
				Home:   home,
			}
			if exp, ok := e.session.TokenExpiry(); ok {
				view.ExpiresAt = &exp
			}

			return opts.render(cmd.OutOrStdout(), view, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Server:\t%s\n", view.Server)
				fmt.Fprintf(w, "Login:\t%s\n", view.User.Login)
				fmt.Fprintf(w, "Role:\t%s\n", view.User.Role)
				fmt.Fprintf(w, "SPO:\t%s\n", deref(view.User.SpoName))
				fmt.Fprintf(w, "Home:\t%s\n", view.Home)
				if view.ExpiresAt != nil {
					fmt.Fprintf(w, "Token expires:\t%s\n", view.ExpiresAt.Local().Format(time.RFC1123))
				}
			})
		},
	}
}
