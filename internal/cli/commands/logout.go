package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token for the selected server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.env()
			if err != nil {
				return err
			}

			wasLoggedIn := e.session.HasToken()
			e.session.Logout()

			if wasLoggedIn {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged out of %s\n", e.server.Alias)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Not logged in to %s\n", e.server.Alias)
			}
			return nil
		},
	}
}
