package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/spoadmin/spoadmin/internal/cli/router"
)

// NewLoginCmd creates the login command
func NewLoginCmd(opts *Options) *cobra.Command {
	var login, password string
	var force bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with an SPO API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts, login, password, force)
		},
	}

	cmd.Flags().StringVar(&login, "login", "", "Login (or set SPOADMIN_LOGIN, will prompt if not provided)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set SPOADMIN_PASSWORD, will prompt if not provided)")
	cmd.Flags().BoolVar(&force, "force", false, "Log in again even if already authenticated")

	return cmd
}

func runLogin(cmd *cobra.Command, opts *Options, login, password string, force bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := opts.Config()
	if err != nil {
		return err
	}
	e, err := opts.env()
	if err != nil {
		return err
	}

	// The login page is guest-only: an authenticated session is sent to its landing page
	res, err := e.navigator.Navigate(ctx, router.PathLogin)
	if err != nil {
		return err
	}
	if res.Redirected() {
		if !force {
			u := e.session.User()
			fmt.Fprintf(out, "Already logged in to %s as %s (%s)\n", e.server.Alias, u.Login, u.Role)
			fmt.Fprintln(out, "Use --force to log in as someone else")
			return nil
		}
		e.session.Logout()
	}

	if login == "" {
		login = cfg.Credentials.Login
	}
	if password == "" {
		password = cfg.Credentials.Password
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if login == "" {
		if !interactive {
			return fmt.Errorf("login is required in non-interactive mode (use --login flag or SPOADMIN_LOGIN env var)")
		}
		login, err = readLine(cmd.InOrStdin(), out, "Login: ")
		if err != nil {
			return err
		}
	}
	if password == "" {
		if !interactive {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or SPOADMIN_PASSWORD env var)")
		}
		fmt.Fprint(out, "Password: ")
		bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = string(bytePassword)
	}

	fmt.Fprintf(out, "Logging in to %s (%s)...\n", e.server.Alias, e.server.URL)

	if err := e.session.Login(ctx, login, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	landing, err := e.landing(ctx)
	if err != nil {
		return err
	}

	u := e.session.User()
	fmt.Fprintln(out, "✓ Login successful!")
	fmt.Fprintf(out, "  User: %s\n", u.Login)
	fmt.Fprintf(out, "  Role: %s\n", u.Role)
	if u.SpoName != nil {
		fmt.Fprintf(out, "  SPO:  %s\n", *u.SpoName)
	}
	fmt.Fprintf(out, "  Home: %s\n", landing)

	return nil
}

func readLine(in io.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
