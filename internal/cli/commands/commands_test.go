package commands

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/spoadmin/spoadmin/internal/cli/auth"
	"github.com/spoadmin/spoadmin/internal/config"
	"github.com/spoadmin/spoadmin/internal/fakeapi"
)

// harness runs commands against a fake API with an in-memory token store
type harness struct {
	t     *testing.T
	api   *fakeapi.Server
	store *auth.MemoryStore
	url   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	// Keep user config and project lookups away from the real home directory
	t.Setenv("HOME", t.TempDir())
	chdirForTest(t, t.TempDir())

	api := fakeapi.New()
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	return &harness{
		t:     t,
		api:   api,
		store: auth.NewMemoryStore(),
		url:   srv.URL + "/api",
	}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()

	opts := NewOptions(
		WithConfig(&config.Config{
			API:        config.APIConfig{ServerURL: h.url, Timeout: 5 * time.Second},
			TokenStore: "memory",
		}),
		WithTokenStore(h.store),
	)

	root := &cobra.Command{
		Use:           "spoadmin",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.ValidateOutput()
		},
	}
	root.PersistentFlags().StringVarP(&opts.Output, "output", "o", OutputTable, "")
	root.AddCommand(
		NewLoginCmd(opts),
		NewLogoutCmd(opts),
		NewWhoamiCmd(opts),
		NewOpenCmd(opts),
		NewRoutesCmd(opts),
		NewSpoCmd(opts),
		NewOperatorsCmd(opts),
		NewSettingsCmd(opts),
		NewTemplatesCmd(opts),
		NewSpecialtiesCmd(opts),
		NewStudentsCmd(opts),
		NewStatsCmd(opts),
	)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

func (h *harness) loginAdmin() {
	h.t.Helper()
	h.mustRun("login", "--login", fakeapi.DefaultAdminLogin, "--password", fakeapi.DefaultAdminPassword)
}

func (h *harness) login(login, password string) {
	h.t.Helper()
	h.mustRun("login", "--login", login, "--password", password, "--force")
}

func (h *harness) storedToken() string {
	token, err := h.store.LoadToken(auth.KeyFor(h.url))
	if err != nil {
		return ""
	}
	return token
}

func (h *harness) requested(request string) bool {
	for _, r := range h.api.Requests() {
		if r == request {
			return true
		}
	}
	return false
}
