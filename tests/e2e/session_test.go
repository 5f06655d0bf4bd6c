package e2e

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoadmin/spoadmin/internal/cli/auth"
	"github.com/spoadmin/spoadmin/internal/cli/client"
	"github.com/spoadmin/spoadmin/internal/cli/router"
	"github.com/spoadmin/spoadmin/internal/cli/session"
)

// TestSessionAgainstBackend logs in to a running SPO backend and walks the admin pages.
// Set SPOADMIN_E2E_SERVER_URL, SPOADMIN_E2E_LOGIN and SPOADMIN_E2E_PASSWORD to run it.
func TestSessionAgainstBackend(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	serverURL := os.Getenv("SPOADMIN_E2E_SERVER_URL")
	if serverURL == "" {
		t.Skip("SPOADMIN_E2E_SERVER_URL not set")
	}
	login := os.Getenv("SPOADMIN_E2E_LOGIN")
	password := os.Getenv("SPOADMIN_E2E_PASSWORD")
	require.NotEmpty(t, login, "SPOADMIN_E2E_LOGIN must be set")
	require.NotEmpty(t, password, "SPOADMIN_E2E_PASSWORD must be set")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store := auth.NewMemoryStore()
	c := client.New(serverURL)
	s := session.New(c, store, auth.KeyFor(serverURL))
	c.SetTokenSource(s)

	require.NoError(t, s.Login(ctx, login, password))
	require.True(t, s.IsAuthenticated())

	nav := router.NewNavigator(s, zerolog.Nop())
	res, err := nav.Navigate(ctx, router.PathRoot)
	require.NoError(t, err)

	if s.IsAdmin() {
		assert.Equal(t, router.PathAdmin, res.Path())

		list, err := c.ListSpo(ctx)
		require.NoError(t, err)
		t.Logf("backend has %d SPO", len(list))
	} else {
		assert.Equal(t, router.PathOperator, res.Path())

		_, err := c.ListSpecialties(ctx)
		require.NoError(t, err)
	}

	stats, err := c.GetStats(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.TotalQuota, 0)

	s.Logout()
	assert.False(t, s.IsAuthenticated())
	_, err = store.LoadToken(auth.KeyFor(serverURL))
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
}
