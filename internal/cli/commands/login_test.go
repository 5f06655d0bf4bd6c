package commands

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoadmin/spoadmin/internal/cli/auth"
	"github.com/spoadmin/spoadmin/internal/models"
)

func TestLogin_Success(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("login", "--login", "admin", "--password", "admin123")
	assert.Contains(t, out, "Login successful")
	assert.Contains(t, out, "Role: admin")
	assert.Contains(t, out, "Home: /admin")
	assert.NotEmpty(t, h.storedToken())
}

func TestLogin_AlreadyLoggedIn(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin()
	token := h.storedToken()

	out := h.mustRun("login", "--login", "admin", "--password", "admin123")
	assert.Contains(t, out, "Already logged in")
	assert.Equal(t, token, h.storedToken())
}

func TestLogin_ForceSwitchesUser(t *testing.T) {
	h := newHarness(t)
	spoID := h.api.AddSpo("College No. 1")
	h.api.AddUser("op1", "secret", models.RoleOperator, &spoID)
	h.loginAdmin()

	out := h.mustRun("login", "--login", "op1", "--password", "secret", "--force")
	assert.Contains(t, out, "Role: operator")
	assert.Contains(t, out, "SPO:  College No. 1")
	assert.Contains(t, out, "Home: /operator")
}

func TestLogin_BadCredentials(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("login", "--login", "admin", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
	assert.Contains(t, err.Error(), "Incorrect login or password")
	assert.Empty(t, h.storedToken())
}

func TestLogin_NonInteractiveNeedsCredentials(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("login")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login is required in non-interactive mode")
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin()

	out := h.mustRun("logout")
	assert.Contains(t, out, "Logged out")
	assert.Empty(t, h.storedToken())

	out = h.mustRun("logout")
	assert.Contains(t, out, "Not logged in")
}

func TestWhoami(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("whoami")
	assert.True(t, errors.Is(err, auth.ErrNotAuthenticated))

	h.loginAdmin()

	out := h.mustRun("whoami")
	assert.Contains(t, out, "admin")
	assert.Contains(t, out, "Token expires")

	out = h.mustRun("whoami", "-o", "json")
	var view whoamiView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, models.RoleAdmin, view.User.Role)
	assert.Equal(t, "/admin", view.Home)
	assert.NotNil(t, view.ExpiresAt)
}

func TestWhoami_StaleTokenIsDropped(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.SaveToken(auth.KeyFor(h.url), "not-a-valid-token"))

	_, err := h.run("whoami")
	assert.True(t, errors.Is(err, auth.ErrNotAuthenticated))
	assert.Empty(t, h.storedToken())
}

func TestInvalidOutputFormat(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("whoami", "-o", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}
