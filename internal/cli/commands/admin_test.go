package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoadmin/spoadmin/internal/cli/auth"
	"github.com/spoadmin/spoadmin/internal/models"
)

func TestSpoCommands(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin()

	out := h.mustRun("spo", "ls")
	assert.Contains(t, out, "No SPO found")

	out = h.mustRun("spo", "create", "--name", "College No. 1")
	assert.Contains(t, out, "Saved SPO")

	out = h.mustRun("spo", "ls", "-o", "json")
	var list []models.SpoWithStats
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	id := list[0].ID

	out = h.mustRun("spo", "update", fmt.Sprint(id), "--name", "Polytechnic")
	assert.Contains(t, out, "Polytechnic")

	out = h.mustRun("spo", "get", fmt.Sprint(id))
	assert.Contains(t, out, "Polytechnic")
	assert.Contains(t, out, "SPECIALTIES")

	out = h.mustRun("spo", "delete", fmt.Sprint(id))
	assert.Contains(t, out, "Deleted SPO")

	_, err := h.run("spo", "get", fmt.Sprint(id))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SPO not found")
}

func TestSpo_InputValidatedBeforeRequest(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin()

	_, err := h.run("spo", "create")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid input")
	assert.False(t, h.requested("POST /api/admin/spo"))

	_, err = h.run("spo", "get", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid id")
}

func TestGuard_NotLoggedIn(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("spo", "ls")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAccessDenied))
	assert.True(t, errors.Is(err, auth.ErrNotAuthenticated))
	assert.False(t, h.requested("GET /api/admin/spo"))
}

func TestGuard_OperatorCannotOpenAdminPages(t *testing.T) {
	h := newHarness(t)
	spoID := h.api.AddSpo("College No. 1")
	h.api.AddUser("op1", "secret", models.RoleOperator, &spoID)
	h.login("op1", "secret")

	for _, args := range [][]string{
		{"spo", "ls"},
		{"operators", "ls"},
		{"settings", "get"},
		{"templates", "ls"},
		{"specialties", "quota", "1", "10"},
	} {
		_, err := h.run(args...)
		require.Error(t, err, args)
		assert.True(t, errors.Is(err, ErrAccessDenied), args)
		assert.Contains(t, err.Error(), "redirected to /operator", args)
	}

	for _, r := range h.api.Requests() {
		assert.NotContains(t, r, "/api/admin/", "admin endpoint reached: %s", r)
	}
}

func TestOperatorsCommands(t *testing.T) {
	h := newHarness(t)
	spoID := h.api.AddSpo("College No. 1")
	h.loginAdmin()

	out := h.mustRun("operators", "create", "--spo-id", fmt.Sprint(spoID), "-o", "json")
	var op models.OperatorWithPassword
	require.NoError(t, json.Unmarshal([]byte(out), &op))
	assert.NotEmpty(t, op.GeneratedPassword)

	out = h.mustRun("operators", "ls")
	assert.Contains(t, out, op.Login)

	out = h.mustRun("operators", "reset-password", fmt.Sprint(op.ID))
	assert.Contains(t, out, "Password:")
	assert.NotContains(t, out, op.GeneratedPassword)

	h.mustRun("operators", "delete", fmt.Sprint(op.ID))
	out = h.mustRun("operators", "ls")
	assert.NotContains(t, out, op.Login)

	_, err := h.run("operators", "create")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid input")
}

func TestSettingsCommands(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin()

	out := h.mustRun("settings", "get")
	assert.Contains(t, out, "25")

	out = h.mustRun("settings", "set", "--base-quota", "40")
	assert.Contains(t, out, "40")

	_, err := h.run("settings", "set")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to change")

	_, err = h.run("settings", "set", "--base-quota", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid input")
}

func TestTemplatesCommands(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin()

	out := h.mustRun("templates", "create", "--code", "09.02.07", "--name", "Information systems", "-o", "json")
	var tmpl models.SpecialtyTemplate
	require.NoError(t, json.Unmarshal([]byte(out), &tmpl))

	_, err := h.run("templates", "create", "--code", "09.02.07", "--name", "Duplicate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	out = h.mustRun("templates", "update", fmt.Sprint(tmpl.ID), "--code", "09.02.07", "--name", "Information systems and programming")
	assert.Contains(t, out, "Information systems and programming")

	out = h.mustRun("templates", "ls")
	assert.Contains(t, out, "09.02.07")

	h.mustRun("templates", "delete", fmt.Sprint(tmpl.ID))
	out = h.mustRun("templates", "ls", "-o", "json")
	assert.JSONEq(t, "[]", out)
}

func TestSpecialtiesAdminCommands(t *testing.T) {
	h := newHarness(t)
	spo1 := h.api.AddSpo("College No. 1")
	spo2 := h.api.AddSpo("College No. 2")
	tmpl := h.api.AddTemplate("09.02.07", "Information systems")
	h.api.AddSpecialty(spo2, tmpl, 10)
	h.loginAdmin()

	out := h.mustRun("specialties", "create", "--spo-id", fmt.Sprint(spo1), "--template-id", fmt.Sprint(tmpl), "-o", "json")
	var created []models.Specialty
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	require.Len(t, created, 1)
	assert.Equal(t, 25, created[0].Quota)

	out = h.mustRun("specialties", "ls", "-o", "json")
	var all []models.Specialty
	require.NoError(t, json.Unmarshal([]byte(out), &all))
	assert.Len(t, all, 2)

	h.mustRun("specialties", "ls", "--spo-id", fmt.Sprint(spo1))
	assert.True(t, h.requested(fmt.Sprintf("GET /api/admin/specialties?spo_id=%d", spo1)))

	out = h.mustRun("specialties", "quota", fmt.Sprint(created[0].ID), "30")
	assert.Contains(t, out, "30")

	_, err := h.run("specialties", "quota", fmt.Sprint(created[0].ID), "-5")
	require.Error(t, err)

	out = h.mustRun("specialties", "delete", fmt.Sprint(created[0].ID))
	assert.Contains(t, out, "Deleted specialty")
}
