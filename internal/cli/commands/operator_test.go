package commands

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoadmin/spoadmin/internal/models"
)

// seedOperator creates two SPO with one specialty each and logs in as the operator of the first
func seedOperator(h *harness) (specialtyID, otherSpecialtyID int) {
	spo1 := h.api.AddSpo("College No. 1")
	spo2 := h.api.AddSpo("College No. 2")
	tmpl := h.api.AddTemplate("09.02.07", "Information systems")
	specialtyID = h.api.AddSpecialty(spo1, tmpl, 1)
	otherSpecialtyID = h.api.AddSpecialty(spo2, tmpl, 5)
	h.api.AddUser("op1", "secret", models.RoleOperator, &spo1)
	h.login("op1", "secret")
	return specialtyID, otherSpecialtyID
}

func TestSpecialties_OperatorSeesOwnSpo(t *testing.T) {
	h := newHarness(t)
	specialtyID, _ := seedOperator(h)

	out := h.mustRun("specialties", "ls", "-o", "json")
	var list []models.Specialty
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, specialtyID, list[0].ID)
	assert.True(t, h.requested("GET /api/specialties"))

	_, err := h.run("specialties", "ls", "--spo-id", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only available to admins")
}

func TestStudentsCommands(t *testing.T) {
	h := newHarness(t)
	specialtyID, otherSpecialtyID := seedOperator(h)

	out := h.mustRun("students", "ls")
	assert.Contains(t, out, "No students found")

	out = h.mustRun("students", "add",
		"--full-name", "Ivan Petrov",
		"--attestat", "A-001",
		"--specialty-id", fmt.Sprint(specialtyID),
		"-o", "json")
	var student models.Student
	require.NoError(t, json.Unmarshal([]byte(out), &student))
	assert.Equal(t, "Ivan Petrov", student.FullName)

	// quota is 1
	_, err := h.run("students", "add",
		"--full-name", "Anna Sidorova",
		"--attestat", "A-002",
		"--specialty-id", fmt.Sprint(specialtyID))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Quota exceeded")

	_, err = h.run("students", "add",
		"--full-name", "Anna Sidorova",
		"--attestat", "A-002",
		"--specialty-id", fmt.Sprint(otherSpecialtyID))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong to your SPO")

	out = h.mustRun("students", "update", fmt.Sprint(student.ID),
		"--full-name", "Ivan Petrov-Vodkin",
		"--attestat", "A-001",
		"--specialty-id", fmt.Sprint(specialtyID))
	assert.Contains(t, out, "Ivan Petrov-Vodkin")

	out = h.mustRun("students", "ls", "--specialty-id", fmt.Sprint(specialtyID))
	assert.Contains(t, out, "Ivan Petrov-Vodkin")
	assert.True(t, h.requested(fmt.Sprintf("GET /api/students?specialty_id=%d", specialtyID)))

	h.mustRun("students", "delete", fmt.Sprint(student.ID))
	out = h.mustRun("students", "ls")
	assert.Contains(t, out, "No students found")
}

func TestStudents_ValidationBeforeRequest(t *testing.T) {
	h := newHarness(t)
	seedOperator(h)

	_, err := h.run("students", "add", "--full-name", "Ivan Petrov")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid input")
	assert.False(t, h.requested("POST /api/students"))
}

func TestStudents_AdminIsRedirected(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin()

	_, err := h.run("students", "ls")
	require.ErrorIs(t, err, ErrAccessDenied)
	assert.Contains(t, err.Error(), "redirected to /admin")
}

func TestStats(t *testing.T) {
	h := newHarness(t)
	seedOperator(h)

	out := h.mustRun("stats", "-o", "json")
	var stats models.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	require.Len(t, stats.SpoList, 1)
	assert.Equal(t, "College No. 1", stats.SpoList[0].SpoName)

	h.login("admin", "admin123")

	out = h.mustRun("stats", "-o", "json")
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 2, stats.TotalSpo)

	out = h.mustRun("stats")
	assert.Contains(t, out, "College No. 2")
}
