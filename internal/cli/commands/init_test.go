package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoadmin/spoadmin/internal/cli/config"
	"github.com/spoadmin/spoadmin/internal/cli/userconfig"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)

	out, err := execute(t, NewInitCmd(), "https://spo.example.com/api/")
	require.NoError(t, err)
	assert.Contains(t, out, "Created ./spoadmin.json")

	out, err = execute(t, NewInitCmd(), "http://localhost:8000/api")
	require.NoError(t, err)
	assert.Contains(t, out, "Added server")

	out, err = execute(t, NewInitCmd(), "https://spo.example.com/api")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	cfg, err := config.Load(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	require.Len(t, cfg.Servers, 2)
	assert.Equal(t, config.Server{Alias: "production", URL: "https://spo.example.com/api"}, cfg.Servers[0])
	assert.Equal(t, "server-2", cfg.Servers[1].Alias)
}

func TestInitCommand_YAMLAndAlias(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spoadmin.yaml"), []byte("servers: []\n"), 0644))

	out, err := execute(t, NewInitCmd(), "http://localhost:8000/api", "--alias", "local")
	require.NoError(t, err)
	assert.Contains(t, out, "spoadmin.yaml")

	cfg, err := config.Load(filepath.Join(dir, "spoadmin.yaml"))
	require.NoError(t, err)
	require.Len(t, cfg.Servers, 1)
	assert.Equal(t, "local", cfg.Servers[0].Alias)

	_, err = execute(t, NewInitCmd(), "https://other.example.com/api", "--alias", "local")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already used")
}

func TestInitCommand_InvalidURL(t *testing.T) {
	chdirForTest(t, t.TempDir())

	_, err := execute(t, NewInitCmd(), "spo.example.com")
	require.Error(t, err)
	_, statErr := os.Stat(config.ConfigFileName)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSelectServerCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	chdirForTest(t, dir)

	cfg := &config.Config{Servers: []config.Server{
		{Alias: "production", URL: "https://spo.example.com/api"},
		{Alias: "local", URL: "http://localhost:8000/api"},
	}}
	require.NoError(t, config.Save(filepath.Join(dir, config.ConfigFileName), cfg))

	out, err := execute(t, NewSelectServerCmd(), "local")
	require.NoError(t, err)
	assert.Contains(t, out, "Selected server: local")

	selected, err := userconfig.GetSelectedServer()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api", selected)

	_, err = execute(t, NewSelectServerCmd(), "staging")
	assert.Error(t, err)
}
