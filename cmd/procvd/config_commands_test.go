package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigInit_WritesFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "app.json")

	c := &command{}
	err := c.ConfigInit(ConfigInitFlags{Type: "web", Name: "app", Output: out})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), "app")
}

func TestConfigInit_RefusesToOverwriteWithoutForce(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(out, []byte("existing"), 0o644))

	c := &command{}
	err := c.ConfigInit(ConfigInitFlags{Type: "simple", Name: "app", Output: out})
	require.Error(t, err)
}

func TestConfigInit_ForceOverwrites(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(out, []byte("existing"), 0o644))

	c := &command{}
	err := c.ConfigInit(ConfigInitFlags{Type: "simple", Name: "app", Output: out, Force: true})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.NotEqual(t, "existing", string(data))
}

func TestConfigInit_UnknownTopology(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "app.json")

	c := &command{}
	err := c.ConfigInit(ConfigInitFlags{Type: "bogus", Name: "app", Output: out})
	require.Error(t, err)
}
