package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Itexoft/procvd/internal/model"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "defaults": {
    "restart_mode": "process",
    "restart_delay": "100ms"
  },
  "group_sets": [
    {"name": "backend", "groups": ["core", "api"]}
  ],
  "groups": [
    {
      "name": "core",
      "settings": {"restart_mode": "group"},
      "processes": [
        {"name": "core", "command": "echo core"}
      ]
    },
    {
      "name": "api",
      "dependencies": ["core"],
      "processes": [
        {"name": "api", "path": "/usr/bin/api", "args": ["--port", "8080"]}
      ]
    },
    {
      "name": "web",
      "dependencies": ["backend"],
      "processes": [
        {
          "name": "web",
          "command": "web-server",
          "settings": {
            "output_mode": "file",
            "output_max_bytes": 1048576,
            "output_max_files": 3
          },
          "output_path": "logs/web/web.log"
        }
      ]
    }
  ]
}`

func writeTempConfig(t *testing.T, name, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_JSONResolvesDefaultsAndGroupSets(t *testing.T) {
	path := writeTempConfig(t, "procvd.json", sampleJSON)

	cfg, err := Load(path)
	require.NoError(t, err)

	core := cfg.Groups["core"]
	require.Equal(t, model.RestartGroup, core.RestartMode)

	api := cfg.Groups["api"]
	require.Equal(t, model.RestartProcess, api.RestartMode)
	require.Equal(t, []string{"core"}, api.Dependencies)
	require.Equal(t, 100_000_000, int(api.RestartPolicy.RestartDelay))

	web := cfg.Groups["web"]
	require.ElementsMatch(t, []string{"api", "core"}, web.Dependencies)
	require.Len(t, web.Processes, 1)
	require.Equal(t, model.OutputFile, web.Processes[0].OutputMode)
	require.True(t, filepath.IsAbs(web.Processes[0].OutputPath))
}

func TestLoad_RejectsCommandAndPathTogether(t *testing.T) {
	path := writeTempConfig(t, "procvd.json", `{
      "groups": [{"name": "g", "processes": [{"name": "p", "command": "x", "path": "/bin/x"}]}]
    }`)

	_, err := Load(path)
	require.Error(t, err)
	var configErr *model.ConfigError
	require.ErrorAs(t, err, &configErr)
}
