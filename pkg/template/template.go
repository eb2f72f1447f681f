// Package template generates starter configuration documents for
// "procvd config init", keeping the teacher's named-topology Generator
// shape but emitting group/dependency/process documents instead of a
// single flat process spec.
package template

import (
	"encoding/json"
	"fmt"

	"github.com/Itexoft/procvd/internal/config"
)

// TopologyType names a starter configuration shape.
type TopologyType string

const (
	TypeWeb      TopologyType = "web"
	TypeAPI      TopologyType = "api"
	TypeWorker   TopologyType = "worker"
	TypeDatabase TopologyType = "database"
	TypeCron     TopologyType = "cron"
	TypeSimple   TopologyType = "simple"
)

// Generator produces starter config.FileConfig documents.
type Generator struct{}

// NewGenerator creates a new template generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds a config.FileConfig for the named topology, using name
// as the leading group's name.
func (g *Generator) Generate(topology TopologyType, name string) (*config.FileConfig, error) {
	switch topology {
	case TypeWeb:
		return g.webConfig(name), nil
	case TypeAPI:
		return g.apiConfig(name), nil
	case TypeWorker:
		return g.workerConfig(name), nil
	case TypeDatabase:
		return g.databaseConfig(name), nil
	case TypeCron:
		return g.cronConfig(name), nil
	case TypeSimple:
		return g.simpleConfig(name), nil
	default:
		return nil, fmt.Errorf("unknown topology type: %s (supported: web, api, worker, database, cron, simple)", topology)
	}
}

// GenerateJSON renders the topology's config.FileConfig as indented JSON,
// suitable for writing straight to a config file.
func (g *Generator) GenerateJSON(topology TopologyType, name string) ([]byte, error) {
	fc, err := g.Generate(topology, name)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// SupportedTypes returns every topology type Generate accepts.
func (g *Generator) SupportedTypes() []string {
	return []string{
		string(TypeWeb),
		string(TypeAPI),
		string(TypeWorker),
		string(TypeDatabase),
		string(TypeCron),
		string(TypeSimple),
	}
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }

func (g *Generator) webConfig(name string) *config.FileConfig {
	return &config.FileConfig{
		BaseDirectory: "/app",
		Defaults: config.ProcessDefaults{
			RestartMode:    "process",
			MaxRestarts:    intPtr(5),
			RestartDelay:   "2s",
			OutputMode:     "file",
			OutputMaxBytes: int64Ptr(10 * 1024 * 1024),
			OutputMaxFiles: intPtr(5),
		},
		Groups: []config.GroupConfig{
			{
				Name:     name,
				Settings: config.ProcessDefaults{Env: map[string]*string{"ENV": strPtr("production")}},
				Processes: []config.ProcessConfig{
					{Name: "server", Command: "python -m http.server 8000", Priority: 10},
				},
			},
		},
	}
}

func (g *Generator) apiConfig(name string) *config.FileConfig {
	return &config.FileConfig{
		BaseDirectory: "/app",
		Defaults: config.ProcessDefaults{
			RestartMode:    "group",
			MaxRestarts:    intPtr(5),
			RestartDelay:   "1s",
			OutputMode:     "file",
			OutputMaxBytes: int64Ptr(10 * 1024 * 1024),
			OutputMaxFiles: intPtr(5),
		},
		Groups: []config.GroupConfig{
			{
				Name: name + "-db",
				Processes: []config.ProcessConfig{
					{Name: "postgres", Path: "/usr/bin/postgres", Args: []string{"-D", "/data/db"}, Priority: 5},
				},
			},
			{
				Name:         name,
				Dependencies: []string{name + "-db"},
				Processes: []config.ProcessConfig{
					{Name: "api", Path: "./api-server", Priority: 10},
				},
			},
		},
	}
}

func (g *Generator) workerConfig(name string) *config.FileConfig {
	return &config.FileConfig{
		BaseDirectory: "/app",
		Defaults: config.ProcessDefaults{
			RestartMode:  "process",
			MaxRestarts:  intPtr(10),
			RestartDelay: "5s",
			OutputMode:   "file",
		},
		Groups: []config.GroupConfig{
			{
				Name:     name,
				Settings: config.ProcessDefaults{Env: map[string]*string{"WORKER_THREADS": strPtr("4")}},
				Processes: []config.ProcessConfig{
					{Name: "worker-1", Path: "./worker", Priority: 20},
					{Name: "worker-2", Path: "./worker", Priority: 20},
				},
			},
		},
	}
}

func (g *Generator) databaseConfig(name string) *config.FileConfig {
	return &config.FileConfig{
		BaseDirectory: "/data",
		Defaults: config.ProcessDefaults{
			RestartMode:  "process",
			MaxRestarts:  intPtr(3),
			RestartDelay: "10s",
			OutputMode:   "file",
		},
		Groups: []config.GroupConfig{
			{
				Name: name,
				Processes: []config.ProcessConfig{
					{Name: "mongod", Path: "/usr/bin/mongod", Args: []string{"--dbpath", "/data/db", "--port", "27017"}, Priority: 5},
				},
			},
		},
	}
}

func (g *Generator) cronConfig(name string) *config.FileConfig {
	return &config.FileConfig{
		BaseDirectory: "/app",
		Defaults: config.ProcessDefaults{
			RestartMode: "process",
			MaxRestarts: intPtr(0),
			OutputMode:  "file",
		},
		Groups: []config.GroupConfig{
			{
				Name:     name,
				Settings: config.ProcessDefaults{Env: map[string]*string{"SCHEDULE": strPtr("daily")}},
				Processes: []config.ProcessConfig{
					{Name: "scheduled-task", Path: "./scheduled-task", Priority: 30},
				},
			},
		},
	}
}

func (g *Generator) simpleConfig(name string) *config.FileConfig {
	return &config.FileConfig{
		Groups: []config.GroupConfig{
			{
				Name: name,
				Processes: []config.ProcessConfig{
					{Name: name, Command: "echo 'hello from " + name + "'"},
				},
			},
		},
	}
}
