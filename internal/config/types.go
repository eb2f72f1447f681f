// Package config loads an INI or JSON configuration file with viper and
// resolves it, applying the defaults -> group-set -> group -> process
// override chain, into a model.ResolvedProcessConfig ready for the
// dependency graph builder and the supervision runtime.
package config

// FileConfig is the top-level document shape shared by both the INI and
// the JSON loader; viper's mapstructure decoding populates it regardless
// of source format.
type FileConfig struct {
	BaseDirectory string           `mapstructure:"base_directory" json:"base_directory,omitempty"`
	Defaults      ProcessDefaults  `mapstructure:"defaults" json:"defaults,omitempty"`
	GroupSets     []GroupSetConfig `mapstructure:"group_sets" json:"group_sets,omitempty"`
	Groups        []GroupConfig    `mapstructure:"groups" json:"groups,omitempty"`
}

// ProcessDefaults holds every setting that can be layered at the
// defaults, group-set, group, or process level. A nil/zero field means
// "inherit from the layer below."
type ProcessDefaults struct {
	RestartMode      string             `mapstructure:"restart_mode" json:"restart_mode,omitempty"`
	MaxRestarts      *int               `mapstructure:"max_restarts" json:"max_restarts,omitempty"`
	RestartDelay     string             `mapstructure:"restart_delay" json:"restart_delay,omitempty"`
	OutputMode       string             `mapstructure:"output_mode" json:"output_mode,omitempty"`
	OutputMaxBytes   *int64             `mapstructure:"output_max_bytes" json:"output_max_bytes,omitempty"`
	OutputMaxFiles   *int               `mapstructure:"output_max_files" json:"output_max_files,omitempty"`
	WorkingDirectory string             `mapstructure:"working_directory" json:"working_directory,omitempty"`
	Env              map[string]*string `mapstructure:"env" json:"env,omitempty"`
}

// GroupSetConfig aggregates groups for dependency-list expansion and
// optionally layers settings onto its members. Group-sets exist only
// during resolution; the runtime never sees them.
type GroupSetConfig struct {
	Name     string          `mapstructure:"name" json:"name"`
	Groups   []string        `mapstructure:"groups" json:"groups,omitempty"`
	Settings ProcessDefaults `mapstructure:"settings" json:"settings,omitempty"`
}

// GroupConfig describes one group as written in the config file, before
// default-merging or dependency expansion.
type GroupConfig struct {
	Name         string          `mapstructure:"name" json:"name"`
	Settings     ProcessDefaults `mapstructure:"settings" json:"settings,omitempty"`
	Dependencies []string        `mapstructure:"dependencies" json:"dependencies,omitempty"`
	Processes    []ProcessConfig `mapstructure:"processes" json:"processes,omitempty"`
}

// ProcessConfig describes one process as written in the config file.
// Exactly one of Command (shell) or Path (direct executable) must be
// set; Path may be accompanied by Args.
type ProcessConfig struct {
	Name       string          `mapstructure:"name" json:"name"`
	Command    string          `mapstructure:"command" json:"command,omitempty"`
	Path       string          `mapstructure:"path" json:"path,omitempty"`
	Args       []string        `mapstructure:"args" json:"args,omitempty"`
	PIDFile    string          `mapstructure:"pidfile" json:"pidfile,omitempty"`
	Priority   int             `mapstructure:"priority" json:"priority,omitempty"`
	Settings   ProcessDefaults `mapstructure:"settings" json:"settings,omitempty"`
	OutputPath string          `mapstructure:"output_path" json:"output_path,omitempty"`
}
