package config

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Itexoft/procvd/internal/model"
)

func resolve(fc FileConfig, baseDir string) (model.ResolvedProcessConfig, error) {
	groupSets := make(map[string]GroupSetConfig, len(fc.GroupSets))
	for _, gs := range fc.GroupSets {
		groupSets[gs.Name] = gs
	}
	sortedGroupSetNames := make([]string, 0, len(groupSets))
	for name := range groupSets {
		sortedGroupSetNames = append(sortedGroupSetNames, name)
	}
	sort.Strings(sortedGroupSetNames)

	groups := make(map[string]model.ResolvedProcessGroup, len(fc.Groups))
	groupOrder := make([]string, 0, len(fc.Groups))

	for _, gc := range fc.Groups {
		if gc.Name == "" {
			return model.ResolvedProcessConfig{}, fail("group has no name")
		}
		if _, dup := groups[gc.Name]; dup {
			return model.ResolvedProcessConfig{}, fail("duplicate group name %q", gc.Name)
		}

		effective := fc.Defaults
		for _, gsName := range sortedGroupSetNames {
			gs := groupSets[gsName]
			if containsString(gs.Groups, gc.Name) {
				effective = mergeDefaults(effective, gs.Settings)
			}
		}
		effective = mergeDefaults(effective, gc.Settings)

		restartMode, err := parseRestartMode(effective.RestartMode)
		if err != nil {
			return model.ResolvedProcessConfig{}, err
		}
		restartDelay, err := parseDuration(effective.RestartDelay)
		if err != nil {
			return model.ResolvedProcessConfig{}, err
		}

		if len(gc.Processes) == 0 {
			return model.ResolvedProcessConfig{}, fail("group %q has no processes", gc.Name)
		}

		processes := make([]model.ResolvedProcess, 0, len(gc.Processes))
		seen := make(map[string]struct{}, len(gc.Processes))
		for _, pc := range gc.Processes {
			if _, dup := seen[pc.Name]; dup {
				return model.ResolvedProcessConfig{}, fail("duplicate process name %q in group %q", pc.Name, gc.Name)
			}
			seen[pc.Name] = struct{}{}

			procEffective := mergeDefaults(effective, pc.Settings)
			rp, err := resolveProcess(gc.Name, pc, procEffective, baseDir)
			if err != nil {
				return model.ResolvedProcessConfig{}, err
			}
			processes = append(processes, rp)
		}

		groups[gc.Name] = model.ResolvedProcessGroup{
			Name:          gc.Name,
			RestartMode:   restartMode,
			RestartPolicy: model.RestartPolicy{MaxRestarts: effective.MaxRestarts, RestartDelay: restartDelay},
			Dependencies:  expandDependencies(gc.Dependencies, groupSets),
			Processes:     processes,
		}
		groupOrder = append(groupOrder, gc.Name)
	}

	return model.ResolvedProcessConfig{BaseDirectory: baseDir, Groups: groups, GroupOrder: groupOrder}, nil
}

func resolveProcess(groupName string, pc ProcessConfig, eff ProcessDefaults, baseDir string) (model.ResolvedProcess, error) {
	if pc.Name == "" {
		return model.ResolvedProcess{}, fail("process in group %q has no name", groupName)
	}
	if pc.Command != "" && pc.Path != "" {
		return model.ResolvedProcess{}, fail("process %q/%q sets both command and path", groupName, pc.Name)
	}
	if pc.Command == "" && pc.Path == "" {
		return model.ResolvedProcess{}, fail("process %q/%q sets neither command nor path", groupName, pc.Name)
	}

	key := model.ProcessKey{Group: groupName, Process: pc.Name}

	var executablePath, displayPath string
	var arguments []string
	if pc.Command != "" {
		displayPath = pc.Command
	} else {
		executablePath = resolvePath(baseDir, pc.Path)
		displayPath = pc.Path
		arguments = pc.Args
	}

	outputMode, err := parseOutputMode(eff.OutputMode)
	if err != nil {
		return model.ResolvedProcess{}, err
	}

	var outputPath string
	if outputMode == model.OutputFile {
		if pc.OutputPath == "" {
			return model.ResolvedProcess{}, fail("process %q/%q uses file output but sets no output_path", groupName, pc.Name)
		}
		outputPath = resolvePath(baseDir, pc.OutputPath)
	}

	var maxBytes int64
	if eff.OutputMaxBytes != nil {
		maxBytes = *eff.OutputMaxBytes
	}
	maxFiles := 1
	if eff.OutputMaxFiles != nil {
		maxFiles = *eff.OutputMaxFiles
	}

	return model.ResolvedProcess{
		Key:              key,
		ExecutablePath:   executablePath,
		DisplayPath:      displayPath,
		Arguments:        arguments,
		ShellCommand:     pc.Command,
		WorkingDirectory: workingDirectory(baseDir, eff.WorkingDirectory),
		Environment:      eff.Env,
		OutputMode:       outputMode,
		OutputPath:       outputPath,
		OutputMaxBytes:   maxBytes,
		OutputMaxFiles:   maxFiles,
		PIDFilePath:      resolvePath(baseDir, pc.PIDFile),
		Priority:         pc.Priority,
	}, nil
}

func mergeDefaults(base, over ProcessDefaults) ProcessDefaults {
	out := base
	if over.RestartMode != "" {
		out.RestartMode = over.RestartMode
	}
	if over.MaxRestarts != nil {
		out.MaxRestarts = over.MaxRestarts
	}
	if over.RestartDelay != "" {
		out.RestartDelay = over.RestartDelay
	}
	if over.OutputMode != "" {
		out.OutputMode = over.OutputMode
	}
	if over.OutputMaxBytes != nil {
		out.OutputMaxBytes = over.OutputMaxBytes
	}
	if over.OutputMaxFiles != nil {
		out.OutputMaxFiles = over.OutputMaxFiles
	}
	if over.WorkingDirectory != "" {
		out.WorkingDirectory = over.WorkingDirectory
	}
	if len(over.Env) > 0 {
		merged := make(map[string]*string, len(out.Env)+len(over.Env))
		for k, v := range out.Env {
			merged[k] = v
		}
		for k, v := range over.Env {
			merged[k] = v
		}
		out.Env = merged
	}
	return out
}

func expandDependencies(deps []string, groupSets map[string]GroupSetConfig) []string {
	set := make(map[string]struct{}, len(deps))
	for _, d := range deps {
		if gs, ok := groupSets[d]; ok {
			for _, member := range gs.Groups {
				set[member] = struct{}{}
			}
			continue
		}
		set[d] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func workingDirectory(baseDir, p string) string {
	if p == "" {
		return baseDir
	}
	return resolvePath(baseDir, p)
}

func resolvePath(baseDir, p string) string {
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func parseRestartMode(s string) (model.RestartMode, error) {
	switch strings.ToLower(s) {
	case "", "process":
		return model.RestartProcess, nil
	case "group":
		return model.RestartGroup, nil
	default:
		return 0, fail("unknown restart_mode %q", s)
	}
}

func parseOutputMode(s string) (model.OutputMode, error) {
	switch strings.ToLower(s) {
	case "", "inherit":
		return model.OutputInherit, nil
	case "file":
		return model.OutputFile, nil
	default:
		return 0, fail("unknown output_mode %q", s)
	}
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fail("invalid duration %q: %v", s, err)
	}
	return d, nil
}
