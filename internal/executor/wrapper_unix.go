//go:build !windows

package executor

import (
	"os/exec"
	"strings"

	"github.com/Itexoft/procvd/internal/model"
)

const wrapperExt = "sh"

// quoteArg produces a single-quoted POSIX shell token, escaping any
// embedded single quote as '"'"'.
func quoteArg(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func wrapperScript(p model.ResolvedProcess, logPath string) string {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	if p.UsesShell() {
		b.WriteString("exec /bin/sh -c " + quoteArg(p.ShellCommand) + " >> " + quoteArg(logPath) + " 2>&1\n")
	} else {
		b.WriteString("exec " + quoteArg(p.ExecutablePath) + ` "$@" >> ` + quoteArg(logPath) + " 2>&1\n")
	}
	return b.String()
}

// wrapperArgs returns the arguments the wrapper script forwards to the
// real command via "$@". Shell-command processes carry no argv of their
// own; direct-executable processes forward theirs.
func wrapperArgs(p model.ResolvedProcess) []string {
	if p.UsesShell() {
		return nil
	}
	return p.Arguments
}

func buildWrapperCmd(scriptPath string, p model.ResolvedProcess) *exec.Cmd {
	// #nosec G204 -- scriptPath is generated by this package, not attacker input.
	cmd := exec.Command(scriptPath, wrapperArgs(p)...)
	configureProcessGroup(cmd)
	return cmd
}
