//go:build windows

package executor

import (
	"os/exec"
	"strings"

	"github.com/Itexoft/procvd/internal/model"
)

const wrapperExt = "cmd"

// quoteArg produces a "..."-quoted Windows batch token, doubling any
// embedded quote character.
func quoteArg(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func wrapperScript(p model.ResolvedProcess, logPath string) string {
	var b strings.Builder
	b.WriteString("@echo off\n")
	if p.UsesShell() {
		b.WriteString("cmd /c " + quoteArg(p.ShellCommand) + " >> " + quoteArg(logPath) + " 2>&1\n")
	} else {
		b.WriteString(quoteArg(p.ExecutablePath) + " %* >> " + quoteArg(logPath) + " 2>&1\n")
	}
	return b.String()
}

func wrapperArgs(p model.ResolvedProcess) []string {
	if p.UsesShell() {
		return nil
	}
	return p.Arguments
}

func buildWrapperCmd(scriptPath string, p model.ResolvedProcess) *exec.Cmd {
	args := append([]string{"/c", scriptPath}, wrapperArgs(p)...)
	// #nosec G204 -- scriptPath is generated by this package, not attacker input.
	cmd := exec.Command("cmd", args...)
	configureProcessGroup(cmd)
	return cmd
}
