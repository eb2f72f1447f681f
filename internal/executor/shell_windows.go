//go:build windows

package executor

import (
	"os/exec"

	"github.com/Itexoft/procvd/internal/model"
)

// buildDirectCmd builds the *exec.Cmd for inherit-mode spawning: a shell
// invocation for ShellCommand processes, a direct exec otherwise.
func buildDirectCmd(p model.ResolvedProcess) *exec.Cmd {
	var cmd *exec.Cmd
	if p.UsesShell() {
		// #nosec G204
		cmd = exec.Command("cmd", "/c", p.ShellCommand)
	} else {
		// #nosec G204
		cmd = exec.Command(p.ExecutablePath, p.Arguments...)
	}
	configureProcessGroup(cmd)
	return cmd
}
