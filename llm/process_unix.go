//go:build !windows

package llm

import (
	"os/exec"
	"syscall"
)

// detachProcessGroup puts the child in its own process group so a terminal Ctrl+C
// reaches only this program. The child is stopped by Close.
func detachProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}
