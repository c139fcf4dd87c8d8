//go:build windows

package llm

import (
	"os/exec"
	"syscall"
)

// detachProcessGroup keeps console Ctrl+C events away from the child. The child is
// stopped by Close.
func detachProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}
