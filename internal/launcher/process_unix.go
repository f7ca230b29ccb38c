//go:build unix

package launcher

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func terminate(cmd *exec.Cmd) error {
	return signalGroup(cmd, unix.SIGTERM)
}

func kill(cmd *exec.Cmd) error {
	return signalGroup(cmd, unix.SIGKILL)
}

func signalGroup(cmd *exec.Cmd, sig syscall.Signal) error {
	pid := cmd.Process.Pid
	if pgid, err := unix.Getpgid(pid); err == nil && pgid > 0 {
		if err := unix.Kill(-pgid, sig); err == nil {
			return nil
		}
	}
	return cmd.Process.Signal(sig)
}
