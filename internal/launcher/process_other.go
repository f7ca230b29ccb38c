//go:build !unix

package launcher

import "os/exec"

func configureProcessGroup(*exec.Cmd) {}

func terminate(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}

func kill(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}
