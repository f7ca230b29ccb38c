package launcher

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"pkt.systems/pslog"
)

// Process is a started client process.
type Process struct {
	cmd  *exec.Cmd
	done chan struct{}
	err  error
}

// StartProcess starts executable with the remote debugging port flag followed by args.
// The process gets its own process group so Stop also reaches its helpers.
func StartProcess(ctx context.Context, executable string, port int, args []string) (*Process, error) {
	argv := append([]string{"--remote-debugging-port=" + strconv.Itoa(port)}, args...)
	cmd := exec.Command(executable, argv...)
	configureProcessGroup(cmd)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", executable, err)
	}
	p := &Process{cmd: cmd, done: make(chan struct{})}
	go func() {
		p.err = cmd.Wait()
		close(p.done)
	}()
	pslog.Ctx(ctx).Info("music client started", "pid", cmd.Process.Pid, "port", port, "executable", executable)
	return p, nil
}

// Pid returns the process id.
func (p *Process) Pid() int {
	if p == nil || p.cmd == nil || p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// Exited reports whether the process has exited.
func (p *Process) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Stop terminates the process group, escalating to a kill after grace.
func (p *Process) Stop(ctx context.Context, grace time.Duration) error {
	if p == nil || p.cmd == nil || p.cmd.Process == nil {
		return errors.New("process not started")
	}
	if p.Exited() {
		return nil
	}
	log := pslog.Ctx(ctx).With("pid", p.Pid())
	if err := terminate(p.cmd); err != nil {
		log.Warn("terminate failed", "err", err)
	}
	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-p.done:
		log.Info("music client stopped")
		return nil
	case <-timer.C:
	case <-ctx.Done():
	}
	log.Warn("music client did not exit; killing")
	if err := kill(p.cmd); err != nil {
		return fmt.Errorf("kill: %w", err)
	}
	select {
	case <-p.done:
		return nil
	case <-time.After(grace):
		return fmt.Errorf("process %d did not exit after kill", p.Pid())
	}
}
