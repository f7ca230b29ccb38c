// Package launcher starts the music client with remote debugging enabled and
// discovers the DevTools endpoint and page target to attach to.
package launcher

import (
	"context"
	"fmt"
	"time"

	"pkt.systems/pslog"
)

// Options controls Launch and Connect.
type Options struct {
	Executable  string
	Args        []string
	Host        string
	DynamicPort bool
	StaticPort  int
	TargetMatch string
	Timeout     time.Duration
}

// Instance is a reachable client: its DevTools endpoint, the page target and, when
// ncmctl launched it, the process.
type Instance struct {
	Port      int
	BrowserWS string
	Target    Target
	Process   *Process
}

// Launch starts the client and waits until its page target is reachable.
func Launch(ctx context.Context, opts Options) (*Instance, error) {
	executable, err := ResolveExecutable(opts.Executable)
	if err != nil {
		return nil, err
	}
	port, err := ChoosePort(opts.Host, opts.DynamicPort, opts.StaticPort)
	if err != nil {
		return nil, err
	}
	proc, err := StartProcess(ctx, executable, port, opts.Args)
	if err != nil {
		return nil, err
	}
	inst, err := discover(ctx, opts, port)
	if err != nil {
		if stopErr := proc.Stop(ctx, 5*time.Second); stopErr != nil {
			pslog.Ctx(ctx).Warn("stop after failed launch", "err", stopErr)
		}
		return nil, err
	}
	inst.Process = proc
	return inst, nil
}

// Connect discovers an already running client on the static port.
func Connect(ctx context.Context, opts Options) (*Instance, error) {
	if opts.StaticPort <= 0 {
		return nil, fmt.Errorf("connect needs a static debugging port")
	}
	return discover(ctx, opts, opts.StaticPort)
}

func discover(ctx context.Context, opts Options, port int) (*Instance, error) {
	host := opts.Host
	if host == "" {
		host = "127.0.0.1"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	dt := NewDevTools(host, port)
	version, err := dt.WaitVersion(ctx, timeout)
	if err != nil {
		return nil, fmt.Errorf("devtools endpoint on port %d: %w", port, err)
	}
	target, err := dt.WaitPageTarget(ctx, opts.TargetMatch, timeout)
	if err != nil {
		return nil, fmt.Errorf("page target: %w", err)
	}
	pslog.Ctx(ctx).Info("devtools ready", "port", port, "browser", version.Browser, "target", target.ID, "url", target.URL)
	return &Instance{Port: port, BrowserWS: version.WebSocketDebuggerURL, Target: target}, nil
}

// Close stops the launched process, if any.
func (i *Instance) Close(ctx context.Context) error {
	if i == nil || i.Process == nil {
		return nil
	}
	return i.Process.Stop(ctx, 5*time.Second)
}
