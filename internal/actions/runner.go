package actions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pkt.systems/ncmctl/internal/logx"
	"pkt.systems/ncmctl/schema"
	"pkt.systems/pslog"
)

// Runner serializes actions against a single controller.
type Runner struct {
	mu   sync.Mutex
	ctrl Controller
}

// NewRunner wraps a controller.
func NewRunner(ctrl Controller) *Runner {
	return &Runner{ctrl: ctrl}
}

// Call parses raw arguments and runs the named action.
func (r *Runner) Call(ctx context.Context, name string, args []string) (string, error) {
	action, ok := Lookup(name)
	if !ok {
		return "", fmt.Errorf("unknown action %q: %w", name, schema.ErrInvalidArgument)
	}
	arg, err := action.ParseArg(args)
	if err != nil {
		return "", err
	}
	return r.Run(ctx, action, arg)
}

// Run executes an already-parsed action. Only one action runs at a time.
func (r *Runner) Run(ctx context.Context, action Action, arg Arg) (string, error) {
	if r == nil || r.ctrl == nil {
		return "", schema.ErrNotInitialized
	}
	if action.run == nil {
		return "", fmt.Errorf("unknown action %q: %w", action.Name, schema.ErrInvalidArgument)
	}
	log := pslog.Ctx(ctx).With("action", action.Name)
	ctx = logx.ContextWithActionLogger(ctx, log, action.Name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	started := time.Now()
	log.Debug("action start")
	out, err := action.run(ctx, r.ctrl, arg)
	elapsed := time.Since(started)
	if err != nil {
		log.Warn("action failed", "duration", elapsed, "err", err)
		return "", err
	}
	log.Info("action done", "duration", elapsed)
	return out, nil
}
