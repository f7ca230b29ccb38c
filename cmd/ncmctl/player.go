package main

import (
	"context"
	"fmt"
	"time"

	"pkt.systems/ncmctl/core"
	"pkt.systems/ncmctl/internal/actions"
	"pkt.systems/ncmctl/internal/appconfig"
	"pkt.systems/ncmctl/internal/cdpdriver"
	"pkt.systems/ncmctl/internal/launcher"
	"pkt.systems/pslog"
)

// player is a live controller session against the music client.
type player struct {
	instance *launcher.Instance
	session  *cdpdriver.Session
	runner   *actions.Runner
}

func launcherOptions(cfg appconfig.Config) launcher.Options {
	return launcher.Options{
		Executable:  cfg.App.Executable,
		Args:        cfg.App.Args,
		Host:        cfg.Debug.Host,
		DynamicPort: cfg.Debug.DynamicPort,
		StaticPort:  cfg.Debug.StaticPort,
		TargetMatch: cfg.App.TargetMatch,
		Timeout:     cfg.Driver.StartupTimeout(),
	}
}

func driverOptions(cfg appconfig.Config) cdpdriver.Options {
	return cdpdriver.Options{
		OpTimeout:      cfg.Driver.OpTimeout(),
		StartupTimeout: cfg.Driver.StartupTimeout(),
		ExecPath:       cfg.Driver.Path,
	}
}

// openPlayer launches (or connects to) the client and attaches a controller to its
// page target.
func openPlayer(ctx context.Context, cfg appconfig.Config, launch bool) (*player, error) {
	logger := pslog.Ctx(ctx)
	opts := launcherOptions(cfg)

	var inst *launcher.Instance
	var err error
	if launch {
		logger.Info("client launch start", "executable", opts.Executable, "dynamic_port", opts.DynamicPort)
		inst, err = launcher.Launch(ctx, opts)
	} else {
		logger.Info("client connect start", "host", opts.Host, "port", opts.StaticPort)
		inst, err = launcher.Connect(ctx, opts)
	}
	if err != nil {
		return nil, err
	}

	session, err := cdpdriver.Attach(ctx, inst.BrowserWS, inst.Target.ID, driverOptions(cfg))
	if err != nil {
		closeInstance(ctx, inst)
		return nil, err
	}
	return newPlayer(inst, session, cfg), nil
}

func newPlayer(inst *launcher.Instance, session *cdpdriver.Session, cfg appconfig.Config) *player {
	selectors := cfg.Selectors
	ctrl := core.NewController(core.ControllerDeps{
		Driver:    session,
		Selectors: &selectors,
		Timing:    cfg.Wait.Timing(),
	})
	return &player{instance: inst, session: session, runner: actions.NewRunner(ctrl)}
}

// Close detaches from the page and stops the client if ncmctl launched it.
func (p *player) Close(ctx context.Context) {
	if p == nil {
		return
	}
	if p.session != nil {
		p.session.Close()
	}
	closeInstance(ctx, p.instance)
}

func closeInstance(ctx context.Context, inst *launcher.Instance) {
	if inst == nil {
		return
	}
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := inst.Close(stopCtx); err != nil {
		pslog.Ctx(ctx).Warn("client stop failed", "err", err)
	}
}

func loadConfig(path string) (appconfig.Config, error) {
	cfg, err := appconfig.Load(path)
	if err != nil {
		return appconfig.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// launchMode resolves the --attach flag against app.launch.
func launchMode(cfg appconfig.Config, attach bool) bool {
	if attach {
		return false
	}
	return cfg.App.Launch
}
