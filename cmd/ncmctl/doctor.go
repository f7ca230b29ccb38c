package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/ncmctl/internal/appconfig"
	"pkt.systems/ncmctl/internal/launcher"
	"pkt.systems/pslog"
)

func newDoctorCmd() *cobra.Command {
	var cfgPath string
	var probeTimeout time.Duration
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run ncmctl diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := pslog.Ctx(ctx)

			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			configPath := cfgPath
			if strings.TrimSpace(configPath) == "" {
				path, err := appconfig.DefaultConfigPath()
				if err != nil {
					return err
				}
				configPath = path
			}
			logger.Info("doctor start", "config", configPath)

			if cfg.App.Launch {
				exe, err := launcher.ResolveExecutable(cfg.App.Executable)
				if err != nil {
					return fmt.Errorf("doctor executable: %w", err)
				}
				logger.Info("doctor executable ok", "path", exe)
				if cfg.Debug.DynamicPort {
					port, err := launcher.FreePort(cfg.Debug.Host)
					if err != nil {
						return fmt.Errorf("doctor free port: %w", err)
					}
					logger.Info("doctor dynamic port ok", "host", cfg.Debug.Host, "sample", port)
				}
			}
			if !cfg.Debug.DynamicPort || !cfg.App.Launch {
				if err := probeDevTools(ctx, logger, cfg, probeTimeout); err != nil {
					if !cfg.App.Launch {
						return err
					}
					logger.Info("doctor devtools not reachable, the client is launched on demand", "port", cfg.Debug.StaticPort)
				}
			}
			logger.Info("doctor complete")
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().DurationVar(&probeTimeout, "probe-timeout", 2*time.Second, "timeout for the devtools endpoint probe")
	return cmd
}

func probeDevTools(ctx context.Context, logger pslog.Logger, cfg appconfig.Config, timeout time.Duration) error {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	dt := launcher.NewDevTools(cfg.Debug.Host, cfg.Debug.StaticPort)
	version, err := dt.Version(probeCtx)
	if err != nil {
		return fmt.Errorf("doctor devtools %s:%d: %w", cfg.Debug.Host, cfg.Debug.StaticPort, err)
	}
	logger.Info("doctor devtools ok", "browser", version.Browser, "protocol", version.ProtocolVersion)
	target, err := dt.PageTarget(probeCtx, cfg.App.TargetMatch)
	if err != nil {
		return fmt.Errorf("doctor page target %q: %w", cfg.App.TargetMatch, err)
	}
	logger.Info("doctor page target ok", "id", target.ID, "url", target.URL)
	return nil
}
