package main

import (
	"github.com/spf13/cobra"

	"pkt.systems/ncmctl/internal/mcptools"
	"pkt.systems/ncmctl/internal/version"
	"pkt.systems/pslog"
)

func newServeCmd() *cobra.Command {
	var cfgPath string
	var attach bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the player actions as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := pslog.Ctx(ctx)
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			p, err := openPlayer(ctx, cfg, launchMode(cfg, attach))
			if err != nil {
				return err
			}
			defer p.Close(ctx)

			server := mcptools.NewServer(p.runner, version.Current())
			logger.Info("serve start", "target", p.instance.Target.ID, "port", p.instance.Port)
			if err := mcptools.Serve(ctx, server); err != nil && ctx.Err() == nil {
				return err
			}
			logger.Info("serve stopped")
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVar(&attach, "attach", false, "attach to a running client on debug.static_port instead of launching it")
	return cmd
}
