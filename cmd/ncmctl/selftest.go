package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/ncmctl/internal/cdpdriver"
	"pkt.systems/ncmctl/internal/fixture"
	"pkt.systems/ncmctl/internal/selftest"
	"pkt.systems/pslog"
)

func newSelftestCmd() *cobra.Command {
	var cfgPath string
	var headful bool
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Run every action against the built-in fixture page in a local Chrome",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := pslog.Ctx(ctx)
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			srv, err := fixture.Start()
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
				defer cancel()
				_ = srv.Close(shutdownCtx)
			}()
			logger.Info("selftest fixture ready", "url", srv.URL)

			opts := driverOptions(cfg)
			opts.Headful = headful
			session, err := cdpdriver.Open(ctx, srv.URL, opts)
			if err != nil {
				return err
			}
			p := newPlayer(nil, session, cfg)
			defer p.Close(ctx)

			started := time.Now()
			results, err := selftest.Run(ctx, p.runner, selftest.Steps())
			out := cmd.OutOrStdout()
			for i, res := range results {
				status := "ok"
				if i == len(results)-1 && err != nil {
					status = "FAIL"
				}
				_, _ = fmt.Fprintf(out, "%-4s %-40s %s\n", status, res.Step, res.Duration.Round(time.Millisecond))
			}
			if err != nil {
				return err
			}
			logger.Info("selftest passed", "steps", len(results), "duration", time.Since(started).Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVar(&headful, "headful", false, "show the browser window")
	return cmd
}
