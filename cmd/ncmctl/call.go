package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkt.systems/ncmctl/internal/actions"
	"pkt.systems/ncmctl/schema"
)

func newCallCmd() *cobra.Command {
	var cfgPath string
	var attach bool
	cmd := &cobra.Command{
		Use:   "call <action> [argument...]",
		Short: "Run one player action and print its result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, ok := actions.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown action %q (see `ncmctl actions`): %w", args[0], schema.ErrInvalidArgument)
			}
			arg, err := action.ParseArg(args[1:])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			p, err := openPlayer(ctx, cfg, launchMode(cfg, attach))
			if err != nil {
				return err
			}
			defer p.Close(ctx)

			out, err := p.runner.Run(ctx, action, arg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVar(&attach, "attach", false, "attach to a running client on debug.static_port instead of launching it")
	return cmd
}

func newActionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the available player actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printActions(cmd.OutOrStdout())
		},
	}
}
