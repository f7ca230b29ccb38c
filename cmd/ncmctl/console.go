package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"pkt.systems/ncmctl/internal/actions"
	"pkt.systems/pslog"
)

func newConsoleCmd() *cobra.Command {
	var cfgPath string
	var attach bool
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Interactive prompt for player actions",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "ncm> ",
				AutoComplete:    consoleCompleter(),
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
				Stdout:          cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			defer func() { _ = rl.Close() }()
			return runConsole(ctx, rl, p.runner, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVar(&attach, "attach", false, "attach to a running client on debug.static_port instead of launching it")
	return cmd
}

func consoleCompleter() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(actions.Names())+2)
	for _, name := range actions.Names() {
		items = append(items, readline.PcItem(name))
	}
	items = append(items, readline.PcItem("help"), readline.PcItem("exit"))
	return readline.NewPrefixCompleter(items...)
}

type lineReader interface {
	Readline() (string, error)
}

type actionCaller interface {
	Call(ctx context.Context, name string, args []string) (string, error)
}

func runConsole(ctx context.Context, rl lineReader, runner actionCaller, out io.Writer) error {
	logger := pslog.Ctx(ctx)
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch strings.ToLower(fields[0]) {
		case "exit", "quit":
			return nil
		case "help", "?":
			if err := printActions(out); err != nil {
				return err
			}
			continue
		}
		result, err := runner.Call(ctx, fields[0], fields[1:])
		if err != nil {
			logger.Debug("console action failed", "line", line, "err", err)
			_, _ = fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		_, _ = fmt.Fprintln(out, result)
	}
}

func printActions(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, a := range actions.All() {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", a.Usage(), a.Description); err != nil {
			return err
		}
	}
	return tw.Flush()
}
