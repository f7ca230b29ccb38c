package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pkt.systems/ncmctl/internal/appconfig"
	"pkt.systems/pslog"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var outPath string
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := appconfig.WriteDefault(outPath, overwrite)
			if err != nil {
				return err
			}
			pslog.Ctx(cmd.Context()).Info("config wrote", "path", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "config path (default ~/.ncmctl/config.yaml)")
	cmd.Flags().BoolVar(&overwrite, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	return cmd
}
