package main

import (
	"github.com/phinze/compassdeck/internal/trace"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace SCRIPT",
	Short: "Replay a scripted gesture and print the resolved output per step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		script, err := trace.Load(args[0])
		if err != nil {
			return err
		}
		frames, err := trace.Run(cfg.Compass, script)
		if err != nil {
			return err
		}
		return trace.WriteTable(cmd.OutOrStdout(), frames)
	},
}
