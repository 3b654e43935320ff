package main

import (
	"github.com/phinze/compassdeck/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Drive the stick with the mouse in a terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		opts := cfg.Compass
		opts.MaxDistance = cfg.TUI.MaxDistance
		if err := opts.Validate(); err != nil {
			return err
		}
		return tui.Run(opts, cfg.TUI.History)
	},
}
