package main

import (
	"os"

	"github.com/phinze/compassdeck/internal/config"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "compassdeck",
	Short: "Virtual joystick for the Stream Deck touch strip",
	Long: `compassdeck turns a drag on a pointer surface into a joystick signal:
a speed percentage per axis, four direction flags and a chain of markers
from the press point to the thumb.

Run without a subcommand to drive a connected Stream Deck.`,
	SilenceUsage: true,
	RunE:         runDaemon,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "path to config file")
	rootCmd.AddCommand(runCmd, tuiCmd, traceCmd, setupCmd, statusCmd)
}

// loadConfig reads the file named by --config.
func loadConfig() (*config.Config, error) {
	return config.LoadFile(configPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
