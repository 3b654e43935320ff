package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/phinze/compassdeck/internal/app"
	"github.com/phinze/compassdeck/internal/config"
	"github.com/phinze/compassdeck/internal/device"
	"github.com/phinze/compassdeck/internal/device/emulator"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "compassdeck-emulator",
	Short:        "Drive the stick with the mouse or touch in a desktop window",
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	Run:          runEmulator,
}

func main() {
	rootCmd.Flags().StringVar(&configPath, "config", config.DefaultConfigPath(), "path to config file")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runEmulator(cmd *cobra.Command, args []string) {
	log.Println("=== compassdeck Emulator ===")
	log.Println("Close window or press Ctrl+C to exit")

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		log.Printf("Warning: config load: %v (using defaults)", err)
		cfg = config.Default()
	}

	// Setup signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("\nReceived shutdown signal")
		cancel()
	}()

	emu := emulator.New()
	if err := emu.Open(); err != nil {
		log.Fatalf("Failed to open emulator: %v", err)
	}

	a, err := app.New(emu, cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	// Start coordinator in background goroutine
	go runWithDevice(ctx, cfg, emu, a)

	// Run GUI on main thread (required for macOS)
	if err := emu.RunGUI(); err != nil {
		log.Printf("Emulator GUI error: %v", err)
	}
}

// runWithDevice runs the session until context cancel or the window closes.
func runWithDevice(ctx context.Context, cfg *config.Config, dev device.Device, a *app.App) {
	log.Printf("Connected to: %s", dev.GetModelName())

	if err := dev.SetBrightness(cfg.DeviceBrightness()); err != nil {
		log.Printf("Failed to set brightness: %v", err)
	}

	if err := a.Run(ctx, nil); err != nil {
		log.Printf("Coordinator error: %v", err)
	}

	dev.Close()
}
