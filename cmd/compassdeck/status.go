package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check config and device health",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== compassdeck Status ===")
	fmt.Println()

	allOK := true

	// Config file
	fmt.Printf("Config file: %s\n", configPath)
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("  Status: found")
	} else {
		fmt.Println("  Status: not found (using defaults)")
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("  Load error: %v\n", err)
		allOK = false
	}
	fmt.Println()

	if cfg != nil {
		fmt.Println("Stick:")
		if opts, err := cfg.CompassOptions(); err == nil {
			fmt.Printf("  Max distance: %.0f px\n", opts.MaxDistance)
			fmt.Printf("  Segments: %d\n", opts.SegmentCount)
			fmt.Printf("  Axis lock: %t\n", opts.SingleAxisLock)
		} else {
			fmt.Printf("  INVALID: %v\n", err)
			allOK = false
		}
		fmt.Printf("  Frame rate: %d fps (%s)\n", cfg.Render.FPS, cfg.FrameInterval())
		fmt.Printf("  Audio feedback: %t\n", cfg.Feedback.Audio)
		fmt.Println()
	}

	// Device check (quick USB probe)
	fmt.Println("Stream Deck:")
	dev := tryGetDeviceWithTimeout(2 * time.Second)
	if dev != nil {
		fmt.Println("  Device: CONNECTED")
		if rect, err := dev.GetTouchStripImageRectangle(); err == nil {
			fmt.Printf("  Touch strip: %dx%d\n", rect.Dx(), rect.Dy())
		} else {
			fmt.Println("  Touch strip: none (this model cannot host the stick)")
			allOK = false
		}
		dev.Close()
	} else {
		fmt.Println("  Device: not detected")
	}
	fmt.Println()

	if allOK {
		fmt.Println("All checks passed.")
	} else {
		fmt.Println("Some checks failed. Run 'compassdeck setup' to configure.")
	}

	return nil
}
