package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/phinze/compassdeck/internal/config"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup: write the config file",
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("=== compassdeck Setup ===")
	fmt.Println()

	// Load existing config as defaults
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Existing config unreadable (%v), starting from defaults\n", err)
		cfg = config.Default()
	}

	fmt.Println("-- Stick --")
	cfg.Compass.MaxDistance = promptFloat(reader, "Max distance (px)", cfg.Compass.MaxDistance)
	cfg.Compass.SegmentCount = promptInt(reader, "Segment markers", cfg.Compass.SegmentCount)
	cfg.Compass.SingleAxisLock = promptBool(reader, "Lock to one axis", cfg.Compass.SingleAxisLock)
	if err := cfg.Compass.Validate(); err != nil {
		return err
	}
	fmt.Println()

	fmt.Println("-- Rendering --")
	cfg.Render.FPS = promptInt(reader, "Frames per second", cfg.Render.FPS)
	cfg.Render.ThumbColor = prompt(reader, "Thumb colour", cfg.Render.ThumbColor)
	cfg.Rover.Speed = promptFloat(reader, "Rover speed at 100% (px/s)", cfg.Rover.Speed)
	fmt.Println()

	fmt.Println("-- Stream Deck --")
	cfg.Hardware.Brightness = int(config.ClampBrightness(promptInt(reader, "Brightness (0-100)", cfg.Hardware.Brightness)))
	fmt.Println()

	fmt.Println("-- Feedback --")
	cfg.Feedback.Audio = promptBool(reader, "Click on press/release", cfg.Feedback.Audio)
	if cfg.Feedback.Audio {
		cfg.Feedback.Volume = promptFloat(reader, "Volume (0-1)", cfg.Feedback.Volume)
	}
	fmt.Println()

	if err := config.WriteFile(configPath, cfg); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	fmt.Printf("Config written to %s\n", configPath)
	fmt.Println("Setup complete!")
	return nil
}

// prompt asks for a value with an optional default.
func prompt(reader *bufio.Reader, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("  %s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("  %s: ", label)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultVal
	}
	return line
}

// promptFloat re-asks until the answer parses.
func promptFloat(reader *bufio.Reader, label string, defaultVal float64) float64 {
	for {
		s := prompt(reader, label, strconv.FormatFloat(defaultVal, 'g', -1, 64))
		v, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return v
		}
		fmt.Printf("  Not a number: %q\n", s)
	}
}

func promptInt(reader *bufio.Reader, label string, defaultVal int) int {
	for {
		s := prompt(reader, label, strconv.Itoa(defaultVal))
		v, err := strconv.Atoi(s)
		if err == nil {
			return v
		}
		fmt.Printf("  Not an integer: %q\n", s)
	}
}

func promptBool(reader *bufio.Reader, label string, defaultVal bool) bool {
	def := "n"
	if defaultVal {
		def = "y"
	}
	switch strings.ToLower(prompt(reader, label+" (y/n)", def)) {
	case "y", "yes", "true":
		return true
	default:
		return false
	}
}
