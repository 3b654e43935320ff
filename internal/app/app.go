// Package app assembles the stick, rover and feedback modules on a device.
package app

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/phinze/compassdeck/internal/config"
	"github.com/phinze/compassdeck/internal/coordinator"
	"github.com/phinze/compassdeck/internal/device"
	"github.com/phinze/compassdeck/internal/feedback"
	"github.com/phinze/compassdeck/internal/module"
	"github.com/phinze/compassdeck/internal/modules/rover"
	"github.com/phinze/compassdeck/internal/modules/stick"
)

var roverColor = color.RGBA{80, 180, 255, 255}

// App is one device session.
type App struct {
	Device      device.Device
	Coordinator *coordinator.Coordinator
	Stick       *stick.Module
	Rover       *rover.Module

	clicker *feedback.Clicker
}

// New builds the modules for dev from cfg. The stick covers the whole surface
// and is drawn over the rover.
func New(dev device.Device, cfg *config.Config) (*App, error) {
	opts, err := cfg.CompassOptions()
	if err != nil {
		return nil, fmt.Errorf("compass options: %w", err)
	}

	rect, err := dev.GetSurfaceRectangle()
	if err != nil {
		return nil, fmt.Errorf("surface rectangle: %w", err)
	}

	theme := Theme(cfg)
	st, err := stick.New(opts, theme)
	if err != nil {
		return nil, err
	}

	rv := rover.New(st, rover.Config{
		Speed: cfg.Rover.Speed,
		Size:  cfg.Rover.Size,
		Color: roverColor,
	})

	coord := coordinator.New(dev, cfg.FrameInterval())
	if err := coord.RegisterModule(rv, module.Resources{Region: rect}); err != nil {
		return nil, err
	}
	if err := coord.RegisterModule(st, module.Resources{Region: rect, Capture: true}); err != nil {
		return nil, err
	}

	a := &App{
		Device:      dev,
		Coordinator: coord,
		Stick:       st,
		Rover:       rv,
	}

	if cfg.Feedback.Audio {
		a.clicker = feedback.NewClicker(cfg.Feedback.Volume)
		st.AddVisibilityHandler(a.clicker.Visibility)
	}
	return a, nil
}

// Theme returns the stick colours from cfg.
func Theme(cfg *config.Config) stick.Theme {
	def := stick.DefaultTheme()
	return stick.Theme{
		Base:    config.ParseColor(cfg.Render.BaseColor, def.Base),
		Segment: config.ParseColor(cfg.Render.SegmentColor, def.Segment),
		Thumb:   config.ParseColor(cfg.Render.ThumbColor, def.Thumb),
	}
}

// Run starts the coordinator and blocks until ctx is done, the device fails
// or done fires. It always stops the coordinator before returning.
func (a *App) Run(ctx context.Context, done <-chan struct{}) error {
	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- a.Coordinator.Start(runCtx)
	}()

	log.Println("Ready! Drag on the surface to steer")

	var err error
	running := true
	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err = <-errChan:
		running = false
	case <-done:
	}

	runCancel()
	if running {
		select {
		case err = <-errChan:
		case <-time.After(2 * time.Second):
			log.Println("Coordinator did not return")
		}
	}

	stopped := make(chan struct{})
	go func() {
		a.Coordinator.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		log.Println("Cleanup timed out")
	}

	if a.clicker != nil {
		a.clicker.Close()
	}
	return err
}
