package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/phinze/compassdeck/internal/app"
	"github.com/phinze/compassdeck/internal/config"
	"github.com/phinze/compassdeck/internal/device"
	"github.com/prashantgupta24/mac-sleep-notifier/notifier"
	"github.com/spf13/cobra"
	"rafaelmartins.com/p/streamdeck"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive a connected Stream Deck (default)",
	RunE:  runDaemon,
}

// session tracks the running app so sleep notifications can reach it.
type session struct {
	mu  sync.Mutex
	app *app.App
}

func (s *session) set(a *app.App) {
	s.mu.Lock()
	s.app = a
	s.mu.Unlock()
}

func (s *session) cancelGesture() {
	s.mu.Lock()
	a := s.app
	s.mu.Unlock()
	if a != nil {
		a.Coordinator.CancelGesture()
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	log.Println("=== compassdeck ===")
	log.Println("Press Ctrl+C to exit")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := cfg.CompassOptions(); err != nil {
		return err
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

	// Sleep drops any held gesture; wake forces a reconnect.
	var current session
	sleepCh := notifier.GetInstance().Start()
	wakeCh := make(chan struct{}, 1)
	go func() {
		for activity := range sleepCh {
			switch activity.Type {
			case notifier.Sleep:
				log.Println("System sleep detected")
				current.cancelGesture()
			case notifier.Awake:
				log.Println("System wake detected")
				select {
				case wakeCh <- struct{}{}:
				default:
				}
			}
		}
	}()

	// Main device loop - wait for device, run, repeat on disconnect
	for {
		dev := waitForHardwareDevice(ctx, cfg, wakeCh)
		if dev == nil {
			// Context cancelled
			break
		}

		select {
		case <-ctx.Done():
			log.Println("Exiting...")
			dev.Close()
			return nil
		default:
		}

		// Drain wake signals that arrived while waiting for the device.
	drainWake:
		for {
			select {
			case <-wakeCh:
				log.Println("Draining stale wake signal")
			default:
				break drainWake
			}
		}

		// USB enumeration may not be complete even after GetDevice succeeds.
		time.Sleep(500 * time.Millisecond)

		runWithDevice(ctx, cfg, dev, wakeCh, &current)

		select {
		case <-ctx.Done():
			log.Println("Exiting...")
			return nil
		default:
			log.Println("Waiting for device reconnect...")
		}
	}
	return nil
}

// tryGetDeviceWithTimeout attempts to get and open a Stream Deck device with a timeout.
// Returns the device if successful, nil otherwise.
func tryGetDeviceWithTimeout(timeout time.Duration) *streamdeck.Device {
	type result struct {
		dev *streamdeck.Device
		err error
	}
	ch := make(chan result, 1)

	go func() {
		dev, err := streamdeck.GetDevice("")
		if err != nil {
			ch <- result{nil, err}
			return
		}
		if err := dev.Open(); err != nil {
			ch <- result{nil, err}
			return
		}
		ch <- result{dev, nil}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil
		}
		return r.dev
	case <-time.After(timeout):
		log.Println("Device detection timed out")
		return nil
	}
}

// waitForHardwareDevice polls for a Stream Deck device until one is available.
// Wake signals trigger an immediate retry instead of waiting for the poll interval.
func waitForHardwareDevice(ctx context.Context, cfg *config.Config, wakeCh <-chan struct{}) device.Device {
	const deviceTimeout = 5 * time.Second

	if dev := tryGetDeviceWithTimeout(deviceTimeout); dev != nil {
		return device.NewHardware(dev, cfg.Hardware.SwipeHold)
	}

	log.Println("Waiting for device...")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-wakeCh:
			// USB devices may take several seconds to enumerate after wake.
			log.Println("Wake signal received, probing for device...")
			for i := 0; i < 10; i++ {
				if dev := tryGetDeviceWithTimeout(deviceTimeout); dev != nil {
					log.Println("Device connected!")
					return device.NewHardware(dev, cfg.Hardware.SwipeHold)
				}
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(500 * time.Millisecond):
				}
			}
			log.Println("Device not found after wake, resuming polling...")
		case <-time.After(2 * time.Second):
		}

		if dev := tryGetDeviceWithTimeout(deviceTimeout); dev != nil {
			log.Println("Device connected!")
			return device.NewHardware(dev, cfg.Hardware.SwipeHold)
		}
	}
}

// runWithDevice runs one session on dev until disconnect, wake, or context cancel.
func runWithDevice(ctx context.Context, cfg *config.Config, dev device.Device, wakeCh <-chan struct{}, current *session) {
	log.Printf("Connected to: %s", dev.GetModelName())

	if err := dev.SetBrightness(cfg.DeviceBrightness()); err != nil {
		log.Printf("Failed to set brightness: %v", err)
	}

	a, err := app.New(dev, cfg)
	if err != nil {
		log.Printf("Failed to start session: %v", err)
		dev.Close()
		return
	}

	current.set(a)
	err = a.Run(ctx, wakeCh)
	current.set(nil)

	if err != nil {
		log.Printf("Device disconnected: %v", err)
	}

	// The HID library does not cancel pending I/O on close; let callbacks drain.
	time.Sleep(200 * time.Millisecond)

	closeDone := make(chan struct{})
	go func() {
		dev.Close()
		close(closeDone)
	}()

	// device.Close() may block indefinitely, so force exit on shutdown.
	select {
	case <-ctx.Done():
		log.Println("Exiting...")
		os.Exit(0)
	case <-closeDone:
	case <-time.After(3 * time.Second):
		log.Println("Device close timed out")
	}
}
