// Package coordinator manages module lifecycle, routes pointer gestures to
// modules and composites their output onto the device surface.
package coordinator

import (
	"context"
	"image"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/phinze/compassdeck/internal/device"
	"github.com/phinze/compassdeck/internal/module"
	"golang.org/x/image/draw"
)

// DefaultFrameInterval is used when no interval is configured.
const DefaultFrameInterval = time.Second / 60

var backgroundColor = color.RGBA{25, 25, 25, 255}

// Coordinator manages the lifecycle of modules and routes events to them.
type Coordinator struct {
	device  device.Device
	modules []module.Module

	// Resource tracking
	moduleResources map[module.Module]module.Resources

	// Track modules that failed to initialize
	failedModules map[module.Module]bool

	// owner receives every event of the gesture it captured
	owner module.Module

	surfaceRect   image.Rectangle
	frameInterval time.Duration

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu sync.Mutex
}

// New creates a new Coordinator for the given device.
func New(dev device.Device, frameInterval time.Duration) *Coordinator {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	return &Coordinator{
		device:          dev,
		modules:         make([]module.Module, 0),
		moduleResources: make(map[module.Module]module.Resources),
		failedModules:   make(map[module.Module]bool),
		frameInterval:   frameInterval,
	}
}

// RegisterModule registers a module with its allocated resources. Modules are
// composited in registration order, so later modules draw on top and win
// gesture capture where regions overlap.
// Must be called before Start.
func (c *Coordinator) RegisterModule(m module.Module, res module.Resources) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.moduleResources[m] = res
	c.modules = append(c.modules, m)
	return nil
}

// Start initializes all modules and begins the event/render loop.
func (c *Coordinator) Start(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	rect, err := c.device.GetSurfaceRectangle()
	if err != nil {
		return err
	}
	c.surfaceRect = rect

	// Initialize all modules (continue on error, just skip failed modules)
	for _, m := range c.modules {
		if err := m.Init(c.ctx, c.resourcesForModule(m)); err != nil {
			log.Printf("Module %s failed to initialize: %v (skipping)", m.ID(), err)
			c.mu.Lock()
			c.failedModules[m] = true
			c.mu.Unlock()
		}
	}

	if err := c.device.AddPointerHandler(func(d device.Device, action device.PointerAction, p image.Point) error {
		return c.HandlePointer(module.PointerEventFromDevice(action, p))
	}); err != nil {
		return err
	}

	// Start device listener
	listenErr := make(chan error, 1)
	go func() {
		err := c.device.Listen(nil) // errors logged to stderr
		if err != nil {
			listenErr <- err
		}
		close(listenErr)
	}()

	c.wg.Add(1)
	go c.renderLoop()

	// Wait for context cancellation or device disconnect
	select {
	case <-c.ctx.Done():
		return nil
	case err := <-listenErr:
		return err
	}
}

// Stop gracefully shuts down all modules.
func (c *Coordinator) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()

	c.CancelGesture()
	for _, m := range c.modules {
		m.Stop()
	}
	return nil
}

// HandlePointer routes one pointer event. A press goes to the topmost
// capturing module whose region contains the point; that module then owns
// the gesture until release or cancel. Events with no owner are dropped.
func (c *Coordinator) HandlePointer(event module.PointerEvent) error {
	c.mu.Lock()
	var target module.Module
	switch event.Type {
	case module.PointerPress:
		if c.owner != nil {
			// One gesture at a time.
			c.mu.Unlock()
			return nil
		}
		c.owner = c.captureAt(event.Point)
		target = c.owner
	case module.PointerMove:
		target = c.owner
	case module.PointerRelease, module.PointerCancel:
		target = c.owner
		c.owner = nil
	}
	c.mu.Unlock()

	if target == nil {
		return nil
	}
	return target.HandlePointer(event)
}

// CancelGesture sends a cancel to the module owning the active gesture, if any.
func (c *Coordinator) CancelGesture() {
	if err := c.HandlePointer(module.PointerEvent{Type: module.PointerCancel}); err != nil {
		log.Printf("Cancel gesture: %v", err)
	}
}

// captureAt must be called with c.mu held.
func (c *Coordinator) captureAt(p image.Point) module.Module {
	for i := len(c.modules) - 1; i >= 0; i-- {
		m := c.modules[i]
		if c.failedModules[m] {
			continue
		}
		if c.moduleResources[m].Captures(p) {
			return m
		}
	}
	return nil
}

// resourcesForModule returns the stored resources for a module.
func (c *Coordinator) resourcesForModule(m module.Module) module.Resources {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moduleResources[m]
}

// renderLoop ticks modules and pushes a composite frame every frame interval.
func (c *Coordinator) renderLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.frameInterval)
	defer ticker.Stop()

	last := time.Now()
	c.renderFrame()

	for {
		select {
		case <-c.ctx.Done():
			return
		case now := <-ticker.C:
			c.tick(now.Sub(last))
			last = now
			c.renderFrame()
		}
	}
}

// tick advances every healthy module that implements module.Ticker.
func (c *Coordinator) tick(dt time.Duration) {
	for _, m := range c.activeModules() {
		if t, ok := m.(module.Ticker); ok {
			t.Tick(dt)
		}
	}
}

func (c *Coordinator) renderFrame() {
	if err := c.device.SetSurfaceImage(c.Composite()); err != nil {
		log.Printf("Set surface image: %v", err)
	}
}

// Composite draws every module's surface over the background in
// registration order.
func (c *Coordinator) Composite() *image.RGBA {
	composite := image.NewRGBA(c.surfaceRect)
	draw.Draw(composite, composite.Bounds(), &image.Uniform{backgroundColor}, image.Point{}, draw.Src)

	for _, m := range c.activeModules() {
		img := m.RenderSurface()
		if img == nil {
			continue
		}
		// Module images are in surface coordinates.
		draw.Draw(composite, img.Bounds(), img, img.Bounds().Min, draw.Over)
	}
	return composite
}

func (c *Coordinator) activeModules() []module.Module {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]module.Module, 0, len(c.modules))
	for _, m := range c.modules {
		if !c.failedModules[m] {
			out = append(out, m)
		}
	}
	return out
}

// Device returns the underlying device.
func (c *Coordinator) Device() device.Device {
	return c.device
}
