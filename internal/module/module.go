package module

import (
	"context"
	"image"
	"time"
)

// Module defines the interface that all surface feature modules implement.
type Module interface {
	// ID returns a unique identifier for this module instance.
	ID() string

	// Init initializes the module with the given context and allocated resources.
	// The context should be used for cancellation and lifecycle management.
	Init(ctx context.Context, resources Resources) error

	// Stop gracefully shuts down the module, releasing any resources.
	Stop() error

	// RenderSurface returns an image for this module's region, in surface
	// coordinates. Returns nil if the module has nothing to draw.
	RenderSurface() image.Image

	// HandlePointer processes a pointer event routed to this module.
	HandlePointer(event PointerEvent) error
}

// Ticker is implemented by modules that advance state once per frame.
type Ticker interface {
	Tick(dt time.Duration)
}
