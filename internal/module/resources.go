// Package module defines the interface for surface feature modules.
package module

import "image"

// Resources defines the surface resources allocated to a module.
type Resources struct {
	// Region is the rectangle of the surface this module draws into.
	// A zero rect means the module has no region.
	Region image.Rectangle

	// Capture marks modules that receive pointer gestures starting inside
	// Region.
	Capture bool
}

// HasRegion returns true if this module has a surface region allocated.
func (r Resources) HasRegion() bool {
	return !r.Region.Empty()
}

// Captures returns true if a gesture starting at p belongs to this module.
func (r Resources) Captures(p image.Point) bool {
	return r.Capture && p.In(r.Region)
}
