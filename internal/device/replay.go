package device

import (
	"image"
	"log"
	"sync"
	"time"
)

// gestureReplay turns finished strip interactions into press/move/release
// signals, holding the release back for a configurable duration.
//
// emitMu serialises every emitted sequence, including the delayed release,
// so a new gesture never interleaves with the release of the previous one.
type gestureReplay struct {
	src Device

	emitMu sync.Mutex

	mu       sync.Mutex
	handlers []PointerHandler
	pending  *time.Timer
	last     image.Point
}

// add registers fn and reports whether it is the first handler.
func (r *gestureReplay) add(fn PointerHandler) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, fn)
	return len(r.handlers) == 1
}

// takePending stops and clears the held gesture. Must be called with mu held.
func (r *gestureReplay) takePending() bool {
	if r.pending == nil {
		return false
	}
	r.pending.Stop()
	r.pending = nil
	return true
}

// gesture replays one interaction. A gesture still being held is released
// first.
func (r *gestureReplay) gesture(origin, destination image.Point, hold time.Duration) error {
	r.emitMu.Lock()
	defer r.emitMu.Unlock()

	r.mu.Lock()
	held := r.takePending()
	prev := r.last
	r.mu.Unlock()

	if held {
		if err := r.emit(POINTER_RELEASE, prev); err != nil {
			return err
		}
	}

	if err := r.emit(POINTER_PRESS, origin); err != nil {
		return err
	}
	if destination != origin {
		if err := r.emit(POINTER_MOVE, destination); err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.last = destination
	var timer *time.Timer
	timer = time.AfterFunc(hold, func() { r.release(timer, destination) })
	r.pending = timer
	r.mu.Unlock()
	return nil
}

// release fires when the hold of the gesture owning timer runs out.
func (r *gestureReplay) release(timer *time.Timer, p image.Point) {
	r.emitMu.Lock()
	defer r.emitMu.Unlock()

	r.mu.Lock()
	if r.pending != timer {
		r.mu.Unlock()
		return
	}
	r.pending = nil
	r.mu.Unlock()

	if err := r.emit(POINTER_RELEASE, p); err != nil {
		log.Printf("Release handler error: %v", err)
	}
}

// cancel ends a held gesture with a cancel signal.
func (r *gestureReplay) cancel() error {
	r.emitMu.Lock()
	defer r.emitMu.Unlock()

	r.mu.Lock()
	held := r.takePending()
	last := r.last
	r.mu.Unlock()

	if held {
		return r.emit(POINTER_CANCEL, last)
	}
	return nil
}

// stop drops a held gesture without emitting anything.
func (r *gestureReplay) stop() {
	r.mu.Lock()
	r.takePending()
	r.mu.Unlock()
}

func (r *gestureReplay) emit(action PointerAction, p image.Point) error {
	r.mu.Lock()
	handlers := r.handlers
	r.mu.Unlock()

	for _, fn := range handlers {
		if err := fn(r.src, action, p); err != nil {
			return err
		}
	}
	return nil
}
