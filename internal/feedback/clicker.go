// Package feedback plays short audio ticks when the stick appears and
// disappears.
package feedback

import (
	"log"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)

	showFreq  = 1320.0
	hideFreq  = 660.0
	clickTime = 40 * time.Millisecond
)

// Clicker plays a tick on every visibility change. A Clicker whose speaker
// failed to initialise is silent.
type Clicker struct {
	rate   beep.SampleRate
	volume float64
	play   func(beep.Streamer)
}

// NewClicker initialises the speaker. volume is linear in (0, 1].
func NewClicker(volume float64) *Clicker {
	c := &Clicker{rate: sampleRate, volume: volume}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		log.Printf("Audio feedback disabled: %v", err)
		return c
	}
	c.play = func(s beep.Streamer) { speaker.Play(s) }
	return c
}

// Enabled reports whether the clicker can make sound.
func (c *Clicker) Enabled() bool {
	return c.play != nil && c.volume > 0
}

// Visibility plays the show tick for true and the hide tick for false. It
// has the compass.VisibilityHandler signature.
func (c *Clicker) Visibility(visible bool) {
	if !c.Enabled() {
		return
	}
	freq := hideFreq
	if visible {
		freq = showFreq
	}
	s, err := c.tick(freq)
	if err != nil {
		log.Printf("Error building click: %v", err)
		return
	}
	c.play(s)
}

// Close stops the speaker.
func (c *Clicker) Close() {
	if c.play != nil {
		speaker.Close()
		c.play = nil
	}
}

// tick builds a faded sine burst at freq.
func (c *Clicker) tick(freq float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(c.rate, freq)
	if err != nil {
		return nil, err
	}
	n := c.rate.N(clickTime)
	return &effects.Volume{
		Streamer: newFade(beep.Take(n, sine), n),
		Base:     2,
		Volume:   math.Log2(c.volume),
		Silent:   c.volume <= 0,
	}, nil
}

// fade ramps a stream linearly from full level to zero over total samples.
type fade struct {
	streamer beep.Streamer
	position int
	total    int
}

func newFade(s beep.Streamer, total int) *fade {
	return &fade{streamer: s, total: total}
}

func (f *fade) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 0.0
		if f.position < f.total {
			gain = 1 - float64(f.position)/float64(f.total)
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		f.position++
	}
	return n, ok
}

func (f *fade) Err() error { return f.streamer.Err() }
