package input

import (
	"time"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/constants"
)

// Repeater tracks held buttons and decides when a held button fires again.
// The first repeat occurs after the repeat delay, later ones after the
// repeat interval. When several buttons are held the most recently pressed
// one repeats.
type Repeater struct {
	held     []constants.VirtualButton
	last     time.Time
	delay    time.Duration
	interval time.Duration
	repeated bool
}

// NewRepeater creates a Repeater with default timing (300ms, then 50ms).
func NewRepeater() Repeater {
	return NewRepeaterWithTiming(constants.DefaultRepeatDelay, constants.DefaultRepeatInterval)
}

// NewRepeaterWithTiming creates a Repeater with custom timing.
func NewRepeaterWithTiming(delay, interval time.Duration) Repeater {
	return Repeater{delay: delay, interval: interval}
}

// Hold marks vb as held at now.
func (r *Repeater) Hold(vb constants.VirtualButton, now time.Time) {
	for _, h := range r.held {
		if h == vb {
			return
		}
	}
	r.held = append(r.held, vb)
	r.last = now
	r.repeated = false
}

// Release marks vb as no longer held.
func (r *Repeater) Release(vb constants.VirtualButton) {
	for i, h := range r.held {
		if h == vb {
			r.held = append(r.held[:i], r.held[i+1:]...)
			r.repeated = false
			return
		}
	}
}

// Held returns the button that would repeat.
func (r *Repeater) Held() (constants.VirtualButton, bool) {
	if len(r.held) == 0 {
		return constants.VirtualButtonUnassigned, false
	}
	return r.held[len(r.held)-1], true
}

// Update checks whether a repeat should fire at now. Call it every frame.
func (r *Repeater) Update(now time.Time) (constants.VirtualButton, bool) {
	vb, ok := r.Held()
	if !ok {
		r.last = now
		r.repeated = false
		return vb, false
	}

	threshold := r.interval
	if !r.repeated {
		threshold = r.delay
	}
	if now.Sub(r.last) < threshold {
		return constants.VirtualButtonUnassigned, false
	}
	r.last = now
	r.repeated = true
	return vb, true
}

// Reset clears all held buttons and timing state.
func (r *Repeater) Reset(now time.Time) {
	r.held = nil
	r.repeated = false
	r.last = now
}
