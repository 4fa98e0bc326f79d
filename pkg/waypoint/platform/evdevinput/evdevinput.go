// Package evdevinput reads key events from Linux input devices and turns
// them into virtual button events.
package evdevinput

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/holoplot/go-evdev"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/constants"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/input"
)

// Key event values.
const (
	valueReleased = 0
	valuePressed  = 1
)

// Codes maps evdev key codes to virtual buttons.
type Codes map[evdev.EvCode]constants.VirtualButton

// DefaultCodes covers gamepad buttons, the arrow keys and the power and
// volume keys found on handhelds.
func DefaultCodes() Codes {
	return Codes{
		evdev.KEY_UP:         constants.VirtualButtonUp,
		evdev.KEY_DOWN:       constants.VirtualButtonDown,
		evdev.KEY_LEFT:       constants.VirtualButtonLeft,
		evdev.KEY_RIGHT:      constants.VirtualButtonRight,
		evdev.BTN_DPAD_UP:    constants.VirtualButtonUp,
		evdev.BTN_DPAD_DOWN:  constants.VirtualButtonDown,
		evdev.BTN_DPAD_LEFT:  constants.VirtualButtonLeft,
		evdev.BTN_DPAD_RIGHT: constants.VirtualButtonRight,
		evdev.BTN_SOUTH:      constants.VirtualButtonA,
		evdev.BTN_EAST:       constants.VirtualButtonB,
		evdev.BTN_NORTH:      constants.VirtualButtonX,
		evdev.BTN_WEST:       constants.VirtualButtonY,
		evdev.BTN_TL:         constants.VirtualButtonL1,
		evdev.BTN_TL2:        constants.VirtualButtonL2,
		evdev.BTN_TR:         constants.VirtualButtonR1,
		evdev.BTN_TR2:        constants.VirtualButtonR2,
		evdev.BTN_START:      constants.VirtualButtonStart,
		evdev.BTN_SELECT:     constants.VirtualButtonSelect,
		evdev.BTN_MODE:       constants.VirtualButtonMenu,
		evdev.KEY_VOLUMEUP:   constants.VirtualButtonVolumeUp,
		evdev.KEY_VOLUMEDOWN: constants.VirtualButtonVolumeDown,
		evdev.KEY_POWER:      constants.VirtualButtonPower,
	}
}

// Translate converts a raw input event. Only key presses and releases of
// mapped codes translate; kernel autorepeat events are dropped.
func (c Codes) Translate(ev *evdev.InputEvent) (input.Event, bool) {
	if ev == nil || ev.Type != evdev.EV_KEY {
		return input.Event{}, false
	}
	vb, ok := c[ev.Code]
	if !ok {
		return input.Event{}, false
	}
	switch ev.Value {
	case valuePressed:
		return input.Event{Button: vb, Pressed: true}, true
	case valueReleased:
		return input.Event{Button: vb}, true
	default:
		return input.Event{}, false
	}
}

// Device is the part of *evdev.InputDevice a Reader uses.
type Device interface {
	ReadOne() (*evdev.InputEvent, error)
	Close() error
}

// Reader pumps events from one device into a sink.
type Reader struct {
	dev    Device
	codes  Codes
	sink   func(input.Event)
	logger *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// Open opens the device at path, for example /dev/input/event0.
func Open(path string, codes Codes, sink func(input.Event)) (*Reader, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("evdevinput: open %s: %w", path, err)
	}
	return NewReader(dev, codes, sink), nil
}

func NewReader(dev Device, codes Codes, sink func(input.Event)) *Reader {
	if codes == nil {
		codes = DefaultCodes()
	}
	return &Reader{dev: dev, codes: codes, sink: sink}
}

// WithLogger logs every translated key at debug level. It returns r.
func (r *Reader) WithLogger(logger *slog.Logger) *Reader {
	r.logger = logger
	return r
}

// Run reads events until ctx is done or the device fails. Cancelling ctx
// closes the device to unblock the pending read; Run then returns ctx.Err().
func (r *Reader) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { r.Close() })
	defer stop()

	for {
		ev, err := r.dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("evdevinput: read: %w", err)
		}
		e, ok := r.codes.Translate(ev)
		if !ok {
			continue
		}
		if r.logger != nil {
			r.logger.Debug("evdev key", "code", int(ev.Code), "button", e.Button.GetName(), "pressed", e.Pressed)
		}
		if r.sink != nil {
			r.sink(e)
		}
	}
}

// Close closes the device. It is safe to call more than once.
func (r *Reader) Close() error {
	r.closeOnce.Do(func() {
		r.closeErr = r.dev.Close()
	})
	return r.closeErr
}
