// Package input turns virtual button presses into router dispatches.
//
// Hardware sources (see the platform packages) translate their events into
// Events and feed them to a Handler, which looks up the Binding for the
// button, applies the input delay and dispatches the bound request. Bindings
// marked Repeat fire again while the button is held; call Update once per
// frame to drive the repeats.
package input

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/constants"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
)

var (
	ErrUnassignedButton = errors.New("binding has no button")
	ErrDuplicateBinding = errors.New("button bound twice")
	ErrNoRequest        = errors.New("binding has no request")
)

// Event is one press or release of a virtual button.
type Event struct {
	Button  constants.VirtualButton
	Pressed bool
}

// Binding maps a button to the request dispatched when it is pressed.
type Binding struct {
	Button  constants.VirtualButton
	Request router.Request
	Flags   router.Flags
	Repeat  bool
}

// Bindings indexes bindings by button.
type Bindings map[constants.VirtualButton]Binding

// NewBindings checks and indexes bs.
func NewBindings(bs ...Binding) (Bindings, error) {
	out := make(Bindings, len(bs))
	var errs []error
	for _, b := range bs {
		switch {
		case b.Button == constants.VirtualButtonUnassigned:
			errs = append(errs, ErrUnassignedButton)
			continue
		case b.Request == nil:
			errs = append(errs, fmt.Errorf("%s: %w", b.Button.GetName(), ErrNoRequest))
			continue
		}
		if _, dup := out[b.Button]; dup {
			errs = append(errs, fmt.Errorf("%s: %w", b.Button.GetName(), ErrDuplicateBinding))
			continue
		}
		out[b.Button] = b
	}
	return out, errors.Join(errs...)
}

// Dispatcher is the part of router.Store a Handler needs.
type Dispatcher interface {
	Dispatch(req router.Request, flags ...router.Flags) router.Transition
}

// Handler dispatches bound requests for incoming button events. It is safe
// for use from multiple goroutines.
type Handler struct {
	dispatcher Dispatcher
	bindings   Bindings
	delay      time.Duration
	now        func() time.Time
	logger     *slog.Logger

	mu        sync.Mutex
	lastInput time.Time
	repeater  Repeater
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithInputDelay sets the minimum time between two dispatched presses.
func WithInputDelay(d time.Duration) HandlerOption {
	return func(h *Handler) { h.delay = d }
}

// WithRepeatTiming sets the hold delay and interval for repeating bindings.
func WithRepeatTiming(delay, interval time.Duration) HandlerOption {
	return func(h *Handler) { h.repeater = NewRepeaterWithTiming(delay, interval) }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// WithLogger logs every dispatched binding at debug level.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) { h.logger = logger }
}

func NewHandler(d Dispatcher, bindings Bindings, opts ...HandlerOption) *Handler {
	h := &Handler{
		dispatcher: d,
		bindings:   bindings,
		delay:      constants.DefaultInputDelay,
		now:        time.Now,
		repeater:   NewRepeater(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle processes ev and reports whether it dispatched a request.
func (h *Handler) Handle(ev Event) (router.Transition, bool) {
	h.mu.Lock()
	if !ev.Pressed {
		h.repeater.Release(ev.Button)
		h.mu.Unlock()
		return router.Transition{}, false
	}

	b, ok := h.bindings[ev.Button]
	if !ok {
		h.mu.Unlock()
		return router.Transition{}, false
	}

	now := h.now()
	if !h.lastInput.IsZero() && now.Sub(h.lastInput) < h.delay {
		h.mu.Unlock()
		return router.Transition{}, false
	}
	h.lastInput = now
	if b.Repeat {
		h.repeater.Hold(b.Button, now)
	}
	h.mu.Unlock()

	return h.dispatch(b, false), true
}

// Update fires the held repeating binding when its repeat is due.
func (h *Handler) Update() (router.Transition, bool) {
	h.mu.Lock()
	now := h.now()
	vb, due := h.repeater.Update(now)
	b, ok := h.bindings[vb]
	if !due || !ok {
		h.mu.Unlock()
		return router.Transition{}, false
	}
	h.lastInput = now
	h.mu.Unlock()

	return h.dispatch(b, true), true
}

// Reset forgets held buttons and the input delay window.
func (h *Handler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.repeater.Reset(h.now())
	h.lastInput = time.Time{}
}

// dispatch runs outside the lock so a presenter may feed events back in.
func (h *Handler) dispatch(b Binding, repeat bool) router.Transition {
	if h.logger != nil {
		h.logger.Debug("input binding",
			"button", b.Button.GetName(),
			"request", fmt.Sprint(b.Request),
			"repeat", repeat)
	}
	return h.dispatcher.Dispatch(b.Request, b.Flags)
}

// PostTo returns an event sink that hands each event to h on e. Sources that
// read hardware on their own goroutine use it to keep dispatches on the UI
// thread.
func (h *Handler) PostTo(e router.Executor) func(Event) {
	return func(ev Event) {
		e.Post(func() { h.Handle(ev) })
	}
}
