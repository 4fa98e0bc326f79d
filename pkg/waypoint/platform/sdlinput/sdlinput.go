// Package sdlinput feeds SDL keyboard and game controller events into an
// input.Handler and pumps the main-thread loop once per frame.
package sdlinput

import (
	"context"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/constants"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/input"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/mainthread"
)

// FrameDelay is the pause between frames in milliseconds (~60fps).
const FrameDelay = 16

// Keymap maps SDL keys and controller buttons to virtual buttons.
type Keymap struct {
	Keys    map[sdl.Keycode]constants.VirtualButton
	Buttons map[sdl.GameControllerButton]constants.VirtualButton
}

// DefaultKeymap maps the arrow keys and a standard controller layout.
func DefaultKeymap() Keymap {
	return Keymap{
		Keys: map[sdl.Keycode]constants.VirtualButton{
			sdl.K_UP:        constants.VirtualButtonUp,
			sdl.K_DOWN:      constants.VirtualButtonDown,
			sdl.K_LEFT:      constants.VirtualButtonLeft,
			sdl.K_RIGHT:     constants.VirtualButtonRight,
			sdl.K_RETURN:    constants.VirtualButtonA,
			sdl.K_BACKSPACE: constants.VirtualButtonB,
			sdl.K_x:         constants.VirtualButtonX,
			sdl.K_y:         constants.VirtualButtonY,
			sdl.K_PAGEUP:    constants.VirtualButtonL1,
			sdl.K_PAGEDOWN:  constants.VirtualButtonR1,
			sdl.K_SPACE:     constants.VirtualButtonStart,
			sdl.K_TAB:       constants.VirtualButtonSelect,
			sdl.K_ESCAPE:    constants.VirtualButtonMenu,
		},
		Buttons: map[sdl.GameControllerButton]constants.VirtualButton{
			sdl.CONTROLLER_BUTTON_DPAD_UP:       constants.VirtualButtonUp,
			sdl.CONTROLLER_BUTTON_DPAD_DOWN:     constants.VirtualButtonDown,
			sdl.CONTROLLER_BUTTON_DPAD_LEFT:     constants.VirtualButtonLeft,
			sdl.CONTROLLER_BUTTON_DPAD_RIGHT:    constants.VirtualButtonRight,
			sdl.CONTROLLER_BUTTON_A:             constants.VirtualButtonA,
			sdl.CONTROLLER_BUTTON_B:             constants.VirtualButtonB,
			sdl.CONTROLLER_BUTTON_X:             constants.VirtualButtonX,
			sdl.CONTROLLER_BUTTON_Y:             constants.VirtualButtonY,
			sdl.CONTROLLER_BUTTON_LEFTSHOULDER:  constants.VirtualButtonL1,
			sdl.CONTROLLER_BUTTON_RIGHTSHOULDER: constants.VirtualButtonR1,
			sdl.CONTROLLER_BUTTON_START:         constants.VirtualButtonStart,
			sdl.CONTROLLER_BUTTON_BACK:          constants.VirtualButtonSelect,
			sdl.CONTROLLER_BUTTON_GUIDE:         constants.VirtualButtonMenu,
		},
	}
}

// Translate converts an SDL event into a button event. Key repeats from the
// OS are dropped; the input.Handler does its own repeat timing.
func (k Keymap) Translate(event sdl.Event) (input.Event, bool) {
	switch e := event.(type) {
	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			return input.Event{}, false
		}
		vb, ok := k.Keys[e.Keysym.Sym]
		if !ok {
			return input.Event{}, false
		}
		return input.Event{Button: vb, Pressed: e.Type == sdl.KEYDOWN}, true
	case *sdl.ControllerButtonEvent:
		vb, ok := k.Buttons[sdl.GameControllerButton(e.Button)]
		if !ok {
			return input.Event{}, false
		}
		return input.Event{Button: vb, Pressed: e.Type == sdl.CONTROLLERBUTTONDOWN}, true
	}
	return input.Event{}, false
}

// Pump runs the per-frame work of an SDL program: it handles pending events,
// fires input repeats and drains the main-thread loop.
type Pump struct {
	loop    *mainthread.Loop
	handler *input.Handler
	keymap  Keymap
	poll    func() sdl.Event
}

func NewPump(loop *mainthread.Loop, handler *input.Handler, keymap Keymap) *Pump {
	return &Pump{loop: loop, handler: handler, keymap: keymap, poll: sdl.PollEvent}
}

// Frame processes one frame and reports whether SDL asked the program to quit.
func (p *Pump) Frame() bool {
	quit := false
	for event := p.poll(); event != nil; event = p.poll() {
		if _, ok := event.(*sdl.QuitEvent); ok {
			quit = true
			continue
		}
		if ev, ok := p.keymap.Translate(event); ok && p.handler != nil {
			p.handler.Handle(ev)
		}
	}
	if p.handler != nil {
		p.handler.Update()
	}
	if p.loop != nil {
		p.loop.Drain()
	}
	return quit
}

// Run pumps frames until SDL quits or ctx is done. It must be called from
// the thread bound to the loop.
func (p *Pump) Run(ctx context.Context) error {
	if p.loop != nil {
		if err := p.loop.Check(); err != nil {
			return err
		}
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if p.Frame() {
			return nil
		}
		sdl.Delay(FrameDelay)
	}
}

// OpenControllers opens every attached joystick SDL recognises as a game
// controller. The caller closes them with CloseControllers.
func OpenControllers() []*sdl.GameController {
	var out []*sdl.GameController
	for i := 0; i < sdl.NumJoysticks(); i++ {
		if !sdl.IsGameController(i) {
			continue
		}
		if c := sdl.GameControllerOpen(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func CloseControllers(controllers []*sdl.GameController) {
	for _, c := range controllers {
		c.Close()
	}
}
