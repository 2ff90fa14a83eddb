package overlay

import (
	"fmt"
	"log/slog"
	"sync"

	"blurhook/internal/config"
	"blurhook/internal/logging"
)

// Window holds the placement and style of the panel window.
type Window struct {
	Title     string
	X, Y      float32
	Width     float32
	Height    float32
	PaddingX  float32
	PaddingY  float32
	Rounding  float32
	FontScale float32
}

// DefaultWindow is the panel's initial placement.
func DefaultWindow(title string, fontScale float32) Window {
	return Window{
		Title:     title,
		X:         10,
		Y:         80,
		Width:     350,
		Height:    180,
		PaddingX:  16,
		PaddingY:  12,
		Rounding:  10,
		FontScale: fontScale,
	}
}

// UI is an immediate-mode UI library bound to the host's GL context.
type UI interface {
	// Setup creates the UI context for a width×height display. It is
	// called until it succeeds.
	Setup(width, height int) error
	NewFrame(width, height int)
	// Panel draws one window with the given placement around draw.
	Panel(win Window, draw func(Widgets))
	Render()
	HandleInputEvent(event uintptr)
	Active() bool
}

// Layer draws the panel over each frame and hands out the parameters the
// effect pass reads.
type Layer struct {
	// OnChange is called on the render thread after the user changed a
	// value. It must not block.
	OnChange func(Params)

	ui     UI
	window Window
	log    *slog.Logger

	mu     sync.Mutex
	params Params
	ready  bool
}

func NewLayer(ui UI, window Window, initial Params) *Layer {
	initial.Strength = config.ClampStrength(initial.Strength)
	return &Layer{
		ui:     ui,
		window: window,
		params: initial,
		log:    logging.L("overlay"),
	}
}

// Params returns a snapshot of the current parameters.
func (l *Layer) Params() Params {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.params
}

// SetParams replaces the parameters.
func (l *Layer) SetParams(p Params) {
	p.Strength = config.ClampStrength(p.Strength)
	l.mu.Lock()
	l.params = p
	l.mu.Unlock()
}

// Setup initializes the UI once. A failed setup is retried on the next call.
func (l *Layer) Setup(width, height int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ready {
		return nil
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("overlay setup: invalid display size %dx%d", width, height)
	}
	if err := l.ui.Setup(width, height); err != nil {
		return fmt.Errorf("overlay setup: %w", err)
	}
	l.ready = true
	l.log.Info("overlay ready", "width", width, "height", height)
	return nil
}

// Ready reports whether Setup succeeded.
func (l *Layer) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready
}

// Draw runs one UI frame over a width×height display.
func (l *Layer) Draw(width, height int) {
	if !l.Ready() {
		return
	}
	p := l.Params()
	changed := false

	l.ui.NewFrame(width, height)
	l.ui.Panel(l.window, func(w Widgets) {
		changed = DrawPanel(w, &p)
	})
	l.ui.Render()

	if !changed {
		return
	}
	l.SetParams(p)
	l.log.Debug("parameters changed", "enabled", p.Enabled, "strength", p.Strength)
	if l.OnChange != nil {
		l.OnChange(p)
	}
}

// Active reports whether input events should be forwarded.
func (l *Layer) Active() bool {
	return l.Ready() && l.ui.Active()
}

// HandleInputEvent passes a host input event to the UI.
func (l *Layer) HandleInputEvent(event uintptr) {
	if event == 0 || !l.Active() {
		return
	}
	l.ui.HandleInputEvent(event)
}
