// Package swap intercepts frame presentation and runs the injected render
// passes on the host's main surface just before it is presented.
package swap

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"blurhook/internal/egl"
	"blurhook/internal/gles"
	"blurhook/internal/logging"
)

// PresentFunc has the shape of eglSwapBuffers.
type PresentFunc func(display, surface uintptr) uintptr

// Surface identifies the surface the passes render on.
type Surface struct {
	Context uintptr
	Surface uintptr
	Width   int
	Height  int
}

// Frame is the render sequence run for the locked surface.
type Frame interface {
	// Lock is called once, when the surface is chosen.
	Lock(s Surface, clientVersion int)
	// Setup is called before every render until it succeeds.
	Setup(width, height int) error
	Render(width, height int)
}

// Stats counts what happened to presented frames.
type Stats struct {
	Presented   uint64
	Rendered    uint64
	PassThrough uint64
	Panics      uint64
}

// Interceptor replaces the presentation function.
type Interceptor struct {
	// Original presents the frame. It is called exactly once per Present.
	Original PresentFunc

	egl       egl.Display
	exec      gles.Executor
	frame     Frame
	minWidth  int
	minHeight int
	log       *slog.Logger

	mu     sync.Mutex
	locked *Surface
	ready  bool
	seen   map[string]bool

	presented, rendered, passThrough, panics atomic.Uint64
}

// Options bound the surfaces Present locks onto.
type Options struct {
	MinWidth, MinHeight int
}

func New(display egl.Display, exec gles.Executor, frame Frame, opts Options) *Interceptor {
	return &Interceptor{
		egl:       display,
		exec:      exec,
		frame:     frame,
		minWidth:  opts.MinWidth,
		minHeight: opts.MinHeight,
		log:       logging.L("swap"),
		seen:      map[string]bool{},
	}
}

// Present renders the passes when surface is the locked surface and then
// presents the frame with the original function.
func (i *Interceptor) Present(display, surface uintptr) uintptr {
	i.presented.Add(1)
	if w, h, ok := i.target(display, surface); ok {
		i.render(w, h)
	} else {
		i.passThrough.Add(1)
	}
	if i.Original == nil {
		return 0
	}
	return i.Original(display, surface)
}

// target decides whether this call presents the locked surface, locking the
// first surface that qualifies.
func (i *Interceptor) target(display, surface uintptr) (int, int, bool) {
	ctx := i.egl.CurrentContext()
	if ctx == 0 {
		return 0, 0, false
	}

	i.mu.Lock()
	locked := i.locked
	i.mu.Unlock()
	if locked != nil && (locked.Context != ctx || locked.Surface != surface) {
		return 0, 0, false
	}

	w, h, ok := i.egl.SurfaceSize(display, surface)
	if !ok || w < i.minWidth || h < i.minHeight {
		return 0, 0, false
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.locked == nil {
		i.locked = &Surface{Context: ctx, Surface: surface}
		version := i.egl.ClientVersion(display, ctx)
		i.log.Info("locked onto surface",
			"context", fmt.Sprintf("%#x", ctx), "surface", fmt.Sprintf("%#x", surface),
			"width", w, "height", h, "gles", version)
		i.frame.Lock(Surface{Context: ctx, Surface: surface, Width: w, Height: h}, version)
	} else if i.locked.Context != ctx || i.locked.Surface != surface {
		// Another thread locked a different surface in between.
		return 0, 0, false
	}
	i.locked.Width, i.locked.Height = w, h
	return w, h, true
}

func (i *Interceptor) render(width, height int) {
	defer func() {
		if r := recover(); r != nil {
			i.panics.Add(1)
			i.warnOnce("render panicked", fmt.Sprint(r))
		}
	}()

	i.exec.Run(func() {
		if !i.ready {
			if err := i.frame.Setup(width, height); err != nil {
				i.passThrough.Add(1)
				i.warnOnce("setup failed, retrying next frame", err.Error())
				return
			}
			i.ready = true
		}
		i.frame.Render(width, height)
		i.rendered.Add(1)
	})
}

// warnOnce logs each distinct message once.
func (i *Interceptor) warnOnce(msg, detail string) {
	key := msg + ": " + detail
	i.mu.Lock()
	seen := i.seen[key]
	i.seen[key] = true
	i.mu.Unlock()
	if !seen {
		i.log.Warn(msg, logging.KeyError, detail)
	}
}

// Locked returns the locked surface with the size of its last frame.
func (i *Interceptor) Locked() (Surface, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.locked == nil {
		return Surface{}, false
	}
	return *i.locked, true
}

func (i *Interceptor) Stats() Stats {
	return Stats{
		Presented:   i.presented.Load(),
		Rendered:    i.rendered.Load(),
		PassThrough: i.passThrough.Load(),
		Panics:      i.panics.Load(),
	}
}
