package bootstrap

import (
	"log/slog"

	"blurhook/internal/blur"
	"blurhook/internal/config"
	"blurhook/internal/egl"
	"blurhook/internal/gles"
	"blurhook/internal/hook"
	"blurhook/internal/input"
	"blurhook/internal/logging"
	"blurhook/internal/overlay"
	"blurhook/internal/swap"
)

// Runtime is the process-wide state of the injected library.
type Runtime struct {
	Config     config.Config
	ConfigPath string

	Present *hook.Binding
	Consume *hook.Binding
	// Deliver is nil unless a deliver symbol is configured.
	Deliver *hook.Binding

	Effect  *blur.Compositor
	Overlay *overlay.Layer
	Swap    *swap.Interceptor
	Input   *input.Interceptor

	log   *slog.Logger
	saver *config.Saver
}

// NewRuntime builds the interceptors for conf. Nothing is hooked yet.
func NewRuntime(conf config.Config, path string, gl gles.Context, exec gles.Executor, display egl.Display, ui overlay.UI) *Runtime {
	rt := &Runtime{
		Config:     conf,
		ConfigPath: path,
		log:        logging.L("runtime"),
		Present: &hook.Binding{
			Name:   "present",
			Module: conf.Hooks.EGLLibrary,
			Symbol: conf.Hooks.PresentSymbol,
		},
	}
	if conf.Hooks.ConsumeSymbol != "" {
		rt.Consume = &hook.Binding{
			Name:   "input-consume",
			Module: conf.Hooks.InputLibrary,
			Symbol: conf.Hooks.ConsumeSymbol,
		}
	}
	if conf.Hooks.DeliverSymbol != "" {
		rt.Deliver = &hook.Binding{
			Name:   "input-deliver",
			Module: conf.Hooks.InputLibrary,
			Symbol: conf.Hooks.DeliverSymbol,
		}
	}

	rt.Effect = blur.New(gl, blur.Options{})
	window := overlay.DefaultWindow(conf.Overlay.Title, conf.Overlay.FontScale)
	rt.Overlay = overlay.NewLayer(ui, window, overlay.ParamsFrom(conf.Effect))
	if conf.Overlay.Persist {
		rt.saver = config.FileSaver(path, logging.L("config"))
		rt.Overlay.OnChange = rt.persist
	}

	rt.Swap = swap.New(display, exec, swap.NewPipeline(gl, rt.Effect, rt.Overlay), swap.Options{
		MinWidth:  conf.Surface.MinWidth,
		MinHeight: conf.Surface.MinHeight,
	})
	rt.Swap.Original = func(d, s uintptr) uintptr { return rt.Present.Call(d, s) }

	rt.Input = input.New(rt.Overlay)
	if rt.Consume != nil {
		rt.Input.Consume = func(consumer, factory, wait, timeout, outSeq, outEvent uintptr) uintptr {
			return rt.Consume.Call(consumer, factory, wait, timeout, outSeq, outEvent)
		}
	}
	if rt.Deliver != nil {
		rt.Input.Deliver = func(event, a1, a2 uintptr) { rt.Deliver.Call(event, a1, a2) }
	}
	return rt
}

// Callbacks are the replacement entry points for the runtime's bindings.
type Callbacks struct {
	Present func() uintptr
	Consume func() uintptr
	Deliver func() uintptr
}

// Bootstrap returns the installer task for the runtime's bindings, in the
// order present, input-consume, input-deliver.
func (rt *Runtime) Bootstrap(r hook.Resolver, openInstaller func() (hook.Installer, error), cb Callbacks) *Bootstrap {
	b := &Bootstrap{
		Delay:         rt.Config.Hooks.StartupDelay.Duration,
		Resolver:      r,
		OpenInstaller: openInstaller,
		Targets:       []Target{{Binding: rt.Present, Replacement: cb.Present}},
	}
	if rt.Consume != nil {
		b.Targets = append(b.Targets, Target{Binding: rt.Consume, Replacement: cb.Consume})
	}
	if rt.Deliver != nil {
		b.Targets = append(b.Targets, Target{Binding: rt.Deliver, Replacement: cb.Deliver})
	}
	return b
}

func (rt *Runtime) persist(p overlay.Params) {
	c := rt.Config
	c.Effect = p.Effect()
	rt.saver.Save(c)
}
