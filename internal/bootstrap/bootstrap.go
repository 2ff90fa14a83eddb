// Package bootstrap wires the interceptors together and installs the hooks
// once the host has finished starting up.
package bootstrap

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"blurhook/internal/hook"
	"blurhook/internal/logging"
)

// Target is one hook to install.
type Target struct {
	Binding *hook.Binding
	// Replacement returns the address of the replacement entry point. It is
	// called once, when the binding's install is attempted.
	Replacement func() uintptr
}

// Bootstrap installs a fixed set of hooks after a startup delay. It runs at
// most once per process.
type Bootstrap struct {
	Delay    time.Duration
	Resolver hook.Resolver
	// OpenInstaller initializes the trampoline library. It is called after
	// the delay, once.
	OpenInstaller func() (hook.Installer, error)
	Targets       []Target

	// After is the timer; time.After when nil.
	After func(time.Duration) <-chan time.Time

	once      sync.Once
	done      chan struct{}
	installed atomic.Bool
	log       *slog.Logger
}

// Start launches the installer task. Calls after the first do nothing.
func (b *Bootstrap) Start(ctx context.Context) {
	b.once.Do(func() {
		b.done = make(chan struct{})
		if b.log == nil {
			b.log = logging.L("bootstrap")
		}
		go func() {
			defer close(b.done)
			b.run(ctx)
		}()
	})
}

// Wait blocks until the task started by Start has finished.
func (b *Bootstrap) Wait() {
	b.once.Do(func() {
		b.done = make(chan struct{})
		close(b.done)
	})
	<-b.done
}

// Installed reports whether the install attempt has run.
func (b *Bootstrap) Installed() bool { return b.installed.Load() }

// State summarizes which targets are installed.
func (b *Bootstrap) State() hook.State {
	bs := make([]*hook.Binding, len(b.Targets))
	for i, t := range b.Targets {
		bs[i] = t.Binding
	}
	return hook.StateOf(bs...)
}

func (b *Bootstrap) run(ctx context.Context) {
	after := b.After
	if after == nil {
		after = time.After
	}
	b.log.Info("waiting before installing hooks", "delay", b.Delay)
	select {
	case <-ctx.Done():
		b.log.Info("startup cancelled", logging.KeyError, ctx.Err())
		return
	case <-after(b.Delay):
	}

	installer, err := b.OpenInstaller()
	if err != nil {
		b.log.Error("couldn't initialize trampoline library, no hooks installed", logging.KeyError, err)
		return
	}
	for _, t := range b.Targets {
		if err := hook.Install(b.Resolver, installer, t.Binding, t.Replacement()); err != nil {
			b.log.Error("skipping hook", "name", t.Binding.Name, logging.KeyError, err)
		}
	}
	b.installed.Store(true)
	b.log.Info("hooks processed", "state", b.State())
}
