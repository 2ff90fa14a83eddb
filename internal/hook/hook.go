// Package hook resolves exported functions in loaded libraries and redirects
// them to replacement entry points.
package hook

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/purego"

	"blurhook/internal/logging"
)

var (
	ErrSymbolNotFound = errors.New("symbol not found")
	ErrInstall        = errors.New("hook install failed")
)

// Resolver looks up the address of an exported symbol.
type Resolver interface {
	Resolve(module, symbol string) (uintptr, error)
}

// Installer patches target so that calls reach replacement. Before the patch
// goes live it stores a callable address that runs the unpatched function in
// *original.
type Installer interface {
	Install(target, replacement uintptr, original *uintptr) error
}

// Binding describes one redirected function.
type Binding struct {
	Name   string
	Module string
	Symbol string

	// Original is written by the installer while the host may already be
	// calling the replacement; read it with OriginalAddr.
	Original  uintptr
	Installed bool
}

// OriginalAddr returns the address of the unpatched function, or 0 while the
// hook is not installed.
func (b *Binding) OriginalAddr() uintptr {
	return atomic.LoadUintptr(&b.Original)
}

// Call invokes the original function of an installed binding. It returns 0
// without calling anything while the original is unknown.
func (b *Binding) Call(args ...uintptr) uintptr {
	addr := b.OriginalAddr()
	if addr == 0 {
		return 0
	}
	r, _, _ := purego.SyscallN(addr, args...)
	return r
}

func (b *Binding) String() string {
	return fmt.Sprintf("%s (%s!%s)", b.Name, b.Module, b.Symbol)
}

var log = logging.L("hook")

// Install resolves b and redirects it to replacement. A binding is installed
// at most once.
func Install(r Resolver, in Installer, b *Binding, replacement uintptr) error {
	if b.Installed {
		return nil
	}
	target, err := r.Resolve(b.Module, b.Symbol)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", b, err)
	}
	if target == 0 {
		return fmt.Errorf("resolve %s: %w", b, ErrSymbolNotFound)
	}
	log.Debug("resolved", logging.KeySymbol, b.Symbol, logging.KeyModule, b.Module, "address", fmt.Sprintf("%#x", target))

	if err := in.Install(target, replacement, &b.Original); err != nil {
		return fmt.Errorf("install %s: %w", b, err)
	}
	b.Installed = true
	log.Info("hook installed", "name", b.Name, logging.KeySymbol, b.Symbol)
	return nil
}

// State summarizes a set of bindings.
type State int

const (
	Installed State = iota
	NotInstalled
	Partial
)

func (s State) String() string {
	switch s {
	case Installed:
		return "installed"
	case NotInstalled:
		return "not installed"
	}
	return "partially installed"
}

// StateOf reports whether all, none or some of bs are installed.
func StateOf(bs ...*Binding) State {
	n := 0
	for _, b := range bs {
		if b.Installed {
			n++
		}
	}
	switch n {
	case len(bs):
		return Installed
	case 0:
		return NotInstalled
	}
	return Partial
}

// DL resolves symbols with dlopen/dlsym. Library handles are cached.
type DL struct {
	mu      sync.Mutex
	handles map[string]uintptr
	open    func(path string) (uintptr, error)
	sym     func(handle uintptr, name string) (uintptr, error)
}

func newDL(open func(string) (uintptr, error), sym func(uintptr, string) (uintptr, error)) *DL {
	return &DL{handles: map[string]uintptr{}, open: open, sym: sym}
}

func (d *DL) Resolve(module, symbol string) (uintptr, error) {
	d.mu.Lock()
	h, ok := d.handles[module]
	if !ok {
		var err error
		h, err = d.open(module)
		if err != nil {
			d.mu.Unlock()
			return 0, fmt.Errorf("%w: open %s: %v", ErrSymbolNotFound, module, err)
		}
		d.handles[module] = h
	}
	d.mu.Unlock()

	addr, err := d.sym(h, symbol)
	if err != nil || addr == 0 {
		return 0, fmt.Errorf("%w: %s in %s", ErrSymbolNotFound, symbol, module)
	}
	return addr, nil
}
