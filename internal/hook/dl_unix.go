//go:build linux || darwin || freebsd

package hook

import (
	"fmt"

	"github.com/ebitengine/purego"

	"blurhook/internal/logging"
)

// NewDL returns a resolver backed by the system dynamic loader.
func NewDL() *DL {
	return newDL(
		func(path string) (uintptr, error) {
			return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		},
		purego.Dlsym,
	)
}

// Gloss installs inline hooks with the GlossHook trampoline library.
type Gloss struct {
	glossInit func(isInitLinker bool)
	glossHook func(symAddr, newFunc uintptr, oldFunc *uintptr) uintptr
}

// OpenGloss loads the trampoline library at path and initializes it.
func OpenGloss(path string) (*Gloss, error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("%w: open trampoline library %s: %v", ErrInstall, path, err)
	}
	for _, sym := range []string{"GlossInit", "GlossHook"} {
		if _, err := purego.Dlsym(lib, sym); err != nil {
			return nil, fmt.Errorf("%w: %s missing from %s", ErrInstall, sym, path)
		}
	}
	g := &Gloss{}
	purego.RegisterLibFunc(&g.glossInit, lib, "GlossInit")
	purego.RegisterLibFunc(&g.glossHook, lib, "GlossHook")
	g.glossInit(true)
	log.Info("trampoline library initialized", logging.KeyModule, path)
	return g, nil
}

func (g *Gloss) Install(target, replacement uintptr, original *uintptr) error {
	if h := g.glossHook(target, replacement, original); h == 0 {
		return fmt.Errorf("%w: GlossHook(%#x) returned null", ErrInstall, target)
	}
	return nil
}
