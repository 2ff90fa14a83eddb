//go:build android

package egl

import (
	"fmt"

	"github.com/ebitengine/purego"
)

type lib struct {
	getCurrentContext func() uintptr
	querySurface      func(display, surface uintptr, attribute int32, value *int32) uint32
	queryContext      func(display, ctx uintptr, attribute int32, value *int32) uint32
}

// Open binds the EGL entry points from the named library.
func Open(path string) (Display, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	l := &lib{}
	purego.RegisterLibFunc(&l.getCurrentContext, h, "eglGetCurrentContext")
	purego.RegisterLibFunc(&l.querySurface, h, "eglQuerySurface")
	purego.RegisterLibFunc(&l.queryContext, h, "eglQueryContext")
	return l, nil
}

func (l *lib) CurrentContext() uintptr { return l.getCurrentContext() }

func (l *lib) SurfaceSize(display, surface uintptr) (int, int, bool) {
	var w, h int32
	if l.querySurface(display, surface, Width, &w) == 0 {
		return 0, 0, false
	}
	if l.querySurface(display, surface, Height, &h) == 0 {
		return 0, 0, false
	}
	return int(w), int(h), true
}

func (l *lib) ClientVersion(display, ctx uintptr) int {
	var v int32
	if l.queryContext(display, ctx, ContextClientVersion, &v) == 0 {
		return 0
	}
	return int(v)
}
