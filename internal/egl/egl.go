// Package egl queries the EGL state of the calling thread.
package egl

// Attribute names from <EGL/egl.h>.
const (
	Height               = 0x3056
	Width                = 0x3057
	ContextClientVersion = 0x3098
)

// Display answers the per-frame questions the presentation hook asks. EGL
// state is thread-local, so calls must come from the thread presenting the
// frame.
type Display interface {
	// CurrentContext returns the context current on the calling thread, or 0.
	CurrentContext() uintptr
	// SurfaceSize returns the size of surface in pixels.
	SurfaceSize(display, surface uintptr) (width, height int, ok bool)
	// ClientVersion returns the GL ES major version of ctx, or 0 if unknown.
	ClientVersion(display, ctx uintptr) int
}
