//go:build android

package imguiui

import (
	"fmt"

	"github.com/ebitengine/purego"
)

type androidReader struct {
	getType   func(event uintptr) int32
	getAction func(event uintptr) int32
	getX      func(event uintptr, pointer uintptr) float32
	getY      func(event uintptr, pointer uintptr) float32
}

// NewEventReader binds the NDK input accessors from libandroid.so.
func NewEventReader() (EventReader, error) {
	lib, err := purego.Dlopen("libandroid.so", purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("open libandroid: %w", err)
	}
	r := &androidReader{}
	purego.RegisterLibFunc(&r.getType, lib, "AInputEvent_getType")
	purego.RegisterLibFunc(&r.getAction, lib, "AMotionEvent_getAction")
	purego.RegisterLibFunc(&r.getX, lib, "AMotionEvent_getX")
	purego.RegisterLibFunc(&r.getY, lib, "AMotionEvent_getY")
	return r, nil
}

func (r *androidReader) Read(event uintptr) (MotionEvent, bool) {
	if event == 0 {
		return MotionEvent{}, false
	}
	ev := MotionEvent{Type: r.getType(event)}
	if ev.Type != inputEventTypeMotion {
		return ev, false
	}
	ev.Action = r.getAction(event)
	ev.X = r.getX(event, 0)
	ev.Y = r.getY(event, 0)
	return ev, true
}
