//go:build !android

package imguiui

import "errors"

// NewEventReader is only available on Android.
func NewEventReader() (EventReader, error) {
	return nil, errors.New("input events are only readable on android")
}
