//go:build !android

package egl

import "errors"

// Open is only supported on Android.
func Open(string) (Display, error) {
	return nil, errors.New("egl: only supported on android")
}
