//go:build !android

package logging

import "log/slog"

// OpenLogcat always fails off Android.
func OpenLogcat(string, slog.Leveler) (slog.Handler, error) {
	return nil, ErrNoLogcat
}
