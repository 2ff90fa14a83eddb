//go:build android

package logging

import (
	"fmt"
	"log/slog"

	"github.com/ebitengine/purego"
)

// OpenLogcat binds __android_log_write from liblog.so and returns a handler
// writing records under tag.
func OpenLogcat(tag string, level slog.Leveler) (slog.Handler, error) {
	lib, err := purego.Dlopen("liblog.so", purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoLogcat, err)
	}
	sym, err := purego.Dlsym(lib, "__android_log_write")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoLogcat, err)
	}
	var write logcatWriteFunc
	purego.RegisterFunc(&write, sym)
	return newLogcatHandler(tag, level, write), nil
}
