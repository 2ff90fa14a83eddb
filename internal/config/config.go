// This file is part of the program "blurhook".
// Please see the LICENSE file for copyright information.

// Package config reads and writes the blurhook settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// MaxStrength is the upper bound of the blur strength. A strength of 1 would
// freeze the history and never decay, so the range stops short of it.
const MaxStrength = 0.98

// ErrInvalid is returned by Validate for settings that cannot be used.
var ErrInvalid = errors.New("invalid config")

const (
	configFile = "config.toml"
	appDir     = "blurhook"

	// EnvPath overrides the config file location.
	EnvPath = "BLURHOOK_CONFIG"

	androidFallback = "/data/local/tmp"
)

type Config struct {
	Effect  Effect  `toml:"effect"`
	Surface Surface `toml:"surface"`
	Hooks   Hooks   `toml:"hooks"`
	Overlay Overlay `toml:"overlay"`
	Log     Log     `toml:"log"`
}

type Effect struct {
	Enabled  bool    `toml:"enabled"`
	Strength float32 `toml:"strength"`
}

// Surface bounds the surfaces the presentation hook is willing to lock onto.
type Surface struct {
	MinWidth  int `toml:"min_width"`
	MinHeight int `toml:"min_height"`
}

type Hooks struct {
	StartupDelay      Duration `toml:"startup_delay"`
	TrampolineLibrary string   `toml:"trampoline_library"`
	EGLLibrary        string   `toml:"egl_library"`
	PresentSymbol     string   `toml:"present_symbol"`
	InputLibrary      string   `toml:"input_library"`
	ConsumeSymbol     string   `toml:"consume_symbol"`
	// DeliverSymbol is optional; the fire-and-forget input hook is only
	// installed when it is set.
	DeliverSymbol string `toml:"deliver_symbol"`
}

type Overlay struct {
	Title     string  `toml:"title"`
	FontScale float32 `toml:"font_scale"`
	Persist   bool    `toml:"persist"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Duration is a time.Duration stored as a string such as "3s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		Effect: Effect{
			Enabled:  false,
			Strength: 0.85,
		},
		Surface: Surface{
			MinWidth:  100,
			MinHeight: 100,
		},
		Hooks: Hooks{
			StartupDelay:      Duration{3 * time.Second},
			TrampolineLibrary: "libpreloader.so",
			EGLLibrary:        "libEGL.so",
			PresentSymbol:     "eglSwapBuffers",
			InputLibrary:      "libinput.so",
			ConsumeSymbol:     "_ZN7android13InputConsumer7consumeEPNS_26InputEventFactoryInterfaceEblPjPPNS_10InputEventE",
			DeliverSymbol:     "",
		},
		Overlay: Overlay{
			Title:     "Natural Motion Blur",
			FontScale: 1.4,
			Persist:   true,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate clamps soft limits in place and reports settings that make the
// hooks impossible to install.
func (c *Config) Validate() error {
	c.Effect.Strength = ClampStrength(c.Effect.Strength)
	if c.Surface.MinWidth < 0 {
		c.Surface.MinWidth = 0
	}
	if c.Surface.MinHeight < 0 {
		c.Surface.MinHeight = 0
	}
	if c.Hooks.StartupDelay.Duration < 0 {
		return fmt.Errorf("%w: negative startup_delay %s", ErrInvalid, c.Hooks.StartupDelay)
	}
	if c.Hooks.EGLLibrary == "" || c.Hooks.PresentSymbol == "" {
		return fmt.Errorf("%w: egl_library and present_symbol are required", ErrInvalid)
	}
	if c.Hooks.ConsumeSymbol != "" && c.Hooks.InputLibrary == "" {
		return fmt.Errorf("%w: consume_symbol set without input_library", ErrInvalid)
	}
	if c.Hooks.DeliverSymbol != "" && c.Hooks.InputLibrary == "" {
		return fmt.Errorf("%w: deliver_symbol set without input_library", ErrInvalid)
	}
	return nil
}

// ClampStrength limits s to [0, MaxStrength].
func ClampStrength(s float32) float32 {
	if s < 0 {
		return 0
	}
	if s > MaxStrength {
		return MaxStrength
	}
	return s
}

// Path returns the config file location.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return filepath.Join(Dir(), configFile)
}

// Dir returns the directory holding the config file.
func Dir() string {
	fallback := androidFallback
	if home := os.Getenv("HOME"); home != "" {
		fallback = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgOrFallback("XDG_CONFIG_HOME", fallback), appDir)
}

// InitializeIfNot writes the default config to path unless a file exists.
func InitializeIfNot(path string) error {
	slog.Debug("checking if config needs to be initialized", "path", path)

	ok, err := exists(path)
	if err != nil {
		return fmt.Errorf("check config file: %w", err)
	}
	if ok {
		return nil
	}
	slog.Info("initializing config", "path", path)
	conf := Default()
	return Write(path, &conf)
}

// Read decodes the config at path on top of the defaults, so keys missing
// from the file keep their default value.
func Read(path string) (Config, error) {
	conf := Default()
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return Default(), fmt.Errorf("read config %s: %w", path, err)
	}
	if err := conf.Validate(); err != nil {
		return Default(), err
	}
	return conf, nil
}

// Load reads path and falls back to the defaults on any error. It never
// fails: the library runs inside a host process that must keep going.
func Load(path string) Config {
	ok, err := exists(path)
	if err != nil || !ok {
		slog.Info("no config file, using defaults", "path", path)
		return Default()
	}
	conf, err := Read(path)
	if err != nil {
		slog.Warn("couldn't read config, using defaults", "error", err)
		return Default()
	}
	return conf
}

var writeMu sync.Mutex

// Write encodes conf to path, creating its directory if needed. Concurrent
// writers are serialized.
func Write(path string, conf *Config) error {
	var buffer bytes.Buffer
	if err := toml.NewEncoder(&buffer).Encode(conf); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	writeMu.Lock()
	defer writeMu.Unlock()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, buffer.Bytes(), 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func xdgOrFallback(xdg string, fallback string) string {
	dir := os.Getenv(xdg)
	if dir != "" {
		if ok, err := exists(dir); ok && err == nil {
			slog.Debug("resolved xdg directory", "var", xdg, "dir", dir)
			return dir
		}
	}

	slog.Debug("couldn't resolve xdg directory, falling back", "var", xdg, "dir", fallback)
	return fallback
}
