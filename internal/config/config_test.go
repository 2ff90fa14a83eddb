package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestClampStrength(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{0.98, 0.98},
		{0.99, 0.98},
		{4, 0.98},
	}
	for _, tt := range tests {
		if got := ClampStrength(tt.in); got != tt.want {
			t.Errorf("ClampStrength(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitializeWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", configFile)

	if err := InitializeIfNot(path); err != nil {
		t.Fatalf("InitializeIfNot() error = %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != Default() {
		t.Errorf("Read() = %+v, want defaults %+v", got, Default())
	}
}

func TestInitializeKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFile)
	if err := os.WriteFile(path, []byte("[effect]\nenabled = true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := InitializeIfNot(path); err != nil {
		t.Fatalf("InitializeIfNot() error = %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !got.Effect.Enabled {
		t.Error("existing config was overwritten")
	}
}

func TestReadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFile)
	data := `
[effect]
enabled = true
strength = 1.5

[hooks]
startup_delay = "250ms"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !got.Effect.Enabled {
		t.Error("Effect.Enabled = false, want true")
	}
	if got.Effect.Strength != MaxStrength {
		t.Errorf("Effect.Strength = %v, want clamped %v", got.Effect.Strength, float32(MaxStrength))
	}
	if got.Hooks.StartupDelay.Duration != 250*time.Millisecond {
		t.Errorf("StartupDelay = %v, want 250ms", got.Hooks.StartupDelay)
	}
	if got.Hooks.PresentSymbol != "eglSwapBuffers" {
		t.Errorf("PresentSymbol = %q, want default", got.Hooks.PresentSymbol)
	}
	if got.Surface.MinWidth != 100 || got.Surface.MinHeight != 100 {
		t.Errorf("Surface = %+v, want 100x100", got.Surface)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"no present symbol", func(c *Config) { c.Hooks.PresentSymbol = "" }, true},
		{"no egl library", func(c *Config) { c.Hooks.EGLLibrary = "" }, true},
		{"consume without library", func(c *Config) { c.Hooks.InputLibrary = "" }, true},
		{"no input hooks at all", func(c *Config) {
			c.Hooks.InputLibrary = ""
			c.Hooks.ConsumeSymbol = ""
		}, false},
		{"negative delay", func(c *Config) { c.Hooks.StartupDelay.Duration = -time.Second }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadFallsBack(t *testing.T) {
	dir := t.TempDir()

	if got := Load(filepath.Join(dir, "missing.toml")); got != Default() {
		t.Errorf("Load(missing) = %+v, want defaults", got)
	}

	broken := filepath.Join(dir, "broken.toml")
	if err := os.WriteFile(broken, []byte("[effect\nenabled = ="), 0644); err != nil {
		t.Fatal(err)
	}
	if got := Load(broken); got != Default() {
		t.Errorf("Load(broken) = %+v, want defaults", got)
	}
}

func TestPathEnvOverride(t *testing.T) {
	want := filepath.Join(t.TempDir(), "custom.toml")
	t.Setenv(EnvPath, want)
	if got := Path(); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestDirUsesXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv(EnvPath, "")
	t.Setenv("XDG_CONFIG_HOME", xdg)
	if got, want := Dir(), filepath.Join(xdg, appDir); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}
