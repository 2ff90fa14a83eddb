package main

import (
	"path/filepath"
	"testing"

	"blurhook/internal/config"
)

func TestDragKeepsLastValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	conf := config.Default()
	ui := newUIState(&conf, path)

	ui.params.Enabled = true
	for s := 1; s <= 50; s++ {
		ui.params.Strength = float32(s) / 100
		ui.changed()
	}
	ui.saver.Flush()

	got, err := config.Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if want := (config.Effect{Enabled: true, Strength: 0.5}); got.Effect != want {
		t.Errorf("saved effect = %+v, want %+v", got.Effect, want)
	}
}

func TestViewStack(t *testing.T) {
	v := NewViewStack(settingsView)
	if _, ok := v.Pop(); ok {
		t.Error("Pop() removed the root view")
	}
	v.Push(versionView)
	if v.Len() != 2 {
		t.Errorf("Len() = %d, want 2", v.Len())
	}
	if _, ok := v.Pop(); !ok {
		t.Error("Pop() = false, want true")
	}
	if v.Len() != 1 {
		t.Errorf("Len() = %d, want 1", v.Len())
	}
}

func TestSymbolName(t *testing.T) {
	if got := symbolName("libEGL.so", "eglSwapBuffers"); got != "libEGL.so!eglSwapBuffers" {
		t.Errorf("symbolName() = %q", got)
	}
	if got := symbolName("libinput.so", ""); got != "(not hooked)" {
		t.Errorf("symbolName() = %q, want (not hooked)", got)
	}
}
