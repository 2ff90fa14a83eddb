package bootstrap

import (
	"context"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"blurhook/internal/config"
	"blurhook/internal/gles"
	"blurhook/internal/gles/gltest"
	"blurhook/internal/hook"
	"blurhook/internal/overlay"
)

type fakeResolver map[string]uintptr

func (f fakeResolver) Resolve(module, symbol string) (uintptr, error) {
	if addr, ok := f[module+"!"+symbol]; ok {
		return addr, nil
	}
	return 0, hook.ErrSymbolNotFound
}

type fakeInstaller struct {
	mu      sync.Mutex
	targets []uintptr
}

func (f *fakeInstaller) Install(target, replacement uintptr, original *uintptr) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.targets = append(f.targets, target)
	*original = target + 1
	return nil
}

func addr(a uintptr) func() uintptr { return func() uintptr { return a } }

func newBootstrap(r hook.Resolver, in hook.Installer) (*Bootstrap, chan time.Time, []*hook.Binding) {
	tick := make(chan time.Time, 1)
	bs := []*hook.Binding{
		{Name: "present", Module: "libEGL.so", Symbol: "eglSwapBuffers"},
		{Name: "consume", Module: "libinput.so", Symbol: "consume"},
		{Name: "deliver", Module: "libinput.so", Symbol: "deliver"},
	}
	b := &Bootstrap{
		Delay:         3 * time.Second,
		Resolver:      r,
		OpenInstaller: func() (hook.Installer, error) { return in, nil },
		After:         func(time.Duration) <-chan time.Time { return tick },
	}
	for i, binding := range bs {
		b.Targets = append(b.Targets, Target{Binding: binding, Replacement: addr(uintptr(0x900 + i))})
	}
	return b, tick, bs
}

func TestInstallsAfterDelay(t *testing.T) {
	r := fakeResolver{"libEGL.so!eglSwapBuffers": 0x100, "libinput.so!consume": 0x200, "libinput.so!deliver": 0x300}
	in := &fakeInstaller{}
	b, tick, bs := newBootstrap(r, in)
	var gotDelay time.Duration
	after := b.After
	b.After = func(d time.Duration) <-chan time.Time {
		gotDelay = d
		return after(d)
	}

	b.Start(context.Background())
	if b.Installed() {
		t.Fatal("installed before the delay elapsed")
	}
	tick <- time.Now()
	b.Wait()

	if gotDelay != 3*time.Second {
		t.Errorf("delay = %v, want 3s", gotDelay)
	}
	if !b.Installed() || b.State() != hook.Installed {
		t.Errorf("Installed() = %v, State() = %v, want installed", b.Installed(), b.State())
	}
	if want := []uintptr{0x100, 0x200, 0x300}; !reflect.DeepEqual(in.targets, want) {
		t.Errorf("install order = %#x, want %#x", in.targets, want)
	}
	if bs[0].OriginalAddr() != 0x101 {
		t.Errorf("present original = %#x, want 0x101", bs[0].OriginalAddr())
	}
}

func TestStartOnce(t *testing.T) {
	in := &fakeInstaller{}
	b, tick, _ := newBootstrap(fakeResolver{"libEGL.so!eglSwapBuffers": 0x100}, in)
	b.Start(context.Background())
	b.Start(context.Background())
	tick <- time.Now()
	b.Wait()
	b.Start(context.Background())
	b.Wait()

	if len(in.targets) != 1 {
		t.Errorf("installs = %d, want 1", len(in.targets))
	}
}

func TestFailedHookSkipsOnlyItself(t *testing.T) {
	in := &fakeInstaller{}
	b, tick, bs := newBootstrap(fakeResolver{"libEGL.so!eglSwapBuffers": 0x100, "libinput.so!deliver": 0x300}, in)
	b.Start(context.Background())
	tick <- time.Now()
	b.Wait()

	if !bs[0].Installed || bs[1].Installed || !bs[2].Installed {
		t.Errorf("installed = %v/%v/%v, want true/false/true", bs[0].Installed, bs[1].Installed, bs[2].Installed)
	}
	if b.State() != hook.Partial {
		t.Errorf("State() = %v, want partial", b.State())
	}
}

func TestInstallerFailure(t *testing.T) {
	b, tick, bs := newBootstrap(fakeResolver{}, nil)
	b.OpenInstaller = func() (hook.Installer, error) { return nil, hook.ErrInstall }
	b.Start(context.Background())
	tick <- time.Now()
	b.Wait()

	if b.Installed() {
		t.Error("Installed() = true after trampoline failure")
	}
	for _, binding := range bs {
		if binding.Installed {
			t.Errorf("%s installed", binding)
		}
	}
}

func TestCancelBeforeDelay(t *testing.T) {
	in := &fakeInstaller{}
	b, _, _ := newBootstrap(fakeResolver{"libEGL.so!eglSwapBuffers": 0x100}, in)
	ctx, cancel := context.WithCancel(context.Background())
	b.Start(ctx)
	cancel()
	b.Wait()

	if b.Installed() || len(in.targets) != 0 {
		t.Errorf("installed after cancel: %v", in.targets)
	}
}

func TestWaitWithoutStart(t *testing.T) {
	b := &Bootstrap{}
	done := make(chan struct{})
	go func() {
		b.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait() blocked without Start")
	}
}

type nopUI struct{}

func (nopUI) Setup(int, int) error                        { return nil }
func (nopUI) NewFrame(int, int)                           {}
func (nopUI) Panel(overlay.Window, func(overlay.Widgets)) {}
func (nopUI) Render()                                     {}
func (nopUI) HandleInputEvent(uintptr)                    {}
func (nopUI) Active() bool                                { return true }

type nopEGL struct{}

func (nopEGL) CurrentContext() uintptr                       { return 0 }
func (nopEGL) SurfaceSize(uintptr, uintptr) (int, int, bool) { return 0, 0, false }
func (nopEGL) ClientVersion(uintptr, uintptr) int            { return 0 }

func TestRuntimeTargets(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		targets []string
	}{
		{"defaults", func(*config.Config) {}, []string{"present", "input-consume"}},
		{"deliver configured", func(c *config.Config) { c.Hooks.DeliverSymbol = "deliver" }, []string{"present", "input-consume", "input-deliver"}},
		{"no input", func(c *config.Config) { c.Hooks.ConsumeSymbol = "" }, []string{"present"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := config.Default()
			tt.mutate(&conf)
			gl := gltest.New(4, 4)
			rt := NewRuntime(conf, "", gl, gles.Inline{}, nopEGL{}, nopUI{})
			b := rt.Bootstrap(fakeResolver{}, nil, Callbacks{})

			var got []string
			for _, target := range b.Targets {
				got = append(got, target.Binding.Name)
			}
			if !reflect.DeepEqual(got, tt.targets) {
				t.Errorf("targets = %v, want %v", got, tt.targets)
			}
			if b.Delay != conf.Hooks.StartupDelay.Duration {
				t.Errorf("Delay = %v, want %v", b.Delay, conf.Hooks.StartupDelay.Duration)
			}
		})
	}
}

func TestRuntimePassesThroughBeforeInstall(t *testing.T) {
	rt := NewRuntime(config.Default(), "", gltest.New(4, 4), gles.Inline{}, nopEGL{}, nopUI{})
	if got := rt.Swap.Present(1, 2); got != 0 {
		t.Errorf("Present() = %d, want 0 with no original", got)
	}
	if got := rt.Input.OnConsume(1, 2, 3, 4, 5, 0); got != 0 {
		t.Errorf("OnConsume() = %d, want 0 with no original", got)
	}
}

func TestRuntimePersistsChanges(t *testing.T) {
	// No config file or directory yet, as on a first run inside an app sandbox.
	path := filepath.Join(t.TempDir(), "blurhook", "config.toml")
	conf := config.Default()
	rt := NewRuntime(conf, path, gltest.New(4, 4), gles.Inline{}, nopEGL{}, nopUI{})

	rt.Overlay.OnChange(overlay.Params{Enabled: true, Strength: 0.4})
	rt.Overlay.OnChange(overlay.Params{Enabled: true, Strength: 0.6})
	rt.saver.Flush()

	got, err := config.Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if want := (config.Effect{Enabled: true, Strength: 0.6}); got.Effect != want {
		t.Errorf("persisted effect = %+v, want %+v", got.Effect, want)
	}
	if got.Hooks != conf.Hooks {
		t.Errorf("persisted hooks = %+v, want unchanged %+v", got.Hooks, conf.Hooks)
	}
}
