// Package imguiui runs the overlay panel on Dear ImGui (imgui-go) and renders
// it into the host's GL ES context.
package imguiui

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/inkyblackness/imgui-go/v4"

	"blurhook/internal/gles"
	"blurhook/internal/logging"
	"blurhook/internal/overlay"
)

// Backend implements overlay.UI. Setup, NewFrame, Panel and Render run on the
// render thread; HandleInputEvent may run on any thread.
type Backend struct {
	gl     gles.Context
	reader EventReader
	log    *slog.Logger

	ctx      *imgui.Context
	renderer *renderer
	width    int
	height   int
	last     time.Time

	queue   eventQueue
	pointer pointerState
	active  atomic.Bool
}

var _ overlay.UI = (*Backend)(nil)

// New returns a backend drawing with gl. reader may be nil, in which case
// input events are ignored.
func New(gl gles.Context, reader EventReader) *Backend {
	return &Backend{
		gl:     gl,
		reader: reader,
		log:    logging.L("imgui"),
	}
}

func (b *Backend) Setup(width, height int) error {
	if b.ctx != nil {
		return nil
	}
	ctx := imgui.CreateContext(nil)
	io := imgui.CurrentIO()
	io.SetIniFilename("")
	io.SetDisplaySize(imgui.Vec2{X: float32(width), Y: float32(height)})

	r, err := newRenderer(b.gl, io.Fonts())
	if err != nil {
		ctx.Destroy()
		return fmt.Errorf("imgui renderer: %w", err)
	}
	b.ctx, b.renderer = ctx, r
	b.width, b.height = width, height
	b.active.Store(true)
	b.log.Info("imgui context created", "version", imgui.Version())
	return nil
}

func (b *Backend) NewFrame(width, height int) {
	b.width, b.height = width, height
	io := imgui.CurrentIO()
	io.SetDisplaySize(imgui.Vec2{X: float32(width), Y: float32(height)})

	now := time.Now()
	if !b.last.IsZero() {
		if dt := float32(now.Sub(b.last).Seconds()); dt > 0 {
			io.SetDeltaTime(dt)
		}
	}
	b.last = now

	b.queue.requeue(b.pointer.take(b.queue.drain()))
	io.SetMousePosition(imgui.Vec2{X: b.pointer.x, Y: b.pointer.y})
	io.SetMouseButtonDown(0, b.pointer.down)

	imgui.NewFrame()
}

func (b *Backend) Panel(win overlay.Window, draw func(overlay.Widgets)) {
	imgui.CurrentIO().SetFontGlobalScale(win.FontScale)
	imgui.SetNextWindowPosV(imgui.Vec2{X: win.X, Y: win.Y}, imgui.ConditionFirstUseEver, imgui.Vec2{})
	imgui.SetNextWindowSizeV(imgui.Vec2{X: win.Width, Y: win.Height}, imgui.ConditionFirstUseEver)

	visible := imgui.Begin(win.Title)
	imgui.PushStyleVarVec2(imgui.StyleVarFramePadding, imgui.Vec2{X: win.PaddingX, Y: win.PaddingY})
	imgui.PushStyleVarFloat(imgui.StyleVarFrameRounding, win.Rounding)
	if visible {
		draw(widgets{})
	}
	imgui.PopStyleVarV(2)
	imgui.End()
}

func (b *Backend) Render() {
	imgui.Render()
	b.renderer.render(b.width, b.height, imgui.RenderedDrawData())
}

func (b *Backend) HandleInputEvent(event uintptr) {
	if b.reader == nil {
		return
	}
	if ev, ok := b.reader.Read(event); ok {
		b.queue.push(ev)
	}
}

func (b *Backend) Active() bool { return b.active.Load() }

// Close frees the GL objects and the imgui context.
func (b *Backend) Close() {
	if b.ctx == nil {
		return
	}
	b.active.Store(false)
	b.renderer.release()
	b.ctx.Destroy()
	b.ctx, b.renderer = nil, nil
}

type widgets struct{}

func (widgets) Checkbox(label string, value *bool) bool { return imgui.Checkbox(label, value) }

func (widgets) Spacing() { imgui.Spacing() }

func (widgets) Text(text string) { imgui.Text(text) }

func (widgets) SliderFloat(label string, value *float32, min, max float32, format string) bool {
	return imgui.SliderFloatV(label, value, min, max, format, imgui.SliderFlagsNone)
}
