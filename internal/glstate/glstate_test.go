package glstate

import (
	"testing"

	"blurhook/internal/gles"
	"blurhook/internal/gles/gltest"
)

// hostState puts gl into a state no injected pass would leave behind.
func hostState(gl *gltest.SoftGL) {
	p := gl.CreateProgram()
	fb := gl.CreateFramebuffer()
	vbo, ibo := gl.CreateBuffer(), gl.CreateBuffer()
	t0, t1 := gl.CreateTexture(), gl.CreateTexture()

	gl.ActiveTexture(gles.TEXTURE1)
	gl.BindTexture(gles.TEXTURE_2D, t1)
	gl.ActiveTexture(gles.TEXTURE0)
	gl.BindTexture(gles.TEXTURE_2D, t0)
	gl.ActiveTexture(gles.TEXTURE1)

	gl.UseProgram(p)
	gl.BindFramebuffer(gles.FRAMEBUFFER, fb)
	gl.BindBuffer(gles.ARRAY_BUFFER, vbo)
	gl.BindBuffer(gles.ELEMENT_ARRAY_BUFFER, ibo)
	gl.BindVertexArray(7)
	gl.Viewport(3, 4, 50, 60)
	gl.Scissor(10, 10, 50, 50)
	gl.ClearColor(0.2, 0.3, 0.4, 1)
	gl.Enable(gles.CULL_FACE)
	gl.Enable(gles.SCISSOR_TEST)
	gl.Enable(gles.BLEND)
	gl.BlendEquationSeparate(gles.FUNC_ADD, gles.FUNC_ADD)
	gl.BlendFuncSeparate(gles.SRC_ALPHA, gles.ONE_MINUS_SRC_ALPHA, gles.ONE, gles.ZERO)
}

// scribble changes every tracked field.
func scribble(gl gles.Context) {
	gl.UseProgram(0)
	gl.ActiveTexture(gles.TEXTURE0)
	gl.BindTexture(gles.TEXTURE_2D, 99)
	gl.ActiveTexture(gles.TEXTURE1)
	gl.BindTexture(gles.TEXTURE_2D, 98)
	gl.BindFramebuffer(gles.FRAMEBUFFER, 0)
	gl.BindBuffer(gles.ARRAY_BUFFER, 0)
	gl.BindBuffer(gles.ELEMENT_ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	gl.Viewport(0, 0, 1, 1)
	gl.Scissor(14, 0, 186, 101)
	gl.ClearColor(0, 0, 0, 1)
	gl.Disable(gles.CULL_FACE)
	gl.Disable(gles.SCISSOR_TEST)
	gl.Enable(gles.DEPTH_TEST)
	gl.Disable(gles.BLEND)
	gl.BlendFuncSeparate(gles.ONE, gles.ONE, gles.ONE, gles.ONE)
}

func TestCaptureReadsHostState(t *testing.T) {
	gl := gltest.New(64, 64)
	hostState(gl)

	s := Capture(gl, Options{TrackVertexArray: true})
	if s.ActiveTexture != gles.TEXTURE1 {
		t.Errorf("ActiveTexture = %#x, want TEXTURE1", s.ActiveTexture)
	}
	if s.Texture2D == 0 || s.Texture2DUnit1 == 0 || s.Texture2D == s.Texture2DUnit1 {
		t.Errorf("texture bindings = %d, %d, want two distinct textures", s.Texture2D, s.Texture2DUnit1)
	}
	if s.Viewport != [4]int32{3, 4, 50, 60} {
		t.Errorf("Viewport = %v, want [3 4 50 60]", s.Viewport)
	}
	if !s.ScissorTest || s.DepthTest || !s.Blend || !s.CullFace {
		t.Errorf("flags = %v/%v/%v/%v, want true/false/true/true", s.ScissorTest, s.DepthTest, s.Blend, s.CullFace)
	}
	if s.ScissorBox != [4]int32{10, 10, 50, 50} {
		t.Errorf("ScissorBox = %v, want [10 10 50 50]", s.ScissorBox)
	}
	if s.ClearColor != [4]float32{0.2, 0.3, 0.4, 1} {
		t.Errorf("ClearColor = %v, want [0.2 0.3 0.4 1]", s.ClearColor)
	}
	if s.VertexArray != 7 {
		t.Errorf("VertexArray = %d, want 7", s.VertexArray)
	}
	if got := gles.Enum(gl.GetInteger(gles.ACTIVE_TEXTURE)); got != gles.TEXTURE1 {
		t.Errorf("Capture left active texture at %#x, want TEXTURE1", got)
	}
}

func TestRestoreIsExact(t *testing.T) {
	for _, opts := range []Options{{}, {TrackVertexArray: true}} {
		gl := gltest.New(64, 64)
		hostState(gl)
		before := Capture(gl, opts)

		scribble(gl)
		before.Restore(gl)

		if after := Capture(gl, opts); after != before {
			t.Errorf("opts %+v: after restore = %+v, want %+v", opts, after, before)
		}
	}
}

func TestGuardRestoresOnPanic(t *testing.T) {
	gl := gltest.New(64, 64)
	hostState(gl)
	opts := Options{TrackVertexArray: true}
	before := Capture(gl, opts)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("Guard swallowed the panic")
			}
		}()
		Guard(gl, opts, func() {
			scribble(gl)
			panic("boom")
		})
	}()

	if after := Capture(gl, opts); after != before {
		t.Errorf("after panic = %+v, want %+v", after, before)
	}
}

func TestGuardRunsBody(t *testing.T) {
	gl := gltest.New(8, 8)
	ran := false
	Guard(gl, Options{}, func() { ran = true })
	if !ran {
		t.Error("Guard did not run body")
	}
}
