// Package glstate saves and restores the GL state the injected passes touch.
package glstate

import "blurhook/internal/gles"

// Options selects the optional parts of the state.
type Options struct {
	// TrackVertexArray saves the vertex array binding. Only GLES 3 contexts
	// have one.
	TrackVertexArray bool
}

// State is a snapshot of the host's render state. It is comparable.
type State struct {
	Program        gles.Program
	Texture2D      gles.Texture
	ArrayBuffer    gles.Buffer
	ElementBuffer  gles.Buffer
	Framebuffer    gles.Framebuffer
	Viewport       [4]int32
	ScissorBox     [4]int32
	ScissorTest    bool
	DepthTest      bool
	CullFace       bool
	Blend          bool
	ClearColor     [4]float32
	ActiveTexture  gles.Enum
	Texture2DUnit1 gles.Texture
	BlendEquation  [2]gles.Enum
	BlendFunc      [4]gles.Enum
	VertexArray    gles.VertexArray

	trackVertexArray bool
}

// Capture reads the current state from gl.
func Capture(gl gles.Context, opts Options) State {
	s := State{trackVertexArray: opts.TrackVertexArray}

	// Texture bindings are per unit; read both before touching the selector.
	s.ActiveTexture = gles.Enum(gl.GetInteger(gles.ACTIVE_TEXTURE))
	gl.ActiveTexture(gles.TEXTURE1)
	s.Texture2DUnit1 = gles.Texture(gl.GetInteger(gles.TEXTURE_BINDING_2D))
	gl.ActiveTexture(gles.TEXTURE0)
	s.Texture2D = gles.Texture(gl.GetInteger(gles.TEXTURE_BINDING_2D))
	gl.ActiveTexture(s.ActiveTexture)

	s.Program = gles.Program(gl.GetInteger(gles.CURRENT_PROGRAM))
	s.ArrayBuffer = gles.Buffer(gl.GetInteger(gles.ARRAY_BUFFER_BINDING))
	s.ElementBuffer = gles.Buffer(gl.GetInteger(gles.ELEMENT_ARRAY_BUFFER_BINDING))
	s.Framebuffer = gles.Framebuffer(gl.GetInteger(gles.FRAMEBUFFER_BINDING))
	gl.GetIntegerv(s.Viewport[:], gles.VIEWPORT)
	gl.GetIntegerv(s.ScissorBox[:], gles.SCISSOR_BOX)
	gl.GetFloatv(s.ClearColor[:], gles.COLOR_CLEAR_VALUE)

	s.ScissorTest = gl.IsEnabled(gles.SCISSOR_TEST)
	s.DepthTest = gl.IsEnabled(gles.DEPTH_TEST)
	s.CullFace = gl.IsEnabled(gles.CULL_FACE)
	s.Blend = gl.IsEnabled(gles.BLEND)

	s.BlendEquation = [2]gles.Enum{
		gles.Enum(gl.GetInteger(gles.BLEND_EQUATION_RGB)),
		gles.Enum(gl.GetInteger(gles.BLEND_EQUATION_ALPHA)),
	}
	s.BlendFunc = [4]gles.Enum{
		gles.Enum(gl.GetInteger(gles.BLEND_SRC_RGB)),
		gles.Enum(gl.GetInteger(gles.BLEND_DST_RGB)),
		gles.Enum(gl.GetInteger(gles.BLEND_SRC_ALPHA)),
		gles.Enum(gl.GetInteger(gles.BLEND_DST_ALPHA)),
	}

	if opts.TrackVertexArray {
		s.VertexArray = gles.VertexArray(gl.GetInteger(gles.VERTEX_ARRAY_BINDING))
	}
	return s
}

// Restore writes s back to gl.
func (s State) Restore(gl gles.Context) {
	// The vertex array owns the element buffer binding, so it goes first.
	if s.trackVertexArray {
		gl.BindVertexArray(s.VertexArray)
	}
	gl.UseProgram(s.Program)
	gl.BindBuffer(gles.ARRAY_BUFFER, s.ArrayBuffer)
	gl.BindBuffer(gles.ELEMENT_ARRAY_BUFFER, s.ElementBuffer)
	gl.BindFramebuffer(gles.FRAMEBUFFER, s.Framebuffer)

	gl.ActiveTexture(gles.TEXTURE1)
	gl.BindTexture(gles.TEXTURE_2D, s.Texture2DUnit1)
	gl.ActiveTexture(gles.TEXTURE0)
	gl.BindTexture(gles.TEXTURE_2D, s.Texture2D)
	gl.ActiveTexture(s.ActiveTexture)

	gl.Viewport(int(s.Viewport[0]), int(s.Viewport[1]), int(s.Viewport[2]), int(s.Viewport[3]))
	gl.Scissor(int(s.ScissorBox[0]), int(s.ScissorBox[1]), int(s.ScissorBox[2]), int(s.ScissorBox[3]))
	gl.ClearColor(s.ClearColor[0], s.ClearColor[1], s.ClearColor[2], s.ClearColor[3])
	setEnabled(gl, gles.SCISSOR_TEST, s.ScissorTest)
	setEnabled(gl, gles.DEPTH_TEST, s.DepthTest)
	setEnabled(gl, gles.CULL_FACE, s.CullFace)
	setEnabled(gl, gles.BLEND, s.Blend)
	gl.BlendEquationSeparate(s.BlendEquation[0], s.BlendEquation[1])
	gl.BlendFuncSeparate(s.BlendFunc[0], s.BlendFunc[1], s.BlendFunc[2], s.BlendFunc[3])
}

func setEnabled(gl gles.Context, capability gles.Enum, on bool) {
	if on {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

// Guard captures the state, runs body and restores the state, also when body
// panics. The panic keeps propagating after the restore.
func Guard(gl gles.Context, opts Options, body func()) {
	saved := Capture(gl, opts)
	defer saved.Restore(gl)
	body()
}
