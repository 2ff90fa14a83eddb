package imguiui

import (
	"fmt"
	"unsafe"

	"github.com/inkyblackness/imgui-go/v4"

	"blurhook/internal/gles"
)

const uiVertexShader = `
uniform mat4 ProjMtx;
attribute vec2 Position;
attribute vec2 UV;
attribute vec4 Color;
varying vec2 Frag_UV;
varying vec4 Frag_Color;
void main() {
    Frag_UV = UV;
    Frag_Color = Color;
    gl_Position = ProjMtx * vec4(Position.xy, 0.0, 1.0);
}
`

const uiFragmentShader = `
precision mediump float;
uniform sampler2D Texture;
varying vec2 Frag_UV;
varying vec4 Frag_Color;
void main() {
    gl_FragColor = Frag_Color * texture2D(Texture, Frag_UV.st);
}
`

// renderer draws imgui draw data with GL ES 2 calls.
type renderer struct {
	gl gles.Context

	program  gles.Program
	texture  gles.Uniform
	projMtx  gles.Uniform
	position gles.Attrib
	uv       gles.Attrib
	color    gles.Attrib

	vbo, ibo gles.Buffer
	font     gles.Texture
}

func newRenderer(gl gles.Context, fonts imgui.FontAtlas) (*renderer, error) {
	p, err := gles.BuildProgram(gl, uiVertexShader, uiFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("ui program: %w", err)
	}
	r := &renderer{
		gl:       gl,
		program:  p,
		texture:  gl.GetUniformLocation(p, "Texture"),
		projMtx:  gl.GetUniformLocation(p, "ProjMtx"),
		position: gl.GetAttribLocation(p, "Position"),
		uv:       gl.GetAttribLocation(p, "UV"),
		color:    gl.GetAttribLocation(p, "Color"),
		vbo:      gl.CreateBuffer(),
		ibo:      gl.CreateBuffer(),
	}

	image := fonts.TextureDataRGBA32()
	r.font = gl.CreateTexture()
	gl.ActiveTexture(gles.TEXTURE0)
	gl.BindTexture(gles.TEXTURE_2D, r.font)
	gl.TexParameteri(gles.TEXTURE_2D, gles.TEXTURE_MIN_FILTER, int(gles.LINEAR))
	gl.TexParameteri(gles.TEXTURE_2D, gles.TEXTURE_MAG_FILTER, int(gles.LINEAR))
	pixels := unsafe.Slice((*byte)(image.Pixels), image.Width*image.Height*4)
	gl.TexImage2D(gles.TEXTURE_2D, 0, int(gles.RGBA), image.Width, image.Height, gles.RGBA, gles.UNSIGNED_BYTE, pixels)
	fonts.SetTextureID(imgui.TextureID(r.font))
	return r, nil
}

func (r *renderer) render(width, height int, data imgui.DrawData) {
	if !data.Valid() || width <= 0 || height <= 0 {
		return
	}
	gl := r.gl
	fw, fh := float32(width), float32(height)

	gl.BindFramebuffer(gles.FRAMEBUFFER, 0)
	gl.Enable(gles.BLEND)
	gl.BlendEquationSeparate(gles.FUNC_ADD, gles.FUNC_ADD)
	gl.BlendFuncSeparate(gles.SRC_ALPHA, gles.ONE_MINUS_SRC_ALPHA, gles.ONE, gles.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gles.CULL_FACE)
	gl.Disable(gles.DEPTH_TEST)
	gl.Enable(gles.SCISSOR_TEST)
	gl.Viewport(0, 0, width, height)

	ortho := []float32{
		2 / fw, 0, 0, 0,
		0, -2 / fh, 0, 0,
		0, 0, -1, 0,
		-1, 1, 0, 1,
	}
	gl.UseProgram(r.program)
	gl.Uniform1i(r.texture, 0)
	gl.UniformMatrix4fv(r.projMtx, ortho)
	gl.ActiveTexture(gles.TEXTURE0)

	vertexSize, posOffset, uvOffset, colOffset := imgui.VertexBufferLayout()
	indexSize := imgui.IndexBufferLayout()
	indexType := gles.UNSIGNED_SHORT
	if indexSize == 4 {
		indexType = gles.UNSIGNED_INT
	}

	gl.BindBuffer(gles.ARRAY_BUFFER, r.vbo)
	gl.BindBuffer(gles.ELEMENT_ARRAY_BUFFER, r.ibo)
	gl.EnableVertexAttribArray(r.position)
	gl.VertexAttribPointer(r.position, 2, gles.FLOAT, false, vertexSize, posOffset)
	gl.EnableVertexAttribArray(r.uv)
	gl.VertexAttribPointer(r.uv, 2, gles.FLOAT, false, vertexSize, uvOffset)
	gl.EnableVertexAttribArray(r.color)
	gl.VertexAttribPointer(r.color, 4, gles.UNSIGNED_BYTE, true, vertexSize, colOffset)

	for _, list := range data.CommandLists() {
		vb, vbSize := list.VertexBuffer()
		gl.BufferData(gles.ARRAY_BUFFER, unsafe.Slice((*byte)(vb), vbSize), gles.STREAM_DRAW)
		ib, ibSize := list.IndexBuffer()
		gl.BufferData(gles.ELEMENT_ARRAY_BUFFER, unsafe.Slice((*byte)(ib), ibSize), gles.STREAM_DRAW)

		offset := 0
		for _, cmd := range list.Commands() {
			if cmd.HasUserCallback() {
				cmd.CallUserCallback(list)
			} else {
				clip := cmd.ClipRect()
				gl.Scissor(int(clip.X), int(fh-clip.W), int(clip.Z-clip.X), int(clip.W-clip.Y))
				gl.BindTexture(gles.TEXTURE_2D, gles.Texture(cmd.TextureID()))
				gl.DrawElements(gles.TRIANGLES, cmd.ElementCount(), indexType, offset)
			}
			offset += cmd.ElementCount() * indexSize
		}
	}
}

func (r *renderer) release() {
	r.gl.DeleteTexture(r.font)
	r.gl.DeleteBuffer(r.vbo)
	r.gl.DeleteBuffer(r.ibo)
	r.gl.DeleteProgram(r.program)
}
