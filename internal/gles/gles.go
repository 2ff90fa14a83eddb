// Package gles is the subset of OpenGL ES 2/3 the injected passes use.
//
// Context mirrors the shape of golang.org/x/mobile/gl.Context but only
// declares what blurhook calls, which keeps fakes small and keeps the
// packages that render testable without a GL driver.
package gles

type (
	Enum        uint32
	Program     uint32
	Shader      uint32
	Buffer      uint32
	Texture     uint32
	Framebuffer uint32
	VertexArray uint32

	// Attrib is an attribute location; -1 when the attribute is not active.
	Attrib int32
	// Uniform is a uniform location; -1 when the uniform is not active.
	Uniform int32
)

// Valid reports whether the location refers to an active attribute.
func (a Attrib) Valid() bool { return a >= 0 }

// Valid reports whether the location refers to an active uniform.
func (u Uniform) Valid() bool { return u >= 0 }

// Context is a GL ES context current on the calling thread.
type Context interface {
	ActiveTexture(texture Enum)
	AttachShader(p Program, s Shader)
	BindBuffer(target Enum, b Buffer)
	BindFramebuffer(target Enum, fb Framebuffer)
	BindTexture(target Enum, t Texture)
	BindVertexArray(va VertexArray)
	BlendEquationSeparate(modeRGB, modeAlpha Enum)
	BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha Enum)
	BufferData(target Enum, src []byte, usage Enum)
	CheckFramebufferStatus(target Enum) Enum
	Clear(mask Enum)
	ClearColor(red, green, blue, alpha float32)
	CompileShader(s Shader)
	CopyTexSubImage2D(target Enum, level, xoffset, yoffset, x, y, width, height int)
	CreateBuffer() Buffer
	CreateFramebuffer() Framebuffer
	CreateProgram() Program
	CreateShader(ty Enum) Shader
	CreateTexture() Texture
	DeleteBuffer(b Buffer)
	DeleteFramebuffer(fb Framebuffer)
	DeleteProgram(p Program)
	DeleteShader(s Shader)
	DeleteTexture(t Texture)
	Disable(capability Enum)
	DrawElements(mode Enum, count int, ty Enum, offset int)
	Enable(capability Enum)
	EnableVertexAttribArray(a Attrib)
	FramebufferTexture2D(target, attachment, texTarget Enum, t Texture, level int)
	GetAttribLocation(p Program, name string) Attrib
	GetError() Enum
	GetInteger(pname Enum) int
	GetIntegerv(dst []int32, pname Enum)
	GetFloatv(dst []float32, pname Enum)
	GetProgrami(p Program, pname Enum) int
	GetProgramInfoLog(p Program) string
	GetShaderi(s Shader, pname Enum) int
	GetShaderInfoLog(s Shader) string
	GetUniformLocation(p Program, name string) Uniform
	IsEnabled(capability Enum) bool
	LinkProgram(p Program)
	Scissor(x, y, width, height int)
	ShaderSource(s Shader, src string)
	TexImage2D(target Enum, level int, internalFormat int, width, height int, format Enum, ty Enum, data []byte)
	TexParameteri(target, pname Enum, param int)
	Uniform1f(dst Uniform, v float32)
	Uniform1i(dst Uniform, v int)
	UniformMatrix4fv(dst Uniform, src []float32)
	UseProgram(p Program)
	VertexAttribPointer(dst Attrib, size int, ty Enum, normalized bool, stride, offset int)
	Viewport(x, y, width, height int)
}

// Executor runs GL work on the thread that owns the current context.
type Executor interface {
	Run(fn func())
}

// Inline runs fn directly on the calling goroutine. It is the executor for
// bindings that issue GL calls synchronously.
type Inline struct{}

func (Inline) Run(fn func()) { fn() }

// Values from the Khronos GL ES 2.0/3.0 headers.
const (
	FALSE Enum = 0
	TRUE  Enum = 1

	NO_ERROR Enum = 0

	DEPTH_BUFFER_BIT Enum = 0x00000100
	COLOR_BUFFER_BIT Enum = 0x00004000

	TRIANGLES Enum = 0x0004

	FUNC_ADD            Enum = 0x8006
	SRC_ALPHA           Enum = 0x0302
	ONE_MINUS_SRC_ALPHA Enum = 0x0303
	ONE                 Enum = 1
	ZERO                Enum = 0

	BLEND_EQUATION_RGB   Enum = 0x8009
	BLEND_EQUATION_ALPHA Enum = 0x883D
	BLEND_DST_RGB        Enum = 0x80C8
	BLEND_SRC_RGB        Enum = 0x80C9
	BLEND_DST_ALPHA      Enum = 0x80CA
	BLEND_SRC_ALPHA      Enum = 0x80CB

	ARRAY_BUFFER                 Enum = 0x8892
	ELEMENT_ARRAY_BUFFER         Enum = 0x8893
	ARRAY_BUFFER_BINDING         Enum = 0x8894
	ELEMENT_ARRAY_BUFFER_BINDING Enum = 0x8895
	STATIC_DRAW                  Enum = 0x88E4
	STREAM_DRAW                  Enum = 0x88E0

	CULL_FACE    Enum = 0x0B44
	DEPTH_TEST   Enum = 0x0B71
	STENCIL_TEST Enum = 0x0B90
	BLEND        Enum = 0x0BE2
	SCISSOR_TEST Enum = 0x0C11
	VIEWPORT     Enum = 0x0BA2
	SCISSOR_BOX  Enum = 0x0C10

	COLOR_CLEAR_VALUE Enum = 0x0C22

	TEXTURE_2D         Enum = 0x0DE1
	TEXTURE_BINDING_2D Enum = 0x8069
	TEXTURE0           Enum = 0x84C0
	TEXTURE1           Enum = 0x84C1
	ACTIVE_TEXTURE     Enum = 0x84E0

	UNSIGNED_BYTE  Enum = 0x1401
	UNSIGNED_SHORT Enum = 0x1403
	UNSIGNED_INT   Enum = 0x1405
	FLOAT          Enum = 0x1406

	RGBA Enum = 0x1908

	NEAREST            Enum = 0x2600
	LINEAR             Enum = 0x2601
	TEXTURE_MAG_FILTER Enum = 0x2800
	TEXTURE_MIN_FILTER Enum = 0x2801
	TEXTURE_WRAP_S     Enum = 0x2802
	TEXTURE_WRAP_T     Enum = 0x2803
	CLAMP_TO_EDGE      Enum = 0x812F

	FRAGMENT_SHADER Enum = 0x8B30
	VERTEX_SHADER   Enum = 0x8B31
	COMPILE_STATUS  Enum = 0x8B81
	LINK_STATUS     Enum = 0x8B82
	CURRENT_PROGRAM Enum = 0x8B8D

	FRAMEBUFFER          Enum = 0x8D40
	FRAMEBUFFER_BINDING  Enum = 0x8CA6
	FRAMEBUFFER_COMPLETE Enum = 0x8CD5
	COLOR_ATTACHMENT0    Enum = 0x8CE0

	VERTEX_ARRAY_BINDING Enum = 0x85B5
)
