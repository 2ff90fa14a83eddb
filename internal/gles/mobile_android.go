//go:build android

package gles

import (
	"golang.org/x/mobile/gl"
)

// Pump executes GL work queued by a x/mobile context on the goroutine that
// calls Run, which must be locked to the thread owning the EGL context.
type Pump struct {
	worker gl.Worker
}

// NewMobile creates a x/mobile GL context and its worker pump.
func NewMobile() (Context, *Pump) {
	ctx, worker := gl.NewContext()
	return &mobile{ctx: ctx}, &Pump{worker: worker}
}

// Run calls fn on a new goroutine and services GL calls until it returns.
// A panic in fn is re-raised on the caller's goroutine.
func (p *Pump) Run(fn func()) {
	done := make(chan any, 1)
	go func() {
		defer func() { done <- recover() }()
		fn()
	}()
	workAvailable := p.worker.WorkAvailable()
	for {
		select {
		case <-workAvailable:
			p.worker.DoWork()
		case r := <-done:
			if r != nil {
				panic(r)
			}
			return
		}
	}
}

type mobile struct {
	ctx gl.Context
}

func (m *mobile) ActiveTexture(texture Enum) { m.ctx.ActiveTexture(gl.Enum(texture)) }

func (m *mobile) AttachShader(p Program, s Shader) {
	m.ctx.AttachShader(program(p), gl.Shader{Value: uint32(s)})
}

func (m *mobile) BindBuffer(target Enum, b Buffer) {
	m.ctx.BindBuffer(gl.Enum(target), gl.Buffer{Value: uint32(b)})
}

func (m *mobile) BindFramebuffer(target Enum, fb Framebuffer) {
	m.ctx.BindFramebuffer(gl.Enum(target), gl.Framebuffer{Value: uint32(fb)})
}

func (m *mobile) BindTexture(target Enum, t Texture) {
	m.ctx.BindTexture(gl.Enum(target), gl.Texture{Value: uint32(t)})
}

func (m *mobile) BindVertexArray(va VertexArray) {
	m.ctx.BindVertexArray(gl.VertexArray{Value: uint32(va)})
}

func (m *mobile) BlendEquationSeparate(modeRGB, modeAlpha Enum) {
	m.ctx.BlendEquationSeparate(gl.Enum(modeRGB), gl.Enum(modeAlpha))
}

func (m *mobile) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha Enum) {
	m.ctx.BlendFuncSeparate(gl.Enum(srcRGB), gl.Enum(dstRGB), gl.Enum(srcAlpha), gl.Enum(dstAlpha))
}

func (m *mobile) BufferData(target Enum, src []byte, usage Enum) {
	m.ctx.BufferData(gl.Enum(target), src, gl.Enum(usage))
}

func (m *mobile) CheckFramebufferStatus(target Enum) Enum {
	return Enum(m.ctx.CheckFramebufferStatus(gl.Enum(target)))
}

func (m *mobile) Clear(mask Enum) { m.ctx.Clear(gl.Enum(mask)) }

func (m *mobile) ClearColor(red, green, blue, alpha float32) {
	m.ctx.ClearColor(red, green, blue, alpha)
}

func (m *mobile) CompileShader(s Shader) { m.ctx.CompileShader(gl.Shader{Value: uint32(s)}) }

func (m *mobile) CopyTexSubImage2D(target Enum, level, xoffset, yoffset, x, y, width, height int) {
	m.ctx.CopyTexSubImage2D(gl.Enum(target), level, xoffset, yoffset, x, y, width, height)
}

func (m *mobile) CreateBuffer() Buffer           { return Buffer(m.ctx.CreateBuffer().Value) }
func (m *mobile) CreateFramebuffer() Framebuffer { return Framebuffer(m.ctx.CreateFramebuffer().Value) }
func (m *mobile) CreateProgram() Program         { return Program(m.ctx.CreateProgram().Value) }
func (m *mobile) CreateShader(ty Enum) Shader    { return Shader(m.ctx.CreateShader(gl.Enum(ty)).Value) }
func (m *mobile) CreateTexture() Texture         { return Texture(m.ctx.CreateTexture().Value) }

func (m *mobile) DeleteBuffer(b Buffer) { m.ctx.DeleteBuffer(gl.Buffer{Value: uint32(b)}) }

func (m *mobile) DeleteFramebuffer(fb Framebuffer) {
	m.ctx.DeleteFramebuffer(gl.Framebuffer{Value: uint32(fb)})
}

func (m *mobile) DeleteProgram(p Program)   { m.ctx.DeleteProgram(program(p)) }
func (m *mobile) DeleteShader(s Shader)     { m.ctx.DeleteShader(gl.Shader{Value: uint32(s)}) }
func (m *mobile) DeleteTexture(t Texture)   { m.ctx.DeleteTexture(gl.Texture{Value: uint32(t)}) }
func (m *mobile) Disable(capability Enum)   { m.ctx.Disable(gl.Enum(capability)) }
func (m *mobile) Enable(capability Enum)    { m.ctx.Enable(gl.Enum(capability)) }
func (m *mobile) GetError() Enum            { return Enum(m.ctx.GetError()) }
func (m *mobile) GetInteger(pname Enum) int { return m.ctx.GetInteger(gl.Enum(pname)) }

func (m *mobile) DrawElements(mode Enum, count int, ty Enum, offset int) {
	m.ctx.DrawElements(gl.Enum(mode), count, gl.Enum(ty), offset)
}

func (m *mobile) EnableVertexAttribArray(a Attrib) {
	m.ctx.EnableVertexAttribArray(gl.Attrib{Value: uint(a)})
}

func (m *mobile) FramebufferTexture2D(target, attachment, texTarget Enum, t Texture, level int) {
	m.ctx.FramebufferTexture2D(gl.Enum(target), gl.Enum(attachment), gl.Enum(texTarget), gl.Texture{Value: uint32(t)}, level)
}

func (m *mobile) GetAttribLocation(p Program, name string) Attrib {
	// x/mobile stores the signed GL result in an unsigned field.
	return Attrib(int32(m.ctx.GetAttribLocation(program(p), name).Value))
}

func (m *mobile) GetIntegerv(dst []int32, pname Enum) { m.ctx.GetIntegerv(dst, gl.Enum(pname)) }

func (m *mobile) GetFloatv(dst []float32, pname Enum) { m.ctx.GetFloatv(dst, gl.Enum(pname)) }

func (m *mobile) GetProgrami(p Program, pname Enum) int {
	return m.ctx.GetProgrami(program(p), gl.Enum(pname))
}

func (m *mobile) GetProgramInfoLog(p Program) string { return m.ctx.GetProgramInfoLog(program(p)) }

func (m *mobile) GetShaderi(s Shader, pname Enum) int {
	return m.ctx.GetShaderi(gl.Shader{Value: uint32(s)}, gl.Enum(pname))
}

func (m *mobile) GetShaderInfoLog(s Shader) string {
	return m.ctx.GetShaderInfoLog(gl.Shader{Value: uint32(s)})
}

func (m *mobile) GetUniformLocation(p Program, name string) Uniform {
	return Uniform(m.ctx.GetUniformLocation(program(p), name).Value)
}

func (m *mobile) IsEnabled(capability Enum) bool { return m.ctx.IsEnabled(gl.Enum(capability)) }
func (m *mobile) LinkProgram(p Program)          { m.ctx.LinkProgram(program(p)) }

func (m *mobile) Scissor(x, y, width, height int) {
	m.ctx.Scissor(int32(x), int32(y), int32(width), int32(height))
}

func (m *mobile) ShaderSource(s Shader, src string) {
	m.ctx.ShaderSource(gl.Shader{Value: uint32(s)}, src)
}

func (m *mobile) TexImage2D(target Enum, level int, internalFormat int, width, height int, format Enum, ty Enum, data []byte) {
	m.ctx.TexImage2D(gl.Enum(target), level, internalFormat, width, height, gl.Enum(format), gl.Enum(ty), data)
}

func (m *mobile) TexParameteri(target, pname Enum, param int) {
	m.ctx.TexParameteri(gl.Enum(target), gl.Enum(pname), param)
}

func (m *mobile) Uniform1f(dst Uniform, v float32) { m.ctx.Uniform1f(gl.Uniform{Value: int32(dst)}, v) }
func (m *mobile) Uniform1i(dst Uniform, v int)     { m.ctx.Uniform1i(gl.Uniform{Value: int32(dst)}, v) }

func (m *mobile) UniformMatrix4fv(dst Uniform, src []float32) {
	m.ctx.UniformMatrix4fv(gl.Uniform{Value: int32(dst)}, src)
}

func (m *mobile) UseProgram(p Program) { m.ctx.UseProgram(program(p)) }

func (m *mobile) VertexAttribPointer(dst Attrib, size int, ty Enum, normalized bool, stride, offset int) {
	m.ctx.VertexAttribPointer(gl.Attrib{Value: uint(dst)}, size, gl.Enum(ty), normalized, stride, offset)
}

func (m *mobile) Viewport(x, y, width, height int) { m.ctx.Viewport(x, y, width, height) }

// program converts a raw name, including 0, into an x/mobile program value.
func program(p Program) gl.Program {
	return gl.Program{Init: true, Value: uint32(p)}
}
