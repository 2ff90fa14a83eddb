// Package gltest provides a software GL ES context for tests.
//
// SoftGL tracks the binding state the injected passes save and restore and
// rasterizes full-screen quads for the two compositing programs: a program
// whose fragment shader samples uHistoryFrame blends, any other program that
// samples uTexture copies. Each pixel is a float RGBA value; a texture and a
// framebuffer attachment are the same size as the default framebuffer in
// every test, so sampling is nearest and 1:1.
package gltest

import (
	"strings"

	"blurhook/internal/gles"
)

// Pixel is an RGBA color with components in [0, 1].
type Pixel [4]float32

type texture struct {
	w, h int
	pix  []Pixel
}

type shader struct {
	ty       gles.Enum
	src      string
	compiled bool
}

type program struct {
	shaders  []gles.Shader
	linked   bool
	vertex   string
	frag     string
	names    map[string]int32
	uniforms map[gles.Uniform]float32
}

// SoftGL implements gles.Context in memory.
type SoftGL struct {
	// FailCompile makes every shader fail to compile.
	FailCompile bool
	// FailLink makes every program fail to link.
	FailLink bool

	// Calls records the name of every method invoked, in order.
	Calls []string

	width, height int
	defaultFB     []Pixel

	nextID       uint32
	textures     map[gles.Texture]*texture
	framebuffers map[gles.Framebuffer]gles.Texture
	buffers      map[gles.Buffer][]byte
	shaders      map[gles.Shader]*shader
	programs     map[gles.Program]*program

	currentProgram gles.Program
	activeUnit     int
	units          [8]gles.Texture
	arrayBuffer    gles.Buffer
	elementBuffer  gles.Buffer
	framebuffer    gles.Framebuffer
	vertexArray    gles.VertexArray
	viewport       [4]int32
	scissor        [4]int32
	enabled        map[gles.Enum]bool
	clearColor     Pixel
	blendEquation  [2]gles.Enum
	blendFunc      [4]gles.Enum
	attribs        map[gles.Attrib]bool
	attribWrites   map[gles.VertexArray]int
}

var _ gles.Context = (*SoftGL)(nil)

// New returns a context whose default framebuffer is width×height opaque black.
func New(width, height int) *SoftGL {
	g := &SoftGL{
		textures:      map[gles.Texture]*texture{},
		framebuffers:  map[gles.Framebuffer]gles.Texture{},
		buffers:       map[gles.Buffer][]byte{},
		shaders:       map[gles.Shader]*shader{},
		programs:      map[gles.Program]*program{},
		enabled:       map[gles.Enum]bool{},
		attribs:       map[gles.Attrib]bool{},
		attribWrites:  map[gles.VertexArray]int{},
		blendEquation: [2]gles.Enum{gles.FUNC_ADD, gles.FUNC_ADD},
		blendFunc:     [4]gles.Enum{gles.ONE, gles.ZERO, gles.ONE, gles.ZERO},
	}
	g.Resize(width, height)
	return g
}

// Resize replaces the default framebuffer, as a host window resize would.
func (g *SoftGL) Resize(width, height int) {
	g.width, g.height = width, height
	g.defaultFB = make([]Pixel, width*height)
	for i := range g.defaultFB {
		g.defaultFB[i] = Pixel{0, 0, 0, 1}
	}
	g.viewport = [4]int32{0, 0, int32(width), int32(height)}
	g.scissor = g.viewport
}

// Fill paints the whole default framebuffer, standing in for a host frame.
func (g *SoftGL) Fill(p Pixel) {
	for i := range g.defaultFB {
		g.defaultFB[i] = p
	}
}

// SetPixel paints one pixel of the default framebuffer.
func (g *SoftGL) SetPixel(x, y int, p Pixel) {
	g.defaultFB[y*g.width+x] = p
}

// At returns one pixel of the default framebuffer.
func (g *SoftGL) At(x, y int) Pixel {
	return g.defaultFB[y*g.width+x]
}

// LiveTextures returns the number of textures not yet deleted.
func (g *SoftGL) LiveTextures() int { return len(g.textures) }

// LiveFramebuffers returns the number of framebuffers not yet deleted.
func (g *SoftGL) LiveFramebuffers() int { return len(g.framebuffers) }

// LivePrograms returns the number of programs not yet deleted.
func (g *SoftGL) LivePrograms() int { return len(g.programs) }

// Count returns how many times the named method was called.
func (g *SoftGL) Count(name string) int {
	n := 0
	for _, c := range g.Calls {
		if c == name {
			n++
		}
	}
	return n
}

// AttribWrites returns how many vertex attribute calls were made while va
// was bound.
func (g *SoftGL) AttribWrites(va gles.VertexArray) int { return g.attribWrites[va] }

// ResetCalls clears the call log.
func (g *SoftGL) ResetCalls() { g.Calls = g.Calls[:0] }

func (g *SoftGL) record(name string) { g.Calls = append(g.Calls, name) }

func (g *SoftGL) id() uint32 {
	g.nextID++
	return g.nextID
}

func (g *SoftGL) ActiveTexture(t gles.Enum) {
	g.record("ActiveTexture")
	g.activeUnit = int(t - gles.TEXTURE0)
}

func (g *SoftGL) AttachShader(p gles.Program, s gles.Shader) {
	g.record("AttachShader")
	if pr := g.programs[p]; pr != nil {
		pr.shaders = append(pr.shaders, s)
	}
}

func (g *SoftGL) BindBuffer(target gles.Enum, b gles.Buffer) {
	g.record("BindBuffer")
	switch target {
	case gles.ARRAY_BUFFER:
		g.arrayBuffer = b
	case gles.ELEMENT_ARRAY_BUFFER:
		g.elementBuffer = b
	}
}

func (g *SoftGL) BindFramebuffer(_ gles.Enum, fb gles.Framebuffer) {
	g.record("BindFramebuffer")
	g.framebuffer = fb
}

func (g *SoftGL) BindTexture(_ gles.Enum, t gles.Texture) {
	g.record("BindTexture")
	g.units[g.activeUnit] = t
}

func (g *SoftGL) BindVertexArray(va gles.VertexArray) {
	g.record("BindVertexArray")
	g.vertexArray = va
}

func (g *SoftGL) BlendEquationSeparate(modeRGB, modeAlpha gles.Enum) {
	g.record("BlendEquationSeparate")
	g.blendEquation = [2]gles.Enum{modeRGB, modeAlpha}
}

func (g *SoftGL) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha gles.Enum) {
	g.record("BlendFuncSeparate")
	g.blendFunc = [4]gles.Enum{srcRGB, dstRGB, srcAlpha, dstAlpha}
}

func (g *SoftGL) BufferData(target gles.Enum, src []byte, _ gles.Enum) {
	g.record("BufferData")
	b := g.arrayBuffer
	if target == gles.ELEMENT_ARRAY_BUFFER {
		b = g.elementBuffer
	}
	g.buffers[b] = append([]byte(nil), src...)
}

func (g *SoftGL) CheckFramebufferStatus(gles.Enum) gles.Enum {
	g.record("CheckFramebufferStatus")
	return gles.FRAMEBUFFER_COMPLETE
}

func (g *SoftGL) Clear(mask gles.Enum) {
	g.record("Clear")
	if mask&gles.COLOR_BUFFER_BIT == 0 {
		return
	}
	pix, _, _ := g.target()
	for i := range pix {
		pix[i] = g.clearColor
	}
}

func (g *SoftGL) ClearColor(r, gr, b, a float32) {
	g.record("ClearColor")
	g.clearColor = Pixel{r, gr, b, a}
}

func (g *SoftGL) CompileShader(s gles.Shader) {
	g.record("CompileShader")
	if sh := g.shaders[s]; sh != nil {
		sh.compiled = !g.FailCompile
	}
}

func (g *SoftGL) CopyTexSubImage2D(_ gles.Enum, _, xoffset, yoffset, x, y, width, height int) {
	g.record("CopyTexSubImage2D")
	dst := g.textures[g.units[g.activeUnit]]
	if dst == nil {
		return
	}
	src, sw, sh := g.target()
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			sx, sy := x+i, y+j
			dx, dy := xoffset+i, yoffset+j
			if sx >= sw || sy >= sh || dx >= dst.w || dy >= dst.h {
				continue
			}
			dst.pix[dy*dst.w+dx] = src[sy*sw+sx]
		}
	}
}

func (g *SoftGL) CreateBuffer() gles.Buffer {
	g.record("CreateBuffer")
	b := gles.Buffer(g.id())
	g.buffers[b] = nil
	return b
}

func (g *SoftGL) CreateFramebuffer() gles.Framebuffer {
	g.record("CreateFramebuffer")
	fb := gles.Framebuffer(g.id())
	g.framebuffers[fb] = 0
	return fb
}

func (g *SoftGL) CreateProgram() gles.Program {
	g.record("CreateProgram")
	p := gles.Program(g.id())
	g.programs[p] = &program{names: map[string]int32{}, uniforms: map[gles.Uniform]float32{}}
	return p
}

func (g *SoftGL) CreateShader(ty gles.Enum) gles.Shader {
	g.record("CreateShader")
	s := gles.Shader(g.id())
	g.shaders[s] = &shader{ty: ty}
	return s
}

func (g *SoftGL) CreateTexture() gles.Texture {
	g.record("CreateTexture")
	t := gles.Texture(g.id())
	g.textures[t] = &texture{}
	return t
}

func (g *SoftGL) DeleteBuffer(b gles.Buffer) {
	g.record("DeleteBuffer")
	delete(g.buffers, b)
}

func (g *SoftGL) DeleteFramebuffer(fb gles.Framebuffer) {
	g.record("DeleteFramebuffer")
	delete(g.framebuffers, fb)
	if g.framebuffer == fb {
		g.framebuffer = 0
	}
}

func (g *SoftGL) DeleteProgram(p gles.Program) {
	g.record("DeleteProgram")
	delete(g.programs, p)
}

func (g *SoftGL) DeleteShader(s gles.Shader) {
	g.record("DeleteShader")
	delete(g.shaders, s)
}

func (g *SoftGL) DeleteTexture(t gles.Texture) {
	g.record("DeleteTexture")
	delete(g.textures, t)
	for i := range g.units {
		if g.units[i] == t {
			g.units[i] = 0
		}
	}
}

func (g *SoftGL) Disable(c gles.Enum) {
	g.record("Disable")
	g.enabled[c] = false
}

func (g *SoftGL) Enable(c gles.Enum) {
	g.record("Enable")
	g.enabled[c] = true
}

func (g *SoftGL) EnableVertexAttribArray(a gles.Attrib) {
	g.record("EnableVertexAttribArray")
	g.attribs[a] = true
	g.attribWrites[g.vertexArray]++
}

// DrawElements rasterizes a full-screen quad with the current program.
func (g *SoftGL) DrawElements(gles.Enum, int, gles.Enum, int) {
	g.record("DrawElements")
	pr := g.programs[g.currentProgram]
	if pr == nil || !pr.linked {
		return
	}
	frag := pr.frag
	dst, dw, dh := g.target()
	sample := func(name string, x, y int) Pixel {
		unit := int(pr.uniforms[gles.Uniform(pr.names[name])])
		t := g.textures[g.units[unit]]
		if t == nil || x >= t.w || y >= t.h {
			return Pixel{}
		}
		return t.pix[y*t.w+x]
	}

	x0, y0 := int(g.viewport[0]), int(g.viewport[1])
	x1, y1 := min(x0+int(g.viewport[2]), dw), min(y0+int(g.viewport[3]), dh)
	for y := max(y0, 0); y < y1; y++ {
		for x := max(x0, 0); x < x1; x++ {
			var out Pixel
			switch {
			case strings.Contains(frag, "uHistoryFrame"):
				s := pr.uniforms[gles.Uniform(pr.names["uBlendFactor"])]
				cur := sample("uCurrentFrame", x, y)
				hist := sample("uHistoryFrame", x, y)
				for c := 0; c < 3; c++ {
					out[c] = cur[c]*(1-s) + hist[c]*s
				}
				out[3] = 1
			case strings.Contains(frag, "uTexture"):
				out = sample("uTexture", x, y)
				out[3] = 1
			default:
				continue
			}
			dst[y*dw+x] = out
		}
	}
}

func (g *SoftGL) FramebufferTexture2D(_, _, _ gles.Enum, t gles.Texture, _ int) {
	g.record("FramebufferTexture2D")
	if _, ok := g.framebuffers[g.framebuffer]; ok {
		g.framebuffers[g.framebuffer] = t
	}
}

func (g *SoftGL) GetAttribLocation(p gles.Program, name string) gles.Attrib {
	g.record("GetAttribLocation")
	return gles.Attrib(g.location(p, name))
}

func (g *SoftGL) GetError() gles.Enum {
	g.record("GetError")
	return gles.NO_ERROR
}

func (g *SoftGL) GetInteger(pname gles.Enum) int {
	g.record("GetInteger")
	switch pname {
	case gles.CURRENT_PROGRAM:
		return int(g.currentProgram)
	case gles.TEXTURE_BINDING_2D:
		return int(g.units[g.activeUnit])
	case gles.ACTIVE_TEXTURE:
		return int(gles.TEXTURE0) + g.activeUnit
	case gles.ARRAY_BUFFER_BINDING:
		return int(g.arrayBuffer)
	case gles.ELEMENT_ARRAY_BUFFER_BINDING:
		return int(g.elementBuffer)
	case gles.FRAMEBUFFER_BINDING:
		return int(g.framebuffer)
	case gles.VERTEX_ARRAY_BINDING:
		return int(g.vertexArray)
	case gles.BLEND_EQUATION_RGB:
		return int(g.blendEquation[0])
	case gles.BLEND_EQUATION_ALPHA:
		return int(g.blendEquation[1])
	case gles.BLEND_SRC_RGB:
		return int(g.blendFunc[0])
	case gles.BLEND_DST_RGB:
		return int(g.blendFunc[1])
	case gles.BLEND_SRC_ALPHA:
		return int(g.blendFunc[2])
	case gles.BLEND_DST_ALPHA:
		return int(g.blendFunc[3])
	}
	return 0
}

func (g *SoftGL) GetIntegerv(dst []int32, pname gles.Enum) {
	g.record("GetIntegerv")
	switch pname {
	case gles.VIEWPORT:
		copy(dst, g.viewport[:])
		return
	case gles.SCISSOR_BOX:
		copy(dst, g.scissor[:])
		return
	}
	if len(dst) > 0 {
		dst[0] = int32(g.GetInteger(pname))
	}
}

func (g *SoftGL) GetFloatv(dst []float32, pname gles.Enum) {
	g.record("GetFloatv")
	if pname == gles.COLOR_CLEAR_VALUE {
		copy(dst, g.clearColor[:])
	}
}

func (g *SoftGL) GetProgrami(p gles.Program, pname gles.Enum) int {
	g.record("GetProgrami")
	if pr := g.programs[p]; pr != nil && pname == gles.LINK_STATUS && pr.linked {
		return int(gles.TRUE)
	}
	return int(gles.FALSE)
}

func (g *SoftGL) GetProgramInfoLog(gles.Program) string {
	g.record("GetProgramInfoLog")
	if g.FailLink {
		return "link failed"
	}
	return ""
}

func (g *SoftGL) GetShaderi(s gles.Shader, pname gles.Enum) int {
	g.record("GetShaderi")
	if sh := g.shaders[s]; sh != nil && pname == gles.COMPILE_STATUS && sh.compiled {
		return int(gles.TRUE)
	}
	return int(gles.FALSE)
}

func (g *SoftGL) GetShaderInfoLog(gles.Shader) string {
	g.record("GetShaderInfoLog")
	if g.FailCompile {
		return "compile failed"
	}
	return ""
}

func (g *SoftGL) GetUniformLocation(p gles.Program, name string) gles.Uniform {
	g.record("GetUniformLocation")
	return gles.Uniform(g.location(p, name))
}

// location hands out stable per-program locations for names that occur in
// the program's sources, and -1 for anything else.
func (g *SoftGL) location(p gles.Program, name string) int32 {
	pr := g.programs[p]
	if pr == nil || !pr.linked || !strings.Contains(pr.vertex+pr.frag, name) {
		return -1
	}
	if loc, ok := pr.names[name]; ok {
		return loc
	}
	loc := int32(len(pr.names))
	pr.names[name] = loc
	return loc
}

func (g *SoftGL) IsEnabled(c gles.Enum) bool {
	g.record("IsEnabled")
	return g.enabled[c]
}

func (g *SoftGL) LinkProgram(p gles.Program) {
	g.record("LinkProgram")
	pr := g.programs[p]
	if pr == nil {
		return
	}
	pr.linked = !g.FailLink
	for _, s := range pr.shaders {
		sh := g.shaders[s]
		if sh == nil || !sh.compiled {
			pr.linked = false
			continue
		}
		if sh.ty == gles.FRAGMENT_SHADER {
			pr.frag = sh.src
		} else {
			pr.vertex = sh.src
		}
	}
}

func (g *SoftGL) Scissor(x, y, width, height int) {
	g.record("Scissor")
	g.scissor = [4]int32{int32(x), int32(y), int32(width), int32(height)}
}

func (g *SoftGL) ShaderSource(s gles.Shader, src string) {
	g.record("ShaderSource")
	if sh := g.shaders[s]; sh != nil {
		sh.src = src
	}
}

func (g *SoftGL) TexImage2D(_ gles.Enum, _ int, _ int, width, height int, _ gles.Enum, _ gles.Enum, _ []byte) {
	g.record("TexImage2D")
	if t := g.textures[g.units[g.activeUnit]]; t != nil {
		t.w, t.h = width, height
		t.pix = make([]Pixel, width*height)
	}
}

func (g *SoftGL) TexParameteri(gles.Enum, gles.Enum, int) { g.record("TexParameteri") }

func (g *SoftGL) Uniform1f(dst gles.Uniform, v float32) {
	g.record("Uniform1f")
	if pr := g.programs[g.currentProgram]; pr != nil {
		pr.uniforms[dst] = v
	}
}

func (g *SoftGL) Uniform1i(dst gles.Uniform, v int) {
	g.record("Uniform1i")
	if pr := g.programs[g.currentProgram]; pr != nil {
		pr.uniforms[dst] = float32(v)
	}
}

func (g *SoftGL) UniformMatrix4fv(gles.Uniform, []float32) { g.record("UniformMatrix4fv") }

func (g *SoftGL) UseProgram(p gles.Program) {
	g.record("UseProgram")
	g.currentProgram = p
}

func (g *SoftGL) VertexAttribPointer(gles.Attrib, int, gles.Enum, bool, int, int) {
	g.record("VertexAttribPointer")
	g.attribWrites[g.vertexArray]++
}

func (g *SoftGL) Viewport(x, y, width, height int) {
	g.record("Viewport")
	g.viewport = [4]int32{int32(x), int32(y), int32(width), int32(height)}
}

// target returns the color buffer of the bound framebuffer.
func (g *SoftGL) target() ([]Pixel, int, int) {
	if g.framebuffer == 0 {
		return g.defaultFB, g.width, g.height
	}
	if t := g.textures[g.framebuffers[g.framebuffer]]; t != nil {
		return t.pix, t.w, t.h
	}
	return nil, 0, 0
}

// TexturePixel returns one texel of t.
func (g *SoftGL) TexturePixel(t gles.Texture, x, y int) Pixel {
	tex := g.textures[t]
	return tex.pix[y*tex.w+x]
}
