// Package blur implements the temporal motion blur applied to presented
// frames.
//
// Every frame the default framebuffer is copied into a capture texture and
// blended with the previous output, which lives in one of two history
// textures. The blend result is written to the other history texture and
// drawn back to the screen; the two textures then trade roles.
package blur

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"golang.org/x/mobile/exp/f32"

	"blurhook/internal/gles"
	"blurhook/internal/logging"
)

var (
	ErrShaderCompile = gles.ErrShaderCompile
	ErrProgramLink   = gles.ErrProgramLink
)

// PingPong is the index of the history texture written this frame.
type PingPong int

func (p PingPong) Curr() int { return int(p) }
func (p PingPong) Prev() int { return 1 - int(p) }

// Swap returns the index for the next frame.
func (p PingPong) Swap() PingPong { return PingPong(p.Prev()) }

// Resources are the per-resolution GL objects.
type Resources struct {
	Width, Height int
	Capture       gles.Texture
	History       [2]gles.Texture
	Framebuffers  [2]gles.Framebuffer
	Index         PingPong
	FirstFrame    bool
}

type program struct {
	id       gles.Program
	position gles.Attrib
	texCoord gles.Attrib

	// draw
	texture gles.Uniform
	// blend
	current, history, factor gles.Uniform
}

// Options tune how the compositor shares state with the host.
type Options struct {
	// VertexArrays binds the default vertex array object while drawing so a
	// GLES 3 host's own vertex arrays are not modified.
	VertexArrays bool
}

// Compositor applies the effect. It is not safe for concurrent use; all calls
// must come from the thread that owns the GL context.
type Compositor struct {
	gl   gles.Context
	opts Options
	log  *slog.Logger

	blend, draw *program
	vbo, ibo    gles.Buffer
	res         *Resources
	frames      uint64
}

func New(gl gles.Context, opts Options) *Compositor {
	return &Compositor{
		gl:   gl,
		opts: opts,
		log:  logging.L("blur"),
	}
}

// SetOptions changes the options for the following frames.
func (c *Compositor) SetOptions(opts Options) { c.opts = opts }

// Stats describes the compositor for status displays.
type Stats struct {
	Ready         bool
	Width, Height int
	Index         int
	Frames        uint64
}

func (c *Compositor) Stats() Stats {
	s := Stats{Frames: c.frames}
	if c.res != nil {
		s.Ready = true
		s.Width, s.Height = c.res.Width, c.res.Height
		s.Index = c.res.Index.Curr()
	}
	return s
}

// Apply blurs the default framebuffer of a width×height surface in place.
// strength is the weight of the history, 0 disables the trail.
//
// If the programs cannot be built the error is returned and nothing is drawn;
// the next call tries again.
func (c *Compositor) Apply(width, height int, strength float32) error {
	if err := c.ensurePrograms(); err != nil {
		return err
	}
	if c.res == nil || c.res.Width != width || c.res.Height != height {
		c.resize(width, height)
	}
	gl := c.gl
	res := c.res

	gl.Disable(gles.SCISSOR_TEST)
	gl.Disable(gles.DEPTH_TEST)
	gl.Disable(gles.BLEND)
	if c.opts.VertexArrays {
		gl.BindVertexArray(0)
	}

	gl.BindFramebuffer(gles.FRAMEBUFFER, 0)
	gl.ActiveTexture(gles.TEXTURE0)
	gl.BindTexture(gles.TEXTURE_2D, res.Capture)
	gl.CopyTexSubImage2D(gles.TEXTURE_2D, 0, 0, 0, 0, 0, width, height)

	curr, prev := res.Index.Curr(), res.Index.Prev()
	gl.BindFramebuffer(gles.FRAMEBUFFER, res.Framebuffers[curr])
	gl.Viewport(0, 0, width, height)
	if res.FirstFrame {
		c.drawTexture(res.Capture)
		res.FirstFrame = false
	} else {
		p := c.blend
		gl.UseProgram(p.id)
		gl.ActiveTexture(gles.TEXTURE0)
		gl.BindTexture(gles.TEXTURE_2D, res.Capture)
		gl.Uniform1i(p.current, 0)
		gl.ActiveTexture(gles.TEXTURE1)
		gl.BindTexture(gles.TEXTURE_2D, res.History[prev])
		gl.Uniform1i(p.history, 1)
		gl.Uniform1f(p.factor, strength)
		c.drawQuad(p)
		gl.ActiveTexture(gles.TEXTURE0)
	}

	gl.BindFramebuffer(gles.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, width, height)
	gl.Clear(gles.COLOR_BUFFER_BIT | gles.DEPTH_BUFFER_BIT)
	c.drawTexture(res.History[curr])

	res.Index = res.Index.Swap()
	c.frames++
	return nil
}

// drawTexture draws t over the bound framebuffer with the pass-through
// program.
func (c *Compositor) drawTexture(t gles.Texture) {
	p := c.draw
	c.gl.UseProgram(p.id)
	c.gl.ActiveTexture(gles.TEXTURE0)
	c.gl.BindTexture(gles.TEXTURE_2D, t)
	c.gl.Uniform1i(p.texture, 0)
	c.drawQuad(p)
}

func (c *Compositor) drawQuad(p *program) {
	gl := c.gl
	gl.BindBuffer(gles.ARRAY_BUFFER, c.vbo)
	gl.BindBuffer(gles.ELEMENT_ARRAY_BUFFER, c.ibo)
	if p.position.Valid() {
		gl.EnableVertexAttribArray(p.position)
		gl.VertexAttribPointer(p.position, 2, gles.FLOAT, false, vertexStride, 0)
	}
	if p.texCoord.Valid() {
		gl.EnableVertexAttribArray(p.texCoord)
		gl.VertexAttribPointer(p.texCoord, 2, gles.FLOAT, false, vertexStride, texCoordOffset)
	}
	gl.DrawElements(gles.TRIANGLES, len(quadIndices), gles.UNSIGNED_SHORT, 0)
}

func (c *Compositor) ensurePrograms() error {
	if c.blend != nil {
		return nil
	}
	gl := c.gl

	blendID, err := gles.BuildProgram(gl, vertexShader, blendShader)
	if err != nil {
		return fmt.Errorf("blend program: %w", err)
	}
	drawID, err := gles.BuildProgram(gl, vertexShader, drawShader)
	if err != nil {
		gl.DeleteProgram(blendID)
		return fmt.Errorf("draw program: %w", err)
	}

	c.blend = &program{
		id:       blendID,
		position: gl.GetAttribLocation(blendID, "aPosition"),
		texCoord: gl.GetAttribLocation(blendID, "aTexCoord"),
		current:  gl.GetUniformLocation(blendID, "uCurrentFrame"),
		history:  gl.GetUniformLocation(blendID, "uHistoryFrame"),
		factor:   gl.GetUniformLocation(blendID, "uBlendFactor"),
		texture:  -1,
	}
	c.draw = &program{
		id:       drawID,
		position: gl.GetAttribLocation(drawID, "aPosition"),
		texCoord: gl.GetAttribLocation(drawID, "aTexCoord"),
		texture:  gl.GetUniformLocation(drawID, "uTexture"),
		current:  -1,
		history:  -1,
		factor:   -1,
	}

	c.vbo = gl.CreateBuffer()
	gl.BindBuffer(gles.ARRAY_BUFFER, c.vbo)
	gl.BufferData(gles.ARRAY_BUFFER, f32.Bytes(binary.LittleEndian, quadVertices...), gles.STATIC_DRAW)

	indices := make([]byte, 2*len(quadIndices))
	for i, v := range quadIndices {
		binary.LittleEndian.PutUint16(indices[2*i:], v)
	}
	c.ibo = gl.CreateBuffer()
	gl.BindBuffer(gles.ELEMENT_ARRAY_BUFFER, c.ibo)
	gl.BufferData(gles.ELEMENT_ARRAY_BUFFER, indices, gles.STATIC_DRAW)

	c.log.Info("programs ready")
	return nil
}

// resize drops the per-resolution objects and starts a new history.
func (c *Compositor) resize(width, height int) {
	gl := c.gl
	c.releaseResources()

	res := &Resources{Width: width, Height: height, FirstFrame: true}
	res.Capture = c.newTexture(width, height)
	for i := range res.History {
		res.History[i] = c.newTexture(width, height)
		res.Framebuffers[i] = gl.CreateFramebuffer()
		gl.BindFramebuffer(gles.FRAMEBUFFER, res.Framebuffers[i])
		gl.FramebufferTexture2D(gles.FRAMEBUFFER, gles.COLOR_ATTACHMENT0, gles.TEXTURE_2D, res.History[i], 0)
		if status := gl.CheckFramebufferStatus(gles.FRAMEBUFFER); status != gles.FRAMEBUFFER_COMPLETE {
			c.log.Warn("history framebuffer incomplete", "index", i, "status", fmt.Sprintf("%#x", status))
		}
		gl.ClearColor(0, 0, 0, 1)
		gl.Clear(gles.COLOR_BUFFER_BIT)
	}
	gl.BindFramebuffer(gles.FRAMEBUFFER, 0)
	gl.BindTexture(gles.TEXTURE_2D, 0)

	c.res = res
	c.log.Info("resources allocated", "width", width, "height", height)
}

func (c *Compositor) newTexture(width, height int) gles.Texture {
	gl := c.gl
	t := gl.CreateTexture()
	gl.ActiveTexture(gles.TEXTURE0)
	gl.BindTexture(gles.TEXTURE_2D, t)
	gl.TexImage2D(gles.TEXTURE_2D, 0, int(gles.RGBA), width, height, gles.RGBA, gles.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gles.TEXTURE_2D, gles.TEXTURE_MIN_FILTER, int(gles.LINEAR))
	gl.TexParameteri(gles.TEXTURE_2D, gles.TEXTURE_MAG_FILTER, int(gles.LINEAR))
	gl.TexParameteri(gles.TEXTURE_2D, gles.TEXTURE_WRAP_S, int(gles.CLAMP_TO_EDGE))
	gl.TexParameteri(gles.TEXTURE_2D, gles.TEXTURE_WRAP_T, int(gles.CLAMP_TO_EDGE))
	return t
}

func (c *Compositor) releaseResources() {
	if c.res == nil {
		return
	}
	gl := c.gl
	gl.DeleteTexture(c.res.Capture)
	for i := range c.res.History {
		gl.DeleteTexture(c.res.History[i])
		gl.DeleteFramebuffer(c.res.Framebuffers[i])
	}
	c.res = nil
}

// Release deletes every GL object the compositor created. The compositor can
// be used again afterwards and recreates what it needs.
func (c *Compositor) Release() {
	c.releaseResources()
	if c.blend == nil {
		return
	}
	gl := c.gl
	gl.DeleteProgram(c.blend.id)
	gl.DeleteProgram(c.draw.id)
	gl.DeleteBuffer(c.vbo)
	gl.DeleteBuffer(c.ibo)
	c.blend, c.draw = nil, nil
	c.vbo, c.ibo = 0, 0
}
