package swap

import (
	"log/slog"

	"blurhook/internal/blur"
	"blurhook/internal/gles"
	"blurhook/internal/glstate"
	"blurhook/internal/logging"
	"blurhook/internal/overlay"
)

// Pipeline is the Frame that runs the blur pass and then the overlay, with
// the host's GL state saved around both.
type Pipeline struct {
	gl      gles.Context
	effect  *blur.Compositor
	overlay *overlay.Layer
	guard   glstate.Options
	log     *slog.Logger
	lastErr string
}

func NewPipeline(gl gles.Context, effect *blur.Compositor, layer *overlay.Layer) *Pipeline {
	return &Pipeline{
		gl:      gl,
		effect:  effect,
		overlay: layer,
		log:     logging.L("pipeline"),
	}
}

func (p *Pipeline) Lock(_ Surface, clientVersion int) {
	gles3 := clientVersion >= 3
	p.guard.TrackVertexArray = gles3
	p.effect.SetOptions(blur.Options{VertexArrays: gles3})
}

func (p *Pipeline) Setup(width, height int) error {
	return p.overlay.Setup(width, height)
}

func (p *Pipeline) Render(width, height int) {
	glstate.Guard(p.gl, p.guard, func() {
		// Attribute setup below must not land in the host's vertex array.
		if p.guard.TrackVertexArray {
			p.gl.BindVertexArray(0)
		}
		params := p.overlay.Params()
		if params.Enabled {
			if err := p.effect.Apply(width, height, params.Strength); err != nil {
				if msg := err.Error(); msg != p.lastErr {
					p.log.Error("blur pass skipped", logging.KeyError, err)
					p.lastErr = msg
				}
			}
		}
		p.overlay.Draw(width, height)
	})
}
