// Package overlay draws the in-process settings panel and owns the effect
// parameters it edits.
package overlay

import "blurhook/internal/config"

// Labels of the panel widgets.
const (
	EnableLabel     = "Enable Motion Blur"
	StrengthCaption = "Blur Strength (Trail Length)"
	StrengthLabel   = "##Strength"
	StrengthFormat  = "%.2f"
)

// Params are the user-adjustable effect settings.
type Params struct {
	Enabled  bool
	Strength float32
}

// ParamsFrom returns the parameters stored in an effect config section.
func ParamsFrom(e config.Effect) Params {
	return Params{Enabled: e.Enabled, Strength: config.ClampStrength(e.Strength)}
}

// Effect returns p as a config section.
func (p Params) Effect() config.Effect {
	return config.Effect{Enabled: p.Enabled, Strength: p.Strength}
}

// Widgets is the handful of immediate-mode widgets the panel needs. Each
// returns true when the user changed the value this frame.
type Widgets interface {
	Checkbox(label string, value *bool) bool
	Spacing()
	Text(text string)
	SliderFloat(label string, value *float32, min, max float32, format string) bool
}

// DrawPanel lays out the panel contents and reports whether p changed.
func DrawPanel(w Widgets, p *Params) bool {
	changed := w.Checkbox(EnableLabel, &p.Enabled)
	if p.Enabled {
		w.Spacing()
		w.Text(StrengthCaption)
		if w.SliderFloat(StrengthLabel, &p.Strength, 0, config.MaxStrength, StrengthFormat) {
			changed = true
		}
	}
	p.Strength = config.ClampStrength(p.Strength)
	return changed
}
