// This file is part of the program "blurhook".
// Please see the LICENSE file for copyright information.

package main

import (
	"fmt"

	"github.com/aarzilli/nucular"

	"blurhook/internal/overlay"
)

// nuWidgets lays the overlay panel out in a nucular window, one widget per
// row. Hidden imgui-style labels ("##...") are not drawn.
type nuWidgets struct {
	w *nucular.Window
}

var _ overlay.Widgets = nuWidgets{}

func (n nuWidgets) Checkbox(label string, value *bool) bool {
	n.w.Row(25).Dynamic(1)
	return n.w.CheckboxText(label, value)
}

func (n nuWidgets) Spacing() {
	n.w.Row(10).Dynamic(1)
	n.w.Spacing(1)
}

func (n nuWidgets) Text(text string) {
	n.w.Row(20).Dynamic(1)
	n.w.Label(text, "LC")
}

func (n nuWidgets) SliderFloat(label string, value *float32, min, max float32, format string) bool {
	n.w.Row(25).Ratio(0.8, 0.2)
	v := float64(*value)
	changed := n.w.SliderFloat(float64(min), &v, float64(max), 0.01)
	if changed {
		*value = float32(v)
	}
	n.w.Label(fmt.Sprintf(format, *value), "RC")
	return changed
}
