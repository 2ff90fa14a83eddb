// This file is part of the program "blurhook".
// Please see the LICENSE file for copyright information.

package main

import (
	"github.com/aarzilli/nucular"
)

type ViewFunc func(w *nucular.Window, ui *uistate)

// ViewStack holds the screens of the settings window. The bottom view is
// never popped.
type ViewStack struct {
	items []ViewFunc
}

func NewViewStack(root ViewFunc) *ViewStack {
	return &ViewStack{[]ViewFunc{root}}
}

func (v *ViewStack) Push(f ViewFunc) {
	v.items = append(v.items, f)
}

func (v *ViewStack) Pop() (ViewFunc, bool) {
	if len(v.items) <= 1 {
		return nil, false
	}

	item := v.items[len(v.items)-1]

	// The last item gets removed
	v.items = v.items[:len(v.items)-1]

	return item, true
}

func (v *ViewStack) Peek() ViewFunc {
	return v.items[len(v.items)-1]
}

func (v *ViewStack) Len() int { return len(v.items) }
