// This file is part of the program "blurhook".
// Please see the LICENSE file for copyright information.

package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/aarzilli/nucular"
	"github.com/aarzilli/nucular/label"

	"blurhook/internal/config"
	"blurhook/internal/logging"
	"blurhook/internal/overlay"
)

type uistate struct {
	config *config.Config
	path   string
	params overlay.Params
	views  *ViewStack

	saver *config.Saver
}

func newUIState(conf *config.Config, path string) *uistate {
	ui := &uistate{
		config: conf,
		path:   path,
		params: overlay.ParamsFrom(conf.Effect),
		views:  NewViewStack(settingsView),
	}
	ui.saver = config.FileSaver(path, logging.L("ui"))
	return ui
}

// changed copies the panel values into the config and writes it in the
// background.
func (ui *uistate) changed() {
	ui.config.Effect = ui.params.Effect()
	ui.saver.Save(*ui.config)
}

func updatefn(w *nucular.Window, ui *uistate) {
	ui.views.Peek()(w, ui)
}

func settingsView(w *nucular.Window, ui *uistate) {
	w.MenubarBegin()
	w.Row(10).Dynamic(1)
	if w := w.Menu(label.TA("About", "LC"), 120, nil); w != nil {
		w.Row(10).Dynamic(1)
		if w.MenuItem(label.T("Version")) {
			ui.views.Push(versionView)
		}
	}
	w.MenubarEnd()

	w.Row(15).Dynamic(1)
	if ui.params.Enabled {
		w.LabelColored("Motion blur enabled on start", "RC", color.RGBA{34, 187, 69, 255} /*green*/)
	} else {
		w.LabelColored("Motion blur disabled on start", "RC", color.RGBA{255, 70, 70, 255} /*red*/)
	}

	if w.TreePush(nucular.TreeTab, ui.config.Overlay.Title, true) {
		if overlay.DrawPanel(nuWidgets{w}, &ui.params) {
			ui.changed()
		}
		w.TreePop()
	}

	if w.TreePush(nucular.TreeTab, "Startup", false) {
		w.Row(25).Ratio(0.5, 0.35, 0.15)
		w.Label("Hook delay", "LC")
		delay := int(ui.config.Hooks.StartupDelay.Duration / time.Second)
		if w.SliderInt(0, &delay, 30, 1) {
			ui.config.Hooks.StartupDelay.Duration = time.Duration(delay) * time.Second
			ui.changed()
		}
		w.Label(fmt.Sprintf("%ds", delay), "RC")

		w.Row(25).Dynamic(1)
		if w.CheckboxText("Remember overlay changes", &ui.config.Overlay.Persist) {
			ui.changed()
		}
		w.TreePop()
	}

	if w.TreePush(nucular.TreeTab, "Hooks", false) {
		hooks := ui.config.Hooks
		for _, kv := range [][2]string{
			{"Trampoline", hooks.TrampolineLibrary},
			{"Present", symbolName(hooks.EGLLibrary, hooks.PresentSymbol)},
			{"Consume", symbolName(hooks.InputLibrary, hooks.ConsumeSymbol)},
			{"Deliver", symbolName(hooks.InputLibrary, hooks.DeliverSymbol)},
		} {
			w.Row(15).Ratio(0.25, 0.75)
			w.Label(kv[0], "LC")
			w.Label(kv[1], "LC")
		}
		w.TreePop()
	}
}

func symbolName(module, symbol string) string {
	if symbol == "" {
		return "(not hooked)"
	}
	return module + "!" + symbol
}

func versionView(w *nucular.Window, ui *uistate) {
	w.Row(50).Dynamic(1)
	w.Label("Version", "CB")
	w.Row(50).Dynamic(1)
	w.Label(version, "CB")
	w.Row(50).Dynamic(1)
	w.Label(ui.path, "CB")
	w.Row(20).Dynamic(2)
	w.Spacing(1)
	if w.ButtonText("OK") {
		ui.views.Pop()
	}
}
