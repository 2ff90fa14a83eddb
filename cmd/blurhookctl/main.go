// This file is part of the program "blurhook".
// Please see the LICENSE file for copyright information.

// Command blurhookctl edits the blurhook settings file, either from the
// command line or in a small settings window.
package main

import (
	"fmt"
	"image"
	"os"

	"github.com/aarzilli/nucular"
	"github.com/aarzilli/nucular/font"
	"github.com/aarzilli/nucular/style"

	"blurhook/internal/config"
	"blurhook/internal/logging"
)

var appName = "blurhook"

var version = "unknown" // will be changed by build

func main() {
	opt, err := parseCLIOpts(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if opt.doLog {
		logging.Init("text", "debug", os.Stdout)
	} else {
		logging.Discard()
	}
	log := logging.L("main")
	log.Info("application starting", "version", version)

	path := opt.configPath
	if path == "" {
		path = config.Path()
	}
	if err := config.InitializeIfNot(path); err != nil {
		fmt.Fprintf(os.Stderr, "Couldn't initialize config: %v\n", err)
		os.Exit(1)
	}
	conf, err := config.Read(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Couldn't read config: %v\n", err)
		os.Exit(1)
	}

	if opt.headless() {
		os.Exit(doCLI(opt, &conf, path, os.Stdout, os.Stderr))
	}

	ui := newUIState(&conf, path)
	wnd := nucular.NewMasterWindowSize(0, appName, image.Point{420, 320}, func(w *nucular.Window) {
		updatefn(w, ui)
	})

	style := style.FromTheme(style.DarkTheme, 2.0)
	style.Font = font.DefaultFont(16, 1)
	wnd.SetStyle(style)

	go fixWindowClass()
	wnd.Main()
	ui.saver.Flush()
}
