// This file is part of the program "blurhook".
// Please see the LICENSE file for copyright information.

//go:build android

package main

import (
	"context"
	"os"

	"github.com/ebitengine/purego"

	"blurhook/internal/bootstrap"
	"blurhook/internal/config"
	"blurhook/internal/egl"
	"blurhook/internal/gles"
	"blurhook/internal/hook"
	"blurhook/internal/logging"
	"blurhook/internal/overlay/imguiui"
)

const logTag = "blurhook"

func init() {
	go inject()
}

// inject runs on its own goroutine so the host's dlopen returns at once.
// Nothing here may exit the process.
func inject() {
	log := logging.L("main")
	defer func() {
		if r := recover(); r != nil {
			log.Error("injection aborted", "panic", r)
		}
	}()

	path := config.Path()
	conf := config.Load(path)
	logging.Init(conf.Log.Format, conf.Log.Level, os.Stderr)
	if h, err := logging.OpenLogcat(logTag, logging.ParseLevel(conf.Log.Level)); err == nil {
		logging.Use(h)
	} else {
		log.Warn("logcat unavailable, logging to stderr", logging.KeyError, err)
	}
	log.Info("blurhook loaded", "config", path, "effect", conf.Effect)

	display, err := egl.Open(conf.Hooks.EGLLibrary)
	if err != nil {
		log.Error("couldn't open EGL, not hooking", logging.KeyError, err, logging.KeyModule, conf.Hooks.EGLLibrary)
		return
	}
	gl, pump := gles.NewMobile()

	reader, err := imguiui.NewEventReader()
	if err != nil {
		log.Warn("touch input disabled", logging.KeyError, err)
		reader = nil
	}
	ui := imguiui.New(gl, reader)

	rt := bootstrap.NewRuntime(conf, path, gl, pump, display, ui)
	b := rt.Bootstrap(hook.NewDL(), func() (hook.Installer, error) {
		g, err := hook.OpenGloss(conf.Hooks.TrampolineLibrary)
		if err != nil {
			return nil, err
		}
		return g, nil
	}, bootstrap.Callbacks{
		Present: func() uintptr { return purego.NewCallback(rt.Swap.Present) },
		Consume: func() uintptr { return purego.NewCallback(rt.Input.OnConsume) },
		Deliver: func() uintptr { return purego.NewCallback(rt.Input.OnDeliver) },
	})
	b.Start(context.Background())
}
