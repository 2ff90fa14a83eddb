// This file is part of the program "blurhook".
// Please see the LICENSE file for copyright information.

package main

import (
	"time"

	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"

	"blurhook/internal/logging"
)

// fixWindowClass waits for the settings window to be mapped and gives it a
// WM_CLASS so taskbars group and label it.
func fixWindowClass() {
	log := logging.L("x11")
	xu, err := xgbutil.NewConn()
	if err != nil {
		log.Warn("couldn't connect to X server", logging.KeyError, err)
		return
	}
	defer xu.Conn().Close()

	for i := 0; i < 100; i++ {
		wnds, _ := ewmh.ClientListGet(xu)
		for _, w := range wnds {
			n, _ := ewmh.WmNameGet(xu, w)
			if n != appName {
				continue
			}
			// WmClassGet errors when the window has no WM_CLASS at all,
			// which is the only case worth fixing.
			if _, err := icccm.WmClassGet(xu, w); err == nil {
				return
			}
			class := icccm.WmClass{Class: appName, Instance: appName}
			if err := icccm.WmClassSet(xu, w, &class); err != nil {
				log.Warn("couldn't set WM_CLASS", logging.KeyError, err)
			}
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}
