// This file is part of the program "blurhook".
// Please see the LICENSE file for copyright information.

package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"blurhook/internal/config"
)

type CLIOpts struct {
	doLog      bool
	configPath string
	print      bool
	enable     bool
	disable    bool
	strength   float64
}

func parseCLIOpts(args []string) (CLIOpts, error) {
	var opt CLIOpts
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.BoolVar(&opt.doLog, "log", false, "Print debugging output to stdout")
	fs.StringVar(&opt.configPath, "c", "", "Use the specified config file instead of the default location")
	fs.BoolVar(&opt.print, "print", false, "Print the effective config and exit")
	fs.BoolVar(&opt.enable, "enable", false, "Enable motion blur on start")
	fs.BoolVar(&opt.disable, "disable", false, "Disable motion blur on start")
	fs.Float64Var(&opt.strength, "strength", -1, fmt.Sprintf("Blur strength, 0 to %.2f", config.MaxStrength))
	if err := fs.Parse(args); err != nil {
		return opt, err
	}
	if opt.enable && opt.disable {
		err := fmt.Errorf("-enable and -disable are mutually exclusive")
		fmt.Fprintln(fs.Output(), err)
		return opt, err
	}
	return opt, nil
}

// headless reports whether the options ask for a command line action
// instead of the settings window.
func (opt CLIOpts) headless() bool {
	return opt.print || opt.changes()
}

func (opt CLIOpts) changes() bool {
	return opt.enable || opt.disable || opt.strength >= 0
}

// apply writes the requested changes into conf and returns warnings for
// values that had to be adjusted.
func (opt CLIOpts) apply(conf *config.Config) []string {
	var warnings []string
	if opt.enable {
		conf.Effect.Enabled = true
	}
	if opt.disable {
		conf.Effect.Enabled = false
	}
	if opt.strength >= 0 {
		if opt.strength > config.MaxStrength {
			warnings = append(warnings, fmt.Sprintf("Strength of '%.2f' too high, setting to maximum of %.2f.", opt.strength, config.MaxStrength))
		}
		conf.Effect.Strength = config.ClampStrength(float32(opt.strength))
	}
	return warnings
}

// doCLI runs the command line actions and returns the exit code.
func doCLI(opt CLIOpts, conf *config.Config, path string, stdout, stderr io.Writer) int {
	if opt.changes() {
		for _, w := range opt.apply(conf) {
			fmt.Fprintln(stderr, w)
		}
		if err := config.Write(path, conf); err != nil {
			fmt.Fprintf(stderr, "Couldn't write config: %v\n", err)
			return 1
		}
	}
	if opt.print {
		fmt.Fprintf(stdout, "# %s\n", path)
		if err := toml.NewEncoder(stdout).Encode(conf); err != nil {
			fmt.Fprintf(stderr, "Couldn't print config: %v\n", err)
			return 1
		}
	}
	return 0
}
