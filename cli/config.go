// Hornsolve
// Copyright (C) 2024+ the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package cli

import (
	"context"
	"fmt"
	"sort"

	cliUtil "github.com/hornsolve/hornsolve/cli/util"
	"github.com/hornsolve/hornsolve/prometheus"
	"github.com/hornsolve/hornsolve/scenario"
	"github.com/hornsolve/hornsolve/solve"
	"github.com/hornsolve/hornsolve/util/errwrap"

	"github.com/spf13/afero"
)

// Config is the set of flags that every command which runs scenarios accepts.
type Config struct {
	// Input is a scenario file, or a directory of them.
	Input string `arg:"positional,required" help:"scenario file or directory"`

	Strategy string `arg:"--strategy,env:HORNSOLVE_STRATEGY" help:"solver strategy, overrides the scenario"`
	MaxDepth int    `arg:"--max-depth" help:"solver depth bound, overrides the scenario"`

	Debug   bool `arg:"--debug" help:"log the steps of the solvers"`
	Verbose bool `arg:"--verbose" help:"log what is being run"`

	Watch bool `arg:"--watch" help:"run again whenever the input changes"`

	Prometheus       bool   `arg:"--prometheus" help:"start a prometheus instance"`
	PrometheusListen string `arg:"--prometheus-listen" help:"specify prometheus instance binding"`
}

// Validate checks the flags before anything runs.
func (obj *Config) Validate() error {
	if obj.MaxDepth < 0 {
		return fmt.Errorf("negative max depth: %d", obj.MaxDepth)
	}
	if obj.Strategy != "" {
		if _, err := solve.Lookup(obj.Strategy); err != nil {
			return errwrap.Wrapf(err, "unknown strategy: %s", obj.Strategy)
		}
	}
	if obj.PrometheusListen != "" && !obj.Prometheus {
		return fmt.Errorf("the prometheus listen address needs --prometheus")
	}
	return nil
}

// Load reads the scenarios of the input from the filesystem.
func (obj *Config) Load(fs afero.Fs) ([]*scenario.Scenario, error) {
	fi, err := fs.Stat(obj.Input)
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't stat input")
	}
	if fi.IsDir() {
		return scenario.ParseDir(fs, obj.Input)
	}
	x, err := scenario.ParseFile(fs, obj.Input)
	if err != nil {
		return nil, err
	}
	return []*scenario.Scenario{x}, nil
}

// runner is the state that is shared by the commands while they run.
type runner struct {
	config *Config
	data   *cliUtil.Data
	prom   *prometheus.Prometheus

	logf func(format string, v ...interface{})
}

// init starts the prometheus instance if it was requested.
func (obj *runner) init() error {
	obj.logf = func(format string, v ...interface{}) {
		obj.data.Flags.Logf("cli: "+format, v...)
	}
	if !obj.config.Prometheus {
		return nil
	}

	obj.prom = &prometheus.Prometheus{
		Listen: obj.config.PrometheusListen,
	}
	if err := obj.prom.Init(); err != nil {
		return errwrap.Wrapf(err, "can't create initiate Prometheus instance")
	}

	obj.logf("prometheus: starting instance on %s", obj.prom.Listen)
	if err := obj.prom.Start(); err != nil {
		return errwrap.Wrapf(err, "can't start initiate Prometheus instance")
	}

	strategies := append(solve.Names(), "default")
	sort.Strings(strategies)
	if err := obj.prom.InitStrategyMetrics(strategies); err != nil {
		return errwrap.Wrapf(err, "can't initialize strategy-specific prometheus metrics")
	}
	return nil
}

// close stops the prometheus instance if there is one.
func (obj *runner) close() error {
	if obj.prom == nil {
		return nil
	}
	obj.logf("prometheus: stopping instance")
	if err := obj.prom.Stop(); err != nil {
		return errwrap.Wrapf(err, "the Prometheus instance exited poorly")
	}
	return nil
}

// options returns the run options of a scenario.
func (obj *runner) options(name string) *scenario.Options {
	return &scenario.Options{
		Strategy:   obj.config.Strategy,
		MaxDepth:   obj.config.MaxDepth,
		Prometheus: obj.prom,
		Debug:      obj.config.Debug || obj.data.Flags.Debug,
		Logf: func(format string, v ...interface{}) {
			obj.data.Flags.Logf(name+": "+format, v...)
		},
	}
}

// loop loads and runs the scenarios of the input. The run function returns the
// number of scenarios that didn't produce what they expected. In watch mode the
// scenarios are loaded and run again whenever the input changes, until the
// context closes, and any failure is only logged.
func (obj *runner) loop(ctx context.Context, run func([]*scenario.Scenario) (int, error)) error {
	fs := afero.NewOsFs()
	once := func() (int, error) {
		list, err := obj.config.Load(fs)
		if err != nil {
			return 0, err
		}
		return run(list)
	}

	if !obj.config.Watch {
		failed, err := once()
		if err != nil {
			return err
		}
		if failed > 0 {
			return errwrap.Wrapf(cliUtil.ErrExpectationFailed, "%d scenario(s) failed", failed)
		}
		return nil
	}

	w, err := newWatcher(obj.config.Input, obj.logf)
	if err != nil {
		return err
	}
	fn := func() {
		failed, err := once()
		if err != nil {
			obj.logf("run failed: %+v", err)
			return
		}
		if failed > 0 {
			obj.logf("%d scenario(s) failed", failed)
		}
	}
	fn()
	obj.logf("watching: %s", obj.config.Input)
	return w.Run(ctx, fn)
}
