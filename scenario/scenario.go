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

// Package scenario loads programs, goals and the results they are expected to
// produce from yaml files, and runs them.
package scenario

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/hornsolve/hornsolve/coherence"
	"github.com/hornsolve/hornsolve/logic"
	"github.com/hornsolve/hornsolve/prometheus"
	"github.com/hornsolve/hornsolve/solve"
	"github.com/hornsolve/hornsolve/util/errwrap"

	"github.com/kylelemons/godebug/pretty"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

const (
	// FileExtension is the extension of the scenario files that ParseDir
	// loads.
	FileExtension = ".yaml"
)

// Trait is the yaml form of a trait. Traits are referred to by name, and
// their ids are assigned in the order they are listed.
type Trait struct {
	Name   string `yaml:"name"`
	Params int    `yaml:"params"`
	Local  bool   `yaml:"local"`
}

// Type is the yaml form of a type constructor.
type Type struct {
	Name   string `yaml:"name"`
	Params int    `yaml:"params"`
	Local  bool   `yaml:"local"`
}

// Impl is the yaml form of an impl. Impl ids are assigned in the order they
// are listed.
type Impl struct {
	Trait    string  `yaml:"trait"`
	Binders  int     `yaml:"binders"`
	Params   []*Term `yaml:"params"`
	Where    []*Goal `yaml:"where"`
	Negative bool    `yaml:"negative"`
	Local    bool    `yaml:"local"`
}

// Scenario is a program, an optional goal to solve with it, and the results
// that are expected. A scenario with impls is also checked for coherence.
type Scenario struct {
	Name    string `yaml:"name"`
	Comment string `yaml:"comment"`

	// Strategy is the name of the solver. Empty is the default.
	Strategy string `yaml:"strategy"`

	// MaxDepth is the depth bound of the solver. Zero is the default.
	MaxDepth int `yaml:"maxdepth"`

	Clauses []*Clause `yaml:"clauses"`
	Goal    *Goal     `yaml:"goal"`

	Traits []*Trait `yaml:"traits"`
	Types  []*Type  `yaml:"types"`
	Impls  []*Impl  `yaml:"impls"`

	// Expect is the list of answers to the goal. If it's nil, then the
	// answers aren't checked.
	Expect []string `yaml:"expect"`

	// Priorities are the expected specialization priorities, keyed by the
	// position of the impl. Impls that are not listed aren't checked.
	Priorities map[int]int `yaml:"priorities"`

	// Errors are the expected coherence error messages. If it's nil, then
	// they aren't checked.
	Errors []string `yaml:"errors"`
}

// Parse parses a single scenario.
func Parse(data []byte) (*Scenario, error) {
	obj := &Scenario{}
	if err := yaml.UnmarshalStrict(data, obj); err != nil {
		return nil, errwrap.Wrapf(err, "could not parse scenario")
	}
	if err := obj.Validate(); err != nil {
		return nil, err
	}
	return obj, nil
}

// ParseFile reads and parses a scenario from a file. If the scenario has no
// name, then it is named after the file.
func ParseFile(fs afero.Fs, name string) (*Scenario, error) {
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		return nil, errwrap.Wrapf(err, "could not read: %s", name)
	}
	obj, err := Parse(data)
	if err != nil {
		return nil, errwrap.Wrapf(err, "invalid scenario: %s", name)
	}
	if obj.Name == "" {
		obj.Name = strings.TrimSuffix(filepath.Base(name), FileExtension)
	}
	return obj, nil
}

// ParseDir parses every scenario file in a directory, sorted by file name.
func ParseDir(fs afero.Fs, dir string) ([]*Scenario, error) {
	files, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, errwrap.Wrapf(err, "could not read dir: %s", dir)
	}
	names := []string{}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), FileExtension) {
			continue
		}
		names = append(names, f.Name())
	}
	sort.Strings(names)

	result := []*Scenario{}
	for _, name := range names {
		obj, err := ParseFile(fs, filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		result = append(result, obj)
	}
	return result, nil
}

// Validate checks that the scenario has something to run, and that its names
// all resolve.
func (obj *Scenario) Validate() error {
	if obj.Goal == nil && len(obj.Impls) == 0 {
		return fmt.Errorf("scenario has no goal and no impls")
	}
	if obj.Expect != nil && obj.Goal == nil {
		return fmt.Errorf("scenario expects answers without a goal")
	}
	names := make(map[string]struct{})
	for _, x := range obj.Traits {
		if x == nil || x.Name == "" {
			return fmt.Errorf("trait has no name")
		}
		if _, exists := names[x.Name]; exists {
			return fmt.Errorf("duplicate trait: %s", x.Name)
		}
		names[x.Name] = struct{}{}
	}
	for _, x := range obj.Types {
		if x == nil || x.Name == "" {
			return fmt.Errorf("type has no name")
		}
	}
	for i, x := range obj.Impls {
		if x == nil {
			return fmt.Errorf("impl #%d is null", i)
		}
		if _, exists := names[x.Trait]; !exists {
			return fmt.Errorf("impl #%d has an unknown trait: %s", i, x.Trait)
		}
	}
	for i := range obj.Priorities {
		if i < 0 || i >= len(obj.Impls) {
			return fmt.Errorf("priority of unknown impl #%d", i)
		}
	}
	return nil
}

// Options are the settings of a run that don't come from the scenario file.
type Options struct {
	// Strategy overrides the strategy of the scenario if it's not empty.
	Strategy string

	// MaxDepth overrides the depth bound of the scenario if it's not zero.
	MaxDepth int

	// Prometheus is optional.
	Prometheus *prometheus.Prometheus

	Debug bool
	Logf  func(format string, v ...interface{})
}

// Program builds the coherence program of the scenario. A scenario that only
// has clauses gives a program without any traits.
func (obj *Scenario) Program(opts *Options) (*coherence.Program, error) {
	if opts == nil {
		opts = &Options{}
	}
	prog := &coherence.Program{
		Strategy:   obj.Strategy,
		MaxDepth:   obj.MaxDepth,
		Prometheus: opts.Prometheus,
		Debug:      opts.Debug,
		Logf:       opts.Logf,
	}
	if opts.Strategy != "" {
		prog.Strategy = opts.Strategy
	}
	if opts.MaxDepth != 0 {
		prog.MaxDepth = opts.MaxDepth
	}

	for i, x := range obj.Clauses {
		if x == nil {
			return nil, fmt.Errorf("clause #%d is null", i)
		}
		prog.Clauses = append(prog.Clauses, x.Clause)
	}

	ids := make(map[string]coherence.TraitID)
	for i, x := range obj.Traits {
		id := coherence.TraitID(i)
		ids[x.Name] = id
		prog.Traits = append(prog.Traits, &coherence.TraitDatum{
			ID:     id,
			Name:   x.Name,
			Params: x.Params,
			Local:  x.Local,
		})
	}
	for _, x := range obj.Types {
		prog.Types = append(prog.Types, &coherence.TypeDatum{
			Name:   x.Name,
			Params: x.Params,
			Local:  x.Local,
		})
	}

	for i, x := range obj.Impls {
		id, exists := ids[x.Trait]
		if !exists {
			return nil, fmt.Errorf("impl #%d has an unknown trait: %s", i, x.Trait)
		}
		impl := &coherence.ImplDatum{
			ID:       coherence.ImplID(i),
			Trait:    id,
			Binders:  x.Binders,
			Negative: x.Negative,
			Local:    x.Local,
		}
		params, err := terms(x.Params)
		if err != nil {
			return nil, errwrap.Wrapf(err, "invalid params of impl #%d", i)
		}
		impl.Params = params
		for j, w := range x.Where {
			if w == nil {
				return nil, fmt.Errorf("where clause #%d of impl #%d is null", j, i)
			}
			apply, ok := w.Goal.(*logic.Apply)
			if !ok {
				return nil, fmt.Errorf("where clause #%d of impl #%d is not atomic", j, i)
			}
			impl.WhereClauses = append(impl.WhereClauses, apply)
		}
		prog.Impls = append(prog.Impls, impl)
	}

	return prog, nil
}

// Result is what running a scenario produced. The parts that were not run are
// left nil, and they are not verified.
type Result struct {
	// Solution is the solution of the goal, if there is one.
	Solution *solve.Solution

	// Answers are the solution strings of the goal.
	Answers []string

	// Priorities are the specialization priorities, keyed by the position
	// of the impl.
	Priorities map[int]int

	// Errors are the coherence error messages.
	Errors []string
}

// Run solves the goal of the scenario, and then checks the coherence of its
// impls.
func (obj *Scenario) Run(ctx context.Context, opts *Options) (*Result, error) {
	prog, err := obj.Program(opts)
	if err != nil {
		return nil, err
	}
	result := &Result{}
	if err := obj.Query(ctx, prog, result); err != nil {
		return nil, err
	}
	if err := obj.Check(ctx, prog, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Query solves the goal of the scenario with the program, and stores the
// answers in the result. It does nothing if there is no goal.
func (obj *Scenario) Query(ctx context.Context, prog *coherence.Program, result *Result) error {
	if obj.Goal == nil {
		return nil
	}
	solution, err := prog.Solve(ctx, obj.Goal.Goal)
	if err != nil {
		return err
	}
	result.Solution = solution
	result.Answers = solution.Strings()
	return nil
}

// Check runs the coherence checks on the impls of the program, and stores the
// priorities and the coherence errors in the result. Any other error stops the
// check. It does nothing if there are no impls.
func (obj *Scenario) Check(ctx context.Context, prog *coherence.Program, result *Result) error {
	if len(prog.Impls) == 0 {
		return nil
	}
	result.Priorities = make(map[int]int)
	result.Errors = []string{}

	err := prog.Check(ctx)
	for _, e := range errwrap.Errors(err) {
		if _, ok := e.(*coherence.CoherenceError); !ok {
			return err
		}
		result.Errors = append(result.Errors, e.Error())
	}
	for i, impl := range prog.Impls {
		result.Priorities[i] = impl.SpecializationPriority
	}
	return nil
}

// Verify compares a result with what the scenario expects. Every mismatch is
// returned.
func (obj *Scenario) Verify(result *Result) error {
	var reterr error
	if obj.Expect != nil && result.Answers != nil && !reflect.DeepEqual(result.Answers, obj.Expect) {
		err := fmt.Errorf("answers differ:\n%s", pretty.Compare(obj.Expect, result.Answers))
		reterr = errwrap.Append(reterr, err)
	}
	if obj.Errors != nil && result.Errors != nil && !reflect.DeepEqual(result.Errors, obj.Errors) {
		err := fmt.Errorf("coherence errors differ:\n%s", pretty.Compare(obj.Errors, result.Errors))
		reterr = errwrap.Append(reterr, err)
	}
	if result.Priorities == nil {
		return reterr
	}

	keys := []int{}
	for i := range obj.Priorities {
		keys = append(keys, i)
	}
	sort.Ints(keys)
	for _, i := range keys {
		if p, exp := result.Priorities[i], obj.Priorities[i]; p != exp {
			err := fmt.Errorf("priority of impl #%d is %d, expected %d", i, p, exp)
			reterr = errwrap.Append(reterr, err)
		}
	}
	return reterr
}
