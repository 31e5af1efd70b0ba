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
	"github.com/hornsolve/hornsolve/coherence"
	"github.com/hornsolve/hornsolve/scenario"
	"github.com/hornsolve/hornsolve/util/errwrap"
)

// CoherenceArgs is the CLI parsing structure and type of the parsed result of
// the `coherence` subcommand.
type CoherenceArgs struct {
	Config // embedded config (can't be a pointer) https://github.com/alexflint/go-arg/issues/240

	NoVerify bool `arg:"--no-verify" help:"don't compare the results with the expected ones"`

	// Graphviz is the prefix of the output files. Each trait gets one.
	Graphviz       string `arg:"--graphviz" help:"output file prefix for the graphviz specialization forests"`
	GraphvizFilter string `arg:"--graphviz-filter" help:"graphviz filter to use"`
}

// Run checks the coherence of the impls of each scenario, and prints the
// priorities and any errors. Scenarios without impls are skipped.
func (obj *CoherenceArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	if err := obj.Config.Validate(); err != nil {
		return false, cliUtil.CliParseError(err)
	}
	if obj.GraphvizFilter != "" && obj.Graphviz == "" {
		return false, cliUtil.CliParseError(fmt.Errorf("the graphviz filter needs --graphviz"))
	}

	cliUtil.Hello(data.Program, data.Version, data.Flags) // say hello!
	r := &runner{
		config: &obj.Config,
		data:   data,
	}
	if err := r.init(); err != nil {
		return false, err
	}

	reterr := r.loop(ctx, func(list []*scenario.Scenario) (int, error) {
		return obj.run(ctx, r, list)
	})
	reterr = errwrap.Append(reterr, r.close())
	if reterr != nil {
		return false, reterr
	}
	return true, nil
}

// run checks the impls of the scenarios, and returns how many of them didn't
// produce the expected priorities and errors.
func (obj *CoherenceArgs) run(ctx context.Context, r *runner, list []*scenario.Scenario) (int, error) {
	failed := 0
	for _, x := range list {
		if len(x.Impls) == 0 {
			if obj.Verbose {
				r.logf("%s: no impls", x.Name)
			}
			continue
		}
		prog, err := x.Program(r.options(x.Name))
		if err != nil {
			return 0, err
		}
		result := &scenario.Result{}
		if err := x.Check(ctx, prog, result); err != nil {
			return 0, errwrap.Wrapf(err, "scenario %s failed", x.Name)
		}

		fmt.Printf("%s:\n", x.Name)
		for i, impl := range prog.Impls {
			fmt.Printf("\t%s of %s: priority %d\n", impl, prog.TypeName(impl.Trait), result.Priorities[i])
		}
		for _, s := range result.Errors {
			fmt.Printf("\terror: %s\n", s)
		}

		if obj.Graphviz != "" {
			if err := obj.graphviz(ctx, r, x.Name, prog); err != nil {
				return 0, err
			}
		}

		if obj.NoVerify {
			continue
		}
		if err := x.Verify(result); err != nil {
			r.logf("%s: %+v", x.Name, err)
			failed++
		}
	}
	return failed, nil
}

// graphviz writes out the specialization forest of a program, one file per
// trait. Traits with overlapping impls have no forest, and were already
// reported as errors.
func (obj *CoherenceArgs) graphviz(ctx context.Context, r *runner, name string, prog *coherence.Program) error {
	forest, err := coherence.BuildSpecializationForest(ctx, prog, prog.ImplIDs(), prog.Specializer())
	if forest == nil {
		return errwrap.Wrapf(err, "could not build the specialization forest of %s", name)
	}
	traits := []coherence.TraitID{}
	for trait := range forest {
		traits = append(traits, trait)
	}
	sort.Slice(traits, func(i, j int) bool { return traits[i] < traits[j] })

	for _, trait := range traits {
		g := forest[trait]
		filename := fmt.Sprintf("%s-%s-%s.dot", obj.Graphviz, name, g.GetName())
		if err := g.ExecGraphviz(obj.GraphvizFilter, filename); err != nil {
			return errwrap.Wrapf(err, "graphviz of %s failed", g.GetName())
		}
		r.logf("%s: wrote graphviz of %s to %s", name, g.GetName(), filename)
	}
	return nil
}
