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

	cliUtil "github.com/hornsolve/hornsolve/cli/util"
	"github.com/hornsolve/hornsolve/scenario"
	"github.com/hornsolve/hornsolve/util/errwrap"
)

// QueryArgs is the CLI parsing structure and type of the parsed result of the
// `query` subcommand.
type QueryArgs struct {
	Config // embedded config (can't be a pointer) https://github.com/alexflint/go-arg/issues/240

	NoVerify bool `arg:"--no-verify" help:"don't compare the answers with the expected ones"`
}

// Run solves the goal of each scenario, and prints the answers. Scenarios
// without a goal are skipped. Unless disabled, the answers are compared with
// the expected ones, and any mismatch fails the command once all the scenarios
// have run.
func (obj *QueryArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	if err := obj.Config.Validate(); err != nil {
		return false, cliUtil.CliParseError(err)
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

// run solves the goals of the scenarios, and returns how many of them didn't
// produce the expected answers.
func (obj *QueryArgs) run(ctx context.Context, r *runner, list []*scenario.Scenario) (int, error) {
	failed := 0
	for _, x := range list {
		if x.Goal == nil {
			if obj.Verbose {
				r.logf("%s: no goal", x.Name)
			}
			continue
		}
		if obj.Verbose {
			r.logf("%s: solving: %s", x.Name, x.Goal)
		}
		prog, err := x.Program(r.options(x.Name))
		if err != nil {
			return 0, err
		}
		result := &scenario.Result{}
		if err := x.Query(ctx, prog, result); err != nil {
			return 0, errwrap.Wrapf(err, "scenario %s failed", x.Name)
		}

		fmt.Printf("%s: %s\n", x.Name, result.Solution.Kind)
		for _, s := range result.Answers {
			fmt.Printf("\t%s\n", s)
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
