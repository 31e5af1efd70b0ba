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

// Package solvers is used to have a central place to import all the
// strategies.
package solvers

import (
	"context"

	"github.com/hornsolve/hornsolve/logic"
	"github.com/hornsolve/hornsolve/solve"
	"github.com/hornsolve/hornsolve/util/errwrap"

	// register all the solvers
	_ "github.com/hornsolve/hornsolve/solve/dfs"
	_ "github.com/hornsolve/hornsolve/solve/fulfill"
)

// Lookup returns the named strategy, already initialized. The empty name is the
// default strategy.
func Lookup(init *solve.Init, strategy string) (solve.Solver, error) {
	var solver solve.Solver
	var err error
	if strategy == "" {
		solver, err = solve.LookupDefault()
	} else {
		solver, err = solve.Lookup(strategy)
	}
	if err != nil {
		return nil, errwrap.Wrapf(err, "could not get strategy: %s", strategy)
	}
	if init == nil {
		init = &solve.Init{}
	}
	if err := solver.Init(init); err != nil {
		return nil, errwrap.Wrapf(err, "could not init strategy: %s", strategy)
	}
	return solver, nil
}

// Query proves the goal against a root environment made of these clauses, and
// returns the list of solution strings. An empty list means that there is no
// solution, and the ambiguous and overflow outcomes are represented by their
// sentinel strings.
func Query(ctx context.Context, init *solve.Init, strategy string, clauses []*logic.Clause, goal logic.Goal) ([]string, error) {
	solver, err := Lookup(init, strategy)
	if err != nil {
		return nil, err
	}
	env := solve.NewEnvironment(nil, clauses)
	solution, err := solver.Solve(ctx, env, goal)
	if err != nil {
		return nil, err
	}
	return solution.Strings(), nil
}
