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

// Package dfs implements the depth first search strategy. It enumerates every
// proof of a goal, in clause order, which makes it useful for tests and for
// diagnostics, but not for deciding which impl applies.
package dfs

import (
	"context"

	"github.com/hornsolve/hornsolve/logic"
	"github.com/hornsolve/hornsolve/solve"
	"github.com/hornsolve/hornsolve/util/errwrap"
)

const (
	// Name is the name of this strategy.
	Name = "DepthFirstSearch"
)

func init() {
	solve.Register(Name, func() solve.Solver { return &DepthFirstSearch{} })
}

// DepthFirstSearch is a backtracking solver. Every choice of clause is tried in
// turn, and all of the bindings that were made while exploring one of them are
// rolled back before the next one is tried.
type DepthFirstSearch struct {
	MaxDepth int

	Debug bool
	Logf  func(format string, v ...interface{})
}

// Init contains some handles that are used to initialize the solver.
func (obj *DepthFirstSearch) Init(init *solve.Init) error {
	obj.MaxDepth = init.Depth()
	obj.Debug = init.Debug
	obj.Logf = func(format string, v ...interface{}) {
		if init.Logf == nil {
			return
		}
		init.Logf(Name+": "+format, v...)
	}
	return nil
}

// Solve enumerates the proofs of the goal. If any branch of the search exceeds
// the depth bound, the whole search stops and reports an overflow, since the
// list of answers would be incomplete.
func (obj *DepthFirstSearch) Solve(ctx context.Context, env *solve.Environment, goal logic.Goal) (*solve.Solution, error) {
	if err := logic.Validate(goal, 0); err != nil {
		return nil, errwrap.Wrapf(err, "invalid goal")
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	if obj.MaxDepth == 0 { // not initialized
		obj.MaxDepth = solve.DefaultMaxDepth
	}

	proof := solve.NewProof(goal)
	s := &search{
		ctx:      ctx,
		proof:    proof,
		maxDepth: obj.MaxDepth,
		debug:    obj.Debug,
		logf:     obj.Logf,
	}
	if err := s.run([]*solve.Obligation{proof.Root(env)}); err != nil {
		return nil, err
	}

	if s.overflow {
		if obj.Debug {
			obj.Logf("overflow after %d answer(s)", len(s.answers))
		}
		return &solve.Solution{Kind: solve.Overflow}, nil
	}
	if obj.Debug {
		obj.Logf("found %d answer(s)", len(s.answers))
	}
	return solve.NewSolution(s.answers), nil
}

// search is the state of one run of the solver.
type search struct {
	ctx      context.Context
	proof    *solve.Proof
	maxDepth int

	answers  []*solve.Answer
	overflow bool

	debug bool
	logf  func(format string, v ...interface{})
}

// run proves every obligation on the stack, starting at the top. Each time the
// stack empties, the current bindings are recorded as an answer.
func (obj *search) run(stack []*solve.Obligation) error {
	if err := obj.ctx.Err(); err != nil {
		return err
	}
	if obj.overflow {
		return nil
	}
	if len(stack) == 0 {
		answer := obj.proof.Answer()
		if obj.debug {
			obj.logf("answer: %s", answer.Text)
		}
		obj.answers = append(obj.answers, answer)
		return nil
	}

	n := len(stack) - 1
	top := stack[n]
	rest := stack[:n:n] // appending must not clobber the caller's stack

	apply, ok := top.Goal.(*logic.Apply)
	if !ok {
		children := obj.proof.Decompose(top)
		for i := len(children) - 1; i >= 0; i-- { // leftmost goes on top
			rest = append(rest, children[i])
		}
		return obj.run(rest)
	}

	if top.Depth >= obj.maxDepth {
		if obj.debug {
			obj.logf("overflow at: %s", apply)
		}
		obj.overflow = true
		return nil
	}

	table := obj.proof.Table()
	for _, sc := range top.Env.Candidates(apply.Name) {
		snap := table.Snapshot()
		cond, err := obj.proof.Apply(top, sc)
		if err != nil { // doesn't unify
			table.Rollback(snap)
			continue
		}
		next := rest
		if cond != nil {
			next = append(next, cond)
		}
		err = obj.run(next)
		table.Rollback(snap)
		if err != nil {
			return err
		}
		if obj.overflow {
			return nil
		}
	}
	return nil
}
