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

// Package fulfill implements the strategy that the type checker of a language
// with traits needs: a goal is proven at most once, and whenever the clauses
// leave more than one way to prove it, the answer is ambiguous rather than an
// arbitrary pick.
package fulfill

import (
	"context"
	"fmt"
	"strings"

	"github.com/hornsolve/hornsolve/logic"
	"github.com/hornsolve/hornsolve/solve"
	"github.com/hornsolve/hornsolve/util/errwrap"
)

const (
	// Name is the name of this strategy.
	Name = "Rust"
)

func init() {
	solve.Register(Name, func() solve.Solver { return &Fulfill{} })
	solve.Register("", func() solve.Solver { return &Fulfill{} }) // default
}

// outcome is the result of proving a list of obligations.
type outcome int

const (
	success outcome = iota
	failure
	ambiguous
	overflow
)

func (obj outcome) String() string {
	switch obj {
	case success:
		return "success"
	case failure:
		return "failure"
	case ambiguous:
		return "ambiguous"
	case overflow:
		return "overflow"
	}
	return fmt.Sprintf("outcome(%d)", int(obj))
}

// Fulfill is a solver that works through a queue of obligations. An atomic
// obligation with a single applicable clause is committed to right away. When
// several clauses apply, each of them is tried out in a trial that is rolled
// back afterwards, and the ones that can't possibly hold are dropped. If more
// than one is left, the obligation is put aside until some other commit has
// added information that might decide it. When nothing more can be committed,
// whatever was put aside is what makes the goal ambiguous.
//
// The outcome of each trial is remembered for the resolved obligation it was
// made for, so a recursive clause is only ever tried once per depth.
type Fulfill struct {
	MaxDepth int

	Debug bool
	Logf  func(format string, v ...interface{})
}

// Init contains some handles that are used to initialize the solver.
func (obj *Fulfill) Init(init *solve.Init) error {
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

// Solve proves the goal at most once.
func (obj *Fulfill) Solve(ctx context.Context, env *solve.Environment, goal logic.Goal) (*solve.Solution, error) {
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
	f := &fulfiller{
		ctx:      ctx,
		proof:    proof,
		maxDepth: obj.MaxDepth,
		trials:   make(map[trialKey]outcome),
		debug:    obj.Debug,
		logf:     obj.Logf,
	}
	result, err := f.run([]*solve.Obligation{proof.Root(env)})
	if err != nil {
		return nil, err
	}
	if obj.Debug {
		obj.Logf("%s after %d commit(s)", result, f.commits)
	}

	switch result {
	case success:
		return solve.NewSolution([]*solve.Answer{proof.Answer()}), nil
	case ambiguous:
		return &solve.Solution{Kind: solve.Ambiguous}, nil
	case overflow:
		return &solve.Solution{Kind: solve.Overflow}, nil
	}
	return solve.NewSolution(nil), nil
}

// pending is an obligation that was put aside.
type pending struct {
	ob *solve.Obligation

	// stamp is the commit count at the time it was put aside. It is only
	// worth retrying once the count has moved on.
	stamp int

	// overflow is set if the obligation couldn't be decided within the
	// depth bound.
	overflow bool

	// bounded is set if the obligation itself is at the depth bound, in
	// which case retrying can't help.
	bounded bool
}

// trialKey identifies the trial of a clause against an atomic obligation. The
// goal is the canonical form that is built by key.
type trialKey struct {
	goal string
	sc   *solve.ScopedClause
}

// fulfiller is the state of one run of the solver.
type fulfiller struct {
	ctx      context.Context
	proof    *solve.Proof
	maxDepth int

	// commits counts the clause choices that were committed to.
	commits int

	// trials remembers the outcome of every trial that completed.
	trials map[trialKey]outcome

	debug bool
	logf  func(format string, v ...interface{})
}

// run proves a list of obligations. Nothing is rolled back on failure, that is
// up to the caller.
func (obj *fulfiller) run(obs []*solve.Obligation) (outcome, error) {
	queue := obs
	stuck := []*pending{}

	for {
		for len(queue) > 0 {
			if err := obj.ctx.Err(); err != nil {
				return failure, err
			}
			ob := queue[0]
			queue = queue[1:]

			if _, ok := ob.Goal.(*logic.Apply); !ok {
				// decomposing isn't progress, it just adds to this pass
				queue = append(queue, obj.proof.Decompose(ob)...)
				continue
			}

			if ob.Depth >= obj.maxDepth {
				if obj.debug {
					obj.logf("overflow at: %s", ob)
				}
				stuck = append(stuck, &pending{
					ob:       ob,
					stamp:    obj.commits,
					overflow: true,
					bounded:  true,
				})
				continue
			}

			result, cond, err := obj.apply(ob)
			if err != nil {
				return failure, err
			}
			switch result {
			case failure:
				if obj.debug {
					obj.logf("no clause proves: %s", ob)
				}
				return failure, nil

			case ambiguous, overflow:
				stuck = append(stuck, &pending{
					ob:       ob,
					stamp:    obj.commits,
					overflow: result == overflow,
				})

			case success:
				if cond != nil {
					queue = append(queue, cond)
				}
			}
		}

		// Retry what was put aside, if anything was committed since.
		keep := []*pending{}
		for _, p := range stuck {
			if !p.bounded && p.stamp < obj.commits {
				queue = append(queue, p.ob)
				continue
			}
			keep = append(keep, p)
		}
		stuck = keep
		if len(queue) == 0 {
			break
		}
	}

	if len(stuck) == 0 {
		return success, nil
	}
	for _, p := range stuck {
		if p.overflow {
			return overflow, nil
		}
	}
	return ambiguous, nil
}

// apply picks the clause that proves the atomic obligation. On success the
// choice has been committed to, and the condition of the clause is returned. If
// the choice can't be made yet, the outcome is ambiguous and the table is left
// as it was.
func (obj *fulfiller) apply(ob *solve.Obligation) (outcome, *solve.Obligation, error) {
	table := obj.proof.Table()
	goal := ob.Goal.(*logic.Apply)

	// Which clauses unify?
	viable := []*solve.ScopedClause{}
	for _, sc := range ob.Env.Candidates(goal.Name) {
		snap := table.Snapshot()
		if _, err := obj.proof.Apply(ob, sc); err == nil {
			viable = append(viable, sc)
		}
		table.Rollback(snap)
	}

	// Which of those could hold? Once two of them could, and at least one
	// of those didn't overflow, the rest can't change the outcome.
	if len(viable) > 1 {
		key := obj.key(ob)
		winnowed := []*solve.ScopedClause{}
		overflows := 0
		for _, sc := range viable {
			result, err := obj.trial(ob, sc, key)
			if err != nil {
				return failure, nil, err
			}
			if result == failure {
				continue
			}
			winnowed = append(winnowed, sc)
			if result == overflow {
				overflows++
			}
			if len(winnowed) > 1 && overflows < len(winnowed) {
				break
			}
		}
		viable = winnowed

		if len(viable) > 1 && overflows == len(viable) {
			if obj.debug {
				obj.logf("every clause overflows: %s", ob)
			}
			return overflow, nil, nil
		}
	}

	switch len(viable) {
	case 0:
		return failure, nil, nil
	case 1:
	default:
		if obj.debug {
			obj.logf("%d clauses apply to: %s", len(viable), ob)
		}
		return ambiguous, nil, nil
	}

	cond, err := obj.proof.Apply(ob, viable[0])
	if err != nil {
		// programming error
		panic(fmt.Sprintf("clause no longer unifies with %s: %+v", ob, err))
	}
	obj.commits++
	if obj.debug {
		obj.logf("commit #%d: %s", obj.commits, ob)
	}
	return success, cond, nil
}

// trial determines what would happen if the obligation was proven with this
// clause. Everything it does is rolled back before it returns. The key is that
// of the obligation, and it's used to look up and store the outcome.
func (obj *fulfiller) trial(ob *solve.Obligation, sc *solve.ScopedClause, key string) (outcome, error) {
	pk := trialKey{goal: key, sc: sc}
	if result, exists := obj.trials[pk]; exists {
		return result, nil
	}
	result, err := obj.try(ob, sc)
	if err != nil {
		return failure, err
	}
	obj.trials[pk] = result
	return result, nil
}

// try runs a single trial.
func (obj *fulfiller) try(ob *solve.Obligation, sc *solve.ScopedClause) (outcome, error) {
	table := obj.proof.Table()
	snap := table.Snapshot()
	commits := obj.commits
	defer func() {
		table.Rollback(snap)
		obj.commits = commits // commits in a trial don't inform the caller
	}()

	cond, err := obj.proof.Apply(ob, sc)
	if err != nil {
		return failure, nil
	}
	if cond == nil {
		return success, nil
	}
	return obj.run([]*solve.Obligation{cond})
}

// key returns the canonical form of everything that the outcome of a trial of
// this atomic obligation depends on: its resolved goal, the environment it sees
// including the current values of the local clauses, its universe and its
// depth. Inference variables are numbered in order of appearance, together
// with their universe, so that two obligations which only differ by the names
// of their variables share a key.
func (obj *fulfiller) key(ob *solve.Obligation) string {
	table := obj.proof.Table()
	goal := ob.Goal.(*logic.Apply)
	names := make(map[int]int) // var id -> order of appearance
	sb := &strings.Builder{}

	var write func(term logic.Term)
	write = func(term logic.Term) {
		switch x := table.Shallow(term).(type) {
		case *logic.Var:
			n, exists := names[x.ID]
			if !exists {
				n = len(names)
				names[x.ID] = n
			}
			fmt.Fprintf(sb, "?%d@%d", n, table.Universe(x))

		case *logic.App:
			fmt.Fprintf(sb, "%q(", x.Name)
			for i, arg := range x.Args {
				if i > 0 {
					sb.WriteString(",")
				}
				write(arg)
			}
			sb.WriteString(")")

		default: // placeholders
			sb.WriteString(x.String())
		}
	}

	fmt.Fprintf(sb, "%q(", goal.Name)
	for i, arg := range goal.Args {
		if i > 0 {
			sb.WriteString(",")
		}
		write(logic.Subst(arg, ob.Frame))
	}
	fmt.Fprintf(sb, ") %p u%d d%d", ob.Env, ob.Universe, ob.Depth)

	for env := ob.Env; env != nil; env = env.Parent() {
		for _, sc := range env.Clauses() {
			if sc.Frame == nil {
				continue
			}
			sb.WriteString(" [")
			for _, x := range sc.Frame {
				write(x)
				sb.WriteString(";")
			}
			sb.WriteString("]")
		}
	}
	return sb.String()
}
