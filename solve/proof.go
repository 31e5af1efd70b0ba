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

package solve

import (
	"fmt"

	"github.com/hornsolve/hornsolve/logic"
	"github.com/hornsolve/hornsolve/solve/unify"
)

// Obligation is a goal which still has to be proven, together with everything
// that is needed to interpret it.
type Obligation struct {
	// Env is the set of clauses that may be used.
	Env *Environment

	// Goal is what has to be proven. Its bound variables are looked up in
	// the Frame.
	Goal  logic.Goal
	Frame []logic.Term

	// Universe is where fresh inference variables are created.
	Universe int

	// Depth is the number of clause applications that led here.
	Depth int

	// Root is true if the goal is part of the top-level goal, rather than
	// part of the condition of some clause.
	Root bool
}

// String returns a representation of this obligation for debugging.
func (obj *Obligation) String() string {
	return fmt.Sprintf("%s @%d", obj.Goal, obj.Depth)
}

// quantifier holds how a quantifier of the top-level goal was instantiated.
type quantifier struct {
	universe int
	values   []logic.Term
}

// Proof is the state of a single attempt at proving a top-level goal. The
// strategies drive it, and it takes care of the parts of the search which are
// the same for all of them: decomposing goals, applying clauses, and rendering
// the answers.
type Proof struct {
	goal  logic.Goal
	table *unify.Table

	// roots maps each quantifier of the top-level goal to the values that
	// it was instantiated with. They are allocated up front, so that the
	// variables of the goal get the lowest ids and always render the same.
	roots map[logic.Goal]*quantifier

	// witness lists the existential variables of the top-level goal.
	witness []*logic.Var
}

// NewProof prepares a proof attempt for this closed goal.
func NewProof(goal logic.Goal) *Proof {
	obj := &Proof{
		goal:  goal,
		table: unify.NewTable(),
		roots: make(map[logic.Goal]*quantifier),
	}
	count := make(map[logic.Goal]int)
	countQuantifiers(goal, count)
	obj.prepare(goal, unify.RootUniverse, count)
	return obj
}

// countQuantifiers counts how often each quantifier node appears in the goal.
// A node that is shared between two positions must be instantiated separately
// for each of them, so it can't be pre-allocated.
func countQuantifiers(goal logic.Goal, count map[logic.Goal]int) {
	switch g := goal.(type) {
	case *logic.And:
		countQuantifiers(g.Left, count)
		countQuantifiers(g.Right, count)
	case *logic.Implies:
		countQuantifiers(g.Conclusion, count)
	case *logic.ForAll:
		count[g]++
		countQuantifiers(g.Body, count)
	case *logic.Exists:
		count[g]++
		countQuantifiers(g.Body, count)
	}
}

func (obj *Proof) prepare(goal logic.Goal, universe int, count map[logic.Goal]int) {
	switch g := goal.(type) {
	case *logic.And:
		obj.prepare(g.Left, universe, count)
		obj.prepare(g.Right, universe, count)

	case *logic.Implies:
		obj.prepare(g.Conclusion, universe, count)

	case *logic.ForAll:
		if count[g] != 1 {
			return
		}
		u := obj.table.NewUniverse()
		q := &quantifier{universe: u}
		for i := 0; i < g.Binders; i++ {
			q.values = append(q.values, obj.table.NewPlaceholder(u, i))
		}
		obj.roots[g] = q
		obj.prepare(g.Body, u, count)

	case *logic.Exists:
		if count[g] != 1 {
			return
		}
		q := &quantifier{universe: universe}
		for i := 0; i < g.Binders; i++ {
			v := obj.table.NewVar(universe)
			q.values = append(q.values, v)
			obj.witness = append(obj.witness, v)
		}
		obj.roots[g] = q
		obj.prepare(g.Body, universe, count)
	}
}

// Table returns the inference table of this proof.
func (obj *Proof) Table() *unify.Table {
	return obj.table
}

// Root returns the obligation to prove the top-level goal in this environment.
func (obj *Proof) Root(env *Environment) *Obligation {
	return &Obligation{
		Env:      env,
		Goal:     obj.goal,
		Universe: unify.RootUniverse,
		Root:     true,
	}
}

// Decompose breaks a compound obligation into the obligations that prove it,
// in left to right order. It panics if given an atomic goal, since those are
// proven by applying clauses.
func (obj *Proof) Decompose(ob *Obligation) []*Obligation {
	child := func(goal logic.Goal) *Obligation {
		return &Obligation{
			Env:      ob.Env,
			Goal:     goal,
			Frame:    ob.Frame,
			Universe: ob.Universe,
			Depth:    ob.Depth,
			Root:     ob.Root,
		}
	}

	switch g := ob.Goal.(type) {
	case *logic.And:
		return []*Obligation{child(g.Left), child(g.Right)}

	case *logic.Implies:
		c := child(g.Conclusion)
		c.Env = ob.Env.Extend(g.Premise, ob.Frame)
		return []*Obligation{c}

	case *logic.ForAll:
		q := obj.instance(ob, g)
		if q == nil {
			u := obj.table.NewUniverse()
			q = &quantifier{universe: u}
			for i := 0; i < g.Binders; i++ {
				q.values = append(q.values, obj.table.NewPlaceholder(u, i))
			}
		}
		c := child(g.Body)
		c.Frame = logic.Push(ob.Frame, q.values...)
		c.Universe = q.universe
		return []*Obligation{c}

	case *logic.Exists:
		q := obj.instance(ob, g)
		if q == nil {
			q = &quantifier{universe: ob.Universe}
			for i := 0; i < g.Binders; i++ {
				q.values = append(q.values, obj.table.NewVar(ob.Universe))
			}
		}
		c := child(g.Body)
		c.Frame = logic.Push(ob.Frame, q.values...)
		return []*Obligation{c}
	}

	// programming error
	panic(fmt.Sprintf("can't decompose goal: %T", ob.Goal))
}

func (obj *Proof) instance(ob *Obligation, goal logic.Goal) *quantifier {
	if !ob.Root {
		return nil
	}
	return obj.roots[goal]
}

// Apply tries to prove the atomic obligation with this clause. The binders of
// the clause are instantiated with fresh variables, and its conclusion is
// unified with the goal. On success it returns the obligation to prove the
// condition of the clause, or nil if the clause is a fact. On error the caller
// must roll the table back.
func (obj *Proof) Apply(ob *Obligation, sc *ScopedClause) (*Obligation, error) {
	goal, ok := ob.Goal.(*logic.Apply)
	if !ok {
		// programming error
		panic(fmt.Sprintf("can't apply a clause to: %T", ob.Goal))
	}
	clause := sc.Clause
	if goal.Name != clause.Conclusion.Name {
		return nil, fmt.Errorf("name %q != %q", goal.Name, clause.Conclusion.Name)
	}
	if len(goal.Args) != len(clause.Conclusion.Args) {
		return nil, fmt.Errorf("arity of %q differs: %d != %d", goal.Name, len(goal.Args), len(clause.Conclusion.Args))
	}

	vars := make([]logic.Term, clause.Binders)
	for i := range vars {
		vars[i] = obj.table.NewVar(ob.Universe)
	}
	frame := logic.Push(sc.Frame, vars...)

	for i, arg := range goal.Args {
		a := logic.Subst(arg, ob.Frame)
		b := logic.Subst(clause.Conclusion.Args[i], frame)
		if err := obj.table.Unify(a, b); err != nil {
			return nil, err
		}
	}

	if clause.Condition == nil {
		return nil, nil
	}
	return &Obligation{
		Env:      ob.Env,
		Goal:     clause.Condition,
		Frame:    frame,
		Universe: ob.Universe,
		Depth:    ob.Depth + 1,
	}, nil
}

// Answer renders the current state of the table as an answer. The top-level
// goal is printed with its existential variables replaced by their bindings,
// and with the placeholders of its universal variables printed as the letters
// of their binders.
func (obj *Proof) Answer() *Answer {
	letters := make(map[logic.Placeholder]string)
	printer := &logic.Printer{}

	printer.Value = func(term logic.Term) (string, bool) {
		switch x := term.(type) {
		case *logic.Var:
			r := obj.table.Resolve(x)
			if v, ok := r.(*logic.Var); ok {
				return v.String(), true
			}
			return printer.Term(r), true

		case *logic.Placeholder:
			s, ok := letters[*x]
			return s, ok
		}
		return "", false
	}

	printer.Exists = func(g *logic.Exists) []string {
		q, exists := obj.roots[g]
		if !exists {
			return nil
		}
		display := []string{}
		for _, v := range q.values {
			display = append(display, printer.Term(v))
		}
		return display
	}

	printer.ForAll = func(g *logic.ForAll, names []string) {
		q, exists := obj.roots[g]
		if !exists {
			return
		}
		for i, v := range q.values {
			letters[*v.(*logic.Placeholder)] = names[i]
		}
	}

	bindings := []logic.Term{}
	for _, v := range obj.witness {
		bindings = append(bindings, obj.table.Resolve(v))
	}
	return &Answer{
		Text:     printer.Goal(obj.goal),
		Bindings: bindings,
	}
}
