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

package logic

import (
	"fmt"
)

// Push returns a new frame which has the values of one more quantifier on top
// of the existing frame. The input frame is never modified, so it can be
// shared between sibling branches. Inside the new frame, Bound 0 is vals[0].
func Push(frame []Term, vals ...Term) []Term {
	result := make([]Term, 0, len(frame)+len(vals))
	result = append(result, frame...)
	for i := len(vals) - 1; i >= 0; i-- {
		result = append(result, vals[i])
	}
	return result
}

// Lookup returns the value that a bound variable refers to in this frame. It
// panics if the index escapes the frame, because validated goals can't do so.
func Lookup(frame []Term, index int) Term {
	if index < 0 || index >= len(frame) {
		// programming error
		panic(fmt.Sprintf("bound index %d escapes a frame of size %d", index, len(frame)))
	}
	return frame[len(frame)-1-index]
}

// Subst replaces every bound variable in the term by its value from the frame.
// Terms without bound variables are returned unchanged, and are not copied.
func Subst(term Term, frame []Term) Term {
	switch t := term.(type) {
	case *Bound:
		return Lookup(frame, t.Index)

	case *App:
		var args []Term // allocate lazily
		for i, arg := range t.Args {
			x := Subst(arg, frame)
			if x == arg && args == nil {
				continue
			}
			if args == nil {
				args = make([]Term, len(t.Args))
				copy(args, t.Args[:i])
			}
			args[i] = x
		}
		if args == nil {
			return t
		}
		return &App{
			Name: t.Name,
			Args: args,
		}
	}
	return term // *Var and *Placeholder
}

// SubstAll runs Subst on every term in the list.
func SubstAll(terms []Term, frame []Term) []Term {
	result := make([]Term, len(terms))
	for i, x := range terms {
		result[i] = Subst(x, frame)
	}
	return result
}

// Shift adds amount to every bound variable that is free at the given binder
// depth. This is what you need when you move a term underneath amount more
// binders.
func Shift(term Term, amount int) Term {
	return shiftTerm(term, amount, 0)
}

func shiftTerm(term Term, amount, cutoff int) Term {
	switch t := term.(type) {
	case *Bound:
		if t.Index < cutoff {
			return t
		}
		return &Bound{Index: t.Index + amount}

	case *App:
		args := make([]Term, len(t.Args))
		for i, arg := range t.Args {
			args[i] = shiftTerm(arg, amount, cutoff)
		}
		return &App{
			Name: t.Name,
			Args: args,
		}
	}
	return term
}

// ShiftGoal is like Shift, but for every term contained in a goal.
func ShiftGoal(goal Goal, amount int) Goal {
	return shiftGoal(goal, amount, 0)
}

// ShiftClause is like Shift, but for every term contained in a clause.
func ShiftClause(clause *Clause, amount int) *Clause {
	return shiftClause(clause, amount, 0)
}

func shiftGoal(goal Goal, amount, cutoff int) Goal {
	switch g := goal.(type) {
	case *Apply:
		return shiftApply(g, amount, cutoff)

	case *And:
		return &And{
			Left:  shiftGoal(g.Left, amount, cutoff),
			Right: shiftGoal(g.Right, amount, cutoff),
		}

	case *Implies:
		return &Implies{
			Premise:    shiftClause(g.Premise, amount, cutoff),
			Conclusion: shiftGoal(g.Conclusion, amount, cutoff),
		}

	case *ForAll:
		return &ForAll{
			Binders: g.Binders,
			Body:    shiftGoal(g.Body, amount, cutoff+g.Binders),
		}

	case *Exists:
		return &Exists{
			Binders: g.Binders,
			Body:    shiftGoal(g.Body, amount, cutoff+g.Binders),
		}
	}

	// programming error
	panic(fmt.Sprintf("unhandled goal: %T", goal))
}

func shiftClause(clause *Clause, amount, cutoff int) *Clause {
	inner := cutoff + clause.Binders
	result := &Clause{
		Binders:    clause.Binders,
		Conclusion: shiftApply(clause.Conclusion, amount, inner),
	}
	if clause.Condition != nil {
		result.Condition = shiftGoal(clause.Condition, amount, inner)
	}
	return result
}

func shiftApply(apply *Apply, amount, cutoff int) *Apply {
	args := make([]Term, len(apply.Args))
	for i, arg := range apply.Args {
		args[i] = shiftTerm(arg, amount, cutoff)
	}
	return &Apply{
		Name: apply.Name,
		Args: args,
	}
}
