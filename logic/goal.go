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

// Goal is a proposition to prove. It is one of *Apply, *And, *Implies, *ForAll
// or *Exists.
type Goal interface {
	fmt.Stringer

	isGoal()
}

// Apply is an atomic fact or obligation.
type Apply struct {
	Name string
	Args []Term
}

// And holds when both of its sides hold.
type And struct {
	Left  Goal
	Right Goal
}

// Implies holds when the Conclusion holds in an environment that has been
// extended with the Premise.
type Implies struct {
	Premise    *Clause
	Conclusion Goal
}

// ForAll holds if the Body holds for every instantiation of the newly bound
// variables. It is proven once, with rigid placeholders, and never by case
// analysis.
type ForAll struct {
	Binders int
	Body    Goal
}

// Exists holds if some instantiation of the newly bound variables makes the
// Body hold. The discovered instantiation is part of the solution.
type Exists struct {
	Binders int
	Body    Goal
}

func (*Apply) isGoal()   {}
func (*And) isGoal()     {}
func (*Implies) isGoal() {}
func (*ForAll) isGoal()  {}
func (*Exists) isGoal()  {}

// Clause is a Horn rule: for all Binders, the Condition implies the
// Conclusion. A nil Condition is always true, which makes the clause a fact.
type Clause struct {
	Binders    int
	Condition  Goal
	Conclusion *Apply
}

// String returns a representation of this goal.
func (obj *Apply) String() string { return printGoal(obj, nil) }

// String returns a representation of this goal.
func (obj *And) String() string { return printGoal(obj, nil) }

// String returns a representation of this goal.
func (obj *Implies) String() string { return printGoal(obj, nil) }

// String returns a representation of this goal.
func (obj *ForAll) String() string { return printGoal(obj, nil) }

// String returns a representation of this goal.
func (obj *Exists) String() string { return printGoal(obj, nil) }

// String returns a representation of this clause.
func (obj *Clause) String() string { return printClause(obj, nil) }

// NewApply builds an atomic goal.
func NewApply(name string, args ...Term) *Apply {
	return &Apply{
		Name: name,
		Args: args,
	}
}

// NewAnd folds the list of goals into a right-nested conjunction. It returns
// nil for an empty list, since there is no goal which is always true.
func NewAnd(goals ...Goal) Goal {
	if len(goals) == 0 {
		return nil
	}
	result := goals[len(goals)-1]
	for i := len(goals) - 2; i >= 0; i-- {
		result = &And{
			Left:  goals[i],
			Right: result,
		}
	}
	return result
}

// Fact builds a clause without a condition.
func Fact(binders int, conclusion *Apply) *Clause {
	return &Clause{
		Binders:    binders,
		Conclusion: conclusion,
	}
}

// Rule builds a clause with a condition.
func Rule(binders int, condition Goal, conclusion *Apply) *Clause {
	return &Clause{
		Binders:    binders,
		Condition:  condition,
		Conclusion: conclusion,
	}
}

// Validate checks that the goal is well formed when it appears underneath the
// given number of bound variables. A closed goal is validated with depth zero.
func Validate(goal Goal, depth int) error {
	switch g := goal.(type) {
	case *Apply:
		if g == nil {
			return fmt.Errorf("nil apply")
		}
		for _, arg := range g.Args {
			if err := validateTerm(arg, depth); err != nil {
				return fmt.Errorf("in %q: %v", g.Name, err)
			}
		}
		return nil

	case *And:
		if g == nil || g.Left == nil || g.Right == nil {
			return fmt.Errorf("incomplete and")
		}
		if err := Validate(g.Left, depth); err != nil {
			return err
		}
		return Validate(g.Right, depth)

	case *Implies:
		if g == nil || g.Premise == nil || g.Conclusion == nil {
			return fmt.Errorf("incomplete implies")
		}
		if err := ValidateClause(g.Premise, depth); err != nil {
			return err
		}
		return Validate(g.Conclusion, depth)

	case *ForAll:
		if g == nil || g.Body == nil {
			return fmt.Errorf("incomplete forall")
		}
		if g.Binders < 0 {
			return fmt.Errorf("negative binder count")
		}
		return Validate(g.Body, depth+g.Binders)

	case *Exists:
		if g == nil || g.Body == nil {
			return fmt.Errorf("incomplete exists")
		}
		if g.Binders < 0 {
			return fmt.Errorf("negative binder count")
		}
		return Validate(g.Body, depth+g.Binders)

	case nil:
		return fmt.Errorf("nil goal")
	}

	return fmt.Errorf("unhandled goal: %T", goal)
}

// ValidateClause checks that the clause is well formed when it appears
// underneath the given number of bound variables.
func ValidateClause(clause *Clause, depth int) error {
	if clause == nil {
		return fmt.Errorf("nil clause")
	}
	if clause.Binders < 0 {
		return fmt.Errorf("negative binder count")
	}
	if clause.Conclusion == nil {
		return fmt.Errorf("clause has no conclusion")
	}
	inner := depth + clause.Binders
	if clause.Condition != nil {
		if err := Validate(clause.Condition, inner); err != nil {
			return err
		}
	}
	return Validate(clause.Conclusion, inner)
}

func validateTerm(term Term, depth int) error {
	switch t := term.(type) {
	case *Bound:
		if t.Index < 0 || t.Index >= depth {
			return fmt.Errorf("bound variable %s escapes its binders", t)
		}
	case *App:
		for _, arg := range t.Args {
			if err := validateTerm(arg, depth); err != nil {
				return err
			}
		}
	case *Var, *Placeholder:
		return fmt.Errorf("solver value %s in input", t)
	case nil:
		return fmt.Errorf("nil term")
	}
	return nil
}
