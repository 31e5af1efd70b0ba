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

package coherence

import (
	"context"

	"github.com/hornsolve/hornsolve/logic"
	"github.com/hornsolve/hornsolve/solve"
)

const (
	// equateName is the name of the private equality relation that the
	// overlap goals use. It is introduced with an implication, so it can't
	// clash with anything the program defines outside of these goals.
	equateName = "$equate"

	// tupleName is the constructor that bundles the params of an impl.
	tupleName = "$tuple"
)

// Specializer answers the two questions that the specialization forest is
// built from.
type Specializer interface {
	// Disjoint returns true if no type can satisfy both impls.
	Disjoint(ctx context.Context, a, b *ImplDatum) (bool, error)

	// Specializes returns true if every type that satisfies more also
	// satisfies less.
	Specializes(ctx context.Context, more, less *ImplDatum) (bool, error)
}

// SolverSpecializer answers the specialization questions by asking the database
// to solve goals that encode them.
type SolverSpecializer struct {
	DB Database
}

// equate is the clause forall<T> { $equate(T, T) }.
func equate() *logic.Clause {
	return logic.Fact(1, logic.NewApply(equateName, logic.B(0), logic.B(0)))
}

// tuple bundles the params of an impl, shifted underneath amount more binders.
func tuple(impl *ImplDatum, amount int) logic.Term {
	args := []logic.Term{}
	for _, x := range impl.Params {
		args = append(args, logic.Shift(x, amount))
	}
	return logic.C(tupleName, args...)
}

// where returns the where clauses of an impl, shifted underneath amount more
// binders.
func where(impl *ImplDatum, amount int) []logic.Goal {
	goals := []logic.Goal{}
	for _, x := range impl.WhereClauses {
		goals = append(goals, logic.ShiftGoal(x, amount))
	}
	return goals
}

// OverlapGoal returns the goal which holds if both impls apply to some type:
//
//	exists<A.., B..> { $equate(A's params, B's params), A's where, B's where }
//
// The binders of a come first, so the terms of b move underneath them.
func OverlapGoal(a, b *ImplDatum) logic.Goal {
	goals := []logic.Goal{
		logic.NewApply(equateName, tuple(a, 0), tuple(b, a.Binders)),
	}
	goals = append(goals, where(a, 0)...)
	goals = append(goals, where(b, a.Binders)...)

	return &logic.Implies{
		Premise: equate(),
		Conclusion: &logic.Exists{
			Binders: a.Binders + b.Binders,
			Body:    logic.NewAnd(goals...),
		},
	}
}

// SpecializesGoal returns the goal which holds if more specializes less:
//
//	forall<M..> { if (more's where) { exists<L..> { $equate(more's params, less's params), less's where } } }
func SpecializesGoal(more, less *ImplDatum) logic.Goal {
	goals := []logic.Goal{
		logic.NewApply(equateName, tuple(more, less.Binders), tuple(less, 0)),
	}
	goals = append(goals, where(less, 0)...)

	var body logic.Goal = &logic.Exists{
		Binders: less.Binders,
		Body:    logic.NewAnd(goals...),
	}
	for i := len(more.WhereClauses) - 1; i >= 0; i-- {
		body = &logic.Implies{
			Premise:    logic.Fact(0, more.WhereClauses[i]),
			Conclusion: body,
		}
	}

	return &logic.Implies{
		Premise: equate(),
		Conclusion: &logic.ForAll{
			Binders: more.Binders,
			Body:    body,
		},
	}
}

// Disjoint returns true if the overlap goal has no solution. An ambiguous or
// overflowing answer counts as an overlap.
func (obj *SolverSpecializer) Disjoint(ctx context.Context, a, b *ImplDatum) (bool, error) {
	solution, err := obj.DB.Solve(ctx, OverlapGoal(a, b))
	if err != nil {
		return false, err
	}
	return solution.Kind == solve.None, nil
}

// Specializes returns true if the specialization goal is provable.
func (obj *SolverSpecializer) Specializes(ctx context.Context, more, less *ImplDatum) (bool, error) {
	solution, err := obj.DB.Solve(ctx, SpecializesGoal(more, less))
	if err != nil {
		return false, err
	}
	return solution.Provable(), nil
}
