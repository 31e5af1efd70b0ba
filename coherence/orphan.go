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
	"github.com/hornsolve/hornsolve/util/errwrap"
)

// OrphanGoal returns the goal that must be provable for a local impl to pass
// the orphan check. For `impl<T> Trait for MyType<T>` that is:
//
//	forall<T> { LocalImplAllowed(Trait, MyType<T>) }
//
// The polarity of the impl is ignored.
func OrphanGoal(db Database, impl *ImplDatum) logic.Goal {
	args := append([]logic.Term{logic.C(db.TypeName(impl.Trait))}, impl.Params...)
	return &logic.ForAll{
		Binders: impl.Binders,
		Body:    logic.NewApply(LocalImplAllowedName, args...),
	}
}

// PerformOrphanCheck tests if a local impl violates the orphan rules. Only a
// proof passes. If the goal fails, or if the answer is ambiguous, this returns
// a FailedOrphanCheck error naming the trait.
func PerformOrphanCheck(ctx context.Context, db Database, id ImplID) error {
	impl := db.ImplDatum(id)
	solution, err := db.Solve(ctx, OrphanGoal(db, impl))
	if err != nil {
		return errwrap.Wrapf(err, "orphan check of %s failed", impl)
	}
	if solution.Provable() {
		return nil
	}
	return &CoherenceError{
		Kind:  FailedOrphanCheck,
		Trait: db.TypeName(impl.Trait),
	}
}
