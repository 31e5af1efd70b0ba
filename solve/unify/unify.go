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

package unify

import (
	"fmt"

	"github.com/hornsolve/hornsolve/logic"
	"github.com/hornsolve/hornsolve/util/disjoint"
)

// Unify takes two terms and tries to make them equal by binding variables. It
// works by drawing conclusions from the assertion that the two sides are equal:
// that a variable on the left must be equal to the sub-tree at the same
// position on the right, and similarly for variables on the right. If this
// errors, some bindings may already have been made, so the caller must roll
// back to a snapshot taken before the call.
func (obj *Table) Unify(t1, t2 logic.Term) error {
	a := obj.Shallow(t1)
	b := obj.Shallow(t2)

	// Both of these are of the form ?1 and ?2 so we merge the sets.
	v1, ok1 := a.(*logic.Var)
	v2, ok2 := b.(*logic.Var)
	if ok1 && ok2 {
		return obj.union(v1, v2)
	}
	if ok1 {
		return obj.bind(v1, b)
	}
	if ok2 {
		return obj.bind(v2, a)
	}

	switch x := a.(type) {
	case *logic.Placeholder:
		y, ok := b.(*logic.Placeholder)
		if !ok || *x != *y {
			return fmt.Errorf("placeholder %s != %s", a, b)
		}
		return nil

	case *logic.App:
		y, ok := b.(*logic.App)
		if !ok {
			return fmt.Errorf("constructor %s != %s", a, b)
		}
		if x.Name != y.Name {
			return fmt.Errorf("constructor %q != %q", x.Name, y.Name)
		}
		if len(x.Args) != len(y.Args) {
			return fmt.Errorf("arity of %q differs: %d != %d", x.Name, len(x.Args), len(y.Args))
		}
		for i := range x.Args {
			if err := obj.Unify(x.Args[i], y.Args[i]); err != nil {
				return err
			}
		}
		return nil
	}

	// programming error
	panic(fmt.Sprintf("unhandled term in unify: %T", a))
}

// union merges two unbound variables.
func (obj *Table) union(v1, v2 *logic.Var) error {
	merge := func(b1, b2 binding) (binding, error) {
		return binding{
			id:       min(b1.id, b2.id),
			universe: min(b1.universe, b2.universe),
		}, nil
	}
	return disjoint.Merge(obj.elem(v1), obj.elem(v2), merge, obj.log)
}

// bind learns that the unbound variable v is equal to the term, which is not
// itself a variable.
func (obj *Table) bind(v *logic.Var, term logic.Term) error {
	root := obj.elem(v).Find()
	if err := obj.occursCheck(root, root.Data.universe, term); err != nil {
		return err
	}
	disjoint.SetData(root, binding{
		value:    term,
		id:       root.Data.id,
		universe: root.Data.universe,
	}, obj.log)
	return nil
}

// occursCheck determines if the variable set of root exists inside of this
// term. This is important so that we can avoid infinite self-referential
// terms. It also errors if the term contains a placeholder which can't be
// named from the given universe, and it moves any unbound variables of the
// term that live in a deeper universe up into the given one, since they're
// about to become equal to something that lives there.
func (obj *Table) occursCheck(root *disjoint.Elem[binding], universe int, term logic.Term) error {
	switch x := obj.Shallow(term).(type) {
	case *logic.Var:
		elem := obj.elem(x).Find()
		if elem == root {
			return fmt.Errorf("variable %s occurs in its own binding", obj.vars[root.Data.id])
		}
		if elem.Data.universe > universe {
			disjoint.SetData(elem, binding{
				id:       elem.Data.id,
				universe: universe,
			}, obj.log)
		}
		return nil

	case *logic.Placeholder:
		if x.Universe > universe {
			return fmt.Errorf("placeholder %s escapes into universe %d", x, universe)
		}
		return nil

	case *logic.App:
		for _, arg := range x.Args {
			if err := obj.occursCheck(root, universe, arg); err != nil {
				return err
			}
		}
		return nil
	}

	// programming error
	panic(fmt.Sprintf("unhandled term in occurs check: %T", term))
}
