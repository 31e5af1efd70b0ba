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

// Package logic contains the term, goal and clause model that the solvers
// operate on. Everything in here is immutable once constructed. Variables that
// are introduced by a quantifier are referenced with de Bruijn indices, so that
// index zero always points at the innermost enclosing binder, and no names or
// symbol tables are needed to avoid capture.
package logic

import (
	"fmt"
)

// Term is an atomic value. It is one of *Bound, *Var, *Placeholder or *App.
type Term interface {
	fmt.Stringer

	isTerm()
}

// Bound is a reference to a variable bound by an enclosing quantifier. The
// Index counts variables outwards, starting at zero for the innermost binder.
// When a quantifier binds n variables, indices 0 to n-1 name them in order, and
// an index of n or more continues with the next enclosing quantifier.
type Bound struct {
	Index int
}

// Var is an existential inference variable. These are only ever created by a
// solver, and they are unique within a single proof attempt.
type Var struct {
	ID int
}

// Placeholder is a rigid variable that was introduced by a universal
// quantifier. It can only be equal to itself. The Universe is used to stop it
// from escaping into variables that were created outside of its scope.
type Placeholder struct {
	Universe int
	Index    int
}

// App is an applied constructor: a name plus an ordered list of arguments. The
// engine treats the name as an opaque label.
type App struct {
	Name string
	Args []Term
}

func (*Bound) isTerm()       {}
func (*Var) isTerm()         {}
func (*Placeholder) isTerm() {}
func (*App) isTerm()         {}

// String returns a representation of this bound variable.
func (obj *Bound) String() string {
	return fmt.Sprintf("^%d", obj.Index)
}

// String returns a representation of this inference variable.
func (obj *Var) String() string {
	return fmt.Sprintf("?%d", obj.ID)
}

// String returns a representation of this placeholder.
func (obj *Placeholder) String() string {
	return fmt.Sprintf("!%d_%d", obj.Universe, obj.Index)
}

// String returns a representation of this constructor application.
func (obj *App) String() string {
	return printTerm(obj, nil, nil)
}

// B is a short helper which builds a bound variable reference.
func B(index int) *Bound {
	return &Bound{Index: index}
}

// C is a short helper which builds a constructor application.
func C(name string, args ...Term) *App {
	return &App{
		Name: name,
		Args: args,
	}
}

// TermCmp compares two terms structurally. It returns nil if they are
// identical, and an error describing the first difference otherwise. Variables
// are compared by identity, and no unification is performed.
func TermCmp(t1, t2 Term) error {
	switch x := t1.(type) {
	case *Bound:
		y, ok := t2.(*Bound)
		if !ok || x.Index != y.Index {
			return fmt.Errorf("term %s != %s", t1, t2)
		}
		return nil

	case *Var:
		y, ok := t2.(*Var)
		if !ok || x.ID != y.ID {
			return fmt.Errorf("term %s != %s", t1, t2)
		}
		return nil

	case *Placeholder:
		y, ok := t2.(*Placeholder)
		if !ok || *x != *y {
			return fmt.Errorf("term %s != %s", t1, t2)
		}
		return nil

	case *App:
		y, ok := t2.(*App)
		if !ok {
			return fmt.Errorf("term %s != %s", t1, t2)
		}
		if x.Name != y.Name {
			return fmt.Errorf("name %q != %q", x.Name, y.Name)
		}
		if len(x.Args) != len(y.Args) {
			return fmt.Errorf("arity of %q differs: %d != %d", x.Name, len(x.Args), len(y.Args))
		}
		for i := range x.Args {
			if err := TermCmp(x.Args[i], y.Args[i]); err != nil {
				return err
			}
		}
		return nil
	}

	// programming error
	panic(fmt.Sprintf("unhandled term: %T", t1))
}
