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

// Package unify contains the inference table that the solvers use to bind
// existential variables to terms. Every change to the table can be rolled back
// to an earlier snapshot, so a search can try one alternative, abandon it, and
// try the next one without any of the old bindings leaking across.
package unify

import (
	"fmt"

	"github.com/hornsolve/hornsolve/logic"
	"github.com/hornsolve/hornsolve/util/disjoint"
)

// RootUniverse is the universe of everything that was created outside of any
// universal quantifier.
const RootUniverse = 0

// binding is the data stored for each set of unified variables.
type binding struct {
	// value is the term that the set is bound to, or nil if unbound.
	value logic.Term

	// id is the smallest variable id in the set. Unbound sets are always
	// displayed with this id, which keeps the output stable.
	id int

	// universe is the smallest universe of any variable in the set. The
	// set may only be bound to terms whose placeholders are visible there.
	universe int
}

// Table stores the inference variables of a single proof attempt.
type Table struct {
	elems     []*disjoint.Elem[binding]
	vars      []*logic.Var // canonical handle for each id
	log       *disjoint.Log[binding]
	universes int
}

// Snapshot is a position in the table history that can be rolled back to.
type Snapshot int

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		log: &disjoint.Log[binding]{},
	}
}

// NewVar creates a fresh unbound variable in the given universe.
func (obj *Table) NewVar(universe int) *logic.Var {
	id := len(obj.elems)
	elem := disjoint.NewElem[binding]()
	elem.Data = binding{
		id:       id,
		universe: universe,
	}
	v := &logic.Var{ID: id}
	obj.elems = append(obj.elems, elem)
	obj.vars = append(obj.vars, v)
	return v
}

// NewUniverse returns a universe that is nested inside every universe that was
// created before it.
func (obj *Table) NewUniverse() int {
	obj.universes++
	return obj.universes
}

// NewPlaceholder creates the index'th rigid variable of a universe.
func (obj *Table) NewPlaceholder(universe, index int) *logic.Placeholder {
	return &logic.Placeholder{
		Universe: universe,
		Index:    index,
	}
}

// Len returns the number of variables that were ever created.
func (obj *Table) Len() int {
	return len(obj.elems)
}

// Snapshot returns the current position in the history of the table.
func (obj *Table) Snapshot() Snapshot {
	return Snapshot(obj.log.Len())
}

// Rollback undoes every binding that was made after the snapshot was taken.
// Variables that were created since then stay allocated, but unbound.
func (obj *Table) Rollback(snapshot Snapshot) {
	obj.log.Undo(int(snapshot))
}

func (obj *Table) elem(v *logic.Var) *disjoint.Elem[binding] {
	if v.ID < 0 || v.ID >= len(obj.elems) {
		// programming error
		panic(fmt.Sprintf("variable %s is not part of this table", v))
	}
	return obj.elems[v.ID]
}

// Universe returns the universe that the variable currently lives in.
func (obj *Table) Universe(v *logic.Var) int {
	return obj.elem(v).Find().Data.universe
}

// Shallow follows variable bindings until it finds either a term which is not
// a variable, or an unbound variable. Unbound variables are returned as the
// canonical variable of their set.
func (obj *Table) Shallow(term logic.Term) logic.Term {
	for {
		v, ok := term.(*logic.Var)
		if !ok {
			return term
		}
		root := obj.elem(v).Find()
		if root.Data.value == nil {
			return obj.vars[root.Data.id]
		}
		term = root.Data.value
	}
}

// Resolve replaces every bound variable inside the term by its value, as deep
// as it goes. What is left are unbound variables, placeholders and constructors.
func (obj *Table) Resolve(term logic.Term) logic.Term {
	term = obj.Shallow(term)
	app, ok := term.(*logic.App)
	if !ok {
		return term
	}
	args := make([]logic.Term, len(app.Args))
	for i, x := range app.Args {
		args[i] = obj.Resolve(x)
	}
	return &logic.App{
		Name: app.Name,
		Args: args,
	}
}
