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

//go:build !root

package unify

import (
	"testing"

	"github.com/hornsolve/hornsolve/logic"
)

func TestUnify0(t *testing.T) {
	type test struct { // an individual test
		name string
		// build returns the two sides, and the term whose resolution is
		// checked against exp when the unification succeeds.
		build func(*Table) (logic.Term, logic.Term, logic.Term)
		fail  bool
		exp   string
	}
	testCases := []test{}

	{
		testCases = append(testCases, test{
			name: "identical constructors",
			build: func(tab *Table) (logic.Term, logic.Term, logic.Term) {
				x := logic.C("Vec", logic.C("i32"))
				return x, logic.C("Vec", logic.C("i32")), x
			},
			exp: `"Vec"("i32")`,
		})
	}
	{
		testCases = append(testCases, test{
			name: "different names",
			build: func(tab *Table) (logic.Term, logic.Term, logic.Term) {
				return logic.C("i32"), logic.C("u32"), nil
			},
			fail: true,
		})
	}
	{
		testCases = append(testCases, test{
			name: "different arity",
			build: func(tab *Table) (logic.Term, logic.Term, logic.Term) {
				return logic.C("Vec"), logic.C("Vec", logic.C("u32")), nil
			},
			fail: true,
		})
	}
	{
		testCases = append(testCases, test{
			name: "variable binding",
			build: func(tab *Table) (logic.Term, logic.Term, logic.Term) {
				v := tab.NewVar(RootUniverse)
				return logic.C("Vec", v), logic.C("Vec", logic.C("i32")), v
			},
			exp: `"i32"`,
		})
	}
	{
		testCases = append(testCases, test{
			name: "variable chain",
			build: func(tab *Table) (logic.Term, logic.Term, logic.Term) {
				v0 := tab.NewVar(RootUniverse)
				v1 := tab.NewVar(RootUniverse)
				v2 := tab.NewVar(RootUniverse)
				a := logic.C("pair", v0, v1)
				b := logic.C("pair", v1, logic.C("Box", v2))
				return a, b, a
			},
			exp: `"pair"("Box"(?2), "Box"(?2))`,
		})
	}
	{
		testCases = append(testCases, test{
			name: "smallest id is displayed",
			build: func(tab *Table) (logic.Term, logic.Term, logic.Term) {
				v0 := tab.NewVar(RootUniverse)
				v1 := tab.NewVar(RootUniverse)
				return v1, v0, v1
			},
			exp: `?0`,
		})
	}
	{
		testCases = append(testCases, test{
			name: "occurs check",
			build: func(tab *Table) (logic.Term, logic.Term, logic.Term) {
				v := tab.NewVar(RootUniverse)
				return v, logic.C("Vec", v), nil
			},
			fail: true,
		})
	}
	{
		testCases = append(testCases, test{
			name: "placeholder equal",
			build: func(tab *Table) (logic.Term, logic.Term, logic.Term) {
				u := tab.NewUniverse()
				p := tab.NewPlaceholder(u, 0)
				v := tab.NewVar(u)
				return v, p, v
			},
			exp: `!1_0`,
		})
	}
	{
		testCases = append(testCases, test{
			name: "placeholders differ",
			build: func(tab *Table) (logic.Term, logic.Term, logic.Term) {
				u := tab.NewUniverse()
				return tab.NewPlaceholder(u, 0), tab.NewPlaceholder(u, 1), nil
			},
			fail: true,
		})
	}
	{
		testCases = append(testCases, test{
			name: "placeholder vs constructor",
			build: func(tab *Table) (logic.Term, logic.Term, logic.Term) {
				u := tab.NewUniverse()
				return tab.NewPlaceholder(u, 0), logic.C("bar"), nil
			},
			fail: true,
		})
	}
	{
		testCases = append(testCases, test{
			name: "placeholder escape",
			build: func(tab *Table) (logic.Term, logic.Term, logic.Term) {
				v := tab.NewVar(RootUniverse) // created outside
				u := tab.NewUniverse()
				return v, logic.C("Box", tab.NewPlaceholder(u, 0)), nil
			},
			fail: true,
		})
	}
	{
		testCases = append(testCases, test{
			name: "placeholder escape through a merged variable",
			build: func(tab *Table) (logic.Term, logic.Term, logic.Term) {
				outer := tab.NewVar(RootUniverse)
				u := tab.NewUniverse()
				inner := tab.NewVar(u)
				if err := tab.Unify(outer, inner); err != nil {
					panic("bad test")
				}
				return inner, tab.NewPlaceholder(u, 0), nil
			},
			fail: true,
		})
	}

	for index, tc := range testCases { // run all the tests
		name, build, fail, exp := tc.name, tc.build, tc.fail, tc.exp
		t.Run(name, func(t *testing.T) {
			tab := NewTable()
			a, b, check := build(tab)
			err := tab.Unify(a, b)
			if !fail && err != nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: unify failed with: %+v", index, err)
				return
			}
			if fail && err == nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: unify passed, expected fail", index)
				return
			}
			if fail {
				return
			}
			if out := tab.Resolve(check).String(); out != exp {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: expected: %s", index, exp)
				t.Errorf("test #%d:   actual: %s", index, out)
			}
		})
	}
}

func TestRollback0(t *testing.T) {
	tab := NewTable()
	v0 := tab.NewVar(RootUniverse)
	v1 := tab.NewVar(RootUniverse)

	if err := tab.Unify(v0, logic.C("pair", v1, logic.C("u32"))); err != nil {
		t.Errorf("unify failed with: %+v", err)
		return
	}
	snap := tab.Snapshot()

	if err := tab.Unify(v1, logic.C("i32")); err != nil {
		t.Errorf("unify failed with: %+v", err)
		return
	}
	if s := tab.Resolve(v0).String(); s != `"pair"("i32", "u32")` {
		t.Errorf("unexpected binding: %s", s)
	}

	tab.Rollback(snap)
	if s := tab.Resolve(v0).String(); s != `"pair"(?1, "u32")` {
		t.Errorf("rollback did not undo the binding: %s", s)
	}

	// a failed unify must be rolled back by the caller
	snap = tab.Snapshot()
	if err := tab.Unify(logic.C("pair", v1, logic.C("a")), logic.C("pair", logic.C("b"), logic.C("c"))); err == nil {
		t.Errorf("expected unify to fail")
	}
	tab.Rollback(snap)
	if s := tab.Resolve(v1).String(); s != `?1` {
		t.Errorf("rollback did not undo a partial unify: %s", s)
	}
}

func TestUniverse0(t *testing.T) {
	tab := NewTable()
	outer := tab.NewVar(RootUniverse)
	u := tab.NewUniverse()
	inner := tab.NewVar(u)

	if i := tab.Universe(inner); i != u {
		t.Errorf("expected universe %d, got: %d", u, i)
	}
	// binding outer to a term with inner pulls inner outwards
	if err := tab.Unify(outer, logic.C("Box", inner)); err != nil {
		t.Errorf("unify failed with: %+v", err)
		return
	}
	if i := tab.Universe(inner); i != RootUniverse {
		t.Errorf("expected universe %d, got: %d", RootUniverse, i)
	}
	if err := tab.Unify(inner, tab.NewPlaceholder(u, 0)); err == nil {
		t.Errorf("expected the placeholder to be rejected")
	}
}
