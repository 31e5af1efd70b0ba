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

package scenario

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/hornsolve/hornsolve/logic"
	"github.com/hornsolve/hornsolve/util/errwrap"
	"github.com/kylelemons/godebug/pretty"
	"github.com/sanity-io/litter"
	"github.com/spf13/afero"
)

var (
	c = logic.C
	b = logic.B
)

func TestParseGoal0(t *testing.T) {
	type test struct { // an individual test
		name string
		yaml string
		fail bool
		exp  logic.Goal
	}
	testCases := []test{}

	{
		testCases = append(testCases, test{
			name: "apply",
			yaml: `goal: {apply: foo, args: [bar, {bound: 0}, {app: Vec, args: [i32]}]}`,
			exp:  logic.NewApply("foo", c("bar"), b(0), c("Vec", c("i32"))),
		})
	}
	{
		testCases = append(testCases, test{
			name: "apply without args",
			yaml: `goal: {apply: foo}`,
			exp:  logic.NewApply("foo"),
		})
	}
	{
		testCases = append(testCases, test{
			name: "and nests to the right",
			yaml: `goal: {and: [{apply: a}, {apply: b}, {apply: c}]}`,
			exp: &logic.And{
				Left: logic.NewApply("a"),
				Right: &logic.And{
					Left:  logic.NewApply("b"),
					Right: logic.NewApply("c"),
				},
			},
		})
	}
	{
		testCases = append(testCases, test{
			name: "quantifiers",
			yaml: `
goal:
  forall:
    binders: 1
    body:
      exists:
        binders: 2
        body: {apply: foo, args: [{bound: 0}, {bound: 2}]}
`,
			exp: &logic.ForAll{
				Binders: 1,
				Body: &logic.Exists{
					Binders: 2,
					Body:    logic.NewApply("foo", b(0), b(2)),
				},
			},
		})
	}
	{
		testCases = append(testCases, test{
			name: "implies",
			yaml: `
goal:
  implies:
    premise:
      binders: 1
      condition: {apply: bar, args: [{bound: 0}]}
      conclusion: {apply: foo, args: [{bound: 0}]}
    conclusion: {apply: foo, args: [baz]}
`,
			exp: &logic.Implies{
				Premise: logic.Rule(1,
					logic.NewApply("bar", b(0)),
					logic.NewApply("foo", b(0)),
				),
				Conclusion: logic.NewApply("foo", c("baz")),
			},
		})
	}
	{
		testCases = append(testCases, test{
			name: "two kinds of goal",
			yaml: `goal: {apply: foo, and: [{apply: bar}]}`,
			fail: true,
		})
	}
	{
		testCases = append(testCases, test{
			name: "no kind of goal",
			yaml: `goal: {args: [foo]}`,
			fail: true,
		})
	}
	{
		testCases = append(testCases, test{
			name: "empty and",
			yaml: `goal: {and: []}`,
			fail: true,
		})
	}
	{
		testCases = append(testCases, test{
			name: "bound and app",
			yaml: `goal: {apply: foo, args: [{bound: 0, app: bar}]}`,
			fail: true,
		})
	}
	{
		testCases = append(testCases, test{
			name: "negative bound",
			yaml: `goal: {apply: foo, args: [{bound: -1}]}`,
			fail: true,
		})
	}
	{
		testCases = append(testCases, test{
			name: "unknown key",
			yaml: `goal: {apply: foo, nope: 1}`,
			fail: true,
		})
	}
	{
		testCases = append(testCases, test{
			name: "clause conclusion is not atomic",
			yaml: `
goal:
  implies:
    premise:
      conclusion: {and: [{apply: a}, {apply: b}]}
    conclusion: {apply: a}
`,
			fail: true,
		})
	}
	{
		testCases = append(testCases, test{
			name: "no goal",
			yaml: `expect: []`,
			fail: true,
		})
	}

	for index, tc := range testCases { // run all the tests
		name, data, fail, exp := tc.name, tc.yaml, tc.fail, tc.exp
		t.Run(fmt.Sprintf("test #%d (%s)", index, name), func(t *testing.T) {
			obj, err := Parse([]byte(data))
			if !fail && err != nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: parse failed with: %+v", index, err)
				return
			}
			if fail && err == nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: parse passed, expected fail", index)
				return
			}
			if fail {
				t.Logf("test #%d: expected error: %+v", index, err)
				return
			}

			if reflect.DeepEqual(obj.Goal.Goal, exp) {
				return
			}
			lo := &litter.Options{
				StripPackageNames: true,
				HideZeroValues:    true,
			}
			t.Errorf("test #%d: FAIL", index)
			t.Logf("test #%d:   actual: \n%s", index, lo.Sdump(obj.Goal.Goal))
			t.Logf("test #%d: expected: \n%s", index, lo.Sdump(exp))
			t.Logf("test #%d: diff:\n%s", index, pretty.Compare(obj.Goal.Goal, exp))
		})
	}
}

func TestProgram0(t *testing.T) {
	data := `
traits:
  - {name: Foo, params: 1, local: true}
  - {name: Bar, params: 1}
types:
  - {name: Vec, params: 1}
impls:
  - trait: Bar
    binders: 1
    params: [{app: Vec, args: [{bound: 0}]}]
    where:
      - {apply: Implemented, args: [Foo, {bound: 0}]}
    negative: true
clauses:
  - conclusion: {apply: foo, args: [bar]}
`
	obj, err := Parse([]byte(data))
	if err != nil {
		t.Errorf("parse failed with: %+v", err)
		return
	}
	prog, err := obj.Program(&Options{Strategy: "DepthFirstSearch", MaxDepth: 3})
	if err != nil {
		t.Errorf("program failed with: %+v", err)
		return
	}

	if prog.Strategy != "DepthFirstSearch" || prog.MaxDepth != 3 {
		t.Errorf("options were not applied: %s, %d", prog.Strategy, prog.MaxDepth)
	}
	if i, j := len(prog.Traits), len(prog.Types); i != 2 || j != 1 {
		t.Errorf("unexpected program: %d traits, %d types", i, j)
	}
	if len(prog.Clauses) != 1 || prog.Clauses[0].String() != logic.Fact(0, logic.NewApply("foo", c("bar"))).String() {
		t.Errorf("unexpected clauses: %v", prog.Clauses)
	}
	if len(prog.Impls) != 1 {
		t.Errorf("unexpected impls: %v", prog.Impls)
		return
	}
	impl := prog.Impls[0]
	if impl.ID != 0 || impl.Trait != 1 || !impl.Negative || impl.Local || impl.Binders != 1 {
		t.Errorf("unexpected impl: %s", spew.Sdump(impl))
	}
	if err := logic.TermCmp(impl.Params[0], c("Vec", b(0))); err != nil {
		t.Errorf("unexpected params: %+v", err)
	}
	exp := []*logic.Apply{logic.NewApply("Implemented", c("Foo"), b(0))}
	if !reflect.DeepEqual(impl.WhereClauses, exp) {
		t.Errorf("unexpected where clauses: %s", pretty.Compare(exp, impl.WhereClauses))
	}
}

func TestValidate0(t *testing.T) {
	testCases := []string{
		// unknown trait
		`impls: [{trait: Foo}]`,
		// duplicate trait
		"traits: [{name: Foo}, {name: Foo}]\nimpls: [{trait: Foo}]",
		// priority of a missing impl
		"traits: [{name: Foo}]\nimpls: [{trait: Foo}]\npriorities: {1: 0}",
		// answers without a goal
		"traits: [{name: Foo}]\nimpls: [{trait: Foo}]\nexpect: []",
	}
	for index, data := range testCases {
		if _, err := Parse([]byte(data)); err == nil {
			t.Errorf("test #%d: FAIL", index)
			t.Errorf("test #%d: parse passed, expected fail:\n%s", index, data)
		}
	}
}

func TestParseDir0(t *testing.T) {
	mmFs := afero.NewMemMapFs()
	afs := &afero.Afero{Fs: mmFs} // wrap so that we're implementing ioutil
	if err := afs.MkdirAll("/scenarios/nested", 0755); err != nil {
		t.Errorf("could not mkdir: %+v", err)
		return
	}

	files := map[string]string{
		"/scenarios/b.yaml":        `goal: {apply: foo}`,
		"/scenarios/a.yaml":        "name: first\ngoal: {apply: foo}",
		"/scenarios/notes.txt":     `not a scenario`,
		"/scenarios/nested/c.yaml": `goal: {apply: foo}`,
	}
	for name, data := range files {
		if err := afs.WriteFile(name, []byte(data), 0644); err != nil {
			t.Errorf("could not write %s: %+v", name, err)
			return
		}
	}

	list, err := ParseDir(afs, "/scenarios")
	if err != nil {
		t.Errorf("parse failed with: %+v", err)
		return
	}
	names := []string{}
	for _, x := range list {
		names = append(names, x.Name)
	}
	if exp := []string{"first", "b"}; !reflect.DeepEqual(names, exp) {
		t.Errorf("unexpected scenarios: %v", names)
	}

	if err := afs.WriteFile("/scenarios/z.yaml", []byte(`goal: {}`), 0644); err != nil {
		t.Errorf("could not write: %+v", err)
		return
	}
	if _, err := ParseDir(afs, "/scenarios"); err == nil {
		t.Errorf("expected an invalid file to fail the parse")
	}
	if _, err := ParseFile(afs, "/scenarios/missing.yaml"); err == nil {
		t.Errorf("expected a missing file to fail")
	}
}

func TestTestdata0(t *testing.T) {
	list, err := ParseDir(afero.NewOsFs(), "testdata")
	if err != nil {
		t.Errorf("parse failed with: %+v", err)
		return
	}
	if len(list) == 0 {
		t.Errorf("no scenarios found")
		return
	}

	for _, x := range list {
		obj := x
		t.Run(obj.Name, func(t *testing.T) {
			opts := &Options{
				Debug: testing.Verbose(),
				Logf: func(format string, v ...interface{}) {
					t.Logf(obj.Name+": "+format, v...)
				},
			}
			result, err := obj.Run(context.Background(), opts)
			if err != nil {
				t.Errorf("%s: run failed with: %+v", obj.Name, err)
				return
			}
			for _, e := range errwrap.Errors(obj.Verify(result)) {
				t.Errorf("%s: %+v", obj.Name, e)
			}
		})
	}
}

func TestVerify0(t *testing.T) {
	obj := &Scenario{
		Expect:     []string{"a"},
		Errors:     []string{},
		Priorities: map[int]int{0: 1, 1: 0},
	}
	result := &Result{
		Answers:    []string{"b"},
		Errors:     []string{"oops"},
		Priorities: map[int]int{0: 1, 1: 2, 2: 5},
	}
	if n := len(errwrap.Errors(obj.Verify(result))); n != 3 {
		t.Errorf("expected 3 mismatches, got: %d", n)
	}

	result = &Result{
		Answers:    []string{"a"},
		Errors:     []string{},
		Priorities: map[int]int{0: 1, 1: 0, 2: 5},
	}
	if err := obj.Verify(result); err != nil {
		t.Errorf("unexpected mismatch: %+v", err)
	}

	// the coherence checks didn't run
	result = &Result{
		Answers: []string{"a"},
	}
	if err := obj.Verify(result); err != nil {
		t.Errorf("unexpected mismatch: %+v", err)
	}
}
