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
	"strconv"
	"strings"
)

// Printer formats terms, goals and clauses. The output is the stable surface
// that solutions are compared against, so changes here are breaking changes.
// The zero value prints everything in its plain form.
type Printer struct {
	// Value formats a term that isn't a bound variable or an application,
	// such as an inference variable or a placeholder. If it is nil, or if
	// it returns false, the String method of the term is used.
	Value func(Term) (string, bool)

	// Exists returns the display strings for the variables of an
	// existential goal. When it returns a list, the quantifier itself is
	// omitted from the output and the bound variables print as the list
	// elements. When it returns nil, the quantifier is printed normally.
	Exists func(*Exists) []string

	// ForAll is called with the letters chosen for the variables of each
	// universal goal, before the body is printed.
	ForAll func(*ForAll, []string)
}

// Letter returns the display name of the i'th universally named variable.
func Letter(i int) string {
	s := string(rune('A' + i%26))
	if n := i / 26; n > 0 {
		s += strconv.Itoa(n)
	}
	return s
}

// Term formats a closed term.
func (obj *Printer) Term(term Term) string {
	return obj.state(nil).term(term)
}

// Goal formats a closed goal.
func (obj *Printer) Goal(goal Goal) string {
	return obj.state(nil).goal(goal)
}

// Clause formats a closed clause.
func (obj *Printer) Clause(clause *Clause) string {
	return obj.state(nil).clause(clause)
}

func (obj *Printer) state(names []string) *printState {
	return &printState{
		printer: obj,
		names:   names,
	}
}

// printState tracks the names of the bound variables in scope. The last name
// in the list belongs to Bound 0.
type printState struct {
	printer *Printer
	names   []string
	letters int
}

func (obj *printState) child(names []string, letters int) *printState {
	return &printState{
		printer: obj.printer,
		names:   names,
		letters: letters,
	}
}

// push allocates n letters and returns them in binder order along with the
// new state that has them in scope.
func (obj *printState) push(n int) ([]string, *printState) {
	letters := make([]string, n)
	for i := range letters {
		letters[i] = Letter(obj.letters + i)
	}
	return letters, obj.bind(letters, obj.letters+n)
}

func (obj *printState) bind(display []string, letters int) *printState {
	names := make([]string, 0, len(obj.names)+len(display))
	names = append(names, obj.names...)
	for i := len(display) - 1; i >= 0; i-- {
		names = append(names, display[i])
	}
	return obj.child(names, letters)
}

func (obj *printState) term(term Term) string {
	switch t := term.(type) {
	case *Bound:
		if t.Index >= 0 && t.Index < len(obj.names) {
			return obj.names[len(obj.names)-1-t.Index]
		}
		return t.String() // free variable

	case *App:
		return obj.app(t.Name, t.Args)
	}

	if obj.printer.Value != nil {
		if s, ok := obj.printer.Value(term); ok {
			return s
		}
	}
	return term.String()
}

func (obj *printState) app(name string, args []Term) string {
	s := strconv.Quote(name)
	if len(args) == 0 {
		return s
	}
	xs := []string{}
	for _, x := range args {
		xs = append(xs, obj.term(x))
	}
	return s + "(" + strings.Join(xs, ", ") + ")"
}

func (obj *printState) goal(goal Goal) string {
	switch g := goal.(type) {
	case *Apply:
		return obj.app(g.Name, g.Args)

	case *And:
		return "and(" + obj.goal(g.Left) + ", " + obj.goal(g.Right) + ")"

	case *Implies:
		return "implies(" + obj.clause(g.Premise) + " => " + obj.goal(g.Conclusion) + ")"

	case *ForAll:
		letters, inner := obj.push(g.Binders)
		if obj.printer.ForAll != nil {
			obj.printer.ForAll(g, letters)
		}
		return quantified("forall", letters, inner.goal(g.Body))

	case *Exists:
		if obj.printer.Exists != nil {
			if display := obj.printer.Exists(g); display != nil {
				return obj.bind(display, obj.letters).goal(g.Body)
			}
		}
		letters, inner := obj.push(g.Binders)
		return quantified("exists", letters, inner.goal(g.Body))

	case nil:
		return "true"
	}

	return "<unknown>"
}

func (obj *printState) clause(clause *Clause) string {
	letters, inner := obj.push(clause.Binders)
	body := inner.goal(clause.Conclusion)
	if clause.Condition != nil {
		body = "implies(" + inner.goal(clause.Condition) + " => " + body + ")"
	}
	return quantified("forall", letters, body)
}

func quantified(kind string, letters []string, body string) string {
	if len(letters) == 0 {
		return body
	}
	return kind + "(" + strings.Join(letters, ", ") + " -> " + body + ")"
}

func printTerm(term Term, names []string, printer *Printer) string {
	if printer == nil {
		printer = &Printer{}
	}
	return printer.state(names).term(term)
}

func printGoal(goal Goal, printer *Printer) string {
	if printer == nil {
		printer = &Printer{}
	}
	return printer.Goal(goal)
}

func printClause(clause *Clause, printer *Printer) string {
	if printer == nil {
		printer = &Printer{}
	}
	return printer.Clause(clause)
}
