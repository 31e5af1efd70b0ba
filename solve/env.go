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

package solve

import (
	"github.com/hornsolve/hornsolve/logic"
	"github.com/hornsolve/hornsolve/util/errwrap"
)

// ScopedClause is a clause together with the values of the goal binders that
// were in scope where it was introduced. Clauses of the root environment are
// closed, so their frame is empty.
type ScopedClause struct {
	Clause *logic.Clause
	Frame  []logic.Term
}

// Environment is one frame of the chain of clauses that is visible to a goal.
// It is never modified after it was built. Nested proofs extend it by building
// a child, so that siblings and parents never see the extension.
type Environment struct {
	parent  *Environment
	clauses []*ScopedClause

	// index is only built for the root, which usually holds the bulk of
	// the program. Local frames are short and are scanned.
	index map[string][]*ScopedClause
}

// NewEnvironment builds an environment frame with these closed clauses on top
// of the parent. The parent may be nil, in which case this is a root.
func NewEnvironment(parent *Environment, clauses []*logic.Clause) *Environment {
	obj := &Environment{
		parent: parent,
	}
	for _, clause := range clauses {
		obj.clauses = append(obj.clauses, &ScopedClause{Clause: clause})
	}
	if parent == nil {
		obj.index = make(map[string][]*ScopedClause)
		for _, sc := range obj.clauses {
			if sc.Clause == nil || sc.Clause.Conclusion == nil {
				continue // caught by Validate
			}
			name := sc.Clause.Conclusion.Name
			obj.index[name] = append(obj.index[name], sc)
		}
	}
	return obj
}

// Extend returns a child environment which additionally contains this clause.
// The frame holds the values of the bound variables that the clause refers to
// outside of its own binders.
func (obj *Environment) Extend(clause *logic.Clause, frame []logic.Term) *Environment {
	return &Environment{
		parent: obj,
		clauses: []*ScopedClause{
			{
				Clause: clause,
				Frame:  frame,
			},
		},
	}
}

// Parent returns the enclosing environment, or nil for a root.
func (obj *Environment) Parent() *Environment {
	return obj.parent
}

// Clauses returns the clauses of this frame only, in registration order.
func (obj *Environment) Clauses() []*ScopedClause {
	return obj.clauses
}

// Len returns the number of clauses that are visible from here.
func (obj *Environment) Len() int {
	count := 0
	for env := obj; env != nil; env = env.parent {
		count += len(env.clauses)
	}
	return count
}

// Candidates returns every visible clause whose conclusion has this name. The
// most recently introduced frames come first, and within a frame the clauses
// keep their registration order.
func (obj *Environment) Candidates(name string) []*ScopedClause {
	result := []*ScopedClause{}
	for env := obj; env != nil; env = env.parent {
		if env.index != nil {
			result = append(result, env.index[name]...)
			continue
		}
		for _, sc := range env.clauses {
			if sc.Clause.Conclusion.Name == name {
				result = append(result, sc)
			}
		}
	}
	return result
}

// Validate checks that every closed clause in the chain is well formed. Local
// clauses that were added with Extend are skipped, since they come from goals
// which are validated on their own.
func (obj *Environment) Validate() error {
	for env := obj; env != nil; env = env.parent {
		for i, sc := range env.clauses {
			if sc.Frame != nil {
				continue
			}
			if err := logic.ValidateClause(sc.Clause, 0); err != nil {
				return errwrap.Wrapf(err, "invalid clause #%d", i)
			}
		}
	}
	return nil
}
