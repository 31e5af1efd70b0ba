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
	"fmt"
	"strings"

	"github.com/hornsolve/hornsolve/logic"
)

const (
	// AmbiguousSentinel is the solution string for an ambiguous goal.
	AmbiguousSentinel = "<<ambiguous>>"

	// OverflowSentinel is the solution string for a goal that could not be
	// decided within the depth bound.
	OverflowSentinel = "<<overflow>>"
)

// Kind is the outcome of a proof attempt.
type Kind int

const (
	// None means that no proof was found.
	None Kind = iota

	// Unique means that exactly one proof was found.
	Unique

	// Multiple means that several proofs were enumerated. Only an
	// enumerating strategy produces this.
	Multiple

	// Ambiguous means that the goal could hold in more than one way, and
	// the strategy refused to pick one.
	Ambiguous

	// Overflow means that the depth bound was exceeded.
	Overflow
)

// String returns the name of the kind.
func (obj Kind) String() string {
	switch obj {
	case None:
		return "none"
	case Unique:
		return "unique"
	case Multiple:
		return "multiple"
	case Ambiguous:
		return "ambiguous"
	case Overflow:
		return "overflow"
	}
	return fmt.Sprintf("kind(%d)", int(obj))
}

// Answer is one successful proof of a goal.
type Answer struct {
	// Text is the goal as it was proven, with the existential variables
	// of the top-level goal replaced by their bindings.
	Text string

	// Bindings are the resolved values of the existential variables of
	// the top-level goal, in the order they appear in the goal. Anything
	// that was left unconstrained is still an inference variable.
	Bindings []logic.Term
}

// Solution is the result of solving one top-level goal.
type Solution struct {
	Kind    Kind
	Answers []*Answer
}

// NewSolution builds a solution from the list of answers that a search found.
func NewSolution(answers []*Answer) *Solution {
	kind := None
	switch len(answers) {
	case 0:
	case 1:
		kind = Unique
	default:
		kind = Multiple
	}
	return &Solution{
		Kind:    kind,
		Answers: answers,
	}
}

// Provable returns true if the goal was proven. An ambiguous answer is not a
// proof, but each of the enumerated answers of a Multiple solution is one.
func (obj *Solution) Provable() bool {
	return obj != nil && (obj.Kind == Unique || obj.Kind == Multiple)
}

// Strings returns the list of solution strings. This is the stable form used
// for comparing results. The ambiguous and overflow outcomes are represented by
// a single sentinel string, and no solution is an empty list.
func (obj *Solution) Strings() []string {
	if obj == nil {
		return []string{}
	}
	switch obj.Kind {
	case Ambiguous:
		return []string{AmbiguousSentinel}
	case Overflow:
		return []string{OverflowSentinel}
	}
	result := []string{}
	for _, x := range obj.Answers {
		result = append(result, x.Text)
	}
	return result
}

// String returns a human readable representation of the solution.
func (obj *Solution) String() string {
	if obj == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: [%s]", obj.Kind, strings.Join(obj.Strings(), ", "))
}
