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

// Package solve contains the shared machinery of the proof search: the clause
// environment, the per-query proof state, the solution format, and a registry
// of the interchangeable search strategies which are implemented in the
// sub-packages.
package solve

import (
	"context"
	"fmt"
	"sort"

	"github.com/hornsolve/hornsolve/logic"
)

const (
	// DefaultMaxDepth is the number of nested clause applications that a
	// search may perform before it reports an overflow.
	DefaultMaxDepth = 32

	// ErrNotFound is returned when looking up a strategy that doesn't
	// exist.
	ErrNotFound = Error("strategy not found")
)

// Error is a constant error type that implements error.
type Error string

// Error fulfills the error interface of this type.
func (e Error) Error() string { return string(e) }

// Init contains some handles that are used to initialize every solver. Each
// individual solver can choose to omit using some of the fields.
type Init struct {
	// MaxDepth is the bound on nested clause applications. If it is zero,
	// then DefaultMaxDepth is used.
	MaxDepth int

	Debug bool
	Logf  func(format string, v ...interface{})
}

// Depth returns the effective depth bound of this init struct.
func (obj *Init) Depth() int {
	if obj == nil || obj.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return obj.MaxDepth
}

// Solver is the general interface that any search strategy needs to implement.
type Solver interface {
	// Init initializes the solver struct before first use.
	Init(*Init) error

	// Solve proves the goal in the environment. Proof outcomes, including
	// failure, ambiguity and overflow, are all part of the solution. An
	// error is only returned for malformed input, or if the context
	// closes, which the solver must notice as soon as possible.
	Solve(ctx context.Context, env *Environment, goal logic.Goal) (*Solution, error)
}

// registeredSolvers is a global map of all possible search strategies which can
// be used. You should never touch this map directly. Use methods like Register
// instead.
var registeredSolvers = make(map[string]func() Solver) // must initialize

// Register takes a solver and its name and makes it available for use. It is
// commonly called in the init() method of the solver at program startup. There
// is no matching Unregister function.
func Register(name string, solver func() Solver) {
	if _, exists := registeredSolvers[name]; exists {
		panic(fmt.Sprintf("a solver named %s is already registered", name))
	}
	registeredSolvers[name] = solver
}

// Lookup returns a new instance of the named solver.
func Lookup(name string) (Solver, error) {
	solver, exists := registeredSolvers[name]
	if !exists {
		return nil, ErrNotFound
	}
	return solver(), nil
}

// LookupDefault attempts to return a "default" solver.
func LookupDefault() (Solver, error) {
	if len(registeredSolvers) == 0 {
		return nil, fmt.Errorf("no registered solvers")
	}
	if len(registeredSolvers) == 1 {
		for _, solver := range registeredSolvers {
			return solver(), nil // return the first and only one
		}
	}

	// If one was registered with no name, then use that as the default.
	if solver, exists := registeredSolvers[""]; exists { // empty name
		return solver(), nil
	}

	return nil, fmt.Errorf("no registered default solver")
}

// Names returns the sorted list of named strategies. The unnamed default entry
// is not included.
func Names() []string {
	names := []string{}
	for name := range registeredSolvers {
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
