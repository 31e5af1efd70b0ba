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
	"fmt"
	"sort"
	"sync"

	"github.com/hornsolve/hornsolve/logic"
	"github.com/hornsolve/hornsolve/pgraph"
	"github.com/hornsolve/hornsolve/prometheus"
	"github.com/hornsolve/hornsolve/solve"
	"github.com/hornsolve/hornsolve/solve/solvers"
	"github.com/hornsolve/hornsolve/util/errwrap"
)

const (
	// ImplementedName is the name of the goal that an impl proves.
	ImplementedName = "Implemented"

	// LocalImplAllowedName is the name of the goal that the orphan check
	// proves.
	LocalImplAllowedName = "LocalImplAllowed"
)

// ImplID identifies an impl.
type ImplID int

// TraitID identifies a trait.
type TraitID int

// ImplDatum is an impl of a trait: for all Binders, if the WhereClauses hold,
// then the trait is implemented for the Params. The first parameter is the
// self type. The terms of the params and the where clauses refer to the
// binders with bound variables.
type ImplDatum struct {
	ID           ImplID
	Trait        TraitID
	Binders      int
	Params       []logic.Term
	WhereClauses []*logic.Apply

	// Negative impls promise that the trait is never implemented.
	Negative bool

	// Local is true if the impl is part of the program being checked,
	// rather than one of its dependencies.
	Local bool

	// SpecializationPriority is computed by the coherence checker. Higher
	// values win.
	SpecializationPriority int
}

// String returns a stable name for this impl, which is how it is identified in
// the specialization forest.
func (obj *ImplDatum) String() string {
	return fmt.Sprintf("impl#%d", obj.ID)
}

// Before sorts impls by id in the specialization forest, so that impl#2 comes
// before impl#10.
func (obj *ImplDatum) Before(v pgraph.Vertex) bool {
	other, ok := v.(*ImplDatum)
	if !ok {
		return obj.String() < v.String()
	}
	return obj.ID < other.ID
}

// TraitDatum is a trait.
type TraitDatum struct {
	ID   TraitID
	Name string

	// Params is the number of parameters, including the self type.
	Params int

	Local bool
}

// TypeDatum is a type constructor.
type TypeDatum struct {
	Name string

	// Params is the number of arguments of the constructor.
	Params int

	Local bool
}

// Database is what the coherence checks need to know about a program.
type Database interface {
	// ImplDatum returns the impl with this id. It panics if there is no
	// such impl.
	ImplDatum(id ImplID) *ImplDatum

	// Solve proves a closed goal with the clauses of the program.
	Solve(ctx context.Context, goal logic.Goal) (*solve.Solution, error)

	// TypeName returns the display name of a trait.
	TypeName(trait TraitID) string
}

// Program is a set of traits, types and impls, along with any extra clauses. It
// implements Database. The clauses that the solver sees are the extra clauses,
// followed by one clause per positive impl, and then by the builtin orphan
// rules. The program must not be changed once it has been used to solve, with
// the exception of the priorities that the coherence checker writes.
type Program struct {
	Traits  []*TraitDatum
	Types   []*TypeDatum
	Impls   []*ImplDatum
	Clauses []*logic.Clause

	// Strategy is the name of the solver to use. The empty string is the
	// default strategy.
	Strategy string

	// MaxDepth is the depth bound of the solver. Zero is the default.
	MaxDepth int

	// Prometheus is optional. If set, the solves and the errors are
	// counted there.
	Prometheus *prometheus.Prometheus

	Debug bool
	Logf  func(format string, v ...interface{})

	envMutex sync.Mutex
	env      *solve.Environment
}

// ImplDatum returns the impl with this id. It panics if there is no such impl.
func (obj *Program) ImplDatum(id ImplID) *ImplDatum {
	for _, impl := range obj.Impls {
		if impl.ID == id {
			return impl
		}
	}
	// programming error
	panic(fmt.Sprintf("impl #%d is not part of the program", id))
}

// trait returns the trait with this id. It panics if there is no such trait.
func (obj *Program) trait(id TraitID) *TraitDatum {
	for _, trait := range obj.Traits {
		if trait.ID == id {
			return trait
		}
	}
	// programming error
	panic(fmt.Sprintf("trait #%d is not part of the program", id))
}

// TypeName returns the display name of a trait.
func (obj *Program) TypeName(trait TraitID) string {
	return obj.trait(trait).Name
}

// ImplIDs returns the ids of all impls in sorted order.
func (obj *Program) ImplIDs() []ImplID {
	ids := []ImplID{}
	for _, impl := range obj.Impls {
		ids = append(ids, impl.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ImplClauses returns the clause of each positive impl.
func (obj *Program) ImplClauses() []*logic.Clause {
	clauses := []*logic.Clause{}
	for _, impl := range obj.Impls {
		if impl.Negative {
			continue
		}
		args := append([]logic.Term{logic.C(obj.TypeName(impl.Trait))}, impl.Params...)
		conds := []logic.Goal{}
		for _, x := range impl.WhereClauses {
			conds = append(conds, x)
		}
		clauses = append(clauses, logic.Rule(impl.Binders, logic.NewAnd(conds...), logic.NewApply(ImplementedName, args...)))
	}
	return clauses
}

// LocalImplRules returns the builtin orphan rules. A local trait may be
// implemented for anything:
//
//	forall<T..> { LocalImplAllowed(LocalTrait, T..) }
//
// And any other trait may be implemented when the self type is headed by a
// local type:
//
//	forall<A.., T..> { LocalImplAllowed(Trait, LocalType(A..), T..) }
func (obj *Program) LocalImplRules() []*logic.Clause {
	clauses := []*logic.Clause{}
	for _, trait := range obj.Traits {
		name := logic.C(trait.Name)
		if trait.Local {
			args := []logic.Term{name}
			for i := 0; i < trait.Params; i++ {
				args = append(args, logic.B(i))
			}
			clauses = append(clauses, logic.Fact(trait.Params, logic.NewApply(LocalImplAllowedName, args...)))
			continue
		}
		if trait.Params == 0 {
			continue // no self type
		}
		for _, typ := range obj.Types {
			if !typ.Local {
				continue
			}
			self := []logic.Term{}
			for i := 0; i < typ.Params; i++ {
				self = append(self, logic.B(i))
			}
			args := []logic.Term{name, logic.C(typ.Name, self...)}
			for i := 1; i < trait.Params; i++ {
				args = append(args, logic.B(typ.Params+i-1))
			}
			binders := typ.Params + trait.Params - 1
			clauses = append(clauses, logic.Fact(binders, logic.NewApply(LocalImplAllowedName, args...)))
		}
	}
	return clauses
}

// Environment returns the root environment with every clause of the program.
// It is built on first use, and it is safe to call concurrently.
func (obj *Program) Environment() *solve.Environment {
	obj.envMutex.Lock()
	defer obj.envMutex.Unlock()
	if obj.env == nil {
		clauses := []*logic.Clause{}
		clauses = append(clauses, obj.Clauses...)
		clauses = append(clauses, obj.ImplClauses()...)
		clauses = append(clauses, obj.LocalImplRules()...)
		obj.env = solve.NewEnvironment(nil, clauses)
	}
	return obj.env
}

// Solve proves a closed goal with the clauses of the program.
func (obj *Program) Solve(ctx context.Context, goal logic.Goal) (*solve.Solution, error) {
	init := &solve.Init{
		MaxDepth: obj.MaxDepth,
		Debug:    obj.Debug,
		Logf:     obj.Logf,
	}
	solver, err := solvers.Lookup(init, obj.Strategy)
	if err != nil {
		return nil, err
	}
	solution, err := solver.Solve(ctx, obj.Environment(), goal)
	if obj.Prometheus != nil {
		kind := "error"
		if err == nil {
			kind = solution.Kind.String()
		}
		obj.Prometheus.UpdateSolveTotal(obj.strategy(), kind)
	}
	if err != nil {
		return nil, errwrap.Wrapf(err, "could not solve: %s", goal)
	}
	obj.logf("solve: %s: %s", goal, solution)
	return solution, nil
}

// logf logs a debug message if debugging is enabled.
func (obj *Program) logf(format string, v ...interface{}) {
	if !obj.Debug || obj.Logf == nil {
		return
	}
	obj.Logf("coherence: "+format, v...)
}

func (obj *Program) strategy() string {
	if obj.Strategy == "" {
		return "default"
	}
	return obj.Strategy
}

// Specializer returns the specializer that is used by the checks.
func (obj *Program) Specializer() Specializer {
	return &SolverSpecializer{DB: obj}
}

// RecordSpecializationPriorities stores the specialization priority of every
// positive impl of the program.
func (obj *Program) RecordSpecializationPriorities(ctx context.Context) error {
	err := RecordSpecializationPriorities(ctx, obj, obj.ImplIDs(), obj.Specializer())
	obj.count(err)
	return err
}

// CheckOrphans runs the orphan check on every local impl. All of the failures
// are returned together.
func (obj *Program) CheckOrphans(ctx context.Context) error {
	_, err := obj.checkOrphans(ctx)
	return err
}

// checkOrphans also returns the set of traits that have an impl which failed.
// The set is nil if the error isn't about the impls.
func (obj *Program) checkOrphans(ctx context.Context) (map[TraitID]struct{}, error) {
	failed := make(map[TraitID]struct{})
	var reterr error
	for _, id := range obj.ImplIDs() {
		impl := obj.ImplDatum(id)
		if !impl.Local {
			continue
		}
		err := PerformOrphanCheck(ctx, obj, id)
		if err == nil {
			continue
		}
		if _, ok := err.(*CoherenceError); !ok {
			return nil, err
		}
		failed[impl.Trait] = struct{}{}
		reterr = errwrap.Append(reterr, err)
	}
	obj.count(reterr)
	return failed, reterr
}

// Check runs the orphan check, and then records the priorities of every trait
// that passed it. A trait with an orphan impl gets no priorities. The errors of
// both checks are returned together.
func (obj *Program) Check(ctx context.Context) error {
	failed, reterr := obj.checkOrphans(ctx)
	if failed == nil {
		return reterr
	}

	ids := []ImplID{}
	for _, id := range obj.ImplIDs() {
		if _, exists := failed[obj.ImplDatum(id).Trait]; exists {
			continue
		}
		ids = append(ids, id)
	}
	err := RecordSpecializationPriorities(ctx, obj, ids, obj.Specializer())
	for _, e := range errwrap.Errors(err) {
		if _, ok := e.(*CoherenceError); !ok {
			return err // not about any one trait
		}
	}
	obj.count(err)
	return errwrap.Append(reterr, err)
}

// count reports the coherence errors inside of err.
func (obj *Program) count(err error) {
	for _, e := range errwrap.Errors(err) {
		x, ok := e.(*CoherenceError)
		if !ok {
			continue
		}
		obj.logf("%s", x)
		if obj.Prometheus != nil {
			obj.Prometheus.UpdateCoherenceErrorsTotal(x.Kind.String())
		}
	}
}
