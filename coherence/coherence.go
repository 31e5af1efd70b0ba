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

// Package coherence checks that the impls of a program fit together. Impls of
// the same trait that overlap must be ordered by specialization, and the order
// is recorded as a priority on each impl. Local impls must also pass the orphan
// rules.
package coherence

import (
	"context"
	"fmt"
	"sort"

	"github.com/hornsolve/hornsolve/pgraph"
	"github.com/hornsolve/hornsolve/util/errwrap"
)

// ErrorKind is the kind of a coherence error.
type ErrorKind int

const (
	// OverlappingImpls means that two impls of a trait overlap, and neither
	// of them specializes the other.
	OverlappingImpls ErrorKind = iota

	// FailedOrphanCheck means that a local impl is not allowed by the
	// orphan rules.
	FailedOrphanCheck
)

// String returns the short name of the kind, as used in metrics.
func (obj ErrorKind) String() string {
	switch obj {
	case OverlappingImpls:
		return "overlap"
	case FailedOrphanCheck:
		return "orphan"
	}
	return fmt.Sprintf("kind(%d)", int(obj))
}

// CoherenceError is a problem with the impls of a trait. It is the only kind
// of error that the checks return for bad input.
type CoherenceError struct {
	Kind ErrorKind

	// Trait is the display name of the trait.
	Trait string
}

// Error returns the message of this error.
func (obj *CoherenceError) Error() string {
	switch obj.Kind {
	case OverlappingImpls:
		return fmt.Sprintf("overlapping impls of trait %q", obj.Trait)
	case FailedOrphanCheck:
		return fmt.Sprintf("impl for trait %q violates the orphan rules", obj.Trait)
	}
	return fmt.Sprintf("coherence error with trait %q", obj.Trait)
}

// RecordSpecializationPriorities builds the specialization forest of the impls,
// and stores the priority of every positive impl into its data. An impl that
// nothing specializes is a root with priority zero, and every other impl has a
// priority that is one more than the largest priority of the impls that it
// specializes. The priorities are all computed before any of them are stored.
// A trait with overlapping impls gets no priorities, but the other traits still
// do, and the coherence errors are returned afterwards.
func RecordSpecializationPriorities(ctx context.Context, db Database, ids []ImplID, specializer Specializer) error {
	forest, reterr := BuildSpecializationForest(ctx, db, ids, specializer)
	if forest == nil {
		return reterr
	}

	priorities := make(map[ImplID]int) // side table
	traits := []TraitID{}
	for trait := range forest {
		traits = append(traits, trait)
	}
	sort.Slice(traits, func(i, j int) bool { return traits[i] < traits[j] })

	for _, trait := range traits {
		g := forest[trait]
		order, err := g.TopologicalSort()
		if err != nil {
			// programming error
			panic(fmt.Sprintf("specialization forest of %s: %+v", db.TypeName(trait), err))
		}
		for _, v := range order {
			impl := v.(*ImplDatum)
			p := priorities[impl.ID] // roots are zero
			priorities[impl.ID] = p
			for _, w := range g.OutgoingGraphVertices(v) {
				child := w.(*ImplDatum)
				if q, exists := priorities[child.ID]; !exists || q < p+1 {
					priorities[child.ID] = p + 1
				}
			}
		}
	}

	for id, p := range priorities {
		db.ImplDatum(id).SpecializationPriority = p
	}
	return reterr
}

// BuildSpecializationForest returns one graph per trait. Every positive impl of
// the trait is a vertex, and there is an edge from each impl to every impl that
// specializes it. The traits with overlapping impls are left out, and the forest
// of the others is returned along with the coherence errors. On any other error
// the forest is nil.
func BuildSpecializationForest(ctx context.Context, db Database, ids []ImplID, specializer Specializer) (map[TraitID]*pgraph.Graph, error) {
	forest := make(map[TraitID]*pgraph.Graph)
	graph := func(trait TraitID) *pgraph.Graph {
		g, exists := forest[trait]
		if !exists {
			g, _ = pgraph.NewGraph(db.TypeName(trait))
			forest[trait] = g
		}
		return g
	}

	for _, id := range ids {
		impl := db.ImplDatum(id)
		if impl.Negative {
			continue
		}
		graph(impl.Trait).AddVertex(impl)
	}

	visit := func(less, more *ImplDatum) {
		graph(less.Trait).AddEdge(less, more, specializes{})
	}
	failed, err := visitSpecializations(ctx, db, ids, specializer, visit)
	if err != nil {
		return nil, err
	}
	for trait := range failed {
		delete(forest, trait)
	}
	return forest, failed.err(db)
}

// specializes is the edge of the specialization forest.
type specializes struct{}

// String returns the label of the edge.
func (specializes) String() string { return "specializes" }

// VisitSpecializations compares every pair of positive impls of each trait. If
// the two impls are disjoint, there is nothing to do. Otherwise one of them has
// to specialize the other, and visit is called with the less special impl
// first. If neither specializes the other, the impls overlap, which is an
// error for that trait. The remaining traits are still checked, and all of the
// errors are returned together.
func VisitSpecializations(ctx context.Context, db Database, ids []ImplID, specializer Specializer, visit func(less, more *ImplDatum)) error {
	failed, err := visitSpecializations(ctx, db, ids, specializer, visit)
	if err != nil {
		return err
	}
	return failed.err(db)
}

// failures maps each trait that failed a check to the kind of the failure.
type failures map[TraitID]ErrorKind

// err returns the coherence errors in order of the trait ids, or nil if there
// are none.
func (obj failures) err(db Database) error {
	traits := []TraitID{}
	for trait := range obj {
		traits = append(traits, trait)
	}
	sort.Slice(traits, func(i, j int) bool { return traits[i] < traits[j] })

	var reterr error
	for _, trait := range traits {
		reterr = errwrap.Append(reterr, &CoherenceError{
			Kind:  obj[trait],
			Trait: db.TypeName(trait),
		})
	}
	return reterr
}

// visitSpecializations returns the traits that have overlapping impls. The
// error is only for problems that aren't about any one trait.
func visitSpecializations(ctx context.Context, db Database, ids []ImplID, specializer Specializer, visit func(less, more *ImplDatum)) (failures, error) {
	byTrait := make(map[TraitID][]*ImplDatum)
	traits := []TraitID{}
	for _, id := range ids {
		impl := db.ImplDatum(id)
		if impl.Negative {
			continue
		}
		if _, exists := byTrait[impl.Trait]; !exists {
			traits = append(traits, impl.Trait)
		}
		byTrait[impl.Trait] = append(byTrait[impl.Trait], impl)
	}
	sort.Slice(traits, func(i, j int) bool { return traits[i] < traits[j] })

	failed := make(failures)
	for _, trait := range traits {
		if err := visitTrait(ctx, byTrait[trait], specializer, visit); err != nil {
			if _, ok := err.(*CoherenceError); !ok {
				return nil, err // context or solver error, not about this trait
			}
			failed[trait] = OverlappingImpls
		}
	}
	return failed, nil
}

func visitTrait(ctx context.Context, impls []*ImplDatum, specializer Specializer, visit func(less, more *ImplDatum)) error {
	for i, lhs := range impls {
		for _, rhs := range impls[i+1:] {
			disjoint, err := specializer.Disjoint(ctx, lhs, rhs)
			if err != nil {
				return err
			}
			if disjoint {
				continue
			}

			if ok, err := specializer.Specializes(ctx, rhs, lhs); err != nil {
				return err
			} else if ok {
				visit(lhs, rhs)
				continue
			}
			if ok, err := specializer.Specializes(ctx, lhs, rhs); err != nil {
				return err
			} else if ok {
				visit(rhs, lhs)
				continue
			}
			return &CoherenceError{Kind: OverlappingImpls}
		}
	}
	return nil
}
