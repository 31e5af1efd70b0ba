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

// Package pgraph represents the internal "pointer graph" that we use. The
// coherence checker builds one of these per trait, with an edge pointing from
// each impl to every impl that specializes it.
package pgraph

import (
	"fmt"
	"sort"
)

// Graph is the graph structure in this library. The graph abstract data type
// (ADT) is defined as follows:
// * the directed graph arrows point from left to right ( -> )
// * the arrows point from the less specific to the more specific vertex
// * IOW, you might see blanket -> generic -> concrete (where concrete wins)
type Graph struct {
	Name string

	adjacency map[Vertex]map[Vertex]Edge // Vertex -> Vertex (edge)
}

// Vertex is the primary vertex struct in this library. It can be anything that
// implements Stringer. The string output must be stable and unique in the
// graph.
type Vertex interface {
	fmt.Stringer // String() string
}

// Edge is the primary edge struct in this library. It can be anything that
// implements Stringer. The string output must be stable and unique in the
// graph.
type Edge interface {
	fmt.Stringer // String() string
}

// NewGraph builds a new graph.
func NewGraph(name string) (*Graph, error) {
	g := &Graph{
		Name: name,
	}
	g.init()
	return g, nil
}

// init initializes the graph which wasn't initialized using the constructor.
func (g *Graph) init() {
	if g.adjacency == nil {
		g.adjacency = make(map[Vertex]map[Vertex]Edge)
	}
}

// GetName returns the name of the graph.
func (g *Graph) GetName() string {
	return g.Name
}

// AddVertex uses variadic input to add all listed vertices to the graph.
func (g *Graph) AddVertex(xv ...Vertex) {
	g.init()
	for _, v := range xv {
		if _, exists := g.adjacency[v]; !exists {
			g.adjacency[v] = make(map[Vertex]Edge)
		}
	}
}

// AddEdge adds a directed edge to the graph from v1 to v2. Both vertices are
// added if they aren't already present. An existing edge between the two is
// replaced.
func (g *Graph) AddEdge(v1, v2 Vertex, e Edge) {
	g.AddVertex(v1, v2)
	g.adjacency[v1][v2] = e
}

// NumVertices returns the number of vertices in the graph.
func (g *Graph) NumVertices() int {
	return len(g.adjacency)
}

// NumEdges returns the number of edges in the graph.
func (g *Graph) NumEdges() int {
	count := 0
	for k := range g.adjacency {
		count += len(g.adjacency[k])
	}
	return count
}

// VertexSlice is a linear list of vertices. It can be sorted.
type VertexSlice []Vertex

// Len returns the length of the slice of vertices.
func (vs VertexSlice) Len() int { return len(vs) }

// Swap swaps two elements in the slice.
func (vs VertexSlice) Swap(i, j int) { vs[i], vs[j] = vs[j], vs[i] }

// Ordered is a vertex that knows its own sort order. It's used when both of the
// vertices that are compared implement it. Otherwise they sort by String().
type Ordered interface {
	Vertex

	// Before returns true if this vertex sorts before the other one.
	Before(Vertex) bool
}

// Less returns the smaller element in the sort order.
func (vs VertexSlice) Less(i, j int) bool {
	if a, ok := vs[i].(Ordered); ok {
		if _, ok := vs[j].(Ordered); ok {
			return a.Before(vs[j])
		}
	}
	return vs[i].String() < vs[j].String()
}

// Sort is a convenience method.
func (vs VertexSlice) Sort() { sort.Sort(vs) }

// VerticesSorted returns a sorted slice of all vertices in the graph. The order
// is that of VertexSlice, to avoid the non-determinism in the map type.
func (g *Graph) VerticesSorted() []Vertex {
	var vertices []Vertex
	for k := range g.adjacency {
		vertices = append(vertices, k)
	}
	sort.Sort(VertexSlice(vertices)) // add determinism
	return vertices
}

// String makes the graph pretty print.
func (g *Graph) String() string {
	return fmt.Sprintf("%s: Vertices(%d), Edges(%d)", g.Name, g.NumVertices(), g.NumEdges())
}

// OutgoingGraphVertices returns an array (slice) of all vertices that vertex v
// points to (v -> ???). The result is sorted.
func (g *Graph) OutgoingGraphVertices(v Vertex) []Vertex {
	var s []Vertex
	for k := range g.adjacency[v] { // forward paths
		s = append(s, k)
	}
	sort.Sort(VertexSlice(s))
	return s
}

// InDegree returns the count of vertices that point to me in one big lookup
// map.
func (g *Graph) InDegree() map[Vertex]int {
	result := make(map[Vertex]int)
	if g == nil || g.adjacency == nil {
		return result
	}
	for k := range g.adjacency {
		result[k] = 0 // initialize
	}

	for k := range g.adjacency {
		for z := range g.adjacency[k] {
			result[z]++
		}
	}
	return result
}

// TopologicalSort returns the sort of graph vertices in that order. It is based
// on descriptions and code from wikipedia and rosetta code. Vertices that are
// ready at the same time are emitted in sorted order, so that the output is
// stable.
func (g *Graph) TopologicalSort() ([]Vertex, error) { // kahn's algorithm
	var L []Vertex                    // empty list that will contain the sorted elements
	var S []Vertex                    // set of all nodes with no incoming edges
	remaining := make(map[Vertex]int) // amount of edges remaining

	for v, d := range g.InDegree() {
		if d == 0 {
			// accumulate set of all nodes with no incoming edges
			S = append(S, v)
		} else {
			// initialize remaining edge count from indegree
			remaining[v] = d
		}
	}
	sort.Sort(sort.Reverse(VertexSlice(S))) // pop the smallest first

	for len(S) > 0 {
		last := len(S) - 1 // remove a node v from S
		v := S[last]
		S = S[:last]
		L = append(L, v) // add v to tail of L
		next := []Vertex{}
		for _, n := range g.OutgoingGraphVertices(v) {
			// for each node n remaining in the graph, consume from
			// remaining, so for remaining[n] > 0
			if remaining[n] > 0 {
				remaining[n]--         // remove edge from the graph
				if remaining[n] == 0 { // if n has no other incoming edges
					next = append(next, n)
				}
			}
		}
		for i := len(next) - 1; i >= 0; i-- {
			S = append(S, next[i]) // insert n into S
		}
	}

	// if graph has edges, eg if any value in rem is > 0
	for c, in := range remaining {
		if in > 0 {
			for n := range g.adjacency[c] {
				if remaining[n] > 0 {
					return nil, ErrNotAcyclic
				}
			}
		}
	}

	return L, nil
}

// ErrNotAcyclic is returned when an operation needs a DAG, and the graph has a
// cycle.
const ErrNotAcyclic = Error("not a dag")

// Error is a constant error type that implements error.
type Error string

// Error fulfills the error interface of this type.
func (e Error) Error() string { return string(e) }
