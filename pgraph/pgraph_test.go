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

package pgraph

import (
	"reflect"
	"strings"
	"testing"
)

func TestCount1(t *testing.T) {
	G := &Graph{}

	if i := G.NumVertices(); i != 0 {
		t.Errorf("should have 0 vertices instead of: %d", i)
	}

	if i := G.NumEdges(); i != 0 {
		t.Errorf("should have 0 edges instead of: %d", i)
	}

	v1 := NV("v1")
	v2 := NV("v2")
	e1 := NE("e1")
	G.AddEdge(v1, v2, e1)

	if i := G.NumVertices(); i != 2 {
		t.Errorf("should have 2 vertices instead of: %d", i)
	}

	if i := G.NumEdges(); i != 1 {
		t.Errorf("should have 1 edges instead of: %d", i)
	}
}

func TestAddVertex1(t *testing.T) {
	G := &Graph{Name: "g2"}
	v1 := NV("v1")
	v2 := NV("v2")
	v3 := NV("v3")
	v4 := NV("v4")
	v5 := NV("v5")
	v6 := NV("v6")
	e1 := NE("e1")
	e2 := NE("e2")
	e3 := NE("e3")
	e4 := NE("e4")
	e5 := NE("e5")
	G.AddEdge(v1, v2, e1)
	G.AddEdge(v2, v3, e2)
	G.AddEdge(v3, v1, e3)

	G.AddEdge(v4, v5, e4)
	G.AddEdge(v5, v6, e5)

	if i := G.NumVertices(); i != 6 {
		t.Errorf("should have 6 vertices instead of: %d", i)
	}

	G.AddVertex(v1, NV("v7")) // existing vertices keep their edges
	if i := G.NumVertices(); i != 7 {
		t.Errorf("should have 7 vertices instead of: %d", i)
	}
	if i := G.NumEdges(); i != 5 {
		t.Errorf("should have 5 edges instead of: %d", i)
	}
	if e := G.adjacency[v1][v2]; e != e1 {
		t.Errorf("should have found edge e1 instead of: %v", e)
	}
	if e, exists := G.adjacency[v2][v1]; exists {
		t.Errorf("should not have found an edge, got: %v", e)
	}
}

func TestTopoSort1(t *testing.T) {
	G, _ := NewGraph("g9")
	v1 := NV("v1")
	v2 := NV("v2")
	v3 := NV("v3")
	v4 := NV("v4")
	v5 := NV("v5")
	v6 := NV("v6")
	e1 := NE("e1")
	e2 := NE("e2")
	e3 := NE("e3")
	e4 := NE("e4")
	e5 := NE("e5")
	e6 := NE("e6")
	G.AddEdge(v1, v2, e1)
	G.AddEdge(v1, v3, e2)
	G.AddEdge(v2, v4, e3)
	G.AddEdge(v3, v4, e4)

	G.AddEdge(v4, v5, e5)
	G.AddEdge(v5, v6, e6)

	indegree := G.InDegree() // map[Vertex]int
	if i := indegree[v1]; i != 0 {
		t.Errorf("indegree of v1 should be 0 instead of: %d", i)
	}
	if i := indegree[v2]; i != 1 {
		t.Errorf("indegree of v2 should be 1 instead of: %d", i)
	}
	if i := indegree[v4]; i != 2 {
		t.Errorf("indegree of v4 should be 2 instead of: %d", i)
	}
	if i := indegree[v6]; i != 1 {
		t.Errorf("indegree of v6 should be 1 instead of: %d", i)
	}

	s, err := G.TopologicalSort()
	if err != nil || !reflect.DeepEqual(s, []Vertex{v1, v2, v3, v4, v5, v6}) {
		t.Errorf("topological sort failed, error: %v", err)
		str := "Found:"
		for _, v := range s {
			str += " " + v.String()
		}
		t.Errorf("%s", str)
	}
}

func TestTopoSort2(t *testing.T) {
	G, _ := NewGraph("g10")
	v1 := NV("v1")
	v2 := NV("v2")
	v3 := NV("v3")
	v4 := NV("v4")
	v5 := NV("v5")
	v6 := NV("v6")
	e1 := NE("e1")
	e2 := NE("e2")
	e3 := NE("e3")
	e4 := NE("e4")
	e5 := NE("e5")
	e6 := NE("e6")
	G.AddEdge(v1, v2, e1)
	G.AddEdge(v2, v3, e2)
	G.AddEdge(v3, v4, e3)
	G.AddEdge(v4, v5, e4)
	G.AddEdge(v5, v6, e5)
	G.AddEdge(v4, v2, e6) // cycle

	if _, err := G.TopologicalSort(); err != ErrNotAcyclic {
		t.Errorf("topological sort passed, but graph is cyclic")
	}
}

func TestGraphviz1(t *testing.T) {
	G, _ := NewGraph("g12")
	v1 := NV("v1")
	v2 := NV("v2")
	v3 := NV("v3")
	G.AddEdge(v2, v3, NE("e2"))
	G.AddEdge(v1, v2, NE("e1"))

	exp := []string{
		`digraph "g12" {`,
		`	label="g12";`,
		`	node [shape=box];`,
		`	"v1" [label="v1"];`,
		`	"v2" [label="v2"];`,
		`	"v3" [label="v3"];`,
		`	"v1" -> "v2" [label="e1"];`,
		`	"v2" -> "v3" [label="e2"];`,
		`}`,
		``,
	}
	if out := G.Graphviz(); out != strings.Join(exp, "\n") {
		t.Errorf("conversion to graphviz format done incorrectly:\n%s", out)
	}
}

func TestVerticesSorted1(t *testing.T) {
	G, _ := NewGraph("g13")
	v2 := &numbered{2}
	v10 := &numbered{10}
	v1 := &numbered{1}
	G.AddEdge(v10, v2, NE("e1"))
	G.AddVertex(v1)

	if s := G.VerticesSorted(); !reflect.DeepEqual(s, []Vertex{v1, v2, v10}) {
		t.Errorf("vertices are not in numeric order: %v", s)
	}
	if s, err := G.TopologicalSort(); err != nil || !reflect.DeepEqual(s, []Vertex{v1, v10, v2}) {
		t.Errorf("topological sort failed, error: %v, found: %v", err, s)
	}

	// plain vertices still sort by name
	G, _ = NewGraph("g14")
	a2 := NV("v2")
	a10 := NV("v10")
	G.AddVertex(a2, a10)
	if s := G.VerticesSorted(); !reflect.DeepEqual(s, []Vertex{a10, a2}) {
		t.Errorf("vertices are not in string order: %v", s)
	}
}
