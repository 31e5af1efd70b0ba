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
	"fmt"
)

// vertex is a test struct to test the library.
type vertex struct {
	name string
}

// String is a required method of the Vertex interface that we must fulfill.
func (v *vertex) String() string {
	return v.name
}

// NV is a helper function to make testing easier. It creates a new noop vertex.
func NV(s string) Vertex {
	return &vertex{s}
}

// numbered is a test vertex which sorts by its number.
type numbered struct {
	n int
}

// String is a required method of the Vertex interface that we must fulfill.
func (v *numbered) String() string {
	return fmt.Sprintf("v%d", v.n)
}

// Before is the method of the Ordered interface.
func (v *numbered) Before(other Vertex) bool {
	return v.n < other.(*numbered).n
}

// edge is a test struct to test the library.
type edge struct {
	name string
}

// String is a required method of the Edge interface that we must fulfill.
func (e *edge) String() string {
	return e.name
}

// NE is a helper function to make testing easier. It creates a new noop edge.
func NE(s string) Edge {
	return &edge{s}
}

func fullPrint(g *Graph) (str string) {
	str += "\n"
	for _, v := range g.VerticesSorted() {
		str += fmt.Sprintf("* v: %s\n", v)
	}
	for _, v1 := range g.VerticesSorted() {
		for _, v2 := range g.OutgoingGraphVertices(v1) {
			str += fmt.Sprintf("* e: %s -> %s # %s\n", v1, v2, g.adjacency[v1][v2])
		}
	}
	return
}
