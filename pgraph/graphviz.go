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

package pgraph

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"
)

// Graphviz outputs the graph in graphviz format. Vertices are emitted in sorted
// order, so the output is stable for a given graph.
// https://en.wikipedia.org/wiki/DOT_%28graph_description_language%29
func (g *Graph) Graphviz() (out string) {
	//digraph g {
	//	label="hello world";
	//	node [shape=box];
	//	A [label="A"];
	//	B [label="B"];
	//	C [label="C"];
	//	A -> B [label=f];
	//	B -> C [label=g];
	//}
	out += fmt.Sprintf("digraph %s {\n", strconv.Quote(g.GetName()))
	out += fmt.Sprintf("\tlabel=%s;\n", strconv.Quote(g.GetName()))
	out += "\tnode [shape=box];\n"
	str := ""
	for _, i := range g.VerticesSorted() {
		v1 := strconv.Quote(i.String()) // 1st vertex
		out += fmt.Sprintf("\t%s [label=%s];\n", v1, v1)
		for _, j := range g.OutgoingGraphVertices(i) {
			v2 := strconv.Quote(j.String()) // 2nd vertex
			e := strconv.Quote(g.adjacency[i][j].String())
			// use str for clearer output ordering
			str += fmt.Sprintf("\t%s -> %s [label=%s];\n", v1, v2, e)
		}
	}
	out += str
	out += "}\n"
	return
}

// ExecGraphviz writes out the graphviz data and runs the correct graphviz
// filter command. If the program is empty, only the dot file is written.
func (g *Graph) ExecGraphviz(program, filename string) error {
	switch program {
	case "", "dot", "neato", "twopi", "circo", "fdp":
	default:
		return fmt.Errorf("invalid graphviz program selected")
	}

	if filename == "" {
		return fmt.Errorf("no filename given")
	}

	// run as a normal user if possible when run with sudo
	uid, err1 := strconv.Atoi(os.Getenv("SUDO_UID"))
	gid, err2 := strconv.Atoi(os.Getenv("SUDO_GID"))

	if err := os.WriteFile(filename, []byte(g.Graphviz()), 0644); err != nil {
		return fmt.Errorf("error writing to filename")
	}

	if err1 == nil && err2 == nil {
		if err := os.Chown(filename, uid, gid); err != nil {
			return fmt.Errorf("error changing file owner")
		}
	}

	if program == "" {
		return nil
	}

	path, err := exec.LookPath(program)
	if err != nil {
		return fmt.Errorf("the Graphviz program is missing")
	}

	out := fmt.Sprintf("%s.png", filename)
	cmd := exec.Command(path, "-Tpng", fmt.Sprintf("-o%s", out), filename)

	if err1 == nil && err2 == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
		cmd.SysProcAttr.Credential = &syscall.Credential{
			Uid: uint32(uid),
			Gid: uint32(gid),
		}
	}
	if _, err := cmd.Output(); err != nil {
		return fmt.Errorf("error writing to image")
	}
	return nil
}
