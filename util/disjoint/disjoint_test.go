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

package disjoint

import (
	"fmt"
	"sort"
	"testing"
)

func TestUnionFind0(t *testing.T) {
	s1 := NewElem[bool]()
	s2 := NewElem[bool]()
	s3 := NewElem[bool]()

	s1.Union(s2)

	f1 := s1.Find()
	f2 := s2.Find()
	f3 := s3.Find()

	if f1 != f2 || !IsConnected(f1, f2) {
		t.Errorf("f1 and f2 are not in the same set")
	}
	if f2 == f3 || IsConnected(f2, f3) {
		t.Errorf("f1 and f2 should not be in the same set")
	}
}

func TestMerge0(t *testing.T) {
	s1 := NewElem[[]string]()
	s1.Data = []string{"a"}
	s2 := NewElem[[]string]()
	s2.Data = []string{"b"}
	s3 := NewElem[[]string]()
	s3.Data = []string{"c"}

	merge := func(a, b []string) ([]string, error) {
		t.Logf("merge: `%s` and `%s`", a, b)
		c := []string{}
		c = append(c, a...)
		c = append(c, b...)
		return c, nil
	}
	if err := Merge(s1, s2, merge, nil); err != nil {
		t.Errorf("merge error: %v", err)
		return
	}
	if err := Merge(s2, s3, merge, nil); err != nil {
		t.Errorf("merge error: %v", err)
		return
	}

	x := s3.Find().Data
	sort.Strings(x)
	if len(x) != 3 || x[0] != "a" || x[1] != "b" || x[2] != "c" {
		t.Errorf("wrong data, got: %v", x)
	}
}

func TestMergeError0(t *testing.T) {
	s1 := NewElem[int]()
	s2 := NewElem[int]()
	merge := func(a, b int) (int, error) {
		return 0, fmt.Errorf("refused")
	}
	if err := Merge(s1, s2, merge, nil); err == nil {
		t.Errorf("expected the merge to fail")
	}
	if IsConnected(s1, s2) {
		t.Errorf("a failed merge should not union")
	}
}

func TestUndo0(t *testing.T) {
	log := &Log[string]{}
	s1 := NewElem[string]()
	s2 := NewElem[string]()
	s3 := NewElem[string]()
	s4 := NewElem[string]()

	keep := func(a, b string) (string, error) { return a + b, nil }

	if err := Merge(s1, s2, keep, log); err != nil {
		t.Errorf("merge error: %v", err)
		return
	}
	snap := log.Len()

	SetData(s3, "three", log)
	if err := Merge(s3, s4, keep, log); err != nil {
		t.Errorf("merge error: %v", err)
		return
	}
	if err := Merge(s1, s4, keep, log); err != nil {
		t.Errorf("merge error: %v", err)
		return
	}
	if !IsConnected(s2, s3) {
		t.Errorf("expected s2 and s3 to be connected")
	}

	log.Undo(snap)

	if IsConnected(s2, s3) || IsConnected(s3, s4) {
		t.Errorf("undo did not split the sets")
	}
	if !IsConnected(s1, s2) {
		t.Errorf("undo reverted too much")
	}
	if s3.Data != "" {
		t.Errorf("undo did not restore data, got: %q", s3.Data)
	}
	if l := log.Len(); l != snap {
		t.Errorf("expected log length %d, got: %d", snap, l)
	}

	log.Undo(0)
	if IsConnected(s1, s2) {
		t.Errorf("full undo did not split the sets")
	}
}
