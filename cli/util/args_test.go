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

package util

import (
	"testing"
)

type fooArgs struct{}

type barArgs struct{}

type topArgs struct {
	Foo *fooArgs `arg:"subcommand:foo"`
	Bar *barArgs `arg:"subcommand:bar"`
	Baz bool     `arg:"--baz"`

	hidden string
}

func TestLookupSubcommand0(t *testing.T) {
	foo := &fooArgs{}
	bar := &barArgs{}
	obj := &topArgs{
		Foo:    foo,
		Bar:    bar,
		hidden: "x",
	}
	if s := LookupSubcommand(obj, foo); s != "foo" {
		t.Errorf("unexpected subcommand: %s", s)
	}
	if s := LookupSubcommand(*obj, bar); s != "bar" {
		t.Errorf("unexpected subcommand: %s", s)
	}
	if s := LookupSubcommand(obj, &fooArgs{}); s != "" {
		t.Errorf("unexpected subcommand: %s", s)
	}
}
