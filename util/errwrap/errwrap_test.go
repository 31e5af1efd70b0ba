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

package errwrap

import (
	"fmt"
	"testing"
)

func TestWrapfErr1(t *testing.T) {
	if err := Wrapf(nil, "whatever: %d", 42); err != nil {
		t.Errorf("expected nil result")
	}
}

func TestWrapfErr2(t *testing.T) {
	cause := fmt.Errorf("cause")
	err := Wrapf(cause, "context %s", "here")
	if s := err.Error(); s != "context here: cause" {
		t.Errorf("unexpected message: %s", s)
	}
	if Cause(err) != cause {
		t.Errorf("expected the cause to be preserved")
	}
}

func TestAppendErr1(t *testing.T) {
	if err := Append(nil, nil); err != nil {
		t.Errorf("expected nil result")
	}
}

func TestAppendErr2(t *testing.T) {
	reterr := fmt.Errorf("reterr")
	if err := Append(reterr, nil); err != reterr {
		t.Errorf("expected reterr")
	}
}

func TestAppendErr3(t *testing.T) {
	err := fmt.Errorf("err")
	if reterr := Append(nil, err); reterr != err {
		t.Errorf("expected err")
	}
}

func TestErrors1(t *testing.T) {
	if errs := Errors(nil); len(errs) != 0 {
		t.Errorf("expected no errors, got: %d", len(errs))
	}

	e1 := fmt.Errorf("one")
	if errs := Errors(e1); len(errs) != 1 || errs[0] != e1 {
		t.Errorf("expected a single error")
	}

	var reterr error
	reterr = Append(reterr, e1)
	reterr = Append(reterr, fmt.Errorf("two"))
	reterr = Append(reterr, fmt.Errorf("three"))
	errs := Errors(reterr)
	if len(errs) != 3 {
		t.Errorf("expected three errors, got: %d", len(errs))
		return
	}
	if errs[0] != e1 || errs[2].Error() != "three" {
		t.Errorf("unexpected order: %v", errs)
	}
}

func TestString1(t *testing.T) {
	var err error
	if String(err) != "" {
		t.Errorf("expected empty result")
	}

	msg := "this is an error"
	if err := fmt.Errorf("%s", msg); String(err) != msg {
		t.Errorf("expected different result")
	}
}
