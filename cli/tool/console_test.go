/*
 * gooz - Oz language compiler core
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package tool

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

/*
testTerminal collects console output for tests.
*/
type testTerminal struct {
	out bytes.Buffer
}

func (tt *testTerminal) WriteString(s string) {
	tt.out.WriteString(s)
}

func TestHandleInputHelp(t *testing.T) {
	ot := &testTerminal{}

	c := NewCLICompiler()
	c.HandleInput(ot, "?")

	if !strings.Contains(ot.out.String(), "@native [glob] - List all available native procedures.") {
		t.Error("Unexpected output:", ot.out.String())
		return
	}
}

func TestHandleInputCompile(t *testing.T) {
	color.NoColor = true

	ot := &testTerminal{}

	c := NewCLICompiler()
	c.HandleInput(ot, "proc {$ X Y} X = Y end")

	if res := ot.out.String(); !strings.HasPrefix(res,
		"closure (params:2 locals:0 closures:0)") {
		t.Error("Unexpected output:", res)
		return
	}

	// Errors are reported with position information

	ot = &testTerminal{}
	c.HandleInput(ot, "local X in")

	if res := ot.out.String(); res !=
		"Parse error in console input: Invalid scope (Reached end of input and could not find end token for <LOCAL>) (Line:1 Pos:1)\n" {
		t.Error("Unexpected output:", res)
		return
	}

	// The global store is shared between inputs

	ot = &testTerminal{}
	c.HandleInput(ot, "X = 1")
	c.HandleInput(ot, "X = 2")

	if res := ot.out.String(); res != "" {
		t.Error("Unexpected output:", res)
		return
	}
}

func TestHandleInputAST(t *testing.T) {
	ot := &testTerminal{}

	c := NewCLICompiler()
	c.HandleInput(ot, "@ast X = 1")

	expectedOutput := `
generic: toplevel
  naryop: unify
    variable: X
    integer: 1
`[1:]

	if res := ot.out.String(); res != expectedOutput {
		t.Error("Unexpected output:", res)
		return
	}
}

func TestHandleInputNativeListing(t *testing.T) {
	ot := &testTerminal{}

	c := NewCLICompiler()
	c.HandleInput(ot, "@native")

	res := ot.out.String()

	if !strings.Contains(res, "Show/1") || !strings.Contains(res, "Browse/1") {
		t.Error("Unexpected output:", res)
		return
	}

	// Glob filtering

	ot = &testTerminal{}
	c.HandleInput(ot, "@native Wait*")

	res = ot.out.String()

	if !strings.Contains(res, "Wait/1") || strings.Contains(res, "Show/1") {
		t.Error("Unexpected output:", res)
		return
	}
}
