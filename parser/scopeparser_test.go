/*
 * gooz - Oz language compiler core
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package parser

import (
	"testing"
)

/*
UnitTestParse parses an input and returns the AST as a string.
*/
func UnitTestParse(name string, input string) (string, error) {
	res, err := Parse(name, input)

	if err != nil {
		return "", err
	}

	return ASTString(res), nil
}

func TestSimpleScopeParsing(t *testing.T) {

	input := `X = 1`
	expectedOutput := `
generic: toplevel
  naryop: unify
    variable: X
    integer: 1
`[1:]

	if res, err := UnitTestParse("mytest", input); err != nil || res != expectedOutput {
		t.Error("Unexpected parser output:\n", res, "expected was:\n", expectedOutput, "Error:", err)
		return
	}

	input = `local X in X = 1 end`
	expectedOutput = `
generic: toplevel
  local
    variable: X
    naryop: unify
      variable: X
      integer: 1
`[1:]

	if res, err := UnitTestParse("mytest", input); err != nil || res != expectedOutput {
		t.Error("Unexpected parser output:\n", res, "expected was:\n", expectedOutput, "Error:", err)
		return
	}
}

func TestNestedScopeParsing(t *testing.T) {

	input := `local X in local Y in X = Y end end`
	expectedOutput := `
generic: toplevel
  local
    variable: X
    local
      variable: Y
      naryop: unify
        variable: X
        variable: Y
`[1:]

	if res, err := UnitTestParse("mytest", input); err != nil || res != expectedOutput {
		t.Error("Unexpected parser output:\n", res, "expected was:\n", expectedOutput, "Error:", err)
		return
	}

	// Parenthesis grouping is a scope without an 'in'

	input = `X = (Y = Z)`
	expectedOutput = `
generic: toplevel
  naryop: unify
    variable: X
    naryop: unify
      variable: Y
      variable: Z
`[1:]

	if res, err := UnitTestParse("mytest", input); err != nil || res != expectedOutput {
		t.Error("Unexpected parser output:\n", res, "expected was:\n", expectedOutput, "Error:", err)
		return
	}
}

func TestScopeParsingErrors(t *testing.T) {

	// Unclosed scope

	input := `local X in X = 1`
	if _, err := UnitTestParse("mytest", input); err == nil || err.Error() !=
		"Parse error in mytest: Invalid scope (Reached end of input and could not find end token for <LOCAL>) (Line:1 Pos:1)" {
		t.Error("Unexpected parser error:", err)
		return
	}

	// Mismatched end token

	input = `{F A )`
	if _, err := UnitTestParse("mytest", input); err == nil || err.Error() !=
		"Parse error in mytest: Invalid scope (End token <RPAREN> does not match expectations to end <CALLBEGIN>) (Line:1 Pos:6)" {
		t.Error("Unexpected parser error:", err)
		return
	}

	// Stray end token at the top level

	input = `X end`
	if _, err := UnitTestParse("mytest", input); err == nil || err.Error() !=
		"Parse error in mytest: Invalid scope (Unexpected end token: <END>) (Line:1 Pos:3)" {
		t.Error("Unexpected parser error:", err)
		return
	}

	// Lexer errors are wrapped as parser errors

	input = `X = "unclosed`
	if _, err := UnitTestParse("mytest", input); err == nil || err.Error() !=
		"Parse error in mytest: Lexical error (Unexpected end while reading string value (unclosed quotes)) (Line:1 Pos:5)" {
		t.Error("Unexpected parser error:", err)
		return
	}

	// Unsupported scopes abort the parse

	input = `lock X then skip end`
	if _, err := UnitTestParse("mytest", input); err == nil || err.Error() !=
		"Parse error in mytest: Not implemented (Cannot parse lock scopes) (Line:1 Pos:1)" {
		t.Error("Unexpected parser error:", err)
		return
	}
}

func TestSpanInvariants(t *testing.T) {

	input := `local X in {F X 1} end`
	res, err := Parse("mytest", input)

	if err != nil {
		t.Error(err)
		return
	}

	// The span of every node must include the spans of all its children

	var checkSpans func(n Node)
	checkSpans = func(n Node) {
		span := n.Span()

		for _, child := range Children(n) {
			cspan := child.Span()

			if cspan.Begin.Pos < span.Begin.Pos || cspan.End.Pos > span.End.Pos {
				t.Errorf("Span of %v does not include child %v", n, child)
			}

			checkSpans(child)
		}
	}

	checkSpans(res)
}
