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
	"fmt"
	"testing"
)

func TestNextAndPeek(t *testing.T) {
	l := &lexer{"test", "abc", 0, 0, 0, 0, 0, false, nil}

	if r := l.next(1); r != 'a' {
		t.Errorf("Unexpected result: %v", string(r))
		return
	}

	if r := l.next(0); r != 'a' {
		t.Errorf("Unexpected result: %v", string(r))
		return
	}

	if r := l.next(1); r != 'b' {
		t.Errorf("Unexpected result: %v", string(r))
		return
	}

	if r := l.next(2); r != 'c' {
		t.Errorf("Unexpected result: %v", string(r))
		return
	}

	l.backup(0)

	if r := l.next(0); r != 'a' {
		t.Errorf("Unexpected result: %v", string(r))
		return
	}
}

func TestBasicTokenLexing(t *testing.T) {

	// Test simple statement

	input := `X = 1`
	if res := fmt.Sprint(LexToList("mytest", input)); res !=
		`[variable:"X" <UNIFY> v:1 EOF]` {
		t.Error("Unexpected lexer result:\n", res)
		return
	}

	// Test a procedure declaration

	input = `proc {P X} X end`
	if res := fmt.Sprint(LexToList("mytest", input)); res !=
		`[<PROC> <CALLBEGIN> variable:"P" variable:"X" <CALLEND> variable:"X" <END> EOF]` {
		t.Error("Unexpected lexer result:\n", res)
		return
	}

	// Test atoms and anonymous variables

	input = `{browse $}`
	if res := fmt.Sprint(LexToList("mytest", input)); res !=
		`[<CALLBEGIN> atom:"browse" <ANONVAR> <CALLEND> EOF]` {
		t.Error("Unexpected lexer result:\n", res)
		return
	}

	// Test operator symbols

	input = `A := B <- C == D`
	if res := fmt.Sprint(LexToList("mytest", input)); res !=
		`[variable:"A" <CELLASSIGN> variable:"B" <ATTRASSIGN> variable:"C" <EQUAL> variable:"D" EOF]` {
		t.Error("Unexpected lexer result:\n", res)
		return
	}
}

func TestNumberLexing(t *testing.T) {

	input := `12 3.14 7`
	res := LexToList("mytest", input)

	if fmt.Sprint(res) != `[v:12 v:3.14 v:7 EOF]` {
		t.Error("Unexpected lexer result:\n", res)
		return
	}

	if res[0].IntVal.Int64() != 12 {
		t.Error("Unexpected integer value:", res[0].IntVal)
		return
	}

	if res[1].RealVal != 3.14 {
		t.Error("Unexpected real value:", res[1].RealVal)
		return
	}

	// A dot which is not between digits is a record access

	input = `X.1`
	if res := fmt.Sprint(LexToList("mytest", input)); res !=
		`[variable:"X" <RECORDACCESS> v:1 EOF]` {
		t.Error("Unexpected lexer result:\n", res)
		return
	}
}

func TestRecordLexing(t *testing.T) {

	// A label directly followed by ( starts a record construction

	input := `person(name)`
	if res := fmt.Sprint(LexToList("mytest", input)); res !=
		`[<RECORDCONS> atom:"person" <RECORDFEATURES> atom:"name" <RPAREN> EOF]` {
		t.Error("Unexpected lexer result:\n", res)
		return
	}

	// A separated ( is a normal grouping

	input = `person (name)`
	if res := fmt.Sprint(LexToList("mytest", input)); res !=
		`[atom:"person" <LPAREN> atom:"name" <RPAREN> EOF]` {
		t.Error("Unexpected lexer result:\n", res)
		return
	}

	// Open records have a trailing ...

	input = `f(1 ...)`
	if res := fmt.Sprint(LexToList("mytest", input)); res !=
		`[<RECORDCONS> atom:"f" <RECORDFEATURES> v:1 <RECORDOPEN> <RPAREN> EOF]` {
		t.Error("Unexpected lexer result:\n", res)
		return
	}
}

func TestStringAndQuoteLexing(t *testing.T) {

	input := `"hello world"`
	if res := fmt.Sprint(LexToList("mytest", input)); res !=
		`[string:"hello world" EOF]` {
		t.Error("Unexpected lexer result:\n", res)
		return
	}

	// Quoted atoms may contain spaces and capitals

	input = `'Hello World'`
	if res := fmt.Sprint(LexToList("mytest", input)); res !=
		`[atom:"Hello World" EOF]` {
		t.Error("Unexpected lexer result:\n", res)
		return
	}

	// Backquoted names are variables

	input = "`some var`"
	if res := fmt.Sprint(LexToList("mytest", input)); res !=
		`[variable:"some var" EOF]` {
		t.Error("Unexpected lexer result:\n", res)
		return
	}

	// Unclosed strings are an error

	input = `"hello`
	if res := fmt.Sprint(LexToList("mytest", input)); res !=
		`[Error: Unexpected end while reading string value (unclosed quotes) (Line 1, Pos 1)]` {
		t.Error("Unexpected lexer result:\n", res)
		return
	}
}

func TestCommentLexing(t *testing.T) {

	input := `X % a line comment
= 1`
	if res := fmt.Sprint(LexToList("mytest", input)); res !=
		`[variable:"X" <UNIFY> v:1 EOF]` {
		t.Error("Unexpected lexer result:\n", res)
		return
	}

	input = `X /* a block
comment */ = 1`
	if res := fmt.Sprint(LexToList("mytest", input)); res !=
		`[variable:"X" <UNIFY> v:1 EOF]` {
		t.Error("Unexpected lexer result:\n", res)
		return
	}

	input = `X /* unclosed`
	if res := fmt.Sprint(LexToList("mytest", input)); res !=
		`[variable:"X" Error: Unexpected end while reading comment (Line 1, Pos 3)]` {
		t.Error("Unexpected lexer result:\n", res)
		return
	}
}

func TestPositionTracking(t *testing.T) {

	input := `local
  X
end`
	res := LexToList("mytest", input)

	if res[0].Lline != 1 || res[0].Lpos != 1 {
		t.Error("Unexpected position:", res[0].Lline, res[0].Lpos)
		return
	}

	if res[1].Lline != 2 || res[1].Lpos != 3 {
		t.Error("Unexpected position:", res[1].Lline, res[1].Lpos)
		return
	}

	if res[2].Lline != 3 || res[2].Lpos != 1 {
		t.Error("Unexpected position:", res[2].Lline, res[2].Lpos)
		return
	}

	if res[0].PosString() != "Line 1, Pos 1" {
		t.Error("Unexpected position string:", res[0].PosString())
		return
	}
}
