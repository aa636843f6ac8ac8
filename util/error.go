/*
 * gooz - Oz language compiler core
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

/*
Package util contains utility definitions and functions for the Oz
compiler core.
*/
package util

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/GelvinBelson/gooz/parser"
)

/*
CompilerError is a compilation related error.
*/
type CompilerError struct {
	Source string      // Name of the source which was given to the parser
	Type   error       // Error type (to be used for equal checks)
	Detail string      // Details of this error
	Node   parser.Node // AST node where the error occurred
	Line   int         // Line of the error
	Pos    int         // Position of the error
}

/*
Compilation related error types.
*/
var (
	ErrNotImplemented   = errors.New("Not implemented")
	ErrUnknownConstruct = errors.New("Unknown construct")
	ErrInvalidConstruct = errors.New("Invalid construct")
	ErrInvalidState     = errors.New("Invalid state")
	ErrVarAccess        = errors.New("Cannot access variable")
)

/*
NewCompilerError creates a new CompilerError object.
*/
func NewCompilerError(source string, t error, d string, node parser.Node) error {
	if node != nil {
		begin := node.Span().Begin
		return &CompilerError{source, t, d, node, begin.Lline, begin.Lpos}
	}
	return &CompilerError{source, t, d, nil, 0, 0}
}

/*
Error returns a human-readable string representation of this error.
*/
func (ce *CompilerError) Error() string {
	ret := fmt.Sprintf("Compile error in %s: %v (%v)", ce.Source, ce.Type, ce.Detail)

	if ce.Line != 0 {

		// Add line if available

		ret = fmt.Sprintf("%s (Line:%d Pos:%d)", ret, ce.Line, ce.Pos)
	}

	return ret
}

/*
ToJSONObject returns this CompilerError as a JSON object.
*/
func (ce *CompilerError) ToJSONObject() map[string]interface{} {
	t := ""
	if ce.Type != nil {
		t = ce.Type.Error()
	}
	return map[string]interface{}{
		"Source": ce.Source,
		"Type":   t,
		"Detail": ce.Detail,
		"Line":   ce.Line,
		"Pos":    ce.Pos,
	}
}

/*
MarshalJSON serializes this CompilerError into a JSON string.
*/
func (ce *CompilerError) MarshalJSON() ([]byte, error) {
	return json.Marshal(ce.ToJSONObject())
}
