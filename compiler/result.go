/*
 * gooz - Oz language compiler core
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package compiler

import (
	"github.com/krotik/common/errorutil"

	"github.com/GelvinBelson/gooz/bytecode"
)

/*
ExpressionResult carries the result of one compiled statement or
expression between a parent and a child visit.

In statement mode the parent expects no value - the child emits
side-effecting bytecode only. In expression mode the parent expects a
value - the child supplies an operand via SetValue or the parent
pre-allocates an unbound placeholder via SetupValuePlaceholder.
*/
type ExpressionResult struct {
	statement bool             // Flag if the parent expects no value
	env       *Environment     // Environment for placeholder allocation
	value     bytecode.Operand // Operand which holds the value
	hasValue  bool             // Flag if a value operand was supplied
	temp      *ScopedTemp      // Placeholder register (if one was allocated)
}

/*
NewStatementResult creates a result for a visit which must not produce a
value.
*/
func NewStatementResult() *ExpressionResult {
	return &ExpressionResult{true, nil, bytecode.Invalid(), false, nil}
}

/*
NewExpressionResult creates a result for a visit which must produce a
value.
*/
func NewExpressionResult(env *Environment) *ExpressionResult {
	return &ExpressionResult{false, env, bytecode.Invalid(), false, nil}
}

/*
Statement returns if the parent expects no value.
*/
func (r *ExpressionResult) Statement() bool {
	return r.statement
}

/*
SetValue supplies the value operand of this result.
*/
func (r *ExpressionResult) SetValue(op bytecode.Operand) {
	errorutil.AssertTrue(!r.statement,
		"Cannot set a value on a statement result")

	r.value = op
	r.hasValue = true
}

/*
SetupValuePlaceholder pre-allocates a temporary register as the value of
this result. The register holds an unbound variable which the child binds.
Calling this twice is a no-op.
*/
func (r *ExpressionResult) SetupValuePlaceholder(name string) {
	errorutil.AssertTrue(!r.statement,
		"Cannot allocate a placeholder on a statement result")

	if r.hasValue {
		return
	}

	r.temp = NewScopedTemp(r.env)
	r.value = r.temp.Allocate(name)
	r.hasValue = true
}

/*
Value returns the value operand of this result.
*/
func (r *ExpressionResult) Value() bytecode.Operand {
	errorutil.AssertTrue(r.hasValue,
		"Expression result has no value")

	return r.value
}

/*
Release releases the placeholder register of this result if one was
allocated.
*/
func (r *ExpressionResult) Release() {
	if r.temp != nil {
		r.temp.Release()
		r.temp = nil
	}
}
