/*
 * gooz - Oz language compiler core
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperands(t *testing.T) {

	op := Immediate(42)
	assert.Equal(t, ImmediateOperand, op.Type)
	assert.Equal(t, "imm:42", op.String())
	assert.False(t, op.IsInvalid())

	op = Register(ParamRegister, 0)
	assert.Equal(t, "param:0", op.String())

	op = Register(LocalRegister, 2)
	assert.Equal(t, "local:2", op.String())

	op = Register(ClosureRegister, 1)
	assert.Equal(t, "closure:1", op.String())

	op = Invalid()
	assert.True(t, op.IsInvalid())
	assert.Equal(t, "-", op.String())
}

func TestSegment(t *testing.T) {

	seg := NewSegment()
	assert.Equal(t, 0, seg.Len())

	seg.Append(OpNewVariable, Register(LocalRegister, 0))
	seg.Append(OpUnify, Register(LocalRegister, 0), Immediate(1))
	seg.Append(OpCall, Immediate("F"), Invalid())

	assert.Equal(t, 3, seg.Len())

	assert.Equal(t, `
  0 newvariable local:0
  1 unify local:0 imm:1
  2 call imm:F -
`[1:], seg.String())
}

func TestOpNames(t *testing.T) {

	assert.Equal(t, "unify", OpUnify.String())
	assert.Equal(t, "callnative", OpCallNative.String())
	assert.Equal(t, "exnraise", OpExnRaise.String())
	assert.Equal(t, "branchif", OpBranchIf.String())
	assert.Equal(t, "op:9999", Op(9999).String())

	assert.Equal(t, "param", ParamRegister.String())
	assert.Equal(t, "register:9999", RegisterType(9999).String())
}
