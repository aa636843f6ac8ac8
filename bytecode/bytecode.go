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
Package bytecode contains the instruction set of the abstract machine which
runs compiled Oz procedures. A procedure body is a segment - an ordered,
growable sequence of instructions. Instruction operands are either
immediate store values or register references.
*/
package bytecode

import (
	"bytes"
	"fmt"
)

/*
Op represents a bytecode operation.
*/
type Op int

/*
Available bytecode operations
*/
const (
	OpUnify       Op = iota // Unify two store values
	OpNewVariable           // Create a fresh unbound variable
	OpNewArray              // Create a new array of a given size
	OpAssignArray           // Assign a value to an array slot
	OpCall                  // Call a closure
	OpCallNative            // Call a native procedure by its atom name
	OpExnRaise              // Raise an exception value

	// Declared operations which are left for future passes

	OpBranch       // Unconditional jump
	OpBranchIf     // Conditional jump
	OpTestEquality // Equality test
	OpAdd          // Numeric addition
	OpSubtract     // Numeric subtraction
	OpMultiply     // Numeric multiplication
	OpDivide       // Numeric division
)

/*
opNames maps bytecode operations to display names.
*/
var opNames = map[Op]string{
	OpUnify:        "unify",
	OpNewVariable:  "newvariable",
	OpNewArray:     "newarray",
	OpAssignArray:  "assignarray",
	OpCall:         "call",
	OpCallNative:   "callnative",
	OpExnRaise:     "exnraise",
	OpBranch:       "branch",
	OpBranchIf:     "branchif",
	OpTestEquality: "testequality",
	OpAdd:          "add",
	OpSubtract:     "subtract",
	OpMultiply:     "multiply",
	OpDivide:       "divide",
}

/*
String returns a display name for a bytecode operation.
*/
func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("op:%v", int(op))
}

/*
RegisterType determines which register file a register operand references.
*/
type RegisterType int

/*
Available register files
*/
const (
	ParamRegister   RegisterType = iota // Parameter of the running closure
	LocalRegister                       // Local register of the running closure
	ClosureRegister                     // Captured register of the running closure
)

/*
registerNames maps register files to display names.
*/
var registerNames = map[RegisterType]string{
	ParamRegister:   "param",
	LocalRegister:   "local",
	ClosureRegister: "closure",
}

/*
String returns a display name for a register file.
*/
func (rt RegisterType) String() string {
	if name, ok := registerNames[rt]; ok {
		return name
	}
	return fmt.Sprintf("register:%v", int(rt))
}

/*
OperandType determines the kind of an instruction operand.
*/
type OperandType int

/*
Available operand kinds
*/
const (
	InvalidOperand   OperandType = iota // Placeholder for operand absence
	ImmediateOperand                    // Pointer to a heap-allocated store value
	RegisterOperand                     // Register reference
)

/*
Operand is a single instruction argument.
*/
type Operand struct {
	Type     OperandType  // Kind of this operand
	Value    interface{}  // Immediate value (only for immediate operands)
	Register RegisterType // Register file (only for register operands)
	Index    int          // Register index (only for register operands)
}

/*
Immediate creates an immediate operand for a given value.
*/
func Immediate(value interface{}) Operand {
	return Operand{ImmediateOperand, value, 0, 0}
}

/*
Register creates a register operand.
*/
func Register(register RegisterType, index int) Operand {
	return Operand{RegisterOperand, nil, register, index}
}

/*
Invalid creates a placeholder operand.
*/
func Invalid() Operand {
	return Operand{}
}

/*
IsInvalid returns if this operand is a placeholder.
*/
func (o Operand) IsInvalid() bool {
	return o.Type == InvalidOperand
}

/*
String returns a string representation of this operand.
*/
func (o Operand) String() string {
	switch o.Type {
	case ImmediateOperand:
		return fmt.Sprintf("imm:%v", o.Value)
	case RegisterOperand:
		return fmt.Sprintf("%v:%v", o.Register, o.Index)
	}
	return "-"
}

/*
Instruction is a single bytecode instruction with its operands.
*/
type Instruction struct {
	Op   Op        // Operation of this instruction
	Args []Operand // Operands of the operation
}

/*
String returns a string representation of this instruction.
*/
func (i Instruction) String() string {
	var buf bytes.Buffer

	buf.WriteString(i.Op.String())

	for _, arg := range i.Args {
		buf.WriteString(" ")
		buf.WriteString(arg.String())
	}

	return buf.String()
}

/*
Segment is an ordered, growable sequence of bytecode instructions. Each
compiled procedure owns exactly one segment.
*/
type Segment struct {
	Instructions []Instruction // Instructions in execution order
}

/*
NewSegment creates a new empty segment.
*/
func NewSegment() *Segment {
	return &Segment{}
}

/*
Append adds a new instruction to this segment.
*/
func (s *Segment) Append(op Op, args ...Operand) {
	s.Instructions = append(s.Instructions, Instruction{op, args})
}

/*
Len returns the number of instructions of this segment.
*/
func (s *Segment) Len() int {
	return len(s.Instructions)
}

/*
String returns a disassembly of this segment.
*/
func (s *Segment) String() string {
	var buf bytes.Buffer

	for idx, i := range s.Instructions {
		buf.WriteString(fmt.Sprintf("%3d %v\n", idx, i))
	}

	return buf.String()
}
