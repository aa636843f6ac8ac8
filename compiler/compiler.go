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
Package compiler contains the compile visitor which translates a parsed
AST into bytecode. The visitor maintains a stack of environments (one per
nested procedure), a stack of bytecode segments and a current expression
result which determines statement or expression semantics of each visit.
*/
package compiler

import (
	"fmt"

	"github.com/krotik/common/errorutil"

	"github.com/GelvinBelson/gooz/bytecode"
	"github.com/GelvinBelson/gooz/parser"
	"github.com/GelvinBelson/gooz/store"
	"github.com/GelvinBelson/gooz/util"
)

/*
Compile parses and compiles a given source text. All literals and
closures are allocated in the given store. Returns the last computed top
level value (typically a closure).
*/
func Compile(name string, text string, st *store.Store) (store.Value, error) {
	return CompileWithLogger(name, text, st, util.NewNullLogger())
}

/*
CompileWithLogger parses and compiles a given source text and writes
debug output to a given logger.
*/
func CompileWithLogger(name string, text string, st *store.Store,
	logger util.Logger) (store.Value, error) {

	root, err := parser.Parse(name, text)
	if err != nil {
		return nil, err
	}

	if err := parser.CheckErrors(name, root); err != nil {
		return nil, err
	}

	logger.LogDebug("AST:\n", parser.ASTString(root))

	return NewCompileVisitor(name, st, logger).CompileAST(root)
}

/*
CompileVisitor walks a typed AST and emits bytecode into the current
segment. Segments and environments are pushed and popped in strict LIFO
order - one pair per nested procedure.
*/
type CompileVisitor struct {
	name      string              // Name to identify the input
	store     *store.Store        // Store for value allocation
	logger    util.Logger         // Logger for debug output
	env       *Environment        // Environment of the current procedure
	segment   *bytecode.Segment   // Segment of the current procedure
	segments  []*bytecode.Segment // Stack of suspended segments
	result    *ExpressionResult   // Result mode of the current visit
	atomEmpty *store.Atom         // Dummy initialization value for arrays
	lastValue store.Value         // Last compiled closure
}

/*
NewCompileVisitor creates a new compile visitor with a fresh top level
environment and segment.
*/
func NewCompileVisitor(name string, st *store.Store, logger util.Logger) *CompileVisitor {
	return &CompileVisitor{name, st, logger, NewEnvironment(nil, st),
		bytecode.NewSegment(), nil, NewStatementResult(), st.NewAtom(""), nil}
}

/*
Environment returns the environment of the current procedure.
*/
func (v *CompileVisitor) Environment() *Environment {
	return v.env
}

/*
Segment returns the segment of the current procedure.
*/
func (v *CompileVisitor) Segment() *bytecode.Segment {
	return v.segment
}

/*
CompileAST compiles all definitions of a parsed top level node in
sequence. Returns the last computed value.
*/
func (v *CompileVisitor) CompileAST(root parser.Node) (store.Value, error) {
	generic, ok := root.(*parser.Generic)

	if !ok || generic.ID != parser.TokenTOPLEVEL {
		return nil, util.NewCompilerError(v.name, util.ErrInvalidState,
			"Cannot compile a node which is not a top level node", root)
	}

	var result store.Value

	for _, node := range generic.Nodes {
		val, err := v.CompileNode(node)
		if err != nil {
			return nil, err
		}
		if val != nil {
			result = val
		}
	}

	return result, nil
}

/*
CompileNode compiles a single top level definition. Value nodes are
compiled in expression mode and their value is returned, all other nodes
are compiled as statements.
*/
func (v *CompileVisitor) CompileNode(node parser.Node) (store.Value, error) {
	v.lastValue = nil

	if isExpressionNode(node) {
		res := NewExpressionResult(v.env)
		v.result = res

		if err := v.visit(node); err != nil {
			return nil, err
		}

		op := res.Value()
		res.Release()

		if op.Type == bytecode.ImmediateOperand {
			if val, ok := op.Value.(store.Value); ok {
				return val, nil
			}
		}

		return nil, nil
	}

	v.result = NewStatementResult()

	if err := v.visit(node); err != nil {
		return nil, err
	}

	return v.lastValue, nil
}

/*
isExpressionNode checks if a top level node can only be compiled in
expression mode.
*/
func isExpressionNode(node parser.Node) bool {
	switch n := node.(type) {

	case *parser.Leaf, *parser.Var:
		return true

	case *parser.Proc:

		// An anonymous procedure is an expression, a named one a statement

		if len(n.Signature.Nodes) > 0 {
			if leaf, ok := n.Signature.Nodes[0].(*parser.Leaf); ok {
				return leaf.Token.ID == parser.TokenVARANON
			}
		}
	}

	return false
}

// Visitor dispatch
// ================

/*
visit compiles a single AST node according to the current result mode.
*/
func (v *CompileVisitor) visit(node parser.Node) error {

	switch n := node.(type) {

	case *parser.Generic:
		return v.visitGeneric(n)

	case *parser.Leaf:
		return v.visitLeaf(n)

	case *parser.Var:
		return v.visitVar(n)

	case *parser.Proc:
		return v.visitProc(n)

	case *parser.Local:
		return v.visitLocal(n)

	case *parser.NaryOp:
		return v.visitNaryOp(n)

	case *parser.Sequence:
		return v.visitSequence(n)

	case *parser.Call:
		return v.visitCall(n)

	case *parser.Raise:
		return v.visitRaise(n)

	case *parser.ErrorNode:
		return util.NewCompilerError(v.name, util.ErrInvalidConstruct,
			n.Message, n)

	case *parser.Record:
		return v.notImplemented("records", n)

	case *parser.UnaryOp:
		return v.notImplemented("unary operators", n)

	case *parser.BinaryOp:
		return v.notImplemented("binary operators", n)

	case *parser.Cond:
		return v.notImplemented("conditionals", n)

	case *parser.CondBranch, *parser.PatternMatch, *parser.PatternBranch:
		return v.notImplemented("branches", node)

	case *parser.Thread:
		return v.notImplemented("threads", n)

	case *parser.Lock:
		return v.notImplemented("locks", n)

	case *parser.Loop, *parser.ForLoop:
		return v.notImplemented("loops", node)

	case *parser.Try:
		return v.notImplemented("try blocks", n)

	case *parser.Class:
		return v.notImplemented("classes", n)

	case *parser.Functor:
		return v.notImplemented("functors", n)

	case *parser.List:
		return v.notImplemented("lists", n)
	}

	return util.NewCompilerError(v.name, util.ErrUnknownConstruct,
		fmt.Sprintf("Unexpected node: %v", node), node)
}

/*
notImplemented creates an error for an AST variant which cannot be
compiled yet.
*/
func (v *CompileVisitor) notImplemented(what string, node parser.Node) error {
	return util.NewCompilerError(v.name, util.ErrNotImplemented,
		fmt.Sprintf("Cannot compile %v", what), node)
}

// Segment and environment stack
// =============================

/*
pushProcState suspends the current segment and environment and installs
fresh ones for a nested procedure.
*/
func (v *CompileVisitor) pushProcState(env *Environment) {
	v.segments = append(v.segments, v.segment)
	v.segment = bytecode.NewSegment()
	v.env = env
}

/*
popProcState restores the suspended segment and environment of the
enclosing procedure. Returns the segment of the nested procedure.
*/
func (v *CompileVisitor) popProcState() *bytecode.Segment {
	errorutil.AssertTrue(len(v.segments) > 0,
		"Procedure states must be pushed and popped in LIFO order")

	seg := v.segment

	v.segment = v.segments[len(v.segments)-1]
	v.segments = v.segments[:len(v.segments)-1]

	errorutil.AssertTrue(v.env.parent != nil,
		"Cannot pop the top level environment")
	v.env = v.env.parent

	return seg
}

// Per-variant emission
// ====================

/*
visitGeneric compiles a top level node - each definition is compiled with
a fresh statement result.
*/
func (v *CompileVisitor) visitGeneric(node *parser.Generic) error {
	if node.ID != parser.TokenTOPLEVEL {
		return util.NewCompilerError(v.name, util.ErrInvalidState,
			fmt.Sprintf("Cannot compile generic node: %v", node.ID.Name()), node)
	}

	for _, def := range node.Nodes {
		v.result = NewStatementResult()

		if err := v.visit(def); err != nil {
			return err
		}
	}

	return nil
}

/*
visitLeaf compiles a literal by materializing it as a store value.
*/
func (v *CompileVisitor) visitLeaf(node *parser.Leaf) error {
	if v.result.Statement() {
		return util.NewCompilerError(v.name, util.ErrInvalidConstruct,
			fmt.Sprintf("Invalid statement: %v", node.Token), node)
	}

	switch node.Token.ID {

	case parser.TokenINTEGER:
		v.result.SetValue(bytecode.Immediate(v.store.NewInteger(node.Token.IntVal)))

	case parser.TokenATOM:
		v.result.SetValue(bytecode.Immediate(v.store.NewAtom(node.Token.Val)))

	case parser.TokenSTRING:
		v.result.SetValue(bytecode.Immediate(v.store.NewString(node.Token.Val)))

	case parser.TokenREAL:
		v.result.SetValue(bytecode.Immediate(v.store.NewReal(node.Token.RealVal)))

	case parser.TokenVARANON:
		return v.notImplemented("a free standing anonymous variable", node)

	default:
		return util.NewCompilerError(v.name, util.ErrUnknownConstruct,
			fmt.Sprintf("Unexpected node: %v", node.Token), node)
	}

	return nil
}

/*
visitVar compiles a variable reference by looking it up in the
environment.
*/
func (v *CompileVisitor) visitVar(node *parser.Var) error {
	if v.result.Statement() {
		return util.NewCompilerError(v.name, util.ErrInvalidConstruct,
			fmt.Sprintf("Invalid statement: %v", node.Name), node)
	}

	sym, err := v.env.Get(node.Name)
	if err != nil {
		return util.NewCompilerError(v.name, util.ErrVarAccess, err.Error(), node)
	}

	v.result.SetValue(sym.Operand())

	return nil
}

/*
visitProc compiles a procedure definition into a closure.

proc {$ ...} is an expression whose value is the closure.
proc {P ...} is a statement which binds P to the closure.
*/
func (v *CompileVisitor) visitProc(node *parser.Proc) error {
	var procSym *Symbol

	signature := node.Signature
	param0 := signature.Nodes[0]

	switch p0 := param0.(type) {

	case *parser.Var:
		if !v.result.Statement() {
			return util.NewCompilerError(v.name, util.ErrInvalidConstruct,
				"Named procedure cannot be an expression", node)
		}

		var err error
		if v.env.ExistsGlobally(p0.Name) {
			procSym, err = v.env.Get(p0.Name)
		} else {
			procSym, err = v.env.Define(p0.Name)
		}

		if err != nil {
			return util.NewCompilerError(v.name, util.ErrVarAccess,
				err.Error(), node)
		}

	case *parser.Leaf:
		if p0.Token.ID != parser.TokenVARANON {
			return util.NewCompilerError(v.name, util.ErrInvalidConstruct,
				fmt.Sprintf("Invalid procedure: %v", p0.Token), node)
		}

		if v.result.Statement() {
			return util.NewCompilerError(v.name, util.ErrInvalidConstruct,
				"Anonymous procedure cannot be a statement", node)
		}

	default:
		return util.NewCompilerError(v.name, util.ErrInvalidConstruct,
			"Invalid procedure signature", node)
	}

	// Create a new environment for this procedure using the current
	// environment as parent

	env := NewEnvironment(v.env, v.store)

	for _, param := range signature.Nodes[1:] {
		paramVar, ok := param.(*parser.Var)
		if !ok {
			return util.NewCompilerError(v.name, util.ErrInvalidConstruct,
				"Invalid parameter in procedure signature", param)
		}

		if err := env.AddParameter(paramVar.Name); err != nil {
			return util.NewCompilerError(v.name, util.ErrInvalidConstruct,
				err.Error(), param)
		}
	}

	if node.Fun {

		// fun {F X Y} is equivalent to proc {F X Y Result} with the body
		// wrapped so that its value unifies with Result

		return v.notImplemented("functions", node)
	}

	savedResult := v.result
	v.pushProcState(env)

	v.result = NewStatementResult()
	err := v.visit(node.Body)

	segment := v.popProcState()
	v.result = savedResult

	if err != nil {
		return err
	}

	closure := v.store.NewClosure(segment, env.NumParameters(),
		env.NumLocals(), env.NumClosures())

	v.logger.LogDebug("Compiled procedure:\n", closure)

	val := v.store.Optimize(closure)
	v.lastValue = val

	if v.result.Statement() {

		// proc {P ...} is equivalent to P = proc {$ ...}

		v.segment.Append(bytecode.OpUnify, procSym.Operand(),
			bytecode.Immediate(val))

	} else {
		v.result.SetValue(bytecode.Immediate(val))
	}

	return nil
}

/*
visitLocal compiles a scope with definitions. The definitions are
compiled with an open local allocator, the body is compiled with the
allocator locked so that its symbols stay visible but no new symbol may
be defined.
*/
func (v *CompileVisitor) visitLocal(node *parser.Local) error {
	alloc := v.env.NewNestedLocalAllocator()
	defer alloc.Release()

	if node.Defs != nil {
		if err := v.compileLocalDefs(node.Defs); err != nil {
			return err
		}
	}

	alloc.Lock()

	// The body inherits the result mode of the caller

	return v.visit(node.Body)
}

/*
compileLocalDefs compiles the definition section of a local scope. Bare
variables are declared, unifications declare their leading variable and
emit the initialization.
*/
func (v *CompileVisitor) compileLocalDefs(defs parser.Node) error {

	switch d := defs.(type) {

	case *parser.Var:
		if _, err := v.env.Define(d.Name); err != nil {
			return util.NewCompilerError(v.name, util.ErrVarAccess,
				err.Error(), d)
		}
		return nil

	case *parser.Sequence:
		for _, child := range d.Nodes {
			if err := v.compileLocalDefs(child); err != nil {
				return err
			}
		}
		return nil

	case *parser.NaryOp:
		if d.Op.ExactID == parser.TokenUNIFY {
			if lead, ok := d.Operands[0].(*parser.Var); ok {
				if _, err := v.env.Define(lead.Name); err != nil {
					return util.NewCompilerError(v.name, util.ErrVarAccess,
						err.Error(), lead)
				}
			}
		}
	}

	// Compile the definition as a statement to emit its side effects

	savedResult := v.result
	v.result = NewStatementResult()

	err := v.visit(defs)

	v.result = savedResult
	return err
}

/*
visitNaryOp compiles a flat operator. Only unification is supported - all
operands are unified against the first one which becomes the value of the
whole expression.
*/
func (v *CompileVisitor) visitNaryOp(node *parser.NaryOp) error {
	errorutil.AssertTrue(len(node.Operands) > 0,
		"N-ary operator without operands")

	switch node.Op.ExactID {

	case parser.TokenUNIFY:
		break

	case parser.TokenTUPLECONS, parser.TokenNUMERICMUL, parser.TokenNUMERICADD:
		return v.notImplemented(
			fmt.Sprintf("n-ary operator '%v'", node.Op.ExactID.Name()), node)

	default:
		return util.NewCompilerError(v.name, util.ErrInvalidConstruct,
			fmt.Sprintf("Invalid n-ary operator: %v", node.Op), node)
	}

	// The result for the entire unification expression/statement

	result := v.result
	isStatement := result.Statement()

	var first *ExpressionResult
	if isStatement {

		// Create an expression result placeholder for the first operand

		first = NewExpressionResult(v.env)
	} else {

		// The first operand is the result of the entire unification

		first = result
	}

	// Compute the first operand - all other operands are unified against it

	v.result = first
	if err := v.visit(node.Operands[0]); err != nil {
		if isStatement {
			first.Release()
		}
		v.result = result
		return err
	}

	firstOp := first.Value()

	for _, operand := range node.Operands[1:] {
		next := NewExpressionResult(v.env)
		v.result = next

		if err := v.visit(operand); err != nil {
			next.Release()
			if isStatement {
				first.Release()
			}
			v.result = result
			return err
		}

		v.segment.Append(bytecode.OpUnify, firstOp, next.Value())
		next.Release()
	}

	if isStatement {
		first.Release()
	}

	v.result = result
	return nil
}

/*
visitSequence compiles each statement of a sequence. The last statement
inherits the result mode of the caller.
*/
func (v *CompileVisitor) visitSequence(node *parser.Sequence) error {
	errorutil.AssertTrue(len(node.Nodes) > 0, "Empty sequence")

	result := v.result
	ilast := len(node.Nodes) - 1

	for i, child := range node.Nodes {
		if i == ilast {
			v.result = result
		} else {
			v.result = NewStatementResult()
		}

		if err := v.visit(child); err != nil {
			v.result = result
			return err
		}
	}

	v.result = result
	return nil
}

/*
visitCall compiles a procedure call.

As an expression {Proc P1 ... Pk} has an implicit trailing return
parameter and {Proc P1 ... $ ... Pk} an explicit one. At most one '$' is
permitted and only in expression mode.
*/
func (v *CompileVisitor) visitCall(node *parser.Call) error {
	result := v.result
	isStatement := result.Statement()

	if !isStatement {
		result.SetupValuePlaceholder("CallReturnPlaceholder")
	}

	// Determine if there is an explicit return parameter '$'

	hasVarAnon := false
	for _, param := range node.Nodes[1:] {
		if leaf, ok := param.(*parser.Leaf); ok &&
			leaf.Token.ID == parser.TokenVARANON {

			if hasVarAnon {
				return util.NewCompilerError(v.name, util.ErrInvalidConstruct,
					"Invalid call with multiple '$'", node)
			}
			hasVarAnon = true
		}
	}

	if hasVarAnon && isStatement {
		return util.NewCompilerError(v.name, util.ErrInvalidConstruct,
			"Invalid statement call with '$'", node)
	}

	// Determine the actual number of parameters for the call including
	// the implicit return value if needed

	nparams := len(node.Nodes) - 1
	if !isStatement && !hasVarAnon {
		nparams++
	}

	paramsTemp := NewScopedTemp(v.env)
	defer paramsTemp.Release()

	paramsOp := bytecode.Invalid()

	if nparams > 0 {
		paramsOp = paramsTemp.Allocate("CallParametersArray")

		// Create the parameters array

		v.segment.Append(bytecode.OpNewArray, paramsOp,
			bytecode.Immediate(v.store.NewIntegerFromInt64(int64(nparams))),
			bytecode.Immediate(v.atomEmpty))

		// Compute each parameter and set its value in the array

		for iparam, param := range node.Nodes[1:] {
			var paramOp bytecode.Operand

			paramResult := NewExpressionResult(v.env)

			if leaf, ok := param.(*parser.Leaf); ok &&
				leaf.Token.ID == parser.TokenVARANON {

				// Explicit output parameter

				paramOp = result.Value()
				v.segment.Append(bytecode.OpNewVariable, paramOp)

			} else {
				v.result = paramResult

				if err := v.visit(param); err != nil {
					paramResult.Release()
					v.result = result
					return err
				}

				paramOp = paramResult.Value()
			}

			errorutil.AssertTrue(!paramOp.IsInvalid(),
				"Call parameter without a value")

			v.segment.Append(bytecode.OpAssignArray, paramsOp,
				bytecode.Immediate(v.store.NewIntegerFromInt64(int64(iparam))),
				paramOp)

			paramResult.Release()
		}

		// Initialize the implicit return-value parameter if needed

		if !isStatement && !hasVarAnon {
			paramOp := result.Value()

			v.segment.Append(bytecode.OpNewVariable, paramOp)
			v.segment.Append(bytecode.OpAssignArray, paramsOp,
				bytecode.Immediate(v.store.NewIntegerFromInt64(int64(nparams-1))),
				paramOp)
		}
	}

	// Evaluate the expression which determines the procedure to invoke

	procResult := NewExpressionResult(v.env)
	v.result = procResult

	if err := v.visit(node.Nodes[0]); err != nil {
		procResult.Release()
		v.result = result
		return err
	}

	procOp := procResult.Value()

	// An immediate atom as the callee selects a native procedure

	native := false
	if procOp.Type == bytecode.ImmediateOperand {
		_, native = procOp.Value.(*store.Atom)
	}

	if native {
		v.segment.Append(bytecode.OpCallNative, procOp, paramsOp)
	} else {
		v.segment.Append(bytecode.OpCall, procOp, paramsOp)
	}

	procResult.Release()

	// Result for this call expression/statement

	v.result = result
	return nil
}

/*
visitRaise compiles a raise construct. The expression result of the
caller is saved and restored around the exception expression.
*/
func (v *CompileVisitor) visitRaise(node *parser.Raise) error {
	result := v.result

	exnResult := NewExpressionResult(v.env)
	v.result = exnResult

	if err := v.visit(node.Exn); err != nil {
		exnResult.Release()
		v.result = result
		return err
	}

	v.segment.Append(bytecode.OpExnRaise, exnResult.Value())

	exnResult.Release()
	v.result = result

	// No need to set a result value here

	return nil
}
