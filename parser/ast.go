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
	"bytes"
	"fmt"

	"github.com/krotik/common/stringutil"
)

// AST Nodes
// =========

/*
Span models the lexeme range which produced an AST node. The span of a node
always includes the spans of all its children.
*/
type Span struct {
	Begin LexToken // First lexeme of the node
	End   LexToken // Last lexeme of the node
}

/*
NewSpan creates a new span from a begin and an end lexeme.
*/
func NewSpan(begin LexToken, end LexToken) Span {
	return Span{begin, end}
}

/*
SpanNodes creates a span which covers two nodes.
*/
func SpanNodes(first Node, last Node) Span {
	return Span{first.Span().Begin, last.Span().End}
}

/*
Node models a node in the AST. Each parser stage produces and consumes
nodes - the scope parser emits Generic, Var and Leaf nodes, the structural
and expression parsers rewrite them into the typed variants.
*/
type Node interface {

	/*
		Span returns the lexeme range which produced this node.
	*/
	Span() Span
}

/*
Leaf is a single lexeme wrapped as an AST node. It represents literals,
the anonymous variable marker and unresolved tokens.
*/
type Leaf struct {
	Token LexToken // Wrapped lexeme
}

/*
NewLeaf wraps a given lexeme as an AST node.
*/
func NewLeaf(t LexToken) *Leaf {
	return &Leaf{t}
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *Leaf) Span() Span { return Span{n.Token, n.Token} }

/*
Var is a variable reference.
*/
type Var struct {
	Token LexToken // Wrapped lexeme
	Name  string   // Name of the variable
}

/*
NewVar wraps a given variable lexeme as an AST node.
*/
func NewVar(t LexToken) *Var {
	return &Var{t, t.Val}
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *Var) Span() Span { return Span{n.Token, n.Token} }

/*
Generic is an ordered group of nodes. It is used for unparsed scopes and
for the top level. The ID records the opener lexeme kind of the scope.
*/
type Generic struct {
	Tokens Span       // Lexeme range of the node
	ID     LexTokenID // Opener kind of the scope (e.g. local, {, toplevel)
	Nodes  []Node     // Child nodes
}

/*
NewGeneric creates a new generic group node.
*/
func NewGeneric(id LexTokenID, tokens Span) *Generic {
	return &Generic{tokens, id, nil}
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *Generic) Span() Span { return n.Tokens }

/*
ErrorNode is a structural parse error which is kept in the AST. Error nodes
propagate unchanged and are only inspected by the error check pass.
*/
type ErrorNode struct {
	Node    Node   // Node which could not be parsed
	Message string // Error message
}

/*
NewErrorNode creates a new error node for a given node and message.
*/
func NewErrorNode(node Node, message string) *ErrorNode {
	return &ErrorNode{node, message}
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *ErrorNode) Span() Span { return n.Node.Span() }

/*
Record is a record construction label(feature1 feature2 ...).
*/
type Record struct {
	Tokens   Span     // Lexeme range of the node
	Label    Node     // Record label
	Features *Generic // Feature list
	Open     bool     // Flag if this is an open record (trailing ...)
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *Record) Span() Span { return n.Tokens }

/*
UnaryOp is a prefix operator applied to an operand.
*/
type UnaryOp struct {
	Tokens  Span     // Lexeme range of the node
	Op      LexToken // Operator lexeme
	Operand Node     // Operand of the operator
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *UnaryOp) Span() Span { return n.Tokens }

/*
BinaryOp is a binary operator applied to two operands.
*/
type BinaryOp struct {
	Tokens Span     // Lexeme range of the node
	Op     LexToken // Operator lexeme
	Lop    Node     // Left operand
	Rop    Node     // Right operand
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *BinaryOp) Span() Span { return n.Tokens }

/*
NaryOp is a flat operator applied to two or more operands. Any occurrence
of the operator within a run of operands belongs to the same node.
*/
type NaryOp struct {
	Tokens   Span     // Lexeme range of the node
	Op       LexToken // Operator lexeme
	Operands []Node   // Operands of the operator (never empty)
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *NaryOp) Span() Span { return n.Tokens }

/*
Functor models a functor ... end definition with its named sections.
All sections are optional.
*/
type Functor struct {
	Tokens     Span // Lexeme range of the node
	FunctorDef Node // Section before the first separator
	Exports    Node // export section
	Require    Node // require section
	Prepare    Node // prepare section
	Import     Node // import section
	Define     Node // define section
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *Functor) Span() Span { return n.Tokens }

/*
Local models a scope with definitions: local Defs in Body end.
*/
type Local struct {
	Tokens Span // Lexeme range of the node
	Defs   Node // Definitions before the in separator (may be nil)
	Body   Node // Body after the in separator
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *Local) Span() Span { return n.Tokens }

/*
Proc models a procedure or function definition.
*/
type Proc struct {
	Tokens    Span  // Lexeme range of the node
	Signature *Call // Signature call {Name Param1 ... ParamK}
	Body      Node  // Procedure body
	Fun       bool  // Flag if this was declared with fun
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *Proc) Span() Span { return n.Tokens }

/*
Cond models an if or case construct with its branches.
*/
type Cond struct {
	Tokens     Span   // Lexeme range of the node
	Branches   []Node // CondBranch or PatternMatch nodes
	ElseBranch Node   // Trailing else section (may be nil)
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *Cond) Span() Span { return n.Tokens }

/*
CondBranch is a single condition / body pair of an if construct.
*/
type CondBranch struct {
	Tokens    Span // Lexeme range of the node
	Condition Node // Branch condition
	Body      Node // Branch body
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *CondBranch) Span() Span { return n.Tokens }

/*
PatternMatch models a case value of pattern1 ... construct.
*/
type PatternMatch struct {
	Tokens   Span   // Lexeme range of the node
	Value    Node   // Value which is matched
	Branches []Node // PatternBranch nodes
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *PatternMatch) Span() Span { return n.Tokens }

/*
PatternBranch is a single pattern / body pair of a case construct.
*/
type PatternBranch struct {
	Tokens    Span // Lexeme range of the node
	Pattern   Node // Pattern to match
	Condition Node // Optional guard condition (may be nil)
	Body      Node // Branch body
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *PatternBranch) Span() Span { return n.Tokens }

/*
Thread models a thread ... end construct.
*/
type Thread struct {
	Tokens Span // Lexeme range of the node
	Body   Node // Thread body
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *Thread) Span() Span { return n.Tokens }

/*
Lock models a lock ... end construct.
*/
type Lock struct {
	Tokens   Span // Lexeme range of the node
	LockExpr Node // Lock expression
	Body     Node // Lock body
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *Lock) Span() Span { return n.Tokens }

/*
Loop models a general loop construct.
*/
type Loop struct {
	Tokens Span // Lexeme range of the node
	Body   Node // Loop body
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *Loop) Span() Span { return n.Tokens }

/*
ForLoop models a for ... end construct.
*/
type ForLoop struct {
	Tokens Span // Lexeme range of the node
	Body   Node // Loop body
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *ForLoop) Span() Span { return n.Tokens }

/*
Try models a try ... catch ... finally ... end construct.
*/
type Try struct {
	Tokens  Span // Lexeme range of the node
	Body    Node // Protected body
	Catches Node // Catch clause (may be nil)
	Finally Node // Finally clause (may be nil)
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *Try) Span() Span { return n.Tokens }

/*
Raise models a raise ... end construct.
*/
type Raise struct {
	Tokens Span // Lexeme range of the node
	Exn    Node // Exception value
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *Raise) Span() Span { return n.Tokens }

/*
Class models a class ... end construct. Classes are not supported yet.
*/
type Class struct {
	Tokens Span   // Lexeme range of the node
	Nodes  []Node // Child nodes
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *Class) Span() Span { return n.Tokens }

/*
Call models a procedure call {Proc Arg1 ... ArgK}. The first node is the
callee, the remaining nodes are the arguments.
*/
type Call struct {
	Tokens Span   // Lexeme range of the node
	Nodes  []Node // Callee followed by arguments (never empty)
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *Call) Span() Span { return n.Tokens }

/*
Sequence is an ordered list of statements or expressions.
*/
type Sequence struct {
	Tokens Span   // Lexeme range of the node
	Nodes  []Node // Statements in order
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *Sequence) Span() Span { return n.Tokens }

/*
List models a list construction [ ... ].
*/
type List struct {
	Tokens Span   // Lexeme range of the node
	Nodes  []Node // List elements in order
}

/*
Span returns the lexeme range which produced this node.
*/
func (n *List) Span() Span { return n.Tokens }

// Child access
// ============

/*
Children returns the child nodes of a given node in order. Nil sub nodes
are omitted.
*/
func Children(n Node) []Node {
	collect := func(nodes ...Node) []Node {
		var ret []Node
		for _, c := range nodes {
			if c != nil {
				ret = append(ret, c)
			}
		}
		return ret
	}

	switch n := n.(type) {
	case *Leaf, *Var:
		return nil
	case *Generic:
		return n.Nodes
	case *ErrorNode:
		return collect(n.Node)
	case *Record:
		return collect(n.Label, n.Features)
	case *UnaryOp:
		return collect(n.Operand)
	case *BinaryOp:
		return collect(n.Lop, n.Rop)
	case *NaryOp:
		return n.Operands
	case *Functor:
		return collect(n.FunctorDef, n.Exports, n.Require, n.Prepare,
			n.Import, n.Define)
	case *Local:
		return collect(n.Defs, n.Body)
	case *Proc:
		return collect(n.Signature, n.Body)
	case *Cond:
		return collect(append(append([]Node{}, n.Branches...), n.ElseBranch)...)
	case *CondBranch:
		return collect(n.Condition, n.Body)
	case *PatternMatch:
		return collect(append([]Node{n.Value}, n.Branches...)...)
	case *PatternBranch:
		return collect(n.Pattern, n.Condition, n.Body)
	case *Thread:
		return collect(n.Body)
	case *Lock:
		return collect(n.LockExpr, n.Body)
	case *Loop:
		return collect(n.Body)
	case *ForLoop:
		return collect(n.Body)
	case *Try:
		return collect(n.Body, n.Catches, n.Finally)
	case *Raise:
		return collect(n.Exn)
	case *Class:
		return n.Nodes
	case *Call:
		return n.Nodes
	case *Sequence:
		return n.Nodes
	case *List:
		return n.Nodes
	}

	return nil
}

/*
nodeID returns the lexeme kind which corresponds to a given node. Leaf
nodes map to the exact kind of their lexeme, generic nodes to their opener
kind. Typed nodes have no corresponding lexeme kind.
*/
func nodeID(n Node) LexTokenID {
	switch n := n.(type) {
	case *Leaf:
		return n.Token.ExactID
	case *Var:
		return TokenVARIABLE
	case *Generic:
		return n.ID
	}
	return TokenINVALID
}

// AST pretty printing
// ===================

/*
ASTString returns a string representation of an AST.
*/
func ASTString(n Node) string {
	var buf bytes.Buffer
	levelString(n, 0, &buf)
	return buf.String()
}

/*
levelString recursively prints an AST.
*/
func levelString(n Node, indent int, buf *bytes.Buffer) {

	// Print current level

	buf.WriteString(stringutil.GenerateRollingString(" ", indent*2))

	switch n := n.(type) {

	case *Leaf:
		switch n.Token.ID {
		case TokenINTEGER, TokenREAL:
			buf.WriteString(fmt.Sprintf("%v: %v", n.Token.ID.Name(), n.Token.Val))
		case TokenATOM, TokenSTRING:
			buf.WriteString(fmt.Sprintf("%v: '%v'", n.Token.ID.Name(), n.Token.Val))
		default:
			buf.WriteString(n.Token.ExactID.Name())
		}

	case *Var:
		buf.WriteString(fmt.Sprintf("variable: %v", n.Name))

	case *Generic:
		buf.WriteString(fmt.Sprintf("generic: %v", n.ID.Name()))

	case *ErrorNode:
		buf.WriteString(fmt.Sprintf("error: %v", n.Message))

	case *Record:
		open := ""
		if n.Open {
			open = " (open)"
		}
		buf.WriteString(fmt.Sprintf("record%v", open))

	case *UnaryOp:
		buf.WriteString(fmt.Sprintf("unaryop: %v", n.Op.ExactID.Name()))

	case *BinaryOp:
		buf.WriteString(fmt.Sprintf("binaryop: %v", n.Op.ExactID.Name()))

	case *NaryOp:
		buf.WriteString(fmt.Sprintf("naryop: %v", n.Op.ExactID.Name()))

	case *Functor:
		buf.WriteString("functor")

	case *Local:
		buf.WriteString("local")

	case *Proc:
		if n.Fun {
			buf.WriteString("fun")
		} else {
			buf.WriteString("proc")
		}

	case *Cond:
		buf.WriteString("cond")

	case *CondBranch:
		buf.WriteString("condbranch")

	case *PatternMatch:
		buf.WriteString("patternmatch")

	case *PatternBranch:
		buf.WriteString("patternbranch")

	case *Thread:
		buf.WriteString("thread")

	case *Lock:
		buf.WriteString("lock")

	case *Loop:
		buf.WriteString("loop")

	case *ForLoop:
		buf.WriteString("forloop")

	case *Try:
		buf.WriteString("try")

	case *Raise:
		buf.WriteString("raise")

	case *Class:
		buf.WriteString("class")

	case *Call:
		buf.WriteString("call")

	case *Sequence:
		buf.WriteString("sequence")

	case *List:
		buf.WriteString("list")

	default:
		buf.WriteString(fmt.Sprintf("unknown: %v", n))
	}

	buf.WriteString("\n")

	// Print children

	for _, child := range Children(n) {
		levelString(child, indent+1, buf)
	}
}
