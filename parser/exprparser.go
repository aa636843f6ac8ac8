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

	"github.com/krotik/common/errorutil"
)

/*
opAssociativity determines how an operator fold rewrites a node sequence.
*/
type opAssociativity int

/*
Available fold kinds
*/
const (
	assocUnary opAssociativity = iota // Prefix operator, stacked right-to-left
	assocLTR                          // Binary operator, left-to-right
	assocRTL                          // Binary operator, right-to-left
	assocNary                         // Flat n-ary operator
)

/*
opRule describes one operator fold pass.
*/
type opRule struct {
	id    LexTokenID      // Operator lexeme kind
	assoc opAssociativity // Fold kind
}

/*
opPrecedenceTable lists all operator fold passes ordered by priority.
Precedence is encoded solely by the order of this table, associativity
by the fold kind of each entry.
*/
var opPrecedenceTable = []opRule{

	// Unary operators are first

	{TokenCELLACCESS, assocUnary},
	{TokenVARNODEF, assocUnary},
	{TokenREADONLY, assocUnary},
	{TokenNUMERICNEG, assocUnary},

	{TokenRECORDACCESS, assocRTL},

	// Binary and n-ary operators - higher priorities are first

	{TokenNUMERICDIV, assocLTR},
	{TokenNUMERICMUL, assocNary},

	{TokenNUMERICMINUS, assocLTR},
	{TokenNUMERICADD, assocNary},

	{TokenEQUAL, assocLTR},
	{TokenDIFFERENT, assocLTR},
	{TokenGREATEROREQUAL, assocLTR},
	{TokenLESSOREQUAL, assocLTR},
	{TokenGREATERTHAN, assocLTR},
	{TokenLESSTHAN, assocLTR},

	{TokenANDTHEN, assocRTL},
	{TokenORELSE, assocRTL},

	{TokenUNIFY, assocNary},
	{TokenCELLASSIGN, assocLTR},
	{TokenATTRASSIGN, assocLTR},

	{TokenLISTCONS, assocRTL},
	{TokenTUPLECONS, assocNary},

	{TokenRECORDDEFFEATURE, assocLTR},
}

/*
expressionParser folds the flat child sequence of a generic node into
operator trees. All passes rewrite the sequence in place.
*/
type expressionParser struct {
}

/*
parse runs all fold passes over a given node in priority order.
*/
func (ep *expressionParser) parse(branch *Generic) {
	ep.parseRecordCons(branch)

	for _, rule := range opPrecedenceTable {
		switch rule.assoc {
		case assocUnary:
			ep.parseUnaryOperator(branch, rule.id)
		case assocLTR:
			ep.parseBinaryOperatorLTR(branch, rule.id)
		case assocRTL:
			ep.parseBinaryOperatorRTL(branch, rule.id)
		case assocNary:
			ep.parseNaryOperator(branch, rule.id)
		}
	}
}

/*
opToken returns the operator lexeme of a node if the node wraps a given
operator lexeme kind.
*/
func opToken(n Node, opType LexTokenID) (LexToken, bool) {
	if leaf, ok := n.(*Leaf); ok && leaf.Token.ExactID == opType {
		return leaf.Token, true
	}
	return LexToken{}, false
}

/*
parseRecordCons collapses record constructions label(features) into record
nodes. The construction marker, the label and the feature group must be
three consecutive nodes.
*/
func (ep *expressionParser) parseRecordCons(branch *Generic) {
	nodes := branch.Nodes

	j := 0
	for i := 0; i < len(nodes); {
		if _, ok := opToken(nodes[i], TokenRECORDCONS); ok {

			errorutil.AssertTrue(i+2 < len(nodes),
				fmt.Sprint("Record construction without features: ", nodes[i]))

			label := nodes[i+1]
			features, ok := nodes[i+2].(*Generic)

			errorutil.AssertTrue(ok && features.ID == TokenBEGINRECORDFEATURES,
				fmt.Sprint("Record construction without a feature group: ", label))

			record := &Record{SpanNodes(nodes[i], features), label, features, false}

			if len(features.Nodes) > 0 {
				if _, ok := opToken(features.Nodes[len(features.Nodes)-1],
					TokenRECORDOPEN); ok {

					record.Open = true
					features.Nodes = features.Nodes[:len(features.Nodes)-1]
				}
			}

			nodes[j] = record
			j++
			i += 3

		} else {
			nodes[j] = nodes[i]
			j++
			i++
		}
	}

	branch.Nodes = nodes[:j]
}

/*
parseUnaryOperator folds a prefix operator right-to-left so that repeated
prefixes stack correctly.
*/
func (ep *expressionParser) parseUnaryOperator(branch *Generic, opType LexTokenID) {
	nodes := branch.Nodes

	j := len(nodes) - 1
	for i := len(nodes) - 2; i >= 0; {
		if op, ok := opToken(nodes[i], opType); ok {

			operand := nodes[j]
			nodes[j] = &UnaryOp{NewSpan(op, operand.Span().End), op, operand}
			i--

		} else {
			j--
			nodes[j] = nodes[i]
			i--
		}
	}

	if j >= 0 {
		branch.Nodes = nodes[j:]
	}
}

/*
parseBinaryOperatorLTR folds a binary operator left-to-right.
*/
func (ep *expressionParser) parseBinaryOperatorLTR(branch *Generic, opType LexTokenID) {
	nodes := branch.Nodes

	nnodes := len(nodes)
	if nnodes < 3 {
		return
	}

	i := 1 // Operator lexeme
	j := 0 // Left operand

	for i <= nnodes-2 {
		if op, ok := opToken(nodes[i], opType); ok {

			binOp := &BinaryOp{SpanNodes(nodes[j], nodes[i+1]), op,
				nodes[j], nodes[i+1]}

			nodes[j] = binOp
			i += 2

		} else {
			j++
			nodes[j] = nodes[i]
			i++
		}
	}

	for i < nnodes {
		j++
		nodes[j] = nodes[i]
		i++
	}

	branch.Nodes = nodes[:j+1]
}

/*
parseBinaryOperatorRTL folds a binary operator right-to-left.
*/
func (ep *expressionParser) parseBinaryOperatorRTL(branch *Generic, opType LexTokenID) {
	nodes := branch.Nodes

	nnodes := len(nodes)
	if nnodes < 3 {
		return
	}

	i := nnodes - 2 // Operator lexeme
	j := nnodes - 1 // Right operand

	for i >= 1 {
		if op, ok := opToken(nodes[i], opType); ok {

			binOp := &BinaryOp{SpanNodes(nodes[i-1], nodes[j]), op,
				nodes[i-1], nodes[j]}

			nodes[j] = binOp
			i -= 2

		} else {
			j--
			nodes[j] = nodes[i]
			i--
		}
	}

	for i >= 0 {
		j--
		nodes[j] = nodes[i]
		i--
	}

	branch.Nodes = nodes[j:]
}

/*
parseNaryOperator folds maximal runs of an operator into single n-ary
nodes. Any occurrence of the operator within a run belongs to the same
node which preserves associativity.
*/
func (ep *expressionParser) parseNaryOperator(branch *Generic, opType LexTokenID) {
	nodes := branch.Nodes

	i := 0
	j := 0

	for i+2 < len(nodes) {
		if op, ok := opToken(nodes[i+1], opType); ok {

			naryOp := &NaryOp{Span{}, op, nil}
			naryOp.Operands = append(naryOp.Operands, nodes[i])
			i++

			for i+1 < len(nodes) {
				if _, ok := opToken(nodes[i], opType); !ok {
					break
				}
				naryOp.Operands = append(naryOp.Operands, nodes[i+1])
				i += 2
			}

			naryOp.Tokens = SpanNodes(naryOp.Operands[0],
				naryOp.Operands[len(naryOp.Operands)-1])

			nodes[j] = naryOp
			j++

		} else {
			nodes[j] = nodes[i]
			j++
			i++
		}
	}

	// Copy the last elements

	for i < len(nodes) {
		nodes[j] = nodes[i]
		j++
		i++
	}

	branch.Nodes = nodes[:j]
}
