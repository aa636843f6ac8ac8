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
)

/*
Section separator sets for the scopes which have named sections.
*/
var (
	localSeparators    = []LexTokenID{TokenIN}
	trySeparators      = []LexTokenID{TokenCATCH, TokenFINALLY}
	condSeparators     = []LexTokenID{TokenELSEIF, TokenELSECASE, TokenELSE}
	condIfSeparators   = []LexTokenID{TokenTHEN}
	condCaseSeparators = []LexTokenID{TokenOF, TokenELSEOF}
	functorSeparators  = []LexTokenID{TokenEXPORT, TokenREQUIRE, TokenPREPARE,
		TokenIMPORT, TokenDEFINE}
)

/*
SplitNodes returns the indices of all nodes which wrap one of the given
separator lexemes.
*/
func SplitNodes(nodes []Node, separators []LexTokenID) []int {
	var ret []int

	for i, n := range nodes {
		id := nodeID(n)
		for _, sep := range separators {
			if id == sep {
				ret = append(ret, i)
				break
			}
		}
	}

	return ret
}

/*
structuralParser rewrites generic scope nodes into typed AST nodes by
splitting their children on section separator lexemes.
*/
type structuralParser struct {
	name string            // Name to identify the input
	expr *expressionParser // Parser for flat expression regions
}

/*
parse rewrites a given generic node into a typed AST node. Structural
problems are recorded as error nodes in the AST, unsupported scopes
abort the parse.
*/
func (sp *structuralParser) parse(root *Generic) (Node, error) {

	switch root.ID {

	case TokenLOCAL, TokenBEGINLPAREN:
		return sp.parseLocal(root), nil

	case TokenTHREAD:
		return &Thread{root.Tokens, sp.parseLocal(root)}, nil

	case TokenTRY:
		return sp.parseTry(root), nil

	case TokenIF, TokenCASE:
		return sp.parseCond(root), nil

	case TokenFUNCTOR:
		return sp.parseFunctor(root), nil

	case TokenPROC, TokenFUN:
		return sp.parseProc(root), nil

	case TokenRAISE:
		return &Raise{root.Tokens, sp.parseLocal(root)}, nil

	case TokenTOPLEVEL:
		sp.expr.parse(root)
		return root, nil

	case TokenCALLBEGIN:
		sp.expr.parse(root)
		if len(root.Nodes) == 0 {
			return NewErrorNode(root, "Invalid empty call"), nil
		}
		return &Call{root.Tokens, root.Nodes}, nil

	case TokenLISTBEGIN:
		sp.expr.parse(root)
		return &List{root.Tokens, root.Nodes}, nil

	case TokenBEGINRECORDFEATURES:

		// Record feature groups stay generic - they are consumed by the
		// record construction fold of the surrounding region

		sp.expr.parse(root)
		return root, nil

	case TokenLOCK, TokenFOR, TokenCLASS, TokenMETH:
		return nil, newParserError(sp.name, ErrNotImplemented,
			fmt.Sprintf("Cannot parse %v scopes", root.ID.Name()),
			root.Tokens.Begin)
	}

	return nil, newParserError(sp.name, ErrInvalidScope,
		fmt.Sprintf("Unexpected scope: %v", root.ID.Name()), root.Tokens.Begin)
}

/*
slice creates a new generic node from the nodes [ibegin ... iend[ of a
given parent. Returns nil for an empty slice.
*/
func (sp *structuralParser) slice(root *Generic, ibegin int, iend int) *Generic {
	if ibegin >= iend {
		return nil
	}

	ret := NewGeneric(root.ID, SpanNodes(root.Nodes[ibegin], root.Nodes[iend-1]))
	ret.Nodes = append(ret.Nodes, root.Nodes[ibegin:iend]...)
	return ret
}

/*
parseRegion runs the expression parser over a given region. A region which
reduces to a single node becomes that node, otherwise the region becomes a
sequence of statements. Returns nil for an empty region.
*/
func (sp *structuralParser) parseRegion(g *Generic) Node {
	if g == nil {
		return nil
	}

	sp.expr.parse(g)

	if len(g.Nodes) == 0 {
		return nil
	}

	if len(g.Nodes) == 1 {
		return g.Nodes[0]
	}

	return &Sequence{g.Tokens, g.Nodes}
}

/*
parseLocal parses a scope with an optional in separator. Zero separators
mean the scope is a pure grouping.
*/
func (sp *structuralParser) parseLocal(root *Generic) Node {
	edgePos := SplitNodes(root.Nodes, localSeparators)

	switch len(edgePos) {

	case 0:
		if ret := sp.parseRegion(root); ret != nil {
			return ret
		}
		return NewErrorNode(root, "Invalid empty scope")

	case 1:
		inPos := edgePos[0]

		body := sp.parseRegion(sp.slice(root, inPos+1, len(root.Nodes)))
		if body == nil {
			return NewErrorNode(root, "Invalid local with empty body")
		}

		defs := sp.parseRegion(sp.slice(root, 0, inPos))

		return &Local{root.Tokens, defs, body}
	}

	return NewErrorNode(root, "Invalid local with too many 'in' separators")
}

/*
parseTry parses a try scope with catch and finally sections.
*/
func (sp *structuralParser) parseTry(root *Generic) Node {
	edgePos := SplitNodes(root.Nodes, trySeparators)

	if len(edgePos) == 0 {
		return NewErrorNode(root,
			"Invalid try block, must have 'catch' or 'finally' sections")
	}

	body := sp.parseRegion(sp.slice(root, 0, edgePos[0]))
	if body == nil {
		return NewErrorNode(root, "Invalid try block with empty body")
	}

	var finally Node
	catchEnd := len(root.Nodes)

	lastPos := edgePos[len(edgePos)-1]
	if nodeID(root.Nodes[lastPos]) == TokenFINALLY {
		finally = sp.parseRegion(sp.slice(root, lastPos+1, len(root.Nodes)))
		catchEnd = lastPos
		edgePos = edgePos[:len(edgePos)-1]
	}

	var catches Node
	if len(edgePos) > 0 {
		catches = sp.parseRegion(sp.slice(root, edgePos[0]+1, catchEnd))
	}

	return &Try{root.Tokens, body, catches, finally}
}

/*
parseIfBranch parses a branch with exactly one then separator. With the
pattern flag the branch becomes a pattern branch of a case construct.
*/
func (sp *structuralParser) parseIfBranch(root *Generic, pattern bool) Node {
	edgePos := SplitNodes(root.Nodes, condIfSeparators)

	if len(edgePos) != 1 {
		return NewErrorNode(root, "Invalid conditional, must have exactly one 'then'")
	}

	thenPos := edgePos[0]

	condition := sp.parseRegion(sp.slice(root, 0, thenPos))
	body := sp.parseRegion(sp.slice(root, thenPos+1, len(root.Nodes)))

	if condition == nil || body == nil {
		return NewErrorNode(root, "Invalid conditional with an empty section")
	}

	if pattern {
		return &PatternBranch{root.Tokens, condition, nil, body}
	}

	return &CondBranch{root.Tokens, condition, body}
}

/*
parseCaseBranch parses the value and pattern branches of a case section.
*/
func (sp *structuralParser) parseCaseBranch(root *Generic) Node {
	edgePos := SplitNodes(root.Nodes, condCaseSeparators)

	if len(edgePos) < 1 {
		return NewErrorNode(root, "Invalid pattern case, missing 'of'")
	}

	ofPos := edgePos[0]

	value := sp.parseRegion(sp.slice(root, 0, ofPos))
	if value == nil {
		return NewErrorNode(root, "Invalid pattern case with an empty value")
	}

	match := &PatternMatch{root.Tokens, value, nil}

	ibegin := ofPos + 1
	for i := 1; i <= len(edgePos); i++ {
		iend := len(root.Nodes)
		if i < len(edgePos) {
			iend = edgePos[i]
		}

		branch := sp.slice(root, ibegin, iend)
		if branch == nil {
			match.Branches = append(match.Branches,
				NewErrorNode(root, "Invalid pattern case with an empty branch"))
		} else {
			match.Branches = append(match.Branches, sp.parseIfBranch(branch, true))
		}

		ibegin = iend + 1
	}

	return match
}

/*
parseCond parses an if or case scope with all its branch sections.
*/
func (sp *structuralParser) parseCond(root *Generic) Node {
	cond := &Cond{root.Tokens, nil, nil}

	edgePos := SplitNodes(root.Nodes, condSeparators)

	// Process the else branch first

	if len(edgePos) > 0 {
		iedge := edgePos[len(edgePos)-1]

		if nodeID(root.Nodes[iedge]) == TokenELSE {
			cond.ElseBranch = sp.parseRegion(sp.slice(root, iedge+1, len(root.Nodes)))

			edgePos = edgePos[:len(edgePos)-1]
			root.Nodes = root.Nodes[:iedge]
		}
	}

	// Process the conditional branches

	ibegin := 0
	branchType := root.ID

	for i := 0; i <= len(edgePos); i++ {
		iend := len(root.Nodes)
		if i < len(edgePos) {
			iend = edgePos[i]
		}

		branch := sp.slice(root, ibegin, iend)
		if branch == nil {
			cond.Branches = append(cond.Branches,
				NewErrorNode(root, "Invalid conditional with an empty branch"))

		} else if branchType == TokenIF || branchType == TokenELSEIF {
			cond.Branches = append(cond.Branches, sp.parseIfBranch(branch, false))

		} else {
			cond.Branches = append(cond.Branches, sp.parseCaseBranch(branch))
		}

		if iend < len(root.Nodes) {
			ibegin = iend + 1
			branchType = nodeID(root.Nodes[iend])
		}
	}

	return cond
}

/*
parseFunctor parses a functor scope with its named sections.
*/
func (sp *structuralParser) parseFunctor(root *Generic) Node {
	functor := &Functor{Tokens: root.Tokens}

	edgePos := SplitNodes(root.Nodes, functorSeparators)

	setSection := func(sectionType LexTokenID, ibegin int, iend int) Node {
		section := sp.parseRegion(sp.slice(root, ibegin, iend))
		if section == nil {
			return nil
		}

		switch sectionType {
		case TokenFUNCTOR:
			functor.FunctorDef = section
		case TokenEXPORT:
			functor.Exports = section
		case TokenREQUIRE:
			functor.Require = section
		case TokenPREPARE:
			functor.Prepare = section
		case TokenIMPORT:
			functor.Import = section
		case TokenDEFINE:
			functor.Define = section
		}

		return section
	}

	sectionType := TokenFUNCTOR
	ibegin := 0

	for _, iend := range edgePos {
		setSection(sectionType, ibegin, iend)

		sectionType = nodeID(root.Nodes[iend])
		ibegin = iend + 1
	}
	setSection(sectionType, ibegin, len(root.Nodes))

	return functor
}

/*
parseProc parses a proc or fun scope. The first child must be the signature
call, the remainder is the body which may have an in separator.
*/
func (sp *structuralParser) parseProc(root *Generic) Node {
	if len(root.Nodes) < 2 {
		return NewErrorNode(root, "Invalid empty procedure declaration")
	}

	signature, ok := root.Nodes[0].(*Call)
	if !ok {
		return NewErrorNode(root, "Invalid procedure signature")
	}

	body := sp.parseLocal(sp.slice(root, 1, len(root.Nodes)))

	return &Proc{root.Tokens, signature, body, root.ID == TokenFUN}
}
