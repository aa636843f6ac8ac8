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
scopeRule pairs a scope opener lexeme with its required closer lexeme.
*/
type scopeRule struct {
	begin LexTokenID
	end   LexTokenID
}

/*
scopeRules maps scope opener lexemes to their begin / end rule. All keyword
openers close with end, bracket openers close with their matching bracket.
*/
var scopeRules = map[LexTokenID]scopeRule{
	TokenCASE:                {TokenCASE, TokenEND},
	TokenCLASS:               {TokenCLASS, TokenEND},
	TokenFOR:                 {TokenFOR, TokenEND},
	TokenFUN:                 {TokenFUN, TokenEND},
	TokenFUNCTOR:             {TokenFUNCTOR, TokenEND},
	TokenIF:                  {TokenIF, TokenEND},
	TokenLOCAL:               {TokenLOCAL, TokenEND},
	TokenLOCK:                {TokenLOCK, TokenEND},
	TokenMETH:                {TokenMETH, TokenEND},
	TokenPROC:                {TokenPROC, TokenEND},
	TokenRAISE:               {TokenRAISE, TokenEND},
	TokenTHREAD:              {TokenTHREAD, TokenEND},
	TokenTRY:                 {TokenTRY, TokenEND},
	TokenCALLBEGIN:           {TokenCALLBEGIN, TokenCALLEND},
	TokenLISTBEGIN:           {TokenLISTBEGIN, TokenLISTEND},
	TokenBEGINLPAREN:         {TokenBEGINLPAREN, TokenENDRPAREN},
	TokenBEGINRECORDFEATURES: {TokenBEGINRECORDFEATURES, TokenENDRPAREN},
}

/*
endTokens is the set of all scope closer lexemes.
*/
var endTokens = map[LexTokenID]bool{
	TokenEND:       true,
	TokenCALLEND:   true,
	TokenLISTEND:   true,
	TokenENDRPAREN: true,
}

/*
Parse parses a given input string and returns the root AST node. The root
node is always a Generic node with the toplevel kind.
*/
func Parse(name string, input string) (Node, error) {
	p := &scopeParser{name, LexToList(name, input),
		&structuralParser{name, &expressionParser{}}}
	return p.parse()
}

/*
scopeParser folds a flat lexeme stream into a tree of generic nodes using
the begin / end rules. Each completed scope is handed to the structural
parser which may replace it with a typed node.
*/
type scopeParser struct {
	name       string            // Name to identify the input
	tokens     []LexToken        // Lexemes to parse
	structural *structuralParser // Parser for completed scopes
}

/*
parse parses the whole lexeme stream.
*/
func (p *scopeParser) parse() (Node, error) {
	var span Span

	if len(p.tokens) > 0 {
		span = NewSpan(p.tokens[0], p.tokens[len(p.tokens)-1])
	}

	root := NewGeneric(TokenTOPLEVEL, span)

	pos, err := p.parseInto(root, 0)
	if err != nil {
		return nil, err
	}

	if pos < len(p.tokens) && p.tokens[pos].ID != TokenEOF {
		return nil, newParserError(p.name, ErrInvalidScope,
			fmt.Sprintf("Unexpected end token: %v", p.tokens[pos]),
			p.tokens[pos])
	}

	return p.structural.parse(root)
}

/*
parseInto parses lexemes into a given scope node until an end token which
belongs to an enclosing scope is found or the input ends. Returns the
position of the first unconsumed lexeme.
*/
func (p *scopeParser) parseInto(root *Generic, pos int) (int, error) {

	for pos < len(p.tokens) {
		token := p.tokens[pos]

		if token.ID == TokenEOF {
			return pos, nil
		}

		if token.ID == TokenError {
			return pos, newParserError(p.name, ErrLexicalError, token.Val, token)
		}

		// End token of an enclosing scope - the caller consumes it

		if endTokens[token.ExactID] {
			return pos, nil
		}

		// New scope - recurse and require the matching end token

		if rule, ok := scopeRules[token.ExactID]; ok {
			branch := NewGeneric(token.ExactID, NewSpan(token, token))

			next, err := p.parseInto(branch, pos+1)
			if err != nil {
				return next, err
			}

			if next >= len(p.tokens) || p.tokens[next].ID == TokenEOF {
				return next, newParserError(p.name, ErrInvalidScope,
					fmt.Sprintf("Reached end of input and could not find end token for %v",
						token), token)
			}

			endToken := p.tokens[next]
			if endToken.ExactID != rule.end {
				return next, newParserError(p.name, ErrInvalidScope,
					fmt.Sprintf("End token %v does not match expectations to end %v",
						endToken, token), endToken)
			}

			branch.Tokens = NewSpan(token, endToken)

			node, err := p.structural.parse(branch)
			if err != nil {
				return next, err
			}

			root.Nodes = append(root.Nodes, node)
			pos = next + 1
			continue
		}

		// Not a scope start - wrap the lexeme as a node and append

		if token.ID == TokenVARIABLE {
			root.Nodes = append(root.Nodes, NewVar(token))
		} else {
			root.Nodes = append(root.Nodes, NewLeaf(token))
		}
		pos++
	}

	return pos, nil
}
