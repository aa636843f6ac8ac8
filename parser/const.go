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
Package parser contains the lexer and the parsers for Oz source code.

The parsing pipeline has three stages which all operate on the same AST
data structures:

Scope parser - Folds the flat lexeme stream into a tree of generic nodes
using a table of begin/end bracket rules. Each nested scope (local ... end,
proc ... end, { ... }, etc.) becomes one generic node.

Structural parser - Rewrites each generic node into a typed AST node
(Local, Try, Cond, Proc, Functor, ...) by splitting its children on
section separator lexemes such as 'in', 'then', 'catch' or 'define'.

Expression parser - Folds the remaining flat node sequences into operator
trees. Precedence is encoded by the order of the fold passes, associativity
by the fold direction.
*/
package parser

/*
LexTokenID represents a unique lexeme kind.
*/
type LexTokenID int

/*
Available lexeme kinds
*/
const (
	TokenError LexTokenID = iota // Lexing error token with a message as value
	TokenEOF                     // End-of-file token

	// Value tokens

	TokenINTEGER  // Integer number (arbitrary precision)
	TokenATOM     // Atom literal (lowercase or quoted)
	TokenSTRING   // String literal
	TokenREAL     // Real number
	TokenVARIABLE // Variable (capitalized or backquoted)
	TokenVARANON  // Anonymous variable marker '$'

	// Tokens which are synthesized during lexing / parsing

	TokenTOPLEVEL   // Root node of a parsed file
	TokenRECORDCONS // Record construction marker (label directly followed by '(')
	TokenINVALID    // Invalid token placeholder

	TOKENodeSYMBOLS // Used to separate symbols from other tokens in this list

	// Bracket symbols

	TokenCALLBEGIN           // {
	TokenCALLEND             // }
	TokenLISTBEGIN           // [
	TokenLISTEND             // ]
	TokenBEGINLPAREN         // (
	TokenENDRPAREN           // )
	TokenBEGINRECORDFEATURES // ( directly following a record label

	// Record symbols

	TokenRECORDOPEN       // ...
	TokenRECORDACCESS     // .
	TokenRECORDDEFFEATURE // :

	// Numeric operators

	TokenNUMERICNEG   // ~
	TokenNUMERICMUL   // *
	TokenNUMERICADD   // +
	TokenNUMERICMINUS // -
	TokenNUMERICDIV   // /

	// Cell and attribute operators

	TokenCELLACCESS // @
	TokenCELLASSIGN // :=
	TokenATTRASSIGN // <-

	// Comparison operators

	TokenEQUAL          // ==
	TokenDIFFERENT      // \=
	TokenGREATEROREQUAL // >=
	TokenLESSOREQUAL    // =<
	TokenGREATERTHAN    // >
	TokenLESSTHAN       // <

	// Construction operators

	TokenUNIFY     // =
	TokenLISTCONS  // |
	TokenTUPLECONS // #

	// Variable markers

	TokenVARNODEF // !
	TokenREADONLY // !!

	TOKENodeKEYWORDS // Used to separate symbols from keywords in this list

	// Scope keywords

	TokenCASE
	TokenCLASS
	TokenFOR
	TokenFUN
	TokenFUNCTOR
	TokenIF
	TokenLOCAL
	TokenLOCK
	TokenMETH
	TokenPROC
	TokenRAISE
	TokenTHREAD
	TokenTRY
	TokenEND

	// Section separator keywords

	TokenIN
	TokenTHEN
	TokenOF
	TokenELSEIF
	TokenELSECASE
	TokenELSE
	TokenELSEOF
	TokenCATCH
	TokenFINALLY
	TokenEXPORT
	TokenREQUIRE
	TokenPREPARE
	TokenIMPORT
	TokenDEFINE
	TokenFROM
	TokenPROP
	TokenFEAT
	TokenATTR

	// Boolean operator keywords

	TokenANDTHEN
	TokenORELSE
)

/*
IsValidTokenID checks if a given token ID is valid.
*/
func IsValidTokenID(value int) bool {
	return value < int(TokenORELSE)+1
}

/*
tokenNames maps lexeme kinds to display names.
*/
var tokenNames = map[LexTokenID]string{
	TokenError:               "error",
	TokenEOF:                 "EOF",
	TokenINTEGER:             "integer",
	TokenATOM:                "atom",
	TokenSTRING:              "string",
	TokenREAL:                "real",
	TokenVARIABLE:            "variable",
	TokenVARANON:             "anonvar",
	TokenTOPLEVEL:            "toplevel",
	TokenRECORDCONS:          "recordcons",
	TokenINVALID:             "invalid",
	TokenCALLBEGIN:           "callbegin",
	TokenCALLEND:             "callend",
	TokenLISTBEGIN:           "listbegin",
	TokenLISTEND:             "listend",
	TokenBEGINLPAREN:         "lparen",
	TokenENDRPAREN:           "rparen",
	TokenBEGINRECORDFEATURES: "recordfeatures",
	TokenRECORDOPEN:          "recordopen",
	TokenRECORDACCESS:        "recordaccess",
	TokenRECORDDEFFEATURE:    "recordfeature",
	TokenNUMERICNEG:          "neg",
	TokenNUMERICMUL:          "mul",
	TokenNUMERICADD:          "add",
	TokenNUMERICMINUS:        "minus",
	TokenNUMERICDIV:          "div",
	TokenCELLACCESS:          "cellaccess",
	TokenCELLASSIGN:          "cellassign",
	TokenATTRASSIGN:          "attrassign",
	TokenEQUAL:               "equal",
	TokenDIFFERENT:           "different",
	TokenGREATEROREQUAL:      "geq",
	TokenLESSOREQUAL:         "leq",
	TokenGREATERTHAN:         "gt",
	TokenLESSTHAN:            "lt",
	TokenUNIFY:               "unify",
	TokenLISTCONS:            "listcons",
	TokenTUPLECONS:           "tuplecons",
	TokenVARNODEF:            "nodef",
	TokenREADONLY:            "readonly",
	TokenCASE:                "case",
	TokenCLASS:               "class",
	TokenFOR:                 "for",
	TokenFUN:                 "fun",
	TokenFUNCTOR:             "functor",
	TokenIF:                  "if",
	TokenLOCAL:               "local",
	TokenLOCK:                "lock",
	TokenMETH:                "meth",
	TokenPROC:                "proc",
	TokenRAISE:               "raise",
	TokenTHREAD:              "thread",
	TokenTRY:                 "try",
	TokenEND:                 "end",
	TokenIN:                  "in",
	TokenTHEN:                "then",
	TokenOF:                  "of",
	TokenELSEIF:              "elseif",
	TokenELSECASE:            "elsecase",
	TokenELSE:                "else",
	TokenELSEOF:              "elseof",
	TokenCATCH:               "catch",
	TokenFINALLY:             "finally",
	TokenEXPORT:              "export",
	TokenREQUIRE:             "require",
	TokenPREPARE:             "prepare",
	TokenIMPORT:              "import",
	TokenDEFINE:              "define",
	TokenFROM:                "from",
	TokenPROP:                "prop",
	TokenFEAT:                "feat",
	TokenATTR:                "attr",
	TokenANDTHEN:             "andthen",
	TokenORELSE:              "orelse",
}

/*
Name returns a display name for a lexeme kind.
*/
func (id LexTokenID) Name() string {
	if name, ok := tokenNames[id]; ok {
		return name
	}
	return "unknown"
}
