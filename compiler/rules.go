package compiler

import "loxer/token"

// rules is the static parse-rule table, indexed by token.Kind, that drives
// parsePrecedence. Token kinds with no entry default to the zero
// parseRule (no prefix, no infix, precNone), which parsePrecedence treats
// as "not a valid expression token".
var rules [token.KindCount]parseRule

func init() {
	rules[token.LPAREN] = parseRule{prefix: (*Compiler).grouping, infix: (*Compiler).call, precedence: precCall}
	rules[token.MINUS] = parseRule{prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: precTerm}
	rules[token.PLUS] = parseRule{infix: (*Compiler).binary, precedence: precTerm}
	rules[token.SLASH] = parseRule{infix: (*Compiler).binary, precedence: precFactor}
	rules[token.STAR] = parseRule{infix: (*Compiler).binary, precedence: precFactor}
	rules[token.BANG] = parseRule{prefix: (*Compiler).unary}
	rules[token.BANG_EQUAL] = parseRule{infix: (*Compiler).binary, precedence: precEquality}
	rules[token.EQUAL_EQUAL] = parseRule{infix: (*Compiler).binary, precedence: precEquality}
	rules[token.GREATER] = parseRule{infix: (*Compiler).binary, precedence: precComparison}
	rules[token.GREATER_EQUAL] = parseRule{infix: (*Compiler).binary, precedence: precComparison}
	rules[token.LESS] = parseRule{infix: (*Compiler).binary, precedence: precComparison}
	rules[token.LESS_EQUAL] = parseRule{infix: (*Compiler).binary, precedence: precComparison}
	rules[token.IDENTIFIER] = parseRule{prefix: (*Compiler).variable}
	rules[token.STRING] = parseRule{prefix: (*Compiler).stringLiteral}
	rules[token.NUMBER] = parseRule{prefix: (*Compiler).number}
	rules[token.AND] = parseRule{infix: (*Compiler).and_, precedence: precAnd}
	rules[token.OR] = parseRule{infix: (*Compiler).or_, precedence: precOr}
	rules[token.FALSE] = parseRule{prefix: (*Compiler).literal}
	rules[token.TRUE] = parseRule{prefix: (*Compiler).literal}
	rules[token.NIL] = parseRule{prefix: (*Compiler).literal}
}
