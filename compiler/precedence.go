package compiler

// precedence orders the grammar's binding strength from loosest to
// tightest. parsePrecedence consumes everything at or above the requested
// level before returning to its caller.
type precedence int

const (
	precNone precedence = iota
	precAssignment
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
	precPrimary
)

// parseFn is a Pratt parsing action: a prefix rule consumes the token
// already in `previous` and emits its bytecode; an infix rule does the same
// assuming a left operand has already been compiled. canAssign gates
// whether `=` may be treated as an assignment at this point in the
// expression, per parsePrecedence's own precedence ceiling.
type parseFn func(c *Compiler, canAssign bool)

// parseRule binds a token kind to its (optional) prefix action, (optional)
// infix action, and the precedence used when that token appears as an
// infix/postfix operator.
type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}
