// Package compiler implements a single-pass Pratt parser that compiles
// loxer source text directly to bytecode.Chunk instructions, with no
// intermediate AST: each parse rule emits its own instructions as it
// recognizes a construct, in the tradition of the teacher's deprecated
// single-pass Compiler, generalized across the whole grammar and fused
// with ast_compiler.go's locals/scopes/jump-patching machinery.
package compiler

import (
	"strconv"

	"loxer/bytecode"
	"loxer/scanner"
	"loxer/token"
)

// Compiler holds all parser and codegen state for one Compile call. A
// fresh Compiler is constructed per source file; it is not reused.
type Compiler struct {
	scanner *scanner.Scanner

	current  token.Token
	previous token.Token

	hadError  bool
	panicMode bool
	errors    []SyntaxError

	state *compilerState
}

// Compile parses and compiles source into a top-level *bytecode.Function
// (its Chunk holds the whole program). On any syntax error it still parses
// to the end of input (recovering via synchronize after each one) so that
// a single run can surface more than one mistake, then returns a
// CompileError aggregating every SyntaxError raised.
func Compile(source string) (*bytecode.Function, error) {
	c := &Compiler{scanner: scanner.New(source)}
	c.state = newCompilerState("", nil)
	c.advance()

	for !c.check(token.EOF) {
		c.declaration()
	}

	fn := c.endCompiler()
	if c.hadError {
		return nil, CompileError{Errors: c.errors}
	}
	return fn, nil
}

func (c *Compiler) endCompiler() *bytecode.Function {
	c.emitOpcode(bytecode.OpNil)
	c.emitOpcode(bytecode.OpReturn)
	return c.state.fn
}

func (c *Compiler) currentChunk() *bytecode.Chunk {
	return c.state.chunk()
}

// --- token stream helpers ---

func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.scanner.ScanToken()
		if c.current.Kind != token.ERROR {
			break
		}
		c.errorAtCurrent(c.current.Message)
	}
}

func (c *Compiler) check(kind token.Kind) bool {
	return c.current.Kind == kind
}

func (c *Compiler) match(kind token.Kind) bool {
	if !c.check(kind) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(kind token.Kind, message string) {
	if c.current.Kind == kind {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

func (c *Compiler) errorAtCurrent(message string) {
	c.errorAt(c.current, message)
}

func (c *Compiler) error(message string) {
	c.errorAt(c.previous, message)
}

// errorAt records a SyntaxError and enters panic mode. Once in panic mode,
// further errors are swallowed until synchronize() finds a statement
// boundary - this avoids a single mistake cascading into a wall of bogus
// follow-on errors.
func (c *Compiler) errorAt(tok token.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true
	c.errors = append(c.errors, SyntaxError{Line: tok.Line, Message: message})
}

// synchronize discards tokens until it reaches a likely statement
// boundary: just after a ';', or right before a keyword that starts a new
// declaration or statement.
func (c *Compiler) synchronize() {
	c.panicMode = false

	for c.current.Kind != token.EOF {
		if c.previous.Kind == token.SEMICOLON {
			return
		}
		switch c.current.Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		c.advance()
	}
}

// --- declarations & statements ---

func (c *Compiler) declaration() {
	switch {
	case c.match(token.FUN):
		c.funDeclaration()
	case c.match(token.VAR):
		c.varDeclaration()
	default:
		c.statement()
	}

	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) funDeclaration() {
	global := c.parseVariable("Expect function name.")
	c.markInitialized()
	c.function()
	c.defineVariable(global)
}

// function compiles a `fun` body into its own compilerState, then installs
// the finished *bytecode.Function as a constant in the enclosing chunk.
func (c *Compiler) function() {
	name := c.scanner.Lexeme(c.previous)
	enclosing := c.state
	c.state = newCompilerState(name, enclosing)

	// The function's own scope is never closed by an explicit endScope:
	// the callee's frame is torn down wholesale by OpReturn at runtime.
	c.beginScope()

	c.consume(token.LPAREN, "Expect '(' after function name.")
	if !c.check(token.RPAREN) {
		for {
			c.state.fn.Arity++
			if c.state.fn.Arity > 255 {
				c.errorAtCurrent("Can't have more than 255 parameters.")
			}
			paramGlobal := c.parseVariable("Expect parameter name.")
			c.defineVariable(paramGlobal)
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RPAREN, "Expect ')' after parameters.")
	c.consume(token.LBRACE, "Expect '{' before function body.")
	c.block()

	c.endFunctionScope()
	c.emitOpcode(bytecode.OpNil)
	c.emitOpcode(bytecode.OpReturn)

	fn := c.state.fn
	c.state = enclosing

	idx := c.currentChunk().AddConstant(bytecode.FunctionValue(fn))
	c.emitOpcodeOperand(bytecode.OpConstant, idx)
}

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name.")

	if c.match(token.ASSIGN) {
		c.expression()
	} else {
		c.emitOpcode(bytecode.OpNil)
	}
	c.consume(token.SEMICOLON, "Expect ';' after variable declaration.")

	c.defineVariable(global)
}

func (c *Compiler) statement() {
	switch {
	case c.match(token.PRINT):
		c.printStatement()
	case c.match(token.IF):
		c.ifStatement()
	case c.match(token.WHILE):
		c.whileStatement()
	case c.match(token.FOR):
		c.forStatement()
	case c.match(token.RETURN):
		c.returnStatement()
	case c.match(token.LBRACE):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) block() {
	for !c.check(token.RBRACE) && !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.RBRACE, "Expect '}' after block.")
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after value.")
	c.emitOpcode(bytecode.OpPrint)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after expression.")
	c.emitOpcode(bytecode.OpPop)
}

func (c *Compiler) returnStatement() {
	if c.state.enclosing == nil {
		c.error("Can't return from top-level code.")
	}
	if c.match(token.SEMICOLON) {
		c.emitOpcode(bytecode.OpNil)
		c.emitOpcode(bytecode.OpReturn)
		return
	}
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after return value.")
	c.emitOpcode(bytecode.OpReturn)
}

func (c *Compiler) ifStatement() {
	c.consume(token.LPAREN, "Expect '(' after 'if'.")
	c.expression()
	c.consume(token.RPAREN, "Expect ')' after condition.")

	thenJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOpcode(bytecode.OpPop)
	c.statement()

	elseJump := c.emitJump(bytecode.OpJump)
	c.patchJump(thenJump)
	c.emitOpcode(bytecode.OpPop)

	if c.match(token.ELSE) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := c.currentChunk().CurrentOffset()

	c.consume(token.LPAREN, "Expect '(' after 'while'.")
	c.expression()
	c.consume(token.RPAREN, "Expect ')' after condition.")

	exitJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOpcode(bytecode.OpPop)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitOpcode(bytecode.OpPop)
}

// forStatement desugars the C-style for loop into the same primitives as
// whileStatement: its three clauses are optional, and the increment
// (when present) is compiled once but jumped into after every iteration
// of the body, per the standard clox desugaring.
func (c *Compiler) forStatement() {
	c.beginScope()
	c.consume(token.LPAREN, "Expect '(' after 'for'.")

	switch {
	case c.match(token.SEMICOLON):
		// no initializer
	case c.match(token.VAR):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := c.currentChunk().CurrentOffset()
	exitJump := -1
	if !c.match(token.SEMICOLON) {
		c.expression()
		c.consume(token.SEMICOLON, "Expect ';' after loop condition.")

		exitJump = c.emitJump(bytecode.OpJumpIfFalse)
		c.emitOpcode(bytecode.OpPop)
	}

	if !c.check(token.RPAREN) {
		bodyJump := c.emitJump(bytecode.OpJump)
		incrementStart := c.currentChunk().CurrentOffset()

		c.expression()
		c.emitOpcode(bytecode.OpPop)
		c.consume(token.RPAREN, "Expect ')' after for clauses.")

		c.emitLoop(loopStart)
		loopStart = incrementStart
		c.patchJump(bodyJump)
	} else {
		c.consume(token.RPAREN, "Expect ')' after for clauses.")
	}

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOpcode(bytecode.OpPop)
	}

	c.endScope()
}

// --- variable resolution ---

// parseVariable consumes an identifier token and declares it. It returns
// the identifier text for a global (scope depth 0), or nil once it has
// been declared as a local.
func (c *Compiler) parseVariable(errMsg string) *string {
	c.consume(token.IDENTIFIER, errMsg)

	c.declareVariable()
	if c.state.scopeDepth > 0 {
		return nil
	}

	name := c.scanner.Lexeme(c.previous)
	return &name
}

func (c *Compiler) declareVariable() {
	if c.state.scopeDepth == 0 {
		return
	}

	name := c.scanner.Lexeme(c.previous)
	for i := len(c.state.locals) - 1; i >= 0; i-- {
		l := c.state.locals[i]
		if l.depth != -1 && l.depth < c.state.scopeDepth {
			break
		}
		if l.name == name {
			c.error("Already a variable with this name in this scope.")
		}
	}

	c.addLocal(name)
}

func (c *Compiler) addLocal(name string) {
	if len(c.state.locals) >= maxLocals {
		c.error("Too many local variables in function.")
		return
	}
	c.state.locals = append(c.state.locals, local{name: name, depth: -1})
}

// markInitialized promotes the most recently declared local from
// "declared" to "initialized" by giving it a real scope depth. At depth 0
// (a global) it is a no-op: globals are defined by defineVariable emitting
// OpDefineGlobal instead.
func (c *Compiler) markInitialized() {
	if c.state.scopeDepth == 0 {
		return
	}
	top := &c.state.locals[len(c.state.locals)-1]
	top.depth = c.state.scopeDepth
	top.initialized = true
}

func (c *Compiler) defineVariable(global *string) {
	if global != nil {
		nameIdx := c.currentChunk().AddName(*global)
		c.emitOpcodeOperand(bytecode.OpDefineGlobal, nameIdx)
		return
	}
	c.markInitialized()
}

// resolveLocal walks cs.locals high-to-low (innermost declaration wins)
// looking for name. It raises a compile error if the match is still
// mid-initialization (a self-referential initializer).
func (c *Compiler) resolveLocal(cs *compilerState, name string) (int, bool) {
	for i := len(cs.locals) - 1; i >= 0; i-- {
		if cs.locals[i].name == name {
			if cs.locals[i].depth == -1 {
				c.error("Can't read local variable in its own initializer.")
			}
			return i, true
		}
	}
	return -1, false
}

func (c *Compiler) namedVariable(name token.Token, canAssign bool) {
	text := c.scanner.Lexeme(name)

	slot, isLocal := c.resolveLocal(c.state, text)

	var getOp, setOp bytecode.Opcode
	var operand uint16
	if isLocal {
		getOp, setOp = bytecode.OpGetLocal, bytecode.OpSetLocal
		operand = uint16(slot)
	} else {
		getOp, setOp = bytecode.OpGetGlobal, bytecode.OpSetGlobal
		operand = c.currentChunk().AddName(text)
	}

	if canAssign && c.match(token.ASSIGN) {
		c.expression()
		c.emitOpcodeOperand(setOp, operand)
	} else {
		c.emitOpcodeOperand(getOp, operand)
	}
}

// --- scopes ---

func (c *Compiler) beginScope() {
	c.state.scopeDepth++
}

// endScope pops every local declared at or below the scope just exited,
// emitting one OpPop per local so the runtime stack drains in lockstep
// with the compiler's view of it.
func (c *Compiler) endScope() {
	c.state.scopeDepth--
	for len(c.state.locals) > 0 && c.state.locals[len(c.state.locals)-1].depth > c.state.scopeDepth {
		c.emitOpcode(bytecode.OpPop)
		c.state.locals = c.state.locals[:len(c.state.locals)-1]
	}
}

// endFunctionScope closes a function body's outermost scope without
// emitting any pops: OpReturn unwinds the callee's whole stack window at
// once, so per-local cleanup would be redundant.
func (c *Compiler) endFunctionScope() {
	c.state.scopeDepth--
}

// --- expressions ---

func (c *Compiler) expression() {
	c.parsePrecedence(precAssignment)
}

// parsePrecedence is the core of the Pratt parser: it consumes a prefix
// expression, then keeps folding in infix operators as long as they bind
// at least as tightly as p. An `=` is only honored as assignment while
// canAssign holds, matching the teacher's canAssign-gated prefix/infix
// dispatch.
func (c *Compiler) parsePrecedence(p precedence) {
	c.advance()
	rule := rules[c.previous.Kind]
	if rule.prefix == nil {
		c.error("Expect expression.")
		return
	}

	canAssign := p <= precAssignment
	rule.prefix(c, canAssign)

	for p <= rules[c.current.Kind].precedence {
		c.advance()
		infixRule := rules[c.previous.Kind].infix
		infixRule(c, canAssign)
	}

	if canAssign && c.match(token.ASSIGN) {
		c.error("Invalid assignment target.")
	}
}

func (c *Compiler) grouping(_ bool) {
	c.expression()
	c.consume(token.RPAREN, "Expect ')' after expression.")
}

func (c *Compiler) unary(_ bool) {
	operatorKind := c.previous.Kind
	c.parsePrecedence(precUnary)

	switch operatorKind {
	case token.MINUS:
		c.emitOpcode(bytecode.OpNegate)
	case token.BANG:
		c.emitOpcode(bytecode.OpNot)
	}
}

// binary compiles the right operand at one precedence level above the
// operator's own (left-associativity), then decomposes the three comparison
// operators not covered by a dedicated opcode into the two-instruction
// sequences the instruction set allows: `!=` as Equal+Not, `>=` as
// Less+Not, `<=` as Greater+Not.
func (c *Compiler) binary(_ bool) {
	operatorKind := c.previous.Kind
	rule := rules[operatorKind]
	c.parsePrecedence(rule.precedence + 1)

	switch operatorKind {
	case token.PLUS:
		c.emitOpcode(bytecode.OpAdd)
	case token.MINUS:
		c.emitOpcode(bytecode.OpSubtract)
	case token.STAR:
		c.emitOpcode(bytecode.OpMultiply)
	case token.SLASH:
		c.emitOpcode(bytecode.OpDivide)
	case token.EQUAL_EQUAL:
		c.emitOpcode(bytecode.OpEqual)
	case token.BANG_EQUAL:
		c.emitOpcode(bytecode.OpEqual)
		c.emitOpcode(bytecode.OpNot)
	case token.GREATER:
		c.emitOpcode(bytecode.OpGreater)
	case token.GREATER_EQUAL:
		c.emitOpcode(bytecode.OpLess)
		c.emitOpcode(bytecode.OpNot)
	case token.LESS:
		c.emitOpcode(bytecode.OpLess)
	case token.LESS_EQUAL:
		c.emitOpcode(bytecode.OpGreater)
		c.emitOpcode(bytecode.OpNot)
	}
}

func (c *Compiler) and_(_ bool) {
	endJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOpcode(bytecode.OpPop)
	c.parsePrecedence(precAnd)
	c.patchJump(endJump)
}

func (c *Compiler) or_(_ bool) {
	elseJump := c.emitJump(bytecode.OpJumpIfFalse)
	endJump := c.emitJump(bytecode.OpJump)

	c.patchJump(elseJump)
	c.emitOpcode(bytecode.OpPop)

	c.parsePrecedence(precOr)
	c.patchJump(endJump)
}

func (c *Compiler) call(_ bool) {
	argCount := c.argumentList()
	c.emitOpcodeOperand(bytecode.OpCall, uint16(argCount))
}

func (c *Compiler) argumentList() int {
	count := 0
	if !c.check(token.RPAREN) {
		for {
			c.expression()
			count++
			if count > 255 {
				c.error("Can't have more than 255 arguments.")
			}
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RPAREN, "Expect ')' after arguments.")
	return count
}

func (c *Compiler) number(_ bool) {
	text := c.scanner.Lexeme(c.previous)
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		panic(DeveloperError{Message: "scanner produced a malformed number literal: " + text})
	}
	c.emitConstant(bytecode.Number(value))
}

func (c *Compiler) stringLiteral(_ bool) {
	c.emitConstant(bytecode.String(c.scanner.UnquotedLexeme(c.previous)))
}

func (c *Compiler) literal(_ bool) {
	switch c.previous.Kind {
	case token.FALSE:
		c.emitOpcode(bytecode.OpFalse)
	case token.TRUE:
		c.emitOpcode(bytecode.OpTrue)
	case token.NIL:
		c.emitOpcode(bytecode.OpNil)
	}
}

func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.previous, canAssign)
}

// --- code emission ---

func (c *Compiler) emitOpcode(op bytecode.Opcode) {
	c.currentChunk().WriteOpcode(op, c.previous.Line)
}

func (c *Compiler) emitOpcodeOperand(op bytecode.Opcode, operand uint16) {
	c.currentChunk().WriteOpcodeOperand(op, operand, c.previous.Line)
}

// emitJump emits a jump-class opcode with a zero placeholder operand and
// returns the patch site (the offset of the opcode byte) for patchJump.
func (c *Compiler) emitJump(op bytecode.Opcode) int {
	return c.currentChunk().WriteOpcodeOperand(op, 0, c.previous.Line)
}

// patchJump overwrites the placeholder operand at offset with the current
// end-of-chunk position, so the jump lands just past whatever was
// compiled since emitJump.
func (c *Compiler) patchJump(offset int) {
	if op := bytecode.Opcode(c.currentChunk().Code[offset]); op != bytecode.OpJump && op != bytecode.OpJumpIfFalse {
		panic(DeveloperError{Message: "patchJump called on a non-jump opcode: " + op.String()})
	}
	target := c.currentChunk().CurrentOffset()
	c.currentChunk().PatchOperand(offset, uint16(target))
}

// emitLoop emits OpLoop with its operand set directly to loopStart - the
// byte offset the VM should resume at - rather than a relative delta.
func (c *Compiler) emitLoop(loopStart int) {
	c.currentChunk().WriteOpcodeOperand(bytecode.OpLoop, uint16(loopStart), c.previous.Line)
}

func (c *Compiler) emitConstant(v bytecode.Value) {
	idx := c.currentChunk().AddConstant(v)
	c.emitOpcodeOperand(bytecode.OpConstant, idx)
}
