package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loxer/bytecode"
)

func opcodesOf(t *testing.T, chunk *bytecode.Chunk) []bytecode.Opcode {
	t.Helper()
	var ops []bytecode.Opcode
	ip := 0
	for ip < len(chunk.Code) {
		op := bytecode.Opcode(chunk.Code[ip])
		ops = append(ops, op)
		ip += op.InstructionWidth()
	}
	return ops
}

func TestCompileArithmeticExpression(t *testing.T) {
	fn, err := Compile("1 + 2 * 3;")
	require.NoError(t, err)

	ops := opcodesOf(t, fn.Chunk)
	assert.Equal(t, []bytecode.Opcode{
		bytecode.OpConstant, bytecode.OpConstant, bytecode.OpConstant,
		bytecode.OpMultiply, bytecode.OpAdd, bytecode.OpPop,
		bytecode.OpNil, bytecode.OpReturn,
	}, ops)
}

func TestCompileNotEqualDecomposesToEqualNot(t *testing.T) {
	fn, err := Compile("1 != 2;")
	require.NoError(t, err)

	ops := opcodesOf(t, fn.Chunk)
	assert.Contains(t, ops, bytecode.OpEqual)
	assert.Contains(t, ops, bytecode.OpNot)
}

func TestCompileGlobalVarDeclarationAndRead(t *testing.T) {
	fn, err := Compile("var x = 5; print x;")
	require.NoError(t, err)

	ops := opcodesOf(t, fn.Chunk)
	assert.Contains(t, ops, bytecode.OpDefineGlobal)
	assert.Contains(t, ops, bytecode.OpGetGlobal)
	assert.Contains(t, ops, bytecode.OpPrint)
}

func TestCompileLocalScopeEmitsPopOnExit(t *testing.T) {
	fn, err := Compile("{ var x = 1; var y = 2; }")
	require.NoError(t, err)

	ops := opcodesOf(t, fn.Chunk)
	popCount := 0
	for _, op := range ops {
		if op == bytecode.OpPop {
			popCount++
		}
	}
	assert.Equal(t, 2, popCount)
}

func TestCompileSelfReferentialInitializerIsError(t *testing.T) {
	_, err := Compile("{ var a = a; }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "own initializer")
}

func TestCompileDuplicateLocalInSameScopeIsError(t *testing.T) {
	_, err := Compile("{ var a = 1; var a = 2; }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Already a variable")
}

func TestCompileInvalidAssignmentTargetIsError(t *testing.T) {
	_, err := Compile("1 + 2 = 3;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid assignment target")
}

func TestCompileFunctionDeclaration(t *testing.T) {
	fn, err := Compile(`
		fun add(a, b) {
			return a + b;
		}
		print add(1, 2);
	`)
	require.NoError(t, err)

	ops := opcodesOf(t, fn.Chunk)
	assert.Contains(t, ops, bytecode.OpConstant)
	assert.Contains(t, ops, bytecode.OpDefineGlobal)
	assert.Contains(t, ops, bytecode.OpCall)

	require.Len(t, fn.Chunk.Constants, 1)
	nested := fn.Chunk.Constants[0].AsFunction()
	assert.Equal(t, "add", nested.Name)
	assert.Equal(t, 2, nested.Arity)

	nestedOps := opcodesOf(t, nested.Chunk)
	assert.Contains(t, nestedOps, bytecode.OpGetLocal)
	assert.Contains(t, nestedOps, bytecode.OpAdd)
	assert.Contains(t, nestedOps, bytecode.OpReturn)
}

func TestCompileIfElseJumpsBalance(t *testing.T) {
	fn, err := Compile(`
		if (true) { print 1; } else { print 2; }
	`)
	require.NoError(t, err)

	ops := opcodesOf(t, fn.Chunk)
	assert.Contains(t, ops, bytecode.OpJumpIfFalse)
	assert.Contains(t, ops, bytecode.OpJump)
}

func TestCompileWhileLoopEmitsOpLoop(t *testing.T) {
	fn, err := Compile(`
		var i = 0;
		while (i < 3) { i = i + 1; }
	`)
	require.NoError(t, err)

	ops := opcodesOf(t, fn.Chunk)
	assert.Contains(t, ops, bytecode.OpLoop)
}

func TestCompileForLoopDesugarsToLoop(t *testing.T) {
	fn, err := Compile(`
		for (var i = 0; i < 3; i = i + 1) { print i; }
	`)
	require.NoError(t, err)

	ops := opcodesOf(t, fn.Chunk)
	assert.Contains(t, ops, bytecode.OpLoop)
	assert.Contains(t, ops, bytecode.OpJumpIfFalse)
}

func TestCompileAndOrShortCircuit(t *testing.T) {
	fn, err := Compile("print true and false or true;")
	require.NoError(t, err)

	ops := opcodesOf(t, fn.Chunk)
	jumps := 0
	for _, op := range ops {
		if op == bytecode.OpJumpIfFalse || op == bytecode.OpJump {
			jumps++
		}
	}
	assert.GreaterOrEqual(t, jumps, 3)
}

func TestCompileReturnOutsideFunctionIsError(t *testing.T) {
	_, err := Compile("return 1;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "top-level")
}

func TestCompileMissingSemicolonIsError(t *testing.T) {
	_, err := Compile("var x = 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expect ';'")
}

func TestCompileSynchronizeRecoversAfterError(t *testing.T) {
	_, err := Compile(`
		var x = ;
		var y = 1;
	`)
	require.Error(t, err)

	var compileErr CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.GreaterOrEqual(t, len(compileErr.Errors), 1)
}
