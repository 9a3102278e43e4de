package vm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, source string) string {
	t.Helper()
	machine := New()
	var out strings.Builder
	machine.SetStdout(&out)

	err := machine.Interpret(source, false)
	require.NoError(t, err)
	return out.String()
}

func TestArithmeticPrecedence(t *testing.T) {
	assert.Equal(t, "7\n", run(t, "print 1 + 2 * 3;"))
}

func TestShadowingAcrossScopes(t *testing.T) {
	assert.Equal(t, "1\n10\n", run(t, "var a = 10; { var a = 1; print a; } print a;"))
}

func TestRecursiveFunctionCall(t *testing.T) {
	source := "fun f(n){ if (n<=1) return 1; return n*f(n-1);} print f(5);"
	assert.Equal(t, "120\n", run(t, source))
}

func TestForLoopPrintsSequence(t *testing.T) {
	assert.Equal(t, "0\n1\n2\n", run(t, "for (var i=0; i<3; i=i+1) print i;"))
}

func TestStringConcatenation(t *testing.T) {
	assert.Equal(t, "hi there\n", run(t, `var s = "hi"; print s + " there";`))
}

func TestClockReturnsNonNegative(t *testing.T) {
	assert.Equal(t, "true\n", run(t, "print clock() >= 0;"))
}

func TestNegativeZeroEqualsZero(t *testing.T) {
	assert.Equal(t, "true\n", run(t, "print -0.0 == 0.0;"))
}

func TestNilNotEqualZero(t *testing.T) {
	assert.Equal(t, "false\n", run(t, "print nil == 0;"))
}

func TestEmptyStringIsTruthy(t *testing.T) {
	assert.Equal(t, "yes\n", run(t, `if ("") print "yes"; else print "no";`))
}

func TestZeroIsTruthy(t *testing.T) {
	assert.Equal(t, "yes\n", run(t, `if (0) print "yes"; else print "no";`))
}

func TestDivisionByZeroYieldsInf(t *testing.T) {
	assert.Equal(t, "+Inf\n", run(t, "print 1 / 0;"))
}

func TestMixedAddOperandsIsRuntimeError(t *testing.T) {
	machine := New()
	var out strings.Builder
	machine.SetStdout(&out)

	err := machine.Interpret(`print 1 + "x";`, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "two numbers or two strings")
}

func TestUndefinedGlobalReadIsRuntimeError(t *testing.T) {
	machine := New()
	err := machine.Interpret("print nope;", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable")
}

func TestCallingNonCallableIsRuntimeError(t *testing.T) {
	machine := New()
	err := machine.Interpret(`var x = 1; x();`, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can only call functions and classes")
}

func TestArityMismatchIsRuntimeError(t *testing.T) {
	machine := New()
	err := machine.Interpret(`fun f(a, b) { return a + b; } f(1);`, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected 2 arguments but got 1")
}

func TestWhileLoopAccumulator(t *testing.T) {
	source := `
		var i = 0;
		var total = 0;
		while (i < 5) {
			total = total + i;
			i = i + 1;
		}
		print total;
	`
	assert.Equal(t, "10\n", run(t, source))
}

func TestLogicalAndOrShortCircuit(t *testing.T) {
	// nope() is never called on either path, which would otherwise raise
	// an "Undefined variable" runtime error - short-circuiting must skip it.
	assert.Equal(t, "false\n", run(t, `print false and nope();`))
	assert.Equal(t, "true\n", run(t, `print true or nope();`))
}
