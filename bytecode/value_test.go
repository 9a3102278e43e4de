package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFalsey(t *testing.T) {
	assert.True(t, Nil.IsFalsey())
	assert.True(t, Bool(false).IsFalsey())
	assert.False(t, Bool(true).IsFalsey())
	assert.False(t, Number(0).IsFalsey())
	assert.False(t, String("").IsFalsey())
}

func TestEqual(t *testing.T) {
	assert.True(t, Nil.Equal(Nil))
	assert.True(t, Number(1).Equal(Number(1)))
	assert.False(t, Number(1).Equal(Number(2)))
	assert.False(t, Nil.Equal(Number(0)))
	assert.True(t, String("a").Equal(String("a")))
	assert.False(t, String("a").Equal(String("b")))
	assert.False(t, Number(1).Equal(String("1")))
}

func TestStringRendering(t *testing.T) {
	assert.Equal(t, "nil", Nil.String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "3", Number(3).String())
	assert.Equal(t, "3.5", Number(3.5).String())
	assert.Equal(t, "hi", String("hi").String())

	fn := &Function{Name: "greet", Arity: 1, Chunk: NewChunk()}
	assert.Equal(t, "<fn greet>", FunctionValue(fn).String())

	script := &Function{Chunk: NewChunk()}
	assert.Equal(t, "<script>", FunctionValue(script).String())

	native := &Native{Name: "clock"}
	assert.Equal(t, "<native clock>", NativeValue(native).String())
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "number", Number(1).TypeName())
	assert.Equal(t, "string", String("s").TypeName())
	assert.Equal(t, "nil", Nil.TypeName())
	assert.Equal(t, "bool", Bool(true).TypeName())
}
