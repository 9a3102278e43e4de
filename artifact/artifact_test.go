package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loxer/compiler"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	fn, err := compiler.Compile(`
		fun add(a, b) { return a + b; }
		print add(2, 3);
		var name = "loxer";
		print name;
	`)
	require.NoError(t, err)

	data, err := Encode(fn)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, fn.Name, decoded.Name)
	assert.Equal(t, fn.Arity, decoded.Arity)
	assert.Equal(t, fn.Chunk.Code, decoded.Chunk.Code)
	assert.Equal(t, fn.Chunk.Lines, decoded.Chunk.Lines)
	assert.Equal(t, fn.Chunk.Names, decoded.Chunk.Names)
	require.Len(t, decoded.Chunk.Constants, len(fn.Chunk.Constants))

	for i, c := range fn.Chunk.Constants {
		got := decoded.Chunk.Constants[i]
		switch {
		case c.IsNumber():
			assert.Equal(t, c.AsNumber(), got.AsNumber())
		case c.IsString():
			assert.Equal(t, c.AsString(), got.AsString())
		case c.IsFunction():
			assert.Equal(t, c.AsFunction().Name, got.AsFunction().Name)
			assert.Equal(t, c.AsFunction().Chunk.Code, got.AsFunction().Chunk.Code)
		}
	}
}
