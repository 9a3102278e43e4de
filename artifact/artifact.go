// Package artifact serializes a compiled *bytecode.Function to and from a
// gob-encoded byte blob, so a program can be compiled once and run many
// times without re-parsing - the round-trip-capable replacement for the
// teacher's DumpBytecode hex-dump idiom.
package artifact

import (
	"bytes"
	"encoding/gob"

	"loxer/bytecode"
)

// gobFunction mirrors bytecode.Function/Chunk with exported fields so gob
// can see them - bytecode.Value keeps its payload fields private to stay a
// zero-allocation tagged union, so it is not itself gob-encodable and is
// translated through gobValue below.
type gobFunction struct {
	Name  string
	Arity int
	Chunk gobChunk
}

type gobChunk struct {
	Code      []byte
	Lines     []int32
	Constants []gobValue
	Names     []string
}

// gobValue is a serializable stand-in for bytecode.Value: exactly one of
// the typed fields is meaningful, selected by Kind.
type gobValue struct {
	Kind   byte
	Bool   bool
	Number float64
	Str    string
	Fn     *gobFunction
}

const (
	kindNil byte = iota
	kindBool
	kindNumber
	kindString
	kindFunction
)

func toGobValue(v bytecode.Value) gobValue {
	switch {
	case v.IsBool():
		return gobValue{Kind: kindBool, Bool: v.AsBool()}
	case v.IsNumber():
		return gobValue{Kind: kindNumber, Number: v.AsNumber()}
	case v.IsString():
		return gobValue{Kind: kindString, Str: v.AsString()}
	case v.IsFunction():
		return gobValue{Kind: kindFunction, Fn: toGobFunction(v.AsFunction())}
	default:
		return gobValue{Kind: kindNil}
	}
}

func fromGobValue(gv gobValue) bytecode.Value {
	switch gv.Kind {
	case kindBool:
		return bytecode.Bool(gv.Bool)
	case kindNumber:
		return bytecode.Number(gv.Number)
	case kindString:
		return bytecode.String(gv.Str)
	case kindFunction:
		return bytecode.FunctionValue(fromGobFunction(gv.Fn))
	default:
		return bytecode.Nil
	}
}

func toGobFunction(fn *bytecode.Function) *gobFunction {
	constants := make([]gobValue, len(fn.Chunk.Constants))
	for i, c := range fn.Chunk.Constants {
		constants[i] = toGobValue(c)
	}
	return &gobFunction{
		Name:  fn.Name,
		Arity: fn.Arity,
		Chunk: gobChunk{
			Code:      fn.Chunk.Code,
			Lines:     fn.Chunk.Lines,
			Constants: constants,
			Names:     fn.Chunk.Names,
		},
	}
}

func fromGobFunction(gf *gobFunction) *bytecode.Function {
	constants := make([]bytecode.Value, len(gf.Chunk.Constants))
	for i, gv := range gf.Chunk.Constants {
		constants[i] = fromGobValue(gv)
	}
	return &bytecode.Function{
		Name:  gf.Name,
		Arity: gf.Arity,
		Chunk: &bytecode.Chunk{
			Code:      gf.Chunk.Code,
			Lines:     gf.Chunk.Lines,
			Constants: constants,
			Names:     gf.Chunk.Names,
		},
	}
}

// Encode serializes fn, including every nested *bytecode.Function reachable
// through its constants pool, to a gob-encoded byte slice.
func Encode(fn *bytecode.Function) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(toGobFunction(fn)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reverses Encode, reconstructing the *bytecode.Function tree.
func Decode(data []byte) (*bytecode.Function, error) {
	var gf gobFunction
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&gf); err != nil {
		return nil, err
	}
	return fromGobFunction(&gf), nil
}
