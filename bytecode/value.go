package bytecode

import (
	"fmt"
	"strconv"
)

// valueKind tags which field of a Value is live.
type valueKind byte

const (
	kindNil valueKind = iota
	kindBool
	kindNumber
	kindString
	kindFunction
	kindNative
)

// Value is the tagged runtime value union: Nil | Bool | Number | String |
// *Function | *Native. It is deliberately a small value type (not an
// interface) so that pushing/popping the VM's operand stack never
// allocates.
type Value struct {
	kind   valueKind
	b      bool
	n      float64
	s      string
	fn     *Function
	native *Native
}

// Nil is the sole nil value.
var Nil = Value{kind: kindNil}

// Bool constructs a boolean Value.
func Bool(b bool) Value { return Value{kind: kindBool, b: b} }

// Number constructs a numeric Value.
func Number(n float64) Value { return Value{kind: kindNumber, n: n} }

// String constructs a string Value.
func String(s string) Value { return Value{kind: kindString, s: s} }

// FunctionValue wraps a compiled Function as a first-class Value.
func FunctionValue(fn *Function) Value { return Value{kind: kindFunction, fn: fn} }

// NativeValue wraps a Native builtin as a first-class Value.
func NativeValue(n *Native) Value { return Value{kind: kindNative, native: n} }

// IsNil reports whether the value is Nil.
func (v Value) IsNil() bool { return v.kind == kindNil }

// IsBool reports whether the value holds a boolean.
func (v Value) IsBool() bool { return v.kind == kindBool }

// IsNumber reports whether the value holds a float64.
func (v Value) IsNumber() bool { return v.kind == kindNumber }

// IsString reports whether the value holds a string.
func (v Value) IsString() bool { return v.kind == kindString }

// IsFunction reports whether the value holds a *Function.
func (v Value) IsFunction() bool { return v.kind == kindFunction }

// IsNative reports whether the value holds a *Native.
func (v Value) IsNative() bool { return v.kind == kindNative }

// AsBool returns the boolean payload; only meaningful when IsBool.
func (v Value) AsBool() bool { return v.b }

// AsNumber returns the float64 payload; only meaningful when IsNumber.
func (v Value) AsNumber() float64 { return v.n }

// AsString returns the string payload; only meaningful when IsString.
func (v Value) AsString() string { return v.s }

// AsFunction returns the *Function payload; only meaningful when IsFunction.
func (v Value) AsFunction() *Function { return v.fn }

// AsNative returns the *Native payload; only meaningful when IsNative.
func (v Value) AsNative() *Native { return v.native }

// IsFalsey reports whether v is one of the two falsey values: Nil or
// Bool(false). Every other value, including 0 and the empty string, is
// truthy.
func (v Value) IsFalsey() bool {
	return v.kind == kindNil || (v.kind == kindBool && !v.b)
}

// Equal implements structural equality: different tags always compare
// unequal except for Nil == Nil.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case kindNil:
		return true
	case kindBool:
		return v.b == other.b
	case kindNumber:
		return v.n == other.n
	case kindString:
		return v.s == other.s
	case kindFunction:
		return v.fn == other.fn
	case kindNative:
		return v.native == other.native
	}
	return false
}

// String renders the value the way `print` and the disassembler show it.
func (v Value) String() string {
	switch v.kind {
	case kindNil:
		return "nil"
	case kindBool:
		return strconv.FormatBool(v.b)
	case kindNumber:
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	case kindString:
		return v.s
	case kindFunction:
		if v.fn.Name == "" {
			return "<script>"
		}
		return fmt.Sprintf("<fn %s>", v.fn.Name)
	case kindNative:
		return fmt.Sprintf("<native %s>", v.native.Name)
	}
	return "<invalid value>"
}

// TypeName names the value's kind for diagnostics (e.g. "number", "string").
func (v Value) TypeName() string {
	switch v.kind {
	case kindNil:
		return "nil"
	case kindBool:
		return "bool"
	case kindNumber:
		return "number"
	case kindString:
		return "string"
	case kindFunction:
		return "function"
	case kindNative:
		return "native function"
	}
	return "unknown"
}

// Function is a compiled, first-class function value: a name, its arity,
// and the chunk of bytecode that implements its body. The top-level script
// is itself a Function named "".
type Function struct {
	Name  string
	Arity int
	Chunk *Chunk
}

func (fn *Function) String() string {
	if fn.Name == "" {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", fn.Name)
}

// Native is a builtin function implemented in Go, exposed to loxer code as
// an ordinary callable value. The only native in this language is `clock`.
type Native struct {
	Name  string
	Arity int
	Fn    func(args []Value) Value
}
