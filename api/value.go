// Package api includes constants and types shared between the runtime and
// embedding hosts: the numeric value model exchanged across Invoke.
package api

import "fmt"

// ValueType describes the type of a numeric value used by a WebAssembly
// function or held on the value stack. The constants match the value type
// encoding of the binary format.
type ValueType byte

const (
	// ValueTypeI32 is a 32-bit integer.
	ValueTypeI32 ValueType = 0x7f
	// ValueTypeI64 is a 64-bit integer.
	ValueTypeI64 ValueType = 0x7e
)

// Size returns the width of this type in bytes as stored on the value stack.
func (t ValueType) Size() int {
	switch t {
	case ValueTypeI32:
		return 4
	case ValueTypeI64:
		return 8
	}
	panic(fmt.Sprintf("BUG: invalid value type %#x", byte(t)))
}

// String implements fmt.Stringer.
func (t ValueType) String() string {
	switch t {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	}
	return fmt.Sprintf("unknown(%#x)", byte(t))
}

// Value is a tagged WebAssembly value: an i32 or an i64. Every value carries
// its type; reading it at the wrong type is a bug in the caller, never a
// runtime trap, so the accessors panic on mismatch.
//
// Values are comparable: two Values are equal when both the type and the
// numeric content are equal.
type Value struct {
	vt   ValueType
	bits uint64
}

// I32 returns a Value holding a 32-bit integer.
func I32(v int32) Value {
	return Value{vt: ValueTypeI32, bits: uint64(uint32(v))}
}

// I64 returns a Value holding a 64-bit integer.
func I64(v int64) Value {
	return Value{vt: ValueTypeI64, bits: uint64(v)}
}

// Type returns the type tag of this value.
func (v Value) Type() ValueType {
	return v.vt
}

// I32 returns the value as an int32, panicking if the tag is not i32.
func (v Value) I32() int32 {
	if v.vt != ValueTypeI32 {
		panic(fmt.Sprintf("BUG: read %s value as i32", v.vt))
	}
	return int32(uint32(v.bits))
}

// I64 returns the value as an int64, panicking if the tag is not i64.
func (v Value) I64() int64 {
	if v.vt != ValueTypeI64 {
		panic(fmt.Sprintf("BUG: read %s value as i64", v.vt))
	}
	return int64(v.bits)
}

// String implements fmt.Stringer.
func (v Value) String() string {
	switch v.vt {
	case ValueTypeI32:
		return fmt.Sprintf("i32(%d)", v.I32())
	case ValueTypeI64:
		return fmt.Sprintf("i64(%d)", v.I64())
	}
	return "invalid"
}
