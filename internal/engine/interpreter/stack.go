// Package interpreter executes lowered modules: a typed value stack, call
// frames, and a fetch-decode-execute loop enforcing trap semantics.
package interpreter

import (
	"encoding/binary"

	"github.com/h41-dev/hal/api"
	"github.com/h41-dev/hal/internal/wasm"
	"github.com/h41-dev/hal/internal/wasmruntime"
)

// MaxValueStack is the default limit on the number of values the stack may
// hold at once.
const MaxValueStack = 32 * 1024

// CallFrame is the execution state of one in-progress function.
type CallFrame struct {
	// ip is the instruction pointer. It starts at -1 and is incremented
	// before each fetch.
	ip int

	// sp is the value stack height at frame entry, after parameters were
	// popped into locals.
	sp int

	// body is the function's instruction stream.
	body []wasm.Instruction

	// arity is the function's result count.
	arity int

	// locals holds parameters first, in declared order, then the declared
	// locals zero-initialized.
	locals []api.Value
}

// Stack is the typed value stack: little-endian value bytes in a flat
// buffer, with a parallel vector of type tags. Type safety is enforced
// here, at the stack boundary, not scattered across the interpreter: a pop
// or peek never yields bytes at a type the caller did not prove matches.
//
// Invariant: the sum of the byte widths of types equals len(bytes).
type Stack struct {
	bytes []byte
	types []api.ValueType
	limit int

	// frame is the currently executing frame. Suspended callers' frames are
	// held by the Go stack of the nested invoke calls.
	frame CallFrame
}

// NewStack returns an empty stack capped at limit values; limit <= 0 means
// MaxValueStack.
func NewStack(limit int) *Stack {
	if limit <= 0 {
		limit = MaxValueStack
	}
	return &Stack{limit: limit}
}

// Len returns the number of values currently on the stack.
func (s *Stack) Len() int {
	return len(s.types)
}

// PushI32 pushes a 32-bit integer.
func (s *Stack) PushI32(v int32) error {
	if len(s.types) >= s.limit {
		return wasmruntime.ErrStackOverflow
	}
	s.bytes = binary.LittleEndian.AppendUint32(s.bytes, uint32(v))
	s.types = append(s.types, api.ValueTypeI32)
	return nil
}

// PushI64 pushes a 64-bit integer.
func (s *Stack) PushI64(v int64) error {
	if len(s.types) >= s.limit {
		return wasmruntime.ErrStackOverflow
	}
	s.bytes = binary.LittleEndian.AppendUint64(s.bytes, uint64(v))
	s.types = append(s.types, api.ValueTypeI64)
	return nil
}

// PushValue pushes a tagged value, dispatching on its type.
func (s *Stack) PushValue(v api.Value) error {
	switch v.Type() {
	case api.ValueTypeI32:
		return s.PushI32(v.I32())
	default:
		return s.PushI64(v.I64())
	}
}

// PeekI32 returns the top value, which must be an i32, without removing it.
func (s *Stack) PeekI32() (int32, error) {
	if err := s.expectType(api.ValueTypeI32); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(s.bytes[len(s.bytes)-4:])), nil
}

// PeekI64 returns the top value, which must be an i64, without removing it.
func (s *Stack) PeekI64() (int64, error) {
	if err := s.expectType(api.ValueTypeI64); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(s.bytes[len(s.bytes)-8:])), nil
}

// PeekValue returns the top value at whatever type it has.
func (s *Stack) PeekValue() (api.Value, error) {
	top, err := s.topType()
	if err != nil {
		return api.Value{}, err
	}
	switch top {
	case api.ValueTypeI32:
		v, err := s.PeekI32()
		return api.I32(v), err
	default:
		v, err := s.PeekI64()
		return api.I64(v), err
	}
}

// PopI32 pops the top value, which must be an i32. A failed pop leaves the
// stack unchanged.
func (s *Stack) PopI32() (int32, error) {
	v, err := s.PeekI32()
	if err != nil {
		return 0, err
	}
	s.truncate(4)
	return v, nil
}

// PopI64 pops the top value, which must be an i64. A failed pop leaves the
// stack unchanged.
func (s *Stack) PopI64() (int64, error) {
	v, err := s.PeekI64()
	if err != nil {
		return 0, err
	}
	s.truncate(8)
	return v, nil
}

// PopValue pops the top value at whatever type it has.
func (s *Stack) PopValue() (api.Value, error) {
	v, err := s.PeekValue()
	if err != nil {
		return api.Value{}, err
	}
	s.truncate(v.Type().Size())
	return v, nil
}

func (s *Stack) truncate(byteCount int) {
	s.bytes = s.bytes[:len(s.bytes)-byteCount]
	s.types = s.types[:len(s.types)-1]
}

func (s *Stack) topType() (api.ValueType, error) {
	if len(s.types) == 0 {
		return 0, wasmruntime.ErrStackUnderflow
	}
	return s.types[len(s.types)-1], nil
}

func (s *Stack) expectType(expected api.ValueType) error {
	got, err := s.topType()
	if err != nil {
		return err
	}
	if got != expected {
		return wasmruntime.TypeMismatch(expected, got)
	}
	return nil
}

// ReplaceFrame installs frame as the current frame and returns the previous
// one for later restoration.
func (s *Stack) ReplaceFrame(frame CallFrame) CallFrame {
	old := s.frame
	s.frame = frame
	return old
}

// Restore reinstates a previously replaced frame, discarding the current
// one.
func (s *Stack) Restore(frame CallFrame) {
	s.frame = frame
}
