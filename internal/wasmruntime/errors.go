// Package wasmruntime defines the traps a WebAssembly execution can raise.
//
// A trap aborts the entire call tree: the interpreter propagates it through
// every in-progress frame and Invoke returns it to the host. Traps are
// ordinary error values so hosts can test them with errors.Is.
package wasmruntime

import (
	"fmt"

	"github.com/h41-dev/hal/api"
)

var (
	// ErrDivisionByZero is raised by integer division or remainder when the
	// divisor is zero.
	ErrDivisionByZero = New("integer divide by zero")

	// ErrIntegerOverflow is raised by signed division of the minimum value
	// by minus one.
	ErrIntegerOverflow = New("integer overflow")

	// ErrStackOverflow is raised when a push would grow the value stack past
	// its limit.
	ErrStackOverflow = New("value stack exceeds limit")

	// ErrStackUnderflow is raised when a pop or peek finds the value stack
	// empty.
	ErrStackUnderflow = New("value stack exhausted")

	// ErrTypeMismatch is raised when the top of the value stack holds a
	// different type than the instruction requires. Unreachable on validated
	// modules; surfaced rather than corrupting the stack.
	ErrTypeMismatch = New("value type mismatch")

	// ErrOutOfBoundsMemoryAccess is raised by a load or store past the
	// current memory size.
	ErrOutOfBoundsMemoryAccess = New("out of bounds memory access")

	// ErrNotImplemented is raised when an instruction decoded successfully
	// but has no interpreter semantics, e.g. the float opcodes.
	ErrNotImplemented = New("instruction not implemented")

	// ErrExportedFunctionNotFound is raised when Invoke names an unknown
	// export.
	ErrExportedFunctionNotFound = New("exported function not found")

	// ErrFunctionNotFound is raised when a call instruction references a
	// function index outside the module.
	ErrFunctionNotFound = New("function not found")

	// ErrMemoryNotFound is raised when a memory index has no instance.
	ErrMemoryNotFound = New("memory not found")

	// ErrModuleNotFound is raised when instantiation references an unknown
	// module id.
	ErrModuleNotFound = New("module not found")

	// ErrReturnValueNotFound is raised when a function body completes
	// without leaving its declared results on the value stack.
	ErrReturnValueNotFound = New("return value not found")
)

// Error distinguishes traps from other errors the runtime can return, such
// as load failures.
type Error struct {
	s string
}

// New creates a new trap reason.
func New(text string) *Error {
	return &Error{s: text}
}

// Error implements error.
func (e *Error) Error() string {
	return e.s
}

// TypeMismatch details ErrTypeMismatch with the expected and found types.
func TypeMismatch(expected, got api.ValueType) error {
	return fmt.Errorf("%w: expected %s, got %s", ErrTypeMismatch, expected, got)
}

// ExportedFunctionNotFound details ErrExportedFunctionNotFound with the name
// the host asked for.
func ExportedFunctionNotFound(name string) error {
	return fmt.Errorf("%w: %q", ErrExportedFunctionNotFound, name)
}

// FunctionNotFound details ErrFunctionNotFound with the failing index.
func FunctionNotFound(idx uint32) error {
	return fmt.Errorf("%w: index %d", ErrFunctionNotFound, idx)
}

// MemoryNotFound details ErrMemoryNotFound with the failing index.
func MemoryNotFound(idx uint32) error {
	return fmt.Errorf("%w: index %d", ErrMemoryNotFound, idx)
}

// ModuleNotFound details ErrModuleNotFound with the failing module id.
func ModuleNotFound(id uint16) error {
	return fmt.Errorf("%w: id %d", ErrModuleNotFound, id)
}

// NotImplemented details ErrNotImplemented with the instruction name.
func NotImplemented(instruction fmt.Stringer) error {
	return fmt.Errorf("%w: %s", ErrNotImplemented, instruction)
}
