// Package binary decodes the WebAssembly 1.0 binary format into an
// intermediate module representation, which the compiler package lowers
// into the executable form.
package binary

import "github.com/h41-dev/hal/api"

// Module is the decoded (pre-lowering) form of a WebAssembly binary. Field
// order mirrors section order in the format.
type Module struct {
	// Customs are the custom sections, retained as opaque bytes.
	Customs []*Custom

	// Types are the function signatures of the type section.
	Types []*FunctionType

	// Imports are the function imports of the import section.
	Imports []*Import

	// Functions holds one type index per function defined in the module.
	Functions []uint32

	// Memories are the limits of the memory section.
	Memories []*MemoryType

	// Exports are the entries of the export section.
	Exports []*Export

	// Codes are the function bodies, parallel to Functions.
	Codes []*FunctionBody

	// Data are the data segments initializing linear memory.
	Data []*DataSegment
}

// Custom is a custom section: a name and uninterpreted contents.
type Custom struct {
	Name string
	Data []byte
}

// FunctionType is a decoded function signature.
type FunctionType struct {
	Params  []api.ValueType
	Results []api.ValueType
}

// Import is a function import. Non-function imports fail decoding.
type Import struct {
	// Module is the module name to import from.
	Module string
	// Name is the field name inside that module.
	Name string
	// DescFunc is the type index of the imported function.
	DescFunc uint32
}

// MemoryType is a decoded memory limit: a minimum and optional maximum,
// both in pages.
type MemoryType struct {
	Min uint32
	Max *uint32
}

// Export is a decoded export entry. Only function exports decode; other
// kinds fail with ErrInvalidExportDescriptor.
type Export struct {
	// Name is the UTF-8 export name.
	Name string
	// Index is the exported function's index.
	Index uint32
}

// FunctionBody is a decoded code section entry.
type FunctionBody struct {
	// Locals are the local declarations as (count, type) runs, not yet
	// flattened.
	Locals []LocalEntry

	// Body is the decoded instruction stream, including the trailing end.
	Body []Instruction
}

// LocalEntry is one run of same-typed locals.
type LocalEntry struct {
	Count uint32
	Type  api.ValueType
}

// DataSegment initializes a region of a memory at a constant offset.
type DataSegment struct {
	MemoryIndex uint32
	Offset      uint32
	Init        []byte
}

// Instruction is one decoded instruction: the raw opcode byte plus its
// operands. Operand fields are meaningful per opcode.
type Instruction struct {
	Opcode Opcode

	// Const holds the literal of const instructions; float literals keep
	// their raw bit pattern.
	Const int64

	// Index is a local, function or label index.
	Index uint32

	// Align and Offset are the memarg of memory instructions.
	Align  uint32
	Offset uint32

	// BlockType is the raw block type byte of block/loop.
	BlockType byte
}
