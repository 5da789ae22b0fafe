// Package wasm holds the executable representation of a WebAssembly module:
// functions with flat instruction streams, linear memory, exports, and the
// per-instance store used to resolve indices during execution.
package wasm

import "github.com/h41-dev/hal/api"

// ModuleID identifies a module loaded into an Environment.
type ModuleID uint16

// Module is the lowered, executable form of a WebAssembly module. It is
// immutable after compilation and may be shared by any number of instances;
// each instance clones the memory prototypes before executing.
type Module struct {
	// ID is the identifier assigned by the Environment at load time.
	ID ModuleID

	// Functions are the module's functions, indexed by function index.
	Functions []*Function

	// Memories are the initialized linear memory prototypes, indexed by
	// memory index. Data segments are already applied.
	Memories []*Memory

	// Exports are the function exports, in declaration order.
	Exports []*Export
}

// Export names a function for host invocation.
type Export struct {
	// Name is the UTF-8 export name.
	Name string

	// Index is the index of the exported function.
	Index uint32
}

// FunctionSignature is a function's parameter and result types. Either list
// may be empty.
type FunctionSignature struct {
	Params  []api.ValueType
	Results []api.ValueType
}
