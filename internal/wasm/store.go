package wasm

import "github.com/h41-dev/hal/internal/wasmruntime"

// Store is the per-instance directory resolving indices and export names to
// the things the interpreter executes against. Functions and exports are
// shared with the immutable module; memories belong to the instance.
type Store struct {
	functions []*Function
	exports   map[string]*Export
	memories  []*Memory
}

// NewStore builds a store for one instance of m. memories must be the
// instance's own clones of the module's memory prototypes.
func NewStore(m *Module, memories []*Memory) *Store {
	exports := make(map[string]*Export, len(m.Exports))
	for _, e := range m.Exports {
		exports[e.Name] = e
	}
	return &Store{
		functions: m.Functions,
		exports:   exports,
		memories:  memories,
	}
}

// Function resolves a function index. A miss is a trap: it means a call
// instruction referenced outside the module.
func (s *Store) Function(idx uint32) (*Function, error) {
	if idx >= uint32(len(s.functions)) {
		return nil, wasmruntime.FunctionNotFound(idx)
	}
	return s.functions[idx], nil
}

// Export resolves an export name to its function export.
func (s *Store) Export(name string) (*Export, error) {
	e, ok := s.exports[name]
	if !ok {
		return nil, wasmruntime.ExportedFunctionNotFound(name)
	}
	return e, nil
}

// Memory resolves a memory index.
func (s *Store) Memory(idx uint32) (*Memory, error) {
	if idx >= uint32(len(s.memories)) {
		return nil, wasmruntime.MemoryNotFound(idx)
	}
	return s.memories[idx], nil
}
