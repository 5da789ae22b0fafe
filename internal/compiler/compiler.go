// Package compiler lowers a decoded module into its executable form:
// signatures resolved onto functions, locals flattened, instruction streams
// mapped onto runtime opcodes, and linear memories allocated and
// initialized from data segments.
package compiler

import (
	"errors"
	"fmt"

	"github.com/h41-dev/hal/internal/wasm"
	"github.com/h41-dev/hal/internal/wasm/binary"
)

// ErrLoweringFailed is the sentinel all lowering errors wrap.
var ErrLoweringFailed = errors.New("lowering failed")

func failf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrLoweringFailed, fmt.Sprintf(format, args...))
}

// Compile lowers in to an executable module with the given id. It is total:
// it returns either a complete module or an error, never a partial one.
func Compile(id wasm.ModuleID, in *binary.Module) (*wasm.Module, error) {
	if len(in.Imports) > 0 {
		// External functions are a reserved extension.
		return nil, failf("function imports are not supported")
	}
	if len(in.Functions) != len(in.Codes) {
		return nil, failf("function section declares %d functions, code section has %d bodies",
			len(in.Functions), len(in.Codes))
	}

	m := &wasm.Module{ID: id}

	for i, typeIdx := range in.Functions {
		if typeIdx >= uint32(len(in.Types)) {
			return nil, failf("function %d references type %d of %d", i, typeIdx, len(in.Types))
		}
		fn, err := compileFunction(in.Types[typeIdx], in.Codes[i])
		if err != nil {
			return nil, fmt.Errorf("function %d: %w", i, err)
		}
		m.Functions = append(m.Functions, fn)
	}

	for _, mem := range in.Memories {
		m.Memories = append(m.Memories, wasm.NewMemory(mem.Min, mem.Max))
	}

	for i, seg := range in.Data {
		if seg.MemoryIndex >= uint32(len(m.Memories)) {
			return nil, failf("data segment %d references memory %d of %d",
				i, seg.MemoryIndex, len(m.Memories))
		}
		mem := m.Memories[seg.MemoryIndex]
		if uint64(seg.Offset)+uint64(len(seg.Init)) > uint64(len(mem.Data)) {
			return nil, failf("data segment %d of %d bytes does not fit at offset %d",
				i, len(seg.Init), seg.Offset)
		}
		copy(mem.Data[seg.Offset:], seg.Init)
	}

	for _, e := range in.Exports {
		if e.Index >= uint32(len(m.Functions)) {
			return nil, failf("export %q references function %d of %d",
				e.Name, e.Index, len(m.Functions))
		}
		m.Exports = append(m.Exports, &wasm.Export{Name: e.Name, Index: e.Index})
	}

	return m, nil
}

func compileFunction(ft *binary.FunctionType, body *binary.FunctionBody) (*wasm.Function, error) {
	fn := &wasm.Function{
		Signature: &wasm.FunctionSignature{Params: ft.Params, Results: ft.Results},
	}

	for _, group := range body.Locals {
		for i := uint32(0); i < group.Count; i++ {
			fn.Locals = append(fn.Locals, group.Type)
		}
	}

	fn.Body = make([]wasm.Instruction, 0, len(body.Body))
	for _, inst := range body.Body {
		lowered, err := lowerInstruction(inst)
		if err != nil {
			return nil, err
		}
		fn.Body = append(fn.Body, lowered)
	}
	return fn, nil
}
