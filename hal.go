// Package hal is an embeddable WebAssembly interpreter for the integer core
// of the 1.0 binary format.
//
// An Environment is the directory of loaded modules. Load decodes and
// lowers a binary into an immutable module; Instantiate creates an Instance
// with its own linear memory and execution stacks; Invoke runs an exported
// function against untrusted input, surfacing traps as errors.
//
//	env := hal.NewEnvironment()
//	id, err := env.Load(wasmBytes)
//	inst, err := env.Instantiate(id)
//	results, err := inst.Invoke("add", []api.Value{api.I32(40), api.I32(2)})
package hal

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/h41-dev/hal/api"
	"github.com/h41-dev/hal/internal/compiler"
	"github.com/h41-dev/hal/internal/engine/interpreter"
	"github.com/h41-dev/hal/internal/wasm"
	"github.com/h41-dev/hal/internal/wasm/binary"
	"github.com/h41-dev/hal/internal/wasmruntime"
)

// ModuleID identifies a module loaded into an Environment.
type ModuleID = wasm.ModuleID

// Environment holds lowered modules and creates instances of them. It is
// not a singleton: hosts may create as many environments as they need.
//
// Load and Instantiate are safe for concurrent use. Instances are not: each
// instance must stay on one goroutine for the duration of a call.
type Environment struct {
	mux     sync.RWMutex
	modules []*wasm.Module

	log           *zap.Logger
	maxValueStack int
}

// NewEnvironment creates an empty environment.
func NewEnvironment(opts ...Option) *Environment {
	e := &Environment{log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load decodes and lowers a WebAssembly binary, returning the id the module
// is registered under. The input bytes are not retained.
func (e *Environment) Load(bin []byte) (ModuleID, error) {
	decoded, err := binary.DecodeModule(bin)
	if err != nil {
		return 0, err
	}

	e.mux.Lock()
	defer e.mux.Unlock()

	if len(e.modules) > int(^uint16(0)) {
		return 0, fmt.Errorf("module limit of %d reached", int(^uint16(0))+1)
	}
	id := ModuleID(len(e.modules))

	m, err := compiler.Compile(id, decoded)
	if err != nil {
		return 0, err
	}
	e.modules = append(e.modules, m)

	e.log.Debug("module loaded",
		zap.Uint16("id", uint16(id)),
		zap.Int("functions", len(m.Functions)),
		zap.Int("memories", len(m.Memories)),
		zap.Int("exports", len(m.Exports)))
	return id, nil
}

// Instantiate creates a new instance of a loaded module. Each instance owns
// a fresh copy of the module's initialized linear memories.
func (e *Environment) Instantiate(id ModuleID) (*Instance, error) {
	e.mux.RLock()
	defer e.mux.RUnlock()

	if int(id) >= len(e.modules) {
		return nil, wasmruntime.ModuleNotFound(uint16(id))
	}
	m := e.modules[id]

	memories := make([]*wasm.Memory, 0, len(m.Memories))
	for _, mem := range m.Memories {
		memories = append(memories, mem.Clone())
	}

	store := wasm.NewStore(m, memories)
	inst := &Instance{
		module: m,
		store:  store,
		engine: interpreter.NewCallEngine(store, e.maxValueStack),
		log:    e.log,
	}

	e.log.Debug("module instantiated", zap.Uint16("id", uint16(id)))
	return inst, nil
}

// Instance is a running realization of a module: its own linear memory and
// execution stacks over the shared immutable code.
//
// An instance must not be entered concurrently. After Invoke returns a
// trap, the instance must not be reused except to be discarded.
type Instance struct {
	module *wasm.Module
	store  *wasm.Store
	engine *interpreter.CallEngine
	log    *zap.Logger
}

// Invoke runs the exported function name with args and returns its results.
func (i *Instance) Invoke(name string, args []api.Value) ([]api.Value, error) {
	results, err := i.engine.Invoke(name, args)
	if err != nil {
		i.log.Debug("invoke trapped", zap.String("export", name), zap.Error(err))
		return nil, err
	}
	return results, nil
}

// Memory returns a view of the instance's linear memory at idx.
func (i *Instance) Memory(idx uint32) (api.Memory, error) {
	mem, err := i.store.Memory(idx)
	if err != nil {
		return nil, err
	}
	return mem, nil
}

// ExportedFunctions describes the instance's function exports, in
// declaration order.
func (i *Instance) ExportedFunctions() []api.FunctionDefinition {
	defs := make([]api.FunctionDefinition, 0, len(i.module.Exports))
	for _, e := range i.module.Exports {
		sig := i.module.Functions[e.Index].Signature
		defs = append(defs, api.FunctionDefinition{
			Name:        e.Name,
			ParamTypes:  sig.Params,
			ResultTypes: sig.Results,
		})
	}
	return defs
}
