package interpreter

import (
	"fmt"
	"math/bits"

	"github.com/h41-dev/hal/api"
	"github.com/h41-dev/hal/internal/wasm"
	"github.com/h41-dev/hal/internal/wasmruntime"
)

// status is the outcome of one interpreter step.
type status int

const (
	// statusRunning continues with the next instruction.
	statusRunning status = iota
	// statusReturning unwinds the current frame: the body reached its end.
	statusReturning
)

// CallEngine executes functions of one module instance. It owns the value
// stack and the current frame; suspended frames live on the Go stack of the
// nested invoke calls. A CallEngine must not be entered concurrently.
type CallEngine struct {
	store *wasm.Store
	stack *Stack
}

// NewCallEngine creates an engine over the instance's store.
// maxValueStack <= 0 selects MaxValueStack.
func NewCallEngine(store *wasm.Store, maxValueStack int) *CallEngine {
	return &CallEngine{store: store, stack: NewStack(maxValueStack)}
}

// Invoke runs the exported function name with args and returns its results.
// Errors are traps: after a trap the instance must not be reused except to
// be discarded.
func (ce *CallEngine) Invoke(name string, args []api.Value) ([]api.Value, error) {
	export, err := ce.store.Export(name)
	if err != nil {
		return nil, err
	}
	fn, err := ce.store.Function(export.Index)
	if err != nil {
		return nil, err
	}

	if len(args) != fn.ParamCount() {
		return nil, fmt.Errorf("%q expects %d arguments, have %d", name, fn.ParamCount(), len(args))
	}
	for i, arg := range args {
		if want := fn.Signature.Params[i]; arg.Type() != want {
			return nil, fmt.Errorf("%q argument %d must be %s, have %s", name, i, want, arg.Type())
		}
	}

	for _, arg := range args {
		if err := ce.stack.PushValue(arg); err != nil {
			return nil, err
		}
	}

	if err := ce.invoke(fn); err != nil {
		return nil, err
	}

	results := make([]api.Value, fn.ResultCount())
	for i := fn.ResultCount() - 1; i >= 0; i-- {
		v, err := ce.stack.PopValue()
		if err != nil {
			return nil, wasmruntime.ErrReturnValueNotFound
		}
		results[i] = v
	}
	return results, nil
}

// invoke runs fn to completion in a fresh frame, restoring the caller's
// frame afterwards. Traps propagate without restoring: the engine is left
// in a bounded but unspecified state, consistent with single-shot use.
func (ce *CallEngine) invoke(fn *wasm.Function) error {
	prev, err := ce.pushFrame(fn)
	if err != nil {
		return err
	}
	if err := ce.untilCompletion(); err != nil {
		return err
	}
	ce.stack.Restore(prev)
	return nil
}

// pushFrame builds the frame for fn: parameters are popped off the value
// stack in reverse declared order so locals[0] holds the first parameter,
// then declared locals are appended zero-initialized.
func (ce *CallEngine) pushFrame(fn *wasm.Function) (CallFrame, error) {
	locals := make([]api.Value, fn.ParamCount(), fn.ParamCount()+len(fn.Locals))
	for i := fn.ParamCount() - 1; i >= 0; i-- {
		v, err := ce.stack.PopValue()
		if err != nil {
			return CallFrame{}, err
		}
		locals[i] = v
	}
	for _, vt := range fn.Locals {
		switch vt {
		case api.ValueTypeI32:
			locals = append(locals, api.I32(0))
		default:
			locals = append(locals, api.I64(0))
		}
	}

	frame := CallFrame{
		ip:     -1,
		sp:     ce.stack.Len(),
		body:   fn.Body,
		arity:  fn.ResultCount(),
		locals: locals,
	}
	return ce.stack.ReplaceFrame(frame), nil
}

func (ce *CallEngine) untilCompletion() error {
	for {
		st, err := ce.next()
		if err != nil {
			return err
		}
		if st == statusReturning {
			return nil
		}
	}
}

// next executes a single instruction of the current frame.
func (ce *CallEngine) next() (status, error) {
	frame := &ce.stack.frame
	frame.ip++
	if frame.ip >= len(frame.body) {
		// Bodies are end-terminated by the decoder; running past the end is
		// a lowering bug, not a guest failure.
		panic(fmt.Sprintf("BUG: instruction pointer %d out of range [0,%d)", frame.ip, len(frame.body)))
	}
	inst := frame.body[frame.ip]

	switch inst.Op {
	case wasm.OpEnd:
		return statusReturning, nil

	case wasm.OpNop:

	case wasm.OpDrop:
		if _, err := ce.stack.PopValue(); err != nil {
			return 0, err
		}

	case wasm.OpCall:
		fn, err := ce.store.Function(inst.Index)
		if err != nil {
			return 0, err
		}
		if err := ce.invoke(fn); err != nil {
			return 0, err
		}

	case wasm.OpLocalGet:
		if err := ce.stack.PushValue(frame.locals[inst.Index]); err != nil {
			return 0, err
		}

	case wasm.OpLocalSet:
		v, err := ce.stack.PopValue()
		if err != nil {
			return 0, err
		}
		frame.locals[inst.Index] = v

	case wasm.OpLocalTee:
		v, err := ce.stack.PeekValue()
		if err != nil {
			return 0, err
		}
		frame.locals[inst.Index] = v

	case wasm.OpConstI32:
		if err := ce.stack.PushI32(int32(inst.Const)); err != nil {
			return 0, err
		}

	case wasm.OpConstI64:
		if err := ce.stack.PushI64(inst.Const); err != nil {
			return 0, err
		}

	case wasm.OpEqzI32:
		if err := ce.unaryTestI32(func(v int32) bool { return v == 0 }); err != nil {
			return 0, err
		}
	case wasm.OpEqI32:
		if err := ce.testI32(func(l, r int32) bool { return l == r }); err != nil {
			return 0, err
		}
	case wasm.OpNeI32:
		if err := ce.testI32(func(l, r int32) bool { return l != r }); err != nil {
			return 0, err
		}
	case wasm.OpLtSI32:
		if err := ce.testI32(func(l, r int32) bool { return l < r }); err != nil {
			return 0, err
		}
	case wasm.OpLtUI32:
		if err := ce.testI32(func(l, r int32) bool { return uint32(l) < uint32(r) }); err != nil {
			return 0, err
		}
	case wasm.OpGtSI32:
		if err := ce.testI32(func(l, r int32) bool { return l > r }); err != nil {
			return 0, err
		}
	case wasm.OpGtUI32:
		if err := ce.testI32(func(l, r int32) bool { return uint32(l) > uint32(r) }); err != nil {
			return 0, err
		}
	case wasm.OpLeSI32:
		if err := ce.testI32(func(l, r int32) bool { return l <= r }); err != nil {
			return 0, err
		}
	case wasm.OpLeUI32:
		if err := ce.testI32(func(l, r int32) bool { return uint32(l) <= uint32(r) }); err != nil {
			return 0, err
		}
	case wasm.OpGeSI32:
		if err := ce.testI32(func(l, r int32) bool { return l >= r }); err != nil {
			return 0, err
		}
	case wasm.OpGeUI32:
		if err := ce.testI32(func(l, r int32) bool { return uint32(l) >= uint32(r) }); err != nil {
			return 0, err
		}

	case wasm.OpEqzI64:
		if err := ce.unaryTestI64(func(v int64) bool { return v == 0 }); err != nil {
			return 0, err
		}
	case wasm.OpEqI64:
		if err := ce.testI64(func(l, r int64) bool { return l == r }); err != nil {
			return 0, err
		}
	case wasm.OpNeI64:
		if err := ce.testI64(func(l, r int64) bool { return l != r }); err != nil {
			return 0, err
		}
	case wasm.OpLtSI64:
		if err := ce.testI64(func(l, r int64) bool { return l < r }); err != nil {
			return 0, err
		}
	case wasm.OpLtUI64:
		if err := ce.testI64(func(l, r int64) bool { return uint64(l) < uint64(r) }); err != nil {
			return 0, err
		}
	case wasm.OpGtSI64:
		if err := ce.testI64(func(l, r int64) bool { return l > r }); err != nil {
			return 0, err
		}
	case wasm.OpGtUI64:
		if err := ce.testI64(func(l, r int64) bool { return uint64(l) > uint64(r) }); err != nil {
			return 0, err
		}
	case wasm.OpLeSI64:
		if err := ce.testI64(func(l, r int64) bool { return l <= r }); err != nil {
			return 0, err
		}
	case wasm.OpLeUI64:
		if err := ce.testI64(func(l, r int64) bool { return uint64(l) <= uint64(r) }); err != nil {
			return 0, err
		}
	case wasm.OpGeSI64:
		if err := ce.testI64(func(l, r int64) bool { return l >= r }); err != nil {
			return 0, err
		}
	case wasm.OpGeUI64:
		if err := ce.testI64(func(l, r int64) bool { return uint64(l) >= uint64(r) }); err != nil {
			return 0, err
		}

	case wasm.OpClzI32:
		if err := ce.unaryI32(func(v int32) int32 { return int32(bits.LeadingZeros32(uint32(v))) }); err != nil {
			return 0, err
		}
	case wasm.OpCtzI32:
		if err := ce.unaryI32(func(v int32) int32 { return int32(bits.TrailingZeros32(uint32(v))) }); err != nil {
			return 0, err
		}
	case wasm.OpPopcntI32:
		if err := ce.unaryI32(func(v int32) int32 { return int32(bits.OnesCount32(uint32(v))) }); err != nil {
			return 0, err
		}
	case wasm.OpAddI32:
		if err := ce.binaryI32(func(l, r int32) int32 { return l + r }); err != nil {
			return 0, err
		}
	case wasm.OpSubI32:
		if err := ce.binaryI32(func(l, r int32) int32 { return l - r }); err != nil {
			return 0, err
		}
	case wasm.OpMulI32:
		if err := ce.binaryI32(func(l, r int32) int32 { return l * r }); err != nil {
			return 0, err
		}
	case wasm.OpDivSI32:
		if err := ce.binaryTrapI32(divS32); err != nil {
			return 0, err
		}
	case wasm.OpDivUI32:
		if err := ce.binaryTrapI32(divU32); err != nil {
			return 0, err
		}
	case wasm.OpRemSI32:
		if err := ce.binaryTrapI32(remS32); err != nil {
			return 0, err
		}
	case wasm.OpRemUI32:
		if err := ce.binaryTrapI32(remU32); err != nil {
			return 0, err
		}
	case wasm.OpAndI32:
		if err := ce.binaryI32(func(l, r int32) int32 { return l & r }); err != nil {
			return 0, err
		}
	case wasm.OpOrI32:
		if err := ce.binaryI32(func(l, r int32) int32 { return l | r }); err != nil {
			return 0, err
		}
	case wasm.OpXorI32:
		if err := ce.binaryI32(func(l, r int32) int32 { return l ^ r }); err != nil {
			return 0, err
		}
	case wasm.OpShlI32:
		if err := ce.binaryI32(func(l, r int32) int32 { return l << (uint32(r) & 31) }); err != nil {
			return 0, err
		}
	case wasm.OpShrSI32:
		if err := ce.binaryI32(func(l, r int32) int32 { return l >> (uint32(r) & 31) }); err != nil {
			return 0, err
		}
	case wasm.OpShrUI32:
		if err := ce.binaryI32(func(l, r int32) int32 { return int32(uint32(l) >> (uint32(r) & 31)) }); err != nil {
			return 0, err
		}
	case wasm.OpRotlI32:
		if err := ce.binaryI32(func(l, r int32) int32 {
			return int32(bits.RotateLeft32(uint32(l), int(uint32(r)&31)))
		}); err != nil {
			return 0, err
		}
	case wasm.OpRotrI32:
		if err := ce.binaryI32(func(l, r int32) int32 {
			return int32(bits.RotateLeft32(uint32(l), -int(uint32(r)&31)))
		}); err != nil {
			return 0, err
		}

	case wasm.OpClzI64:
		if err := ce.unaryI64(func(v int64) int64 { return int64(bits.LeadingZeros64(uint64(v))) }); err != nil {
			return 0, err
		}
	case wasm.OpCtzI64:
		if err := ce.unaryI64(func(v int64) int64 { return int64(bits.TrailingZeros64(uint64(v))) }); err != nil {
			return 0, err
		}
	case wasm.OpPopcntI64:
		if err := ce.unaryI64(func(v int64) int64 { return int64(bits.OnesCount64(uint64(v))) }); err != nil {
			return 0, err
		}
	case wasm.OpAddI64:
		if err := ce.binaryI64(func(l, r int64) int64 { return l + r }); err != nil {
			return 0, err
		}
	case wasm.OpSubI64:
		if err := ce.binaryI64(func(l, r int64) int64 { return l - r }); err != nil {
			return 0, err
		}
	case wasm.OpMulI64:
		if err := ce.binaryI64(func(l, r int64) int64 { return l * r }); err != nil {
			return 0, err
		}
	case wasm.OpDivSI64:
		if err := ce.binaryTrapI64(divS64); err != nil {
			return 0, err
		}
	case wasm.OpDivUI64:
		if err := ce.binaryTrapI64(divU64); err != nil {
			return 0, err
		}
	case wasm.OpRemSI64:
		if err := ce.binaryTrapI64(remS64); err != nil {
			return 0, err
		}
	case wasm.OpRemUI64:
		if err := ce.binaryTrapI64(remU64); err != nil {
			return 0, err
		}
	case wasm.OpAndI64:
		if err := ce.binaryI64(func(l, r int64) int64 { return l & r }); err != nil {
			return 0, err
		}
	case wasm.OpOrI64:
		if err := ce.binaryI64(func(l, r int64) int64 { return l | r }); err != nil {
			return 0, err
		}
	case wasm.OpXorI64:
		if err := ce.binaryI64(func(l, r int64) int64 { return l ^ r }); err != nil {
			return 0, err
		}
	case wasm.OpShlI64:
		if err := ce.binaryI64(func(l, r int64) int64 { return l << (uint64(r) & 63) }); err != nil {
			return 0, err
		}
	case wasm.OpShrSI64:
		if err := ce.binaryI64(func(l, r int64) int64 { return l >> (uint64(r) & 63) }); err != nil {
			return 0, err
		}
	case wasm.OpShrUI64:
		if err := ce.binaryI64(func(l, r int64) int64 { return int64(uint64(l) >> (uint64(r) & 63)) }); err != nil {
			return 0, err
		}
	case wasm.OpRotlI64:
		if err := ce.binaryI64(func(l, r int64) int64 {
			return int64(bits.RotateLeft64(uint64(l), int(uint64(r)&63)))
		}); err != nil {
			return 0, err
		}
	case wasm.OpRotrI64:
		if err := ce.binaryI64(func(l, r int64) int64 {
			return int64(bits.RotateLeft64(uint64(l), -int(uint64(r)&63)))
		}); err != nil {
			return 0, err
		}

	case wasm.OpExtend8SI32:
		if err := ce.unaryI32(func(v int32) int32 { return int32(int8(v)) }); err != nil {
			return 0, err
		}
	case wasm.OpExtend16SI32:
		if err := ce.unaryI32(func(v int32) int32 { return int32(int16(v)) }); err != nil {
			return 0, err
		}
	case wasm.OpExtend8SI64:
		if err := ce.unaryI64(func(v int64) int64 { return int64(int8(v)) }); err != nil {
			return 0, err
		}
	case wasm.OpExtend16SI64:
		if err := ce.unaryI64(func(v int64) int64 { return int64(int16(v)) }); err != nil {
			return 0, err
		}
	case wasm.OpExtend32SI64:
		if err := ce.unaryI64(func(v int64) int64 { return int64(int32(v)) }); err != nil {
			return 0, err
		}

	case wasm.OpLoadI32, wasm.OpLoad8SI32, wasm.OpLoad8UI32, wasm.OpLoad16SI32, wasm.OpLoad16UI32,
		wasm.OpLoadI64, wasm.OpLoad8SI64, wasm.OpLoad8UI64, wasm.OpLoad16SI64, wasm.OpLoad16UI64,
		wasm.OpLoad32SI64, wasm.OpLoad32UI64:
		if err := ce.load(inst); err != nil {
			return 0, err
		}

	case wasm.OpStoreI32, wasm.OpStore8I32, wasm.OpStore16I32,
		wasm.OpStoreI64, wasm.OpStore8I64, wasm.OpStore16I64, wasm.OpStore32I64:
		if err := ce.storeOp(inst); err != nil {
			return 0, err
		}

	default:
		// Decoded, lowered, but without execution semantics: floats, block
		// and branch constructs, memory.size/grow.
		return 0, wasmruntime.NotImplemented(inst)
	}

	return statusRunning, nil
}

// effectiveAddress computes addr+offset at 64 bits so large operands cannot
// wrap around the 32-bit address space.
func effectiveAddress(addr int32, offset uint32) (uint32, bool) {
	ea := uint64(uint32(addr)) + uint64(offset)
	if ea > uint64(^uint32(0)) {
		return 0, false
	}
	return uint32(ea), true
}

func (ce *CallEngine) load(inst wasm.Instruction) error {
	addr, err := ce.stack.PopI32()
	if err != nil {
		return err
	}
	mem, err := ce.store.Memory(0)
	if err != nil {
		return err
	}

	at, ok := effectiveAddress(addr, inst.Offset)
	if !ok {
		return wasmruntime.ErrOutOfBoundsMemoryAccess
	}

	switch inst.Op {
	case wasm.OpLoadI32:
		v, ok := mem.ReadUint32Le(at)
		if !ok {
			return wasmruntime.ErrOutOfBoundsMemoryAccess
		}
		return ce.stack.PushI32(int32(v))
	case wasm.OpLoad8SI32:
		v, ok := mem.ReadByte(at)
		if !ok {
			return wasmruntime.ErrOutOfBoundsMemoryAccess
		}
		return ce.stack.PushI32(int32(int8(v)))
	case wasm.OpLoad8UI32:
		v, ok := mem.ReadByte(at)
		if !ok {
			return wasmruntime.ErrOutOfBoundsMemoryAccess
		}
		return ce.stack.PushI32(int32(uint32(v)))
	case wasm.OpLoad16SI32:
		v, ok := mem.ReadUint16Le(at)
		if !ok {
			return wasmruntime.ErrOutOfBoundsMemoryAccess
		}
		return ce.stack.PushI32(int32(int16(v)))
	case wasm.OpLoad16UI32:
		v, ok := mem.ReadUint16Le(at)
		if !ok {
			return wasmruntime.ErrOutOfBoundsMemoryAccess
		}
		return ce.stack.PushI32(int32(uint32(v)))
	case wasm.OpLoadI64:
		v, ok := mem.ReadUint64Le(at)
		if !ok {
			return wasmruntime.ErrOutOfBoundsMemoryAccess
		}
		return ce.stack.PushI64(int64(v))
	case wasm.OpLoad8SI64:
		v, ok := mem.ReadByte(at)
		if !ok {
			return wasmruntime.ErrOutOfBoundsMemoryAccess
		}
		return ce.stack.PushI64(int64(int8(v)))
	case wasm.OpLoad8UI64:
		v, ok := mem.ReadByte(at)
		if !ok {
			return wasmruntime.ErrOutOfBoundsMemoryAccess
		}
		return ce.stack.PushI64(int64(uint64(v)))
	case wasm.OpLoad16SI64:
		v, ok := mem.ReadUint16Le(at)
		if !ok {
			return wasmruntime.ErrOutOfBoundsMemoryAccess
		}
		return ce.stack.PushI64(int64(int16(v)))
	case wasm.OpLoad16UI64:
		v, ok := mem.ReadUint16Le(at)
		if !ok {
			return wasmruntime.ErrOutOfBoundsMemoryAccess
		}
		return ce.stack.PushI64(int64(uint64(v)))
	case wasm.OpLoad32SI64:
		v, ok := mem.ReadUint32Le(at)
		if !ok {
			return wasmruntime.ErrOutOfBoundsMemoryAccess
		}
		return ce.stack.PushI64(int64(int32(v)))
	default: // wasm.OpLoad32UI64
		v, ok := mem.ReadUint32Le(at)
		if !ok {
			return wasmruntime.ErrOutOfBoundsMemoryAccess
		}
		return ce.stack.PushI64(int64(uint64(v)))
	}
}

// storeOp pops the value first, then the address: for `addr ; value ;
// store` the stack holds `... addr value` with value on top.
func (ce *CallEngine) storeOp(inst wasm.Instruction) error {
	var v64 int64
	var err error
	switch inst.Op {
	case wasm.OpStoreI32, wasm.OpStore8I32, wasm.OpStore16I32:
		var v int32
		v, err = ce.stack.PopI32()
		v64 = int64(v)
	default:
		v64, err = ce.stack.PopI64()
	}
	if err != nil {
		return err
	}

	addr, err := ce.stack.PopI32()
	if err != nil {
		return err
	}
	mem, err := ce.store.Memory(0)
	if err != nil {
		return err
	}

	at, ok := effectiveAddress(addr, inst.Offset)
	if !ok {
		return wasmruntime.ErrOutOfBoundsMemoryAccess
	}

	switch inst.Op {
	case wasm.OpStoreI32:
		ok = mem.WriteUint32Le(at, uint32(v64))
	case wasm.OpStore8I32, wasm.OpStore8I64:
		ok = mem.WriteByte(at, byte(v64))
	case wasm.OpStore16I32, wasm.OpStore16I64:
		ok = mem.WriteUint16Le(at, uint16(v64))
	case wasm.OpStore32I64:
		ok = mem.WriteUint32Le(at, uint32(v64))
	default: // wasm.OpStoreI64
		ok = mem.WriteUint64Le(at, uint64(v64))
	}
	if !ok {
		return wasmruntime.ErrOutOfBoundsMemoryAccess
	}
	return nil
}

func (ce *CallEngine) unaryI32(op func(int32) int32) error {
	v, err := ce.stack.PopI32()
	if err != nil {
		return err
	}
	return ce.stack.PushI32(op(v))
}

func (ce *CallEngine) unaryI64(op func(int64) int64) error {
	v, err := ce.stack.PopI64()
	if err != nil {
		return err
	}
	return ce.stack.PushI64(op(v))
}

func (ce *CallEngine) binaryI32(op func(l, r int32) int32) error {
	r, err := ce.stack.PopI32()
	if err != nil {
		return err
	}
	l, err := ce.stack.PopI32()
	if err != nil {
		return err
	}
	return ce.stack.PushI32(op(l, r))
}

func (ce *CallEngine) binaryI64(op func(l, r int64) int64) error {
	r, err := ce.stack.PopI64()
	if err != nil {
		return err
	}
	l, err := ce.stack.PopI64()
	if err != nil {
		return err
	}
	return ce.stack.PushI64(op(l, r))
}

func (ce *CallEngine) binaryTrapI32(op func(l, r int32) (int32, error)) error {
	r, err := ce.stack.PopI32()
	if err != nil {
		return err
	}
	l, err := ce.stack.PopI32()
	if err != nil {
		return err
	}
	v, err := op(l, r)
	if err != nil {
		return err
	}
	return ce.stack.PushI32(v)
}

func (ce *CallEngine) binaryTrapI64(op func(l, r int64) (int64, error)) error {
	r, err := ce.stack.PopI64()
	if err != nil {
		return err
	}
	l, err := ce.stack.PopI64()
	if err != nil {
		return err
	}
	v, err := op(l, r)
	if err != nil {
		return err
	}
	return ce.stack.PushI64(v)
}

func boolToI32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func (ce *CallEngine) unaryTestI32(op func(int32) bool) error {
	v, err := ce.stack.PopI32()
	if err != nil {
		return err
	}
	return ce.stack.PushI32(boolToI32(op(v)))
}

func (ce *CallEngine) unaryTestI64(op func(int64) bool) error {
	v, err := ce.stack.PopI64()
	if err != nil {
		return err
	}
	return ce.stack.PushI32(boolToI32(op(v)))
}

func (ce *CallEngine) testI32(op func(l, r int32) bool) error {
	r, err := ce.stack.PopI32()
	if err != nil {
		return err
	}
	l, err := ce.stack.PopI32()
	if err != nil {
		return err
	}
	return ce.stack.PushI32(boolToI32(op(l, r)))
}

func (ce *CallEngine) testI64(op func(l, r int64) bool) error {
	r, err := ce.stack.PopI64()
	if err != nil {
		return err
	}
	l, err := ce.stack.PopI64()
	if err != nil {
		return err
	}
	return ce.stack.PushI32(boolToI32(op(l, r)))
}
