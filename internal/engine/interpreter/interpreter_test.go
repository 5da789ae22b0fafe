package interpreter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/h41-dev/hal/api"
	"github.com/h41-dev/hal/internal/wasm"
	"github.com/h41-dev/hal/internal/wasmruntime"
)

// i32Sig builds (i32 x params) -> (i32 x results).
func i32Sig(params, results int) *wasm.FunctionSignature {
	sig := &wasm.FunctionSignature{}
	for i := 0; i < params; i++ {
		sig.Params = append(sig.Params, api.ValueTypeI32)
	}
	for i := 0; i < results; i++ {
		sig.Results = append(sig.Results, api.ValueTypeI32)
	}
	return sig
}

func i64Sig(params, results int) *wasm.FunctionSignature {
	sig := &wasm.FunctionSignature{}
	for i := 0; i < params; i++ {
		sig.Params = append(sig.Params, api.ValueTypeI64)
	}
	for i := 0; i < results; i++ {
		sig.Results = append(sig.Results, api.ValueTypeI64)
	}
	return sig
}

// newEngine wires a module with the given functions, exporting each as
// "f<index>", plus one page of memory when withMemory is set.
func newEngine(withMemory bool, fns ...*wasm.Function) *CallEngine {
	m := &wasm.Module{Functions: fns}
	for i := range fns {
		m.Exports = append(m.Exports, &wasm.Export{Name: "f" + string(rune('0'+i)), Index: uint32(i)})
	}
	var memories []*wasm.Memory
	if withMemory {
		memories = []*wasm.Memory{wasm.NewMemory(1, nil)}
	}
	return NewCallEngine(wasm.NewStore(m, memories), 0)
}

func TestInterpreter_BinaryI32(t *testing.T) {
	tests := []struct {
		name string
		op   wasm.Opcode
		l, r int32
		want int32
	}{
		{name: "add", op: wasm.OpAddI32, l: 40, r: 2, want: 42},
		{name: "add wraps", op: wasm.OpAddI32, l: math.MaxInt32, r: 1, want: math.MinInt32},
		{name: "sub", op: wasm.OpSubI32, l: 2, r: 40, want: -38},
		{name: "sub wraps", op: wasm.OpSubI32, l: math.MinInt32, r: 1, want: math.MaxInt32},
		{name: "mul", op: wasm.OpMulI32, l: 6, r: 7, want: 42},
		{name: "mul wraps", op: wasm.OpMulI32, l: math.MaxInt32, r: 2, want: -2},
		{name: "div_s", op: wasm.OpDivSI32, l: -7, r: 2, want: -3},
		{name: "div_u", op: wasm.OpDivUI32, l: -1, r: 2, want: math.MaxInt32},
		{name: "rem_s", op: wasm.OpRemSI32, l: -7, r: 2, want: -1},
		{name: "rem_s min by -1", op: wasm.OpRemSI32, l: math.MinInt32, r: -1, want: 0},
		{name: "rem_u", op: wasm.OpRemUI32, l: -1, r: 10, want: 5},
		{name: "and", op: wasm.OpAndI32, l: 0b1100, r: 0b1010, want: 0b1000},
		{name: "or", op: wasm.OpOrI32, l: 0b1100, r: 0b1010, want: 0b1110},
		{name: "xor", op: wasm.OpXorI32, l: 0b1100, r: 0b1010, want: 0b0110},
		{name: "shl", op: wasm.OpShlI32, l: 1, r: 3, want: 8},
		{name: "shl mod width", op: wasm.OpShlI32, l: 1, r: 35, want: 8},
		{name: "shr_s", op: wasm.OpShrSI32, l: -8, r: 1, want: -4},
		{name: "shr_u", op: wasm.OpShrUI32, l: -8, r: 1, want: 0x7ffffffc},
		{name: "rotl", op: wasm.OpRotlI32, l: int32(-0x80000000), r: 1, want: 1},
		{name: "rotr", op: wasm.OpRotrI32, l: 1, r: 1, want: int32(-0x80000000)},
		{name: "rotr mod width", op: wasm.OpRotrI32, l: 1, r: 33, want: int32(-0x80000000)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ce := newEngine(false, &wasm.Function{
				Signature: i32Sig(2, 1),
				Body: []wasm.Instruction{
					{Op: wasm.OpLocalGet, Index: 0},
					{Op: wasm.OpLocalGet, Index: 1},
					{Op: tc.op},
					{Op: wasm.OpEnd},
				},
			})
			results, err := ce.Invoke("f0", []api.Value{api.I32(tc.l), api.I32(tc.r)})
			require.NoError(t, err)
			require.Equal(t, []api.Value{api.I32(tc.want)}, results)
		})
	}
}

func TestInterpreter_BinaryI64(t *testing.T) {
	tests := []struct {
		name string
		op   wasm.Opcode
		l, r int64
		want int64
	}{
		{name: "add", op: wasm.OpAddI64, l: 1, r: 2, want: 3},
		{name: "add wraps", op: wasm.OpAddI64, l: math.MaxInt64, r: 1, want: math.MinInt64},
		{name: "sub", op: wasm.OpSubI64, l: 1, r: 2, want: -1},
		{name: "mul", op: wasm.OpMulI64, l: 1 << 40, r: 4, want: 1 << 42},
		{name: "div_s", op: wasm.OpDivSI64, l: -9, r: 3, want: -3},
		{name: "div_u", op: wasm.OpDivUI64, l: -1, r: 2, want: math.MaxInt64},
		{name: "rem_s min by -1", op: wasm.OpRemSI64, l: math.MinInt64, r: -1, want: 0},
		{name: "shl", op: wasm.OpShlI64, l: 1, r: 40, want: 1 << 40},
		{name: "shl mod width", op: wasm.OpShlI64, l: 1, r: 67, want: 8},
		{name: "shr_u", op: wasm.OpShrUI64, l: -8, r: 1, want: 0x7ffffffffffffffc},
		{name: "rotl", op: wasm.OpRotlI64, l: math.MinInt64, r: 1, want: 1},
		{name: "rotr", op: wasm.OpRotrI64, l: 1, r: 1, want: math.MinInt64},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ce := newEngine(false, &wasm.Function{
				Signature: i64Sig(2, 1),
				Body: []wasm.Instruction{
					{Op: wasm.OpLocalGet, Index: 0},
					{Op: wasm.OpLocalGet, Index: 1},
					{Op: tc.op},
					{Op: wasm.OpEnd},
				},
			})
			results, err := ce.Invoke("f0", []api.Value{api.I64(tc.l), api.I64(tc.r)})
			require.NoError(t, err)
			require.Equal(t, []api.Value{api.I64(tc.want)}, results)
		})
	}
}

func TestInterpreter_DivisionTraps(t *testing.T) {
	tests := []struct {
		name   string
		op     wasm.Opcode
		l, r   int32
		expErr error
	}{
		{name: "div_s by zero", op: wasm.OpDivSI32, l: 1, r: 0, expErr: wasmruntime.ErrDivisionByZero},
		{name: "div_u by zero", op: wasm.OpDivUI32, l: 1, r: 0, expErr: wasmruntime.ErrDivisionByZero},
		{name: "rem_s by zero", op: wasm.OpRemSI32, l: 1, r: 0, expErr: wasmruntime.ErrDivisionByZero},
		{name: "rem_u by zero", op: wasm.OpRemUI32, l: 1, r: 0, expErr: wasmruntime.ErrDivisionByZero},
		{name: "div_s overflow", op: wasm.OpDivSI32, l: math.MinInt32, r: -1, expErr: wasmruntime.ErrIntegerOverflow},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ce := newEngine(false, &wasm.Function{
				Signature: i32Sig(2, 1),
				Body: []wasm.Instruction{
					{Op: wasm.OpLocalGet, Index: 0},
					{Op: wasm.OpLocalGet, Index: 1},
					{Op: tc.op},
					{Op: wasm.OpEnd},
				},
			})
			_, err := ce.Invoke("f0", []api.Value{api.I32(tc.l), api.I32(tc.r)})
			require.ErrorIs(t, err, tc.expErr)
		})
	}

	t.Run("i64 div_s overflow", func(t *testing.T) {
		ce := newEngine(false, &wasm.Function{
			Signature: i64Sig(2, 1),
			Body: []wasm.Instruction{
				{Op: wasm.OpLocalGet, Index: 0},
				{Op: wasm.OpLocalGet, Index: 1},
				{Op: wasm.OpDivSI64},
				{Op: wasm.OpEnd},
			},
		})
		_, err := ce.Invoke("f0", []api.Value{api.I64(math.MinInt64), api.I64(-1)})
		require.ErrorIs(t, err, wasmruntime.ErrIntegerOverflow)
	})
}

func TestInterpreter_UnaryI32(t *testing.T) {
	tests := []struct {
		name  string
		op    wasm.Opcode
		input int32
		want  int32
	}{
		{name: "clz", op: wasm.OpClzI32, input: 1, want: 31},
		{name: "clz zero", op: wasm.OpClzI32, input: 0, want: 32},
		{name: "ctz", op: wasm.OpCtzI32, input: 8, want: 3},
		{name: "ctz zero", op: wasm.OpCtzI32, input: 0, want: 32},
		{name: "popcnt", op: wasm.OpPopcntI32, input: -1, want: 32},
		{name: "popcnt sparse", op: wasm.OpPopcntI32, input: 0b1011, want: 3},
		{name: "extend8_s", op: wasm.OpExtend8SI32, input: 0x80, want: -128},
		{name: "extend8_s positive", op: wasm.OpExtend8SI32, input: 0x17f, want: 127},
		{name: "extend16_s", op: wasm.OpExtend16SI32, input: 0x8000, want: -32768},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ce := newEngine(false, &wasm.Function{
				Signature: i32Sig(1, 1),
				Body: []wasm.Instruction{
					{Op: wasm.OpLocalGet, Index: 0},
					{Op: tc.op},
					{Op: wasm.OpEnd},
				},
			})
			results, err := ce.Invoke("f0", []api.Value{api.I32(tc.input)})
			require.NoError(t, err)
			require.Equal(t, []api.Value{api.I32(tc.want)}, results)
		})
	}
}

func TestInterpreter_UnaryI64(t *testing.T) {
	tests := []struct {
		name  string
		op    wasm.Opcode
		input int64
		want  int64
	}{
		{name: "clz", op: wasm.OpClzI64, input: 1, want: 63},
		{name: "ctz zero", op: wasm.OpCtzI64, input: 0, want: 64},
		{name: "popcnt", op: wasm.OpPopcntI64, input: -1, want: 64},
		{name: "extend8_s", op: wasm.OpExtend8SI64, input: 0x80, want: -128},
		{name: "extend16_s", op: wasm.OpExtend16SI64, input: 0x8000, want: -32768},
		{name: "extend32_s", op: wasm.OpExtend32SI64, input: 0x80000000, want: -2147483648},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ce := newEngine(false, &wasm.Function{
				Signature: i64Sig(1, 1),
				Body: []wasm.Instruction{
					{Op: wasm.OpLocalGet, Index: 0},
					{Op: tc.op},
					{Op: wasm.OpEnd},
				},
			})
			results, err := ce.Invoke("f0", []api.Value{api.I64(tc.input)})
			require.NoError(t, err)
			require.Equal(t, []api.Value{api.I64(tc.want)}, results)
		})
	}
}

func TestInterpreter_ComparisonsI32(t *testing.T) {
	tests := []struct {
		name string
		op   wasm.Opcode
		l, r int32
		want int32
	}{
		{name: "eq true", op: wasm.OpEqI32, l: 3, r: 3, want: 1},
		{name: "eq false", op: wasm.OpEqI32, l: 3, r: 4, want: 0},
		{name: "ne", op: wasm.OpNeI32, l: 3, r: 4, want: 1},
		{name: "lt_s", op: wasm.OpLtSI32, l: -4, r: 1, want: 1},
		{name: "lt_s false", op: wasm.OpLtSI32, l: 4, r: -1, want: 0},
		{name: "lt_u", op: wasm.OpLtUI32, l: 4, r: -1, want: 1},
		{name: "gt_s", op: wasm.OpGtSI32, l: 1, r: -4, want: 1},
		{name: "gt_u", op: wasm.OpGtUI32, l: -4, r: 1, want: 1},
		{name: "le_s", op: wasm.OpLeSI32, l: 3, r: 3, want: 1},
		{name: "le_u", op: wasm.OpLeUI32, l: 1, r: -1, want: 1},
		{name: "ge_s", op: wasm.OpGeSI32, l: 3, r: 3, want: 1},
		{name: "ge_u", op: wasm.OpGeUI32, l: -1, r: 1, want: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ce := newEngine(false, &wasm.Function{
				Signature: i32Sig(2, 1),
				Body: []wasm.Instruction{
					{Op: wasm.OpLocalGet, Index: 0},
					{Op: wasm.OpLocalGet, Index: 1},
					{Op: tc.op},
					{Op: wasm.OpEnd},
				},
			})
			results, err := ce.Invoke("f0", []api.Value{api.I32(tc.l), api.I32(tc.r)})
			require.NoError(t, err)
			require.Equal(t, []api.Value{api.I32(tc.want)}, results)
		})
	}
}

func TestInterpreter_ComparisonsI64ProduceI32(t *testing.T) {
	sig := &wasm.FunctionSignature{
		Params:  []api.ValueType{api.ValueTypeI64, api.ValueTypeI64},
		Results: []api.ValueType{api.ValueTypeI32},
	}
	tests := []struct {
		name string
		op   wasm.Opcode
		l, r int64
		want int32
	}{
		{name: "eq", op: wasm.OpEqI64, l: 3, r: 3, want: 1},
		{name: "ne", op: wasm.OpNeI64, l: 3, r: 3, want: 0},
		{name: "lt_s", op: wasm.OpLtSI64, l: -4, r: 1, want: 1},
		{name: "lt_u", op: wasm.OpLtUI64, l: 4, r: -1, want: 1},
		{name: "ge_u", op: wasm.OpGeUI64, l: -1, r: 1, want: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ce := newEngine(false, &wasm.Function{
				Signature: sig,
				Body: []wasm.Instruction{
					{Op: wasm.OpLocalGet, Index: 0},
					{Op: wasm.OpLocalGet, Index: 1},
					{Op: tc.op},
					{Op: wasm.OpEnd},
				},
			})
			results, err := ce.Invoke("f0", []api.Value{api.I64(tc.l), api.I64(tc.r)})
			require.NoError(t, err)
			require.Equal(t, []api.Value{api.I32(tc.want)}, results)
		})
	}
}

func TestInterpreter_Eqz(t *testing.T) {
	ce := newEngine(false, &wasm.Function{
		Signature: i32Sig(1, 1),
		Body: []wasm.Instruction{
			{Op: wasm.OpLocalGet, Index: 0},
			{Op: wasm.OpEqzI32},
			{Op: wasm.OpEnd},
		},
	})
	results, err := ce.Invoke("f0", []api.Value{api.I32(0)})
	require.NoError(t, err)
	require.Equal(t, []api.Value{api.I32(1)}, results)

	ce = newEngine(false, &wasm.Function{
		Signature: i32Sig(1, 1),
		Body: []wasm.Instruction{
			{Op: wasm.OpLocalGet, Index: 0},
			{Op: wasm.OpEqzI32},
			{Op: wasm.OpEnd},
		},
	})
	results, err = ce.Invoke("f0", []api.Value{api.I32(7)})
	require.NoError(t, err)
	require.Equal(t, []api.Value{api.I32(0)}, results)
}

func TestInterpreter_LocalsAndConsts(t *testing.T) {
	// Declared locals are zero-initialized after the parameters and are
	// independently assignable.
	ce := newEngine(false, &wasm.Function{
		Signature: i32Sig(1, 1),
		Locals:    []api.ValueType{api.ValueTypeI32},
		Body: []wasm.Instruction{
			{Op: wasm.OpConstI32, Const: 40},
			{Op: wasm.OpLocalSet, Index: 1},
			{Op: wasm.OpLocalGet, Index: 0},
			{Op: wasm.OpLocalGet, Index: 1},
			{Op: wasm.OpAddI32},
			{Op: wasm.OpEnd},
		},
	})
	results, err := ce.Invoke("f0", []api.Value{api.I32(2)})
	require.NoError(t, err)
	require.Equal(t, []api.Value{api.I32(42)}, results)
}

func TestInterpreter_LocalTee(t *testing.T) {
	ce := newEngine(false, &wasm.Function{
		Signature: i32Sig(0, 1),
		Locals:    []api.ValueType{api.ValueTypeI32},
		Body: []wasm.Instruction{
			{Op: wasm.OpConstI32, Const: 21},
			{Op: wasm.OpLocalTee, Index: 0},
			{Op: wasm.OpLocalGet, Index: 0},
			{Op: wasm.OpAddI32},
			{Op: wasm.OpEnd},
		},
	})
	results, err := ce.Invoke("f0", nil)
	require.NoError(t, err)
	require.Equal(t, []api.Value{api.I32(42)}, results)
}

func TestInterpreter_NestedCall(t *testing.T) {
	// f0 computes f1(x) + x; f1 doubles. Frame restoration must leave the
	// caller's locals and operands intact across the call.
	caller := &wasm.Function{
		Signature: i32Sig(1, 1),
		Body: []wasm.Instruction{
			{Op: wasm.OpLocalGet, Index: 0},
			{Op: wasm.OpLocalGet, Index: 0},
			{Op: wasm.OpCall, Index: 1},
			{Op: wasm.OpAddI32},
			{Op: wasm.OpEnd},
		},
	}
	double := &wasm.Function{
		Signature: i32Sig(1, 1),
		Body: []wasm.Instruction{
			{Op: wasm.OpLocalGet, Index: 0},
			{Op: wasm.OpLocalGet, Index: 0},
			{Op: wasm.OpAddI32},
			{Op: wasm.OpEnd},
		},
	}
	ce := newEngine(false, caller, double)

	results, err := ce.Invoke("f0", []api.Value{api.I32(14)})
	require.NoError(t, err)
	require.Equal(t, []api.Value{api.I32(42)}, results)
	// Nothing but the (already popped) result was left behind.
	require.Zero(t, ce.stack.Len())
}

func TestInterpreter_CallUnknownFunction(t *testing.T) {
	ce := newEngine(false, &wasm.Function{
		Signature: i32Sig(0, 0),
		Body: []wasm.Instruction{
			{Op: wasm.OpCall, Index: 9},
			{Op: wasm.OpEnd},
		},
	})
	_, err := ce.Invoke("f0", nil)
	require.ErrorIs(t, err, wasmruntime.ErrFunctionNotFound)
}

func TestInterpreter_TrapPropagatesThroughCalls(t *testing.T) {
	outer := &wasm.Function{
		Signature: i32Sig(0, 1),
		Body: []wasm.Instruction{
			{Op: wasm.OpCall, Index: 1},
			{Op: wasm.OpEnd},
		},
	}
	divByZero := &wasm.Function{
		Signature: i32Sig(0, 1),
		Body: []wasm.Instruction{
			{Op: wasm.OpConstI32, Const: 1},
			{Op: wasm.OpConstI32, Const: 0},
			{Op: wasm.OpDivSI32},
			{Op: wasm.OpEnd},
		},
	}
	ce := newEngine(false, outer, divByZero)

	_, err := ce.Invoke("f0", nil)
	require.ErrorIs(t, err, wasmruntime.ErrDivisionByZero)
}

func TestInterpreter_Store(t *testing.T) {
	// addr then value: the value is on top and is popped first.
	ce := newEngine(true, &wasm.Function{
		Signature: i32Sig(0, 0),
		Body: []wasm.Instruction{
			{Op: wasm.OpConstI32, Const: 0},  // addr
			{Op: wasm.OpConstI32, Const: 42}, // value
			{Op: wasm.OpStoreI32},
			{Op: wasm.OpEnd},
		},
	})
	_, err := ce.Invoke("f0", nil)
	require.NoError(t, err)

	mem, err := ce.store.Memory(0)
	require.NoError(t, err)
	v, ok := mem.ReadUint32Le(0)
	require.True(t, ok)
	require.Equal(t, uint32(42), v)
	// If the operands were popped in the wrong order this offset would hold
	// the address instead.
	b, ok := mem.ReadByte(42)
	require.True(t, ok)
	require.Zero(t, b)
}

func TestInterpreter_StoreWithOffset(t *testing.T) {
	ce := newEngine(true, &wasm.Function{
		Signature: i32Sig(0, 0),
		Body: []wasm.Instruction{
			{Op: wasm.OpConstI32, Const: 8},
			{Op: wasm.OpConstI64, Const: -1},
			{Op: wasm.OpStoreI64, Offset: 8},
			{Op: wasm.OpEnd},
		},
	})
	_, err := ce.Invoke("f0", nil)
	require.NoError(t, err)

	mem, _ := ce.store.Memory(0)
	v, ok := mem.ReadUint64Le(16)
	require.True(t, ok)
	require.Equal(t, uint64(0xffffffffffffffff), v)
}

func TestInterpreter_StoreOutOfBounds(t *testing.T) {
	for _, tc := range []struct {
		name   string
		addr   int64
		offset uint32
	}{
		{name: "past the end", addr: wasm.MemoryPageSize - 3},
		{name: "offset past the end", addr: 0, offset: wasm.MemoryPageSize},
		{name: "addr+offset wraps", addr: -4, offset: 8},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ce := newEngine(true, &wasm.Function{
				Signature: i32Sig(0, 0),
				Body: []wasm.Instruction{
					{Op: wasm.OpConstI32, Const: tc.addr},
					{Op: wasm.OpConstI32, Const: 1},
					{Op: wasm.OpStoreI32, Offset: tc.offset},
					{Op: wasm.OpEnd},
				},
			})
			_, err := ce.Invoke("f0", nil)
			require.ErrorIs(t, err, wasmruntime.ErrOutOfBoundsMemoryAccess)
		})
	}
}

func TestInterpreter_StoreWithoutMemory(t *testing.T) {
	ce := newEngine(false, &wasm.Function{
		Signature: i32Sig(0, 0),
		Body: []wasm.Instruction{
			{Op: wasm.OpConstI32, Const: 0},
			{Op: wasm.OpConstI32, Const: 1},
			{Op: wasm.OpStoreI32},
			{Op: wasm.OpEnd},
		},
	})
	_, err := ce.Invoke("f0", nil)
	require.ErrorIs(t, err, wasmruntime.ErrMemoryNotFound)
}

func TestInterpreter_LoadRoundTrip(t *testing.T) {
	// i64.store at 8, then i32.load8_s of its lowest byte.
	ce := newEngine(true, &wasm.Function{
		Signature: i32Sig(0, 1),
		Body: []wasm.Instruction{
			{Op: wasm.OpConstI32, Const: 8},
			{Op: wasm.OpConstI64, Const: -1},
			{Op: wasm.OpStoreI64},
			{Op: wasm.OpConstI32, Const: 8},
			{Op: wasm.OpLoad8SI32},
			{Op: wasm.OpEnd},
		},
	})
	results, err := ce.Invoke("f0", nil)
	require.NoError(t, err)
	require.Equal(t, []api.Value{api.I32(-1)}, results)
}

func TestInterpreter_LoadOutOfBounds(t *testing.T) {
	ce := newEngine(true, &wasm.Function{
		Signature: i32Sig(0, 1),
		Body: []wasm.Instruction{
			{Op: wasm.OpConstI32, Const: wasm.MemoryPageSize},
			{Op: wasm.OpLoadI32},
			{Op: wasm.OpEnd},
		},
	})
	_, err := ce.Invoke("f0", nil)
	require.ErrorIs(t, err, wasmruntime.ErrOutOfBoundsMemoryAccess)
}

func TestInterpreter_NotImplemented(t *testing.T) {
	for _, op := range []wasm.Opcode{
		wasm.OpAddF32, wasm.OpAddF64, wasm.OpConstF32, wasm.OpConstF64,
		wasm.OpBlock, wasm.OpLoop, wasm.OpBr, wasm.OpBrIf, wasm.OpReturn,
		wasm.OpMemorySize, wasm.OpMemoryGrow,
	} {
		t.Run(op.String(), func(t *testing.T) {
			ce := newEngine(true, &wasm.Function{
				Signature: i32Sig(0, 0),
				Body: []wasm.Instruction{
					{Op: op},
					{Op: wasm.OpEnd},
				},
			})
			_, err := ce.Invoke("f0", nil)
			require.ErrorIs(t, err, wasmruntime.ErrNotImplemented)
		})
	}
}

func TestInterpreter_NopAndDrop(t *testing.T) {
	ce := newEngine(false, &wasm.Function{
		Signature: i32Sig(0, 1),
		Body: []wasm.Instruction{
			{Op: wasm.OpNop},
			{Op: wasm.OpConstI32, Const: 1},
			{Op: wasm.OpConstI32, Const: 42},
			{Op: wasm.OpNop},
			{Op: wasm.OpDrop},
			{Op: wasm.OpEnd},
		},
	})
	results, err := ce.Invoke("f0", nil)
	require.NoError(t, err)
	require.Equal(t, []api.Value{api.I32(1)}, results)
}

func TestInterpreter_InvokeErrors(t *testing.T) {
	fn := func() *wasm.Function {
		return &wasm.Function{
			Signature: i32Sig(1, 1),
			Body: []wasm.Instruction{
				{Op: wasm.OpLocalGet, Index: 0},
				{Op: wasm.OpEnd},
			},
		}
	}

	t.Run("export not found", func(t *testing.T) {
		ce := newEngine(false, fn())
		_, err := ce.Invoke("ghost", nil)
		require.ErrorIs(t, err, wasmruntime.ErrExportedFunctionNotFound)
	})

	t.Run("argument count mismatch", func(t *testing.T) {
		ce := newEngine(false, fn())
		_, err := ce.Invoke("f0", nil)
		require.EqualError(t, err, `"f0" expects 1 arguments, have 0`)
	})

	t.Run("argument type mismatch", func(t *testing.T) {
		ce := newEngine(false, fn())
		_, err := ce.Invoke("f0", []api.Value{api.I64(1)})
		require.EqualError(t, err, `"f0" argument 0 must be i32, have i64`)
	})
}

func TestInterpreter_MissingReturnValue(t *testing.T) {
	// Declared to return a value but leaves the stack empty.
	ce := newEngine(false, &wasm.Function{
		Signature: i32Sig(0, 1),
		Body:      []wasm.Instruction{{Op: wasm.OpEnd}},
	})
	_, err := ce.Invoke("f0", nil)
	require.ErrorIs(t, err, wasmruntime.ErrReturnValueNotFound)
}

func TestInterpreter_StackOverflowTrap(t *testing.T) {
	// A function that pushes more constants than the (tiny) stack allows.
	body := make([]wasm.Instruction, 0, 6)
	for i := 0; i < 5; i++ {
		body = append(body, wasm.Instruction{Op: wasm.OpConstI32, Const: int64(i)})
	}
	body = append(body, wasm.Instruction{Op: wasm.OpEnd})

	m := &wasm.Module{
		Functions: []*wasm.Function{{Signature: i32Sig(0, 0), Body: body}},
		Exports:   []*wasm.Export{{Name: "f0", Index: 0}},
	}
	ce := NewCallEngine(wasm.NewStore(m, nil), 4)

	_, err := ce.Invoke("f0", nil)
	require.ErrorIs(t, err, wasmruntime.ErrStackOverflow)
}
