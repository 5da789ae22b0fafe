package compiler

import (
	"github.com/h41-dev/hal/internal/wasm"
	"github.com/h41-dev/hal/internal/wasm/binary"
)

// opcodeMap lowers operand-free opcodes one to one.
var opcodeMap = map[binary.Opcode]wasm.Opcode{
	binary.OpcodeNop:    wasm.OpNop,
	binary.OpcodeEnd:    wasm.OpEnd,
	binary.OpcodeReturn: wasm.OpReturn,
	binary.OpcodeDrop:   wasm.OpDrop,

	binary.OpcodeI32Eqz: wasm.OpEqzI32,
	binary.OpcodeI32Eq:  wasm.OpEqI32,
	binary.OpcodeI32Ne:  wasm.OpNeI32,
	binary.OpcodeI32LtS: wasm.OpLtSI32,
	binary.OpcodeI32LtU: wasm.OpLtUI32,
	binary.OpcodeI32GtS: wasm.OpGtSI32,
	binary.OpcodeI32GtU: wasm.OpGtUI32,
	binary.OpcodeI32LeS: wasm.OpLeSI32,
	binary.OpcodeI32LeU: wasm.OpLeUI32,
	binary.OpcodeI32GeS: wasm.OpGeSI32,
	binary.OpcodeI32GeU: wasm.OpGeUI32,

	binary.OpcodeI64Eqz: wasm.OpEqzI64,
	binary.OpcodeI64Eq:  wasm.OpEqI64,
	binary.OpcodeI64Ne:  wasm.OpNeI64,
	binary.OpcodeI64LtS: wasm.OpLtSI64,
	binary.OpcodeI64LtU: wasm.OpLtUI64,
	binary.OpcodeI64GtS: wasm.OpGtSI64,
	binary.OpcodeI64GtU: wasm.OpGtUI64,
	binary.OpcodeI64LeS: wasm.OpLeSI64,
	binary.OpcodeI64LeU: wasm.OpLeUI64,
	binary.OpcodeI64GeS: wasm.OpGeSI64,
	binary.OpcodeI64GeU: wasm.OpGeUI64,

	binary.OpcodeI32Clz:    wasm.OpClzI32,
	binary.OpcodeI32Ctz:    wasm.OpCtzI32,
	binary.OpcodeI32Popcnt: wasm.OpPopcntI32,
	binary.OpcodeI32Add:    wasm.OpAddI32,
	binary.OpcodeI32Sub:    wasm.OpSubI32,
	binary.OpcodeI32Mul:    wasm.OpMulI32,
	binary.OpcodeI32DivS:   wasm.OpDivSI32,
	binary.OpcodeI32DivU:   wasm.OpDivUI32,
	binary.OpcodeI32RemS:   wasm.OpRemSI32,
	binary.OpcodeI32RemU:   wasm.OpRemUI32,
	binary.OpcodeI32And:    wasm.OpAndI32,
	binary.OpcodeI32Or:     wasm.OpOrI32,
	binary.OpcodeI32Xor:    wasm.OpXorI32,
	binary.OpcodeI32Shl:    wasm.OpShlI32,
	binary.OpcodeI32ShrS:   wasm.OpShrSI32,
	binary.OpcodeI32ShrU:   wasm.OpShrUI32,
	binary.OpcodeI32Rotl:   wasm.OpRotlI32,
	binary.OpcodeI32Rotr:   wasm.OpRotrI32,

	binary.OpcodeI64Clz:    wasm.OpClzI64,
	binary.OpcodeI64Ctz:    wasm.OpCtzI64,
	binary.OpcodeI64Popcnt: wasm.OpPopcntI64,
	binary.OpcodeI64Add:    wasm.OpAddI64,
	binary.OpcodeI64Sub:    wasm.OpSubI64,
	binary.OpcodeI64Mul:    wasm.OpMulI64,
	binary.OpcodeI64DivS:   wasm.OpDivSI64,
	binary.OpcodeI64DivU:   wasm.OpDivUI64,
	binary.OpcodeI64RemS:   wasm.OpRemSI64,
	binary.OpcodeI64RemU:   wasm.OpRemUI64,
	binary.OpcodeI64And:    wasm.OpAndI64,
	binary.OpcodeI64Or:     wasm.OpOrI64,
	binary.OpcodeI64Xor:    wasm.OpXorI64,
	binary.OpcodeI64Shl:    wasm.OpShlI64,
	binary.OpcodeI64ShrS:   wasm.OpShrSI64,
	binary.OpcodeI64ShrU:   wasm.OpShrUI64,
	binary.OpcodeI64Rotl:   wasm.OpRotlI64,
	binary.OpcodeI64Rotr:   wasm.OpRotrI64,

	binary.OpcodeI32Extend8S:  wasm.OpExtend8SI32,
	binary.OpcodeI32Extend16S: wasm.OpExtend16SI32,
	binary.OpcodeI64Extend8S:  wasm.OpExtend8SI64,
	binary.OpcodeI64Extend16S: wasm.OpExtend16SI64,
	binary.OpcodeI64Extend32S: wasm.OpExtend32SI64,

	binary.OpcodeF32Add: wasm.OpAddF32,
	binary.OpcodeF32Sub: wasm.OpSubF32,
	binary.OpcodeF32Mul: wasm.OpMulF32,
	binary.OpcodeF32Div: wasm.OpDivF32,
	binary.OpcodeF64Add: wasm.OpAddF64,
	binary.OpcodeF64Sub: wasm.OpSubF64,
	binary.OpcodeF64Mul: wasm.OpMulF64,
	binary.OpcodeF64Div: wasm.OpDivF64,
}

// memoryOpcodeMap lowers opcodes carrying a memarg.
var memoryOpcodeMap = map[binary.Opcode]wasm.Opcode{
	binary.OpcodeI32Load:    wasm.OpLoadI32,
	binary.OpcodeI64Load:    wasm.OpLoadI64,
	binary.OpcodeI32Load8S:  wasm.OpLoad8SI32,
	binary.OpcodeI32Load8U:  wasm.OpLoad8UI32,
	binary.OpcodeI32Load16S: wasm.OpLoad16SI32,
	binary.OpcodeI32Load16U: wasm.OpLoad16UI32,
	binary.OpcodeI64Load8S:  wasm.OpLoad8SI64,
	binary.OpcodeI64Load8U:  wasm.OpLoad8UI64,
	binary.OpcodeI64Load16S: wasm.OpLoad16SI64,
	binary.OpcodeI64Load16U: wasm.OpLoad16UI64,
	binary.OpcodeI64Load32S: wasm.OpLoad32SI64,
	binary.OpcodeI64Load32U: wasm.OpLoad32UI64,

	binary.OpcodeI32Store:   wasm.OpStoreI32,
	binary.OpcodeI64Store:   wasm.OpStoreI64,
	binary.OpcodeI32Store8:  wasm.OpStore8I32,
	binary.OpcodeI32Store16: wasm.OpStore16I32,
	binary.OpcodeI64Store8:  wasm.OpStore8I64,
	binary.OpcodeI64Store16: wasm.OpStore16I64,
	binary.OpcodeI64Store32: wasm.OpStore32I64,
}

// indexOpcodeMap lowers opcodes carrying a single index operand.
var indexOpcodeMap = map[binary.Opcode]wasm.Opcode{
	binary.OpcodeCall:     wasm.OpCall,
	binary.OpcodeLocalGet: wasm.OpLocalGet,
	binary.OpcodeLocalSet: wasm.OpLocalSet,
	binary.OpcodeLocalTee: wasm.OpLocalTee,
	binary.OpcodeBr:       wasm.OpBr,
	binary.OpcodeBrIf:     wasm.OpBrIf,
}

func lowerInstruction(in binary.Instruction) (wasm.Instruction, error) {
	if op, ok := opcodeMap[in.Opcode]; ok {
		return wasm.Instruction{Op: op}, nil
	}
	if op, ok := indexOpcodeMap[in.Opcode]; ok {
		return wasm.Instruction{Op: op, Index: in.Index}, nil
	}
	if op, ok := memoryOpcodeMap[in.Opcode]; ok {
		return wasm.Instruction{Op: op, Offset: in.Offset, Flags: in.Align}, nil
	}

	switch in.Opcode {
	case binary.OpcodeI32Const:
		return wasm.Instruction{Op: wasm.OpConstI32, Const: in.Const}, nil
	case binary.OpcodeI64Const:
		return wasm.Instruction{Op: wasm.OpConstI64, Const: in.Const}, nil
	case binary.OpcodeF32Const:
		return wasm.Instruction{Op: wasm.OpConstF32, Const: in.Const}, nil
	case binary.OpcodeF64Const:
		return wasm.Instruction{Op: wasm.OpConstF64, Const: in.Const}, nil
	case binary.OpcodeBlock:
		return wasm.Instruction{Op: wasm.OpBlock, Flags: uint32(in.BlockType)}, nil
	case binary.OpcodeLoop:
		return wasm.Instruction{Op: wasm.OpLoop, Flags: uint32(in.BlockType)}, nil
	case binary.OpcodeMemorySize:
		return wasm.Instruction{Op: wasm.OpMemorySize}, nil
	case binary.OpcodeMemoryGrow:
		return wasm.Instruction{Op: wasm.OpMemoryGrow}, nil
	}

	// The decoder only produces opcodes from its table, so this is a bug,
	// not an input error.
	return wasm.Instruction{}, failf("BUG: no lowering for opcode %s", in.Opcode)
}
