package binary

import "fmt"

func decodeInstruction(r *ByteReader) (Instruction, error) {
	b, err := r.ReadByte()
	if err != nil {
		return Instruction{}, err
	}

	op := Opcode(b)
	inst := Instruction{Opcode: op}

	switch op {
	case OpcodeNop, OpcodeEnd, OpcodeReturn, OpcodeDrop,
		OpcodeI32Eqz, OpcodeI32Eq, OpcodeI32Ne,
		OpcodeI32LtS, OpcodeI32LtU, OpcodeI32GtS, OpcodeI32GtU,
		OpcodeI32LeS, OpcodeI32LeU, OpcodeI32GeS, OpcodeI32GeU,
		OpcodeI64Eqz, OpcodeI64Eq, OpcodeI64Ne,
		OpcodeI64LtS, OpcodeI64LtU, OpcodeI64GtS, OpcodeI64GtU,
		OpcodeI64LeS, OpcodeI64LeU, OpcodeI64GeS, OpcodeI64GeU,
		OpcodeI32Clz, OpcodeI32Ctz, OpcodeI32Popcnt,
		OpcodeI32Add, OpcodeI32Sub, OpcodeI32Mul,
		OpcodeI32DivS, OpcodeI32DivU, OpcodeI32RemS, OpcodeI32RemU,
		OpcodeI32And, OpcodeI32Or, OpcodeI32Xor,
		OpcodeI32Shl, OpcodeI32ShrS, OpcodeI32ShrU, OpcodeI32Rotl, OpcodeI32Rotr,
		OpcodeI64Clz, OpcodeI64Ctz, OpcodeI64Popcnt,
		OpcodeI64Add, OpcodeI64Sub, OpcodeI64Mul,
		OpcodeI64DivS, OpcodeI64DivU, OpcodeI64RemS, OpcodeI64RemU,
		OpcodeI64And, OpcodeI64Or, OpcodeI64Xor,
		OpcodeI64Shl, OpcodeI64ShrS, OpcodeI64ShrU, OpcodeI64Rotl, OpcodeI64Rotr,
		OpcodeF32Add, OpcodeF32Sub, OpcodeF32Mul, OpcodeF32Div,
		OpcodeF64Add, OpcodeF64Sub, OpcodeF64Mul, OpcodeF64Div,
		OpcodeI32Extend8S, OpcodeI32Extend16S,
		OpcodeI64Extend8S, OpcodeI64Extend16S, OpcodeI64Extend32S:
		// No operands.

	case OpcodeBlock, OpcodeLoop:
		bt, err := r.ReadByte()
		if err != nil {
			return Instruction{}, err
		}
		inst.BlockType = bt

	case OpcodeBr, OpcodeBrIf, OpcodeCall,
		OpcodeLocalGet, OpcodeLocalSet, OpcodeLocalTee:
		idx, err := r.ReadUint32Leb128()
		if err != nil {
			return Instruction{}, err
		}
		inst.Index = idx

	case OpcodeI32Load, OpcodeI64Load,
		OpcodeI32Load8S, OpcodeI32Load8U, OpcodeI32Load16S, OpcodeI32Load16U,
		OpcodeI64Load8S, OpcodeI64Load8U, OpcodeI64Load16S, OpcodeI64Load16U,
		OpcodeI64Load32S, OpcodeI64Load32U,
		OpcodeI32Store, OpcodeI64Store,
		OpcodeI32Store8, OpcodeI32Store16,
		OpcodeI64Store8, OpcodeI64Store16, OpcodeI64Store32:
		align, err := r.ReadUint32Leb128()
		if err != nil {
			return Instruction{}, err
		}
		offset, err := r.ReadUint32Leb128()
		if err != nil {
			return Instruction{}, err
		}
		inst.Align, inst.Offset = align, offset

	case OpcodeMemorySize, OpcodeMemoryGrow:
		// Reserved zero byte.
		if _, err := r.ReadByte(); err != nil {
			return Instruction{}, err
		}

	case OpcodeI32Const:
		v, err := r.ReadInt32Leb128()
		if err != nil {
			return Instruction{}, err
		}
		inst.Const = int64(v)

	case OpcodeI64Const:
		v, err := r.ReadInt64Leb128()
		if err != nil {
			return Instruction{}, err
		}
		inst.Const = v

	case OpcodeF32Const:
		bits, err := r.ReadUint32()
		if err != nil {
			return Instruction{}, err
		}
		inst.Const = int64(bits)

	case OpcodeF64Const:
		bits, err := r.ReadUint64()
		if err != nil {
			return Instruction{}, err
		}
		inst.Const = int64(bits)

	default:
		return Instruction{}, fmt.Errorf("%w: 0x%02x", ErrInvalidOpcode, b)
	}

	return inst, nil
}
