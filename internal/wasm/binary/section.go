package binary

import (
	"fmt"

	"github.com/h41-dev/hal/api"
)

func decodeCustomSection(m *Module, size uint32, r *ByteReader) error {
	// Custom sections never affect execution; the name is split off and the
	// rest is kept opaque for debugging tools.
	start := r.Pos()
	name, err := decodeName(r)
	if err != nil {
		return err
	}
	rest := int(size) - (r.Pos() - start)
	if rest < 0 {
		return ErrUnexpectedEndOfFile
	}
	data, err := r.ReadRange(rest)
	if err != nil {
		return err
	}
	m.Customs = append(m.Customs, &Custom{Name: name, Data: data})
	return nil
}

func decodeTypeSection(m *Module, r *ByteReader) error {
	count, err := r.ReadUint32Leb128()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		if _, err := r.ReadByte(); err != nil { // 0x60 functype tag
			return err
		}
		params, err := decodeValueTypes(r)
		if err != nil {
			return err
		}
		results, err := decodeValueTypes(r)
		if err != nil {
			return err
		}
		m.Types = append(m.Types, &FunctionType{Params: params, Results: results})
	}
	return nil
}

func decodeImportSection(m *Module, r *ByteReader) error {
	count, err := r.ReadUint32Leb128()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		module, err := decodeName(r)
		if err != nil {
			return err
		}
		name, err := decodeName(r)
		if err != nil {
			return err
		}
		kind, err := r.ReadByte()
		if err != nil {
			return err
		}
		if kind != 0x00 {
			return fmt.Errorf("%w: 0x%02x", ErrInvalidImportDescriptor, kind)
		}
		typeIdx, err := r.ReadUint32Leb128()
		if err != nil {
			return err
		}
		m.Imports = append(m.Imports, &Import{Module: module, Name: name, DescFunc: typeIdx})
	}
	return nil
}

func decodeFunctionSection(m *Module, r *ByteReader) error {
	count, err := r.ReadUint32Leb128()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		typeIdx, err := r.ReadUint32Leb128()
		if err != nil {
			return err
		}
		m.Functions = append(m.Functions, typeIdx)
	}
	return nil
}

func decodeMemorySection(m *Module, r *ByteReader) error {
	count, err := r.ReadUint32Leb128()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		mem, err := decodeLimits(r)
		if err != nil {
			return err
		}
		m.Memories = append(m.Memories, mem)
	}
	return nil
}

func decodeLimits(r *ByteReader) (*MemoryType, error) {
	flags, err := r.ReadUint32Leb128()
	if err != nil {
		return nil, err
	}
	min, err := r.ReadUint32Leb128()
	if err != nil {
		return nil, err
	}
	mem := &MemoryType{Min: min}
	if flags != 0 {
		max, err := r.ReadUint32Leb128()
		if err != nil {
			return nil, err
		}
		mem.Max = &max
	}
	return mem, nil
}

func decodeExportSection(m *Module, r *ByteReader) error {
	count, err := r.ReadUint32Leb128()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		name, err := decodeName(r)
		if err != nil {
			return err
		}
		kind, err := r.ReadByte()
		if err != nil {
			return err
		}
		idx, err := r.ReadUint32Leb128()
		if err != nil {
			return err
		}
		if kind != 0x00 {
			return fmt.Errorf("%w: 0x%02x", ErrInvalidExportDescriptor, kind)
		}
		m.Exports = append(m.Exports, &Export{Name: name, Index: idx})
	}
	return nil
}

func decodeCodeSection(m *Module, r *ByteReader) error {
	count, err := r.ReadUint32Leb128()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		bodySize, err := r.ReadUint32Leb128()
		if err != nil {
			return err
		}
		body, err := decodeFunctionBody(bodySize, r)
		if err != nil {
			return err
		}
		m.Codes = append(m.Codes, body)
	}
	return nil
}

func decodeFunctionBody(size uint32, r *ByteReader) (*FunctionBody, error) {
	end := r.Pos() + int(size)

	declCount, err := r.ReadUint32Leb128()
	if err != nil {
		return nil, err
	}
	body := &FunctionBody{}
	for i := uint32(0); i < declCount; i++ {
		count, err := r.ReadUint32Leb128()
		if err != nil {
			return nil, err
		}
		vt, err := decodeValueType(r)
		if err != nil {
			return nil, err
		}
		body.Locals = append(body.Locals, LocalEntry{Count: count, Type: vt})
	}

	for r.Pos() < end {
		inst, err := decodeInstruction(r)
		if err != nil {
			return nil, err
		}
		body.Body = append(body.Body, inst)
	}
	return body, nil
}

func decodeDataSection(m *Module, r *ByteReader) error {
	count, err := r.ReadUint32Leb128()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		memIdx, err := r.ReadUint32Leb128()
		if err != nil {
			return err
		}
		offset, err := decodeConstExpr(r)
		if err != nil {
			return err
		}
		size, err := r.ReadUint32Leb128()
		if err != nil {
			return err
		}
		init, err := r.ReadRange(int(size))
		if err != nil {
			return err
		}
		m.Data = append(m.Data, &DataSegment{MemoryIndex: memIdx, Offset: offset, Init: init})
	}
	return nil
}

// decodeConstExpr decodes the constant-expression offset of a data segment:
// a single i32.const terminated by end.
func decodeConstExpr(r *ByteReader) (uint32, error) {
	op, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	if Opcode(op) != OpcodeI32Const {
		return 0, fmt.Errorf("%w: 0x%02x in data segment offset", ErrInvalidOpcode, op)
	}
	offset, err := r.ReadInt32Leb128()
	if err != nil {
		return 0, err
	}
	endOp, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	if Opcode(endOp) != OpcodeEnd {
		return 0, fmt.Errorf("%w: 0x%02x terminating data segment offset", ErrInvalidOpcode, endOp)
	}
	return uint32(offset), nil
}

func decodeName(r *ByteReader) (string, error) {
	size, err := r.ReadUint32Leb128()
	if err != nil {
		return "", err
	}
	b, err := r.ReadRange(int(size))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeValueType(r *ByteReader) (api.ValueType, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	switch vt := api.ValueType(b); vt {
	case api.ValueTypeI32, api.ValueTypeI64:
		return vt, nil
	default:
		return 0, fmt.Errorf("%w: 0x%02x", ErrInvalidValueType, b)
	}
}

func decodeValueTypes(r *ByteReader) ([]api.ValueType, error) {
	count, err := r.ReadUint32Leb128()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	types := make([]api.ValueType, 0, count)
	for i := uint32(0); i < count; i++ {
		vt, err := decodeValueType(r)
		if err != nil {
			return nil, err
		}
		types = append(types, vt)
	}
	return types, nil
}
