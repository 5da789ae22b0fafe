package wasm

import "encoding/binary"

// MemoryPageSize is the size of one linear memory page: 64 KiB.
const MemoryPageSize = 65536

// Memory is a module's linear memory: a byte buffer sized in pages with an
// optional page maximum. Store instructions mutate Data in place; the
// surrounding Module stays immutable because instances execute against
// clones, never the prototype.
type Memory struct {
	// Data is the backing buffer. Its length is always a multiple of
	// MemoryPageSize.
	Data []byte

	// Max is the optional maximum size in pages.
	Max *uint32
}

// NewMemory allocates a zeroed memory of min pages.
func NewMemory(min uint32, max *uint32) *Memory {
	return &Memory{Data: make([]byte, min*MemoryPageSize), Max: max}
}

// Clone returns a deep copy, used when instantiating a module so each
// instance owns its memory.
func (m *Memory) Clone() *Memory {
	data := make([]byte, len(m.Data))
	copy(data, m.Data)
	return &Memory{Data: data, Max: m.Max}
}

// Size implements api.Memory.
func (m *Memory) Size() uint32 {
	return uint32(len(m.Data))
}

// hasSize reports whether [offset, offset+byteCount) is inside the memory.
// The sum is computed at 64 bits so a large offset cannot wrap.
func (m *Memory) hasSize(offset uint32, byteCount uint32) bool {
	return uint64(offset)+uint64(byteCount) <= uint64(len(m.Data))
}

// ReadByte implements api.Memory.
func (m *Memory) ReadByte(offset uint32) (byte, bool) {
	if !m.hasSize(offset, 1) {
		return 0, false
	}
	return m.Data[offset], true
}

// Read implements api.Memory.
func (m *Memory) Read(offset, byteCount uint32) ([]byte, bool) {
	if !m.hasSize(offset, byteCount) {
		return nil, false
	}
	return m.Data[offset : offset+byteCount : offset+byteCount], true
}

// ReadUint16Le reads a little-endian uint16 at offset.
func (m *Memory) ReadUint16Le(offset uint32) (uint16, bool) {
	if !m.hasSize(offset, 2) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(m.Data[offset:]), true
}

// ReadUint32Le implements api.Memory.
func (m *Memory) ReadUint32Le(offset uint32) (uint32, bool) {
	if !m.hasSize(offset, 4) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(m.Data[offset:]), true
}

// ReadUint64Le implements api.Memory.
func (m *Memory) ReadUint64Le(offset uint32) (uint64, bool) {
	if !m.hasSize(offset, 8) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(m.Data[offset:]), true
}

// WriteByte implements api.Memory.
func (m *Memory) WriteByte(offset uint32, v byte) bool {
	if !m.hasSize(offset, 1) {
		return false
	}
	m.Data[offset] = v
	return true
}

// Write implements api.Memory.
func (m *Memory) Write(offset uint32, v []byte) bool {
	if !m.hasSize(offset, uint32(len(v))) {
		return false
	}
	copy(m.Data[offset:], v)
	return true
}

// WriteUint16Le writes a little-endian uint16 at offset.
func (m *Memory) WriteUint16Le(offset uint32, v uint16) bool {
	if !m.hasSize(offset, 2) {
		return false
	}
	binary.LittleEndian.PutUint16(m.Data[offset:], v)
	return true
}

// WriteUint32Le implements api.Memory.
func (m *Memory) WriteUint32Le(offset uint32, v uint32) bool {
	if !m.hasSize(offset, 4) {
		return false
	}
	binary.LittleEndian.PutUint32(m.Data[offset:], v)
	return true
}

// WriteUint64Le implements api.Memory.
func (m *Memory) WriteUint64Le(offset uint32, v uint64) bool {
	if !m.hasSize(offset, 8) {
		return false
	}
	binary.LittleEndian.PutUint64(m.Data[offset:], v)
	return true
}
