package api

// Memory is a read-write view of a module instance's linear memory.
//
// All offsets are expressed in bytes from the start of the memory. Accessors
// return false instead of an error when the requested range is outside the
// current memory size, matching the trap condition the interpreter enforces
// for in-wasm accesses.
type Memory interface {
	// Size returns the current length of the memory in bytes.
	Size() uint32

	// ReadByte reads a single byte at offset.
	ReadByte(offset uint32) (byte, bool)

	// Read reads byteCount bytes beginning at offset. The returned slice
	// aliases the underlying memory, so writes through it are visible to
	// executing code.
	Read(offset, byteCount uint32) ([]byte, bool)

	// ReadUint32Le reads a little-endian uint32 at offset.
	ReadUint32Le(offset uint32) (uint32, bool)

	// ReadUint64Le reads a little-endian uint64 at offset.
	ReadUint64Le(offset uint32) (uint64, bool)

	// WriteByte writes a single byte at offset.
	WriteByte(offset uint32, v byte) bool

	// Write writes the given bytes beginning at offset.
	Write(offset uint32, v []byte) bool

	// WriteUint32Le writes a little-endian uint32 at offset.
	WriteUint32Le(offset uint32, v uint32) bool

	// WriteUint64Le writes a little-endian uint64 at offset.
	WriteUint64Le(offset uint32, v uint64) bool
}

// FunctionDefinition describes an exported function: its name and signature.
type FunctionDefinition struct {
	// Name is the export name.
	Name string
	// ParamTypes are the parameter types in declaration order.
	ParamTypes []ValueType
	// ResultTypes are the result types in declaration order.
	ResultTypes []ValueType
}
