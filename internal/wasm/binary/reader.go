package binary

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/h41-dev/hal/internal/leb128"
)

// ByteReader is a cursor over an immutable byte slice. It is the single
// point where the decoder materializes bytes into integers, so all bounds
// and encoding checks live here.
type ByteReader struct {
	data []byte
	pos  int
}

// NewByteReader wraps data without copying it.
func NewByteReader(data []byte) *ByteReader {
	return &ByteReader{data: data}
}

// Pos returns the current cursor position.
func (r *ByteReader) Pos() int {
	return r.pos
}

// EOF reports whether the cursor is at or past the end of the data.
func (r *ByteReader) EOF() bool {
	return r.pos >= len(r.data)
}

// ReadByte reads a single byte.
func (r *ByteReader) ReadByte() (byte, error) {
	if r.pos+1 > len(r.data) {
		return 0, ErrUnexpectedEndOfFile
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadUint16 reads a little-endian uint16.
func (r *ByteReader) ReadUint16() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, ErrUnexpectedEndOfFile
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadUint32 reads a little-endian uint32.
func (r *ByteReader) ReadUint32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, ErrUnexpectedEndOfFile
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadUint64 reads a little-endian uint64.
func (r *ByteReader) ReadUint64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, ErrUnexpectedEndOfFile
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadRange reads n bytes and advances. The returned slice aliases the
// underlying data.
func (r *ByteReader) ReadRange(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, ErrUnexpectedEndOfFile
	}
	b := r.data[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadUint32Leb128 reads an unsigned leb128 u32.
func (r *ByteReader) ReadUint32Leb128() (uint32, error) {
	v, n, err := leb128.DecodeUint32(r.data[r.pos:])
	if err != nil {
		return 0, r.leb128Err(err)
	}
	r.pos += n
	return v, nil
}

// ReadInt32Leb128 reads a signed leb128 i32.
func (r *ByteReader) ReadInt32Leb128() (int32, error) {
	v, n, err := leb128.DecodeInt32(r.data[r.pos:])
	if err != nil {
		return 0, r.leb128Err(err)
	}
	r.pos += n
	return v, nil
}

// ReadInt64Leb128 reads a signed leb128 i64.
func (r *ByteReader) ReadInt64Leb128() (int64, error) {
	v, n, err := leb128.DecodeInt64(r.data[r.pos:])
	if err != nil {
		return 0, r.leb128Err(err)
	}
	r.pos += n
	return v, nil
}

func (r *ByteReader) leb128Err(err error) error {
	if errors.Is(err, leb128.ErrIncomplete) {
		return ErrUnexpectedEndOfFile
	}
	return fmt.Errorf("%w: at offset %d", ErrInvalidLEB128Encoding, r.pos)
}

// Seek moves the cursor by offset, which may be negative. Seeking below
// zero clamps at zero; seeking past the end is an error.
func (r *ByteReader) Seek(offset int) (int, error) {
	pos := r.pos + offset
	if pos < 0 {
		pos = 0
	}
	if pos > len(r.data) {
		return 0, ErrOutOfBounds
	}
	r.pos = pos
	return pos, nil
}
