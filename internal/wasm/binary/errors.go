package binary

import "errors"

// Load-time decode errors. These are recoverable: the caller gets the error
// and may try a different input. Details (the offending byte or version) are
// wrapped onto the sentinel with %w so errors.Is still matches.
var (
	ErrInvalidMagicNumber      = errors.New("invalid magic number")
	ErrUnsupportedVersion      = errors.New("unsupported version")
	ErrUnexpectedEndOfFile     = errors.New("unexpected end of file")
	ErrInvalidLEB128Encoding   = errors.New("invalid leb128 encoding")
	ErrInvalidSectionCode      = errors.New("invalid section code")
	ErrSectionSizeMismatch     = errors.New("section size mismatch")
	ErrInvalidValueType        = errors.New("invalid value type")
	ErrInvalidImportDescriptor = errors.New("invalid import descriptor")
	ErrInvalidExportDescriptor = errors.New("invalid export descriptor")
	ErrInvalidOpcode           = errors.New("invalid opcode")
	ErrOutOfBounds             = errors.New("seek out of bounds")
)
