package img3d

import "fmt"

// Errors
var (
	ErrBadMagic           = &FormatError{"not a Survex 3D image file"}
	ErrUnsupportedVersion = &FormatError{"unsupported 3D image file version"}
	ErrBadTimestamp       = &FormatError{"malformed timestamp in header"}
	ErrOutOfData          = &FormatError{"unexpected end of data"}
)

// FormatError represents a failure to decode a 3D image file
type FormatError struct {
	Message string
}

func (e *FormatError) Error() string {
	return e.Message
}

// DecodeError locates a failed record read within the buffer
type DecodeError struct {
	Offset int   // Offset of the record's opcode byte
	Opcode uint8 // Opcode being decoded
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("record 0x%02X at offset %d: %v", e.Opcode, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
