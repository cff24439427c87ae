package img3d

import (
	"bytes"
	"encoding/binary"
)

// Cursor is a position-tracking, little-endian view over an in-memory buffer.
// Reads past the end of the buffer fail with ErrOutOfData and leave the
// position unchanged.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor creates a cursor over data starting at offset
func NewCursor(data []byte, offset int) *Cursor {
	if offset < 0 {
		offset = 0
	}
	if offset > len(data) {
		offset = len(data)
	}
	return &Cursor{data: data, pos: offset}
}

// Offset returns the current read position
func (c *Cursor) Offset() int {
	return c.pos
}

// Len returns the number of unread bytes
func (c *Cursor) Len() int {
	return len(c.data) - c.pos
}

// AtEnd reports whether every byte has been consumed
func (c *Cursor) AtEnd() bool {
	return c.pos == len(c.data)
}

func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || n > c.Len() {
		return nil, ErrOutOfData
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// ReadUint8 reads one byte
func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a little-endian uint16
func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadInt16 reads a little-endian int16
func (c *Cursor) ReadInt16() (int16, error) {
	v, err := c.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads a little-endian uint32
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadInt32 reads a little-endian int32
func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadUint32()
	return int32(v), err
}

// ReadFixedString reads exactly n bytes as text
func (c *Cursor) ReadFixedString(n int) (string, error) {
	b, err := c.take(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadTerminatedString returns the text before the first terminator byte.
//
// With maxLen < 0 the scan runs to the end of the buffer and the terminator,
// if found, is consumed. With maxLen >= 0 at most maxLen bytes are scanned
// and exactly that many are consumed (fewer if the buffer ends first).
func (c *Cursor) ReadTerminatedString(terminator byte, maxLen int) string {
	window := c.data[c.pos:]
	if maxLen >= 0 && maxLen < len(window) {
		window = window[:maxLen]
	}

	i := bytes.IndexByte(window, terminator)
	found := i >= 0
	if !found {
		i = len(window)
	}
	s := string(window[:i])

	switch {
	case maxLen >= 0:
		c.pos += len(window)
	case found:
		c.pos += i + 1
	default:
		c.pos += i
	}
	return s
}
