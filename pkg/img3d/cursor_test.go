package img3d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_FixedWidthReads(t *testing.T) {
	data := []byte{
		0x7F,
		0x34, 0x12,
		0xFE, 0xFF,
		0x78, 0x56, 0x34, 0x12,
		0xFE, 0xFF, 0xFF, 0xFF,
	}
	c := NewCursor(data, 0)

	u8, err := c.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7F), u8)

	u16, err := c.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)

	i16, err := c.ReadInt16()
	require.NoError(t, err)
	assert.Equal(t, int16(-2), i16)

	u32, err := c.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), u32)

	i32, err := c.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-2), i32)

	assert.True(t, c.AtEnd())
	assert.Equal(t, len(data), c.Offset())
}

func TestCursor_OutOfData(t *testing.T) {
	tests := []struct {
		name string
		read func(c *Cursor) error
	}{
		{"uint8", func(c *Cursor) error { _, err := c.ReadUint8(); return err }},
		{"uint16", func(c *Cursor) error { _, err := c.ReadUint16(); return err }},
		{"int16", func(c *Cursor) error { _, err := c.ReadInt16(); return err }},
		{"uint32", func(c *Cursor) error { _, err := c.ReadUint32(); return err }},
		{"int32", func(c *Cursor) error { _, err := c.ReadInt32(); return err }},
		{"fixed string", func(c *Cursor) error { _, err := c.ReadFixedString(5); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// one byte left after the offset
			c := NewCursor([]byte{0x00, 0x01}, 1)
			if tt.name == "uint8" {
				c = NewCursor([]byte{0x00}, 1)
			}
			err := tt.read(c)
			assert.ErrorIs(t, err, ErrOutOfData)
			assert.Equal(t, 1, c.Offset(), "failed read must not advance")
		})
	}
}

func TestCursor_StartOffset(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02, 0x03}, 2)
	assert.Equal(t, 1, c.Len())

	b, err := c.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x03), b)

	assert.True(t, NewCursor([]byte{0x01}, 5).AtEnd())
}

func TestCursor_ReadTerminatedString(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		maxLen     int
		want       string
		wantOffset int
	}{
		{
			name:       "terminator consumed",
			data:       "abc\ndef",
			maxLen:     -1,
			want:       "abc",
			wantOffset: 4,
		},
		{
			name:       "no terminator runs to end",
			data:       "abcdef",
			maxLen:     -1,
			want:       "abcdef",
			wantOffset: 6,
		},
		{
			name:       "empty string",
			data:       "\nrest",
			maxLen:     -1,
			want:       "",
			wantOffset: 1,
		},
		{
			name:       "max length consumed whole",
			data:       "ab\ncdefgh",
			maxLen:     6,
			want:       "ab",
			wantOffset: 6,
		},
		{
			name:       "max length without terminator",
			data:       "abcdefgh",
			maxLen:     4,
			want:       "abcd",
			wantOffset: 4,
		},
		{
			name:       "max length beyond buffer",
			data:       "ab",
			maxLen:     10,
			want:       "ab",
			wantOffset: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor([]byte(tt.data), 0)
			got := c.ReadTerminatedString('\n', tt.maxLen)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOffset, c.Offset())
		})
	}
}
