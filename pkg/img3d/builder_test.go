package img3d

import (
	"encoding/binary"
)

// fileBuilder assembles 3D image files for tests
type fileBuilder struct {
	buf []byte
}

func newFileBuilder(metadata, stamp string, flags uint8) *fileBuilder {
	b := &fileBuilder{}
	b.str(Magic).str(Version).str(metadata + "\n").str(stamp + "\n").u8(flags)
	return b
}

func (b *fileBuilder) str(s string) *fileBuilder {
	b.buf = append(b.buf, s...)
	return b
}

func (b *fileBuilder) u8(v ...uint8) *fileBuilder {
	b.buf = append(b.buf, v...)
	return b
}

func (b *fileBuilder) u16(v uint16) *fileBuilder {
	b.buf = binary.LittleEndian.AppendUint16(b.buf, v)
	return b
}

func (b *fileBuilder) i16(v int16) *fileBuilder {
	return b.u16(uint16(v))
}

func (b *fileBuilder) u32(v uint32) *fileBuilder {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, v)
	return b
}

func (b *fileBuilder) i32(v ...int32) *fileBuilder {
	for _, x := range v {
		b.u32(uint32(x))
	}
	return b
}

// label writes a compact label edit
func (b *fileBuilder) label(trim int, text string) *fileBuilder {
	return b.u8(uint8(trim<<4 | len(text))).str(text)
}

func (b *fileBuilder) bytes() []byte {
	return b.buf
}
