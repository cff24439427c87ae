package img3d

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFile_MinimalFile(t *testing.T) {
	data := newFileBuilder("test", "@0", 0).u8(0x00).bytes()

	header, records, err := DecodeFile(data)
	require.NoError(t, err)

	assert.Equal(t, "test", header.Metadata)
	require.NotNil(t, header.Timestamp)
	assert.True(t, header.Timestamp.Equal(time.Unix(0, 0)))
	assert.Equal(t, Records{Stop{}}, records)
}

func TestDecodeFile_EmptyBody(t *testing.T) {
	data := newFileBuilder("", "@0", 0).bytes()

	_, records, err := DecodeFile(data)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDecodeFile_Survey(t *testing.T) {
	b := newFileBuilder("mig", "@1000", 0)
	b.u8(0x02)                  // cartesian
	b.u8(0x12).u16(36524).u8(2) // 2000-01-01 .. 2000-01-03
	b.u8(0x0F).i32(0, 0, 0)
	b.u8(0x80 | 0x04).label(0, "abc").i32(0, 0, 0) // entrance
	b.u8(0x40).label(1, "xy").i32(1000, 0, -200)
	b.u8(0x60).i32(1000, 500, -200) // no label
	b.u8(0x31).label(0, ".1").i16(100).i16(100).u16(0xFFFF).i16(50)
	b.u8(0x1F).i32(2, 1500, 10, 20, 30)
	b.u8(0x00)

	header, records, err := DecodeFile(b.bytes())
	require.NoError(t, err)
	assert.Equal(t, "mig", header.Metadata)
	require.Len(t, records, 9)

	kinds := make([]Kind, len(records))
	for i, r := range records {
		kinds[i] = r.Kind()
	}
	assert.Equal(t, []Kind{
		KindStyle, KindDate, KindMove, KindLabel, KindLine, KindLine, KindCrossSection, KindError, KindStop,
	}, kinds)

	date := records[1].(DateMark)
	require.NotNil(t, date.Range)
	assert.Equal(t, Date{2000, time.January, 3}, date.Range.To)

	assert.Equal(t, "abc", records[3].(LabelPoint).Label)
	assert.Equal(t, "abxy", *records[4].(Line).Label)
	assert.Nil(t, records[5].(Line).Label)
	xs := records[6].(CrossSection)
	assert.Equal(t, "abxy.1", xs.Label)
	assert.True(t, xs.LastInPassage)
	assert.Nil(t, xs.Up)

	assert.Len(t, records.Filter(KindLine), 2)
}

func TestDecodeFile_Deterministic(t *testing.T) {
	data := newFileBuilder("t", "@5", 1).
		u8(0x80).label(0, "one").i32(1, 2, 3).
		u8(0x80).label(3, "two").i32(4, 5, 6).
		bytes()

	h1, r1, err := DecodeFile(data)
	require.NoError(t, err)
	h2, r2, err := DecodeFile(data)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Equal(t, r1, r2)
	assert.Equal(t, "two", r2[1].(LabelPoint).Label)
}

func TestDecodeFile_UnknownOpcodeContinues(t *testing.T) {
	data := newFileBuilder("", "@0", 0).u8(0x20, 0x01, 0x00).bytes()

	_, records, err := DecodeFile(data)
	require.NoError(t, err)
	assert.Equal(t, Records{Unknown{Opcode: 0x20}, StyleChange{Style: StyleDiving}, Stop{}}, records)
}

func TestDecodeFile_Errors(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		_, records, err := DecodeFile([]byte("Survex 3D"))
		assert.ErrorIs(t, err, ErrBadMagic)
		assert.Nil(t, records)
	})

	t.Run("truncated record keeps earlier records", func(t *testing.T) {
		data := newFileBuilder("", "@0", 0).u8(0x01).u8(0x0F).i32(1).bytes()
		_, records, err := DecodeFile(data)
		assert.True(t, errors.Is(err, ErrOutOfData))
		assert.Equal(t, Records{StyleChange{Style: StyleDiving}}, records)
	})
}

func TestDecoder_Next(t *testing.T) {
	data := newFileBuilder("inc", "@0", 0).u8(0x03, 0x00).bytes()

	dec, err := NewDecoder(data)
	require.NoError(t, err)
	assert.Equal(t, "inc", dec.Header().Metadata)
	start := dec.Offset()

	rec, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, StyleChange{Style: StyleCylPolar}, rec)
	assert.Equal(t, start+1, dec.Offset())

	rec, err = dec.Next()
	require.NoError(t, err)
	assert.Equal(t, Stop{}, rec)

	_, err = dec.Next()
	assert.Equal(t, io.EOF, err)
}
