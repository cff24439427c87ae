// Package img3d decodes Survex 3D image files, version 8.
//
// A 3D image file is a little-endian binary stream holding a short text
// header followed by a sequence of records. Each record starts with an
// opcode byte that selects its kind and payload layout.
//
// # Header
//
//	"Survex 3D Image File\n"  magic, 21 bytes
//	"v8\n"                    version, 3 bytes
//	<metadata>\n              free text
//	@<seconds>\n              creation time, seconds since the Unix epoch
//	<flags>                   1 byte of file-wide flags
//
// # Records
//
//	0x00        STOP
//	0x01-0x04   STYLE          diving, cartesian, cylpolar, nosurvey
//	0x0F        MOVE           3 x int32 (x, y, z)
//	0x10-0x13   DATE           none | uint16 | uint16 + uint8 span | 2 x uint16
//	0x1F        ERROR          int32 legs, 4 x int32 (length, e, h, v)
//	0x30-0x31   XSECT          label edit, 4 x int16 LRUD
//	0x32-0x33   XSECT          label edit, 4 x int32 LRUD
//	0x40-0x7F   LINE           [label edit], 3 x int32
//	0x80-0xFF   LABEL          label edit, 3 x int32
//
// Lengths are stored in centimetres and exposed in metres. An LRUD value of
// all ones (0xFFFF or 0xFFFFFFFF) means the measurement was not taken.
// Dates are stored as days since 1900-01-01.
//
// # Labels
//
// Station labels are delta-encoded against the previous label: each edit
// removes some trailing characters and appends new ones. Records must
// therefore be decoded strictly in order; a LabelState carries the running
// label from one record to the next.
//
// # Usage
//
//	header, records, err := img3d.DecodeFile(data)
//	if err != nil {
//	    return err
//	}
//	for _, rec := range records {
//	    switch r := rec.(type) {
//	    case img3d.Line:
//	        // draw to r.Point
//	    case img3d.LabelPoint:
//	        // place r.Label
//	    }
//	}
//
// Or incrementally:
//
//	dec, err := img3d.NewDecoder(data)
//	if err != nil {
//	    return err
//	}
//	for {
//	    rec, err := dec.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    ...
//	}
//
// # Error Handling
//
// Header problems surface as ErrBadMagic, ErrUnsupportedVersion or
// ErrBadTimestamp. A record that runs past the end of the buffer fails with
// ErrOutOfData wrapped in a *DecodeError giving the opcode and its offset.
// Opcodes outside the known ranges are not errors: they decode to Unknown
// and decoding resumes at the next byte. Since the payload length of such an
// opcode is not known, records after it may be misread.
//
// # Thread Safety
//
// A Decoder is not safe for concurrent use. Decoded records do not share
// state with the decoder and may be used freely.
package img3d
