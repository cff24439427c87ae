package img3d

import (
	"io"
)

// Decoder reads records one at a time from an in-memory 3D image file
type Decoder struct {
	cursor *Cursor
	labels LabelState
	header Header
}

// NewDecoder validates the header of data and positions the decoder at the
// first record
func NewDecoder(data []byte) (*Decoder, error) {
	c := NewCursor(data, 0)
	h, err := ParseHeader(c)
	if err != nil {
		return nil, err
	}
	return &Decoder{cursor: c, header: h}, nil
}

// Header returns the file header
func (d *Decoder) Header() Header {
	return d.header
}

// Offset returns the offset of the next record
func (d *Decoder) Offset() int {
	return d.cursor.Offset()
}

// Next decodes the next record. It returns io.EOF once every byte has been
// consumed.
func (d *Decoder) Next() (Record, error) {
	if d.cursor.AtEnd() {
		return nil, io.EOF
	}
	return DecodeRecord(d.cursor, &d.labels)
}

// All decodes every remaining record. On error the records decoded before
// the failure are returned with it.
func (d *Decoder) All() (Records, error) {
	records := Records{}
	for {
		rec, err := d.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

// DecodeFile decodes the header and every record of a 3D image file
func DecodeFile(data []byte) (Header, Records, error) {
	d, err := NewDecoder(data)
	if err != nil {
		return Header{}, nil, err
	}
	records, err := d.All()
	return d.header, records, err
}
