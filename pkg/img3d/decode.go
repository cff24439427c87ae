package img3d

import "fmt"

// Opcodes
const (
	opStop         uint8 = 0x00
	opStyleFirst   uint8 = 0x01
	opStyleLast    uint8 = 0x04
	opMove         uint8 = 0x0F
	opDateNone     uint8 = 0x10
	opDate         uint8 = 0x11
	opDateSpan     uint8 = 0x12
	opDateRange    uint8 = 0x13
	opError        uint8 = 0x1F
	opXSect16First uint8 = 0x30
	opXSect16Last  uint8 = 0x31
	opXSect32First uint8 = 0x32
	opXSect32Last  uint8 = 0x33
	opLineFirst    uint8 = 0x40
	opLineLast     uint8 = 0x7F
	opLabelFirst   uint8 = 0x80
)

const (
	xsectLastInPassage uint8 = 0x01
	lineNoLabel        uint8 = 0x20
	lineFlagMask       uint8 = 0x3F
	labelFlagMask      uint8 = 0x7F

	// coordinates and distances are stored in centimetres
	scale = 0.01

	lrud16Missing uint16 = 0xFFFF
	lrud32Missing uint32 = 0xFFFFFFFF
)

// DecodeRecord reads one opcode and its payload from c. Label-bearing
// records apply their label edit to labels.
//
// Unknown opcodes are returned as an Unknown record after consuming only the
// opcode byte.
func DecodeRecord(c *Cursor, labels *LabelState) (Record, error) {
	start := c.Offset()
	code, err := c.ReadUint8()
	if err != nil {
		return nil, err
	}
	rec, err := decodePayload(c, labels, code)
	if err != nil {
		return nil, &DecodeError{Offset: start, Opcode: code, Err: err}
	}
	return rec, nil
}

func decodePayload(c *Cursor, labels *LabelState, code uint8) (Record, error) {
	switch {
	case code >= opLabelFirst:
		return readLabelPoint(c, labels, code)
	case code >= opLineFirst && code <= opLineLast:
		return readLine(c, labels, code)
	case code >= opXSect32First && code <= opXSect32Last:
		return readCrossSection(c, labels, code, readLRUD32)
	case code >= opXSect16First && code <= opXSect16Last:
		return readCrossSection(c, labels, code, readLRUD16)
	case code == opError:
		return readErrorClosure(c)
	case code >= opDateNone && code <= opDateRange:
		return readDateMark(c, code)
	case code == opMove:
		p, err := readPoint(c)
		return Move{Point: p}, err
	case code >= opStyleFirst && code <= opStyleLast:
		return StyleChange{Style: Style(code)}, nil
	case code == opStop:
		return Stop{}, nil
	}
	return Unknown{Opcode: code}, nil
}

func readScaled(c *Cursor) (float64, error) {
	v, err := c.ReadInt32()
	return float64(v) * scale, err
}

func readPoint(c *Cursor) (Point, error) {
	var p Point
	var err error
	if p.X, err = readScaled(c); err != nil {
		return Point{}, err
	}
	if p.Y, err = readScaled(c); err != nil {
		return Point{}, err
	}
	if p.Z, err = readScaled(c); err != nil {
		return Point{}, err
	}
	return p, nil
}

func readErrorClosure(c *Cursor) (ErrorClosure, error) {
	legs, err := c.ReadInt32()
	if err != nil {
		return ErrorClosure{}, err
	}
	var vals [4]float64
	for i := range vals {
		if vals[i], err = readScaled(c); err != nil {
			return ErrorClosure{}, err
		}
	}
	return ErrorClosure{Legs: legs, Length: vals[0], E: vals[1], H: vals[2], V: vals[3]}, nil
}

func readLRUD16(c *Cursor) (*float64, error) {
	raw, err := c.ReadUint16()
	if err != nil || raw == lrud16Missing {
		return nil, err
	}
	v := float64(int16(raw)) * scale
	return &v, nil
}

func readLRUD32(c *Cursor) (*float64, error) {
	raw, err := c.ReadUint32()
	if err != nil || raw == lrud32Missing {
		return nil, err
	}
	v := float64(int32(raw)) * scale
	return &v, nil
}

func readCrossSection(c *Cursor, labels *LabelState, code uint8, lrud func(*Cursor) (*float64, error)) (CrossSection, error) {
	label, err := labels.Apply(c)
	if err != nil {
		return CrossSection{}, fmt.Errorf("label: %w", err)
	}
	xs := CrossSection{
		Label:         label,
		LastInPassage: code&xsectLastInPassage != 0,
	}
	for _, dst := range []**float64{&xs.Left, &xs.Right, &xs.Up, &xs.Down} {
		if *dst, err = lrud(c); err != nil {
			return CrossSection{}, err
		}
	}
	return xs, nil
}

func readLine(c *Cursor, labels *LabelState, code uint8) (Line, error) {
	flags := code & lineFlagMask
	line := Line{Flags: LineFlags(flags) & (LineAboveGround | LineDuplicate | LineSplay)}
	if flags&lineNoLabel == 0 {
		label, err := labels.Apply(c)
		if err != nil {
			return Line{}, fmt.Errorf("label: %w", err)
		}
		line.Label = &label
	}
	p, err := readPoint(c)
	if err != nil {
		return Line{}, err
	}
	line.Point = p
	return line, nil
}

func readLabelPoint(c *Cursor, labels *LabelState, code uint8) (LabelPoint, error) {
	label, err := labels.Apply(c)
	if err != nil {
		return LabelPoint{}, fmt.Errorf("label: %w", err)
	}
	p, err := readPoint(c)
	if err != nil {
		return LabelPoint{}, err
	}
	return LabelPoint{Label: label, Point: p, Flags: LabelFlags(code & labelFlagMask)}, nil
}
