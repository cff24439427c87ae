package img3d

// LabelState holds the running station label of one decode session.
// Each label edit trims characters from its end and appends new ones, so
// edits must be applied strictly in file order. The zero value is an empty
// label; the running label is observed only through Apply's result.
type LabelState struct {
	label string
}

// Apply reads one label edit from c, applies it and returns the new label.
//
// Edit encoding:
//
//	b0 > 0:  trim = b0 >> 4, append = b0 & 0x0F
//	b0 == 0: trim byte (0xFF => uint32 follows), append byte (0xFF => uint32 follows)
//
// followed by append bytes of new text. Counts are in bytes.
func (s *LabelState) Apply(c *Cursor) (string, error) {
	b0, err := c.ReadUint8()
	if err != nil {
		return "", err
	}

	var trim, add uint32
	if b0 > 0 {
		trim = uint32(b0 >> 4)
		add = uint32(b0 & 0x0F)
	} else {
		if trim, err = readEditCount(c); err != nil {
			return "", err
		}
		if add, err = readEditCount(c); err != nil {
			return "", err
		}
	}

	if uint64(add) > uint64(c.Len()) {
		return "", ErrOutOfData
	}
	text, err := c.ReadFixedString(int(add))
	if err != nil {
		return "", err
	}

	// A trim longer than the label empties it.
	if uint64(trim) >= uint64(len(s.label)) {
		s.label = ""
	} else {
		s.label = s.label[:len(s.label)-int(trim)]
	}
	s.label += text
	return s.label, nil
}

func readEditCount(c *Cursor) (uint32, error) {
	b, err := c.ReadUint8()
	if err != nil {
		return 0, err
	}
	if b != 0xFF {
		return uint32(b), nil
	}
	return c.ReadUint32()
}
