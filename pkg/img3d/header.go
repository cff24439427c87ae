package img3d

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// Magic opens every 3D image file
	Magic = "Survex 3D Image File\n"
	// Version is the only version token this package decodes
	Version = "v8\n"
)

// File-wide flags
const (
	FileFlagExtendedElevation uint8 = 0x01
)

// Header represents the leading block of a 3D image file
type Header struct {
	Magic     string     `json:"magic"`      // File identifier, always Magic
	Version   string     `json:"version"`    // Version token, always Version
	Metadata  string     `json:"metadata"`   // Free-text title / survey metadata
	Timestamp *time.Time `json:"timestamp"`  // Creation time, nil if unparseable
	FileFlags uint8      `json:"file_flags"` // File-wide flag byte
}

// ExtendedElevation reports whether the file holds an extended elevation
// rather than a plan projection
func (h Header) ExtendedElevation() bool {
	return h.FileFlags&FileFlagExtendedElevation != 0
}

// ParseHeader validates the magic and version and reads the header fields
func ParseHeader(c *Cursor) (Header, error) {
	magic, err := c.ReadFixedString(len(Magic))
	if err != nil || magic != Magic {
		return Header{}, ErrBadMagic
	}
	version, err := c.ReadFixedString(len(Version))
	if err != nil || version != Version {
		return Header{}, ErrUnsupportedVersion
	}

	metadata := c.ReadTerminatedString('\n', -1)
	stamp := c.ReadTerminatedString('\n', -1)
	ts, err := parseTimestamp(stamp)
	if err != nil {
		return Header{}, err
	}

	flags, err := c.ReadUint8()
	if err != nil {
		return Header{}, fmt.Errorf("reading file flags: %w", err)
	}

	return Header{
		Magic:     magic,
		Version:   version,
		Metadata:  metadata,
		Timestamp: ts,
		FileFlags: flags,
	}, nil
}

// parseTimestamp reads "@<seconds since the Unix epoch>". Only the leading
// integer is used; a remainder without one yields a nil time.
func parseTimestamp(s string) (*time.Time, error) {
	if !strings.HasPrefix(s, "@") {
		return nil, ErrBadTimestamp
	}
	digits := strings.TrimSpace(s[1:])
	end := 0
	for end < len(digits) {
		ch := digits[end]
		if (ch == '-' || ch == '+') && end == 0 {
			end++
			continue
		}
		if ch < '0' || ch > '9' {
			break
		}
		end++
	}
	secs, err := strconv.ParseInt(digits[:end], 10, 64)
	if err != nil {
		return nil, nil
	}
	ts := time.Unix(secs, 0).UTC()
	return &ts, nil
}
