package storage

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"time"
)

// envelopeHeaderSize is CRC32(4) + Size(4) + Timestamp(8)
const envelopeHeaderSize = 16

// envelope frames an archived file
// Format: [CRC32(4)][Size(4)][Timestamp(8)][Payload]
type envelope struct {
	CRC32     uint32 // CRC32 over Size, Timestamp and Payload
	Size      uint32 // Payload length in bytes
	Timestamp uint64 // Unix timestamp in nanoseconds
	Payload   []byte
}

func newEnvelope(payload []byte, now time.Time) (*envelope, error) {
	if uint64(len(payload)) > uint64(^uint32(0)) {
		return nil, fmt.Errorf("payload too large: %d bytes", len(payload))
	}
	e := &envelope{
		Size:      uint32(len(payload)),
		Timestamp: uint64(now.UnixNano()),
		Payload:   payload,
	}
	e.CRC32 = e.checksum()
	return e, nil
}

func (e *envelope) encode() []byte {
	buf := make([]byte, envelopeHeaderSize+len(e.Payload))
	binary.LittleEndian.PutUint32(buf[0:], e.CRC32)
	binary.LittleEndian.PutUint32(buf[4:], e.Size)
	binary.LittleEndian.PutUint64(buf[8:], e.Timestamp)
	copy(buf[envelopeHeaderSize:], e.Payload)
	return buf
}

// decodeEnvelopeHeader parses the fixed header at the start of data without
// reading or checking the payload
func decodeEnvelopeHeader(data []byte) (*envelope, error) {
	if len(data) < envelopeHeaderSize {
		return nil, fmt.Errorf("%w: value too short for envelope header", ErrCorruption)
	}
	return &envelope{
		CRC32:     binary.LittleEndian.Uint32(data[0:4]),
		Size:      binary.LittleEndian.Uint32(data[4:8]),
		Timestamp: binary.LittleEndian.Uint64(data[8:16]),
	}, nil
}

// decodeEnvelope parses and validates a stored value. The payload aliases data.
func decodeEnvelope(data []byte) (*envelope, error) {
	e, err := decodeEnvelopeHeader(data)
	if err != nil {
		return nil, err
	}
	if uint64(len(data)-envelopeHeaderSize) != uint64(e.Size) {
		return nil, fmt.Errorf("%w: payload size %d, have %d bytes", ErrCorruption, e.Size, len(data)-envelopeHeaderSize)
	}
	e.Payload = data[envelopeHeaderSize:]
	if sum := e.checksum(); sum != e.CRC32 {
		return nil, fmt.Errorf("%w: CRC32 mismatch: %d != %d", ErrCorruption, e.CRC32, sum)
	}
	return e, nil
}

func (e *envelope) header() []byte {
	return e.encode()[:envelopeHeaderSize]
}

func (e *envelope) storedAt() time.Time {
	return time.Unix(0, int64(e.Timestamp)).UTC()
}

func (e *envelope) checksum() uint32 {
	var hdr [12]byte
	binary.LittleEndian.PutUint32(hdr[0:], e.Size)
	binary.LittleEndian.PutUint64(hdr[4:], e.Timestamp)
	crc := crc32.NewIEEE()
	_, _ = crc.Write(hdr[:])
	_, _ = crc.Write(e.Payload)
	return crc.Sum32()
}
