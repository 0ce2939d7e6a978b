package wire

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

const (
	// SealedMagic marks the start of a sealed header on the wire.
	SealedMagic uint32 = 0xF17A3B01

	// DefaultMaxPayload bounds decoded payload lengths when a SealedFormat
	// does not set its own cap.
	DefaultMaxPayload uint64 = 8 * 1024 * 1024

	sealedHeaderSize = 4 + 8 + 4
	sealedSumOffset  = 4 + 8
)

// SealedHeader is the validated layout: magic(4) ++ payload length(8) ++
// CRC-32 of the preceding twelve bytes(4), all big-endian. The checksum
// lets a desynchronized or corrupted stream be detected at the header
// boundary instead of surfacing as a garbage payload length.
type SealedHeader struct {
	payloadLen uint64
}

func (h SealedHeader) PayloadLen() uint64 {
	return h.payloadLen
}

func (h SealedHeader) Encode() []byte {
	return h.Append(make([]byte, 0, sealedHeaderSize))
}

func (h SealedHeader) Append(dst []byte) []byte {
	start := len(dst)
	dst = binary.BigEndian.AppendUint32(dst, SealedMagic)
	dst = binary.BigEndian.AppendUint64(dst, h.payloadLen)
	sum := crc32.ChecksumIEEE(dst[start : start+sealedSumOffset])
	return binary.BigEndian.AppendUint32(dst, sum)
}

// SealedFormat builds and parses SealedHeader values. MaxPayload caps the
// payload length accepted at decode time; zero means DefaultMaxPayload.
type SealedFormat struct {
	MaxPayload uint64
}

func (SealedFormat) New(payloadLen uint64) SealedHeader {
	return SealedHeader{payloadLen: payloadLen}
}

func (SealedFormat) Blank() SealedHeader {
	return SealedHeader{}
}

func (f SealedFormat) Decode(b []byte) (SealedHeader, error) {
	if len(b) < sealedHeaderSize {
		return SealedHeader{}, fmt.Errorf("%w: got %d bytes, need %d", ErrShortHeader, len(b), sealedHeaderSize)
	}
	b = b[:sealedHeaderSize]
	if magic := binary.BigEndian.Uint32(b[0:4]); magic != SealedMagic {
		return SealedHeader{}, fmt.Errorf("%w: 0x%08X", ErrBadMagic, magic)
	}
	want := binary.BigEndian.Uint32(b[sealedSumOffset:])
	if got := crc32.ChecksumIEEE(b[:sealedSumOffset]); got != want {
		return SealedHeader{}, fmt.Errorf("%w: got 0x%08X want 0x%08X", ErrChecksumMismatch, got, want)
	}
	payloadLen := binary.BigEndian.Uint64(b[4:12])
	if payloadLen > f.maxPayload() {
		return SealedHeader{}, fmt.Errorf("%w: %d exceeds cap %d", ErrLengthOutOfRange, payloadLen, f.maxPayload())
	}
	return SealedHeader{payloadLen: payloadLen}, nil
}

func (SealedFormat) HeaderSize() int {
	return sealedHeaderSize
}

func (f SealedFormat) maxPayload() uint64 {
	if f.MaxPayload == 0 {
		return DefaultMaxPayload
	}
	return f.MaxPayload
}
