package wire

import (
	"encoding/binary"
	"fmt"
)

// lengthHeaderSize is the encoded width of a LengthHeader.
const lengthHeaderSize = 8

// LengthHeader is the minimal layout: a single big-endian u64 payload
// length and nothing else. It carries no validation metadata, so Decode
// accepts any 8 bytes.
type LengthHeader struct {
	payloadLen uint64
}

func (h LengthHeader) PayloadLen() uint64 {
	return h.payloadLen
}

func (h LengthHeader) Encode() []byte {
	return h.Append(make([]byte, 0, lengthHeaderSize))
}

func (h LengthHeader) Append(dst []byte) []byte {
	return binary.BigEndian.AppendUint64(dst, h.payloadLen)
}

// LengthFormat builds and parses LengthHeader values.
type LengthFormat struct{}

func (LengthFormat) New(payloadLen uint64) LengthHeader {
	return LengthHeader{payloadLen: payloadLen}
}

func (LengthFormat) Blank() LengthHeader {
	return LengthHeader{}
}

func (LengthFormat) Decode(b []byte) (LengthHeader, error) {
	if len(b) < lengthHeaderSize {
		return LengthHeader{}, fmt.Errorf("%w: got %d bytes, need %d", ErrShortHeader, len(b), lengthHeaderSize)
	}
	return LengthHeader{payloadLen: binary.BigEndian.Uint64(b[:lengthHeaderSize])}, nil
}

func (LengthFormat) HeaderSize() int {
	return lengthHeaderSize
}
