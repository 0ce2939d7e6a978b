package wire

import (
	"errors"
	"testing"
)

func TestSealedHeaderRoundTrip(t *testing.T) {
	f := SealedFormat{}
	for _, n := range []uint64{0, 1, 5, 64 * 1024, DefaultMaxPayload} {
		h := f.New(n)
		encoded := h.Encode()
		if len(encoded) != f.HeaderSize() {
			t.Fatalf("encoded width=%d want=%d", len(encoded), f.HeaderSize())
		}
		decoded, err := f.Decode(encoded)
		if err != nil {
			t.Fatalf("decode len=%d: %v", n, err)
		}
		if decoded != h {
			t.Fatalf("round trip mismatch: got=%+v want=%+v", decoded, h)
		}
	}
}

func TestSealedHeaderDecodeRejectsBadMagic(t *testing.T) {
	f := SealedFormat{}
	encoded := f.New(5).Encode()
	encoded[0] ^= 0xFF
	_, err := f.Decode(encoded)
	if !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestSealedHeaderDecodeRejectsCorruptChecksum(t *testing.T) {
	f := SealedFormat{}
	encoded := f.New(5).Encode()
	// Flip a length bit so magic still matches but the checksum does not.
	encoded[8] ^= 0x01
	_, err := f.Decode(encoded)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("expected ErrChecksumMismatch, got %v", err)
	}
}

func TestSealedHeaderDecodeRejectsOversizedLength(t *testing.T) {
	f := SealedFormat{MaxPayload: 1024}
	encoded := f.New(2048).Encode()
	_, err := f.Decode(encoded)
	if !errors.Is(err, ErrLengthOutOfRange) {
		t.Fatalf("expected ErrLengthOutOfRange, got %v", err)
	}
}

func TestSealedHeaderDecodeShort(t *testing.T) {
	_, err := SealedFormat{}.Decode(make([]byte, sealedHeaderSize-1))
	if !errors.Is(err, ErrShortHeader) {
		t.Fatalf("expected ErrShortHeader, got %v", err)
	}
}
