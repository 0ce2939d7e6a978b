package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestLengthHeaderRoundTrip(t *testing.T) {
	f := LengthFormat{}
	for _, n := range []uint64{0, 1, 5, 4096, 1<<32 + 7, ^uint64(0)} {
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
		if decoded.PayloadLen() != n {
			t.Fatalf("payload len got=%d want=%d", decoded.PayloadLen(), n)
		}
	}
}

func TestLengthHeaderAppendExtendsPrefix(t *testing.T) {
	f := LengthFormat{}
	prefix := []byte("pre")
	out := f.New(13).Append(append([]byte(nil), prefix...))
	if !bytes.HasPrefix(out, prefix) {
		t.Fatalf("prefix clobbered: %q", out)
	}
	if len(out) != len(prefix)+f.HeaderSize() {
		t.Fatalf("appended width=%d", len(out))
	}
}

func TestLengthHeaderDecodeShort(t *testing.T) {
	_, err := LengthFormat{}.Decode([]byte{1, 2, 3})
	if !errors.Is(err, ErrShortHeader) {
		t.Fatalf("expected ErrShortHeader, got %v", err)
	}
}

func TestLengthFormatBlank(t *testing.T) {
	if got := (LengthFormat{}).Blank().PayloadLen(); got != 0 {
		t.Fatalf("blank payload len=%d", got)
	}
}
