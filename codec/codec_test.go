package codec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/danmuck/framewire/wire"
)

type note struct {
	From string `json:"from"`
	Body string `json:"body"`
	Seq  uint64 `json:"seq"`
}

func TestEncodeDecodeRoundTripJSON(t *testing.T) {
	c := New[note, wire.LengthHeader](wire.LengthFormat{}, JSON{})
	in := note{From: "alpha", Body: "hello over the wire", Seq: 42}

	frame, err := c.Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	headerSize := c.Format().HeaderSize()
	h, err := c.Format().Decode(frame[:headerSize])
	if err != nil {
		t.Fatalf("decode header: %v", err)
	}
	if int(h.PayloadLen()) != len(frame)-headerSize {
		t.Fatalf("declared=%d actual=%d", h.PayloadLen(), len(frame)-headerSize)
	}
	out, err := c.Decode(frame[headerSize:])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got=%+v want=%+v", out, in)
	}
}

func TestEncodeDecodeRoundTripGob(t *testing.T) {
	c := New[note, wire.SealedHeader](wire.SealedFormat{}, Gob{})
	in := note{From: "beta", Body: "binary strategy", Seq: 7}

	frame, err := c.Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := c.Decode(frame[c.Format().HeaderSize():])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got=%+v want=%+v", out, in)
	}
}

func TestHeaderMatchesSerializedLength(t *testing.T) {
	c := New[note, wire.LengthHeader](wire.LengthFormat{}, JSON{})
	in := note{From: "gamma", Body: "measure me", Seq: 3}

	h, err := c.Header(in)
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	frame, err := c.Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if int(h.PayloadLen()) != len(frame)-c.Format().HeaderSize() {
		t.Fatalf("header len=%d frame payload=%d", h.PayloadLen(), len(frame)-c.Format().HeaderSize())
	}
	if !bytes.Equal(frame[:c.Format().HeaderSize()], h.Encode()) {
		t.Fatalf("encoded frame does not start with computed header")
	}
}

func TestEncodeSerializeFailure(t *testing.T) {
	c := New[chan int, wire.LengthHeader](wire.LengthFormat{}, JSON{})
	if _, err := c.Encode(make(chan int)); !errors.Is(err, ErrSerialize) {
		t.Fatalf("expected ErrSerialize, got %v", err)
	}
	if _, err := c.Header(make(chan int)); !errors.Is(err, ErrSerialize) {
		t.Fatalf("expected ErrSerialize, got %v", err)
	}
}

func TestDecodeDeserializeFailure(t *testing.T) {
	c := New[note, wire.LengthHeader](wire.LengthFormat{}, JSON{})
	if _, err := c.Decode([]byte("{not json")); !errors.Is(err, ErrDeserialize) {
		t.Fatalf("expected ErrDeserialize, got %v", err)
	}
}
