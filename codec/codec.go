package codec

import (
	"errors"
	"fmt"

	"github.com/danmuck/framewire/wire"
)

var (
	ErrSerialize   = errors.New("codec: serialize failed")
	ErrDeserialize = errors.New("codec: deserialize failed")
)

// Codec frames payloads of type T with headers of layout H. The header type
// is carried purely by the type parameter; no header is stored alongside a
// payload. A header computed for a payload reflects its serialized length at
// computation time only.
type Codec[T any, H wire.Header] struct {
	format     wire.Format[H]
	serializer Serializer
}

func New[T any, H wire.Header](format wire.Format[H], serializer Serializer) Codec[T, H] {
	return Codec[T, H]{format: format, serializer: serializer}
}

// Format exposes the bound header layout.
func (c Codec[T, H]) Format() wire.Format[H] {
	return c.format
}

// Header serializes payload, measures it, and builds the matching header.
// The serialized bytes are not retained.
func (c Codec[T, H]) Header(payload T) (H, error) {
	var zero H
	body, err := c.serializer.Marshal(payload)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return c.format.New(uint64(len(body))), nil
}

// Encode produces header bytes followed by payload bytes as one contiguous
// slice, header first.
func (c Codec[T, H]) Encode(payload T) ([]byte, error) {
	body, err := c.serializer.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	h := c.format.New(uint64(len(body)))
	out := make([]byte, 0, c.format.HeaderSize()+len(body))
	out = h.Append(out)
	return append(out, body...), nil
}

// Decode reconstructs a payload from its serialized bytes. The caller must
// have already stripped the header; body holds payload bytes only.
func (c Codec[T, H]) Decode(body []byte) (T, error) {
	var v T
	if err := c.serializer.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("%w: %w", ErrDeserialize, err)
	}
	return v, nil
}
