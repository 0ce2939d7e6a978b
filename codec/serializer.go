package codec

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
)

// Serializer is one pluggable payload encoding strategy. Implementations
// must be safe for concurrent use; both provided strategies are stateless.
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSON serializes payloads with encoding/json.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSON) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Gob serializes payloads with encoding/gob, a denser binary strategy for
// links where both peers are Go.
type Gob struct{}

func (Gob) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Gob) Unmarshal(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
