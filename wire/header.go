package wire

// Header is one immutable fixed-width frame prefix declaring how many
// payload bytes follow it on the stream.
type Header interface {
	// PayloadLen reports the declared payload length in bytes.
	PayloadLen() uint64
	// Encode returns the header as a fresh byte slice.
	Encode() []byte
	// Append appends the encoded header to dst and returns the extended
	// slice, avoiding a second allocation when a payload follows.
	Append(dst []byte) []byte
}

// Format constructs and parses headers of one concrete layout. A Format is
// stateless configuration; its HeaderSize never varies between instances of
// the same layout and always equals len(h.Encode()) for every header h it
// produces.
type Format[H Header] interface {
	// New builds a header declaring payloadLen. It cannot fail: every u64
	// is representable in the fixed-width layouts this package defines.
	New(payloadLen uint64) H
	// Blank builds a header for an empty payload.
	Blank() H
	// Decode parses and fully validates exactly HeaderSize bytes. Malformed
	// input is corrupt-stream data and yields an error, never a panic.
	Decode(b []byte) (H, error)
	// HeaderSize reports the constant encoded width of this layout.
	HeaderSize() int
}
