package wire

import "errors"

var (
	ErrShortHeader      = errors.New("wire: short header")
	ErrBadMagic         = errors.New("wire: invalid magic")
	ErrChecksumMismatch = errors.New("wire: header checksum mismatch")
	ErrLengthOutOfRange = errors.New("wire: payload length out of range")
)
