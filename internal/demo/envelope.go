// Package demo holds the message schema shared by the echo demo binaries.
package demo

import "time"

// Envelope is the payload the echo binaries frame over the wire.
type Envelope struct {
	From   string    `json:"from"`
	Body   string    `json:"body"`
	Seq    uint64    `json:"seq"`
	SentAt time.Time `json:"sent_at"`
}
