// Package stream owns the incremental frame reader, the queued frame
// writer, and the connection facade that pairs them.
//
// Ownership boundary:
// - the read-half state machine (buffer -> header -> payload)
// - the write-half FIFO with partial-write resumption
// - transport split/join and the Conn convenience surface
//
// The reader exclusively owns its read half and accumulation buffer; the
// writer exclusively owns its write half and pending queue. Reads and
// writes may proceed concurrently on the two halves, but operations on a
// single half are sequential: do not call Read concurrently with itself on
// one reader, nor Write concurrently with itself on one writer.
//
// The outgoing queue is unbounded. Queue always succeeds once
// serialization succeeds, so a stalled peer grows pending frames without
// limit; bounding it is the caller's responsibility.
package stream
