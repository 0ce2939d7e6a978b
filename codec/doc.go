// Package codec binds a header layout and a serialization strategy to an
// application payload type, producing and consuming contiguous
// [header][payload] byte sequences.
package codec
