// Package wire owns the frame header contract and its concrete layouts.
//
// Ownership boundary:
// - the Header/Format capability contract
// - fixed-width header layouts (length-only, sealed)
// - header validation errors
package wire
