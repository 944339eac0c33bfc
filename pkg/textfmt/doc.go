// Package textfmt provides the two text transforms used to build node labels:
// fixed-length truncation and greedy word wrapping.
//
// Lengths are measured in user-perceived characters (extended grapheme
// clusters) rather than bytes or runes, so a truncated label never ends in
// half of an emoji or a dangling combining mark:
//
//	textfmt.Truncate("a very long title", 8)   // "a very …"
//	textfmt.WrapByWords("one two three", 7)    // "one two\nthree"
//
// Both functions are pure and safe for concurrent use.
package textfmt
