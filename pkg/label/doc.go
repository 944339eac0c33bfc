// Package label derives display-ready node records from raw graph input and
// implements the short/long label toggle.
//
// Every [RawNode] becomes a [DisplayNode] carrying two precomputed labels: a
// short form (title truncated to [ShortLimit] characters) and a long form
// (title word-wrapped at [WrapWidth] characters). Auxiliary lines of the raw
// label are kept verbatim below either form. A node starts out short; each
// double-click swaps the displayed label between the two fixed strings
// without recomputing them.
//
// [Store] is the live node collection backing a rendered widget. It is the
// only place display state changes, and it fans every change out to
// subscribers so the browser copy stays in sync.
package label
