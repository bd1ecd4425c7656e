// Package segment maintains a single document line as grapheme cluster
// fragments. Every fragment records its byte offset in the raw string, the
// cluster itself, the number of terminal cells it occupies, and an optional
// display-only replacement glyph for characters a terminal cannot show
// directly (tabs, control characters, zero-width clusters).
//
// The package reconciles the three index spaces an editor juggles per line:
// raw byte offsets (what string APIs and annotations use), grapheme indices
// (what the cursor addresses), and rendered columns (what the terminal
// draws). Fragments are rebuilt in full after every mutation, so the
// fragment list never lags behind the raw string.
package segment
