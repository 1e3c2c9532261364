// Package sourcemap reads, folds and writes version-3 source maps.
//
// Positions are 0-based for both lines and columns everywhere in this package;
// the on-disk "mappings" string is relative-encoded base64 VLQ as usual.
//
// Consumer answers "which original position produced this generated position"
// with greatest-lower-bound lookup on the generated line. Generator collects
// mappings and can fold an upstream map into itself (ApplyMap) so that a chain
// of text transforms ends up pointing at the first stage's input.
package sourcemap
