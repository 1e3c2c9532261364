// Package diag turns raw compiler diagnostics into user-facing errors that point
// at the user's original files.
//
// # Data model
//
// Diagnostic is the raw record handed over by the compiler host: a code, a
// message chain and, for file diagnostics, a file name with a byte offset and
// length into the text the compiler saw.
//
// TranslatedError is what users see: the flattened message prefixed with a
// location, the original file identity, a host-relative file name and 0-based
// start/end positions computed on the original file's line layout.
//
// The two are separate values. Displays get the TranslatedError; Reporter
// implementations receive both.
//
// # Taxonomy
//
//   - Program diagnostics have no file; the message is "<code> <text>".
//   - File diagnostics carry a span and are resolved through the run's
//     source.FileSet. Unresolved files keep the compiler's file name.
//
// Diagnostics are data. Nothing in this package fails a build; callers decide.
package diag
