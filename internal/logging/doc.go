// Package logging builds the slog handlers used by sqlite-builder.
//
// Records are written as text when the destination is a terminal and as
// JSON otherwise, so the same binary logs readably in a shell and parseably
// in CI. Attributes are grouped under the binary name.
package logging
