// Package buffer implements the in-memory styled document model for inkwell.
//
// Coordinates are 0-based (Line, Char) in runes. Ranges are half-open
// selections in document coordinates: [Start, End).
//
// All content mutation goes through the edit operations on Buffer (Insert,
// Delete, Replace, ApplyStyle, RemoveStyle). Each operation is recorded in the
// undo log and published synchronously to subscribers before it returns.
//
// A Buffer is not safe for concurrent use. Callers serialize access on a
// single writer (typically the UI update loop).
package buffer
