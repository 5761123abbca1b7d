// Package table is the pipeline glue between the engine and the
// filesystem: it decodes the three canonical CSV tables produced by the
// cleaning stage and encodes the two risk rollup tables the engine
// exposes downstream.
//
// Decoding is header-driven, not positional, so column order in the
// cleaned files does not matter. A required column missing from a
// header is an upstream contract violation and surfaces as the engine's
// SCHEMA_MISSING_COLUMNS error, naming both the missing and the
// actually-present columns. Anything beyond the required set is
// ignored.
//
// Output files are written via temp-file-and-rename so a failed run
// never leaves a partial table behind.
package table
