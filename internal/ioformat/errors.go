// Package ioformat reads and writes the instance/scenario file formats
// from spec.md §6 and the CSV benchmark result log. It is a boundary
// package: internal/core and internal/algo know nothing about files.
package ioformat

import "errors"

// Sentinel errors for malformed instance/scenario files (spec.md §7
// "Parse error" — fatal for that file, the caller continues with the
// next one).
var (
	// ErrMalformedHeader indicates a map/scenario header line did not
	// match the expected format.
	ErrMalformedHeader = errors.New("ioformat: malformed header")
	// ErrRowLengthMismatch indicates a map row's length did not match
	// the declared width.
	ErrRowLengthMismatch = errors.New("ioformat: row length does not match declared width")
	// ErrRowCountMismatch indicates fewer map rows were present than the
	// declared height.
	ErrRowCountMismatch = errors.New("ioformat: row count does not match declared height")
	// ErrMalformedAgentLine indicates an agent/scenario line did not
	// parse into the expected number of fields.
	ErrMalformedAgentLine = errors.New("ioformat: malformed agent line")
	// ErrMissingMapName indicates a .scen export was requested without a
	// map file name (spec.md §6 "`.scen` requires a map file name").
	ErrMissingMapName = errors.New("ioformat: .scen export requires a map name")
)
