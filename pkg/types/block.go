// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the asn1spec stages.
package types

// Block is one ASN.1 definition extracted from a specification document,
// the span of lines strictly between a "-- ASN1START" marker and the
// matching "-- ASN1STOP" marker.
type Block struct {
	// ID is a stable identifier, consistent across re-ingestions of
	// unchanged content: the first 12 hex characters of
	// SHA-256(source + name + content).
	ID string `json:"id" yaml:"id"`

	// Name identifies the block within its source document. It is derived
	// from the last non-empty line preceding the block's start marker
	// (e.g. "TDD-Config information element"), sanitized for use as a
	// file name.
	Name string `json:"name" yaml:"name"`

	// Source labels the specification version the block came from
	// (e.g. "36331-j00").
	Source string `json:"source" yaml:"source"`

	// StartLine is the zero-based line index of the start marker in the
	// source document. Zero when the block was loaded from a split file
	// rather than scanned from a document.
	StartLine int `json:"start_line,omitempty" yaml:"start_line,omitempty"`

	// LineCount is the number of content lines in the block.
	LineCount int `json:"line_count" yaml:"line_count"`

	// Content is the block body: the lines between the markers, trailing
	// blank lines trimmed, newline-terminated.
	Content string `json:"content" yaml:"content"`
}
