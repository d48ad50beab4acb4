// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls ASN.1 definition text out of plain-text 3GPP
// specification documents. Definitions are delimited in the document by the
// literal marker lines "-- ASN1START" and "-- ASN1STOP"; everything strictly
// between a start marker and the following stop marker is ASN.1 source.
//
// Extraction is a single pass: lines inside marker regions are collected in
// document order into one buffer and written out with no separators between
// regions. Marker lines themselves are never emitted.
package extract

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/pdiddy/asn1spec/pkg/types"
)

const (
	// StartMarker opens a capture region. Matched as a substring so a
	// marker embedded in a longer line still counts.
	StartMarker = "-- ASN1START"

	// StopMarker closes a capture region.
	StopMarker = "-- ASN1STOP"
)

// maxLineSize bounds a single input line. Specification exports carry very
// long table rows, well past bufio's 64 KiB default.
const maxLineSize = 4 * 1024 * 1024

// The two fatal conditions. Everything else (no markers, empty input, a
// start marker with no stop) is normal completion.
var (
	// ErrInputOpen reports that the input file could not be opened for reading.
	ErrInputOpen = errors.New("please check that the input file is correct")

	// ErrOutputCreate reports that the output file could not be created.
	ErrOutputCreate = errors.New("the output file cannot be created here")
)

// LineScanner returns a line scanner sized for specification documents.
func LineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return sc
}

// scanState tracks whether the current line lies inside a capture region.
type scanState int

const (
	stateIdle scanState = iota
	stateCapturing
)

// Scan reads r line by line and returns the lines inside capture regions,
// in document order, without their line terminators. A region left open at
// end of input is not an error; its lines up to that point are returned.
func Scan(r io.Reader) ([]string, error) {
	var captured []string

	state := stateIdle
	sc := LineScanner(r)

	for sc.Scan() {
		line := sc.Text()

		if state == stateIdle {
			if strings.Contains(line, StartMarker) {
				state = stateCapturing
			}
			continue
		}

		if strings.Contains(line, StopMarker) {
			state = stateIdle
			continue
		}
		captured = append(captured, line)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning input: %w", err)
	}
	return captured, nil
}

// Run scans r and writes the captured lines to w, one per line, each
// terminated by a newline. It returns the number of lines written.
func Run(r io.Reader, w io.Writer) (int, error) {
	lines, err := Scan(r)
	if err != nil {
		return 0, err
	}

	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return 0, fmt.Errorf("writing output: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return 0, fmt.Errorf("writing output: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("writing output: %w", err)
	}
	return len(lines), nil
}

// File extracts cfg.InputFile into cfg.OutputFile, deriving the output name
// from the input path (OutputPath) when no override is set. The output file
// is created (and truncated) before scanning begins, so a failed run can
// leave an empty or partial file behind; callers treat exit status, not
// file presence, as the success signal. Returns the resolved output path
// and the number of ASN.1 lines written.
func File(cfg types.ExtractConfig) (string, int, error) {
	outputPath := cfg.OutputFile
	if outputPath == "" {
		outputPath = OutputPath(cfg.InputFile)
	}

	in, err := os.Open(cfg.InputFile)
	if err != nil {
		return outputPath, 0, fmt.Errorf("%s: %w", cfg.InputFile, ErrInputOpen)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return outputPath, 0, fmt.Errorf("%s: %w", outputPath, ErrOutputCreate)
	}

	n, err := Run(DecodeBOM(in), out)
	if err != nil {
		out.Close()
		return outputPath, 0, err
	}

	if err := out.Close(); err != nil {
		return outputPath, 0, fmt.Errorf("closing %s: %w", outputPath, err)
	}
	return outputPath, n, nil
}

// DecodeBOM wraps r so that a UTF-8 or UTF-16 byte-order mark is honored and
// the stream is decoded to UTF-8. Word exports of 3GPP specifications are
// commonly UTF-16; input without a BOM passes through unchanged.
func DecodeBOM(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}
