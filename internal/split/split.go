// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package split writes each ASN.1 definition in a specification document to
// its own file. A block is named after the last non-empty line before its
// "-- ASN1START" marker, which in 3GPP specifications is the definition's
// heading (e.g. "TDD-Config information element").
//
// Unlike package extract, split matches marker lines exactly (after
// trimming) and skips a block whose stop marker is missing. The two stages
// have always disagreed here; both behaviors are load-bearing.
package split

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/asn1spec/internal/extract"
	"github.com/pdiddy/asn1spec/pkg/types"
)

// Summary holds counts from a splitting run.
type Summary struct {
	Written int
	Skipped int
}

// Total returns the number of blocks encountered.
func (s Summary) Total() int {
	return s.Written + s.Skipped
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	reservedChars = regexp.MustCompile(`[\\/:*?"<>|]`)
)

// Blocks scans document lines and returns one Block per well-formed marker
// pair, in document order, plus the count of skipped blocks. A start marker
// with no stop marker produces a warning on w, is skipped, and ends the scan.
func Blocks(lines []string, w io.Writer) ([]types.Block, int) {
	var blocks []types.Block
	collisions := make(map[string]int)

	for i := 0; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != extract.StartMarker {
			continue
		}

		header := findHeader(lines, i)

		j := i + 1
		for j < len(lines) && strings.TrimSpace(lines[j]) != extract.StopMarker {
			j++
		}
		if j == len(lines) {
			fmt.Fprintf(w, "warning: %q missing for block %q, skipping\n", extract.StopMarker, header)
			return blocks, 1
		}

		body := lines[i+1 : j]
		content := strings.TrimRight(strings.Join(body, "\n"), " \t\r\n") + "\n"

		lineCount := 0
		if content != "\n" {
			lineCount = strings.Count(content, "\n")
		}

		blocks = append(blocks, types.Block{
			Name:      sanitizeName(header, collisions),
			StartLine: i,
			LineCount: lineCount,
			Content:   content,
		})

		i = j
	}

	return blocks, 0
}

// findHeader walks backwards from the start marker to the nearest non-empty
// line. A block with no preceding text falls back to a positional name.
func findHeader(lines []string, startIndex int) string {
	for i := startIndex - 1; i >= 0; i-- {
		if candidate := strings.TrimSpace(lines[i]); candidate != "" {
			return candidate
		}
	}
	return fmt.Sprintf("section_%d", startIndex)
}

// sanitizeName turns a block header into a safe file name stem. Whitespace
// runs collapse to a single space, characters outside printable ASCII and
// the filesystem-reserved set become underscores, and repeated names get a
// numeric suffix in encounter order.
func sanitizeName(header string, collisions map[string]int) string {
	cleaned := strings.TrimSpace(whitespaceRun.ReplaceAllString(header, " "))

	var b strings.Builder
	for _, ch := range cleaned {
		if ch >= 32 && ch < 127 {
			b.WriteRune(ch)
		} else {
			b.WriteByte('_')
		}
	}
	cleaned = reservedChars.ReplaceAllString(b.String(), "_")

	if cleaned == "" {
		cleaned = "section"
	}

	count := collisions[cleaned]
	collisions[cleaned] = count + 1
	if count > 0 {
		cleaned = fmt.Sprintf("%s_%d", cleaned, count)
	}
	return cleaned
}

// DefaultOutDir receives block files when cfg.OutDir is unset.
const DefaultOutDir = "blocks"

// File splits cfg.InputFile into one file per block under cfg.OutDir,
// creating the directory if needed. Progress and warnings go to w. Returns
// a summary of written and skipped blocks.
func File(cfg types.SplitConfig, w io.Writer) (Summary, error) {
	outDir := cfg.OutDir
	if outDir == "" {
		outDir = DefaultOutDir
	}

	in, err := os.Open(cfg.InputFile)
	if err != nil {
		return Summary{}, fmt.Errorf("%s: %w", cfg.InputFile, extract.ErrInputOpen)
	}
	defer in.Close()

	lines, err := readLines(extract.DecodeBOM(in))
	if err != nil {
		return Summary{}, err
	}

	blocks, skipped := Blocks(lines, w)
	if len(blocks) == 0 {
		return Summary{Skipped: skipped}, fmt.Errorf("no ASN.1 blocks found in %s", cfg.InputFile)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating output directory: %w", err)
	}

	summary := Summary{Skipped: skipped}
	for _, blk := range blocks {
		path := filepath.Join(outDir, blk.Name+".txt")
		if err := os.WriteFile(path, []byte(blk.Content), 0o644); err != nil {
			return summary, fmt.Errorf("writing block %q: %w", blk.Name, err)
		}
		fmt.Fprintf(w, "wrote %s (%d lines)\n", path, blk.LineCount)
		summary.Written++
	}

	return summary, nil
}

// readLines collects all lines from r without their terminators.
func readLines(r io.Reader) ([]string, error) {
	sc := extract.LineScanner(r)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning input: %w", err)
	}
	return lines, nil
}
