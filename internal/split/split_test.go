// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package split

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/asn1spec/pkg/types"
)

func TestBlocks(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		wantNames []string
		wantWarn  string
	}{
		{
			name: "name from preceding heading",
			lines: []string{
				"TDD-Config information element",
				"-- ASN1START",
				"TDD-Config ::= SEQUENCE {}",
				"-- ASN1STOP",
			},
			wantNames: []string{"TDD-Config information element"},
		},
		{
			name: "blank lines between heading and marker are skipped",
			lines: []string{
				"PCCH-Message",
				"",
				"   ",
				"-- ASN1START",
				"PCCH-Message ::= SEQUENCE {}",
				"-- ASN1STOP",
			},
			wantNames: []string{"PCCH-Message"},
		},
		{
			name: "no preceding text falls back to positional name",
			lines: []string{
				"-- ASN1START",
				"Foo ::= INTEGER",
				"-- ASN1STOP",
			},
			wantNames: []string{"section_0"},
		},
		{
			name: "duplicate headings get numeric suffixes",
			lines: []string{
				"Conditions",
				"-- ASN1START",
				"A ::= INTEGER",
				"-- ASN1STOP",
				"Conditions",
				"-- ASN1START",
				"B ::= INTEGER",
				"-- ASN1STOP",
				"Conditions",
				"-- ASN1START",
				"C ::= INTEGER",
				"-- ASN1STOP",
			},
			wantNames: []string{"Conditions", "Conditions_1", "Conditions_2"},
		},
		{
			name: "reserved characters replaced",
			lines: []string{
				`RRC: the "setup/release" choice`,
				"-- ASN1START",
				"X ::= INTEGER",
				"-- ASN1STOP",
			},
			wantNames: []string{"RRC_ the _setup_release_ choice"},
		},
		{
			name: "unterminated block skipped with warning",
			lines: []string{
				"Heading",
				"-- ASN1START",
				"Y ::= INTEGER",
			},
			wantNames: nil,
			wantWarn:  "missing for block \"Heading\"",
		},
		{
			name: "embedded marker text does not open a block",
			lines: []string{
				"see -- ASN1START below",
				"not captured",
			},
			wantNames: nil,
		},
		{
			name: "indented marker line still matches after trimming",
			lines: []string{
				"Heading",
				"  -- ASN1START  ",
				"Z ::= INTEGER",
				"\t-- ASN1STOP",
			},
			wantNames: []string{"Heading"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var warn strings.Builder
			blocks, _ := Blocks(tt.lines, &warn)

			names := make([]string, 0, len(blocks))
			for _, b := range blocks {
				names = append(names, b.Name)
			}
			if tt.wantNames == nil {
				assert.Empty(t, names)
			} else {
				assert.Equal(t, tt.wantNames, names)
			}

			if tt.wantWarn != "" {
				assert.Contains(t, warn.String(), tt.wantWarn)
			} else {
				assert.Empty(t, warn.String())
			}
		})
	}
}

func TestBlocksContent(t *testing.T) {
	lines := []string{
		"Heading",
		"-- ASN1START",
		"Foo ::= SEQUENCE {",
		"    bar  INTEGER",
		"}",
		"",
		"   ",
		"-- ASN1STOP",
	}

	var warn strings.Builder
	blocks, _ := Blocks(lines, &warn)
	require.Len(t, blocks, 1)

	// Trailing blank lines trimmed, single trailing newline.
	assert.Equal(t, "Foo ::= SEQUENCE {\n    bar  INTEGER\n}\n", blocks[0].Content)
	assert.Equal(t, 3, blocks[0].LineCount)
	assert.Equal(t, 1, blocks[0].StartLine)
}

func TestBlocksEmptyBody(t *testing.T) {
	lines := []string{"Heading", "-- ASN1START", "-- ASN1STOP"}

	var warn strings.Builder
	blocks, _ := Blocks(lines, &warn)
	require.Len(t, blocks, 1)
	assert.Equal(t, "\n", blocks[0].Content)
	assert.Equal(t, 0, blocks[0].LineCount)
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "spec.txt")
	doc := strings.Join([]string{
		"TDD-Config information element",
		"-- ASN1START",
		"TDD-Config ::= SEQUENCE {}",
		"-- ASN1STOP",
		"",
		"PCCH-Message",
		"-- ASN1START",
		"PCCH-Message ::= SEQUENCE {}",
		"-- ASN1STOP",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(inPath, []byte(doc), 0o644))

	outDir := filepath.Join(dir, "blocks")
	var progress strings.Builder
	summary, err := File(types.SplitConfig{InputFile: inPath, OutDir: outDir}, &progress)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Written)
	assert.Equal(t, 0, summary.Skipped)

	data, err := os.ReadFile(filepath.Join(outDir, "TDD-Config information element.txt"))
	require.NoError(t, err)
	assert.Equal(t, "TDD-Config ::= SEQUENCE {}\n", string(data))

	data, err = os.ReadFile(filepath.Join(outDir, "PCCH-Message.txt"))
	require.NoError(t, err)
	assert.Equal(t, "PCCH-Message ::= SEQUENCE {}\n", string(data))
}

func TestFileNoBlocks(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(inPath, []byte("nothing here\n"), 0o644))

	var progress strings.Builder
	_, err := File(types.SplitConfig{InputFile: inPath, OutDir: filepath.Join(dir, "blocks")}, &progress)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no ASN.1 blocks found")
}

func TestFileDefaultOutDir(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })
	doc := strings.Join([]string{
		"PCCH-Message",
		"-- ASN1START",
		"PCCH-Message ::= SEQUENCE {}",
		"-- ASN1STOP",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile("spec.txt", []byte(doc), 0o644))

	var progress strings.Builder
	summary, err := File(types.SplitConfig{InputFile: "spec.txt"}, &progress)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Written)

	data, err := os.ReadFile(filepath.Join(DefaultOutDir, "PCCH-Message.txt"))
	require.NoError(t, err)
	assert.Equal(t, "PCCH-Message ::= SEQUENCE {}\n", string(data))
}

func TestFileMissingInput(t *testing.T) {
	dir := t.TempDir()
	var progress strings.Builder
	_, err := File(types.SplitConfig{InputFile: filepath.Join(dir, "absent.txt"), OutDir: filepath.Join(dir, "blocks")}, &progress)
	require.Error(t, err)
}
