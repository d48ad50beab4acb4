// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "strings"

// OutputPath derives the extraction output name from the input path: the
// path is truncated at the first '.' and ".asn" is appended. A path with no
// dot gets ".asn" appended whole.
//
// The cut happens at the first dot anywhere in the path, not the last dot
// of the file name, so a dotted directory component shortens the result
// ("specs.v2/36331.txt" becomes "specs.asn"). Long-standing behavior that
// downstream tooling depends on; do not change to filepath.Ext semantics.
func OutputPath(input string) string {
	if i := strings.IndexByte(input, '.'); i >= 0 {
		return input[:i] + ".asn"
	}
	return input + ".asn"
}
