package generator

import "strings"

// StampMarker tags the first line of every generated file
const StampMarker = "[STAMP]"

// ParseStamp extracts the fingerprint from the first line of a generated
// file. ok is false when the line carries no stamp.
func ParseStamp(firstLine string) (fingerprint string, ok bool) {
	i := strings.Index(firstLine, StampMarker)
	if i < 0 {
		return "", false
	}
	return strings.TrimSpace(firstLine[i+len(StampMarker):]), true
}

// IsGenerated reports whether a file's first line carries a stamp
func IsGenerated(firstLine string) bool {
	return strings.Contains(firstLine, StampMarker)
}
