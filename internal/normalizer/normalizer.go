// Package normalizer canonicalizes file names and paths for stampname.
package normalizer

import (
	"golang.org/x/text/unicode/norm"
)

// Normalize rewrites a path or file name in Unicode Normalization Form KC.
// Combining sequences are composed and compatibility characters (fullwidth
// digits, ligatures, styled letters) fold to their plain forms, so names that
// render the same compare and sort the same.
func Normalize(path string) string {
	return norm.NFKC.String(path)
}

// Equivalent reports whether two names are the same after normalization.
func Equivalent(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

// NormalizeName normalizes a single path segment.
func NormalizeName(name string) string {
	return norm.NFKC.String(name)
}
