// Package textnorm cleans and folds free-text names so lookups and searches
// ignore case and stray whitespace.
package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns a caseless form of s suitable for comparisons ("Épicerie" and
// "ÉPICERIE" fold to the same value). Surrounding whitespace is trimmed and
// inner runs of spaces collapsed.
func Fold(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

// Clean trims and collapses whitespace without changing case.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Contains reports whether needle occurs in haystack ignoring case.
// An empty needle matches everything.
func Contains(haystack, needle string) bool {
	if strings.TrimSpace(needle) == "" {
		return true
	}

	return strings.Contains(Fold(haystack), Fold(needle))
}
