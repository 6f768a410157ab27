// Package skills provides skill-string normalization and the lightweight
// similarity measures shared by both scorers.
package skills

import (
	"regexp"
	"strings"
)

var nonSemantic = regexp.MustCompile(`[^\w\s\-\+\#\./]+`)

var whitespace = regexp.MustCompile(`\s+`)

// Normalize lowercases and trims a single skill string.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeSet normalizes every entry and drops case-insensitive duplicates
// while preserving the original order.
func NormalizeSet(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		n := Normalize(s)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// CleanText applies the minimal preprocessing used to build text blobs:
// lowercase, collapse runs of whitespace, and replace characters outside
// word characters, hyphen, plus, hash, slash and dot with spaces.
func CleanText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSemantic.ReplaceAllString(s, " ")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokens splits cleaned text into word tokens.
func Tokens(s string) []string {
	cleaned := CleanText(s)
	if cleaned == "" {
		return nil
	}
	return strings.Fields(cleaned)
}

// TokenSet returns the distinct word tokens of s.
func TokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range Tokens(s) {
		set[t] = struct{}{}
	}
	return set
}
