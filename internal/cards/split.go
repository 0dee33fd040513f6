// Package cards splits a cell listing several card names into one name per
// token.
package cards

import (
	"regexp"
	"strings"
	"unicode"
)

// MissingText is what a missing cell reads as when it is tokenized literally.
const MissingText = "nan"

// space covers everything the source data treats as whitespace, including the
// non-breaking space common in latin-1 exports and the \x1c-\x1f separators.
const space = `[\s\v\x{1c}-\x{1f}\x{85}\x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}]`

var (
	lineBreaks = regexp.MustCompile(`[\r\n]+`)
	andWord    = regexp.MustCompile(`(?i)` + space + `+and` + space + `+`)
)

// Split returns the card names in raw, in order of appearance.
//
// Line breaks and the word "and" surrounded by whitespace act as commas. A
// comma separates names unless the next ')' after it comes before the next
// '(', so a comma inside "(cashback, 5%)" stays in the name. Names are trimmed
// and empty names dropped; duplicates are kept.
func Split(raw string) []string {
	normalized := lineBreaks.ReplaceAllString(raw, ",")
	normalized = andWord.ReplaceAllString(normalized, ",")

	var tokens []string
	start := 0
	for i := 0; i < len(normalized); i++ {
		if normalized[i] != ',' || insideParens(normalized[i+1:]) {
			continue
		}
		tokens = appendToken(tokens, normalized[start:i])
		start = i + 1
	}
	return appendToken(tokens, normalized[start:])
}

// insideParens reports whether rest closes a parenthesis before opening one.
func insideParens(rest string) bool {
	i := strings.IndexAny(rest, "()")
	return i >= 0 && rest[i] == ')'
}

func appendToken(tokens []string, s string) []string {
	s = strings.TrimFunc(s, isSpace)
	if s == "" {
		return tokens
	}
	return append(tokens, s)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
