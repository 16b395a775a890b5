// Package record holds the two catalog record types and the text
// canonicalization used to derive their comparison keys.
package record

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Missing is the placeholder both scrapers write for absent fields.
const Missing = "missing"

// strippedPunct lists punctuation that varies between the two catalogs.
// NFKC folds the full-width Latin forms first, so after normalization the
// ASCII entries also cover （）！？ etc.; the ideographic marks (、。，；：【】)
// have no compatibility decomposition and must be listed explicitly.
var strippedPunct = map[rune]bool{
	'.': true, ',': true, ';': true, ':': true, '!': true, '?': true,
	'[': true, ']': true, '(': true, ')': true, '"': true, '\'': true,
	'“': true, '”': true, '‘': true, '’': true,
	'、': true, '。': true, '，': true, '；': true, '：': true,
	'！': true, '？': true, '【': true, '】': true, '（': true, '）': true,
}

// IsMissing reports whether a scraped value encodes an absent field.
func IsMissing(text string) bool {
	t := strings.TrimSpace(text)
	return t == "" || strings.EqualFold(t, Missing)
}

// Normalize canonicalizes free text for comparison: the "missing" sentinel
// maps to the empty string, then NFKC, whitespace collapse, lowercasing and
// punctuation stripping. Idempotent, never fails.
func Normalize(text string) string {
	if IsMissing(text) {
		return ""
	}

	text = norm.NFKC.String(text)
	text = strings.ToLower(strings.Join(strings.Fields(text), " "))

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strippedPunct[r] {
			continue
		}
		b.WriteRune(r)
	}

	return strings.TrimSpace(b.String())
}
