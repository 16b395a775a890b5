package record

import "strings"

// Plausibility bounds for publication years; 4-digit tokens outside this
// range are treated as not-a-year.
const (
	YearMin = 1800
	YearMax = 2030
)

// authorMarkers is the union of the authorship-role marker sets used by the
// two scraper generations (著/編/主編/撰/写/作者 plus the simplified 编).
// Stripped as a trailing run so the multi-rune markers fall off too.
var authorMarkers = map[rune]bool{
	'著': true, '編': true, '编': true, '主': true,
	'撰': true, '写': true, '作': true, '者': true,
}

// authorDelimiters separate multiple authors; the first segment wins.
const authorDelimiters = ",;；"

// ExtractYear finds the first run of four consecutive ASCII digits in text.
// Returns (0, false) when no such run exists or the value falls outside
// [YearMin, YearMax]. Only the first run is considered, matching the
// upstream extraction: a bogus leading token masks any later real year.
func ExtractYear(text string) (int, bool) {
	if IsMissing(text) {
		return 0, false
	}

	run := 0
	year := 0
	for _, r := range text {
		if r >= '0' && r <= '9' {
			run++
			year = year*10 + int(r-'0')
			if run == 4 {
				if year >= YearMin && year <= YearMax {
					return year, true
				}
				return 0, false
			}
		} else {
			run = 0
			year = 0
		}
	}

	return 0, false
}

// ExtractAuthor cleans a raw author field: trailing authorship-role markers
// are stripped, and when several authors are listed only the first is kept.
func ExtractAuthor(text string) string {
	if IsMissing(text) {
		return ""
	}

	runes := []rune(strings.TrimSpace(text))
	for len(runes) > 0 && authorMarkers[runes[len(runes)-1]] {
		runes = runes[:len(runes)-1]
	}

	s := string(runes)
	if i := strings.IndexAny(s, authorDelimiters); i >= 0 {
		s = s[:i]
	}

	return strings.TrimSpace(s)
}

// SplitTitleAuthor splits a combined "title / author" string on the first
// slash only; titles may legitimately contain further slashes. Without a
// slash the whole text is the title and the author is empty.
func SplitTitleAuthor(combined string) (title, author string) {
	before, after, found := strings.Cut(combined, "/")
	if !found {
		return strings.TrimSpace(combined), ""
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}
