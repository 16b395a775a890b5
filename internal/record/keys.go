package record

import "strconv"

// UnknownYear is the key component used when no plausible year was found.
const UnknownYear = "unknown"

func yearComponent(year int) string {
	if year == 0 {
		return UnknownYear
	}
	return strconv.Itoa(year)
}

// CompositeKey builds the exact-match grouping key from a raw title, a raw
// author field and a year (0 = unknown). Pure: equal inputs always produce
// equal keys.
func CompositeKey(title, author string, year int) string {
	return Normalize(title) + "|" + Normalize(ExtractAuthor(author)) + "|" + yearComponent(year)
}

// SimpleKey is the looser title+year key; it ignores the author and only
// scopes fuzzy-match candidate generation.
func SimpleKey(title string, year int) string {
	return Normalize(title) + "|" + yearComponent(year)
}
