package match

// Policy selects the matching strategy. The three variants correspond to
// the data-quality scenarios the merge was run under: titles alone when the
// detailed side lacked usable authors, title+author when both were clean,
// and field-pair equality when no fuzzy tolerance was wanted.
type Policy string

const (
	// PolicyFuzzyTitle matches on composite keys, then falls back to
	// title-only similarity above a single threshold.
	PolicyFuzzyTitle Policy = "fuzzy-title"

	// PolicyFuzzyTitleAuthor matches on composite keys, then requires both
	// title and author similarity thresholds and ranks by weighted score.
	PolicyFuzzyTitleAuthor Policy = "fuzzy-title-author"

	// PolicyExactFields joins on the normalized (title, author) pair with
	// no fuzzy phase at all.
	PolicyExactFields Policy = "exact-fields"
)

// Valid reports whether p names a known policy.
func (p Policy) Valid() bool {
	switch p {
	case PolicyFuzzyTitle, PolicyFuzzyTitleAuthor, PolicyExactFields:
		return true
	}
	return false
}

// Policies lists the selectable policies, for usage strings and validation
// messages.
func Policies() []Policy {
	return []Policy{PolicyFuzzyTitle, PolicyFuzzyTitleAuthor, PolicyExactFields}
}
