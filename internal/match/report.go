package match

// Report carries the figures the batch run surfaces to operators: input
// sizes, matches by type and merge rate per side. Derived from a Result
// without re-running anything.
type Report struct {
	Policy            Policy  `json:"policy"`
	DetailedTotal     int     `json:"detailed_total"`
	SummaryTotal      int     `json:"summary_total"`
	Matched           int     `json:"matched"`
	ExactMatches      int     `json:"exact_matches"`
	FuzzyMatches      int     `json:"fuzzy_matches"`
	UnmatchedDetailed int     `json:"unmatched_detailed"`
	UnmatchedSummary  int     `json:"unmatched_summary"`
	DetailedMergeRate float64 `json:"detailed_merge_rate"` // percent
	SummaryMergeRate  float64 `json:"summary_merge_rate"`  // percent

	// Fuzzy quality averages, over fuzzy matches only. Zero when there
	// were none; AvgAuthorSimilarity is zero under the title-only policy.
	AvgTitleSimilarity  float64 `json:"avg_title_similarity"`
	AvgAuthorSimilarity float64 `json:"avg_author_similarity"`
	AvgScore            float64 `json:"avg_score"`
}

// Report summarizes the result. Totals count matched pairs plus unmatched
// residuals, so key collisions inflate them the same way the output tables
// do.
func (r *Result) Report() Report {
	rep := Report{
		Policy:            r.Policy,
		Matched:           len(r.Matched),
		UnmatchedDetailed: len(r.UnmatchedDetailed),
		UnmatchedSummary:  len(r.UnmatchedSummary),
	}
	rep.DetailedTotal = rep.Matched + rep.UnmatchedDetailed
	rep.SummaryTotal = rep.Matched + rep.UnmatchedSummary

	var titleSum, authorSum, scoreSum float64
	for _, c := range r.Matched {
		switch c.Type {
		case TypeExact:
			rep.ExactMatches++
		case TypeFuzzy:
			rep.FuzzyMatches++
			titleSum += c.TitleSimilarity
			authorSum += c.AuthorSimilarity
			scoreSum += c.Score
		}
	}

	if rep.FuzzyMatches > 0 {
		n := float64(rep.FuzzyMatches)
		rep.AvgTitleSimilarity = titleSum / n
		rep.AvgAuthorSimilarity = authorSum / n
		rep.AvgScore = scoreSum / n
	}

	if rep.DetailedTotal > 0 {
		rep.DetailedMergeRate = float64(rep.Matched) / float64(rep.DetailedTotal) * 100
	}
	if rep.SummaryTotal > 0 {
		rep.SummaryMergeRate = float64(rep.Matched) / float64(rep.SummaryTotal) * 100
	}

	return rep
}
