// Package match reconciles the two scraped catalogs: an exact
// composite-key phase followed by a policy-dependent fuzzy fallback,
// producing matched pairs and the unmatched residuals of both sides.
package match

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ncl-data/nclmerge/internal/record"
	"github.com/ncl-data/nclmerge/internal/tracing"
)

// Default acceptance thresholds, as tuned against the scraped catalogs.
const (
	DefaultTitleThreshold  = 0.85
	DefaultAuthorThreshold = 0.80
)

// Type tags how a pair was matched.
type Type string

const (
	TypeExact Type = "exact"
	TypeFuzzy Type = "fuzzy"
)

// Candidate pairs one detailed record with one summary record.
type Candidate struct {
	Detailed record.DetailedRecord
	Summary  record.SummaryRecord
	Type     Type
	// Score is 1.0 for exact matches; for fuzzy matches it is the title
	// ratio (title-only policy) or the weighted combined score.
	Score            float64
	TitleSimilarity  float64
	AuthorSimilarity float64 // meaningful for exact and title+author matches
}

// Result partitions the inputs: every input record appears in exactly one
// of Matched (as one side of a pair), UnmatchedDetailed or UnmatchedSummary.
// Key collisions can place a record in several Matched pairs; it still
// never appears in an unmatched residual.
type Result struct {
	Policy            Policy
	Matched           []Candidate
	UnmatchedDetailed []record.DetailedRecord
	UnmatchedSummary  []record.SummaryRecord
}

// Progress reports fuzzy-phase progress, one callback per detailed record.
type Progress struct {
	Done  int
	Total int
}

// Options configures a Matcher. Zero thresholds select the defaults.
type Options struct {
	Policy          Policy
	TitleThreshold  float64
	AuthorThreshold float64

	// ExcludeMatchedSummary removes a summary record from the fuzzy
	// candidate pool once matched. The reference behavior leaves it in,
	// so one summary record can be the best match for several detailed
	// records; keep this off to reproduce that.
	ExcludeMatchedSummary bool

	OnProgress func(Progress)
}

// Matcher runs the two-phase match. Construct with New; options are
// validated there, never during a run.
type Matcher struct {
	opts Options
}

// New validates opts and returns a Matcher. Unknown policies and
// thresholds outside [0,1] are rejected here, before any records are seen.
func New(opts Options) (*Matcher, error) {
	if !opts.Policy.Valid() {
		return nil, &OptionError{Option: "policy", Value: opts.Policy, Err: ErrUnknownPolicy}
	}
	if opts.TitleThreshold == 0 {
		opts.TitleThreshold = DefaultTitleThreshold
	}
	if opts.AuthorThreshold == 0 {
		opts.AuthorThreshold = DefaultAuthorThreshold
	}
	if opts.TitleThreshold < 0 || opts.TitleThreshold > 1 {
		return nil, &OptionError{Option: "title_threshold", Value: opts.TitleThreshold, Err: ErrInvalidThreshold}
	}
	if opts.AuthorThreshold < 0 || opts.AuthorThreshold > 1 {
		return nil, &OptionError{Option: "author_threshold", Value: opts.AuthorThreshold, Err: ErrInvalidThreshold}
	}
	return &Matcher{opts: opts}, nil
}

// Run matches detailed against summary and returns the partitioned result.
// Both inputs must be non-empty: matching one catalog against nothing is
// reported, not silently processed into zero matches.
func (m *Matcher) Run(ctx context.Context, detailed []record.DetailedRecord, summary []record.SummaryRecord) (*Result, error) {
	if len(detailed) == 0 {
		return nil, ErrEmptyDetailed
	}
	if len(summary) == 0 {
		return nil, ErrEmptySummary
	}

	ctx, span := tracing.StartSpan(ctx, "match.Run",
		tracing.WithAttributes(
			attribute.String("match.policy", string(m.opts.Policy)),
			attribute.Int("match.detailed", len(detailed)),
			attribute.Int("match.summary", len(summary)),
		))
	defer span.End()

	res := &Result{Policy: m.opts.Policy}
	if m.opts.Policy == PolicyExactFields {
		m.exactFields(detailed, summary, res)
	} else {
		restD, restS := m.exactPhase(ctx, detailed, summary, res)
		m.fuzzyPhase(ctx, restD, restS, res)
	}

	tracing.AddSpanAttributes(span,
		attribute.Int("match.matched", len(res.Matched)),
		attribute.Int("match.unmatched_detailed", len(res.UnmatchedDetailed)),
		attribute.Int("match.unmatched_summary", len(res.UnmatchedSummary)),
	)
	tracing.SetSpanOK(span)
	return res, nil
}

// exactPhase inner-joins both sides on the composite key. A key shared by
// several records on either side yields the full cross product, mirroring
// relational join semantics. Records whose key joined at all are consumed;
// the remainders feed the fuzzy phase.
func (m *Matcher) exactPhase(ctx context.Context, detailed []record.DetailedRecord, summary []record.SummaryRecord, res *Result) (restD []record.DetailedRecord, restS []record.SummaryRecord) {
	_, span := tracing.StartSpan(ctx, "match.exactPhase")
	defer span.End()

	byKey := make(map[string][]record.SummaryRecord, len(summary))
	for _, s := range summary {
		byKey[s.CompositeKey] = append(byKey[s.CompositeKey], s)
	}

	matchedKeys := make(map[string]bool)
	for _, d := range detailed {
		partners := byKey[d.CompositeKey]
		if len(partners) == 0 {
			continue
		}
		matchedKeys[d.CompositeKey] = true
		for _, s := range partners {
			res.Matched = append(res.Matched, Candidate{
				Detailed:         d,
				Summary:          s,
				Type:             TypeExact,
				Score:            1.0,
				TitleSimilarity:  1.0,
				AuthorSimilarity: 1.0,
			})
		}
	}

	for _, d := range detailed {
		if !matchedKeys[d.CompositeKey] {
			restD = append(restD, d)
		}
	}
	for _, s := range summary {
		if !matchedKeys[s.CompositeKey] {
			restS = append(restS, s)
		}
	}

	tracing.AddSpanAttributes(span, attribute.Int("match.exact", len(res.Matched)))
	return restD, restS
}

// fuzzyPhase scans every remaining summary record for each remaining
// detailed record. A pair is skipped when both years are known and differ.
// Candidates are visited in summary input order and only a strictly
// greater score displaces the current best, so the earliest of
// equal-scoring candidates wins.
func (m *Matcher) fuzzyPhase(ctx context.Context, restD []record.DetailedRecord, restS []record.SummaryRecord, res *Result) {
	_, span := tracing.StartSpan(ctx, "match.fuzzyPhase",
		tracing.WithAttributes(
			attribute.Int("match.rest_detailed", len(restD)),
			attribute.Int("match.rest_summary", len(restS)),
		))
	defer span.End()

	dualField := m.opts.Policy == PolicyFuzzyTitleAuthor

	normTitleS := make([]string, len(restS))
	normAuthorS := make([]string, len(restS))
	for i, s := range restS {
		normTitleS[i] = record.Normalize(s.Title)
		if dualField {
			normAuthorS[i] = record.Normalize(s.Author)
		}
	}

	used := make([]bool, len(restS))
	for di, d := range restD {
		titleD := record.Normalize(d.TitleCleaned)
		authorD := record.Normalize(d.AuthorCleaned)

		best := -1
		var bestScore, bestTitleSim, bestAuthorSim float64
		for si := range restS {
			if m.opts.ExcludeMatchedSummary && used[si] {
				continue
			}
			if d.ExtractedYear != 0 && restS[si].Year != 0 && d.ExtractedYear != restS[si].Year {
				continue
			}

			titleSim := Ratio(titleD, normTitleS[si])
			if dualField {
				authorSim := Ratio(authorD, normAuthorS[si])
				combined := CombinedScore(titleSim, authorSim)
				if titleSim >= m.opts.TitleThreshold && authorSim >= m.opts.AuthorThreshold && combined > bestScore {
					best, bestScore, bestTitleSim, bestAuthorSim = si, combined, titleSim, authorSim
				}
			} else if titleSim > m.opts.TitleThreshold && titleSim > bestScore {
				best, bestScore, bestTitleSim = si, titleSim, titleSim
			}
		}

		if best >= 0 {
			used[best] = true
			res.Matched = append(res.Matched, Candidate{
				Detailed:         d,
				Summary:          restS[best],
				Type:             TypeFuzzy,
				Score:            bestScore,
				TitleSimilarity:  bestTitleSim,
				AuthorSimilarity: bestAuthorSim,
			})
		} else {
			res.UnmatchedDetailed = append(res.UnmatchedDetailed, d)
		}

		if m.opts.OnProgress != nil {
			m.opts.OnProgress(Progress{Done: di + 1, Total: len(restD)})
		}
	}

	for si, s := range restS {
		if !used[si] {
			res.UnmatchedSummary = append(res.UnmatchedSummary, s)
		}
	}
}

// exactFields joins directly on the normalized (title, author) pair with
// cross-product semantics and no fuzzy fallback.
func (m *Matcher) exactFields(detailed []record.DetailedRecord, summary []record.SummaryRecord, res *Result) {
	type pair struct{ title, author string }

	byPair := make(map[pair][]record.SummaryRecord, len(summary))
	for _, s := range summary {
		k := pair{record.Normalize(s.Title), record.Normalize(s.Author)}
		byPair[k] = append(byPair[k], s)
	}

	matchedPairs := make(map[pair]bool)
	for _, d := range detailed {
		k := pair{record.Normalize(d.TitleCleaned), record.Normalize(d.AuthorCleaned)}
		partners := byPair[k]
		if len(partners) == 0 {
			continue
		}
		matchedPairs[k] = true
		for _, s := range partners {
			res.Matched = append(res.Matched, Candidate{
				Detailed:         d,
				Summary:          s,
				Type:             TypeExact,
				Score:            1.0,
				TitleSimilarity:  1.0,
				AuthorSimilarity: 1.0,
			})
		}
	}

	for _, d := range detailed {
		if !matchedPairs[pair{record.Normalize(d.TitleCleaned), record.Normalize(d.AuthorCleaned)}] {
			res.UnmatchedDetailed = append(res.UnmatchedDetailed, d)
		}
	}
	for _, s := range summary {
		if !matchedPairs[pair{record.Normalize(s.Title), record.Normalize(s.Author)}] {
			res.UnmatchedSummary = append(res.UnmatchedSummary, s)
		}
	}
}
