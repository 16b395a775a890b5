package record

// DetailedRecord is one row from the per-record browsing source. Immutable
// once built; the derived fields are computed exactly once at ingestion.
type DetailedRecord struct {
	Subject       string
	URL           string
	RecordNumber  string
	Title         string // raw "title / author" text as scraped
	TitleCleaned  string
	AuthorCleaned string
	Language      string
	Imprint       string
	Publication   string
	ExtractedYear int // 0 when no plausible year was found
	CompositeKey  string
	SimpleKey     string
}

// NewDetailedRecord derives year and comparison keys from the scraped
// fields. The year comes from the imprint text, falling back to the
// publication text.
func NewDetailedRecord(subject, url, recordNumber, title, titleCleaned, authorCleaned, language, imprint, publication string) DetailedRecord {
	year, ok := ExtractYear(imprint)
	if !ok {
		year, _ = ExtractYear(publication)
	}

	return DetailedRecord{
		Subject:       subject,
		URL:           url,
		RecordNumber:  recordNumber,
		Title:         title,
		TitleCleaned:  titleCleaned,
		AuthorCleaned: authorCleaned,
		Language:      language,
		Imprint:       imprint,
		Publication:   publication,
		ExtractedYear: year,
		CompositeKey:  CompositeKey(titleCleaned, authorCleaned, year),
		SimpleKey:     SimpleKey(titleCleaned, year),
	}
}

// SummaryRecord is one row from the paginated listing source.
type SummaryRecord struct {
	Subject      string
	URL          string
	Title        string
	Author       string
	Publisher    string
	RawYear      string // as scraped, possibly "Unknown"
	CallNumber   string
	Year         int // 0 when the raw year is absent or implausible
	CompositeKey string
	SimpleKey    string
}

// NewSummaryRecord derives the integer year and comparison keys. The raw
// year string goes through the same bounded extraction as detailed-side
// text, so implausible values become unknown instead of leaking through.
func NewSummaryRecord(subject, url, title, author, publisher, rawYear, callNumber string) SummaryRecord {
	year, _ := ExtractYear(rawYear)

	return SummaryRecord{
		Subject:      subject,
		URL:          url,
		Title:        title,
		Author:       author,
		Publisher:    publisher,
		RawYear:      rawYear,
		CallNumber:   callNumber,
		Year:         year,
		CompositeKey: CompositeKey(title, author, year),
		SimpleKey:    SimpleKey(title, year),
	}
}
