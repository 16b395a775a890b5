package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"sentinel", "missing", ""},
		{"sentinel case and space", "  Missing ", ""},
		{"lowercases", "Taiwan History", "taiwan history"},
		{"collapses whitespace", "  中國   歷史\t概論 ", "中國 歷史 概論"},
		{"strips latin punctuation", `History, of. Taiwan; (1999)!`, "history of taiwan 1999"},
		{"strips cjk punctuation", "中國歷史。導論、【修訂版】", "中國歷史導論修訂版"},
		{"nfkc folds fullwidth", "ＡＢＣ１２３", "abc123"},
		{"fullwidth parens folded then stripped", "臺灣（上冊）", "臺灣上冊"},
		{"quotes", `"quoted" 'text'`, "quoted text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"", "missing", "中國歷史。導論", "  Mixed 文字, with; PUNCT! ",
		"ＴＡＩＷＡＮ　１９９９", "no punctuation here",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "Normalize should be idempotent for %q", in)
	}
}

func TestExtractYear(t *testing.T) {
	tests := []struct {
		name  string
		input string
		year  int
		ok    bool
	}{
		{"cjk imprint", "出版於1999年", 1999, true},
		{"no digits", "no year here", 0, false},
		{"below range", "year 1750", 0, false},
		{"above range", "2077", 0, false},
		{"bounds low", "1800", 1800, true},
		{"bounds high", "2030", 2030, true},
		{"first run wins", "0001 printed 1999", 0, false},
		{"embedded in longer run", "123456", 0, false},
		{"short runs ignored", "vol. 12, no. 345", 0, false},
		{"missing sentinel", "missing", 0, false},
		{"empty", "", 0, false},
		{"year after text", "民國88年 (1999)", 1999, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, ok := ExtractYear(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.year, year)
		})
	}
}

func TestExtractAuthor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"sentinel", "missing", ""},
		{"strips zhu", "王大明著", "王大明"},
		{"strips bian", "李小華編", "李小華"},
		{"strips zhubian run", "張三主編", "張三"},
		{"strips zuozhe run", "陳四作者", "陳四"},
		{"strips simplified", "刘五编", "刘五"},
		{"first author comma", "王大明, 李小華", "王大明"},
		{"first author fullwidth semicolon", "王大明；李小華", "王大明"},
		{"first author semicolon", "王大明; 李小華", "王大明"},
		{"marker then delimiter", "王大明著, 李小華編", "王大明著"},
		{"plain name untouched", "Chen, Li-hua", "Chen"},
		{"whitespace trimmed", "  王大明著  ", "王大明"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractAuthor(tt.input))
		})
	}
}

func TestSplitTitleAuthor(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		title  string
		author string
	}{
		{"basic split", "資訊科技概論 / 陳小華著", "資訊科技概論", "陳小華著"},
		{"first slash only", "TCP/IP 網路概論 / 王大明", "TCP", "IP 網路概論 / 王大明"},
		{"no separator", "臺灣通史", "臺灣通史", ""},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, author := SplitTitleAuthor(tt.input)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.author, author)
		})
	}
}

func TestCompositeKeyDeterministic(t *testing.T) {
	k1 := CompositeKey("中國歷史", "王大明著", 1999)
	k2 := CompositeKey("中國歷史", "王大明著", 1999)
	assert.Equal(t, k1, k2)

	// Whitespace, case and punctuation variants collapse to the same key.
	k3 := CompositeKey(" 中國歷史。", "王大明 ;李小華", 1999)
	assert.Equal(t, k1, k3)

	assert.Equal(t, "中國歷史|王大明|1999", k1)
}

func TestCompositeKeyUnknownYear(t *testing.T) {
	assert.Equal(t, "中國歷史|王大明|unknown", CompositeKey("中國歷史", "王大明", 0))
	assert.Equal(t, "||unknown", CompositeKey("", "", 0))
}

func TestSimpleKey(t *testing.T) {
	assert.Equal(t, "中國歷史|1999", SimpleKey("中國歷史", 1999))
	assert.Equal(t, "中國歷史|unknown", SimpleKey("中國歷史", 0))
}

func TestNewDetailedRecord(t *testing.T) {
	d := NewDetailedRecord(
		"史地", "https://example.org/rec/1", "000123",
		"臺灣通史 / 連橫著", "臺灣通史", "連橫著",
		"chi", "臺北市 : 眾文, 1999", "missing",
	)

	assert.Equal(t, 1999, d.ExtractedYear)
	assert.Equal(t, "臺灣通史|連橫|1999", d.CompositeKey)
	assert.Equal(t, "臺灣通史|1999", d.SimpleKey)
}

func TestNewDetailedRecordYearFallback(t *testing.T) {
	d := NewDetailedRecord(
		"史地", "https://example.org/rec/2", "000124",
		"臺灣通史", "臺灣通史", "missing",
		"chi", "missing", "民國88年 2000",
	)

	assert.Equal(t, 2000, d.ExtractedYear)
	assert.Equal(t, "臺灣通史||2000", d.CompositeKey)
}

func TestNewSummaryRecord(t *testing.T) {
	s := NewSummaryRecord(
		"史地", "https://example.org/list?page=3",
		"臺灣通史", "連橫著", "眾文", "1999", "673.22",
	)

	assert.Equal(t, 1999, s.Year)
	assert.Equal(t, "臺灣通史|連橫|1999", s.CompositeKey)
	assert.Equal(t, "臺灣通史|1999", s.SimpleKey)
}

func TestNewSummaryRecordUnknownYear(t *testing.T) {
	s := NewSummaryRecord("史地", "u", "臺灣通史", "連橫", "眾文", "Unknown", "")
	assert.Equal(t, 0, s.Year)
	assert.Equal(t, "臺灣通史|連橫|unknown", s.CompositeKey)

	// Implausible year strings are unknown, not out-of-range values.
	s = NewSummaryRecord("史地", "u", "古籍", "佚名", "", "0650", "")
	assert.Equal(t, 0, s.Year)
}
