// Package analyzer turns a free-text worklog question into structured
// search keywords: entity names, a date constraint, target chunk types and
// intent flags. Extraction is pure and deterministic; unknown input yields
// the zero defaults for every field.
package analyzer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"work-report-rag/internal/core/chunk"
)

// DateRange is an inclusive calendar range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days enumerates every ISO date string in the range, inclusive.
func (r DateRange) Days() []string {
	var out []string
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format("2006-01-02"))
	}
	return out
}

// SearchKeywords is the per-query extraction result. Created fresh per
// query and never shared.
type SearchKeywords struct {
	EntityNames []string
	DateRange   *DateRange
	SingleDate  string // YYYY-MM-DD, set instead of DateRange for explicit dates
	ChunkTypes  []chunk.Type

	IsUnresolvedQuery  bool
	IsStatisticalQuery bool
	IsComparisonQuery  bool
}

// Ordered absolute-date rules; first match wins.
var absoluteDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{4})\s*년\s*(\d{1,2})\s*월\s*(\d{1,2})\s*일`),
	regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`),
	regexp.MustCompile(`(\d{1,2})\s*월\s*(\d{1,2})\s*일`), // year defaults to base date's
}

var (
	reThisWeek  = regexp.MustCompile(`이번\s*주|금주`)
	reLastWeek  = regexp.MustCompile(`지난\s*주|저번\s*주|전주`)
	reThisMonth = regexp.MustCompile(`이번\s*달|금월|이번\s*월`)
	reLastMonth = regexp.MustCompile(`지난\s*달|전월|지난\s*월`)
)

var (
	unresolvedKeywords  = []string{"미종결", "미완료", "처리 못한", "안 한", "안한", "안 끝난", "안끝난"}
	summaryKeywords     = []string{"요약", "전체", "종합"}
	planKeywords        = []string{"계획", "예정", "일정"}
	statisticalKeywords = []string{"가장", "많이", "몰린", "요일", "통계", "평균", "최대", "최소", "집계", "분포"}
	comparisonKeywords  = []string{"비교", "비율", "차이", "변화", "증가", "감소", "늘어", "줄어", "대비", "대조", "vs", "versus"}
)

// ExtractKeywords analyzes the query relative to baseDate. It never fails;
// an unparseable date simply falls through to the next rule.
func ExtractKeywords(query string, baseDate time.Time) SearchKeywords {
	kw := SearchKeywords{
		EntityNames: ExtractEntityNames(query),
		ChunkTypes:  detectChunkTypes(query),
	}

	if r := detectDateRange(query, baseDate); r != nil {
		if r.Start.Equal(r.End) {
			kw.SingleDate = r.Start.Format("2006-01-02")
		} else {
			kw.DateRange = r
		}
	}

	lower := strings.ToLower(query)
	kw.IsUnresolvedQuery = containsAny(lower, unresolvedKeywords)
	kw.IsStatisticalQuery = containsAny(lower, statisticalKeywords)
	kw.IsComparisonQuery = containsAny(lower, comparisonKeywords)
	return kw
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func normalizeQuery(query string) string {
	s := strings.ToLower(query)
	replacer := strings.NewReplacer("(", " ", ")", " ", "?", " ", "!", " ", ",", " ", ".", " ")
	s = replacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// detectDateRange evaluates date rules in strict priority order:
// absolute date, this week, last week, this month, last month. A single
// explicit date is returned as a degenerate range (start == end).
func detectDateRange(query string, baseDate time.Time) *DateRange {
	normalized := normalizeQuery(query)

	for _, pattern := range absoluteDatePatterns {
		m := pattern.FindStringSubmatch(normalized)
		if m == nil {
			continue
		}
		var year, month, day int
		if len(m) == 4 {
			year, _ = strconv.Atoi(m[1])
			month, _ = strconv.Atoi(m[2])
			day, _ = strconv.Atoi(m[3])
		} else {
			year = baseDate.Year()
			month, _ = strconv.Atoi(m[1])
			day, _ = strconv.Atoi(m[2])
		}
		d, ok := makeDate(year, month, day)
		if !ok {
			// invalid calendar date, try the next rule
			continue
		}
		return &DateRange{Start: d, End: d}
	}

	switch {
	case reThisWeek.MatchString(normalized):
		monday := mondayOf(baseDate)
		return &DateRange{Start: monday, End: monday.AddDate(0, 0, 4)}
	case reLastWeek.MatchString(normalized):
		monday := mondayOf(baseDate).AddDate(0, 0, -7)
		return &DateRange{Start: monday, End: monday.AddDate(0, 0, 4)}
	case reThisMonth.MatchString(normalized):
		first := time.Date(baseDate.Year(), baseDate.Month(), 1, 0, 0, 0, 0, time.UTC)
		return &DateRange{Start: first, End: first.AddDate(0, 1, -1)}
	case reLastMonth.MatchString(normalized):
		first := time.Date(baseDate.Year(), baseDate.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		return &DateRange{Start: first, End: first.AddDate(0, 1, -1)}
	}
	return nil
}

// makeDate validates the calendar date; time.Date silently normalizes
// overflow (e.g. Feb 30), so round-trip check the components.
func makeDate(year, month, day int) (time.Time, bool) {
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// mondayOf returns the Monday of the ISO week containing d.
func mondayOf(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	d = d.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// detectChunkTypes maps query vocabulary to the chunk types worth
// searching. Summary chunks are excluded by default; they rarely answer
// concrete questions.
func detectChunkTypes(query string) []chunk.Type {
	lower := strings.ToLower(query)
	switch {
	case containsAny(lower, unresolvedKeywords):
		return []chunk.Type{chunk.TypePending}
	case containsAny(lower, summaryKeywords):
		return []chunk.Type{chunk.TypeSummary}
	case containsAny(lower, planKeywords):
		return []chunk.Type{chunk.TypePlanNote}
	default:
		return []chunk.Type{chunk.TypeDetail, chunk.TypePending, chunk.TypePlanNote}
	}
}
