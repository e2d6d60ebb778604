// Package rerank reorders and prunes retrieval candidates. All passes are
// pure functions over the candidate slice; input order only matters where
// documented.
package rerank

import (
	"sort"
	"strings"

	"work-report-rag/internal/core/analyzer"
	"work-report-rag/internal/core/chunk"
)

// Common report vocabulary that the entity extractor sometimes mistakes
// for a person name.
var entityStoplist = map[string]bool{
	"상담": true, "보장": true, "리포트": true, "자료": true,
	"정리": true, "구성": true, "작성": true, "분석": true,
	"업무": true, "일정": true, "계획": true,
}

// Function words and verb fragments excluded from lexical matching.
var stopWords = map[string]bool{
	"언제": true, "했었": true, "했지": true, "했어": true, "했는": true,
	"했던": true, "최근": true, "나": true, "내": true, "는": true,
	"은": true, "이": true, "가": true, "을": true, "를": true,
	"의": true, "에": true, "에서": true, "로": true, "으로": true,
	"고객": true, "했": true, "했는지": true, "했었지": true,
	"했었어": true, "했었는": true, "했었던": true,
}

// ActualEntityNames drops extraction artifacts that are report vocabulary
// rather than person names.
func ActualEntityNames(names []string) []string {
	var out []string
	for _, n := range names {
		if !entityStoplist[n] {
			out = append(out, n)
		}
	}
	return out
}

// BoostEntities moves candidates mentioning one of the names (in text or
// the customer field) ahead of the rest. Both partitions stay sorted by
// score. When nothing matches, the order is left unchanged apart from the
// score sort.
func BoostEntities(results []chunk.SearchResult, names []string) []chunk.SearchResult {
	names = ActualEntityNames(names)
	if len(names) == 0 {
		return sortByScore(results)
	}
	match := func(r chunk.SearchResult) bool {
		for _, n := range names {
			if strings.Contains(r.Text, n) || strings.Contains(r.Meta.Customer, n) {
				return true
			}
		}
		return false
	}
	return boost(results, match)
}

// BoostLexical moves candidates containing a meaningful query token ahead
// of the rest. Tokens of fewer than two runes and stop words are ignored.
func BoostLexical(results []chunk.SearchResult, query string) []chunk.SearchResult {
	tokens := meaningfulTokens(query)
	if len(tokens) == 0 {
		return sortByScore(results)
	}
	match := func(r chunk.SearchResult) bool {
		for _, tok := range tokens {
			if strings.Contains(r.Text, tok) {
				return true
			}
		}
		return false
	}
	return boost(results, match)
}

func meaningfulTokens(query string) []string {
	var tokens []string
	for _, f := range strings.Fields(query) {
		if len([]rune(f)) < 2 || stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func boost(results []chunk.SearchResult, match func(chunk.SearchResult) bool) []chunk.SearchResult {
	var matched, unmatched []chunk.SearchResult
	for _, r := range results {
		if match(r) {
			matched = append(matched, r)
		} else {
			unmatched = append(unmatched, r)
		}
	}
	if len(matched) == 0 {
		return sortByScore(results)
	}
	return append(sortByScore(matched), sortByScore(unmatched)...)
}

func sortByScore(results []chunk.SearchResult) []chunk.SearchResult {
	out := make([]chunk.SearchResult, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

const dedupPrefixRunes = 50

// Dedup drops later candidates whose trimmed 50-rune text prefix repeats
// an earlier one. Candidates with an empty key are always kept. The pass
// is idempotent.
func Dedup(results []chunk.SearchResult) []chunk.SearchResult {
	seen := make(map[string]bool)
	out := make([]chunk.SearchResult, 0, len(results))
	for _, r := range results {
		key := dedupKey(r.Text)
		if key != "" && seen[key] {
			continue
		}
		if key != "" {
			seen[key] = true
		}
		out = append(out, r)
	}
	return out
}

func dedupKey(text string) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) > dedupPrefixRunes {
		runes = runes[:dedupPrefixRunes]
	}
	return string(runes)
}

// Cutoff truncates to topK, except for statistical, comparison and
// entity-bearing queries, which need the full candidate set downstream.
func Cutoff(results []chunk.SearchResult, topK int, kw analyzer.SearchKeywords) []chunk.SearchResult {
	if kw.IsStatisticalQuery || kw.IsComparisonQuery || len(ActualEntityNames(kw.EntityNames)) > 0 {
		return results
	}
	if topK > 0 && len(results) > topK {
		return results[:topK]
	}
	return results
}
