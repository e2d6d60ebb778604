package search

import (
	"fmt"
	"strings"

	"work-report-rag/internal/core/analyzer"
	"work-report-rag/internal/core/chunk"
)

const emptyContextMessage = "검색 결과가 없습니다."

// FormatContext renders results as the numbered context block fed to the
// answer generator. Missing time slots are recovered from the chunk text
// when possible.
func FormatContext(results []chunk.SearchResult) string {
	if len(results) == 0 {
		return emptyContextMessage
	}
	blocks := make([]string, len(results))
	for i, r := range results {
		timeSlot := r.Meta.TimeSlot
		if timeSlot == "" {
			timeSlot = analyzer.ExtractTimeSlot(r.Text)
		}
		if timeSlot == "" {
			timeSlot = "미상"
		}
		category := r.Meta.Category
		if category == "" {
			category = "기타"
		}
		blocks[i] = fmt.Sprintf("[%d] 날짜: %s, 시간: %s, 유형: %s, 카테고리: %s\n내용: %s\n",
			i+1, r.Meta.Date, timeSlot, r.ChunkType.Label(), category, r.Text)
	}
	return strings.Join(blocks, "\n---\n")
}
