package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEntityNames(t *testing.T) {
	cases := []struct {
		text string
		want []string
	}{
		{"김영희 고객 보장분석 언제 했지?", []string{"김영희"}},
		{"고객 박철수 상담 내역", []string{"박철수"}},
		{"이민준님 리포트 전달했나?", []string{"이민준"}},
		{"최수아에게 자료 보냈는지 확인", []string{"최수아"}},
		{"김영희 고객과 박철수님 상담", []string{"김영희", "박철수"}},
		{"이번주 미종결 업무 알려줘", nil},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractEntityNames(tc.text), tc.text)
	}
}

func TestExtractEntityNamesDedupKeepsFirstSeen(t *testing.T) {
	got := ExtractEntityNames("김영희 고객, 김영희님과 상담")
	assert.Equal(t, []string{"김영희"}, got)
}

func TestExtractTimeSlot(t *testing.T) {
	assert.Equal(t, "09:30-10:30", ExtractTimeSlot("09:30 - 10:30 김영희 고객 상담"))
	assert.Equal(t, "14:00-15:00", ExtractTimeSlot("14:00~15:00 보장분석"))
	assert.Empty(t, ExtractTimeSlot("시간 미정 상담"))
}
