// Package chunk defines the read model for indexed work-log chunks.
// Chunks are produced by the ingestion pipeline and are never mutated here;
// the retrieval pipeline only reorders and drops them.
package chunk

// Type classifies a chunk within a daily report.
type Type string

const (
	TypeSummary  Type = "summary"
	TypeDetail   Type = "detail"
	TypePending  Type = "pending"
	TypePlanNote Type = "plan_note"
	TypeOther    Type = "other"
)

// Label returns the human-readable Korean label used in answer contexts.
func (t Type) Label() string {
	switch t {
	case TypeSummary:
		return "요약"
	case TypeDetail:
		return "세부 업무"
	case TypePending:
		return "미종결"
	case TypePlanNote:
		return "계획/특이사항"
	default:
		return string(t)
	}
}

// Metadata carries the owner/date/classification fields stored with a chunk.
// Every chunk belongs to exactly one owner and has at most one date.
type Metadata struct {
	Owner     string `json:"owner"`
	Date      string `json:"date"` // ISO date, YYYY-MM-DD
	ChunkType Type   `json:"chunk_type"`
	Category  string `json:"category,omitempty"`
	Customer  string `json:"customer,omitempty"` // comma-joined entity names
	TimeSlot  string `json:"time_slot,omitempty"`
	DocID     string `json:"doc_id,omitempty"`
	WeekID    string `json:"week_id,omitempty"`
	MonthID   string `json:"month_id,omitempty"`
}

// Hit is a raw index match. Distance is in the index's native metric;
// lower means more similar.
type Hit struct {
	ChunkID  string
	Text     string
	Distance float32
	Meta     Metadata
}

// SearchResult is a scored retrieval candidate. Higher score means more
// relevant regardless of the underlying distance metric.
type SearchResult struct {
	ChunkID   string   `json:"chunk_id"`
	DocID     string   `json:"doc_id"`
	ChunkType Type     `json:"chunk_type"`
	Text      string   `json:"text"`
	Score     float64  `json:"score"`
	Meta      Metadata `json:"metadata"`
}
