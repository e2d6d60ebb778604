package filter

import (
	"work-report-rag/internal/core/analyzer"
	"work-report-rag/internal/core/chunk"
)

// Build assembles the full predicate for a query. Precedence for the date
// clause: an explicit single date wins over a detected range, which wins
// over the fallback window. Queries naming an entity get no date clause
// at all; the entity's activity may lie anywhere in the log history.
func Build(kw analyzer.SearchKeywords, owner string, fallback *analyzer.DateRange) Expr {
	var clauses []Expr
	if owner != "" {
		clauses = append(clauses, Eq{Field: FieldOwner, Value: owner})
	}
	if c := typeClause(kw.ChunkTypes); c != nil {
		clauses = append(clauses, c)
	}

	if len(kw.EntityNames) == 0 {
		switch {
		case kw.SingleDate != "":
			clauses = append(clauses, Eq{Field: FieldDate, Value: kw.SingleDate})
		case kw.DateRange != nil:
			clauses = append(clauses, In{Field: FieldDate, Values: ExpandDates(*kw.DateRange)})
		case fallback != nil:
			clauses = append(clauses, In{Field: FieldDate, Values: ExpandDates(*fallback)})
		}
	}
	return combine(clauses)
}

// WithoutDates keeps the owner and chunk-type clauses only. Used when the
// full predicate matched nothing.
func WithoutDates(types []chunk.Type, owner string) Expr {
	var clauses []Expr
	if owner != "" {
		clauses = append(clauses, Eq{Field: FieldOwner, Value: owner})
	}
	if c := typeClause(types); c != nil {
		clauses = append(clauses, c)
	}
	return combine(clauses)
}

// Minimal is the loosest predicate: owner only. May be nil when no owner
// is set, which the index treats as match-all.
func Minimal(owner string) Expr {
	if owner == "" {
		return nil
	}
	return Eq{Field: FieldOwner, Value: owner}
}

// ExpandDates lists every ISO date in the range. The index cannot compare
// string dates, so ranges become membership sets.
func ExpandDates(r analyzer.DateRange) []string {
	return r.Days()
}

func typeClause(types []chunk.Type) Expr {
	switch len(types) {
	case 0:
		return nil
	case 1:
		return Eq{Field: FieldChunkType, Value: string(types[0])}
	default:
		values := make([]string, len(types))
		for i, t := range types {
			values[i] = string(t)
		}
		return In{Field: FieldChunkType, Values: values}
	}
}

func combine(clauses []Expr) Expr {
	switch len(clauses) {
	case 0:
		return nil
	case 1:
		return clauses[0]
	default:
		return And{Children: clauses}
	}
}
