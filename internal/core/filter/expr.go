// Package filter builds metadata predicates for the vector index. The
// index filter language only supports equality and set membership, so
// date ranges are expanded into explicit day lists.
package filter

// Metadata field names as stored in the index.
const (
	FieldOwner     = "owner"
	FieldDate      = "date"
	FieldChunkType = "chunk_type"
	FieldDocID     = "doc_id"
)

// Expr is a filter expression tree node. A nil Expr means "match all".
type Expr interface {
	isExpr()
}

// Eq matches chunks whose field equals value.
type Eq struct {
	Field string
	Value string
}

// In matches chunks whose field is one of Values.
type In struct {
	Field  string
	Values []string
}

// And matches chunks satisfying every child.
type And struct {
	Children []Expr
}

func (Eq) isExpr()  {}
func (In) isExpr()  {}
func (And) isExpr() {}
