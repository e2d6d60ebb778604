package index

import (
	"context"
	"fmt"
	"strings"
	"time"

	milvusclient "github.com/milvus-io/milvus-sdk-go/v2/client"
	milvusentity "github.com/milvus-io/milvus-sdk-go/v2/entity"

	"work-report-rag/config"
	"work-report-rag/internal/core/chunk"
	"work-report-rag/internal/core/filter"
	"work-report-rag/pkg/logger"
)

var outputFields = []string{
	"id", "doc_id", "owner", "date", "chunk_type",
	"category", "customer", "time_slot", "week_id", "month_id", "text",
}

// Milvus adapts a Milvus collection to the VectorIndex interface. A client
// is dialed per call; connections are cheap against a local instance and
// per-call dialing keeps the adapter free of reconnect state.
type Milvus struct {
	Address    string
	Collection string
	MetricType string
}

// FromConfig builds the adapter from the loaded application config.
func FromConfig() *Milvus {
	return &Milvus{
		Address:    config.Cfg.Milvus.Address,
		Collection: config.Cfg.Milvus.Collection,
		MetricType: config.Cfg.Milvus.IndexHNSWConfig.MetricType,
	}
}

func (m *Milvus) connect(ctx context.Context) (milvusclient.Client, error) {
	return milvusclient.NewClient(ctx, milvusclient.Config{Address: m.Address})
}

func (m *Milvus) ensureLoaded(ctx context.Context, cli milvusclient.Client) error {
	exists, err := cli.HasCollection(ctx, m.Collection)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("collection %q not found", m.Collection)
	}
	return cli.LoadCollection(ctx, m.Collection, false)
}

// Search implements VectorIndex.
func (m *Milvus) Search(ctx context.Context, vector []float32, topK int, pred filter.Expr) ([]chunk.Hit, error) {
	if len(vector) == 0 {
		return []chunk.Hit{}, nil
	}
	cli, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer cli.Close()

	if err := m.ensureLoaded(ctx, cli); err != nil {
		return nil, err
	}

	// Tune within 64-128; 64 keeps local latency low.
	searchParam, err := milvusentity.NewIndexHNSWSearchParam(64)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := cli.Search(
		ctx,
		m.Collection,
		nil, // partitions
		exprString(pred),
		outputFields,
		[]milvusentity.Vector{milvusentity.FloatVector(vector)},
		"embedding",
		milvusentity.MetricType(m.MetricType),
		topK,
		searchParam,
	)
	if err != nil {
		logger.Error(err, "%v: milvus search failed: %s", config.ModuleRetriever, err.Error())
		return nil, err
	}
	logger.Info("%v: milvus search done in %dms", config.ModuleRetriever, time.Since(start).Milliseconds())

	if len(results) == 0 {
		return []chunk.Hit{}, nil
	}
	it := results[0]

	hits := make([]chunk.Hit, 0, it.ResultCount)
	ids, _ := it.IDs.(*milvusentity.ColumnVarChar)
	for i := 0; i < it.ResultCount; i++ {
		var h chunk.Hit
		if ids != nil {
			h.ChunkID = ids.Data()[i]
		}
		h.Distance = it.Scores[i]
		decodeFields(&h, it.Fields, i)
		hits = append(hits, h)
	}
	return hits, nil
}

// Get implements VectorIndex. Milvus requires a non-empty query expression,
// so a nil predicate becomes a tautology on the primary key.
func (m *Milvus) Get(ctx context.Context, pred filter.Expr, limit int) ([]chunk.Hit, error) {
	cli, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer cli.Close()

	if err := m.ensureLoaded(ctx, cli); err != nil {
		return nil, err
	}

	expr := exprString(pred)
	if expr == "" {
		expr = `id != ""`
	}

	rs, err := cli.Query(ctx, m.Collection, nil, expr, outputFields, milvusclient.WithLimit(int64(limit)))
	if err != nil {
		logger.Error(err, "%v: milvus query failed: %s", config.ModuleRetriever, err.Error())
		return nil, err
	}

	n := 0
	for _, col := range rs {
		if col.Name() == "id" {
			n = col.Len()
		}
	}
	hits := make([]chunk.Hit, 0, n)
	for i := 0; i < n; i++ {
		var h chunk.Hit
		if ids := varCharColumn(rs, "id"); ids != nil {
			h.ChunkID = ids.Data()[i]
		}
		decodeFields(&h, rs, i)
		hits = append(hits, h)
	}
	return hits, nil
}

func varCharColumn(cols []milvusentity.Column, name string) *milvusentity.ColumnVarChar {
	for _, col := range cols {
		if vc, ok := col.(*milvusentity.ColumnVarChar); ok && vc.Name() == name {
			return vc
		}
	}
	return nil
}

func decodeFields(h *chunk.Hit, cols []milvusentity.Column, i int) {
	for _, field := range cols {
		col, ok := field.(*milvusentity.ColumnVarChar)
		if !ok {
			continue
		}
		v := col.Data()[i]
		switch col.Name() {
		case "doc_id":
			h.Meta.DocID = v
		case "owner":
			h.Meta.Owner = v
		case "date":
			h.Meta.Date = v
		case "chunk_type":
			h.Meta.ChunkType = chunk.Type(v)
		case "category":
			h.Meta.Category = v
		case "customer":
			h.Meta.Customer = v
		case "time_slot":
			h.Meta.TimeSlot = v
		case "week_id":
			h.Meta.WeekID = v
		case "month_id":
			h.Meta.MonthID = v
		case "text":
			h.Text = v
		}
	}
}

// exprString renders a predicate tree in the Milvus boolean expression
// syntax. A nil expression renders empty (match-all on search paths).
func exprString(e filter.Expr) string {
	switch v := e.(type) {
	case nil:
		return ""
	case filter.Eq:
		return fmt.Sprintf("%s == %q", v.Field, v.Value)
	case filter.In:
		var b strings.Builder
		b.WriteString(v.Field)
		b.WriteString(" in [")
		for i, val := range v.Values {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(fmt.Sprintf("%q", val))
		}
		b.WriteByte(']')
		return b.String()
	case filter.And:
		parts := make([]string, 0, len(v.Children))
		for _, c := range v.Children {
			if s := exprString(c); s != "" {
				parts = append(parts, "("+s+")")
			}
		}
		return strings.Join(parts, " and ")
	default:
		return ""
	}
}
