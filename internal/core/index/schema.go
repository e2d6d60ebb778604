package index

import (
	"context"

	milvusentity "github.com/milvus-io/milvus-sdk-go/v2/entity"

	"work-report-rag/config"
)

const vectorDim = 1536

var varCharFields = []struct {
	name   string
	maxLen int64
}{
	{"doc_id", 128},
	{"owner", 64},
	{"date", 10},
	{"chunk_type", 16},
	{"category", 64},
	{"customer", 256},
	{"time_slot", 32},
	{"week_id", 16},
	{"month_id", 16},
	{"text", 8192},
}

// EnsureCollection creates the chunk collection and its HNSW index when
// they do not exist yet. Safe to call on every startup.
func (m *Milvus) EnsureCollection(ctx context.Context) error {
	cli, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer cli.Close()

	exists, err := cli.HasCollection(ctx, m.Collection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	schema := milvusentity.NewSchema().WithName(m.Collection).WithDescription("work report chunks")
	schema.WithField(milvusentity.NewField().WithName("id").
		WithDataType(milvusentity.FieldTypeVarChar).WithMaxLength(128).WithIsPrimaryKey(true))
	for _, f := range varCharFields {
		schema.WithField(milvusentity.NewField().WithName(f.name).
			WithDataType(milvusentity.FieldTypeVarChar).WithMaxLength(f.maxLen))
	}
	schema.WithField(milvusentity.NewField().WithName("embedding").
		WithDataType(milvusentity.FieldTypeFloatVector).WithDim(vectorDim))

	if err := cli.CreateCollection(ctx, schema, 2); err != nil {
		return err
	}

	hnsw, err := milvusentity.NewIndexHNSW(
		milvusentity.MetricType(m.MetricType),
		config.Cfg.Milvus.IndexHNSWConfig.M,
		config.Cfg.Milvus.IndexHNSWConfig.EfConstruction,
	)
	if err != nil {
		return err
	}
	return cli.CreateIndex(ctx, m.Collection, "embedding", hnsw, false)
}
