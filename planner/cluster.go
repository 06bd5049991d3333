package planner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/chrono-lab/tsmeta/engine"
	"github.com/chrono-lab/tsmeta/internal/recovery"
	"github.com/chrono-lab/tsmeta/model"
	"github.com/chrono-lab/tsmeta/stream"
)

// ClusterTable is the table source of a native time-series table, bound to
// the storage engine that holds its data.
type ClusterTable struct {
	engine engine.Engine
	schema *model.TimeSeriesTable
	logger *slog.Logger
}

var _ TableSource = (*ClusterTable)(nil)

// NewClusterTable binds a time-series schema to its storage engine.
func NewClusterTable(eng engine.Engine, schema *model.TimeSeriesTable, logger *slog.Logger) *ClusterTable {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClusterTable{engine: eng, schema: schema, logger: logger}
}

// Name implements TableSource.
func (t *ClusterTable) Name() string {
	return t.schema.Name()
}

// ArrowSchema implements TableSource.
func (t *ClusterTable) ArrowSchema() *arrow.Schema {
	return t.schema.ArrowSchema()
}

// Schema returns the time-series schema backing the source.
func (t *ClusterTable) Schema() *model.TimeSeriesTable {
	return t.schema
}

// Scan implements TableSource. Projection and limits are applied to the
// engine's batches before the reader is built.
func (t *ClusterTable) Scan(ctx context.Context, opts *ScanOptions) (array.RecordReader, error) {
	batches, err := recovery.ToValue(t.logger, "engine read", func() ([]arrow.RecordBatch, error) {
		return t.engine.ReadTable(ctx, t.schema.Database(), t.schema.Name())
	})
	if err != nil {
		return nil, err
	}

	schema := t.schema.ArrowSchema()
	if opts == nil || (len(opts.Columns) == 0 && opts.Limit <= 0) {
		return stream.New(schema, batches), nil
	}

	projected, trimmed, err := applyScanOptions(schema, batches, opts)
	if err != nil {
		return nil, err
	}
	reader := stream.New(projected, trimmed)
	releaseAll(trimmed)
	return reader, nil
}

// applyScanOptions projects and truncates engine batches per opts. The
// returned batches are fresh references; the caller releases them after
// handing them off.
func applyScanOptions(schema *arrow.Schema, batches []arrow.RecordBatch, opts *ScanOptions) (*arrow.Schema, []arrow.RecordBatch, error) {
	projected := schema
	var indices []int
	if len(opts.Columns) > 0 {
		fields := make([]arrow.Field, 0, len(opts.Columns))
		indices = make([]int, 0, len(opts.Columns))
		for _, name := range opts.Columns {
			idxs := schema.FieldIndices(name)
			if len(idxs) == 0 {
				return nil, nil, fmt.Errorf("unknown column %q in projection", name)
			}
			fields = append(fields, schema.Field(idxs[0]))
			indices = append(indices, idxs[0])
		}
		projected = arrow.NewSchema(fields, nil)
	}

	remaining := opts.Limit
	out := make([]arrow.RecordBatch, 0, len(batches))
	for _, b := range batches {
		if opts.Limit > 0 && remaining <= 0 {
			break
		}
		rec := b
		rec.Retain()
		if indices != nil {
			cols := make([]arrow.Array, len(indices))
			for i, idx := range indices {
				cols[i] = b.Column(idx)
			}
			proj := array.NewRecordBatch(projected, cols, b.NumRows())
			rec.Release()
			rec = proj
		}
		if opts.Limit > 0 && remaining < rec.NumRows() {
			sliced := rec.NewSlice(0, remaining)
			rec.Release()
			rec = sliced
		}
		remaining -= rec.NumRows()
		out = append(out, rec)
	}
	return projected, out, nil
}
