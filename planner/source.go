// Package planner implements the context-provider contract the SQL
// planner consumes: table sources for native and external tables, and
// function descriptor lookup.
package planner

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// ScanOptions provides options for table scans.
type ScanOptions struct {
	// Columns to return. If nil/empty, return all columns.
	Columns []string

	// Limit is the maximum number of rows to return.
	// If 0 or negative, no limit.
	Limit int64

	// BatchSize is a hint for the batch size of the returned reader.
	// If 0, the implementation chooses a default.
	// Implementations MAY ignore this hint.
	BatchSize int
}

// TableSource is the uniform table abstraction handed to the planner,
// regardless of whether the table is stored in the local time-series
// engine or listed from external files.
// Implementations MUST be goroutine-safe.
type TableSource interface {
	// Name returns the table name.
	Name() string

	// ArrowSchema returns the schema of the produced batches.
	ArrowSchema() *arrow.Schema

	// Scan returns a reader over the table's data.
	// Caller MUST call reader.Release() when done.
	Scan(ctx context.Context, opts *ScanOptions) (array.RecordReader, error)
}
