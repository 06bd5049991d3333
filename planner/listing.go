package planner

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	_ "github.com/duckdb/duckdb-go/v2" // file-format reader

	"github.com/chrono-lab/tsmeta/model"
	"github.com/chrono-lab/tsmeta/stream"
)

const defaultBatchSize = 1024

// ListingTable is the table source of an external listing table: a set of
// files at a location URI, read through DuckDB's file-format readers.
type ListingTable struct {
	schema *model.ExternalTable
	url    *url.URL
	alloc  memory.Allocator
}

var _ TableSource = (*ListingTable)(nil)

// NewListingTable parses the table's location and validates its format
// options. A malformed location or unusable options are reported here, not
// at scan time.
func NewListingTable(schema *model.ExternalTable, alloc memory.Allocator) (*ListingTable, error) {
	u, err := url.Parse(schema.Location)
	if err != nil {
		return nil, fmt.Errorf("parse listing location %q: %w", schema.Location, err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("parse listing location %q: missing scheme", schema.Location)
	}
	if err := schema.Options.Validate(); err != nil {
		return nil, fmt.Errorf("listing table %q: %w", schema.Name(), err)
	}
	if schema.Schema == nil {
		return nil, fmt.Errorf("listing table %q: nil column schema", schema.Name())
	}
	if alloc == nil {
		alloc = memory.DefaultAllocator
	}
	return &ListingTable{schema: schema, url: u, alloc: alloc}, nil
}

// Name implements TableSource.
func (t *ListingTable) Name() string {
	return t.schema.Name()
}

// ArrowSchema implements TableSource.
func (t *ListingTable) ArrowSchema() *arrow.Schema {
	return t.schema.Schema
}

// Location returns the parsed location URL.
func (t *ListingTable) Location() *url.URL {
	return t.url
}

// path returns the reader-facing path. Local file URLs become plain paths;
// remote schemes are passed through for DuckDB's filesystem handlers.
func (t *ListingTable) path() string {
	if t.url.Scheme == "file" {
		return t.url.Path
	}
	return t.schema.Location
}

// readerCall builds the DuckDB table function invocation for the table's
// format options.
func readerCall(path string, opts model.FileFormatOptions) (string, error) {
	quoted := "'" + strings.ReplaceAll(path, "'", "''") + "'"
	switch opts.Format {
	case model.FormatParquet:
		return "read_parquet(" + quoted + ")", nil
	case model.FormatCSV:
		args := []string{quoted}
		delim := opts.Delimiter
		if delim == 0 {
			delim = ','
		}
		args = append(args, fmt.Sprintf("delim='%c'", delim))
		args = append(args, fmt.Sprintf("header=%t", opts.HasHeader))
		if opts.Compression != "" {
			args = append(args, fmt.Sprintf("compression='%s'", opts.Compression))
		}
		return "read_csv(" + strings.Join(args, ", ") + ")", nil
	case model.FormatNDJSON:
		return "read_json(" + quoted + ", format='newline_delimited')", nil
	default:
		return "", fmt.Errorf("unsupported file format %q", opts.Format)
	}
}

// buildQuery builds the SELECT statement for a scan with the given
// projection and limit.
func buildQuery(schema *arrow.Schema, path string, opts model.FileFormatOptions, scan *ScanOptions) (string, *arrow.Schema, error) {
	projected := schema
	if scan != nil && len(scan.Columns) > 0 {
		fields := make([]arrow.Field, 0, len(scan.Columns))
		for _, name := range scan.Columns {
			idxs := schema.FieldIndices(name)
			if len(idxs) == 0 {
				return "", nil, fmt.Errorf("unknown column %q in projection", name)
			}
			fields = append(fields, schema.Field(idxs[0]))
		}
		projected = arrow.NewSchema(fields, nil)
	}

	cols := make([]string, projected.NumFields())
	for i := 0; i < projected.NumFields(); i++ {
		cols[i] = `"` + projected.Field(i).Name + `"`
	}

	call, err := readerCall(path, opts)
	if err != nil {
		return "", nil, err
	}

	query := "SELECT " + strings.Join(cols, ", ") + " FROM " + call
	if scan != nil && scan.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", scan.Limit)
	}
	return query, projected, nil
}

// Scan implements TableSource. The files are read through DuckDB and
// materialized into Arrow batches of at most BatchSize rows.
func (t *ListingTable) Scan(ctx context.Context, opts *ScanOptions) (array.RecordReader, error) {
	query, projected, err := buildQuery(t.schema.Schema, t.path(), t.schema.Options, opts)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open file reader: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("scan %q: %w", t.schema.Location, err)
	}
	defer rows.Close()

	batchSize := defaultBatchSize
	if opts != nil && opts.BatchSize > 0 {
		batchSize = opts.BatchSize
	}

	batches, err := rowsToBatches(rows, projected, t.alloc, batchSize)
	if err != nil {
		return nil, err
	}

	reader := stream.New(projected, batches)
	for _, b := range batches {
		b.Release()
	}
	return reader, nil
}

// rowsToBatches converts SQL rows into Arrow record batches following the
// given schema.
func rowsToBatches(rows *sql.Rows, schema *arrow.Schema, alloc memory.Allocator, batchSize int) ([]arrow.RecordBatch, error) {
	builder := array.NewRecordBuilder(alloc, schema)
	defer builder.Release()

	var batches []arrow.RecordBatch
	flush := func() {
		batch := builder.NewRecordBatch()
		if batch.NumRows() > 0 {
			batches = append(batches, batch)
		} else {
			batch.Release()
		}
	}

	dest := make([]any, schema.NumFields())
	holders := make([]any, schema.NumFields())
	for i := 0; i < schema.NumFields(); i++ {
		holders[i] = newHolder(schema.Field(i).Type)
		dest[i] = holders[i]
	}

	pending := 0
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			releaseAll(batches)
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for i := 0; i < schema.NumFields(); i++ {
			if err := appendHolder(builder.Field(i), holders[i]); err != nil {
				releaseAll(batches)
				return nil, fmt.Errorf("column %q: %w", schema.Field(i).Name, err)
			}
		}
		pending++
		if pending >= batchSize {
			flush()
			pending = 0
		}
	}
	if err := rows.Err(); err != nil {
		releaseAll(batches)
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if pending > 0 {
		flush()
	}
	return batches, nil
}

func releaseAll(batches []arrow.RecordBatch) {
	for _, b := range batches {
		b.Release()
	}
}

// newHolder returns the sql.Scan destination for an Arrow type.
func newHolder(t arrow.DataType) any {
	switch t.ID() {
	case arrow.BOOL:
		return new(sql.NullBool)
	case arrow.INT32, arrow.INT64, arrow.UINT32:
		return new(sql.NullInt64)
	case arrow.UINT64:
		// UBIGINT values above math.MaxInt64 do not survive an int64
		// scan; take the text form and parse unsigned.
		return new(sql.NullString)
	case arrow.FLOAT32, arrow.FLOAT64:
		return new(sql.NullFloat64)
	case arrow.TIMESTAMP:
		return new(sql.NullTime)
	case arrow.BINARY, arrow.EXTENSION:
		return new([]byte)
	default:
		return new(sql.NullString)
	}
}

// appendHolder moves a scanned value into the matching Arrow builder.
func appendHolder(bldr array.Builder, holder any) error {
	switch b := bldr.(type) {
	case *array.BooleanBuilder:
		v := holder.(*sql.NullBool)
		if !v.Valid {
			b.AppendNull()
			return nil
		}
		b.Append(v.Bool)
	case *array.Int32Builder:
		v := holder.(*sql.NullInt64)
		if !v.Valid {
			b.AppendNull()
			return nil
		}
		b.Append(int32(v.Int64))
	case *array.Int64Builder:
		v := holder.(*sql.NullInt64)
		if !v.Valid {
			b.AppendNull()
			return nil
		}
		b.Append(v.Int64)
	case *array.Uint32Builder:
		v := holder.(*sql.NullInt64)
		if !v.Valid {
			b.AppendNull()
			return nil
		}
		b.Append(uint32(v.Int64))
	case *array.Uint64Builder:
		v := holder.(*sql.NullString)
		if !v.Valid {
			b.AppendNull()
			return nil
		}
		u, err := strconv.ParseUint(v.String, 10, 64)
		if err != nil {
			return fmt.Errorf("parse uint64 value %q: %w", v.String, err)
		}
		b.Append(u)
	case *array.Float32Builder:
		v := holder.(*sql.NullFloat64)
		if !v.Valid {
			b.AppendNull()
			return nil
		}
		b.Append(float32(v.Float64))
	case *array.Float64Builder:
		v := holder.(*sql.NullFloat64)
		if !v.Valid {
			b.AppendNull()
			return nil
		}
		b.Append(v.Float64)
	case *array.TimestampBuilder:
		v := holder.(*sql.NullTime)
		if !v.Valid {
			b.AppendNull()
			return nil
		}
		b.Append(arrow.Timestamp(v.Time.UTC().UnixNano()))
	case *array.StringBuilder:
		v := holder.(*sql.NullString)
		if !v.Valid {
			b.AppendNull()
			return nil
		}
		b.Append(v.String)
	case *array.BinaryBuilder:
		v := holder.(*[]byte)
		if *v == nil {
			b.AppendNull()
			return nil
		}
		b.Append(*v)
	case *array.ExtensionBuilder:
		v := holder.(*[]byte)
		sb, ok := b.StorageBuilder().(*array.BinaryBuilder)
		if !ok {
			return fmt.Errorf("unsupported extension storage builder %T", b.StorageBuilder())
		}
		if *v == nil {
			sb.AppendNull()
			return nil
		}
		sb.Append(*v)
	default:
		return fmt.Errorf("unsupported builder type %T", bldr)
	}
	return nil
}
