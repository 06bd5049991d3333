package model

import (
	"fmt"
	"slices"

	"github.com/apache/arrow-go/v18/arrow"
)

// TableSchema is the description of a table: its columns and its storage
// kind. It is a closed sum with two cases, TimeSeriesTable for tables whose
// data lives in the local storage engine and ExternalTable for tables whose
// data is a collection of files referenced by URL. Consumers that dispatch
// on the kind must handle both cases exhaustively.
type TableSchema interface {
	// Database returns the name of the owning database.
	Database() string

	// Name returns the table name, unique within the database.
	Name() string

	// ArrowSchema returns the Arrow schema describing the table columns.
	ArrowSchema() *arrow.Schema

	isTableSchema()
}

// TimeSeriesTable is the schema of a table stored in the local time-series
// engine: a time column, zero or more tag columns and at least one field
// column.
type TimeSeriesTable struct {
	DatabaseName string        `msgpack:"database"`
	TableName    string        `msgpack:"table"`
	Columns      []TableColumn `msgpack:"columns"`
}

var _ TableSchema = (*TimeSeriesTable)(nil)

func (t *TimeSeriesTable) Database() string { return t.DatabaseName }
func (t *TimeSeriesTable) Name() string     { return t.TableName }
func (t *TimeSeriesTable) isTableSchema()   {}

// ArrowSchema builds the Arrow schema from the column list. Column order is
// preserved; each field carries its role in metadata.
func (t *TimeSeriesTable) ArrowSchema() *arrow.Schema {
	fields := make([]arrow.Field, len(t.Columns))
	for i, c := range t.Columns {
		fields[i] = c.ArrowField()
	}
	return arrow.NewSchema(fields, nil)
}

// Column returns the column with the given name.
func (t *TimeSeriesTable) Column(name string) (TableColumn, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return TableColumn{}, false
}

// TimeColumn returns the table's time column.
func (t *TimeSeriesTable) TimeColumn() (TableColumn, bool) {
	for _, c := range t.Columns {
		if c.Role == RoleTime {
			return c, true
		}
	}
	return TableColumn{}, false
}

// FieldColumns returns the number of field columns.
func (t *TimeSeriesTable) FieldColumns() int {
	n := 0
	for _, c := range t.Columns {
		if c.Role == RoleField {
			n++
		}
	}
	return n
}

// WithColumn returns a copy of the schema with col appended. The receiver
// is not modified, so readers holding it keep a consistent view.
func (t *TimeSeriesTable) WithColumn(col TableColumn) *TimeSeriesTable {
	cp := t.clone()
	cp.Columns = append(cp.Columns, col)
	return cp
}

// WithColumnReplaced returns a copy of the schema with the named column
// replaced by newCol.
func (t *TimeSeriesTable) WithColumnReplaced(name string, newCol TableColumn) *TimeSeriesTable {
	cp := t.clone()
	for i, c := range cp.Columns {
		if c.Name == name {
			cp.Columns[i] = newCol
			break
		}
	}
	return cp
}

// WithoutColumn returns a copy of the schema with the named column removed.
func (t *TimeSeriesTable) WithoutColumn(name string) *TimeSeriesTable {
	cp := t.clone()
	cp.Columns = slices.DeleteFunc(cp.Columns, func(c TableColumn) bool {
		return c.Name == name
	})
	return cp
}

func (t *TimeSeriesTable) clone() *TimeSeriesTable {
	return &TimeSeriesTable{
		DatabaseName: t.DatabaseName,
		TableName:    t.TableName,
		Columns:      slices.Clone(t.Columns),
	}
}

// Validate checks the structural invariants: unique column names, exactly
// one time column, at least one field column, valid individual columns.
func (t *TimeSeriesTable) Validate() error {
	if t.TableName == "" {
		return fmt.Errorf("table name must not be empty")
	}
	seen := make(map[string]bool, len(t.Columns))
	timeCols, fieldCols := 0, 0
	for _, c := range t.Columns {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("table %q: %w", t.TableName, err)
		}
		if seen[c.Name] {
			return fmt.Errorf("table %q: duplicate column %q", t.TableName, c.Name)
		}
		seen[c.Name] = true
		switch c.Role {
		case RoleTime:
			timeCols++
		case RoleField:
			fieldCols++
		}
	}
	if timeCols != 1 {
		return fmt.Errorf("table %q: expected exactly one time column, got %d", t.TableName, timeCols)
	}
	if fieldCols == 0 {
		return fmt.Errorf("table %q: at least one field column is required", t.TableName)
	}
	return nil
}

// FileFormat identifies the on-disk format of an external listing table.
type FileFormat string

const (
	FormatParquet FileFormat = "parquet"
	FormatCSV     FileFormat = "csv"
	FormatNDJSON  FileFormat = "ndjson"
)

// FileFormatOptions configure how the files of an external listing table
// are read.
type FileFormatOptions struct {
	// Format is the file format. REQUIRED.
	Format FileFormat

	// Delimiter is the CSV field delimiter. Defaults to ','.
	Delimiter rune

	// HasHeader indicates whether CSV files carry a header row.
	HasHeader bool

	// Compression names the file compression ("", "gzip", "zstd").
	Compression string
}

// Validate checks that the options are usable for building a file reader.
func (o FileFormatOptions) Validate() error {
	switch o.Format {
	case FormatParquet, FormatCSV, FormatNDJSON:
	case "":
		return fmt.Errorf("file format must not be empty")
	default:
		return fmt.Errorf("unsupported file format %q", o.Format)
	}
	switch o.Compression {
	case "", "gzip", "zstd":
	default:
		return fmt.Errorf("unsupported compression %q", o.Compression)
	}
	return nil
}

// ExternalTable is the schema of a table whose data is a set of files at a
// location URI, queried through a file-format reader. Its column schema is
// arbitrary Arrow, not restricted to the tag/time/field model.
type ExternalTable struct {
	DatabaseName string
	TableName    string

	// Location is the URI of the file or directory listing ("file:///...",
	// "s3://...").
	Location string

	// Options configure the file-format reader.
	Options FileFormatOptions

	// Schema is the Arrow schema of the files.
	Schema *arrow.Schema
}

var _ TableSchema = (*ExternalTable)(nil)

func (t *ExternalTable) Database() string           { return t.DatabaseName }
func (t *ExternalTable) Name() string               { return t.TableName }
func (t *ExternalTable) ArrowSchema() *arrow.Schema { return t.Schema }
func (t *ExternalTable) isTableSchema()             {}
