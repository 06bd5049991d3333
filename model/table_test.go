package model

import (
	"strings"
	"testing"
)

func cpuTable(t *testing.T) *TimeSeriesTable {
	t.Helper()
	return NewTableBuilder("public", "cpu").
		Time("time").
		Tag("host").
		Field("usage", TypeFloat64).
		MustBuild()
}

func TestTableValidate(t *testing.T) {
	tests := []struct {
		name    string
		build   func() (*TimeSeriesTable, error)
		wantErr string
	}{
		{
			name: "valid",
			build: func() (*TimeSeriesTable, error) {
				return NewTableBuilder("public", "cpu").
					Time("time").
					Field("usage", TypeFloat64).
					Build()
			},
		},
		{
			name: "no time column",
			build: func() (*TimeSeriesTable, error) {
				return NewTableBuilder("public", "cpu").
					Field("usage", TypeFloat64).
					Build()
			},
			wantErr: "time column",
		},
		{
			name: "two time columns",
			build: func() (*TimeSeriesTable, error) {
				return NewTableBuilder("public", "cpu").
					Time("t1").
					Time("t2").
					Field("usage", TypeFloat64).
					Build()
			},
			wantErr: "time column",
		},
		{
			name: "no field columns",
			build: func() (*TimeSeriesTable, error) {
				return NewTableBuilder("public", "cpu").
					Time("time").
					Tag("host").
					Build()
			},
			wantErr: "field column",
		},
		{
			name: "duplicate column",
			build: func() (*TimeSeriesTable, error) {
				return NewTableBuilder("public", "cpu").
					Time("time").
					Field("usage", TypeFloat64).
					Field("usage", TypeInt64).
					Build()
			},
			wantErr: "duplicate",
		},
		{
			name: "empty table name",
			build: func() (*TimeSeriesTable, error) {
				return NewTableBuilder("public", "").
					Time("time").
					Field("usage", TypeFloat64).
					Build()
			},
			wantErr: "name",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestArrowSchemaColumnOrder(t *testing.T) {
	tbl := cpuTable(t)
	schema := tbl.ArrowSchema()
	if schema.NumFields() != 3 {
		t.Fatalf("fields = %d, want 3", schema.NumFields())
	}
	for i, want := range []string{"time", "host", "usage"} {
		if got := schema.Field(i).Name; got != want {
			t.Errorf("field %d = %q, want %q", i, got, want)
		}
	}
}

func TestCopyOnWriteColumnOps(t *testing.T) {
	tbl := cpuTable(t)

	added := tbl.WithColumn(Field("load", TypeFloat64))
	if _, ok := tbl.Column("load"); ok {
		t.Error("WithColumn mutated the receiver")
	}
	if _, ok := added.Column("load"); !ok {
		t.Error("WithColumn result is missing the new column")
	}

	replaced := tbl.WithColumnReplaced("usage", Field("usage", TypeInt64))
	if col, _ := tbl.Column("usage"); col.Type != TypeFloat64 {
		t.Error("WithColumnReplaced mutated the receiver")
	}
	if col, _ := replaced.Column("usage"); col.Type != TypeInt64 {
		t.Error("WithColumnReplaced result kept the old type")
	}

	removed := tbl.WithoutColumn("host")
	if _, ok := tbl.Column("host"); !ok {
		t.Error("WithoutColumn mutated the receiver")
	}
	if _, ok := removed.Column("host"); ok {
		t.Error("WithoutColumn result still has the column")
	}
}

func TestTimeColumn(t *testing.T) {
	tbl := cpuTable(t)
	col, ok := tbl.TimeColumn()
	if !ok || col.Name != "time" {
		t.Fatalf("TimeColumn() = %v, %v", col, ok)
	}
}

func TestFileFormatOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    FileFormatOptions
		wantErr bool
	}{
		{"parquet", FileFormatOptions{Format: FormatParquet}, false},
		{"csv", FileFormatOptions{Format: FormatCSV, Delimiter: ';', HasHeader: true}, false},
		{"ndjson gzip", FileFormatOptions{Format: FormatNDJSON, Compression: "gzip"}, false},
		{"empty format", FileFormatOptions{}, true},
		{"unknown format", FileFormatOptions{Format: "avro"}, true},
		{"unknown compression", FileFormatOptions{Format: FormatCSV, Compression: "lz77"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
