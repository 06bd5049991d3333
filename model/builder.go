package model

// TableBuilder builds TimeSeriesTable schemas using a fluent API.
// Not thread-safe - use only during schema construction.
//
// Example:
//
//	schema, err := model.NewTableBuilder("logs", "evt").
//	    Time("time").
//	    Tag("host").
//	    Field("level", model.TypeString).
//	    Field("msg", model.TypeString).
//	    Build()
type TableBuilder struct {
	database string
	table    string
	columns  []TableColumn
}

// NewTableBuilder starts a builder for the table identified by
// (database, table).
func NewTableBuilder(database, table string) *TableBuilder {
	return &TableBuilder{database: database, table: table}
}

// Time adds the time column. A valid table has exactly one.
func (b *TableBuilder) Time(name string) *TableBuilder {
	b.columns = append(b.columns, Time(name))
	return b
}

// Tag adds a tag column.
func (b *TableBuilder) Tag(name string) *TableBuilder {
	b.columns = append(b.columns, Tag(name))
	return b
}

// Field adds a field column with the given type.
func (b *TableBuilder) Field(name string, t ColumnType) *TableBuilder {
	b.columns = append(b.columns, Field(name, t))
	return b
}

// Column adds a fully specified column.
func (b *TableBuilder) Column(col TableColumn) *TableBuilder {
	b.columns = append(b.columns, col)
	return b
}

// Build validates the collected columns and returns the schema.
// Returns an error on duplicate column names, a missing or duplicated time
// column, or a table without field columns.
func (b *TableBuilder) Build() (*TimeSeriesTable, error) {
	schema := &TimeSeriesTable{
		DatabaseName: b.database,
		TableName:    b.table,
		Columns:      b.columns,
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return schema, nil
}

// MustBuild is Build that panics on error. Intended for tests and
// statically known schemas.
func (b *TableBuilder) MustBuild() *TimeSeriesTable {
	schema, err := b.Build()
	if err != nil {
		panic(err)
	}
	return schema
}
