package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/chrono-lab/tsmeta/engine"
	"github.com/chrono-lab/tsmeta/model"
)

// Database is the in-memory table map of one database, plus the handle to
// the storage engine that persists its column-level changes.
//
// Table schemas stored here are treated as immutable: column mutations
// install a fresh schema value, so a reader holding the previous pointer
// keeps a consistent view.
type Database struct {
	name   string
	engine engine.Engine

	mu     sync.RWMutex
	schema *model.DatabaseSchema
	tables map[string]model.TableSchema
}

// NewDatabase creates a database object bound to the given engine.
func NewDatabase(name string, eng engine.Engine, schema *model.DatabaseSchema) *Database {
	return &Database{
		name:   name,
		engine: eng,
		schema: schema,
		tables: make(map[string]model.TableSchema),
	}
}

// Name returns the database name.
func (d *Database) Name() string {
	return d.name
}

// Schema returns the cached storage-engine descriptor.
func (d *Database) Schema() *model.DatabaseSchema {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.schema
}

// RegisterTable inserts a table schema. Registration is an upsert: an
// existing entry of the same name is overwritten silently and returned, as
// the planner uses registration to refresh schemas.
func (d *Database) RegisterTable(name string, schema model.TableSchema) (model.TableSchema, error) {
	if schema == nil {
		return nil, fmt.Errorf("register table %q: nil schema", name)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	prev := d.tables[name]
	d.tables[name] = schema
	return prev, nil
}

// DeregisterTable removes a table and returns its schema.
// Returns ErrTableNotExists if the name is unknown.
func (d *Database) DeregisterTable(name string) (model.TableSchema, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	schema, ok := d.tables[name]
	if !ok {
		return nil, &ErrTableNotExists{Name: name}
	}
	delete(d.tables, name)
	return schema, nil
}

// Table returns the schema of the named table.
func (d *Database) Table(name string) (model.TableSchema, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	schema, ok := d.tables[name]
	return schema, ok
}

// TableNames returns the names of the registered tables, unordered. The
// result is a consistent snapshot of the table map at some point during
// the call.
func (d *Database) TableNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.tables))
	for name := range d.tables {
		names = append(names, name)
	}
	return names
}

// AddColumn appends a column to a time-series table and persists the
// change. The lock is held across the engine round-trip; if the engine
// rejects the change the in-memory schema is left untouched.
func (d *Database) AddColumn(ctx context.Context, table string, col model.TableColumn) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	schema, err := d.timeSeriesTable(table)
	if err != nil {
		return err
	}
	if _, ok := schema.Column(col.Name); ok {
		return &ErrColumnAlreadyExists{Table: table, Column: col.Name}
	}

	if err := d.engine.AddColumn(ctx, d.name, table, col); err != nil {
		return External(err)
	}
	d.tables[table] = schema.WithColumn(col)
	return nil
}

// AlterColumn replaces a column definition and persists the change. A
// rename must not collide with another column, and the replacement must
// leave the table schema valid (one time column, at least one field). The
// engine enforces the type change policy (widening conversions only); on
// any rejection the in-memory schema is left untouched.
func (d *Database) AlterColumn(ctx context.Context, table, column string, newCol model.TableColumn) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	schema, err := d.timeSeriesTable(table)
	if err != nil {
		return err
	}
	old, ok := schema.Column(column)
	if !ok {
		return &ErrColumnNotExists{Table: table, Column: column}
	}
	if newCol.Name != column {
		if _, ok := schema.Column(newCol.Name); ok {
			return &ErrColumnAlreadyExists{Table: table, Column: newCol.Name}
		}
	}
	replaced := schema.WithColumnReplaced(column, newCol)
	if err := replaced.Validate(); err != nil {
		return err
	}

	if err := d.engine.AlterColumn(ctx, d.name, table, old, newCol); err != nil {
		return External(err)
	}
	d.tables[table] = replaced
	return nil
}

// DropColumn removes a column and persists the change. Dropping the time
// column or the last remaining field column is rejected with
// ErrInvalidColumnDrop before the engine is consulted.
func (d *Database) DropColumn(ctx context.Context, table, column string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	schema, err := d.timeSeriesTable(table)
	if err != nil {
		return err
	}
	col, ok := schema.Column(column)
	if !ok {
		return &ErrColumnNotExists{Table: table, Column: column}
	}
	if col.Role == model.RoleTime {
		return &ErrInvalidColumnDrop{Table: table, Column: column, Reason: "time column cannot be dropped"}
	}
	if col.Role == model.RoleField && schema.FieldColumns() == 1 {
		return &ErrInvalidColumnDrop{Table: table, Column: column, Reason: "last field column cannot be dropped"}
	}

	if err := d.engine.DropColumn(ctx, d.name, table, column); err != nil {
		return External(err)
	}
	d.tables[table] = schema.WithoutColumn(column)
	return nil
}

// timeSeriesTable looks up a table and requires it to be a time-series
// table. Column mutations do not apply to external listing tables, whose
// file-backed schemas are immutable at this layer. Callers hold d.mu.
func (d *Database) timeSeriesTable(name string) (*model.TimeSeriesTable, error) {
	schema, ok := d.tables[name]
	if !ok {
		return nil, &ErrTableNotExists{Name: name}
	}
	ts, ok := schema.(*model.TimeSeriesTable)
	if !ok {
		return nil, &ErrExternal{Message: fmt.Sprintf("table %q is an external listing table; its columns are immutable", name)}
	}
	return ts, nil
}

// dropAllTables clears the table map. Used when the database is
// deregistered from the catalog.
func (d *Database) dropAllTables() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tables = make(map[string]model.TableSchema)
}
