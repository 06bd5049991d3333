package tsmeta

import (
	"context"

	"github.com/chrono-lab/tsmeta/engine"
	"github.com/chrono-lab/tsmeta/functions"
	"github.com/chrono-lab/tsmeta/model"
)

// Compile-time constants exposed to peers. Local mode runs a single
// catalog; every resolved reference carries DefaultCatalog.
const (
	// DefaultCatalog is the name of the single process-wide catalog.
	DefaultCatalog = "default_catalog"

	// DefaultDatabase is the database created at facade initialization.
	DefaultDatabase = "public"
)

// MetaData is the operational contract of the metadata facade. Every
// operation that takes a reference resolves it against the facade's
// current (catalog, database) context first.
//
// Implementations MUST be goroutine-safe; operations may be invoked from
// multiple planner and execution threads concurrently.
type MetaData interface {
	// WithCatalog returns a view of the facade with the current catalog
	// overridden. The view shares the catalog registry, engine and
	// function registry with the original.
	WithCatalog(name string) MetaData

	// WithDatabase returns a view with the current database overridden.
	WithDatabase(name string) MetaData

	// CatalogName returns the current catalog context.
	CatalogName() string

	// SchemaName returns the current database context. The SQL planner
	// calls databases "schemas".
	SchemaName() string

	// StorageEngine returns the storage engine handle. Part of the public
	// contract so the planner adapter can build native table sources
	// without inspecting the facade's concrete type.
	StorageEngine() engine.Engine

	// Function returns the function registry.
	Function() functions.Registry

	// Table resolves a reference and returns the table schema.
	Table(ctx context.Context, ref string) (model.TableSchema, error)

	// Database fetches the database descriptor from the storage engine.
	Database(ctx context.Context, name string) (*model.DatabaseSchema, error)

	// CreateDatabase registers a database and persists its descriptor.
	CreateDatabase(ctx context.Context, name string, schema *model.DatabaseSchema) error

	// CreateTable resolves the reference and registers the table schema in
	// its database. Registration is an upsert (see catalog.Database).
	CreateTable(ctx context.Context, ref string, schema model.TableSchema) error

	// DropDatabase removes a database and all of its tables.
	DropDatabase(ctx context.Context, name string) error

	// DropTable resolves the reference and removes the table.
	DropTable(ctx context.Context, ref string) error

	// AlterDatabase replaces a database descriptor in the storage engine.
	AlterDatabase(ctx context.Context, schema *model.DatabaseSchema) error

	// AlterTableAddColumn appends a column to a time-series table.
	AlterTableAddColumn(ctx context.Context, ref string, col model.TableColumn) error

	// AlterTableAlterColumn replaces a column definition. Only widening
	// type conversions are accepted by the storage engine.
	AlterTableAlterColumn(ctx context.Context, ref string, column string, newCol model.TableColumn) error

	// AlterTableDropColumn removes a column. The time column and the last
	// field column cannot be dropped.
	AlterTableDropColumn(ctx context.Context, ref string, column string) error

	// DatabaseNames lists the registered databases, unordered.
	DatabaseNames() []string

	// ShowTables lists the tables of a database, unordered. An empty name
	// means the current database.
	ShowTables(ctx context.Context, db string) ([]string, error)
}
