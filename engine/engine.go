// Package engine defines the storage-engine contract consumed by the
// metadata layer, and provides an in-memory reference engine used by tests
// and by embedders that do not run a persistent time-series store.
package engine

import (
	"context"
	"errors"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/chrono-lab/tsmeta/model"
)

// Sentinel errors reported by storage engines.
var (
	// ErrDatabaseExists is returned by CreateDatabase for a duplicate name.
	ErrDatabaseExists = errors.New("database already exists in engine")

	// ErrDatabaseUnknown is returned by AlterDatabase for an unknown name.
	ErrDatabaseUnknown = errors.New("database unknown to engine")

	// ErrTypeChange is returned by AlterColumn when the requested type
	// change is not a widening conversion.
	ErrTypeChange = errors.New("column type change is not a widening conversion")
)

// Engine is the storage engine consumed by the metadata layer. It owns the
// persistent database schemas and the data of time-series tables; the
// catalog holds the in-memory view.
//
// Calls are expected to be short blocking operations. Implementations MUST
// be goroutine-safe: column alterations are invoked while the owning
// database's lock is held, so they must not call back into the catalog.
type Engine interface {
	// GetDBSchema returns the persisted schema of a database, or false if
	// the engine has no database of that name.
	GetDBSchema(ctx context.Context, name string) (*model.DatabaseSchema, bool)

	// CreateDatabase persists a new database schema.
	// Returns ErrDatabaseExists for a duplicate name.
	CreateDatabase(ctx context.Context, schema *model.DatabaseSchema) error

	// AlterDatabase replaces the persisted schema of an existing database.
	// Returns ErrDatabaseUnknown if the database was never created.
	AlterDatabase(ctx context.Context, schema *model.DatabaseSchema) error

	// AddColumn persists the addition of a column to a time-series table.
	AddColumn(ctx context.Context, db, table string, col model.TableColumn) error

	// AlterColumn persists a column replacement. The engine receives both
	// the current and the new definition and rejects non-widening type
	// changes with ErrTypeChange.
	AlterColumn(ctx context.Context, db, table string, oldCol, newCol model.TableColumn) error

	// DropColumn persists the removal of a column.
	DropColumn(ctx context.Context, db, table, column string) error

	// ReadTable returns the stored record batches of a time-series table.
	// An unknown table yields an empty slice, not an error; the catalog is
	// the authority on table existence.
	ReadTable(ctx context.Context, db, table string) ([]arrow.RecordBatch, error)
}
