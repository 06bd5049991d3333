package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/chrono-lab/tsmeta/internal/serialize"
	"github.com/chrono-lab/tsmeta/model"
)

// MemEngine is an in-memory storage engine. It keeps database schemas and
// per-table record batches in maps and enforces the same column policies a
// persistent engine would (widening-only type changes). State can be
// exported to and restored from a compressed snapshot.
type MemEngine struct {
	mu        sync.RWMutex
	databases map[string]*model.DatabaseSchema
	data      map[string][]arrow.RecordBatch // keyed "db.table"
}

var _ Engine = (*MemEngine)(nil)

// NewMemEngine creates an empty in-memory engine.
func NewMemEngine() *MemEngine {
	return &MemEngine{
		databases: make(map[string]*model.DatabaseSchema),
		data:      make(map[string][]arrow.RecordBatch),
	}
}

func dataKey(db, table string) string {
	return db + "." + table
}

// GetDBSchema implements Engine.
func (e *MemEngine) GetDBSchema(_ context.Context, name string) (*model.DatabaseSchema, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	schema, ok := e.databases[name]
	if !ok {
		return nil, false
	}
	return schema.Clone(), true
}

// CreateDatabase implements Engine.
func (e *MemEngine) CreateDatabase(_ context.Context, schema *model.DatabaseSchema) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.databases[schema.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDatabaseExists, schema.Name)
	}
	e.databases[schema.Name] = schema.Clone()
	return nil
}

// AlterDatabase implements Engine.
func (e *MemEngine) AlterDatabase(_ context.Context, schema *model.DatabaseSchema) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.databases[schema.Name]; !ok {
		return fmt.Errorf("%w: %q", ErrDatabaseUnknown, schema.Name)
	}
	e.databases[schema.Name] = schema.Clone()
	return nil
}

// AddColumn implements Engine. The in-memory engine only validates the
// definition; it stores no per-column state of its own.
func (e *MemEngine) AddColumn(_ context.Context, db, table string, col model.TableColumn) error {
	if err := col.Validate(); err != nil {
		return fmt.Errorf("add column to %s.%s: %w", db, table, err)
	}
	return nil
}

// AlterColumn implements Engine. Rejects any type change that is not a
// widening conversion.
func (e *MemEngine) AlterColumn(_ context.Context, db, table string, oldCol, newCol model.TableColumn) error {
	if err := newCol.Validate(); err != nil {
		return fmt.Errorf("alter column %s.%s.%s: %w", db, table, oldCol.Name, err)
	}
	if !model.IsWidening(oldCol.Type, newCol.Type) {
		return fmt.Errorf("alter column %s.%s.%s from %s to %s: %w",
			db, table, oldCol.Name, oldCol.Type, newCol.Type, ErrTypeChange)
	}
	return nil
}

// DropColumn implements Engine. Dropped column data is discarded lazily;
// the in-memory engine has nothing to do.
func (e *MemEngine) DropColumn(_ context.Context, _, _, _ string) error {
	return nil
}

// ReadTable implements Engine.
func (e *MemEngine) ReadTable(_ context.Context, db, table string) ([]arrow.RecordBatch, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	batches := e.data[dataKey(db, table)]
	out := make([]arrow.RecordBatch, len(batches))
	copy(out, batches)
	return out, nil
}

// WriteBatch appends a record batch to a table. The batch is retained
// until the engine is dropped.
func (e *MemEngine) WriteBatch(db, table string, batch arrow.RecordBatch) {
	batch.Retain()

	e.mu.Lock()
	defer e.mu.Unlock()
	key := dataKey(db, table)
	e.data[key] = append(e.data[key], batch)
}

// Snapshot exports the engine's database schemas as compressed bytes.
func (e *MemEngine) Snapshot() ([]byte, error) {
	e.mu.RLock()
	snap := &serialize.Snapshot{
		Databases: make([]*model.DatabaseSchema, 0, len(e.databases)),
	}
	for _, schema := range e.databases {
		snap.Databases = append(snap.Databases, schema.Clone())
	}
	e.mu.RUnlock()

	return serialize.Encode(snap)
}

// Restore replaces the engine's database schemas with the contents of a
// snapshot produced by Snapshot. Table data is not part of snapshots and
// is left untouched.
func (e *MemEngine) Restore(data []byte) error {
	snap, err := serialize.Decode(data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.databases = make(map[string]*model.DatabaseSchema, len(snap.Databases))
	for _, schema := range snap.Databases {
		e.databases[schema.Name] = schema
	}
	return nil
}
