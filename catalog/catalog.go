// Package catalog holds the in-memory authority on databases and tables:
// the catalog registry (database name -> Database), the per-database table
// maps, and the reference resolver. The storage engine owns persistent
// state; this package owns the view the planner queries.
//
// Lock order when both locks are needed: registry lock first, then the
// database lock. Never the reverse.
package catalog

import (
	"fmt"
	"sync"
)

// Catalog is the registry of databases within the single process catalog.
// All methods are goroutine-safe.
type Catalog struct {
	mu        sync.RWMutex
	databases map[string]*Database
}

// New creates an empty catalog registry.
func New() *Catalog {
	return &Catalog{
		databases: make(map[string]*Database),
	}
}

// RegisterDatabase adds a database to the registry.
// Returns ErrDatabaseAlreadyExists if the name is taken.
func (c *Catalog) RegisterDatabase(name string, db *Database) error {
	if db == nil {
		return fmt.Errorf("register database %q: nil database", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.databases[name]; ok {
		return &ErrDatabaseAlreadyExists{Name: name}
	}
	c.databases[name] = db
	return nil
}

// DeregisterDatabase removes a database and drops all its tables.
// Returns ErrDatabaseNotExists if the name is unknown.
func (c *Catalog) DeregisterDatabase(name string) error {
	c.mu.Lock()
	db, ok := c.databases[name]
	if ok {
		delete(c.databases, name)
	}
	c.mu.Unlock()

	if !ok {
		return &ErrDatabaseNotExists{Name: name}
	}
	db.dropAllTables()
	return nil
}

// Database returns the registered database of the given name.
func (c *Catalog) Database(name string) (*Database, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	db, ok := c.databases[name]
	return db, ok
}

// DatabaseNames returns the names of the registered databases, unordered.
// The result is a consistent snapshot of the registry at some point during
// the call.
func (c *Catalog) DatabaseNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.databases))
	for name := range c.databases {
		names = append(names, name)
	}
	return names
}
