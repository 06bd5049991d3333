package catalog

import "fmt"

// Error types surfaced by the metadata layer. All are plain values matched
// with errors.As; none is recovered internally.

// ErrDatabaseNotExists reports that resolution found no database of the
// given name.
type ErrDatabaseNotExists struct {
	Name string
}

func (e *ErrDatabaseNotExists) Error() string {
	return fmt.Sprintf("database %q not exists", e.Name)
}

// ErrDatabaseAlreadyExists reports a create collision.
type ErrDatabaseAlreadyExists struct {
	Name string
}

func (e *ErrDatabaseAlreadyExists) Error() string {
	return fmt.Sprintf("database %q already exists", e.Name)
}

// ErrTableNotExists reports that the database is present but the table is
// absent.
type ErrTableNotExists struct {
	Name string
}

func (e *ErrTableNotExists) Error() string {
	return fmt.Sprintf("table %q not exists", e.Name)
}

// ErrColumnNotExists reports that the table is present but the column is
// absent.
type ErrColumnNotExists struct {
	Table  string
	Column string
}

func (e *ErrColumnNotExists) Error() string {
	return fmt.Sprintf("column %q not exists in table %q", e.Column, e.Table)
}

// ErrColumnAlreadyExists reports an add-column collision.
type ErrColumnAlreadyExists struct {
	Table  string
	Column string
}

func (e *ErrColumnAlreadyExists) Error() string {
	return fmt.Sprintf("column %q already exists in table %q", e.Column, e.Table)
}

// ErrInvalidColumnDrop reports a policy rejection: dropping the time
// column or the last remaining field column.
type ErrInvalidColumnDrop struct {
	Table  string
	Column string
	Reason string
}

func (e *ErrInvalidColumnDrop) Error() string {
	return fmt.Sprintf("cannot drop column %q from table %q: %s", e.Column, e.Table, e.Reason)
}

// ErrExternal wraps a failure reported by the storage engine or the
// function registry.
type ErrExternal struct {
	Message string
}

func (e *ErrExternal) Error() string {
	return "external error: " + e.Message
}

// External wraps err into an ErrExternal.
func External(err error) error {
	return &ErrExternal{Message: err.Error()}
}
