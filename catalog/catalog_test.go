package catalog

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/chrono-lab/tsmeta/model"
)

// stubEngine is a no-op storage engine for registry and database tests.
// Individual calls can be overridden per test.
type stubEngine struct {
	addColumn   func(db, table string, col model.TableColumn) error
	alterColumn func(db, table string, oldCol, newCol model.TableColumn) error
	dropColumn  func(db, table, column string) error
}

func (e *stubEngine) GetDBSchema(context.Context, string) (*model.DatabaseSchema, bool) {
	return nil, false
}

func (e *stubEngine) CreateDatabase(context.Context, *model.DatabaseSchema) error { return nil }
func (e *stubEngine) AlterDatabase(context.Context, *model.DatabaseSchema) error  { return nil }

func (e *stubEngine) AddColumn(_ context.Context, db, table string, col model.TableColumn) error {
	if e.addColumn != nil {
		return e.addColumn(db, table, col)
	}
	return nil
}

func (e *stubEngine) AlterColumn(_ context.Context, db, table string, oldCol, newCol model.TableColumn) error {
	if e.alterColumn != nil {
		return e.alterColumn(db, table, oldCol, newCol)
	}
	return nil
}

func (e *stubEngine) DropColumn(_ context.Context, db, table, column string) error {
	if e.dropColumn != nil {
		return e.dropColumn(db, table, column)
	}
	return nil
}

func (e *stubEngine) ReadTable(context.Context, string, string) ([]arrow.RecordBatch, error) {
	return nil, nil
}

func newTestDatabase(t *testing.T, name string) *Database {
	t.Helper()
	return NewDatabase(name, &stubEngine{}, model.NewDatabaseSchema(name))
}

func TestRegisterDatabase(t *testing.T) {
	c := New()

	if err := c.RegisterDatabase("logs", newTestDatabase(t, "logs")); err != nil {
		t.Fatalf("register: %v", err)
	}

	err := c.RegisterDatabase("logs", newTestDatabase(t, "logs"))
	var exists *ErrDatabaseAlreadyExists
	if !errors.As(err, &exists) {
		t.Fatalf("duplicate register: got %v, want ErrDatabaseAlreadyExists", err)
	}
	if exists.Name != "logs" {
		t.Errorf("error name = %q, want %q", exists.Name, "logs")
	}
}

func TestRegisterNilDatabase(t *testing.T) {
	c := New()
	if err := c.RegisterDatabase("logs", nil); err == nil {
		t.Fatal("expected error for nil database")
	}
}

func TestDeregisterDatabase(t *testing.T) {
	c := New()
	db := newTestDatabase(t, "logs")
	schema := model.NewTableBuilder("logs", "evt").
		Time("time").
		Field("value", model.TypeFloat64).
		MustBuild()
	if _, err := db.RegisterTable("evt", schema); err != nil {
		t.Fatalf("register table: %v", err)
	}

	if err := c.RegisterDatabase("logs", db); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := c.DeregisterDatabase("logs"); err != nil {
		t.Fatalf("deregister: %v", err)
	}

	// Drop removes contained tables transitively.
	if names := db.TableNames(); len(names) != 0 {
		t.Errorf("table names after drop = %v, want empty", names)
	}

	err := c.DeregisterDatabase("logs")
	var notExists *ErrDatabaseNotExists
	if !errors.As(err, &notExists) {
		t.Fatalf("second deregister: got %v, want ErrDatabaseNotExists", err)
	}
}

func TestDatabaseNames(t *testing.T) {
	c := New()
	for _, name := range []string{"a", "b", "c"} {
		if err := c.RegisterDatabase(name, newTestDatabase(t, name)); err != nil {
			t.Fatalf("register %q: %v", name, err)
		}
	}

	names := c.DatabaseNames()
	slices.Sort(names)
	want := []string{"a", "b", "c"}
	if !slices.Equal(names, want) {
		t.Errorf("DatabaseNames() = %v, want %v", names, want)
	}
}
