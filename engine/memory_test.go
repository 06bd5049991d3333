package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/chrono-lab/tsmeta/model"
)

func TestCreateDatabase(t *testing.T) {
	e := NewMemEngine()
	ctx := context.Background()

	if err := e.CreateDatabase(ctx, model.NewDatabaseSchema("public")); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, ok := e.GetDBSchema(ctx, "public")
	if !ok {
		t.Fatal("schema missing after create")
	}
	if got.Name != "public" {
		t.Errorf("name = %q", got.Name)
	}

	err := e.CreateDatabase(ctx, model.NewDatabaseSchema("public"))
	if !errors.Is(err, ErrDatabaseExists) {
		t.Fatalf("duplicate create: got %v, want ErrDatabaseExists", err)
	}
}

func TestAlterDatabase(t *testing.T) {
	e := NewMemEngine()
	ctx := context.Background()

	schema := model.NewDatabaseSchema("public")
	if err := e.CreateDatabase(ctx, schema); err != nil {
		t.Fatalf("create: %v", err)
	}

	altered := schema.Clone()
	altered.ShardNum = 8
	if err := e.AlterDatabase(ctx, altered); err != nil {
		t.Fatalf("alter: %v", err)
	}
	got, _ := e.GetDBSchema(ctx, "public")
	if got.ShardNum != 8 {
		t.Errorf("shard num = %d, want 8", got.ShardNum)
	}

	err := e.AlterDatabase(ctx, model.NewDatabaseSchema("missing"))
	if !errors.Is(err, ErrDatabaseUnknown) {
		t.Fatalf("alter missing: got %v, want ErrDatabaseUnknown", err)
	}
}

func TestAlterColumnWidening(t *testing.T) {
	e := NewMemEngine()
	ctx := context.Background()

	err := e.AlterColumn(ctx, "public", "cpu",
		model.Field("count", model.TypeInt32),
		model.Field("count", model.TypeInt64))
	if err != nil {
		t.Fatalf("widening alter: %v", err)
	}

	err = e.AlterColumn(ctx, "public", "cpu",
		model.Field("count", model.TypeInt64),
		model.Field("count", model.TypeInt32))
	if !errors.Is(err, ErrTypeChange) {
		t.Fatalf("narrowing alter: got %v, want ErrTypeChange", err)
	}

	err = e.AlterColumn(ctx, "public", "cpu",
		model.Field("count", model.TypeInt64),
		model.Field("count", "decimal"))
	if err == nil {
		t.Fatal("expected error for invalid target column")
	}
}

func TestWriteReadBatch(t *testing.T) {
	e := NewMemEngine()
	ctx := context.Background()
	mem := memory.NewGoAllocator()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "v", Type: arrow.PrimitiveTypes.Int64},
	}, nil)
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2, 3}, nil)
	batch := b.NewRecordBatch()
	defer batch.Release()

	e.WriteBatch("public", "cpu", batch)

	got, err := e.ReadTable(ctx, "public", "cpu")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 || got[0].NumRows() != 3 {
		t.Fatalf("read %d batches, want 1 with 3 rows", len(got))
	}

	empty, err := e.ReadTable(ctx, "public", "mem")
	if err != nil {
		t.Fatalf("read empty: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("read %d batches from empty table", len(empty))
	}
}

func TestSnapshotRestore(t *testing.T) {
	e := NewMemEngine()
	ctx := context.Background()

	schema := model.NewDatabaseSchema("public")
	schema.ShardNum = 4
	if err := e.CreateDatabase(ctx, schema); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := e.CreateDatabase(ctx, model.NewDatabaseSchema("logs")); err != nil {
		t.Fatalf("create: %v", err)
	}

	data, err := e.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	restored := NewMemEngine()
	if err := restored.Restore(data); err != nil {
		t.Fatalf("restore: %v", err)
	}

	got, ok := restored.GetDBSchema(ctx, "public")
	if !ok {
		t.Fatal("database missing after restore")
	}
	if got.ShardNum != 4 || got.ID != schema.ID {
		t.Errorf("restored schema = %+v", got)
	}
	if _, ok := restored.GetDBSchema(ctx, "logs"); !ok {
		t.Error("second database missing after restore")
	}
}

func TestRestoreCorrupt(t *testing.T) {
	e := NewMemEngine()
	if err := e.Restore([]byte("not a snapshot")); err == nil {
		t.Fatal("expected error for corrupt snapshot data")
	}
}
