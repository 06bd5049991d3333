package stream

import (
	"errors"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

func int64Schema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "v", Type: arrow.PrimitiveTypes.Int64},
	}, nil)
}

func int64Batch(t *testing.T, mem memory.Allocator, values []int64) arrow.RecordBatch {
	t.Helper()
	b := array.NewRecordBuilder(mem, int64Schema())
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues(values, nil)
	return b.NewRecordBatch()
}

func TestStreamYieldsBatchesInOrder(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	b1 := int64Batch(t, mem, []int64{1, 2})
	b2 := int64Batch(t, mem, []int64{3})

	s := New(int64Schema(), []arrow.RecordBatch{b1, b2})
	b1.Release()
	b2.Release()

	var rows []int64
	for s.Next() {
		col := s.RecordBatch().Column(0).(*array.Int64)
		for i := 0; i < col.Len(); i++ {
			rows = append(rows, col.Value(i))
		}
	}
	s.Release()

	want := []int64{1, 2, 3}
	if len(rows) != len(want) {
		t.Fatalf("rows = %v, want %v", rows, want)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("rows = %v, want %v", rows, want)
		}
	}
}

func TestEmptyStream(t *testing.T) {
	s := New(int64Schema(), nil)
	defer s.Release()

	if s.Schema() == nil || s.Schema().NumFields() != 1 {
		t.Fatalf("schema = %v", s.Schema())
	}
	if s.Next() {
		t.Fatal("empty stream yielded a batch")
	}
	if err := s.Err(); err != nil {
		t.Fatalf("err = %v", err)
	}
}

func TestFromBatches(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	b := int64Batch(t, mem, []int64{1})
	s, err := FromBatches([]arrow.RecordBatch{b})
	if err != nil {
		t.Fatalf("from batches: %v", err)
	}
	b.Release()

	if !s.Schema().Equal(int64Schema()) {
		t.Errorf("schema = %v", s.Schema())
	}
	s.Release()

	if _, err := FromBatches(nil); !errors.Is(err, ErrNoBatches) {
		t.Fatalf("empty list: got %v, want ErrNoBatches", err)
	}
}

func TestReserved(t *testing.T) {
	s := New(int64Schema(), nil)
	defer s.Release()
	if s.Reserved() != 0 {
		t.Errorf("reserved = %d, want 0", s.Reserved())
	}
}

func TestRetainRelease(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	b := int64Batch(t, mem, []int64{1})
	s := New(int64Schema(), []arrow.RecordBatch{b})
	b.Release()

	// A second reference keeps the batches alive past the first release.
	s.Retain()
	s.Release()
	if !s.Next() {
		t.Fatal("stream exhausted while still referenced")
	}
	if got := s.RecordBatch().NumRows(); got != 1 {
		t.Fatalf("rows = %d", got)
	}
	s.Release()
}
