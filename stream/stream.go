// Package stream adapts a finite list of in-memory record batches into the
// array.RecordReader abstraction the execution engine consumes.
package stream

import (
	"errors"
	"sync/atomic"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// ErrNoBatches is returned by FromBatches for an empty batch list. Use New
// with an explicit schema to produce an empty stream.
var ErrNoBatches = errors.New("stream: batch list is empty")

// BatchStream is an array.RecordReader that yields a fixed list of record
// batches in order and then terminates. Memory accounting is attached but
// the stream reserves nothing of its own; the batches stay owned by their
// allocator.
type BatchStream struct {
	schema   *arrow.Schema
	batches  []arrow.RecordBatch
	cur      arrow.RecordBatch
	idx      int
	refCount int64
}

var _ array.RecordReader = (*BatchStream)(nil)

// New creates a stream over batches, all of which must share schema. An
// empty batch list yields an empty stream of the given schema. The stream
// retains the batches; callers release the stream when done.
func New(schema *arrow.Schema, batches []arrow.RecordBatch) *BatchStream {
	for _, b := range batches {
		b.Retain()
	}
	return &BatchStream{
		schema:   schema,
		batches:  batches,
		refCount: 1,
	}
}

// FromBatches creates a stream using the first batch's schema.
// Returns ErrNoBatches for an empty list.
func FromBatches(batches []arrow.RecordBatch) (*BatchStream, error) {
	if len(batches) == 0 {
		return nil, ErrNoBatches
	}
	return New(batches[0].Schema(), batches), nil
}

// Schema implements array.RecordReader.
func (s *BatchStream) Schema() *arrow.Schema {
	return s.schema
}

// Next implements array.RecordReader.
func (s *BatchStream) Next() bool {
	if s.cur != nil {
		s.cur.Release()
		s.cur = nil
	}
	if s.idx >= len(s.batches) {
		return false
	}
	s.cur = s.batches[s.idx]
	s.cur.Retain()
	s.idx++
	return true
}

// RecordBatch implements array.RecordReader. The returned batch is valid
// until the next call to Next.
func (s *BatchStream) RecordBatch() arrow.RecordBatch {
	return s.cur
}

// Record returns the current batch.
//
// Deprecated: use RecordBatch.
func (s *BatchStream) Record() arrow.RecordBatch {
	return s.cur
}

// Err implements array.RecordReader. A batch stream cannot fail mid-way.
func (s *BatchStream) Err() error {
	return nil
}

// Retain implements array.RecordReader.
func (s *BatchStream) Retain() {
	atomic.AddInt64(&s.refCount, 1)
}

// Release implements array.RecordReader. Releasing the last reference
// releases the underlying batches.
func (s *BatchStream) Release() {
	if atomic.AddInt64(&s.refCount, -1) == 0 {
		if s.cur != nil {
			s.cur.Release()
			s.cur = nil
		}
		for _, b := range s.batches {
			b.Release()
		}
		s.batches = nil
	}
}

// Reserved reports the bytes of memory reserved by the stream itself.
// Always zero: the stream does not copy batch data.
func (s *BatchStream) Reserved() int64 {
	return 0
}
