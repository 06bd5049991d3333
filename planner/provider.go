package planner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/chrono-lab/tsmeta"
	"github.com/chrono-lab/tsmeta/catalog"
	"github.com/chrono-lab/tsmeta/functions"
	"github.com/chrono-lab/tsmeta/model"
)

// ContextProvider is the contract by which SQL planning obtains table
// sources, function definitions and session variable types.
type ContextProvider interface {
	// GetTableProvider resolves a reference and returns the table source.
	// A miss is reported as a PlanError carrying the fully resolved name.
	GetTableProvider(ctx context.Context, ref string) (TableSource, error)

	// GetFunctionMeta returns the scalar function of the given name.
	// Absence is not an error; the planner handles unknown names.
	GetFunctionMeta(name string) (functions.ScalarFunction, bool)

	// GetAggregateMeta returns the aggregate function of the given name.
	GetAggregateMeta(name string) (functions.AggregateFunction, bool)

	// GetVariableType returns the type of a session variable path.
	GetVariableType(path []string) (arrow.DataType, bool)
}

// PlanError is the planner-facing wrapping of a metadata failure. The
// message carries the fully resolved (catalog, database, table) triple.
type PlanError struct {
	Ref catalog.ResolvedRef
	Err error
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("failed to resolve catalog: %s, database: %s, table: %s: %v",
		e.Ref.Catalog, e.Ref.Database, e.Ref.Table, e.Err)
}

func (e *PlanError) Unwrap() error {
	return e.Err
}

// MetadataProvider implements ContextProvider on top of the metadata
// facade.
type MetadataProvider struct {
	meta   tsmeta.MetaData
	alloc  memory.Allocator
	logger *slog.Logger
}

var _ ContextProvider = (*MetadataProvider)(nil)

// ProviderConfig carries the optional collaborators of a
// MetadataProvider.
type ProviderConfig struct {
	// Allocator for Arrow memory management.
	// OPTIONAL: Uses memory.DefaultAllocator if nil.
	Allocator memory.Allocator

	// Logger for internal logging.
	// OPTIONAL: Uses slog.Default() if nil.
	Logger *slog.Logger
}

// NewMetadataProvider creates a provider bound to the given facade.
func NewMetadataProvider(meta tsmeta.MetaData, cfg ProviderConfig) *MetadataProvider {
	if cfg.Allocator == nil {
		cfg.Allocator = memory.DefaultAllocator
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &MetadataProvider{meta: meta, alloc: cfg.Allocator, logger: cfg.Logger}
}

// GetTableProvider implements ContextProvider. The table-schema sum is
// dispatched exhaustively: native tables become cluster sources bound to
// the facade's storage engine, external listing tables become listing
// sources.
func (p *MetadataProvider) GetTableProvider(ctx context.Context, ref string) (TableSource, error) {
	schema, err := p.meta.Table(ctx, ref)
	if err != nil {
		resolved := catalog.ParseObjectRef(ref).Resolve(p.meta.CatalogName(), p.meta.SchemaName())
		return nil, &PlanError{Ref: resolved, Err: err}
	}

	switch s := schema.(type) {
	case *model.TimeSeriesTable:
		return NewClusterTable(p.meta.StorageEngine(), s, p.logger), nil
	case *model.ExternalTable:
		source, err := NewListingTable(s, p.alloc)
		if err != nil {
			resolved := catalog.ParseObjectRef(ref).Resolve(p.meta.CatalogName(), p.meta.SchemaName())
			return nil, &PlanError{Ref: resolved, Err: err}
		}
		return source, nil
	default:
		return nil, fmt.Errorf("unhandled table schema kind %T", schema)
	}
}

// GetFunctionMeta implements ContextProvider.
func (p *MetadataProvider) GetFunctionMeta(name string) (functions.ScalarFunction, bool) {
	fn, err := p.meta.Function().UDF(name)
	if err != nil {
		return nil, false
	}
	return fn, true
}

// GetAggregateMeta implements ContextProvider.
func (p *MetadataProvider) GetAggregateMeta(name string) (functions.AggregateFunction, bool) {
	fn, err := p.meta.Function().UDAF(name)
	if err != nil {
		return nil, false
	}
	return fn, true
}

// GetVariableType implements ContextProvider. Session variables are not
// implemented; every path reports a miss.
func (p *MetadataProvider) GetVariableType(_ []string) (arrow.DataType, bool) {
	return nil, false
}
