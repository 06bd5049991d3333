package tsmeta

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chrono-lab/tsmeta/catalog"
	"github.com/chrono-lab/tsmeta/engine"
	"github.com/chrono-lab/tsmeta/functions"
	"github.com/chrono-lab/tsmeta/metrics"
	"github.com/chrono-lab/tsmeta/model"
)

// LocalMeta is the metadata facade of a single-node query server. It is a
// cheap view: a (catalog, database) context pair plus shared handles to
// the catalog registry, the storage engine and the function registry.
// WithCatalog and WithDatabase copy the view and rebind the context; all
// views have equal standing.
type LocalMeta struct {
	catalogName  string
	databaseName string

	engine    engine.Engine
	catalog   *catalog.Catalog
	functions functions.Registry
	logger    *slog.Logger
}

var _ MetaData = (*LocalMeta)(nil)

// NewWithDefault builds a facade bound to DefaultCatalog/DefaultDatabase
// and creates the default database. A database that already exists in the
// storage engine is adopted silently, which makes initialization
// idempotent across restarts; any other failure is returned.
func NewWithDefault(cfg Config) (*LocalMeta, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	m := &LocalMeta{
		catalogName:  DefaultCatalog,
		databaseName: DefaultDatabase,
		engine:       cfg.Engine,
		catalog:      catalog.New(),
		functions:    cfg.Functions,
		logger:       cfg.Logger,
	}

	err = m.CreateDatabase(context.Background(), DefaultDatabase, model.NewDatabaseSchema(DefaultDatabase))
	var exists *catalog.ErrDatabaseAlreadyExists
	if err != nil && !errors.As(err, &exists) {
		return nil, fmt.Errorf("bootstrap default database: %w", err)
	}
	return m, nil
}

// WithCatalog implements MetaData.
func (m *LocalMeta) WithCatalog(name string) MetaData {
	clone := *m
	clone.catalogName = name
	return &clone
}

// WithDatabase implements MetaData.
func (m *LocalMeta) WithDatabase(name string) MetaData {
	clone := *m
	clone.databaseName = name
	return &clone
}

// CatalogName implements MetaData.
func (m *LocalMeta) CatalogName() string {
	return m.catalogName
}

// SchemaName implements MetaData.
func (m *LocalMeta) SchemaName() string {
	return m.databaseName
}

// StorageEngine implements MetaData.
func (m *LocalMeta) StorageEngine() engine.Engine {
	return m.engine
}

// Function implements MetaData.
func (m *LocalMeta) Function() functions.Registry {
	return m.functions
}

// resolve expands a reference against the current context. The catalog
// component is carried for error messages; local mode does not use it as a
// lookup key.
func (m *LocalMeta) resolve(ref string) catalog.ResolvedRef {
	return catalog.ParseObjectRef(ref).Resolve(m.catalogName, m.databaseName)
}

// database looks up a registered database by name.
func (m *LocalMeta) database(name string) (*catalog.Database, error) {
	db, ok := m.catalog.Database(name)
	if !ok {
		return nil, &catalog.ErrDatabaseNotExists{Name: name}
	}
	return db, nil
}

// Table implements MetaData.
func (m *LocalMeta) Table(_ context.Context, ref string) (model.TableSchema, error) {
	name := m.resolve(ref)
	db, err := m.database(name.Database)
	if err != nil {
		return nil, err
	}
	schema, ok := db.Table(name.Table)
	if !ok {
		return nil, &catalog.ErrTableNotExists{Name: name.Table}
	}
	return schema, nil
}

// Database implements MetaData. The descriptor comes from the storage
// engine, the owner of persistent database state.
func (m *LocalMeta) Database(ctx context.Context, name string) (*model.DatabaseSchema, error) {
	schema, ok := m.engine.GetDBSchema(ctx, name)
	if !ok {
		return nil, &catalog.ErrDatabaseNotExists{Name: name}
	}
	return schema, nil
}

// CreateDatabase implements MetaData. A database the storage engine
// already knows is registered from the engine's descriptor and reported
// as ErrDatabaseAlreadyExists; this is the initialization path after a
// restart.
func (m *LocalMeta) CreateDatabase(ctx context.Context, name string, schema *model.DatabaseSchema) error {
	if existing, ok := m.engine.GetDBSchema(ctx, name); ok {
		db := catalog.NewDatabase(name, m.engine, existing)
		if err := m.catalog.RegisterDatabase(name, db); err != nil {
			return err
		}
		metrics.DatabasesRegistered.Set(float64(len(m.catalog.DatabaseNames())))
		return &catalog.ErrDatabaseAlreadyExists{Name: name}
	}

	db := catalog.NewDatabase(name, m.engine, schema)
	if err := m.catalog.RegisterDatabase(name, db); err != nil {
		return err
	}
	if err := m.engine.CreateDatabase(ctx, schema); err != nil {
		// Roll the registration back so the view stays consistent with
		// the engine.
		_ = m.catalog.DeregisterDatabase(name)
		return catalog.External(err)
	}

	metrics.DatabasesCreated.Inc()
	metrics.DatabasesRegistered.Set(float64(len(m.catalog.DatabaseNames())))
	m.logger.Info("database created", "database", name)
	return nil
}

// CreateTable implements MetaData.
func (m *LocalMeta) CreateTable(ctx context.Context, ref string, schema model.TableSchema) error {
	if ts, ok := schema.(*model.TimeSeriesTable); ok {
		if err := ts.Validate(); err != nil {
			return err
		}
	}
	if ext, ok := schema.(*model.ExternalTable); ok {
		if err := ext.Options.Validate(); err != nil {
			return err
		}
	}

	name := m.resolve(ref)
	db, err := m.database(name.Database)
	if err != nil {
		return err
	}
	if _, err := db.RegisterTable(name.Table, schema); err != nil {
		return err
	}

	metrics.TablesCreated.Inc()
	m.logger.Debug("table registered", "database", name.Database, "table", name.Table)
	return nil
}

// DropDatabase implements MetaData.
func (m *LocalMeta) DropDatabase(_ context.Context, name string) error {
	if err := m.catalog.DeregisterDatabase(name); err != nil {
		return err
	}
	metrics.DatabasesDropped.Inc()
	metrics.DatabasesRegistered.Set(float64(len(m.catalog.DatabaseNames())))
	m.logger.Info("database dropped", "database", name)
	return nil
}

// DropTable implements MetaData.
func (m *LocalMeta) DropTable(_ context.Context, ref string) error {
	name := m.resolve(ref)
	db, err := m.database(name.Database)
	if err != nil {
		return err
	}
	if _, err := db.DeregisterTable(name.Table); err != nil {
		return err
	}

	metrics.TablesDropped.Inc()
	m.logger.Debug("table dropped", "database", name.Database, "table", name.Table)
	return nil
}

// AlterDatabase implements MetaData.
func (m *LocalMeta) AlterDatabase(ctx context.Context, schema *model.DatabaseSchema) error {
	if err := m.engine.AlterDatabase(ctx, schema); err != nil {
		return catalog.External(err)
	}
	return nil
}

// AlterTableAddColumn implements MetaData.
func (m *LocalMeta) AlterTableAddColumn(ctx context.Context, ref string, col model.TableColumn) error {
	name := m.resolve(ref)
	db, err := m.database(name.Database)
	if err != nil {
		return err
	}
	if err := db.AddColumn(ctx, name.Table, col); err != nil {
		return err
	}
	metrics.ColumnAlterations.WithLabelValues("add").Inc()
	return nil
}

// AlterTableAlterColumn implements MetaData.
func (m *LocalMeta) AlterTableAlterColumn(ctx context.Context, ref string, column string, newCol model.TableColumn) error {
	name := m.resolve(ref)
	db, err := m.database(name.Database)
	if err != nil {
		return err
	}
	if err := db.AlterColumn(ctx, name.Table, column, newCol); err != nil {
		return err
	}
	metrics.ColumnAlterations.WithLabelValues("alter").Inc()
	return nil
}

// AlterTableDropColumn implements MetaData.
func (m *LocalMeta) AlterTableDropColumn(ctx context.Context, ref string, column string) error {
	name := m.resolve(ref)
	db, err := m.database(name.Database)
	if err != nil {
		return err
	}
	if err := db.DropColumn(ctx, name.Table, column); err != nil {
		return err
	}
	metrics.ColumnAlterations.WithLabelValues("drop").Inc()
	return nil
}

// DatabaseNames implements MetaData.
func (m *LocalMeta) DatabaseNames() []string {
	return m.catalog.DatabaseNames()
}

// ShowTables implements MetaData.
func (m *LocalMeta) ShowTables(_ context.Context, dbName string) ([]string, error) {
	if dbName == "" {
		dbName = m.databaseName
	}
	db, err := m.database(dbName)
	if err != nil {
		return nil, err
	}
	return db.TableNames(), nil
}
