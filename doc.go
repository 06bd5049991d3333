// Package tsmeta is the metadata and catalog-resolution layer of a
// time-series query server. It sits between the SQL planner and two
// backing stores: a storage engine that owns table and database schemas,
// and a function registry that owns scalar and aggregate UDFs.
//
// The layer resolves partially qualified table references against a
// (catalog, database) context, mediates create/drop/alter operations so
// the storage engine and the in-memory catalog stay consistent, and adapts
// native time-series tables and external listing tables into a single
// table-source abstraction the planner consumes.
//
// # Quick start
//
//	eng := engine.NewMemEngine()
//	meta, err := tsmeta.NewWithDefault(tsmeta.Config{Engine: eng})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	schema := model.NewTableBuilder("public", "cpu").
//	    Time("time").
//	    Tag("host").
//	    Field("usage", model.TypeFloat64).
//	    MustBuild()
//
//	if err := meta.CreateTable(ctx, "cpu", schema); err != nil {
//	    log.Fatal(err)
//	}
//
// The planner side is served by planner.NewMetadataProvider(meta), which
// implements the ContextProvider contract: table sources for native and
// external tables, and function descriptor lookup.
package tsmeta
