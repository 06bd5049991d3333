package catalog

import "strings"

// ObjectRef is a possibly partial table reference of one of three shapes:
// "table", "db.table" or "catalog.db.table". Parsing and resolution are
// pure shape normalization; neither performs existence checks.
type ObjectRef struct {
	Catalog  string
	Database string
	Table    string
}

// ParseObjectRef splits a dotted reference into its components. A
// reference with more than three components keeps the extra dots in the
// table name unsplit from the right, matching SQL identifier resolution.
func ParseObjectRef(s string) ObjectRef {
	parts := strings.Split(s, ".")
	switch len(parts) {
	case 1:
		return ObjectRef{Table: parts[0]}
	case 2:
		return ObjectRef{Database: parts[0], Table: parts[1]}
	default:
		return ObjectRef{
			Catalog:  parts[0],
			Database: parts[1],
			Table:    strings.Join(parts[2:], "."),
		}
	}
}

// Resolve fills the missing components from the current context and
// returns the fully qualified triple. A fully qualified reference resolves
// to itself regardless of context.
func (r ObjectRef) Resolve(catalogName, databaseName string) ResolvedRef {
	resolved := ResolvedRef{
		Catalog:  r.Catalog,
		Database: r.Database,
		Table:    r.Table,
	}
	if resolved.Catalog == "" {
		resolved.Catalog = catalogName
	}
	if resolved.Database == "" {
		resolved.Database = databaseName
	}
	return resolved
}

// ResolvedRef is a fully qualified (catalog, database, table) triple.
type ResolvedRef struct {
	Catalog  string
	Database string
	Table    string
}

func (r ResolvedRef) String() string {
	return r.Catalog + "." + r.Database + "." + r.Table
}
