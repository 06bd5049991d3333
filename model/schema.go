// Package model defines the schema objects shared by the catalog, the
// storage engine and the planner adapter: database descriptors, table
// schemas (time-series and external listing) and column definitions.
package model

import (
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/google/uuid"
)

// ColumnRole classifies a column within a time-series table.
type ColumnRole string

const (
	// RoleTag marks an indexed dimension column. Tags are always strings.
	RoleTag ColumnRole = "tag"

	// RoleTime marks the timestamp column. Exactly one per table.
	RoleTime ColumnRole = "time"

	// RoleField marks a value column. A table has at least one field.
	RoleField ColumnRole = "field"
)

// RoleMetadataKey is the Arrow field metadata key carrying the column role.
const RoleMetadataKey = "tsmeta:role"

// ColumnType is the logical storage type of a column.
type ColumnType string

const (
	TypeBoolean   ColumnType = "boolean"
	TypeInt32     ColumnType = "int32"
	TypeInt64     ColumnType = "int64"
	TypeUint32    ColumnType = "uint32"
	TypeUint64    ColumnType = "uint64"
	TypeFloat32   ColumnType = "float32"
	TypeFloat64   ColumnType = "float64"
	TypeString    ColumnType = "string"
	TypeTimestamp ColumnType = "timestamp"
	TypeGeometry  ColumnType = "geometry"
)

// ArrowType returns the Arrow data type backing this column type.
func (t ColumnType) ArrowType() arrow.DataType {
	switch t {
	case TypeBoolean:
		return arrow.FixedWidthTypes.Boolean
	case TypeInt32:
		return arrow.PrimitiveTypes.Int32
	case TypeInt64:
		return arrow.PrimitiveTypes.Int64
	case TypeUint32:
		return arrow.PrimitiveTypes.Uint32
	case TypeUint64:
		return arrow.PrimitiveTypes.Uint64
	case TypeFloat32:
		return arrow.PrimitiveTypes.Float32
	case TypeFloat64:
		return arrow.PrimitiveTypes.Float64
	case TypeString:
		return arrow.BinaryTypes.String
	case TypeTimestamp:
		return arrow.FixedWidthTypes.Timestamp_ns
	case TypeGeometry:
		return NewGeometryExtensionType()
	default:
		return nil
	}
}

// Valid reports whether t is a known column type.
func (t ColumnType) Valid() bool {
	return t.ArrowType() != nil
}

// IsWidening reports whether changing a column from `from` to `to` is a
// widening conversion. Widening conversions are the only type changes a
// storage engine accepts: an integer may grow, and any integer may become
// a float. Everything else requires a rewrite of persisted data.
func IsWidening(from, to ColumnType) bool {
	if from == to {
		return true
	}
	switch from {
	case TypeInt32:
		return to == TypeInt64 || to == TypeFloat32 || to == TypeFloat64
	case TypeInt64:
		return to == TypeFloat64
	case TypeUint32:
		return to == TypeUint64 || to == TypeFloat32 || to == TypeFloat64
	case TypeUint64:
		return to == TypeFloat64
	case TypeFloat32:
		return to == TypeFloat64
	}
	return false
}

// TableColumn describes a single column of a time-series table.
type TableColumn struct {
	// Name is the column name, unique within the table.
	Name string `msgpack:"name"`

	// Type is the logical storage type.
	Type ColumnType `msgpack:"type"`

	// Role is the semantic role (tag, time, field).
	Role ColumnRole `msgpack:"role"`
}

// Validate checks that the column definition is internally consistent.
func (c TableColumn) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("column name must not be empty")
	}
	if !c.Type.Valid() {
		return fmt.Errorf("column %q: unknown type %q", c.Name, c.Type)
	}
	switch c.Role {
	case RoleTag:
		if c.Type != TypeString {
			return fmt.Errorf("column %q: tag columns must be strings, got %q", c.Name, c.Type)
		}
	case RoleTime:
		if c.Type != TypeTimestamp {
			return fmt.Errorf("column %q: time column must be a timestamp, got %q", c.Name, c.Type)
		}
	case RoleField:
		if c.Type == TypeTimestamp {
			return fmt.Errorf("column %q: field columns cannot be timestamps", c.Name)
		}
	default:
		return fmt.Errorf("column %q: unknown role %q", c.Name, c.Role)
	}
	return nil
}

// ArrowField returns the Arrow field for this column, with the role
// recorded in field metadata.
func (c TableColumn) ArrowField() arrow.Field {
	return arrow.Field{
		Name:     c.Name,
		Type:     c.Type.ArrowType(),
		Nullable: c.Role == RoleField,
		Metadata: arrow.MetadataFrom(map[string]string{RoleMetadataKey: string(c.Role)}),
	}
}

// Tag returns a tag column definition.
func Tag(name string) TableColumn {
	return TableColumn{Name: name, Type: TypeString, Role: RoleTag}
}

// Time returns a time column definition.
func Time(name string) TableColumn {
	return TableColumn{Name: name, Type: TypeTimestamp, Role: RoleTime}
}

// Field returns a field column definition with the given type.
func Field(name string, t ColumnType) TableColumn {
	return TableColumn{Name: name, Type: t, Role: RoleField}
}

// Default retention and shard policy values applied by NewDatabaseSchema.
const (
	DefaultTTL           = 0 // keep forever
	DefaultShardNum      = 1
	DefaultVnodeDuration = 365 * 24 * time.Hour
	DefaultReplicaNum    = 1
	DefaultPrecision     = "ns"
)

// DatabaseSchema is the storage-engine descriptor of a database: retention,
// shard policy and timestamp precision. The storage engine owns the
// persistent copy; the catalog only caches it.
type DatabaseSchema struct {
	// ID is assigned once at creation time and never changes.
	ID string `msgpack:"id"`

	// Name is the database name, unique within the catalog.
	Name string `msgpack:"name"`

	// TTL is the retention period. Zero means keep forever.
	TTL time.Duration `msgpack:"ttl"`

	// ShardNum is the number of shards data is spread over.
	ShardNum uint32 `msgpack:"shard_num"`

	// VnodeDuration is the time range covered by one vnode.
	VnodeDuration time.Duration `msgpack:"vnode_duration"`

	// ReplicaNum is the number of replicas per shard.
	ReplicaNum uint32 `msgpack:"replica_num"`

	// Precision is the timestamp precision ("ns", "us", "ms").
	Precision string `msgpack:"precision"`
}

// NewDatabaseSchema returns a database descriptor with default retention
// and shard policy and a fresh id.
func NewDatabaseSchema(name string) *DatabaseSchema {
	return &DatabaseSchema{
		ID:            uuid.NewString(),
		Name:          name,
		TTL:           DefaultTTL,
		ShardNum:      DefaultShardNum,
		VnodeDuration: DefaultVnodeDuration,
		ReplicaNum:    DefaultReplicaNum,
		Precision:     DefaultPrecision,
	}
}

// Clone returns a deep copy of the descriptor.
func (s *DatabaseSchema) Clone() *DatabaseSchema {
	cp := *s
	return &cp
}
