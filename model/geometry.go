package model

import (
	"fmt"
	"reflect"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

// GeometryExtensionType is the Arrow extension type used for geometry
// field columns and for geometry columns of external listing tables.
// Values are stored as WKB (Well-Known Binary) in Binary columns, the
// encoding GeoParquet uses.
type GeometryExtensionType struct {
	arrow.ExtensionBase
}

// NewGeometryExtensionType creates a geometry extension type over Binary
// storage.
func NewGeometryExtensionType() *GeometryExtensionType {
	return &GeometryExtensionType{
		ExtensionBase: arrow.ExtensionBase{
			Storage: arrow.BinaryTypes.Binary,
		},
	}
}

// ArrayType returns the Go array type for geometry columns.
func (g *GeometryExtensionType) ArrayType() reflect.Type {
	return reflect.TypeOf((*array.Binary)(nil))
}

// ExtensionName returns "geoarrow.wkb" for compatibility with GeoArrow
// readers.
func (g *GeometryExtensionType) ExtensionName() string {
	return "geoarrow.wkb"
}

func (g *GeometryExtensionType) String() string {
	return "extension<geoarrow.wkb>"
}

// Serialize returns the extension metadata. Plain WKB has none.
func (g *GeometryExtensionType) Serialize() string {
	return ""
}

// Deserialize creates a geometry extension type from storage type and
// metadata.
func (g *GeometryExtensionType) Deserialize(storageType arrow.DataType, _ string) (arrow.ExtensionType, error) {
	if !arrow.TypeEqual(storageType, arrow.BinaryTypes.Binary) &&
		!arrow.TypeEqual(storageType, arrow.BinaryTypes.LargeBinary) {
		return nil, fmt.Errorf("invalid storage type for geometry: %s", storageType)
	}
	return &GeometryExtensionType{
		ExtensionBase: arrow.ExtensionBase{Storage: storageType},
	}, nil
}

// ExtensionEquals checks equality with another extension type.
func (g *GeometryExtensionType) ExtensionEquals(other arrow.ExtensionType) bool {
	o, ok := other.(*GeometryExtensionType)
	if !ok {
		return false
	}
	return arrow.TypeEqual(g.StorageType(), o.StorageType())
}

// EncodeGeometry encodes a geometry value to WKB for storage in a geometry
// column.
func EncodeGeometry(geom orb.Geometry) ([]byte, error) {
	data, err := wkb.Marshal(geom)
	if err != nil {
		return nil, fmt.Errorf("encode geometry: %w", err)
	}
	return data, nil
}

// DecodeGeometry decodes a WKB value read from a geometry column.
func DecodeGeometry(data []byte) (orb.Geometry, error) {
	geom, err := wkb.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode geometry: %w", err)
	}
	return geom, nil
}
