package domain

// Level is an administrative level in the South African hierarchy.
type Level string

const (
	LevelProvince     Level = "province"
	LevelDistrict     Level = "district"
	LevelMunicipality Level = "municipality"
)

// Enclosing returns the level that contains this one. Provinces are the
// top of the hierarchy and have no enclosing level.
func (l Level) Enclosing() (Level, bool) {
	switch l {
	case LevelMunicipality:
		return LevelDistrict, true
	case LevelDistrict:
		return LevelProvince, true
	default:
		return "", false
	}
}

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	return l == LevelProvince || l == LevelDistrict || l == LevelMunicipality
}

// Municipality classification as used by the Municipal Demarcation Board.
const (
	MunicipalityTypeMetro    = "metro"
	MunicipalityTypeDistrict = "district"
	MunicipalityTypeLocal    = "local"
)

// Ring is a closed sequence of points (first point equals last).
type Ring []Point

// Polygon is an outer shell with zero or more holes.
type Polygon struct {
	Outer Ring   `json:"outer"`
	Holes []Ring `json:"holes,omitempty"`
}

// Boundary is one administrative unit with its geometry and hierarchy link.
// Boundaries are immutable once loaded into a store.
type Boundary struct {
	Level      Level     `json:"level"`
	Name       string    `json:"name"`
	Code       string    `json:"code,omitempty"`
	Type       string    `json:"type,omitempty"`
	ParentName string    `json:"parent_name,omitempty"`
	Polygons   []Polygon `json:"-"`

	// Derived on load, used only for indexing and tie-breaks.
	BBox BoundingBox `json:"bbox"`
	Area float64     `json:"-"`
}

// Key identifies a boundary uniquely within a dataset version.
func (b *Boundary) Key() string {
	return string(b.Level) + ":" + b.Name
}

// HasGeometry reports whether the boundary carries at least one polygon.
// Provinces and districts may be loaded as hierarchy containers without
// geometry; municipalities always have it.
func (b *Boundary) HasGeometry() bool {
	return len(b.Polygons) > 0
}

// BoundaryRecord is the raw dataset shape produced by a BoundarySource
// before validation and store construction.
type BoundaryRecord struct {
	Level      Level
	Name       string
	Code       string
	Type       string
	ParentName string
	Polygons   []Polygon
}
