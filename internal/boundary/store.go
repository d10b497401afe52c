package boundary

import (
	"fmt"

	"github.com/municipal-boundary-service/internal/domain"
)

// Store holds one immutable, validated version of the boundary dataset.
// It is safe for unlimited concurrent readers; a reload builds a fresh
// Store and publishes it through a Provider, never mutating this one.
type Store struct {
	byLevel map[domain.Level][]*domain.Boundary
	byName  map[domain.Level]map[string]*domain.Boundary
}

// NewStore validates the raw records and builds the store. Any defect in
// the dataset fails the whole load: a malformed dataset must never serve
// partial answers at query time.
func NewStore(records []domain.BoundaryRecord) (*Store, error) {
	s := &Store{
		byLevel: make(map[domain.Level][]*domain.Boundary),
		byName: map[domain.Level]map[string]*domain.Boundary{
			domain.LevelProvince:     {},
			domain.LevelDistrict:     {},
			domain.LevelMunicipality: {},
		},
	}

	for i, rec := range records {
		if !rec.Level.Valid() {
			return nil, fmt.Errorf("record %d: unknown level %q", i, rec.Level)
		}
		if rec.Name == "" {
			return nil, fmt.Errorf("record %d: empty boundary name", i)
		}
		if _, dup := s.byName[rec.Level][rec.Name]; dup {
			return nil, fmt.Errorf("duplicate boundary %s %q", rec.Level, rec.Name)
		}
		if rec.Level == domain.LevelProvince && rec.ParentName != "" {
			return nil, fmt.Errorf("province %q must not have a parent", rec.Name)
		}
		if rec.Level == domain.LevelMunicipality && len(rec.Polygons) == 0 {
			return nil, fmt.Errorf("municipality %q has no geometry", rec.Name)
		}
		if err := validateGeometry(rec.Polygons); err != nil {
			return nil, fmt.Errorf("boundary %s %q: %w", rec.Level, rec.Name, err)
		}

		b := &domain.Boundary{
			Level:      rec.Level,
			Name:       rec.Name,
			Code:       rec.Code,
			Type:       rec.Type,
			ParentName: rec.ParentName,
			Polygons:   rec.Polygons,
		}
		if b.HasGeometry() {
			b.BBox = geometryBBox(rec.Polygons)
			b.Area = geometryArea(rec.Polygons)
		}

		s.byLevel[rec.Level] = append(s.byLevel[rec.Level], b)
		s.byName[rec.Level][rec.Name] = b
	}

	// Parent references are checked after all records are in, so the
	// dataset does not have to be ordered top-down.
	for _, level := range []domain.Level{domain.LevelDistrict, domain.LevelMunicipality} {
		enclosing, _ := level.Enclosing()
		for _, b := range s.byLevel[level] {
			if b.ParentName == "" {
				return nil, fmt.Errorf("%s %q has no parent reference", level, b.Name)
			}
			if _, ok := s.byName[enclosing][b.ParentName]; !ok {
				return nil, fmt.Errorf("%s %q references unknown %s %q",
					level, b.Name, enclosing, b.ParentName)
			}
		}
	}

	return s, nil
}

func validateGeometry(polys []domain.Polygon) error {
	for pi, poly := range polys {
		if err := validateRing(poly.Outer); err != nil {
			return fmt.Errorf("polygon %d outer ring: %w", pi, err)
		}
		for hi, hole := range poly.Holes {
			if err := validateRing(hole); err != nil {
				return fmt.Errorf("polygon %d hole %d: %w", pi, hi, err)
			}
		}
	}
	return nil
}

func validateRing(ring domain.Ring) error {
	if len(ring) < 4 {
		return fmt.Errorf("ring has %d points, need at least 4", len(ring))
	}
	if ring[0] != ring[len(ring)-1] {
		return fmt.Errorf("ring is not closed")
	}
	return nil
}

// Municipalities returns all municipality-level boundaries. These are the
// only boundaries the spatial index and the containment test operate on.
func (s *Store) Municipalities() []*domain.Boundary {
	return s.byLevel[domain.LevelMunicipality]
}

// ByName looks up a boundary by level and name.
func (s *Store) ByName(level domain.Level, name string) (*domain.Boundary, bool) {
	b, ok := s.byName[level][name]
	return b, ok
}

// Count returns the number of boundaries at a level.
func (s *Store) Count(level domain.Level) int {
	return len(s.byLevel[level])
}

// TotalCount returns the number of boundaries across all levels.
func (s *Store) TotalCount() int {
	var n int
	for _, bs := range s.byLevel {
		n += len(bs)
	}
	return n
}

// Hierarchy assembles the full hierarchy for a resolved municipality by
// walking parent references. District and province are never resolved by
// an independent containment test, so the three levels always agree.
func (s *Store) Hierarchy(muni *domain.Boundary) domain.Hierarchy {
	h := domain.Hierarchy{
		Municipality: &muni.Name,
	}
	if muni.Code != "" {
		h.MunicipalityCode = &muni.Code
	}
	if muni.Type != "" {
		h.MunicipalityType = &muni.Type
	}

	district, ok := s.byName[domain.LevelDistrict][muni.ParentName]
	if !ok {
		// Unreachable after NewStore validation.
		return h
	}
	h.District = &district.Name

	if province, ok := s.byName[domain.LevelProvince][district.ParentName]; ok {
		h.Province = &province.Name
	}
	return h
}
