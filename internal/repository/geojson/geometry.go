package geojson

import (
	"encoding/json"
	"fmt"

	"github.com/municipal-boundary-service/internal/domain"
)

// Geometry is the GeoJSON geometry envelope. Only Polygon and
// MultiPolygon are meaningful for administrative boundaries.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// ParseGeometry converts a GeoJSON Polygon or MultiPolygon into domain
// polygons. GeoJSON positions are [lon, lat]; the first ring of each
// polygon is the outer shell, subsequent rings are holes.
func ParseGeometry(g Geometry) ([]domain.Polygon, error) {
	switch g.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("polygon coordinates: %w", err)
		}
		poly, err := toPolygon(rings)
		if err != nil {
			return nil, err
		}
		return []domain.Polygon{poly}, nil

	case "MultiPolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &polys); err != nil {
			return nil, fmt.Errorf("multipolygon coordinates: %w", err)
		}
		out := make([]domain.Polygon, 0, len(polys))
		for i, rings := range polys {
			poly, err := toPolygon(rings)
			if err != nil {
				return nil, fmt.Errorf("polygon %d: %w", i, err)
			}
			out = append(out, poly)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
}

func toPolygon(rings [][][]float64) (domain.Polygon, error) {
	if len(rings) == 0 {
		return domain.Polygon{}, fmt.Errorf("polygon has no rings")
	}
	outer, err := toRing(rings[0])
	if err != nil {
		return domain.Polygon{}, err
	}
	poly := domain.Polygon{Outer: outer}
	for _, raw := range rings[1:] {
		hole, err := toRing(raw)
		if err != nil {
			return domain.Polygon{}, err
		}
		poly.Holes = append(poly.Holes, hole)
	}
	return poly, nil
}

func toRing(raw [][]float64) (domain.Ring, error) {
	ring := make(domain.Ring, 0, len(raw))
	for _, pos := range raw {
		if len(pos) < 2 {
			return nil, fmt.Errorf("position has %d values, need lon and lat", len(pos))
		}
		ring = append(ring, domain.Point{Lat: pos[1], Lon: pos[0]})
	}
	return ring, nil
}
