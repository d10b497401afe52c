package boundary

import (
	"math"

	"github.com/municipal-boundary-service/internal/domain"
)

// collinearEpsilon bounds the cross product below which a point counts as
// lying on a segment. Municipal geometry has no features finer than this.
const collinearEpsilon = 1e-12

// pointOnSegment reports whether p lies on the segment a-b, endpoints
// included.
func pointOnSegment(p, a, b domain.Point) bool {
	cross := (b.Lon-a.Lon)*(p.Lat-a.Lat) - (b.Lat-a.Lat)*(p.Lon-a.Lon)
	if math.Abs(cross) > collinearEpsilon {
		return false
	}
	return p.Lat >= math.Min(a.Lat, b.Lat) && p.Lat <= math.Max(a.Lat, b.Lat) &&
		p.Lon >= math.Min(a.Lon, b.Lon) && p.Lon <= math.Max(a.Lon, b.Lon)
}

// pointOnRing reports whether p lies exactly on one of the ring's edges.
func pointOnRing(p domain.Point, ring domain.Ring) bool {
	for i := 1; i < len(ring); i++ {
		if pointOnSegment(p, ring[i-1], ring[i]) {
			return true
		}
	}
	return false
}

// pointInRing is the crossing-number (even-odd) test against a closed
// ring. Points exactly on an edge are not guaranteed a stable answer here;
// callers test pointOnRing first.
func pointInRing(p domain.Point, ring domain.Ring) bool {
	inside := false
	for i := 1; i < len(ring); i++ {
		a, b := ring[i-1], ring[i]
		if (a.Lat > p.Lat) == (b.Lat > p.Lat) {
			continue
		}
		crossLon := a.Lon + (p.Lat-a.Lat)*(b.Lon-a.Lon)/(b.Lat-a.Lat)
		if p.Lon < crossLon {
			inside = !inside
		}
	}
	return inside
}

// polygonContains tests containment in the outer shell with holes
// subtracted. The boundary itself is inclusive on both outer and hole
// edges, so GPS noise landing exactly on a shared edge does not flap.
func polygonContains(p domain.Point, poly domain.Polygon) bool {
	if pointOnRing(p, poly.Outer) {
		return true
	}
	if !pointInRing(p, poly.Outer) {
		return false
	}
	for _, hole := range poly.Holes {
		if pointOnRing(p, hole) {
			return true
		}
		if pointInRing(p, hole) {
			return false
		}
	}
	return true
}

// ringArea is the shoelace area of a closed ring in squared degrees.
// Only used for comparing polygon sizes, never as a physical area.
func ringArea(ring domain.Ring) float64 {
	var sum float64
	for i := 1; i < len(ring); i++ {
		a, b := ring[i-1], ring[i]
		sum += a.Lon*b.Lat - b.Lon*a.Lat
	}
	return math.Abs(sum) / 2
}

// polygonArea is the outer shell area minus its holes.
func polygonArea(poly domain.Polygon) float64 {
	area := ringArea(poly.Outer)
	for _, hole := range poly.Holes {
		area -= ringArea(hole)
	}
	return area
}

// geometryArea sums the areas of all polygons of a boundary.
func geometryArea(polys []domain.Polygon) float64 {
	var area float64
	for _, poly := range polys {
		area += polygonArea(poly)
	}
	return area
}

// geometryBBox computes the envelope of all outer rings.
func geometryBBox(polys []domain.Polygon) domain.BoundingBox {
	box := domain.BoundingBox{
		MinLat: math.MaxFloat64,
		MinLon: math.MaxFloat64,
		MaxLat: -math.MaxFloat64,
		MaxLon: -math.MaxFloat64,
	}
	for _, poly := range polys {
		for _, p := range poly.Outer {
			if p.Lat < box.MinLat {
				box.MinLat = p.Lat
			}
			if p.Lat > box.MaxLat {
				box.MaxLat = p.Lat
			}
			if p.Lon < box.MinLon {
				box.MinLon = p.Lon
			}
			if p.Lon > box.MaxLon {
				box.MaxLon = p.Lon
			}
		}
	}
	return box
}
