package boundary

import (
	"github.com/municipal-boundary-service/internal/domain"
)

// Contains performs the exact point-in-polygon test for one boundary:
// inside any outer ring, outside its holes, boundary edges inclusive.
func Contains(b *domain.Boundary, p domain.Point) bool {
	if !b.HasGeometry() || !b.BBox.Contains(p) {
		return false
	}
	for _, poly := range b.Polygons {
		if polygonContains(p, poly) {
			return true
		}
	}
	return false
}

// Resolve returns the boundary containing p out of the candidate set, or
// nil when none contains it. When simplified or overlapping source
// geometry makes several boundaries claim the point, the smallest area
// wins (an urban enclave beats its surrounding municipality); exact area
// ties fall back to lexicographic name order so resolution is
// deterministic across runs.
func Resolve(p domain.Point, candidates []*domain.Boundary) *domain.Boundary {
	var best *domain.Boundary
	for _, c := range candidates {
		if !Contains(c, p) {
			continue
		}
		if best == nil {
			best = c
			continue
		}
		if c.Area < best.Area || (c.Area == best.Area && c.Name < best.Name) {
			best = c
		}
	}
	return best
}
