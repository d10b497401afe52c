package boundary

import (
	"math"

	"github.com/municipal-boundary-service/internal/domain"
)

// cellTarget is the average number of boundaries a grid cell should hold.
const cellTarget = 8

// Grid is a coarse spatial pre-filter over municipality bounding boxes.
// It is a performance optimization only: correctness never depends on it,
// and tests compare the indexed path against the exhaustive one.
type Grid struct {
	extent domain.BoundingBox
	cols   int
	rows   int
	cellW  float64
	cellH  float64
	cells  [][]*domain.Boundary
	all    []*domain.Boundary
}

// NewGrid partitions the bounding boxes of the given boundaries into a
// uniform grid over their combined extent.
func NewGrid(boundaries []*domain.Boundary) *Grid {
	g := &Grid{all: boundaries}
	if len(boundaries) == 0 {
		g.cols, g.rows = 1, 1
		g.cells = make([][]*domain.Boundary, 1)
		return g
	}

	g.extent = boundaries[0].BBox
	for _, b := range boundaries[1:] {
		g.extent = g.extent.Extend(b.BBox)
	}

	side := int(math.Ceil(math.Sqrt(float64(len(boundaries)) / cellTarget)))
	if side < 1 {
		side = 1
	}
	g.cols, g.rows = side, side
	g.cellW = (g.extent.MaxLon - g.extent.MinLon) / float64(g.cols)
	g.cellH = (g.extent.MaxLat - g.extent.MinLat) / float64(g.rows)
	g.cells = make([][]*domain.Boundary, g.cols*g.rows)

	for _, b := range boundaries {
		minCol, minRow := g.cell(domain.Point{Lat: b.BBox.MinLat, Lon: b.BBox.MinLon})
		maxCol, maxRow := g.cell(domain.Point{Lat: b.BBox.MaxLat, Lon: b.BBox.MaxLon})
		for row := minRow; row <= maxRow; row++ {
			for col := minCol; col <= maxCol; col++ {
				idx := row*g.cols + col
				g.cells[idx] = append(g.cells[idx], b)
			}
		}
	}

	return g
}

// cell maps a point to its clamped cell coordinates.
func (g *Grid) cell(p domain.Point) (col, row int) {
	if g.cellW > 0 {
		col = int((p.Lon - g.extent.MinLon) / g.cellW)
	}
	if g.cellH > 0 {
		row = int((p.Lat - g.extent.MinLat) / g.cellH)
	}
	if col < 0 {
		col = 0
	}
	if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

// Candidates returns the boundaries registered in the point's cell and its
// 8 neighbors, deduplicated. Points outside the dataset extent have no
// candidates.
func (g *Grid) Candidates(p domain.Point) []*domain.Boundary {
	if len(g.all) == 0 || !g.extent.Contains(p) {
		return nil
	}

	col, row := g.cell(p)
	seen := make(map[string]struct{})
	var out []*domain.Boundary
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			r, c := row+dr, col+dc
			if r < 0 || r >= g.rows || c < 0 || c >= g.cols {
				continue
			}
			for _, b := range g.cells[r*g.cols+c] {
				if _, ok := seen[b.Key()]; ok {
					continue
				}
				seen[b.Key()] = struct{}{}
				out = append(out, b)
			}
		}
	}
	return out
}

// All returns every indexed boundary. Tests use this as the exhaustive
// candidate set to verify the grid never drops a boundary.
func (g *Grid) All() []*domain.Boundary {
	return g.all
}
