package boundary

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/municipal-boundary-service/internal/domain"
)

func TestNewGrid_Empty(t *testing.T) {
	g := NewGrid(nil)
	assert.Nil(t, g.Candidates(domain.Point{Lat: 0, Lon: 0}))
	assert.Empty(t, g.All())
}

func TestGrid_OutsideExtent(t *testing.T) {
	g := NewGrid([]*domain.Boundary{
		testMuni("only", domain.Polygon{Outer: square(0, 0, 10)}),
	})

	assert.Nil(t, g.Candidates(domain.Point{Lat: 50, Lon: 50}))
	assert.Nil(t, g.Candidates(domain.Point{Lat: -0.001, Lon: 5}))
	assert.NotEmpty(t, g.Candidates(domain.Point{Lat: 5, Lon: 5}))
}

func TestGrid_ExtentEdgesIncluded(t *testing.T) {
	g := NewGrid([]*domain.Boundary{
		testMuni("only", domain.Polygon{Outer: square(0, 0, 10)}),
	})

	// Points on the extent border still query the clamped border cell.
	for _, p := range []domain.Point{
		{Lat: 0, Lon: 0},
		{Lat: 10, Lon: 10},
		{Lat: 0, Lon: 10},
		{Lat: 10, Lon: 0},
		{Lat: 5, Lon: 10},
	} {
		require.NotEmpty(t, g.Candidates(p), "border point %v", p)
	}
}

func TestGrid_SpanningBoundaryInEveryCell(t *testing.T) {
	// One boundary covering the whole extent plus enough small ones to
	// force a multi-cell grid. The big one must be a candidate everywhere.
	all := []*domain.Boundary{
		testMuni("spanning", domain.Polygon{Outer: square(0, 0, 32)}),
	}
	for i := 0; i < 64; i++ {
		all = append(all, testMuni(
			fmt.Sprintf("small-%d", i),
			domain.Polygon{Outer: square(float64(i/8)*4, float64(i%8)*4, 1)},
		))
	}
	g := NewGrid(all)
	require.Greater(t, g.cols*g.rows, 1)

	for lat := 0.5; lat < 32; lat += 4 {
		for lon := 0.5; lon < 32; lon += 4 {
			cands := g.Candidates(domain.Point{Lat: lat, Lon: lon})
			found := false
			for _, b := range cands {
				if b.Name == "spanning" {
					found = true
					break
				}
			}
			assert.True(t, found, "spanning boundary missing at (%v,%v)", lat, lon)
		}
	}
}

func TestGrid_CandidatesDeduplicated(t *testing.T) {
	all := []*domain.Boundary{
		testMuni("spanning", domain.Polygon{Outer: square(0, 0, 32)}),
	}
	for i := 0; i < 64; i++ {
		all = append(all, testMuni(
			fmt.Sprintf("small-%d", i),
			domain.Polygon{Outer: square(float64(i/8)*4, float64(i%8)*4, 1)},
		))
	}
	g := NewGrid(all)

	cands := g.Candidates(domain.Point{Lat: 16, Lon: 16})
	seen := make(map[string]int)
	for _, b := range cands {
		seen[b.Key()]++
	}
	for key, n := range seen {
		assert.Equal(t, 1, n, "candidate %s returned %d times", key, n)
	}
}

func TestGrid_MatchesExhaustiveScan(t *testing.T) {
	// Random boundaries and random probe points: whenever the exhaustive
	// scan finds a containing boundary, the indexed candidate set must
	// include it.
	rng := rand.New(rand.NewSource(42))

	var all []*domain.Boundary
	for i := 0; i < 120; i++ {
		lat := rng.Float64() * 90
		lon := rng.Float64() * 90
		size := 0.5 + rng.Float64()*6
		all = append(all, testMuni(
			fmt.Sprintf("rand-%d", i),
			domain.Polygon{Outer: square(lat, lon, size)},
		))
	}
	g := NewGrid(all)

	for i := 0; i < 500; i++ {
		p := domain.Point{Lat: rng.Float64() * 96, Lon: rng.Float64() * 96}

		exhaustive := Resolve(p, g.All())
		if exhaustive == nil {
			continue
		}
		indexed := Resolve(p, g.Candidates(p))
		require.NotNil(t, indexed, "index dropped boundary %s at %v", exhaustive.Name, p)
		assert.Equal(t, exhaustive.Name, indexed.Name, "disagreement at %v", p)
	}
}
