package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/municipal-boundary-service/internal/boundary"
	"github.com/municipal-boundary-service/internal/domain"
	"github.com/municipal-boundary-service/internal/pkg/metrics"
)

type MockResultCache struct {
	mock.Mock
}

func (m *MockResultCache) Get(ctx context.Context, p domain.Point) (*domain.ResolvedLocation, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResolvedLocation), args.Error(1)
}

func (m *MockResultCache) Put(ctx context.Context, p domain.Point, loc domain.ResolvedLocation) error {
	args := m.Called(ctx, p, loc)
	return args.Error(0)
}

func (m *MockResultCache) Len(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockFallback struct {
	mock.Mock
}

func (m *MockFallback) Lookup(ctx context.Context, p domain.Point) (*domain.Hierarchy, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hierarchy), args.Error(1)
}

type MockBoundarySource struct {
	mock.Mock
}

func (m *MockBoundarySource) Load(ctx context.Context) ([]domain.BoundaryRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BoundaryRecord), args.Error(1)
}

func (m *MockBoundarySource) Name() string {
	args := m.Called()
	return args.String(0)
}

// Prometheus collectors register globally, so each test gets its own
// namespace to avoid duplicate registration panics.
var collectorSeq atomic.Int64

func newTestCollector() *metrics.Collector {
	return metrics.NewCollector(fmt.Sprintf("test%d", collectorSeq.Add(1)))
}

func capeTownRecords() []domain.BoundaryRecord {
	ring := domain.Ring{
		{Lat: -34.2, Lon: 18.2},
		{Lat: -34.2, Lon: 18.9},
		{Lat: -33.5, Lon: 18.9},
		{Lat: -33.5, Lon: 18.2},
		{Lat: -34.2, Lon: 18.2},
	}
	return []domain.BoundaryRecord{
		{Level: domain.LevelProvince, Name: "Western Cape", Code: "WC"},
		{Level: domain.LevelDistrict, Name: "City of Cape Town", Code: "CPT",
			Type: domain.MunicipalityTypeMetro, ParentName: "Western Cape"},
		{Level: domain.LevelMunicipality, Name: "Cape Town", Code: "CPT",
			Type: domain.MunicipalityTypeMetro, ParentName: "City of Cape Town",
			Polygons: []domain.Polygon{{Outer: ring}}},
	}
}

func testSnapshot(t *testing.T) *boundary.Snapshot {
	t.Helper()
	snap, err := boundary.NewSnapshot(capeTownRecords(), "geojson:test")
	require.NoError(t, err)
	return snap
}
