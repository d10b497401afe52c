package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/municipal-boundary-service/internal/boundary"
	"github.com/municipal-boundary-service/internal/domain"
	apperrors "github.com/municipal-boundary-service/internal/pkg/errors"
	"github.com/municipal-boundary-service/internal/usecase/dto"
)

func newResolveUC(cache *MockResultCache, provider *boundary.Provider, fallback *MockFallback) *ResolveUseCase {
	return NewResolveUseCase(cache, provider, fallback, newTestCollector(), zap.NewNop(), time.Second)
}

func TestResolve_InvalidCoordinates(t *testing.T) {
	cache := new(MockResultCache)
	fallback := new(MockFallback)
	uc := newResolveUC(cache, boundary.NewProvider(nil), fallback)

	for _, req := range []dto.ResolveRequest{
		{Lat: 91, Lon: 0},
		{Lat: -91, Lon: 0},
		{Lat: 0, Lon: 181},
		{Lat: 0, Lon: -181},
	} {
		_, err := uc.Resolve(context.Background(), req)
		require.Error(t, err, "coords %+v", req)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidCoordinates))
	}

	// Rejected before any cache or fallback traffic.
	cache.AssertExpectations(t)
	fallback.AssertExpectations(t)
}

func TestResolve_CacheHitShortCircuits(t *testing.T) {
	muni := "Cape Town"
	cached := &domain.ResolvedLocation{
		Hierarchy:  domain.Hierarchy{Municipality: &muni},
		Source:     domain.SourceLocal,
		ResolvedAt: time.Now().UTC(),
	}

	cache := new(MockResultCache)
	cache.On("Get", mock.Anything, domain.Point{Lat: -33.9249, Lon: 18.4241}).Return(cached, nil)
	fallback := new(MockFallback)

	// A nil snapshot would fail any resolution that got past the cache.
	uc := newResolveUC(cache, boundary.NewProvider(nil), fallback)

	resp, err := uc.Resolve(context.Background(), dto.ResolveRequest{Lat: -33.9249, Lon: 18.4241})
	require.NoError(t, err)
	require.NotNil(t, resp.Municipality)
	assert.Equal(t, "Cape Town", *resp.Municipality)
	assert.Equal(t, "local", resp.Source)

	cache.AssertExpectations(t)
	fallback.AssertExpectations(t)
	cache.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_LocalHit(t *testing.T) {
	cache := new(MockResultCache)
	cache.On("Get", mock.Anything, mock.Anything).Return(nil, nil)
	cache.On("Put", mock.Anything, mock.Anything, mock.MatchedBy(func(loc domain.ResolvedLocation) bool {
		return loc.Source == domain.SourceLocal
	})).Return(nil)
	fallback := new(MockFallback)

	uc := newResolveUC(cache, boundary.NewProvider(testSnapshot(t)), fallback)

	resp, err := uc.Resolve(context.Background(), dto.ResolveRequest{Lat: -33.9249, Lon: 18.4241})
	require.NoError(t, err)

	require.NotNil(t, resp.Province)
	require.NotNil(t, resp.District)
	require.NotNil(t, resp.Municipality)
	assert.Equal(t, "Western Cape", *resp.Province)
	assert.Equal(t, "City of Cape Town", *resp.District)
	assert.Equal(t, "Cape Town", *resp.Municipality)
	require.NotNil(t, resp.MunicipalityCode)
	assert.Equal(t, "CPT", *resp.MunicipalityCode)
	assert.Equal(t, "local", resp.Source)
	assert.False(t, resp.ResolvedAt.IsZero())

	cache.AssertExpectations(t)
	fallback.AssertExpectations(t)
}

func TestResolve_NoSnapshotPublished(t *testing.T) {
	cache := new(MockResultCache)
	cache.On("Get", mock.Anything, mock.Anything).Return(nil, nil)
	fallback := new(MockFallback)

	uc := newResolveUC(cache, boundary.NewProvider(nil), fallback)

	_, err := uc.Resolve(context.Background(), dto.ResolveRequest{Lat: -33.9249, Lon: 18.4241})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDatasetError))
}

func TestResolve_FallbackOnLocalMiss(t *testing.T) {
	// A point far outside the local dataset extent.
	point := domain.Point{Lat: -26.2041, Lon: 28.0473}
	jhb := "City of Johannesburg"
	gauteng := "Gauteng"

	cache := new(MockResultCache)
	cache.On("Get", mock.Anything, point).Return(nil, nil)
	cache.On("Put", mock.Anything, point, mock.MatchedBy(func(loc domain.ResolvedLocation) bool {
		return loc.Source == domain.SourceRemote
	})).Return(nil)

	fallback := new(MockFallback)
	fallback.On("Lookup", mock.Anything, point).Return(&domain.Hierarchy{
		Province:     &gauteng,
		District:     &jhb,
		Municipality: &jhb,
	}, nil).Once()

	uc := newResolveUC(cache, boundary.NewProvider(testSnapshot(t)), fallback)

	resp, err := uc.Resolve(context.Background(), dto.ResolveRequest{Lat: point.Lat, Lon: point.Lon})
	require.NoError(t, err)
	assert.Equal(t, "remote", resp.Source)
	require.NotNil(t, resp.Municipality)
	assert.Equal(t, "City of Johannesburg", *resp.Municipality)
	assert.Equal(t, "Gauteng", *resp.Province)

	cache.AssertExpectations(t)
	fallback.AssertExpectations(t)
	fallback.AssertNumberOfCalls(t, "Lookup", 1)
}

func TestResolve_FallbackEmptyHierarchyIsSuccess(t *testing.T) {
	// 0,0 is in the Atlantic: valid coordinates, nothing there.
	point := domain.Point{Lat: 0, Lon: 0}

	cache := new(MockResultCache)
	cache.On("Get", mock.Anything, point).Return(nil, nil)
	cache.On("Put", mock.Anything, point, mock.Anything).Return(nil)

	fallback := new(MockFallback)
	fallback.On("Lookup", mock.Anything, point).Return(&domain.Hierarchy{}, nil)

	uc := newResolveUC(cache, boundary.NewProvider(testSnapshot(t)), fallback)

	resp, err := uc.Resolve(context.Background(), dto.ResolveRequest{Lat: 0, Lon: 0})
	require.NoError(t, err)
	assert.Nil(t, resp.Province)
	assert.Nil(t, resp.District)
	assert.Nil(t, resp.Municipality)
	assert.Equal(t, "remote", resp.Source)

	cache.AssertExpectations(t)
}

func TestResolve_FallbackFailureIsNeverCached(t *testing.T) {
	point := domain.Point{Lat: -26.2041, Lon: 28.0473}

	cache := new(MockResultCache)
	cache.On("Get", mock.Anything, point).Return(nil, nil)

	fallback := new(MockFallback)
	fallback.On("Lookup", mock.Anything, point).Return(nil, apperrors.ErrRemoteUnavailable)

	uc := newResolveUC(cache, boundary.NewProvider(testSnapshot(t)), fallback)

	_, err := uc.Resolve(context.Background(), dto.ResolveRequest{Lat: point.Lat, Lon: point.Lon})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrRemoteUnavailable))

	cache.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_CacheGetFailureDegradesToMiss(t *testing.T) {
	cache := new(MockResultCache)
	cache.On("Get", mock.Anything, mock.Anything).Return(nil, errors.New("redis down"))
	cache.On("Put", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	fallback := new(MockFallback)

	uc := newResolveUC(cache, boundary.NewProvider(testSnapshot(t)), fallback)

	resp, err := uc.Resolve(context.Background(), dto.ResolveRequest{Lat: -33.9249, Lon: 18.4241})
	require.NoError(t, err)
	assert.Equal(t, "local", resp.Source)
}

func TestResolve_CachePutFailureDoesNotFailResolution(t *testing.T) {
	cache := new(MockResultCache)
	cache.On("Get", mock.Anything, mock.Anything).Return(nil, nil)
	cache.On("Put", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))
	fallback := new(MockFallback)

	uc := newResolveUC(cache, boundary.NewProvider(testSnapshot(t)), fallback)

	resp, err := uc.Resolve(context.Background(), dto.ResolveRequest{Lat: -33.9249, Lon: 18.4241})
	require.NoError(t, err)
	assert.Equal(t, "local", resp.Source)
}

func TestResolve_FallbackContextHasDeadline(t *testing.T) {
	point := domain.Point{Lat: -26.2041, Lon: 28.0473}

	cache := new(MockResultCache)
	cache.On("Get", mock.Anything, point).Return(nil, nil)
	cache.On("Put", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	fallback := new(MockFallback)
	fallback.On("Lookup", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), point).Return(&domain.Hierarchy{}, nil)

	uc := newResolveUC(cache, boundary.NewProvider(testSnapshot(t)), fallback)

	_, err := uc.Resolve(context.Background(), dto.ResolveRequest{Lat: point.Lat, Lon: point.Lon})
	require.NoError(t, err)
	fallback.AssertExpectations(t)
}
