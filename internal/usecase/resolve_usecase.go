package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/municipal-boundary-service/internal/boundary"
	"github.com/municipal-boundary-service/internal/domain"
	"github.com/municipal-boundary-service/internal/domain/repository"
	"github.com/municipal-boundary-service/internal/pkg/errors"
	"github.com/municipal-boundary-service/internal/pkg/metrics"
	"github.com/municipal-boundary-service/internal/pkg/utils"
	"github.com/municipal-boundary-service/internal/usecase/dto"
)

// SnapshotProvider hands out the current dataset version. Each resolution
// captures exactly one snapshot, so a concurrent reload can never show it
// a half-updated dataset.
type SnapshotProvider interface {
	Current() *boundary.Snapshot
}

// ResolveUseCase is the single public resolution contract: cache, then
// local index + containment, then remote fallback.
type ResolveUseCase struct {
	cache         repository.ResultCache
	snapshots     SnapshotProvider
	fallback      repository.FallbackRepository
	metrics       *metrics.Collector
	logger        *zap.Logger
	remoteTimeout time.Duration
}

func NewResolveUseCase(
	cache repository.ResultCache,
	snapshots SnapshotProvider,
	fallback repository.FallbackRepository,
	collector *metrics.Collector,
	logger *zap.Logger,
	remoteTimeout time.Duration,
) *ResolveUseCase {
	return &ResolveUseCase{
		cache:         cache,
		snapshots:     snapshots,
		fallback:      fallback,
		metrics:       collector,
		logger:        logger,
		remoteTimeout: remoteTimeout,
	}
}

// Resolve validates the point, then walks the resolution chain. Failures
// of the fallback are surfaced to the caller and never cached, so a
// temporary outage cannot pin a wrong answer.
func (uc *ResolveUseCase) Resolve(ctx context.Context, req dto.ResolveRequest) (*dto.ResolveResponse, error) {
	start := time.Now()
	defer func() {
		uc.metrics.ObserveResolveDuration(time.Since(start))
	}()

	if !utils.ValidateCoordinates(req.Lat, req.Lon) {
		return nil, errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{
			"lat": req.Lat,
			"lon": req.Lon,
		})
	}
	point := domain.Point{Lat: req.Lat, Lon: req.Lon}

	if cached, err := uc.cache.Get(ctx, point); err != nil {
		// A broken cache degrades to a miss, it never fails a resolution.
		uc.logger.Warn("Result cache get failed", zap.Error(err))
	} else if cached != nil {
		uc.metrics.IncCacheHit()
		return dto.FromResolvedLocation(*cached), nil
	}
	uc.metrics.IncCacheMiss()

	snap := uc.snapshots.Current()
	if snap == nil {
		uc.logger.Error("No boundary dataset published")
		return nil, errors.ErrDatasetError
	}

	candidates := snap.Index.Candidates(point)
	if muni := boundary.Resolve(point, candidates); muni != nil {
		loc := domain.ResolvedLocation{
			Hierarchy:  snap.Store.Hierarchy(muni),
			Source:     domain.SourceLocal,
			ResolvedAt: time.Now().UTC(),
		}
		uc.putCache(ctx, point, loc)
		uc.metrics.IncResolution("local", "resolved")

		uc.logger.Debug("Point resolved locally",
			zap.Float64("lat", point.Lat),
			zap.Float64("lon", point.Lon),
			zap.String("municipality", muni.Name),
			zap.String("dataset_version", snap.Version),
		)
		return dto.FromResolvedLocation(loc), nil
	}

	// Point is outside every local polygon: offshore, on a border, or a
	// dataset gap. Ask the remote service, under a bounded timeout.
	fbCtx, cancel := context.WithTimeout(ctx, uc.remoteTimeout)
	defer cancel()

	hierarchy, err := uc.fallback.Lookup(fbCtx, point)
	if err != nil {
		uc.metrics.IncFallback("error")
		uc.logger.Warn("Remote fallback failed",
			zap.Float64("lat", point.Lat),
			zap.Float64("lon", point.Lon),
			zap.Error(err),
		)
		return nil, err
	}
	uc.metrics.IncFallback("success")

	loc := domain.ResolvedLocation{
		Hierarchy:  *hierarchy,
		Source:     domain.SourceRemote,
		ResolvedAt: time.Now().UTC(),
	}
	uc.putCache(ctx, point, loc)

	outcome := "resolved"
	if hierarchy.IsEmpty() {
		outcome = "not_found"
	}
	uc.metrics.IncResolution("remote", outcome)

	return dto.FromResolvedLocation(loc), nil
}

func (uc *ResolveUseCase) putCache(ctx context.Context, p domain.Point, loc domain.ResolvedLocation) {
	if err := uc.cache.Put(ctx, p, loc); err != nil {
		uc.logger.Warn("Result cache put failed", zap.Error(err))
	}
}
