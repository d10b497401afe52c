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
	"github.com/municipal-boundary-service/internal/usecase/dto"
)

// SnapshotPublisher is the write side of the snapshot provider.
type SnapshotPublisher interface {
	Current() *boundary.Snapshot
	Publish(*boundary.Snapshot)
}

// ReloadUseCase re-ingests the boundary dataset without a restart. The
// new store and index are built fully off to the side; a failed load
// leaves the previous version serving.
type ReloadUseCase struct {
	source   repository.BoundarySource
	provider SnapshotPublisher
	metrics  *metrics.Collector
	logger   *zap.Logger
}

func NewReloadUseCase(
	source repository.BoundarySource,
	provider SnapshotPublisher,
	collector *metrics.Collector,
	logger *zap.Logger,
) *ReloadUseCase {
	return &ReloadUseCase{
		source:   source,
		provider: provider,
		metrics:  collector,
		logger:   logger,
	}
}

// Reload loads, validates, builds and publishes a new dataset version.
// A malformed dataset is a DATASET_ERROR; at startup the caller treats it
// as fatal, on an operator-triggered reload the old version keeps serving.
func (uc *ReloadUseCase) Reload(ctx context.Context) (*dto.ReloadResponse, error) {
	start := time.Now()

	records, err := uc.source.Load(ctx)
	if err != nil {
		uc.metrics.IncDatasetReload(false)
		uc.logger.Error("Dataset load failed",
			zap.String("source", uc.source.Name()),
			zap.Error(err),
		)
		return nil, errors.ErrDatasetError.WithDetails(map[string]interface{}{
			"source": uc.source.Name(),
			"cause":  err.Error(),
		})
	}

	snap, err := boundary.NewSnapshot(records, uc.source.Name())
	if err != nil {
		uc.metrics.IncDatasetReload(false)
		uc.logger.Error("Dataset validation failed",
			zap.String("source", uc.source.Name()),
			zap.Error(err),
		)
		return nil, errors.ErrDatasetError.WithDetails(map[string]interface{}{
			"source": uc.source.Name(),
			"cause":  err.Error(),
		})
	}

	uc.provider.Publish(snap)
	uc.metrics.IncDatasetReload(true)
	for _, level := range []domain.Level{domain.LevelProvince, domain.LevelDistrict, domain.LevelMunicipality} {
		uc.metrics.SetBoundariesLoaded(string(level), snap.Store.Count(level))
	}

	took := time.Since(start)
	uc.logger.Info("Boundary dataset published",
		zap.String("version", snap.Version),
		zap.String("source", snap.SourceName),
		zap.Int("provinces", snap.Store.Count(domain.LevelProvince)),
		zap.Int("districts", snap.Store.Count(domain.LevelDistrict)),
		zap.Int("municipalities", snap.Store.Count(domain.LevelMunicipality)),
		zap.Duration("took", took),
	)

	return &dto.ReloadResponse{
		Version:        snap.Version,
		Source:         snap.SourceName,
		Provinces:      snap.Store.Count(domain.LevelProvince),
		Districts:      snap.Store.Count(domain.LevelDistrict),
		Municipalities: snap.Store.Count(domain.LevelMunicipality),
		LoadedAt:       snap.LoadedAt,
		TookMs:         float64(took.Microseconds()) / 1000.0,
	}, nil
}
