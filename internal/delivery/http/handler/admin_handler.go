package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/municipal-boundary-service/internal/domain"
	"github.com/municipal-boundary-service/internal/domain/repository"
	"github.com/municipal-boundary-service/internal/pkg/utils"
	"github.com/municipal-boundary-service/internal/usecase"
)

// AdminHandler exposes the dataset reload operation and the health view.
type AdminHandler struct {
	reloadUC  *usecase.ReloadUseCase
	snapshots usecase.SnapshotProvider
	cache     repository.ResultCache
	logger    *zap.Logger
}

func NewAdminHandler(
	reloadUC *usecase.ReloadUseCase,
	snapshots usecase.SnapshotProvider,
	cache repository.ResultCache,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		reloadUC:  reloadUC,
		snapshots: snapshots,
		cache:     cache,
		logger:    logger,
	}
}

// Reload godoc
// @Summary Reload the boundary dataset
// @Description Re-ingests the boundary dataset and publishes it as a new version. On failure the previous version keeps serving.
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.ReloadResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/admin/reload [post]
func (h *AdminHandler) Reload(c *fiber.Ctx) error {
	start := time.Now()

	result, err := h.reloadUC.Reload(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000.0,
		Version:  result.Version,
	})
}

// Health godoc
// @Summary Service health and current dataset version
// @Tags Admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/health [get]
func (h *AdminHandler) Health(c *fiber.Ctx) error {
	resp := fiber.Map{
		"status": "healthy",
		"time":   time.Now(),
	}

	if snap := h.snapshots.Current(); snap != nil {
		resp["dataset"] = fiber.Map{
			"version":        snap.Version,
			"source":         snap.SourceName,
			"loaded_at":      snap.LoadedAt,
			"provinces":      snap.Store.Count(domain.LevelProvince),
			"districts":      snap.Store.Count(domain.LevelDistrict),
			"municipalities": snap.Store.Count(domain.LevelMunicipality),
		}
	} else {
		resp["status"] = "degraded"
	}

	if n, err := h.cache.Len(c.Context()); err == nil {
		resp["cache_entries"] = n
	}

	return c.JSON(resp)
}
