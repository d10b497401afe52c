package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/municipal-boundary-service/internal/pkg/errors"
	"github.com/municipal-boundary-service/internal/pkg/utils"
	"github.com/municipal-boundary-service/internal/pkg/validator"
	"github.com/municipal-boundary-service/internal/usecase"
	"github.com/municipal-boundary-service/internal/usecase/dto"
)

// ResolveHandler exposes the point resolution operation.
type ResolveHandler struct {
	resolveUC *usecase.ResolveUseCase
	logger    *zap.Logger
}

func NewResolveHandler(resolveUC *usecase.ResolveUseCase, logger *zap.Logger) *ResolveHandler {
	return &ResolveHandler{
		resolveUC: resolveUC,
		logger:    logger,
	}
}

// Resolve godoc
// @Summary Resolve a coordinate to its administrative hierarchy
// @Description Returns the province, district and local municipality containing the point. Levels that cannot be resolved are null; a fully null hierarchy means the point lies outside every known administrative unit.
// @Tags Resolution
// @Accept json
// @Produce json
// @Param request body dto.ResolveRequest true "Coordinate pair (WGS84 decimal degrees)"
// @Success 200 {object} utils.SuccessResponse{data=dto.ResolveResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Failure 504 {object} utils.ErrorResponse
// @Router /api/v1/resolve [post]
func (h *ResolveHandler) Resolve(c *fiber.Ctx) error {
	var req dto.ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, invalidCoordinates(req))
	}

	result, err := h.resolveUC.Resolve(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// ResolveGET godoc
// @Summary Resolve a coordinate to its administrative hierarchy (query form)
// @Description Same operation as POST /resolve, with lat/lon as query parameters for webhook-style callers.
// @Tags Resolution
// @Produce json
// @Param lat query number true "Latitude in decimal degrees"
// @Param lon query number true "Longitude in decimal degrees"
// @Success 200 {object} utils.SuccessResponse{data=dto.ResolveResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Failure 504 {object} utils.ErrorResponse
// @Router /api/v1/resolve [get]
func (h *ResolveHandler) ResolveGET(c *fiber.Ctx) error {
	req := dto.ResolveRequest{
		Lat: c.QueryFloat("lat"),
		Lon: c.QueryFloat("lon"),
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, invalidCoordinates(req))
	}

	result, err := h.resolveUC.Resolve(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

func invalidCoordinates(req dto.ResolveRequest) error {
	return apperrors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{
		"lat": req.Lat,
		"lon": req.Lon,
	})
}
