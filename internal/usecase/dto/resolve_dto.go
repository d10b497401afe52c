package dto

import (
	"time"

	"github.com/municipal-boundary-service/internal/domain"
)

// ResolveRequest carries the coordinate pair to resolve. Zero is a valid
// coordinate (the mid-Atlantic test point is 0,0), so only range tags are
// used, never required.
type ResolveRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

// ResolveResponse is the resolved hierarchy with provenance. Levels that
// could not be resolved are null; a fully null hierarchy is a valid
// outcome for points outside any known administrative unit.
type ResolveResponse struct {
	Province         *string   `json:"province"`
	District         *string   `json:"district"`
	Municipality     *string   `json:"municipality"`
	MunicipalityCode *string   `json:"municipality_code,omitempty"`
	MunicipalityType *string   `json:"municipality_type,omitempty"`
	Source           string    `json:"source"`
	ResolvedAt       time.Time `json:"resolved_at"`
}

// FromResolvedLocation converts the domain value into the API shape.
func FromResolvedLocation(loc domain.ResolvedLocation) *ResolveResponse {
	return &ResolveResponse{
		Province:         loc.Hierarchy.Province,
		District:         loc.Hierarchy.District,
		Municipality:     loc.Hierarchy.Municipality,
		MunicipalityCode: loc.Hierarchy.MunicipalityCode,
		MunicipalityType: loc.Hierarchy.MunicipalityType,
		Source:           string(loc.Source),
		ResolvedAt:       loc.ResolvedAt,
	}
}

// ReloadResponse reports the outcome of a dataset reload.
type ReloadResponse struct {
	Version        string    `json:"version"`
	Source         string    `json:"source"`
	Provinces      int       `json:"provinces"`
	Districts      int       `json:"districts"`
	Municipalities int       `json:"municipalities"`
	LoadedAt       time.Time `json:"loaded_at"`
	TookMs         float64   `json:"took_ms"`
}
