// Package geojson loads the South African municipal boundary dataset from
// the nested province/district/municipality JSON file shipped with the
// service.
package geojson

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/municipal-boundary-service/internal/domain"
	"github.com/municipal-boundary-service/internal/domain/repository"
)

type datasetFile struct {
	Provinces []provinceEntry `json:"provinces"`
}

type provinceEntry struct {
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	Geometry  *Geometry       `json:"geometry,omitempty"`
	Districts []districtEntry `json:"districts"`
}

type districtEntry struct {
	Name                string              `json:"name"`
	Code                string              `json:"code"`
	Type                string              `json:"type"`
	Geometry            *Geometry           `json:"geometry,omitempty"`
	LocalMunicipalities []municipalityEntry `json:"local_municipalities,omitempty"`
}

type municipalityEntry struct {
	Name     string    `json:"name"`
	Code     string    `json:"code"`
	Type     string    `json:"type"`
	Geometry *Geometry `json:"geometry,omitempty"`
}

// Source reads boundary records from a dataset file on every Load call,
// so an operator can drop a new file and trigger a reload.
type Source struct {
	path   string
	logger *zap.Logger
}

func NewSource(path string, logger *zap.Logger) repository.BoundarySource {
	return &Source{path: path, logger: logger}
}

func (s *Source) Name() string {
	return "geojson:" + s.path
}

// Load flattens the nested dataset into records. Metro districts that
// carry geometry but list no local municipalities are their own
// municipality by convention.
func (s *Source) Load(ctx context.Context) ([]domain.BoundaryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read dataset file: %w", err)
	}

	var file datasetFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse dataset file: %w", err)
	}
	if len(file.Provinces) == 0 {
		return nil, fmt.Errorf("dataset file has no provinces")
	}

	var records []domain.BoundaryRecord
	for _, prov := range file.Provinces {
		rec, err := newRecord(domain.LevelProvince, prov.Name, prov.Code, "", "", prov.Geometry)
		if err != nil {
			return nil, fmt.Errorf("province %q: %w", prov.Name, err)
		}
		records = append(records, rec)

		for _, dist := range prov.Districts {
			rec, err := newRecord(domain.LevelDistrict, dist.Name, dist.Code, dist.Type, prov.Name, dist.Geometry)
			if err != nil {
				return nil, fmt.Errorf("district %q: %w", dist.Name, err)
			}
			records = append(records, rec)

			if len(dist.LocalMunicipalities) == 0 && dist.Geometry != nil {
				rec, err := newRecord(domain.LevelMunicipality, dist.Name, dist.Code,
					domain.MunicipalityTypeMetro, dist.Name, dist.Geometry)
				if err != nil {
					return nil, fmt.Errorf("metro %q: %w", dist.Name, err)
				}
				records = append(records, rec)
				continue
			}

			for _, lm := range dist.LocalMunicipalities {
				rec, err := newRecord(domain.LevelMunicipality, lm.Name, lm.Code, lm.Type, dist.Name, lm.Geometry)
				if err != nil {
					return nil, fmt.Errorf("municipality %q: %w", lm.Name, err)
				}
				records = append(records, rec)
			}
		}
	}

	s.logger.Info("Boundary dataset file loaded",
		zap.String("path", s.path),
		zap.Int("records", len(records)),
	)

	return records, nil
}

func newRecord(level domain.Level, name, code, typ, parent string, geom *Geometry) (domain.BoundaryRecord, error) {
	rec := domain.BoundaryRecord{
		Level:      level,
		Name:       name,
		Code:       code,
		Type:       typ,
		ParentName: parent,
	}
	if geom != nil {
		polys, err := ParseGeometry(*geom)
		if err != nil {
			return domain.BoundaryRecord{}, err
		}
		rec.Polygons = polys
	}
	return rec, nil
}
