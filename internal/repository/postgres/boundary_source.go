// Package postgres loads boundary records from a PostgreSQL table, for
// deployments that keep the authoritative dataset in a database instead
// of a file.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/municipal-boundary-service/internal/domain"
	"github.com/municipal-boundary-service/internal/domain/repository"
	"github.com/municipal-boundary-service/internal/repository/geojson"
)

type boundaryRow struct {
	Level      string  `db:"level"`
	Name       string  `db:"name"`
	Code       string  `db:"code"`
	Type       string  `db:"type"`
	ParentName string  `db:"parent_name"`
	Geometry   *[]byte `db:"geometry"`
}

type boundarySource struct {
	db     *DB
	logger *zap.Logger
}

func NewBoundarySource(db *DB) repository.BoundarySource {
	return &boundarySource{db: db, logger: db.logger}
}

func (s *boundarySource) Name() string {
	return "postgres:admin_boundaries"
}

// Load reads the full table. Geometry is stored as GeoJSON in a jsonb
// column and parsed with the same parser the file source uses, so both
// sources feed identical records into the store.
func (s *boundarySource) Load(ctx context.Context) ([]domain.BoundaryRecord, error) {
	const query = `
		SELECT level, name,
		       COALESCE(code, '')        AS code,
		       COALESCE(type, '')        AS type,
		       COALESCE(parent_name, '') AS parent_name,
		       geometry
		FROM admin_boundaries
		ORDER BY level, name`

	var rows []boundaryRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select boundaries: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("admin_boundaries table is empty")
	}

	records := make([]domain.BoundaryRecord, 0, len(rows))
	for _, row := range rows {
		rec := domain.BoundaryRecord{
			Level:      domain.Level(row.Level),
			Name:       row.Name,
			Code:       row.Code,
			Type:       row.Type,
			ParentName: row.ParentName,
		}
		if row.Geometry != nil && len(*row.Geometry) > 0 {
			var geom geojson.Geometry
			if err := json.Unmarshal(*row.Geometry, &geom); err != nil {
				return nil, fmt.Errorf("boundary %s %q: parse geometry: %w", row.Level, row.Name, err)
			}
			polys, err := geojson.ParseGeometry(geom)
			if err != nil {
				return nil, fmt.Errorf("boundary %s %q: %w", row.Level, row.Name, err)
			}
			rec.Polygons = polys
		}
		records = append(records, rec)
	}

	s.logger.Info("Boundary dataset loaded from PostgreSQL",
		zap.Int("records", len(records)),
	)

	return records, nil
}
