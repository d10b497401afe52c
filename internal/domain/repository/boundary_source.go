package repository

import (
	"context"

	"github.com/municipal-boundary-service/internal/domain"
)

// BoundarySource loads the raw boundary dataset at process start and on
// explicit reload. Implementations: GeoJSON file, PostgreSQL.
type BoundarySource interface {
	// Load reads the full dataset. The returned records are validated and
	// turned into an immutable store by the boundary package.
	Load(ctx context.Context) ([]domain.BoundaryRecord, error)

	// Name identifies the source for logs and the health endpoint.
	Name() string
}
