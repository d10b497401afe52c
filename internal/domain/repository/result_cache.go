package repository

import (
	"context"

	"github.com/municipal-boundary-service/internal/domain"
)

// ResultCache memoizes point resolutions keyed by quantized coordinates.
// Implementations must quantize identically in Get and Put so round-trips
// are consistent. A cache never stores failures.
type ResultCache interface {
	// Get returns the cached resolution for the point's quantization cell,
	// or (nil, nil) on a miss.
	Get(ctx context.Context, p domain.Point) (*domain.ResolvedLocation, error)

	// Put stores a resolution under the point's quantization cell. The TTL
	// applied depends on the value's source: remote answers expire sooner
	// than local ones.
	Put(ctx context.Context, p domain.Point, loc domain.ResolvedLocation) error

	// Len returns the number of live entries, for the health endpoint.
	Len(ctx context.Context) (int, error)
}
