package repository

import (
	"context"

	"github.com/municipal-boundary-service/internal/domain"
)

// FallbackRepository queries the remote boundary service for points the
// local dataset does not cover. A remote "nothing here" is returned as an
// empty Hierarchy with a nil error; transport failures and timeouts come
// back as errors so callers can tell "outside any municipality" apart from
// "service unavailable".
type FallbackRepository interface {
	Lookup(ctx context.Context, p domain.Point) (*domain.Hierarchy, error)
}
