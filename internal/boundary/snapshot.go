package boundary

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/municipal-boundary-service/internal/domain"
)

// Snapshot is one immutable store+index pair. Every request captures a
// single snapshot, so queries in flight during a reload complete against
// one consistent dataset version.
type Snapshot struct {
	Version    string
	SourceName string
	LoadedAt   time.Time
	Store      *Store
	Index      *Grid
}

// NewSnapshot validates records, builds the store and the grid index, and
// stamps the result with a fresh version id. Nothing is published yet.
func NewSnapshot(records []domain.BoundaryRecord, sourceName string) (*Snapshot, error) {
	store, err := NewStore(records)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Version:    uuid.NewString(),
		SourceName: sourceName,
		LoadedAt:   time.Now().UTC(),
		Store:      store,
		Index:      NewGrid(store.Municipalities()),
	}, nil
}

// Provider publishes the current snapshot behind a single atomic pointer
// swap. Readers see either the old or the new version in full, never a
// mix.
type Provider struct {
	current atomic.Pointer[Snapshot]
}

func NewProvider(initial *Snapshot) *Provider {
	p := &Provider{}
	if initial != nil {
		p.current.Store(initial)
	}
	return p
}

// Current returns the live snapshot, or nil before the first publish.
func (p *Provider) Current() *Snapshot {
	return p.current.Load()
}

// Publish swaps in a fully built snapshot.
func (p *Provider) Publish(s *Snapshot) {
	p.current.Store(s)
}
