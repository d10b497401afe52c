package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/municipal-boundary-service/internal/config"
	"github.com/municipal-boundary-service/internal/domain"
)

func newTestCache(t *testing.T, capacity int) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(&config.CacheConfig{
		Capacity:  capacity,
		LocalTTL:  24 * time.Hour,
		RemoteTTL: 15 * time.Minute,
	}, zap.NewNop()).(*MemoryCache)
	return c
}

func localResult(name string) domain.ResolvedLocation {
	return domain.ResolvedLocation{
		Hierarchy:  domain.Hierarchy{Municipality: &name},
		Source:     domain.SourceLocal,
		ResolvedAt: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
	}
}

func remoteResult(name string) domain.ResolvedLocation {
	loc := localResult(name)
	loc.Source = domain.SourceRemote
	return loc
}

func TestQuantizeKey(t *testing.T) {
	tests := []struct {
		name string
		p    domain.Point
		want string
	}{
		{"plain", domain.Point{Lat: -33.9249, Lon: 18.4241}, "-33.9249:18.4241"},
		{"rounds to four decimals", domain.Point{Lat: 1.00006, Lon: 2.00004}, "1.0001:2.0000"},
		{"origin", domain.Point{Lat: 0, Lon: 0}, "0.0000:0.0000"},
		{"negative zero collapses", domain.Point{Lat: -0.00001, Lon: -0.00004}, "0.0000:0.0000"},
		{"pads to fixed width", domain.Point{Lat: -26.2, Lon: 28.04}, "-26.2000:28.0400"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuantizeKey(tt.p))
		})
	}
}

func TestMemoryCache_NearbyPointsShareEntry(t *testing.T) {
	c := newTestCache(t, 10)
	ctx := context.Background()

	// Two GPS fixes about a metre apart quantize to the same key.
	a := domain.Point{Lat: -33.92490, Lon: 18.42410}
	b := domain.Point{Lat: -33.92491, Lon: 18.42412}
	require.Equal(t, QuantizeKey(a), QuantizeKey(b))

	require.NoError(t, c.Put(ctx, a, localResult("Cape Town")))

	got, err := c.Get(ctx, b)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Cape Town", *got.Hierarchy.Municipality)

	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryCache_MissReturnsNilNil(t *testing.T) {
	c := newTestCache(t, 10)
	got, err := c.Get(context.Background(), domain.Point{Lat: 1, Lon: 1})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCache_LRUEviction(t *testing.T) {
	c := newTestCache(t, 3)
	ctx := context.Background()

	points := make([]domain.Point, 4)
	for i := range points {
		points[i] = domain.Point{Lat: float64(i), Lon: float64(i)}
	}

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Put(ctx, points[i], localResult(fmt.Sprintf("m%d", i))))
	}

	// Touch point 0 so point 1 becomes the least recently used.
	got, err := c.Get(ctx, points[0])
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, c.Put(ctx, points[3], localResult("m3")))

	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	evicted, err := c.Get(ctx, points[1])
	require.NoError(t, err)
	assert.Nil(t, evicted, "least recently used entry should be gone")

	for _, i := range []int{0, 2, 3} {
		kept, err := c.Get(ctx, points[i])
		require.NoError(t, err)
		assert.NotNil(t, kept, "entry %d should survive", i)
	}
}

func TestMemoryCache_PutUpdatesExistingEntry(t *testing.T) {
	c := newTestCache(t, 3)
	ctx := context.Background()
	p := domain.Point{Lat: 1, Lon: 1}

	require.NoError(t, c.Put(ctx, p, localResult("old")))
	require.NoError(t, c.Put(ctx, p, localResult("new")))

	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := c.Get(ctx, p)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "new", *got.Hierarchy.Municipality)
}

func TestMemoryCache_PerSourceTTL(t *testing.T) {
	c := newTestCache(t, 10)
	ctx := context.Background()

	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	current := base
	c.now = func() time.Time { return current }

	localP := domain.Point{Lat: 1, Lon: 1}
	remoteP := domain.Point{Lat: 2, Lon: 2}
	require.NoError(t, c.Put(ctx, localP, localResult("local")))
	require.NoError(t, c.Put(ctx, remoteP, remoteResult("remote")))

	// Past the remote TTL but well within the local one.
	current = base.Add(16 * time.Minute)

	gone, err := c.Get(ctx, remoteP)
	require.NoError(t, err)
	assert.Nil(t, gone, "remote entry should expire after its TTL")

	kept, err := c.Get(ctx, localP)
	require.NoError(t, err)
	assert.NotNil(t, kept, "local entry should still be valid")

	// Expired entries are removed on access, not just hidden.
	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Past the local TTL too.
	current = base.Add(25 * time.Hour)
	kept, err = c.Get(ctx, localP)
	require.NoError(t, err)
	assert.Nil(t, kept)
}
