package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sma-bulletin-api/pkg/errors"
)

type memoryCacheRepo struct {
	data     map[string][]byte
	ttls     map[string]time.Duration
	patterns []string
	getErr   error
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (r *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	if r.getErr != nil {
		return r.getErr
	}
	raw, ok := r.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (r *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.data[key] = raw
	r.ttls[key] = ttl
	return nil
}

func (r *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	r.patterns = append(r.patterns, pattern)
	r.data = map[string][]byte{}
	return nil
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newMemoryCacheRepo()
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, time.Minute, nil, true)
	ctx := context.Background()

	var out []string
	require.False(t, svc.Lookup(ctx, "calendar:view:2025-03", &out))

	svc.Store(ctx, "calendar:view:2025-03", []string{"2025-03-01"}, 0)
	require.Equal(t, time.Minute, repo.ttls["calendar:view:2025-03"])

	require.True(t, svc.Lookup(ctx, "calendar:view:2025-03", &out))
	require.Equal(t, []string{"2025-03-01"}, out)
	require.Equal(t, 0.5, testutil.ToFloat64(metrics.cacheHitRatio))

	require.NoError(t, svc.Invalidate(ctx, "calendar:view:*"))
	require.Equal(t, []string{"calendar:view:*"}, repo.patterns)
	require.False(t, svc.Lookup(ctx, "calendar:view:2025-03", &out))
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, 0, nil, false)
	ctx := context.Background()

	require.False(t, svc.Enabled())
	svc.Store(ctx, "k", 1, 0)
	require.Empty(t, repo.data)
	var out int
	require.False(t, svc.Lookup(ctx, "k", &out))
	require.NoError(t, svc.Invalidate(ctx, "*"))
	require.Empty(t, repo.patterns)

	var nilSvc *CacheService
	require.False(t, nilSvc.Enabled())
	require.False(t, nilSvc.Lookup(ctx, "k", &out))
}

func TestCacheServiceTreatsBackendErrorsAsMiss(t *testing.T) {
	repo := newMemoryCacheRepo()
	repo.getErr = errors.New("connection refused")
	svc := NewCacheService(repo, nil, 0, nil, true)

	var out int
	require.False(t, svc.Lookup(context.Background(), "k", &out))
}
