package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sma-bulletin-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil)
	ctx := context.Background()

	var out []string
	err := repo.Get(ctx, "calendar:view:2025-03", &out)
	require.True(t, errors.Is(err, appErrors.ErrCacheMiss))
	require.NoError(t, repo.Set(ctx, "calendar:view:2025-03", []string{"x"}, time.Minute))
	require.NoError(t, repo.DeleteByPattern(ctx, "calendar:view:*"))
	require.NoError(t, repo.Close())
}

func TestNamespaced(t *testing.T) {
	require.Equal(t, "bulletin:calendar:view:2025", namespaced("calendar:view:2025"))
	require.Equal(t, "bulletin:calendar:view:*", namespaced("bulletin:calendar:view:*"))
}
