package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-authgate/oauthprovider/internal/cache"
	"github.com/go-authgate/oauthprovider/internal/mocks"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestActiveTokensCollector_CacheHit(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache[int64]()
	ctrl := gomock.NewController(t)
	// No expectations: any call to CountActiveTokens fails the test.
	counter := mocks.NewMockTokenCounter(ctrl)

	_ = memCache.Set(ctx, "tokens:active:access", 42, time.Minute)
	_ = memCache.Set(ctx, "tokens:active:refresh", 7, time.Minute)

	c := NewActiveTokensCollector(counter, memCache, time.Minute, nil)
	assert.Equal(t, 2, testutil.CollectAndCount(c))
}

func TestActiveTokensCollector_CacheMiss(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache[int64]()
	ctrl := gomock.NewController(t)
	counter := mocks.NewMockTokenCounter(ctrl)
	counter.EXPECT().CountActiveTokens(gomock.Any(), "access", gomock.Any()).Return(int64(100), nil).Times(1)
	counter.EXPECT().CountActiveTokens(gomock.Any(), "refresh", gomock.Any()).Return(int64(10), nil).Times(1)

	c := NewActiveTokensCollector(counter, memCache, time.Minute, nil)
	require.Equal(t, 2, testutil.CollectAndCount(c))

	// Second scrape is served from cache.
	require.Equal(t, 2, testutil.CollectAndCount(c))

	v, err := memCache.Get(ctx, "tokens:active:access")
	require.NoError(t, err)
	assert.Equal(t, int64(100), v)
}

func TestActiveTokensCollector_CountError(t *testing.T) {
	memCache := cache.NewMemoryCache[int64]()
	ctrl := gomock.NewController(t)
	counter := mocks.NewMockTokenCounter(ctrl)
	counter.EXPECT().CountActiveTokens(gomock.Any(), "access", gomock.Any()).
		Return(int64(0), errors.New("db down"))
	counter.EXPECT().CountActiveTokens(gomock.Any(), "refresh", gomock.Any()).
		Return(int64(3), nil)

	recorder := mocks.NewMockRecorder(ctrl)
	recorder.EXPECT().RecordDatabaseQueryError("count_active_access").Times(1)

	c := NewActiveTokensCollector(counter, memCache, time.Minute, recorder)
	assert.Equal(t, 1, testutil.CollectAndCount(c))

	_, err := memCache.Get(context.Background(), "tokens:active:access")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}
