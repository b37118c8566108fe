package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/go-authgate/idgate/internal/cache"
	"github.com/go-authgate/idgate/internal/mocks"
)

// callFetchFn is a DoAndReturn helper that invokes the cache fetch function,
// simulating a cache miss where the real DB fetch is executed.
func callFetchFn[T any](
	_ context.Context,
	key string,
	_ time.Duration,
	fn func(context.Context, string) (T, error),
) (T, error) {
	return fn(context.Background(), key)
}

func TestCacheWrapper_GetActiveSessionsCount_CacheHit(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache[int64]()
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockMetricsStore(ctrl)
	// No expectations: if CountActiveSessions is called, gomock fails automatically

	wrapper := NewCacheWrapper(mockStore, memCache)

	_ = memCache.Set(ctx, keyActiveSessions, 42, time.Minute)

	count, err := wrapper.GetActiveSessionsCount(ctx, time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if count != 42 {
		t.Errorf("Expected count 42, got %d", count)
	}
}

func TestCacheWrapper_GetActiveSessionsCount_CacheMiss(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache[int64]()
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockMetricsStore(ctrl)
	mockStore.EXPECT().CountActiveSessions().Return(int64(100), nil).Times(1)

	wrapper := NewCacheWrapper(mockStore, memCache)

	count, err := wrapper.GetActiveSessionsCount(ctx, time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if count != 100 {
		t.Errorf("Expected count 100, got %d", count)
	}

	cached, err := memCache.Get(ctx, keyActiveSessions)
	if err != nil {
		t.Fatalf("Expected cache to be updated, got error: %v", err)
	}

	if cached != 100 {
		t.Errorf("Expected cached value 100, got %d", cached)
	}
}

func TestCacheWrapper_GetRegisteredUsersCount_CacheMiss(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache[int64]()
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockMetricsStore(ctrl)
	mockStore.EXPECT().CountUsers().Return(int64(7), nil).Times(1)

	wrapper := NewCacheWrapper(mockStore, memCache)

	count, err := wrapper.GetRegisteredUsersCount(ctx, time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if count != 7 {
		t.Errorf("Expected count 7, got %d", count)
	}

	// Second call is served from the cache
	count, err = wrapper.GetRegisteredUsersCount(ctx, time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if count != 7 {
		t.Errorf("Expected cached count 7, got %d", count)
	}
}

func TestCacheWrapper_DBError(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache[int64]()
	ctrl := gomock.NewController(t)
	expectedErr := errors.New("database connection failed")
	mockStore := mocks.NewMockMetricsStore(ctrl)
	mockStore.EXPECT().CountActiveSessions().Return(int64(0), expectedErr).Times(1)
	mockStore.EXPECT().CountUsers().Return(int64(0), expectedErr).Times(1)

	wrapper := NewCacheWrapper(mockStore, memCache)

	if _, err := wrapper.GetActiveSessionsCount(ctx, time.Minute); !errors.Is(err, expectedErr) {
		t.Errorf("Expected error %v, got %v", expectedErr, err)
	}
	if _, err := wrapper.GetRegisteredUsersCount(ctx, time.Minute); !errors.Is(err, expectedErr) {
		t.Errorf("Expected error %v, got %v", expectedErr, err)
	}

	if _, err := memCache.Get(ctx, keyActiveSessions); !errors.Is(err, cache.ErrCacheMiss) {
		t.Errorf("Expected failed fetch not to be cached, got %v", err)
	}
}

func TestCacheWrapper_CacheExpiration(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache[int64]()
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockMetricsStore(ctrl)

	callCount := 0
	mockStore.EXPECT().
		CountActiveSessions().
		DoAndReturn(func() (int64, error) {
			callCount++
			return int64(callCount * 10), nil
		}).
		Times(2)

	wrapper := NewCacheWrapper(mockStore, memCache)

	count1, _ := wrapper.GetActiveSessionsCount(ctx, 50*time.Millisecond)
	if count1 != 10 {
		t.Errorf("Expected first count 10, got %d", count1)
	}

	count2, _ := wrapper.GetActiveSessionsCount(ctx, 50*time.Millisecond)
	if count2 != 10 {
		t.Errorf("Expected second count 10 (cached), got %d", count2)
	}

	time.Sleep(100 * time.Millisecond)

	count3, _ := wrapper.GetActiveSessionsCount(ctx, 50*time.Millisecond)
	if count3 != 20 {
		t.Errorf("Expected third count 20 (new DB query), got %d", count3)
	}

	if callCount != 2 {
		t.Errorf("Expected 2 DB calls after expiration, got %d", callCount)
	}
}

func TestCacheWrapper_UsesGetWithFetch(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockMetricsStore(ctrl)
	mockStore.EXPECT().CountUsers().Return(int64(3), nil).Times(1)

	mockCache := mocks.NewMockCache[int64](ctrl)
	gomock.InOrder(
		mockCache.EXPECT().
			GetWithFetch(gomock.Any(), keyRegisteredUsers, time.Minute, gomock.Any()).
			DoAndReturn(callFetchFn[int64]),
		mockCache.EXPECT().
			GetWithFetch(gomock.Any(), keyRegisteredUsers, time.Minute, gomock.Any()).
			Return(int64(3), nil),
	)

	wrapper := NewCacheWrapper(mockStore, mockCache)

	for range 2 {
		count, err := wrapper.GetRegisteredUsersCount(ctx, time.Minute)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if count != 3 {
			t.Errorf("Expected count 3, got %d", count)
		}
	}
}
