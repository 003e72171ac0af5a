package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
)

type cacheRepoStub struct {
	values   map[string][]byte
	ttls     map[string]time.Duration
	getErr   error
	patterns []string
}

func newCacheRepoStub() *cacheRepoStub {
	return &cacheRepoStub{values: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (s *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	if s.getErr != nil {
		return s.getErr
	}
	raw, ok := s.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.values[key] = raw
	s.ttls[key] = ttl
	return nil
}

func (s *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	s.patterns = append(s.patterns, pattern)
	removed := len(s.values)
	s.values = map[string][]byte{}
	return removed, nil
}

func TestWeeklyCacheKeys(t *testing.T) {
	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "planner:weekly:stu-1:2025-01-06", WeeklyCacheKey("stu-1", monday))
	assert.Equal(t, "planner:weekly:stu-1:*", WeeklyCachePattern("stu-1"))
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newCacheRepoStub()
	svc := NewCacheService(repo, NewMetricsService(), 0, nil, true)

	var out map[string]int
	assert.False(t, svc.Get(context.Background(), "k", &out))

	svc.Set(context.Background(), "k", map[string]int{"a": 1}, 0)
	assert.Equal(t, 5*time.Minute, repo.ttls["k"])

	require.True(t, svc.Get(context.Background(), "k", &out))
	assert.Equal(t, 1, out["a"])

	svc.Invalidate(context.Background(), "k*")
	assert.Equal(t, []string{"k*"}, repo.patterns)
	assert.False(t, svc.Get(context.Background(), "k", &out))
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := newCacheRepoStub()
	svc := NewCacheService(repo, nil, time.Minute, nil, false)

	svc.Set(context.Background(), "k", 1, 0)
	svc.Invalidate(context.Background(), "*")
	assert.Empty(t, repo.values)
	assert.Empty(t, repo.patterns)

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	var out int
	assert.False(t, nilSvc.Get(context.Background(), "k", &out))
}

func TestCacheServiceGetErrorIsAMiss(t *testing.T) {
	repo := newCacheRepoStub()
	repo.getErr = errors.New("connection refused")
	svc := NewCacheService(repo, nil, time.Minute, nil, true)

	var out int
	assert.False(t, svc.Get(context.Background(), "k", &out))
}
