package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quiz-arena/internal/adapter"
	"quiz-arena/internal/cache"
	"quiz-arena/internal/config"
	"quiz-arena/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMiniredisCache(t *testing.T) (*miniredis.Miniredis, domain.Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, adapter.NewRedisCacheAdapter(client)
}

func testLeaderboardConfig() config.LeaderboardConfig {
	return config.LeaderboardConfig{DefaultLimit: 10, MaxLimit: 50, HistoryLimit: 20, CacheTTL: time.Minute}
}

func rankedResults() []*domain.Result {
	t1 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	return []*domain.Result{
		{ID: "r3", Username: "carol", Score: 95, TotalQuestions: 20, CorrectAnswers: 19, CreatedAt: t1},
		{ID: "r2", Username: "bob", Score: 90, TotalQuestions: 10, CorrectAnswers: 9, CreatedAt: t2},
		{ID: "r1", Username: "alice", Score: 90, TotalQuestions: 10, CorrectAnswers: 9, CreatedAt: t1},
	}
}

func TestLeaderboardService_TopResults(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResultRepository)
	repo.On("TopResults", mock.Anything, 50).Return(rankedResults(), nil).Once()
	mr, c := newMiniredisCache(t)
	svc := NewLeaderboardService(repo, c, testLeaderboardConfig())

	entries, err := svc.TopResults(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"carol", "bob", "alice"}, []string{entries[0].Username, entries[1].Username, entries[2].Username})
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
	assert.True(t, mr.Exists(cache.LeaderboardKey(50)))

	// Served from the cached snapshot; the repository expectation is Once.
	top2, err := svc.TopResults(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, top2, 2)
	assert.Equal(t, "bob", top2[1].Username)
	repo.AssertExpectations(t)

	ttl := mr.TTL(cache.LeaderboardKey(50))
	assert.GreaterOrEqual(t, ttl, time.Minute)
	assert.LessOrEqual(t, ttl, time.Minute+6*time.Second)
}

func TestLeaderboardService_Limits(t *testing.T) {
	repo := new(MockResultRepository)
	svc := NewLeaderboardService(repo, nil, testLeaderboardConfig())

	_, err := svc.TopResults(context.Background(), 51)
	assert.True(t, domain.HasCode(err, domain.CodeInvalidInput))
	repo.AssertNotCalled(t, "TopResults", mock.Anything, mock.Anything)
}

func TestLeaderboardService_EmptyAndErrors(t *testing.T) {
	repo := new(MockResultRepository)
	repo.On("TopResults", mock.Anything, 50).Return([]*domain.Result{}, nil).Once()
	svc := NewLeaderboardService(repo, nil, testLeaderboardConfig())

	entries, err := svc.TopResults(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	repo.On("TopResults", mock.Anything, 50).Return(nil, errors.New("db down")).Once()
	_, err = svc.TopResults(context.Background(), 5)
	assert.True(t, domain.HasCode(err, domain.CodeInternal))
}

func TestLeaderboardService_Invalidate(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResultRepository)
	repo.On("TopResults", mock.Anything, 50).Return(rankedResults(), nil).Twice()
	mr, c := newMiniredisCache(t)
	svc := NewLeaderboardService(repo, c, testLeaderboardConfig())

	_, err := svc.TopResults(ctx, 3)
	require.NoError(t, err)
	svc.Invalidate(ctx)
	assert.False(t, mr.Exists(cache.LeaderboardKey(50)))

	_, err = svc.TopResults(ctx, 3)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "TopResults", 2)
}

func TestLeaderboardService_CorruptSnapshotIsRebuilt(t *testing.T) {
	repo := new(MockResultRepository)
	repo.On("TopResults", mock.Anything, 50).Return(rankedResults(), nil).Once()
	mr, c := newMiniredisCache(t)
	require.NoError(t, mr.Set(cache.LeaderboardKey(50), "{not json"))
	svc := NewLeaderboardService(repo, c, testLeaderboardConfig())

	entries, err := svc.TopResults(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestLeaderboardService_ConcurrentMissesShareOneQuery(t *testing.T) {
	repo := new(MockResultRepository)
	release := make(chan struct{})
	repo.On("TopResults", mock.Anything, 50).
		Run(func(mock.Arguments) { <-release }).
		Return(rankedResults(), nil)
	svc := NewLeaderboardService(repo, nil, testLeaderboardConfig())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entries, err := svc.TopResults(context.Background(), 3)
			assert.NoError(t, err)
			assert.Len(t, entries, 3)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	calls := 0
	for _, c := range repo.Calls {
		if c.Method == "TopResults" {
			calls++
		}
	}
	assert.Equal(t, 1, calls)
}

func TestLeaderboardService_InvalidateDuringFillDropsStaleSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResultRepository)
	inQuery := make(chan struct{})
	release := make(chan struct{})
	repo.On("TopResults", mock.Anything, 50).
		Run(func(mock.Arguments) {
			close(inQuery)
			<-release
		}).
		Return([]*domain.Result{}, nil).Once()
	fresh := []*domain.Result{{ID: "r1", Username: "alice", Score: 60, TotalQuestions: 5, CorrectAnswers: 3, CreatedAt: time.Now()}}
	repo.On("TopResults", mock.Anything, 50).Return(fresh, nil).Once()
	mr, c := newMiniredisCache(t)
	svc := NewLeaderboardService(repo, c, testLeaderboardConfig())

	done := make(chan []domain.LeaderboardEntry)
	go func() {
		entries, err := svc.TopResults(ctx, 10)
		assert.NoError(t, err)
		done <- entries
	}()

	<-inQuery
	// A result is stored while the fill still holds the older rows.
	svc.Invalidate(ctx)
	close(release)
	assert.Empty(t, <-done)
	assert.False(t, mr.Exists(cache.LeaderboardKey(50)))

	entries, err := svc.TopResults(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].Username)
	repo.AssertExpectations(t)
}

func TestLeaderboardService_ZeroTTLDisablesCache(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResultRepository)
	repo.On("TopResults", mock.Anything, 50).Return(rankedResults(), nil).Twice()
	mr, c := newMiniredisCache(t)
	cfg := testLeaderboardConfig()
	cfg.CacheTTL = 0
	svc := NewLeaderboardService(repo, c, cfg)

	_, err := svc.TopResults(ctx, 3)
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.LeaderboardKey(50)))

	_, err = svc.TopResults(ctx, 3)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "TopResults", 2)
}
