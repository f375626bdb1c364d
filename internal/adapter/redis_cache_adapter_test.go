package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-arena/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisCacheAdapter_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()
	key := "quizarena:leaderboard:top:10"

	t.Run("Success", func(t *testing.T) {
		mock.ExpectGet(key).SetVal(`[]`)
		val, err := adapter.Get(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, `[]`, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CacheMiss", func(t *testing.T) {
		mock.ExpectGet(key).RedisNil()
		val, err := adapter.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("connection reset")
		mock.ExpectGet(key).SetErr(redisErr)
		_, err := adapter.Get(ctx, key)
		assert.ErrorIs(t, err, redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_SetAndDelete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()
	key := "quizarena:leaderboard:top:10"

	mock.ExpectSet(key, "v", 30*time.Second).SetVal("OK")
	assert.NoError(t, adapter.Set(ctx, key, "v", 30*time.Second))

	mock.ExpectDel(key).SetVal(0)
	assert.NoError(t, adapter.Delete(ctx, key), "deleting a missing key is not an error")

	redisErr := errors.New("readonly")
	mock.ExpectDel(key).SetErr(redisErr)
	assert.ErrorIs(t, adapter.Delete(ctx, key), redisErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, adapter.Ping(ctx))

	redisErr := errors.New("down")
	mock.ExpectPing().SetErr(redisErr)
	assert.ErrorIs(t, adapter.Ping(ctx), redisErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Hash(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()
	key := "quizarena:results:pending:all"

	t.Run("HSet", func(t *testing.T) {
		mock.ExpectHSet(key, "r1", "{}").SetVal(1)
		assert.NoError(t, adapter.HSet(ctx, key, "r1", "{}"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("HGetAll existing", func(t *testing.T) {
		mock.ExpectHGetAll(key).SetVal(map[string]string{"r1": "{}"})
		val, err := adapter.HGetAll(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, map[string]string{"r1": "{}"}, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("HGetAll missing hash", func(t *testing.T) {
		mock.ExpectHGetAll(key).SetVal(map[string]string{})
		val, err := adapter.HGetAll(ctx, key)
		assert.NoError(t, err)
		assert.NotNil(t, val)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("HDel", func(t *testing.T) {
		mock.ExpectHDel(key, "r1", "r2").SetVal(2)
		assert.NoError(t, adapter.HDel(ctx, key, "r1", "r2"))
		assert.NoError(t, adapter.HDel(ctx, key), "no fields is a no-op")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Expire", func(t *testing.T) {
		mock.ExpectExpire(key, time.Hour).SetVal(true)
		assert.NoError(t, adapter.Expire(ctx, key, time.Hour))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
