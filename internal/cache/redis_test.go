package cache

import (
	"testing"

	"quiz-arena/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	t.Run("empty address", func(t *testing.T) {
		client, err := NewRedisClient(config.RedisConfig{})
		assert.Error(t, err)
		assert.Nil(t, client)
	})

	t.Run("reachable server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client, err := NewRedisClient(config.RedisConfig{Address: mr.Addr()})
		require.NoError(t, err)
		defer client.Close()
	})

	t.Run("unreachable server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()
		_, err := NewRedisClient(config.RedisConfig{Address: addr})
		assert.Error(t, err)
	})
}
