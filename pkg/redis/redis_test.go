package redis_test

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/redis"
)

func TestConfig_Env(t *testing.T) {
	t.Run("connection URL is required", func(t *testing.T) {
		var cfg redis.Config
		err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}})
		assert.Error(t, err)
	})

	t.Run("parses with defaults for the rest", func(t *testing.T) {
		var cfg redis.Config
		require.NoError(t, env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{
			"REDIS_URL": "redis://localhost:6379/0",
		}}))
		assert.Equal(t, "redis://localhost:6379/0", cfg.ConnectionURL)
		assert.Equal(t, 3, cfg.RetryAttempts)
		assert.Equal(t, 5*time.Second, cfg.RetryInterval)
		assert.Equal(t, 30*time.Second, cfg.ConnectTimeout)
	})
}
