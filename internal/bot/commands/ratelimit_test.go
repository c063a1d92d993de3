package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUserLimiter(t *testing.T) {
	t.Parallel()

	limiter := newUserLimiter(RateLimit{Requests: 1, Window: time.Hour, Burst: 2})

	t.Run("burst then refusal", func(t *testing.T) {
		require.True(t, limiter.allow("m1"))
		require.True(t, limiter.allow("m1"))
		require.False(t, limiter.allow("m1"))
	})

	t.Run("members are limited independently", func(t *testing.T) {
		require.True(t, limiter.allow("m2"))
	})

	t.Run("empty keys are never limited", func(t *testing.T) {
		require.True(t, limiter.allow(""))
		require.True(t, limiter.allow(""))
		require.True(t, limiter.allow(""))
	})
}
