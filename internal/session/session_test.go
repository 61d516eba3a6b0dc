package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Revoke(ctx, "tok-1", time.Hour))
	require.NoError(t, s.Revoke(ctx, "tok-2", 0))

	revoked, err := s.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = s.IsRevoked(ctx, "tok-2")
	assert.False(t, revoked, "expired tokens need no entry")

	now = now.Add(2 * time.Hour)
	revoked, _ = s.IsRevoked(ctx, "tok-1")
	assert.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, "tok-3", time.Minute))
	assert.NotContains(t, s.revoked, "tok-1")
}
