package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutURL(t *testing.T) {
	client, err := New(t.Context(), "")
	require.NoError(t, err)
	assert.Nil(t, client, "empty URL means caching is not configured")
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(t.Context(), "not-a-redis-url")
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := New(t.Context(), "redis://"+mr.Addr())
	require.NoError(t, err)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Health(t.Context()))

	mr.Close()
	assert.Error(t, client.Health(t.Context()), "a dead backend reads as unhealthy")
}
