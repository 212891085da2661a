package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIsStable(t *testing.T) {
	a := Key("get", "https://api.jikan.moe/v4/anime?q=frieren", nil)
	b := Key("GET", " https://api.jikan.moe/v4/anime?q=frieren ", nil)
	assert.Equal(t, a, b)
	assert.Contains(t, a, keyVersion)

	c := Key("POST", "https://graphql.anilist.co", []byte(`{"query":"a"}`))
	d := Key("POST", "https://graphql.anilist.co", []byte(`{"query":"b"}`))
	assert.NotEqual(t, c, d)
}

func TestPutGetExpire(t *testing.T) {
	ctx := context.Background()
	c, err := Open(filepath.Join(t.TempDir(), "nested", FileName), time.Hour, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "k", []byte("first")))
	require.NoError(t, c.Put(ctx, "k", []byte("second")))

	body, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", string(body))

	now = now.Add(2 * time.Hour)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	removed, err := c.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestOpenDefaultsTTL(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), FileName), 0, nil)
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, DefaultTTL, c.ttl)
}
