package runcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupMissThenStoreThenHit(t *testing.T) {
	c, err := Open(":memory:")
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	key := Key("v1", []byte(`{"kind":"var"}`))

	_, ok, err := c.Lookup(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Store(ctx, key, Entry{Scheme: "Int", Elaborated: `{"kind":"constant"}`}))

	entry, ok, err := c.Lookup(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Int", entry.Scheme)

	entries, hits, err := c.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), entries)
	require.Equal(t, int64(1), hits)
}

func TestKeyChangesWithBuiltinsVersionOrTerm(t *testing.T) {
	term := []byte(`{"kind":"var"}`)

	k1 := Key("v1", term)
	k2 := Key("v2", term)
	k3 := Key("v1", []byte(`{"kind":"app"}`))

	require.NotEqual(t, k1, k2)
	require.NotEqual(t, k1, k3)
}
