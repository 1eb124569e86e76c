package infer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/levelrow/typeinfer/internal/types"
)

func TestEnvLookupInnermostIsIndexZero(t *testing.T) {
	env := NewEnv()
	outer := types.Monomorphic(types.TPrim{Kind: types.Int})
	inner := types.Monomorphic(types.TPrim{Kind: types.Bool})
	env.Push(outer)
	env.Push(inner)

	got, ok := env.Lookup(0)
	require.True(t, ok)
	require.Equal(t, inner, got)

	got, ok = env.Lookup(1)
	require.True(t, ok)
	require.Equal(t, outer, got)
}

func TestEnvLookupOutOfRangeFails(t *testing.T) {
	env := NewEnv()
	env.Push(types.Monomorphic(types.TPrim{Kind: types.Int}))

	_, ok := env.Lookup(1)
	require.False(t, ok)

	_, ok = env.Lookup(-1)
	require.False(t, ok)
}

func TestEnvPopUnwindsBindings(t *testing.T) {
	env := NewEnv()
	env.Push(types.Monomorphic(types.TPrim{Kind: types.Int}))
	env.Push(types.Monomorphic(types.TPrim{Kind: types.Bool}))
	env.Pop()

	_, ok := env.Lookup(1)
	require.False(t, ok)

	got, ok := env.Lookup(0)
	require.True(t, ok)
	require.Equal(t, types.TPrim{Kind: types.Int}, got.Body)
}
