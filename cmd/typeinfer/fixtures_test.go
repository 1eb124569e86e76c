package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/levelrow/typeinfer/internal/builtins"
	"github.com/levelrow/typeinfer/internal/infer"
	"github.com/levelrow/typeinfer/internal/types"
)

func TestFixturesAllRunWithoutPanicking(t *testing.T) {
	fs := fixtures()
	require.Len(t, fs, 6)

	for _, f := range fs {
		supply := types.NewSupply(0)
		_, _, err := infer.Run(supply, builtins.Default, f.term)
		if f.name == "occurs-check-failure" {
			require.Error(t, err, f.name)
			continue
		}
		require.NoError(t, err, f.name)
	}
}
