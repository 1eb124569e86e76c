package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/levelrow/typeinfer/internal/builtins"
	"github.com/levelrow/typeinfer/internal/ir"
	"github.com/levelrow/typeinfer/internal/types"
)

func TestParseSimpleFunctionSignature(t *testing.T) {
	ty, err := parseSimpleFunctionSignature("Int -> Int -> Bool")
	require.NoError(t, err)
	require.Equal(t, "(Int -> (Int -> Bool))", types.String(ty))
}

func TestParseSimpleFunctionSignatureRejectsUnknownPrimitive(t *testing.T) {
	_, err := parseSimpleFunctionSignature("Int -> Widget")
	require.Error(t, err)
}

func TestMergeBuiltinsLeavesDefaultUntouched(t *testing.T) {
	before := len(builtins.Default)
	merged := mergeBuiltins(builtins.Default, map[string]string{"double": "Int -> Int"})

	require.Len(t, builtins.Default, before)
	require.Len(t, merged, before+1)
	require.Contains(t, merged, ir.BuiltinTag("double"))
}
