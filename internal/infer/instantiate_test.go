package infer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/levelrow/typeinfer/internal/diagnostics"
	"github.com/levelrow/typeinfer/internal/types"
)

func TestInstantiateMonomorphicReturnsBodyUnchanged(t *testing.T) {
	s := types.NewSupply(0)
	scheme := types.Monomorphic(types.TPrim{Kind: types.Int})

	body, args := Instantiate(s, scheme)
	require.Equal(t, types.TPrim{Kind: types.Int}, body)
	require.Empty(t, args)
}

func TestInstantiateFreshCopiesEachUse(t *testing.T) {
	// id : forall a. a -> a
	s := types.NewSupply(0)
	a := s.Fresh()
	a.State = types.Bound
	scheme := types.Scheme{Vars: []*types.Var{a}, Body: types.TFun{Dom: types.TVar{Cell: a}, Codom: types.TVar{Cell: a}}}

	body1, args1 := Instantiate(s, scheme)
	body2, args2 := Instantiate(s, scheme)

	require.Len(t, args1, 1)
	require.Len(t, args2, 1)

	fn1 := body1.(types.TFun)
	fn2 := body2.(types.TFun)
	dom1 := fn1.Dom.(types.TVar).Cell
	dom2 := fn2.Dom.(types.TVar).Cell
	require.NotSame(t, dom1, dom2, "each instantiation must allocate its own fresh cell")
	require.Same(t, dom1, fn1.Codom.(types.TVar).Cell, "both occurrences within one instantiation share the same fresh cell")
}

func TestInstantiateImportedMonomorphicPassesThrough(t *testing.T) {
	s := types.NewSupply(0)
	body, args, err := InstantiateImported(s, types.TPrim{Kind: types.Bool})
	require.NoError(t, err)
	require.Equal(t, types.TPrim{Kind: types.Bool}, body)
	require.Empty(t, args)
}

func TestInstantiateImportedSubstitutesNamedDeBruijn(t *testing.T) {
	// map : forall a b. (a -> b) -> [a] -> [b]
	s := types.NewSupply(0)
	a := types.NamedDeBruijn{Index: 0, DisplayName: "a"}
	b := types.NamedDeBruijn{Index: 1, DisplayName: "b"}
	sig := types.TForall{
		Vars: []types.ForallVar{{Name: "a"}, {Name: "b"}},
		Body: types.Fun([]types.Type{types.Fun([]types.Type{a}, b), types.TList{Elem: a}}, types.TList{Elem: b}),
	}

	body, args, err := InstantiateImported(s, sig)
	require.NoError(t, err)
	require.Len(t, args, 2)

	outer := body.(types.TFun)
	inner := outer.Dom.(types.TFun)
	require.IsType(t, types.TVar{}, inner.Dom)
	require.IsType(t, types.TVar{}, inner.Codom)
}

func TestInstantiateImportedRowTailUsesBareVar(t *testing.T) {
	// forall a rho. {name: a | rho} -> a
	s := types.NewSupply(0)
	a := types.NamedDeBruijn{Index: 0, DisplayName: "a"}
	rho := types.NamedDeBruijn{Index: 1, DisplayName: "rho"}
	sig := types.TForall{
		Vars: []types.ForallVar{{Name: "a"}, {Name: "rho", IsRow: true}},
		Body: types.Fun([]types.Type{
			types.TRow{Row: types.RExtend{Fields: map[string]types.Type{"name": a}, Tail: rho}},
		}, a),
	}

	body, args, err := InstantiateImported(s, sig)
	require.NoError(t, err)
	require.Len(t, args, 2)

	fn := body.(types.TFun)
	row := fn.Dom.(types.TRow).Row.(types.RExtend)
	_, ok := row.Tail.(types.TVar)
	require.True(t, ok, "row tail must substitute to a bare TVar, not a TRow-wrapped witness")
}

func TestInstantiateImportedRejectsNestedForall(t *testing.T) {
	s := types.NewSupply(0)
	nested := types.TForall{Vars: []types.ForallVar{{Name: "a"}}, Body: types.NamedDeBruijn{Index: 0}}
	sig := types.TList{Elem: nested}

	_, _, err := InstantiateImported(s, sig)
	require.Error(t, err)
	de, ok := err.(*diagnostics.Error)
	require.True(t, ok)
	require.Equal(t, diagnostics.KindImpredicative, de.Kind)
}
