package debruijn

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/levelrow/typeinfer/internal/diagnostics"
	"github.com/levelrow/typeinfer/internal/ir"
	"github.com/levelrow/typeinfer/internal/types"
)

func TestCloseMonomorphicSchemeYieldsBareType(t *testing.T) {
	scheme := types.Monomorphic(types.TPrim{Kind: types.Int})
	closedTy, _, err := Close(scheme, ir.Constant{Kind: ir.LitInt})
	require.NoError(t, err)
	require.Equal(t, types.TPrim{Kind: types.Int}, closedTy)
}

func TestCloseAssignsConsecutiveIndicesInQuantifierOrder(t *testing.T) {
	s := types.NewSupply(0)
	a := s.Fresh()
	b := s.Fresh()
	a.State = types.Bound
	b.State = types.Bound
	scheme := types.Scheme{
		Vars: []*types.Var{a, b},
		Body: types.TFun{Dom: types.TVar{Cell: a}, Codom: types.TVar{Cell: b}},
	}
	term := ir.TyAbs{Vars: []*types.Var{a, b}, Body: ir.Var{}}

	closedTy, _, err := Close(scheme, term)
	require.NoError(t, err)

	forall := closedTy.(types.TForall)
	require.Len(t, forall.Vars, 2)
	fn := forall.Body.(types.TFun)
	require.Equal(t, types.NamedDeBruijn{Index: 1, DisplayName: a.Name}, fn.Dom)
	require.Equal(t, types.NamedDeBruijn{Index: 0, DisplayName: b.Name}, fn.Codom)
}

func TestCloseTermAndSchemeAgreeOnIndices(t *testing.T) {
	s := types.NewSupply(0)
	a := s.Fresh()
	a.State = types.Bound
	scheme := types.Scheme{Vars: []*types.Var{a}, Body: types.TFun{Dom: types.TVar{Cell: a}, Codom: types.TVar{Cell: a}}}
	term := ir.TyAbs{
		Vars: []*types.Var{a},
		Body: ir.Lam{Params: []ir.Param{{Name: "x", Type: types.TVar{Cell: a}}}, Body: ir.Var{Local: true, Index: 0}},
	}

	closedTy, closedTerm, err := Close(scheme, term)
	require.NoError(t, err)

	forall := closedTy.(types.TForall)
	paramTy := forall.Body.(types.TFun).Dom

	abs := closedTerm.(ir.TyAbs)
	lam := abs.Body.(ir.Lam)
	require.Equal(t, paramTy, lam.Params[0].Type, "the same cell must close to the same index in both the scheme and the term")
}

func TestCloseFailsOnEscapedUnboundVariable(t *testing.T) {
	s := types.NewSupply(0)
	free := s.Fresh() // never quantified, never listed in scheme.Vars
	scheme := types.Scheme{Body: types.TVar{Cell: free}}

	_, _, err := Close(scheme, ir.Var{})
	require.Error(t, err)
	de, ok := err.(*diagnostics.Error)
	require.True(t, ok)
	require.Equal(t, diagnostics.KindEscapedVariable, de.Kind)
}

func TestCloseRejectsNestedForall(t *testing.T) {
	nested := types.TForall{Vars: []types.ForallVar{{Name: "a"}}, Body: types.NamedDeBruijn{Index: 0}}
	scheme := types.Monomorphic(types.TList{Elem: nested})

	_, _, err := Close(scheme, ir.Var{})
	require.Error(t, err)
	de, ok := err.(*diagnostics.Error)
	require.True(t, ok)
	require.Equal(t, diagnostics.KindImpredicative, de.Kind)
}

func TestCloseRowTailClosesToBareNamedDeBruijn(t *testing.T) {
	s := types.NewSupply(0)
	rho := s.FreshRow()
	rho.State = types.Bound
	scheme := types.Scheme{
		Vars: []*types.Var{rho},
		Body: types.TRow{Row: types.RExtend{Fields: map[string]types.Type{"name": types.TPrim{Kind: types.String}}, Tail: types.TVar{Cell: rho}}},
	}

	closedTy, _, err := Close(scheme, ir.Var{})
	require.NoError(t, err)

	forall := closedTy.(types.TForall)
	row := forall.Body.(types.TRow).Row.(types.RExtend)
	require.Equal(t, types.NamedDeBruijn{Index: 0, DisplayName: rho.Name}, row.Tail)
}
