package infer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/levelrow/typeinfer/internal/ir"
	"github.com/levelrow/typeinfer/internal/types"
)

func TestGeneralizeQuantifiesYoungerVariables(t *testing.T) {
	s := types.NewSupply(0)
	s.EnterLevel() // enter the let right-hand side's level
	a := s.Fresh()  // born at the higher level; should be quantified
	s.LeaveLevel()

	ty := types.TFun{Dom: types.TVar{Cell: a}, Codom: types.TVar{Cell: a}}
	scheme, _, err := Generalize(s, ty, ir.Var{})
	require.NoError(t, err)
	require.Len(t, scheme.Vars, 1)
	require.Same(t, a, scheme.Vars[0])
	require.Equal(t, types.Bound, a.State)
}

func TestGeneralizeLeavesOlderVariablesFree(t *testing.T) {
	s := types.NewSupply(0)
	outer := s.Fresh() // born at the current (outer) level

	ty := types.TVar{Cell: outer}
	scheme, _, err := Generalize(s, ty, ir.Var{})
	require.NoError(t, err)
	require.Empty(t, scheme.Vars)
	require.Equal(t, types.Unbound, outer.State)
}

func TestGeneralizeWrapsTermInTyAbsOnlyWhenQuantifying(t *testing.T) {
	s := types.NewSupply(0)
	s.EnterLevel()
	a := s.Fresh()
	s.LeaveLevel()

	term := ir.Var{Name: "x"}
	_, wrapped, err := Generalize(s, types.TVar{Cell: a}, term)
	require.NoError(t, err)
	abs, ok := wrapped.(ir.TyAbs)
	require.True(t, ok)
	require.Equal(t, []*types.Var{a}, abs.Vars)
	require.Equal(t, term, abs.Body)

	outer := s.Fresh()
	_, unwrapped, err := Generalize(s, types.TVar{Cell: outer}, term)
	require.NoError(t, err)
	require.Equal(t, term, unwrapped)
}

func TestGeneralizeFlattensGroundRowTailBeforeQuantifying(t *testing.T) {
	s := types.NewSupply(0)
	s.EnterLevel()
	tail := s.FreshRow()
	age := s.Fresh()
	s.LeaveLevel()

	// Link the tail to a ground extension before generalizing, so
	// quantification must see age through the flattened row.
	tail.State = types.Link
	tail.Link = types.TRow{Row: types.RExtend{Fields: map[string]types.Type{"age": types.TVar{Cell: age}}}}

	row := types.TRow{Row: types.RExtend{Fields: map[string]types.Type{"name": types.TPrim{Kind: types.String}}, Tail: types.TVar{Cell: tail}}}
	scheme, _, err := Generalize(s, row, ir.Var{})
	require.NoError(t, err)
	require.Len(t, scheme.Vars, 1)
	require.Same(t, age, scheme.Vars[0])
}

func TestGeneralizePreservesFirstOccurrenceOrderWithoutDuplicates(t *testing.T) {
	s := types.NewSupply(0)
	s.EnterLevel()
	a := s.Fresh()
	b := s.Fresh()
	s.LeaveLevel()

	// a -> (a -> b): a occurs twice but must appear once, before b.
	ty := types.TFun{Dom: types.TVar{Cell: a}, Codom: types.TFun{Dom: types.TVar{Cell: a}, Codom: types.TVar{Cell: b}}}
	scheme, _, err := Generalize(s, ty, ir.Var{})
	require.NoError(t, err)
	require.Equal(t, []*types.Var{a, b}, scheme.Vars)
}
