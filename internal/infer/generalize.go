package infer

import (
	"github.com/levelrow/typeinfer/internal/ir"
	"github.com/levelrow/typeinfer/internal/types"
)

// Generalize closes over every type variable in ty that is strictly
// younger (has a higher level) than the current level, producing a
// Scheme and, if any variable was quantified, wrapping term in a
// TyAbs. Variables at or below the current level remain free — they
// escape into an outer scope and are not quantified here.
//
// Quantified variables are collected in first-occurrence order
// (left-to-right traversal of ty) with no duplicates, matching the
// determinism requirement on generalization's output order.
func Generalize(supply *types.Supply, ty types.Type, term ir.Term) (types.Scheme, ir.Term, error) {
	currentLevel := supply.CurrentLevel()
	var quantified []*types.Var
	seen := make(map[*types.Var]bool)

	var walkVar func(v *types.Var)
	walkVar = func(v *types.Var) {
		if seen[v] {
			return
		}
		if v.State != types.Unbound {
			return
		}
		if v.Level > currentLevel {
			seen[v] = true
			v.State = types.Bound
			quantified = append(quantified, v)
		}
	}

	var walk func(t types.Type) error
	walk = func(t types.Type) error {
		t = types.Prune(t)
		switch t := t.(type) {
		case types.TVar:
			walkVar(t.Cell)
			return nil
		case types.TFun:
			if err := walk(t.Dom); err != nil {
				return err
			}
			return walk(t.Codom)
		case types.TList:
			return walk(t.Elem)
		case types.TRow:
			return walkRow(t.Row, walkVar, walk)
		case types.TTable:
			return walkRow(t.Row, walkVar, walk)
		default:
			return nil
		}
	}

	if err := walk(ty); err != nil {
		return types.Scheme{}, term, err
	}

	if len(quantified) == 0 {
		return types.Monomorphic(ty), term, nil
	}
	scheme := types.Scheme{Vars: quantified, Body: ty}
	wrapped := ir.TyAbs{Vars: quantified, Body: term}
	return scheme, wrapped, nil
}

// walkRow visits a row's fields and tail, flattening a tail whose
// Link resolves to a ground row before continuing so quantification
// sees the row's full, merged field set (design note: flattening must
// not drop quantifier positions).
func walkRow(r types.Row, walkVar func(*types.Var), walk func(types.Type) error) error {
	r, err := types.PruneRow(r)
	if err != nil {
		return err
	}
	switch r := r.(type) {
	case types.REmpty:
		return nil
	case types.RVar:
		if cell, ok := types.TailCell(r.Ref); ok {
			walkVar(cell)
		}
		return nil
	case types.RExtend:
		flat, err := types.Flatten(r)
		if err != nil {
			return err
		}
		ext := flat.(types.RExtend)
		for _, label := range types.SortedLabels(ext.Fields) {
			if err := walk(ext.Fields[label]); err != nil {
				return err
			}
		}
		if ext.Tail != nil {
			if cell, ok := types.TailCell(ext.Tail); ok {
				walkVar(cell)
			}
		}
		return nil
	default:
		return nil
	}
}
