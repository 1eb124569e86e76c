// Package unify implements structural unification of types and rows,
// including the occurs check with level lowering that makes level-
// based (Remy-/OCaml-style) generalization sound.
package unify

import (
	"github.com/levelrow/typeinfer/internal/diagnostics"
	"github.com/levelrow/typeinfer/internal/types"
)

// Unify makes t1 and t2 structurally equal by writing through unbound
// type-variable cells, or fails with KindUnifyMismatch (or
// KindOccursCheck / KindRowLink for the cases that detect those
// deeper). pos is attached to any error raised; callers hold the IR
// position of the construct being checked.
func Unify(supply *types.Supply, t1, t2 types.Type, pos diagnostics.Pos) error {
	t1 = types.Prune(t1)
	t2 = types.Prune(t2)

	if v1, ok := t1.(types.TVar); ok {
		return unifyVar(supply, v1.Cell, t2, pos)
	}
	if v2, ok := t2.(types.TVar); ok {
		return unifyVar(supply, v2.Cell, t1, pos)
	}

	switch a := t1.(type) {
	case types.TPrim:
		b, ok := t2.(types.TPrim)
		if !ok || a.Kind != b.Kind {
			return mismatch(pos, t1, t2)
		}
		return nil

	case types.TFun:
		b, ok := t2.(types.TFun)
		if !ok {
			return mismatch(pos, t1, t2)
		}
		if err := Unify(supply, a.Dom, b.Dom, pos); err != nil {
			return err
		}
		return Unify(supply, a.Codom, b.Codom, pos)

	case types.TList:
		b, ok := t2.(types.TList)
		if !ok {
			return mismatch(pos, t1, t2)
		}
		return Unify(supply, a.Elem, b.Elem, pos)

	case types.TRow:
		b, ok := t2.(types.TRow)
		if !ok {
			return mismatch(pos, t1, t2)
		}
		return UnifyRow(supply, a.Row, b.Row, pos)

	case types.TTable:
		b, ok := t2.(types.TTable)
		if !ok {
			return mismatch(pos, t1, t2)
		}
		return UnifyRow(supply, a.Row, b.Row, pos)

	case types.TCap:
		if _, ok := t2.(types.TCap); !ok {
			return mismatch(pos, t1, t2)
		}
		return nil

	default:
		return mismatch(pos, t1, t2)
	}
}

// unifyVar resolves v against t. v has already been pruned by the
// caller (row tails via types.Flatten in UnifyRow), so its state is
// either Unbound or Bound (never Link).
func unifyVar(supply *types.Supply, v *types.Var, t types.Type, pos diagnostics.Pos) error {
	switch v.State {
	case types.Bound:
		// A previously-generalized variable re-encountered during
		// elaboration is treated as opaque; in practice this arises
		// only via instantiation, after which the variable is a fresh
		// Unbound cell, so this path is rarely exercised directly.
		return nil
	case types.Unbound:
		if tv, ok := t.(types.TVar); ok && tv.Cell == v {
			return nil
		}
		if err := occursAdjustLevels(v, v.Level, t, pos); err != nil {
			return err
		}
		v.State = types.Link
		v.Link = t
		return nil
	default:
		return mismatch(pos, types.TVar{Cell: v}, t)
	}
}

func mismatch(pos diagnostics.Pos, t1, t2 types.Type) error {
	return diagnostics.Newf(diagnostics.KindUnifyMismatch, pos,
		"cannot unify %s with %s", types.String(t1), types.String(t2))
}
