package unify

import (
	"github.com/levelrow/typeinfer/internal/diagnostics"
	"github.com/levelrow/typeinfer/internal/types"
)

// occursAdjustLevels walks t looking for the cell v. Every other
// Unbound cell encountered along the way has its level lowered to
// min(its level, level) — this is what preserves the generalization
// invariant once v := Link(t) is written: every variable reachable
// from v must have a level no higher than v's own.
func occursAdjustLevels(v *types.Var, level types.Level, t types.Type, pos diagnostics.Pos) error {
	t = types.Prune(t)
	switch t := t.(type) {
	case types.TVar:
		return occursAdjustLevelsVar(v, level, t.Cell, pos)
	case types.TFun:
		if err := occursAdjustLevels(v, level, t.Dom, pos); err != nil {
			return err
		}
		return occursAdjustLevels(v, level, t.Codom, pos)
	case types.TList:
		return occursAdjustLevels(v, level, t.Elem, pos)
	case types.TRow:
		return occursAdjustLevelsRow(v, level, t.Row, pos)
	case types.TTable:
		return occursAdjustLevelsRow(v, level, t.Row, pos)
	default:
		// TPrim, TCap, TForall (opaque at this point), NamedDeBruijn.
		return nil
	}
}

func occursAdjustLevelsVar(v *types.Var, level types.Level, w *types.Var, pos diagnostics.Pos) error {
	if w == v {
		return diagnostics.Newf(diagnostics.KindOccursCheck, pos,
			"%s occurs in the type being unified against it", v.Name)
	}
	if w.State == types.Unbound && w.Level > level {
		w.Level = level
	}
	return nil
}

func occursAdjustLevelsRow(v *types.Var, level types.Level, r types.Row, pos diagnostics.Pos) error {
	r, err := types.PruneRow(r)
	if err != nil {
		return err
	}
	switch r := r.(type) {
	case types.REmpty:
		return nil
	case types.RVar:
		cell, ok := types.TailCell(r.Ref)
		if !ok {
			return nil
		}
		return occursAdjustLevelsVar(v, level, cell, pos)
	case types.RExtend:
		for _, label := range types.SortedLabels(r.Fields) {
			if err := occursAdjustLevels(v, level, r.Fields[label], pos); err != nil {
				return err
			}
		}
		if r.Tail != nil {
			// Through RVar so a linked tail is pruned and walked.
			return occursAdjustLevelsRow(v, level, types.RVar{Ref: r.Tail}, pos)
		}
		return nil
	default:
		return nil
	}
}
