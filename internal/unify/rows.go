package unify

import (
	"github.com/levelrow/typeinfer/internal/diagnostics"
	"github.com/levelrow/typeinfer/internal/types"
)

// UnifyRow implements the row-unification case table: variable vs.
// anything, empty vs. empty, closed vs. closed, open vs. closed (both
// orientations), and open vs. open. Field-intersection unification
// iterates in field-name order for deterministic error reporting only
// — it has no bearing on the semantics of the result.
func UnifyRow(supply *types.Supply, r1, r2 types.Row, pos diagnostics.Pos) error {
	r1, err := types.PruneRow(r1)
	if err != nil {
		return err
	}
	r2, err = types.PruneRow(r2)
	if err != nil {
		return err
	}
	// Resolve linked RExtend tails so every tail below is a live cell.
	r1, err = types.Flatten(r1)
	if err != nil {
		return err
	}
	r2, err = types.Flatten(r2)
	if err != nil {
		return err
	}

	if v1, ok := r1.(types.RVar); ok {
		return unifyRowVar(supply, v1, r2, pos)
	}
	if v2, ok := r2.(types.RVar); ok {
		return unifyRowVar(supply, v2, r1, pos)
	}

	_, e1 := r1.(types.REmpty)
	_, e2 := r2.(types.REmpty)
	switch {
	case e1 && e2:
		return nil

	case e1:
		ext := r2.(types.RExtend)
		return unifyOpenAgainstEmpty(supply, ext, pos)

	case e2:
		ext := r1.(types.RExtend)
		return unifyOpenAgainstEmpty(supply, ext, pos)
	}

	l := r1.(types.RExtend)
	r := r2.(types.RExtend)

	switch {
	case l.Tail == nil && r.Tail == nil:
		return unifyClosedClosed(supply, l, r, pos)
	case l.Tail != nil && r.Tail == nil:
		return unifyOpenClosed(supply, l, r, pos)
	case l.Tail == nil && r.Tail != nil:
		return unifyOpenClosed(supply, r, l, pos)
	default:
		return unifyOpenOpen(supply, l, r, pos)
	}
}

// unifyRowVar resolves an unconstrained row variable v against the
// (already-pruned) row other.
func unifyRowVar(supply *types.Supply, v types.RVar, other types.Row, pos diagnostics.Pos) error {
	cell, ok := types.TailCell(v.Ref)
	if !ok {
		return diagnostics.Newf(diagnostics.KindRowLink, pos, "row variable has no live cell to unify")
	}
	return unifyVar(supply, cell, types.WrapRow(other), pos)
}

// unifyTail resolves an open row's tail cell against a replacement row.
func unifyTail(supply *types.Supply, tail types.Type, replacement types.Row, pos diagnostics.Pos) error {
	cell, ok := types.TailCell(tail)
	if !ok {
		return diagnostics.Newf(diagnostics.KindRowLink, pos, "row tail has no live cell to unify")
	}
	return unifyVar(supply, cell, types.WrapRow(replacement), pos)
}

// unifyOpenAgainstEmpty handles RowTy(_, tail) vs EmptyRow (in either
// orientation, the caller passes the RExtend side as ext): any fields
// known on that side must in fact be empty, or this is a mismatch; an
// open tail then unifies with the empty row, and a closed ext with no
// fields already equals it.
func unifyOpenAgainstEmpty(supply *types.Supply, ext types.RExtend, pos diagnostics.Pos) error {
	if len(ext.Fields) != 0 {
		return diagnostics.Newf(diagnostics.KindUnifyMismatch, pos,
			"row with fields {%s} cannot unify with the empty row", joinLabels(ext.Fields))
	}
	if ext.Tail == nil {
		return nil
	}
	return unifyTail(supply, ext.Tail, types.REmpty{}, pos)
}

func unifyClosedClosed(supply *types.Supply, l, r types.RExtend, pos diagnostics.Pos) error {
	if len(l.Fields) != len(r.Fields) {
		return rowKeyMismatch(pos, l, r)
	}
	for label, lt := range l.Fields {
		rt, ok := r.Fields[label]
		if !ok {
			return rowKeyMismatch(pos, l, r)
		}
		if err := Unify(supply, lt, rt, pos); err != nil {
			return err
		}
	}
	return nil
}

// unifyOpenClosed handles RowTy(L, Some(vl)) vs RowTy(R, None): L's
// keys must be a subset of R's; the intersection unifies pairwise and
// the remainder R\L is pushed through vl.
func unifyOpenClosed(supply *types.Supply, open, closed types.RExtend, pos diagnostics.Pos) error {
	remainder := make(map[string]types.Type, len(closed.Fields))
	for label, rt := range closed.Fields {
		remainder[label] = rt
	}
	for _, label := range types.SortedLabels(open.Fields) {
		rt, ok := closed.Fields[label]
		if !ok {
			return diagnostics.Newf(diagnostics.KindUnifyMismatch, pos,
				"open row field %q is not present in closed row {%s}", label, joinLabels(closed.Fields))
		}
		if err := Unify(supply, open.Fields[label], rt, pos); err != nil {
			return err
		}
		delete(remainder, label)
	}
	return unifyTail(supply, open.Tail, types.RExtend{Fields: remainder}, pos)
}

// unifyOpenOpen handles RowTy(L, Some(vl)) vs RowTy(R, Some(vr)): the
// intersection unifies pairwise, and two independent fresh tails are
// allocated — one per side — rather than sharing a single fresh tail.
// Either formulation is sound; this one is used here (see the open
// question recorded in the design notes).
func unifyOpenOpen(supply *types.Supply, l, r types.RExtend, pos diagnostics.Pos) error {
	onlyL := make(map[string]types.Type)
	onlyR := make(map[string]types.Type)
	for label, lt := range l.Fields {
		if rt, ok := r.Fields[label]; ok {
			if err := Unify(supply, lt, rt, pos); err != nil {
				return err
			}
		} else {
			onlyL[label] = lt
		}
	}
	for label, rt := range r.Fields {
		if _, ok := l.Fields[label]; !ok {
			onlyR[label] = rt
		}
	}

	freshForR := types.TVar{Cell: supply.FreshRow()} // r' : completes L's tail with R's extra fields
	freshForL := types.TVar{Cell: supply.FreshRow()} // l' : completes R's tail with L's extra fields

	if err := unifyTail(supply, l.Tail, types.RExtend{Fields: onlyR, Tail: freshForR}, pos); err != nil {
		return err
	}
	return unifyTail(supply, r.Tail, types.RExtend{Fields: onlyL, Tail: freshForL}, pos)
}

func rowKeyMismatch(pos diagnostics.Pos, l, r types.RExtend) error {
	return diagnostics.Newf(diagnostics.KindUnifyMismatch, pos,
		"closed row field sets disagree: {%s} vs {%s}", joinLabels(l.Fields), joinLabels(r.Fields))
}

func joinLabels(fields map[string]types.Type) string {
	labels := types.SortedLabels(fields)
	s := ""
	for i, l := range labels {
		if i > 0 {
			s += ", "
		}
		s += l
	}
	return s
}
