package types

import "github.com/levelrow/typeinfer/internal/diagnostics"

// Prune follows a chain of Link cells transparently and returns the
// first non-Link type reached, compressing the path as it goes (each
// visited TVar's cell is rewritten to link directly to the final
// type). Tests must cover the Link→Link→…→Unbound chain explicitly.
func Prune(t Type) Type {
	v, ok := t.(TVar)
	if !ok || v.Cell.State != Link {
		return t
	}
	final := Prune(v.Cell.Link)
	v.Cell.Link = final
	return final
}

// PruneRow resolves r to its terminal row shape, following any
// RVar→Link chain (via Prune on the underlying cell reference) and
// unwrapping TRow/TTable link targets back into a Row. If the chain
// terminates in a non-row Type, that is a RowLink sanity error: a row
// variable was linked to something that is not a row.
func PruneRow(r Row) (Row, error) {
	v, ok := r.(RVar)
	if !ok {
		return r, nil
	}
	pruned := Prune(v.Ref)
	switch pt := pruned.(type) {
	case TVar:
		return RVar{Ref: pt}, nil
	case TRow:
		return PruneRow(pt.Row)
	case TTable:
		return PruneRow(pt.Row)
	default:
		cell, _ := TailCell(v.Ref)
		name := "?"
		if cell != nil {
			name = cell.Name
		}
		return nil, diagnostics.Newf(diagnostics.KindRowLink, diagnostics.Pos{},
			"row variable %s linked to non-row type", name)
	}
}

// WrapRow wraps a Row back into a Type former, used both to pass a
// row as a unification target and to write it as a Link value; TRow
// is used uniformly since Table and Row share row structure and unify
// identically once unwrapped.
func WrapRow(r Row) Type {
	return TRow{Row: r}
}

// Flatten inlines a row tail whose reference resolves to a ground
// RExtend into the enclosing row, merging field sets, per the design
// note that generalization must flatten row tails without dropping
// quantifier positions. Fields already present in the outer row take
// precedence (they were unified against the tail's fields already;
// this merge only needs to pick up field names the outer row did not
// have).
func Flatten(r Row) (Row, error) {
	ext, ok := r.(RExtend)
	if !ok || ext.Tail == nil {
		return r, nil
	}
	tailRow, err := PruneRow(RVar{Ref: ext.Tail})
	if err != nil {
		return nil, err
	}
	switch t := tailRow.(type) {
	case REmpty:
		return RExtend{Fields: ext.Fields, Tail: nil}, nil
	case RVar:
		return RExtend{Fields: ext.Fields, Tail: t.Ref}, nil
	case RExtend:
		inner, err := Flatten(t)
		if err != nil {
			return nil, err
		}
		innerExt := inner.(RExtend)
		merged := make(map[string]Type, len(ext.Fields)+len(innerExt.Fields))
		for k, v := range innerExt.Fields {
			merged[k] = v
		}
		for k, v := range ext.Fields {
			merged[k] = v
		}
		return RExtend{Fields: merged, Tail: innerExt.Tail}, nil
	default:
		return r, nil
	}
}
