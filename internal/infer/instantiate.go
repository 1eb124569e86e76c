package infer

import (
	"github.com/levelrow/typeinfer/internal/diagnostics"
	"github.com/levelrow/typeinfer/internal/types"
)

// Instantiate fresh-copies a quantified Scheme for a scheme-polymorphic
// use site in user code. It returns the substituted body type and, in
// quantifier order, the freshly allocated type arguments the caller
// should use to elaborate the use site as TyApp(term, args).  An empty
// args slice means the scheme had no quantifiers and the use site needs
// no TyApp wrapper.
func Instantiate(supply *types.Supply, scheme types.Scheme) (types.Type, []types.Type) {
	if len(scheme.Vars) == 0 {
		return scheme.Body, nil
	}
	sub := make(map[*types.Var]*types.Var, len(scheme.Vars))
	args := make([]types.Type, len(scheme.Vars))
	for i, v := range scheme.Vars {
		var fresh *types.Var
		if v.IsRow {
			fresh = supply.FreshRow()
		} else {
			fresh = supply.Fresh()
		}
		sub[v] = fresh
		args[i] = types.Witness(fresh)
	}
	body := substType(scheme.Body, sub)
	return body, args
}

// InstantiateImported fresh-copies a built-in signature supplied
// already in closed (NamedDeBruijn) form. If ty is a TForall, it
// allocates one fresh unbound cell per binder (order-preserving) and
// substitutes each NamedDeBruijn reference with the corresponding
// fresh cell's witness; otherwise it returns ty unchanged with no type
// arguments. A TForall reached while substituting beneath a
// constructor is rejected with KindImpredicative — built-in signatures
// must be prenex.
func InstantiateImported(supply *types.Supply, ty types.Type) (types.Type, []types.Type, error) {
	forall, ok := ty.(types.TForall)
	if !ok {
		if containsNestedForall(ty) {
			return nil, nil, diagnostics.Newf(diagnostics.KindImpredicative, diagnostics.Pos{},
				"built-in signature has a forall beneath a type constructor")
		}
		return ty, nil, nil
	}
	fresh := make([]*types.Var, len(forall.Vars))
	args := make([]types.Type, len(forall.Vars))
	for i, fv := range forall.Vars {
		var v *types.Var
		if fv.IsRow {
			v = supply.FreshRow()
		} else {
			v = supply.Fresh()
		}
		fresh[i] = v
		args[i] = types.Witness(v)
	}
	body, err := substDeBruijn(forall.Body, fresh, 0)
	if err != nil {
		return nil, nil, err
	}
	return body, args, nil
}

func containsNestedForall(t types.Type) bool {
	switch t := t.(type) {
	case types.TFun:
		return containsNestedForall(t.Dom) || containsNestedForall(t.Codom)
	case types.TList:
		return containsNestedForall(t.Elem)
	case types.TRow:
		return rowContainsNestedForall(t.Row)
	case types.TTable:
		return rowContainsNestedForall(t.Row)
	case types.TForall:
		return true
	default:
		return false
	}
}

func rowContainsNestedForall(r types.Row) bool {
	ext, ok := r.(types.RExtend)
	if !ok {
		return false
	}
	for _, t := range ext.Fields {
		if containsNestedForall(t) {
			return true
		}
	}
	return false
}

// substType substitutes every occurrence of a Bound cell present in
// sub with its fresh replacement, leaving Unbound/Link cells (and
// everything else) structurally copied but otherwise unchanged.
func substType(t types.Type, sub map[*types.Var]*types.Var) types.Type {
	t = types.Prune(t)
	switch t := t.(type) {
	case types.TVar:
		if fresh, ok := sub[t.Cell]; ok {
			return types.Witness(fresh)
		}
		return t
	case types.TFun:
		return types.TFun{Dom: substType(t.Dom, sub), Codom: substType(t.Codom, sub)}
	case types.TList:
		return types.TList{Elem: substType(t.Elem, sub)}
	case types.TRow:
		return types.TRow{Row: substRow(t.Row, sub)}
	case types.TTable:
		return types.TTable{Row: substRow(t.Row, sub)}
	default:
		return t
	}
}

func substRow(r types.Row, sub map[*types.Var]*types.Var) types.Row {
	r, err := types.PruneRow(r)
	if err != nil {
		// Unreachable on a well-formed scheme; leave it for the caller
		// chain's own RowLink check to surface if it ever does occur.
		return r
	}
	switch r := r.(type) {
	case types.RVar:
		if cell, ok := types.TailCell(r.Ref); ok {
			if fresh, ok := sub[cell]; ok {
				return types.RVar{Ref: types.TVar{Cell: fresh}}
			}
		}
		return r
	case types.RExtend:
		if flat, err := types.Flatten(r); err == nil {
			r = flat.(types.RExtend)
		}
		fields := make(map[string]types.Type, len(r.Fields))
		for k, v := range r.Fields {
			fields[k] = substType(v, sub)
		}
		tail := r.Tail
		if cell, ok := types.TailCell(tail); ok {
			if fresh, ok := sub[cell]; ok {
				tail = types.TVar{Cell: fresh}
			}
		}
		return types.RExtend{Fields: fields, Tail: tail}
	default:
		return r
	}
}

// substDeBruijn substitutes every NamedDeBruijn occurrence with
// fresh[Index] (Index is the binder's position in the TForall's Vars;
// depth is threaded through but not consulted), recursing through
// nested structure and rejecting any Forall encountered beneath a
// constructor.
func substDeBruijn(t types.Type, fresh []*types.Var, depth int) (types.Type, error) {
	switch t := t.(type) {
	case types.NamedDeBruijn:
		if t.Index < 0 || t.Index >= len(fresh) {
			return nil, diagnostics.Newf(diagnostics.KindImpredicative, diagnostics.Pos{},
				"de Bruijn index %d out of range for %d-ary forall", t.Index, len(fresh))
		}
		return types.Witness(fresh[t.Index]), nil
	case types.TFun:
		dom, err := substDeBruijn(t.Dom, fresh, depth)
		if err != nil {
			return nil, err
		}
		codom, err := substDeBruijn(t.Codom, fresh, depth)
		if err != nil {
			return nil, err
		}
		return types.TFun{Dom: dom, Codom: codom}, nil
	case types.TList:
		elem, err := substDeBruijn(t.Elem, fresh, depth)
		if err != nil {
			return nil, err
		}
		return types.TList{Elem: elem}, nil
	case types.TRow:
		row, err := substDeBruijnRow(t.Row, fresh, depth)
		if err != nil {
			return nil, err
		}
		return types.TRow{Row: row}, nil
	case types.TTable:
		row, err := substDeBruijnRow(t.Row, fresh, depth)
		if err != nil {
			return nil, err
		}
		return types.TTable{Row: row}, nil
	case types.TForall:
		return nil, diagnostics.Newf(diagnostics.KindImpredicative, diagnostics.Pos{},
			"forall beneath a type constructor in built-in signature")
	default:
		return t, nil
	}
}

func substDeBruijnRow(r types.Row, fresh []*types.Var, depth int) (types.Row, error) {
	switch r := r.(type) {
	case types.REmpty:
		return r, nil
	case types.RVar:
		ref, err := substDeBruijnTailRef(r.Ref, fresh)
		if err != nil {
			return nil, err
		}
		return types.RVar{Ref: ref}, nil
	case types.RExtend:
		fields := make(map[string]types.Type, len(r.Fields))
		for k, v := range r.Fields {
			sv, err := substDeBruijn(v, fresh, depth)
			if err != nil {
				return nil, err
			}
			fields[k] = sv
		}
		tail := r.Tail
		if tail != nil {
			st, err := substDeBruijnTailRef(tail, fresh)
			if err != nil {
				return nil, err
			}
			tail = st
		}
		return types.RExtend{Fields: fields, Tail: tail}, nil
	default:
		return r, nil
	}
}

// substDeBruijnTailRef substitutes a row tail/ref position, which
// holds either a NamedDeBruijn binder reference (closed built-in form)
// or, once substituted, a raw TVar{Cell} — never the TRow-wrapped
// Witness form used for plain Type occurrences.
func substDeBruijnTailRef(ref types.Type, fresh []*types.Var) (types.Type, error) {
	nd, ok := ref.(types.NamedDeBruijn)
	if !ok {
		return ref, nil
	}
	if nd.Index < 0 || nd.Index >= len(fresh) {
		return nil, diagnostics.Newf(diagnostics.KindImpredicative, diagnostics.Pos{},
			"de Bruijn index %d out of range for %d-ary forall", nd.Index, len(fresh))
	}
	return types.TVar{Cell: fresh[nd.Index]}, nil
}
