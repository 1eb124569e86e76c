// Package debruijn performs the final closure pass: converting the
// mutable-cell type variables left by generalization into the closed,
// positionally-addressed NamedDeBruijn form suitable for a downstream
// compiler pass, for both the top-level scheme and the elaborated term
// that references it.
package debruijn

import (
	"github.com/levelrow/typeinfer/internal/diagnostics"
	"github.com/levelrow/typeinfer/internal/ir"
	"github.com/levelrow/typeinfer/internal/types"
)

// binding records where a quantified cell was assigned its de Bruijn
// level: the index within its binder's variable list, plus its display
// name for the closed form's DisplayName.
type binding struct {
	index int
	name  string
}

type bindEnv map[*types.Var]binding

// Close converts scheme and the term that realizes it into their
// closed forms. A scheme with no quantifiers closes to its bare body
// type; otherwise it closes to a TForall with indices 0..n-1 assigned
// in the quantifier list's order. term is expected to be exactly what
// infer.Generalize returned alongside scheme (a bare term, or a TyAbs
// wrapping one) — Close does not itself decide whether to wrap.
func Close(scheme types.Scheme, term ir.Term) (types.Type, ir.Term, error) {
	closedTerm, err := closeTerm(bindEnv{}, 0, term)
	if err != nil {
		return nil, term, err
	}

	if len(scheme.Vars) == 0 {
		bodyTy, err := closeType(bindEnv{}, 0, scheme.Body)
		if err != nil {
			return nil, term, err
		}
		return bodyTy, closedTerm, nil
	}

	env := make(bindEnv, len(scheme.Vars))
	vars := make([]types.ForallVar, len(scheme.Vars))
	for i, v := range scheme.Vars {
		env[v] = binding{index: i, name: v.Name}
		vars[i] = types.ForallVar{Name: v.Name, IsRow: v.IsRow}
	}
	bodyTy, err := closeType(env, len(scheme.Vars), scheme.Body)
	if err != nil {
		return nil, term, err
	}
	return types.TForall{Vars: vars, Body: bodyTy}, closedTerm, nil
}

// closeType assigns de Bruijn indices to a Type's variable occurrences
// against env (bound variable -> its assigned level) at the current
// depth (number of binder levels opened so far, counting outward from
// the root).
func closeType(env bindEnv, depth int, t types.Type) (types.Type, error) {
	t = types.Prune(t)
	switch t := t.(type) {
	case types.TVar:
		return closeVarCell(env, depth, t.Cell)

	case types.TPrim:
		return t, nil

	case types.TCap:
		return t, nil

	case types.TFun:
		dom, err := closeType(env, depth, t.Dom)
		if err != nil {
			return nil, err
		}
		codom, err := closeType(env, depth, t.Codom)
		if err != nil {
			return nil, err
		}
		return types.TFun{Dom: dom, Codom: codom}, nil

	case types.TList:
		elem, err := closeType(env, depth, t.Elem)
		if err != nil {
			return nil, err
		}
		return types.TList{Elem: elem}, nil

	case types.TRow:
		row, err := closeRow(env, depth, t.Row)
		if err != nil {
			return nil, err
		}
		return types.TRow{Row: row}, nil

	case types.TTable:
		row, err := closeRow(env, depth, t.Row)
		if err != nil {
			return nil, err
		}
		return types.TTable{Row: row}, nil

	case types.TForall:
		return nil, diagnostics.Newf(diagnostics.KindImpredicative, diagnostics.Pos{},
			"forall beneath a type constructor during closure")

	case types.NamedDeBruijn:
		// Already closed; defensively pass through unchanged.
		return t, nil

	default:
		return t, nil
	}
}

func closeRow(env bindEnv, depth int, r types.Row) (types.Row, error) {
	r, err := types.PruneRow(r)
	if err != nil {
		return nil, err
	}
	switch r := r.(type) {
	case types.REmpty:
		return r, nil

	case types.RVar:
		ref, err := closeTailRef(env, depth, r.Ref)
		if err != nil {
			return nil, err
		}
		return types.RVar{Ref: ref}, nil

	case types.RExtend:
		flat, err := types.Flatten(r)
		if err != nil {
			return nil, err
		}
		r = flat.(types.RExtend)
		fields := make(map[string]types.Type, len(r.Fields))
		for label, ty := range r.Fields {
			closed, err := closeType(env, depth, ty)
			if err != nil {
				return nil, err
			}
			fields[label] = closed
		}
		var tail types.Type
		if r.Tail != nil {
			tail, err = closeTailRef(env, depth, r.Tail)
			if err != nil {
				return nil, err
			}
		}
		return types.RExtend{Fields: fields, Tail: tail}, nil

	default:
		return r, nil
	}
}

// closeTailRef closes a row tail/ref position, which holds a bare
// variable reference rather than a general Type — the closed form is
// a bare NamedDeBruijn, never TRow-wrapped, matching the convention
// internal/infer.substDeBruijnTailRef relies on for the reverse
// direction.
func closeTailRef(env bindEnv, depth int, ref types.Type) (types.Type, error) {
	cell, ok := types.TailCell(ref)
	if !ok {
		// Already closed (or some other unexpected form); pass through.
		return ref, nil
	}
	return closeVarCell(env, depth, cell)
}

func closeVarCell(env bindEnv, depth int, v *types.Var) (types.Type, error) {
	if b, ok := env[v]; ok {
		return types.NamedDeBruijn{Index: depth - b.index - 1, DisplayName: b.name}, nil
	}
	switch v.State {
	case types.Unbound:
		return nil, diagnostics.Newf(diagnostics.KindEscapedVariable, diagnostics.Pos{},
			"variable %s escaped generalization: unbound at closure time", v.Name)
	case types.Bound:
		return nil, diagnostics.Newf(diagnostics.KindEscapedVariable, diagnostics.Pos{},
			"impossible: bound variable %s has no enclosing scheme at closure time", v.Name)
	default:
		// Prune already resolved any Link reaching this point.
		return nil, diagnostics.Newf(diagnostics.KindEscapedVariable, diagnostics.Pos{},
			"unreachable variable state for %s during closure", v.Name)
	}
}

// closeTerm mirrors closeType over the term structure, closing every
// embedded Type (parameter annotations, literal element/result types,
// TyApp arguments) against the same env/depth, and extending env with
// fresh bindings at each TyAbs it descends through.
func closeTerm(env bindEnv, depth int, term ir.Term) (ir.Term, error) {
	switch t := term.(type) {
	case ir.Var:
		return t, nil

	case ir.Lam:
		params := make([]ir.Param, len(t.Params))
		for i, p := range t.Params {
			ty, err := closeType(env, depth, p.Type)
			if err != nil {
				return nil, err
			}
			params[i] = ir.Param{Name: p.Name, Ann: p.Ann, Type: ty}
		}
		body, err := closeTerm(env, depth, t.Body)
		if err != nil {
			return nil, err
		}
		return ir.Lam{At: t.At, Name: t.Name, Params: params, Body: body}, nil

	case ir.App:
		fn, err := closeTerm(env, depth, t.Fn)
		if err != nil {
			return nil, err
		}
		args := make([]ir.Term, len(t.Args))
		for i, a := range t.Args {
			ca, err := closeTerm(env, depth, a)
			if err != nil {
				return nil, err
			}
			args[i] = ca
		}
		return ir.App{At: t.At, Fn: fn, Args: args}, nil

	case ir.Let:
		rhs, err := closeTerm(env, depth, t.Rhs)
		if err != nil {
			return nil, err
		}
		body, err := closeTerm(env, depth, t.Body)
		if err != nil {
			return nil, err
		}
		return ir.Let{At: t.At, Name: t.Name, Ann: t.Ann, Rhs: rhs, Body: body}, nil

	case ir.Block:
		terms := make([]ir.Term, len(t.Terms))
		for i, inner := range t.Terms {
			ct, err := closeTerm(env, depth, inner)
			if err != nil {
				return nil, err
			}
			terms[i] = ct
		}
		return ir.Block{At: t.At, Terms: terms}, nil

	case ir.ErrorLit:
		ty, err := closeType(env, depth, t.Type)
		if err != nil {
			return nil, err
		}
		return ir.ErrorLit{At: t.At, Msg: t.Msg, Type: ty}, nil

	case ir.Builtin:
		return t, nil

	case ir.DynAccess:
		// Never produced by a successful elaboration; pass through
		// unchanged so a caller inspecting a failed partial term doesn't
		// additionally trip over closure.
		return t, nil

	case ir.Constant:
		return t, nil

	case ir.ObjectLit:
		fields := make([]ir.ObjectField, len(t.Fields))
		for i, f := range t.Fields {
			v, err := closeTerm(env, depth, f.Value)
			if err != nil {
				return nil, err
			}
			fields[i] = ir.ObjectField{Name: f.Name, Value: v}
		}
		return ir.ObjectLit{At: t.At, Fields: fields}, nil

	case ir.ListLit:
		items := make([]ir.Term, len(t.Items))
		for i, item := range t.Items {
			ci, err := closeTerm(env, depth, item)
			if err != nil {
				return nil, err
			}
			items[i] = ci
		}
		elem, err := closeType(env, depth, t.ElemType)
		if err != nil {
			return nil, err
		}
		return ir.ListLit{At: t.At, Items: items, ElemType: elem}, nil

	case ir.TyApp:
		inner, err := closeTerm(env, depth, t.Term)
		if err != nil {
			return nil, err
		}
		args := make([]types.Type, len(t.Args))
		for i, a := range t.Args {
			ca, err := closeType(env, depth, a)
			if err != nil {
				return nil, err
			}
			args[i] = ca
		}
		return ir.TyApp{At: t.At, Term: inner, Args: args}, nil

	case ir.TyAbs:
		newEnv := make(bindEnv, len(env)+len(t.Vars))
		for k, v := range env {
			newEnv[k] = v
		}
		for i, v := range t.Vars {
			newEnv[v] = binding{index: depth + i, name: v.Name}
		}
		newDepth := depth + len(t.Vars)
		body, err := closeTerm(newEnv, newDepth, t.Body)
		if err != nil {
			return nil, err
		}
		return ir.TyAbs{At: t.At, Vars: t.Vars, Body: body}, nil

	default:
		return nil, diagnostics.Newf(diagnostics.KindUnsupported, diagnostics.Pos{},
			"unsupported term form %T during closure", term)
	}
}
