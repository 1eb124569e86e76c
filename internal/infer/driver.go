package infer

import (
	"github.com/levelrow/typeinfer/internal/builtins"
	"github.com/levelrow/typeinfer/internal/debruijn"
	"github.com/levelrow/typeinfer/internal/diagnostics"
	"github.com/levelrow/typeinfer/internal/ir"
	"github.com/levelrow/typeinfer/internal/types"
	"github.com/levelrow/typeinfer/internal/unify"
)

// driver carries the two pieces of state an inference pass threads
// through every recursive call: the variable supply (for fresh cells
// and level bracketing) and the built-in signature table.
type driver struct {
	supply   *types.Supply
	builtins builtins.Table
}

// Run infers a principal type and elaborates term, then closes both to
// de Bruijn form: the result is a closed Forall-headed type (or a bare
// type if the result is monomorphic) and a fully elaborated term with
// every polymorphic use wrapped in TyApp and every polymorphic
// definition in TyAbs. The whole call is bracketed in one level so that
// every variable born during the run is eligible for generalization at
// the end, mirroring the bracketing Let performs around its right-hand
// side.
func Run(supply *types.Supply, table builtins.Table, term ir.Term) (types.Type, ir.Term, error) {
	d := &driver{supply: supply, builtins: table}
	env := NewEnv()

	supply.EnterLevel()
	ty, elaborated, err := d.infer(env, term)
	supply.LeaveLevel()
	if err != nil {
		return nil, term, err
	}

	scheme, wrapped, err := Generalize(supply, ty, elaborated)
	if err != nil {
		return nil, term, err
	}

	return debruijn.Close(scheme, wrapped)
}

func (d *driver) infer(env *Env, term ir.Term) (types.Type, ir.Term, error) {
	switch t := term.(type) {

	case ir.Var:
		return d.inferVar(env, t)

	case ir.Lam:
		return d.inferLam(env, t)

	case ir.App:
		return d.inferApp(env, t)

	case ir.Let:
		return d.inferLet(env, t)

	case ir.Block:
		return d.inferBlock(env, t)

	case ir.ErrorLit:
		tv := types.Witness(d.supply.Fresh())
		return tv, ir.ErrorLit{At: t.At, Msg: t.Msg, Type: tv}, nil

	case ir.Builtin:
		return d.inferBuiltin(t)

	case ir.Constant:
		return d.inferConstant(t)

	case ir.ObjectLit:
		return d.inferObjectLit(env, t)

	case ir.ListLit:
		return d.inferListLit(env, t)

	case ir.DynAccess:
		return nil, term, diagnostics.Newf(diagnostics.KindUnsupported, t.At,
			"dynamic field access on %q is not supported by this core", t.Field)

	default:
		return nil, term, diagnostics.Newf(diagnostics.KindUnsupported, ir.Pos{},
			"unsupported term form %T", term)
	}
}

func (d *driver) inferVar(env *Env, t ir.Var) (types.Type, ir.Term, error) {
	if !t.Local {
		return nil, t, diagnostics.Newf(diagnostics.KindUnsupportedTopLevel, t.At,
			"top-level resolution of %q is out of scope for this core", t.Name)
	}
	scheme, ok := env.Lookup(t.Index)
	if !ok {
		return nil, t, diagnostics.Newf(diagnostics.KindUnboundVariable, t.At,
			"unbound variable %q at index %d", t.Name, t.Index)
	}
	ty, args := Instantiate(d.supply, scheme)
	if len(args) == 0 {
		return ty, t, nil
	}
	return ty, ir.TyApp{At: t.At, Term: t, Args: args}, nil
}

func (d *driver) inferLam(env *Env, t ir.Lam) (types.Type, ir.Term, error) {
	paramTys := make([]types.Type, len(t.Params))
	params := make([]ir.Param, len(t.Params))
	for i, p := range t.Params {
		tv := types.Witness(d.supply.Fresh())
		paramTys[i] = tv
		params[i] = ir.Param{Name: p.Name, Ann: p.Ann, Type: tv}
		env.Push(types.Monomorphic(tv))
	}

	bodyTy, body, err := d.infer(env, t.Body)

	for range t.Params {
		env.Pop()
	}
	if err != nil {
		return nil, t, err
	}

	fnTy := types.Fun(paramTys, bodyTy)
	return fnTy, ir.Lam{At: t.At, Name: t.Name, Params: params, Body: body}, nil
}

func (d *driver) inferApp(env *Env, t ir.App) (types.Type, ir.Term, error) {
	fnTy, fn, err := d.infer(env, t.Fn)
	if err != nil {
		return nil, t, err
	}

	args := make([]ir.Term, len(t.Args))
	current := fnTy
	for i, argTerm := range t.Args {
		argTy, elaboratedArg, err := d.infer(env, argTerm)
		if err != nil {
			return nil, t, err
		}
		result := types.Witness(d.supply.Fresh())
		if err := unify.Unify(d.supply, current, types.TFun{Dom: argTy, Codom: result}, t.At); err != nil {
			return nil, t, err
		}
		args[i] = elaboratedArg
		current = result
	}
	return current, ir.App{At: t.At, Fn: fn, Args: args}, nil
}

func (d *driver) inferLet(env *Env, t ir.Let) (types.Type, ir.Term, error) {
	d.supply.EnterLevel()
	rhsTy, rhs, err := d.infer(env, t.Rhs)
	d.supply.LeaveLevel()
	if err != nil {
		return nil, t, err
	}

	scheme, rhsElaborated, err := Generalize(d.supply, rhsTy, rhs)
	if err != nil {
		return nil, t, err
	}

	env.Push(scheme)
	bodyTy, body, err := d.infer(env, t.Body)
	env.Pop()
	if err != nil {
		return nil, t, err
	}

	return bodyTy, ir.Let{At: t.At, Name: t.Name, Ann: t.Ann, Rhs: rhsElaborated, Body: body}, nil
}

func (d *driver) inferBlock(env *Env, t ir.Block) (types.Type, ir.Term, error) {
	terms := make([]ir.Term, len(t.Terms))
	var last types.Type
	for i, term := range t.Terms {
		ty, elaborated, err := d.infer(env, term)
		if err != nil {
			return nil, t, err
		}
		terms[i] = elaborated
		last = ty
	}
	return last, ir.Block{At: t.At, Terms: terms}, nil
}

func (d *driver) inferBuiltin(t ir.Builtin) (types.Type, ir.Term, error) {
	sig, ok := d.builtins[t.Tag]
	if !ok {
		return nil, t, diagnostics.Newf(diagnostics.KindUnboundVariable, t.At,
			"unknown built-in %q", t.Tag)
	}
	body, fresh, err := InstantiateImported(d.supply, sig)
	if err != nil {
		return nil, t, err
	}
	if len(fresh) == 0 {
		return body, t, nil
	}
	return body, ir.TyApp{At: t.At, Term: t, Args: fresh}, nil
}

func (d *driver) inferConstant(t ir.Constant) (types.Type, ir.Term, error) {
	var kind types.PrimKind
	switch t.Kind {
	case ir.LitInt:
		kind = types.Int
	case ir.LitDecimal:
		kind = types.Decimal
	case ir.LitBool:
		kind = types.Bool
	case ir.LitString:
		kind = types.String
	case ir.LitUnit:
		kind = types.Unit
	case ir.LitTime:
		kind = types.Time
	case ir.LitGuard:
		kind = types.Guard
	default:
		return nil, t, diagnostics.Newf(diagnostics.KindUnsupported, t.At,
			"unknown literal kind %d", t.Kind)
	}
	return types.TPrim{Kind: kind}, t, nil
}

func (d *driver) inferObjectLit(env *Env, t ir.ObjectLit) (types.Type, ir.Term, error) {
	fields := make([]ir.ObjectField, len(t.Fields))
	rowFields := make(map[string]types.Type, len(t.Fields))
	for i, f := range t.Fields {
		ty, value, err := d.infer(env, f.Value)
		if err != nil {
			return nil, t, err
		}
		fields[i] = ir.ObjectField{Name: f.Name, Value: value}
		rowFields[f.Name] = ty
	}
	row := types.TRow{Row: types.RExtend{Fields: rowFields}}
	return row, ir.ObjectLit{At: t.At, Fields: fields}, nil
}

func (d *driver) inferListLit(env *Env, t ir.ListLit) (types.Type, ir.Term, error) {
	elem := types.Witness(d.supply.Fresh())
	items := make([]ir.Term, len(t.Items))
	for i, item := range t.Items {
		ty, elaborated, err := d.infer(env, item)
		if err != nil {
			return nil, t, err
		}
		if err := unify.Unify(d.supply, elem, ty, t.At); err != nil {
			return nil, t, err
		}
		items[i] = elaborated
	}
	listTy := types.TList{Elem: elem}
	return listTy, ir.ListLit{At: t.At, Items: items, ElemType: elem}, nil
}
