// Package rpcservice exposes internal/infer.Run to an out-of-process
// downstream compiler over gRPC, without a protoc-generated .pb.go
// binding: like the teacher's internal/evaluator/builtins_grpc.go, it
// parses an embedded .proto schema at startup with
// github.com/jhump/protoreflect/desc/protoparse and serves
// dynamic.Message values directly.
package rpcservice

import (
	"encoding/json"
	"fmt"

	"github.com/levelrow/typeinfer/internal/ir"
	"github.com/levelrow/typeinfer/internal/types"
)

// wireTerm is the JSON-on-the-wire shape of an ir.Term, carried inside
// the InferRequest.term_json string field and the
// InferResponse.elaborated_json field. Elaboration-only nodes (TyApp,
// TyAbs) appear only in responses: encodeTerm renders them, decodeTerm
// does not accept them.
type wireTerm struct {
	Kind string `json:"kind"`

	// Var
	Local bool   `json:"local,omitempty"`
	Index int    `json:"index,omitempty"`
	Name  string `json:"name,omitempty"`

	// Lam
	Params []string  `json:"params,omitempty"`
	Body   *wireTerm `json:"body,omitempty"`

	// App
	Fn   *wireTerm  `json:"fn,omitempty"`
	Args []wireTerm `json:"args,omitempty"`

	// Let
	Rhs *wireTerm `json:"rhs,omitempty"`

	// Block
	Terms []wireTerm `json:"terms,omitempty"`

	// ErrorLit
	Msg string `json:"msg,omitempty"`

	// Builtin
	Tag string `json:"tag,omitempty"`

	// Constant
	LitKind string `json:"litKind,omitempty"`
	Value   any    `json:"value,omitempty"`

	// ObjectLit
	Fields []wireField `json:"fields,omitempty"`

	// ListLit
	Items []wireTerm `json:"items,omitempty"`

	// TyAbs / TyApp (response-only; rendered for display, not re-parsed)
	TyVars []string `json:"tyVars,omitempty"`
	TyArgs []string `json:"tyArgs,omitempty"`
}

type wireField struct {
	Name  string   `json:"name"`
	Value wireTerm `json:"value"`
}

var litKindNames = map[ir.LitKind]string{
	ir.LitInt:     "int",
	ir.LitDecimal: "decimal",
	ir.LitBool:    "bool",
	ir.LitString:  "string",
	ir.LitUnit:    "unit",
	ir.LitTime:    "time",
	ir.LitGuard:   "guard",
}

var litKindValues = func() map[string]ir.LitKind {
	m := make(map[string]ir.LitKind, len(litKindNames))
	for k, v := range litKindNames {
		m[v] = k
	}
	return m
}()

// decodeTerm turns the JSON wire representation carried in an
// InferRequest into the ir.Term the driver consumes.
func decodeTerm(data []byte) (ir.Term, error) {
	var w wireTerm
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("rpcservice: decoding term_json: %w", err)
	}
	return w.toTerm()
}

func (w *wireTerm) toTerm() (ir.Term, error) {
	if w == nil {
		return nil, fmt.Errorf("rpcservice: nil term")
	}
	switch w.Kind {
	case "var":
		return ir.Var{Local: w.Local, Index: w.Index, Name: w.Name}, nil
	case "lam":
		body, err := w.Body.toTerm()
		if err != nil {
			return nil, err
		}
		params := make([]ir.Param, len(w.Params))
		for i, name := range w.Params {
			params[i] = ir.Param{Name: name}
		}
		return ir.Lam{Name: w.Name, Params: params, Body: body}, nil
	case "app":
		fn, err := w.Fn.toTerm()
		if err != nil {
			return nil, err
		}
		args := make([]ir.Term, len(w.Args))
		for i := range w.Args {
			arg, err := w.Args[i].toTerm()
			if err != nil {
				return nil, err
			}
			args[i] = arg
		}
		return ir.App{Fn: fn, Args: args}, nil
	case "let":
		rhs, err := w.Rhs.toTerm()
		if err != nil {
			return nil, err
		}
		body, err := w.Body.toTerm()
		if err != nil {
			return nil, err
		}
		return ir.Let{Name: w.Name, Rhs: rhs, Body: body}, nil
	case "block":
		terms := make([]ir.Term, len(w.Terms))
		for i := range w.Terms {
			t, err := w.Terms[i].toTerm()
			if err != nil {
				return nil, err
			}
			terms[i] = t
		}
		return ir.Block{Terms: terms}, nil
	case "error":
		return ir.ErrorLit{Msg: w.Msg}, nil
	case "builtin":
		return ir.Builtin{Tag: ir.BuiltinTag(w.Tag)}, nil
	case "dynAccess":
		target, err := w.Fn.toTerm()
		if err != nil {
			return nil, err
		}
		return ir.DynAccess{Target: target, Field: w.Name}, nil
	case "constant":
		kind, ok := litKindValues[w.LitKind]
		if !ok {
			return nil, fmt.Errorf("rpcservice: unknown literal kind %q", w.LitKind)
		}
		return ir.Constant{Kind: kind, Value: w.Value}, nil
	case "object":
		fields := make([]ir.ObjectField, len(w.Fields))
		for i, f := range w.Fields {
			v, err := f.Value.toTerm()
			if err != nil {
				return nil, err
			}
			fields[i] = ir.ObjectField{Name: f.Name, Value: v}
		}
		return ir.ObjectLit{Fields: fields}, nil
	case "list":
		items := make([]ir.Term, len(w.Items))
		for i := range w.Items {
			it, err := w.Items[i].toTerm()
			if err != nil {
				return nil, err
			}
			items[i] = it
		}
		return ir.ListLit{Items: items}, nil
	default:
		return nil, fmt.Errorf("rpcservice: unknown term kind %q", w.Kind)
	}
}

// encodeTerm renders an elaborated ir.Term (possibly containing
// TyAbs/TyApp) as JSON for InferResponse.elaborated_json. This
// direction is display-only: a downstream compiler reads the closed
// scheme from InferResponse.scheme for its own type-directed codegen
// and uses elaborated_json as a human-readable trace of what was
// inserted where.
func encodeTerm(term ir.Term) ([]byte, error) {
	w, err := fromTerm(term)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

func fromTerm(term ir.Term) (wireTerm, error) {
	switch t := term.(type) {
	case ir.Var:
		return wireTerm{Kind: "var", Local: t.Local, Index: t.Index, Name: t.Name}, nil
	case ir.Lam:
		body, err := fromTerm(t.Body)
		if err != nil {
			return wireTerm{}, err
		}
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			if p.Type != nil {
				params[i] = p.Name + ": " + types.String(p.Type)
			} else {
				params[i] = p.Name
			}
		}
		return wireTerm{Kind: "lam", Name: t.Name, Params: params, Body: &body}, nil
	case ir.App:
		fn, err := fromTerm(t.Fn)
		if err != nil {
			return wireTerm{}, err
		}
		args := make([]wireTerm, len(t.Args))
		for i, a := range t.Args {
			arg, err := fromTerm(a)
			if err != nil {
				return wireTerm{}, err
			}
			args[i] = arg
		}
		return wireTerm{Kind: "app", Fn: &fn, Args: args}, nil
	case ir.Let:
		rhs, err := fromTerm(t.Rhs)
		if err != nil {
			return wireTerm{}, err
		}
		body, err := fromTerm(t.Body)
		if err != nil {
			return wireTerm{}, err
		}
		return wireTerm{Kind: "let", Name: t.Name, Rhs: &rhs, Body: &body}, nil
	case ir.Block:
		terms := make([]wireTerm, len(t.Terms))
		for i, sub := range t.Terms {
			w, err := fromTerm(sub)
			if err != nil {
				return wireTerm{}, err
			}
			terms[i] = w
		}
		return wireTerm{Kind: "block", Terms: terms}, nil
	case ir.ErrorLit:
		return wireTerm{Kind: "error", Msg: t.Msg}, nil
	case ir.Builtin:
		return wireTerm{Kind: "builtin", Tag: string(t.Tag)}, nil
	case ir.DynAccess:
		target, err := fromTerm(t.Target)
		if err != nil {
			return wireTerm{}, err
		}
		return wireTerm{Kind: "dynAccess", Fn: &target, Name: t.Field}, nil
	case ir.Constant:
		return wireTerm{Kind: "constant", LitKind: litKindNames[t.Kind], Value: t.Value}, nil
	case ir.ObjectLit:
		fields := make([]wireField, len(t.Fields))
		for i, f := range t.Fields {
			v, err := fromTerm(f.Value)
			if err != nil {
				return wireTerm{}, err
			}
			fields[i] = wireField{Name: f.Name, Value: v}
		}
		return wireTerm{Kind: "object", Fields: fields}, nil
	case ir.ListLit:
		items := make([]wireTerm, len(t.Items))
		for i, it := range t.Items {
			w, err := fromTerm(it)
			if err != nil {
				return wireTerm{}, err
			}
			items[i] = w
		}
		return wireTerm{Kind: "list", Items: items}, nil
	case ir.TyAbs:
		body, err := fromTerm(t.Body)
		if err != nil {
			return wireTerm{}, err
		}
		vars := make([]string, len(t.Vars))
		for i, v := range t.Vars {
			vars[i] = v.Name
		}
		return wireTerm{Kind: "tyAbs", TyVars: vars, Body: &body}, nil
	case ir.TyApp:
		inner, err := fromTerm(t.Term)
		if err != nil {
			return wireTerm{}, err
		}
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = types.String(a)
		}
		return wireTerm{Kind: "tyApp", Fn: &inner, TyArgs: args}, nil
	default:
		return wireTerm{}, fmt.Errorf("rpcservice: unencodable term node %T", term)
	}
}
