package main

import "github.com/levelrow/typeinfer/internal/ir"

// fixture names one of the testable-properties scenarios and the
// untyped-input term that exercises it.
type fixture struct {
	name string
	term ir.Term
}

func localVar(name string, index int) ir.Var {
	return ir.Var{Local: true, Index: index, Name: name}
}

// fixtures returns the six canonical scenarios, in the order they
// appear in this engine's testable-properties section: identity,
// let-polymorphism, a closed-row object literal, row extension via the
// field-access built-in, an occurs-check failure, and an empty list
// generalized independently at two use sites.
func fixtures() []fixture {
	identity := ir.Lam{Name: "id", Params: []ir.Param{{Name: "x"}}, Body: localVar("x", 0)}

	letPoly := ir.Let{
		Name: "id",
		Rhs:  ir.Lam{Params: []ir.Param{{Name: "x"}}, Body: localVar("x", 0)},
		Body: ir.App{Fn: localVar("id", 0), Args: []ir.Term{ir.Constant{Kind: ir.LitInt, Value: 1}}},
	}

	record := ir.ObjectLit{Fields: []ir.ObjectField{
		{Name: "name", Value: ir.Constant{Kind: ir.LitString, Value: "a"}},
		{Name: "age", Value: ir.Constant{Kind: ir.LitInt, Value: 3}},
	}}

	fieldAccess := ir.Lam{
		Params: []ir.Param{{Name: "r"}},
		Body:   ir.App{Fn: ir.Builtin{Tag: "field:name"}, Args: []ir.Term{localVar("r", 0)}},
	}

	selfApp := ir.Lam{
		Params: []ir.Param{{Name: "x"}},
		Body:   ir.App{Fn: localVar("x", 0), Args: []ir.Term{localVar("x", 0)}},
	}

	emptyList := ir.Let{
		Name: "xs",
		Rhs:  ir.ListLit{},
		Body: ir.Block{Terms: []ir.Term{
			ir.App{Fn: ir.Builtin{Tag: "length"}, Args: []ir.Term{localVar("xs", 0)}},
			ir.App{Fn: ir.Builtin{Tag: "length"}, Args: []ir.Term{localVar("xs", 0)}},
		}},
	}

	return []fixture{
		{"identity", identity},
		{"let-polymorphism", letPoly},
		{"closed-row-literal", record},
		{"row-extension-field-access", fieldAccess},
		{"occurs-check-failure", selfApp},
		{"empty-list-generalization", emptyList},
	}
}
