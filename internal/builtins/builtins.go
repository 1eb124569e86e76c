// Package builtins supplies the built-in signature table consumed by
// internal/infer.Run: a total mapping from built-in tag to its closed
// type signature, expressed with de Bruijn-indexed quantifiers exactly
// as internal/infer.InstantiateImported expects.
package builtins

import (
	"github.com/levelrow/typeinfer/internal/ir"
	"github.com/levelrow/typeinfer/internal/types"
)

// Table is a total mapping from built-in tag to its closed signature.
// It is immutable and safe for concurrent read-only use by multiple
// inference runs, built once at package init.
type Table map[ir.BuiltinTag]types.Type

var (
	tInt     = types.TPrim{Kind: types.Int}
	tDecimal = types.TPrim{Kind: types.Decimal}
	tBool    = types.TPrim{Kind: types.Bool}
	tString  = types.TPrim{Kind: types.String}
	tUnit    = types.TPrim{Kind: types.Unit}
)

func fn(result types.Type, params ...types.Type) types.Type {
	return types.Fun(params, result)
}

func list(t types.Type) types.Type {
	return types.TList{Elem: t}
}

// forall1 builds a TForall over a single scalar binder named name.
func forall1(name string, body func(a types.Type) types.Type) types.Type {
	a := types.NamedDeBruijn{Index: 0, DisplayName: name}
	return types.TForall{Vars: []types.ForallVar{{Name: name}}, Body: body(a)}
}

// forall2 builds a TForall over two scalar binders.
func forall2(n1, n2 string, body func(a, b types.Type) types.Type) types.Type {
	a := types.NamedDeBruijn{Index: 0, DisplayName: n1}
	b := types.NamedDeBruijn{Index: 1, DisplayName: n2}
	return types.TForall{Vars: []types.ForallVar{{Name: n1}, {Name: n2}}, Body: body(a, b)}
}

// forallRow builds a TForall over one scalar binder and one row-tail
// binder, used for the record field-access primitive.
func forallRow(scalar, row string, body func(a types.Type, rho types.Type) types.Type) types.Type {
	a := types.NamedDeBruijn{Index: 0, DisplayName: scalar}
	rho := types.NamedDeBruijn{Index: 1, DisplayName: row}
	return types.TForall{
		Vars: []types.ForallVar{{Name: scalar}, {Name: row, IsRow: true}},
		Body: body(a, rho),
	}
}

// Default is the standard built-in table: arithmetic, decimal,
// comparisons, boolean operators, list combinators, and the record
// field-access primitive used by the row-polymorphism scenarios.
var Default = Table{
	// Arithmetic.
	"+":      fn(tInt, tInt, tInt),
	"-":      fn(tInt, tInt, tInt),
	"*":      fn(tInt, tInt, tInt),
	"/":      fn(tInt, tInt, tInt),
	"mod":    fn(tInt, tInt, tInt),
	"negate": fn(tInt, tInt),
	"abs":    fn(tInt, tInt),
	"band":   fn(tInt, tInt, tInt),
	"bor":    fn(tInt, tInt, tInt),
	"bxor":   fn(tInt, tInt, tInt),
	"bnot":   fn(tInt, tInt),

	// Decimal.
	"dec.negate": fn(tDecimal, tDecimal),
	"dec.add":    fn(tDecimal, tDecimal, tDecimal),
	"dec.sub":    fn(tDecimal, tDecimal, tDecimal),
	"dec.mul":    fn(tDecimal, tDecimal, tDecimal),
	"dec.div":    fn(tDecimal, tDecimal, tDecimal),
	"dec.round":  fn(tInt, tDecimal),

	// Comparisons on Int.
	"lt":  fn(tBool, tInt, tInt),
	"lte": fn(tBool, tInt, tInt),
	"gt":  fn(tBool, tInt, tInt),
	"gte": fn(tBool, tInt, tInt),
	"eq":  fn(tBool, tInt, tInt),
	"neq": fn(tBool, tInt, tInt),

	// Boolean.
	"not": fn(tBool, tBool),
	"and": fn(tBool, tBool, tBool),
	"or":  fn(tBool, tBool, tBool),

	// List combinators.
	"map": forall2("a", "b", func(a, b types.Type) types.Type {
		return fn(list(b), fn(b, a), list(a))
	}),
	"fold": forall2("a", "b", func(a, b types.Type) types.Type {
		return fn(a, fn(a, a, b), a, list(b))
	}),
	"filter": forall1("a", func(a types.Type) types.Type {
		return fn(list(a), fn(tBool, a), list(a))
	}),
	"if": forall1("a", func(a types.Type) types.Type {
		thunk := fn(a, tUnit)
		return fn(a, tBool, thunk, thunk)
	}),
	"take": forall1("a", func(a types.Type) types.Type {
		return fn(list(a), tInt, list(a))
	}),
	"drop": forall1("a", func(a types.Type) types.Type {
		return fn(list(a), tInt, list(a))
	}),
	"length": forall1("a", func(a types.Type) types.Type {
		return fn(tInt, list(a))
	}),
	"distinct": fn(list(tInt), list(tInt)),
	"enforce":  fn(tUnit, tBool, tString),

	// Strings and enumeration.
	"int->str":       fn(tString, tInt),
	"str->int":       fn(tInt, tString),
	"concat":         fn(tString, tString, tString),
	"enumerate":      fn(list(tInt), tInt, tInt),
	"enumerate/step": fn(list(tInt), tInt, tInt, tInt),

	// Record field access: ∀a ρ. {name: a | ρ} → a, the primitive
	// assumed by the row-extension scenario.
	"field:name": forallRow("a", "rho", func(a, rho types.Type) types.Type {
		row := types.RExtend{Fields: map[string]types.Type{"name": a}, Tail: rho}
		return fn(a, types.TRow{Row: row})
	}),
}
