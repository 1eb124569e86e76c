// Package ir defines the untyped input term and the elaborated typed
// output term the inference engine consumes and produces. Both stages
// share one concrete node hierarchy: type-carrying fields are nil (or
// a fresh inference variable) on input and populated by the driver and
// by de Bruijn closure on output, rather than maintaining two parallel
// ASTs.
package ir

import (
	"github.com/levelrow/typeinfer/internal/diagnostics"
	"github.com/levelrow/typeinfer/internal/types"
)

// Pos is re-exported from diagnostics so IR nodes and error reporting
// share one position type without importing diagnostics at every call
// site that merely threads a position through.
type Pos = diagnostics.Pos

// Term is the sum of all term-former variants, both untyped-input and
// elaborated-output. An unexported marker method closes the variant
// set to this package.
type Term interface {
	termNode()
}

// Var references a bound identifier. Local is true for IR variables
// resolved from the driver's local environment stack (the only kind
// this core resolves); Index is meaningful only when Local is true and
// counts outward from the innermost binder, mirroring the environment
// stack in internal/infer/env.go.
type Var struct {
	At    Pos
	Local bool
	Index int
	Name  string // display only; used in diagnostics and non-local reporting
}

// Param is one parameter of a Lam. Ann is the (ignored) source-level
// annotation, carried only for downstream pretty-printing; Type is nil
// on input and holds the parameter's inferred monomorphic type once
// elaborated.
type Param struct {
	Name string
	Ann  types.Type // always ignored by this core; see design notes on bidirectional checking
	Type types.Type
}

// Lam is a (possibly multi-parameter) lambda abstraction.
type Lam struct {
	At     Pos
	Name   string // the lambda's own name, for recursive-binding diagnostics; may be ""
	Params []Param
	Body   Term
}

// App is a function application with a non-empty argument list; each
// argument is applied left-to-right against the result of the previous
// application, per the driver's fold.
type App struct {
	At   Pos
	Fn   Term
	Args []Term
}

// Let is a non-recursive let-binding; its right-hand side is inferred
// at an incremented level and generalized before the body sees it.
type Let struct {
	At   Pos
	Name string
	Ann  types.Type // always ignored by this core
	Rhs  Term
	Body Term
}

// Block is a non-empty sequence of terms evaluated in order; its type
// is the type of its last term.
type Block struct {
	At    Pos
	Terms []Term
}

// ErrorLit models a source-level error/panic literal. It unifies with
// any expected type at its use site; Type is nil on input and holds
// the fresh variable (or its resolved type, once closed) afterward.
type ErrorLit struct {
	At   Pos
	Msg  string
	Type types.Type
}

// BuiltinTag identifies a built-in function or constant by name; the
// signature table in internal/builtins maps tags to closed types.
type BuiltinTag string

// Builtin references a built-in by tag; its signature is looked up in
// the table supplied to internal/infer.Run.
type Builtin struct {
	At  Pos
	Tag BuiltinTag
}

// DynAccess is a dynamic field/index access form. This core never
// supports it: the driver always fails with KindUnsupported on
// encountering one.
type DynAccess struct {
	At     Pos
	Target Term
	Field  string
}

// LitKind tags the kind of literal a Constant carries; the literal's
// type follows directly from its kind.
type LitKind int

const (
	LitInt LitKind = iota
	LitDecimal
	LitBool
	LitString
	LitUnit
	LitTime
	LitGuard
)

// Constant is a literal value. Value is opaque to the inference
// engine; only Kind determines its type.
type Constant struct {
	At    Pos
	Kind  LitKind
	Value any
}

// ObjectField is one field: value pair of an ObjectLit, in source
// order.
type ObjectField struct {
	Name  string
	Value Term
}

// ObjectLit is a record literal. Object literals always elaborate to a
// closed row — there is no surface syntax in this core for declaring
// an open-row literal.
type ObjectLit struct {
	At     Pos
	Fields []ObjectField
}

// ListLit is a list literal, possibly empty. ElemType is nil on input
// and holds the (possibly still-polymorphic, pre-generalization)
// element type once inferred.
type ListLit struct {
	At       Pos
	Items    []Term
	ElemType types.Type
}

// TyApp is an elaboration-only node: an explicit type application
// wrapping a polymorphic use site, with a non-empty list of type
// arguments in quantifier order.
type TyApp struct {
	At   Pos
	Term Term
	Args []types.Type
}

// TyAbs is an elaboration-only node: an explicit type abstraction
// introduced by generalization. Vars is the non-empty, order-preserved
// quantifier list; de Bruijn closure does not rewrite Vars itself
// (binder identity is positional) — it rewrites every Var/RowVar
// occurrence within Body (and within any embedded Type elsewhere in
// the term) into a NamedDeBruijn reference.
type TyAbs struct {
	At   Pos
	Vars []*types.Var
	Body Term
}

func (Var) termNode()       {}
func (Lam) termNode()       {}
func (App) termNode()       {}
func (Let) termNode()       {}
func (Block) termNode()     {}
func (ErrorLit) termNode()  {}
func (Builtin) termNode()   {}
func (DynAccess) termNode() {}
func (Constant) termNode()  {}
func (ObjectLit) termNode() {}
func (ListLit) termNode()   {}
func (TyApp) termNode()     {}
func (TyAbs) termNode()     {}
