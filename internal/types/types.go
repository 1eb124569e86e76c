// Package types implements the in-memory type representation shared by
// unification, instantiation, generalization, and de Bruijn closure: a
// mutable-cell type-variable representation during inference, and the
// immutable NamedDeBruijn-indexed representation produced by closure.
package types

// PrimKind enumerates the primitive ground types.
type PrimKind int

const (
	Int PrimKind = iota
	Decimal
	Bool
	String
	Unit
	Time
	Guard
)

func (p PrimKind) String() string {
	switch p {
	case Int:
		return "Int"
	case Decimal:
		return "Decimal"
	case Bool:
		return "Bool"
	case String:
		return "String"
	case Unit:
		return "Unit"
	case Time:
		return "Time"
	case Guard:
		return "Guard"
	default:
		return "?Prim"
	}
}

// Type is the sum of all type-former variants. It is implemented as an
// interface with an unexported marker method so the variant set is
// closed to this package.
type Type interface {
	typeNode()
}

// TVar wraps a mutable type-variable cell. During inference its cell's
// State is Unbound or Link; at a scheme boundary it may be Bound.
type TVar struct {
	Cell *Var
}

// TPrim is a ground primitive type.
type TPrim struct {
	Kind PrimKind
}

// TFun is a right-associative function arrow: Dom -> Codom.
type TFun struct {
	Dom   Type
	Codom Type
}

// TList is a homogeneous list type.
type TList struct {
	Elem Type
}

// TRow is a record type wrapping a Row.
type TRow struct {
	Row Row
}

// TTable is a tabular type sharing row structure with TRow.
type TTable struct {
	Row Row
}

// TCap is the opaque capability type; it carries no payload.
type TCap struct{}

// ForallVar names one binder of a TForall: a display name plus whether
// the binder stands for a row tail (so references to it must be
// re-wrapped in TRow) or a plain type.
type ForallVar struct {
	Name  string
	IsRow bool
}

// TForall is a quantified, closed (de-Bruijn-indexed) type. It appears
// only at scheme boundaries — the output of closure, or a built-in
// signature supplied already in closed form — and never beneath
// another type constructor (predicative polymorphism only). Unlike
// Scheme, which quantifies live mutable cells during inference, TForall
// binds positions: occurrences inside Body are NamedDeBruijn references
// whose Index selects into Vars.
type TForall struct {
	Vars []ForallVar
	Body Type
}

// NamedDeBruijn is a closed, de-Bruijn-indexed bound variable reference,
// produced by internal/debruijn closure and written directly by
// internal/builtins for built-in signatures. Index counts
// outward from its binding TForall/TyAbs: index 0 is the innermost
// binder's first-listed variable.
type NamedDeBruijn struct {
	Index       int
	DisplayName string
}

func (t TVar) String() string          { return String(t) }
func (t TPrim) String() string         { return String(t) }
func (t TFun) String() string          { return String(t) }
func (t TList) String() string         { return String(t) }
func (t TRow) String() string          { return String(t) }
func (t TTable) String() string        { return String(t) }
func (t TCap) String() string          { return String(t) }
func (t TForall) String() string       { return String(t) }
func (t NamedDeBruijn) String() string { return String(t) }

func (TVar) typeNode()          {}
func (TPrim) typeNode()         {}
func (TFun) typeNode()          {}
func (TList) typeNode()         {}
func (TRow) typeNode()          {}
func (TTable) typeNode()        {}
func (TCap) typeNode()          {}
func (TForall) typeNode()       {}
func (NamedDeBruijn) typeNode() {}

// Witness renders a type-variable cell as the Type value used to
// stand for it wherever a Type is required in its own right — as a
// TyApp argument, or as the substituted occurrence of a freshly
// instantiated quantifier. Row-tail cells wrap themselves in TRow so a
// row quantifier still yields a Type.
func Witness(v *Var) Type {
	if v.IsRow {
		return TRow{Row: RVar{Ref: TVar{Cell: v}}}
	}
	return TVar{Cell: v}
}

// Fun is a convenience constructor folding a parameter list and a
// result type into a right-associative chain of TFun, mirroring the
// driver's `foldr Fun tb params` construction for Lam.
func Fun(params []Type, result Type) Type {
	t := result
	for i := len(params) - 1; i >= 0; i-- {
		t = TFun{Dom: params[i], Codom: t}
	}
	return t
}
