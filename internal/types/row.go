package types

import "sort"

// Row is the sum of record-row variants: the closed empty record, an
// open row bound to a single inference variable, or a set of known
// fields with an optional open tail.
//
// RVar.Ref and RExtend.Tail are Type-valued rather than raw *Var
// pointers: during inference they hold TVar{Cell: v} (so the usual
// Link-chain machinery in Prune applies uniformly to row tails and
// plain type variables), and after de Bruijn closure they hold a
// NamedDeBruijn reference instead. Helpers in this file (TailCell)
// bridge between the two.
type Row interface {
	rowNode()
}

// REmpty is the closed empty record.
type REmpty struct{}

// RVar is an open row not yet constrained to either EmptyRow or
// RowTy. Ref is TVar{Cell} pre-closure, NamedDeBruijn post-closure.
type RVar struct {
	Ref Type
}

// RExtend is a set of known field:type bindings plus an optional open
// tail. Tail == nil means the row is closed and Fields is exact; a
// non-nil Tail (TVar{Cell} pre-closure, NamedDeBruijn post-closure)
// means the row is open and Fields is a lower bound extendable
// through the tail.
type RExtend struct {
	Fields map[string]Type
	Tail   Type
}

func (REmpty) rowNode()  {}
func (RVar) rowNode()    {}
func (RExtend) rowNode() {}

// TailCell extracts the live *Var cell from a pre-closure row tail
// reference (TVar{Cell: v}). ok is false once closure has replaced the
// reference with a NamedDeBruijn, or if t is nil.
func TailCell(t Type) (v *Var, ok bool) {
	tv, ok := t.(TVar)
	if !ok {
		return nil, false
	}
	return tv.Cell, true
}

// SortedLabels returns the field names of fields in ascending order,
// used wherever row operations must iterate deterministically (unify
// error reporting, generalization, printing). Semantics never depend
// on this order — only diagnostics and goldens do.
func SortedLabels(fields map[string]Type) []string {
	labels := make([]string, 0, len(fields))
	for k := range fields {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}

// Closed reports whether r is a row with no open tail: REmpty, or
// RExtend with a nil Tail. RVar is never closed (it is not yet known
// to be either).
func Closed(r Row) bool {
	switch r := r.(type) {
	case REmpty:
		return true
	case RExtend:
		return r.Tail == nil
	default:
		return false
	}
}
