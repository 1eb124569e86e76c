package types

import (
	"fmt"
	"strings"

	"github.com/levelrow/typeinfer/internal/config"
)

// String renders t for diagnostics and golden tests. It does not call
// Prune (no path compression), but a Link cell renders as the type it
// links to, so the rendering is already dereferenced.
func String(t Type) string {
	switch t := t.(type) {
	case TVar:
		return varString(t.Cell)
	case TPrim:
		return t.Kind.String()
	case TFun:
		return fmt.Sprintf("(%s -> %s)", String(t.Dom), String(t.Codom))
	case TList:
		return fmt.Sprintf("[%s]", String(t.Elem))
	case TRow:
		return fmt.Sprintf("{%s}", rowString(t.Row))
	case TTable:
		return fmt.Sprintf("Table{%s}", rowString(t.Row))
	case TCap:
		return "Cap"
	case TForall:
		names := make([]string, len(t.Vars))
		for i, v := range t.Vars {
			names[i] = v.Name
		}
		return fmt.Sprintf("forall %s. %s", strings.Join(names, " "), String(t.Body))
	case NamedDeBruijn:
		return t.DisplayName
	default:
		return "?"
	}
}

// SchemeString renders a Scheme, showing its quantifier list when
// non-empty.
func SchemeString(s Scheme) string {
	if len(s.Vars) == 0 {
		return String(s.Body)
	}
	names := make([]string, len(s.Vars))
	for i, v := range s.Vars {
		names[i] = varString(v)
	}
	return fmt.Sprintf("forall %s. %s", strings.Join(names, " "), String(s.Body))
}

func varString(v *Var) string {
	switch v.State {
	case Link:
		return String(v.Link)
	case Bound:
		if config.IsTestMode {
			return v.Name
		}
		return v.Name
	default: // Unbound
		return v.Name
	}
}

func rowString(r Row) string {
	switch r := r.(type) {
	case REmpty:
		return ""
	case RVar:
		return "| " + String(r.Ref)
	case RExtend:
		labels := SortedLabels(r.Fields)
		parts := make([]string, len(labels))
		for i, l := range labels {
			parts[i] = fmt.Sprintf("%s: %s", l, String(r.Fields[l]))
		}
		body := strings.Join(parts, ", ")
		if r.Tail == nil {
			return body
		}
		if body == "" {
			return "| " + String(r.Tail)
		}
		return body + " | " + String(r.Tail)
	default:
		return "?"
	}
}
