package diagnostics

import (
	"strings"
	"testing"
)

func TestKindCode(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindUnifyMismatch, "E-UNIFY"},
		{KindOccursCheck, "E-OCCURS"},
		{KindImpredicative, "E-IMPRED"},
		{KindUnboundVariable, "E-UNBOUND"},
		{KindUnsupportedTopLevel, "E-TOPLEVEL"},
		{KindEscapedVariable, "E-ESCAPE"},
		{KindRowLink, "E-ROWLINK"},
		{KindUnsupported, "E-UNSUPPORTED"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind.String() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := NewError(KindOccursCheck, Pos{Line: 3, Column: 7}, "variable a_1 occurs in Int -> a_1")
	msg := err.Error()
	if !strings.Contains(msg, "E-OCCURS") {
		t.Errorf("Error() = %q, want it to contain E-OCCURS", msg)
	}
	if !strings.Contains(msg, "3:7") {
		t.Errorf("Error() = %q, want it to contain position 3:7", msg)
	}
}

func TestErrorZeroPos(t *testing.T) {
	err := Newf(KindUnboundVariable, Pos{}, "index %d out of range", 4)
	if !strings.Contains(err.Error(), "?") {
		t.Errorf("Error() = %q, want zero Pos rendered as ?", err.Error())
	}
}
