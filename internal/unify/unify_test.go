package unify

import (
	"testing"

	"github.com/levelrow/typeinfer/internal/diagnostics"
	"github.com/levelrow/typeinfer/internal/types"
)

func TestUnifyPrimMatch(t *testing.T) {
	s := types.NewSupply(0)
	if err := Unify(s, types.TPrim{Kind: types.Int}, types.TPrim{Kind: types.Int}, diagnostics.Pos{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUnifyPrimMismatch(t *testing.T) {
	s := types.NewSupply(0)
	err := Unify(s, types.TPrim{Kind: types.Int}, types.TPrim{Kind: types.Bool}, diagnostics.Pos{})
	if err == nil {
		t.Fatal("expected a mismatch error")
	}
	de, ok := err.(*diagnostics.Error)
	if !ok || de.Kind != diagnostics.KindUnifyMismatch {
		t.Fatalf("got %v, want KindUnifyMismatch", err)
	}
}

func TestUnifyVarWritesLink(t *testing.T) {
	s := types.NewSupply(0)
	v := s.Fresh()
	if err := Unify(s, types.TVar{Cell: v}, types.TPrim{Kind: types.Int}, diagnostics.Pos{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.State != types.Link {
		t.Fatalf("var state = %v, want Link", v.State)
	}
	pruned := types.Prune(types.TVar{Cell: v})
	if p, ok := pruned.(types.TPrim); !ok || p.Kind != types.Int {
		t.Errorf("pruned = %v, want TPrim{Int}", pruned)
	}
}

func TestUnifyOccursCheckFails(t *testing.T) {
	// a ~ (a -> b) must fail: a occurs in its own unification target.
	s := types.NewSupply(0)
	a := s.Fresh()
	b := s.Fresh()
	fn := types.TFun{Dom: types.TVar{Cell: a}, Codom: types.TVar{Cell: b}}
	err := Unify(s, types.TVar{Cell: a}, fn, diagnostics.Pos{})
	if err == nil {
		t.Fatal("expected OccursCheck error")
	}
	de, ok := err.(*diagnostics.Error)
	if !ok || de.Kind != diagnostics.KindOccursCheck {
		t.Fatalf("got %v, want KindOccursCheck", err)
	}
}

func TestUnifyLowersLevels(t *testing.T) {
	s := types.NewSupply(0)
	outer := s.Fresh() // level 1
	s.EnterLevel()
	inner := s.Fresh() // level 2
	s.LeaveLevel()

	fn := types.TFun{Dom: types.TPrim{Kind: types.Int}, Codom: types.TVar{Cell: inner}}
	if err := Unify(s, types.TVar{Cell: outer}, fn, diagnostics.Pos{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.Level != outer.Level {
		t.Errorf("inner level = %d, want lowered to outer's level %d", inner.Level, outer.Level)
	}
}

func closedRow(fields map[string]types.Type) types.Row {
	return types.RExtend{Fields: fields}
}

func TestUnifyRowClosedClosedMatch(t *testing.T) {
	s := types.NewSupply(0)
	l := closedRow(map[string]types.Type{"name": types.TPrim{Kind: types.String}, "age": types.TPrim{Kind: types.Int}})
	r := closedRow(map[string]types.Type{"age": types.TPrim{Kind: types.Int}, "name": types.TPrim{Kind: types.String}})
	if err := UnifyRow(s, l, r, diagnostics.Pos{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUnifyRowClosedClosedKeyMismatch(t *testing.T) {
	s := types.NewSupply(0)
	l := closedRow(map[string]types.Type{"name": types.TPrim{Kind: types.String}})
	r := closedRow(map[string]types.Type{"age": types.TPrim{Kind: types.Int}})
	err := UnifyRow(s, l, r, diagnostics.Pos{})
	if err == nil {
		t.Fatal("expected key-set mismatch")
	}
}

func TestUnifyRowOpenVsClosedExtendsTail(t *testing.T) {
	s := types.NewSupply(0)
	tail := s.FreshRow()
	open := types.RExtend{Fields: map[string]types.Type{"name": types.TPrim{Kind: types.String}}, Tail: types.TVar{Cell: tail}}
	closed := closedRow(map[string]types.Type{
		"name": types.TPrim{Kind: types.String},
		"age":  types.TPrim{Kind: types.Int},
	})
	if err := UnifyRow(s, open, closed, diagnostics.Pos{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pruned, err := types.PruneRow(types.RVar{Ref: types.TVar{Cell: tail}})
	if err != nil {
		t.Fatalf("PruneRow: %v", err)
	}
	ext, ok := pruned.(types.RExtend)
	if !ok {
		t.Fatalf("tail resolved to %#v, want RExtend", pruned)
	}
	if _, has := ext.Fields["age"]; !has || len(ext.Fields) != 1 {
		t.Errorf("tail fields = %v, want exactly {age: Int}", ext.Fields)
	}
}

func TestUnifyRowOpenVsOpenAllocatesIndependentTails(t *testing.T) {
	s := types.NewSupply(0)
	lt := s.FreshRow()
	rt := s.FreshRow()
	l := types.RExtend{Fields: map[string]types.Type{"name": types.TPrim{Kind: types.String}}, Tail: types.TVar{Cell: lt}}
	r := types.RExtend{Fields: map[string]types.Type{"age": types.TPrim{Kind: types.Int}}, Tail: types.TVar{Cell: rt}}
	if err := UnifyRow(s, l, r, diagnostics.Pos{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lt.State != types.Link || rt.State != types.Link {
		t.Fatal("expected both original tails to be linked")
	}
	lResolved, err := types.PruneRow(types.RVar{Ref: types.TVar{Cell: lt}})
	if err != nil {
		t.Fatalf("PruneRow(lt): %v", err)
	}
	lExt := lResolved.(types.RExtend)
	if _, has := lExt.Fields["age"]; !has {
		t.Errorf("left tail should carry right's unmatched field 'age', got %v", lExt.Fields)
	}
	tailCell, ok := types.TailCell(lExt.Tail)
	if !ok {
		t.Fatal("expected flattened tail to still reference a live cell")
	}
	if tailCell == rt || tailCell == lt {
		t.Error("open/open unification should allocate fresh tails, not reuse the originals")
	}
}
