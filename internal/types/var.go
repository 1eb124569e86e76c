package types

import (
	"fmt"
	"sync/atomic"

	"github.com/levelrow/typeinfer/internal/config"
)

// VarState tags the three states a type-variable cell can hold.
//
//	Unbound ──(occurs lowering)──► Unbound (lower level)
//	Unbound ──(unify_var)────────► Link
//	Unbound ──(generalize)───────► Bound
//	Link    ──(transparent)──────► follows
//	Bound   terminal within a scheme boundary
type VarState int

const (
	// Unbound is a free inference variable, not yet constrained.
	Unbound VarState = iota
	// Bound is a generalized variable; only appears during and after
	// generalization, and inside closed Scheme bodies.
	Bound
	// Link is a forwarded variable — the union-find parent pointer.
	// Reads must transparently follow Link chains.
	Link
)

// Var is a mutable type-variable cell. Two variables are equal iff
// their cells are the same pointer (reference identity), never by
// comparing Unique values.
type Var struct {
	State VarState
	Name  string // display name only; no semantic role
	Uniq  Unique
	Level Level // meaningful only while State == Unbound
	Link  Type  // meaningful only while State == Link
	IsRow bool  // true if this cell stands for a row tail rather than a plain type
}

// Unique is a monotonically increasing identity assigned to every
// fresh type variable at allocation time.
type Unique uint64

// Level is a non-negative generalization rank. Entering a let
// right-hand side increments the current level; leaving it decrements.
type Level int

// Supply owns the fresh-variable counter and the current-level
// register for a single inference run. Per §5 of the design, every
// run must use an independent Supply: sharing one across concurrent
// runs is a data race.
type Supply struct {
	counter uint64
	level   Level
}

// NewSupply returns a Supply whose counter starts at start (so a
// downstream pass sharing Uniques with an earlier phase can continue
// allocating without collisions) and whose level starts at 1.
func NewSupply(start uint64) *Supply {
	return &Supply{counter: start, level: 1}
}

// Fresh allocates a new Unbound cell at the current level and returns
// a *Var pointing at it.
func (s *Supply) Fresh() *Var {
	u := atomic.AddUint64(&s.counter, 1)
	return &Var{
		State: Unbound,
		Name:  fmt.Sprintf("%s%d", config.FreshVarPrefix, u),
		Uniq:  Unique(u),
		Level: s.level,
	}
}

// FreshRow allocates a new Unbound cell intended for use as a row
// tail variable; it is otherwise identical to Fresh, differing only
// in its display-name prefix for readability of diagnostics.
func (s *Supply) FreshRow() *Var {
	u := atomic.AddUint64(&s.counter, 1)
	return &Var{
		State: Unbound,
		Name:  fmt.Sprintf("%s%d", config.FreshRowVarPrefix, u),
		Uniq:  Unique(u),
		Level: s.level,
		IsRow: true,
	}
}

// EnterLevel increments the current level. Call before inferring a
// let right-hand side, and once at the top of a run.
func (s *Supply) EnterLevel() {
	s.level++
}

// LeaveLevel decrements the current level.
func (s *Supply) LeaveLevel() {
	s.level--
}

// CurrentLevel observes the level register.
func (s *Supply) CurrentLevel() Level {
	return s.level
}
