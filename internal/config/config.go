// Package config holds process-wide switches shared by the inference
// engine and its ambient tooling: the fresh-variable naming convention,
// and the deterministic-display toggle used by golden tests.
package config

// FreshVarPrefix is prepended to the Unique when naming a freshly
// allocated type variable cell. The display name carries no semantic
// role; it exists purely for error messages and pretty-printing.
const FreshVarPrefix = "a_"

// FreshRowVarPrefix is the analogous prefix for row tail variables.
const FreshRowVarPrefix = "r_"

// IsTestMode is consulted by internal/types.String when rendering a
// bound variable. Both settings render the cell's own Unique-suffixed
// name; no sequence-based renaming (a, b, c, ...) is performed.
var IsTestMode = false

// Verbose gates cmd/typeinfer's stderr log lines (run id, fixture
// count, cache hits and misses). internal/infer emits no tracing of
// its own. Off by default; cmd/typeinfer turns it on via -v.
var Verbose = false
