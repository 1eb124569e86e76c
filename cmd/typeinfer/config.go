package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/levelrow/typeinfer/internal/builtins"
	"github.com/levelrow/typeinfer/internal/ir"
	"github.com/levelrow/typeinfer/internal/types"
)

// cliConfig is the top-level shape of an optional typeinfer.yaml file,
// the same config-file-via-yaml.v3 idiom as the teacher's ext.Config
// (ext/config.go), scaled down to this engine's one configurable
// surface: additional built-in signatures to merge into
// builtins.Default, and where to keep the memoization cache.
type cliConfig struct {
	CachePath     string            `yaml:"cache_path,omitempty"`
	ExtraBuiltins map[string]string `yaml:"extra_builtins,omitempty"`
}

// loadCLIConfig scans args for "-config <path>" and "-cache <path>"
// overrides, then loads and parses the config file if one was named.
// An absent -config is not an error: the CLI runs fine against
// builtins.Default alone.
func loadCLIConfig(args []string) (cliConfig, error) {
	var cfg cliConfig
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-config":
			if i+1 >= len(args) {
				return cfg, fmt.Errorf("-config requires a path")
			}
			loaded, err := loadConfigFile(args[i+1])
			if err != nil {
				return cfg, err
			}
			cfg = loaded
			i++
		case "-cache":
			if i+1 >= len(args) {
				return cfg, fmt.Errorf("-cache requires a path")
			}
			cfg.CachePath = args[i+1]
			i++
		}
	}
	return cfg, nil
}

func loadConfigFile(path string) (cliConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cliConfig{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg cliConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cliConfig{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// mergeBuiltins layers user-declared builtins (parsed from a
// one-line-per-signature mini notation: "name: Int -> Int -> Int")
// over the default table, without mutating builtins.Default itself.
func mergeBuiltins(base builtins.Table, extra map[string]string) builtins.Table {
	merged := make(builtins.Table, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for name, sig := range extra {
		ty, err := parseSimpleFunctionSignature(sig)
		if err != nil {
			// A malformed user signature is skipped without being
			// reported; the remaining entries are still merged.
			continue
		}
		merged[ir.BuiltinTag(name)] = ty
	}
	return merged
}

// parseSimpleFunctionSignature parses the "A -> B -> C" mini-notation
// for monomorphic builtins declared in typeinfer.yaml. Only the five
// primitive type names Int, Decimal, Bool, String and Unit are
// recognized; anything polymorphic or
// row-typed must still be added to internal/builtins directly.
func parseSimpleFunctionSignature(sig string) (types.Type, error) {
	rawParts := strings.Split(sig, "->")
	if len(rawParts) < 2 {
		return nil, fmt.Errorf("expected at least one -> in %q", sig)
	}
	kinds := make([]types.Type, len(rawParts))
	for i, p := range rawParts {
		k, ok := primByName(strings.TrimSpace(p))
		if !ok {
			return nil, fmt.Errorf("unknown primitive type %q in %q", p, sig)
		}
		kinds[i] = k
	}
	result := kinds[len(kinds)-1]
	params := kinds[:len(kinds)-1]
	return types.Fun(params, result), nil
}

func primByName(name string) (types.Type, bool) {
	switch name {
	case "Int":
		return types.TPrim{Kind: types.Int}, true
	case "Decimal":
		return types.TPrim{Kind: types.Decimal}, true
	case "Bool":
		return types.TPrim{Kind: types.Bool}, true
	case "String":
		return types.TPrim{Kind: types.String}, true
	case "Unit":
		return types.TPrim{Kind: types.Unit}, true
	default:
		return nil, false
	}
}
