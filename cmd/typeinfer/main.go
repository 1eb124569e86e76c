// Command typeinfer drives internal/infer.Run over the canonical
// fixtures from this engine's testable-properties scenarios (identity,
// let-polymorphism, row extension, occurs-check failure, empty-list
// generalization), printing each fixture's closed scheme and the Go node
// type of its elaborated term. It doubles as runnable documentation of
// those scenarios and, via "serve", as a launcher for an
// internal/rpcservice server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/levelrow/typeinfer/internal/builtins"
	"github.com/levelrow/typeinfer/internal/config"
	"github.com/levelrow/typeinfer/internal/diagnostics"
	"github.com/levelrow/typeinfer/internal/infer"
	"github.com/levelrow/typeinfer/internal/rpcservice"
	"github.com/levelrow/typeinfer/internal/runcache"
	"github.com/levelrow/typeinfer/internal/types"
)

func main() {
	args := os.Args[1:]
	for len(args) > 0 && (args[0] == "-v" || args[0] == "--verbose") {
		config.Verbose = true
		args = args[1:]
	}

	if len(args) == 0 {
		runFixtures(args)
		return
	}

	switch args[0] {
	case "serve":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: typeinfer serve <addr>")
			os.Exit(1)
		}
		serve(args[1])
	case "help", "-help", "--help":
		printUsage()
	default:
		runFixtures(args)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: typeinfer [-v] [run [-config path] [-cache path]] | serve <addr> | help")
}

// serve starts an internal/rpcservice.Server and blocks until killed.
func serve(addr string) {
	runID := uuid.New().String()
	srv, err := rpcservice.NewServer(builtins.Default)
	if err != nil {
		fmt.Fprintf(os.Stderr, "typeinfer: %v\n", err)
		os.Exit(1)
	}
	logf("run %s: serving on %s", runID, addr)
	if err := srv.Serve(addr); err != nil {
		fmt.Fprintf(os.Stderr, "typeinfer: %v\n", err)
		os.Exit(1)
	}
}

// runFixtures runs every canonical scenario through infer.Run, optionally
// consulting a runcache and an extended builtin table loaded from a
// -config typeinfer.yaml.
func runFixtures(args []string) {
	runID := uuid.New().String()
	start := time.Now()

	cfg, err := loadCLIConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "typeinfer: %v\n", err)
		os.Exit(1)
	}

	table := builtins.Default
	if len(cfg.ExtraBuiltins) > 0 {
		table = mergeBuiltins(builtins.Default, cfg.ExtraBuiltins)
	}

	var cache *runcache.Cache
	if cfg.CachePath != "" {
		cache, err = runcache.Open(cfg.CachePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "typeinfer: %v\n", err)
			os.Exit(1)
		}
		defer cache.Close()
	}

	hits, misses := 0, 0
	for _, f := range fixtures() {
		scheme, elaborated, cacheHit := runOne(cache, table, f)
		if cacheHit {
			hits++
		} else {
			misses++
		}
		printResult(f.name, scheme, elaborated)
	}

	logf("run %s: %d fixtures, %d cache hits, %d cache misses, started %s",
		runID, len(fixtures()), hits, misses, humanize.Time(start))
}

func runOne(cache *runcache.Cache, table builtins.Table, f fixture) (scheme, elaborated string, cacheHit bool) {
	ctx := context.Background()

	if cache != nil {
		termJSON := fixtureDigest(f)
		key := runcache.Key(tableVersion, termJSON)
		if entry, ok, err := cache.Lookup(ctx, key); err == nil && ok {
			return entry.Scheme, entry.Elaborated, true
		}
	}

	supply := types.NewSupply(0)
	ty, term, err := infer.Run(supply, table, f.term)
	if err != nil {
		return formatError(err), "", false
	}

	schemeStr := types.String(ty)
	elaboratedStr := fmt.Sprintf("%T", term)

	if cache != nil {
		termJSON := fixtureDigest(f)
		key := runcache.Key(tableVersion, termJSON)
		_ = cache.Store(ctx, key, runcache.Entry{Scheme: schemeStr, Elaborated: elaboratedStr})
	}

	return schemeStr, elaboratedStr, false
}

func formatError(err error) string {
	if de, ok := err.(*diagnostics.Error); ok {
		return fmt.Sprintf("error %s: %s", de.Kind, de.Error())
	}
	return err.Error()
}

// fixtureDigest stands in for a full JSON encoding of f.term for
// caching purposes; fixtures are named and finite, so the name alone
// is a sufficient, collision-free digest input here.
func fixtureDigest(f fixture) []byte {
	return []byte(f.name)
}

const tableVersion = "default-v1"

func printResult(name, scheme, elaborated string) {
	label := name
	if colorize() {
		label = "\033[1;36m" + name + "\033[0m"
	}
	fmt.Printf("%s: %s\n", label, scheme)
	if elaborated != "" {
		fmt.Printf("  elaborated: %s\n", elaborated)
	}
}

func colorize() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func logf(format string, args ...any) {
	if !config.Verbose {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
