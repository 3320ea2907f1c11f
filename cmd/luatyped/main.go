// Command luatyped is the external driver for the lexer/parser core:
// it owns reading the source file, NUL-terminating the buffer, and
// dumping tokens/AST, none of which are the core library's concern
// (spec §1).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	luatyped "github.com/MentaalAchtergesteld/lua-typed"
)

type args struct {
	inputPath  *string
	tokensOnly *bool
	astOnly    *bool
	arenaSize  *int
	buckets    *int
}

func readArgs() *args {
	a := &args{
		inputPath:  flag.String("input", "", "Path to the source file"),
		tokensOnly: flag.Bool("tokens-only", false, "Dump only the token table"),
		astOnly:    flag.Bool("ast-only", false, "Dump only the AST"),
		arenaSize:  flag.Int("arena-size", 1<<16, "Initial arena capacity in bytes"),
		buckets:    flag.Int("pool-buckets", 256, "String pool bucket count"),
	}
	flag.Parse()
	return a
}

func main() {
	a := readArgs()
	if *a.inputPath == "" {
		log.Fatal("input file not informed")
	}

	source, err := os.ReadFile(*a.inputPath)
	if err != nil {
		log.Fatalf("can't open input file: %s", err.Error())
	}
	// The core contract requires a NUL-terminated buffer (spec §1);
	// Tokenize itself trims the terminator back off before scanning.
	source = append(source, 0)

	arena := luatyped.NewArena(*a.arenaSize)
	defer arena.Destroy()
	pool := luatyped.NewPool(arena, *a.buckets)

	tokens := luatyped.Tokenize(source, pool)
	if !*a.astOnly {
		luatyped.DumpTokens(os.Stdout, tokens, pool)
	}

	if *a.tokensOnly {
		// The parser never runs in this mode, so lexical errors need
		// their own surface rather than riding along on its panic-mode
		// diagnostics.
		lexErrs := luatyped.CollectLexErrors(tokens, pool)
		for _, lexErr := range lexErrs {
			fmt.Fprintln(os.Stderr, lexErr.Error())
		}
		if len(lexErrs) > 0 {
			os.Exit(1)
		}
		return
	}

	root, success := luatyped.Parse(tokens, arena, pool)
	luatyped.DumpStmt(os.Stdout, root, pool)

	if !success {
		os.Exit(1)
	}
}
