// Package main implements the flatc command: it tokenizes and flattens
// source files into evaluation order.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/you-not-fish/flatc/internal/diag"
	"github.com/you-not-fish/flatc/internal/lexref"
	"github.com/you-not-fish/flatc/internal/syntax"
)

// Command flags
var (
	emitTokens = flag.Bool("emit-tokens", false, "Output token stream")
	emitTrace  = flag.Bool("emit-trace", false, "Output flattened token sequence (default)")
	emitTree   = flag.Bool("emit-tree", false, "Output tree rebuilt from the flattened sequence")
	format     = flag.String("format", "text", "Output format (text or json)")
	lexDiff    = flag.Bool("lex-diff", false, "Compare the scanner against the reference lexer")
	repl       = flag.Bool("repl", false, "Start an interactive session")
	steps      = flag.Bool("steps", false, "Print parser stack and output after every token")
	trace      = flag.Bool("trace", false, "Output timing trace")
	maxTokens  = flag.Int("max-tokens", 0, "Abort after this many significant tokens (0 = unlimited)")
	version    = flag.Bool("version", false, "Print version")
)

// Version information
const Version = "0.1.0-dev"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "flatc %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: flatc [options] <file.src | ->\n")
		fmt.Fprintf(os.Stderr, "       flatc -repl\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("flatc version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	if *format != "text" && *format != "json" {
		fmt.Fprintf(os.Stderr, "error: unknown format %q\n", *format)
		flag.Usage()
		os.Exit(2)
	}

	if *repl {
		os.Exit(runRepl())
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "error: no input file")
		fmt.Fprintln(os.Stderr, "usage: flatc [options] <file.src>")
		os.Exit(2)
	}

	filename := args[0]

	switch {
	case *emitTokens:
		os.Exit(runEmitTokens(filename))
	case *lexDiff:
		os.Exit(runLexDiff(filename))
	case *emitTree:
		os.Exit(runEmitTree(filename))
	default:
		os.Exit(runEmitTrace(filename))
	}
}

// ----------------------------------------------------------------------------
// Pipeline helpers

// phase prints the time spent since start when -trace is set.
func phase(name string, start time.Time) {
	if *trace {
		fmt.Fprintf(os.Stderr, "%-10s %v\n", name+":", time.Since(start))
	}
}

// readSource reads filename, or standard input for "-".
func readSource(filename string) (string, error) {
	defer phase("read", time.Now())

	var data []byte
	var err error
	if filename == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(filename)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// loadTokens reads and validates filename and returns its source and
// tokens. Errors have already been reported when ok is false.
func loadTokens(filename string) (src string, toks []syntax.Token, ok bool) {
	src, err := readSource(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return "", nil, false
	}
	if err := syntax.ValidateASCII(src); err != nil {
		diag.Render(os.Stderr, filename, src, err)
		return "", nil, false
	}

	start := time.Now()
	toks = syntax.Tokenize(src)
	phase("tokenize", start)
	return src, toks, true
}

// parseFile runs the whole front end over filename.
func parseFile(filename string) (src string, out []syntax.Token, ok bool) {
	src, toks, ok := loadTokens(filename)
	if !ok {
		return "", nil, false
	}

	p := syntax.NewParser(toks)
	p.SetMaxTokens(*maxTokens)
	if *steps {
		p.SetTrace(os.Stderr)
	}

	start := time.Now()
	out, err := p.Parse()
	phase("parse", start)
	if err != nil {
		diag.Render(os.Stderr, filename, src, err)
		return "", nil, false
	}
	return src, out, true
}

// ----------------------------------------------------------------------------
// Commands

// runEmitTokens scans the input file and prints all tokens with positions.
func runEmitTokens(filename string) int {
	src, toks, ok := loadTokens(filename)
	if !ok {
		return 1
	}

	ix := syntax.NewLineIndex(filename, src)
	switch *format {
	case "json":
		if err := syntax.FprintTokensJSON(os.Stdout, toks, ix); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	default:
		syntax.FprintTokens(os.Stdout, toks, ix)
	}
	return 0
}

// runEmitTrace parses the input file and prints the flattened sequence,
// one top-level statement per line.
func runEmitTrace(filename string) int {
	src, out, ok := parseFile(filename)
	if !ok {
		return 1
	}

	switch *format {
	case "json":
		if err := syntax.FprintTokensJSON(os.Stdout, out, syntax.NewLineIndex(filename, src)); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	default:
		syntax.FprintTrace(os.Stdout, out)
	}
	return 0
}

// runEmitTree parses the input file, folds the flattened sequence into a
// tree and prints it.
func runEmitTree(filename string) int {
	_, out, ok := parseFile(filename)
	if !ok {
		return 1
	}

	start := time.Now()
	tree, err := syntax.Build(out)
	phase("build", start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	switch *format {
	case "json":
		if err := syntax.FprintJSON(os.Stdout, tree); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	default:
		syntax.Fprint(os.Stdout, tree)
	}
	return 0
}

// runLexDiff lexes the input with the scanner and the reference lexer and
// prints both side by side. It fails if they disagree anywhere.
func runLexDiff(filename string) int {
	src, _, ok := loadTokens(filename)
	if !ok {
		return 1
	}

	rows, err := lexref.Diff(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: reference lexer: %v\n", err)
		return 1
	}
	lexref.FormatDiff(os.Stdout, rows, 0)

	if bad := lexref.Mismatches(rows); len(bad) > 0 {
		fmt.Fprintf(os.Stderr, "%s: %d of %d tokens differ\n", filename, len(bad), len(rows))
		return 1
	}
	return 0
}
