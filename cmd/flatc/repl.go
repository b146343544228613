package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/you-not-fish/flatc/internal/diag"
	"github.com/you-not-fish/flatc/internal/syntax"
)

const (
	historyFile = ".flatc_history"
	promptMain  = "flat> "
	promptCont  = "....> "
	replName    = "<repl>"
)

// runRepl reads statements interactively and prints their flattened form.
// Input that ends inside an open scope is continued on the next line.
func runRepl() int {
	fmt.Printf("flatc %s, :quit to exit, :tokens to toggle token dumps\n", Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	s := &session{out: os.Stdout, errOut: os.Stderr}
	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}
		if s.handle(code) {
			break
		}
		if strings.TrimSpace(code) != "" {
			ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		}
	}
	return 0
}

// readByParseProbe reads lines until they form input that is either valid
// or wrong for a reason other than ending early.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if !needsMore(src) {
			return src, true
		}
	}
}

// needsMore reports whether src stops inside an open scope or after an
// operator, so another line could complete it.
func needsMore(src string) bool {
	_, err := syntax.ParseSource(src)
	return syntax.IsIncomplete(err)
}

// session holds the REPL's output streams and toggles.
type session struct {
	out    io.Writer
	errOut io.Writer
	tokens bool // also dump the token stream
}

// handle runs one complete input. It returns true when the session should
// end.
func (s *session) handle(code string) (exit bool) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return false
	}

	if strings.HasPrefix(trimmed, ":") {
		switch strings.ToLower(trimmed) {
		case ":quit", ":q":
			return true
		case ":tokens":
			s.tokens = !s.tokens
			fmt.Fprintf(s.out, "token dump %s\n", onOff(s.tokens))
		default:
			fmt.Fprintf(s.out, "unknown command %s. Commands: :tokens, :quit\n", trimmed)
		}
		return false
	}

	if err := syntax.ValidateASCII(code); err != nil {
		diag.Render(s.errOut, replName, code, err)
		return false
	}
	toks := syntax.Tokenize(code)
	if s.tokens {
		syntax.FprintTokens(s.out, toks, syntax.NewLineIndex(replName, code))
	}

	p := syntax.NewParser(toks)
	p.SetMaxTokens(*maxTokens)
	out, err := p.Parse()
	if err != nil {
		diag.Render(s.errOut, replName, code, err)
		return false
	}
	syntax.FprintTrace(s.out, out)
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
