package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/peterh/liner"

	"knot/internal/diag"
	"knot/internal/driver"
	"knot/internal/history"
	"knot/internal/lexer"
	"knot/internal/source"
	"knot/internal/token"
	"knot/internal/version"
)

const (
	contPrompt   = "  ... "
	historyLimit = 500
)

// lineReader is the part of liner.State the loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// repl runs the interactive loop on a liner terminal. One global scope
// lives for the whole session; `wipe` resets it.
func (a *app) repl(ctx context.Context, s *driver.Session) error {
	fmt.Fprintf(a.stdout, "knot %s, type exit to quit\n", version.Colored())

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetWordCompleter(func(line string, pos int) (string, []string, string) {
		return complete(s, line, pos)
	})

	store := a.openHistory()
	if store != nil {
		defer store.Close()
		if entries, err := store.Recent(historyLimit); err == nil {
			for _, line := range history.Lines(entries) {
				ln.AppendHistory(line)
			}
		} else {
			a.logger.Warn().Err(err).Msg("history not loaded")
		}
	}

	return a.replLoop(ctx, s, ln, store)
}

func (a *app) openHistory() *history.Store {
	path := a.cfg.HistoryPath()
	if path == "" {
		return nil
	}
	store, err := history.Open(path)
	if err != nil {
		a.logger.Warn().Err(err).Str("path", path).Msg("history disabled")
		return nil
	}
	return store
}

// replLoop reads complete inputs until exit or EOF. Errors in user code are
// printed and the loop goes on.
func (a *app) replLoop(ctx context.Context, s *driver.Session, in lineReader, store *history.Store) error {
	prompt := a.cfg.REPL.Prompt
	if prompt == "" {
		prompt = "knot> "
	}
	for n := 1; ; n++ {
		src, ok := readInput(in, prompt, contPrompt)
		if !ok {
			fmt.Fprintln(a.stdout)
			return nil
		}
		trimmed := strings.TrimSpace(src)
		switch trimmed {
		case "":
			continue
		case "exit":
			return nil
		case "clear":
			fmt.Fprint(a.stdout, "\x1b[H\x1b[2J")
			continue
		case "wipe":
			if err := s.VM.Reset(); err != nil {
				printError(a.stderr, err)
			}
			continue
		}

		in.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		err := a.evalLine(ctx, s, fmt.Sprintf("<repl:%d>", n), src)
		if store != nil {
			if herr := store.Add(src, err != nil); herr != nil {
				a.logger.Debug().Err(herr).Msg("history write failed")
			}
		}
	}
}

func (a *app) evalLine(ctx context.Context, s *driver.Session, name, src string) error {
	stop := watchInterrupt(s.VM.Interrupt())
	defer stop()
	return a.report(s.RunSource(ctx, name, []byte(src)))
}

// readInput collects lines until the input no longer needs a continuation.
// ok is false on EOF. Ctrl-C drops the pending input.
func readInput(in lineReader, prompt, cont string) (src string, ok bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := in.Prompt(p)
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "repl: %v\n", err)
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !needsMore(b.String()) {
			return b.String(), true
		}
	}
}

// needsMore reports whether src stops inside a string, a block comment, an
// open block (':' without its ';') or an open bracket.
func needsMore(src string) bool {
	fs := source.NewFileSet()
	toks, err := lexer.Tokenize(fs.Get(fs.AddVirtual("<input>", []byte(src))), lexer.Options{})
	if err != nil {
		switch diag.CodeOf(err) {
		case diag.LexUnterminatedString, diag.LexUnterminatedBlockComment:
			return true
		}
		return false
	}
	depth := 0
	for _, tok := range toks {
		switch tok.Kind {
		case token.Colon, token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.Semicolon, token.RParen, token.RBracket, token.RBrace:
			depth--
		}
	}
	return depth > 0
}

// complete is the liner word completer: names of keywords, built-ins and
// session variables, or the methods of a variable's dtype after a dot.
func complete(s *driver.Session, line string, pos int) (head string, completions []string, tail string) {
	if pos > len(line) {
		pos = len(line)
	}
	start := wordStart(line, pos)
	head, prefix, tail := line[:start], line[start:pos], line[pos:]

	var candidates []string
	if start > 0 && line[start-1] == '.' {
		recvStart := wordStart(line, start-1)
		v, ok := s.VM.Global().Lookup(line[recvStart : start-1])
		if !ok {
			return head, nil, tail
		}
		candidates = s.VM.Registry().MethodNames(v.Kind())
	} else {
		if prefix == "" {
			return head, nil, tail
		}
		candidates = append(candidates, token.Keywords()...)
		candidates = append(candidates, s.VM.Registry().Names()...)
		candidates = append(candidates, s.VM.Global().Names()...)
	}

	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) && !seen[c] {
			seen[c] = true
			completions = append(completions, c)
		}
	}
	slices.Sort(completions)
	return head, completions, tail
}

func wordStart(line string, pos int) int {
	i := pos
	for i > 0 && isWordByte(line[i-1]) {
		i--
	}
	return i
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
