package driver

import (
	"context"
	"fmt"

	"github.com/oarkflow/log"

	"knot/internal/ast"
	"knot/internal/lexer"
	"knot/internal/observ"
	"knot/internal/parser"
	"knot/internal/source"
	"knot/internal/token"
	"knot/internal/trace"
	"knot/internal/vm"
)

// Options configures a Session. Every field is optional.
type Options struct {
	Cache  *TokenCache
	Timer  *observ.Timer
	Tracer trace.Tracer
	Logger *log.Logger
}

// Session runs sources against one VM: a script run, `--script`, or a REPL.
// The FileSet grows by one virtual file per REPL line so spans stay valid.
type Session struct {
	FileSet *source.FileSet
	VM      *vm.VM
	opts    Options
}

// NewSession wraps machine. A nil machine gets a default VM.
func NewSession(machine *vm.VM, opts Options) *Session {
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	if opts.Logger == nil {
		opts.Logger = observ.Logger()
	}
	if machine == nil {
		machine = vm.New(nil, vm.Options{Tracer: opts.Tracer})
	}
	return &Session{FileSet: source.NewFileSet(), VM: machine, opts: opts}
}

// LoadFile reads path into the session's FileSet.
func (s *Session) LoadFile(path string) (*source.File, error) {
	id, err := s.FileSet.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return s.FileSet.Get(id), nil
}

// AddSource registers in-memory source (stdin, REPL line, embedded test).
func (s *Session) AddSource(name string, src []byte) *source.File {
	return s.FileSet.Get(s.FileSet.AddVirtual(name, src))
}

// Tokenize lexes file, consulting the token cache for files on disk.
func (s *Session) Tokenize(ctx context.Context, file *source.File) ([]token.Token, error) {
	return tokenize(ctx, file, s.opts)
}

func tokenize(ctx context.Context, file *source.File, opts Options) ([]token.Token, error) {
	span := trace.Begin(opts.Tracer, trace.ScopePhase, "lex", parentSpan(ctx))
	idx := opts.Timer.Begin("lex")

	cacheable := opts.Cache != nil && file.Flags&source.FileVirtual == 0
	if cacheable {
		key := opts.Cache.Key(file)
		toks, ok, err := opts.Cache.Get(key, file.ID)
		switch {
		case err != nil:
			opts.Logger.Warn().Err(err).Str("path", file.Path).Msg("token cache read failed")
		case ok:
			opts.Logger.Debug().Str("path", file.Path).Int("tokens", len(toks)).Msg("token cache hit")
			opts.Timer.End(idx, "cached")
			span.End("cached")
			return toks, nil
		}
	}

	toks, err := lexer.Tokenize(file, lexer.Options{})
	if err != nil {
		opts.Timer.End(idx, "failed")
		span.End("error")
		return nil, err
	}
	if cacheable {
		if err := opts.Cache.Put(opts.Cache.Key(file), file.Path, toks); err != nil {
			opts.Logger.Warn().Err(err).Str("path", file.Path).Msg("token cache write failed")
		}
	}
	opts.Timer.End(idx, fmt.Sprintf("%d tokens", len(toks)))
	span.End("")
	return toks, nil
}

// Parse tokenizes and parses file.
func (s *Session) Parse(ctx context.Context, file *source.File) (*ast.Program, error) {
	return parse(ctx, file, s.opts)
}

func parse(ctx context.Context, file *source.File, opts Options) (*ast.Program, error) {
	toks, err := tokenize(ctx, file, opts)
	if err != nil {
		return nil, err
	}
	span := trace.Begin(opts.Tracer, trace.ScopePhase, "parse", parentSpan(ctx))
	idx := opts.Timer.Begin("parse")
	prog, err := parser.Parse(file.ID, toks, parser.Options{})
	if err != nil {
		opts.Timer.End(idx, "failed")
		span.End("error")
		return nil, err
	}
	opts.Timer.End(idx, fmt.Sprintf("%d statements", len(prog.Stmts)))
	span.End("")
	return prog, nil
}

// Exec runs file to completion in the session VM.
func (s *Session) Exec(ctx context.Context, file *source.File) (vm.Outcome, error) {
	prog, err := s.Parse(ctx, file)
	if err != nil {
		return vm.Outcome{}, err
	}
	span := trace.Begin(s.opts.Tracer, trace.ScopePhase, "exec", parentSpan(ctx))
	idx := s.opts.Timer.Begin("exec")
	out, err := s.VM.Run(prog)
	note := ""
	if err != nil {
		note = "error"
	}
	s.opts.Timer.End(idx, note)
	span.End(note)
	return out, err
}

// RunFile loads and executes path.
func (s *Session) RunFile(ctx context.Context, path string) (vm.Outcome, error) {
	ctx, span := driverSpan(ctx, s.opts.Tracer, "run:"+path)
	defer span.End("")
	file, err := s.LoadFile(path)
	if err != nil {
		return vm.Outcome{}, err
	}
	return s.Exec(ctx, file)
}

// RunSource executes in-memory source under name.
func (s *Session) RunSource(ctx context.Context, name string, src []byte) (vm.Outcome, error) {
	ctx, span := driverSpan(ctx, s.opts.Tracer, "run:"+name)
	defer span.End("")
	return s.Exec(ctx, s.AddSource(name, src))
}

func driverSpan(ctx context.Context, t trace.Tracer, name string) (context.Context, *trace.Span) {
	span := trace.Begin(t, trace.ScopeDriver, name, parentSpan(ctx))
	return trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()}), span
}

func parentSpan(ctx context.Context) uint64 {
	return trace.CurrentSpan(ctx).SpanID
}
