package driver

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"knot/internal/ast"
	"knot/internal/diag"
	"knot/internal/format"
	"knot/internal/observ"
	"knot/internal/source"
	"knot/internal/trace"
)

// SourceExt is the extension picked up when a directory is checked.
const SourceExt = ".kn"

// CheckOptions configures Check.
type CheckOptions struct {
	Options
	Jobs   int  // <= 0 means GOMAXPROCS
	Format bool // also verify the print/reparse round trip
	// Events receives per-file progress; Check never closes it.
	Events chan<- Event
}

// FileResult is the outcome of checking one file.
type FileResult struct {
	Path    string
	File    *source.File // nil when the file could not be loaded
	Bag     *diag.Bag
	Stmts   int
	Elapsed time.Duration
}

// CheckResult collects every file of a Check run, in path order.
type CheckResult struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// HasErrors reports whether any file produced an error diagnostic.
func (r *CheckResult) HasErrors() bool {
	for i := range r.Files {
		if r.Files[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// ListSources expands paths into a sorted, deduplicated list of source
// files. Directories are walked for *.kn files; plain files are taken as is.
func ListSources(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, filepath.Clean(p))
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	// Сортируем для детерминированного порядка
	slices.Sort(files)
	return slices.Compact(files), nil
}

// Check tokenizes and parses every source under paths in parallel without
// running anything. Per-file problems land in the file's Bag; the returned
// error is reserved for listing failures and cancellation.
func Check(ctx context.Context, paths []string, opts CheckOptions) (*CheckResult, error) {
	if opts.Tracer == nil {
		opts.Tracer = trace.FromContext(ctx)
	}
	if opts.Logger == nil {
		opts.Logger = observ.Logger()
	}
	files, err := ListSources(paths)
	if err != nil {
		return nil, err
	}
	res := &CheckResult{FileSet: source.NewFileSet(), Files: make([]FileResult, len(files))}
	if len(files) == 0 {
		return res, nil
	}

	ctx, span := driverSpan(ctx, opts.Tracer, "check")

	// FileSet не потокобезопасен на запись, поэтому загружаем заранее
	for i, path := range files {
		fr := &res.Files[i]
		*fr = FileResult{Path: path, Bag: diag.NewBag(0)}
		id, err := res.FileSet.Load(path)
		if err != nil {
			// пустой виртуальный файл, чтобы диагностика указывала на путь
			placeholder := res.FileSet.AddVirtual(path, nil)
			fr.Bag.Add(diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.IOLoadFile,
				Message:  "failed to load file: " + err.Error(),
				Primary:  source.Span{File: placeholder},
			})
			emit(opts.Events, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
			continue
		}
		fr.File = res.FileSet.Get(id)
		emit(opts.Events, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Индексы уникальны для каждой горутины, мьютекс не нужен
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if fr := &res.Files[i]; fr.File != nil {
				checkFile(gctx, fr, opts)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.End("cancelled")
		return res, err
	}
	failed := 0
	for i := range res.Files {
		if res.Files[i].Bag.HasErrors() {
			failed++
		}
	}
	opts.Logger.Info().Int("files", len(files)).Int("failed", failed).Int("jobs", jobs).Msg("check finished")
	span.End("")
	return res, nil
}

func checkFile(ctx context.Context, fr *FileResult, opts CheckOptions) {
	start := time.Now()
	fspan := trace.Begin(opts.Tracer, trace.ScopeFile, fr.Path, parentSpan(ctx))
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: fspan.ID()})

	emit(opts.Events, Event{File: fr.Path, Stage: StageParse, Status: StatusWorking})
	prog, err := parse(ctx, fr.File, opts.Options)
	if err != nil {
		fr.Bag.Add(toDiagnostic(err))
		fr.Elapsed = time.Since(start)
		fspan.End("error")
		emit(opts.Events, Event{File: fr.Path, Stage: StageParse, Status: StatusError, Err: err, Elapsed: fr.Elapsed})
		return
	}
	fr.Stmts = countStmts(prog.Stmts)

	if opts.Format {
		emit(opts.Events, Event{File: fr.Path, Stage: StageFormat, Status: StatusWorking})
		if ok, msg := format.CheckRoundTrip(fr.File, format.Options{}); !ok {
			fr.Bag.Add(diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.FmtRoundTrip,
				Message:  msg,
				Primary:  source.Span{File: fr.File.ID},
			})
		}
	}

	fr.Elapsed = time.Since(start)
	if fr.Bag.HasErrors() {
		fspan.End("error")
		emit(opts.Events, Event{File: fr.Path, Stage: StageFormat, Status: StatusError, Elapsed: fr.Elapsed})
		return
	}
	fspan.End("")
	emit(opts.Events, Event{File: fr.Path, Stage: StageParse, Status: StatusDone, Elapsed: fr.Elapsed})
}

func toDiagnostic(err error) diag.Diagnostic {
	var de *diag.Error
	if errors.As(err, &de) {
		return de.Diagnostic()
	}
	return diag.Diagnostic{Severity: diag.SevError, Code: diag.UnknownCode, Message: err.Error()}
}

// countStmts counts statements including those nested in blocks.
func countStmts(stmts []ast.Stmt) int {
	n := 0
	for _, st := range stmts {
		n++
		for _, b := range ast.Blocks(st) {
			n += countStmts(b.Stmts)
		}
	}
	return n
}
