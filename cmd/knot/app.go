package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/oarkflow/log"
	"github.com/spf13/cobra"

	"knot/internal/builtin"
	"knot/internal/diagfmt"
	"knot/internal/driver"
	"knot/internal/observ"
	"knot/internal/prof"
	"knot/internal/project"
	"knot/internal/trace"
	"knot/internal/vm"
)

// app is the per-invocation setup shared by every command: configuration,
// logger, tracer, timer and token cache.
type app struct {
	cfg    project.Config
	logger *log.Logger
	tracer trace.Tracer
	timer  *observ.Timer
	cache  *driver.TokenCache

	stdin          io.Reader
	stdout, stderr io.Writer
	color          bool // stderr diagnostics are colored
}

// newApp resolves flags on top of knot.toml on top of the defaults. The
// returned cleanup stops the profilers, flushes the tracer and prints
// --timings.
func newApp(cmd *cobra.Command) (*app, func(), error) {
	a := &app{stdin: cmd.InOrStdin(), stdout: cmd.OutOrStdout(), stderr: cmd.ErrOrStderr()}
	flags := cmd.Root().PersistentFlags()

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	if a.color, err = setupColor(colorFlag); err != nil {
		return nil, nil, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}
	if a.cfg, err = project.Discover(wd); err != nil {
		return nil, nil, err
	}

	if level, _ := flags.GetString("log-level"); level != "" {
		a.cfg.Log.Level = level
	}
	a.logger = observ.SetupLogger(a.stderr, a.cfg.Log.Level)
	if a.cfg.Path != "" {
		a.logger.Debug().Str("path", a.cfg.Path).Msg("config loaded")
	}
	if len(a.cfg.Unknown) > 0 {
		a.logger.Warn().Str("path", a.cfg.Path).Str("keys", strings.Join(a.cfg.Unknown, ", ")).Msg("unknown config keys ignored")
	}

	if depth, _ := flags.GetInt("max-depth"); depth > 0 {
		a.cfg.Run.MaxDepth = depth
	} else if depth < 0 {
		return nil, nil, fmt.Errorf("--max-depth must not be negative")
	}

	closeTrace, err := a.setupTracing(cmd)
	if err != nil {
		return nil, nil, err
	}

	var profCfg prof.Config
	profCfg.CPU, _ = flags.GetString("cpu-profile")
	profCfg.Mem, _ = flags.GetString("mem-profile")
	profCfg.Trace, _ = flags.GetString("runtime-trace")
	profiler, err := prof.Start(profCfg)
	if err != nil {
		closeTrace()
		return nil, nil, err
	}

	if timings, _ := flags.GetBool("timings"); timings {
		a.timer = observ.NewTimer()
	}

	if dir := a.cfg.CacheDir(); dir != "" {
		if a.cache, err = driver.OpenTokenCache(dir); err != nil {
			a.logger.Warn().Err(err).Str("dir", dir).Msg("token cache disabled")
			a.cache = nil
		}
	}

	cleanup := func() {
		if err := profiler.Stop(); err != nil {
			a.logger.Warn().Err(err).Msg("profiling")
		}
		closeTrace()
		if a.timer != nil {
			fmt.Fprint(a.stderr, a.timer.Summary())
		}
	}
	return a, cleanup, nil
}

// setupColor applies --color to fatih/color and reports whether stderr
// output should be colored.
func setupColor(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return !color.NoColor && isTerminal(os.Stderr), nil
	case "on":
		color.NoColor = false
		return true, nil
	case "off":
		color.NoColor = true
		return false, nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

// newSession builds a VM wired to the command's streams.
func (a *app) newSession() *driver.Session {
	env := builtin.NewEnv()
	env.Out = a.stdout
	env.In = bufio.NewReader(a.stdin)
	machine := vm.New(env, vm.Options{MaxDepth: a.cfg.Run.MaxDepth, Tracer: a.tracer})
	return driver.NewSession(machine, driver.Options{
		Cache:  a.cache,
		Timer:  a.timer,
		Tracer: a.tracer,
		Logger: a.logger,
	})
}

func (a *app) prettyOpts() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{Color: a.color, Context: 2, ShowNotes: true}
}

// report prints the outcome of a top-level run: errors as "Error: ...",
// a top-level give as its bare value. It returns errReported on failure.
func (a *app) report(out vm.Outcome, err error) error {
	if err != nil {
		printError(a.stderr, err)
		a.dumpTrace()
		return errReported
	}
	if out.Returned {
		fmt.Fprintln(a.stdout, out.Value.String())
	}
	return nil
}
