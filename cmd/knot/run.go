package main

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tevino/abool/v2"

	"knot/internal/driver"
	"knot/internal/ui"
)

//go:embed selftest.kn
var selfTestSource []byte

func runRoot(cmd *cobra.Command, args []string) error {
	selfTest, err := cmd.Flags().GetBool("test")
	if err != nil {
		return err
	}
	script, err := cmd.Flags().GetBool("script")
	if err != nil {
		return err
	}
	if (selfTest || script) && len(args) > 0 {
		return fmt.Errorf("a file argument cannot be combined with --test or --script")
	}

	a, cleanup, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	s := a.newSession()
	switch {
	case selfTest:
		return a.runSource(ctx, s, "<selftest>", selfTestSource)
	case script:
		src, err := io.ReadAll(a.stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		return a.runSource(ctx, s, "<stdin>", src)
	case len(args) == 1:
		stop := watchInterrupt(s.VM.Interrupt())
		defer stop()
		return a.report(s.RunFile(ctx, args[0]))
	default:
		return a.repl(ctx, s)
	}
}

func (a *app) runSource(ctx context.Context, s *driver.Session, name string, src []byte) error {
	stop := watchInterrupt(s.VM.Interrupt())
	defer stop()
	return a.report(s.RunSource(ctx, name, src))
}

// watchInterrupt turns SIGINT into the VM interrupt flag, so a runaway loop
// stops with a RuntimeError. A second SIGINT during the same run exits.
func watchInterrupt(flag *abool.AtomicBool) (stop func()) {
	sigc := make(chan os.Signal, 2)
	signal.Notify(sigc, os.Interrupt)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-sigc:
				if flag.IsSet() {
					os.Exit(130)
				}
				flag.Set()
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(sigc)
		close(done)
	}
}

func isTerminal(f *os.File) bool {
	return ui.IsTerminal(f)
}
