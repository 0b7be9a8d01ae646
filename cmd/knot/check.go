package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"knot/internal/diag"
	"knot/internal/diagfmt"
	"knot/internal/driver"
	"knot/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.kn|directory> [...]",
	Short: "Tokenize and parse knot sources without running them",
	Long:  `Check reports lexical and syntax errors of every *.kn file under the given paths, in parallel`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0 keeps knot.toml, then GOMAXPROCS)")
	checkCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	checkCmd.Flags().Bool("no-cache", false, "bypass the token cache")
	checkCmd.Flags().Bool("fmt", false, "also verify that formatting keeps the statement tree")
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	uiStr, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	uiMode, err := ui.ParseMode(uiStr)
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	withFmt, err := cmd.Flags().GetBool("fmt")
	if err != nil {
		return err
	}
	outFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	outFormat = strings.ToLower(outFormat)
	if outFormat != "pretty" && outFormat != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", outFormat)
	}

	a, cleanup, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if jobs <= 0 {
		jobs = a.cfg.Check.Jobs
	}
	opts := driver.CheckOptions{
		Options: driver.Options{Timer: a.timer, Tracer: a.tracer, Logger: a.logger},
		Jobs:    jobs,
		Format:  withFmt,
	}
	if !noCache {
		opts.Cache = a.cache
	}

	res, err := a.runChecks(cmd.Context(), args, opts, uiMode)
	if err != nil {
		return err
	}

	bag := diag.NewBag(0)
	for i := range res.Files {
		bag.Merge(res.Files[i].Bag)
	}
	bag.Sort()

	if outFormat == "json" {
		if err := diagfmt.JSON(a.stdout, bag, res.FileSet, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
			return err
		}
	} else {
		diagfmt.Pretty(a.stderr, bag, res.FileSet, a.prettyOpts())
	}

	if res.HasErrors() {
		failed := 0
		for i := range res.Files {
			if res.Files[i].Bag.HasErrors() {
				failed++
			}
		}
		if outFormat == "pretty" {
			fmt.Fprintf(a.stderr, "%d of %d files have errors\n", failed, len(res.Files))
		}
		return errReported
	}
	return nil
}

// runChecks runs driver.Check, drawing the progress UI on stderr when enabled.
func (a *app) runChecks(ctx context.Context, paths []string, opts driver.CheckOptions, mode ui.Mode) (*driver.CheckResult, error) {
	if !mode.Enabled(os.Stderr) {
		return driver.Check(ctx, paths, opts)
	}
	files, err := driver.ListSources(paths)
	if err != nil {
		return nil, err
	}
	var res *driver.CheckResult
	err = ui.Run("knot check", files, a.stderr, func(events chan<- driver.Event) error {
		opts.Events = events
		var cerr error
		res, cerr = driver.Check(ctx, paths, opts)
		return cerr
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
