package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"knot/internal/diagfmt"
	"knot/internal/driver"
	"knot/internal/format"
	"knot/internal/source"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <path> [path...]",
	Short: "Format knot source files",
	Long: `Fmt parses each file and prints it back in canonical form. Without --write
the result goes to stdout; --check only lists the files that would change`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().BoolP("write", "w", false, "rewrite files in place")
	fmtCmd.Flags().Bool("check", false, "list files whose formatting differs and fail")
	fmtCmd.Flags().Int("indent", 4, "spaces per indentation level")
	fmtCmd.Flags().Bool("tabs", false, "indent with tabs")
	fmtCmd.MarkFlagsMutuallyExclusive("write", "check")
}

func runFmt(cmd *cobra.Command, args []string) error {
	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return err
	}
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	indent, err := cmd.Flags().GetInt("indent")
	if err != nil {
		return err
	}
	tabs, err := cmd.Flags().GetBool("tabs")
	if err != nil {
		return err
	}
	if indent <= 0 {
		return fmt.Errorf("fmt: --indent must be positive")
	}

	a, cleanup, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	paths, err := driver.ListSources(args)
	if err != nil {
		return err
	}
	opt := format.Options{IndentWidth: indent, UseTabs: tabs}
	fs := source.NewFileSet()

	var failed, changed bool
	for _, path := range paths {
		id, err := fs.Load(path)
		if err != nil {
			fmt.Fprintf(a.stderr, "fmt: %v\n", err)
			failed = true
			continue
		}
		file := fs.Get(id)
		out, err := format.FormatSource(file, opt)
		if err != nil {
			diagfmt.Error(a.stderr, err, fs, a.prettyOpts())
			failed = true
			continue
		}
		same := bytes.Equal(out, file.Content)

		switch {
		case check:
			if !same {
				changed = true
				fmt.Fprintln(a.stdout, path)
			}
		case write:
			if same {
				continue
			}
			// комментарии в дерево не попадают
			if hasComments(file.Content) {
				a.logger.Warn().Str("path", path).Msg("fmt: file has comments, not rewritten")
				fmt.Fprintf(a.stderr, "fmt: %s: skipped, comments would be lost\n", path)
				continue
			}
			if err := os.WriteFile(path, out, 0o644); err != nil {
				fmt.Fprintf(a.stderr, "fmt: %v\n", err)
				failed = true
				continue
			}
			fmt.Fprintf(a.stdout, "reformatted %s\n", path)
		default:
			if _, err := a.stdout.Write(out); err != nil {
				return err
			}
		}
	}

	if failed {
		return fmt.Errorf("fmt: failed to format some files")
	}
	if check && changed {
		return fmt.Errorf("fmt: formatting changes required")
	}
	return nil
}

// hasComments is a byte-level guess; a '#' inside a string also counts.
func hasComments(src []byte) bool {
	return bytes.IndexByte(src, '#') >= 0 || bytes.Contains(src, []byte("-->"))
}
