package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"knot/internal/diagfmt"
	"knot/internal/format"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.kn",
	Short: "Dump the statement tree of a knot source file",
	Long:  `Parse prints every statement with its expressions in RPN, without running anything`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	a, cleanup, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	s := a.newSession()
	file, err := s.LoadFile(args[0])
	if err != nil {
		return err
	}
	prog, err := s.Parse(cmd.Context(), file)
	if err != nil {
		diagfmt.Error(a.stderr, err, s.FileSet, a.prettyOpts())
		return errReported
	}
	_, err = fmt.Fprint(a.stdout, format.Outline(prog))
	return err
}
