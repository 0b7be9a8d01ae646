package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"knot/internal/diagfmt"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.kn",
	Short: "Tokenize a knot source file",
	Long:  `Tokenize prints the token stream of a knot source file, implicit '*' tokens included`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json|yaml)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := diagfmt.ParseTokenFormat(formatStr)
	if err != nil {
		return err
	}

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
	toks, err := s.Tokenize(cmd.Context(), file)
	if err != nil {
		diagfmt.Error(a.stderr, err, s.FileSet, a.prettyOpts())
		return errReported
	}
	return diagfmt.FormatTokens(a.stdout, toks, s.FileSet, format)
}
