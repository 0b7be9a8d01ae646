package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"knot/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history [flags]",
	Short: "Show or clear the REPL history",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "number of entries to show")
	historyCmd.Flags().String("search", "", "show entries containing this text, newest first")
	historyCmd.Flags().Bool("clear", false, "delete every stored entry")
	historyCmd.MarkFlagsMutuallyExclusive("search", "clear")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	needle, err := cmd.Flags().GetString("search")
	if err != nil {
		return err
	}
	clearAll, err := cmd.Flags().GetBool("clear")
	if err != nil {
		return err
	}

	a, cleanup, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	path := a.cfg.HistoryPath()
	if path == "" {
		return fmt.Errorf("history is disabled in knot.toml")
	}
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	var entries []history.Entry
	switch {
	case clearAll:
		return store.Clear()
	case needle != "":
		entries, err = store.Search(needle, limit)
	default:
		entries, err = store.Recent(limit)
	}
	if err != nil {
		return err
	}
	printHistory(a.stdout, entries)
	return nil
}

func printHistory(w io.Writer, entries []history.Entry) {
	for _, e := range entries {
		mark := " "
		if e.Failed {
			mark = errColor.Sprint("!")
		}
		fmt.Fprintf(w, "%5d %s %s  %s\n", e.ID, mark, e.At.Format("2006-01-02 15:04"), e.Line)
	}
}
