package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"knot/internal/driver"
)

// Mode is the --ui setting.
type Mode string

const (
	ModeAuto Mode = "auto"
	ModeOn   Mode = "on"
	ModeOff  Mode = "off"
)

// ParseMode reads a --ui value.
func ParseMode(value string) (Mode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return ModeAuto, nil
	case "on":
		return ModeOn, nil
	case "off":
		return ModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// Enabled decides whether to draw the progress UI on out.
func (m Mode) Enabled(out *os.File) bool {
	switch m {
	case ModeOn:
		return true
	case ModeOff:
		return false
	default:
		return IsTerminal(out)
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Run draws progress for files on out while work runs in the background.
// work must not close events; Run does that once work returns.
func Run(title string, files []string, out io.Writer, work func(events chan<- driver.Event) error) error {
	events := make(chan driver.Event, 256)
	done := make(chan error, 1)
	go func() {
		err := work(events)
		close(events)
		done <- err
	}()

	program := tea.NewProgram(NewProgressModel(title, files, events), tea.WithOutput(out), tea.WithInput(nil))
	_, uiErr := program.Run()
	// после ошибки UI никто не читает канал
	for range events {
	}
	err := <-done
	if uiErr != nil {
		return uiErr
	}
	return err
}
