package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"knot/internal/driver"
)

// how far along a file is while a stage runs, and what the row says
var stages = map[driver.Stage]struct {
	label string
	share float64
}{
	driver.StageLoad:   {"loading", 0.1},
	driver.StageLex:    {"parsing", 0.3},
	driver.StageParse:  {"parsing", 0.5},
	driver.StageFormat: {"formatting", 0.8},
	driver.StageRun:    {"running", 0.9},
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	statusColors = map[string]lipgloss.Color{"done": "2", "error": "1", "queued": "7"}
	busyColor    = lipgloss.Color("6")
)

const statusWidth = 12

type fileItem struct {
	path     string
	status   string
	progress float64
}

func (f fileItem) finished() bool { return f.status == "done" || f.status == "error" }

type progressModel struct {
	title  string
	events <-chan driver.Event
	spin   spinner.Model
	bar    progress.Model
	items  []fileItem
	byPath map[string]int
	phase  string // последний этап без файла
	width  int
	done   bool
}

type (
	eventMsg driver.Event
	doneMsg  struct{}
)

// NewProgressModel renders `knot check` progress, one row per file,
// until events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	m := &progressModel{
		title:  title,
		events: events,
		spin:   spinner.New(),
		bar:    progress.New(progress.WithDefaultGradient()),
		items:  make([]fileItem, len(files)),
		byPath: make(map[string]int, len(files)),
		width:  80,
	}
	m.spin.Spinner = spinner.Dot
	m.spin.Style = lipgloss.NewStyle().Foreground(busyColor)
	m.bar.Width = 76
	for i, f := range files {
		m.items[i] = fileItem{path: f, status: "queued"}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.next())
}

// next waits for one driver event off the channel.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case eventMsg:
		cmd = tea.Batch(m.applyEvent(driver.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		cmd = tea.Quit
	case spinner.TickMsg:
		if !m.done {
			m.spin, cmd = m.spin.Update(msg)
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		var bar tea.Model
		bar, cmd = m.bar.Update(msg)
		m.bar = bar.(progress.Model)
	}
	return m, cmd
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	label := rowLabel(ev)
	if label == "" {
		return nil
	}
	if ev.File == "" {
		m.phase = label
		return nil
	}
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	m.items[i].status = label
	m.items[i].progress = stages[ev.Stage].share
	return m.bar.SetPercent(m.percent())
}

func rowLabel(ev driver.Event) string {
	if ev.Status == driver.StatusWorking {
		return stages[ev.Stage].label
	}
	switch ev.Status {
	case driver.StatusQueued, driver.StatusDone, driver.StatusError:
		return string(ev.Status)
	}
	return ""
}

// percent counts finished files as whole and the rest by their stage.
func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	var sum float64
	for _, it := range m.items {
		if it.finished() {
			sum++
		} else {
			sum += it.progress
		}
	}
	return sum / float64(len(m.items))
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	header := m.title
	if m.phase != "" {
		header += " (" + m.phase + ")"
	}
	bar := m.bar.View()
	if m.done {
		header = "done: " + header
		bar = m.bar.ViewAs(1)
	} else {
		header = m.spin.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header) + "\n\n")
	nameWidth := max(m.width-statusWidth-4, 20)
	for _, it := range m.items {
		status := statusStyle(it.status).Render(fmt.Sprintf("%*s", statusWidth, it.status))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(it.path, nameWidth))
	}
	b.WriteString("\n" + bar + "\n")
	return b.String()
}

func statusStyle(status string) lipgloss.Style {
	c, ok := statusColors[status]
	if !ok {
		c = busyColor
	}
	return lipgloss.NewStyle().Foreground(c)
}

// truncate cuts value to width terminal cells, with "..." when it fits.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	tail := "..."
	if width <= len(tail) {
		tail = ""
	}
	return runewidth.Truncate(value, width, tail)
}
