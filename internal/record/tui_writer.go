package record

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Zjy020422/rehabit-sys/internal/sensor"
	"github.com/Zjy020422/rehabit-sys/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a reading log line for the viewport.
type logMsg struct{ line string }

// eventMsg carries an event log line.
type eventMsg struct{ line string }

// statusMsg carries a link status update.
type statusMsg struct{ sensor.Status }

const maxLogLines = 500

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	simStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	deviceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// TUIWriter renders the live reading stream using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(initial sensor.Status) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	m := newTUIModel(initial)
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// Write implements Writer.
func (w *TUIWriter) Write(row telemetry.ReadingRow) error {
	src := deviceStyle.Render(row.Source)
	if row.Source == telemetry.SourceSimulated {
		src = simStyle.Render(row.Source)
	}
	line := fmt.Sprintf("%s force=%6.1fN angle=%6.1f° quality=%.2f %s",
		labelStyle.Render(row.Timestamp.Format("15:04:05.000")),
		row.Force, row.Angle, row.Quality, src)
	w.program.Send(logMsg{line: line})
	return nil
}

// WriteBatch outputs multiple reading rows.
func (w *TUIWriter) WriteBatch(rows []telemetry.ReadingRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteEvent implements EventWriter.
func (w *TUIWriter) WriteEvent(ev telemetry.EventRow) error {
	line := fmt.Sprintf("%s %s %s",
		labelStyle.Render(ev.Timestamp.Format("15:04:05.000")),
		alertStyle.Render(ev.Kind), ev.Detail)
	w.program.Send(eventMsg{line: line})
	return nil
}

// SetStatus pushes a fresh link status into the view.
func (w *TUIWriter) SetStatus(st sensor.Status) {
	w.program.Send(statusMsg{st})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	status     sensor.Status
	table      table.Model
	vp         viewport.Model
	logs       []string
	events     []string
	width      int
	height     int
	wrap       bool
	autoscroll bool
}

func newTUIModel(st sensor.Status) tuiModel {
	cols := []table.Column{
		{Title: "Field", Width: 18},
		{Title: "Value", Width: 24},
	}
	t := table.New(table.WithColumns(cols), table.WithRows(statusRows(st)), table.WithHeight(5))
	return tuiModel{
		status:     st,
		table:      t,
		vp:         viewport.New(0, 0),
		autoscroll: true,
	}
}

func statusRows(st sensor.Status) []table.Row {
	return []table.Row{
		{"Link state", string(st.State)},
		{"Sensor", fmt.Sprintf("%s:%d", st.IP, st.Port)},
		{"Mode", st.Mode},
		{"Consecutive errors", fmt.Sprintf("%d", st.ErrorCount)},
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.vp.Height = m.viewportHeight()
		m.refreshViewport()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
		case "a":
			m.autoscroll = !m.autoscroll
		case "up", "k":
			m.vp.LineUp(1)
		case "down", "j":
			m.vp.LineDown(1)
		}
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refreshViewport()
	case eventMsg:
		m.events = append(m.events, msg.line)
		if len(m.events) > 5 {
			m.events = m.events[len(m.events)-5:]
		}
	case statusMsg:
		m.status = msg.Status
		m.table.SetRows(statusRows(msg.Status))
	}
	return m, nil
}

func (m *tuiModel) viewportHeight() int {
	h := m.height - lipgloss.Height(m.headerView()) - 8
	if h < 3 {
		h = 3
	}
	return h
}

func (m *tuiModel) refreshViewport() {
	lines := m.logs
	if m.wrap && m.width > 0 {
		wrapped := make([]string, 0, len(lines))
		for _, l := range lines {
			wrapped = append(wrapped, wordwrap.String(l, m.width))
		}
		lines = wrapped
	}
	m.vp.SetContent(joinLines(lines))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m tuiModel) headerView() string {
	stateStyle := okStyle
	switch m.status.State {
	case sensor.StateSimulating:
		stateStyle = warnStyle
	case sensor.StateDisconnected:
		stateStyle = alertStyle
	}
	title := titleStyle.Render("rehabsense · live readings")
	state := stateStyle.Render(string(m.status.State))
	since := labelStyle.Render(fmt.Sprintf("since %s", m.status.LastChange.Format(time.Kitchen)))
	return fmt.Sprintf("%s  %s %s", title, state, since)
}

func (m tuiModel) View() string {
	out := m.headerView() + "\n\n"
	out += m.table.View() + "\n"
	for _, e := range m.events {
		out += e + "\n"
	}
	out += "\n" + m.vp.View() + "\n"
	out += labelStyle.Render("q quit · w wrap · a autoscroll · ↑/↓ scroll")
	return out
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
