package record

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zjy020422/rehabit-sys/internal/sensor"
	"github.com/Zjy020422/rehabit-sys/internal/telemetry"
)

// fakeProgram collects messages instead of rendering.
type fakeProgram struct {
	msgs []tea.Msg
}

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func testStatus() sensor.Status {
	return sensor.Status{
		State: sensor.StateConnected,
		IP:    "192.168.4.1",
		Port:  80,
		Mode:  "all",
	}
}

func TestTUIWriter_SendsMessages(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p}

	if err := w.Write(sampleRow()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.WriteEvent(telemetry.EventRow{Kind: telemetry.EventStateChange, Detail: "x"}); err != nil {
		t.Fatalf("WriteEvent: %v", err)
	}
	w.SetStatus(testStatus())

	if len(p.msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(p.msgs))
	}
	if _, ok := p.msgs[0].(logMsg); !ok {
		t.Errorf("expected logMsg first, got %T", p.msgs[0])
	}
	if _, ok := p.msgs[1].(eventMsg); !ok {
		t.Errorf("expected eventMsg second, got %T", p.msgs[1])
	}
	if _, ok := p.msgs[2].(statusMsg); !ok {
		t.Errorf("expected statusMsg third, got %T", p.msgs[2])
	}
}

func TestTUIModel_StatusUpdate(t *testing.T) {
	m := newTUIModel(testStatus())

	st := testStatus()
	st.State = sensor.StateSimulating
	st.ErrorCount = 3
	updated, _ := m.Update(statusMsg{st})
	model := updated.(tuiModel)

	view := model.View()
	if !strings.Contains(view, "simulating") {
		t.Errorf("expected simulating state in view")
	}
}

func TestTUIModel_LogLines(t *testing.T) {
	m := newTUIModel(testStatus())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	model := updated.(tuiModel)

	updated, _ = model.Update(logMsg{line: "force=50.0N"})
	model = updated.(tuiModel)
	if len(model.logs) != 1 {
		t.Fatalf("expected one log line, got %d", len(model.logs))
	}

	// Ring buffer keeps the tail.
	for i := 0; i < maxLogLines+10; i++ {
		updated, _ = model.Update(logMsg{line: "x"})
		model = updated.(tuiModel)
	}
	if len(model.logs) != maxLogLines {
		t.Errorf("expected %d buffered lines, got %d", maxLogLines, len(model.logs))
	}
}
