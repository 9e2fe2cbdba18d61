package progress

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/prj/internal/project"
	"github.com/raphi011/prj/internal/scanner"
)

func nonTTY(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestSpinner_DisabledWhenNotTerminal(t *testing.T) {
	t.Parallel()

	f := nonTTY(t)
	s := NewSpinner("scanning", f)
	if s.Enabled() {
		t.Fatal("spinner should be disabled for a regular file")
	}

	s.Start()
	s.UpdateMessage("still scanning")
	s.Stop()

	if got := s.Message(); got != "still scanning" {
		t.Errorf("Message() = %q", got)
	}
	info, err := f.Stat()
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Errorf("disabled spinner wrote %d bytes", info.Size())
	}
}

func TestSpinner_NilOutput(t *testing.T) {
	t.Parallel()

	s := NewSpinner("x", nil)
	if s.Enabled() {
		t.Error("spinner with nil output should be disabled")
	}
	s.Start()
	s.Stop()
}

func TestDiscoveries(t *testing.T) {
	t.Parallel()

	ch := make(chan scanner.Discovery, 3)
	for _, name := range []string{"a", "b", "c"} {
		ch <- scanner.Discovery{Root: "/r", Project: project.NewRecord("/r/"+name, project.TypeGo, time.Now())}
	}
	close(ch)

	s := NewSpinner("", nonTTY(t))
	if n := Discoveries(ch, s); n != 3 {
		t.Errorf("Discoveries() = %d, want 3", n)
	}
	if msg := s.Message(); !strings.Contains(msg, "3 found") || !strings.Contains(msg, "(c)") {
		t.Errorf("last message = %q", msg)
	}
}

func TestDiscoveries_NilSpinner(t *testing.T) {
	t.Parallel()

	ch := make(chan scanner.Discovery)
	close(ch)
	if n := Discoveries(ch, nil); n != 0 {
		t.Errorf("Discoveries() = %d, want 0", n)
	}
}

func TestSpinnerModel(t *testing.T) {
	t.Parallel()

	m := spinnerModel{spinner: spinner.New()}
	if got := m.View().Content; got != "" {
		t.Errorf("empty message View() = %q, want empty", got)
	}

	updated, cmd := m.Update(messageUpdate("scanning... 2 found (api)"))
	if cmd != nil {
		t.Error("message update should not schedule a command")
	}
	if got := updated.(spinnerModel).View().Content; !strings.HasSuffix(got, "scanning... 2 found (api)") {
		t.Errorf("View() = %q", got)
	}

	if _, cmd := m.Update(tea.KeyPressMsg{Code: 'q'}); cmd == nil {
		t.Error("key press should quit")
	}
}
