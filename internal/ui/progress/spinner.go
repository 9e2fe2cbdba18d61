// Package progress shows scan progress on stderr.
//
// Spinners render to stderr so stdout stays clean for piping
// (e.g. cd $(prj cd)). They only animate when the output is a terminal.
package progress

import (
	"fmt"
	"os"
	"sync"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-isatty"
)

type messageUpdate string

type spinnerModel struct {
	spinner spinner.Model
	message string
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messageUpdate:
		m.message = string(msg)
		return m, nil
	case tea.KeyPressMsg:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinnerModel) View() tea.View {
	if m.message == "" {
		return tea.NewView("")
	}
	return tea.NewView(m.spinner.View() + " " + m.message)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Spinner is a one-line progress indicator. The zero value is not usable;
// call NewSpinner.
type Spinner struct {
	out     *os.File
	enabled bool

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
	message string
}

// NewSpinner creates a spinner writing to out. The spinner stays silent
// when out is not a terminal.
func NewSpinner(message string, out *os.File) *Spinner {
	return &Spinner{
		out:     out,
		enabled: out != nil && IsTerminal(out),
		message: message,
	}
}

// Enabled reports whether the spinner will render anything.
func (s *Spinner) Enabled() bool {
	return s.enabled
}

// Message returns the latest message.
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Start begins the animation. It is a no-op when disabled or already running.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program != nil || !s.enabled {
		return
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	p := tea.NewProgram(spinnerModel{spinner: sp, message: s.message},
		tea.WithoutSignalHandler(), tea.WithOutput(s.out))
	done := make(chan struct{})
	go func() {
		_, _ = p.Run()
		close(done)
	}()
	s.program, s.done = p, done
}

// UpdateMessage replaces the text next to the spinner.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	s.message = message
	p := s.program
	s.mu.Unlock()

	if p != nil {
		p.Send(messageUpdate(message))
	}
}

// Stop ends the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	p, done := s.program, s.done
	s.program = nil
	s.mu.Unlock()

	if p == nil {
		return
	}
	p.Quit()
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
	}
	fmt.Fprint(s.out, "\r\033[K")
}
