package prompt

import (
	"io"

	tea "charm.land/bubbletea/v2"
)

// Answer is the outcome of a confirmation.
type Answer int

const (
	AnswerNo Answer = iota
	AnswerYes
	AnswerCancel
)

func (a Answer) String() string {
	switch a {
	case AnswerYes:
		return "yes"
	case AnswerCancel:
		return "cancel"
	default:
		return "no"
	}
}

type confirmModel struct {
	question   string
	defaultYes bool
	answer     Answer
	done       bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "y", "Y":
		m.answer = AnswerYes
	case "n", "N":
		m.answer = AnswerNo
	case "enter":
		m.answer = AnswerNo
		if m.defaultYes {
			m.answer = AnswerYes
		}
	case "ctrl+c", "ctrl+d", "q", "esc":
		m.answer = AnswerCancel
	default:
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

func (m confirmModel) hint() string {
	if m.defaultYes {
		return "[Y/n]"
	}
	return "[y/N]"
}

func (m confirmModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	return tea.NewView(m.question + " " + m.hint() + " ")
}

// Confirm asks question on out and reads the key press from in.
// Enter picks the default; q, esc and ctrl+c cancel.
func Confirm(question string, defaultYes bool, in io.Reader, out io.Writer) (Answer, error) {
	p := tea.NewProgram(
		confirmModel{question: question, defaultYes: defaultYes},
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		return AnswerCancel, err
	}
	return final.(confirmModel).answer, nil
}
