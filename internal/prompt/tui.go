package prompt

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var labelStyle = lipgloss.NewStyle().Bold(true)

// TUI is a TextPrompt that renders each question as a bubbletea text input.
// It requires a real terminal; use Terminal or Script otherwise.
type TUI struct{}

// NewTUI returns a bubbletea-backed TextPrompt.
func NewTUI() *TUI {
	return &TUI{}
}

func (p *TUI) Ask(label string) (string, error) {
	return runInput(label, textinput.EchoNormal)
}

func (p *TUI) AskSecret(label string) (string, error) {
	return runInput(label, textinput.EchoPassword)
}

func (p *TUI) Confirm(label string) (bool, error) {
	for {
		answer, err := runInput(label+" (Y/N)", textinput.EchoNormal)
		if err != nil {
			return false, err
		}
		if yes, ok := parseYesNo(answer); ok {
			return yes, nil
		}
	}
}

func runInput(label string, echo textinput.EchoMode) (string, error) {
	ti := textinput.New()
	ti.EchoMode = echo
	ti.Focus()

	m := inputModel{label: label, input: ti}
	out, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	final := out.(inputModel)
	if final.aborted {
		return "", fmt.Errorf("prompt for %q aborted", label)
	}
	return final.input.Value(), nil
}

type inputModel struct {
	label   string
	input   textinput.Model
	done    bool
	aborted bool
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	return fmt.Sprintf("%s %s\n", labelStyle.Render(m.label+":"), m.input.View())
}
