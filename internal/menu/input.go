package menu

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputModel reads one line of text.
type InputModel struct {
	prompt    string
	input     textinput.Model
	done      bool
	cancelled bool
}

func NewInput(prompt, placeholder string) InputModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.PromptStyle = PromptStyle
	ti.CharLimit = 256
	ti.Width = defaultWidth - 4
	ti.Focus()
	return InputModel{prompt: prompt, input: ti}
}

func (m InputModel) Init() tea.Cmd { return textinput.Blink }

func (m InputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m InputModel) View() string {
	return frameStyle.Render(PromptStyle.Render(m.prompt) + "\n\n" + m.input.View() + "\n\n" +
		HintStyle.Render("enter to confirm, esc to cancel"))
}

// Value reports the trimmed text, or false when cancelled.
func (m InputModel) Value() (string, bool) {
	if m.cancelled || !m.done {
		return "", false
	}
	return strings.TrimSpace(m.input.Value()), true
}

// ParseYesNo interprets a Y/n answer. An empty answer is yes; ok is false
// for anything unrecognized.
func ParseYesNo(answer string) (yes, ok bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "", "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	default:
		return false, false
	}
}
