package menu

import (
	"errors"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the user leaves a widget without choosing.
var ErrCancelled = errors.New("cancelled")

const (
	defaultWidth  = 72
	defaultHeight = 20
)

// Option is one selectable row.
type Option struct {
	Label  string
	Detail string
	index  int
}

func (o Option) Title() string       { return o.Label }
func (o Option) Description() string { return o.Detail }
func (o Option) FilterValue() string { return o.Label }

// Options builds rows from plain labels.
func Options(labels ...string) []Option {
	out := make([]Option, len(labels))
	for i, l := range labels {
		out[i] = Option{Label: l}
	}
	return out
}

// SelectModel is a filterable single-choice list.
type SelectModel struct {
	list      list.Model
	chosen    int
	cancelled bool
}

func NewSelect(title string, options []Option) SelectModel {
	items := make([]list.Item, len(options))
	details := false
	for i, o := range options {
		o.index = i
		items[i] = o
		details = details || o.Detail != ""
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = details
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(accent).BorderForeground(accent)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.BorderForeground(accent)

	l := list.New(items, delegate, defaultWidth, defaultHeight)
	l.Title = title
	l.Styles.Title = TitleStyle
	l.SetShowStatusBar(len(options) > 10)
	l.SetFilteringEnabled(len(options) > 10)
	l.DisableQuitKeybindings()

	return SelectModel{list: l, chosen: -1}
}

func (m SelectModel) Init() tea.Cmd { return nil }

func (m SelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := frameStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
		return m, nil
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancelled = true
			return m, tea.Quit
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if o, ok := m.list.SelectedItem().(Option); ok {
				m.chosen = o.index
				return m, tea.Quit
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m SelectModel) View() string {
	return frameStyle.Render(m.list.View())
}

// Chosen reports the selected option index, or false when cancelled.
func (m SelectModel) Chosen() (int, bool) {
	if m.cancelled || m.chosen < 0 {
		return -1, false
	}
	return m.chosen, true
}
