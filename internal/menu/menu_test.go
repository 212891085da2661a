package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isQuit(t *testing.T, cmd tea.Cmd) bool {
	t.Helper()
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func press(m tea.Model, msgs ...tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		m, cmd = m.Update(msg)
	}
	return m, cmd
}

func TestSelectMovesAndChooses(t *testing.T) {
	m := NewSelect("Main menu", Options("Search", "Recommend", "Watchlist"))

	final, cmd := press(m,
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyUp},
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	assert.True(t, isQuit(t, cmd))
	idx, ok := final.(SelectModel).Chosen()
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestSelectCancel(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
	} {
		t.Run(key.String(), func(t *testing.T) {
			final, cmd := press(NewSelect("Pick", Options("a", "b")), key)
			assert.True(t, isQuit(t, cmd))
			_, ok := final.(SelectModel).Chosen()
			assert.False(t, ok)
		})
	}
}

func TestSelectNothingChosenBeforeEnter(t *testing.T) {
	final, _ := press(NewSelect("Pick", Options("a", "b")), tea.KeyMsg{Type: tea.KeyDown})
	_, ok := final.(SelectModel).Chosen()
	assert.False(t, ok)
}

func TestSelectRendersTitleAndOptions(t *testing.T) {
	m := NewSelect("Genre menu", []Option{{Label: "Add Genre", Detail: "save a new genre"}, {Label: "Exit"}})
	view := m.View()
	assert.Contains(t, view, "Genre menu")
	assert.Contains(t, view, "Add Genre")
}

func TestInputTypesAndSubmits(t *testing.T) {
	final, cmd := press(NewInput("Enter the genre you want to add:", "Action"),
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" Slice of Life ")},
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	assert.True(t, isQuit(t, cmd))
	value, ok := final.(InputModel).Value()
	require.True(t, ok)
	assert.Equal(t, "Slice of Life", value)
}

func TestInputCancel(t *testing.T) {
	final, cmd := press(NewInput("Title:", ""),
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Mon")},
		tea.KeyMsg{Type: tea.KeyEsc},
	)
	assert.True(t, isQuit(t, cmd))
	_, ok := final.(InputModel).Value()
	assert.False(t, ok)
}

func TestParseYesNo(t *testing.T) {
	tests := []struct {
		in      string
		yes, ok bool
	}{
		{"", true, true},
		{"Y", true, true},
		{" yes ", true, true},
		{"n", false, true},
		{"NO", false, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		yes, ok := ParseYesNo(tt.in)
		assert.Equal(t, tt.yes, yes, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestOptionsKeepsOrder(t *testing.T) {
	opts := Options("x", "y")
	assert.Equal(t, []Option{{Label: "x"}, {Label: "y"}}, opts)
}

func TestSelectEmptyOptionsCancels(t *testing.T) {
	_, err := (&Terminal{}).Select("none", nil)
	assert.ErrorIs(t, err, ErrCancelled)
}
