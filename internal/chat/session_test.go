package chat

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kitsune-cli/kitsune/internal/actions"
	"github.com/kitsune-cli/kitsune/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type scriptedModel struct {
	replies []func(history []Turn) (Turn, error)
	seen    [][]Turn
}

func (m *scriptedModel) Generate(_ context.Context, history []Turn) (Turn, error) {
	m.seen = append(m.seen, append([]Turn(nil), history...))
	if len(m.replies) == 0 {
		return Turn{}, errors.New("no scripted reply")
	}
	next := m.replies[0]
	m.replies = m.replies[1:]
	return next(history)
}

func say(text string) func([]Turn) (Turn, error) {
	return func([]Turn) (Turn, error) { return ModelText(text), nil }
}

func call(name string, args map[string]any) func([]Turn) (Turn, error) {
	return func([]Turn) (Turn, error) {
		return Turn{Role: RoleModel, Parts: []Part{CallPart(FunctionCall{Name: name, Args: args})}}, nil
	}
}

func fail(err error) func([]Turn) (Turn, error) {
	return func([]Turn) (Turn, error) { return Turn{}, err }
}

type scriptedInput struct {
	lines []string
}

func (in *scriptedInput) ReadLine(string) (string, error) {
	if len(in.lines) == 0 {
		return "", ErrInputClosed
	}
	line := in.lines[0]
	in.lines = in.lines[1:]
	return line, nil
}

func (in *scriptedInput) Close() error { return nil }

type harness struct {
	dir     string
	model   *scriptedModel
	out     *bytes.Buffer
	watch   *store.Watchlist
	session *Session
}

func newHarness(t *testing.T, lines []string, replies ...func([]Turn) (Turn, error)) *harness {
	t.Helper()
	dir := t.TempDir()
	h := &harness{
		dir:   dir,
		model: &scriptedModel{replies: replies},
		out:   &bytes.Buffer{},
		watch: store.OpenWatchlist(dir, nil),
	}
	h.session = NewSession(Options{
		Model: h.model,
		Executor: actions.NewExecutor(actions.Deps{
			Watchlist: h.watch,
			Genres:    store.OpenGenres(dir, nil),
		}),
		History: NewHistoryFile(dir),
		Input:   &scriptedInput{lines: lines},
		Output:  h.out,
	})
	return h
}

func (h *harness) savedHistory(t *testing.T) []Turn {
	t.Helper()
	turns, err := NewHistoryFile(h.dir).Load()
	require.NoError(t, err)
	return turns
}

func TestBootstrapGreetsAndQuits(t *testing.T) {
	h := newHarness(t, []string{"QUIT"}, say("Hi! What anime do you like?"))

	require.NoError(t, h.session.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "Anime assistant is ready. You can start chatting.")
	assert.Contains(t, out, "assistant: Hi! What anime do you like?")
	assert.Contains(t, out, "Ending the chat. Goodbye!")

	want := []Turn{UserText(BootstrapPrompt), ModelText("Hi! What anime do you like?")}
	if diff := cmp.Diff(want, h.savedHistory(t)); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestActionRoundTrip(t *testing.T) {
	h := newHarness(t,
		[]string{"add Frieren please"},
		say("Hello!"),
		call(actions.NameAddToWatchlist, map[string]any{"anime_title": "Frieren"}),
		say("Done, Frieren is on your list."),
	)

	require.NoError(t, h.session.Run(context.Background()))

	entries, err := h.watch.Entries()
	require.NoError(t, err)
	assert.Equal(t, []store.WatchEntry{{Title: "Frieren"}}, entries)

	out := h.out.String()
	assert.Contains(t, out, "assistant: Added 'Frieren' to your watchlist.")
	assert.Contains(t, out, "assistant: Done, Frieren is on your list.")

	history := h.savedHistory(t)
	require.Len(t, history, 6)
	callTurn, respTurn := history[3], history[4]
	require.Len(t, callTurn.Calls(), 1)
	id := callTurn.Calls()[0].ID
	assert.NotEmpty(t, id, "missing call IDs are filled in")
	require.NotNil(t, respTurn.Parts[0].FunctionResponse)
	assert.Equal(t, id, respTurn.Parts[0].FunctionResponse.ID)
	assert.Equal(t, RoleUser, respTurn.Role)
	assert.Equal(t, map[string]any{"result": "Added 'Frieren' to your watchlist."}, respTurn.Parts[0].FunctionResponse.Response)
}

func TestUnknownActionIsReportedAndAnswered(t *testing.T) {
	h := newHarness(t,
		[]string{"do something"},
		say("Hello!"),
		call("launch_rocket", nil),
		say("Sorry, I can't do that."),
	)

	require.NoError(t, h.session.Run(context.Background()))

	assert.Contains(t, h.out.String(), "assistant called an unknown function: launch_rocket")
	history := h.savedHistory(t)
	resp := history[4].Parts[0].FunctionResponse
	require.NotNil(t, resp)
	assert.Contains(t, resp.Response["error"], "unknown action")
}

func TestMalformedArgsSendErrorBack(t *testing.T) {
	h := newHarness(t,
		[]string{"update"},
		say("Hello!"),
		call(actions.NameUpdateEpisodes, map[string]any{"anime_title": "Frieren", "episodes": -3.0}),
		say("That count looks wrong."),
	)

	require.NoError(t, h.session.Run(context.Background()))
	assert.Contains(t, h.out.String(), "assistant: could not run update_episodes")
	resp := h.savedHistory(t)[4].Parts[0].FunctionResponse
	assert.Contains(t, resp.Response["error"], "episodes")
}

func TestQuitActionEndsLoop(t *testing.T) {
	h := newHarness(t,
		[]string{"bye", "never read"},
		say("Hello!"),
		call(actions.NameQuit, nil),
	)

	require.NoError(t, h.session.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "Assistant: Ending the chat per your request. Goodbye!")
	history := h.savedHistory(t)
	last := history[len(history)-1]
	assert.Equal(t, RoleUser, last.Role)
	assert.Equal(t, map[string]any{"result": actions.QuitResponse}, last.Parts[0].FunctionResponse.Response)
	assert.Len(t, h.model.seen, 2)
}

func TestModelFailureDropsUnansweredTurn(t *testing.T) {
	h := newHarness(t,
		[]string{"first", "second"},
		say("Hello!"),
		fail(errors.New("quota exceeded")),
		say("Answer to second."),
	)

	require.NoError(t, h.session.Run(context.Background()))

	assert.Contains(t, h.out.String(), "An error occurred: quota exceeded")
	want := []Turn{
		UserText(BootstrapPrompt),
		ModelText("Hello!"),
		UserText("second"),
		ModelText("Answer to second."),
	}
	if diff := cmp.Diff(want, h.savedHistory(t)); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestBootstrapFailureKeepsLoopAlive(t *testing.T) {
	h := newHarness(t, []string{"hello"}, fail(errors.New("offline")), say("Back online."))

	require.NoError(t, h.session.Run(context.Background()))
	want := []Turn{UserText("hello"), ModelText("Back online.")}
	assert.Equal(t, want, h.savedHistory(t))
}

func TestActionRoundLimit(t *testing.T) {
	loop := call(actions.NameListWatchlist, nil)
	h := newHarness(t, []string{"list forever"}, say("Hello!"), loop, loop, loop)
	h.session.maxRounds = 2

	require.NoError(t, h.session.Run(context.Background()))

	assert.Contains(t, h.out.String(), "stopped after too many actions in a row")
	history := h.savedHistory(t)
	last := history[len(history)-1]
	assert.Equal(t, RoleUser, last.Role, "the capped reply is dropped, leaving the last answered round")
	assert.Len(t, h.model.seen, 4)
}

func TestResumePrintsLastModelTurn(t *testing.T) {
	h := newHarness(t, []string{"quit"})
	require.NoError(t, NewHistoryFile(h.dir).Save([]Turn{UserText("hi"), ModelText("Welcome back!")}))

	require.NoError(t, h.session.Run(context.Background()))

	assert.Contains(t, h.out.String(), "assistant (continuing): Welcome back!")
	assert.Empty(t, h.model.seen)
}

func TestResumeAnswersTrailingUserTurn(t *testing.T) {
	h := newHarness(t, nil, say("Sorry for the wait."))
	require.NoError(t, NewHistoryFile(h.dir).Save([]Turn{UserText("hi"), ModelText("hello"), UserText("any tips?")}))

	require.NoError(t, h.session.Run(context.Background()))

	assert.Contains(t, h.out.String(), "assistant (continuing): Sorry for the wait.")
	require.Len(t, h.model.seen, 1)
	assert.Len(t, h.model.seen[0], 3)
}

func TestResumeDropsUnansweredCalls(t *testing.T) {
	h := newHarness(t, []string{"quit"})
	require.NoError(t, NewHistoryFile(h.dir).Save([]Turn{
		UserText("hi"),
		ModelText("hello"),
		UserText("add Monster"),
		{Role: RoleModel, Parts: []Part{CallPart(FunctionCall{ID: "x", Name: actions.NameAddToWatchlist, Args: map[string]any{"anime_title": "Monster"}})}},
	}))

	// The trailing user turn is answered once the dangling call is dropped.
	h.model.replies = append(h.model.replies, say("Added it."))
	require.NoError(t, h.session.Run(context.Background()))

	history := h.savedHistory(t)
	assert.Equal(t, ModelText("Added it."), history[len(history)-1])
	for _, turn := range history {
		assert.Empty(t, turn.Calls())
	}
}

func TestCorruptHistoryStartsOver(t *testing.T) {
	h := newHarness(t, []string{"quit"}, say("Fresh start."))
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, HistoryFileName), []byte("{not json"), 0644))

	require.NoError(t, h.session.Run(context.Background()))
	assert.Contains(t, h.out.String(), "assistant: Fresh start.")
}

func TestLegacyStringPartsLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, HistoryFileName), []byte(`[
		{"role": "user", "parts": ["hello"]},
		{"role": "model", "parts": [{"text": "hi there"}]},
		{"role": "system", "parts": ["dropped"]}
	]`), 0644))

	turns, err := NewHistoryFile(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, []Turn{UserText("hello"), ModelText("hi there")}, turns)
}

func TestPartRejectsMultipleFields(t *testing.T) {
	var p Part
	err := p.UnmarshalJSON([]byte(`{"text":"a","function_call":{"name":"quit_chat"}}`))
	assert.Error(t, err)
}

func TestStreamReader(t *testing.T) {
	var prompts bytes.Buffer
	r := NewStreamReader(strings.NewReader("one\ntwo\n"), &prompts)

	line, err := r.ReadLine("You: ")
	require.NoError(t, err)
	assert.Equal(t, "one", line)
	line, err = r.ReadLine("You: ")
	require.NoError(t, err)
	assert.Equal(t, "two", line)
	_, err = r.ReadLine("You: ")
	assert.ErrorIs(t, err, ErrInputClosed)
	assert.Equal(t, "You: You: You: ", prompts.String())
}

func TestCancelledContextStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := newHarness(t, []string{"hello"}, func([]Turn) (Turn, error) {
		cancel()
		return Turn{}, context.Canceled
	})

	err := h.session.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, h.savedHistory(t))
}
