package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-editor/internal/llm"
)

// fakeClient returns canned responses per prompt, or a fixed error.
type fakeClient struct {
	mu          sync.Mutex
	reply       func(prompt string) (string, error)
	prompts     []string
	jsonPrompts []string
	jsonBody    string
	jsonErr     error
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.reply(prompt)
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.mu.Lock()
	f.jsonPrompts = append(f.jsonPrompts, prompt)
	f.mu.Unlock()
	return f.jsonBody, f.jsonErr
}

func (f *fakeClient) Model(llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Close() error               { return nil }

func fixedReply(reply string) *fakeClient {
	return &fakeClient{reply: func(string) (string, error) { return reply, nil }}
}

func newTestSession(t *testing.T, text string, client llm.Client) (*Document, *Store, *Engine, *Applier) {
	t.Helper()
	doc := NewDocument(text)
	store := NewStore(doc)
	engine := NewEngine(store, doc, client)
	applier := NewApplier(store, doc, engine)
	return doc, store, engine, applier
}

func TestRequestImprovement_Ready(t *testing.T) {
	client := fixedReply("Tightened the wording. <suggestion>I architect scalable software.</suggestion>")
	_, store, engine, _ := newTestSession(t, "Summary: I am a coder.", client)

	sec, err := store.Create(Range{Offset: 9, Length: 13}, "", KindSummary)
	require.NoError(t, err)

	sug, err := engine.RequestImprovement(context.Background(), sec.ID, "")
	require.NoError(t, err)

	assert.Equal(t, StatusReady, sug.Status)
	assert.Equal(t, sec.ID, sug.SectionID)
	assert.Equal(t, "I am a coder.", sug.OriginalContent)
	assert.Equal(t, "I architect scalable software.", sug.SuggestedContent)
	assert.Equal(t, "Tightened the wording.", sug.Explanation)
}

func TestRequestImprovement_PromptCarriesInstruction(t *testing.T) {
	client := fixedReply("<suggestion>better</suggestion>")
	_, store, engine, _ := newTestSession(t, "Skills: Go", client)

	sec, err := store.Create(Range{Offset: 8, Length: 2}, "", KindSkills)
	require.NoError(t, err)

	_, err = engine.RequestImprovement(context.Background(), sec.ID, "emphasize leadership")
	require.NoError(t, err)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Go")
	assert.Contains(t, client.prompts[0], "emphasize leadership")
	assert.Contains(t, client.prompts[0], "Skills")
}

func TestRequestImprovement_UnknownSection(t *testing.T) {
	_, _, engine, _ := newTestSession(t, "text", fixedReply("x"))

	var notFound *ErrSectionNotFound
	_, err := engine.RequestImprovement(context.Background(), "missing", "")
	require.ErrorAs(t, err, &notFound)
}

func TestRequestImprovement_CompletionFailureCaptured(t *testing.T) {
	client := &fakeClient{reply: func(string) (string, error) {
		return "", errors.New("model unavailable")
	}}
	_, store, engine, _ := newTestSession(t, "Skills: Go", client)

	sec, err := store.Create(Range{Offset: 0, Length: 10}, "", KindSkills)
	require.NoError(t, err)

	sug, err := engine.RequestImprovement(context.Background(), sec.ID, "")
	require.NoError(t, err)
	assert.Equal(t, StatusError, sug.Status)
	assert.Contains(t, sug.Err, "model unavailable")

	// The failed suggestion is retained and queryable.
	got, err := engine.Get(sug.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusError, got.Status)
}

func TestRequestImprovement_WholeDocument(t *testing.T) {
	client := fixedReply("<suggestion>A full rewrite.</suggestion>")
	_, _, engine, _ := newTestSession(t, "Some resume text.", client)

	sug, err := engine.RequestImprovement(context.Background(), "", "")
	require.NoError(t, err)

	assert.Empty(t, sug.SectionID)
	assert.Equal(t, "document", sug.SectionName)
	assert.Equal(t, "Some resume text.", sug.OriginalContent)
	assert.Equal(t, StatusReady, sug.Status)
}

func TestRequestImprovement_EmptyDocumentRejected(t *testing.T) {
	_, _, engine, _ := newTestSession(t, "   ", fixedReply("x"))

	_, err := engine.RequestImprovement(context.Background(), "", "")
	require.Error(t, err)
}

func TestRequestImprovementForAll_PartialFailure(t *testing.T) {
	client := &fakeClient{reply: func(prompt string) (string, error) {
		if strings.Contains(prompt, "broken") {
			return "", errors.New("boom")
		}
		return "<suggestion>improved</suggestion>", nil
	}}
	_, store, engine, _ := newTestSession(t, "alpha broken gamma", client)

	a, err := store.Create(Range{Offset: 0, Length: 5}, "a", KindCustom)
	require.NoError(t, err)
	b, err := store.Create(Range{Offset: 6, Length: 6}, "b", KindCustom)
	require.NoError(t, err)
	c, err := store.Create(Range{Offset: 13, Length: 5}, "c", KindCustom)
	require.NoError(t, err)

	results := engine.RequestImprovementForAll(context.Background(), "")
	require.Len(t, results, 3)

	// Results keep section creation order regardless of completion timing.
	assert.Equal(t, a.ID, results[0].SectionID)
	assert.Equal(t, b.ID, results[1].SectionID)
	assert.Equal(t, c.ID, results[2].SectionID)

	assert.Equal(t, StatusReady, results[0].Status)
	assert.Equal(t, StatusError, results[1].Status)
	assert.Equal(t, StatusReady, results[2].Status)
}

func TestIsStale(t *testing.T) {
	doc, store, engine, _ := newTestSession(t, "Summary: I am a coder.", fixedReply("<suggestion>x</suggestion>"))

	sec, err := store.Create(Range{Offset: 9, Length: 13}, "", KindSummary)
	require.NoError(t, err)

	sug, err := engine.RequestImprovement(context.Background(), sec.ID, "")
	require.NoError(t, err)
	assert.False(t, engine.IsStale(sug))

	// Buffer edits alone do not make the suggestion stale; the section's
	// content snapshot has to change.
	require.NoError(t, doc.Insert(0, "> "))
	assert.False(t, engine.IsStale(sug))

	require.NoError(t, store.UpdateAfterEdit(sec.ID, Range{Offset: 11, Length: 5}, "other"))
	assert.True(t, engine.IsStale(sug))

	// Removing the section also makes it stale.
	sug2, err := engine.RequestImprovement(context.Background(), sec.ID, "")
	require.NoError(t, err)
	require.NoError(t, store.Remove(sec.ID))
	assert.True(t, engine.IsStale(sug2))
}

func TestIsStale_WholeDocument(t *testing.T) {
	doc, _, engine, _ := newTestSession(t, "original", fixedReply("<suggestion>x</suggestion>"))

	sug, err := engine.RequestImprovement(context.Background(), "", "")
	require.NoError(t, err)
	assert.False(t, engine.IsStale(sug))

	require.NoError(t, doc.Insert(0, "edited "))
	assert.True(t, engine.IsStale(sug))
}

func TestReject(t *testing.T) {
	_, store, engine, _ := newTestSession(t, "Skills: Go", fixedReply("<suggestion>x</suggestion>"))

	sec, err := store.Create(Range{Offset: 0, Length: 10}, "", KindSkills)
	require.NoError(t, err)
	sug, err := engine.RequestImprovement(context.Background(), sec.ID, "")
	require.NoError(t, err)

	require.NoError(t, engine.Reject(sug.ID))

	got, err := engine.Get(sug.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, got.Status)

	// Rejecting twice fails; the state is terminal.
	var notReady *ErrSuggestionNotReady
	require.ErrorAs(t, engine.Reject(sug.ID), &notReady)

	var notFound *ErrSuggestionNotFound
	require.ErrorAs(t, engine.Reject("missing"), &notFound)
}

func TestParseSuggestionResponse(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		suggested   string
		explanation string
	}{
		{
			name:        "explanation before markers",
			raw:         "Stronger verbs. <suggestion>Led a team of five.</suggestion>",
			suggested:   "Led a team of five.",
			explanation: "Stronger verbs.",
		},
		{
			name:        "explanation on both sides",
			raw:         "Before. <suggestion>Core text.</suggestion> After.",
			suggested:   "Core text.",
			explanation: "Before. After.",
		},
		{
			name:      "no markers falls back to whole reply",
			raw:       "  Just an answer with no tags.  ",
			suggested: "Just an answer with no tags.",
		},
		{
			name:      "nested markers use outermost pair",
			raw:       "<suggestion>a <suggestion>b</suggestion> c</suggestion>",
			suggested: "a <suggestion>b</suggestion> c",
		},
		{
			name:      "close before open falls back",
			raw:       "</suggestion> odd <suggestion>",
			suggested: "</suggestion> odd <suggestion>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suggested, explanation := ParseSuggestionResponse(tt.raw)
			assert.Equal(t, tt.suggested, suggested)
			assert.Equal(t, tt.explanation, explanation)
		})
	}
}
