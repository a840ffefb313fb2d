package editor

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-editor/internal/llm"
	"github.com/jonathan/resume-editor/internal/prompts"
)

// Status is the lifecycle state of a suggestion. Applied and rejected are
// terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusReady    Status = "ready"
	StatusApplied  Status = "applied"
	StatusRejected Status = "rejected"
	StatusError    Status = "error"
)

// Suggestion is a proposed replacement for a section's content. An empty
// SectionID targets the whole document. OriginalContent is the section
// snapshot at request time; if the live content drifts from it the
// suggestion is stale and must never be applied.
type Suggestion struct {
	ID               string `json:"id"`
	SectionID        string `json:"section_id,omitempty"`
	SectionName      string `json:"section_name"`
	OriginalContent  string `json:"original_content"`
	SuggestedContent string `json:"suggested_content,omitempty"`
	Explanation      string `json:"explanation,omitempty"`
	Status           Status `json:"status"`
	Err              string `json:"error,omitempty"`
}

// maxConcurrentRequests bounds the fan-out of whole-document improvement
// requests.
const maxConcurrentRequests = 4

// Engine requests, stores, and exposes pending suggestions. It references
// sections by id only and never writes to the buffer.
type Engine struct {
	store  *Store
	buf    TextBuffer
	client llm.Client

	mu    sync.Mutex
	order []string
	byID  map[string]*Suggestion
}

// NewEngine creates a suggestion engine over the given store, buffer, and
// completion client.
func NewEngine(store *Store, buf TextBuffer, client llm.Client) *Engine {
	return &Engine{
		store:  store,
		buf:    buf,
		client: client,
		byID:   make(map[string]*Suggestion),
	}
}

// RequestImprovement asks the completion client for an improved version of
// one section, or of the whole document when sectionID is empty. The call
// suspends on the completion request. Completion failures are captured in
// the returned suggestion's status, not returned as an error, so one
// failed request never crashes the session; the error return is reserved
// for invalid input (unknown section, empty document).
func (e *Engine) RequestImprovement(ctx context.Context, sectionID, instruction string) (Suggestion, error) {
	var name, content string
	if sectionID == "" {
		name = "document"
		content = e.buf.Text()
		if strings.TrimSpace(content) == "" {
			return Suggestion{}, &ErrInvalidRange{BufferLen: 0}
		}
	} else {
		sec, err := e.store.Get(sectionID)
		if err != nil {
			return Suggestion{}, err
		}
		name = sec.Name
		content = sec.Content
	}

	sug := &Suggestion{
		ID:              uuid.NewString(),
		SectionID:       sectionID,
		SectionName:     name,
		OriginalContent: content,
		Status:          StatusPending,
	}
	e.register(sug)

	prompt := BuildImprovementPrompt(name, content, instruction, sectionID == "")

	raw, err := e.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		e.resolve(sug.ID, func(s *Suggestion) {
			s.Status = StatusError
			s.Err = err.Error()
		})
		return e.snapshot(sug.ID), nil
	}

	suggested, explanation := ParseSuggestionResponse(raw)
	if suggested == "" {
		e.resolve(sug.ID, func(s *Suggestion) {
			s.Status = StatusError
			s.Err = "completion returned no suggestion text"
		})
		return e.snapshot(sug.ID), nil
	}

	e.resolve(sug.ID, func(s *Suggestion) {
		s.SuggestedContent = suggested
		s.Explanation = explanation
		s.Status = StatusReady
	})
	return e.snapshot(sug.ID), nil
}

// RequestImprovementForAll issues one independent improvement request per
// marked section. Partial failure is allowed: each section's suggestion
// reaches ready or error on its own, and one failing section never aborts
// the others. Results are in section creation order.
func (e *Engine) RequestImprovementForAll(ctx context.Context, instruction string) []Suggestion {
	secs := e.store.List()
	results := make([]Suggestion, len(secs))

	var g errgroup.Group
	g.SetLimit(maxConcurrentRequests)

	for i, sec := range secs {
		g.Go(func() error {
			sug, err := e.RequestImprovement(ctx, sec.ID, instruction)
			if err != nil {
				// Section vanished between List and Get; record the
				// failure in place of a suggestion.
				sug = Suggestion{
					ID:              uuid.NewString(),
					SectionID:       sec.ID,
					SectionName:     sec.Name,
					OriginalContent: sec.Content,
					Status:          StatusError,
					Err:             err.Error(),
				}
			}
			results[i] = sug
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// IsStale reports whether a suggestion can no longer be applied: its
// section has been removed, or the live content differs from the content
// the suggestion was generated from.
func (e *Engine) IsStale(sug Suggestion) bool {
	if sug.SectionID == "" {
		return e.buf.Text() != sug.OriginalContent
	}
	sec, err := e.store.Get(sug.SectionID)
	if err != nil {
		return true
	}
	return sec.Content != sug.OriginalContent
}

// Get returns a copy of the suggestion with the given id.
func (e *Engine) Get(id string) (Suggestion, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sug, ok := e.byID[id]
	if !ok {
		return Suggestion{}, &ErrSuggestionNotFound{ID: id}
	}
	return *sug, nil
}

// List returns copies of all suggestions in request order.
func (e *Engine) List() []Suggestion {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Suggestion, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, *e.byID[id])
	}
	return out
}

// Reject discards a ready or errored suggestion. The buffer is untouched.
func (e *Engine) Reject(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sug, ok := e.byID[id]
	if !ok {
		return &ErrSuggestionNotFound{ID: id}
	}
	if sug.Status == StatusApplied || sug.Status == StatusRejected {
		return &ErrSuggestionNotReady{ID: id, Status: sug.Status}
	}
	sug.Status = StatusRejected
	return nil
}

// register adds a suggestion to the engine's set.
func (e *Engine) register(sug *Suggestion) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.byID[sug.ID] = sug
	e.order = append(e.order, sug.ID)
}

// resolve mutates a stored suggestion under the engine lock.
func (e *Engine) resolve(id string, fn func(*Suggestion)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sug, ok := e.byID[id]; ok {
		fn(sug)
	}
}

// snapshot returns a copy of a stored suggestion.
func (e *Engine) snapshot(id string) Suggestion {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sug, ok := e.byID[id]; ok {
		return *sug
	}
	return Suggestion{}
}

const (
	suggestionOpenTag  = "<suggestion>"
	suggestionCloseTag = "</suggestion>"
)

// BuildImprovementPrompt assembles the improvement prompt for a section or
// the whole document. Pure string building; no side effects.
func BuildImprovementPrompt(sectionName, content, instruction string, wholeDocument bool) string {
	key := "improve-section"
	if wholeDocument {
		key = "improve-document"
	}

	var sb strings.Builder
	sb.WriteString(prompts.Format(prompts.MustGet("editor.json", key), map[string]string{
		"SectionName": sectionName,
		"Content":     content,
	}))

	if instruction != "" {
		sb.WriteString("\n")
		sb.WriteString(prompts.Format(prompts.MustGet("editor.json", "improve-instruction"), map[string]string{
			"Instruction": instruction,
		}))
	}
	return sb.String()
}

// ParseSuggestionResponse splits a raw completion response into the
// suggested replacement text and an optional explanation. When the
// well-known marker pair is present, the suggestion is the trimmed text
// strictly between the first opening and last closing marker and the rest
// becomes the explanation; otherwise the whole trimmed response is the
// suggestion.
func ParseSuggestionResponse(raw string) (suggested, explanation string) {
	start := strings.Index(raw, suggestionOpenTag)
	end := strings.LastIndex(raw, suggestionCloseTag)

	if start < 0 || end < start {
		return strings.TrimSpace(raw), ""
	}

	suggested = strings.TrimSpace(raw[start+len(suggestionOpenTag) : end])
	explanation = strings.TrimSpace(raw[:start] + " " + raw[end+len(suggestionCloseTag):])
	return suggested, explanation
}
