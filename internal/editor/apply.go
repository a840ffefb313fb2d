package editor

import (
	"sort"
	"sync"
	"unicode/utf8"
)

// UndoRecord captures the state needed to reverse one applied suggestion.
// Only the most recent apply is recorded; a new apply overwrites it.
type UndoRecord struct {
	SectionID    string
	Range        Range
	PriorContent string

	kind          Kind
	appliedLength int
}

// ApplyResult reports the outcome of one entry in a batch apply.
type ApplyResult struct {
	SuggestionID string `json:"suggestion_id"`
	Err          string `json:"error,omitempty"`
}

// Applier performs suggestion replacements on the buffer and keeps the
// section store synchronized. It holds the single-level undo slot.
type Applier struct {
	mu     sync.Mutex
	store  *Store
	buf    TextBuffer
	engine *Engine
	undo   *UndoRecord
}

// NewApplier creates an applier over the given store, buffer, and engine.
func NewApplier(store *Store, buf TextBuffer, engine *Engine) *Applier {
	return &Applier{store: store, buf: buf, engine: engine}
}

// Apply replaces the target content with the suggestion's text. The
// suggestion must be ready and fresh; staleness is re-checked here, not at
// request time, because the document may have been edited in between. On
// success the section's range keeps its offset and takes the suggested
// text's length, its content snapshot is replaced, its highlight is
// re-applied over the new range, and the prior state is recorded for undo.
func (a *Applier) Apply(suggestionID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.applyLocked(suggestionID)
}

func (a *Applier) applyLocked(suggestionID string) error {
	sug, err := a.engine.Get(suggestionID)
	if err != nil {
		return err
	}
	if sug.Status != StatusReady {
		return &ErrSuggestionNotReady{ID: sug.ID, Status: sug.Status}
	}
	if a.engine.IsStale(sug) {
		return &ErrStaleSuggestion{SectionID: sug.SectionID}
	}

	var r Range
	var kind Kind
	if sug.SectionID == "" {
		r = Range{Offset: 0, Length: a.buf.Length()}
	} else {
		sec, err := a.store.Get(sug.SectionID)
		if err != nil {
			return err
		}
		r = sec.Range
		kind = sec.Kind
	}

	// The store snapshot can pass the stale check while the buffer text
	// under the range has moved: a whole-document apply or a direct edit
	// before the range never touches the section's snapshot. Verify the
	// live buffer text before mutating so a suggestion is never spliced
	// over text it was not generated from.
	current, err := a.buf.TextRange(r.Offset, r.Length)
	if err != nil || current != sug.OriginalContent {
		return &ErrStaleSuggestion{SectionID: sug.SectionID}
	}

	if err := a.buf.Delete(r.Offset, r.Length); err != nil {
		return err
	}
	if err := a.buf.Insert(r.Offset, sug.SuggestedContent); err != nil {
		return err
	}

	newRange := Range{Offset: r.Offset, Length: utf8.RuneCountInString(sug.SuggestedContent)}

	if sug.SectionID != "" {
		if err := a.store.UpdateAfterEdit(sug.SectionID, newRange, sug.SuggestedContent); err != nil {
			return err
		}
		if err := a.buf.Format(newRange.Offset, newRange.Length, Attributes{"background": kind.Color()}); err != nil {
			return err
		}
	}

	a.undo = &UndoRecord{
		SectionID:     sug.SectionID,
		Range:         r,
		PriorContent:  sug.OriginalContent,
		kind:          kind,
		appliedLength: newRange.Length,
	}

	a.engine.resolve(suggestionID, func(s *Suggestion) {
		s.Status = StatusApplied
	})
	return nil
}

// Undo reverses the most recent apply. The slot is cleared on use, so a
// second consecutive undo fails; applying again re-arms it.
func (a *Applier) Undo() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.undo == nil {
		return &ErrNothingToUndo{}
	}
	rec := a.undo
	a.undo = nil

	if err := a.buf.Delete(rec.Range.Offset, rec.appliedLength); err != nil {
		return err
	}
	if err := a.buf.Insert(rec.Range.Offset, rec.PriorContent); err != nil {
		return err
	}

	if rec.SectionID != "" {
		if err := a.store.UpdateAfterEdit(rec.SectionID, rec.Range, rec.PriorContent); err != nil {
			return err
		}
		// The delete above trimmed the applied highlight away; restore it
		// over the prior range.
		if err := a.buf.Format(rec.Range.Offset, rec.Range.Length, Attributes{"background": rec.kind.Color()}); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies every ready suggestion in one batch, ordered by
// descending section offset so earlier replacements cannot shift the
// ranges of later ones. Stale or failing entries are reported in the
// results without aborting the batch. The undo slot afterwards holds only
// the last successful entry.
func (a *Applier) ApplyAll() []ApplyResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	type entry struct {
		sug    Suggestion
		offset int
	}

	var batch []entry
	for _, sug := range a.engine.List() {
		if sug.Status != StatusReady {
			continue
		}
		offset := 0
		if sug.SectionID != "" {
			sec, err := a.store.Get(sug.SectionID)
			if err != nil {
				batch = append(batch, entry{sug: sug, offset: -1})
				continue
			}
			offset = sec.Range.Offset
		}
		batch = append(batch, entry{sug: sug, offset: offset})
	}

	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].offset > batch[j].offset
	})

	results := make([]ApplyResult, 0, len(batch))
	for _, ent := range batch {
		res := ApplyResult{SuggestionID: ent.sug.ID}
		if err := a.applyLocked(ent.sug.ID); err != nil {
			res.Err = err.Error()
		}
		results = append(results, res)
	}
	return results
}

// CanUndo reports whether an apply is recorded for reversal.
func (a *Applier) CanUndo() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.undo != nil
}
