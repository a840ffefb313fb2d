package editor

import "fmt"

// ErrInvalidRange indicates a zero-length or out-of-bounds range.
type ErrInvalidRange struct {
	Offset    int
	Length    int
	BufferLen int
}

func (e *ErrInvalidRange) Error() string {
	return fmt.Sprintf("invalid range: offset=%d length=%d buffer=%d", e.Offset, e.Length, e.BufferLen)
}

// ErrSectionNotFound indicates an unknown section id.
type ErrSectionNotFound struct {
	ID string
}

func (e *ErrSectionNotFound) Error() string {
	return fmt.Sprintf("section not found: %s", e.ID)
}

// ErrSuggestionNotFound indicates an unknown suggestion id.
type ErrSuggestionNotFound struct {
	ID string
}

func (e *ErrSuggestionNotFound) Error() string {
	return fmt.Sprintf("suggestion not found: %s", e.ID)
}

// ErrSuggestionNotReady indicates an apply or reject on a suggestion that
// is not in the ready state (still pending, failed, or already resolved).
type ErrSuggestionNotReady struct {
	ID     string
	Status Status
}

func (e *ErrSuggestionNotReady) Error() string {
	return fmt.Sprintf("suggestion %s is %s, not ready", e.ID, e.Status)
}

// ErrStaleSuggestion indicates that the suggestion's origin content no
// longer matches the section's live content; the document has been edited
// since the suggestion was requested.
type ErrStaleSuggestion struct {
	SectionID string
}

func (e *ErrStaleSuggestion) Error() string {
	if e.SectionID == "" {
		return "suggestion is stale: document content changed since it was requested"
	}
	return fmt.Sprintf("suggestion is stale: section %s changed since it was requested", e.SectionID)
}

// ErrNothingToUndo indicates an undo with no recorded apply to reverse.
type ErrNothingToUndo struct{}

func (e *ErrNothingToUndo) Error() string {
	return "nothing to undo"
}
