// Package editor implements the section and suggestion lifecycle for the
// resume editor: marking document ranges as named sections, requesting
// AI-generated improvements for them, previewing word diffs, and applying
// or undoing replacements while keeping section ranges and content
// snapshots consistent with the underlying text buffer.
package editor

import "sync"

// Attributes is a set of formatting attributes applied to a buffer range,
// e.g. {"background": "#e8f5e9"}.
type Attributes map[string]string

// TextBuffer is the mutable document the editor core operates on. Offsets
// and lengths are rune-based. The core treats the buffer as an external
// capability: only the apply engine (and direct user edits routed through
// the surrounding service) write to it.
type TextBuffer interface {
	// Length returns the number of runes in the buffer.
	Length() int
	// Text returns the full buffer content.
	Text() string
	// TextRange returns the content of a range.
	TextRange(offset, length int) (string, error)
	// Insert inserts text at offset.
	Insert(offset int, text string) error
	// Delete removes length runes starting at offset.
	Delete(offset, length int) error
	// Format applies formatting attributes over a range.
	Format(offset, length int, attrs Attributes) error
	// ClearFormat removes all formatting from a range.
	ClearFormat(offset, length int) error
}

// span is a contiguous formatted region of a Document.
type span struct {
	offset int
	length int
	attrs  Attributes
}

// Document is an in-memory TextBuffer. Formatting spans shift with
// insertions and deletions the way an editor selection would: text inserted
// inside a span grows it, text inserted before it moves it, deletions trim
// whatever they overlap.
type Document struct {
	mu    sync.RWMutex
	runes []rune
	spans []span
}

// NewDocument creates a Document with the given initial content.
func NewDocument(text string) *Document {
	return &Document{runes: []rune(text)}
}

// Length returns the number of runes in the document.
func (d *Document) Length() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.runes)
}

// Text returns the full document content.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return string(d.runes)
}

// TextRange returns the content of a range.
func (d *Document) TextRange(offset, length int) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if offset < 0 || length < 0 || offset+length > len(d.runes) {
		return "", &ErrInvalidRange{Offset: offset, Length: length, BufferLen: len(d.runes)}
	}
	return string(d.runes[offset : offset+length]), nil
}

// Insert inserts text at offset.
func (d *Document) Insert(offset int, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if offset < 0 || offset > len(d.runes) {
		return &ErrInvalidRange{Offset: offset, BufferLen: len(d.runes)}
	}

	inserted := []rune(text)
	n := len(inserted)
	if n == 0 {
		return nil
	}

	d.runes = append(d.runes[:offset], append(inserted, d.runes[offset:]...)...)

	for i := range d.spans {
		s := &d.spans[i]
		switch {
		case offset <= s.offset:
			s.offset += n
		case offset < s.offset+s.length:
			s.length += n
		}
	}
	return nil
}

// Delete removes length runes starting at offset.
func (d *Document) Delete(offset, length int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if offset < 0 || length < 0 || offset+length > len(d.runes) {
		return &ErrInvalidRange{Offset: offset, Length: length, BufferLen: len(d.runes)}
	}
	if length == 0 {
		return nil
	}

	end := offset + length
	d.runes = append(d.runes[:offset], d.runes[end:]...)

	kept := d.spans[:0]
	for _, s := range d.spans {
		sEnd := s.offset + s.length
		switch {
		case sEnd <= offset:
			// Entirely before the deletion: unchanged.
		case s.offset >= end:
			s.offset -= length
		default:
			// Overlapping: trim the covered part.
			overlap := min(sEnd, end) - max(s.offset, offset)
			s.length -= overlap
			if s.offset > offset {
				s.offset = offset
			}
		}
		if s.length > 0 {
			kept = append(kept, s)
		}
	}
	d.spans = kept
	return nil
}

// Format applies formatting attributes over a range.
func (d *Document) Format(offset, length int, attrs Attributes) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if offset < 0 || length < 0 || offset+length > len(d.runes) {
		return &ErrInvalidRange{Offset: offset, Length: length, BufferLen: len(d.runes)}
	}
	if length == 0 || len(attrs) == 0 {
		return nil
	}

	copied := make(Attributes, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	d.spans = append(d.spans, span{offset: offset, length: length, attrs: copied})
	return nil
}

// ClearFormat removes all formatting from a range. Spans partially covered
// by the range are split around it.
func (d *Document) ClearFormat(offset, length int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if offset < 0 || length < 0 || offset+length > len(d.runes) {
		return &ErrInvalidRange{Offset: offset, Length: length, BufferLen: len(d.runes)}
	}
	if length == 0 {
		return nil
	}

	end := offset + length
	var kept []span
	for _, s := range d.spans {
		sEnd := s.offset + s.length
		if sEnd <= offset || s.offset >= end {
			kept = append(kept, s)
			continue
		}
		if s.offset < offset {
			kept = append(kept, span{offset: s.offset, length: offset - s.offset, attrs: s.attrs})
		}
		if sEnd > end {
			kept = append(kept, span{offset: end, length: sEnd - end, attrs: s.attrs})
		}
	}
	d.spans = kept
	return nil
}

// FormatsAt returns the merged formatting attributes at a position. Later
// spans win on conflicting keys.
func (d *Document) FormatsAt(offset int) Attributes {
	d.mu.RLock()
	defer d.mu.RUnlock()

	merged := make(Attributes)
	for _, s := range d.spans {
		if offset >= s.offset && offset < s.offset+s.length {
			for k, v := range s.attrs {
				merged[k] = v
			}
		}
	}
	return merged
}
