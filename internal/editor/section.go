package editor

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Kind tags a section with its place in the resume taxonomy. Custom
// sections carry a user-supplied name instead of a taxonomy label.
type Kind string

const (
	KindContact        Kind = "contact"
	KindSummary        Kind = "summary"
	KindExperience     Kind = "experience"
	KindEducation      Kind = "education"
	KindSkills         Kind = "skills"
	KindProjects       Kind = "projects"
	KindCertifications Kind = "certifications"
	KindLanguages      Kind = "languages"
	KindInterests      Kind = "interests"
	KindReferences     Kind = "references"
	KindCustom         Kind = "custom"
)

var kindDisplayNames = map[Kind]string{
	KindContact:        "Contact Information",
	KindSummary:        "Professional Summary",
	KindExperience:     "Work Experience",
	KindEducation:      "Education",
	KindSkills:         "Skills",
	KindProjects:       "Projects",
	KindCertifications: "Certifications",
	KindLanguages:      "Languages",
	KindInterests:      "Interests",
	KindReferences:     "References",
	KindCustom:         "Custom Section",
}

// Highlight colors match the ones the editor UI renders per section type.
var kindColors = map[Kind]string{
	KindContact:        "#e3f2fd",
	KindSummary:        "#e8f5e9",
	KindExperience:     "#f3e5f5",
	KindEducation:      "#fff8e1",
	KindSkills:         "#ffebee",
	KindProjects:       "#e0f2f1",
	KindCertifications: "#e8eaf6",
	KindLanguages:      "#fff3e0",
	KindInterests:      "#f1f8e9",
	KindReferences:     "#fce4ec",
	KindCustom:         "#f5f5f5",
}

// ParseKind maps a string to a taxonomy Kind. Unknown values map to
// KindCustom with ok=false.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, known := kindDisplayNames[k]; known {
		return k, true
	}
	return KindCustom, false
}

// DisplayName returns the default label for a kind.
func (k Kind) DisplayName() string {
	if name, ok := kindDisplayNames[k]; ok {
		return name
	}
	return kindDisplayNames[KindCustom]
}

// Color returns the highlight color for a kind.
func (k Kind) Color() string {
	if color, ok := kindColors[k]; ok {
		return color
	}
	return kindColors[KindCustom]
}

// Range addresses a span of the text buffer in rune offsets.
type Range struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// End returns the offset one past the last rune of the range.
func (r Range) End() int {
	return r.Offset + r.Length
}

// Section is a named, range-addressed span of the document tracked for
// targeted improvement. Content is a snapshot of the buffer text at Range
// as of creation or the last applied suggestion, not a live view.
type Section struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	Range   Range  `json:"range"`
	Content string `json:"content"`
}

// Store owns the marked sections of one document, in creation order.
// Sections are handed out as copies; only UpdateAfterEdit mutates a stored
// section, and only the apply engine calls it.
type Store struct {
	mu    sync.RWMutex
	buf   TextBuffer
	order []string
	byID  map[string]*Section
}

// NewStore creates an empty section store over the given buffer.
func NewStore(buf TextBuffer) *Store {
	return &Store{buf: buf, byID: make(map[string]*Section)}
}

// Create marks a buffer range as a section. The range must be non-empty
// and within buffer bounds. The section's content snapshot is read from
// the buffer and a highlight marker is applied over the range. The buffer
// text itself is not modified.
//
// Ranges of different sections may overlap; the store does not enforce
// disjointness.
func (s *Store) Create(r Range, name string, kind Kind) (Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Length <= 0 || r.Offset < 0 || r.End() > s.buf.Length() {
		return Section{}, &ErrInvalidRange{Offset: r.Offset, Length: r.Length, BufferLen: s.buf.Length()}
	}

	content, err := s.buf.TextRange(r.Offset, r.Length)
	if err != nil {
		return Section{}, err
	}

	if name == "" {
		name = kind.DisplayName()
	}

	sec := &Section{
		ID:      uuid.NewString(),
		Name:    name,
		Kind:    kind,
		Range:   r,
		Content: content,
	}

	if err := s.buf.Format(r.Offset, r.Length, Attributes{"background": kind.Color()}); err != nil {
		return Section{}, err
	}

	s.byID[sec.ID] = sec
	s.order = append(s.order, sec.ID)
	return *sec, nil
}

// Get returns a copy of the section with the given id.
func (s *Store) Get(id string) (Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sec, ok := s.byID[id]
	if !ok {
		return Section{}, &ErrSectionNotFound{ID: id}
	}
	return *sec, nil
}

// List returns copies of all sections in creation order.
func (s *Store) List() []Section {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Section, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.byID[id])
	}
	return out
}

// UpdateAfterEdit atomically replaces a section's range and content after
// a buffer mutation. Called only by the apply engine; this is the single
// write path that keeps range and content synchronized.
func (s *Store) UpdateAfterEdit(id string, r Range, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, ok := s.byID[id]
	if !ok {
		return &ErrSectionNotFound{ID: id}
	}
	sec.Range = r
	sec.Content = content
	return nil
}

// Remove deletes a section and clears its highlight marker. Suggestions
// still referencing the section become stale and are rejected at use; no
// eager cascade happens here.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, ok := s.byID[id]
	if !ok {
		return &ErrSectionNotFound{ID: id}
	}

	if sec.Range.End() <= s.buf.Length() {
		if err := s.buf.ClearFormat(sec.Range.Offset, sec.Range.Length); err != nil {
			return err
		}
	}

	delete(s.byID, id)
	for i, sid := range s.order {
		if sid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
