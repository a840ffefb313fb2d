package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-editor/internal/editor"
	"github.com/jonathan/resume-editor/internal/importer"
)

// decodeAndValidate decodes a JSON body into dst and runs struct
// validation. An empty body is allowed when dst has no required fields.
func (s *Server) decodeAndValidate(r *http.Request, dst any) error {
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
			return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
		}
	}
	if err := s.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ErrValidation{Field: fe.Field(), Message: fmt.Sprintf("failed %q validation", fe.Tag())}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// session resolves the document session from the path.
func (s *Server) session(r *http.Request) (*session, error) {
	return s.sessions.get(r.PathValue("id"))
}

type documentResponse struct {
	ID          string              `json:"id"`
	Text        string              `json:"text"`
	Length      int                 `json:"length"`
	Sections    []editor.Section    `json:"sections"`
	Suggestions []editor.Suggestion `json:"suggestions"`
	CanUndo     bool                `json:"can_undo"`
	CreatedAt   time.Time           `json:"created_at"`
}

func (s *Server) documentResponse(sess *session) documentResponse {
	return documentResponse{
		ID:          sess.id,
		Text:        sess.doc.Text(),
		Length:      sess.doc.Length(),
		Sections:    sess.store.List(),
		Suggestions: sess.engine.List(),
		CanUndo:     sess.applier.CanUndo(),
		CreatedAt:   sess.created,
	}
}

type createDocumentRequest struct {
	Text string `json:"text"`
}

// handleCreateDocument opens a new document session. Without text, the
// session starts from the starter template.
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleError(w, err)
		return
	}

	text := req.Text
	if text == "" {
		text = importer.StarterTemplate
	}

	sess := s.sessions.create(text, s.client)
	s.jsonResponse(w, http.StatusCreated, s.documentResponse(sess))
}

// handleGetDocument returns the full session state.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.documentResponse(sess))
}

// handleDeleteDocument closes a session.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.remove(r.PathValue("id")); err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type editRequest struct {
	Op     string `json:"op" validate:"required,oneof=insert delete"`
	Offset int    `json:"offset" validate:"min=0"`
	Length int    `json:"length"`
	Text   string `json:"text"`
}

// handleEdit applies a direct user edit to the buffer. Suggestions whose
// sections the edit touches become stale lazily; nothing is recomputed
// here.
func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req editRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleError(w, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	switch req.Op {
	case "insert":
		err = sess.doc.Insert(req.Offset, req.Text)
	case "delete":
		err = sess.doc.Delete(req.Offset, req.Length)
	}
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.documentResponse(sess))
}

type createSectionRequest struct {
	Offset int    `json:"offset" validate:"min=0"`
	Length int    `json:"length" validate:"required,min=1"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
}

// handleCreateSection marks a buffer range as a section.
func (s *Server) handleCreateSection(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req createSectionRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleError(w, err)
		return
	}

	kind, known := editor.ParseKind(req.Kind)
	name := req.Name
	if !known && req.Kind != "" && name == "" {
		name = req.Kind
	}

	sess.mu.Lock()
	sec, err := sess.store.Create(editor.Range{Offset: req.Offset, Length: req.Length}, name, kind)
	sess.mu.Unlock()
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, sec)
}

// handleListSections lists the sections in creation order.
func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.store.List())
}

// handleRemoveSection unmarks a section.
func (s *Server) handleRemoveSection(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	sess.mu.Lock()
	err = sess.store.Remove(r.PathValue("section_id"))
	sess.mu.Unlock()
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "removed"})
}

type improveRequest struct {
	Instruction string `json:"instruction"`
	All         bool   `json:"all"`
}

// handleImproveSection requests an improvement for one section. The
// session lock is not held: the completion call can take seconds and the
// document must stay editable meanwhile.
func (s *Server) handleImproveSection(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req improveRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleError(w, err)
		return
	}

	sug, err := sess.engine.RequestImprovement(r.Context(), r.PathValue("section_id"), req.Instruction)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sug)
}

// handleImproveDocument requests a whole-document improvement, or with
// all=true one independent improvement per section.
func (s *Server) handleImproveDocument(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req improveRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleError(w, err)
		return
	}

	if req.All {
		results := sess.engine.RequestImprovementForAll(r.Context(), req.Instruction)
		s.jsonResponse(w, http.StatusOK, map[string]any{"suggestions": results})
		return
	}

	sug, err := sess.engine.RequestImprovement(r.Context(), "", req.Instruction)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sug)
}

// handleAnalyze asks the model to identify sections and marks them.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	created, err := editor.AnalyzeDocument(r.Context(), s.client, sess.store, sess.doc)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"sections": created})
}

// handleListSuggestions lists all suggestions with a live staleness flag.
func (s *Server) handleListSuggestions(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	type suggestionWithState struct {
		editor.Suggestion
		Stale bool `json:"stale"`
	}

	suggestions := sess.engine.List()
	out := make([]suggestionWithState, 0, len(suggestions))
	for _, sug := range suggestions {
		out = append(out, suggestionWithState{
			Suggestion: sug,
			Stale:      sug.Status == editor.StatusReady && sess.engine.IsStale(sug),
		})
	}
	s.jsonResponse(w, http.StatusOK, out)
}

// handleSuggestionDiff returns the word diff between the original and
// suggested content of a ready suggestion.
func (s *Server) handleSuggestionDiff(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	sug, err := sess.engine.Get(r.PathValue("suggestion_id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	if sug.Status != editor.StatusReady {
		s.handleError(w, &editor.ErrSuggestionNotReady{ID: sug.ID, Status: sug.Status})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"suggestion_id": sug.ID,
		"segments":      editor.Diff(sug.OriginalContent, sug.SuggestedContent),
		"stale":         sess.engine.IsStale(sug),
	})
}

// handleApplySuggestion applies a ready suggestion to the document.
func (s *Server) handleApplySuggestion(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	sess.mu.Lock()
	err = sess.applier.Apply(r.PathValue("suggestion_id"))
	sess.mu.Unlock()
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.documentResponse(sess))
}

// handleRejectSuggestion discards a suggestion without touching the
// document.
func (s *Server) handleRejectSuggestion(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	if err := sess.engine.Reject(r.PathValue("suggestion_id")); err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "rejected"})
}

// handleApplyAll applies every ready suggestion in one batch.
func (s *Server) handleApplyAll(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	sess.mu.Lock()
	results := sess.applier.ApplyAll()
	sess.mu.Unlock()

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"results":  results,
		"document": s.documentResponse(sess),
	})
}

// handleUndo reverses the most recent apply.
func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	sess.mu.Lock()
	err = sess.applier.Undo()
	sess.mu.Unlock()
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.documentResponse(sess))
}
