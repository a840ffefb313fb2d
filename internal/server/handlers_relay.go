package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/resume-editor/internal/editor"
	"github.com/jonathan/resume-editor/internal/importer"
	"github.com/jonathan/resume-editor/internal/llm"
	"github.com/jonathan/resume-editor/internal/prompts"
)

type generateRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	Tier   string `json:"tier" validate:"omitempty,oneof=lite standard advanced"`
}

// handleGenerate relays a raw prompt to the completion client. Kept for
// clients that build their own prompts instead of going through a
// session.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleError(w, err)
		return
	}

	tier := llm.TierStandard
	if req.Tier != "" {
		tier = llm.ModelTier(req.Tier)
	}

	text, err := s.client.GenerateContent(r.Context(), req.Prompt, tier)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"text":  text,
		"model": s.client.Model(tier),
	})
}

type chatRequest struct {
	Message     string `json:"message" validate:"required"`
	SectionName string `json:"section_name"`
	Content     string `json:"content"`
}

// handleChat answers a free-form assistant message. When the request
// names a section and carries its content, the reply may include a
// suggestion the client can preview; otherwise it is plain advice.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleError(w, err)
		return
	}

	var prompt string
	if req.SectionName != "" && req.Content != "" {
		prompt = prompts.Format(prompts.MustGet("editor.json", "chat-section"), map[string]string{
			"SectionName": req.SectionName,
			"Content":     req.Content,
			"Message":     req.Message,
		})
	} else {
		prompt = prompts.Format(prompts.MustGet("editor.json", "chat-general"), map[string]string{
			"Message": req.Message,
		})
	}

	reply, err := s.client.GenerateContent(r.Context(), prompt, llm.TierStandard)
	if err != nil {
		s.handleError(w, err)
		return
	}

	resp := map[string]string{"reply": reply}
	if strings.Contains(reply, "<suggestion>") {
		suggested, explanation := editor.ParseSuggestionResponse(reply)
		resp["suggested_content"] = suggested
		resp["explanation"] = explanation
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

type analyzeRequest struct {
	Content string `json:"content" validate:"required"`
}

// handleAnalyzeRelay identifies sections in arbitrary text without a
// session. Returns the raw name-to-line-span map; clients that want
// marked sections should use the per-document analyze endpoint.
func (s *Server) handleAnalyzeRelay(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleError(w, err)
		return
	}

	prompt := prompts.Format(prompts.MustGet("editor.json", "analyze-document"), map[string]string{
		"Content": editor.NumberedLines(req.Content),
	})

	raw, err := s.client.GenerateJSON(r.Context(), prompt, llm.TierStandard)
	if err != nil {
		s.handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(llm.CleanJSONBlock(raw)))
}

// handleUpload extracts text from an uploaded document and opens a
// session with it.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.handleError(w, &ErrValidation{Field: "file", Message: "invalid multipart upload: " + err.Error()})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.handleError(w, &ErrValidation{Field: "file", Message: "missing file field"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.handleError(w, &ErrValidation{Field: "file", Message: "reading upload: " + err.Error()})
		return
	}

	text, err := importer.Detect(header.Filename, data)
	if err != nil {
		s.handleError(w, err)
		return
	}

	sess := s.sessions.create(text, s.client)
	s.jsonResponse(w, http.StatusCreated, s.documentResponse(sess))
}

// handleTemplate returns the starter resume text.
func (s *Server) handleTemplate(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"text": importer.StarterTemplate})
}
