package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-editor/internal/editor"
	"github.com/jonathan/resume-editor/internal/llm"
)

// ErrSessionNotFound indicates an unknown document session id.
type ErrSessionNotFound struct {
	ID string
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("document session not found: %s", e.ID)
}

// session is one open document with its editor components. The mutex
// serializes compound mutations (direct edits, section changes, apply,
// undo); it is deliberately not held across completion calls, so the
// document stays editable while the model is thinking.
type session struct {
	id      string
	created time.Time

	mu      sync.Mutex
	doc     *editor.Document
	store   *editor.Store
	engine  *editor.Engine
	applier *editor.Applier
}

func newSession(text string, client llm.Client) *session {
	doc := editor.NewDocument(text)
	store := editor.NewStore(doc)
	engine := editor.NewEngine(store, doc, client)
	return &session{
		id:      uuid.NewString(),
		created: time.Now(),
		doc:     doc,
		store:   store,
		engine:  engine,
		applier: editor.NewApplier(store, doc, engine),
	}
}

// sessionManager owns all open document sessions.
type sessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newSessionManager() *sessionManager {
	return &sessionManager{sessions: make(map[string]*session)}
}

func (m *sessionManager) create(text string, client llm.Client) *session {
	sess := newSession(text, client)
	m.mu.Lock()
	m.sessions[sess.id] = sess
	m.mu.Unlock()
	return sess
}

func (m *sessionManager) get(id string) (*session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, &ErrSessionNotFound{ID: id}
	}
	return sess, nil
}

func (m *sessionManager) remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return &ErrSessionNotFound{ID: id}
	}
	delete(m.sessions, id)
	return nil
}

func (m *sessionManager) count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
