package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/genz-chat/backend/internal/model/chat"
	"github.com/zhouzirui/genz-chat/backend/internal/model/personality"
)

// Store owns every session in the process. The map is guarded for lookup and
// insert only; each session carries its own lock so turns for different ids
// never wait on each other.
type Store struct {
	personalities personality.Registry

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	// sem is a one-slot semaphore so waiting can be abandoned via ctx.
	sem     chan struct{}
	session *chat.Session
}

// Handle is exclusive access to one session for the duration of a turn.
type Handle struct {
	entry    *entry
	released bool
}

// NewStore creates an empty store resolving system prompts through personalities.
func NewStore(personalities personality.Registry) *Store {
	return &Store{
		personalities: personalities,
		entries:       make(map[string]*entry),
	}
}

func (s *Store) slot(sessionID string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		s.entries[sessionID] = e
	}
	return e
}

func (e *entry) acquire(ctx context.Context) error {
	select {
	case e.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *entry) release() {
	<-e.sem
}

// GetOrInit locks the session for sessionID and makes sure it is bound to
// personalityID. A new id gets a fresh transcript holding only the system
// message; an existing session with a different personality is reset the same
// way. The caller must Release the handle.
func (s *Store) GetOrInit(ctx context.Context, sessionID, personalityID string) (*Handle, error) {
	e := s.slot(sessionID)
	if err := e.acquire(ctx); err != nil {
		return nil, err
	}

	switch {
	case e.session == nil:
		e.session = s.newSession(sessionID, personalityID)
		log.Debug().Str("component", "session").Str("session", sessionID).Str("personality", personalityID).Msg("session created")
	case e.session.PersonalityID != personalityID:
		log.Info().Str("component", "session").Str("session", sessionID).
			Str("from", e.session.PersonalityID).Str("to", personalityID).
			Int("dropped", len(e.session.Transcript)-1).Msg("personality changed, transcript reset")
		e.session = s.newSession(sessionID, personalityID)
	}

	return &Handle{entry: e}, nil
}

func (s *Store) newSession(sessionID, personalityID string) *chat.Session {
	desc := s.personalities.Resolve(personalityID)
	now := time.Now().UTC()
	transcript := make([]chat.Message, 0, 16)
	transcript = append(transcript, chat.NewMessage(chat.RoleSystem, desc.SystemPrompt))
	return &chat.Session{
		ID:            sessionID,
		PersonalityID: personalityID,
		Transcript:    transcript,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// AppendUser appends a user message to the locked session.
func (s *Store) AppendUser(h *Handle, content string) {
	h.append(chat.RoleUser, content)
}

// AppendAssistant appends an assistant message to the locked session.
func (s *Store) AppendAssistant(h *Handle, content string) {
	h.append(chat.RoleAssistant, content)
}

// Snapshot returns a copy of the session, waiting for any in-flight turn on it.
func (s *Store) Snapshot(ctx context.Context, sessionID string) (chat.Session, bool, error) {
	s.mu.Lock()
	e, ok := s.entries[sessionID]
	s.mu.Unlock()
	if !ok {
		return chat.Session{}, false, nil
	}

	if err := e.acquire(ctx); err != nil {
		return chat.Session{}, false, err
	}
	defer e.release()

	if e.session == nil {
		return chat.Session{}, false, nil
	}
	return e.session.Clone(), true, nil
}

// Len reports how many session ids the store has seen.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (h *Handle) append(role chat.Role, content string) {
	sess := h.entry.session
	sess.Transcript = append(sess.Transcript, chat.NewMessage(role, content))
	sess.UpdatedAt = time.Now().UTC()
}

// SessionID is the id of the locked session.
func (h *Handle) SessionID() string {
	return h.entry.session.ID
}

// PersonalityID is the personality the locked session is bound to.
func (h *Handle) PersonalityID() string {
	return h.entry.session.PersonalityID
}

// Transcript returns a copy of the locked session's messages.
func (h *Handle) Transcript() []chat.Message {
	return append([]chat.Message(nil), h.entry.session.Transcript...)
}

// Release gives up the session lock. Calling it more than once is a no-op.
func (h *Handle) Release() {
	if h == nil || h.released {
		return
	}
	h.released = true
	h.entry.release()
}
