package relay

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/genz-chat/backend/internal/analysis/repetition"
	"github.com/zhouzirui/genz-chat/backend/internal/model/personality"
	"github.com/zhouzirui/genz-chat/backend/internal/service/llm"
	"github.com/zhouzirui/genz-chat/backend/internal/service/session"
)

// DefaultSessionID is used when a request does not name a session.
const DefaultSessionID = "default"

// Turn is one inbound user message.
type Turn struct {
	SessionID     string
	PersonalityID string
	Message       string
}

func (t Turn) withDefaults() Turn {
	if t.SessionID == "" {
		t.SessionID = DefaultSessionID
	}
	if t.PersonalityID == "" {
		t.PersonalityID = personality.DefaultID
	}
	return t
}

// Reply is the assistant's answer to a non-streaming turn.
type Reply struct {
	Text          string
	SessionID     string
	PersonalityID string
}

// Service relays turns between sessions and the completion provider.
type Service struct {
	store         *session.Store
	personalities personality.Registry
	provider      llm.Provider
	params        llm.Params
}

// NewService wires the relay. Sampling parameters are always llm.DefaultParams.
func NewService(store *session.Store, personalities personality.Registry, provider llm.Provider) *Service {
	return &Service{
		store:         store,
		personalities: personalities,
		provider:      provider,
		params:        llm.DefaultParams,
	}
}

// ProviderName names the configured completion back end.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// HandleTurn runs one turn and returns the full reply. On provider failure the
// user message stays in the transcript and an *UpstreamError is returned.
func (s *Service) HandleTurn(ctx context.Context, turn Turn) (Reply, error) {
	turn = turn.withDefaults()
	if turn.Message == "" {
		return Reply{}, ErrInvalidInput
	}

	logger := s.turnLogger(turn)
	h, err := s.begin(ctx, turn, logger)
	if err != nil {
		return Reply{}, err
	}
	defer h.Release()

	text, err := s.provider.Complete(ctx, h.Transcript(), s.params)
	if err != nil {
		logger.Error().Err(err).Msg("completion failed")
		return Reply{}, newUpstreamError(s.provider.Name(), err)
	}

	s.store.AppendAssistant(h, text)
	logger.Info().Int("length", len(text)).Msg("turn completed")

	return Reply{
		Text:          text,
		SessionID:     turn.SessionID,
		PersonalityID: turn.PersonalityID,
	}, nil
}

// begin locks and initialises the session, then records the user message.
// The returned handle must be released by the caller.
func (s *Service) begin(ctx context.Context, turn Turn, logger zerolog.Logger) (*session.Handle, error) {
	if !s.personalities.Has(turn.PersonalityID) {
		logger.Debug().Msg("unknown personality, using default prompt")
	}

	h, err := s.store.GetOrInit(ctx, turn.SessionID, turn.PersonalityID)
	if err != nil {
		return nil, err
	}

	// Informational only; the prompt's own instructions deal with repeats.
	if repetition.IsRepetitive(h.Transcript(), turn.Message) {
		logger.Info().Msg("user repeated an earlier message")
	}

	s.store.AppendUser(h, turn.Message)
	return h, nil
}

func (s *Service) turnLogger(turn Turn) zerolog.Logger {
	return log.With().
		Str("component", "relay").
		Str("turn", uuid.NewString()).
		Str("session", turn.SessionID).
		Str("personality", turn.PersonalityID).
		Str("provider", s.provider.Name()).
		Logger()
}
