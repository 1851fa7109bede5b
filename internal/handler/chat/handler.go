package chat

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/genz-chat/backend/internal/model/chat"
	"github.com/zhouzirui/genz-chat/backend/internal/service/relay"
	"github.com/zhouzirui/genz-chat/backend/internal/service/session"
	"github.com/zhouzirui/genz-chat/backend/pkg/utils"
)

// Handler serves the non-streaming chat turn and session inspection.
type Handler struct {
	relay *relay.Service
	store *session.Store
}

// New creates the chat handler.
func New(relaySvc *relay.Service, store *session.Store) *Handler {
	return &Handler{
		relay: relaySvc,
		store: store,
	}
}

// RegisterRoutes mounts the chat routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/sessions/{sessionID}", h.handleGetSession)
}

type chatResponse struct {
	Response    string `json:"response"`
	SessionID   string `json:"session_id"`
	Personality string `json:"personality"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chat.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.relay.HandleTurn(r.Context(), relay.Turn{
		SessionID:     payload.SessionID,
		PersonalityID: payload.Personality,
		Message:       payload.Message,
	})
	if err != nil {
		RespondTurnError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, chatResponse{
		Response:    reply.Text,
		SessionID:   reply.SessionID,
		Personality: reply.PersonalityID,
	})
}

type transcriptMessage struct {
	Role    chat.Role `json:"role"`
	Content string    `json:"content"`
}

type sessionResponse struct {
	SessionID   string              `json:"session_id"`
	Personality string              `json:"personality"`
	Messages    []transcriptMessage `json:"messages"`
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	snap, ok, err := h.store.Snapshot(r.Context(), sessionID)
	if err != nil {
		RespondTurnError(w, err)
		return
	}
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	messages := make([]transcriptMessage, 0, len(snap.Transcript))
	for _, msg := range snap.Transcript {
		messages = append(messages, transcriptMessage{Role: msg.Role, Content: msg.Content})
	}
	utils.RespondJSON(w, http.StatusOK, sessionResponse{
		SessionID:   snap.ID,
		Personality: snap.PersonalityID,
		Messages:    messages,
	})
}

// RespondTurnError maps relay errors to status codes. Only the provider's own
// message is ever echoed back.
func RespondTurnError(w http.ResponseWriter, err error) {
	var upstream *relay.UpstreamError
	switch {
	case errors.Is(err, relay.ErrInvalidInput):
		utils.RespondError(w, http.StatusBadRequest, "Message is required")
	case errors.As(err, &upstream):
		utils.RespondError(w, http.StatusBadGateway, upstream.Message)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		utils.RespondError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		log.Error().Err(err).Str("component", "chat").Msg("unexpected turn error")
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
