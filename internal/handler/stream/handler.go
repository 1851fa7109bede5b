package stream

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	chathandler "github.com/zhouzirui/genz-chat/backend/internal/handler/chat"
	"github.com/zhouzirui/genz-chat/backend/internal/model/chat"
	"github.com/zhouzirui/genz-chat/backend/internal/service/relay"
	"github.com/zhouzirui/genz-chat/backend/pkg/utils"
)

// Handler streams assistant replies as Server-Sent Events.
type Handler struct {
	relay *relay.Service
}

// New creates the stream handler.
func New(relaySvc *relay.Service) *Handler {
	return &Handler{relay: relaySvc}
}

// RegisterRoutes mounts the SSE endpoint on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/stream", h.handleStream)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	var payload chat.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	st, err := h.relay.HandleTurnStreaming(r.Context(), toTurn(payload))
	if err != nil {
		chathandler.RespondTurnError(w, err)
		return
	}
	defer st.Close()

	// Headers are committed from here on; failures travel as the last event.
	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	for {
		ev, err := st.Recv()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			log.Error().Err(err).Str("component", "stream").Msg("unexpected stream error")
			return
		}

		if err := utils.SendSSEChunk(w, flusher, EventPayload(ev)); err != nil {
			log.Info().Err(err).Str("component", "stream").Msg("client went away")
			return
		}
		if ctx.Err() != nil && !ev.Done {
			return
		}
	}
}

func toTurn(payload chat.TurnRequest) relay.Turn {
	return relay.Turn{
		SessionID:     payload.SessionID,
		PersonalityID: payload.Personality,
		Message:       payload.Message,
	}
}

// EventPayload renders an event in the wire shape shared by SSE and WebSocket.
func EventPayload(ev relay.Event) map[string]any {
	switch {
	case ev.Done && ev.Error != "":
		return map[string]any{"error": ev.Error, "done": true}
	case ev.Done:
		return map[string]any{
			"chunk":         "",
			"done":          true,
			"full_response": ev.FullResponse,
			"personality":   ev.PersonalityID,
		}
	default:
		return map[string]any{"chunk": ev.Chunk, "done": false}
	}
}
