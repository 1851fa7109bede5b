package stream

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/genz-chat/backend/internal/model/chat"
	"github.com/zhouzirui/genz-chat/backend/internal/service/relay"
)

// WebSocketHandler runs streamed turns over a WebSocket. Each inbound text
// frame is a chat.TurnRequest; each outbound frame is one event payload.
type WebSocketHandler struct {
	relay    *relay.Service
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the WebSocket transport.
func NewWebSocketHandler(relaySvc *relay.Service) *WebSocketHandler {
	return &WebSocketHandler{
		relay: relaySvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the WebSocket endpoint on r.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/chat/ws", h.handleWebSocket)
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("component", "websocket").Msg("upgrade failed")
		return
	}
	defer conn.Close()

	logger := log.With().Str("component", "websocket").Str("remote", r.RemoteAddr).Logger()
	logger.Debug().Msg("connection opened")

	for {
		var payload chat.TurnRequest
		if err := conn.ReadJSON(&payload); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Msg("read failed")
			}
			return
		}

		if err := h.runTurn(r, conn, payload, logger); err != nil {
			logger.Info().Err(err).Msg("connection closed mid-turn")
			return
		}
	}
}

// runTurn streams one reply. A non-nil error means the socket is unusable.
func (h *WebSocketHandler) runTurn(r *http.Request, conn *websocket.Conn, payload chat.TurnRequest, logger zerolog.Logger) error {
	st, err := h.relay.HandleTurnStreaming(r.Context(), toTurn(payload))
	if err != nil {
		message := "internal error"
		if errors.Is(err, relay.ErrInvalidInput) {
			message = "Message is required"
		} else {
			logger.Error().Err(err).Msg("turn rejected")
		}
		return conn.WriteJSON(map[string]any{"error": message, "done": true})
	}
	defer st.Close()

	for {
		ev, err := st.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := conn.WriteJSON(EventPayload(ev)); err != nil {
			return errors.Wrap(err, "write event")
		}
	}
}
