package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/genz-chat/backend/internal/handler/chat"
	personalityHandler "github.com/zhouzirui/genz-chat/backend/internal/handler/personality"
	"github.com/zhouzirui/genz-chat/backend/internal/handler/stream"
	middlewarePkg "github.com/zhouzirui/genz-chat/backend/internal/middleware"
	"github.com/zhouzirui/genz-chat/backend/internal/model/personality"
	"github.com/zhouzirui/genz-chat/backend/internal/service/relay"
	"github.com/zhouzirui/genz-chat/backend/internal/service/session"
	"github.com/zhouzirui/genz-chat/backend/pkg/utils"
)

// Deps are the services the HTTP surface needs.
type Deps struct {
	Personalities  personality.Registry
	Store          *session.Store
	Relay          *relay.Service
	AllowedOrigins []string
}

var endpoints = []string{
	"/api/chat",
	"/api/chat/stream",
	"/api/chat/ws",
	"/api/personalities",
	"/api/sessions/{sessionID}",
	"/api/health",
}

// NewRouter wires HTTP routes to core services. Every route is served both
// under /api and at the root.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.AllowedOrigins))

	personalities := personalityHandler.New(deps.Personalities)
	chatHandler := chat.New(deps.Relay, deps.Store)
	streamHandler := stream.New(deps.Relay)
	wsHandler := stream.NewWebSocketHandler(deps.Relay)

	mount := func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		personalities.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		streamHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)
	}

	r.Route("/api", mount)
	mount(r)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"message":   "Gen Z Chatbot API",
			"provider":  deps.Relay.ProviderName(),
			"endpoints": endpoints,
		})
	})

	return r
}
