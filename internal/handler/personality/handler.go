package personality

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/genz-chat/backend/internal/model/personality"
	"github.com/zhouzirui/genz-chat/backend/pkg/utils"
)

// Handler lists the available personalities.
type Handler struct {
	personalities personality.Registry
}

// New creates the personality handler.
func New(personalities personality.Registry) *Handler {
	return &Handler{personalities: personalities}
}

// RegisterRoutes mounts the personality routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personalities", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string][]personality.Summary{
		"personalities": h.personalities.List(),
	})
}
