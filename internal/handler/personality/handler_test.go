package personality

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/genz-chat/backend/internal/model/personality"
)

func TestListPersonalities(t *testing.T) {
	r := chi.NewRouter()
	New(personality.NewMemoryRegistry(personality.Seed())).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/personalities", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Personalities []map[string]string `json:"personalities"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Personalities) != len(personality.Seed()) {
		t.Fatalf("expected %d personalities, got %d", len(personality.Seed()), len(body.Personalities))
	}

	first := body.Personalities[0]
	if first["key"] != personality.DefaultID {
		t.Fatalf("expected default first, got %q", first["key"])
	}
	if first["label"] == "" || first["greeting"] == "" {
		t.Fatalf("expected label and greeting, got %v", first)
	}
	if _, leaked := first["systemPrompt"]; leaked {
		t.Fatal("system prompt must not be listed")
	}
	if len(first) != 3 {
		t.Fatalf("expected exactly key/label/greeting, got %v", first)
	}
}
