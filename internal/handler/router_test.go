package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/genz-chat/backend/internal/model/personality"
	"github.com/zhouzirui/genz-chat/backend/internal/service/llm/llmtest"
	"github.com/zhouzirui/genz-chat/backend/internal/service/relay"
	"github.com/zhouzirui/genz-chat/backend/internal/service/session"
)

func newTestRouter() http.Handler {
	reg := personality.NewMemoryRegistry(personality.Seed())
	store := session.NewStore(reg)
	return NewRouter(Deps{
		Personalities:  reg,
		Store:          store,
		Relay:          relay.NewService(store, reg, &llmtest.Provider{Reply: "bet"}),
		AllowedOrigins: []string{"*"},
	})
}

func TestHealthOnBothPrefixes(t *testing.T) {
	r := newTestRouter()

	for _, path := range []string{"/health", "/api/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)

		require.Equal(t, http.StatusOK, resp.Code, path)
		assert.JSONEq(t, `{"status":"ok"}`, resp.Body.String(), path)
	}
}

func TestChatThroughRouter(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader([]byte(`{"message":"hi","session_id":"s1"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"response":"bet","session_id":"s1","personality":"default"}`, resp.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/sessions/s1", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestRootListsEndpoints(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Message   string   `json:"message"`
		Provider  string   `json:"provider"`
		Endpoints []string `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "fake", body.Provider)
	assert.Contains(t, body.Endpoints, "/api/chat/stream")
}
