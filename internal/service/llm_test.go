package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pageza/recipe-share/backend/config"
)

func newTestLLM(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewLLMService(&config.Config{
		LLMAPIKey:  "test-api-key",
		LLMAPIURL:  srv.URL,
		LLMModel:   "deepseek-chat",
		LLMTimeout: 5 * time.Second,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return svc
}

func TestNewLLMService(t *testing.T) {
	t.Run("should fail without API key", func(t *testing.T) {
		svc, err := NewLLMService(&config.Config{}, zaptest.NewLogger(t))

		assert.Error(t, err)
		assert.Nil(t, svc)
		assert.Contains(t, err.Error(), "DEEPSEEK_API_KEY must be set")
	})

	t.Run("should default the timeout", func(t *testing.T) {
		svc, err := NewLLMService(&config.Config{LLMAPIKey: "k"}, zaptest.NewLogger(t))

		require.NoError(t, err)
		assert.Equal(t, 60*time.Second, svc.client.Timeout)
	})
}

func TestLLMService_Complete(t *testing.T) {
	var got Request
	svc := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"ingredients\":[]}"}}]}`))
	})

	reply, err := svc.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})

	require.NoError(t, err)
	assert.Equal(t, `{"ingredients":[]}`, reply)
	assert.Equal(t, "deepseek-chat", got.Model)
	assert.Equal(t, "json_object", got.ResponseFormat["type"])
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hi", got.Messages[0].Content)
}

func TestLLMService_Complete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"non-2xx status", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, "status 429"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices"},
		{"api error", http.StatusOK, `{"error":{"message":"bad model"}}`, "bad model"},
		{"invalid json", http.StatusOK, `not json`, "failed to unmarshal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := svc.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLLMService_Complete_ContextCanceled(t *testing.T) {
	svc := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"x"}}]}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Complete(ctx, []Message{{Role: "user", Content: "hi"}})

	assert.Error(t, err)
}
