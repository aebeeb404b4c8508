package summarizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRouterGenerator_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test/model", body.Model)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "summarize this", body.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Topic: A\nSummary: a.\nTimestamp: 00:00:00 - 00:00:05"}}]}`))
	}))
	defer server.Close()

	gen := NewOpenRouterGenerator("sk-test", "test/model", server.URL)
	got, err := gen.Generate(context.Background(), "summarize this")
	require.NoError(t, err)
	assert.Equal(t, "Topic: A\nSummary: a.\nTimestamp: 00:00:00 - 00:00:05", got)
}

func TestOpenRouterGenerator_ContentParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":[{"type":"text","text":"part one "},{"type":"text","text":"part two"}]}}]}`))
	}))
	defer server.Close()

	got, err := NewOpenRouterGenerator("k", "", server.URL).Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "part one part two", got)
}

func TestOpenRouterGenerator_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	got, err := NewOpenRouterGenerator("k", "", server.URL).Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpenRouterGenerator_ErrorStatusRedactsKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`invalid key sk-or-v1-secret; Authorization: Bearer sk-or-v1-secret`))
	}))
	defer server.Close()

	_, err := NewOpenRouterGenerator("sk-or-v1-secret", "", server.URL).Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openrouter status 401")
	assert.NotContains(t, err.Error(), "sk-or-v1-secret")
}

func TestRedactSecrets(t *testing.T) {
	got := redactSecrets(`api_key=abc123; Bearer tok.en-1`, "")
	assert.Equal(t, `api_key=[REDACTED]; Bearer [REDACTED]`, got)
}
