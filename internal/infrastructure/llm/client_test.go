package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusframe-server/internal/domain/advisory"
	"focusframe-server/internal/domain/item"
)

func completionServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		if assert.Len(t, req.Messages, 2) {
			assert.Contains(t, req.Messages[1].Content, "Finish report")
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "chatcmpl-1",
			"choices": []map[string]any{{
				"index":   0,
				"message": map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
}

func TestClientSuggest(t *testing.T) {
	srv := completionServer(t, http.StatusOK, `{"suggestedBucket":"influence","reasoning":"Depends on others' input."}`)
	defer srv.Close()

	c := NewClient(srv.URL+"/", "test-key", "test-model", 5*time.Second, zerolog.Nop())
	s, err := c.Suggest(context.Background(), "Finish report", item.BucketControl)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, item.BucketInfluence, s.SuggestedBucket)
}

func TestClientAgrees(t *testing.T) {
	srv := completionServer(t, http.StatusOK, `{"suggestedBucket":"","reasoning":""}`)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "test-model", 5*time.Second, zerolog.Nop())
	s, err := c.Suggest(context.Background(), "Finish report", item.BucketControl)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestClientUpstreamError(t *testing.T) {
	srv := completionServer(t, http.StatusServiceUnavailable, "")
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "test-model", 5*time.Second, zerolog.Nop())
	_, err := c.Suggest(context.Background(), "Finish report", item.BucketControl)
	require.Error(t, err)
	assert.True(t, advisory.IsAdvisoryError(err))
}

func TestClientUnreadableReply(t *testing.T) {
	srv := completionServer(t, http.StatusOK, "not json at all")
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "test-model", 5*time.Second, zerolog.Nop())
	_, err := c.Suggest(context.Background(), "Finish report", item.BucketControl)
	assert.True(t, advisory.IsAdvisoryError(err))
}
