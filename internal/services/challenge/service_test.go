package challenge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickdraw-game/quickdraw-go/internal/model"
	"github.com/quickdraw-game/quickdraw-go/internal/testutil"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = server.URL
	cfg.APIKey = "test-key"
	cfg.Timeout = time.Second
	return New(cfg, testutil.NopLogger())
}

func TestGenerateReturnsPromptText(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-1.5-flash")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "Animals")

		_, _ = w.Write([]byte(`{
			"candidates": [
				{"content": {"parts": [{"text": "Draw a penguin ordering coffee.\n"}]}}
			]
		}`))
	})

	prompt, err := svc.Generate(context.Background(), "Animals")
	require.NoError(t, err)
	assert.Equal(t, "Draw a penguin ordering coffee.", prompt)
}

func TestGenerateWithoutAPIKeyDegrades(t *testing.T) {
	cfg := DefaultConfig()
	svc := New(cfg, testutil.NopLogger())

	_, err := svc.Generate(context.Background(), "Animals")
	assert.ErrorIs(t, err, model.ErrChallengeUnavailable)
}

func TestGenerateUpstreamErrorDegrades(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := svc.Generate(context.Background(), "Animals")
	assert.ErrorIs(t, err, model.ErrChallengeUnavailable)
}

func TestGenerateEmptyResponseDegrades(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	})

	_, err := svc.Generate(context.Background(), "Animals")
	assert.ErrorIs(t, err, model.ErrChallengeUnavailable)
}

func TestGenerateTimesOut(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	svc.cfg.Timeout = 20 * time.Millisecond
	svc.client.Timeout = 20 * time.Millisecond

	start := time.Now()
	_, err := svc.Generate(context.Background(), "Animals")
	assert.ErrorIs(t, err, model.ErrChallengeUnavailable)
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}

func TestStaticGenerator(t *testing.T) {
	static := &Static{Prompt: "Draw a cat."}

	prompt, err := static.Generate(context.Background(), "Animals")
	require.NoError(t, err)
	assert.Equal(t, "Draw a cat.", prompt)

	static.Err = model.ErrChallengeUnavailable
	_, err = static.Generate(context.Background(), "Animals")
	assert.ErrorIs(t, err, model.ErrChallengeUnavailable)
}
