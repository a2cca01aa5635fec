// Package challenge produces short drawing prompts for a room's theme by
// calling an external generative text API. Challenge delivery is best-effort
// content: callers treat a failure as a degraded result (room without a
// prompt), never as a reason to block or fail room creation.
package challenge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/quickdraw-game/quickdraw-go/internal/model"
)

// Generator produces a drawing prompt for a theme
type Generator interface {
	Generate(ctx context.Context, theme string) (string, error)
}

// Config holds settings for the generative API client
type Config struct {
	// BaseURL is the API endpoint root (e.g., https://generativelanguage.googleapis.com)
	BaseURL string
	// APIKey authenticates requests; if empty the service always degrades
	APIKey string
	// Model is the generative model name
	Model string
	// Timeout bounds each generation call
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults for the generator
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://generativelanguage.googleapis.com",
		Model:   "gemini-1.5-flash",
		Timeout: 5 * time.Second,
	}
}

// Service calls a Gemini-style generateContent endpoint
type Service struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// New creates a new challenge Service
func New(cfg Config, logger *slog.Logger) *Service {
	return &Service{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With(slog.String("component", "challenge")),
	}
}

// Ensure Service implements Generator
var _ Generator = (*Service)(nil)

// Request/response shapes for the generateContent API

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate produces a one-sentence drawing prompt for the theme
func (s *Service) Generate(ctx context.Context, theme string) (string, error) {
	if s.cfg.APIKey == "" {
		return "", model.ErrChallengeUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"Build a prompt for a quirky drawing challenge. The theme is %s. "+
			"The player has 30 seconds to draw it, so keep it simple. "+
			"Respond with exactly one sentence.", theme)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		s.cfg.BaseURL, s.cfg.Model, s.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("challenge generation request failed", slog.String("error", err.Error()))
		return "", model.ErrChallengeUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("challenge generation rejected", slog.Int("status", resp.StatusCode))
		return "", model.ErrChallengeUnavailable
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", model.ErrChallengeUnavailable
	}

	text := extractText(parsed)
	if text == "" {
		return "", model.ErrChallengeUnavailable
	}

	return text, nil
}

// extractText pulls the first candidate's text out of a response
func extractText(resp generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String())
}

// Static is a Generator that always returns a fixed prompt.
// Used in tests and when no API key is configured but a prompt is still wanted.
type Static struct {
	Prompt string
	Err    error
}

// Generate returns the fixed prompt or error
func (s *Static) Generate(ctx context.Context, theme string) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return s.Prompt, nil
}

// Ensure Static implements Generator
var _ Generator = (*Static)(nil)
