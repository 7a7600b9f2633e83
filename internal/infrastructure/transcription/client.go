// Package transcription calls a Whisper-compatible transcription endpoint.
package transcription

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"focusframe-server/internal/domain/advisory"
	"focusframe-server/internal/domain/voice"
	"focusframe-server/internal/infrastructure/metrics"
)

// Client transcribes voice memos with the OpenAI audio API.
type Client struct {
	api   *openai.Client
	model string
	log   zerolog.Logger
}

// NewClient builds a client against baseURL, e.g. https://api.openai.com/v1.
func NewClient(baseURL, apiKey, model string, timeout time.Duration, log zerolog.Logger) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
		log:   log.With().Str("component", "transcription-client").Logger(),
	}
}

// Transcribe uploads the audio and returns the recognized text.
func (c *Client) Transcribe(ctx context.Context, audio voice.Audio) (string, error) {
	start := time.Now()
	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: audio.FileName(),
		Reader:   bytes.NewReader(audio.Data),
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		metrics.Transcriptions.WithLabelValues("error").Inc()
		return "", advisory.NewAdvisoryError(ctx, "transcription request failed", err)
	}

	metrics.Transcriptions.WithLabelValues("ok").Inc()
	c.log.Debug().
		Str("mime", audio.MIMEType).
		Int("bytes", len(audio.Data)).
		Dur("latency", time.Since(start)).
		Msg("voice memo transcribed")
	return resp.Text, nil
}

var _ voice.Transcriber = (*Client)(nil)
