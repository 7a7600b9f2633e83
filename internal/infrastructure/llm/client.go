// Package llm implements the recategorization advisor on top of an
// OpenAI-compatible chat completions endpoint.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"focusframe-server/internal/domain/advisory"
	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/infrastructure/metrics"
)

// Client asks a chat model whether an item sits in the right bucket.
type Client struct {
	httpClient *resty.Client
	model      string
	log        zerolog.Logger
}

// NewClient creates a Resty-backed advisor client.
func NewClient(baseURL, apiKey, model string, timeout time.Duration, log zerolog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if apiKey != "" {
		httpClient.SetAuthToken(apiKey)
	}

	return &Client{
		httpClient: httpClient,
		model:      model,
		log:        log.With().Str("component", "advisory-client").Logger(),
	}
}

// Suggest calls /v1/chat/completions with a JSON response format.
func (c *Client) Suggest(ctx context.Context, content string, bucket item.Bucket) (*item.Suggestion, error) {
	start := time.Now()
	defer func() {
		metrics.AdvisoryDuration.Observe(time.Since(start).Seconds())
	}()

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(content, bucket)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.2,
	}

	var completion openai.ChatCompletionResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&completion).
		Post("/v1/chat/completions")
	if err != nil {
		metrics.AdvisoryRequests.WithLabelValues("error").Inc()
		return nil, advisory.NewAdvisoryError(ctx, "advisory request failed", err)
	}
	if resp.IsError() {
		metrics.AdvisoryRequests.WithLabelValues("error").Inc()
		return nil, advisory.NewAdvisoryError(ctx, "advisory request failed",
			fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
	}
	if len(completion.Choices) == 0 {
		metrics.AdvisoryRequests.WithLabelValues("error").Inc()
		return nil, advisory.NewAdvisoryError(ctx, "advisory returned no choices", nil)
	}

	suggestion, err := parseReply(completion.Choices[0].Message.Content, bucket)
	if err != nil {
		metrics.AdvisoryRequests.WithLabelValues("error").Inc()
		return nil, advisory.NewAdvisoryError(ctx, "advisory reply unreadable", err)
	}

	if suggestion == nil {
		metrics.AdvisoryRequests.WithLabelValues("agreed").Inc()
	} else {
		metrics.AdvisoryRequests.WithLabelValues("suggested").Inc()
	}
	c.log.Debug().
		Str("bucket", string(bucket)).
		Bool("suggested", suggestion != nil).
		Dur("latency", time.Since(start)).
		Msg("advisory reply")
	return suggestion, nil
}

var _ advisory.Advisor = (*Client)(nil)
