package item

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxContentLength bounds the item text in characters.
const MaxContentLength = 1000

// Item is a single user-entered concern filed under exactly one bucket.
type Item struct {
	ID         string      `json:"id"`
	OwnerID    string      `json:"owner_id"`
	Content    string      `json:"content"`
	Bucket     Bucket      `json:"bucket"`
	CreatedAt  time.Time   `json:"created_at"`
	Suggestion *Suggestion `json:"suggestion,omitempty"`
}

// Suggestion is the advisory annotation proposing a different bucket.
type Suggestion struct {
	SuggestedBucket Bucket `json:"suggested_bucket"`
	Reasoning       string `json:"reasoning"`
}

// NewSuggestion returns nil when the suggestion would not move the item.
func NewSuggestion(suggested Bucket, reasoning string, current Bucket) *Suggestion {
	if !suggested.Valid() || suggested == current {
		return nil
	}
	return &Suggestion{SuggestedBucket: suggested, Reasoning: strings.TrimSpace(reasoning)}
}

// Draft is the validated input for creating an item.
type Draft struct {
	Content string
	Bucket  Bucket
}

// NewDraft trims and validates user input for a new item.
func NewDraft(ctx context.Context, content string, bucket Bucket) (Draft, error) {
	trimmed, err := validateContent(ctx, content)
	if err != nil {
		return Draft{}, err
	}
	if !bucket.Valid() {
		return Draft{}, NewValidationError(ctx, "bucket must be one of control, influence, acceptance")
	}
	return Draft{Content: trimmed, Bucket: bucket}, nil
}

func validateContent(ctx context.Context, content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", NewValidationError(ctx, "content is required")
	}
	if utf8.RuneCountInString(trimmed) > MaxContentLength {
		return "", NewValidationError(ctx, "content is too long")
	}
	return trimmed, nil
}
