package itemres

import (
	"time"

	"focusframe-server/internal/domain/item"
)

// SuggestionResponse is the advisory annotation of an item.
type SuggestionResponse struct {
	SuggestedBucket string `json:"suggested_bucket"`
	Reasoning       string `json:"reasoning"`
}

// ItemResponse represents a single item.
type ItemResponse struct {
	ID         string              `json:"id"`
	Object     string              `json:"object"`
	Content    string              `json:"content"`
	Bucket     string              `json:"bucket"`
	CreatedAt  time.Time           `json:"created_at"`
	Suggestion *SuggestionResponse `json:"suggestion,omitempty"`
}

// ItemListResponse is an ordered snapshot, newest first.
type ItemListResponse struct {
	Object string         `json:"object"`
	Data   []ItemResponse `json:"data"`
	Total  int            `json:"total"`
}

// ItemCreatedResponse acknowledges a create.
type ItemCreatedResponse struct {
	ID     string `json:"id"`
	Object string `json:"object"`
}

// ItemMovedResponse reports whether a move wrote anything.
type ItemMovedResponse struct {
	ID     string `json:"id"`
	Bucket string `json:"bucket"`
	Moved  bool   `json:"moved"`
}

// ItemDeletedResponse acknowledges a delete.
type ItemDeletedResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// TranscriptionResponse carries recognized voice memo text.
type TranscriptionResponse struct {
	Transcription string `json:"transcription"`
}

// VoiceItemResponse is returned when a voice memo became an item.
type VoiceItemResponse struct {
	ID            string `json:"id"`
	Object        string `json:"object"`
	Transcription string `json:"transcription"`
}

// NewItemResponse converts a domain item.
func NewItemResponse(it item.Item) ItemResponse {
	resp := ItemResponse{
		ID:        it.ID,
		Object:    "item",
		Content:   it.Content,
		Bucket:    string(it.Bucket),
		CreatedAt: it.CreatedAt,
	}
	if it.Suggestion != nil {
		resp.Suggestion = &SuggestionResponse{
			SuggestedBucket: string(it.Suggestion.SuggestedBucket),
			Reasoning:       it.Suggestion.Reasoning,
		}
	}
	return resp
}

// NewItemListResponse converts an ordered snapshot.
func NewItemListResponse(items []item.Item) ItemListResponse {
	data := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		data = append(data, NewItemResponse(it))
	}
	return ItemListResponse{Object: "list", Data: data, Total: len(data)}
}
