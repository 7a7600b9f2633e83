package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"focusframe-server/internal/domain/item"
)

const systemPrompt = `You are an assistant that helps users categorize action items into one of three buckets: control, influence, or acceptance.

- Control: action items that you have direct control over.
- Influence: action items that you can influence, but not directly control.
- Acceptance: action items that you must accept, as you have little to no control or influence over them.

You are given an action item and its current bucket. Analyze the action item and determine if it is miscategorized.
If the action item clearly belongs in a different bucket, suggest the correct bucket and explain your reasoning. Only suggest recategorization when there is clear evidence. If the categorization is correct, return an empty suggestedBucket.

Reply with a single JSON object:
{"suggestedBucket": "control" | "influence" | "acceptance" | "", "reasoning": "..."}`

func userPrompt(content string, bucket item.Bucket) string {
	return fmt.Sprintf("Action Item: %s\nCurrent Bucket: %s", content, bucket)
}

type advisoryReply struct {
	SuggestedBucket string `json:"suggestedBucket"`
	Reasoning       string `json:"reasoning"`
}

// parseReply turns the model output into a suggestion. An empty or
// unchanged bucket means no suggestion.
func parseReply(raw string, current item.Bucket) (*item.Suggestion, error) {
	body := strings.TrimSpace(raw)
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(body, "```")
	body = strings.TrimSpace(body)

	if start, end := strings.Index(body, "{"), strings.LastIndex(body, "}"); start >= 0 && end > start {
		body = body[start : end+1]
	}

	var reply advisoryReply
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return nil, fmt.Errorf("decode advisory reply: %w", err)
	}
	if strings.TrimSpace(reply.SuggestedBucket) == "" {
		return nil, nil
	}

	suggested, ok := item.ParseBucket(reply.SuggestedBucket)
	if !ok {
		return nil, fmt.Errorf("advisory suggested unknown bucket %q", reply.SuggestedBucket)
	}
	return item.NewSuggestion(suggested, reply.Reasoning, current), nil
}
