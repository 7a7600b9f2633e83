package item

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// SuggestionChange says what a patch does to the suggestion annotation.
type SuggestionChange int

const (
	SuggestionKeep SuggestionChange = iota
	SuggestionClear
	SuggestionSet
)

// Patch is a partial update. The identity fields id, created_at and
// owner_id have no place here, so callers cannot overwrite them.
type Patch struct {
	Content          *string
	Bucket           *Bucket
	SuggestionChange SuggestionChange
	Suggestion       *Suggestion
}

// ContentPatch edits the text and bucket together and drops any suggestion.
func ContentPatch(content string, bucket Bucket) Patch {
	return Patch{Content: &content, Bucket: &bucket, SuggestionChange: SuggestionClear}
}

// BucketPatch moves an item and drops any suggestion.
func BucketPatch(bucket Bucket) Patch {
	return Patch{Bucket: &bucket, SuggestionChange: SuggestionClear}
}

// ClearSuggestionPatch removes the suggestion and nothing else.
func ClearSuggestionPatch() Patch {
	return Patch{SuggestionChange: SuggestionClear}
}

// SuggestionPatch attaches an advisory result.
func SuggestionPatch(s Suggestion) Patch {
	return Patch{SuggestionChange: SuggestionSet, Suggestion: &s}
}

// IsEmpty reports whether applying the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Content == nil && p.Bucket == nil && p.SuggestionChange == SuggestionKeep
}

// TouchesClassification reports whether the patch edits content or bucket.
func (p Patch) TouchesClassification() bool {
	return p.Content != nil || p.Bucket != nil
}

// Normalize trims content and validates every field the patch carries.
func (p Patch) Normalize(ctx context.Context) (Patch, error) {
	if p.Content != nil {
		trimmed, err := validateContent(ctx, *p.Content)
		if err != nil {
			return Patch{}, err
		}
		p.Content = &trimmed
	}
	if p.Bucket != nil && !p.Bucket.Valid() {
		return Patch{}, NewValidationError(ctx, "bucket must be one of control, influence, acceptance")
	}
	switch p.SuggestionChange {
	case SuggestionKeep, SuggestionClear:
		p.Suggestion = nil
	case SuggestionSet:
		if p.Suggestion == nil || !p.Suggestion.SuggestedBucket.Valid() {
			return Patch{}, NewValidationError(ctx, "suggestion requires a valid suggested bucket")
		}
	default:
		return Patch{}, NewValidationError(ctx, "unknown suggestion change")
	}
	return p, nil
}

// Apply returns it with the patch applied. A suggestion that would name the
// resulting bucket is never kept.
func (p Patch) Apply(it Item) Item {
	if p.Content != nil {
		it.Content = *p.Content
	}
	if p.Bucket != nil {
		it.Bucket = *p.Bucket
	}
	switch p.SuggestionChange {
	case SuggestionClear:
		it.Suggestion = nil
	case SuggestionSet:
		if p.Suggestion != nil {
			s := *p.Suggestion
			it.Suggestion = &s
		}
	}
	if it.Suggestion != nil && it.Suggestion.SuggestedBucket == it.Bucket {
		it.Suggestion = nil
	}
	return it
}

var protectedFields = map[string]struct{}{
	"id":         {},
	"createdAt":  {},
	"created_at": {},
	"ownerId":    {},
	"owner_id":   {},
	"userId":     {},
	"user_id":    {},
}

// PatchFromFields decodes a loose field map, as sent by PATCH requests.
// Identity fields are silently stripped. A null suggestion clears it.
func PatchFromFields(ctx context.Context, fields map[string]any) (Patch, error) {
	var p Patch
	var unknown []string

	for key, raw := range fields {
		if _, ok := protectedFields[key]; ok {
			continue
		}
		switch key {
		case "content":
			s, ok := raw.(string)
			if !ok {
				return Patch{}, NewValidationError(ctx, "content must be a string")
			}
			p.Content = &s
		case "bucket":
			s, ok := raw.(string)
			if !ok {
				return Patch{}, NewValidationError(ctx, "bucket must be a string")
			}
			b, valid := ParseBucket(s)
			if !valid {
				return Patch{}, NewValidationError(ctx, fmt.Sprintf("unknown bucket %q", s))
			}
			p.Bucket = &b
		case "suggestion":
			if raw == nil {
				p.SuggestionChange = SuggestionClear
				continue
			}
			obj, ok := raw.(map[string]any)
			if !ok {
				return Patch{}, NewValidationError(ctx, "suggestion must be an object or null")
			}
			s, err := suggestionFromFields(ctx, obj)
			if err != nil {
				return Patch{}, err
			}
			p.SuggestionChange = SuggestionSet
			p.Suggestion = &s
		default:
			unknown = append(unknown, key)
		}
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Patch{}, NewValidationError(ctx, "unknown fields: "+strings.Join(unknown, ", "))
	}
	return p.Normalize(ctx)
}

func suggestionFromFields(ctx context.Context, obj map[string]any) (Suggestion, error) {
	raw, ok := obj["suggested_bucket"]
	if !ok {
		raw = obj["suggestedBucket"]
	}
	s, _ := raw.(string)
	b, valid := ParseBucket(s)
	if !valid {
		return Suggestion{}, NewValidationError(ctx, "suggestion requires a valid suggested bucket")
	}
	reasoning, _ := obj["reasoning"].(string)
	return Suggestion{SuggestedBucket: b, Reasoning: strings.TrimSpace(reasoning)}, nil
}
