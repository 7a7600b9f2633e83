package itemreq

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusframe-server/internal/domain/item"
)

func TestValidate(t *testing.T) {
	ctx := context.Background()
	v := NewValidator()

	require.NoError(t, Validate(ctx, v, CreateItemRequest{Content: "Finish report"}))
	require.NoError(t, Validate(ctx, v, CreateItemRequest{Content: "Finish report", Bucket: "Influence"}))
	require.NoError(t, Validate(ctx, v, MoveItemRequest{Bucket: "acceptance"}))

	err := Validate(ctx, v, CreateItemRequest{Content: "x", Bucket: "someday"})
	require.Error(t, err)
	assert.True(t, item.IsValidationError(err))
	assert.Contains(t, err.Error(), "bucket must be one of control, influence, acceptance")

	err = Validate(ctx, v, MoveItemRequest{})
	assert.Contains(t, err.Error(), "bucket is required")

	err = Validate(ctx, v, EditItemRequest{Content: strings.Repeat("é", 1001), Bucket: "control"})
	assert.Contains(t, err.Error(), "content must be at most 1000 characters")

	padded := "  " + strings.Repeat("é", item.MaxContentLength) + "\n"
	require.NoError(t, Validate(ctx, v, CreateItemRequest{Content: padded}))

	err = Validate(ctx, v, CreateItemRequest{Content: "   "})
	assert.Contains(t, err.Error(), "content is required")

	err = Validate(ctx, v, TranscriptionRequest{Audio: "https://example.com/a.webm"})
	assert.Contains(t, err.Error(), "audio must be a data URI")
}
