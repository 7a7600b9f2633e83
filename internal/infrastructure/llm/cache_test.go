package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusframe-server/internal/domain/item"
)

type countingAdvisor struct {
	calls int
	reply *item.Suggestion
	err   error
}

func (a *countingAdvisor) Suggest(context.Context, string, item.Bucket) (*item.Suggestion, error) {
	a.calls++
	return a.reply, a.err
}

func TestCachedAdvisorReusesReplies(t *testing.T) {
	next := &countingAdvisor{reply: &item.Suggestion{SuggestedBucket: item.BucketInfluence, Reasoning: "r"}}
	c, err := NewCachedAdvisor(next, 8)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := c.Suggest(ctx, "Finish report", item.BucketControl)
	require.NoError(t, err)
	first.Reasoning = "mutated by caller"

	second, err := c.Suggest(ctx, "Finish report", item.BucketControl)
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, "r", second.Reasoning)

	_, err = c.Suggest(ctx, "Finish report", item.BucketAcceptance)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls, "bucket is part of the key")
}

func TestCachedAdvisorCachesAgreement(t *testing.T) {
	next := &countingAdvisor{}
	c, err := NewCachedAdvisor(next, 8)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		s, err := c.Suggest(context.Background(), "Call plumber", item.BucketControl)
		require.NoError(t, err)
		assert.Nil(t, s)
	}
	assert.Equal(t, 1, next.calls)
}

func TestCachedAdvisorSkipsFailures(t *testing.T) {
	next := &countingAdvisor{err: errors.New("timeout")}
	c, err := NewCachedAdvisor(next, 8)
	require.NoError(t, err)

	_, err = c.Suggest(context.Background(), "Finish report", item.BucketControl)
	require.Error(t, err)
	_, err = c.Suggest(context.Background(), "Finish report", item.BucketControl)
	require.Error(t, err)
	assert.Equal(t, 2, next.calls)
}
